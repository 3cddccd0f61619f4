// Copyright 2025 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package logging

import (
	"iter"
	"sync"
	"time"

	"cloudeng.io/algo/container/list"
)

// StatusRecorder tracks events that are pending remediation and those
// that have been completed. A nil *StatusRecorder is valid and records
// nothing.
type StatusRecorder struct {
	mu      sync.Mutex
	done    []*StatusRecord
	waiting *list.Double[*StatusRecord]
}

func NewStatusRecorder() *StatusRecorder {
	return &StatusRecorder{
		done:    make([]*StatusRecord, 0, 1000),
		waiting: list.NewDouble[*StatusRecord](),
	}
}

type StatusRecord struct {
	EventID string
	Zone    string
	Due     time.Time

	// The following fields are filled in by the status recorder.
	Pending   time.Time // Time the event was added to the pending list, set by NewPending
	Completed time.Time // Time the event was completed, set by PendingDone
	Change    string    // Set using the argument to PendingDone
	Error     error     // Set using the argument to PendingDone

	listID list.DoubleID[*StatusRecord]
}

func (sr *StatusRecord) Status() string {
	if sr.Completed.IsZero() {
		return "pending"
	}
	if sr.Error != nil {
		return "failed"
	}
	return sr.Change
}

func (sr *StatusRecord) ErrorMessage() string {
	if sr.Error == nil {
		return ""
	}
	return sr.Error.Error()
}

func (s *StatusRecorder) NewPending(sr *StatusRecord) *StatusRecord {
	if s == nil || sr == nil {
		return sr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sr.listID = s.waiting.Append(sr)
	sr.Pending = time.Now()
	return sr
}

func (s *StatusRecorder) PendingDone(sr *StatusRecord, change string, err error) {
	if s == nil || sr == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sr.Completed = time.Now()
	sr.Change = change
	sr.Error = err
	s.done = append(s.done, sr)
	s.waiting.RemoveItem(sr.listID)
}

func (s *StatusRecorder) Completed() iter.Seq[*StatusRecord] {
	return func(yield func(*StatusRecord) bool) {
		s.mu.Lock()
		defer s.mu.Unlock()
		for _, sr := range s.done {
			if !yield(sr) {
				return
			}
		}
	}
}

func (s *StatusRecorder) Pending() iter.Seq[*StatusRecord] {
	return func(yield func(*StatusRecord) bool) {
		s.mu.Lock()
		defer s.mu.Unlock()
		for sr := range s.waiting.Forward() {
			if !yield(sr) {
				return
			}
		}
	}
}

func (s *StatusRecorder) ResetCompleted() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.done = s.done[:0]
}
