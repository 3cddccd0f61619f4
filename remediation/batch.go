// Copyright 2025 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package remediation

import (
	"context"
	"fmt"
	"time"

	"cloudeng.io/errors"
	"cloudeng.io/sync/errgroup"
	"github.com/cosnicolaou/dstguard/internal/logging"
)

// ErrInvalidDate is returned for events that have no date.
var ErrInvalidDate = errors.New("invalid or missing event date")

// EventRef identifies an event to be remediated.
type EventRef struct {
	ID       string
	Date     time.Time
	Timezone string
}

// Result is the result of remediating a single event within a batch.
type Result struct {
	EventID string
	Outcome Outcome
	Err     error
}

type ApplyOption func(o *applyOptions)

type applyOptions struct {
	concurrency int
	recorder    *logging.StatusRecorder
}

// WithConcurrency sets the maximum number of events that are remediated
// concurrently, the default is 1.
func WithConcurrency(n int) ApplyOption {
	return func(o *applyOptions) {
		o.concurrency = n
	}
}

// WithStatusRecorder sets a status recorder that tracks the pending and
// completed events in a batch.
func WithStatusRecorder(sr *logging.StatusRecorder) ApplyOption {
	return func(o *applyOptions) {
		o.recorder = sr
	}
}

// Apply remediates each of the supplied events using p and returns
// exactly one Result per event in the same order as events. A failure,
// including a panic, while remediating one event is recorded in its
// Result and does not affect the others. Events that have not been
// started when ctx is canceled are returned with ctx.Err().
func (e *Engine) Apply(ctx context.Context, events []EventRef, p Policy, opts ...ApplyOption) []Result {
	var o applyOptions
	for _, fn := range opts {
		fn(&o)
	}
	if o.concurrency < 1 {
		o.concurrency = 1
	}
	start := time.Now()
	results := make([]Result, len(events))
	if len(events) == 0 {
		logging.WriteBatch(e.logger, 0, 0, 0, time.Since(start))
		return results
	}

	// applyOne records failures in each Result, so Wait never
	// returns an error.
	g := errgroup.WithConcurrency(&errgroup.T{}, o.concurrency)
	for i, ev := range events {
		g.Go(func() error {
			results[i] = e.applyOne(ctx, ev, p, o.recorder)
			return nil
		})
	}
	g.Wait() //nolint:errcheck

	changed, failed := 0, 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			continue
		}
		if r.Outcome.Change != ChangeNone {
			changed++
		}
	}
	logging.WriteBatch(e.logger, len(events), changed, failed, time.Since(start))
	return results
}

func (e *Engine) applyOne(ctx context.Context, ev EventRef, p Policy, recorder *logging.StatusRecorder) (res Result) {
	res = Result{
		EventID: ev.ID,
		Outcome: Outcome{
			OriginalDate: ev.Date,
			State:        AffectedNoAction,
			Change:       ChangeNone,
		},
	}
	sr := recorder.NewPending(&logging.StatusRecord{
		EventID: ev.ID,
		Zone:    ev.Timezone,
		Due:     ev.Date,
	})
	defer func() {
		if r := recover(); r != nil {
			res.Err = fmt.Errorf("event %q: remediation panicked: %v", ev.ID, r)
		}
		if res.Err != nil {
			res.Outcome.State = AffectedNoAction
			res.Outcome.Change = ChangeNone
			res.Outcome.AdjustedDate = time.Time{}
			res.Outcome.Reason = "remediation failed"
			res.Outcome.Warnings = append(res.Outcome.Warnings, res.Err.Error())
			logging.WriteRemediationFailed(e.logger, ev.ID, ev.Timezone, ev.Date, res.Err)
		}
		recorder.PendingDone(sr, string(res.Outcome.Change), res.Err)
	}()
	if err := ctx.Err(); err != nil {
		res.Err = err
		return
	}
	if ev.Date.IsZero() {
		res.Err = fmt.Errorf("event %q: %w", ev.ID, ErrInvalidDate)
		return
	}
	res.Outcome = e.Remediate(ev.Date, ev.Timezone, p)
	adjusted, _ := res.Outcome.Adjusted()
	loc, _ := e.location(ev.Date, ev.Timezone)
	logging.WriteRemediated(e.logger, ev.ID, ev.Timezone, dateOf(ev.Date.In(loc)),
		ev.Date, adjusted, res.Outcome.State.String(), string(res.Outcome.Change),
		res.Outcome.Reason, len(res.Outcome.Warnings), len(res.Outcome.Notifications))
	return
}

// Errors returns an error that aggregates all of the per-event errors
// in results, or nil if there are none.
func Errors(results []Result) error {
	var errs errors.M
	for _, r := range results {
		if r.Err != nil {
			errs.Append(r.Err)
		}
	}
	return errs.Err()
}
