// Copyright 2025 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package logging

import (
	"bufio"
	"encoding/json"
	"errors"
	"io"
	"iter"
	"time"

	"cloudeng.io/datetime"
)

type logEntry struct {
	Msg           string    `json:"msg"`
	Level         string    `json:"level"`
	Mod           string    `json:"mod"`
	ID            string    `json:"id"`
	Zone          string    `json:"zone"`
	Fallback      string    `json:"fallback"`
	Direction     string    `json:"direction"`
	Date          Date      `json:"date"`
	Original      time.Time `json:"original"`
	Adjusted      time.Time `json:"adjusted"`
	In            time.Time `json:"in"`
	Out           time.Time `json:"out"`
	State         string    `json:"state"`
	Change        string    `json:"change"`
	Reason        string    `json:"reason"`
	Warnings      int       `json:"#warnings"`
	Notifications int       `json:"#notifications"`
	Events        int       `json:"#events"`
	Changed       int       `json:"#changed"`
	Failed        int       `json:"#failed"`
	Took          int64     `json:"took"`
	Err           string    `json:"err"`
}

// Entry represents a single parsed log line.
type Entry struct {
	logEntry

	Date     datetime.CalendarDate
	Original time.Time
	Adjusted time.Time
	Took     time.Duration
	Err      error
	LogEntry string // Original log line
}

// ParseLogLine parses a single JSON log line. Times are converted to
// the logged zone when that zone is known.
func ParseLogLine(line string) (Entry, error) {
	var le Entry
	le.LogEntry = line
	if err := json.Unmarshal([]byte(line), &le.logEntry); err != nil {
		return le, err
	}
	le.Date = datetime.CalendarDate(le.logEntry.Date)
	le.Original = le.logEntry.Original
	le.Adjusted = le.logEntry.Adjusted
	if le.Zone != "" {
		if loc, err := time.LoadLocation(le.Zone); err == nil {
			le.Original = le.Original.In(loc)
			if !le.Adjusted.IsZero() {
				le.Adjusted = le.Adjusted.In(loc)
			}
		}
	}
	le.Took = time.Duration(le.logEntry.Took)
	if e := le.logEntry.Err; e != "" {
		le.Err = errors.New(e)
	}
	return le, nil
}

// WasChanged returns true if the entry records an event whose time was changed.
func (le Entry) WasChanged() bool {
	return le.Msg == LogRemediated && !le.Adjusted.IsZero()
}

type Scanner struct {
	sc  *bufio.Scanner
	err error
}

func NewScanner(rd io.Reader) *Scanner {
	return &Scanner{sc: bufio.NewScanner(rd)}
}

// Entries returns an iterator for over the Scanner's Entry's. Note
// that the iterator will stop if an error is encountered and that the
// Scanner's Err method should be checked after the iterator has completed.
func (ls *Scanner) Entries() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		for {
			if !ls.sc.Scan() {
				ls.err = ls.sc.Err()
				return
			}
			line := ls.sc.Text()
			if len(line) == 0 {
				continue
			}
			le, err := ParseLogLine(line)
			if err != nil {
				ls.err = err
				return
			}
			if !yield(le) {
				return
			}
		}
	}
}

func (ls *Scanner) Err() error {
	return ls.err
}
