// Copyright 2025 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"cloudeng.io/datetime"
	"github.com/cosnicolaou/dstguard/events"
)

func newLogfile(name string) (io.WriteCloser, error) {
	return os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
}

func setupLogging(logfile string) (*slog.Logger, func(), error) {
	if len(logfile) == 0 {
		return slog.New(slog.NewJSONHandler(io.Discard, nil)), func() {}, nil
	}
	f, err := newLogfile(logfile)
	if err != nil {
		return nil, func() {}, fmt.Errorf("failed to open log file: %q: %w", logfile, err)
	}
	return slog.New(slog.NewJSONHandler(f, nil)), func() { f.Close() }, nil
}

func loadLocation(tz string) (*time.Location, error) {
	if len(tz) == 0 {
		return time.Local, nil
	}
	return time.LoadLocation(tz)
}

// parseDateRange parses a date range, or if none is specified, returns
// a range covering the current year.
func parseDateRange(val string) (datetime.CalendarDateRange, error) {
	var dr datetime.CalendarDateRange
	if len(val) == 0 {
		year := time.Now().Year()
		return datetime.NewCalendarDateRange(
			datetime.NewCalendarDate(year, 1, 1),
			datetime.NewCalendarDate(year, 12, 31)), nil
	}
	if err := dr.Parse(val); err != nil {
		return dr, fmt.Errorf("invalid date range: %q: %w", val, err)
	}
	return dr, nil
}

// parseLocalOrRFC3339 parses val as either an RFC3339 instant or as
// a local wall clock time that is returned with a UTC location.
func parseLocalOrRFC3339(val string) (time.Time, bool, error) {
	if t, err := time.Parse(time.RFC3339, val); err == nil {
		return t, true, nil
	}
	t, err := time.Parse(events.LocalLayout, val)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("invalid date: %q: must be in RFC3339 or %v format", val, events.LocalLayout)
	}
	return t, false, nil
}
