// Copyright 2025 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package logging_test

import (
	"bytes"
	"io"
	"log/slog"
	"slices"
	"testing"
	"time"

	"cloudeng.io/datetime"
	"github.com/cosnicolaou/dstguard/internal/logging"
)

func TestLogs(t *testing.T) {
	out := &bytes.Buffer{}
	logger := slog.New(slog.NewJSONHandler(out, nil))

	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatal(err)
	}
	original := time.Date(2025, 11, 2, 14, 0, 0, 0, loc)
	adjusted := original.Add(time.Hour)
	today := datetime.CalendarDateFromTime(original)

	logging.WriteRemediated(logger, "lesson-1", loc.String(), today, original, adjusted,
		"time-adjusted", "time_adjusted", "adjusted", 1, 2)
	logging.WriteRemediationFailed(logger, "lesson-2", "Nowhere/Special", original, io.EOF)
	logging.WriteConversionFallback(logger, logging.LocalToAbsolute, "Nowhere/Special", "UTC", original, adjusted, io.EOF)
	logging.WriteConversionPassthrough(logger, logging.AbsoluteToLocal, "Nowhere/Special", "", original, io.EOF)
	logging.WriteBatch(logger, 2, 1, 1, time.Second)

	var logs []logging.Entry
	sc := logging.NewScanner(out)
	for le := range sc.Entries() {
		logs = append(logs, le)
	}
	if sc.Err() != nil {
		t.Fatalf("error scanning logs: %v", sc.Err())
	}
	if got, want := len(logs), 5; got != want {
		t.Fatalf("got %v, want %v", got, want)
	}

	le := logs[0]
	if got, want := le.Msg, logging.LogRemediated; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if got, want := le.ID, "lesson-1"; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if got, want := le.Date, today; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if got, want := le.Original, original; !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if got, want := le.Original.Location().String(), loc.String(); got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if got, want := le.Adjusted, adjusted; !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if got, want := le.Warnings, 1; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if got, want := le.Notifications, 2; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if !le.WasChanged() {
		t.Errorf("expected entry to be changed")
	}

	le = logs[1]
	if got, want := le.Msg, logging.LogRemediationFailed; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if got, want := le.Err.Error(), "EOF"; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if le.WasChanged() {
		t.Errorf("expected entry to be unchanged")
	}

	if got, want := logs[2].Msg, logging.LogConversionFallback; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if got, want := logs[2].Fallback, "UTC"; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if got, want := logs[3].Direction, logging.AbsoluteToLocal; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if got, want := logs[3].Level, "WARN"; got != want {
		t.Errorf("got %v, want %v", got, want)
	}

	le = logs[4]
	if got, want := le.Msg, logging.LogBatch; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if got, want := []int{le.Events, le.Changed, le.Failed}, []int{2, 1, 1}; !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if got, want := le.Took, time.Second; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestStatusRecorder(t *testing.T) {
	sr := logging.NewStatusRecorder()
	a := sr.NewPending(&logging.StatusRecord{EventID: "a"})
	b := sr.NewPending(&logging.StatusRecord{EventID: "b"})
	if got, want := a.Status(), "pending"; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	sr.PendingDone(a, "rescheduled", nil)
	sr.PendingDone(b, "", io.EOF)

	var completed, pending []string
	for r := range sr.Completed() {
		completed = append(completed, r.EventID+":"+r.Status())
	}
	for r := range sr.Pending() {
		pending = append(pending, r.EventID)
	}
	if got, want := completed, []string{"a:rescheduled", "b:failed"}; !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if got, want := len(pending), 0; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	sr.ResetCompleted()
	n := 0
	for range sr.Completed() {
		n++
	}
	if got, want := n, 0; got != want {
		t.Errorf("got %v, want %v", got, want)
	}

	var nilRecorder *logging.StatusRecorder
	rec := nilRecorder.NewPending(&logging.StatusRecord{EventID: "c"})
	nilRecorder.PendingDone(rec, "no_change", nil)
	if got, want := rec.Status(), "pending"; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}
