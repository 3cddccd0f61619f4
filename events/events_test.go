// Copyright 2025 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package events_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"cloudeng.io/datetime"
	"github.com/cosnicolaou/dstguard/events"
	"github.com/cosnicolaou/dstguard/internal/testutil"
	"github.com/cosnicolaou/dstguard/tzconv"
	"github.com/google/uuid"
)

const eventsSpec = `
time_zone: America/New_York
fallback_time_zone: UTC
events:
  - id: piano
    date: 2025-11-02T14:00
  - id: violin
    date: 2025-03-09T10:30
    time_zone: America/Los_Angeles
  - id: exact
    date: 2025-07-04T18:00:00Z
  - date: 2025-06-01T09:00
  - id: weekly
    date: 2025-10-19T16:00
    rrule: FREQ=WEEKLY;COUNT=4
`

func loadLocation(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	if err != nil {
		t.Fatal(err)
	}
	return loc
}

var noRange datetime.CalendarDateRange

func dateRange(from, to datetime.CalendarDate) datetime.CalendarDateRange {
	return datetime.NewCalendarDateRange(from, to)
}

func TestConfigEvents(t *testing.T) {
	ctx := context.Background()
	ny := loadLocation(t, "America/New_York")
	la := loadLocation(t, "America/Los_Angeles")
	cfg, err := events.ParseConfig(ctx, []byte(eventsSpec))
	if err != nil {
		t.Fatal(err)
	}
	if got, want := cfg.TimeZone.Name(), "America/New_York"; got != want {
		t.Errorf("got %v, want %v", got, want)
	}

	nd := datetime.NewCalendarDate
	refs, err := cfg.Occurrences(dateRange(nd(2025, 1, 1), nd(2025, 12, 31)))
	if err != nil {
		t.Fatal(err)
	}
	if got, want := len(refs), 8; got != want {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i, tc := range []struct {
		id   string
		zone string
		when time.Time
	}{
		{"piano", "America/New_York", time.Date(2025, 11, 2, 14, 0, 0, 0, ny)},
		{"violin", "America/Los_Angeles", time.Date(2025, 3, 9, 10, 30, 0, 0, la)},
		{"exact", "America/New_York", time.Date(2025, 7, 4, 18, 0, 0, 0, time.UTC)},
		{"", "America/New_York", time.Date(2025, 6, 1, 9, 0, 0, 0, ny)},
		{"weekly@2025-10-19", "America/New_York", time.Date(2025, 10, 19, 16, 0, 0, 0, ny)},
		{"weekly@2025-10-26", "America/New_York", time.Date(2025, 10, 26, 16, 0, 0, 0, ny)},
		{"weekly@2025-11-02", "America/New_York", time.Date(2025, 11, 2, 16, 0, 0, 0, ny)},
		{"weekly@2025-11-09", "America/New_York", time.Date(2025, 11, 9, 16, 0, 0, 0, ny)},
	} {
		ref := refs[i]
		if len(tc.id) > 0 {
			if got, want := ref.ID, tc.id; got != want {
				t.Errorf("%v: got %v, want %v", i, got, want)
			}
		} else if _, err := uuid.Parse(ref.ID); err != nil {
			t.Errorf("%v: %v: not a uuid: %v", i, ref.ID, err)
		}
		if got, want := ref.Timezone, tc.zone; got != want {
			t.Errorf("%v: got %v, want %v", i, got, want)
		}
		if got, want := ref.Date, tc.when; !got.Equal(want) {
			t.Errorf("%v: got %v, want %v", i, got, want)
		}
	}

	// Only the events within the range are returned.
	refs, err = cfg.Occurrences(dateRange(nd(2025, 10, 25), nd(2025, 11, 3)))
	if err != nil {
		t.Fatal(err)
	}
	var ids []string
	for _, r := range refs {
		ids = append(ids, r.ID)
	}
	if got, want := strings.Join(ids, ","), "piano,weekly@2025-10-26,weekly@2025-11-02"; got != want {
		t.Errorf("got %v, want %v", got, want)
	}

	// A range is required for recurring events.
	if _, err := cfg.Occurrences(noRange); err == nil || !strings.Contains(err.Error(), "date range is required") {
		t.Errorf("unexpected or missing error: %v", err)
	}
}

func TestConfigFile(t *testing.T) {
	ctx := context.Background()
	tmp := filepath.Join(t.TempDir(), "events.yaml")
	if err := os.WriteFile(tmp, []byte(eventsSpec), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := events.ParseConfigFile(ctx, tmp)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := len(cfg.Events), 5; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestConfigErrors(t *testing.T) {
	ctx := context.Background()
	spec := `
time_zone: America/New_York
events:
  - id: a
  - id: a
    date: 2025-11-02T14:00
    time_zone: Not/AZone
  - id: b
    date: 2025-11-02T14:00
    rrule: FREQ=SOMETIMES
`
	_, err := events.ParseConfig(ctx, []byte(spec))
	if err == nil {
		t.Fatal("expected an error")
	}
	for _, msg := range []string{"missing date", "duplicate id", "Not/AZone", "invalid rrule"} {
		if !strings.Contains(err.Error(), msg) {
			t.Errorf("%v does not contain %v", err, msg)
		}
	}
	if _, err := events.ParseConfig(ctx, []byte("time_zone: Not/AZone\n")); err == nil {
		t.Errorf("expected an error")
	}

	cfg, err := events.ParseConfig(ctx, []byte("events:\n  - id: x\n    date: tomorrow\n"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := cfg.Occurrences(noRange); err == nil || !strings.Contains(err.Error(), "invalid date") {
		t.Errorf("unexpected or missing error: %v", err)
	}
}

const icsCalendar = "BEGIN:VCALENDAR\r\n" +
	"VERSION:2.0\r\n" +
	"PRODID:-//dstguard//test//EN\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:lesson-1\r\n" +
	"DTSTAMP:20250101T000000Z\r\n" +
	"DTSTART;TZID=America/New_York:20251102T140000\r\n" +
	"SUMMARY:Piano\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:lesson-2\r\n" +
	"DTSTAMP:20250101T000000Z\r\n" +
	"DTSTART:20250309T150000Z\r\n" +
	"SUMMARY:Violin\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:lesson-3\r\n" +
	"DTSTAMP:20250101T000000Z\r\n" +
	"DTSTART:20250310T090000\r\n" +
	"RRULE:FREQ=DAILY;COUNT=2\r\n" +
	"SUMMARY:Cello\r\n" +
	"END:VEVENT\r\n" +
	"END:VCALENDAR\r\n"

func TestParseICS(t *testing.T) {
	ny := loadLocation(t, "America/New_York")
	chi := loadLocation(t, "America/Chicago")
	nd := datetime.NewCalendarDate
	refs, err := events.ParseICS(strings.NewReader(icsCalendar), "America/Chicago",
		dateRange(nd(2025, 1, 1), nd(2025, 12, 31)))
	if err != nil {
		t.Fatal(err)
	}
	if got, want := len(refs), 4; got != want {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i, tc := range []struct {
		id   string
		zone string
		when time.Time
	}{
		{"lesson-1", "America/New_York", time.Date(2025, 11, 2, 14, 0, 0, 0, ny)},
		{"lesson-2", "America/Chicago", time.Date(2025, 3, 9, 15, 0, 0, 0, time.UTC)},
		{"lesson-3@2025-03-10", "America/Chicago", time.Date(2025, 3, 10, 9, 0, 0, 0, chi)},
		{"lesson-3@2025-03-11", "America/Chicago", time.Date(2025, 3, 11, 9, 0, 0, 0, chi)},
	} {
		if got, want := refs[i].ID, tc.id; got != want {
			t.Errorf("%v: got %v, want %v", i, got, want)
		}
		if got, want := refs[i].Timezone, tc.zone; got != want {
			t.Errorf("%v: got %v, want %v", i, got, want)
		}
		if got, want := refs[i].Date, tc.when; !got.Equal(want) {
			t.Errorf("%v: got %v, want %v", i, got, want)
		}
	}
}

func TestTransitionHourEvents(t *testing.T) {
	ctx := context.Background()
	ny := loadLocation(t, "America/New_York")
	spec := `
time_zone: America/New_York
events:
  - id: repeated
    date: 2025-11-02T01:30
  - id: skipped
    date: 2025-03-09T02:30
`
	cfg, err := events.ParseConfig(ctx, []byte(spec))
	if err != nil {
		t.Fatal(err)
	}
	refs, err := cfg.Occurrences(noRange)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := len(refs), 2; got != want {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i, want := range []datetime.CalendarDate{
		datetime.NewCalendarDate(2025, 11, 2),
		datetime.NewCalendarDate(2025, 3, 9),
	} {
		if got := datetime.CalendarDateFromTime(refs[i].Date.In(ny)); got != want {
			t.Errorf("%v: got %v, want %v", i, got, want)
		}
	}
}

func TestConverterFallbackZone(t *testing.T) {
	ctx := context.Background()
	me := testutil.NewMockEngine().Fail("America/New_York", tzconv.ErrUnknownZone)
	spec := `
time_zone: America/New_York
fallback_time_zone: America/Chicago
events:
  - id: piano
    date: 2025-07-04T14:00
`
	cfg, err := events.ParseConfig(ctx, []byte(spec), events.WithConverter(tzconv.New(tzconv.WithEngine(me))))
	if err != nil {
		t.Fatal(err)
	}
	refs, err := cfg.Occurrences(noRange)
	if err != nil {
		t.Fatal(err)
	}
	chi := loadLocation(t, "America/Chicago")
	if got, want := refs[0].Date, time.Date(2025, 7, 4, 14, 0, 0, 0, chi); !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if got, want := len(me.Calls()), 2; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestStableIDs(t *testing.T) {
	ctx := context.Background()
	cfg, err := events.ParseConfig(ctx, []byte(eventsSpec))
	if err != nil {
		t.Fatal(err)
	}
	nd := datetime.NewCalendarDate
	within := dateRange(nd(2025, 6, 1), nd(2025, 6, 1))
	first, err := cfg.Occurrences(within)
	if err != nil {
		t.Fatal(err)
	}
	second, err := cfg.Occurrences(within)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := len(first), 1; got != want {
		t.Fatalf("got %v, want %v", got, want)
	}
	if got, want := first[0].ID, second[0].ID; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if _, err := uuid.Parse(first[0].ID); err != nil {
		t.Errorf("%v: not a uuid: %v", first[0].ID, err)
	}
	if got, want := events.StableID("2025-06-01T09:00", "America/New_York", ""), events.StableID("2025-06-01T09:00", "America/Chicago", ""); got == want {
		t.Errorf("ids for different zones should differ: %v", got)
	}

	cal := "BEGIN:VCALENDAR\r\n" +
		"VERSION:2.0\r\n" +
		"PRODID:-//dstguard//test//EN\r\n" +
		"BEGIN:VEVENT\r\n" +
		"DTSTAMP:20250101T000000Z\r\n" +
		"DTSTART;TZID=America/New_York:20251102T140000\r\n" +
		"END:VEVENT\r\n" +
		"END:VCALENDAR\r\n"
	var ids []string
	for range 2 {
		refs, err := events.ParseICS(strings.NewReader(cal), "UTC", noRange)
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, refs[0].ID)
	}
	if got, want := ids[0], ids[1]; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if got, want := ids[0], events.StableID("20251102T140000", "America/New_York", ""); got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestOccurrencesRangeIsInclusive(t *testing.T) {
	ctx := context.Background()
	cfg, err := events.ParseConfig(ctx, []byte(eventsSpec))
	if err != nil {
		t.Fatal(err)
	}
	nd := datetime.NewCalendarDate
	refs, err := cfg.Occurrences(dateRange(nd(2025, 11, 2), nd(2025, 11, 2)))
	if err != nil {
		t.Fatal(err)
	}
	var ids []string
	for _, r := range refs {
		ids = append(ids, r.ID)
	}
	if got, want := strings.Join(ids, ","), "piano,weekly@2025-11-02"; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}
