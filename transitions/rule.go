// Copyright 2025 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package transitions computes the dates of daylight saving time
// transitions for a year and classifies dates as being affected by them.
//
// Transitions are computed from a Rule rather than being derived from the
// timezone database so that the rule in force is an explicit, pluggable
// input. The default rule, USRule, places the transition to daylight
// saving time (spring-forward) on the second Sunday of March and the
// transition back to standard time (fall-back) on the first Sunday of
// November, both at 2AM local time.
package transitions

import (
	"time"

	"cloudeng.io/datetime"
)

// Type identifies the direction of a daylight saving time transition.
type Type int

const (
	None Type = iota
	SpringForward
	FallBack
)

func (t Type) String() string {
	switch t {
	case SpringForward:
		return "spring"
	case FallBack:
		return "fall"
	}
	return "none"
}

// Transition represents a single daylight saving time transition.
type Transition struct {
	Type Type
	// When is the instant at which the transition takes effect, ie.
	// Rule.Hour local time on Date.
	When time.Time
	Date datetime.CalendarDate
	// Hour is the local wall clock hour at which the change occurs.
	Hour int
	// OffsetChange is the change in UTC offset, +1h for spring-forward
	// and -1h for fall-back.
	OffsetChange time.Duration
}

// Pair holds the two transitions for a given year.
type Pair struct {
	Year          int
	SpringForward Transition
	FallBack      Transition
}

// Rule computes the transitions for a given year in the specified location.
type Rule interface {
	Transitions(year int, loc *time.Location) Pair
}

// NthWeekdayRule is a Rule that places each transition on the nth
// occurrence of a weekday within a month, see NthWeekday.
type NthWeekdayRule struct {
	SpringMonth time.Month
	SpringWeek  int
	FallMonth   time.Month
	FallWeek    int
	Weekday     time.Weekday
	Hour        int
}

// USRule is the rule used in the United States since 2007.
var USRule = NthWeekdayRule{
	SpringMonth: time.March,
	SpringWeek:  2,
	FallMonth:   time.November,
	FallWeek:    1,
	Weekday:     time.Sunday,
	Hour:        2,
}

// NthWeekday returns the day of the month of the nth occurrence of
// weekday in the specified month. The first occurrence is found by
// advancing from the 1st by (7 + weekday - weekday(1st)) % 7 days, which
// is zero when the 1st is itself the requested weekday. An n greater
// than the number of occurrences in the month selects the last
// occurrence, so n = 5 may be used for "last Sunday of the month", and
// an n less than 1 selects the first.
func NthWeekday(year int, month time.Month, n int, weekday time.Weekday) int {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Weekday()
	offset := (7 + int(weekday) - int(first)) % 7
	day := 1 + offset + 7*(n-1)
	last := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	for day > last {
		day -= 7
	}
	for day < 1 {
		day += 7
	}
	return day
}

func (r NthWeekdayRule) transition(typ Type, year int, month time.Month, n int, change time.Duration, loc *time.Location) Transition {
	day := NthWeekday(year, month, n, r.Weekday)
	return Transition{
		Type:         typ,
		When:         time.Date(year, month, day, r.Hour, 0, 0, 0, loc),
		Date:         datetime.NewCalendarDate(year, datetime.Month(month), day),
		Hour:         r.Hour,
		OffsetChange: change,
	}
}

// Transitions implements Rule. A nil location is treated as UTC.
func (r NthWeekdayRule) Transitions(year int, loc *time.Location) Pair {
	if loc == nil {
		loc = time.UTC
	}
	return Pair{
		Year:          year,
		SpringForward: r.transition(SpringForward, year, r.SpringMonth, r.SpringWeek, time.Hour, loc),
		FallBack:      r.transition(FallBack, year, r.FallMonth, r.FallWeek, -time.Hour, loc),
	}
}

// ComputeTransitions returns the transitions for year using USRule.
func ComputeTransitions(year int, loc *time.Location) Pair {
	return USRule.Transitions(year, loc)
}
