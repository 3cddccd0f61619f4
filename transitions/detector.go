// Copyright 2025 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package transitions

import (
	"fmt"
	"time"

	"cloudeng.io/datetime"
)

// Detection is the result of testing a date against the transitions
// for its year.
type Detection struct {
	Affected   bool
	Type       Type
	Date       datetime.CalendarDate
	Transition Transition
	Warning    string
}

// Detector determines whether dates fall on, or near, a transition.
//
// IsAffected and IsWithinTransitionWindow operate at
// different granularities: IsAffected is an exact match on the calendar
// date of a transition and is used to trigger remediation, whereas
// IsWithinTransitionWindow includes the day either side of a transition
// and is intended for advisory checks.
type Detector struct {
	cal *Calendar
}

// NewDetector returns a Detector that uses the supplied calendar,
// a calendar using USRule is created if cal is nil.
func NewDetector(cal *Calendar) *Detector {
	if cal == nil {
		cal = NewCalendar(USRule)
	}
	return &Detector{cal: cal}
}

// Calendar returns the calendar used by the detector.
func (d *Detector) Calendar() *Calendar {
	return d.cal
}

// localDate returns the calendar date of t in loc, or in t's own
// location if loc is nil.
func localDate(t time.Time, loc *time.Location) (datetime.CalendarDate, *time.Location) {
	if loc == nil {
		loc = t.Location()
	}
	return datetime.CalendarDateFromTime(t.In(loc)), loc
}

// IsWithinTransitionWindow returns true if the local date of t is within
// one calendar day of either transition for that date's year.
func (d *Detector) IsWithinTransitionWindow(t time.Time, loc *time.Location) bool {
	cd, loc := localDate(t, loc)
	pair := d.cal.Transitions(cd.Year(), loc)
	for _, tr := range []Transition{pair.SpringForward, pair.FallBack} {
		if cd == tr.Date || cd == tr.Date.Yesterday() || cd == tr.Date.Tomorrow() {
			return true
		}
	}
	return false
}

// IsAffected returns a Detection describing whether the local date of t
// is the same calendar date as either transition for that year.
func (d *Detector) IsAffected(t time.Time, loc *time.Location) Detection {
	cd, loc := localDate(t, loc)
	pair := d.cal.Transitions(cd.Year(), loc)
	for _, tr := range []Transition{pair.SpringForward, pair.FallBack} {
		if tr.Date == cd {
			return Detection{
				Affected:   true,
				Type:       tr.Type,
				Date:       cd,
				Transition: tr,
				Warning:    Warning(tr),
			}
		}
	}
	return Detection{Date: cd}
}

// FormatDate returns cd formatted as, for example, "Sunday, November 2, 2025".
func FormatDate(cd datetime.CalendarDate) string {
	return time.Date(cd.Year(), time.Month(cd.Month()), cd.Day(), 0, 0, 0, 0, time.UTC).Format("Monday, January 2, 2006")
}

func clock(hour int) string {
	return time.Date(2000, 1, 1, hour, 0, 0, 0, time.UTC).Format("3:04 PM")
}

// Warning returns a human readable description of the effect of the
// transition on events scheduled that day.
func Warning(tr Transition) string {
	switch tr.Type {
	case FallBack:
		return fmt.Sprintf("%v is the end of daylight saving time: clocks go back one hour at %v and the hour from %v to %v occurs twice",
			FormatDate(tr.Date), clock(tr.Hour), clock(tr.Hour-1), clock(tr.Hour))
	case SpringForward:
		return fmt.Sprintf("%v is the start of daylight saving time: clocks go forward one hour at %v and the hour from %v to %v is skipped",
			FormatDate(tr.Date), clock(tr.Hour), clock(tr.Hour), clock(tr.Hour+1))
	}
	return ""
}
