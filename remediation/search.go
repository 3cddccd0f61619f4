// Copyright 2025 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package remediation

import (
	"time"

	"cloudeng.io/datetime"
)

type adjustment int

const (
	noAdjustment adjustment = iota
	offsetAdjustment
	relocation
)

// RelocationHour is the local hour that events scheduled between 1AM and
// 3AM inclusive are moved to.
const RelocationHour = 4

func dateOf(t time.Time) datetime.CalendarDate {
	return datetime.CalendarDateFromTime(t)
}

// SearchAlternateDate searches for the nearest date, up to
// p.MaxRescheduleDays away, that is not affected by a transition. The
// time of day is preserved. For Either, the earlier date is tried first
// at each distance. Candidates are checked in date's own location.
func (e *Engine) SearchAlternateDate(date time.Time, p Policy) (time.Time, bool) {
	for i := 1; i <= p.MaxRescheduleDays; i++ {
		for _, candidate := range p.PreferredDirection.candidates(date, i) {
			if !e.detector.IsAffected(candidate, nil).Affected {
				return candidate, true
			}
		}
	}
	return time.Time{}, false
}

// AdjustTimeForDST returns an adjusted time for date in loc and true,
// or the zero time and false if no adjustment applies. On a transition
// date the stored instant is shifted by the inverse of the offset change
// so that the local wall clock time is preserved (+1h for fall-back,
// -1h for spring-forward). Otherwise, a local hour between 1 and 3
// inclusive is moved to 4AM with the minutes, seconds and nanoseconds
// unchanged.
func (e *Engine) AdjustTimeForDST(date time.Time, loc *time.Location) (time.Time, bool) {
	t, kind := e.adjust(date, loc)
	return t, kind != noAdjustment
}

func (e *Engine) adjust(date time.Time, loc *time.Location) (time.Time, adjustment) {
	if loc == nil {
		loc = date.Location()
	}
	local := date.In(loc)
	if det := e.detector.IsAffected(local, loc); det.Affected {
		return local.Add(-det.Transition.OffsetChange), offsetAdjustment
	}
	if h := local.Hour(); h >= 1 && h <= 3 {
		return time.Date(local.Year(), local.Month(), local.Day(), RelocationHour,
			local.Minute(), local.Second(), local.Nanosecond(), loc), relocation
	}
	return time.Time{}, noAdjustment
}
