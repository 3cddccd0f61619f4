// Copyright 2025 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package remediation

import "time"

// State is the final state reached by the remediation decision procedure.
type State int

const (
	Unaffected State = iota
	AffectedNoAction
	Rescheduled
	TimeAdjusted
)

func (s State) String() string {
	switch s {
	case Unaffected:
		return "unaffected"
	case AffectedNoAction:
		return "affected-no-action"
	case Rescheduled:
		return "rescheduled"
	case TimeAdjusted:
		return "time-adjusted"
	}
	return "unknown"
}

// ChangeKind describes the change made to an event.
type ChangeKind string

const (
	ChangeNone         ChangeKind = "no_change"
	ChangeRescheduled  ChangeKind = "rescheduled"
	ChangeTimeAdjusted ChangeKind = "time_adjusted"
)

// Outcome is the result of remediating a single event. It is returned to
// the caller for persistence and notification and is not otherwise
// retained.
type Outcome struct {
	OriginalDate time.Time
	// AdjustedDate is the zero time.Time if the event was not changed.
	// For time adjustments that compensate for the transition offset it
	// is the stored instant shifted by the offset change, so formatting
	// it in the event's zone differs from AdjustedLocalTime by that
	// offset, eg. 3:00 PM for a 2:00 PM event on a fall-back date.
	// Use AdjustedLocalTime to display the adjusted event.
	AdjustedDate      time.Time
	State             State
	Change            ChangeKind
	Reason            string
	OriginalLocalTime string
	// AdjustedLocalTime is the local time that the adjusted event is
	// intended to be displayed at. For time adjustments that compensate
	// for the transition offset this is the original local time.
	AdjustedLocalTime string
	Warnings          []string
	Notifications     []string
}

// Adjusted returns the adjusted date and true if the event was changed.
func (o Outcome) Adjusted() (time.Time, bool) {
	return o.AdjustedDate, !o.AdjustedDate.IsZero()
}
