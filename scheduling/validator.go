// Copyright 2025 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package scheduling provides advisory checks for prospective event
// times. The checks never prevent an event from being created, they
// only annotate it with warnings and suggestions.
package scheduling

import (
	"fmt"
	"time"

	"github.com/cosnicolaou/dstguard/transitions"
)

// Validation is the result of validating a prospective event time.
// Valid is true if and only if there are no warnings, suggestions
// alone do not make a time invalid.
type Validation struct {
	Valid       bool
	Warnings    []string
	Suggestions []string
}

// Validator validates prospective event times against daylight saving
// time transitions.
type Validator struct {
	detector *transitions.Detector
}

// NewValidator returns a new Validator, a detector using
// transitions.USRule is created if det is nil.
func NewValidator(det *transitions.Detector) *Validator {
	if det == nil {
		det = transitions.NewDetector(nil)
	}
	return &Validator{detector: det}
}

// Validate validates t as displayed in loc, or in t's own location
// if loc is nil.
func (v *Validator) Validate(t time.Time, loc *time.Location) Validation {
	if loc == nil {
		loc = t.Location()
	}
	local := t.In(loc)
	var res Validation
	det := v.detector.IsAffected(local, loc)
	switch {
	case det.Affected:
		res.Warnings = append(res.Warnings, det.Warning)
		res.Suggestions = append(res.Suggestions, suggestion(det))
		if h := local.Hour(); h == 1 || h == 2 {
			res.Warnings = append(res.Warnings,
				fmt.Sprintf("%v is within the hours most affected by the transition, the local time may be skipped or occur twice", local.Format("3:04 PM")))
		}
	case v.detector.IsWithinTransitionWindow(local, loc):
		res.Suggestions = append(res.Suggestions,
			"this date is adjacent to a daylight saving time transition, confirm the local time with all participants")
	}
	res.Valid = len(res.Warnings) == 0
	return res
}

func suggestion(det transitions.Detection) string {
	switch det.Type {
	case transitions.FallBack:
		return "consider rescheduling to an adjacent day to avoid the repeated hour when clocks go back"
	case transitions.SpringForward:
		return "consider rescheduling to an adjacent day to avoid the skipped hour when clocks go forward"
	}
	return ""
}
