// Copyright 2025 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package remediation provides automatic remediation of events that fall
// on a daylight saving time transition. Affected events are either moved
// to a nearby unaffected date or have their stored instant shifted so that
// their local wall clock time is preserved across the transition.
package remediation

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/cosnicolaou/dstguard/transitions"
	"github.com/cosnicolaou/dstguard/tzconv"
)

// DefaultLayout is the layout used for the local time fields of an Outcome.
const DefaultLayout = tzconv.DefaultLayout

type Option func(o *options)

type options struct {
	detector *transitions.Detector
	zones    *tzconv.ZoneEngine
	logger   *slog.Logger
	layout   string
}

// WithDetector sets the detector used to identify affected dates.
func WithDetector(d *transitions.Detector) Option {
	return func(o *options) {
		o.detector = d
	}
}

// WithZoneEngine sets the engine used to resolve time zone names.
func WithZoneEngine(z *tzconv.ZoneEngine) Option {
	return func(o *options) {
		o.zones = z
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithLayout sets the time.Layout used for OriginalLocalTime and
// AdjustedLocalTime.
func WithLayout(layout string) Option {
	return func(o *options) {
		o.layout = layout
	}
}

// Engine remediates events according to a Policy. It holds no per-event
// state and is safe for concurrent use.
type Engine struct {
	options
}

// NewEngine creates a new Engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(&e.options)
	}
	if e.detector == nil {
		e.detector = transitions.NewDetector(nil)
	}
	if e.zones == nil {
		e.zones = tzconv.NewZoneEngine()
	}
	if e.logger == nil {
		e.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if len(e.layout) == 0 {
		e.layout = DefaultLayout
	}
	e.logger = e.logger.With("mod", "remediation")
	return e
}

// Detector returns the detector used by the engine.
func (e *Engine) Detector() *transitions.Detector {
	return e.detector
}

func (e *Engine) location(date time.Time, zone string) (*time.Location, []string) {
	if len(zone) == 0 {
		return date.Location(), nil
	}
	loc, err := e.zones.Location(zone)
	if err == nil {
		return loc, nil
	}
	return date.Location(), []string{
		fmt.Sprintf("time zone %q could not be used, using %v instead: %v", zone, date.Location(), err),
	}
}

// Remediate determines the outcome for an event scheduled at date in
// zone. An event that is not on a transition date is left unchanged.
// An affected event is rescheduled if p.AutoReschedule is set and an
// unaffected date can be found, otherwise its time is adjusted if
// p.AutoAdjustTime is set and an adjustment applies. If neither applies
// the event is reported as affected with no action taken.
func (e *Engine) Remediate(date time.Time, zone string, p Policy) Outcome {
	loc, warnings := e.location(date, zone)
	local := date.In(loc)
	out := Outcome{
		OriginalDate:      date,
		State:             Unaffected,
		Change:            ChangeNone,
		OriginalLocalTime: local.Format(e.layout),
		Warnings:          warnings,
	}
	det := e.detector.IsAffected(local, loc)
	if !det.Affected {
		out.Reason = "not affected by a daylight saving time transition"
		return out
	}
	if p.AutoReschedule {
		if alt, ok := e.SearchAlternateDate(local, p); ok {
			return e.rescheduled(out, det, alt, p)
		}
		out.Warnings = append(out.Warnings, fmt.Sprintf("no unaffected date found within %v day(s) %v",
			max(p.MaxRescheduleDays, 0), p.PreferredDirection.phrase()))
	}
	if p.AutoAdjustTime {
		if adj, kind := e.adjust(local, loc); kind != noAdjustment {
			return e.timeAdjusted(out, det, adj, kind, p)
		}
	}
	out.State = AffectedNoAction
	out.Reason = fmt.Sprintf("affected by the %v transition, no automatic remediation was applied", det.Type)
	out.Warnings = append(out.Warnings, det.Warning)
	return out
}

func (e *Engine) rescheduled(out Outcome, det transitions.Detection, alt time.Time, p Policy) Outcome {
	out.State = Rescheduled
	out.Change = ChangeRescheduled
	out.AdjustedDate = alt
	out.AdjustedLocalTime = alt.Format(e.layout)
	out.Reason = fmt.Sprintf("moved from %v to %v to avoid the %v transition",
		transitions.FormatDate(det.Date), transitions.FormatDate(dateOf(alt)), det.Type)
	if p.NotifyUsers {
		out.Notifications = append(out.Notifications,
			fmt.Sprintf("Your event on %v has been moved to %v at %v because of the %v.",
				transitions.FormatDate(det.Date), transitions.FormatDate(dateOf(alt)),
				out.AdjustedLocalTime, transitionLabel(det.Type)))
	}
	return out
}

func (e *Engine) timeAdjusted(out Outcome, det transitions.Detection, adj time.Time, kind adjustment, p Policy) Outcome {
	out.State = TimeAdjusted
	out.Change = ChangeTimeAdjusted
	out.AdjustedDate = adj
	switch kind {
	case offsetAdjustment:
		out.AdjustedLocalTime = out.OriginalLocalTime
		out.Reason = fmt.Sprintf("stored time shifted by %v to keep the local time of %v across the %v transition",
			signedHours(adj.Sub(out.OriginalDate)), out.OriginalLocalTime, det.Type)
	case relocation:
		out.AdjustedLocalTime = adj.Format(e.layout)
		out.Reason = fmt.Sprintf("moved from %v to %v to avoid the hours around the %v transition",
			out.OriginalLocalTime, out.AdjustedLocalTime, det.Type)
	}
	if p.NotifyUsers {
		out.Notifications = append(out.Notifications,
			fmt.Sprintf("The time of your event on %v has been adjusted for the %v and will take place at %v.",
				transitions.FormatDate(det.Date), transitionLabel(det.Type), out.AdjustedLocalTime))
	}
	return out
}

func transitionLabel(t transitions.Type) string {
	switch t {
	case transitions.SpringForward:
		return "start of daylight saving time"
	case transitions.FallBack:
		return "end of daylight saving time"
	}
	return "daylight saving time transition"
}

func signedHours(d time.Duration) string {
	h := d.Hours()
	if h >= 0 {
		return fmt.Sprintf("+%g hour(s)", h)
	}
	return fmt.Sprintf("%g hour(s)", h)
}
