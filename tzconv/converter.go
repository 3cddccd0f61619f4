// Copyright 2025 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package tzconv provides conversions between local wall clock times and
// absolute instants that never fail. Conversions that cannot be performed
// in the requested zone are retried in a fallback zone and, failing that,
// the input value is returned unchanged. Both cases are logged and
// reported as warnings, not errors.
package tzconv

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/cosnicolaou/dstguard/internal/logging"
	"github.com/cosnicolaou/dstguard/transitions"
)

// Status records how a conversion was performed.
type Status int

const (
	Converted Status = iota
	Fallback
	Passthrough
)

func (s Status) String() string {
	switch s {
	case Converted:
		return "converted"
	case Fallback:
		return "fallback"
	case Passthrough:
		return "passthrough"
	}
	return "unknown"
}

// Result is the result of a conversion. Zone is the zone that was
// used for the conversion and is empty for Passthrough. Err is non-nil
// for Fallback and Passthrough conversions and records why the
// conversion in the requested zone failed.
type Result struct {
	Time   time.Time
	Zone   string
	Status Status
	Err    error
}

// Warning returns a human readable warning for Fallback and Passthrough
// conversions and an empty string otherwise.
func (r Result) Warning() string {
	switch r.Status {
	case Fallback:
		return fmt.Sprintf("converted using fallback time zone %v: %v", r.Zone, r.Err)
	case Passthrough:
		return fmt.Sprintf("time could not be converted and is shown unchanged: %v", r.Err)
	}
	return ""
}

type Option func(o *options)

type options struct {
	engine   Engine
	logger   *slog.Logger
	detector *transitions.Detector
}

// WithEngine sets the conversion engine, the default is a ZoneEngine.
func WithEngine(e Engine) Option {
	return func(o *options) {
		o.engine = e
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithDetector sets the detector used by Describe.
func WithDetector(d *transitions.Detector) Option {
	return func(o *options) {
		o.detector = d
	}
}

// Converter performs conversions using an Engine.
type Converter struct {
	options
}

// New creates a new Converter.
func New(opts ...Option) *Converter {
	c := &Converter{}
	for _, opt := range opts {
		opt(&c.options)
	}
	if c.engine == nil {
		c.engine = NewZoneEngine()
	}
	if c.logger == nil {
		c.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if c.detector == nil {
		c.detector = transitions.NewDetector(nil)
	}
	c.logger = c.logger.With("mod", "tzconv")
	return c
}

// LocalToAbsolute returns the instant corresponding to the wall clock
// time local in zone, see LocalToAbsoluteResult.
func (c *Converter) LocalToAbsolute(local time.Time, zone, fallbackZone string) time.Time {
	return c.LocalToAbsoluteResult(local, zone, fallbackZone).Time
}

// LocalToAbsoluteResult converts local in zone, retrying in fallbackZone
// (if not empty) and finally returning local unchanged.
func (c *Converter) LocalToAbsoluteResult(local time.Time, zone, fallbackZone string) Result {
	return c.convert(logging.LocalToAbsolute, c.engine.LocalToAbsolute, local, zone, fallbackZone)
}

// AbsoluteToLocal returns abs in zone, see AbsoluteToLocalResult.
func (c *Converter) AbsoluteToLocal(abs time.Time, zone, fallbackZone string) time.Time {
	return c.AbsoluteToLocalResult(abs, zone, fallbackZone).Time
}

// AbsoluteToLocalResult converts abs to zone, retrying in fallbackZone
// (if not empty) and finally returning abs unchanged.
func (c *Converter) AbsoluteToLocalResult(abs time.Time, zone, fallbackZone string) Result {
	return c.convert(logging.AbsoluteToLocal, c.engine.AbsoluteToLocal, abs, zone, fallbackZone)
}

type convertFunc func(time.Time, string) (time.Time, error)

func (c *Converter) convert(direction string, fn convertFunc, in time.Time, zone, fallbackZone string) Result {
	out, err := safely(fn, in, zone)
	if err == nil {
		return Result{Time: out, Zone: zone, Status: Converted}
	}
	if len(fallbackZone) > 0 {
		fout, ferr := safely(fn, in, fallbackZone)
		if ferr == nil {
			logging.WriteConversionFallback(c.logger, direction, zone, fallbackZone, in, fout, err)
			return Result{Time: fout, Zone: fallbackZone, Status: Fallback, Err: err}
		}
		err = fmt.Errorf("%w: fallback %v: %w", err, fallbackZone, ferr)
	}
	logging.WriteConversionPassthrough(c.logger, direction, zone, fallbackZone, in, err)
	return Result{Time: in, Status: Passthrough, Err: err}
}

func safely(fn convertFunc, in time.Time, zone string) (out time.Time, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("conversion in zone %q panicked: %v", zone, r)
		}
	}()
	return fn(in, zone)
}
