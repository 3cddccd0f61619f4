// Copyright 2025 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package tzconv

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

var (
	ErrNonexistentTime = errors.New("nonexistent local time")
	ErrAmbiguousTime   = errors.New("ambiguous local time")
	ErrUnknownZone     = errors.New("unknown time zone")
)

// Engine represents a timezone conversion engine. Local times are
// represented as time.Time values whose wall clock (date and clock
// fields) is the local time, the Location of a local time is ignored.
type Engine interface {
	// LocalToAbsolute returns the instant at which the wall clock in zone
	// reads local. It returns ErrNonexistentTime or ErrAmbiguousTime when
	// the wall clock time is skipped or repeated by a transition.
	LocalToAbsolute(local time.Time, zone string) (time.Time, error)
	// AbsoluteToLocal returns abs in zone.
	AbsoluteToLocal(abs time.Time, zone string) (time.Time, error)
}

// ZoneEngine is an Engine backed by the IANA timezone database as
// provided by time.LoadLocation. Locations are cached per instance.
type ZoneEngine struct {
	mu        sync.Mutex
	locations map[string]*time.Location
}

// NewZoneEngine returns a new ZoneEngine.
func NewZoneEngine() *ZoneEngine {
	return &ZoneEngine{locations: map[string]*time.Location{}}
}

// Location returns the time.Location for zone.
func (e *ZoneEngine) Location(zone string) (*time.Location, error) {
	if len(zone) == 0 {
		return nil, fmt.Errorf("%w: empty zone name", ErrUnknownZone)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if loc, ok := e.locations[zone]; ok {
		return loc, nil
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrUnknownZone, zone, err)
	}
	e.locations[zone] = loc
	return loc, nil
}

func sameWallClock(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	ah, amin, as := a.Clock()
	bh, bmin, bs := b.Clock()
	return ay == by && am == bm && ad == bd &&
		ah == bh && amin == bmin && as == bs &&
		a.Nanosecond() == b.Nanosecond()
}

// LocalToAbsolute implements Engine.
func (e *ZoneEngine) LocalToAbsolute(local time.Time, zone string) (time.Time, error) {
	loc, err := e.Location(zone)
	if err != nil {
		return time.Time{}, err
	}
	y, mo, d := local.Date()
	h, mi, s := local.Clock()
	t := time.Date(y, mo, d, h, mi, s, local.Nanosecond(), loc)
	if !sameWallClock(t, local) {
		return time.Time{}, fmt.Errorf("%w: %v in %v", ErrNonexistentTime, local.Format(time.DateTime), zone)
	}
	// time.Date picks one of the two instants for a repeated wall clock
	// time, look for the other one using the offsets either side of t.
	_, offset := t.Zone()
	for _, probe := range []time.Time{t.Add(-12 * time.Hour), t.Add(12 * time.Hour)} {
		_, po := probe.Zone()
		if po == offset {
			continue
		}
		alt := t.Add(time.Duration(offset-po) * time.Second).In(loc)
		if sameWallClock(alt, local) {
			return time.Time{}, fmt.Errorf("%w: %v in %v", ErrAmbiguousTime, local.Format(time.DateTime), zone)
		}
	}
	return t, nil
}

// AbsoluteToLocal implements Engine.
func (e *ZoneEngine) AbsoluteToLocal(abs time.Time, zone string) (time.Time, error) {
	loc, err := e.Location(zone)
	if err != nil {
		return time.Time{}, err
	}
	return abs.In(loc), nil
}
