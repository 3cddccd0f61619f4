// Copyright 2025 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package events

import (
	"fmt"
	"io"
	"strings"
	"time"

	"cloudeng.io/datetime"
	"cloudeng.io/errors"
	ical "github.com/arran4/golang-ical"
	"github.com/cosnicolaou/dstguard/remediation"
)

const (
	icsUTCLayout   = "20060102T150405Z"
	icsLocalLayout = "20060102T150405"
	icsDateLayout  = "20060102"
)

// ParseICS reads the VEVENTs in an ICS calendar. The UID of each event
// is used as its id, events without one are assigned a StableID.
// DTSTART values with a TZID are interpreted in that zone, floating
// values in defaultZone. Recurring events are expanded within the
// supplied range as for Config.Occurrences.
func ParseICS(rd io.Reader, defaultZone string, within datetime.CalendarDateRange, opts ...Option) ([]remediation.EventRef, error) {
	o := newOptions(opts)
	cal, err := ical.ParseCalendar(rd)
	if err != nil {
		return nil, err
	}
	refs := []remediation.EventRef{}
	var errs errors.M
	for _, ve := range cal.Events() {
		id := ""
		if p := ve.GetProperty(ical.ComponentPropertyUniqueId); p != nil && len(p.Value) > 0 {
			id = p.Value
		}
		dtstart := ve.GetProperty(ical.ComponentPropertyDtStart)
		if dtstart == nil {
			errs.Append(fmt.Errorf("event %v: missing DTSTART", id))
			continue
		}
		zone := defaultZone
		if tzs, ok := dtstart.ICalParameters["TZID"]; ok && len(tzs) > 0 {
			zone = tzs[0]
		}
		rule := ""
		if p := ve.GetProperty(ical.ComponentPropertyRrule); p != nil {
			rule = p.Value
		}
		if len(id) == 0 {
			id = StableID(dtstart.Value, zone, rule)
		}
		start, err := parseICSTime(o, dtstart.Value, zone)
		if err != nil {
			errs.Append(fmt.Errorf("event %v: %w", id, err))
			continue
		}
		if len(rule) == 0 {
			if inRange(start, zone, within) {
				refs = append(refs, remediation.EventRef{ID: id, Date: start, Timezone: zone})
			}
			continue
		}
		occurrences, err := expand(id, start, zone, rule, within)
		if err != nil {
			errs.Append(err)
			continue
		}
		refs = append(refs, occurrences...)
	}
	return refs, errs.Err()
}

func parseICSTime(o options, val, zone string) (time.Time, error) {
	val = strings.TrimSpace(val)
	switch {
	case strings.HasSuffix(val, "Z"):
		return time.Parse(icsUTCLayout, val)
	case strings.Contains(val, "T"):
		wall, err := time.Parse(icsLocalLayout, val)
		if err != nil {
			return time.Time{}, err
		}
		return localToAbsolute(o.conv, wall, zone, ""), nil
	}
	wall, err := time.Parse(icsDateLayout, val)
	if err != nil {
		return time.Time{}, err
	}
	return localToAbsolute(o.conv, wall, zone, ""), nil
}
