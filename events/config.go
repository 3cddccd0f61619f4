// Copyright 2025 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package events reads the events to be checked and remediated from
// YAML configuration files and ICS calendars. Recurring events are
// expanded into individual occurrences within a date range.
package events

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cloudeng.io/cmdutil/cmdyaml"
	"cloudeng.io/datetime"
	"cloudeng.io/errors"
	"github.com/cosnicolaou/dstguard/remediation"
	"github.com/cosnicolaou/dstguard/tzconv"
	"github.com/google/uuid"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"
)

// LocalLayout is the layout used for event dates that are specified
// as local wall clock times.
const LocalLayout = "2006-01-02T15:04"

func locationFromValue(value string) (*time.Location, error) {
	if len(value) == 0 {
		return time.UTC, nil
	}
	return time.LoadLocation(value)
}

// TimeZone is a *time.Location that can be unmarshaled from YAML.
type TimeZone struct {
	*time.Location
}

func (tz *TimeZone) UnmarshalYAML(node *yaml.Node) error {
	l, err := locationFromValue(node.Value)
	if err != nil {
		return err
	}
	tz.Location = l
	return nil
}

// Name returns the name of the time zone, or the empty string if
// it is not set.
func (tz TimeZone) Name() string {
	if tz.Location == nil {
		return ""
	}
	return tz.Location.String()
}

// EventConfig represents a single, possibly recurring, event.
type EventConfig struct {
	ID       string `yaml:"id" cmd:"the id of the event, one is generated if not specified"`
	Date     string `yaml:"date" cmd:"the date and time of the event in RFC3339 or 2006-01-02T15:04 (local time) format"`
	TimeZone string `yaml:"time_zone" cmd:"the time zone of the event, overrides the default time zone"`
	RRule    string `yaml:"rrule" cmd:"an RFC 5545 recurrence rule, eg. FREQ=WEEKLY;COUNT=10"`
}

// Config represents an events file.
type Config struct {
	TimeZone         TimeZone      `yaml:"time_zone" cmd:"the default time zone for events"`
	FallbackTimeZone string        `yaml:"fallback_time_zone" cmd:"the time zone to use for local times that cannot be converted in an event's own time zone"`
	Events           []EventConfig `yaml:"events" cmd:"the events"`

	conv *tzconv.Converter
}

type Option func(o *options)

type options struct {
	conv *tzconv.Converter
}

// WithConverter sets the converter used for local wall clock times.
func WithConverter(c *tzconv.Converter) Option {
	return func(o *options) {
		o.conv = c
	}
}

func newOptions(opts []Option) options {
	var o options
	for _, fn := range opts {
		fn(&o)
	}
	if o.conv == nil {
		o.conv = tzconv.New()
	}
	return o
}

func (cfg *Config) finalize(opts []Option) error {
	cfg.conv = newOptions(opts).conv
	var errs errors.M
	seen := map[string]bool{}
	for i, ev := range cfg.Events {
		name := ev.ID
		if len(name) == 0 {
			name = fmt.Sprintf("#%v", i)
		}
		if len(ev.ID) > 0 {
			if seen[ev.ID] {
				errs.Append(fmt.Errorf("event %v: duplicate id", name))
			}
			seen[ev.ID] = true
		}
		if len(ev.Date) == 0 {
			errs.Append(fmt.Errorf("event %v: missing date", name))
		}
		if len(ev.TimeZone) > 0 {
			if _, err := time.LoadLocation(ev.TimeZone); err != nil {
				errs.Append(fmt.Errorf("event %v: %w", name, err))
			}
		}
		if len(ev.RRule) > 0 {
			if _, err := rrule.StrToRRule(ev.RRule); err != nil {
				errs.Append(fmt.Errorf("event %v: invalid rrule %q: %w", name, ev.RRule, err))
			}
		}
	}
	return errs.Err()
}

// ParseConfig parses and validates an events configuration.
func ParseConfig(_ context.Context, cfgData []byte, opts ...Option) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(cfgData, &cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.finalize(opts); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseConfigFile parses and validates an events configuration file.
func ParseConfigFile(ctx context.Context, cfgFile string, opts ...Option) (Config, error) {
	var cfg Config
	if err := cmdyaml.ParseConfigFile(ctx, cfgFile, &cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.finalize(opts); err != nil {
		return Config{}, fmt.Errorf("%v: %w", cfgFile, err)
	}
	return cfg, nil
}

// Occurrences returns the events in cfg. Recurring events are expanded into
// the occurrences that fall within the supplied range, and non-recurring
// events outside of the range are omitted. A zero range includes all
// non-recurring events but is an error if any event is recurring.
func (cfg Config) Occurrences(within datetime.CalendarDateRange) ([]remediation.EventRef, error) {
	conv := cfg.conv
	if conv == nil {
		conv = tzconv.New()
	}
	refs := []remediation.EventRef{}
	var errs errors.M
	for _, ev := range cfg.Events {
		zone := ev.TimeZone
		if len(zone) == 0 {
			zone = cfg.TimeZone.Name()
		}
		id := ev.ID
		if len(id) == 0 {
			id = StableID(ev.Date, zone, ev.RRule)
		}
		start, err := parseDate(conv, ev.Date, zone, cfg.FallbackTimeZone)
		if err != nil {
			errs.Append(fmt.Errorf("event %v: %w", id, err))
			continue
		}
		if len(ev.RRule) == 0 {
			if inRange(start, zone, within) {
				refs = append(refs, remediation.EventRef{ID: id, Date: start, Timezone: zone})
			}
			continue
		}
		occurrences, err := expand(id, start, zone, ev.RRule, within)
		if err != nil {
			errs.Append(err)
			continue
		}
		refs = append(refs, occurrences...)
	}
	return refs, errs.Err()
}

func parseDate(conv *tzconv.Converter, val, zone, fallback string) (time.Time, error) {
	val = strings.TrimSpace(val)
	if t, err := time.Parse(time.RFC3339, val); err == nil {
		return t, nil
	}
	wall, err := time.Parse(LocalLayout, val)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: not in RFC3339 or %v format", val, LocalLayout)
	}
	return localToAbsolute(conv, wall, zone, fallback), nil
}

// localToAbsolute converts a wall clock time in zone. Wall clock times
// in the hour skipped or repeated by a transition are normalized by
// time.Date and keep their local date.
func localToAbsolute(conv *tzconv.Converter, wall time.Time, zone, fallback string) time.Time {
	res := conv.LocalToAbsoluteResult(wall, zone, fallback)
	if res.Status == tzconv.Converted ||
		(!errors.Is(res.Err, tzconv.ErrNonexistentTime) && !errors.Is(res.Err, tzconv.ErrAmbiguousTime)) {
		return res.Time
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return res.Time
	}
	return time.Date(wall.Year(), wall.Month(), wall.Day(), wall.Hour(), wall.Minute(), wall.Second(), wall.Nanosecond(), loc)
}

func zoneLocation(t time.Time, zone string) *time.Location {
	if loc, err := time.LoadLocation(zone); err == nil && len(zone) > 0 {
		return loc
	}
	return t.Location()
}

func isZero(dr datetime.CalendarDateRange) bool {
	var zero datetime.CalendarDateRange
	return dr == zero
}

func inRange(t time.Time, zone string, within datetime.CalendarDateRange) bool {
	if isZero(within) {
		return true
	}
	return within.Include(datetime.CalendarDateFromTime(t.In(zoneLocation(t, zone))))
}

// StableID returns the id used for an event that does not specify one.
// The id is derived from the event's date, zone and recurrence rule so
// that the same event is assigned the same id on every run.
func StableID(date, zone, rule string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(strings.Join([]string{strings.TrimSpace(date), zone, rule}, "|"))).String()
}

// OccurrenceID returns the id used for the occurrence of a recurring
// event on the specified date.
func OccurrenceID(id string, t time.Time) string {
	return id + "@" + t.Format("2006-01-02")
}

func expand(id string, start time.Time, zone, rule string, within datetime.CalendarDateRange) ([]remediation.EventRef, error) {
	if isZero(within) {
		return nil, fmt.Errorf("event %v: a date range is required to expand recurring events", id)
	}
	r, err := rrule.StrToRRule(rule)
	if err != nil {
		return nil, fmt.Errorf("event %v: invalid rrule %q: %w", id, rule, err)
	}
	loc := zoneLocation(start, zone)
	start = start.In(loc)
	r.DTStart(start)
	from, to := within.From(), within.To()
	after := time.Date(from.Year(), time.Month(from.Month()), from.Day(), 0, 0, 0, 0, loc)
	before := time.Date(to.Year(), time.Month(to.Month()), to.Day()+1, 0, 0, 0, 0, loc).Add(-time.Nanosecond)
	refs := []remediation.EventRef{}
	for _, occ := range r.Between(after, before, true) {
		refs = append(refs, remediation.EventRef{
			ID:       OccurrenceID(id, occ.In(loc)),
			Date:     occ,
			Timezone: zone,
		})
	}
	return refs, nil
}
