// Copyright 2025 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package remediation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cloudeng.io/cmdutil/cmdyaml"
	"cloudeng.io/errors"
	"gopkg.in/yaml.v3"
)

// Direction is the preferred direction in which to search for an
// alternate date.
type Direction string

const (
	Before Direction = "before"
	After  Direction = "after"
	Either Direction = "either"
)

// MaxRescheduleDaysLimit bounds the number of days that may be searched.
const MaxRescheduleDaysLimit = 366

// Parse parses a Direction, an empty string is parsed as Either.
func (d *Direction) Parse(val string) error {
	switch v := Direction(strings.ToLower(strings.TrimSpace(val))); v {
	case Before, After, Either:
		*d = v
	case "":
		*d = Either
	default:
		return fmt.Errorf("invalid direction: %q, must be one of before, after or either", val)
	}
	return nil
}

func (d *Direction) UnmarshalYAML(node *yaml.Node) error {
	return d.Parse(node.Value)
}

// candidates returns the dates i days before and/or after date in the
// order in which they should be tried.
func (d Direction) candidates(date time.Time, i int) []time.Time {
	switch d {
	case Before:
		return []time.Time{date.AddDate(0, 0, -i)}
	case After:
		return []time.Time{date.AddDate(0, 0, i)}
	}
	return []time.Time{date.AddDate(0, 0, -i), date.AddDate(0, 0, i)}
}

func (d Direction) phrase() string {
	switch d {
	case Before:
		return "before the original date"
	case After:
		return "after the original date"
	}
	return "either side of the original date"
}

// Policy controls how affected events are remediated. It is supplied
// by the caller and never modified.
type Policy struct {
	AutoReschedule     bool      `yaml:"auto_reschedule" cmd:"move affected events to an unaffected day"`
	AutoAdjustTime     bool      `yaml:"auto_adjust_time" cmd:"shift the stored time of affected events to preserve their local time"`
	PreferredDirection Direction `yaml:"preferred_direction" cmd:"before, after or either"`
	MaxRescheduleDays  int       `yaml:"max_reschedule_days" cmd:"the maximum number of days to move an event by"`
	NotifyUsers        bool      `yaml:"notify_users" cmd:"generate notifications for changed events"`
}

// Validate returns an error describing all of the problems with p.
func (p Policy) Validate() error {
	var errs errors.M
	switch p.PreferredDirection {
	case Before, After, Either, "":
	default:
		errs.Append(fmt.Errorf("invalid preferred_direction: %q", p.PreferredDirection))
	}
	if p.MaxRescheduleDays < 0 || p.MaxRescheduleDays > MaxRescheduleDaysLimit {
		errs.Append(fmt.Errorf("max_reschedule_days must be between 0 and %v: %v", MaxRescheduleDaysLimit, p.MaxRescheduleDays))
	}
	if p.AutoReschedule && p.MaxRescheduleDays == 0 {
		errs.Append(fmt.Errorf("max_reschedule_days must be specified when auto_reschedule is enabled"))
	}
	return errs.Err()
}

func (p Policy) String() string {
	return fmt.Sprintf("reschedule: %v, adjust: %v, direction: %v, max-days: %v, notify: %v",
		p.AutoReschedule, p.AutoAdjustTime, p.PreferredDirection, p.MaxRescheduleDays, p.NotifyUsers)
}

// ParsePolicy parses and validates a YAML policy.
func ParsePolicy(_ context.Context, cfgData []byte) (Policy, error) {
	var p Policy
	if err := yaml.Unmarshal(cfgData, &p); err != nil {
		return Policy{}, err
	}
	if err := p.Validate(); err != nil {
		return Policy{}, err
	}
	return p, nil
}

// ParsePolicyFile parses and validates a YAML policy file.
func ParsePolicyFile(ctx context.Context, cfgFile string) (Policy, error) {
	var p Policy
	if err := cmdyaml.ParseConfigFile(ctx, cfgFile, &p); err != nil {
		return Policy{}, err
	}
	if err := p.Validate(); err != nil {
		return Policy{}, fmt.Errorf("invalid policy in %q: %w", cfgFile, err)
	}
	return p, nil
}
