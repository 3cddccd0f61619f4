// Copyright 2025 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/cosnicolaou/dstguard/events"
	"github.com/cosnicolaou/dstguard/internal/logging"
	"github.com/cosnicolaou/dstguard/remediation"
	"github.com/cosnicolaou/dstguard/tzconv"
)

type PolicyFlags struct {
	PolicyFile     string `subcmd:"policy,,a YAML policy file, overrides the policy flags below"`
	AutoReschedule bool   `subcmd:"reschedule,false,move affected events to an unaffected day"`
	AutoAdjustTime bool   `subcmd:"adjust,true,adjust the stored time of affected events to preserve their local time"`
	Direction      string `subcmd:"direction,either,preferred direction for rescheduling: before, after or either"`
	MaxDays        int    `subcmd:"max-days,7,the maximum number of days to move an event by"`
	Notify         bool   `subcmd:"notify,true,generate notifications for changed events"`
}

type RemediateFlags struct {
	PolicyFlags
	EventsFile  string `subcmd:"events,,a YAML events file"`
	ICSFile     string `subcmd:"ics,,an ICS calendar file"`
	TZ          string `subcmd:"tz,America/New_York,the default time zone for floating times in the ICS calendar"`
	DateRange   string `subcmd:"date-range,,date range in <month>/<day>/<year>:<month>/<day>/<year> format, defaults to the current year"`
	Concurrency int    `subcmd:"concurrency,4,the number of events to remediate concurrently"`
	LogFile     string `subcmd:"log-file,,log file"`
	Layout      string `subcmd:"layout,2006-01-02 15:04 MST,the time.Layout used to display dates"`
}

type Remediate struct {
	out io.Writer
}

func loadPolicy(ctx context.Context, fv *PolicyFlags) (remediation.Policy, error) {
	if len(fv.PolicyFile) > 0 {
		return remediation.ParsePolicyFile(ctx, fv.PolicyFile)
	}
	p := remediation.Policy{
		AutoReschedule:    fv.AutoReschedule,
		AutoAdjustTime:    fv.AutoAdjustTime,
		MaxRescheduleDays: fv.MaxDays,
		NotifyUsers:       fv.Notify,
	}
	if err := p.PreferredDirection.Parse(fv.Direction); err != nil {
		return remediation.Policy{}, err
	}
	return p, p.Validate()
}

func (r *Remediate) loadEvents(ctx context.Context, fv *RemediateFlags, conv *tzconv.Converter) ([]remediation.EventRef, error) {
	dr, err := parseDateRange(fv.DateRange)
	if err != nil {
		return nil, err
	}
	var refs []remediation.EventRef
	if len(fv.EventsFile) > 0 {
		cfg, err := events.ParseConfigFile(ctx, fv.EventsFile, events.WithConverter(conv))
		if err != nil {
			return nil, err
		}
		evs, err := cfg.Occurrences(dr)
		if err != nil {
			return nil, err
		}
		refs = append(refs, evs...)
	}
	if len(fv.ICSFile) > 0 {
		f, err := os.Open(fv.ICSFile)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		evs, err := events.ParseICS(f, fv.TZ, dr, events.WithConverter(conv))
		if err != nil {
			return nil, fmt.Errorf("failed to parse ICS file: %q: %w", fv.ICSFile, err)
		}
		refs = append(refs, evs...)
	}
	if len(fv.EventsFile) == 0 && len(fv.ICSFile) == 0 {
		return nil, fmt.Errorf("one or both of --events and --ics must be specified")
	}
	return refs, nil
}

func (r *Remediate) Run(ctx context.Context, flags any, _ []string) error {
	fv := flags.(*RemediateFlags)
	policy, err := loadPolicy(ctx, &fv.PolicyFlags)
	if err != nil {
		return err
	}
	logger, cleanup, err := setupLogging(fv.LogFile)
	if err != nil {
		return err
	}
	defer cleanup()

	conv := tzconv.New(tzconv.WithLogger(logger))
	refs, err := r.loadEvents(ctx, fv, conv)
	if err != nil {
		return err
	}

	eng := remediation.NewEngine(remediation.WithLogger(logger))
	sr := logging.NewStatusRecorder()
	start := time.Now()
	results := eng.Apply(ctx, refs, policy,
		remediation.WithConcurrency(fv.Concurrency),
		remediation.WithStatusRecorder(sr))

	tm := tableManager{layout: fv.Layout}
	fmt.Fprintln(r.out, tm.Outcomes(refs, results).Render())

	warnings, notifications := map[string][]string{}, map[string][]string{}
	for _, res := range results {
		if len(res.Outcome.Warnings) > 0 {
			warnings[res.EventID] = res.Outcome.Warnings
		}
		if len(res.Outcome.Notifications) > 0 {
			notifications[res.EventID] = res.Outcome.Notifications
		}
	}
	if len(warnings) > 0 {
		fmt.Fprintln(r.out, tm.Messages("Warning", warnings).Render())
	}
	if len(notifications) > 0 {
		fmt.Fprintln(r.out, tm.Messages("Notification", notifications).Render())
	}

	changed, failed := 0, 0
	for rec := range sr.Completed() {
		switch {
		case rec.Error != nil:
			failed++
		case rec.Change != string(remediation.ChangeNone):
			changed++
		}
	}
	fmt.Fprintf(r.out, "%v events, %v changed, %v failed in %v\n", len(results), changed, failed, time.Since(start).Round(time.Millisecond))
	return remediation.Errors(results)
}
