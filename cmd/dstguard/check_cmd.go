// Copyright 2025 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/cosnicolaou/dstguard/scheduling"
	"github.com/cosnicolaou/dstguard/transitions"
	"github.com/cosnicolaou/dstguard/tzconv"
)

type CheckFlags struct {
	TZ       string `subcmd:"tz,America/New_York,the time zone of the date"`
	Fallback string `subcmd:"fallback-tz,UTC,the time zone to use if the date cannot be converted in tz"`
	LogFile  string `subcmd:"log-file,,log file"`
}

type DescribeFlags struct {
	TZ     string `subcmd:"tz,America/New_York,the time zone to display the instant in"`
	Layout string `subcmd:"layout,3:04 PM,the time.Layout to display the instant with"`
}

type Check struct {
	out io.Writer
}

func (c *Check) Check(_ context.Context, flags any, args []string) error {
	fv := flags.(*CheckFlags)
	if len(args) != 1 {
		return fmt.Errorf("check requires a single date argument")
	}
	logger, cleanup, err := setupLogging(fv.LogFile)
	if err != nil {
		return err
	}
	defer cleanup()
	t, absolute, err := parseLocalOrRFC3339(args[0])
	if err != nil {
		return err
	}
	loc, err := loadLocation(fv.TZ)
	if err != nil {
		return err
	}
	det := transitions.NewDetector(nil)
	conv := tzconv.New(tzconv.WithLogger(logger), tzconv.WithDetector(det))
	local := t.In(loc)
	if !absolute {
		// Times that cannot be converted, ie. those in the skipped or
		// repeated hour, are still checked against their local date.
		res := conv.LocalToAbsoluteResult(t, fv.TZ, fv.Fallback)
		local = res.Time.In(loc)
		if res.Status != tzconv.Converted {
			fmt.Fprintf(c.out, "warning: %v\n", res.Warning())
			local = time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), loc)
		}
	}
	v := scheduling.NewValidator(det).Validate(local, loc)
	fmt.Fprintf(c.out, "%v: valid: %v, within transition window: %v\n",
		local.Format(time.RFC1123), v.Valid, det.IsWithinTransitionWindow(local, loc))
	for _, w := range v.Warnings {
		fmt.Fprintf(c.out, "warning: %v\n", w)
	}
	for _, s := range v.Suggestions {
		fmt.Fprintf(c.out, "suggestion: %v\n", s)
	}
	return nil
}

func (c *Check) Describe(_ context.Context, flags any, args []string) error {
	fv := flags.(*DescribeFlags)
	if len(args) != 1 {
		return fmt.Errorf("describe requires a single instant argument")
	}
	instant, err := time.Parse(time.RFC3339, args[0])
	if err != nil {
		return fmt.Errorf("invalid instant: %q: %w", args[0], err)
	}
	d := tzconv.New().Describe(instant, fv.TZ, fv.Layout)
	fmt.Fprintf(c.out, "%v %v (dst: %v)\n", d.DisplayTime, d.OffsetLabel, d.IsDST)
	if len(d.Warning) > 0 {
		fmt.Fprintf(c.out, "warning: %v\n", d.Warning)
	}
	return nil
}
