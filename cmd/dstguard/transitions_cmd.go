// Copyright 2025 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/cosnicolaou/dstguard/transitions"
)

type TransitionsPrintFlags struct {
	Year      int    `subcmd:"year,0,the year to print transitions for, defaults to the current year"`
	DateRange string `subcmd:"date-range,,print the transitions for all years in the date range in <month>/<day>/<year>:<month>/<day>/<year> format"`
	TZ        string `subcmd:"tz,America/New_York,the time zone to compute transitions for"`
}

type Transitions struct {
	out io.Writer
}

func (t *Transitions) Print(_ context.Context, flags any, _ []string) error {
	fv := flags.(*TransitionsPrintFlags)
	loc, err := loadLocation(fv.TZ)
	if err != nil {
		return err
	}
	from, to := fv.Year, fv.Year
	if len(fv.DateRange) > 0 {
		dr, err := parseDateRange(fv.DateRange)
		if err != nil {
			return err
		}
		from, to = dr.From().Year(), dr.To().Year()
	}
	if from == 0 {
		from = time.Now().In(loc).Year()
		to = from
	}
	if to < from {
		return fmt.Errorf("invalid year range: %v to %v", from, to)
	}
	cal := transitions.NewCalendar(transitions.USRule)
	pairs := make([]transitions.Pair, 0, to-from+1)
	for year := from; year <= to; year++ {
		pairs = append(pairs, cal.Transitions(year, loc))
	}
	tm := tableManager{layout: time.RFC3339}
	fmt.Fprintln(t.out, tm.Transitions(pairs).Render())
	return nil
}
