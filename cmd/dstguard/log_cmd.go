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

	"github.com/cosnicolaou/dstguard/internal/logging"
)

type LogSummaryFlags struct {
	Zone     string `subcmd:"zone,,display log info for the specific time zone"`
	Changed  bool   `subcmd:"changed,false,only display events that were changed or failed"`
	Warnings bool   `subcmd:"conversion-warnings,false,display time conversion warnings"`
	Layout   string `subcmd:"layout,2006-01-02 15:04 MST,the time.Layout used to display dates"`
}

type Log struct {
	out io.Writer
}

type logSummary struct {
	counts      map[string]int
	events      []logging.Entry
	conversions []logging.Entry
	batches     int
	took        time.Duration
}

func (l *Log) processLog(rd io.Reader, fv *LogSummaryFlags, ls *logSummary) error {
	sc := logging.NewScanner(rd)
	for le := range sc.Entries() {
		if len(fv.Zone) > 0 && le.Zone != fv.Zone {
			continue
		}
		ls.counts[le.Msg]++
		switch le.Msg {
		case logging.LogRemediated, logging.LogRemediationFailed:
			if fv.Changed && !le.WasChanged() && le.Err == nil {
				continue
			}
			ls.events = append(ls.events, le)
		case logging.LogConversionFallback, logging.LogConversionPassthrough:
			ls.conversions = append(ls.conversions, le)
		case logging.LogBatch:
			ls.batches++
			ls.took += le.Took
		}
	}
	return sc.Err()
}

func (l *Log) Summary(_ context.Context, flags any, args []string) error {
	fv := flags.(*LogSummaryFlags)
	ls := &logSummary{counts: map[string]int{}}
	if len(args) == 0 {
		if err := l.processLog(os.Stdin, fv, ls); err != nil {
			return err
		}
	}
	for _, arg := range args {
		f, err := os.Open(arg)
		if err != nil {
			return err
		}
		err = l.processLog(f, fv, ls)
		f.Close()
		if err != nil {
			return fmt.Errorf("failed to process log file: %q: %w", arg, err)
		}
	}
	tm := tableManager{layout: fv.Layout}
	fmt.Fprintln(l.out, tm.LogEntries(ls.events).Render())
	if fv.Warnings {
		for _, c := range ls.conversions {
			fmt.Fprintf(l.out, "%v: %v: zone %q, fallback %q: %v\n", c.Msg, c.Direction, c.Zone, c.Fallback, c.Err)
		}
	}
	fmt.Fprintf(l.out, "%v batches (%v), %v remediated, %v failed, %v conversion warnings\n",
		ls.batches, ls.took,
		ls.counts[logging.LogRemediated], ls.counts[logging.LogRemediationFailed],
		ls.counts[logging.LogConversionFallback]+ls.counts[logging.LogConversionPassthrough])
	return nil
}
