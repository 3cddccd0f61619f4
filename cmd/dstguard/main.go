// Copyright 2025 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"os"

	"cloudeng.io/cmdutil"
	"cloudeng.io/cmdutil/subcmd"
)

const cmdSpec = `name: dstguard
summary: dstguard detects and remediates events that fall on daylight saving time transitions
commands:
  - name: transitions
    summary: query daylight saving time transitions
    commands:
      - name: print
        summary: print the transitions for a year or a range of years
  - name: check
    summary: check whether a local date and time is affected by a transition
    arguments:
      - <date> - the date and time in 2006-01-02T15:04 (local) or RFC3339 format
  - name: describe
    summary: display an instant in a time zone along with its daylight saving time status
    arguments:
      - <instant> - the instant in RFC3339 format
  - name: remediate
    summary: remediate the events in an events file or ICS calendar according to a policy
  - name: logs
    summary: query/inspect the log files
    commands:
      - name: summary
        arguments:
          - <log-files>...
`

func cli() *subcmd.CommandSetYAML {
	cmd := subcmd.MustFromYAML(cmdSpec)

	tr := &Transitions{out: os.Stdout}
	cmd.Set("transitions", "print").MustRunner(tr.Print, &TransitionsPrintFlags{})

	check := &Check{out: os.Stdout}
	cmd.Set("check").MustRunner(check.Check, &CheckFlags{})
	cmd.Set("describe").MustRunner(check.Describe, &DescribeFlags{})

	remediate := &Remediate{out: os.Stdout}
	cmd.Set("remediate").MustRunner(remediate.Run, &RemediateFlags{})

	log := &Log{out: os.Stdout}
	cmd.Set("logs", "summary").MustRunner(log.Summary, &LogSummaryFlags{})
	return cmd
}

var errInterrupt = errors.New("interrupt")

func main() {
	ctx := context.Background()
	ctx, cancel := context.WithCancelCause(ctx)
	cmdutil.HandleSignals(func() { cancel(errInterrupt) }, os.Interrupt)
	err := cli().Dispatch(ctx)
	if context.Cause(ctx) == errInterrupt {
		cmdutil.Exit("%v", errInterrupt)
	}
	if err != nil {
		cmdutil.Exit("%v", err)
	}
}
