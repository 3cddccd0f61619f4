// Copyright 2025 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package main

import (
	"strings"
	"time"

	"cloudeng.io/datetime"
	"github.com/cosnicolaou/dstguard/internal/logging"
	"github.com/cosnicolaou/dstguard/remediation"
	"github.com/cosnicolaou/dstguard/transitions"
	"github.com/jedib0t/go-pretty/v6/table"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCase = cases.Title(language.English)

var noDate datetime.CalendarDate

type tableManager struct {
	layout string
}

func (tm tableManager) format(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(tm.layout)
}

func (tm tableManager) Transitions(pairs []transitions.Pair) table.Writer {
	tw := table.NewWriter()
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, AutoMerge: true},
	})
	tw.AppendHeader(table.Row{"Year", "Transition", "Date", "Time", "Offset Change"})
	for _, p := range pairs {
		for _, tr := range []transitions.Transition{p.SpringForward, p.FallBack} {
			tod := datetime.NewTimeOfDay(tr.Hour, 0, 0)
			tw.AppendRow(table.Row{p.Year, titleCase.String(tr.Type.String()), transitions.FormatDate(tr.Date), tod, tr.OffsetChange})
		}
		tw.AppendSeparator()
	}
	return tw
}

func (tm tableManager) Outcomes(refs []remediation.EventRef, results []remediation.Result) table.Writer {
	tw := table.NewWriter()
	tw.AppendHeader(table.Row{"Event", "Zone", "Original", "Adjusted", "Local Time", "Change", "Reason"})
	for i, r := range results {
		zone := refs[i].Timezone
		adjusted, _ := r.Outcome.Adjusted()
		reason := r.Outcome.Reason
		if r.Err != nil {
			reason = r.Err.Error()
		}
		tw.AppendRow(table.Row{
			r.EventID,
			zone,
			tm.format(r.Outcome.OriginalDate),
			tm.format(adjusted),
			localTimes(r.Outcome),
			titleCase.String(strings.ReplaceAll(string(r.Outcome.Change), "_", " ")),
			reason,
		})
	}
	return tw
}

func localTimes(o remediation.Outcome) string {
	if len(o.AdjustedLocalTime) == 0 || o.AdjustedLocalTime == o.OriginalLocalTime {
		return o.OriginalLocalTime
	}
	return o.OriginalLocalTime + " -> " + o.AdjustedLocalTime
}

func (tm tableManager) Messages(title string, msgs map[string][]string) table.Writer {
	tw := table.NewWriter()
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, AutoMerge: true},
	})
	tw.AppendHeader(table.Row{"Event", title})
	for id, list := range msgs {
		for _, m := range list {
			tw.AppendRow(table.Row{id, m})
		}
	}
	tw.SortBy([]table.SortBy{{Number: 1, Mode: table.Asc}})
	return tw
}

func (tm tableManager) LogEntries(entries []logging.Entry) table.Writer {
	tw := table.NewWriter()
	tw.AppendHeader(table.Row{"Event", "Zone", "Date", "State", "Change", "Original", "Adjusted", "Error"})
	for _, e := range entries {
		errMsg := ""
		if e.Err != nil {
			errMsg = e.Err.Error()
		}
		date := ""
		if e.Date != noDate {
			date = transitions.FormatDate(e.Date)
		}
		tw.AppendRow(table.Row{e.ID, e.Zone, date, e.State, e.Change, tm.format(e.Original), tm.format(e.Adjusted), errMsg})
	}
	return tw
}
