// Copyright 2025 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package tzconv

import (
	"fmt"
	"time"
)

// DefaultLayout is the layout used by Describe when none is specified.
const DefaultLayout = "3:04 PM"

// Display describes an instant as displayed in a given zone.
type Display struct {
	DisplayTime string
	IsDST       bool
	Offset      time.Duration
	OffsetLabel string
	Warning     string
}

// Describe returns a description of instant as displayed in zone using
// the supplied time.Format layout. Daylight saving time is considered
// to be in effect when the offset at instant differs from the offset at
// midnight on January 1 of the same year.
func (c *Converter) Describe(instant time.Time, zone, layout string) Display {
	if len(layout) == 0 {
		layout = DefaultLayout
	}
	res := c.AbsoluteToLocalResult(instant, zone, "")
	local := res.Time
	loc := local.Location()
	_, offset := local.Zone()
	_, standard := time.Date(local.Year(), time.January, 1, 0, 0, 0, 0, loc).Zone()
	d := Display{
		DisplayTime: local.Format(layout),
		IsDST:       offset != standard,
		Offset:      time.Duration(offset) * time.Second,
		OffsetLabel: OffsetLabel(offset),
	}
	if res.Status != Converted {
		d.Warning = res.Warning()
		return d
	}
	if det := c.detector.IsAffected(local, loc); det.Affected {
		d.Warning = det.Warning
	}
	return d
}

// OffsetLabel returns a UTC offset, in seconds, formatted as UTC±H, or
// UTC±H:MM for offsets that are not a whole number of hours.
func OffsetLabel(seconds int) string {
	sign := "+"
	if seconds < 0 {
		sign = "-"
		seconds = -seconds
	}
	h, m := seconds/3600, (seconds%3600)/60
	if m == 0 {
		return fmt.Sprintf("UTC%s%d", sign, h)
	}
	return fmt.Sprintf("UTC%s%d:%02d", sign, h, m)
}
