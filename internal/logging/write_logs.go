// Copyright 2025 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package logging

import (
	"log/slog"
	"time"

	"cloudeng.io/datetime"
)

const (
	LogConversionFallback    = "conversion-fallback"
	LogConversionPassthrough = "conversion-passthrough"
	LogRemediated            = "remediated"
	LogRemediationFailed     = "remediation-failed"
	LogBatch                 = "batch"
)

const (
	LocalToAbsolute = "local-to-absolute"
	AbsoluteToLocal = "absolute-to-local"
)

// WriteConversionFallback logs a conversion that failed for zone but
// succeeded using fallback.
func WriteConversionFallback(l *slog.Logger, direction, zone, fallback string, in, out time.Time, err error) {
	l.Warn(LogConversionFallback,
		"direction", direction,
		"zone", zone,
		"fallback", fallback,
		"in", in,
		"out", out,
		"err", err)
}

// WriteConversionPassthrough logs a conversion that failed for both the
// zone and any fallback and for which the input value was returned as is.
func WriteConversionPassthrough(l *slog.Logger, direction, zone, fallback string, in time.Time, err error) {
	l.Warn(LogConversionPassthrough,
		"direction", direction,
		"zone", zone,
		"fallback", fallback,
		"in", in,
		"out", in,
		"err", err)
}

// WriteRemediated logs the outcome of remediating a single event. It must
// be called once for every event that was successfully evaluated.
func WriteRemediated(l *slog.Logger, id, zone string, date datetime.CalendarDate, original, adjusted time.Time, state, change, reason string, nWarnings, nNotifications int) {
	l.Info(LogRemediated,
		"id", id,
		"zone", zone,
		"date", date.String(),
		"original", original,
		"adjusted", adjusted,
		"state", state,
		"change", change,
		"reason", reason,
		"#warnings", nWarnings,
		"#notifications", nNotifications)
}

// WriteRemediationFailed logs an event that could not be evaluated.
func WriteRemediationFailed(l *slog.Logger, id, zone string, original time.Time, err error) {
	l.Warn(LogRemediationFailed,
		"id", id,
		"zone", zone,
		"original", original,
		"err", err)
}

// WriteBatch logs a summary of a batch of remediations.
func WriteBatch(l *slog.Logger, nEvents, nChanged, nFailed int, took time.Duration) {
	l.Info(LogBatch,
		"#events", nEvents,
		"#changed", nChanged,
		"#failed", nFailed,
		"took", took)
}
