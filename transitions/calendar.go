// Copyright 2025 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package transitions

import (
	"sync"
	"time"
)

type calendarKey struct {
	year int
	zone string
}

// Calendar memoizes the transitions computed by a Rule, keyed by year
// and location name. It is safe for concurrent use.
type Calendar struct {
	rule  Rule
	mu    sync.Mutex
	pairs map[calendarKey]Pair
}

// NewCalendar returns a Calendar for the supplied rule, USRule is used
// if rule is nil.
func NewCalendar(rule Rule) *Calendar {
	if rule == nil {
		rule = USRule
	}
	return &Calendar{
		rule:  rule,
		pairs: map[calendarKey]Pair{},
	}
}

// Rule returns the rule used by the calendar.
func (c *Calendar) Rule() Rule {
	return c.rule
}

// Transitions returns the transitions for the specified year and location.
func (c *Calendar) Transitions(year int, loc *time.Location) Pair {
	if loc == nil {
		loc = time.UTC
	}
	key := calendarKey{year: year, zone: loc.String()}
	c.mu.Lock()
	defer c.mu.Unlock()
	if p, ok := c.pairs[key]; ok {
		return p
	}
	p := c.rule.Transitions(year, loc)
	c.pairs[key] = p
	return p
}
