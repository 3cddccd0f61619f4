// Copyright 2025 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package testutil

import (
	"fmt"
	"sync"
	"time"

	"github.com/cosnicolaou/dstguard/tzconv"
)

// Call records a single call to a MockEngine.
type Call struct {
	Op   string
	Zone string
	In   time.Time
}

func (c Call) String() string {
	return fmt.Sprintf("%v(%v)", c.Op, c.Zone)
}

// MockEngine is a tzconv.Engine that delegates to a tzconv.ZoneEngine
// but can be configured to fail, or panic, for specific zones. All
// calls are recorded.
type MockEngine struct {
	zones *tzconv.ZoneEngine

	mu       sync.Mutex
	failures map[string]error
	panics   map[string]bool
	calls    []Call
}

func NewMockEngine() *MockEngine {
	return &MockEngine{
		zones:    tzconv.NewZoneEngine(),
		failures: map[string]error{},
		panics:   map[string]bool{},
	}
}

// Fail configures the engine to return err for all conversions in zone.
func (m *MockEngine) Fail(zone string, err error) *MockEngine {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[zone] = err
	return m
}

// Panic configures the engine to panic for all conversions in zone.
func (m *MockEngine) Panic(zone string) *MockEngine {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.panics[zone] = true
	return m
}

// Calls returns the calls made so far.
func (m *MockEngine) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Call{}, m.calls...)
}

func (m *MockEngine) record(op, zone string, in time.Time) error {
	m.mu.Lock()
	m.calls = append(m.calls, Call{Op: op, Zone: zone, In: in})
	err, panics := m.failures[zone], m.panics[zone]
	m.mu.Unlock()
	if panics {
		panic(fmt.Sprintf("mock engine: %v", zone))
	}
	return err
}

func (m *MockEngine) LocalToAbsolute(local time.Time, zone string) (time.Time, error) {
	if err := m.record("local-to-absolute", zone, local); err != nil {
		return time.Time{}, err
	}
	return m.zones.LocalToAbsolute(local, zone)
}

func (m *MockEngine) AbsoluteToLocal(abs time.Time, zone string) (time.Time, error) {
	if err := m.record("absolute-to-local", zone, abs); err != nil {
		return time.Time{}, err
	}
	return m.zones.AbsoluteToLocal(abs, zone)
}
