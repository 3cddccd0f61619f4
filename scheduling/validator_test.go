// Copyright 2025 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package scheduling_test

import (
	"strings"
	"testing"
	"time"

	"github.com/cosnicolaou/dstguard/scheduling"
	"github.com/google/go-cmp/cmp"
)

func TestValidate(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatal(err)
	}
	v := scheduling.NewValidator(nil)
	for i, tc := range []struct {
		when        time.Time
		valid       bool
		warnings    int
		suggestions int
		contains    string
	}{
		{time.Date(2025, 7, 4, 14, 0, 0, 0, loc), true, 0, 0, ""},
		{time.Date(2025, 11, 2, 14, 0, 0, 0, loc), false, 1, 1, "repeated hour"},
		{time.Date(2025, 11, 2, 1, 30, 0, 0, loc), false, 2, 1, "repeated hour"},
		{time.Date(2025, 11, 2, 2, 15, 0, 0, loc), false, 2, 1, "repeated hour"},
		{time.Date(2025, 3, 9, 14, 0, 0, 0, loc), false, 1, 1, "skipped hour"},
		{time.Date(2025, 3, 9, 1, 0, 0, 0, loc), false, 2, 1, "skipped hour"},
		{time.Date(2025, 3, 9, 3, 0, 0, 0, loc), false, 1, 1, "skipped hour"},
		{time.Date(2025, 3, 10, 1, 0, 0, 0, loc), true, 0, 1, "adjacent"},
		{time.Date(2025, 11, 1, 14, 0, 0, 0, loc), true, 0, 1, "adjacent"},
	} {
		res := v.Validate(tc.when, loc)
		if got, want := res.Valid, tc.valid; got != want {
			t.Errorf("%v: %v: got %v, want %v", i, tc.when, got, want)
		}
		if got, want := len(res.Warnings), tc.warnings; got != want {
			t.Errorf("%v: %v: got %v, want %v: %v", i, tc.when, got, want, res.Warnings)
		}
		if got, want := len(res.Suggestions), tc.suggestions; got != want {
			t.Errorf("%v: %v: got %v, want %v: %v", i, tc.when, got, want, res.Suggestions)
		}
		if got, want := strings.Join(res.Suggestions, ","), tc.contains; !strings.Contains(got, want) {
			t.Errorf("%v: got %v, want it to contain %v", i, got, want)
		}
	}
}

func TestValidateIsPure(t *testing.T) {
	loc, err := time.LoadLocation("America/Chicago")
	if err != nil {
		t.Fatal(err)
	}
	v := scheduling.NewValidator(nil)
	when := time.Date(2025, 11, 2, 1, 30, 0, 0, loc)
	first := v.Validate(when, loc)
	for range 10 {
		if diff := cmp.Diff(first, v.Validate(when, loc)); diff != "" {
			t.Errorf("mismatch (-first +next):\n%s", diff)
		}
	}
	// A nil location uses the time's own location.
	if diff := cmp.Diff(first, v.Validate(when, nil)); diff != "" {
		t.Errorf("mismatch (-first +next):\n%s", diff)
	}
}
