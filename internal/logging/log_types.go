// Copyright 2025 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package logging

import (
	"strings"

	"cloudeng.io/datetime"
)

// Date is a datetime.CalendarDate that is logged using its String method.
type Date datetime.CalendarDate

func (ld *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if len(s) == 0 || s == "null" {
		return nil
	}
	return (*datetime.CalendarDate)(ld).Parse(s)
}
