// Copyright 2025-2026 Oliver Eikemeier. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0


// Package level defines textual configuration levels of the definite analyzer.
package level

import (
	"fmt"
	"strings"

	"fillmore-labs.com/definite/internal/diag"
)

// Report specifies which diagnostics are reported.
type Report uint8

const (
	// ReportAll reports errors and warnings.
	ReportAll Report = iota

	// ReportErrors reports only diagnostics that are errors.
	ReportErrors
)

// ReportFor returns the level reporting diagnostics at least as serious as s.
func ReportFor(s diag.Severity) Report {
	if s == diag.Error {
		return ReportErrors
	}

	return ReportAll
}

// Severity returns the least serious severity reported at this level.
func (o Report) Severity() diag.Severity {
	if o == ReportErrors {
		return diag.Error
	}

	return diag.Warning
}

// MarshalText implements [encoding.TextMarshaler].
func (o Report) MarshalText() ([]byte, error) {
	switch o {
	case ReportAll:
		return []byte("all"), nil

	case ReportErrors:
		return []byte("errors"), nil

	default:
		return nil, fmt.Errorf("unknown report level %d", o)
	}
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (o *Report) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "", "all", "warning", "warnings":
		*o = ReportAll

	case "errors", "error":
		*o = ReportErrors

	default:
		return fmt.Errorf("unknown report level %q", string(text))
	}

	return nil
}
