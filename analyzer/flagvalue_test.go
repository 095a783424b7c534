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


package analyzer_test

import (
	"flag"
	"strings"
	"testing"

	"github.com/nalgeon/be"

	. "fillmore-labs.com/definite/analyzer"
	"fillmore-labs.com/definite/analyzer/level"
	"fillmore-labs.com/definite/internal/config"
	"fillmore-labs.com/definite/internal/diag"
)

func TestFlagValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		initial config.Check
		args    []string
		want    bool
	}{
		{
			name:    "Enable",
			initial: config.UnusedCheck,
			args:    []string{"-unreachable"},
			want:    true,
		},
		{
			name:    "Disable",
			initial: config.UnreachableCheck,
			args:    []string{"-unreachable=false"},
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			flags := config.NewBitMask(tt.initial)

			fs := flag.NewFlagSet("test", flag.ContinueOnError)

			const value = config.UnreachableCheck
			fv := NewCheckValue(&flags, value)
			fs.Var(fv, "unreachable", "report unreachable code")

			be.Err(t, fs.Parse(tt.args), nil)
			be.Equal(t, fv.Get(), any(tt.want))
			be.Equal(t, flags.Enabled(value), tt.want)
		})
	}
}

func TestReportValue(t *testing.T) {
	t.Parallel()

	sev := diag.Warning

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fv := NewReportValue(&sev)
	fs.Var(fv, "report", "diagnostics to report")

	be.Err(t, fs.Parse([]string{"-report=errors"}), nil)
	be.Equal(t, sev, diag.Error)
	be.Equal(t, fv.Get(), any(level.ReportErrors))
	be.Equal(t, fv.String(), "errors")

	be.Err(t, fs.Parse([]string{"-report=none"}))
}

func TestUsage(t *testing.T) {
	t.Parallel()

	flags := config.NewBitMask(config.UnreachableCheck)

	fs := flag.NewFlagSet("test", flag.ContinueOnError)

	fv := NewCheckValue(&flags, config.UnreachableCheck)
	fs.Var(fv, "unreachable", "report unreachable code")

	const expectedUsage = `
  -unreachable
    	report unreachable code (default true)
`

	var out strings.Builder
	fs.SetOutput(&out)
	fs.Usage()

	if got, want := out.String(), expectedUsage; !strings.HasSuffix(got, want) {
		t.Errorf("Usage() = %q, want suffix %q", got, want)
	}
}
