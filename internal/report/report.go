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


// Package report turns flow analysis diagnostics into [analysis.Diagnostic] values.
package report

import (
	"context"
	"runtime/trace"

	"golang.org/x/tools/go/analysis"

	"fillmore-labs.com/definite/internal/astutil"
	"fillmore-labs.com/definite/internal/config"
	"fillmore-labs.com/definite/internal/diag"
)

// Filter selects the diagnostics to report.
type Filter struct {
	Checks      config.Checks
	Behavior    config.Behavior
	MinSeverity diag.Severity
}

// Keep reports whether d passes the filter for the file it is located in.
func (f Filter) Keep(file astutil.CurrentFile, d diag.Diagnostic) bool {
	switch {
	case !f.Checks.Enabled(config.CheckOf(d.Kind)):
		return false

	case !d.Severity.AtLeast(f.MinSeverity):
		return false

	case file.Generated() && !f.Behavior.Enabled(config.IncludeGenerated):
		return false

	case file.NoLint(), file.NoLintComment(d.Pos):
		return false

	default:
		return true
	}
}

// Diagnostics reports the diagnostics passing the filter to the pass.
func Diagnostics(ctx context.Context, p *analysis.Pass, files astutil.Files, ds []diag.Diagnostic, f Filter) {
	defer trace.StartRegion(ctx, "ReportDiagnostics").End()

	for _, d := range ds {
		file, ok := files.Of(d.Pos)
		if !ok || !f.Keep(file, d) {
			continue
		}

		p.Report(Convert(d))
	}
}

// Convert formats d as an [analysis.Diagnostic], with the short code appended to the message.
func Convert(d diag.Diagnostic) analysis.Diagnostic {
	end := d.End
	if end < d.Pos {
		end = d.Pos
	}

	return analysis.Diagnostic{
		Pos:      d.Pos,
		End:      end,
		Category: d.Kind.String(),
		Message:  d.Message() + " (df:" + d.Kind.Code() + ")",
	}
}
