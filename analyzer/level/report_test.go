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


package level_test

import (
	"testing"

	"github.com/nalgeon/be"

	. "fillmore-labs.com/definite/analyzer/level"
	"fillmore-labs.com/definite/internal/diag"
)

func TestReport(t *testing.T) {
	t.Parallel()

	tests := [...]struct {
		text string
		want Report
		sev  diag.Severity
	}{
		{"", ReportAll, diag.Warning},
		{"All", ReportAll, diag.Warning},
		{"errors", ReportErrors, diag.Error},
		{"error", ReportErrors, diag.Error},
	}

	for _, tt := range tests {
		var r Report
		be.Err(t, r.UnmarshalText([]byte(tt.text)), nil)
		be.Equal(t, r, tt.want)
		be.Equal(t, r.Severity(), tt.sev)
		be.Equal(t, ReportFor(tt.sev), tt.want)
	}

	var r Report
	be.Err(t, r.UnmarshalText([]byte("some")))

	_, err := Report(7).MarshalText()
	be.Err(t, err)
}
