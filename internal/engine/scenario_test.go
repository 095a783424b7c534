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


package engine_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nalgeon/be"

	. "fillmore-labs.com/definite/internal/engine"
	"fillmore-labs.com/definite/internal/lower"
	"fillmore-labs.com/definite/internal/scenario"
)

func TestScenarios(t *testing.T) {
	t.Parallel()

	files, err := filepath.Glob(filepath.Join("testdata", "*.md"))
	be.Err(t, err, nil)
	be.True(t, len(files) > 0)

	for _, file := range files {
		t.Run(strings.TrimSuffix(filepath.Base(file), ".md"), func(t *testing.T) {
			t.Parallel()

			doc, err := os.ReadFile(file)
			be.Err(t, err, nil)

			scenarios, err := scenario.Extract(doc)
			be.Err(t, err, nil)

			for _, sc := range scenarios {
				t.Run(sc.Name, func(t *testing.T) {
					t.Parallel()

					runScenario(t, sc)
				})
			}
		})
	}
}

func runScenario(t *testing.T, sc scenario.Scenario) {
	t.Helper()

	pkg, err := lower.ParseSource("scenario.go", []byte(sc.Source))
	be.Err(t, err, nil)

	r, err := AnalyzeAll(t.Context(), pkg.Compile())
	be.Err(t, err, nil)

	got := make([]string, 0, len(r.Diagnostics))
	for _, d := range r.Diagnostics {
		e := scenario.Expectation{Line: pkg.Fset.Position(d.Pos).Line, Code: d.Kind.Code(), Arg: d.Arg()}
		got = append(got, e.String())
	}

	want := make([]string, 0, len(sc.Want))
	for _, e := range sc.Want {
		want = append(want, e.String())
	}

	be.Equal(t, got, want)
}
