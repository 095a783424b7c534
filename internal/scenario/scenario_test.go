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


package scenario_test

import (
	"testing"

	"github.com/nalgeon/be"

	. "fillmore-labs.com/definite/internal/scenario"
)

const fence = "```"

func TestExtract(t *testing.T) {
	t.Parallel()

	doc := `# Locals

Some prose.

## Test: unassigned
` + fence + `go
package p

func f() int {
	var x int
	return x
}
` + fence + `
` + fence + `want
5 uav x
` + fence + `

## Test: clean
` + fence + `go
package p
` + fence + `
` + fence + `want
` + fence + `
`

	got, err := Extract([]byte(doc))
	be.Err(t, err, nil)
	be.Equal(t, len(got), 2)

	be.Equal(t, got[0].Name, "unassigned")
	be.Equal(t, got[0].Line, 5)
	be.Equal(t, got[0].Source, "package p\n\nfunc f() int {\n\tvar x int\n\treturn x\n}\n")
	be.Equal(t, got[0].Want, []Expectation{{Line: 5, Code: "uav", Arg: "x"}})
	be.Equal(t, got[0].Want[0].String(), "5 uav x")

	be.Equal(t, got[1].Name, "clean")
	be.Equal(t, len(got[1].Want), 0)
}

func TestExtractErrors(t *testing.T) {
	t.Parallel()

	tests := [...]struct {
		name string
		doc  string
	}{
		{"outside", fence + "go\npackage p\n" + fence + "\n"},
		{"no source", "## Test: x\n" + fence + "want\n" + fence + "\n"},
		{"no want", "## Test: x\n" + fence + "go\npackage p\n" + fence + "\n"},
		{"unknown fence", "## Test: x\n" + fence + "rust\nfn main() {}\n" + fence + "\n"},
		{"bad line", "## Test: x\n" + fence + "go\npackage p\n" + fence + "\n" + fence + "want\nx uav y\n" + fence + "\n"},
		{"duplicate", "## Test: x\n" + fence + "go\npackage p\n" + fence + "\n" + fence + "go\npackage q\n" + fence + "\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Extract([]byte(tt.doc))
			be.Err(t, err, ErrFormat)
		})
	}
}

func TestExpectationString(t *testing.T) {
	t.Parallel()

	be.Equal(t, Expectation{Line: 3, Code: "unr"}.String(), "3 unr")
}
