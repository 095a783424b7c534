// Copyright 2026 Oliver Eikemeier. All Rights Reserved.
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

package diag

import (
	"cmp"
	"fmt"
	"go/token"
	"slices"
)

// Diagnostic is a flow analysis violation.
type Diagnostic struct {
	Kind     Kind
	Severity Severity
	Pos, End token.Pos
	Args     []string
}

// New creates a diagnostic with the default severity of kind.
func New(kind Kind, pos, end token.Pos, args ...string) Diagnostic {
	return Diagnostic{Kind: kind, Severity: kind.Severity(), Pos: pos, End: end, Args: args}
}

// Message formats the diagnostic for humans.
func (d Diagnostic) Message() string {
	if d.Kind >= numKinds {
		return d.Kind.String()
	}

	format := kinds[d.Kind].format

	args := make([]any, len(d.Args))
	for i, a := range d.Args {
		args[i] = a
	}

	if len(args) == 0 {
		return format
	}

	return fmt.Sprintf(format, args...)
}

// Arg returns the first argument, or the empty string.
func (d Diagnostic) Arg() string {
	if len(d.Args) == 0 {
		return ""
	}

	return d.Args[0]
}

// Compare orders diagnostics by position, then kind.
func Compare(a, b Diagnostic) int {
	return cmp.Or(
		cmp.Compare(a.Pos, b.Pos),
		cmp.Compare(a.Kind, b.Kind),
		slices.Compare(a.Args, b.Args),
	)
}

// Sort orders diagnostics by position, then kind.
func Sort(ds []Diagnostic) {
	slices.SortStableFunc(ds, Compare)
}
