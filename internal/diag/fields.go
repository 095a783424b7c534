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
	"go/token"

	"fillmore-labs.com/definite/internal/bound"
)

// FieldsNeverAssigned warns about struct fields no method of the compilation ever assigns.
func FieldsNeverAssigned(comp *bound.Compilation) []Diagnostic {
	assigned := make(map[*bound.Field]struct{})
	mark := func(e bound.Expr) {
		if fa, ok := e.(*bound.FieldAccess); ok {
			assigned[fa.Field.Canonical()] = struct{}{}
		}
	}

	args := func(as []bound.Arg) {
		for _, a := range as {
			if a.RefKind == bound.ByRef || a.RefKind == bound.ByOut {
				mark(a.X)
			}
		}
	}

	for _, m := range comp.Methods {
		bound.Inspect(m.Body, func(n bound.Node) bool {
			switch n := n.(type) {
			case *bound.Assign:
				mark(n.Left)

			case *bound.CompoundAssign:
				mark(n.Left)

			case *bound.IncDec:
				mark(n.X)

			case *bound.AddressOf:
				mark(n.X)

			case *bound.Call:
				args(n.Args)
				if n.ReceiverRef == bound.ByRef || n.ReceiverRef == bound.ByOut {
					mark(n.Receiver)
				}

			case *bound.Invoke:
				args(n.Args)

			case *bound.New:
				args(n.Args)
				for _, init := range n.Inits {
					assigned[init.Field.Canonical()] = struct{}{}
				}

			case *bound.ForEach:
				for _, t := range n.Targets {
					mark(t)
				}
			}

			return true
		})
	}

	var diags []Diagnostic

	for _, t := range comp.Types {
		if !t.IsStruct() {
			continue
		}

		for _, f := range t.Fields {
			if f.Static || f.Alias != nil || !f.Pos.IsValid() {
				continue
			}

			if _, ok := assigned[f.Canonical()]; ok {
				continue
			}

			diags = append(diags, New(FieldNeverAssigned, f.Pos, f.Pos+token.Pos(len(f.Name)), t.Name+"."+f.Name))
		}
	}

	Sort(diags)

	return diags
}
