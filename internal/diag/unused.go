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
	"fillmore-labs.com/definite/internal/flow/block"
)

type usage uint8

const (
	written usage = 1 << iota
	used
)

// unusedLocals warns about local variables never read.
// Writes of values with possible side effects count as a use.
func (p *projector) unusedLocals() {
	uses := make(map[*bound.Local]usage)

	for _, f := range p.Graph.Funcs {
		for _, op := range f.Ops() {
			l, ok := op.Var.(*bound.Local)
			if !ok {
				continue
			}

			switch op.Kind {
			case block.Read:
				uses[l] |= used

			case block.Write, block.Copy:
				if _, ok := op.Node.(*bound.Catch); ok {
					continue
				}

				uses[l] |= written
				if op.Ref || WriteConsideredUse(op.Value) {
					uses[l] |= used
				}

			case block.Declare, block.Call, block.Convert, block.ExitCheck:
			}
		}
	}

	for _, d := range p.Graph.Locals {
		l := d.Local
		if d.Implicit || !tracked(l) {
			continue
		}

		end := l.Pos + token.Pos(len(l.Name))

		switch u := uses[l]; {
		case u&used != 0:

		case u&written != 0:
			p.report(VariableAssignedNeverUsed, l.Pos, end, l.Name)

		default:
			p.report(VariableDeclaredNeverUsed, l.Pos, end, l.Name)
		}
	}
}

func tracked(l *bound.Local) bool {
	if l.Const || l.Name == "" || l.Name == "_" || !l.Pos.IsValid() {
		return false
	}

	if t := l.Type; t != nil && t.Kind == bound.Invalid {
		return false
	}

	return l.Kind == bound.PlainLocal || l.Kind == bound.CatchLocal
}

// WriteConsideredUse reports whether assigning value might have an observable effect,
// so the assignment counts as a use of the target.
// A nil value is an assignment from outside the expression tree, like an out argument.
func WriteConsideredUse(value bound.Expr) bool {
	switch v := value.(type) {
	case nil:
		return true

	case *bound.Literal:
		return v.Value == nil && !v.Type().IsReference()

	case *bound.Default:
		return false

	case *bound.New:
		return !v.Trivial

	case *bound.Tuple:
		for _, e := range v.Elems {
			if WriteConsideredUse(e) {
				return true
			}
		}

		return false

	case *bound.Conversion:
		return WriteConsideredUse(v.X)

	default:
		return true
	}
}

// unusedFunctions warns about local functions never called or converted outside their own body.
func (p *projector) unusedFunctions() {
	g := p.Graph
	referenced := make([]bool, len(g.Funcs))

	for j, f := range g.Funcs {
		for _, op := range f.Ops() {
			if op.Kind != block.Call && op.Kind != block.Convert {
				continue
			}

			if !g.Encloses(op.Func, j) {
				referenced[op.Func] = true
			}
		}
	}

	for i, f := range g.Funcs {
		fn := f.Function
		if referenced[i] || fn == nil || fn.Kind != bound.LocalFunction || fn.Name == "" || !fn.Pos().IsValid() {
			continue
		}

		p.report(UnusedLocalFunction, fn.Pos(), fn.Pos()+token.Pos(len(fn.Name)), fn.Name)
	}
}
