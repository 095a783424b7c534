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

package graph

import (
	"context"
	"iter"
	"runtime/trace"

	"fillmore-labs.com/definite/internal/bound"
	"fillmore-labs.com/definite/internal/flow/block"
	"fillmore-labs.com/definite/internal/slot"
)

// Graph is the control flow graph of a method body and its nested functions.
type Graph struct {
	Method *bound.Method
	Slots  *slot.Model

	// Funcs holds the method body at index 0, followed by local functions and lambdas.
	Funcs []*Func

	// Extents maps statements and value expressions to their lowered range.
	Extents map[bound.Node]Extent

	// Jumps lists all break, continue, goto, goto case, return and yield break statements.
	Jumps []Jump

	// Locals lists all declared local variables.
	Locals []Declared

	// Problems found while lowering.
	Problems []Problem

	owner  map[bound.Symbol]int
	funcs  map[*bound.Function]int
	copies [][2]slot.Slot
}

// Func is the sub-graph of one function body.
type Func struct {
	Index    int
	Parent   int             // enclosing function, -1 for the method body
	Function *bound.Function // nil for the method body

	Entry, Exit *block.Block
	Blocks      []*block.Block // Blocks[i].Index == i

	Assigned []slot.Slot // assigned on entry
	Outs     []Out       // must be assigned at every exit

	built bool
}

// Out is a parameter that must be assigned before the function returns.
type Out struct {
	Slot  slot.Slot
	Param *bound.Parameter
}

// Point is a position between the operations of a block.
type Point struct {
	Block *block.Block
	Index int
}

// Extent is the lowered range of a statement or expression.
// Code of the node starts at Start, and execution continues at End.
type Extent struct {
	Func       int
	Start, End Point
}

// Jump is a transfer of control by a statement.
type Jump struct {
	Func int
	Stmt bound.Stmt
	From *block.Block

	// Target is the statement control transfers to or leaves: the loop or switch
	// for break and continue, the labeled statement for goto, the switch for goto case.
	// It is nil for return and yield break.
	Target bound.Stmt
}

// Declared is a local variable and the function declaring it.
type Declared struct {
	Local    *bound.Local
	Func     int
	Implicit bool
}

// ProblemKind classifies a [Problem].
type ProblemKind uint8

//go:generate go tool stringer -type ProblemKind -linecomment
const (
	// InvalidBranch is a break or continue without target.
	InvalidBranch ProblemKind = iota // invalid-branch

	// UndefinedLabel is a goto to a label that does not exist.
	UndefinedLabel // undefined-label

	// UnreferencedLabel is a label never jumped to.
	UnreferencedLabel // unreferenced-label

	// SectionFallthrough is a switch section whose end may be reached.
	SectionFallthrough // fallthrough

	// RefNonVariable passes something that is not a variable by ref or out.
	RefNonVariable // ref-non-variable

	// InvalidGotoCase is a goto case without matching section.
	InvalidGotoCase // invalid-goto-case
)

// Problem is a structural error found while lowering.
type Problem struct {
	Kind ProblemKind
	Func int
	Node bound.Node
	Name string

	// Check, when set, makes the problem conditional on the block being reachable.
	Check *block.Block
}

// Build lowers the body of m into a control flow graph.
func Build(ctx context.Context, m *bound.Method) *Graph {
	defer trace.StartRegion(ctx, "Graph").End()

	g := &Graph{
		Method:  m,
		Slots:   slot.New(),
		Extents: make(map[bound.Node]Extent),
		owner:   make(map[bound.Symbol]int),
		funcs:   make(map[*bound.Function]int),
	}

	g.buildMethod(m)

	// Functions referenced but never declared are lowered as children of the method body.
	for i := 1; i < len(g.Funcs); i++ {
		if f := g.Funcs[i]; !f.built {
			g.buildFunction(f.Function, 0)
		}
	}

	// Allocate field slots for struct copies, so partial state propagates.
	for changed := true; changed; {
		changed = false
		for _, c := range g.copies {
			if g.Slots.Mirror(c[0], c[1]) {
				changed = true
			}
		}
	}

	return g
}

// FuncIndex returns the index of a nested function.
func (g *Graph) FuncIndex(fn *bound.Function) (int, bool) {
	i, ok := g.funcs[fn]

	return i, ok
}

// Owner returns the index of the function declaring sym.
func (g *Graph) Owner(sym bound.Symbol) (int, bool) {
	i, ok := g.owner[sym]

	return i, ok
}

// Captured reports whether slot s belongs to a variable declared outside function f.
func (g *Graph) Captured(f int, s slot.Slot) bool {
	if !s.Valid() {
		return false
	}

	owner, ok := g.owner[g.Slots.Symbol(g.Slots.Root(s))]

	return ok && owner != f
}

// Encloses reports whether function outer is f or one of its ancestors.
func (g *Graph) Encloses(outer, f int) bool {
	for ; f >= 0; f = g.Funcs[f].Parent {
		if f == outer {
			return true
		}
	}

	return false
}

// Ops yields all operations of the function with their block, including edge assignments.
func (f *Func) Ops() iter.Seq2[*block.Block, block.Op] {
	return func(yield func(*block.Block, block.Op) bool) {
		for _, b := range f.Blocks {
			for _, op := range b.Ops {
				if !yield(b, op) {
					return
				}
			}

			for _, e := range b.Succs {
				for _, op := range e.Assigns {
					if !yield(b, op) {
						return
					}
				}
			}
		}
	}
}

func (g *Graph) funcOf(fn *bound.Function) *Func {
	if i, ok := g.funcs[fn]; ok {
		return g.Funcs[i]
	}

	f := &Func{Index: len(g.Funcs), Parent: 0, Function: fn}
	g.funcs[fn] = f.Index
	g.Funcs = append(g.Funcs, f)

	return f
}

func (g *Graph) buildMethod(m *bound.Method) {
	f := &Func{Index: 0, Parent: -1, built: true}
	g.Funcs = append(g.Funcs, f)

	b := newBuilder(g, f)

	if this := m.This; this != nil {
		s := g.declareParam(f, this)
		if m.Constructor && this.Type.IsStruct() {
			f.Outs = append(f.Outs, Out{Slot: s, Param: this})
		} else {
			f.Assigned = append(f.Assigned, s)
		}
	}

	b.lowerBody(m.Params, m.Body, m.Pos(), m.End())
}

func (g *Graph) buildFunction(fn *bound.Function, parent int) int {
	f := g.funcOf(fn)
	if f.built {
		return f.Index
	}

	f.built = true
	f.Parent = parent

	b := newBuilder(g, f)
	b.lowerBody(fn.Params, fn.Body, fn.Pos(), fn.End())

	return f.Index
}

func (g *Graph) declareParam(f *Func, p *bound.Parameter) slot.Slot {
	g.owner[p] = f.Index

	return g.Slots.Variable(p)
}

func (g *Graph) declareLocal(f *Func, l *bound.Local, implicit bool) slot.Slot {
	if _, ok := g.owner[l]; !ok {
		g.owner[l] = f.Index
		g.Locals = append(g.Locals, Declared{Local: l, Func: f.Index, Implicit: implicit})
	}

	return g.Slots.Variable(l)
}
