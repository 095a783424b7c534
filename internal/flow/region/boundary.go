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

package region

import (
	"github.com/bits-and-blooms/bitset"

	"fillmore-labs.com/definite/internal/bound"
	"fillmore-labs.com/definite/internal/flow/block"
	"fillmore-labs.com/definite/internal/flow/dataflow"
	"fillmore-labs.com/definite/internal/flow/graph"
)

// boundaryState tracks assignments relative to the most recent entry into a region.
type boundaryState struct {
	// Assignment since entering the region. Before the first entry everything counts as assigned.
	dataflow.State

	// Out holds the variables that may still carry a value written inside the region.
	Out *bitset.BitSet
}

// boundary is a lattice resetting the assignment state where execution enters a region.
type boundary struct {
	assign *dataflow.Assignment
	region Region
	vars   *variables
}

var _ dataflow.Lattice[boundaryState] = boundary{}

func (l boundary) Entry() boundaryState {
	n := l.assign.Graph.Slots.Len()

	return boundaryState{
		State: dataflow.State{Reached: true, Def: dataflow.FullSet(n), May: dataflow.FullSet(n)},
		Out:   dataflow.NewSet(l.vars.len()),
	}
}

func (boundary) Bottom() boundaryState { return boundaryState{} }

func (l boundary) Transfer(b *block.Block, in boundaryState) boundaryState {
	if !in.Reached {
		return in
	}

	s := in.clone()
	l.replay(b, &s, len(b.Ops), nil)

	return s
}

// replay applies the first n operations of b, visiting each with the state before it.
func (l boundary) replay(b *block.Block, s *boundaryState, n int, visit func(op block.Op, s *boundaryState)) {
	for i, op := range b.Ops[:n] {
		l.enter(b, i, s)

		if visit != nil {
			visit(op, s)
		}

		l.apply(s, op)
	}

	l.enter(b, n, s)
}

func (l boundary) enter(b *block.Block, i int, s *boundaryState) {
	if !s.Reached || b != l.region.Start.Block || i != l.region.Start.Index {
		return
	}

	n := l.assign.Graph.Slots.Len()
	s.Def, s.May = dataflow.NewSet(n), dataflow.NewSet(n)
}

func (l boundary) apply(s *boundaryState, op block.Op) {
	if !s.Reached {
		return
	}

	l.assign.Apply(&s.State, op)

	inside := l.region.Contains(op.Pos)

	switch op.Kind {
	case block.Write, block.Copy:
		i, ok := l.vars.index(op.Var)
		switch {
		case !ok:

		case inside:
			s.Out.Set(uint(i))

		case !l.assign.Graph.Slots.IsStructField(op.Slot):
			s.Out.Clear(uint(i))
		}

	case block.Declare:
		if i, ok := l.vars.index(op.Var); ok {
			s.Out.Clear(uint(i))
		}

	case block.Call:
		if !inside {
			return
		}

		for sym := range l.vars.writes[op.Func] {
			if i, ok := l.vars.index(sym); ok && l.vars.capturedBy(op.Func, sym) {
				s.Out.Set(uint(i))
			}
		}

	case block.Read, block.Convert, block.ExitCheck:
	}
}

func (l boundary) Edge(e block.Edge, in, out boundaryState) boundaryState {
	if e.Kind == block.Exceptional {
		return l.Join(in, out)
	}

	if len(e.Assigns) == 0 || !out.Reached {
		return out
	}

	s := out.clone()
	for _, op := range e.Assigns {
		l.apply(&s, op)
	}

	return s
}

func (l boundary) Through(s, fin boundaryState) boundaryState {
	t := boundaryState{State: l.assign.Through(s.State, fin.State)}
	if t.Reached {
		t.Out = s.Out.Clone()
		t.Out.InPlaceUnion(fin.Out)
	}

	return t
}

func (l boundary) Join(x, y boundaryState) boundaryState {
	switch {
	case !x.Reached:
		return y

	case !y.Reached:
		return x
	}

	t := boundaryState{State: l.assign.Join(x.State, y.State), Out: x.Out.Clone()}
	t.Out.InPlaceUnion(y.Out)

	return t
}

func (l boundary) Equal(x, y boundaryState) bool {
	if !l.assign.Equal(x.State, y.State) {
		return false
	}

	return !x.Reached || x.Out.Equal(y.Out)
}

func (s boundaryState) clone() boundaryState {
	if !s.Reached {
		return boundaryState{}
	}

	return boundaryState{State: s.State.Clone(), Out: s.Out.Clone()}
}

// variables indexes the variables of a graph and what each function reads and writes.
type variables struct {
	graph  *graph.Graph
	list   []bound.Symbol
	idx    map[bound.Symbol]int
	reads  []symbols // per function, including nested functions
	writes []symbols
}

func newVariables(g *graph.Graph) *variables {
	v := &variables{
		graph:  g,
		idx:    make(map[bound.Symbol]int),
		reads:  make([]symbols, len(g.Funcs)),
		writes: make([]symbols, len(g.Funcs)),
	}

	for i := range g.Funcs {
		v.reads[i], v.writes[i] = make(symbols), make(symbols)
	}

	for j, f := range g.Funcs {
		for _, op := range f.Ops() {
			if op.Var == nil {
				continue
			}

			if _, ok := v.idx[op.Var]; !ok {
				v.idx[op.Var] = len(v.list)
				v.list = append(v.list, op.Var)
			}

			for i := range g.Funcs {
				if !g.Encloses(i, j) {
					continue
				}

				switch op.Kind {
				case block.Read:
					v.reads[i].add(op.Var)

				case block.Write, block.Copy:
					v.writes[i].add(op.Var)

				case block.Declare, block.Call, block.Convert, block.ExitCheck:
				}
			}
		}
	}

	return v
}

func (v *variables) len() int { return len(v.list) }

func (v *variables) index(sym bound.Symbol) (int, bool) {
	if sym == nil {
		return 0, false
	}

	i, ok := v.idx[sym]

	return i, ok
}

// capturedBy reports whether sym is declared outside nested function f.
func (v *variables) capturedBy(f int, sym bound.Symbol) bool {
	owner, ok := v.graph.Owner(sym)

	return ok && !v.graph.Encloses(f, owner)
}
