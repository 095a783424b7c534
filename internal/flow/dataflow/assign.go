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

package dataflow

import (
	"github.com/bits-and-blooms/bitset"

	"fillmore-labs.com/definite/internal/flow/block"
	"fillmore-labs.com/definite/internal/flow/graph"
	"fillmore-labs.com/definite/internal/slot"
)

// Summaries provides the slots a call to a nested function assigns.
type Summaries interface {
	Writes(fn int) (*bitset.BitSet, bool)
}

// Assignment is the definite assignment lattice for one function of a graph.
type Assignment struct {
	Graph     *graph.Graph
	Func      *graph.Func
	Summaries Summaries // optional
}

var _ Lattice[State] = (*Assignment)(nil)

// Solve computes reachability and definite assignment for the function.
func (a *Assignment) Solve() Result[State] {
	return Solve(a.Func, a)
}

func (a *Assignment) size() int { return a.Graph.Slots.Len() }

// Entry returns the state with the parameters assigned that are assigned on entry.
func (a *Assignment) Entry() State {
	n := a.size()
	s := State{Reached: true, Def: NewSet(n), May: NewSet(n)}

	for _, sl := range a.Func.Assigned {
		a.assign(&s, sl)
	}

	return s
}

// Bottom is the unreached state.
func (*Assignment) Bottom() State { return State{} }

// Transfer applies the operations of b.
func (a *Assignment) Transfer(b *block.Block, in State) State {
	if !in.Reached || len(b.Ops) == 0 {
		return in
	}

	s := in.Clone()
	for _, op := range b.Ops {
		a.Apply(&s, op)
	}

	return s
}

// Edge applies edge assignments. Exceptional edges may leave anywhere in the block,
// so they carry the meet of the states before and after it.
func (a *Assignment) Edge(e block.Edge, in, out State) State {
	if e.Kind == block.Exceptional {
		return meet(in, out)
	}

	if len(e.Assigns) == 0 || !out.Reached {
		return out
	}

	s := out.Clone()
	for _, op := range e.Assigns {
		a.Apply(&s, op)
	}

	return s
}

// Through adds the assignments of a finally handler.
func (*Assignment) Through(s, fin State) State { return union(s, fin) }

// Join merges predecessor states.
func (*Assignment) Join(x, y State) State { return meet(x, y) }

// Equal compares states.
func (*Assignment) Equal(x, y State) bool { return equal(x, y) }

// Apply updates s with the effect of op.
func (a *Assignment) Apply(s *State, op block.Op) {
	if !s.Reached {
		return
	}

	switch op.Kind {
	case block.Write:
		a.assign(s, op.Slot)

	case block.Copy:
		a.copy(s, op.Slot, op.Src)

	case block.Declare:
		a.unassign(s, op.Slot)

	case block.Call:
		if a.Summaries == nil {
			return
		}

		if w, ok := a.Summaries.Writes(op.Func); ok {
			for i := range Members(w) {
				a.assign(s, slot.Slot(i))
			}
		}

	case block.Read, block.Convert, block.ExitCheck:
	}
}

// assign marks sl and all its fields assigned, then assigns containing structs whose fields are all assigned.
func (a *Assignment) assign(s *State, sl slot.Slot) {
	if !sl.Valid() {
		return
	}

	m := a.Graph.Slots

	s.Def.Set(uint(sl))
	s.May.Set(uint(sl))
	m.Descendants(sl, func(c slot.Slot) {
		s.Def.Set(uint(c))
		s.May.Set(uint(c))
	})

	a.propagateUp(s, sl)
}

func (a *Assignment) propagateUp(s *State, sl slot.Slot) {
	m := a.Graph.Slots

	complete := true
	for p := m.Parent(sl); p.Valid(); p = m.Parent(p) {
		s.May.Set(uint(p))

		if complete && a.fieldsAssigned(s, p) {
			s.Def.Set(uint(p))
		} else {
			complete = false
		}
	}
}

// fieldsAssigned reports whether every stateful field of struct slot p is assigned.
// A field without slot was never referenced, so it cannot have been assigned.
func (a *Assignment) fieldsAssigned(s *State, p slot.Slot) bool {
	m := a.Graph.Slots

	for _, f := range m.StateFields(m.Type(p)) {
		c, ok := m.Lookup(p, f)
		if !ok || !s.Def.Test(uint(c)) {
			return false
		}
	}

	return true
}

// unassign resets sl and all its fields to unassigned.
func (a *Assignment) unassign(s *State, sl slot.Slot) {
	if !sl.Valid() {
		return
	}

	s.Def.Clear(uint(sl))
	s.May.Clear(uint(sl))
	a.Graph.Slots.Descendants(sl, func(c slot.Slot) {
		s.Def.Clear(uint(c))
		s.May.Clear(uint(c))
	})
}

// copy transfers the per-field state of struct slot src to dst.
func (a *Assignment) copy(s *State, dst, src slot.Slot) {
	if !dst.Valid() {
		return
	}

	if !src.Valid() || s.Def.Test(uint(src)) {
		a.assign(s, dst)

		return
	}

	// Parents of dst lose their assignment with the field.
	m := a.Graph.Slots
	for p := m.Parent(dst); p.Valid(); p = m.Parent(p) {
		s.Def.Clear(uint(p))
	}

	a.copyFields(s, dst, src)
	a.propagateUp(s, dst)
}

func (a *Assignment) copyFields(s *State, dst, src slot.Slot) {
	m := a.Graph.Slots

	if s.Def.Test(uint(src)) {
		s.Def.Set(uint(dst))
		s.May.Set(uint(dst))
		m.Descendants(dst, func(c slot.Slot) {
			s.Def.Set(uint(c))
			s.May.Set(uint(c))
		})

		return
	}

	s.Def.Clear(uint(dst))
	if s.May.Test(uint(src)) {
		s.May.Set(uint(dst))
	} else {
		s.May.Clear(uint(dst))
	}

	for _, d := range m.FieldsOf(dst) {
		c, ok := m.Counterpart(src, d)
		if !ok {
			a.unassign(s, d)

			continue
		}

		a.copyFields(s, d, c)
	}
}

// Replay visits the operations of all reached blocks with the state before each operation,
// including the assignments on outgoing edges.
func (a *Assignment) Replay(r Result[State], visit func(b *block.Block, op block.Op, s *State)) {
	for _, b := range a.Func.Blocks {
		in := r.In[b.Index]
		if !in.Reached {
			continue
		}

		s := in.Clone()
		for _, op := range b.Ops {
			visit(b, op, &s)
			a.Apply(&s, op)
		}

		for _, e := range b.Succs {
			if len(e.Assigns) == 0 {
				continue
			}

			es := s.Clone()
			for _, op := range e.Assigns {
				visit(b, op, &es)
				a.Apply(&es, op)
			}
		}
	}
}
