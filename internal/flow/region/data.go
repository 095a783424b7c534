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
	"go/token"

	"fillmore-labs.com/definite/internal/bound"
	"fillmore-labs.com/definite/internal/flow/block"
	"fillmore-labs.com/definite/internal/flow/capture"
	"fillmore-labs.com/definite/internal/flow/dataflow"
	"fillmore-labs.com/definite/internal/slot"
)

// DataFlowSummary describes how variables are used in and around a region.
// Every set is ordered by declaration.
type DataFlowSummary struct {
	// VariablesDeclared are the locals and nested function parameters declared in the region.
	VariablesDeclared []bound.Symbol

	// AlwaysAssigned are the variables assigned inside the region on every path leaving it.
	AlwaysAssigned []bound.Symbol

	// DataFlowsIn are the variables whose value on entry may be read inside the region.
	DataFlowsIn []bound.Symbol

	// DataFlowsOut are the variables whose value written inside the region may be read after it.
	DataFlowsOut []bound.Symbol

	ReadInside, ReadOutside       []bound.Symbol
	WrittenInside, WrittenOutside []bound.Symbol

	// Captured are the variables referenced by a nested function declared in another function.
	Captured        []bound.Symbol
	CapturedInside  []bound.Symbol
	CapturedOutside []bound.Symbol

	// UnsafeAddressTaken are the variables whose address is taken, or passed by reference, in the region.
	UnsafeAddressTaken []bound.Symbol
}

type dataFlow struct {
	*capture.Analysis

	region Region
	vars   *variables

	declared, always, flowsIn, flowsOut  symbols
	readIn, readOut, writtenIn, writeOut symbols
	captured, capturedIn, capturedOut    symbols
	unsafe                               symbols

	firstWrite map[bound.Symbol]token.Pos // first write inside the region
}

// DataFlow summarizes the variable usage of r.
func DataFlow(a *capture.Analysis, r Region) DataFlowSummary {
	d := &dataFlow{
		Analysis: a,
		region:   r,
		vars:     newVariables(a.Graph),

		declared: make(symbols), always: make(symbols), flowsIn: make(symbols), flowsOut: make(symbols),
		readIn: make(symbols), readOut: make(symbols), writtenIn: make(symbols), writeOut: make(symbols),
		captured: make(symbols), capturedIn: make(symbols), capturedOut: make(symbols),
		unsafe: make(symbols),

		firstWrite: make(map[bound.Symbol]token.Pos),
	}

	d.syntactic()
	d.boundaries()

	return DataFlowSummary{
		VariablesDeclared:  d.declared.sorted(),
		AlwaysAssigned:     d.always.sorted(),
		DataFlowsIn:        d.flowsIn.sorted(),
		DataFlowsOut:       d.flowsOut.sorted(),
		ReadInside:         d.readIn.sorted(),
		ReadOutside:        d.readOut.sorted(),
		WrittenInside:      d.writtenIn.sorted(),
		WrittenOutside:     d.writeOut.sorted(),
		Captured:           d.captured.sorted(),
		CapturedInside:     d.capturedIn.sorted(),
		CapturedOutside:    d.capturedOut.sorted(),
		UnsafeAddressTaken: d.unsafe.sorted(),
	}
}

// syntactic collects the sets that depend only on where variables are referenced.
func (d *dataFlow) syntactic() {
	g, r := d.Graph, d.region

	for _, l := range g.Locals {
		if !l.Implicit && r.Contains(l.Local.Pos) {
			d.declared.add(l.Local)
		}
	}

	for _, f := range g.Funcs[1:] {
		if f.Function == nil || !r.Contains(f.Function.Pos()) {
			continue
		}

		for _, p := range f.Function.Params {
			d.declared.add(p)
		}
	}

	for j, f := range g.Funcs {
		for _, op := range f.Ops() {
			if op.Var == nil {
				continue
			}

			inside := r.Contains(op.Pos)

			switch op.Kind {
			case block.Read:
				pick(inside, d.readIn, d.readOut).add(op.Var)

			case block.Write, block.Copy:
				pick(inside, d.writtenIn, d.writeOut).add(op.Var)

				if inside {
					if first, ok := d.firstWrite[op.Var]; !ok || op.Pos < first {
						d.firstWrite[op.Var] = op.Pos
					}

					if op.Ref {
						d.unsafe.add(op.Var)
					}
				}

			case block.Declare, block.Call, block.Convert, block.ExitCheck:
				continue
			}

			if owner, ok := g.Owner(op.Var); ok && owner != j {
				d.captured.add(op.Var)
				pick(inside, d.capturedIn, d.capturedOut).add(op.Var)
			}
		}
	}
}

func pick(inside bool, in, out symbols) symbols {
	if inside {
		return in
	}

	return out
}

// boundaries derives the sets depending on the states at the region boundaries.
func (d *dataFlow) boundaries() {
	g, r := d.Graph, d.region
	f := g.Funcs[r.Func]

	l := boundary{
		assign: &dataflow.Assignment{Graph: g, Func: f, Summaries: d.Analysis},
		region: r,
		vars:   d.vars,
	}
	res := dataflow.Solve(f, l)

	entry := d.entryState()

	for _, b := range f.Blocks {
		in := res.In[b.Index]
		if !in.Reached {
			continue
		}

		s := in.clone()
		l.replay(b, &s, len(b.Ops), func(op block.Op, s *boundaryState) { d.visit(op, s, entry) })

		for _, e := range b.Succs {
			if len(e.Assigns) == 0 {
				continue
			}

			es := s.clone()
			for _, op := range e.Assigns {
				d.visit(op, &es, entry)
				l.apply(&es, op)
			}
		}
	}

	d.alwaysAssigned(l, res)
}

// entryState is the definite assignment state where execution enters the region.
func (d *dataFlow) entryState() dataflow.State {
	r := d.region
	a := &dataflow.Assignment{Graph: d.Graph, Func: d.Graph.Funcs[r.Func], Summaries: d.Analysis}

	s := d.States[r.Func].In[r.Start.Block.Index].Clone()
	for _, op := range r.Start.Block.Ops[:r.Start.Index] {
		a.Apply(&s, op)
	}

	return s
}

func (d *dataFlow) visit(op block.Op, s *boundaryState, entry dataflow.State) {
	if d.region.Contains(op.Pos) {
		d.visitInside(op, s, entry)
	} else {
		d.visitOutside(op, s)
	}
}

func (d *dataFlow) visitInside(op block.Op, s *boundaryState, entry dataflow.State) {
	switch op.Kind {
	case block.Read:
		if d.unassignedSinceEntry(op.Slot, op.Var, op.Pos, s) && d.valueOnEntry(op.Slot, op.Var, entry) {
			d.flowsIn.add(op.Var)
		}

	case block.Call, block.Convert:
		for sym := range d.vars.reads[op.Func] {
			if !d.vars.capturedBy(op.Func, sym) {
				continue
			}

			sl := d.Graph.Slots.Variable(sym)
			if d.unassignedSinceEntry(sl, sym, op.Pos, s) && d.valueOnEntry(sl, sym, entry) {
				d.flowsIn.add(sym)
			}
		}

	case block.Write, block.Copy, block.Declare, block.ExitCheck:
	}
}

// unassignedSinceEntry reports whether sl may not have been assigned since execution entered the region.
// Untracked variables are judged by the position of their first write in the region.
func (d *dataFlow) unassignedSinceEntry(sl slot.Slot, sym bound.Symbol, pos token.Pos, s *boundaryState) bool {
	if !sl.Valid() {
		first, ok := d.firstWrite[sym]

		return !ok || pos <= first
	}

	return !s.Assigned(sl)
}

// valueOnEntry reports whether sym may hold a value when execution enters the region.
func (d *dataFlow) valueOnEntry(sl slot.Slot, sym bound.Symbol, entry dataflow.State) bool {
	if !sl.Valid() || d.vars.capturedBy(d.region.Func, sym) {
		return true
	}

	return entry.Level(sl) != dataflow.Unassigned
}

func (d *dataFlow) visitOutside(op block.Op, s *boundaryState) {
	has := func(sym bound.Symbol) bool {
		i, ok := d.vars.index(sym)

		return ok && s.Out.Test(uint(i))
	}

	switch op.Kind {
	case block.Read:
		if has(op.Var) {
			d.flowsOut.add(op.Var)
		}

	case block.Call, block.Convert:
		for sym := range d.vars.reads[op.Func] {
			if d.vars.capturedBy(op.Func, sym) && has(sym) {
				d.flowsOut.add(sym)
			}
		}

	case block.ExitCheck:
		for _, p := range d.parameters() {
			if p.RefKind == bound.ByRef || p.RefKind == bound.ByOut || p.IsThis && d.Graph.Method.Constructor {
				if has(p) {
					d.flowsOut.add(p)
				}
			}
		}

	case block.Write, block.Copy, block.Declare:
	}
}

func (d *dataFlow) parameters() []*bound.Parameter {
	if f := d.Graph.Funcs[d.region.Func]; f.Function != nil {
		return f.Function.Params
	}

	m := d.Graph.Method
	if m.This == nil {
		return m.Params
	}

	return append([]*bound.Parameter{m.This}, m.Params...)
}

// alwaysAssigned collects the variables written in the region and assigned on every path leaving it.
func (d *dataFlow) alwaysAssigned(l boundary, res dataflow.Result[boundaryState]) {
	g, r := d.Graph, d.region

	exit := l.Bottom()

	if in := res.In[r.Stop.Block.Index]; in.Reached {
		s := in.clone()
		l.replay(r.Stop.Block, &s, r.Stop.Index, nil)
		exit = l.Join(exit, s)
	}

	for _, j := range g.Jumps {
		if j.Func != r.Func || !r.Contains(j.Stmt.Pos()) {
			continue
		}

		if j.Target == nil && !returns(j.Stmt) || j.Target != nil && r.Contains(j.Target.Pos()) {
			continue
		}

		exit = l.Join(exit, res.Out[j.From.Index])
	}

	if !exit.Reached {
		return
	}

	written := make(symbols)
	for _, op := range g.Funcs[r.Func].Ops() {
		if (op.Kind == block.Write || op.Kind == block.Copy) && r.Contains(op.Pos) {
			written.add(op.Var)
		}
	}

	for sym := range written {
		if exit.Assigned(g.Slots.Variable(sym)) {
			d.always.add(sym)
		}
	}
}
