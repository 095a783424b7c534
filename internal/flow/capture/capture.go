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

package capture

import (
	"cmp"
	"context"
	"go/token"
	"maps"
	"runtime/trace"
	"slices"

	"github.com/bits-and-blooms/bitset"

	"fillmore-labs.com/definite/internal/bound"
	"fillmore-labs.com/definite/internal/flow/block"
	"fillmore-labs.com/definite/internal/flow/dataflow"
	"fillmore-labs.com/definite/internal/flow/graph"
	"fillmore-labs.com/definite/internal/slot"
)

// Summary is the effect of invoking a nested function on the variables it captures.
type Summary struct {
	// Reads are the captured slots read before the function assigns them, with the first read.
	Reads map[slot.Slot]Read

	// Writes are the slots definitely assigned when the function returns.
	Writes *bitset.BitSet
}

// Read is a read of a captured slot inside a nested function.
type Read struct {
	Var      bound.Symbol
	Pos, End token.Pos
}

func (s Summary) equal(o Summary) bool {
	return s.Writes.Equal(o.Writes) && maps.Equal(s.Reads, o.Reads)
}

// FindingKind classifies a [Finding].
type FindingKind uint8

//go:generate go tool stringer -type FindingKind -linecomment
const (
	// ReadUnassigned is a read of a slot that is not definitely assigned.
	ReadUnassigned FindingKind = iota // read

	// OutUnassigned is an out parameter not assigned when the function returns.
	OutUnassigned // out

	// FieldUnassigned is a field of this not assigned when a struct constructor returns.
	FieldUnassigned // field
)

// Finding is a definite assignment violation.
type Finding struct {
	Kind     FindingKind
	Func     int
	Slot     slot.Slot
	Var      bound.Symbol
	Field    *bound.Field // for FieldUnassigned
	Pos, End token.Pos
}

// Analysis is the resolved definite assignment of a method with its nested functions.
type Analysis struct {
	Graph     *graph.Graph
	States    []dataflow.Result[dataflow.State] // per function
	Summaries []Summary                         // per function
	Findings  []Finding
}

// Reached reports whether block b of function f is reachable.
func (a *Analysis) Reached(f int, b *block.Block) bool {
	return a.States[f].In[b.Index].Reached
}

// Writes implements [dataflow.Summaries].
func (a *Analysis) Writes(fn int) (*bitset.BitSet, bool) {
	if fn < 0 || fn >= len(a.Summaries) {
		return nil, false
	}

	return a.Summaries[fn].Writes, true
}

// Resolve analyzes all functions of g, nested functions before the functions invoking them.
// Mutually recursive functions are iterated until their summaries are stable.
func Resolve(ctx context.Context, g *graph.Graph) *Analysis {
	defer trace.StartRegion(ctx, "Capture").End()

	n := len(g.Funcs)
	a := &Analysis{
		Graph:     g,
		States:    make([]dataflow.Result[dataflow.State], n),
		Summaries: make([]Summary, n),
	}

	full := dataflow.FullSet(g.Slots.Len())
	for i := range a.Summaries {
		a.Summaries[i] = Summary{Writes: full}
	}

	findings := make([][]Finding, n)

	for _, scc := range components(Dependencies(g)) {
		for changed := true; changed; {
			changed = false

			for _, f := range scc {
				states, summary, found := a.analyze(ctx, f)
				a.States[f], findings[f] = states, found

				if !summary.equal(a.Summaries[f]) {
					a.Summaries[f] = summary
					changed = true
				}
			}
		}
	}

	for _, found := range findings {
		a.Findings = append(a.Findings, found...)
	}

	slices.SortStableFunc(a.Findings, func(x, y Finding) int { return cmp.Compare(x.Pos, y.Pos) })

	return a
}

// analyze runs definite assignment for function f with the current summaries of its callees.
func (a *Analysis) analyze(ctx context.Context, f int) (dataflow.Result[dataflow.State], Summary, []Finding) {
	defer trace.StartRegion(ctx, "Dataflow").End()

	g := a.Graph
	fn := g.Funcs[f]

	lattice := &dataflow.Assignment{Graph: g, Func: fn, Summaries: a}
	states := lattice.Solve()

	summary := Summary{Reads: make(map[slot.Slot]Read)}

	var found []Finding

	unassigned := func(sl slot.Slot, sym bound.Symbol, pos, end token.Pos) {
		if g.Captured(f, sl) {
			if r, ok := summary.Reads[sl]; !ok || pos < r.Pos {
				summary.Reads[sl] = Read{Var: sym, Pos: pos, End: end}
			}

			return
		}

		found = append(found, Finding{Kind: ReadUnassigned, Func: f, Slot: sl, Var: sym, Pos: pos, End: end})
	}

	lattice.Replay(states, func(_ *block.Block, op block.Op, s *dataflow.State) {
		switch op.Kind {
		case block.Read:
			if !s.Assigned(op.Slot) {
				unassigned(op.Slot, op.Var, op.Pos, op.End)
			}

		case block.Call, block.Convert:
			lambda := op.Kind == block.Convert && g.Funcs[op.Func].Function != nil &&
				g.Funcs[op.Func].Function.Kind == bound.LambdaFunction

			for _, sl := range sortedReads(a.Summaries[op.Func].Reads) {
				if s.Assigned(sl) {
					continue
				}

				r := a.Summaries[op.Func].Reads[sl]
				if lambda || g.Captured(f, sl) {
					unassigned(sl, r.Var, r.Pos, r.End)
				} else {
					unassigned(sl, r.Var, op.Pos, op.End)
				}
			}

		case block.ExitCheck:
			found = append(found, a.exitCheck(f, s, op)...)

		case block.Write, block.Copy, block.Declare:
		}
	})

	exit := states.In[fn.Exit.Index]
	if !exit.Reached {
		summary.Writes = dataflow.FullSet(g.Slots.Len())
	} else {
		summary.Writes = dataflow.NewSet(g.Slots.Len())
		for i := range dataflow.Members(exit.Def) {
			if g.Captured(f, slot.Slot(i)) {
				summary.Writes.Set(uint(i))
			}
		}
	}

	return states, summary, found
}

func (a *Analysis) exitCheck(f int, s *dataflow.State, op block.Op) []Finding {
	m := a.Graph.Slots

	var found []Finding

	for _, out := range a.Graph.Funcs[f].Outs {
		if s.Assigned(out.Slot) {
			continue
		}

		if !out.Param.IsThis {
			found = append(found, Finding{
				Kind: OutUnassigned, Func: f, Slot: out.Slot, Var: out.Param, Pos: op.Pos, End: op.End,
			})

			continue
		}

		for _, field := range m.StateFields(out.Param.Type) {
			if c, ok := m.Lookup(out.Slot, field); ok && s.Assigned(c) {
				continue
			}

			found = append(found, Finding{
				Kind: FieldUnassigned, Func: f, Slot: out.Slot, Var: out.Param, Field: field, Pos: op.Pos, End: op.End,
			})
		}
	}

	return found
}

func sortedReads(reads map[slot.Slot]Read) []slot.Slot {
	return slices.SortedFunc(maps.Keys(reads), func(x, y slot.Slot) int {
		return cmp.Or(cmp.Compare(reads[x].Pos, reads[y].Pos), cmp.Compare(x, y))
	})
}
