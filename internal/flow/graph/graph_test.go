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

package graph_test

import (
	"testing"

	"github.com/nalgeon/be"

	"fillmore-labs.com/definite/internal/bound"
	. "fillmore-labs.com/definite/internal/bound/boundtest"
	"fillmore-labs.com/definite/internal/flow/block"
	. "fillmore-labs.com/definite/internal/flow/graph"
)

// reachable does a plain graph search, ignoring finally handlers on edges.
func reachable(f *Func) map[*block.Block]bool {
	seen := map[*block.Block]bool{f.Entry: true}
	work := []*block.Block{f.Entry}

	for len(work) > 0 {
		b := work[len(work)-1]
		work = work[:len(work)-1]

		for _, e := range b.Succs {
			if !seen[e.To] {
				seen[e.To] = true
				work = append(work, e.To)
			}
		}
	}

	return seen
}

func startReachable(t *testing.T, g *Graph, s bound.Stmt) bool {
	t.Helper()

	ext, ok := g.Extents[s]
	if !ok {
		t.Fatalf("No extent for %T", s)
	}

	return reachable(g.Funcs[ext.Func])[ext.Start.Block]
}

func TestUnreachableAfterReturn(t *testing.T) {
	t.Parallel()

	x := Local("x", Int)
	use := Use(Lit(1))
	m := Method("M", nil, Decl(x, Lit(1)), Return(nil), use)

	g := Build(t.Context(), m)

	be.Equal(t, len(g.Funcs), 1)
	be.True(t, !startReachable(t, g, use))
	be.Equal(t, len(g.Jumps), 1)
}

func TestConstantLoop(t *testing.T) {
	t.Parallel()

	after := Use(Lit(1))
	m := Method("M", nil, While(True(), Block(Use(Lit(2)))), after)

	g := Build(t.Context(), m)

	be.True(t, !startReachable(t, g, after))
}

func TestBreakLeavesLoop(t *testing.T) {
	t.Parallel()

	after := Use(Lit(1))
	m := Method("M", nil, While(True(), Block(Break())), after)

	g := Build(t.Context(), m)

	be.True(t, startReachable(t, g, after))
	be.Equal(t, len(g.Jumps), 1)

	if _, ok := g.Jumps[0].Target.(*bound.While); !ok {
		t.Errorf("Got break target %T, expected *bound.While", g.Jumps[0].Target)
	}
}

func TestProblems(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body []bound.Stmt
		want ProblemKind
	}{
		{"break", []bound.Stmt{Break()}, InvalidBranch},
		{"continue", []bound.Stmt{Continue()}, InvalidBranch},
		{"goto", []bound.Stmt{&bound.Goto{Label: &bound.Label{Name: "L"}}}, UndefinedLabel},
		{"label", []bound.Stmt{&bound.Labeled{Label: &bound.Label{Name: "L"}, Stmt: &bound.Empty{}}}, UnreferencedLabel},
		{"out", []bound.Stmt{CallArgs("F", OutArg(Lit(1)))}, RefNonVariable},
		{"gotocase", []bound.Stmt{&bound.GotoCase{}}, InvalidGotoCase},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			g := Build(t.Context(), Method("M", nil, tt.body...))

			be.Equal(t, len(g.Problems), 1)
			be.Equal(t, g.Problems[0].Kind, tt.want)
		})
	}
}

func TestForwardGoto(t *testing.T) {
	t.Parallel()

	label := &bound.Label{Name: "L"}
	skipped := Use(Lit(1))
	target := &bound.Labeled{Label: label, Stmt: Use(Lit(2))}
	m := Method("M", nil, &bound.Goto{Label: label}, skipped, target)

	g := Build(t.Context(), m)

	be.Equal(t, len(g.Problems), 0)
	be.True(t, !startReachable(t, g, skipped))
	be.True(t, startReachable(t, g, target))
	be.Equal(t, g.Jumps[0].Target, bound.Stmt(target))
}

func TestSwitchFallthrough(t *testing.T) {
	t.Parallel()

	sec := &bound.SwitchSection{
		Labels: []*bound.CaseLabel{{Value: Lit(1)}},
		Body:   []bound.Stmt{Use(Lit(1))},
	}
	m := Method("M", nil, &bound.Switch{Expr: Lit(0), Sections: []*bound.SwitchSection{sec}})

	g := Build(t.Context(), m)

	be.Equal(t, len(g.Problems), 1)
	be.Equal(t, g.Problems[0].Kind, SectionFallthrough)
	be.True(t, g.Problems[0].Check != nil)
}

func TestReturnThroughFinally(t *testing.T) {
	t.Parallel()

	try := &bound.Try{Body: Block(Return(nil)), Finally: Block(Use(Lit(1)))}
	m := Method("M", nil, try)

	g := Build(t.Context(), m)

	var via int
	for _, b := range g.Funcs[0].Blocks {
		for _, e := range b.Succs {
			if e.Kind == block.Exit && len(e.Via) > 0 {
				via++
			}
		}
	}

	be.Equal(t, via, 1)
}

func TestNestedFunctions(t *testing.T) {
	t.Parallel()

	x := Local("x", Int)
	y := Local("y", Int)
	fn := LocalFunction("F", nil, Decl(y, Lit(1)), Use(Ref(x)))
	m := Method("M", nil, Decl(x, nil), &bound.LocalFunc{Func: fn}, Invoke(fn))

	g := Build(t.Context(), m)

	be.Equal(t, len(g.Funcs), 2)

	idx, ok := g.FuncIndex(fn)
	be.True(t, ok)
	be.Equal(t, g.Funcs[idx].Parent, 0)

	owner, _ := g.Owner(y)
	be.Equal(t, owner, idx)

	xs := g.Slots.Variable(x)
	be.True(t, g.Captured(idx, xs))
	be.True(t, !g.Captured(0, xs))
	be.True(t, g.Encloses(0, idx))

	var calls int
	for _, op := range g.Funcs[0].Ops() {
		if op.Kind == block.Call && op.Func == idx {
			calls++
		}
	}

	be.Equal(t, calls, 1)
}

func TestPatternAssignsOnTrueEdge(t *testing.T) {
	t.Parallel()

	o := Param("o", Object, bound.ByValue)
	i := Local("i", Int)
	m := Method("M", []*bound.Parameter{o},
		If(Is(Ref(o), &bound.DeclPattern{Type: Int, Local: i}), Use(Ref(i)), nil))

	g := Build(t.Context(), m)

	var trueWrites, falseDeclares int
	for _, b := range g.Funcs[0].Blocks {
		for _, e := range b.Succs {
			for _, op := range e.Assigns {
				switch {
				case e.Kind == block.CondTrue && op.Kind == block.Write:
					trueWrites++
				case e.Kind == block.CondFalse && op.Kind == block.Declare:
					falseDeclares++
				}
			}
		}
	}

	be.Equal(t, trueWrites, 1)
	be.Equal(t, falseDeclares, 1)
}
