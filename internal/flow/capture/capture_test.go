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


package capture_test

import (
	"testing"

	"github.com/nalgeon/be"

	"fillmore-labs.com/definite/internal/bound"
	. "fillmore-labs.com/definite/internal/bound/boundtest"
	. "fillmore-labs.com/definite/internal/flow/capture"
	"fillmore-labs.com/definite/internal/flow/graph"
)

func resolve(t *testing.T, m *bound.Method) *Analysis {
	t.Helper()

	return Resolve(t.Context(), graph.Build(t.Context(), m))
}

func TestCallBeforeAssignment(t *testing.T) {
	t.Parallel()

	x := Local("x", Int)
	fn := LocalFunction("f", nil, Use(Ref(x)))
	call := Invoke(fn)
	a := resolve(t, Method("M", nil, Decl(x, nil), &bound.LocalFunc{Func: fn}, call))

	be.Equal(t, len(a.Findings), 1)
	be.Equal(t, a.Findings[0].Kind, ReadUnassigned)
	be.Equal(t, a.Findings[0].Pos, call.X.Pos())
	be.Equal(t, a.Findings[0].Var, bound.Symbol(x))
}

func TestCallAfterAssignment(t *testing.T) {
	t.Parallel()

	x := Local("x", Int)
	fn := LocalFunction("f", nil, Use(Ref(x)))
	a := resolve(t, Method("M", nil, Decl(x, nil), &bound.LocalFunc{Func: fn}, Assign(Ref(x), Lit(1)), Invoke(fn)))

	be.Equal(t, len(a.Findings), 0)
}

func TestCallAssigns(t *testing.T) {
	t.Parallel()

	x := Local("x", Int)
	fn := LocalFunction("f", nil, Assign(Ref(x), Lit(1)))
	a := resolve(t, Method("M", nil, Decl(x, nil), &bound.LocalFunc{Func: fn}, Invoke(fn), Use(Ref(x))))

	be.Equal(t, len(a.Findings), 0)

	idx, ok := a.Graph.FuncIndex(fn)
	be.True(t, ok)

	w, ok := a.Writes(idx)
	be.True(t, ok)
	be.True(t, w.Test(uint(a.Graph.Slots.Variable(x))))
}

func TestDeadCallSite(t *testing.T) {
	t.Parallel()

	x := Local("x", Int)
	fn := LocalFunction("f", nil, Use(Ref(x)))
	a := resolve(t, Method("M", nil, Decl(x, nil), &bound.LocalFunc{Func: fn}, Return(nil), Invoke(fn)))

	be.Equal(t, len(a.Findings), 0)
}

func TestMutualRecursion(t *testing.T) {
	t.Parallel()

	x := Local("x", Int)
	f := LocalFunction("f", nil)
	g := LocalFunction("g", nil, Invoke(f))
	f.Body = Block(If(Cond(), Assign(Ref(x), Lit(1)), Invoke(g)))

	m := Method("M", nil,
		Decl(x, nil),
		&bound.LocalFunc{Func: f},
		&bound.LocalFunc{Func: g},
		Invoke(f),
		Use(Ref(x)),
	)
	a := resolve(t, m)

	be.Equal(t, len(a.Findings), 0)

	fi, _ := a.Graph.FuncIndex(f)
	gi, _ := a.Graph.FuncIndex(g)

	deps := Dependencies(a.Graph)
	be.Equal(t, deps[fi], []int{gi})
	be.Equal(t, deps[gi], []int{fi})
}

func TestMutualRecursionReads(t *testing.T) {
	t.Parallel()

	x := Local("x", Int)
	f := LocalFunction("f", nil)
	g := LocalFunction("g", nil)
	f.Body = Block(Invoke(g))
	g.Body = Block(Use(Ref(x)), If(Cond(), Invoke(f), nil))

	call := Invoke(f)

	m := Method("M", nil,
		Decl(x, nil),
		&bound.LocalFunc{Func: f},
		&bound.LocalFunc{Func: g},
		call,
	)
	a := resolve(t, m)

	be.Equal(t, len(a.Findings), 1)
	be.Equal(t, a.Findings[0].Pos, call.X.Pos())

	fi, _ := a.Graph.FuncIndex(f)
	be.Equal(t, len(a.Summaries[fi].Reads), 1)
}

func TestUnusedFunctionHasNoFindings(t *testing.T) {
	t.Parallel()

	x := Local("x", Int)
	fn := LocalFunction("f", nil, Use(Ref(x)))
	a := resolve(t, Method("M", nil, Decl(x, nil), &bound.LocalFunc{Func: fn}))

	be.Equal(t, len(a.Findings), 0)
}

func TestFinallyAssignsOnEarlyReturn(t *testing.T) {
	t.Parallel()

	p := Param("p", Int, bound.ByOut)
	try := &bound.Try{
		Body:    Block(If(Cond(), Return(nil), nil)),
		Finally: Block(Assign(Ref(p), Lit(1))),
	}
	a := resolve(t, Method("M", []*bound.Parameter{p}, try))

	be.Equal(t, len(a.Findings), 0)
}

func TestTryBodyAssignsAfterEarlyReturn(t *testing.T) {
	t.Parallel()

	p := Param("p", Int, bound.ByOut)
	try := &bound.Try{
		Body:    Block(If(Cond(), Return(nil), nil), Assign(Ref(p), Lit(1))),
		Finally: Block(Use(Lit(0))),
	}
	a := resolve(t, Method("M", []*bound.Parameter{p}, try))

	be.Equal(t, len(a.Findings), 1)
	be.Equal(t, a.Findings[0].Kind, OutUnassigned)
	be.Equal(t, a.Findings[0].Var, bound.Symbol(p))
}
