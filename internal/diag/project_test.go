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

package diag_test

import (
	"go/token"
	"testing"

	"github.com/nalgeon/be"

	"fillmore-labs.com/definite/internal/bound"
	. "fillmore-labs.com/definite/internal/bound/boundtest"
	. "fillmore-labs.com/definite/internal/diag"
	"fillmore-labs.com/definite/internal/flow/capture"
	"fillmore-labs.com/definite/internal/flow/graph"
)

func project(t *testing.T, m *bound.Method) []Diagnostic {
	t.Helper()

	g := graph.Build(t.Context(), m)
	a := capture.Resolve(t.Context(), g)

	return Project(t.Context(), a)
}

func kindsOf(ds []Diagnostic) []Kind {
	ks := make([]Kind, 0, len(ds))
	for _, d := range ds {
		ks = append(ks, d.Kind)
	}

	return ks
}

func TestSymmetricBranchesReportOnce(t *testing.T) {
	t.Parallel()

	z := Param("z", Int, bound.ByValue)
	x := Local("x", Int)
	y1, y2 := Local("y", Int), Local("y", Int)
	first := Ref(x)

	m := Method("M", []*bound.Parameter{z},
		Decl(x, nil),
		If(Less(Ref(z), Lit(2)),
			Block(Decl(y1, first), Assign(Ref(x), Ref(y1))),
			Block(Decl(y2, Ref(x)), Assign(Ref(x), Ref(y2)))),
	)

	ds := project(t, m)

	be.Equal(t, kindsOf(ds), []Kind{UseOfUnassignedVariable})
	be.Equal(t, ds[0].Pos, first.Pos())
	be.Equal(t, ds[0].Arg(), "x")
	be.Equal(t, ds[0].Severity, Error)
}

func TestPartialStructCopy(t *testing.T) {
	t.Parallel()

	fx, fy := NewField("x", Int), NewField("y", Int)
	fy.Pos = 1000
	fx.Pos = 1001
	s := Struct("S", fx, fy)

	vs, vt := Local("s", s), Local("t", s)
	m := Method("M", nil,
		Decl(vs, nil),
		Assign(Dot(Ref(vs), fx), Lit(1)),
		Decl(vt, Ref(vs)),
	)

	ds := project(t, m)

	be.Equal(t, kindsOf(ds), []Kind{UseOfUnassignedVariable})
	be.Equal(t, ds[0].Arg(), "s")

	fields := FieldsNeverAssigned(&bound.Compilation{Types: []*bound.Type{s}, Methods: []*bound.Method{m}})

	be.Equal(t, kindsOf(fields), []Kind{FieldNeverAssigned})
	be.Equal(t, fields[0].Arg(), "S.y")
	be.Equal(t, fields[0].Severity, Warning)
}

func TestConstructorLeavesFieldUnassigned(t *testing.T) {
	t.Parallel()

	fx, fy := NewField("x", Int), NewField("y", Int)
	s := Struct("S", fx, fy)
	this := This(s)

	m := Constructor(this, nil, Assign(Dot(Ref(this), fx), Lit(1)))

	ds := project(t, m)

	be.Equal(t, kindsOf(ds), []Kind{UnassignedThisField})
	be.Equal(t, ds[0].Arg(), "y")
}

func TestFieldAliases(t *testing.T) {
	t.Parallel()

	item1, item2 := NewField("Item1", Int), NewField("Item2", Int)
	x, y := &bound.Field{Name: "x", Type: Int, Alias: item1}, &bound.Field{Name: "y", Type: Int, Alias: item2}
	tuple := Struct("(int x, int y)", item1, item2, x, y)

	t.Run("assigned", func(t *testing.T) {
		t.Parallel()

		v := Local("t", tuple)
		m := Method("M", nil,
			Decl(v, nil),
			Assign(Dot(Ref(v), y), Lit(1)),
			Use(Dot(Ref(v), item2)),
		)

		be.Equal(t, len(project(t, m)), 0)
	})

	t.Run("unassigned", func(t *testing.T) {
		t.Parallel()

		v := Local("t", tuple)
		m := Method("M", nil,
			Decl(v, nil),
			Use(Dot(Ref(v), y)),
			Use(Dot(Ref(v), item2)),
		)

		ds := project(t, m)

		be.Equal(t, kindsOf(ds), []Kind{UseOfUnassignedField})
		be.Equal(t, ds[0].Arg(), "t.Item2")
	})
}

func TestShortCircuitConstant(t *testing.T) {
	t.Parallel()

	x := Local("x", Int)
	cond := &bound.Conditional{Typed: bound.Typed{T: Bool}, Cond: True(), Then: And(False(), Cond()), Else: True()}
	add := &bound.Binary{Typed: bound.Typed{T: Int}, Op: token.ADD, X: Ref(x), Y: Lit(1)}

	m := Method("M", nil,
		Decl(x, nil),
		If(cond, Assign(Ref(x), add), nil),
	)

	be.Equal(t, len(project(t, m)), 0)
}

func TestUnreachableRun(t *testing.T) {
	t.Parallel()

	first := Use(Lit(1))
	m := Method("M", nil, Return(nil), first, Use(Lit(2)), Block(Use(Lit(3))))

	ds := project(t, m)

	be.Equal(t, kindsOf(ds), []Kind{UnreachableCode})
	be.Equal(t, ds[0].Pos, first.Pos())
}

func TestUnreachableBody(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		build func(first bound.Stmt) bound.Stmt
	}{
		{"if false block", func(first bound.Stmt) bound.Stmt {
			return If(False(), Block(first, Use(Lit(2))), nil)
		}},
		{"if false statement", func(first bound.Stmt) bound.Stmt {
			return If(False(), first, nil)
		}},
		{"if true else", func(first bound.Stmt) bound.Stmt {
			return If(True(), Use(Lit(2)), Block(first))
		}},
		{"while false", func(first bound.Stmt) bound.Stmt {
			return While(False(), Block(first, Use(Lit(2))))
		}},
		{"for false", func(first bound.Stmt) bound.Stmt {
			return &bound.For{Cond: False(), Body: Block(first)}
		}},
		{"nested run", func(first bound.Stmt) bound.Stmt {
			return If(False(), Block(Block(first), Return(nil), Use(Lit(2))), nil)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			first := Use(Lit(1))
			ds := project(t, Method("M", nil, tt.build(first), Use(Lit(3))))

			be.Equal(t, kindsOf(ds), []Kind{UnreachableCode})
			be.Equal(t, ds[0].Pos, first.Pos())
		})
	}
}

func TestUnreachableBodyOfDeadStatement(t *testing.T) {
	t.Parallel()

	first := If(False(), Use(Lit(1)), nil)
	m := Method("M", nil, Return(nil), first)

	ds := project(t, m)

	be.Equal(t, kindsOf(ds), []Kind{UnreachableCode})
	be.Equal(t, ds[0].Pos, first.Pos())
}

func TestUnreachableSkipsDeclarations(t *testing.T) {
	t.Parallel()

	y := Local("y", Int)
	m := Method("M", nil, While(True(), Block(Break(), Decl(y, nil))))

	ds := project(t, m)

	be.Equal(t, kindsOf(ds), []Kind{VariableDeclaredNeverUsed})
}

func TestNoReportsInDeadCode(t *testing.T) {
	t.Parallel()

	x := Local("x", Int)
	use := Use(Ref(x))
	m := Method("M", nil, Decl(x, nil), Throw(), use)

	ds := project(t, m)

	be.Equal(t, kindsOf(ds), []Kind{UnreachableCode})
	be.Equal(t, ds[0].Pos, use.Pos())
}

func TestUnusedLocals(t *testing.T) {
	t.Parallel()

	a, b, c, d := Local("a", Int), Local("b", Int), Local("c", Int), Local("d", Object)
	m := Method("M", nil,
		Decl(a, nil),
		Decl(b, Lit(1)),
		Decl(c, Call("F")),
		Decl(d, Null(Object)),
	)

	ds := project(t, m)

	be.Equal(t, kindsOf(ds), []Kind{VariableDeclaredNeverUsed, VariableAssignedNeverUsed, VariableAssignedNeverUsed})
	be.Equal(t, ds[0].Arg(), "a")
	be.Equal(t, ds[1].Arg(), "b")
	be.Equal(t, ds[2].Arg(), "d")
}

func TestOutParameter(t *testing.T) {
	t.Parallel()

	p := Param("p", Int, bound.ByOut)

	t.Run("unassigned", func(t *testing.T) {
		t.Parallel()

		q := Param("p", Int, bound.ByOut)
		m := Method("M", []*bound.Parameter{q}, If(Cond(), Assign(Ref(q), Lit(1)), nil))

		ds := project(t, m)

		be.Equal(t, kindsOf(ds), []Kind{UnassignedOutParameter})
		be.Equal(t, ds[0].Arg(), "p")
	})

	t.Run("read", func(t *testing.T) {
		t.Parallel()

		m := Method("M", []*bound.Parameter{p}, Use(Ref(p)), Assign(Ref(p), Lit(1)))

		ds := project(t, m)

		be.Equal(t, kindsOf(ds), []Kind{UseOfUnassignedOut})
	})
}

func TestLocalFunctions(t *testing.T) {
	t.Parallel()

	t.Run("unused", func(t *testing.T) {
		t.Parallel()

		fn := LocalFunction("f", nil)
		m := Method("M", nil, &bound.LocalFunc{Func: fn})

		ds := project(t, m)

		be.Equal(t, kindsOf(ds), []Kind{UnusedLocalFunction})
		be.Equal(t, ds[0].Arg(), "f")
	})

	t.Run("read before call", func(t *testing.T) {
		t.Parallel()

		x := Local("x", Int)
		fn := LocalFunction("f", nil, Use(Ref(x)))
		call := Invoke(fn)
		m := Method("M", nil, Decl(x, nil), &bound.LocalFunc{Func: fn}, call, Assign(Ref(x), Lit(1)))

		ds := project(t, m)

		be.Equal(t, kindsOf(ds), []Kind{UseOfUnassignedVariable})
		be.Equal(t, ds[0].Pos, call.X.Pos())
	})

	t.Run("assigned before call", func(t *testing.T) {
		t.Parallel()

		x := Local("x", Int)
		fn := LocalFunction("f", nil, Use(Ref(x)))
		m := Method("M", nil, Decl(x, nil), &bound.LocalFunc{Func: fn}, Assign(Ref(x), Lit(1)), Invoke(fn))

		be.Equal(t, len(project(t, m)), 0)
	})
}

func TestProblems(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body []bound.Stmt
		want Kind
		arg  string
	}{
		{"break", []bound.Stmt{Break()}, InvalidBranchTarget, "break"},
		{"continue", []bound.Stmt{Continue()}, InvalidBranchTarget, "continue"},
		{"goto", []bound.Stmt{&bound.Goto{Label: &bound.Label{Name: "L"}}}, UndefinedLabel, "L"},
		{"label", []bound.Stmt{&bound.Labeled{Label: &bound.Label{Name: "L"}, Stmt: &bound.Empty{}}}, UnreferencedLabel, "L"},
		{"gotocase", []bound.Stmt{&bound.GotoCase{}}, InvalidBranchTarget, "goto case"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ds := project(t, Method("M", nil, tt.body...))

			be.Equal(t, kindsOf(ds), []Kind{tt.want})
			be.Equal(t, ds[0].Arg(), tt.arg)
		})
	}
}
