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


package slot_test

import (
	"testing"

	"github.com/nalgeon/be"

	"fillmore-labs.com/definite/internal/bound"
	. "fillmore-labs.com/definite/internal/bound/boundtest"
	. "fillmore-labs.com/definite/internal/slot"
)

func TestAllocate(t *testing.T) {
	t.Parallel()

	fx, fy := NewField("x", Int), NewField("y", Int)
	s := Local("s", Struct("S", fx, fy))

	m := New()

	root := m.Allocate(Path{Root: s})
	x := m.Allocate(Path{Root: s, Fields: []*bound.Field{fx}})
	y := m.Allocate(Path{Root: s, Fields: []*bound.Field{fy}})

	be.True(t, root.Valid())
	be.Equal(t, m.Allocate(Path{Root: s, Fields: []*bound.Field{fx}}), x)
	be.Equal(t, m.Len(), 4)

	be.True(t, !m.IsStructField(root))
	be.True(t, m.IsStructField(x))
	be.Equal(t, m.Parent(x), root)
	be.Equal(t, m.Parent(root), Opaque)
	be.Equal(t, m.Root(y), root)
	be.Equal(t, m.FieldsOf(root), []Slot{x, y})
	be.Equal(t, m.Name(y), "s.y")
	be.Equal(t, m.Symbol(x), bound.Symbol(fx))
}

func TestLazyFields(t *testing.T) {
	t.Parallel()

	fx, fy := NewField("x", Int), NewField("y", Int)
	s := Local("s", Struct("S", fx, fy))

	m := New()
	root := m.Variable(s)

	_, ok := m.Lookup(root, fx)
	be.True(t, !ok)
	be.Equal(t, len(m.FieldsOf(root)), 0)

	x := m.Field(root, fx)

	got, ok := m.Lookup(root, fx)
	be.True(t, ok)
	be.Equal(t, got, x)
	be.Equal(t, m.Len(), 3)
}

func TestOpaque(t *testing.T) {
	t.Parallel()

	empty := Struct("E")
	nested := Struct("N", NewField("e", empty))

	cyclic := Struct("C")
	cyclic.Fields = []*bound.Field{NewField("c", cyclic)}

	invalid := &bound.Type{Name: "bad", Kind: bound.Invalid}

	tests := []struct {
		name string
		typ  *bound.Type
	}{
		{"empty struct", empty},
		{"struct of empty structs", nested},
		{"cyclic value type", cyclic},
		{"untracked", Void},
		{"invalid", invalid},
		{"missing", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m := New()

			be.Equal(t, m.Variable(Local("v", tt.typ)), Opaque)
			be.True(t, m.TriviallyAssigned(tt.typ))
			be.Equal(t, m.Len(), 1)
		})
	}
}

func TestReferenceFields(t *testing.T) {
	t.Parallel()

	f := NewField("f", Int)
	c := Local("c", Class("C", f))

	m := New()
	root := m.Variable(c)

	be.True(t, root.Valid())
	be.Equal(t, m.Field(root, f), Opaque)
	be.Equal(t, m.Len(), 2)
}

func TestFieldAlias(t *testing.T) {
	t.Parallel()

	item1, item2 := NewField("x", Int), NewField("y", Int)
	alias := &bound.Field{Name: "Item2", Type: Int, Alias: item2}
	tuple := Local("t", Struct("T", item1, item2, alias))

	m := New()
	root := m.Variable(tuple)

	be.Equal(t, m.Field(root, alias), m.Field(root, item2))
	be.Equal(t, len(m.StateFields(tuple.Type)), 2)
}

func TestMirror(t *testing.T) {
	t.Parallel()

	fx, fy := NewField("x", Int), NewField("y", Int)
	typ := Struct("S", fx, fy)
	s, u := Local("s", typ), Local("u", typ)

	m := New()
	src, dst := m.Variable(s), m.Variable(u)
	sx := m.Field(src, fx)

	be.True(t, m.Mirror(dst, src))
	be.True(t, !m.Mirror(dst, src))

	ux, ok := m.Counterpart(dst, sx)
	be.True(t, ok)
	be.Equal(t, m.Name(ux), "u.x")

	_, ok = m.Lookup(dst, fy)
	be.True(t, !ok)
}

func TestDescendants(t *testing.T) {
	t.Parallel()

	fa := NewField("a", Int)
	inner := Struct("I", fa)
	fi := NewField("i", inner)
	v := Local("v", Struct("O", fi))

	m := New()
	a := m.Allocate(Path{Root: v, Fields: []*bound.Field{fi, fa}})
	i := m.Parent(a)

	var got []Slot
	m.Descendants(m.Variable(v), func(s Slot) { got = append(got, s) })

	be.Equal(t, got, []Slot{i, a})
	be.Equal(t, m.Name(a), "v.i.a")
}
