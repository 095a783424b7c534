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

package lower_test

import (
	"go/ast"
	"testing"

	"github.com/nalgeon/be"
	"golang.org/x/tools/go/ast/inspector"

	"fillmore-labs.com/definite/internal/engine"
	. "fillmore-labs.com/definite/internal/lower"
	"fillmore-labs.com/definite/internal/testsource"
)

// analyze lowers and analyzes the function f of src, returning "code argument" per diagnostic.
func analyze(t *testing.T, src string) []string {
	t.Helper()

	fset, f := testsource.File(t, src)
	pkg, info := testsource.Check(t, fset, f)

	l := New(pkg, info, inspector.New([]*ast.File{f}))
	r := engine.Analyze(t.Context(), l.Func(testsource.Func(t, f, "f")))

	got := []string{}
	for _, d := range r.Diagnostics {
		got = append(got, d.Kind.Code()+" "+d.Arg())
	}

	return got
}

func TestLower(t *testing.T) {
	t.Parallel()

	tests := [...]struct {
		name string
		src  string
		want []string
	}{
		{
			name: "unassigned",
			src: `package p

func f() int {
	var x int
	return x
}`,
			want: []string{"uav x"},
		},
		{
			name: "both branches",
			src: `package p

func f(b bool) int {
	var x int
	if b {
		x = 1
	} else {
		x = 2
	}
	return x
}`,
			want: []string{},
		},
		{
			name: "one branch",
			src: `package p

func f(b bool) int {
	var x int
	if b {
		x = 1
	}
	return x
}`,
			want: []string{"uav x"},
		},
		{
			name: "panic",
			src: `package p

func f(b bool) int {
	var x int
	if b {
		x = 1
	} else {
		panic("no")
	}
	return x
}`,
			want: []string{},
		},
		{
			name: "log.Fatal",
			src: `package p

import "log"

func f(b bool) int {
	var x int
	if b {
		x = 1
	} else {
		log.Fatal("no")
	}
	return x
}`,
			want: []string{},
		},
		{
			name: "address argument",
			src: `package p

func set(p *int) { *p = 1 }

func f() int {
	var x int
	set(&x)
	return x
}`,
			want: []string{},
		},
		{
			name: "pointer receiver",
			src: `package p

type T struct{ a int }

func (t *T) Set() { t.a = 1 }

func f() T {
	var t T
	t.Set()
	return t
}`,
			want: []string{},
		},
		{
			name: "partial struct",
			src: `package p

type P struct{ X, Y int }

func f() P {
	var p P
	p.X = 1
	return p
}`,
			want: []string{"uav p"},
		},
		{
			name: "complete struct",
			src: `package p

type P struct{ X, Y int }

func f() P {
	var p P
	p.X = 1
	p.Y = 2
	return p
}`,
			want: []string{},
		},
		{
			name: "switch with fallthrough",
			src: `package p

func f(n int) int {
	var x int
	switch n {
	case 0:
		fallthrough
	case 1:
		x = 1
	default:
		x = 2
	}
	return x
}`,
			want: []string{},
		},
		{
			name: "switch without default",
			src: `package p

func f(n int) int {
	var x int
	switch n {
	case 0:
		x = 1
	}
	return x
}`,
			want: []string{"uav x"},
		},
		{
			name: "type switch",
			src: `package p

func f(v any) int {
	var x int
	switch v.(type) {
	case int:
		x = 1
	case string:
		x = 2
	}
	return x
}`,
			want: []string{"uav x"},
		},
		{
			name: "select",
			src: `package p

func f(c chan int) int {
	var x int
	select {
	case v := <-c:
		x = v
	}
	return x
}`,
			want: []string{},
		},
		{
			name: "loop may not run",
			src: `package p

func f() int {
	var x int
	for i := 0; i < 3; i++ {
		x = i
	}
	return x
}`,
			want: []string{"uav x"},
		},
		{
			name: "endless loop with break",
			src: `package p

func f() int {
	var x int
	for {
		x = 1
		break
	}
	return x
}`,
			want: []string{},
		},
		{
			name: "labeled break",
			src: `package p

func f(n int) int {
	var x int
outer:
	for i := range n {
		for j := range n {
			if i+j > 3 {
				x = 1
				break outer
			}
		}
	}
	return x
}`,
			want: []string{"uav x"},
		},
		{
			name: "local function",
			src: `package p

func f() int {
	var x int
	set := func() { x = 1 }
	set()
	return x
}`,
			want: []string{},
		},
		{
			name: "local function reads",
			src: `package p

func f() int {
	var x int
	get := func() int { return x }
	r := get()
	x = 1
	return r + x
}`,
			want: []string{"uav x"},
		},
		{
			name: "lambda",
			src: `package p

func run(g func()) { g() }

func f() {
	var x int
	run(func() { println(x) })
}`,
			want: []string{"uav x"},
		},
		{
			name: "nil map",
			src: `package p

func f() map[string]int {
	var m map[string]int
	m["a"] = 1
	return m
}`,
			want: []string{"uav m"},
		},
		{
			name: "slices are untracked",
			src: `package p

func f() []int {
	var s []int
	s = append(s, 1)
	return s
}`,
			want: []string{},
		},
		{
			name: "imported struct without exported fields",
			src: `package p

import "strings"

func f() string {
	var b strings.Builder
	b.WriteString("x")
	return b.String()
}`,
			want: []string{},
		},
		{
			name: "defer",
			src: `package p

func f() {
	var x int
	x = 1
	defer func() { println(x) }()
	println("work")
}`,
			want: []string{},
		},
		{
			name: "unreachable",
			src: `package p

func f() int {
	return 1
	println("dead")
	return 2
}`,
			want: []string{"unr "},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			be.Equal(t, analyze(t, tt.src), tt.want)
		})
	}
}

func TestCompile(t *testing.T) {
	t.Parallel()

	const src = `package p

type S struct {
	a, b int
}

func (s *S) SetA() { s.a = 1 }

func f() int {
	s := S{}
	s.SetA()
	return s.a
}

func g()
`

	fset, f := testsource.File(t, src)
	pkg, info := testsource.Check(t, fset, f)

	in := inspector.New([]*ast.File{f})
	comp := New(pkg, info, in).Compile("p", in)

	be.Equal(t, len(comp.Methods), 2)
	be.Equal(t, comp.Methods[0].Name, "S.SetA")
	be.Equal(t, comp.Methods[1].Name, "f")

	be.Equal(t, len(comp.Types), 1)
	be.Equal(t, comp.Types[0].Name, "S")
	be.Equal(t, len(comp.Types[0].Fields), 2)
}

func TestFuncParams(t *testing.T) {
	t.Parallel()

	const src = `package p

type T struct{ n int }

func (t *T) f(a, b int, _ string) (r int) {
	add := func(c int) int { return c + a }
	r = add(b) + t.n
	return
}
`

	fset, f := testsource.File(t, src)
	pkg, info := testsource.Check(t, fset, f)

	m := New(pkg, info, inspector.New([]*ast.File{f})).Func(testsource.Func(t, f, "f"))

	be.True(t, m.This != nil)
	be.Equal(t, m.This.Name, "t")
	be.True(t, m.This.IsThis)

	names := make([]string, 0, len(m.Params))
	for _, p := range m.Params {
		names = append(names, p.Name)
	}

	be.Equal(t, names, []string{"a", "b", "_", "r"})
}
