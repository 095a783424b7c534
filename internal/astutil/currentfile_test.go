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


package astutil_test

import (
	"go/ast"
	"go/parser"
	"go/token"
	"testing"

	"github.com/nalgeon/be"

	. "fillmore-labs.com/definite/internal/astutil"
)

const src = `// Package p is excluded.
//
//nolint:definite
package p

func f() int {
	var x int
	return x //nolint:definite // reviewed
}

func g() int {
	var y int
	return y // nolint:other
}
`

func parse(t *testing.T) (*token.FileSet, *ast.File) {
	t.Helper()

	fset := token.NewFileSet()

	f, err := parser.ParseFile(fset, "p.go", src, parser.ParseComments|parser.SkipObjectResolution)
	if err != nil {
		t.Fatalf("Can't parse: %v", err)
	}

	return fset, f
}

func returns(f *ast.File) []*ast.ReturnStmt {
	var rs []*ast.ReturnStmt

	ast.Inspect(f, func(n ast.Node) bool {
		if r, ok := n.(*ast.ReturnStmt); ok {
			rs = append(rs, r)
		}

		return true
	})

	return rs
}

func TestNoLint(t *testing.T) {
	t.Parallel()

	fset, f := parse(t)

	files := NewFiles(fset, []*ast.File{f})
	be.Equal(t, len(files), 1)

	rs := returns(f)
	be.Equal(t, len(rs), 2)

	cf, ok := files.Of(rs[0].Pos())
	be.True(t, ok)
	be.True(t, cf.NoLint())
	be.True(t, !cf.Generated())
	be.True(t, cf.NoLintComment(rs[0].Results[0].Pos()))
	be.True(t, !cf.NoLintComment(rs[1].Results[0].Pos()))

	_, ok = files.Of(token.NoPos)
	be.True(t, !ok)
}

func TestCommentHasNoLint(t *testing.T) {
	t.Parallel()

	tests := [...]struct {
		text string
		want bool
	}{
		{"//nolint:definite", true},
		{"// nolint:all", true},
		{"//nolint:gosec,Definite", true},
		{"//nolint:gosec", false},
		{"// nolint", false},
		{"/* nolint:definite */", false},
	}

	for _, tt := range tests {
		be.Equal(t, CommentHasNoLint(&ast.Comment{Text: tt.text}), tt.want)
	}
}
