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

// Package lower translates type-checked Go function declarations into bound method bodies.
//
// Go zero-initializes every variable. The lowering treats a variable declared without
// initializer as unassigned, so reads of implicit zero values are reported.
package lower

import (
	"go/ast"
	"go/types"

	"golang.org/x/tools/go/ast/edge"
	"golang.org/x/tools/go/ast/inspector"

	"fillmore-labs.com/definite/internal/bound"
	"fillmore-labs.com/definite/internal/lower/tracker"
)

// Lowerer lowers the functions of a single package.
type Lowerer struct {
	pkg     *types.Package
	info    *types.Info
	types   *typeMap
	tracker tracker.Tracker

	// callOnly holds function variables whose uses are all direct calls.
	callOnly map[*types.Var]bool
}

// New creates a [Lowerer] for a type-checked package.
func New(pkg *types.Package, info *types.Info, in *inspector.Inspector) *Lowerer {
	return &Lowerer{
		pkg:      pkg,
		info:     info,
		types:    newTypeMap(pkg),
		tracker:  tracker.New(info),
		callOnly: callOnly(info, in.Root()),
	}
}

// callOnly collects the variables only used as the function of call expressions.
func callOnly(info *types.Info, root inspector.Cursor) map[*types.Var]bool {
	vars := make(map[*types.Var]bool)

	for c := range root.Preorder((*ast.Ident)(nil)) {
		v, ok := info.Uses[c.Node().(*ast.Ident)].(*types.Var)
		if !ok || v.IsField() {
			continue
		}

		if k, _ := c.ParentEdge(); k == edge.CallExpr_Fun {
			if _, seen := vars[v]; !seen {
				vars[v] = true
			}

			continue
		}

		vars[v] = false
	}

	return vars
}

// Func lowers a function or method declaration with a body.
func (l *Lowerer) Func(decl *ast.FuncDecl) *bound.Method {
	fl := newFuncLowerer(l)

	m := &bound.Method{
		Span: span(decl),
		Name: funcName(decl),
	}

	if decl.Recv != nil && len(decl.Recv.List) > 0 {
		if recv := fl.paramList(decl.Recv); len(recv) > 0 {
			m.This = recv[0]
			m.This.IsThis = true
		}
	}

	m.Params = append(fl.paramList(decl.Type.Params), fl.paramList(decl.Type.Results)...)
	m.Body = fl.body(decl.Body)

	return m
}

// Structs returns the struct types declared in the package and referenced by lowered functions.
func (l *Lowerer) Structs() []*bound.Type {
	return l.types.structs
}

// Compile lowers all function declarations with a body in the files of in.
func (l *Lowerer) Compile(name string, in *inspector.Inspector) *bound.Compilation {
	var methods []*bound.Method

	for c := range in.Root().Preorder((*ast.FuncDecl)(nil)) {
		decl := c.Node().(*ast.FuncDecl)
		if decl.Body == nil {
			continue
		}

		methods = append(methods, l.Func(decl))
	}

	return l.Compilation(name, methods)
}

// Compilation combines already lowered methods with the struct types of the package.
func (l *Lowerer) Compilation(name string, methods []*bound.Method) *bound.Compilation {
	l.declaredStructs()

	return &bound.Compilation{
		Name:    name,
		Types:   l.Structs(),
		Methods: methods,
		Bool:    l.types.typ(types.Typ[types.Bool]),
	}
}

// declaredStructs maps the struct types declared at package level, so fields of types
// never referenced from a function body are still known.
func (l *Lowerer) declaredStructs() {
	scope := l.pkg.Scope()
	for _, name := range scope.Names() {
		tn, ok := scope.Lookup(name).(*types.TypeName)
		if !ok || tn.IsAlias() {
			continue
		}

		if _, ok := tn.Type().Underlying().(*types.Struct); ok {
			l.types.typ(tn.Type())
		}
	}
}

func funcName(decl *ast.FuncDecl) string {
	if decl.Recv == nil || len(decl.Recv.List) == 0 {
		return decl.Name.Name
	}

	return recvTypeName(decl.Recv.List[0].Type) + "." + decl.Name.Name
}

func recvTypeName(e ast.Expr) string {
	for {
		switch x := e.(type) {
		case *ast.StarExpr:
			e = x.X

		case *ast.ParenExpr:
			e = x.X

		case *ast.IndexExpr:
			e = x.X

		case *ast.IndexListExpr:
			e = x.X

		case *ast.Ident:
			return x.Name

		default:
			return "_"
		}
	}
}

func span(n ast.Node) bound.Span {
	return bound.Span{From: n.Pos(), To: n.End()}
}
