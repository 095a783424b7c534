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

package lower

import (
	"go/ast"
	"go/token"
	"go/types"

	"fillmore-labs.com/definite/internal/bound"
)

// assign lowers assignment and short variable declaration statements.
//
// Multiple assignments evaluate all operands first. The right hand side is lowered into a
// separate statement and each target receives an opaque result.
func (fl *funcLowerer) assign(s *ast.AssignStmt) []bound.Stmt {
	switch s.Tok {
	case token.ASSIGN, token.DEFINE:

	default:
		op := &bound.CompoundAssign{Span: span(s), Op: s.Tok, Left: fl.value(s.Lhs[0]), Right: fl.value(s.Rhs[0])}

		return []bound.Stmt{&bound.ExprStmt{Span: span(s), X: op}}
	}

	define := s.Tok == token.DEFINE

	if len(s.Lhs) == 1 && len(s.Rhs) == 1 {
		return []bound.Stmt{fl.single(s, s.Lhs[0], s.Rhs[0], nil, define)}
	}

	var stmts []bound.Stmt

	if len(s.Rhs) == 1 {
		stmts = append(stmts, &bound.ExprStmt{Span: span(s.Rhs[0]), X: fl.value(s.Rhs[0])})
	} else {
		t := &bound.Tuple{
			Span:  bound.Span{From: s.Rhs[0].Pos(), To: s.Rhs[len(s.Rhs)-1].End()},
			Typed: bound.Typed{T: untrackedType},
			Elems: fl.values(s.Rhs...),
		}
		stmts = append(stmts, &bound.ExprStmt{Span: t.Span, X: t})
	}

	for _, lhs := range s.Lhs {
		if isBlank(lhs) {
			continue
		}

		stmts = append(stmts, fl.single(lhs, lhs, nil, fl.result(lhs), define))
	}

	return stmts
}

// result is the opaque value a target of a multiple assignment receives.
func (fl *funcLowerer) result(lhs ast.Expr) bound.Expr {
	return &bound.Operation{Span: span(lhs), Typed: bound.Typed{T: fl.exprType(lhs)}}
}

// single lowers the assignment of rhs, or the already lowered value, to lhs.
func (fl *funcLowerer) single(n ast.Node, lhs, rhs ast.Expr, value bound.Expr, define bool) bound.Stmt {
	id, _ := lhs.(*ast.Ident)

	if define && id != nil {
		if v, ok := fl.info.Defs[id].(*types.Var); ok {
			if lit, ok := ast.Unparen(rhs).(*ast.FuncLit); ok && fl.callOnly[v] {
				return fl.localFunc(n, id, v, lit)
			}

			if value == nil {
				value = fl.value(rhs)
			}

			return &bound.LocalDecl{Span: span(n), Local: fl.local(id, bound.PlainLocal), Init: value}
		}
	}

	if value == nil {
		value = fl.value(rhs)
	}

	if isBlank(lhs) {
		return &bound.ExprStmt{Span: span(n), X: value}
	}

	x := &bound.Assign{Span: span(n), Left: fl.value(lhs), Right: value}

	return &bound.ExprStmt{Span: span(n), X: x}
}

// localFunc lowers a function literal bound to a variable that is only ever called.
func (fl *funcLowerer) localFunc(n ast.Node, id *ast.Ident, v *types.Var, lit *ast.FuncLit) bound.Stmt {
	fn := &bound.Function{Span: bound.Span{From: id.Pos(), To: lit.End()}, Name: id.Name, Kind: bound.LocalFunction}
	fl.funcs[v] = fn

	fn.Params = append(fl.paramList(lit.Type.Params), fl.paramList(lit.Type.Results)...)
	fn.Body = fl.body(lit.Body)

	return &bound.LocalFunc{Span: span(n), Func: fn}
}

// decl lowers variable declarations. Variables declared without value are unassigned.
func (fl *funcLowerer) decl(s *ast.DeclStmt) []bound.Stmt {
	gen, ok := s.Decl.(*ast.GenDecl)
	if !ok || gen.Tok != token.VAR {
		return []bound.Stmt{&bound.Empty{Span: span(s)}}
	}

	var stmts []bound.Stmt

	for _, spec := range gen.Specs {
		vs, ok := spec.(*ast.ValueSpec)
		if !ok {
			continue
		}

		single := len(vs.Names) == 1 || len(vs.Values) == len(vs.Names)

		if len(vs.Values) > 0 && !single {
			stmts = append(stmts, &bound.ExprStmt{Span: span(vs.Values[0]), X: fl.value(vs.Values[0])})
		}

		for i, id := range vs.Names {
			var init bound.Expr

			switch {
			case len(vs.Values) == 0:

			case single:
				init = fl.value(vs.Values[i])

			default:
				init = fl.result(id)
			}

			if isBlank(id) {
				if init != nil {
					stmts = append(stmts, &bound.ExprStmt{Span: span(vs), X: init})
				}

				continue
			}

			stmts = append(stmts, &bound.LocalDecl{Span: span(vs), Local: fl.local(id, bound.PlainLocal), Init: init})
		}
	}

	if len(stmts) == 0 {
		return []bound.Stmt{&bound.Empty{Span: span(s)}}
	}

	return stmts
}
