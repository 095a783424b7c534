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

// funcLowerer holds the symbols of one function declaration, including nested function literals.
type funcLowerer struct {
	*Lowerer

	locals map[*types.Var]*bound.Local
	params map[*types.Var]*bound.Parameter
	funcs  map[*types.Var]*bound.Function
	labels map[*types.Label]*bound.Label

	next *bound.SwitchSection // fallthrough target of the current case clause
}

func newFuncLowerer(l *Lowerer) *funcLowerer {
	return &funcLowerer{
		Lowerer: l,
		locals:  make(map[*types.Var]*bound.Local),
		params:  make(map[*types.Var]*bound.Parameter),
		funcs:   make(map[*types.Var]*bound.Function),
		labels:  make(map[*types.Label]*bound.Label),
	}
}

func (fl *funcLowerer) paramList(list *ast.FieldList) []*bound.Parameter {
	if list == nil {
		return nil
	}

	var params []*bound.Parameter

	for _, field := range list.List {
		if len(field.Names) == 0 {
			params = append(params, &bound.Parameter{Name: "_", Type: fl.exprType(field.Type), Pos: field.Pos()})

			continue
		}

		for _, id := range field.Names {
			p := &bound.Parameter{Name: id.Name, Pos: id.Pos(), Type: untrackedType}

			if v, ok := fl.info.Defs[id].(*types.Var); ok {
				p.Type = fl.types.typ(v.Type())
				fl.params[v] = p
			}

			params = append(params, p)
		}
	}

	return params
}

func (fl *funcLowerer) local(id *ast.Ident, kind bound.LocalKind) *bound.Local {
	l := &bound.Local{Name: id.Name, Pos: id.Pos(), Kind: kind, Type: untrackedType}

	if v, ok := fl.info.Defs[id].(*types.Var); ok {
		l.Type = fl.types.typ(v.Type())
		fl.locals[v] = l
	}

	return l
}

func (fl *funcLowerer) label(id *ast.Ident) *bound.Label {
	if id == nil {
		return nil
	}

	obj, ok := fl.info.ObjectOf(id).(*types.Label)
	if !ok {
		return &bound.Label{Name: id.Name, Pos: id.Pos()}
	}

	if l, ok := fl.labels[obj]; ok {
		return l
	}

	l := &bound.Label{Name: obj.Name(), Pos: obj.Pos()}
	fl.labels[obj] = l

	return l
}

func (fl *funcLowerer) body(b *ast.BlockStmt) *bound.Block {
	if b == nil {
		return nil
	}

	return &bound.Block{Span: span(b), Stmts: fl.stmtList(b.List, true)}
}

func (fl *funcLowerer) block(b *ast.BlockStmt) *bound.Block {
	return &bound.Block{Span: span(b), Stmts: fl.stmtList(b.List, false)}
}

// stmtList lowers a statement list. In the top level list of a function body a defer
// statement wraps the rest of the list into a try statement with the deferred call as finally handler.
func (fl *funcLowerer) stmtList(list []ast.Stmt, top bool) []bound.Stmt {
	stmts := make([]bound.Stmt, 0, len(list))

	for i, s := range list {
		if d, ok := s.(*ast.DeferStmt); ok && top {
			return append(stmts, fl.deferred(d, list[i+1:]))
		}

		stmts = append(stmts, fl.stmt(s)...)
	}

	return stmts
}

func (fl *funcLowerer) deferred(d *ast.DeferStmt, rest []ast.Stmt) *bound.Try {
	body := &bound.Block{Span: bound.Span{From: d.End(), To: d.End()}, Stmts: fl.stmtList(rest, true)}
	if n := len(rest); n > 0 {
		body.Span = bound.Span{From: rest[0].Pos(), To: rest[n-1].End()}
	}

	fin := &bound.Block{Span: span(d), Stmts: []bound.Stmt{fl.callStmt(d, d.Call)}}

	return &bound.Try{Span: bound.Span{From: d.Pos(), To: max(d.End(), body.To)}, Body: body, Finally: fin}
}

// one lowers a statement that must stay a single statement.
func (fl *funcLowerer) one(s ast.Stmt) bound.Stmt {
	stmts := fl.stmt(s)
	if len(stmts) == 1 {
		return stmts[0]
	}

	return &bound.Block{Span: span(s), Stmts: stmts}
}

func (fl *funcLowerer) stmt(s ast.Stmt) []bound.Stmt {
	switch s := s.(type) {
	case *ast.BlockStmt:
		return []bound.Stmt{fl.block(s)}

	case *ast.ExprStmt:
		if call, ok := ast.Unparen(s.X).(*ast.CallExpr); ok {
			return []bound.Stmt{fl.callStmt(s, call)}
		}

		return []bound.Stmt{&bound.ExprStmt{Span: span(s), X: fl.value(s.X)}}

	case *ast.AssignStmt:
		return fl.assign(s)

	case *ast.IncDecStmt:
		x := &bound.IncDec{Span: span(s), Op: s.Tok, X: fl.value(s.X)}

		return []bound.Stmt{&bound.ExprStmt{Span: span(s), X: x}}

	case *ast.DeclStmt:
		return fl.decl(s)

	case *ast.IfStmt:
		return fl.ifStmt(s)

	case *ast.ForStmt:
		f := &bound.For{Span: span(s), Body: fl.block(s.Body)}
		if s.Init != nil {
			f.Init = fl.stmt(s.Init)
		}

		if s.Cond != nil {
			f.Cond = fl.value(s.Cond)
		}

		if s.Post != nil {
			f.Post = fl.stmt(s.Post)
		}

		return []bound.Stmt{f}

	case *ast.RangeStmt:
		return []bound.Stmt{fl.rangeStmt(s)}

	case *ast.SwitchStmt:
		return fl.switchStmt(s)

	case *ast.TypeSwitchStmt:
		return fl.typeSwitch(s)

	case *ast.SelectStmt:
		return []bound.Stmt{fl.selectStmt(s)}

	case *ast.BranchStmt:
		return []bound.Stmt{fl.branch(s)}

	case *ast.LabeledStmt:
		stmts := fl.stmt(s.Stmt)
		if len(stmts) == 0 {
			stmts = []bound.Stmt{&bound.Empty{Span: span(s.Stmt)}}
		}

		last := len(stmts) - 1
		stmts[last] = &bound.Labeled{Span: span(s), Label: fl.label(s.Label), Stmt: stmts[last]}

		return stmts

	case *ast.ReturnStmt:
		return []bound.Stmt{&bound.Return{Span: span(s), Value: fl.results(s.Results)}}

	case *ast.DeferStmt:
		return []bound.Stmt{fl.nestedDefer(s)}

	case *ast.GoStmt:
		return []bound.Stmt{&bound.ExprStmt{Span: span(s), X: fl.call(s.Call)}}

	case *ast.SendStmt:
		op := &bound.Operation{Span: span(s), Typed: bound.Typed{T: untrackedType}, Operands: fl.values(s.Chan, s.Value)}

		return []bound.Stmt{&bound.ExprStmt{Span: span(s), X: op}}

	case *ast.EmptyStmt:
		return []bound.Stmt{&bound.Empty{Span: span(s)}}

	default: // *ast.BadStmt
		return []bound.Stmt{&bound.BadStmt{Span: span(s)}}
	}
}

// callStmt lowers a call statement. Calls that never return raise an exception.
func (fl *funcLowerer) callStmt(s ast.Node, call *ast.CallExpr) bound.Stmt {
	x := fl.call(call)

	if fl.tracker.CantReturn(call) {
		return &bound.Throw{Span: span(s), Value: x}
	}

	return &bound.ExprStmt{Span: span(s), X: x}
}

// nestedDefer evaluates the function value and arguments of a defer statement not in the
// top level list. The deferred call runs at an unknown point.
func (fl *funcLowerer) nestedDefer(s *ast.DeferStmt) bound.Stmt {
	operands := fl.values(s.Call.Args...)
	if f := fl.value(s.Call.Fun); f != nil {
		operands = append([]bound.Expr{f}, operands...)
	}

	op := &bound.Operation{Span: span(s.Call), Typed: bound.Typed{T: untrackedType}, Operands: operands}

	return &bound.ExprStmt{Span: span(s), X: op}
}

func (fl *funcLowerer) results(results []ast.Expr) bound.Expr {
	switch len(results) {
	case 0:
		return nil

	case 1:
		return fl.value(results[0])

	default:
		return &bound.Tuple{
			Span:  bound.Span{From: results[0].Pos(), To: results[len(results)-1].End()},
			Typed: bound.Typed{T: untrackedType},
			Elems: fl.values(results...),
		}
	}
}

func (fl *funcLowerer) branch(s *ast.BranchStmt) bound.Stmt {
	switch s.Tok {
	case token.BREAK:
		return &bound.Break{Span: span(s), Label: fl.label(s.Label)}

	case token.CONTINUE:
		return &bound.Continue{Span: span(s), Label: fl.label(s.Label)}

	case token.GOTO:
		return &bound.Goto{Span: span(s), Label: fl.label(s.Label)}

	default: // token.FALLTHROUGH
		return &bound.GotoCase{Span: span(s), Section: fl.next}
	}
}

func (fl *funcLowerer) ifStmt(s *ast.IfStmt) []bound.Stmt {
	var stmts []bound.Stmt
	if s.Init != nil {
		stmts = fl.stmt(s.Init)
	}

	i := &bound.If{Span: span(s), Cond: fl.value(s.Cond), Then: fl.block(s.Body)}
	if s.Else != nil {
		i.Else = fl.one(s.Else)
	}

	return append(stmts, i)
}

func (fl *funcLowerer) rangeStmt(s *ast.RangeStmt) *bound.ForEach {
	f := &bound.ForEach{Span: span(s), Collection: fl.value(s.X)}

	for _, e := range [...]ast.Expr{s.Key, s.Value} {
		if e == nil || isBlank(e) {
			continue
		}

		if s.Tok == token.DEFINE {
			if id, ok := e.(*ast.Ident); ok {
				f.Locals = append(f.Locals, fl.local(id, bound.IterationLocal))
			}

			continue
		}

		f.Targets = append(f.Targets, fl.value(e))
	}

	f.Body = fl.block(s.Body)

	return f
}

// sections creates the sections of a switch ahead of lowering their bodies, so fallthrough
// statements can refer to the next section.
func sections(clauses []ast.Stmt) []*bound.SwitchSection {
	secs := make([]*bound.SwitchSection, len(clauses))
	for i, c := range clauses {
		secs[i] = &bound.SwitchSection{Span: span(c)}
	}

	return secs
}

func (fl *funcLowerer) sectionBody(secs []*bound.SwitchSection, i int, prefix []bound.Stmt, body []ast.Stmt) {
	next := fl.next
	defer func() { fl.next = next }()

	fl.next = nil
	if i+1 < len(secs) {
		fl.next = secs[i+1]
	}

	secs[i].Body = append(prefix, fl.stmtList(body, false)...)
}

func (fl *funcLowerer) switchStmt(s *ast.SwitchStmt) []bound.Stmt {
	var stmts []bound.Stmt
	if s.Init != nil {
		stmts = fl.stmt(s.Init)
	}

	sw := &bound.Switch{Span: span(s), ImplicitBreak: true}
	if s.Tag != nil {
		sw.Expr = fl.value(s.Tag)
	}

	sw.Sections = sections(s.Body.List)

	for i, c := range s.Body.List {
		cc, ok := c.(*ast.CaseClause)
		if !ok {
			continue
		}

		if cc.List == nil {
			sw.Sections[i].Labels = []*bound.CaseLabel{{Span: span(cc), Default: true}}
		}

		for _, e := range cc.List {
			sw.Sections[i].Labels = append(sw.Sections[i].Labels, &bound.CaseLabel{Span: span(e), Value: fl.value(e)})
		}

		fl.sectionBody(sw.Sections, i, nil, cc.Body)
	}

	return append(stmts, sw)
}

// typeSwitch lowers a type switch with type patterns. The symbolic variable of the
// switch guard becomes an implicit local of every clause.
func (fl *funcLowerer) typeSwitch(s *ast.TypeSwitchStmt) []bound.Stmt {
	var stmts []bound.Stmt
	if s.Init != nil {
		stmts = fl.stmt(s.Init)
	}

	var guard ast.Expr
	switch a := s.Assign.(type) {
	case *ast.ExprStmt:
		guard = a.X

	case *ast.AssignStmt:
		if len(a.Rhs) == 1 {
			guard = a.Rhs[0]
		}
	}

	sw := &bound.Switch{Span: span(s), ImplicitBreak: true}
	if ta, ok := ast.Unparen(guard).(*ast.TypeAssertExpr); ok {
		sw.Expr = fl.value(ta.X)
	}

	sw.Sections = sections(s.Body.List)

	for i, c := range s.Body.List {
		cc, ok := c.(*ast.CaseClause)
		if !ok {
			continue
		}

		if cc.List == nil {
			sw.Sections[i].Labels = []*bound.CaseLabel{{Span: span(cc), Default: true}}
		}

		for _, e := range cc.List {
			l := &bound.CaseLabel{Span: span(e)}

			if fl.info.Types[e].IsNil() {
				l.Pattern = &bound.ConstPattern{Span: span(e), Value: fl.value(e)}
			} else {
				l.Pattern = &bound.DeclPattern{Span: span(e), Type: fl.exprType(e)}
			}

			sw.Sections[i].Labels = append(sw.Sections[i].Labels, l)
		}

		var prefix []bound.Stmt

		if v, ok := fl.info.Implicits[cc].(*types.Var); ok {
			l := &bound.Local{Name: v.Name(), Type: fl.types.typ(v.Type()), Pos: v.Pos(), Kind: bound.PatternLocal}
			fl.locals[v] = l

			init := &bound.Default{Span: span(cc), Typed: bound.Typed{T: l.Type}}
			prefix = []bound.Stmt{&bound.LocalDecl{Span: span(cc), Local: l, Init: init, Implicit: true}}
		}

		fl.sectionBody(sw.Sections, i, prefix, cc.Body)
	}

	return append(stmts, sw)
}

// selectStmt lowers a select statement to an exhaustive switch whose cases may or may not be chosen.
func (fl *funcLowerer) selectStmt(s *ast.SelectStmt) *bound.Switch {
	sw := &bound.Switch{Span: span(s), ImplicitBreak: true, Exhaustive: true}
	sw.Sections = sections(s.Body.List)

	for i, c := range s.Body.List {
		cc, ok := c.(*ast.CommClause)
		if !ok {
			continue
		}

		l := &bound.CaseLabel{Span: span(cc), Default: cc.Comm == nil}
		if cc.Comm != nil {
			l.Span = span(cc.Comm)
		}

		sw.Sections[i].Labels = []*bound.CaseLabel{l}

		var prefix []bound.Stmt
		if cc.Comm != nil {
			prefix = fl.stmt(cc.Comm)
		}

		fl.sectionBody(sw.Sections, i, prefix, cc.Body)
	}

	return sw
}

func isBlank(e ast.Expr) bool {
	id, ok := e.(*ast.Ident)

	return ok && id.Name == "_"
}
