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

package graph

import (
	"fmt"
	"go/token"
	"slices"

	"fillmore-labs.com/definite/internal/bound"
	"fillmore-labs.com/definite/internal/flow/block"
)

// builder constructs the control flow graph of a single function body.
type builder struct {
	block.Factory

	g  *Graph
	fn *Func

	labels       map[*bound.Label]*LabelTarget
	labelOrder   []*bound.Label
	targetScopes branchTargetScopes
	sections     map[*bound.SwitchSection]target
	gotos        []pendingGoto

	finallies []*block.Finally // active finally handlers, innermost last
	regions   []*region        // active protected regions, innermost last
	detached  bool
}

// region collects the blocks created inside a protected region.
type region struct {
	blocks []*block.Block
}

// pendingGoto is a forward goto, resolved when the function is complete.
type pendingGoto struct {
	from      *block.Block
	stmt      *bound.Goto
	finallies []*block.Finally
	jump      int
}

func newBuilder(g *Graph, f *Func) *builder {
	b := &builder{
		g:        g,
		fn:       f,
		labels:   make(map[*bound.Label]*LabelTarget),
		sections: make(map[*bound.SwitchSection]target),
	}
	b.OnNew = b.register

	return b
}

func (b *builder) register(blk *block.Block) {
	if b.detached || len(b.regions) == 0 {
		return
	}

	r := b.regions[len(b.regions)-1]
	r.blocks = append(r.blocks, blk)
}

// newDetached creates a block outside any protected region.
func (b *builder) newDetached(pos token.Pos) *block.Block {
	b.detached = true
	defer func() { b.detached = false }()

	return b.New(pos)
}

func (b *builder) pushRegion() *region {
	r := &region{}
	b.regions = append(b.regions, r)

	return r
}

// popRegion ends the innermost protected region, its blocks also belong to the enclosing one.
func (b *builder) popRegion() {
	n := len(b.regions) - 1
	if n > 0 {
		b.regions[n-1].blocks = append(b.regions[n-1].blocks, b.regions[n].blocks...)
	}

	b.regions = b.regions[:n]
}

func (b *builder) lowerBody(params []*bound.Parameter, body *bound.Block, pos, end token.Pos) {
	f := b.fn
	f.Entry = b.New(pos)
	f.Exit = b.New(end)

	for _, p := range params {
		s := b.g.declareParam(f, p)
		if p.RefKind == bound.ByOut {
			f.Outs = append(f.Outs, Out{Slot: s, Param: p})
		} else {
			f.Assigned = append(f.Assigned, s)
		}
	}

	current := f.Entry
	if body != nil {
		current = b.appendStmt(current, body, nil)
	}

	closing := end
	if end.IsValid() && end > pos {
		closing = end - 1
	}

	b.exit(current, nil, closing, end)
	b.resolveGotos()

	f.Blocks = b.All()
}

// exit links current to the function exit through an exit check and all active finally handlers.
func (b *builder) exit(current *block.Block, stmt bound.Stmt, pos, end token.Pos) {
	check := b.newDetached(pos)

	op := block.Op{Kind: block.ExitCheck, Pos: pos, End: end}
	if stmt != nil {
		op.Node = stmt
	}

	check.Add(op)
	current.LinkVia(block.Exit, check, b.leaving(0))
	check.Link(b.fn.Exit)
}

// leaving returns the finally handlers passed when jumping to a target at finally depth, innermost first.
func (b *builder) leaving(depth int) []*block.Finally {
	return leaving(b.finallies, depth)
}

func leaving(finallies []*block.Finally, depth int) []*block.Finally {
	if depth >= len(finallies) {
		return nil
	}

	via := slices.Clone(finallies[depth:])
	slices.Reverse(via)

	return via
}

func point(b *block.Block) Point {
	return Point{Block: b, Index: len(b.Ops)}
}

func (b *builder) problem(kind ProblemKind, node bound.Node, name string, check *block.Block) {
	b.g.Problems = append(b.g.Problems, Problem{Kind: kind, Func: b.fn.Index, Node: node, Name: name, Check: check})
}

func (b *builder) jump(stmt bound.Stmt, from *block.Block, to bound.Stmt) int {
	b.g.Jumps = append(b.g.Jumps, Jump{Func: b.fn.Index, Stmt: stmt, From: from, Target: to})

	return len(b.g.Jumps) - 1
}

// appendStmtList processes a list of statements sequentially.
func (b *builder) appendStmtList(current *block.Block, list []bound.Stmt) *block.Block {
	for _, stmt := range list {
		current = b.appendStmt(current, stmt, nil)
	}

	return current
}

// appendStmt processes a single statement and records its extent.
func (b *builder) appendStmt(current *block.Block, stmt bound.Stmt, labeled *LabelTarget) *block.Block {
	start := point(current)
	next := b.lowerStmt(current, stmt, labeled)

	if l, ok := stmt.(*bound.Labeled); ok {
		start = Point{Block: b.labelTarget(l.Label).Body()}
	}

	b.g.Extents[stmt] = Extent{Func: b.fn.Index, Start: start, End: point(next)}

	return next
}

func (b *builder) lowerStmt(current *block.Block, stmt bound.Stmt, labeled *LabelTarget) *block.Block {
	switch s := stmt.(type) {
	case *bound.Block:
		return b.appendStmtList(current, s.Stmts)

	case *bound.ExprStmt:
		return b.appendExpr(current, s.X)

	case *bound.LocalDecl:
		return b.appendLocalDecl(current, s)

	case *bound.LocalFunc:
		b.g.buildFunction(s.Func, b.fn.Index)

		return current

	case *bound.If:
		return b.appendIf(current, s)

	case *bound.While:
		return b.appendWhile(current, s, labeled)

	case *bound.Do:
		return b.appendDo(current, s, labeled)

	case *bound.For:
		return b.appendFor(current, s, labeled)

	case *bound.ForEach:
		return b.appendForEach(current, s, labeled)

	case *bound.Switch:
		return b.appendSwitch(current, s, labeled)

	case *bound.Break:
		return b.appendBranch(current, s, token.BREAK, s.Label)

	case *bound.Continue:
		return b.appendBranch(current, s, token.CONTINUE, s.Label)

	case *bound.Goto:
		return b.appendGoto(current, s)

	case *bound.GotoCase:
		return b.appendGotoCase(current, s)

	case *bound.Labeled:
		return b.appendLabeled(current, s)

	case *bound.Return:
		if s.Value != nil {
			current = b.appendExpr(current, s.Value)
		}

		b.jump(s, current, nil)
		b.exit(current, s, s.Pos(), s.End())

		return b.New(s.End())

	case *bound.YieldBreak:
		b.jump(s, current, nil)
		b.exit(current, s, s.Pos(), s.End())

		return b.New(s.End())

	case *bound.YieldReturn:
		if s.Value != nil {
			current = b.appendExpr(current, s.Value)
		}

		return current

	case *bound.Throw:
		if s.Value != nil {
			current = b.appendExpr(current, s.Value)
		}

		return b.New(s.End())

	case *bound.Try:
		return b.appendTry(current, s)

	case *bound.Using:
		return b.appendUsing(current, s)

	case *bound.Empty:
		return current

	case *bound.BadStmt:
		for _, e := range s.Exprs {
			current = b.appendExpr(current, e)
		}

		return current

	default:
		panic(fmt.Sprintf("unexpected statement type %T", s))
	}
}

func (b *builder) appendLocalDecl(current *block.Block, s *bound.LocalDecl) *block.Block {
	l := s.Local
	sl := b.g.declareLocal(b.fn, l, s.Implicit)

	current.Add(block.Op{Kind: block.Declare, Slot: sl, Var: l, Pos: l.Pos, End: nameEnd(l), Node: s})

	if s.Init == nil {
		return current
	}

	lv := lvalue{slot: sl, sym: l, pos: l.Pos, end: nameEnd(l), variable: true}

	return b.assign(current, lv, s.Init, s)
}

func (b *builder) appendIf(current *block.Block, s *bound.If) *block.Block {
	after := b.New(s.End())
	then, els := b.New(s.Then.Pos()), after

	if s.Else != nil {
		els = b.New(s.Else.Pos())
	}

	b.lowerCond(current, s.Cond, then, els)

	b.appendStmt(then, s.Then, nil).Link(after)

	if s.Else != nil {
		b.appendStmt(els, s.Else, nil).Link(after)
	}

	return after
}

func (b *builder) appendWhile(current *block.Block, s *bound.While, labeled *LabelTarget) *block.Block {
	head := b.New(s.Cond.Pos())
	current.Link(head)

	body, after := b.New(s.Body.Pos()), b.New(s.End())
	b.lowerCond(head, s.Cond, body, after)

	b.appendLoopBody(body, s, s.Body, labeled, after, head).Link(head)

	return after
}

func (b *builder) appendDo(current *block.Block, s *bound.Do, labeled *LabelTarget) *block.Block {
	body, cond, after := b.New(s.Body.Pos()), b.New(s.Cond.Pos()), b.New(s.End())
	current.Link(body)

	b.appendLoopBody(body, s, s.Body, labeled, after, cond).Link(cond)
	b.lowerCond(cond, s.Cond, body, after)

	return after
}

func (b *builder) appendFor(current *block.Block, s *bound.For, labeled *LabelTarget) *block.Block {
	current = b.appendStmtList(current, s.Init)

	head := b.New(s.Pos())
	current.Link(head)

	body, after := b.New(s.Body.Pos()), b.New(s.End())

	cont := head
	if len(s.Post) > 0 {
		cont = b.New(s.Post[0].Pos())
	}

	if s.Cond == nil {
		head.Link(body)
	} else {
		b.lowerCond(head, s.Cond, body, after)
	}

	b.appendLoopBody(body, s, s.Body, labeled, after, cont).Link(cont)

	if len(s.Post) > 0 {
		b.appendStmtList(cont, s.Post).Link(head)
	}

	return after
}

func (b *builder) appendForEach(current *block.Block, s *bound.ForEach, labeled *LabelTarget) *block.Block {
	current = b.appendExpr(current, s.Collection)

	head := b.New(s.Pos())
	current.Link(head)

	body, after := b.New(s.Body.Pos()), b.New(s.End())
	head.LinkBranch(body, after, nil, nil)

	next := body
	for _, l := range s.Locals {
		sl := b.g.declareLocal(b.fn, l, false)
		next.Add(block.Op{Kind: block.Declare, Slot: sl, Var: l, Pos: l.Pos, End: nameEnd(l), Node: s})
		next.Add(block.Op{Kind: block.Write, Slot: sl, Var: l, Pos: l.Pos, End: nameEnd(l), Node: s})
	}

	for _, t := range s.Targets {
		var lv lvalue
		next, lv = b.lvalue(next, t)
		b.write(next, lv, nil, s, false)
	}

	b.appendLoopBody(next, s, s.Body, labeled, after, head).Link(head)

	return after
}

// appendLoopBody processes a loop body with the given break and continue targets.
func (b *builder) appendLoopBody(current *block.Block, loop, body bound.Stmt, labeled *LabelTarget, brk, cont *block.Block) *block.Block {
	depth := len(b.finallies)
	bt, ct := target{block: brk, depth: depth, stmt: loop}, target{block: cont, depth: depth, stmt: loop}

	if labeled != nil {
		labeled.SetBreak(bt)
		labeled.SetContinue(ct)
	}

	oldBreak := b.targetScopes.pushBreak(bt)
	defer b.targetScopes.popBreak(oldBreak)

	oldContinue := b.targetScopes.pushContinue(ct)
	defer b.targetScopes.popContinue(oldContinue)

	return b.appendStmt(current, body, nil)
}

// appendSwitch builds a chain of label tests, each branching to its section body.
func (b *builder) appendSwitch(current *block.Block, s *bound.Switch, labeled *LabelTarget) *block.Block {
	if s.Expr != nil {
		current = b.appendExpr(current, s.Expr)
	}

	after := b.New(s.End())
	depth := len(b.finallies)

	bt := target{block: after, depth: depth, stmt: s}
	if labeled != nil {
		labeled.SetBreak(bt)
	}

	oldBreak := b.targetScopes.pushBreak(bt)
	defer b.targetScopes.popBreak(oldBreak)

	bodies := make([]*block.Block, len(s.Sections))
	for i, sec := range s.Sections {
		bodies[i] = b.New(sec.Pos())
		b.sections[sec] = target{block: bodies[i], depth: depth, stmt: s}
	}

	test := current

	var deflt *block.Block
	for i, sec := range s.Sections {
		for _, l := range sec.Labels {
			if l.Default {
				deflt = bodies[i]

				continue
			}

			next, match := b.New(l.End()), bodies[i]
			if l.Guard != nil {
				match = b.New(l.Guard.Pos())
			}

			b.lowerLabel(test, s, l, match, next)

			if l.Guard != nil {
				b.lowerCond(match, l.Guard, bodies[i], next)
			}

			test = next
		}
	}

	switch {
	case deflt != nil:
		test.Link(deflt)

	case !s.Exhaustive:
		test.Link(after)
	}

	for i, sec := range s.Sections {
		end := b.appendStmtList(bodies[i], sec.Body)

		if s.ImplicitBreak {
			end.Link(after)

			continue
		}

		var node bound.Node = sec
		if n := len(sec.Labels); n > 0 {
			node = sec.Labels[n-1]
		}

		b.problem(SectionFallthrough, node, "", end)
	}

	return after
}

func (b *builder) lowerLabel(test *block.Block, s *bound.Switch, l *bound.CaseLabel, match, next *block.Block) {
	switch {
	case l.Pattern != nil:
		b.lowerPattern(test, l.Pattern, match, next)

	case l.Value != nil && s.Expr == nil:
		b.lowerCond(test, l.Value, match, next)

	case l.Value != nil:
		b.appendExpr(test, l.Value).LinkClause(match, next)

	default:
		test.LinkClause(match, next)
	}
}

func (b *builder) appendBranch(current *block.Block, stmt bound.Stmt, tok token.Token, label *bound.Label) *block.Block {
	var t target

	if label != nil {
		if lt := b.labelTarget(label); lt.defined {
			lt.referenced = true
			t = lt.BranchTarget(tok)
		}
	} else {
		t = b.targetScopes.branchTarget(tok)
	}

	if !t.valid() {
		b.problem(InvalidBranch, stmt, "", nil)

		return b.New(stmt.End())
	}

	b.jump(stmt, current, t.stmt)
	current.LinkVia(block.Jump, t.block, b.leaving(t.depth))

	return b.New(stmt.End())
}

func (b *builder) appendGoto(current *block.Block, s *bound.Goto) *block.Block {
	lt := b.labelTarget(s.Label)
	lt.referenced = true

	j := b.jump(s, current, nil)

	if lt.defined {
		current.LinkVia(block.Jump, lt.Body(), b.leaving(lt.statement.depth))
		b.g.Jumps[j].Target = lt.statement.stmt
	} else {
		b.gotos = append(b.gotos, pendingGoto{from: current, stmt: s, finallies: slices.Clone(b.finallies), jump: j})
	}

	return b.New(s.End())
}

func (b *builder) appendGotoCase(current *block.Block, s *bound.GotoCase) *block.Block {
	t, ok := b.sections[s.Section]
	if !ok {
		b.problem(InvalidGotoCase, s, "", nil)

		return b.New(s.End())
	}

	b.jump(s, current, t.stmt)
	current.LinkVia(block.Jump, t.block, b.leaving(t.depth))

	return b.New(s.End())
}

func (b *builder) appendLabeled(current *block.Block, s *bound.Labeled) *block.Block {
	lt := b.labelTarget(s.Label)
	if !lt.defined {
		lt.define(s, len(b.finallies))
		b.register(lt.Body())
	}

	body := lt.Body()
	current.Link(body)

	return b.appendStmt(body, s.Stmt, lt)
}

// labelTarget returns the target for label, creating it on first use.
func (b *builder) labelTarget(label *bound.Label) *LabelTarget {
	if lt, ok := b.labels[label]; ok {
		return lt
	}

	lt := NewLabelTarget(b.newDetached(label.Pos))
	b.labels[label] = lt
	b.labelOrder = append(b.labelOrder, label)

	return lt
}

// resolveGotos links forward gotos and reports label problems.
func (b *builder) resolveGotos() {
	for _, p := range b.gotos {
		lt := b.labels[p.stmt.Label]
		if !lt.defined {
			b.problem(UndefinedLabel, p.stmt, p.stmt.Label.Name, nil)

			continue
		}

		p.from.LinkVia(block.Jump, lt.Body(), leaving(p.finallies, lt.statement.depth))
		b.g.Jumps[p.jump].Target = lt.statement.stmt
	}

	for _, label := range b.labelOrder {
		if lt := b.labels[label]; lt.defined && !lt.referenced {
			b.problem(UnreferencedLabel, lt.statement.stmt, label.Name, nil)
		}
	}
}

// appendTry lowers try/catch/finally. Blocks of the try body get exceptional edges to every
// catch, and blocks of try and catches get exceptional edges to the finally handler.
func (b *builder) appendTry(current *block.Block, s *bound.Try) *block.Block {
	after := b.New(s.End())

	var (
		fin   *block.Finally
		outer *region
		via   []*block.Finally
	)

	if s.Finally != nil {
		fin = &block.Finally{}
		via = []*block.Finally{fin}
		b.finallies = append(b.finallies, fin)
		outer = b.pushRegion()
	}

	var tryBlocks []*block.Block

	inner := b.pushRegion()
	start := b.New(s.Body.Pos())
	current.Link(start)
	b.appendStmt(start, s.Body, nil).LinkVia(block.Normal, after, via)
	b.popRegion()

	if len(s.Catches) > 0 {
		tryBlocks = inner.blocks
	}

	for _, c := range s.Catches {
		entry := b.New(c.Pos())
		for _, blk := range tryBlocks {
			blk.LinkKind(block.Exceptional, entry)
		}

		next := entry
		if l := c.Local; l != nil {
			sl := b.g.declareLocal(b.fn, l, false)
			next.Add(block.Op{Kind: block.Declare, Slot: sl, Var: l, Pos: l.Pos, End: nameEnd(l), Node: c})
			next.Add(block.Op{Kind: block.Write, Slot: sl, Var: l, Pos: l.Pos, End: nameEnd(l), Node: c})
		}

		if c.Filter != nil {
			body := b.New(c.Body.Pos())
			b.lowerCond(next, c.Filter, body, nil)
			next = body
		}

		b.appendStmt(next, c.Body, nil).LinkVia(block.Normal, after, via)
	}

	if fin == nil {
		return after
	}

	b.finallies = b.finallies[:len(b.finallies)-1]
	b.popRegion()

	fin.Entry = b.New(s.Finally.Pos())
	for _, blk := range outer.blocks {
		blk.LinkKind(block.Exceptional, fin.Entry)
	}

	fin.End = b.appendStmt(fin.Entry, s.Finally, nil)

	return after
}

// appendUsing lowers a using statement like a try with an empty finally handler.
func (b *builder) appendUsing(current *block.Block, s *bound.Using) *block.Block {
	switch {
	case s.Decl != nil:
		current = b.appendStmt(current, s.Decl, nil)

	case s.Resource != nil:
		current = b.appendExpr(current, s.Resource)
	}

	after := b.New(s.End())

	fin := &block.Finally{}
	b.finallies = append(b.finallies, fin)
	r := b.pushRegion()

	start := b.New(s.Body.Pos())
	current.Link(start)
	end := b.appendStmt(start, s.Body, nil)

	b.popRegion()
	b.finallies = b.finallies[:len(b.finallies)-1]

	fin.Entry = b.New(s.Body.End())
	fin.End = fin.Entry

	for _, blk := range r.blocks {
		blk.LinkKind(block.Exceptional, fin.Entry)
	}

	end.LinkVia(block.Normal, after, []*block.Finally{fin})

	return after
}

func nameEnd(sym bound.Symbol) token.Pos {
	pos := sym.DeclPos()
	if !pos.IsValid() {
		return token.NoPos
	}

	return pos + token.Pos(len(sym.SymbolName()))
}
