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

	"fillmore-labs.com/definite/internal/bound"
	"fillmore-labs.com/definite/internal/flow/block"
	"fillmore-labs.com/definite/internal/slot"
)

// lvalue is the target of an assignment.
type lvalue struct {
	slot     slot.Slot
	sym      bound.Symbol // root variable, nil when the target is not a variable path
	pos, end token.Pos
	variable bool // assignable by ref or out
}

// path returns the slot of a variable, or of a struct field path rooted at a variable.
func (b *builder) path(e bound.Expr) (slot.Slot, bound.Symbol, bool) {
	switch e := e.(type) {
	case *bound.LocalRef:
		return b.g.Slots.Variable(e.Local), e.Local, true

	case *bound.ParamRef:
		return b.g.Slots.Variable(e.Param), e.Param, true

	case *bound.FieldAccess:
		if e.Receiver == nil || e.Field.Static || !e.Receiver.Type().IsStruct() {
			return slot.Opaque, nil, false
		}

		parent, root, ok := b.path(e.Receiver)
		if !ok {
			return slot.Opaque, nil, false
		}

		return b.g.Slots.Field(parent, e.Field), root, true

	default:
		return slot.Opaque, nil, false
	}
}

// lvalue evaluates the parts of an assignment target that are read before the assignment.
func (b *builder) lvalue(current *block.Block, e bound.Expr) (*block.Block, lvalue) {
	if s, sym, ok := b.path(e); ok {
		return current, lvalue{slot: s, sym: sym, pos: e.Pos(), end: e.End(), variable: true}
	}

	lv := lvalue{pos: e.Pos(), end: e.End()}

	switch e := e.(type) {
	case *bound.FieldAccess:
		if e.Receiver != nil {
			current = b.appendExpr(current, e.Receiver)
		}

		lv.variable = true

	case *bound.Property:
		if e.Receiver != nil {
			current = b.appendExpr(current, e.Receiver)
		}

	case *bound.Operation:
		current = b.appendExpr(current, e)
		lv.variable = e.Variable

	case *bound.BadExpr:
		current = b.appendExpr(current, e)
		lv.variable = true

	default:
		current = b.appendExpr(current, e)
	}

	return current, lv
}

func (b *builder) read(current *block.Block, lv lvalue, node bound.Node) {
	if lv.sym == nil {
		return
	}

	current.Add(block.Op{Kind: block.Read, Slot: lv.slot, Var: lv.sym, Pos: lv.pos, End: lv.end, Node: node})
}

func (b *builder) write(current *block.Block, lv lvalue, value bound.Expr, node bound.Node, ref bool) {
	if lv.sym == nil {
		return
	}

	current.Add(block.Op{
		Kind: block.Write, Slot: lv.slot, Var: lv.sym, Pos: lv.pos, End: lv.end,
		Node: node, Value: value, Ref: ref,
	})
}

// assign evaluates value and assigns it to lv, copying field state between struct variables.
func (b *builder) assign(current *block.Block, lv lvalue, value bound.Expr, node bound.Node) *block.Block {
	current = b.appendExpr(current, value)

	if lv.sym == nil {
		return current
	}

	if lv.slot.Valid() && b.g.Slots.Type(lv.slot).IsStruct() {
		if src, _, ok := b.path(value); ok && src.Valid() {
			current.Add(block.Op{
				Kind: block.Copy, Slot: lv.slot, Src: src, Var: lv.sym, Pos: lv.pos, End: lv.end,
				Node: node, Value: value,
			})
			b.g.copies = append(b.g.copies, [2]slot.Slot{lv.slot, src})

			return current
		}
	}

	b.write(current, lv, value, node, false)

	return current
}

// appendExpr lowers an expression evaluated for its value and records its extent.
func (b *builder) appendExpr(current *block.Block, e bound.Expr) *block.Block {
	start := point(current)
	next := b.lowerExpr(current, e)
	b.g.Extents[e] = Extent{Func: b.fn.Index, Start: start, End: point(next)}

	return next
}

func (b *builder) lowerExpr(current *block.Block, e bound.Expr) *block.Block {
	switch e := e.(type) {
	case *bound.Literal, *bound.Default:
		return current

	case *bound.LocalRef, *bound.ParamRef:
		s, sym, _ := b.path(e)
		current.Add(block.Op{Kind: block.Read, Slot: s, Var: sym, Pos: e.Pos(), End: e.End(), Node: e})

		return current

	case *bound.FieldAccess:
		if s, sym, ok := b.path(e); ok {
			current.Add(block.Op{Kind: block.Read, Slot: s, Var: sym, Pos: e.Pos(), End: e.End(), Node: e})

			return current
		}

		if e.Receiver != nil {
			current = b.appendExpr(current, e.Receiver)
		}

		return current

	case *bound.Property:
		if e.Receiver != nil {
			current = b.appendExpr(current, e.Receiver)
		}

		return current

	case *bound.Assign:
		var lv lvalue
		current, lv = b.lvalue(current, e.Left)

		return b.assign(current, lv, e.Right, e)

	case *bound.CompoundAssign:
		var lv lvalue
		current, lv = b.lvalue(current, e.Left)
		b.read(current, lv, e.Left)
		current = b.appendExpr(current, e.Right)
		b.write(current, lv, e, e, false)

		return current

	case *bound.IncDec:
		var lv lvalue
		current, lv = b.lvalue(current, e.X)
		b.read(current, lv, e.X)
		b.write(current, lv, e, e, false)

		return current

	case *bound.Binary:
		if e.Op == token.LAND || e.Op == token.LOR {
			return b.valueCond(current, e)
		}

		current = b.appendExpr(current, e.X)

		return b.appendExpr(current, e.Y)

	case *bound.Unary:
		return b.appendExpr(current, e.X)

	case *bound.AddressOf:
		if s, sym, ok := b.path(e.X); ok {
			current.Add(block.Op{Kind: block.Write, Slot: s, Var: sym, Pos: e.X.Pos(), End: e.X.End(), Node: e, Ref: true})

			return current
		}

		return b.appendExpr(current, e.X)

	case *bound.Conditional:
		then, els, after := b.New(e.Then.Pos()), b.New(e.Else.Pos()), b.New(e.End())
		b.lowerCond(current, e.Cond, then, els)
		b.appendExpr(then, e.Then).Link(after)
		b.appendExpr(els, e.Else).Link(after)

		return after

	case *bound.Call:
		return b.appendCall(current, e)

	case *bound.Invoke:
		var outs []lvalue
		current = b.appendExpr(current, e.Target)
		current, outs = b.appendArgs(current, e.Args)
		for _, lv := range outs {
			b.write(current, lv, nil, e, true)
		}

		return current

	case *bound.New:
		var outs []lvalue
		current, outs = b.appendArgs(current, e.Args)
		for _, lv := range outs {
			b.write(current, lv, nil, e, true)
		}

		for _, init := range e.Inits {
			current = b.appendExpr(current, init.Value)
		}

		return current

	case *bound.Tuple:
		for _, x := range e.Elems {
			current = b.appendExpr(current, x)
		}

		return current

	case *bound.Lambda:
		idx := b.g.buildFunction(e.Func, b.fn.Index)
		current.Add(block.Op{Kind: block.Convert, Func: idx, Pos: e.Pos(), End: e.End(), Node: e})

		return current

	case *bound.FuncRef:
		idx := b.g.funcOf(e.Func).Index
		current.Add(block.Op{Kind: block.Convert, Func: idx, Pos: e.Pos(), End: e.End(), Node: e})

		return current

	case *bound.IsPattern:
		return b.valueCond(current, e)

	case *bound.Conversion:
		return b.appendExpr(current, e.X)

	case *bound.Operation:
		for _, x := range e.Operands {
			current = b.appendExpr(current, x)
		}

		return current

	case *bound.BadExpr:
		for _, x := range e.Exprs {
			current = b.appendExpr(current, x)
		}

		return current

	default:
		panic(fmt.Sprintf("unexpected expression type %T", e))
	}
}

func (b *builder) appendCall(current *block.Block, e *bound.Call) *block.Block {
	var outs []lvalue

	if e.Receiver != nil {
		switch e.ReceiverRef {
		case bound.ByOut, bound.ByRef:
			var lv lvalue
			current, lv = b.lvalue(current, e.Receiver)

			if e.ReceiverRef == bound.ByRef {
				b.read(current, lv, e.Receiver)
			}

			outs = append(outs, lv)

		default:
			current = b.appendExpr(current, e.Receiver)
		}
	}

	var args []lvalue
	current, args = b.appendArgs(current, e.Args)
	outs = append(outs, args...)

	if e.Func != nil {
		idx := b.g.funcOf(e.Func).Index
		current.Add(block.Op{Kind: block.Call, Func: idx, Pos: e.Pos(), End: e.End(), Node: e})
	}

	for _, lv := range outs {
		b.write(current, lv, nil, e, true)
	}

	return current
}

// appendArgs evaluates arguments left to right, returning the ref and out targets
// that are assigned after the call.
func (b *builder) appendArgs(current *block.Block, args []bound.Arg) (*block.Block, []lvalue) {
	var outs []lvalue

	for _, a := range args {
		switch a.RefKind {
		case bound.ByRef, bound.ByOut:
			var lv lvalue
			current, lv = b.lvalue(current, a.X)

			if !lv.variable {
				b.problem(RefNonVariable, a.X, "", nil)

				continue
			}

			if a.RefKind == bound.ByRef {
				b.read(current, lv, a.X)
			}

			outs = append(outs, lv)

		default:
			current = b.appendExpr(current, a.X)
		}
	}

	return current, outs
}

// valueCond lowers a boolean expression with short-circuit evaluation into a value.
func (b *builder) valueCond(current *block.Block, e bound.Expr) *block.Block {
	t, f, after := b.New(e.Pos()), b.New(e.Pos()), b.New(e.End())
	b.lowerCond(current, e, t, f)
	t.Link(after)
	f.Link(after)

	return after
}

// lowerCond lowers a boolean condition, branching to t when it is true and to f when false.
// Constant conditions produce a single edge.
func (b *builder) lowerCond(current *block.Block, e bound.Expr, t, f *block.Block) {
	if v, ok := bound.ConstantBool(e); ok {
		if v {
			current.Link(t)
		} else {
			current.Link(f)
		}

		return
	}

	switch e := e.(type) {
	case *bound.Unary:
		if e.Op == token.NOT {
			b.lowerCond(current, e.X, f, t)

			return
		}

	case *bound.Binary:
		switch e.Op {
		case token.LAND:
			mid := b.New(e.Y.Pos())
			b.lowerCond(current, e.X, mid, f)
			b.lowerCond(mid, e.Y, t, f)

			return

		case token.LOR:
			mid := b.New(e.Y.Pos())
			b.lowerCond(current, e.X, t, mid)
			b.lowerCond(mid, e.Y, t, f)

			return
		}

	case *bound.Conditional:
		then, els := b.New(e.Then.Pos()), b.New(e.Else.Pos())
		b.lowerCond(current, e.Cond, then, els)
		b.lowerCond(then, e.Then, t, f)
		b.lowerCond(els, e.Else, t, f)

		return

	case *bound.IsPattern:
		current = b.appendExpr(current, e.X)
		b.lowerPattern(current, e.Pattern, t, f)

		return
	}

	b.appendExpr(current, e).LinkBranch(t, f, nil, nil)
}

type match uint8

const (
	matchMaybe match = iota
	matchAlways
	matchNever
)

// lowerPattern branches on a pattern test, declaring pattern variables on the matching edge.
func (b *builder) lowerPattern(current *block.Block, p bound.Pattern, t, f *block.Block) {
	current, onTrue, onFalse, m := b.patternOps(current, p)

	switch m {
	case matchAlways:
		current.LinkBranch(t, nil, onTrue, nil)

	case matchNever:
		current.LinkBranch(nil, f, nil, onFalse)

	default:
		current.LinkBranch(t, f, onTrue, onFalse)
	}
}

func (b *builder) patternOps(current *block.Block, p bound.Pattern) (*block.Block, []block.Op, []block.Op, match) {
	switch p := p.(type) {
	case *bound.DeclPattern:
		m := matchMaybe
		if p.Type == nil {
			m = matchAlways
		}

		l := p.Local
		if l == nil {
			return current, nil, nil, m
		}

		sl := b.g.declareLocal(b.fn, l, false)
		declare := block.Op{Kind: block.Declare, Slot: sl, Var: l, Pos: l.Pos, End: nameEnd(l), Node: p}
		write := block.Op{Kind: block.Write, Slot: sl, Var: l, Pos: l.Pos, End: nameEnd(l), Node: p}

		return current, []block.Op{declare, write}, []block.Op{declare}, m

	case *bound.ConstPattern:
		return b.appendExpr(current, p.Value), nil, nil, matchMaybe

	case *bound.DiscardPattern:
		return current, nil, nil, matchAlways

	case *bound.NotPattern:
		current, onTrue, onFalse, m := b.patternOps(current, p.Pattern)
		switch m {
		case matchAlways:
			m = matchNever

		case matchNever:
			m = matchAlways

		case matchMaybe:
		}

		return current, onFalse, onTrue, m

	default:
		panic(fmt.Sprintf("unexpected pattern type %T", p))
	}
}
