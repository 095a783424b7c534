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

package bound

import (
	"fmt"
	"go/token"
)

// Inspect traverses the tree rooted at n in depth-first order, calling f for each node.
// If f returns false, the children of the node are skipped.
// Nested function bodies are traversed, including their [*Function] node.
func Inspect(n Node, f func(Node) bool) {
	if n == nil || !f(n) {
		return
	}

	for _, c := range children(n) {
		Inspect(c, f)
	}
}

// children returns the direct child nodes in source order.
//
//nolint:cyclop,gocyclo,funlen
func children(n Node) []Node {
	var c nodeList

	switch n := n.(type) {
	// keep-sorted start newline_separated=yes
	case *AddressOf:
		c.expr(n.X)

	case *Assign:
		c.expr(n.Left)
		c.expr(n.Right)

	case *BadExpr:
		c.exprs(n.Exprs)

	case *BadStmt:
		c.exprs(n.Exprs)

	case *Binary:
		c.expr(n.X)
		c.expr(n.Y)

	case *Block:
		c.stmts(n.Stmts)

	case *Break, *Continue, *Default, *DiscardPattern, *Empty, *Goto, *GotoCase,
		*Literal, *LocalRef, *ParamRef, *YieldBreak, *DeclPattern:

	case *Call:
		c.expr(n.Receiver)
		c.args(n.Args)

	case *CaseLabel:
		c.expr(n.Value)
		c.pattern(n.Pattern)
		c.expr(n.Guard)

	case *Catch:
		c.expr(n.Filter)
		c.stmt(n.Body)

	case *CompoundAssign:
		c.expr(n.Left)
		c.expr(n.Right)

	case *ConstPattern:
		c.expr(n.Value)

	case *Conditional:
		c.expr(n.Cond)
		c.expr(n.Then)
		c.expr(n.Else)

	case *Conversion:
		c.expr(n.X)

	case *Do:
		c.stmt(n.Body)
		c.expr(n.Cond)

	case *ExprStmt:
		c.expr(n.X)

	case *FieldAccess:
		c.expr(n.Receiver)

	case *For:
		c.stmts(n.Init)
		c.expr(n.Cond)
		c.stmts(n.Post)
		c.stmt(n.Body)

	case *ForEach:
		c.exprs(n.Targets)
		c.expr(n.Collection)
		c.stmt(n.Body)

	case *FuncRef:

	case *Function:
		if n.Body != nil {
			c = append(c, n.Body)
		}

	case *If:
		c.expr(n.Cond)
		c.stmt(n.Then)
		c.stmt(n.Else)

	case *IncDec:
		c.expr(n.X)

	case *Invoke:
		c.expr(n.Target)
		c.args(n.Args)

	case *IsPattern:
		c.expr(n.X)
		c.pattern(n.Pattern)

	case *Labeled:
		c.stmt(n.Stmt)

	case *Lambda:
		c = append(c, n.Func)

	case *LocalDecl:
		c.expr(n.Init)

	case *LocalFunc:
		c = append(c, n.Func)

	case *Method:
		if n.Body != nil {
			c = append(c, n.Body)
		}

	case *New:
		c.args(n.Args)
		for _, init := range n.Inits {
			c.expr(init.Value)
		}

	case *NotPattern:
		c.pattern(n.Pattern)

	case *Operation:
		c.exprs(n.Operands)

	case *Property:
		c.expr(n.Receiver)

	case *Return:
		c.expr(n.Value)

	case *Switch:
		c.expr(n.Expr)
		for _, s := range n.Sections {
			c = append(c, s)
		}

	case *SwitchSection:
		for _, l := range n.Labels {
			c = append(c, l)
		}
		c.stmts(n.Body)

	case *Throw:
		c.expr(n.Value)

	case *Try:
		c.stmt(n.Body)
		for _, h := range n.Catches {
			c = append(c, h)
		}
		if n.Finally != nil {
			c = append(c, n.Finally)
		}

	case *Tuple:
		c.exprs(n.Elems)

	case *Unary:
		c.expr(n.X)

	case *Using:
		if n.Decl != nil {
			c = append(c, n.Decl)
		}
		c.expr(n.Resource)
		c.stmt(n.Body)

	case *While:
		c.expr(n.Cond)
		c.stmt(n.Body)

	case *YieldReturn:
		c.expr(n.Value)

	default:
		panic(fmt.Errorf("unexpected bound node type: %T", n))
		// keep-sorted end
	}

	return c
}

type nodeList []Node

func (c *nodeList) expr(e Expr) {
	if e != nil {
		*c = append(*c, e)
	}
}

func (c *nodeList) exprs(es []Expr) {
	for _, e := range es {
		c.expr(e)
	}
}

func (c *nodeList) args(as []Arg) {
	for _, a := range as {
		c.expr(a.X)
	}
}

func (c *nodeList) stmt(s Stmt) {
	if s != nil {
		*c = append(*c, s)
	}
}

func (c *nodeList) stmts(ss []Stmt) {
	for _, s := range ss {
		c.stmt(s)
	}
}

func (c *nodeList) pattern(p Pattern) {
	if p != nil {
		*c = append(*c, p)
	}
}

// Layout assigns consecutive positions starting at base to the nodes of m in preorder,
// so that every node range encloses the ranges of its children.
// Declared symbols receive the position of their declaring node.
// It is meant for synthesized trees and returns the first unused position.
func Layout(m *Method, base token.Pos) token.Pos {
	next := base

	var walk func(n Node)
	walk = func(n Node) {
		s, ok := n.(interface{ span() *Span })
		if !ok {
			panic(fmt.Errorf("node without span: %T", n))
		}

		sp := s.span()
		sp.From = next
		next++

		declare(n, sp.From)

		for _, c := range children(n) {
			walk(c)
		}

		sp.To = next
		next++
	}

	if m.This != nil {
		m.This.Pos = next
		next++
	}

	for _, p := range m.Params {
		p.Pos = next
		next++
	}

	walk(m)

	return next
}

func declare(n Node, pos token.Pos) {
	switch n := n.(type) {
	case *LocalDecl:
		n.Local.Pos = pos

	case *DeclPattern:
		if n.Local != nil {
			n.Local.Pos = pos
		}

	case *Catch:
		if n.Local != nil {
			n.Local.Pos = pos
		}

	case *ForEach:
		for _, l := range n.Locals {
			l.Pos = pos
		}

	case *Function:
		for _, p := range n.Params {
			p.Pos = pos
		}

	case *Labeled:
		n.Label.Pos = pos
	}
}
