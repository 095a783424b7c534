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

func (fl *funcLowerer) exprType(e ast.Expr) *bound.Type {
	t := fl.info.TypeOf(e)
	if t == nil {
		return untrackedType
	}

	return fl.types.typ(t)
}

// values lowers a list of expressions, dropping type expressions.
func (fl *funcLowerer) values(list ...ast.Expr) []bound.Expr {
	values := make([]bound.Expr, 0, len(list))

	for _, e := range list {
		if x := fl.value(e); x != nil {
			values = append(values, x)
		}
	}

	return values
}

// value lowers an expression evaluated for its value. Type expressions yield nil.
func (fl *funcLowerer) value(e ast.Expr) bound.Expr {
	if e == nil {
		return nil
	}

	tv := fl.info.Types[e]

	switch {
	case tv.IsType():
		return nil

	case tv.Value != nil:
		return &bound.Literal{Span: span(e), Typed: bound.Typed{T: fl.types.typ(tv.Type)}, Value: tv.Value}

	case tv.IsNil():
		return &bound.Literal{Span: span(e), Typed: bound.Typed{T: nilType}}
	}

	switch e := e.(type) {
	case *ast.ParenExpr:
		return fl.value(e.X)

	case *ast.Ident:
		return fl.ident(e, e)

	case *ast.SelectorExpr:
		return fl.selector(e)

	case *ast.CallExpr:
		return fl.call(e)

	case *ast.UnaryExpr:
		return fl.unary(e)

	case *ast.BinaryExpr:
		return &bound.Binary{Span: span(e), Typed: bound.Typed{T: fl.exprType(e)}, Op: e.Op, X: fl.value(e.X), Y: fl.value(e.Y)}

	case *ast.StarExpr:
		return fl.operation(e, true, e.X)

	case *ast.IndexExpr:
		return fl.operation(e, true, e.X, e.Index)

	case *ast.IndexListExpr: // generic function instantiation
		return fl.value(e.X)

	case *ast.SliceExpr:
		return fl.operation(e, false, e.X, e.Low, e.High, e.Max)

	case *ast.TypeAssertExpr:
		return &bound.Conversion{Span: span(e), Typed: bound.Typed{T: fl.exprType(e)}, X: fl.value(e.X)}

	case *ast.CompositeLit:
		return fl.composite(e)

	case *ast.FuncLit:
		fn := &bound.Function{Span: span(e), Kind: bound.LambdaFunction}
		fn.Params = append(fl.paramList(e.Type.Params), fl.paramList(e.Type.Results)...)
		fn.Body = fl.body(e.Body)

		return &bound.Lambda{Span: span(e), Typed: bound.Typed{T: fl.exprType(e)}, Func: fn}

	case *ast.KeyValueExpr:
		return fl.operation(e, false, e.Key, e.Value)

	default: // *ast.BadExpr
		return &bound.BadExpr{Span: span(e)}
	}
}

func (fl *funcLowerer) operation(e ast.Expr, variable bool, operands ...ast.Expr) *bound.Operation {
	return &bound.Operation{
		Span:     span(e),
		Typed:    bound.Typed{T: fl.exprType(e)},
		Operands: fl.values(operands...),
		Variable: variable,
	}
}

// ident lowers a reference to a named entity.
// Package level variables and other objects are opaque.
func (fl *funcLowerer) ident(id *ast.Ident, n ast.Expr) bound.Expr {
	obj := fl.info.ObjectOf(id)

	if v, ok := obj.(*types.Var); ok {
		if p, ok := fl.params[v]; ok {
			return &bound.ParamRef{Span: span(n), Param: p}
		}

		if l, ok := fl.locals[v]; ok {
			return &bound.LocalRef{Span: span(n), Local: l}
		}

		if fn, ok := fl.funcs[v]; ok {
			return &bound.FuncRef{Span: span(n), Typed: bound.Typed{T: fl.types.typ(v.Type())}, Func: fn}
		}

		return &bound.Operation{Span: span(n), Typed: bound.Typed{T: fl.types.typ(v.Type())}, Variable: true}
	}

	return &bound.Operation{Span: span(n), Typed: bound.Typed{T: fl.exprType(n)}}
}

func (fl *funcLowerer) selector(e *ast.SelectorExpr) bound.Expr {
	sel, ok := fl.info.Selections[e]
	if !ok { // qualified identifier
		return fl.ident(e.Sel, e)
	}

	switch sel.Kind() {
	case types.FieldVal:
		return fl.fieldPath(e, fl.value(e.X), sel)

	case types.MethodVal:
		return fl.operation(e, false, e.X)

	default: // types.MethodExpr
		return fl.operation(e, false)
	}
}

// fieldPath selects a field through its embedding path. Fields not accessible
// from the package, and fields behind pointers, are not tracked through.
func (fl *funcLowerer) fieldPath(e *ast.SelectorExpr, x bound.Expr, sel *types.Selection) bound.Expr {
	t := sel.Recv()

	for _, idx := range sel.Index() {
		if p, ok := t.Underlying().(*types.Pointer); ok {
			t = p.Elem()
		}

		st, ok := t.Underlying().(*types.Struct)
		if !ok || idx >= st.NumFields() {
			return &bound.Operation{Span: span(e), Typed: bound.Typed{T: fl.exprType(e)}, Operands: []bound.Expr{x}, Variable: true}
		}

		f := st.Field(idx)
		if fl.types.accessible(f) {
			x = &bound.FieldAccess{Span: span(e), Receiver: x, Field: fl.types.field(f)}
		} else {
			x = &bound.Operation{Span: span(e), Typed: bound.Typed{T: fl.types.typ(f.Type())}, Operands: []bound.Expr{x}, Variable: true}
		}

		t = f.Type()
	}

	return x
}

func (fl *funcLowerer) unary(e *ast.UnaryExpr) bound.Expr {
	t := bound.Typed{T: fl.exprType(e)}

	switch e.Op {
	case token.AND:
		if _, ok := ast.Unparen(e.X).(*ast.CompositeLit); ok {
			return &bound.Conversion{Span: span(e), Typed: t, X: fl.value(e.X)}
		}

		return &bound.AddressOf{Span: span(e), Typed: t, X: fl.value(e.X)}

	case token.ARROW:
		return fl.operation(e, false, e.X)

	default:
		return &bound.Unary{Span: span(e), Typed: t, Op: e.Op, X: fl.value(e.X)}
	}
}

// call lowers a call expression.
//
// Calls of local functions, functions and methods are direct calls. A method with pointer
// receiver called on a struct variable, and an argument &x of a variable x, assign the variable.
func (fl *funcLowerer) call(e *ast.CallExpr) bound.Expr {
	if fl.info.Types[e.Fun].IsType() {
		c := &bound.Conversion{Span: span(e), Typed: bound.Typed{T: fl.exprType(e)}}
		if len(e.Args) == 1 {
			c.X = fl.value(e.Args[0])
		} else {
			c.X = &bound.BadExpr{Span: span(e), Exprs: fl.values(e.Args...)}
		}

		return c
	}

	t := bound.Typed{T: fl.exprType(e)}
	args := fl.args(e.Args)

	switch fun := ast.Unparen(e.Fun).(type) {
	case *ast.Ident:
		switch obj := fl.info.Uses[fun].(type) {
		case *types.Var:
			if fn, ok := fl.funcs[obj]; ok {
				return &bound.Call{Span: span(e), Typed: t, Name: fun.Name, Func: fn, Args: args}
			}

		case *types.Func, *types.Builtin:
			return &bound.Call{Span: span(e), Typed: t, Name: fun.Name, Args: args}
		}

	case *ast.SelectorExpr:
		sel, ok := fl.info.Selections[fun]
		if !ok {
			if _, ok := fl.info.Uses[fun.Sel].(*types.Func); ok {
				return &bound.Call{Span: span(e), Typed: t, Name: fun.Sel.Name, Args: args}
			}

			break
		}

		if sel.Kind() != types.MethodVal {
			break
		}

		c := &bound.Call{Span: span(e), Typed: t, Name: fun.Sel.Name, Receiver: fl.value(fun.X), Args: args}
		if m, ok := sel.Obj().(*types.Func); ok && pointerReceiver(m) && !sel.Indirect() &&
			len(sel.Index()) == 1 && isPath(c.Receiver) && c.Receiver.Type().IsStruct() {
			c.ReceiverRef = bound.ByOut
		}

		return c

	case *ast.FuncLit:
		return &bound.Invoke{Span: span(e), Typed: t, Target: fl.value(fun), Args: args}

	case *ast.IndexExpr: // generic function instantiation
		if name, ok := genericName(fl.info, fun.X); ok {
			return &bound.Call{Span: span(e), Typed: t, Name: name, Args: args}
		}

	case *ast.IndexListExpr:
		if name, ok := genericName(fl.info, fun.X); ok {
			return &bound.Call{Span: span(e), Typed: t, Name: name, Args: args}
		}
	}

	return &bound.Invoke{Span: span(e), Typed: t, Target: fl.value(e.Fun), Args: args}
}

func (fl *funcLowerer) args(list []ast.Expr) []bound.Arg {
	args := make([]bound.Arg, 0, len(list))

	for _, a := range list {
		if u, ok := ast.Unparen(a).(*ast.UnaryExpr); ok && u.Op == token.AND {
			if x := fl.value(u.X); isPath(x) {
				args = append(args, bound.Arg{X: x, RefKind: bound.ByOut})

				continue
			}
		}

		if x := fl.value(a); x != nil {
			args = append(args, bound.Arg{X: x})
		}
	}

	return args
}

// composite lowers a composite literal. Struct literals construct the whole value,
// an empty literal is a trivial construction.
func (fl *funcLowerer) composite(e *ast.CompositeLit) bound.Expr {
	t := fl.info.TypeOf(e)
	typed := bound.Typed{T: fl.exprType(e)}

	if t == nil {
		return &bound.Operation{Span: span(e), Typed: typed, Operands: fl.values(e.Elts...)}
	}

	if p, ok := t.Underlying().(*types.Pointer); ok {
		t = p.Elem()
	}

	st, ok := t.Underlying().(*types.Struct)
	if !ok {
		return &bound.Operation{Span: span(e), Typed: typed, Operands: fl.values(e.Elts...)}
	}

	n := &bound.New{Span: span(e), Typed: typed, Trivial: len(e.Elts) == 0}

	for i, elt := range e.Elts {
		var f *types.Var

		value := elt
		if kv, ok := elt.(*ast.KeyValueExpr); ok {
			value = kv.Value
			if id, ok := kv.Key.(*ast.Ident); ok {
				f, _ = fl.info.Uses[id].(*types.Var)
			}
		} else if i < st.NumFields() {
			f = st.Field(i)
		}

		v := fl.value(value)
		if f == nil || v == nil {
			continue
		}

		n.Inits = append(n.Inits, bound.FieldInit{Field: fl.types.field(f), Value: v})
	}

	return n
}

// genericName returns the name of a generic function referenced by e.
func genericName(info *types.Info, e ast.Expr) (string, bool) {
	var id *ast.Ident

	switch e := ast.Unparen(e).(type) {
	case *ast.Ident:
		id = e

	case *ast.SelectorExpr:
		id = e.Sel

	default:
		return "", false
	}

	if _, ok := info.Uses[id].(*types.Func); !ok {
		return "", false
	}

	return id.Name, true
}

func pointerReceiver(m *types.Func) bool {
	sig, ok := m.Type().(*types.Signature)
	if !ok || sig.Recv() == nil {
		return false
	}

	_, ok = sig.Recv().Type().Underlying().(*types.Pointer)

	return ok
}

// isPath reports whether x denotes a variable or a field path of a struct variable.
func isPath(x bound.Expr) bool {
	switch x := x.(type) {
	case *bound.LocalRef, *bound.ParamRef:
		return true

	case *bound.FieldAccess:
		return x.Receiver != nil && x.Receiver.Type().IsStruct() && isPath(x.Receiver)

	default:
		return false
	}
}
