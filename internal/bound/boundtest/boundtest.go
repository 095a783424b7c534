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

// Package boundtest builds small bound trees for tests.
package boundtest

import (
	"go/constant"
	"go/token"

	"fillmore-labs.com/definite/internal/bound"
)

// Well-known types.
var (
	Int    = &bound.Type{Name: "int", Kind: bound.Scalar}
	Bool   = &bound.Type{Name: "bool", Kind: bound.Scalar}
	Object = &bound.Type{Name: "object", Kind: bound.Reference}
	Void   = &bound.Type{Name: "void", Kind: bound.Untracked}
)

// Struct creates a value type with the given fields.
func Struct(name string, fields ...*bound.Field) *bound.Type {
	return &bound.Type{Name: name, Kind: bound.Struct, Fields: fields}
}

// Class creates a reference type with the given fields.
func Class(name string, fields ...*bound.Field) *bound.Type {
	return &bound.Type{Name: name, Kind: bound.Reference, Fields: fields}
}

// NewField creates an instance field.
func NewField(name string, t *bound.Type) *bound.Field {
	return &bound.Field{Name: name, Type: t}
}

// Local creates a plain local variable.
func Local(name string, t *bound.Type) *bound.Local {
	return &bound.Local{Name: name, Type: t}
}

// Param creates a parameter.
func Param(name string, t *bound.Type, ref bound.RefKind) *bound.Parameter {
	return &bound.Parameter{Name: name, Type: t, RefKind: ref}
}

// This creates the receiver parameter.
func This(t *bound.Type) *bound.Parameter {
	return &bound.Parameter{Name: "this", Type: t, IsThis: true}
}

// Ref references a local or parameter.
func Ref(sym bound.Symbol) bound.Expr {
	switch sym := sym.(type) {
	case *bound.Local:
		return &bound.LocalRef{Local: sym}

	case *bound.Parameter:
		return &bound.ParamRef{Param: sym}

	default:
		panic("unexpected symbol")
	}
}

// Dot accesses field f of x.
func Dot(x bound.Expr, f *bound.Field) *bound.FieldAccess {
	return &bound.FieldAccess{Receiver: x, Field: f}
}

// Lit creates an integer literal.
func Lit(v int64) *bound.Literal {
	return &bound.Literal{Typed: bound.Typed{T: Int}, Value: constant.MakeInt64(v)}
}

// True and False are boolean literals.
func True() *bound.Literal { return BoolLit(true) }

// False is the boolean literal false.
func False() *bound.Literal { return BoolLit(false) }

// BoolLit creates a boolean literal.
func BoolLit(v bool) *bound.Literal {
	return &bound.Literal{Typed: bound.Typed{T: Bool}, Value: constant.MakeBool(v)}
}

// Null creates the null literal of reference type t.
func Null(t *bound.Type) *bound.Literal {
	return &bound.Literal{Typed: bound.Typed{T: t}}
}

// Cond creates an unknown boolean condition.
func Cond() *bound.Call {
	return &bound.Call{Typed: bound.Typed{T: Bool}, Name: "Cond"}
}

// Less compares two values.
func Less(x, y bound.Expr) *bound.Binary {
	return &bound.Binary{Typed: bound.Typed{T: Bool}, Op: token.LSS, X: x, Y: y}
}

// And is the conditional and.
func And(x, y bound.Expr) *bound.Binary {
	return &bound.Binary{Typed: bound.Typed{T: Bool}, Op: token.LAND, X: x, Y: y}
}

// Or is the conditional or.
func Or(x, y bound.Expr) *bound.Binary {
	return &bound.Binary{Typed: bound.Typed{T: Bool}, Op: token.LOR, X: x, Y: y}
}

// Not negates a condition.
func Not(x bound.Expr) *bound.Unary {
	return &bound.Unary{Typed: bound.Typed{T: Bool}, Op: token.NOT, X: x}
}

// Is tests x against a pattern.
func Is(x bound.Expr, p bound.Pattern) *bound.IsPattern {
	return &bound.IsPattern{Typed: bound.Typed{T: Bool}, X: x, Pattern: p}
}

// Assign assigns right to left as a statement.
func Assign(left, right bound.Expr) *bound.ExprStmt {
	return &bound.ExprStmt{X: &bound.Assign{Left: left, Right: right}}
}

// Decl declares l, with an optional initializer.
func Decl(l *bound.Local, init bound.Expr) *bound.LocalDecl {
	return &bound.LocalDecl{Local: l, Init: init}
}

// Block groups statements.
func Block(stmts ...bound.Stmt) *bound.Block {
	return &bound.Block{Stmts: stmts}
}

// If creates a conditional statement, els may be nil.
func If(cond bound.Expr, then, els bound.Stmt) *bound.If {
	return &bound.If{Cond: cond, Then: then, Else: els}
}

// While creates a while loop.
func While(cond bound.Expr, body bound.Stmt) *bound.While {
	return &bound.While{Cond: cond, Body: body}
}

// Call calls a method with value arguments.
func Call(name string, args ...bound.Expr) *bound.Call {
	c := &bound.Call{Typed: bound.Typed{T: Void}, Name: name}
	for _, a := range args {
		c.Args = append(c.Args, bound.Arg{X: a})
	}

	return c
}

// Use reads all arguments in a statement.
func Use(args ...bound.Expr) *bound.ExprStmt {
	return &bound.ExprStmt{X: Call("Use", args...)}
}

// OutArg passes x as out argument.
func OutArg(x bound.Expr) bound.Arg { return bound.Arg{X: x, RefKind: bound.ByOut} }

// RefArg passes x by reference.
func RefArg(x bound.Expr) bound.Arg { return bound.Arg{X: x, RefKind: bound.ByRef} }

// CallArgs calls a method with explicit arguments.
func CallArgs(name string, args ...bound.Arg) *bound.ExprStmt {
	return &bound.ExprStmt{X: &bound.Call{Typed: bound.Typed{T: Void}, Name: name, Args: args}}
}

// Return returns from the function with an optional value.
func Return(v bound.Expr) *bound.Return { return &bound.Return{Value: v} }

// Throw throws an exception.
func Throw() *bound.Throw { return &bound.Throw{Value: &bound.New{Typed: bound.Typed{T: Object}}} }

// Break leaves the innermost loop or switch.
func Break() *bound.Break { return &bound.Break{} }

// Continue continues the innermost loop.
func Continue() *bound.Continue { return &bound.Continue{} }

// LocalFunction creates a local function.
func LocalFunction(name string, params []*bound.Parameter, stmts ...bound.Stmt) *bound.Function {
	return &bound.Function{Name: name, Kind: bound.LocalFunction, Params: params, Body: Block(stmts...)}
}

// Lambda creates an anonymous function.
func Lambda(params []*bound.Parameter, stmts ...bound.Stmt) *bound.Function {
	return &bound.Function{Kind: bound.LambdaFunction, Params: params, Body: Block(stmts...)}
}

// Invoke calls a local function.
func Invoke(fn *bound.Function, args ...bound.Expr) *bound.ExprStmt {
	c := Call(fn.Name, args...)
	c.Func = fn

	return &bound.ExprStmt{X: c}
}

// Method creates a static method with the given parameters and assigns source positions.
func Method(name string, params []*bound.Parameter, stmts ...bound.Stmt) *bound.Method {
	m := &bound.Method{Name: name, Params: params, Body: Block(stmts...)}
	bound.Layout(m, 1)

	return m
}

// Constructor creates a constructor of value type t and assigns source positions.
func Constructor(this *bound.Parameter, params []*bound.Parameter, stmts ...bound.Stmt) *bound.Method {
	m := &bound.Method{Name: ".ctor", This: this, Params: params, Body: Block(stmts...), Constructor: true}
	bound.Layout(m, 1)

	return m
}
