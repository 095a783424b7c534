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
	"go/constant"
	"go/token"
)

// Expr is a bound expression.
type Expr interface {
	Node
	Type() *Type
	exprNode()
}

// Typed carries the type of an expression.
type Typed struct {
	T *Type
}

// Type returns the expression type.
func (t Typed) Type() *Type { return t.T }

// Literal is a constant value. A nil Value is the null reference.
type Literal struct {
	Span
	Typed
	Value constant.Value
}

// Default is the default value of a type.
type Default struct {
	Span
	Typed
}

// LocalRef references a local variable.
type LocalRef struct {
	Span
	Local *Local
}

// ParamRef references a parameter or the receiver.
type ParamRef struct {
	Span
	Param *Parameter
}

// FieldAccess selects a field. Receiver is nil for static fields.
type FieldAccess struct {
	Span
	Receiver Expr
	Field    *Field
}

// Property reads a computed member, which is not a variable.
type Property struct {
	Span
	Typed
	Receiver Expr
	Name     string
}

// Assign stores Right into Left.
type Assign struct {
	Span
	Left, Right Expr
}

// CompoundAssign reads, combines and stores Left.
type CompoundAssign struct {
	Span
	Op          token.Token
	Left, Right Expr
}

// IncDec increments or decrements X.
type IncDec struct {
	Span
	Op token.Token
	X  Expr
}

// Binary is a binary operation. token.LAND and token.LOR short-circuit.
type Binary struct {
	Span
	Typed
	Op   token.Token
	X, Y Expr
}

// Unary is a unary operation. token.NOT negates a condition.
type Unary struct {
	Span
	Typed
	Op token.Token
	X  Expr
}

// AddressOf takes the address of a variable, which may be written through it.
type AddressOf struct {
	Span
	Typed
	X Expr
}

// Conditional selects Then or Else.
type Conditional struct {
	Span
	Typed
	Cond, Then, Else Expr
}

// Arg is a call argument.
type Arg struct {
	X       Expr
	RefKind RefKind
}

// Call invokes a method or, when Func is set, a local function.
type Call struct {
	Span
	Typed
	Name        string
	Receiver    Expr // optional
	ReceiverRef RefKind
	Func        *Function
	Args        []Arg
}

// Invoke calls a delegate value.
type Invoke struct {
	Span
	Typed
	Target Expr
	Args   []Arg
}

// FieldInit initializes a field of a constructed object.
type FieldInit struct {
	Field *Field
	Value Expr
}

// New constructs an object.
// Trivial constructions produce a default value without side effects.
type New struct {
	Span
	Typed
	Args    []Arg
	Inits   []FieldInit
	Trivial bool
}

// Tuple constructs a tuple value.
type Tuple struct {
	Span
	Typed
	Elems []Expr
}

// Lambda converts an anonymous function to a delegate value.
type Lambda struct {
	Span
	Typed
	Func *Function
}

// FuncRef converts a local function to a delegate value.
type FuncRef struct {
	Span
	Typed
	Func *Function
}

// IsPattern tests X against Pattern.
type IsPattern struct {
	Span
	Typed
	X       Expr
	Pattern Pattern
}

// Conversion converts X to another type.
type Conversion struct {
	Span
	Typed
	X Expr
}

// Operation is any other computation over its operands.
// Variable operations denote storage, like an array element or a pointer indirection.
type Operation struct {
	Span
	Typed
	Operands []Expr
	Variable bool
}

// BadExpr is an expression that failed to bind.
type BadExpr struct {
	Span
	Exprs []Expr
}

func (e *LocalRef) Type() *Type    { return e.Local.Type }
func (e *ParamRef) Type() *Type    { return e.Param.Type }
func (e *FieldAccess) Type() *Type { return e.Field.Type }
func (e *Assign) Type() *Type      { return e.Left.Type() }

func (e *CompoundAssign) Type() *Type { return e.Left.Type() }
func (e *IncDec) Type() *Type         { return e.X.Type() }
func (*BadExpr) Type() *Type          { return nil }

func (*Literal) exprNode()        {}
func (*Default) exprNode()        {}
func (*LocalRef) exprNode()       {}
func (*ParamRef) exprNode()       {}
func (*FieldAccess) exprNode()    {}
func (*Property) exprNode()       {}
func (*Assign) exprNode()         {}
func (*CompoundAssign) exprNode() {}
func (*IncDec) exprNode()         {}
func (*Binary) exprNode()         {}
func (*Unary) exprNode()          {}
func (*AddressOf) exprNode()      {}
func (*Conditional) exprNode()    {}
func (*Call) exprNode()           {}
func (*Invoke) exprNode()         {}
func (*New) exprNode()            {}
func (*Tuple) exprNode()          {}
func (*Lambda) exprNode()         {}
func (*FuncRef) exprNode()        {}
func (*IsPattern) exprNode()      {}
func (*Conversion) exprNode()     {}
func (*Operation) exprNode()      {}
func (*BadExpr) exprNode()        {}

// Pattern is a bound pattern.
type Pattern interface {
	Node
	patternNode()
}

// DeclPattern tests the type and optionally declares a variable, assigned on match.
type DeclPattern struct {
	Span
	Type  *Type
	Local *Local // optional
}

// ConstPattern compares with a constant.
type ConstPattern struct {
	Span
	Value Expr
}

// DiscardPattern always matches.
type DiscardPattern struct {
	Span
}

// NotPattern negates a pattern.
type NotPattern struct {
	Span
	Pattern Pattern
}

func (*DeclPattern) patternNode()    {}
func (*ConstPattern) patternNode()   {}
func (*DiscardPattern) patternNode() {}
func (*NotPattern) patternNode()     {}

// ConstantBool returns the value of a boolean constant expression.
func ConstantBool(e Expr) (value, ok bool) {
	lit, ok := e.(*Literal)
	if !ok || lit.Value == nil || lit.Value.Kind() != constant.Bool {
		return false, false
	}

	return constant.BoolVal(lit.Value), true
}
