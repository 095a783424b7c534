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

import "go/token"

// TypeKind classifies a [Type] for assignment tracking.
type TypeKind uint8

const (
	// Scalar types are tracked as a single slot.
	Scalar TypeKind = iota

	// Reference types are tracked as a single slot, their fields are never tracked.
	Reference

	// Struct types are value types whose fields are tracked individually.
	Struct

	// Untracked types never need assignment, like Go arrays or slices.
	Untracked

	// Invalid marks types that failed to bind.
	Invalid
)

var typeKindNames = [...]string{"scalar", "reference", "struct", "untracked", "invalid"}

func (k TypeKind) String() string {
	if int(k) < len(typeKindNames) {
		return typeKindNames[k]
	}

	return "TypeKind(?)"
}

// Type is a bound type.
type Type struct {
	Name   string
	Kind   TypeKind
	Fields []*Field // Declared fields, only meaningful for [Struct] and [Reference] types

	// ImplicitConstructor is set for struct types whose parameterless construction
	// has no observable effect.
	ImplicitConstructor bool
}

// IsStruct reports whether t is a value type with tracked fields.
func (t *Type) IsStruct() bool { return t != nil && t.Kind == Struct }

// IsReference reports whether t is a reference type.
func (t *Type) IsReference() bool { return t != nil && t.Kind == Reference }

// IsInvalid reports whether t is missing or failed to bind.
func (t *Type) IsInvalid() bool { return t == nil || t.Kind == Invalid }

// Symbol is a named storage location: a [Local], a [Parameter] or a [Field].
type Symbol interface {
	SymbolName() string
	SymbolType() *Type
	DeclPos() token.Pos
	symbol()
}

// Field is a field of a struct or reference type.
type Field struct {
	Name   string
	Type   *Type
	Pos    token.Pos
	Static bool

	// Alias points to the canonical field when this field is an alternative name
	// for the same storage, like a named tuple element and its positional name.
	Alias *Field
}

// Canonical resolves field aliases.
func (f *Field) Canonical() *Field {
	for f.Alias != nil {
		f = f.Alias
	}

	return f
}

func (f *Field) SymbolName() string { return f.Name }
func (f *Field) SymbolType() *Type  { return f.Type }
func (f *Field) DeclPos() token.Pos { return f.Pos }
func (*Field) symbol()              {}

// LocalKind describes how a local variable is introduced.
type LocalKind uint8

const (
	// PlainLocal is declared by a local declaration statement.
	PlainLocal LocalKind = iota

	// PatternLocal is declared by a pattern.
	PatternLocal

	// IterationLocal is the iteration variable of a foreach loop.
	IterationLocal

	// CatchLocal is the exception variable of a catch clause.
	CatchLocal

	// UsingLocal is the resource variable of a using statement.
	UsingLocal
)

// Local is a local variable.
type Local struct {
	Name  string
	Type  *Type
	Pos   token.Pos
	Kind  LocalKind
	Const bool
}

func (l *Local) SymbolName() string { return l.Name }
func (l *Local) SymbolType() *Type  { return l.Type }
func (l *Local) DeclPos() token.Pos { return l.Pos }
func (*Local) symbol()              {}

// RefKind is the passing mode of a parameter or argument.
type RefKind uint8

const (
	// ByValue passes a copy.
	ByValue RefKind = iota

	// ByRef passes a reference to an assigned variable.
	ByRef

	// ByOut passes a reference to a variable the callee must assign.
	ByOut

	// ByIn passes a read-only reference to an assigned variable.
	ByIn
)

var refKindNames = [...]string{"value", "ref", "out", "in"}

func (k RefKind) String() string {
	if int(k) < len(refKindNames) {
		return refKindNames[k]
	}

	return "RefKind(?)"
}

// Parameter is a method or function parameter, including the implicit receiver.
type Parameter struct {
	Name    string
	Type    *Type
	Pos     token.Pos
	RefKind RefKind
	IsThis  bool
}

func (p *Parameter) SymbolName() string { return p.Name }
func (p *Parameter) SymbolType() *Type  { return p.Type }
func (p *Parameter) DeclPos() token.Pos { return p.Pos }
func (*Parameter) symbol()              {}

// Label is a statement label.
type Label struct {
	Name string
	Pos  token.Pos
}

// FuncKind distinguishes nested function kinds.
type FuncKind uint8

const (
	// LocalFunction is a named nested function, invoked by calls.
	LocalFunction FuncKind = iota

	// LambdaFunction is an anonymous function converted to a delegate value.
	LambdaFunction
)

// Function is a local function or lambda nested in a method body.
type Function struct {
	Span

	Name     string
	Kind     FuncKind
	Params   []*Parameter
	Body     *Block
	Iterator bool
}

// Method is an analyzed method body.
type Method struct {
	Span

	Name        string
	This        *Parameter // nil for static methods
	Params      []*Parameter
	Body        *Block
	Constructor bool // value type constructors must assign all fields of This
	Iterator    bool
}

// Compilation is the immutable per-compilation context shared by all method analyses.
type Compilation struct {
	Name    string
	Types   []*Type
	Methods []*Method
	Bool    *Type // well-known boolean type
}
