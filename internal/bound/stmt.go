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

// Node is implemented by all bound tree nodes.
type Node interface {
	Pos() token.Pos
	End() token.Pos
}

// Span is the source range of a node.
type Span struct {
	From, To token.Pos
}

// Pos returns the start of the range.
func (s *Span) Pos() token.Pos { return s.From }

// End returns the end of the range.
func (s *Span) End() token.Pos { return s.To }

func (s *Span) span() *Span { return s }

// Stmt is a bound statement.
type Stmt interface {
	Node
	stmtNode()
}

// Block is a statement list.
type Block struct {
	Span
	Stmts []Stmt
}

// ExprStmt evaluates an expression for its side effects.
type ExprStmt struct {
	Span
	X Expr
}

// LocalDecl declares a local variable, optionally initialized.
type LocalDecl struct {
	Span
	Local *Local
	Init  Expr

	// Implicit declarations are synthesized and excluded from usage warnings.
	Implicit bool
}

// LocalFunc declares a local function.
type LocalFunc struct {
	Span
	Func *Function
}

// If is a conditional statement.
type If struct {
	Span
	Cond Expr
	Then Stmt
	Else Stmt // optional
}

// While is a pre-tested loop.
type While struct {
	Span
	Cond Expr
	Body Stmt
}

// Do is a post-tested loop.
type Do struct {
	Span
	Body Stmt
	Cond Expr
}

// For is a loop with initializer, condition and increment.
type For struct {
	Span
	Init []Stmt
	Cond Expr // nil means forever
	Post []Stmt
	Body Stmt
}

// ForEach iterates over a collection.
// Either Locals are declared and assigned on each iteration, or Targets are assigned.
type ForEach struct {
	Span
	Locals     []*Local
	Targets    []Expr
	Collection Expr
	Body       Stmt
}

// Switch dispatches on labels.
type Switch struct {
	Span
	Expr     Expr // nil when the labels are boolean conditions
	Sections []*SwitchSection

	// ImplicitBreak makes falling off the end of a section leave the switch.
	// Otherwise, a reachable section end is an error.
	ImplicitBreak bool

	// Exhaustive switches have no way to skip all sections.
	Exhaustive bool
}

// SwitchSection is a group of labels and a statement list.
type SwitchSection struct {
	Span
	Labels []*CaseLabel
	Body   []Stmt
}

// CaseLabel is a single case of a switch section.
// A label without value, pattern or default flag may or may not match.
type CaseLabel struct {
	Span
	Value   Expr    // constant or condition
	Pattern Pattern // pattern test
	Guard   Expr    // optional when clause
	Default bool
}

// Break leaves the innermost, or the labeled, loop or switch.
type Break struct {
	Span
	Label *Label
}

// Continue starts the next iteration of the innermost, or the labeled, loop.
type Continue struct {
	Span
	Label *Label
}

// Goto jumps to a labeled statement.
type Goto struct {
	Span
	Label *Label
}

// GotoCase jumps into another section of the enclosing switch.
type GotoCase struct {
	Span
	Section *SwitchSection // nil when the target does not exist
}

// Labeled attaches a label to a statement.
type Labeled struct {
	Span
	Label *Label
	Stmt  Stmt
}

// Return leaves the function.
type Return struct {
	Span
	Value Expr
}

// Throw raises an exception.
type Throw struct {
	Span
	Value Expr
}

// YieldReturn produces a value from an iterator.
type YieldReturn struct {
	Span
	Value Expr
}

// YieldBreak ends an iterator.
type YieldBreak struct {
	Span
}

// Try is a protected region with handlers.
type Try struct {
	Span
	Body    *Block
	Catches []*Catch
	Finally *Block // optional
}

// Catch is an exception handler.
type Catch struct {
	Span
	Local  *Local // optional
	Filter Expr   // optional
	Body   *Block
}

// Using acquires a resource for the duration of Body.
type Using struct {
	Span
	Decl     *LocalDecl // either Decl
	Resource Expr       // or Resource
	Body     Stmt
}

// Empty does nothing.
type Empty struct {
	Span
}

// BadStmt is a statement that failed to bind.
type BadStmt struct {
	Span
	Exprs []Expr
}

func (*Block) stmtNode()       {}
func (*ExprStmt) stmtNode()    {}
func (*LocalDecl) stmtNode()   {}
func (*LocalFunc) stmtNode()   {}
func (*If) stmtNode()          {}
func (*While) stmtNode()       {}
func (*Do) stmtNode()          {}
func (*For) stmtNode()         {}
func (*ForEach) stmtNode()     {}
func (*Switch) stmtNode()      {}
func (*Break) stmtNode()       {}
func (*Continue) stmtNode()    {}
func (*Goto) stmtNode()        {}
func (*GotoCase) stmtNode()    {}
func (*Labeled) stmtNode()     {}
func (*Return) stmtNode()      {}
func (*Throw) stmtNode()       {}
func (*YieldReturn) stmtNode() {}
func (*YieldBreak) stmtNode()  {}
func (*Try) stmtNode()         {}
func (*Using) stmtNode()       {}
func (*Empty) stmtNode()       {}
func (*BadStmt) stmtNode()     {}
