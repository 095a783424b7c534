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

package block

import (
	"go/token"

	"fillmore-labs.com/definite/internal/bound"
	"fillmore-labs.com/definite/internal/slot"
)

// Block represents a [basic Block] in the [control-flow graph].
// It is a sequence of slot operations with a single entry and exit point.
// It tracks its position in the source code and its outgoing edges.
//
// [basic Block]: https://en.wikipedia.org/wiki/Basic_block
// [control-flow graph]: https://en.wikipedia.org/wiki/Control-flow_graph
type Block struct {
	Pos, End token.Pos // The beginning and end of the source range

	Index int // Creation order, dense within a factory

	Ops   []Op
	Succs []Edge
}

// EdgeKind tags an [Edge].
type EdgeKind uint8

const (
	// Normal is sequential control flow.
	Normal EdgeKind = iota

	// CondTrue is taken when the condition evaluated to true.
	CondTrue

	// CondFalse is taken when the condition evaluated to false.
	CondFalse

	// Jump is an explicit transfer: goto, break, continue or goto case.
	Jump

	// Exceptional leads to the nearest enclosing handler or finally block.
	Exceptional

	// Exit leaves the function through return, yield break or the end of the body.
	Exit
)

var edgeKindNames = [...]string{"normal", "true", "false", "jump", "exceptional", "exit"}

func (k EdgeKind) String() string {
	if int(k) < len(edgeKindNames) {
		return edgeKindNames[k]
	}

	return "EdgeKind(?)"
}

// Finally is a finally handler that control passes through when leaving a protected region.
type Finally struct {
	Entry, End *Block
}

// Edge is an outgoing edge of a [Block].
type Edge struct {
	Kind EdgeKind
	To   *Block

	// Via lists the finally handlers the edge passes, innermost first.
	Via []*Finally

	// Assigns are writes performed when the edge is taken, like variables
	// declared by a pattern on the matching branch.
	Assigns []Op
}

// GetSourceRange returns the source code range of the block.
func (b *Block) GetSourceRange(fset *token.FileSet) (from, to token.Position) {
	from = fset.PositionFor(b.Pos, false)
	to = fset.PositionFor(b.End, false)

	return from, to
}

// SetStart sets the start position of the block if it has not been set yet.
func (b *Block) SetStart(pos token.Pos) {
	if !b.Pos.IsValid() {
		b.Pos = pos
	}
}

// Add appends an operation and updates the source range to include it.
func (b *Block) Add(op Op) {
	b.Ops = append(b.Ops, op)
	b.update(op.Pos, op.End)
}

func (b *Block) update(pos, end token.Pos) {
	if !b.Pos.IsValid() || pos.IsValid() && pos < b.Pos {
		b.Pos = pos
	}

	if end > b.End {
		b.End = end
	}
}

// Link adds a normal edge to next.
func (b *Block) Link(next *Block) {
	b.LinkKind(Normal, next)
}

// LinkKind adds an edge of the given kind.
func (b *Block) LinkKind(kind EdgeKind, next *Block) {
	if next == nil {
		return
	}

	b.Succs = append(b.Succs, Edge{Kind: kind, To: next})
}

// LinkVia adds an edge passing through finally handlers.
func (b *Block) LinkVia(kind EdgeKind, next *Block, via []*Finally) {
	if len(via) == 0 {
		b.LinkKind(kind, next)

		return
	}

	b.Succs = append(b.Succs, Edge{Kind: kind, To: next, Via: via})
}

// LinkBranch adds a conditional branch, with assignments performed on the respective edge.
func (b *Block) LinkBranch(then, els *Block, thenAssigns, elseAssigns []Op) {
	if then != nil {
		b.Succs = append(b.Succs, Edge{Kind: CondTrue, To: then, Assigns: thenAssigns})
	}

	if els != nil {
		b.Succs = append(b.Succs, Edge{Kind: CondFalse, To: els, Assigns: elseAssigns})
	}
}

// LinkClause sets the successors for a clause in a chain (switch).
//
// It links the current clause to the next clause in the chain, while optionally
// branching to a body if the clause is not the start of the chain.
//
//	current -> clause -> clause -> ...
//	              |         |
//	              v         v
//	            body      body
func (b *Block) LinkClause(body, next *Block) {
	if body == nil {
		b.Link(next)

		return
	}

	b.LinkBranch(body, next, nil, nil)
}

// Ends reports whether the block has no normal successors.
func (b *Block) Ends() bool {
	for _, e := range b.Succs {
		if e.Kind != Exceptional {
			return false
		}
	}

	return true
}

// OpKind is the kind of an [Op].
type OpKind uint8

const (
	// Read requires the slot to be assigned.
	Read OpKind = iota

	// Write assigns the slot.
	Write

	// Copy assigns the struct slot from Src, field by field.
	Copy

	// Declare resets the slot of a variable entering scope to unassigned.
	Declare

	// Call invokes a local function, applying its reads and writes.
	Call

	// Convert turns a local function or lambda into a delegate value, applying its reads.
	Convert

	// ExitCheck requires out parameters and constructor fields to be assigned.
	ExitCheck
)

var opKindNames = [...]string{"read", "write", "copy", "declare", "call", "convert", "exit"}

func (k OpKind) String() string {
	if int(k) < len(opKindNames) {
		return opKindNames[k]
	}

	return "OpKind(?)"
}

// Op is a single operation on a slot.
type Op struct {
	Kind     OpKind
	Slot     slot.Slot
	Src      slot.Slot // Copy source
	Pos, End token.Pos

	// Var is the root variable of Slot, also when the slot is untracked.
	Var bound.Symbol

	// Node is the expression or statement the operation stems from.
	Node bound.Node

	// Value is the assigned expression of a write, nil when unknown.
	Value bound.Expr

	// Func is the target of Call and Convert, an index into the graph functions.
	Func int

	// Ref marks reads and writes through ref and out arguments or addresses.
	Ref bool
}
