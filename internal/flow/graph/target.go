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
)

// target is a jump destination.
type target struct {
	block *block.Block
	depth int        // number of finally handlers active at the destination
	stmt  bound.Stmt // the statement the jump leaves or enters
}

func (t target) valid() bool { return t.block != nil }

// branchTargetScopes maintains the current branch targets representing nested
// control structures (loops and switches).
type branchTargetScopes struct {
	currentBreak target

	currentContinue target
}

func (s *branchTargetScopes) branchTarget(tok token.Token) target {
	switch tok {
	case token.BREAK:
		return s.currentBreak

	case token.CONTINUE:
		return s.currentContinue

	default:
		panic(fmt.Sprintf("unexpected branch token: %s", tok))
	}
}

// pushBreak sets the current "break" branch target scope, returning the old.
func (s *branchTargetScopes) pushBreak(b target) (old target) {
	old, s.currentBreak = s.currentBreak, b
	return old
}

// popBreak restores the previous "break" branch target scope.
func (s *branchTargetScopes) popBreak(old target) {
	s.currentBreak = old
}

// pushContinue sets the current "continue" branch target scope, returning the old.
func (s *branchTargetScopes) pushContinue(c target) (old target) {
	old, s.currentContinue = s.currentContinue, c
	return old
}

// popContinue restores the previous "continue" branch target scope.
func (s *branchTargetScopes) popContinue(old target) {
	s.currentContinue = old
}
