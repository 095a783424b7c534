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

package dataflow

import (
	"iter"

	"github.com/bits-and-blooms/bitset"

	"fillmore-labs.com/definite/internal/slot"
)

// Level is the assignment state of a single slot.
type Level uint8

const (
	// Unassigned is not assigned on any path.
	Unassigned Level = iota

	// Maybe is assigned on some, but not all paths.
	Maybe

	// Assigned is assigned on all paths.
	Assigned
)

var levelNames = [...]string{"unassigned", "maybe", "assigned"}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}

	return "Level(?)"
}

// State is the definite assignment state at a program point.
//
// A slot in Def is [Assigned]; a slot only in May is [Maybe].
type State struct {
	Reached bool
	Def     *bitset.BitSet
	May     *bitset.BitSet
}

// Clone returns an independent copy of s.
func (s State) Clone() State {
	if !s.Reached {
		return State{}
	}

	return State{Reached: true, Def: s.Def.Clone(), May: s.May.Clone()}
}

// NewSet returns an empty set of n slots.
func NewSet(n int) *bitset.BitSet { return bitset.New(uint(n)) }

// FullSet returns a set containing all n slots.
func FullSet(n int) *bitset.BitSet { return bitset.New(uint(n)).FlipRange(0, uint(n)) }

// Members yields the members of b in increasing order.
func Members(b *bitset.BitSet) iter.Seq[int] {
	return func(yield func(int) bool) {
		for i, ok := b.NextSet(0); ok; i, ok = b.NextSet(i + 1) {
			if !yield(int(i)) {
				return
			}
		}
	}
}

// Level returns the assignment state of sl. Untracked slots are always assigned.
func (s State) Level(sl slot.Slot) Level {
	switch {
	case !sl.Valid() || !s.Reached || s.Def.Test(uint(sl)):
		return Assigned

	case s.May.Test(uint(sl)):
		return Maybe

	default:
		return Unassigned
	}
}

// Assigned reports whether sl is definitely assigned.
func (s State) Assigned(sl slot.Slot) bool {
	return s.Level(sl) == Assigned
}

// meet combines the states of two predecessors.
func meet(a, b State) State {
	switch {
	case !a.Reached:
		return b

	case !b.Reached:
		return a
	}

	s := a.Clone()
	s.Def.InPlaceIntersection(b.Def)
	s.May.InPlaceUnion(b.May)

	return s
}

// union combines a state with the state at the end of a finally handler.
func union(a, fin State) State {
	if !a.Reached || !fin.Reached {
		return State{}
	}

	s := a.Clone()
	s.Def.InPlaceUnion(fin.Def)
	s.May.InPlaceUnion(fin.May)

	return s
}

func equal(a, b State) bool {
	if a.Reached != b.Reached {
		return false
	}

	return !a.Reached || a.Def.Equal(b.Def) && a.May.Equal(b.May)
}
