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
	"fillmore-labs.com/definite/internal/flow/block"
	"fillmore-labs.com/definite/internal/flow/graph"
)

// Lattice defines the abstract states propagated by [Solve].
//
// States are treated as immutable values: implementations return fresh
// states instead of modifying their arguments.
type Lattice[S any] interface {
	// Entry is the state at function entry.
	Entry() S

	// Bottom is the state of blocks not reached (yet).
	Bottom() S

	// Transfer computes the state after the operations of b.
	Transfer(b *block.Block, in S) S

	// Edge computes the state along e, given the states before and after its source block.
	Edge(e block.Edge, in, out S) S

	// Through computes the state after passing a finally handler ending in state fin.
	Through(s, fin S) S

	// Join merges the states of two predecessors.
	Join(a, b S) S

	// Equal reports whether two states are the same.
	Equal(a, b S) bool
}

// Result holds the fixpoint states, indexed by block index.
type Result[S any] struct {
	In, Out []S
}

// Solve computes the fixpoint of l over the blocks of f with a work list.
func Solve[S any](f *graph.Func, l Lattice[S]) Result[S] {
	n := len(f.Blocks)

	r := Result[S]{In: make([]S, n), Out: make([]S, n)}
	for i := range n {
		r.In[i], r.Out[i] = l.Bottom(), l.Bottom()
	}

	// Edges passing a finally handler depend on the state at its end.
	dependents := make(map[*block.Block][]*block.Block)

	for _, b := range f.Blocks {
		for _, e := range b.Succs {
			for _, fin := range e.Via {
				dependents[fin.End] = append(dependents[fin.End], b)
			}
		}
	}

	var w worklist

	w.init(n)

	r.In[f.Entry.Index] = l.Entry()
	w.push(f.Entry.Index)

	for {
		i, ok := w.pop()
		if !ok {
			break
		}

		b := f.Blocks[i]
		out := l.Transfer(b, r.In[i])
		changed := !l.Equal(out, r.Out[i])
		r.Out[i] = out

		for _, e := range b.Succs {
			s := l.Edge(e, r.In[i], out)
			for _, fin := range e.Via {
				s = l.Through(s, r.Out[fin.End.Index])
			}

			j := e.To.Index
			if merged := l.Join(r.In[j], s); !l.Equal(merged, r.In[j]) {
				r.In[j] = merged
				w.push(j)
			}
		}

		if changed {
			for _, d := range dependents[b] {
				w.push(d.Index)
			}
		}
	}

	return r
}

// worklist is a FIFO queue of block indices without duplicates.
type worklist struct {
	queue   []int
	present []bool
}

func (w *worklist) init(n int) {
	w.queue = make([]int, 0, n)
	w.present = make([]bool, n)
}

func (w *worklist) push(i int) {
	if w.present[i] {
		return
	}

	w.present[i] = true
	w.queue = append(w.queue, i)
}

func (w *worklist) pop() (int, bool) {
	if len(w.queue) == 0 {
		return 0, false
	}

	i := w.queue[0]
	w.queue = w.queue[1:]
	w.present[i] = false

	return i, true
}
