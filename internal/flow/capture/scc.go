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

package capture

import (
	"slices"

	"fillmore-labs.com/definite/internal/flow/block"
	"fillmore-labs.com/definite/internal/flow/graph"
)

// Dependencies returns, per function, the nested functions it calls or converts.
func Dependencies(g *graph.Graph) [][]int {
	deps := make([][]int, len(g.Funcs))

	for i, f := range g.Funcs {
		for _, op := range f.Ops() {
			if op.Kind != block.Call && op.Kind != block.Convert {
				continue
			}

			if !slices.Contains(deps[i], op.Func) {
				deps[i] = append(deps[i], op.Func)
			}
		}
	}

	return deps
}

// components returns the strongly connected components of the dependency graph,
// callees before callers (Tarjan).
func components(deps [][]int) [][]int {
	n := len(deps)

	var (
		index   = make([]int, n)
		low     = make([]int, n)
		onStack = make([]bool, n)
		stack   []int
		next    = 1
		sccs    [][]int
	)

	var visit func(v int)
	visit = func(v int) {
		index[v], low[v] = next, next
		next++

		stack = append(stack, v)
		onStack[v] = true

		for _, w := range deps[v] {
			switch {
			case index[w] == 0:
				visit(w)
				low[v] = min(low[v], low[w])

			case onStack[w]:
				low[v] = min(low[v], index[w])
			}
		}

		if low[v] != index[v] {
			return
		}

		var scc []int
		for {
			w := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			onStack[w] = false
			scc = append(scc, w)

			if w == v {
				break
			}
		}

		slices.Sort(scc)
		sccs = append(sccs, scc)
	}

	for v := range n {
		if index[v] == 0 {
			visit(v)
		}
	}

	return sccs
}
