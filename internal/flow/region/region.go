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

// Package region answers control and data flow queries about a range of an analyzed method.
package region

import (
	"cmp"
	"errors"
	"fmt"
	"go/token"
	"maps"
	"slices"

	"fillmore-labs.com/definite/internal/bound"
	"fillmore-labs.com/definite/internal/flow/graph"
)

// ErrInvalidRegion is returned when the bounds of a query do not form a region.
var ErrInvalidRegion = errors.New("invalid region")

// Region is a contiguous range of statements, or a single expression, in one function.
type Region struct {
	Func     int
	Pos, End token.Pos

	// Start is where execution enters the region, Stop where it continues after it.
	Start, Stop graph.Point
}

// Contains reports whether pos lies in the region.
func (r Region) Contains(pos token.Pos) bool {
	return r.Pos <= pos && pos < r.End
}

// Statements returns the region from first to last, which must be members of the same statement list
// with first not after last. A single statement not part of a list is a region by itself.
func Statements(g *graph.Graph, first, last bound.Stmt) (Region, error) {
	if first == nil || last == nil {
		return Region{}, fmt.Errorf("%w: missing statement", ErrInvalidRegion)
	}

	if first != last {
		list := enclosingList(g.Method.Body, first)

		i, j := slices.Index(list, first), slices.Index(list, last)
		if i < 0 || j < i {
			return Region{}, fmt.Errorf("%w: %T and %T are not in the same statement list", ErrInvalidRegion, first, last)
		}
	}

	return between(g, first, last)
}

// Expression returns the region of a value expression.
func Expression(g *graph.Graph, e bound.Expr) (Region, error) {
	if e == nil {
		return Region{}, fmt.Errorf("%w: missing expression", ErrInvalidRegion)
	}

	return between(g, e, e)
}

func between(g *graph.Graph, first, last bound.Node) (Region, error) {
	start, ok := g.Extents[first]
	if !ok {
		return Region{}, fmt.Errorf("%w: %T was not lowered", ErrInvalidRegion, first)
	}

	stop, ok := g.Extents[last]
	if !ok {
		return Region{}, fmt.Errorf("%w: %T was not lowered", ErrInvalidRegion, last)
	}

	if start.Func != stop.Func {
		return Region{}, fmt.Errorf("%w: bounds in different functions", ErrInvalidRegion)
	}

	return Region{
		Func:  start.Func,
		Pos:   first.Pos(),
		End:   last.End(),
		Start: start.Start,
		Stop:  stop.End,
	}, nil
}

// enclosingList finds the statement list containing s.
func enclosingList(root bound.Node, s bound.Stmt) []bound.Stmt {
	var found []bound.Stmt

	bound.Inspect(root, func(n bound.Node) bool {
		if found != nil {
			return false
		}

		var list []bound.Stmt
		switch n := n.(type) {
		case *bound.Block:
			list = n.Stmts

		case *bound.SwitchSection:
			list = n.Body

		case *bound.For:
			if slices.Contains(n.Post, s) {
				list = n.Post
			} else {
				list = n.Init
			}
		}

		if slices.Contains(list, s) {
			found = list
		}

		return true
	})

	return found
}

// symbols is a set of variables.
type symbols map[bound.Symbol]struct{}

func (s symbols) add(sym bound.Symbol) {
	if sym != nil {
		s[sym] = struct{}{}
	}
}

func (s symbols) has(sym bound.Symbol) bool {
	_, ok := s[sym]

	return ok
}

// sorted returns the set ordered by declaration.
func (s symbols) sorted() []bound.Symbol {
	return slices.SortedFunc(maps.Keys(s), compareSymbols)
}

func compareSymbols(a, b bound.Symbol) int {
	return cmp.Or(
		cmp.Compare(a.DeclPos(), b.DeclPos()),
		cmp.Compare(a.SymbolName(), b.SymbolName()),
	)
}

// Names returns the names of syms.
func Names(syms []bound.Symbol) []string {
	names := make([]string, len(syms))
	for i, s := range syms {
		names[i] = s.SymbolName()
	}

	return names
}
