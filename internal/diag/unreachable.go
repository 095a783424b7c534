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

package diag

import "fillmore-labs.com/definite/internal/bound"

// unreachable warns at the first statement of every run of unreachable statements
// following a reachable one in the same statement list, and at the first statement
// of an unreachable body nested in a reachable statement.
func (p *projector) unreachable() {
	bound.Inspect(p.Graph.Method.Body, func(n bound.Node) bool {
		switch n := n.(type) {
		case *bound.Block:
			p.unreachableIn(n.Stmts)

		case *bound.SwitchSection:
			p.unreachableIn(n.Body)
		}

		if s, ok := n.(bound.Stmt); ok && p.reachable(s) {
			for _, body := range bodies(s) {
				if len(body) > 0 && !p.reachable(body[0]) {
					p.reportFirst(body)
				}
			}
		}

		return true
	})
}

// bodies returns the statement lists nested in s whose entry is decided by s.
// Post statements of a for loop are excluded.
func bodies(s bound.Stmt) [][]bound.Stmt {
	switch s := s.(type) {
	case *bound.If:
		if s.Else == nil {
			return [][]bound.Stmt{{s.Then}}
		}

		return [][]bound.Stmt{{s.Then}, {s.Else}}

	case *bound.While:
		return [][]bound.Stmt{{s.Body}}

	case *bound.Do:
		return [][]bound.Stmt{{s.Body}}

	case *bound.For:
		return [][]bound.Stmt{{s.Body}}

	case *bound.ForEach:
		return [][]bound.Stmt{{s.Body}}

	case *bound.Using:
		return [][]bound.Stmt{{s.Body}}

	case *bound.Switch:
		lists := make([][]bound.Stmt, 0, len(s.Sections))
		for _, sec := range s.Sections {
			lists = append(lists, sec.Body)
		}

		return lists

	case *bound.Try:
		lists := [][]bound.Stmt{{s.Body}}
		for _, c := range s.Catches {
			lists = append(lists, []bound.Stmt{c.Body})
		}

		if s.Finally != nil {
			lists = append(lists, []bound.Stmt{s.Finally})
		}

		return lists

	default:
		return nil
	}
}

func (p *projector) reportFirst(list []bound.Stmt) {
	if s := p.firstCode(list); s != nil {
		p.report(UnreachableCode, s.Pos(), s.End())
	}
}

func (p *projector) unreachableIn(list []bound.Stmt) {
	for i := 1; i < len(list); i++ {
		if !p.reachable(list[i-1]) || p.reachable(list[i]) {
			continue
		}

		p.reportFirst(list[i:])
	}
}

// reachable reports whether execution of s may start. Statements never lowered count as reachable.
func (p *projector) reachable(s bound.Stmt) bool {
	ext, ok := p.Graph.Extents[s]
	if !ok {
		return true
	}

	return p.Reached(ext.Func, ext.Start.Block)
}

// firstCode returns the first unreachable statement of list with executable code,
// descending into nested blocks.
func (p *projector) firstCode(list []bound.Stmt) bound.Stmt {
	for _, s := range list {
		if p.reachable(s) {
			return nil
		}

		switch s := s.(type) {
		case *bound.Empty, *bound.LocalFunc:
			continue

		case *bound.LocalDecl:
			if s.Init == nil {
				continue
			}

		case *bound.Block:
			if c := p.firstCode(s.Stmts); c != nil {
				return c
			}

			continue
		}

		return s
	}

	return nil
}
