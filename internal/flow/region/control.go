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

package region

import (
	"cmp"
	"slices"

	"fillmore-labs.com/definite/internal/bound"
	"fillmore-labs.com/definite/internal/flow/capture"
)

// ControlFlowSummary describes how control enters and leaves a region.
type ControlFlowSummary struct {
	// EntryPoints are the labeled statements in the region jumped to from outside.
	EntryPoints []bound.Stmt

	// ExitPoints are the jump statements in the region transferring control outside.
	ExitPoints []bound.Stmt

	// ReturnStatements are the return and yield break statements in the region.
	ReturnStatements []bound.Stmt

	StartReachable bool
	EndReachable   bool
}

// ControlFlow summarizes the control flow of r.
func ControlFlow(a *capture.Analysis, r Region) ControlFlowSummary {
	var s ControlFlowSummary

	for _, j := range a.Graph.Jumps {
		if j.Func != r.Func {
			continue
		}

		inside := r.Contains(j.Stmt.Pos())

		switch {
		case inside && returns(j.Stmt):
			s.ExitPoints = append(s.ExitPoints, j.Stmt)
			s.ReturnStatements = append(s.ReturnStatements, j.Stmt)

		case j.Target == nil:
			// goto to an undefined label

		case inside && !r.Contains(j.Target.Pos()):
			s.ExitPoints = append(s.ExitPoints, j.Stmt)

		case !inside && r.Contains(j.Target.Pos()):
			if l, ok := j.Target.(*bound.Labeled); ok && !slices.Contains(s.EntryPoints, bound.Stmt(l)) {
				s.EntryPoints = append(s.EntryPoints, l)
			}
		}
	}

	byPos := func(x, y bound.Stmt) int { return cmp.Compare(x.Pos(), y.Pos()) }
	slices.SortStableFunc(s.EntryPoints, byPos)
	slices.SortStableFunc(s.ExitPoints, byPos)
	slices.SortStableFunc(s.ReturnStatements, byPos)

	s.StartReachable = a.Reached(r.Func, r.Start.Block)
	s.EndReachable = a.Reached(r.Func, r.Stop.Block)

	return s
}

func returns(s bound.Stmt) bool {
	switch s.(type) {
	case *bound.Return, *bound.YieldBreak:
		return true

	default:
		return false
	}
}
