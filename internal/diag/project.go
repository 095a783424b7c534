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

import (
	"context"
	"go/token"
	"runtime/trace"

	"fillmore-labs.com/definite/internal/bound"
	"fillmore-labs.com/definite/internal/flow/capture"
	"fillmore-labs.com/definite/internal/flow/graph"
	"fillmore-labs.com/definite/internal/slot"
)

// Project converts the analysis of a method into diagnostics, ordered by position.
func Project(ctx context.Context, a *capture.Analysis) []Diagnostic {
	defer trace.StartRegion(ctx, "Report").End()

	p := projector{Analysis: a, reported: make(map[slot.Slot]struct{})}

	p.findings()
	p.problems()
	p.unreachable()
	p.unusedLocals()
	p.unusedFunctions()

	Sort(p.diags)

	return p.diags
}

type projector struct {
	*capture.Analysis

	reported map[slot.Slot]struct{}
	diags    []Diagnostic
}

func (p *projector) report(kind Kind, pos, end token.Pos, args ...string) {
	p.diags = append(p.diags, New(kind, pos, end, args...))
}

// findings reports definite assignment violations, each unassigned read location once.
func (p *projector) findings() {
	m := p.Graph.Slots

	for _, f := range p.Findings {
		if erroneous(f.Var) {
			continue
		}

		switch f.Kind {
		case capture.ReadUnassigned:
			if _, ok := p.reported[f.Slot]; ok {
				continue
			}
			p.reported[f.Slot] = struct{}{}

			p.report(p.classify(f), f.Pos, f.End, m.Name(f.Slot))

		case capture.OutUnassigned:
			p.report(UnassignedOutParameter, f.Pos, f.End, f.Var.SymbolName())

		case capture.FieldUnassigned:
			p.report(UnassignedThisField, f.Pos, f.End, f.Field.Name)
		}
	}
}

func (p *projector) classify(f capture.Finding) Kind {
	m := p.Graph.Slots
	if m.IsStructField(f.Slot) {
		return UseOfUnassignedField
	}

	param, ok := m.Symbol(m.Root(f.Slot)).(*bound.Parameter)
	switch {
	case !ok:
		return UseOfUnassignedVariable

	case param.IsThis:
		return UseOfThisBeforeAssigned

	case param.RefKind == bound.ByOut:
		return UseOfUnassignedOut

	default:
		return UseOfUnassignedVariable
	}
}

func erroneous(sym bound.Symbol) bool {
	if sym == nil {
		return false
	}

	t := sym.SymbolType()

	return t != nil && t.Kind == bound.Invalid
}

// problems reports structural errors found while building the graph.
func (p *projector) problems() {
	for _, pr := range p.Graph.Problems {
		if pr.Check != nil && !p.Reached(pr.Func, pr.Check) {
			continue
		}

		pos, end := pr.Node.Pos(), pr.Node.End()

		switch pr.Kind {
		case graph.InvalidBranch:
			keyword := "break"
			if _, ok := pr.Node.(*bound.Continue); ok {
				keyword = "continue"
			}
			p.report(InvalidBranchTarget, pos, end, keyword)

		case graph.InvalidGotoCase:
			p.report(InvalidBranchTarget, pos, end, "goto case")

		case graph.UndefinedLabel:
			p.report(UndefinedLabel, pos, end, pr.Name)

		case graph.UnreferencedLabel:
			if l, ok := pr.Node.(*bound.Labeled); ok && l.Label.Pos.IsValid() {
				pos, end = l.Label.Pos, l.Label.Pos+token.Pos(len(l.Label.Name))
			}
			p.report(UnreferencedLabel, pos, end, pr.Name)

		case graph.SectionFallthrough:
			p.report(SwitchFallthrough, pos, end)

		case graph.RefNonVariable:
			p.report(RefOfNonVariable, pos, end)
		}
	}
}
