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

package engine_test

import (
	"context"
	"testing"

	"github.com/nalgeon/be"

	"fillmore-labs.com/definite/internal/bound"
	. "fillmore-labs.com/definite/internal/bound/boundtest"
	"fillmore-labs.com/definite/internal/diag"
	. "fillmore-labs.com/definite/internal/engine"
	"fillmore-labs.com/definite/internal/flow/region"
)

func compilation() (*bound.Compilation, *bound.Block) {
	fx, fy := NewField("x", Int), NewField("y", Int)
	fx.Pos, fy.Pos = 1000, 1010
	s := Struct("S", fx, fy)

	x := Local("x", Int)
	m1 := Method("Unassigned", nil, Decl(x, nil), Use(Ref(x)))

	y := Local("y", Int)
	body := Block(Break(), Decl(y, nil))
	m2 := Method("Loop", nil, While(True(), body))

	this := This(s)
	m3 := Constructor(this, nil, Assign(Dot(Ref(this), fx), Lit(1)), Assign(Dot(Ref(this), fy), Lit(2)))

	return &bound.Compilation{Name: "test", Types: []*bound.Type{s}, Methods: []*bound.Method{m1, m2, m3}}, body
}

func TestAnalyzeAll(t *testing.T) {
	t.Parallel()

	comp, body := compilation()

	r, err := AnalyzeAll(t.Context(), comp, WithConcurrency(2))
	be.Err(t, err, nil)

	be.Equal(t, len(r.Results), 3)

	kinds := make([]diag.Kind, 0, len(r.Diagnostics))
	for _, d := range r.Diagnostics {
		kinds = append(kinds, d.Kind)
	}

	be.Equal(t, kinds, []diag.Kind{diag.UseOfUnassignedVariable, diag.VariableDeclaredNeverUsed})

	cf, err := r.Results[1].ControlFlow(body, body)
	be.Err(t, err, nil)
	be.Equal(t, len(cf.ExitPoints), 1)
	be.True(t, !cf.EndReachable)

	df, err := r.Results[1].DataFlow(body, body)
	be.Err(t, err, nil)
	be.Equal(t, region.Names(df.VariablesDeclared), []string{"y"})
}

func TestFieldsNeverAssigned(t *testing.T) {
	t.Parallel()

	fx, fy := NewField("x", Int), NewField("y", Int)
	fx.Pos, fy.Pos = 1000, 1010
	s := Struct("S", fx, fy)

	v := Local("s", s)
	m := Method("M", nil, Decl(v, nil), Assign(Dot(Ref(v), fx), Lit(1)), Use(Ref(v)))
	comp := &bound.Compilation{Types: []*bound.Type{s}, Methods: []*bound.Method{m}}

	r, err := AnalyzeAll(t.Context(), comp)
	be.Err(t, err, nil)
	be.Equal(t, len(r.Diagnostics), 2)
	be.Equal(t, r.Diagnostics[1].Kind, diag.FieldNeverAssigned)

	r, err = AnalyzeAll(t.Context(), comp, WithFieldsNeverAssigned(false))
	be.Err(t, err, nil)
	be.Equal(t, len(r.Diagnostics), 1)
	be.Equal(t, r.Diagnostics[0].Kind, diag.UseOfUnassignedVariable)
}

func TestCanceled(t *testing.T) {
	t.Parallel()

	comp, _ := compilation()

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := AnalyzeAll(ctx, comp)
	be.Err(t, err, context.Canceled)
}

func TestInvalidRegion(t *testing.T) {
	t.Parallel()

	first, second := Use(Lit(1)), Use(Lit(2))
	r := Analyze(t.Context(), Method("M", nil, first, second))

	_, err := r.ControlFlow(second, first)
	be.Err(t, err, region.ErrInvalidRegion)

	_, err = r.DataFlow(second, first)
	be.Err(t, err, region.ErrInvalidRegion)
}

func TestStats(t *testing.T) {
	t.Parallel()

	comp, _ := compilation()

	r := Analyze(t.Context(), comp.Methods[0])
	s := r.Stats()

	be.Equal(t, s.Funcs, 1)
	be.Equal(t, s.Locals, 1)
	be.True(t, s.Blocks > 0)
	be.True(t, s.Slots > 0)
}
