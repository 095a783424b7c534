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

// Package engine runs the flow analysis pipeline over bound method bodies.
package engine

import (
	"context"
	"log/slog"
	"runtime"
	"runtime/trace"

	"golang.org/x/sync/errgroup"

	"fillmore-labs.com/definite/internal/bound"
	"fillmore-labs.com/definite/internal/diag"
	"fillmore-labs.com/definite/internal/flow/capture"
	"fillmore-labs.com/definite/internal/flow/graph"
	"fillmore-labs.com/definite/internal/flow/region"
)

// Result is the flow analysis of one method body.
type Result struct {
	Graph       *graph.Graph
	Analysis    *capture.Analysis
	Diagnostics []diag.Diagnostic
}

// Analyze builds the control flow graph of m, resolves definite assignment and projects diagnostics.
func Analyze(ctx context.Context, m *bound.Method) *Result {
	ctx, task := trace.NewTask(ctx, "Analyze")
	defer task.End()

	trace.Log(ctx, "method", m.Name)

	g := graph.Build(ctx, m)
	a := capture.Resolve(ctx, g)

	return &Result{Graph: g, Analysis: a, Diagnostics: diag.Project(ctx, a)}
}

// Method returns the analyzed method.
func (r *Result) Method() *bound.Method { return r.Graph.Method }

// Stats counts the parts of the analyzed method graph.
type Stats struct {
	Funcs  int `json:"funcs"`  // method body plus nested functions
	Blocks int `json:"blocks"` // basic blocks over all functions
	Slots  int `json:"slots"`
	Locals int `json:"locals"`
}

// Stats returns size statistics of the method graph.
func (r *Result) Stats() Stats {
	s := Stats{
		Funcs:  len(r.Graph.Funcs),
		Slots:  r.Graph.Slots.Len(),
		Locals: len(r.Graph.Locals),
	}

	for _, f := range r.Graph.Funcs {
		s.Blocks += len(f.Blocks)
	}

	return s
}

// ControlFlow summarizes the control flow of the statements from first to last.
func (r *Result) ControlFlow(first, last bound.Stmt) (region.ControlFlowSummary, error) {
	reg, err := region.Statements(r.Graph, first, last)
	if err != nil {
		return region.ControlFlowSummary{}, err
	}

	return region.ControlFlow(r.Analysis, reg), nil
}

// DataFlow summarizes the variable usage of the statements from first to last.
func (r *Result) DataFlow(first, last bound.Stmt) (region.DataFlowSummary, error) {
	reg, err := region.Statements(r.Graph, first, last)
	if err != nil {
		return region.DataFlowSummary{}, err
	}

	return region.DataFlow(r.Analysis, reg), nil
}

// ExpressionDataFlow summarizes the variable usage of a value expression.
func (r *Result) ExpressionDataFlow(e bound.Expr) (region.DataFlowSummary, error) {
	reg, err := region.Expression(r.Graph, e)
	if err != nil {
		return region.DataFlowSummary{}, err
	}

	return region.DataFlow(r.Analysis, reg), nil
}

// Report is the analysis of all methods of a compilation.
type Report struct {
	Results     []*Result // in method order
	Diagnostics []diag.Diagnostic
}

// AnalyzeAll analyzes the methods of comp in parallel.
// Cancellation is checked between methods; a canceled analysis returns the context error.
func AnalyzeAll(ctx context.Context, comp *bound.Compilation, opts ...Option) (*Report, error) {
	o := makeOptions(opts)

	ctx, task := trace.NewTask(ctx, "AnalyzeAll")
	defer task.End()

	results := make([]*Result, len(comp.Methods))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency)

	for i, m := range comp.Methods {
		if gctx.Err() != nil {
			break
		}

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			results[i] = Analyze(gctx, m)

			o.logger.Debug("Analyzed method",
				slog.String("method", m.Name),
				slog.Int("diagnostics", len(results[i].Diagnostics)))

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r := &Report{Results: results}
	for _, res := range results {
		r.Diagnostics = append(r.Diagnostics, res.Diagnostics...)
	}

	if o.fieldsNeverAssigned {
		r.Diagnostics = append(r.Diagnostics, diag.FieldsNeverAssigned(comp)...)
	}

	diag.Sort(r.Diagnostics)

	return r, nil
}

// Option configures [AnalyzeAll].
type Option func(*options)

type options struct {
	concurrency         int
	fieldsNeverAssigned bool
	logger              *slog.Logger
}

func makeOptions(opts []Option) options {
	o := options{
		concurrency:         runtime.GOMAXPROCS(0),
		fieldsNeverAssigned: true,
		logger:              slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// WithConcurrency limits the number of methods analyzed at the same time.
func WithConcurrency(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

// WithFieldsNeverAssigned enables the compilation wide check for struct fields never assigned.
func WithFieldsNeverAssigned(enable bool) Option {
	return func(o *options) { o.fieldsNeverAssigned = enable }
}

// WithLogger logs progress to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}
