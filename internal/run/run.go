// Copyright 2025-2026 Oliver Eikemeier. All Rights Reserved.
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


// Package run drives the flow analysis of a package for the analysis framework.
package run

import (
	"context"
	"errors"
	"fmt"
	"go/ast"
	"go/token"
	"runtime/trace"
	"strings"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"

	"fillmore-labs.com/definite/internal/astutil"
	"fillmore-labs.com/definite/internal/bound"
	"fillmore-labs.com/definite/internal/config"
	"fillmore-labs.com/definite/internal/diag"
	"fillmore-labs.com/definite/internal/engine"
	"fillmore-labs.com/definite/internal/lower"
	"fillmore-labs.com/definite/internal/report"
)

// ErrResultMissing is returned when a required analyzer result is missing.
// This typically indicates a configuration error where the analyzer's
// Requires field is not properly set.
var ErrResultMissing = errors.New("analyzer result missing")

// Run lowers the functions of the package, analyzes them and reports the diagnostics.
func (r *Options) Run(p *analysis.Pass) (any, error) {
	in, ok := p.ResultOf[inspect.Analyzer].(*inspector.Inspector)
	if !ok {
		return nil, fmt.Errorf("definite: %s %w", inspect.Analyzer.Name, ErrResultMissing)
	}

	if r.Checks.Empty() {
		return nil, nil
	}

	ctx, task := trace.NewTask(context.Background(), "Definite")
	defer task.End()

	trace.Log(ctx, "package", p.Pkg.Path())

	l := lower.New(p.Pkg, p.TypesInfo, in)

	methods := r.lowerFiles(p, in, l)
	if len(methods) == 0 {
		return nil, nil
	}

	comp := l.Compilation(p.Pkg.Path(), methods)

	fields := r.Checks.Enabled(config.FieldsCheck)

	rep, err := engine.AnalyzeAll(ctx, comp, engine.WithFieldsNeverAssigned(fields))
	if err != nil {
		return nil, fmt.Errorf("definite: %w", err)
	}

	ds := rep.Diagnostics
	if fields {
		ds = withoutExportedFields(ds)
	}

	filter := report.Filter{Checks: r.Checks, Behavior: r.Behavior, MinSeverity: r.MinSeverity}
	report.Diagnostics(ctx, p, astutil.NewFiles(p.Fset, p.Files), ds, filter)

	return nil, nil
}

// lowerFiles lowers all function declarations not excluded by nolint directives or generated files.
func (r *Options) lowerFiles(p *analysis.Pass, in *inspector.Inspector, l *lower.Lowerer) []*bound.Method {
	var methods []*bound.Method

	for f := range in.Root().Children() {
		file := f.Node().(*ast.File)

		currentFile := astutil.NewCurrentFile(p.Fset, file)
		if !currentFile.Valid() {
			astutil.InternalError(p, file, "File %s without valid info", file.Name.Name)

			continue
		}

		if currentFile.Generated() && !r.Behavior.Enabled(config.IncludeGenerated) || currentFile.NoLint() {
			continue
		}

		for c := range f.Preorder((*ast.FuncDecl)(nil)) {
			fun := c.Node().(*ast.FuncDecl)
			if fun.Body == nil || astutil.NoLintDoc(fun.Doc) {
				continue
			}

			methods = append(methods, l.Func(fun))
		}
	}

	return methods
}

// withoutExportedFields drops never assigned reports for exported fields, which other packages may assign.
func withoutExportedFields(ds []diag.Diagnostic) []diag.Diagnostic {
	kept := ds[:0:0]

	for _, d := range ds {
		if d.Kind == diag.FieldNeverAssigned {
			_, name, _ := strings.Cut(d.Arg(), ".")
			if token.IsExported(name) {
				continue
			}
		}

		kept = append(kept, d)
	}

	return kept
}
