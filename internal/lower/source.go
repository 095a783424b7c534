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

package lower

import (
	"context"
	"errors"
	"fmt"
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"

	"golang.org/x/tools/go/ast/inspector"
	"golang.org/x/tools/go/packages"

	"fillmore-labs.com/definite/internal/bound"
)

var (
	// ErrParse is returned when source code can't be parsed.
	ErrParse = errors.New("parse error")

	// ErrTypeCheck is returned when source code has type errors.
	ErrTypeCheck = errors.New("type check error")
)

// Package is a type-checked package ready for lowering.
type Package struct {
	Fset  *token.FileSet
	Files []*ast.File
	Types *types.Package
	Info  *types.Info
}

// NewInfo returns type information with all maps the lowering needs.
func NewInfo() *types.Info {
	return &types.Info{
		Types:      make(map[ast.Expr]types.TypeAndValue),
		Defs:       make(map[*ast.Ident]types.Object),
		Uses:       make(map[*ast.Ident]types.Object),
		Implicits:  make(map[ast.Node]types.Object),
		Selections: make(map[*ast.SelectorExpr]*types.Selection),
		Instances:  make(map[*ast.Ident]types.Instance),
		Scopes:     make(map[ast.Node]*types.Scope),
	}
}

// ParseSource parses and type-checks a single file package.
func ParseSource(filename string, src []byte) (*Package, error) {
	fset := token.NewFileSet()

	f, err := parser.ParseFile(fset, filename, src, parser.ParseComments|parser.SkipObjectResolution)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}

	var errs []error

	conf := types.Config{
		Importer: importer.Default(),
		Error:    func(err error) { errs = append(errs, err) },
	}

	info := NewInfo()

	pkg, _ := conf.Check(f.Name.Name, fset, []*ast.File{f}, info)
	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrTypeCheck, errors.Join(errs...))
	}

	return &Package{Fset: fset, Files: []*ast.File{f}, Types: pkg, Info: info}, nil
}

// Load loads and type-checks the packages matching patterns, relative to dir.
func Load(ctx context.Context, dir string, patterns ...string) ([]*Package, error) {
	const mode = packages.NeedName | packages.NeedFiles | packages.NeedSyntax |
		packages.NeedTypes | packages.NeedTypesInfo | packages.NeedImports | packages.NeedDeps

	cfg := &packages.Config{Context: ctx, Dir: dir, Mode: mode}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("can't load packages: %w", err)
	}

	var errs []error

	result := make([]*Package, 0, len(pkgs))
	for _, p := range pkgs {
		if len(p.Errors) > 0 {
			for _, e := range p.Errors {
				errs = append(errs, fmt.Errorf("%s: %w", p.PkgPath, e))
			}

			continue
		}

		result = append(result, &Package{Fset: p.Fset, Files: p.Syntax, Types: p.Types, Info: p.TypesInfo})
	}

	if len(errs) > 0 {
		return result, fmt.Errorf("%w: %w", ErrTypeCheck, errors.Join(errs...))
	}

	return result, nil
}

// Compile lowers all functions of the package.
func (p *Package) Compile() *bound.Compilation {
	in := inspector.New(p.Files)

	return New(p.Types, p.Info, in).Compile(p.Types.Path(), in)
}

// FuncDecls returns the function declarations with a body, in source order.
func (p *Package) FuncDecls() []*ast.FuncDecl {
	var decls []*ast.FuncDecl

	for _, f := range p.Files {
		for _, d := range f.Decls {
			if fd, ok := d.(*ast.FuncDecl); ok && fd.Body != nil {
				decls = append(decls, fd)
			}
		}
	}

	return decls
}
