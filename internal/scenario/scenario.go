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


// Package scenario extracts flow analysis test scenarios from Markdown documents.
//
// A scenario starts with a heading "Test: name", followed by a fenced "go" block
// holding a complete source file and a fenced "want" block listing the expected
// diagnostics, one "line code argument" triple per line.
package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

const (
	fenceSource = "go"
	fenceWant   = "want"
	testPrefix  = "Test: "
)

// ErrFormat is returned for malformed scenario documents.
var ErrFormat = errors.New("malformed scenario")

// Expectation is one expected diagnostic.
type Expectation struct {
	Line int    // line in the source block, starting at 1
	Code string // short diagnostic code
	Arg  string // first diagnostic argument, possibly empty
}

func (e Expectation) String() string {
	if e.Arg == "" {
		return strconv.Itoa(e.Line) + " " + e.Code
	}

	return strconv.Itoa(e.Line) + " " + e.Code + " " + e.Arg
}

// Scenario is a single test case.
type Scenario struct {
	Name   string
	Line   int // line of the heading in the document
	Source string
	Want   []Expectation

	hasWant bool
}

// Extract parses a Markdown document and returns its scenarios in document order.
func Extract(doc []byte) ([]Scenario, error) {
	root := goldmark.New().Parser().Parse(text.NewReader(doc))

	var (
		scenarios []Scenario
		current   *Scenario
	)

	finish := func() error {
		if current == nil {
			return nil
		}

		if err := current.validate(); err != nil {
			return err
		}

		scenarios = append(scenarios, *current)
		current = nil

		return nil
	}

	err := ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch n := n.(type) {
		case *ast.Heading:
			title := headingText(n, doc)
			if !strings.HasPrefix(title, testPrefix) {
				return ast.WalkSkipChildren, nil
			}

			if err := finish(); err != nil {
				return ast.WalkStop, err
			}

			current = &Scenario{Name: strings.TrimPrefix(title, testPrefix), Line: lineOf(n, doc)}

			return ast.WalkSkipChildren, nil

		case *ast.FencedCodeBlock:
			return ast.WalkSkipChildren, current.fence(n, doc)
		}

		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}

	if err := finish(); err != nil {
		return nil, err
	}

	return scenarios, nil
}

func (s *Scenario) fence(n *ast.FencedCodeBlock, doc []byte) error {
	lang := string(n.Language(doc))
	line := lineOf(n, doc)

	if s == nil {
		if lang == fenceSource || lang == fenceWant {
			return fmt.Errorf("%w: line %d: %q fence outside of a test", ErrFormat, line, lang)
		}

		return nil
	}

	switch lang {
	case fenceSource:
		if s.Source != "" {
			return fmt.Errorf("%w: line %d: multiple source fences in test %q", ErrFormat, line, s.Name)
		}

		s.Source = blockText(n, doc)

	case fenceWant:
		if s.hasWant {
			return fmt.Errorf("%w: line %d: multiple want fences in test %q", ErrFormat, line, s.Name)
		}

		want, err := parseWant(blockText(n, doc))
		if err != nil {
			return fmt.Errorf("%w: line %d: test %q: %w", ErrFormat, line, s.Name, err)
		}

		s.Want, s.hasWant = want, true

	default:
		return fmt.Errorf("%w: line %d: unknown fence language %q in test %q", ErrFormat, line, lang, s.Name)
	}

	return nil
}

func (s *Scenario) validate() error {
	switch {
	case s.Source == "":
		return fmt.Errorf("%w: test %q has no source fence", ErrFormat, s.Name)

	case !s.hasWant:
		return fmt.Errorf("%w: test %q has no want fence", ErrFormat, s.Name)

	default:
		return nil
	}
}

func parseWant(body string) ([]Expectation, error) {
	want := []Expectation{}

	for l := range strings.Lines(body) {
		fields := strings.Fields(l)
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		if len(fields) < 2 || len(fields) > 3 {
			return nil, fmt.Errorf("expected \"line code [argument]\", got %q", strings.TrimSpace(l))
		}

		line, err := strconv.Atoi(fields[0])
		if err != nil || line < 1 {
			return nil, fmt.Errorf("invalid line number %q", fields[0])
		}

		e := Expectation{Line: line, Code: fields[1]}
		if len(fields) == 3 {
			e.Arg = fields[2]
		}

		want = append(want, e)
	}

	return want, nil
}

func headingText(n ast.Node, doc []byte) string {
	var buf bytes.Buffer

	_ = ast.Walk(n, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if t, ok := n.(*ast.Text); entering && ok {
			buf.Write(t.Segment.Value(doc))
		}

		return ast.WalkContinue, nil
	})

	return buf.String()
}

func blockText(n *ast.FencedCodeBlock, doc []byte) string {
	var buf bytes.Buffer

	lines := n.Lines()
	for i := range lines.Len() {
		seg := lines.At(i)
		buf.Write(seg.Value(doc))
	}

	return buf.String()
}

// lineOf returns the 1-based document line of the first content line of n.
func lineOf(n ast.Node, doc []byte) int {
	if n.Lines().Len() == 0 {
		return 1
	}

	start := n.Lines().At(0).Start

	return bytes.Count(doc[:min(start, len(doc))], []byte("\n")) + 1
}
