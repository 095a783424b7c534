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


package astutil

import (
	"go/ast"
	"go/token"
	"regexp"
	"slices"
	"strings"
)

// linter is the name used in nolint directives.
const linter = "definite"

// CurrentFile holds per-file information needed when reporting.
type CurrentFile struct {
	file      *ast.File
	handle    *token.File
	generated bool
}

// NewCurrentFile creates a [CurrentFile] from a [token.FileSet] and an *[ast.File].
func NewCurrentFile(fset *token.FileSet, file *ast.File) CurrentFile {
	if file == nil {
		return CurrentFile{}
	}

	handle := fset.File(file.FileStart)
	if handle == nil {
		return CurrentFile{}
	}

	return CurrentFile{file: file, handle: handle, generated: ast.IsGenerated(file)}
}

// Valid reports whether the file handle could be resolved.
func (c CurrentFile) Valid() bool {
	return c.handle != nil
}

// Generated reports whether the file is generated.
func (c CurrentFile) Generated() bool {
	return c.generated
}

// Contains reports whether pos lies in this file.
func (c CurrentFile) Contains(pos token.Pos) bool {
	return c.file != nil && c.file.FileStart <= pos && pos <= c.file.FileEnd
}

// NoLint reports whether the whole file is excluded by a nolint directive in its package comment.
func (c CurrentFile) NoLint() bool {
	return c.file != nil && NoLintDoc(c.file.Doc)
}

func (c CurrentFile) line(pos token.Pos) int {
	return c.handle.PositionFor(pos, false).Line
}

// NoLintComment reports whether the line of pos carries a //nolint:definite comment after pos.
func (c CurrentFile) NoLintComment(pos token.Pos) bool {
	if c.file == nil {
		return false
	}

	i, _ := slices.BinarySearchFunc(c.file.Comments, pos,
		func(c *ast.CommentGroup, p token.Pos) int { return int(c.Pos() - p) })
	if i >= len(c.file.Comments) {
		return false
	}

	comment := c.file.Comments[i].List[0]
	if c.line(comment.Pos()) != c.line(pos) {
		return false
	}

	return CommentHasNoLint(comment)
}

// NoLintDoc reports whether the last line of a doc comment is a nolint directive.
func NoLintDoc(doc *ast.CommentGroup) bool {
	return doc != nil && CommentHasNoLint(doc.List[len(doc.List)-1])
}

var nolintPattern = regexp.MustCompile(`^//\s*nolint:([a-zA-Z0-9,_-]+)`)

// CommentHasNoLint checks whether comment is a nolint directive naming this linter or "all".
func CommentHasNoLint(comment *ast.Comment) bool {
	matches := nolintPattern.FindStringSubmatch(comment.Text)
	if matches == nil {
		return false
	}

	for name := range strings.SplitSeq(matches[1], ",") {
		if l := strings.ToLower(strings.TrimSpace(name)); l == linter || l == "all" {
			return true
		}
	}

	return false
}

// Files locates the [CurrentFile] of a position.
type Files []CurrentFile

// NewFiles collects the valid files of a package.
func NewFiles(fset *token.FileSet, files []*ast.File) Files {
	fs := make(Files, 0, len(files))

	for _, f := range files {
		if cf := NewCurrentFile(fset, f); cf.Valid() {
			fs = append(fs, cf)
		}
	}

	return fs
}

// Of returns the file containing pos.
func (fs Files) Of(pos token.Pos) (CurrentFile, bool) {
	for _, f := range fs {
		if f.Contains(pos) {
			return f, true
		}
	}

	return CurrentFile{}, false
}
