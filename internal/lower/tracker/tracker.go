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

// Package tracker identifies calls that never return to the caller.
package tracker

import (
	"go/ast"
	"go/types"
)

// Tracker classifies calls using the type information of a package.
type Tracker struct {
	info *types.Info
}

// New creates a [Tracker] for the given type information.
func New(info *types.Info) Tracker {
	return Tracker{info: info}
}

// Termination reports how the call n ends the calling goroutine.
func (t Tracker) Termination(n *ast.CallExpr) Termination {
	return TerminationOf(t.info, n)
}

// CantReturn reports whether the call n never returns normally.
func (t Tracker) CantReturn(n *ast.CallExpr) bool {
	return t.Termination(n) != Returns
}
