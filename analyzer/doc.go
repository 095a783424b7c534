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


// Package analyzer implements the definite static analysis pass.
//
// # Overview
//
// Go zero-initializes every variable, so reading a variable before writing it
// is legal. Often it is still a mistake: a branch forgot to set the value.
// Definite treats a variable declared without initializer as unassigned and
// reports reads that are not preceded by a write on every path.
//
// # Example
//
//	func status(code int) string {
//	    var s string
//	    switch code {
//	    case 200:
//	        s = "ok"
//	    case 404:
//	        s = "not found"
//	    }
//	    return s // Use of unassigned variable 's' (df:uav)
//	}
//
// # Checks
//
//   - unassigned: reads of locals and struct fields that are not definitely assigned
//   - unreachable: statements control never reaches
//   - unused: unused locals, local functions and labels
//   - fields: unexported struct fields never assigned in the package (off by default)
//
// Diagnostics are suppressed with a //nolint:definite comment on the line,
// in the doc comment of a function or in the package comment of a file.
package analyzer
