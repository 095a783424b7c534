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

// Package bound defines the bound, type-checked statement and expression tree
// consumed by the flow analysis.
//
// Statements, expressions and patterns are closed sets: every kind is a pointer
// to a struct declared here, and consumers switch exhaustively over them.
// Symbols ([Local], [Parameter], [Field]) are compared by identity.
package bound
