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


package config

// Check selects a group of flow analysis diagnostics.
type Check uint8

const (
	// UnassignedCheck reports reads of variables and fields that are not definitely assigned.
	UnassignedCheck Check = 1 << iota

	// UnreachableCheck reports statements control can never reach.
	UnreachableCheck

	// UnusedCheck reports unused locals, local functions and labels.
	UnusedCheck

	// FieldsCheck reports struct fields never assigned in the package.
	FieldsCheck

	// StructureCheck reports invalid branches, undefined labels and switch fall through.
	StructureCheck
)

// Checks is the set of enabled checks.
type Checks = BitMask[Check]

// DefaultChecks returns the checks enabled unless configured otherwise.
func DefaultChecks() Checks {
	return NewBitMask(UnassignedCheck, UnreachableCheck, UnusedCheck, StructureCheck)
}

// Config represents behavioral options.
type Config uint8

const (
	// IncludeGenerated specifies whether to include analysis of generated files.
	IncludeGenerated Config = 1 << iota
)

// Behavior holds the enabled behavioral options.
type Behavior = BitMask[Config]

// DefaultBehavior returns the default behavioral options.
func DefaultBehavior() Behavior {
	return NewBitMask[Config]()
}
