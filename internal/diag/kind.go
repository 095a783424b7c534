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

package diag

import (
	"fmt"
	"strings"
)

// Kind classifies a [Diagnostic].
type Kind uint8

const (
	// UseOfUnassignedVariable is a read of a local variable or parameter that is not definitely assigned.
	UseOfUnassignedVariable Kind = iota

	// UseOfUnassignedField is a read of a struct field that is not definitely assigned.
	UseOfUnassignedField

	// UseOfUnassignedOut is a read of an out parameter before it is assigned.
	UseOfUnassignedOut

	// UseOfThisBeforeAssigned is a use of this in a struct constructor before all fields are assigned.
	UseOfThisBeforeAssigned

	// UnassignedOutParameter is an out parameter not assigned when control leaves the function.
	UnassignedOutParameter

	// UnassignedThisField is a field not assigned when control leaves a struct constructor.
	UnassignedThisField

	// InvalidBranchTarget is a break, continue or goto case without target.
	InvalidBranchTarget

	// UndefinedLabel is a goto to a label that does not exist.
	UndefinedLabel

	// SwitchFallthrough is control falling through from one switch section to the next.
	SwitchFallthrough

	// RefOfNonVariable passes something by ref or out that is not a variable.
	RefOfNonVariable

	// UnreachableCode is the first statement of a run of unreachable statements.
	UnreachableCode

	// VariableDeclaredNeverUsed is a local variable that is never read or written.
	VariableDeclaredNeverUsed

	// VariableAssignedNeverUsed is a local variable only assigned values without side effects and never read.
	VariableAssignedNeverUsed

	// UnusedLocalFunction is a local function never called or converted.
	UnusedLocalFunction

	// FieldNeverAssigned is a struct field never assigned anywhere in the compilation.
	FieldNeverAssigned

	// UnreferencedLabel is a label no goto refers to.
	UnreferencedLabel

	numKinds
)

type kindInfo struct {
	name     string
	code     string
	severity Severity
	format   string
}

var kinds = [numKinds]kindInfo{
	UseOfUnassignedVariable:   {"UseOfUnassignedVariable", "uav", Error, "Use of unassigned variable '%s'"},
	UseOfUnassignedField:      {"UseOfUnassignedField", "uaf", Error, "Use of possibly unassigned field '%s'"},
	UseOfUnassignedOut:        {"UseOfUnassignedOut", "uao", Error, "Use of unassigned out parameter '%s'"},
	UseOfThisBeforeAssigned:   {"UseOfThisBeforeAssigned", "utb", Error, "Use of '%s' before all of its fields are assigned"},
	UnassignedOutParameter:    {"UnassignedOutParameter", "uop", Error, "The out parameter '%s' must be assigned before control leaves the function"},
	UnassignedThisField:       {"UnassignedThisField", "utf", Error, "Field '%s' must be fully assigned before control is returned to the caller"},
	InvalidBranchTarget:       {"InvalidBranchTarget", "ibt", Error, "No enclosing target for '%s'"},
	UndefinedLabel:            {"UndefinedLabel", "udl", Error, "No such label '%s' within the scope of the goto statement"},
	SwitchFallthrough:         {"SwitchFallthrough", "swf", Error, "Control cannot fall through from one case label to another"},
	RefOfNonVariable:          {"RefOfNonVariable", "rnv", Error, "A ref or out argument must be an assignable variable"},
	UnreachableCode:           {"UnreachableCode", "unr", Warning, "Unreachable code detected"},
	VariableDeclaredNeverUsed: {"VariableDeclaredNeverUsed", "dnu", Warning, "The variable '%s' is declared but never used"},
	VariableAssignedNeverUsed: {"VariableAssignedNeverUsed", "anu", Warning, "The variable '%s' is assigned but its value is never used"},
	UnusedLocalFunction:       {"UnusedLocalFunction", "ulf", Warning, "The local function '%s' is declared but never used"},
	FieldNeverAssigned:        {"FieldNeverAssigned", "fna", Warning, "Field '%s' is never assigned to, and will always have its default value"},
	UnreferencedLabel:         {"UnreferencedLabel", "url", Warning, "The label '%s' has not been referenced"},
}

// Kinds returns all diagnostic kinds.
func Kinds() []Kind {
	ks := make([]Kind, numKinds)
	for i := range ks {
		ks[i] = Kind(i)
	}

	return ks
}

func (k Kind) String() string {
	if k < numKinds {
		return kinds[k].name
	}

	return fmt.Sprintf("Kind(%d)", k)
}

// Code is a short identifier used in messages.
func (k Kind) Code() string {
	if k < numKinds {
		return kinds[k].code
	}

	return "???"
}

// Severity returns the default severity of k.
func (k Kind) Severity() Severity {
	if k < numKinds {
		return kinds[k].severity
	}

	return Error
}

// MarshalText implements [encoding.TextMarshaler].
func (k Kind) MarshalText() ([]byte, error) {
	if k >= numKinds {
		return nil, fmt.Errorf("unknown diagnostic kind %d", k)
	}

	return []byte(kinds[k].name), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler]. It accepts names and codes, ignoring case.
func (k *Kind) UnmarshalText(text []byte) error {
	s := string(text)
	for i, info := range kinds {
		if strings.EqualFold(s, info.name) || strings.EqualFold(s, info.code) {
			*k = Kind(i)

			return nil
		}
	}

	return fmt.Errorf("unknown diagnostic kind %q", s)
}
