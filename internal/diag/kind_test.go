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

package diag_test

import (
	"testing"

	"github.com/nalgeon/be"

	. "fillmore-labs.com/definite/internal/diag"
)

func TestKindText(t *testing.T) {
	t.Parallel()

	codes := make(map[string]Kind)

	for _, k := range Kinds() {
		if other, ok := codes[k.Code()]; ok {
			t.Errorf("Kinds %v and %v share code %q", k, other, k.Code())
		}
		codes[k.Code()] = k

		var byCode Kind
		be.Err(t, byCode.UnmarshalText([]byte(k.Code())), nil)
		be.Equal(t, byCode, k)
	}

	var k Kind
	be.Err(t, k.UnmarshalText([]byte("useofunassignedvariable")), nil)
	be.Equal(t, k, UseOfUnassignedVariable)

	be.True(t, k.UnmarshalText([]byte("bogus")) != nil)
}

func TestSeverityText(t *testing.T) {
	t.Parallel()

	var s Severity
	be.Err(t, s.UnmarshalText([]byte("ERROR")), nil)
	be.Equal(t, s, Error)
	be.True(t, s.AtLeast(Warning))
	be.True(t, !Info.AtLeast(Warning))

	_, err := Severity(7).MarshalText()
	be.True(t, err != nil)
}

func TestMessage(t *testing.T) {
	t.Parallel()

	d := New(UseOfUnassignedVariable, 1, 2, "x")
	be.Equal(t, d.Message(), "Use of unassigned variable 'x'")
	be.Equal(t, New(UnreachableCode, 1, 2).Message(), "Unreachable code detected")
}
