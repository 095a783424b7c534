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


package config_test

import (
	"testing"

	"github.com/nalgeon/be"

	. "fillmore-labs.com/definite/internal/config"
	"fillmore-labs.com/definite/internal/diag"
)

func TestBitMask(t *testing.T) {
	t.Parallel()

	b := NewBitMask(UnassignedCheck, UnusedCheck)
	be.True(t, b.Enabled(UnassignedCheck))
	be.True(t, !b.Enabled(FieldsCheck))
	be.True(t, b.Enabled(UnusedCheck|FieldsCheck))

	b.Set(UnassignedCheck, false)
	b.Set(UnusedCheck, false)
	be.True(t, b.Empty())
}

func TestDefaultChecks(t *testing.T) {
	t.Parallel()

	c := DefaultChecks()
	be.True(t, c.Enabled(UnassignedCheck))
	be.True(t, !c.Enabled(FieldsCheck))
}

func TestCheckOf(t *testing.T) {
	t.Parallel()

	tests := [...]struct {
		kind diag.Kind
		want Check
	}{
		{diag.UseOfUnassignedField, UnassignedCheck},
		{diag.UnassignedThisField, UnassignedCheck},
		{diag.UnreachableCode, UnreachableCheck},
		{diag.UnusedLocalFunction, UnusedCheck},
		{diag.FieldNeverAssigned, FieldsCheck},
		{diag.SwitchFallthrough, StructureCheck},
		{diag.UndefinedLabel, StructureCheck},
	}

	for _, tt := range tests {
		be.Equal(t, CheckOf(tt.kind), tt.want)
	}

	for _, k := range diag.Kinds() {
		be.True(t, CheckOf(k) != 0)
	}
}
