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

package slot

import "fillmore-labs.com/definite/internal/bound"

// TriviallyAssigned reports whether variables of type t never need tracking:
// invalid and untracked types, and struct types without state, directly or transitively.
func (m *Model) TriviallyAssigned(t *bound.Type) bool {
	switch {
	case t.IsInvalid():
		return true

	case t.Kind == bound.Untracked:
		return true

	case t.Kind != bound.Struct:
		return false
	}

	if trivial, ok := m.trivial[t]; ok {
		return trivial
	}

	// A cycle through value types cannot hold state of its own.
	m.trivial[t] = true

	trivial := true
	for _, f := range t.Fields {
		if f.Static || f.Alias != nil {
			continue
		}

		if !m.TriviallyAssigned(f.Type) {
			trivial = false

			break
		}
	}

	m.trivial[t] = trivial

	return trivial
}

// StateFields returns the fields of struct type t that carry assignment state.
func (m *Model) StateFields(t *bound.Type) []*bound.Field {
	if !t.IsStruct() {
		return nil
	}

	var fields []*bound.Field
	for _, f := range t.Fields {
		if f.Static || f.Alias != nil || m.TriviallyAssigned(f.Type) {
			continue
		}

		fields = append(fields, f)
	}

	return fields
}
