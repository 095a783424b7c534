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

import (
	"strings"

	"fillmore-labs.com/definite/internal/bound"
)

// Slot identifies a trackable storage location.
type Slot int32

// Opaque is the slot of locations that never need assignment tracking.
// It is always considered assigned.
const Opaque Slot = 0

// Valid reports whether s is a tracked slot.
func (s Slot) Valid() bool { return s > Opaque }

// Path is a variable or a chain of member accesses rooted at a variable.
type Path struct {
	Root   bound.Symbol
	Fields []*bound.Field
}

// Model is an arena of slots for one method analysis.
//
// Field slots reference their parent by index, so cyclic struct types never
// produce cyclic slot data.
type Model struct {
	entries []entry
	index   map[key]Slot
	trivial map[*bound.Type]bool // trivially assigned types, computed lazily
}

type entry struct {
	symbol   bound.Symbol // *bound.Local, *bound.Parameter or canonical *bound.Field
	parent   Slot
	children []Slot
}

type key struct {
	parent Slot
	symbol bound.Symbol
}

// New creates an empty [Model].
func New() *Model {
	return &Model{
		entries: make([]entry, 1, 16), // Opaque
		index:   make(map[key]Slot),
		trivial: make(map[*bound.Type]bool),
	}
}

// Len returns the number of slots, including [Opaque].
func (m *Model) Len() int { return len(m.entries) }

// Allocate returns the stable slot for p.
// Paths through untracked, invalid, reference or trivially assigned types yield [Opaque].
func (m *Model) Allocate(p Path) Slot {
	s := m.Variable(p.Root)
	for _, f := range p.Fields {
		s = m.Field(s, f)
	}

	return s
}

// Variable returns the slot of a local or parameter.
func (m *Model) Variable(sym bound.Symbol) Slot {
	if sym == nil || m.TriviallyAssigned(sym.SymbolType()) {
		return Opaque
	}

	return m.lookupOrAdd(Opaque, sym)
}

// Field returns the slot of field f of the struct in slot parent.
func (m *Model) Field(parent Slot, f *bound.Field) Slot {
	if !parent.Valid() || f.Static || !m.Type(parent).IsStruct() {
		return Opaque
	}

	f = f.Canonical()
	if m.TriviallyAssigned(f.Type) {
		return Opaque
	}

	return m.lookupOrAdd(parent, f)
}

// Lookup returns the slot of field f of parent without allocating.
func (m *Model) Lookup(parent Slot, f *bound.Field) (Slot, bool) {
	s, ok := m.index[key{parent, f.Canonical()}]

	return s, ok
}

func (m *Model) lookupOrAdd(parent Slot, sym bound.Symbol) Slot {
	k := key{parent, sym}
	if s, ok := m.index[k]; ok {
		return s
	}

	s := Slot(len(m.entries))
	m.entries = append(m.entries, entry{symbol: sym, parent: parent})
	m.index[k] = s

	if parent.Valid() {
		m.entries[parent].children = append(m.entries[parent].children, s)
	}

	return s
}

// IsStructField reports whether s is a field slot.
func (m *Model) IsStructField(s Slot) bool {
	return s.Valid() && m.entries[s].parent.Valid()
}

// FieldsOf returns the allocated field slots of a struct slot.
func (m *Model) FieldsOf(s Slot) []Slot {
	if !s.Valid() {
		return nil
	}

	return m.entries[s].children
}

// Parent returns the containing struct slot of a field slot, or [Opaque].
func (m *Model) Parent(s Slot) Slot {
	if !s.Valid() {
		return Opaque
	}

	return m.entries[s].parent
}

// Root returns the variable slot s belongs to.
func (m *Model) Root(s Slot) Slot {
	for p := m.Parent(s); p.Valid(); p = m.Parent(s) {
		s = p
	}

	return s
}

// Symbol returns the symbol of s.
func (m *Model) Symbol(s Slot) bound.Symbol {
	if !s.Valid() {
		return nil
	}

	return m.entries[s].symbol
}

// Type returns the type of the location s.
func (m *Model) Type(s Slot) *bound.Type {
	if !s.Valid() {
		return nil
	}

	return m.entries[s].symbol.SymbolType()
}

// Name returns a dotted path name for s.
func (m *Model) Name(s Slot) string {
	if !s.Valid() {
		return "<opaque>"
	}

	var names []string
	for ; s.Valid(); s = m.Parent(s) {
		names = append(names, m.entries[s].symbol.SymbolName())
	}

	var b strings.Builder
	for i := len(names) - 1; i >= 0; i-- {
		b.WriteString(names[i])
		if i > 0 {
			b.WriteByte('.')
		}
	}

	return b.String()
}

// Descendants calls f for every allocated field slot below s, parents before children.
func (m *Model) Descendants(s Slot, f func(Slot)) {
	for _, c := range m.FieldsOf(s) {
		f(c)
		m.Descendants(c, f)
	}
}

// Mirror allocates the field slots below dst that correspond to the allocated
// field slots below src, returning whether any new slot was allocated.
func (m *Model) Mirror(dst, src Slot) bool {
	if !dst.Valid() || !src.Valid() {
		return false
	}

	added := false
	for _, c := range m.FieldsOf(src) {
		f := m.entries[c].symbol.(*bound.Field)

		n := len(m.entries)
		d := m.Field(dst, f)
		if len(m.entries) > n {
			added = true
		}

		if m.Mirror(d, c) {
			added = true
		}
	}

	return added
}

// Counterpart returns the slot below dst corresponding to the field slot c below src.
func (m *Model) Counterpart(dst Slot, c Slot) (Slot, bool) {
	if !dst.Valid() {
		return Opaque, false
	}

	f, ok := m.entries[c].symbol.(*bound.Field)
	if !ok {
		return Opaque, false
	}

	return m.Lookup(dst, f)
}
