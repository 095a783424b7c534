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

package lower

import (
	"go/token"
	"go/types"

	"golang.org/x/tools/go/types/typeutil"

	"fillmore-labs.com/definite/internal/bound"
)

// typeMap maps Go types to bound types. Identical types share a bound type.
type typeMap struct {
	pkg     *types.Package
	qual    types.Qualifier
	types   typeutil.Map
	fields  map[*types.Var]*bound.Field
	structs []*bound.Type // struct types declared in pkg, in order of first use
}

func newTypeMap(pkg *types.Package) *typeMap {
	return &typeMap{
		pkg:    pkg,
		qual:   types.RelativeTo(pkg),
		fields: make(map[*types.Var]*bound.Field),
	}
}

var (
	invalidType   = &bound.Type{Name: "invalid type", Kind: bound.Invalid}
	untrackedType = &bound.Type{Name: "untracked", Kind: bound.Untracked}
	nilType       = &bound.Type{Name: "untyped nil", Kind: bound.Reference}
)

// typ returns the bound type of t.
//
// Arrays and slices are untracked, since appending to or indexing a zero value is idiomatic.
// Struct types track the fields accessible from the analyzed package.
func (m *typeMap) typ(t types.Type) *bound.Type {
	if t == nil {
		return invalidType
	}

	if bt, ok := m.types.At(t).(*bound.Type); ok {
		return bt
	}

	bt := &bound.Type{Name: types.TypeString(t, m.qual)}
	m.types.Set(t, bt)

	switch u := t.Underlying().(type) {
	case *types.Basic:
		switch {
		case u.Kind() == types.Invalid:
			bt.Kind = bound.Invalid

		case u.Kind() == types.UntypedNil, u.Kind() == types.UnsafePointer:
			bt.Kind = bound.Reference

		default:
			bt.Kind = bound.Scalar
		}

	case *types.Struct:
		bt.Kind = bound.Struct
		bt.ImplicitConstructor = true

		named, _ := types.Unalias(t).(*types.Named)
		generic := named != nil && (named.TypeParams().Len() > 0 || named.TypeArgs().Len() > 0)

		for f := range u.Fields() {
			if !m.accessible(f) {
				continue
			}

			bf := m.field(f)
			if generic {
				bf.Pos = token.NoPos // not reported for generic types
			}

			if bf.Type.IsInvalid() {
				bt.Kind = bound.Invalid
			}

			bt.Fields = append(bt.Fields, bf)
		}

		if named != nil && named.Obj().Pkg() == m.pkg {
			m.structs = append(m.structs, bt)
		}

	case *types.Array, *types.Slice, *types.Tuple:
		bt.Kind = bound.Untracked

	case *types.Pointer, *types.Map, *types.Chan, *types.Signature, *types.Interface:
		bt.Kind = bound.Reference

	case *types.TypeParam:
		bt.Kind = bound.Scalar

	default:
		bt.Kind = bound.Invalid
	}

	return bt
}

// accessible reports whether the field can be assigned from the analyzed package.
func (m *typeMap) accessible(f *types.Var) bool {
	return f.Exported() || f.Pkg() == m.pkg
}

// field returns the bound field of a struct field.
// Only fields declared in the analyzed package carry a position.
func (m *typeMap) field(f *types.Var) *bound.Field {
	if bf, ok := m.fields[f]; ok {
		return bf
	}

	bf := &bound.Field{Name: f.Name()}
	if f.Pkg() == m.pkg {
		bf.Pos = f.Pos()
	}

	m.fields[f] = bf
	bf.Type = m.typ(f.Type())

	return bf
}
