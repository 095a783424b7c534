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


package store_test

import (
	"testing"

	"github.com/nalgeon/be"

	"fillmore-labs.com/definite/internal/engine"
	"fillmore-labs.com/definite/internal/lower"
	. "fillmore-labs.com/definite/internal/store"
)

const src = `package p

type P struct{ x, y int }

func f(b bool) int {
	var x int
	if b {
		x = 1
	}
	return x
}

func g() P {
	var p P
	p.x = 1
	p.y = 2
	return p
}
`

func open(t *testing.T) *Store {
	t.Helper()

	s, err := Open(":memory:")
	be.Err(t, err, nil)
	t.Cleanup(func() { _ = s.Close() })

	return s
}

func save(t *testing.T, s *Store) int64 {
	t.Helper()

	pkg, err := lower.ParseSource("p.go", []byte(src))
	be.Err(t, err, nil)

	rep, err := engine.AnalyzeAll(t.Context(), pkg.Compile())
	be.Err(t, err, nil)

	id, err := s.Save(t.Context(), "p", pkg.Fset, rep)
	be.Err(t, err, nil)

	return id
}

func TestSaveAndQuery(t *testing.T) {
	t.Parallel()

	s := open(t)
	id := save(t, s)

	runs, err := s.Runs(t.Context())
	be.Err(t, err, nil)
	be.Equal(t, len(runs), 1)
	be.Equal(t, runs[0].ID, id)
	be.Equal(t, runs[0].Package, "p")

	ms, err := s.Methods(t.Context(), id)
	be.Err(t, err, nil)
	be.Equal(t, len(ms), 2)
	be.Equal(t, ms[0].Name, "f")
	be.Equal(t, ms[0].Line, 5)
	be.Equal(t, ms[0].Diagnostics, 1)
	be.Equal(t, ms[0].Funcs, 1)
	be.True(t, ms[0].Blocks > 0)

	ds, err := s.Diagnostics(t.Context(), id)
	be.Err(t, err, nil)
	be.Equal(t, len(ds), 1)
	be.Equal(t, ds[0].Code, "uav")
	be.Equal(t, ds[0].Arg, "x")
	be.Equal(t, ds[0].Method, "f")
	be.Equal(t, ds[0].Line, 10)
	be.Equal(t, ds[0].File, "p.go")
	be.Equal(t, ds[0].Message, "Use of unassigned variable 'x'")

	counts, err := s.CountByCode(t.Context(), id)
	be.Err(t, err, nil)
	be.Equal(t, counts, map[string]int{"uav": 1})
}

func TestNotFound(t *testing.T) {
	t.Parallel()

	s := open(t)

	_, err := s.Diagnostics(t.Context(), 42)
	be.Err(t, err, ErrNotFound)

	_, err = s.Methods(t.Context(), 42)
	be.Err(t, err, ErrNotFound)

	be.Err(t, s.Delete(t.Context(), 42), ErrNotFound)
}

func TestDelete(t *testing.T) {
	t.Parallel()

	s := open(t)
	id := save(t, s)

	be.Err(t, s.Delete(t.Context(), id), nil)

	runs, err := s.Runs(t.Context())
	be.Err(t, err, nil)
	be.Equal(t, len(runs), 0)

	_, err = s.Diagnostics(t.Context(), id)
	be.Err(t, err, ErrNotFound)
}
