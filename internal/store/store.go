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


// Package store persists flow analysis reports in a SQLite database.
package store

import (
	"context"
	"errors"
	"fmt"
	"go/token"
	"sync"
	"time"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"fillmore-labs.com/definite/internal/diag"
	"fillmore-labs.com/definite/internal/engine"
)

// ErrNotFound is returned when a requested run does not exist.
var ErrNotFound = errors.New("not found")

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id      INTEGER PRIMARY KEY,
	package TEXT NOT NULL,
	created TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS methods (
	run_id  INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	name    TEXT NOT NULL,
	file    TEXT,
	line    INTEGER,
	funcs   INTEGER NOT NULL,
	blocks  INTEGER NOT NULL,
	slots   INTEGER NOT NULL,
	locals  INTEGER NOT NULL,
	diagnostics INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS diagnostics (
	run_id   INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	method   TEXT,
	kind     TEXT NOT NULL,
	code     TEXT NOT NULL,
	severity TEXT NOT NULL,
	file     TEXT,
	line     INTEGER,
	col      INTEGER,
	arg      TEXT NOT NULL,
	message  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS diagnostics_run ON diagnostics(run_id, file, line);
CREATE INDEX IF NOT EXISTS methods_run ON methods(run_id);
`

// Store is a SQLite database of analysis runs. It is safe for concurrent use.
type Store struct {
	mu   sync.Mutex
	conn *sqlite.Conn
}

// Open opens or creates the database at path. The path ":memory:" opens a private in-memory database.
func Open(path string) (*Store, error) {
	flags := []sqlite.OpenFlags{sqlite.OpenReadWrite, sqlite.OpenCreate}
	if path == ":memory:" {
		flags = append(flags, sqlite.OpenMemory)
	} else {
		flags = append(flags, sqlite.OpenWAL)
	}

	conn, err := sqlite.OpenConn(path, flags...)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	for _, pragma := range [...]string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA temp_store = MEMORY",
	} {
		if err := sqlitex.ExecuteTransient(conn, pragma, nil); err != nil {
			_ = conn.Close()

			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}

	if err := sqlitex.ExecuteScript(conn, schema, nil); err != nil {
		_ = conn.Close()

		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{conn: conn}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.conn.Close()
}

// lock acquires the connection and makes long running statements observe ctx.
func (s *Store) lock(ctx context.Context) func() {
	s.mu.Lock()
	s.conn.SetInterrupt(ctx.Done())

	return func() {
		s.conn.SetInterrupt(nil)
		s.mu.Unlock()
	}
}

// Save stores the report of one package and returns the new run ID.
func (s *Store) Save(ctx context.Context, pkg string, fset *token.FileSet, rep *engine.Report) (id int64, err error) {
	defer s.lock(ctx)()

	endFn, err := sqlitex.ImmediateTransaction(s.conn)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer endFn(&err)

	err = sqlitex.Execute(s.conn, `INSERT INTO runs (package, created) VALUES (?, ?)`,
		&sqlitex.ExecOptions{Args: []any{pkg, time.Now().UTC().Format(time.RFC3339)}})
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}

	id = s.conn.LastInsertRowID()

	for _, r := range rep.Results {
		if err = s.insertMethod(id, fset, r); err != nil {
			return 0, err
		}

		for _, d := range r.Diagnostics {
			if err = s.insertDiagnostic(id, r.Method().Name, fset, d); err != nil {
				return 0, err
			}
		}
	}

	for _, d := range rep.Diagnostics {
		if d.Kind != diag.FieldNeverAssigned {
			continue
		}

		if err = s.insertDiagnostic(id, "", fset, d); err != nil {
			return 0, err
		}
	}

	return id, nil
}

func (s *Store) insertMethod(run int64, fset *token.FileSet, r *engine.Result) error {
	m, st := r.Method(), r.Stats()
	file, line, _ := position(fset, m.Pos())

	err := sqlitex.Execute(s.conn,
		`INSERT INTO methods (run_id, name, file, line, funcs, blocks, slots, locals, diagnostics)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		&sqlitex.ExecOptions{Args: []any{
			run, m.Name, nullText(file), nullInt(line),
			st.Funcs, st.Blocks, st.Slots, st.Locals, len(r.Diagnostics),
		}})
	if err != nil {
		return fmt.Errorf("insert method %s: %w", m.Name, err)
	}

	return nil
}

func (s *Store) insertDiagnostic(run int64, method string, fset *token.FileSet, d diag.Diagnostic) error {
	file, line, col := position(fset, d.Pos)

	err := sqlitex.Execute(s.conn,
		`INSERT INTO diagnostics (run_id, method, kind, code, severity, file, line, col, arg, message)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		&sqlitex.ExecOptions{Args: []any{
			run, nullText(method), d.Kind.String(), d.Kind.Code(), d.Severity.String(),
			nullText(file), nullInt(line), nullInt(col), d.Arg(), d.Message(),
		}})
	if err != nil {
		return fmt.Errorf("insert diagnostic %s: %w", d.Kind, err)
	}

	return nil
}

func position(fset *token.FileSet, pos token.Pos) (file string, line, col int) {
	if fset == nil || !pos.IsValid() {
		return "", 0, 0
	}

	p := fset.Position(pos)

	return p.Filename, p.Line, p.Column
}

func nullText(s string) any {
	if s == "" {
		return nil
	}

	return s
}

func nullInt(i int) any {
	if i == 0 {
		return nil
	}

	return i
}
