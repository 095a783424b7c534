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


package store

import (
	"context"
	"fmt"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

// Run is a stored analysis of one package.
type Run struct {
	ID      int64  `json:"id"`
	Package string `json:"package"`
	Created string `json:"created"`
}

// Method is the stored statistics of one analyzed method.
type Method struct {
	Name        string `json:"name"`
	File        string `json:"file,omitempty"`
	Line        int    `json:"line,omitempty"`
	Funcs       int    `json:"funcs"`
	Blocks      int    `json:"blocks"`
	Slots       int    `json:"slots"`
	Locals      int    `json:"locals"`
	Diagnostics int    `json:"diagnostics"`
}

// Diagnostic is a stored diagnostic.
type Diagnostic struct {
	Method   string `json:"method,omitempty"`
	Kind     string `json:"kind"`
	Code     string `json:"code"`
	Severity string `json:"severity"`
	File     string `json:"file,omitempty"`
	Line     int    `json:"line,omitempty"`
	Column   int    `json:"column,omitempty"`
	Arg      string `json:"arg,omitempty"`
	Message  string `json:"message"`
}

// Runs lists all runs, most recent first.
func (s *Store) Runs(ctx context.Context) ([]Run, error) {
	defer s.lock(ctx)()

	var runs []Run

	err := sqlitex.Execute(s.conn, `SELECT id, package, created FROM runs ORDER BY id DESC`,
		&sqlitex.ExecOptions{ResultFunc: func(stmt *sqlite.Stmt) error {
			runs = append(runs, Run{ID: stmt.ColumnInt64(0), Package: stmt.ColumnText(1), Created: stmt.ColumnText(2)})

			return nil
		}})
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}

	return runs, nil
}

// Methods lists the methods of a run in analysis order.
func (s *Store) Methods(ctx context.Context, run int64) ([]Method, error) {
	defer s.lock(ctx)()

	if err := s.exists(run); err != nil {
		return nil, err
	}

	var ms []Method

	err := sqlitex.Execute(s.conn,
		`SELECT name, file, line, funcs, blocks, slots, locals, diagnostics
		 FROM methods WHERE run_id = ? ORDER BY rowid`,
		&sqlitex.ExecOptions{
			Args: []any{run},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				ms = append(ms, Method{
					Name:        stmt.ColumnText(0),
					File:        stmt.ColumnText(1),
					Line:        stmt.ColumnInt(2),
					Funcs:       stmt.ColumnInt(3),
					Blocks:      stmt.ColumnInt(4),
					Slots:       stmt.ColumnInt(5),
					Locals:      stmt.ColumnInt(6),
					Diagnostics: stmt.ColumnInt(7),
				})

				return nil
			},
		})
	if err != nil {
		return nil, fmt.Errorf("query methods of run %d: %w", run, err)
	}

	return ms, nil
}

// Diagnostics lists the diagnostics of a run ordered by position.
func (s *Store) Diagnostics(ctx context.Context, run int64) ([]Diagnostic, error) {
	defer s.lock(ctx)()

	if err := s.exists(run); err != nil {
		return nil, err
	}

	var ds []Diagnostic

	err := sqlitex.Execute(s.conn,
		`SELECT method, kind, code, severity, file, line, col, arg, message
		 FROM diagnostics WHERE run_id = ? ORDER BY file, line, col, rowid`,
		&sqlitex.ExecOptions{
			Args: []any{run},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				ds = append(ds, Diagnostic{
					Method:   stmt.ColumnText(0),
					Kind:     stmt.ColumnText(1),
					Code:     stmt.ColumnText(2),
					Severity: stmt.ColumnText(3),
					File:     stmt.ColumnText(4),
					Line:     stmt.ColumnInt(5),
					Column:   stmt.ColumnInt(6),
					Arg:      stmt.ColumnText(7),
					Message:  stmt.ColumnText(8),
				})

				return nil
			},
		})
	if err != nil {
		return nil, fmt.Errorf("query diagnostics of run %d: %w", run, err)
	}

	return ds, nil
}

// CountByCode returns the number of diagnostics of a run per diagnostic code.
func (s *Store) CountByCode(ctx context.Context, run int64) (map[string]int, error) {
	defer s.lock(ctx)()

	if err := s.exists(run); err != nil {
		return nil, err
	}

	counts := make(map[string]int)

	err := sqlitex.Execute(s.conn,
		`SELECT code, COUNT(*) FROM diagnostics WHERE run_id = ? GROUP BY code`,
		&sqlitex.ExecOptions{
			Args: []any{run},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				counts[stmt.ColumnText(0)] = stmt.ColumnInt(1)

				return nil
			},
		})
	if err != nil {
		return nil, fmt.Errorf("count diagnostics of run %d: %w", run, err)
	}

	return counts, nil
}

// Delete removes a run with its methods and diagnostics.
func (s *Store) Delete(ctx context.Context, run int64) error {
	defer s.lock(ctx)()

	if err := sqlitex.Execute(s.conn, `DELETE FROM runs WHERE id = ?`, &sqlitex.ExecOptions{Args: []any{run}}); err != nil {
		return fmt.Errorf("delete run %d: %w", run, err)
	}

	if s.conn.Changes() == 0 {
		return fmt.Errorf("run %d: %w", run, ErrNotFound)
	}

	return nil
}

func (s *Store) exists(run int64) error {
	found := false

	err := sqlitex.Execute(s.conn, `SELECT 1 FROM runs WHERE id = ?`,
		&sqlitex.ExecOptions{
			Args:       []any{run},
			ResultFunc: func(*sqlite.Stmt) error { found = true; return nil },
		})
	if err != nil {
		return fmt.Errorf("query run %d: %w", run, err)
	}

	if !found {
		return fmt.Errorf("run %d: %w", run, ErrNotFound)
	}

	return nil
}
