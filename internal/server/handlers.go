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


package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"go/token"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"fillmore-labs.com/definite/internal/bound"
	"fillmore-labs.com/definite/internal/diag"
	"fillmore-labs.com/definite/internal/engine"
	"fillmore-labs.com/definite/internal/flow/region"
	"fillmore-labs.com/definite/internal/lower"
	"fillmore-labs.com/definite/internal/store"
)

func (s *Server) handleKinds(w http.ResponseWriter, _ *http.Request) {
	kinds := diag.Kinds()
	views := make([]kindView, len(kinds))

	for i, k := range kinds {
		views[i] = kindView{Code: k.Code(), Name: k.String(), Severity: k.Severity().String()}
	}

	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	src, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxSource))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, err)
		return
	}

	a, err := s.analyze(r, src)
	if err != nil {
		s.analysisError(w, err)
		return
	}

	resp := newAnalyzeResponse(a)

	if r.URL.Query().Get("save") == "1" {
		if s.store == nil {
			writeError(w, http.StatusBadRequest, errors.New("no store configured"))
			return
		}

		id, err := s.store.Save(r.Context(), a.pkg.Types.Path(), a.pkg.Fset, a.report)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}

		resp.Run = id
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleControlFlow(w http.ResponseWriter, r *http.Request) {
	s.handleRegion(w, r, func(a *analysis, res *engine.Result, first, last bound.Stmt) (any, error) {
		sum, err := res.ControlFlow(first, last)
		if err != nil {
			return nil, err
		}

		return a.controlFlow(sum), nil
	})
}

func (s *Server) handleDataFlow(w http.ResponseWriter, r *http.Request) {
	s.handleRegion(w, r, func(_ *analysis, res *engine.Result, first, last bound.Stmt) (any, error) {
		sum, err := res.DataFlow(first, last)
		if err != nil {
			return nil, err
		}

		return dataFlow(sum), nil
	})
}

type regionQuery func(a *analysis, res *engine.Result, first, last bound.Stmt) (any, error)

func (s *Server) handleRegion(w http.ResponseWriter, r *http.Request, query regionQuery) {
	var req regionRequest

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxSource))
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}

	if req.Start <= 0 || req.End < req.Start {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid line range %d-%d", req.Start, req.End))
		return
	}

	a, err := s.analyze(r, []byte(req.Source))
	if err != nil {
		s.analysisError(w, err)
		return
	}

	res := a.method(req.Func)
	if res == nil {
		writeError(w, http.StatusNotFound, fmt.Errorf("function %q not found", req.Func))
		return
	}

	first, last := a.statements(res.Method(), req.Start, req.End)

	v, err := query(a, res, first, last)
	if err != nil {
		if errors.Is(err, region.ErrInvalidRegion) {
			writeError(w, http.StatusUnprocessableEntity, err)
			return
		}

		writeError(w, http.StatusInternalServerError, err)

		return
	}

	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := s.store.Runs(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusOK, runs)
}

func (s *Server) handleRunDiagnostics(w http.ResponseWriter, r *http.Request) {
	id, ok := runID(w, r)
	if !ok {
		return
	}

	ds, err := s.store.Diagnostics(r.Context(), id)
	if err != nil {
		s.storeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ds)
}

func (s *Server) handleRunMethods(w http.ResponseWriter, r *http.Request) {
	id, ok := runID(w, r)
	if !ok {
		return
	}

	ms, err := s.store.Methods(r.Context(), id)
	if err != nil {
		s.storeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ms)
}

func runID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid run id: %w", err))
		return 0, false
	}

	return id, true
}

func (s *Server) analysisError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, lower.ErrParse), errors.Is(err, lower.ErrTypeCheck):
		writeError(w, http.StatusBadRequest, err)

	default:
		s.logger.Error("Analysis failed", "error", err)
		writeError(w, http.StatusInternalServerError, err)
	}
}

func (s *Server) storeError(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, err)
		return
	}

	s.logger.Error("Store query failed", "error", err)
	writeError(w, http.StatusInternalServerError, err)
}

// method returns the analysis of the function or method named name.
// Methods are named "Type.Name".
func (a *analysis) method(name string) *engine.Result {
	for _, res := range a.report.Results {
		if res.Method().Name == name {
			return res
		}
	}

	return nil
}

// statements maps a line range to the longest run of statements in the outermost list fully covered by it.
func (a *analysis) statements(m *bound.Method, start, end int) (first, last bound.Stmt) {
	if m.Body == nil {
		return nil, nil
	}

	within := func(s bound.Stmt) bool {
		return a.line(s.Pos()) >= start && a.line(s.End()-1) <= end
	}

	bound.Inspect(m.Body, func(n bound.Node) bool {
		if first != nil {
			return false
		}

		b, ok := n.(*bound.Block)
		if !ok {
			return true
		}

		for _, s := range b.Stmts {
			if within(s) {
				if first == nil {
					first = s
				}

				last = s

				continue
			}

			if first != nil {
				break
			}
		}

		return first == nil
	})

	return first, last
}

func (a *analysis) line(pos token.Pos) int { return a.pkg.Fset.Position(pos).Line }

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorView{Error: strings.TrimSpace(err.Error())})
}
