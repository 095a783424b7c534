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


// Package server exposes the flow analysis over HTTP.
package server

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	lru "github.com/hashicorp/golang-lru/v2"

	"fillmore-labs.com/definite/internal/engine"
	"fillmore-labs.com/definite/internal/lower"
	"fillmore-labs.com/definite/internal/store"
)

// maxSource is the largest accepted source file.
const maxSource = 1 << 20

// Server answers analysis and region queries. Results are cached by source digest.
type Server struct {
	cache  *lru.Cache[string, *analysis]
	logger *slog.Logger
	store  *store.Store
}

type analysis struct {
	digest string
	pkg    *lower.Package
	report *engine.Report
}

// Option configures a [Server].
type Option func(*config)

type config struct {
	cacheSize int
	logger    *slog.Logger
	store     *store.Store
}

// WithCacheSize sets the number of analyzed sources kept in memory.
func WithCacheSize(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.cacheSize = n
		}
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithStore enables persisting analyses and the run endpoints.
func WithStore(s *store.Store) Option {
	return func(c *config) { c.store = s }
}

// New creates a [Server].
func New(opts ...Option) (*Server, error) {
	c := config{cacheSize: 128, logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&c)
	}

	cache, err := lru.New[string, *analysis](c.cacheSize)
	if err != nil {
		return nil, fmt.Errorf("create cache: %w", err)
	}

	return &Server{cache: cache, logger: c.logger, store: c.store}, nil
}

// Handler returns the HTTP handler with all routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok\n"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/kinds", s.handleKinds)
		r.Post("/analyze", s.handleAnalyze)
		r.Post("/region/control", s.handleControlFlow)
		r.Post("/region/data", s.handleDataFlow)

		if s.store != nil {
			r.Get("/runs", s.handleRuns)
			r.Get("/runs/{id}/diagnostics", s.handleRunDiagnostics)
			r.Get("/runs/{id}/methods", s.handleRunMethods)
		}
	})

	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		s.logger.LogAttrs(r.Context(), slog.LevelInfo, "Request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Int("bytes", ww.BytesWritten()),
			slog.Duration("duration", time.Since(start)))
	})
}

// analyze returns the cached analysis of src or computes it.
func (s *Server) analyze(r *http.Request, src []byte) (*analysis, error) {
	sum := sha256.Sum256(src)
	digest := hex.EncodeToString(sum[:])

	if a, ok := s.cache.Get(digest); ok {
		return a, nil
	}

	pkg, err := lower.ParseSource("source.go", src)
	if err != nil {
		return nil, err
	}

	rep, err := engine.AnalyzeAll(r.Context(), pkg.Compile(), engine.WithLogger(s.logger))
	if err != nil {
		return nil, err
	}

	a := &analysis{digest: digest, pkg: pkg, report: rep}
	s.cache.Add(digest, a)

	return a, nil
}
