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


// Command definite-dump analyzes Go packages and writes the diagnostics into a SQLite database.
//
// Usage:
//
//	definite-dump -db definite.db ./...
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"fillmore-labs.com/definite/internal/engine"
	"fillmore-labs.com/definite/internal/lower"
	"fillmore-labs.com/definite/internal/store"
)

func main() {
	dbPath := flag.String("db", "definite.db", "path of the SQLite database")
	dir := flag.String("C", ".", "directory to load packages from")
	fields := flag.Bool("fields", true, "report struct fields never assigned")
	verbose := flag.Bool("v", false, "log every analyzed method")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	patterns := flag.Args()
	if len(patterns) == 0 {
		patterns = []string{"."}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := dump(ctx, logger, *dbPath, *dir, patterns, *fields); err != nil {
		logger.Error("Dump failed", slog.Any("error", err))
		stop()
		os.Exit(1)
	}
}

func dump(ctx context.Context, logger *slog.Logger, dbPath, dir string, patterns []string, fields bool) error {
	pkgs, err := lower.Load(ctx, dir, patterns...)
	if err != nil {
		if !errors.Is(err, lower.ErrTypeCheck) || len(pkgs) == 0 {
			return err
		}

		logger.Warn("Skipping packages with errors", slog.Any("error", err))
	}

	db, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	for _, pkg := range pkgs {
		rep, err := engine.AnalyzeAll(ctx, pkg.Compile(),
			engine.WithFieldsNeverAssigned(fields),
			engine.WithLogger(logger))
		if err != nil {
			return fmt.Errorf("analyze %s: %w", pkg.Types.Path(), err)
		}

		id, err := db.Save(ctx, pkg.Types.Path(), pkg.Fset, rep)
		if err != nil {
			return fmt.Errorf("save %s: %w", pkg.Types.Path(), err)
		}

		logger.Info("Analyzed package",
			slog.String("package", pkg.Types.Path()),
			slog.Int64("run", id),
			slog.Int("methods", len(rep.Results)),
			slog.Int("diagnostics", len(rep.Diagnostics)))
	}

	return nil
}
