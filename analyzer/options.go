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


package analyzer

import (
	"log/slog"

	"fillmore-labs.com/definite/analyzer/level"
	"fillmore-labs.com/definite/internal/config"
	"fillmore-labs.com/definite/internal/run"
)

// Option configures specific behavior of a [New] definite analyzer.
type Option interface {
	apply(r *run.Options)
	LogAttr() slog.Attr
}

// Options is a list of [Option] values that itself satisfies the [Option] interface.
type Options []Option

// LogValue implements [slog.LogValuer].
func (o Options) LogValue() slog.Value {
	as := make([]slog.Attr, 0, len(o))
	as = appendOptions(as, o)

	return slog.GroupValue(as...)
}

func appendOptions(as []slog.Attr, o Options) []slog.Attr {
	for _, opt := range o {
		switch opt := opt.(type) {
		case nil:
			as = append(as, slog.String("nil", "<nil>"))

		case Options:
			as = appendOptions(as, opt)

		default:
			as = append(as, opt.LogAttr())
		}
	}

	return as
}

func (o Options) apply(r *run.Options) {
	for _, opt := range o {
		if opt == nil {
			continue
		}

		opt.apply(r)
	}
}

// LogAttr is for logging with [slog.Logger.LogAttrs].
func (o Options) LogAttr() slog.Attr {
	return slog.Any("options", o)
}

// WithGenerated is an [Option] to configure diagnostics in generated files.
func WithGenerated(generated bool) Option { return generatedOption{generated: generated} }

type generatedOption struct{ generated bool }

func (o generatedOption) apply(r *run.Options) {
	r.Behavior.Set(config.IncludeGenerated, o.generated)
}

func (o generatedOption) LogAttr() slog.Attr {
	return slog.Bool("generated", o.generated)
}

// WithUnassigned is an [Option] to configure whether reads of unassigned variables are reported.
func WithUnassigned(enable bool) Option {
	return checkOption{name: "unassigned", check: config.UnassignedCheck, enable: enable}
}

// WithUnreachable is an [Option] to configure whether unreachable code is reported.
func WithUnreachable(enable bool) Option {
	return checkOption{name: "unreachable", check: config.UnreachableCheck, enable: enable}
}

// WithUnused is an [Option] to configure whether unused locals, local functions and labels are reported.
func WithUnused(enable bool) Option {
	return checkOption{name: "unused", check: config.UnusedCheck, enable: enable}
}

// WithFieldsNeverAssigned is an [Option] to configure whether unexported struct fields
// never assigned in the package are reported.
func WithFieldsNeverAssigned(enable bool) Option {
	return checkOption{name: "fields", check: config.FieldsCheck, enable: enable}
}

type checkOption struct {
	name   string
	check  config.Check
	enable bool
}

func (o checkOption) apply(r *run.Options) {
	r.Checks.Set(o.check, o.enable)
}

func (o checkOption) LogAttr() slog.Attr {
	return slog.Bool(o.name, o.enable)
}

// WithReport is an [Option] to select the least serious diagnostics reported.
func WithReport(report level.Report) Option { return reportOption{report: report} }

type reportOption struct{ report level.Report }

func (o reportOption) apply(r *run.Options) {
	r.MinSeverity = o.report.Severity()
}

func (o reportOption) LogAttr() slog.Attr {
	b, _ := o.report.MarshalText()

	return slog.String("report", string(b))
}
