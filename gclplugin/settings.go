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


package gclplugin

import (
	definite "fillmore-labs.com/definite/analyzer"
	"fillmore-labs.com/definite/analyzer/level"
)

// Settings represents the configuration options for an instance of the [Plugin].
type Settings struct {
	// Unassigned enables reports of reads of unassigned variables.
	Unassigned *bool `json:"unassigned,omitzero"`
	// Unreachable enables reports of unreachable code.
	Unreachable *bool `json:"unreachable,omitzero"`
	// Unused enables reports of unused locals, local functions and labels.
	Unused *bool `json:"unused,omitzero"`
	// Fields enables reports of unexported struct fields never assigned.
	Fields *bool `json:"fields,omitzero"`
	// Report selects the diagnostics to report, "all" or "errors".
	Report *level.Report `json:"report,omitzero"`
}

// Options converts [Settings] into a list of [definite.Option] for the definite analyzer.
// It processes settings and applies them only when explicitly set (non-nil).
func (s Settings) Options() []definite.Option {
	var opts []definite.Option

	opts = appendOption(opts, s.Unassigned, definite.WithUnassigned)
	opts = appendOption(opts, s.Unreachable, definite.WithUnreachable)
	opts = appendOption(opts, s.Unused, definite.WithUnused)
	opts = appendOption(opts, s.Fields, definite.WithFieldsNeverAssigned)
	opts = appendOption(opts, s.Report, definite.WithReport)

	return opts
}

// appendOption appends a non-nil setting to a [definite.Option] list.
func appendOption[T any](opts []definite.Option, value *T, constructor func(T) definite.Option) []definite.Option {
	if value == nil {
		return opts
	}

	return append(opts, constructor(*value))
}
