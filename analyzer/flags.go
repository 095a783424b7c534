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
	"flag"

	"fillmore-labs.com/definite/internal/config"
	"fillmore-labs.com/definite/internal/run"
)

// registerFlags binds the run options to command line flags.
// A nil flag set defaults to the program's command line.
func registerFlags(flags *flag.FlagSet, r *run.Options) {
	if flags == nil {
		flags = flag.CommandLine
	}

	flags.Var(newBehaviorValue(&r.Behavior, config.IncludeGenerated), "generated", "check generated files")
	flags.Var(NewCheckValue(&r.Checks, config.UnassignedCheck), "unassigned", "report reads of unassigned variables")
	flags.Var(NewCheckValue(&r.Checks, config.UnreachableCheck), "unreachable", "report unreachable code")
	flags.Var(NewCheckValue(&r.Checks, config.UnusedCheck), "unused", "report unused locals, local functions and labels")
	flags.Var(NewCheckValue(&r.Checks, config.FieldsCheck), "fields", "report unexported struct fields never assigned")
	flags.Var(NewReportValue(&r.MinSeverity), "report", "diagnostics to report: all or errors")
}
