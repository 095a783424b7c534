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


package report_test

import (
	"go/token"
	"testing"

	"github.com/nalgeon/be"

	"fillmore-labs.com/definite/internal/astutil"
	"fillmore-labs.com/definite/internal/config"
	"fillmore-labs.com/definite/internal/diag"
	. "fillmore-labs.com/definite/internal/report"
)

func TestConvert(t *testing.T) {
	t.Parallel()

	d := Convert(diag.New(diag.UseOfUnassignedVariable, 10, 11, "x"))

	be.Equal(t, d.Message, "Use of unassigned variable 'x' (df:uav)")
	be.Equal(t, d.Category, "UseOfUnassignedVariable")
	be.Equal(t, d.Pos, token.Pos(10))
	be.Equal(t, d.End, token.Pos(11))
}

func TestFilter(t *testing.T) {
	t.Parallel()

	var file astutil.CurrentFile

	uav := diag.New(diag.UseOfUnassignedVariable, 10, 11, "x")
	unr := diag.New(diag.UnreachableCode, 20, 30)

	all := Filter{Checks: config.DefaultChecks(), MinSeverity: diag.Warning}
	be.True(t, all.Keep(file, uav))
	be.True(t, all.Keep(file, unr))

	errs := Filter{Checks: config.DefaultChecks(), MinSeverity: diag.Error}
	be.True(t, errs.Keep(file, uav))
	be.True(t, !errs.Keep(file, unr))

	none := Filter{MinSeverity: diag.Info}
	be.True(t, !none.Keep(file, uav))
}
