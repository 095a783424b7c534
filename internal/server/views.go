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
	"fmt"
	"strings"

	"fillmore-labs.com/definite/internal/bound"
	"fillmore-labs.com/definite/internal/diag"
	"fillmore-labs.com/definite/internal/engine"
	"fillmore-labs.com/definite/internal/flow/region"
)

type errorView struct {
	Error string `json:"error"`
}

type kindView struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Severity string `json:"severity"`
}

type regionRequest struct {
	Source string `json:"source"`
	Func   string `json:"func"`
	Start  int    `json:"start"`
	End    int    `json:"end"`
}

type analyzeResponse struct {
	Digest    string           `json:"digest"`
	Run       int64            `json:"run,omitempty"`
	Functions []functionView   `json:"functions"`
	Fields    []diagnosticView `json:"fields,omitempty"`
}

type functionView struct {
	Name        string           `json:"name"`
	Line        int              `json:"line"`
	Stats       engine.Stats     `json:"stats"`
	Diagnostics []diagnosticView `json:"diagnostics"`
}

type diagnosticView struct {
	Code     string `json:"code"`
	Severity string `json:"severity"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	Arg      string `json:"arg,omitempty"`
	Message  string `json:"message"`
}

type stmtView struct {
	Line int    `json:"line"`
	Kind string `json:"kind"`
}

type controlFlowView struct {
	EntryPoints      []stmtView `json:"entryPoints"`
	ExitPoints       []stmtView `json:"exitPoints"`
	ReturnStatements []stmtView `json:"returnStatements"`
	StartReachable   bool       `json:"startReachable"`
	EndReachable     bool       `json:"endReachable"`
}

type dataFlowView struct {
	VariablesDeclared  []string `json:"variablesDeclared"`
	AlwaysAssigned     []string `json:"alwaysAssigned"`
	DataFlowsIn        []string `json:"dataFlowsIn"`
	DataFlowsOut       []string `json:"dataFlowsOut"`
	ReadInside         []string `json:"readInside"`
	ReadOutside        []string `json:"readOutside"`
	WrittenInside      []string `json:"writtenInside"`
	WrittenOutside     []string `json:"writtenOutside"`
	Captured           []string `json:"captured"`
	CapturedInside     []string `json:"capturedInside"`
	CapturedOutside    []string `json:"capturedOutside"`
	UnsafeAddressTaken []string `json:"unsafeAddressTaken"`
}

func newAnalyzeResponse(a *analysis) analyzeResponse {
	resp := analyzeResponse{
		Digest:    a.digest,
		Functions: make([]functionView, 0, len(a.report.Results)),
	}

	for _, res := range a.report.Results {
		fn := functionView{
			Name:        res.Method().Name,
			Line:        a.line(res.Method().Pos()),
			Stats:       res.Stats(),
			Diagnostics: a.diagnostics(res.Diagnostics),
		}
		resp.Functions = append(resp.Functions, fn)
	}

	var fields []diag.Diagnostic

	for _, d := range a.report.Diagnostics {
		if d.Kind == diag.FieldNeverAssigned {
			fields = append(fields, d)
		}
	}

	resp.Fields = a.diagnostics(fields)

	return resp
}

func (a *analysis) diagnostics(ds []diag.Diagnostic) []diagnosticView {
	views := make([]diagnosticView, len(ds))

	for i, d := range ds {
		p := a.pkg.Fset.Position(d.Pos)
		views[i] = diagnosticView{
			Code:     d.Kind.Code(),
			Severity: d.Severity.String(),
			Line:     p.Line,
			Column:   p.Column,
			Arg:      d.Arg(),
			Message:  d.Message(),
		}
	}

	return views
}

func (a *analysis) controlFlow(s region.ControlFlowSummary) controlFlowView {
	return controlFlowView{
		EntryPoints:      a.stmts(s.EntryPoints),
		ExitPoints:       a.stmts(s.ExitPoints),
		ReturnStatements: a.stmts(s.ReturnStatements),
		StartReachable:   s.StartReachable,
		EndReachable:     s.EndReachable,
	}
}

func (a *analysis) stmts(list []bound.Stmt) []stmtView {
	views := make([]stmtView, len(list))

	for i, s := range list {
		views[i] = stmtView{
			Line: a.line(s.Pos()),
			Kind: strings.TrimPrefix(fmt.Sprintf("%T", s), "*bound."),
		}
	}

	return views
}

func dataFlow(s region.DataFlowSummary) dataFlowView {
	return dataFlowView{
		VariablesDeclared:  region.Names(s.VariablesDeclared),
		AlwaysAssigned:     region.Names(s.AlwaysAssigned),
		DataFlowsIn:        region.Names(s.DataFlowsIn),
		DataFlowsOut:       region.Names(s.DataFlowsOut),
		ReadInside:         region.Names(s.ReadInside),
		ReadOutside:        region.Names(s.ReadOutside),
		WrittenInside:      region.Names(s.WrittenInside),
		WrittenOutside:     region.Names(s.WrittenOutside),
		Captured:           region.Names(s.Captured),
		CapturedInside:     region.Names(s.CapturedInside),
		CapturedOutside:    region.Names(s.CapturedOutside),
		UnsafeAddressTaken: region.Names(s.UnsafeAddressTaken),
	}
}
