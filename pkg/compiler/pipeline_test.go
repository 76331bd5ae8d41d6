// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package compiler

import (
	"testing"

	"github.com/zeek/spicy/pkg/ast"
	"github.com/zeek/spicy/pkg/diag"
	"github.com/zeek/spicy/pkg/typesys"
)

func TestPipeline_StopsAfterPreValidationError(t *testing.T) {
	f := ast.NewField(sp(), "n", typesys.NewUintType(8), ast.FieldAttributes{
		Eod:   true,
		Until: ast.NewIdentExpr(sp(), "stop"),
	})
	u := ast.NewUnit(sp(), "U", f)
	mod := ast.NewModule(sp(), "m", nil, u)

	p := NewPipeline()
	scope := p.Run(mod)

	if scope != nil {
		t.Fatalf("expected Run to stop before resolution and return a nil scope")
	}

	if !hasKind(p.Sink(), diag.InvalidAttribute) {
		t.Fatalf("expected the pre-validation diagnostic to have been recorded")
	}
}

func TestPipeline_CleanModuleRunsToCompletion(t *testing.T) {
	n := ast.NewField(sp(), "n", typesys.NewUintType(8), ast.FieldAttributes{})
	data := ast.NewField(sp(), "data", typesys.NewUintType(16), ast.FieldAttributes{
		Count: ast.NewIdentExpr(sp(), "n"),
	})
	u := ast.NewUnit(sp(), "Vec", n, data)
	mod := ast.NewModule(sp(), "m", nil, u)

	p := NewPipeline()
	scope := p.Run(mod)

	if p.Sink().HasErrors() {
		t.Fatalf("unexpected diagnostics: %s", p.Sink().Error())
	}

	if scope == nil || scope.Unit("Vec") == nil {
		t.Fatalf("expected Run to return a scope with Vec's unit scope populated")
	}
}
