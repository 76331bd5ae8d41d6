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

func hasKind(s *diag.Sink, kind diag.Kind) bool {
	for _, d := range s.Diagnostics() {
		if d.Kind == kind {
			return true
		}
	}

	return false
}

func TestValidatePre_RejectsMultipleTerminators(t *testing.T) {
	sink := diag.NewSink()
	f := ast.NewField(sp(), "n", typesys.NewUintType(8), ast.FieldAttributes{
		Eod:   true,
		Until: ast.NewIdentExpr(sp(), "stop"),
	})
	u := ast.NewUnit(sp(), "U", f)
	mod := ast.NewModule(sp(), "m", nil, u)

	NewValidator(sink).ValidatePre(mod)

	if !hasKind(sink, diag.InvalidAttribute) {
		t.Fatalf("expected InvalidAttribute for a field with both &eod and &until")
	}
}

func TestValidatePre_RejectsAnonymousHook(t *testing.T) {
	sink := diag.NewSink()
	h := ast.NewUnitHook(sp(), "", 0)
	u := ast.NewUnit(sp(), "U", h)
	mod := ast.NewModule(sp(), "m", nil, u)

	NewValidator(sink).ValidatePre(mod)

	if !hasKind(sink, diag.InvalidAttribute) {
		t.Fatalf("expected InvalidAttribute for a hook with no event name")
	}
}

func TestValidatePre_RejectsDuplicateSinkNames(t *testing.T) {
	sink := diag.NewSink()
	a := ast.NewSink(sp(), "s", ast.SinkFirst, false)
	b := ast.NewSink(sp(), "s", ast.SinkFirst, false)
	u := ast.NewUnit(sp(), "U", a, b)
	mod := ast.NewModule(sp(), "m", nil, u)

	NewValidator(sink).ValidatePre(mod)

	if !hasKind(sink, diag.DuplicateDeclaration) {
		t.Fatalf("expected DuplicateDeclaration for two sinks named %q", "s")
	}
}

func TestValidatePost_RejectsFieldAfterUnboundedEod(t *testing.T) {
	sink := diag.NewSink()
	first := ast.NewField(sp(), "a", typesys.NewUintType(8), ast.FieldAttributes{Eod: true})
	second := ast.NewField(sp(), "b", typesys.NewUintType(8), ast.FieldAttributes{})
	u := ast.NewUnit(sp(), "U", first, second)
	mod := ast.NewModule(sp(), "m", nil, u)

	scope := NewModuleScope("m")
	NewValidator(sink).ValidatePost(mod, scope)

	if !hasKind(sink, diag.InvalidAttribute) {
		t.Fatalf("expected InvalidAttribute for a field following an unbounded &eod field")
	}
}

func TestValidatePost_RejectsUnwrappedRecursiveUnitField(t *testing.T) {
	sink := diag.NewSink()
	f := ast.NewField(sp(), "next", typesys.NewUnitType("U"), ast.FieldAttributes{})
	u := ast.NewUnit(sp(), "U", f)
	mod := ast.NewModule(sp(), "m", nil, u)

	scope := NewModuleScope("m")
	NewValidator(sink).ValidatePost(mod, scope)

	if !hasKind(sink, diag.InvalidAttribute) {
		t.Fatalf("expected InvalidAttribute for a field of its own enclosing unit type, not reference-wrapped")
	}
}

func TestValidatePost_SwitchWithoutDefaultNeedsExhaustiveBool(t *testing.T) {
	boolTy := typesys.NewPrimitiveType(typesys.Bool)

	cond := ast.NewIdentExpr(sp(), "flag")
	cond.SetType(boolTy)

	sw := ast.NewSwitch(sp(), "sw", cond, []ast.SwitchCase{
		{Body: ast.NewField(sp(), "a", typesys.NewUintType(8), ast.FieldAttributes{})},
		{Body: ast.NewField(sp(), "b", typesys.NewUintType(8), ast.FieldAttributes{})},
	}, nil)
	u := ast.NewUnit(sp(), "U", sw)
	mod := ast.NewModule(sp(), "m", nil, u)

	sink := diag.NewSink()
	scope := NewModuleScope("m")
	NewValidator(sink).ValidatePost(mod, scope)

	if hasKind(sink, diag.UnreachableAlternative) {
		t.Fatalf("a two-armed boolean switch with no default is statically exhaustive, got %v", sink.Diagnostics())
	}

	nonBool := ast.NewIdentExpr(sp(), "n")
	nonBool.SetType(typesys.NewUintType(8))

	sw2 := ast.NewSwitch(sp(), "sw2", nonBool, []ast.SwitchCase{
		{Body: ast.NewField(sp(), "a", typesys.NewUintType(8), ast.FieldAttributes{})},
	}, nil)
	u2 := ast.NewUnit(sp(), "U2", sw2)
	mod2 := ast.NewModule(sp(), "m", nil, u2)

	sink2 := diag.NewSink()
	NewValidator(sink2).ValidatePost(mod2, scope)

	if !hasKind(sink2, diag.UnreachableAlternative) {
		t.Fatalf("expected UnreachableAlternative for a non-boolean switch with no default arm")
	}
}

func TestValidatePost_LookAheadSwitchHasNoDiscriminant(t *testing.T) {
	sw := ast.NewSwitch(sp(), "alt", nil, []ast.SwitchCase{
		{Body: ast.NewField(sp(), "a", typesys.NewUintType(8), ast.FieldAttributes{})},
		{Body: ast.NewField(sp(), "b", typesys.NewUintType(8), ast.FieldAttributes{})},
	}, nil)
	u := ast.NewUnit(sp(), "U", sw)
	mod := ast.NewModule(sp(), "m", nil, u)

	sink := diag.NewSink()
	scope := NewModuleScope("m")
	NewValidator(sink).ValidatePost(mod, scope)

	if hasKind(sink, diag.UnreachableAlternative) {
		t.Fatalf("a nil-discriminant (look-ahead) switch's exhaustiveness is the grammar builder's concern, not this check's, got %v", sink.Diagnostics())
	}
}
