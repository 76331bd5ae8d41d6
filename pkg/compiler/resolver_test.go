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

func TestResolveModule_SiblingFieldReference(t *testing.T) {
	n := ast.NewField(sp(), "n", typesys.NewUintType(8), ast.FieldAttributes{})
	data := ast.NewField(sp(), "data", typesys.NewUintType(16), ast.FieldAttributes{
		Count: ast.NewIdentExpr(sp(), "n"),
	})
	u := ast.NewUnit(sp(), "Vec", n, data)
	mod := ast.NewModule(sp(), "m", nil, u)

	sink := diag.NewSink()
	NewResolver(sink).ResolveModule(mod)

	if sink.HasErrors() {
		t.Fatalf("unexpected diagnostics: %s", sink.Error())
	}

	if !data.Attrs.Count.(*ast.IdentExpr).Ref.IsResolved() {
		t.Fatalf("expected &count=n to resolve against the sibling field n")
	}
}

func TestResolveModule_UnresolvedSiblingReported(t *testing.T) {
	data := ast.NewField(sp(), "data", typesys.NewUintType(16), ast.FieldAttributes{
		Count: ast.NewIdentExpr(sp(), "missing"),
	})
	u := ast.NewUnit(sp(), "Vec", data)
	mod := ast.NewModule(sp(), "m", nil, u)

	sink := diag.NewSink()
	NewResolver(sink).ResolveModule(mod)

	if !hasKind(sink, diag.UnresolvedID) {
		t.Fatalf("expected UnresolvedID for a &count referencing an undeclared name")
	}
}

func TestResolveModule_ForwardUnitTypeReference(t *testing.T) {
	head := ast.NewField(sp(), "next", typesys.NewUnresolvedIDType("Tail"), ast.FieldAttributes{})
	unitA := ast.NewUnit(sp(), "Head", head)
	unitB := ast.NewUnit(sp(), "Tail", ast.NewField(sp(), "v", typesys.NewUintType(8), ast.FieldAttributes{}))
	mod := ast.NewModule(sp(), "m", nil, unitA, unitB)

	sink := diag.NewSink()
	NewResolver(sink).ResolveModule(mod)

	if sink.HasErrors() {
		t.Fatalf("unexpected diagnostics: %s", sink.Error())
	}

	ut, ok := head.DataType.(*typesys.UnitType)
	if !ok || ut.Name != "Tail" {
		t.Fatalf("expected next's placeholder type to resolve to unit Tail, got %+v", head.DataType)
	}
}

func TestResolveModule_DuplicateUnitNameReported(t *testing.T) {
	a := ast.NewUnit(sp(), "Dup", ast.NewField(sp(), "x", typesys.NewUintType(8), ast.FieldAttributes{}))
	b := ast.NewUnit(sp(), "Dup", ast.NewField(sp(), "y", typesys.NewUintType(8), ast.FieldAttributes{}))
	mod := ast.NewModule(sp(), "m", nil, a, b)

	sink := diag.NewSink()
	NewResolver(sink).ResolveModule(mod)

	if !hasKind(sink, diag.DuplicateDeclaration) {
		t.Fatalf("expected DuplicateDeclaration for two units named %q", "Dup")
	}
}

func TestResolveModule_AnonymousItemsNeverCollide(t *testing.T) {
	u := ast.NewUnit(sp(), "Framed",
		ast.NewMatchField(sp(), "", ast.NewBytesCtor(sp(), []byte("[")), ast.FieldAttributes{}),
		ast.NewField(sp(), "body", typesys.NewUintType(8), ast.FieldAttributes{}),
		ast.NewMatchField(sp(), "", ast.NewBytesCtor(sp(), []byte("]")), ast.FieldAttributes{}),
	)
	mod := ast.NewModule(sp(), "m", nil, u)

	sink := diag.NewSink()
	NewResolver(sink).ResolveModule(mod)

	if hasKind(sink, diag.DuplicateDeclaration) {
		t.Fatalf("expected multiple anonymous fields not to collide, got %v", sink.Diagnostics())
	}
}
