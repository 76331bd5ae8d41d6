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
	"github.com/zeek/spicy/pkg/source"
	"github.com/zeek/spicy/pkg/typesys"
)

func sp() source.Span { return source.NewSpan("test", 1, 0, 1, 0) }

func TestModuleScope_DefineRejectsDuplicate(t *testing.T) {
	mod := NewModuleScope("m")
	n := ast.NewField(sp(), "n", typesys.NewUintType(8), ast.FieldAttributes{})

	if !mod.Define(n) {
		t.Fatalf("expected first definition of %q to succeed", n.Name())
	}

	dup := ast.NewField(sp(), "n", typesys.NewUintType(8), ast.FieldAttributes{})
	if mod.Define(dup) {
		t.Fatalf("expected redefining %q in the same scope to fail", dup.Name())
	}
}

func TestModuleScope_BindResolvesDeclaredField(t *testing.T) {
	mod := NewModuleScope("m")
	n := ast.NewField(sp(), "n", typesys.NewUintType(8), ast.FieldAttributes{})
	n.Bind.Finalise(typesys.NewUintType(8))

	if !mod.Define(n) {
		t.Fatalf("expected Define to succeed")
	}

	ref := ast.NewIdentExpr(sp(), "n")
	if !mod.Bind(ref.Ref) {
		t.Fatalf("expected Bind to resolve a declared name")
	}

	if ref.Ref.Binding() != ast.Binding(n.Bind) {
		t.Fatalf("expected the reference to resolve to n's own binding")
	}
}

func TestModuleScope_BindFailsForUndeclaredName(t *testing.T) {
	mod := NewModuleScope("m")
	ref := ast.NewIdentExpr(sp(), "missing")

	if mod.Bind(ref.Ref) {
		t.Fatalf("expected Bind to fail for an undeclared name")
	}
}

func TestModuleScope_ImportQualifiesLookup(t *testing.T) {
	other := NewModuleScope("other")
	n := ast.NewField(sp(), "n", typesys.NewUintType(8), ast.FieldAttributes{})
	other.Define(n)

	mod := NewModuleScope("m")
	mod.Import("other", other)

	ref := ast.NewIdentExpr(sp(), "other", "n")
	if !mod.Bind(ref.Ref) {
		t.Fatalf("expected a qualified other::n reference to resolve via the import")
	}
}

func TestModuleScope_OpenDefinitionGatesVisibility(t *testing.T) {
	mod := NewModuleScope("m")
	unitType := typesys.NewUnitType("Node")
	n := ast.NewField(sp(), "n", unitType, ast.FieldAttributes{})
	mod.Define(n)

	mod.OpenDefinition(n)

	sym := ast.NewIdentExpr(sp(), "n")
	if !mod.IsVisible(sym.Ref) {
		t.Fatalf("a recursive (unit-typed) field must remain visible while open")
	}

	plain := ast.NewField(sp(), "p", typesys.NewUintType(8), ast.FieldAttributes{})
	mod.Define(plain)
	mod.OpenDefinition(plain)

	psym := ast.NewIdentExpr(sp(), "p")
	if mod.IsVisible(psym.Ref) {
		t.Fatalf("a non-recursive field must not be visible while still open")
	}

	mod.CloseDefinition(plain)
	if !mod.IsVisible(psym.Ref) {
		t.Fatalf("expected the field to become visible once closed")
	}
}

func TestUnitScope_FallsBackToModule(t *testing.T) {
	mod := NewModuleScope("m")
	c := ast.NewField(sp(), "C", typesys.NewUintType(8), ast.FieldAttributes{})
	mod.Define(c)

	us := mod.DeclareUnit("U")
	if us == nil {
		t.Fatalf("expected DeclareUnit to succeed")
	}

	ref := ast.NewIdentExpr(sp(), "C")
	if !us.Bind(ref.Ref) {
		t.Fatalf("expected a unit scope to fall back to its module for undeclared-locally names")
	}
}

func TestUnitScope_LocalShadowsModule(t *testing.T) {
	mod := NewModuleScope("m")
	outer := ast.NewField(sp(), "x", typesys.NewUintType(8), ast.FieldAttributes{})
	mod.Define(outer)

	us := mod.DeclareUnit("U")
	inner := ast.NewField(sp(), "x", typesys.NewUintType(16), ast.FieldAttributes{})
	us.Define(inner)

	ref := ast.NewIdentExpr(sp(), "x")
	if !us.Bind(ref.Ref) {
		t.Fatalf("expected Bind to succeed")
	}

	if ref.Ref.Binding() != ast.Binding(inner.Bind) {
		t.Fatalf("expected the unit-local field to shadow the module-level one of the same name")
	}
}

func TestLocalScope_DeclareShadowsEnclosing(t *testing.T) {
	mod := NewModuleScope("m")
	outer := ast.NewField(sp(), "i", typesys.NewUintType(8), ast.FieldAttributes{})
	mod.Define(outer)

	ls := NewLocalScope(mod)
	loopVar := ast.NewVariableBinding()
	ls.DeclareLocal("i", loopVar)

	ref := ast.NewIdentExpr(sp(), "i")
	if !ls.Bind(ref.Ref) {
		t.Fatalf("expected Bind to succeed")
	}

	if ref.Ref.Binding() != ast.Binding(loopVar) {
		t.Fatalf("expected the local loop variable to shadow the module-level field")
	}
}

func TestLocalScope_NestedScopeIsolatesDeclarations(t *testing.T) {
	mod := NewModuleScope("m")
	ls := NewLocalScope(mod)
	ls.DeclareLocal("a", ast.NewVariableBinding())

	child := ls.NestedScope()
	child.DeclareLocal("b", ast.NewVariableBinding())

	ref := ast.NewIdentExpr(sp(), "b")
	if ls.Bind(ref.Ref) {
		t.Fatalf("expected a declaration made in a nested scope not to leak into its parent")
	}
}
