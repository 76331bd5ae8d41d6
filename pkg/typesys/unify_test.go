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
package typesys

import "testing"

// Scenario 6 of the testable-properties list: a struct and a freshly
// constructed structurally identical struct unify to the same string;
// adding a trailing field changes it.
func TestUnify_StructuralEquivalence(t *testing.T) {
	a := NewStructType("", Field{"a", NewUintType(8)}, Field{"b", NewPrimitiveType(Bytes)})
	b := NewStructType("", Field{"a", NewUintType(8)}, Field{"b", NewPrimitiveType(Bytes)})

	if !Equal(a, b) {
		t.Fatalf("expected structurally identical anonymous structs to unify: %s vs %s", Unify(a), Unify(b))
	}

	c := NewStructType("", Field{"a", NewUintType(8)}, Field{"b", NewPrimitiveType(Bytes)}, Field{"c", boolType()})

	if Equal(a, c) {
		t.Fatalf("expected adding a trailing field to change the unification string")
	}
}

func TestUnify_NominalCollapsesToName(t *testing.T) {
	a := NewStructType("Foo", Field{"x", NewUintType(8)})
	b := NewStructType("Foo", Field{"y", NewPrimitiveType(String)})

	if !Equal(a, b) {
		t.Fatalf("expected two nominal structs with the same name to unify regardless of field shape")
	}
}

func TestUnify_SelfReferentialUnitBreaksCycle(t *testing.T) {
	n := NewNameType("Node")
	u := NewUnitType("Node")
	n.Bind(u)

	// A type referring to itself through a Name must still produce a
	// finite unification string.
	s := Unify(n)
	if s == "" {
		t.Fatalf("expected non-empty unification string for self-referential name")
	}
}

func TestCoerce_Identity(t *testing.T) {
	u8 := NewUintType(8)

	c, ok := TryCoerce(u8, NewUintType(8), Implicit, nil)
	if !ok || c.Kind != IdentityCoercion {
		t.Fatalf("expected identity coercion, got %+v, ok=%v", c, ok)
	}
}

func TestCoerce_NumericWiden(t *testing.T) {
	u8 := NewUintType(8)
	u32 := NewUintType(32)

	c, ok := TryCoerce(u8, u32, Implicit, nil)
	if !ok || c.Kind != NumericWidenCoercion {
		t.Fatalf("expected numeric widen uint8 -> uint32, got %+v, ok=%v", c, ok)
	}

	if _, ok := TryCoerce(u32, u8, Implicit, nil); ok {
		t.Fatalf("narrowing without a literal must not silently coerce")
	}
}

func TestCoerce_RefUnwrap(t *testing.T) {
	u8 := NewUintType(8)
	ref := NewReferenceType(u8, StrongReference)

	c, ok := TryCoerce(ref, u8, Implicit, nil)
	if !ok || c.Kind != RefUnwrapCoercion {
		t.Fatalf("expected reference auto-deref, got %+v, ok=%v", c, ok)
	}
}

func TestCoerce_OptionalPromote(t *testing.T) {
	u8 := NewUintType(8)
	opt := NewOptionalType(u8)

	c, ok := TryCoerce(u8, opt, Implicit, nil)
	if !ok || c.Kind != OptionalPromoteCoercion {
		t.Fatalf("expected optional promotion, got %+v, ok=%v", c, ok)
	}

	null := NewPrimitiveType(Null)
	if _, ok := TryCoerce(null, opt, Implicit, nil); !ok {
		t.Fatalf("expected null to coerce to any optional<_>")
	}
}

func TestCoerce_ContainerWidenRequiresExplicit(t *testing.T) {
	list := NewContainerType(ListContainer, NewUintType(16))
	vec := NewContainerType(VectorContainer, NewUintType(16))

	if _, ok := TryCoerce(list, vec, Implicit, nil); ok {
		t.Fatalf("container widening must require an explicit style")
	}

	c, ok := TryCoerce(list, vec, ExplicitCast, nil)
	if !ok || c.Kind != ContainerWidenCoercion {
		t.Fatalf("expected list -> vector under ExplicitCast, got %+v, ok=%v", c, ok)
	}
}

// boolType is a tiny local helper so the struct-equivalence test above
// doesn't need to import bool handling from elsewhere.
func boolType() Type { return NewPrimitiveType(Bool) }
