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

import (
	"fmt"
	"strings"
)

// Unify computes the canonical unification string for t: structural types
// fully expand, nominal types collapse to their qualified name, and cycles
// (a struct/unit referring to itself, directly or through a Name
// reference) break via a per-call "seen" set that emits a back-reference
// token instead of recursing forever.  Two unqualified types are equal
// (spec.md §3) iff Unify returns the same string for both.
func Unify(t Type) string {
	ctx := &unifyContext{seen: map[any]int{}}
	return ctx.unify(t)
}

// Equal reports whether a and b accept exactly the same values, per their
// unification strings.
func Equal(a, b Type) bool {
	return Unify(a) == Unify(b)
}

type unifyContext struct {
	seen map[any]int
}

// nominalKey returns the pointer identity to use for cycle detection, or
// nil if t is not a type that can participate in a cycle (only
// struct/union/enum/exception/bitfield/unit types are ever the target of
// a back-edge, since those are the only types the source AST can refer to
// recursively).
func nominalKey(t Type) any {
	switch v := t.(type) {
	case *StructType:
		return v
	case *UnionType:
		return v
	case *EnumType:
		return v
	case *ExceptionType:
		return v
	case *BitfieldType:
		return v
	case *UnitType:
		return v
	default:
		return nil
	}
}

func (c *unifyContext) unify(t Type) string {
	if t == nil {
		return "any"
	}

	if key := nominalKey(t); key != nil {
		if n, ok := c.seen[key]; ok {
			return fmt.Sprintf("#%d", n)
		}

		c.seen[key] = len(c.seen)
		defer delete(c.seen, key)
	}

	switch v := t.(type) {
	case *AnyType:
		return "any"
	case *AutoType:
		return "auto"
	case *UnknownType:
		return "unknown"
	case *PrimitiveType:
		return primitiveNames[v.Kind]
	case *IntType:
		return v.String()
	case *OptionalType:
		return "optional<" + c.unify(v.Elem) + ">"
	case *ResultType:
		return "result<" + c.unify(v.Elem) + ">"
	case *ContainerType:
		return containerNames[v.Kind] + "<" + c.unify(v.Elem) + ">"
	case *MapType:
		return "map<" + c.unify(v.Key) + "," + c.unify(v.Val) + ">"
	case *TupleType:
		parts := make([]string, len(v.Elems))
		for i, e := range v.Elems {
			parts[i] = c.unify(e)
		}

		return "tuple<" + strings.Join(parts, ",") + ">"
	case *ReferenceType:
		return "reference<" + c.unify(v.Elem) + "," + referenceFlavorNames[v.Flavor] + ">"
	case *StructType:
		// Nominal structs collapse to their qualified name; anonymous
		// structs (Name == "") unify structurally, which is required
		// for tuple-to-struct coercion to be expressible as a LUB.
		if v.Name != "" {
			return "struct:" + v.Name
		}

		return c.unifyStructFields(v.Fields)
	case *UnionType:
		return "union:" + v.Name
	case *EnumType:
		return "enum:" + v.Name
	case *ExceptionType:
		return "exception:" + v.Name
	case *BitfieldType:
		return "bitfield:" + v.Name
	case *UnitType:
		return "unit:" + v.Name
	case *TypeOfType:
		return "type_(" + v.ExprID + ")"
	case *LibraryType:
		return "library(" + v.ExternalName + ")"
	case *UnresolvedIDType:
		return "unresolved-id(" + v.ID + ")"
	case *MemberType:
		return "member(" + v.ID + ")"
	case *NameType:
		if v.Target != nil {
			return c.unify(v.Target)
		}

		return "name(" + v.ID + ")"
	case *WildcardType:
		if v.Constraint == nil {
			return "_"
		}

		return "_:" + c.unify(v.Constraint)
	default:
		return t.String()
	}
}

func (c *unifyContext) unifyStructFields(fields []Field) string {
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f.Name + ":" + c.unify(f.Type)
	}
	// Field order is significant for a struct (it determines wire
	// layout), so fields are not sorted here.
	return "struct{" + strings.Join(parts, ",") + "}"
}
