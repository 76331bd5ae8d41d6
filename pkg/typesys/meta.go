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

import "fmt"

// AutoType is the `auto` inference placeholder: the resolver must replace
// it with a concrete type before a node is considered resolved.
type AutoType struct{}

// AUTO is the sole instance of AutoType.
var AUTO = &AutoType{}

// HasUnderlying implements Type.
func (p *AutoType) HasUnderlying() bool { return false }

// Width implements Type.
func (p *AutoType) Width() uint { return 0 }

// LeastUpperBound implements Type.
func (p *AutoType) LeastUpperBound(Type) Type { return nil }

// SubtypeOf implements Type.
func (p *AutoType) SubtypeOf(other Type) bool {
	_, ok := other.(*AutoType)
	return ok
}

func (p *AutoType) String() string { return "auto" }

// UnknownType marks a type the resolver has given up trying to infer;
// distinct from AutoType so diagnostics can tell "never tried" from
// "tried and failed" apart.
type UnknownType struct{}

// UNKNOWN is the sole instance of UnknownType.
var UNKNOWN = &UnknownType{}

// HasUnderlying implements Type.
func (p *UnknownType) HasUnderlying() bool { return false }

// Width implements Type.
func (p *UnknownType) Width() uint { return 0 }

// LeastUpperBound implements Type.
func (p *UnknownType) LeastUpperBound(Type) Type { return nil }

// SubtypeOf implements Type.
func (p *UnknownType) SubtypeOf(Type) bool { return false }

func (p *UnknownType) String() string { return "unknown" }

// TypeOfType is the meta-type `type-of T`: the type of whatever expression
// ExprID names, resolved once that expression's own type is known.
type TypeOfType struct {
	ExprID string
}

// NewTypeOfType constructs a type-of meta-type over the expression
// identified by exprID (a stable node identity, see ast.Node).
func NewTypeOfType(exprID string) *TypeOfType { return &TypeOfType{exprID} }

// HasUnderlying implements Type.
func (p *TypeOfType) HasUnderlying() bool { return false }

// Width implements Type.
func (p *TypeOfType) Width() uint { return 0 }

// LeastUpperBound implements Type.
func (p *TypeOfType) LeastUpperBound(Type) Type { return nil }

// SubtypeOf implements Type.
func (p *TypeOfType) SubtypeOf(Type) bool { return false }

func (p *TypeOfType) String() string { return fmt.Sprintf("type_(%s)", p.ExprID) }

// LibraryType names an externally-defined type by its backend-specific
// (e.g. C++) qualified name; the kernel treats it as an opaque nominal
// type it never looks inside.
type LibraryType struct {
	ExternalName string
}

// NewLibraryType constructs a reference to an externally-defined type.
func NewLibraryType(externalName string) *LibraryType { return &LibraryType{externalName} }

// HasUnderlying implements Type.
func (p *LibraryType) HasUnderlying() bool { return true }

// Width implements Type.
func (p *LibraryType) Width() uint { return 1 }

// LeastUpperBound implements Type.
func (p *LibraryType) LeastUpperBound(other Type) Type {
	if o, ok := other.(*LibraryType); ok && o.ExternalName == p.ExternalName {
		return p
	}

	return nil
}

// SubtypeOf implements Type.
func (p *LibraryType) SubtypeOf(other Type) bool {
	o, ok := other.(*LibraryType)
	return ok && o.ExternalName == p.ExternalName
}

func (p *LibraryType) String() string { return fmt.Sprintf("library(%s)", p.ExternalName) }

// UnresolvedIDType is a placeholder for an identifier not yet looked up in
// scope; the resolver's sweep 1 (spec.md §4.C) replaces it with the bound
// type or records UnresolvedID.
type UnresolvedIDType struct {
	ID string
}

// NewUnresolvedIDType constructs an unresolved-id placeholder.
func NewUnresolvedIDType(id string) *UnresolvedIDType { return &UnresolvedIDType{id} }

// HasUnderlying implements Type.
func (p *UnresolvedIDType) HasUnderlying() bool { return false }

// Width implements Type.
func (p *UnresolvedIDType) Width() uint { return 0 }

// LeastUpperBound implements Type.
func (p *UnresolvedIDType) LeastUpperBound(Type) Type { return nil }

// SubtypeOf implements Type.
func (p *UnresolvedIDType) SubtypeOf(Type) bool { return false }

func (p *UnresolvedIDType) String() string { return fmt.Sprintf("unresolved-id(%s)", p.ID) }

// MemberType is a placeholder for `self.field`-style member access whose
// owning type is not yet known.
type MemberType struct {
	ID string
}

// NewMemberType constructs a member-access placeholder.
func NewMemberType(id string) *MemberType { return &MemberType{id} }

// HasUnderlying implements Type.
func (p *MemberType) HasUnderlying() bool { return false }

// Width implements Type.
func (p *MemberType) Width() uint { return 0 }

// LeastUpperBound implements Type.
func (p *MemberType) LeastUpperBound(Type) Type { return nil }

// SubtypeOf implements Type.
func (p *MemberType) SubtypeOf(Type) bool { return false }

func (p *MemberType) String() string { return fmt.Sprintf("member(%s)", p.ID) }

// NameType is a resolved-but-non-owning reference to a nominal type bound
// elsewhere in the symbol table.  Per the design notes, cyclic references
// (a unit referring to itself) are represented this way rather than via an
// owning pointer, so the resolver binds Target without the NameType taking
// ownership of it.
type NameType struct {
	ID     string
	Target Type // nil until the resolver binds it
}

// NewNameType constructs an as-yet-unbound name reference.
func NewNameType(id string) *NameType { return &NameType{ID: id} }

// Bind attaches the resolved (non-owned) target type.
func (p *NameType) Bind(target Type) { p.Target = target }

// IsBound reports whether the resolver has attached a target yet.
func (p *NameType) IsBound() bool { return p.Target != nil }

// HasUnderlying implements Type.
func (p *NameType) HasUnderlying() bool { return p.Target != nil && p.Target.HasUnderlying() }

// Width implements Type.
func (p *NameType) Width() uint {
	if p.Target == nil {
		return 0
	}

	return p.Target.Width()
}

// LeastUpperBound implements Type.
func (p *NameType) LeastUpperBound(other Type) Type {
	if o, ok := other.(*NameType); ok && o.ID == p.ID {
		return p
	}

	return nil
}

// SubtypeOf implements Type.
func (p *NameType) SubtypeOf(other Type) bool {
	if o, ok := other.(*NameType); ok {
		return o.ID == p.ID
	}

	if p.Target != nil {
		return p.Target.SubtypeOf(other)
	}

	return false
}

func (p *NameType) String() string { return fmt.Sprintf("name(%s)", p.ID) }

// WildcardType matches any type meeting an optional Constraint, for
// generic built-in operator signatures (e.g. `+` over "any numeric type").
type WildcardType struct {
	Constraint Type // nil means unconstrained
}

// NewWildcardType constructs a wildcard, optionally constrained.
func NewWildcardType(constraint Type) *WildcardType { return &WildcardType{constraint} }

// Matches reports whether candidate satisfies this wildcard's constraint.
func (p *WildcardType) Matches(candidate Type) bool {
	if p.Constraint == nil {
		return true
	}

	return candidate.SubtypeOf(p.Constraint)
}

// HasUnderlying implements Type.
func (p *WildcardType) HasUnderlying() bool { return false }

// Width implements Type.
func (p *WildcardType) Width() uint { return 0 }

// LeastUpperBound implements Type.
func (p *WildcardType) LeastUpperBound(Type) Type { return nil }

// SubtypeOf implements Type.
func (p *WildcardType) SubtypeOf(other Type) bool { return p.Matches(other) }

func (p *WildcardType) String() string {
	if p.Constraint == nil {
		return "_"
	}

	return fmt.Sprintf("_: %s", p.Constraint.String())
}
