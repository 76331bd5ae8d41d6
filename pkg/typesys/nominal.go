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

// Field is one named, typed member of a struct/union/exception.
type Field struct {
	Name string
	Type Type
}

// ============================================================================
// StructType / UnionType
// ============================================================================

// StructType is a nominal record type.  Two structurally identical structs
// declared separately are distinct nominal types unless their Name
// matches (nominal types collapse to their qualified name in the
// unification string, see unify.go); an anonymous struct (empty Name) is
// unified structurally instead, which is what lets tuple-to-struct
// coercion (coerce.go) work without a prior declaration.
type StructType struct {
	Name   string
	Fields []Field
}

// NewStructType constructs a (possibly anonymous, if name == "") struct
// type.
func NewStructType(name string, fields ...Field) *StructType {
	return &StructType{name, fields}
}

// HasUnderlying implements Type.
func (p *StructType) HasUnderlying() bool { return true }

// Width implements Type.
func (p *StructType) Width() uint {
	var w uint
	for _, f := range p.Fields {
		w += f.Type.Width()
	}

	return w
}

// LeastUpperBound implements Type.
func (p *StructType) LeastUpperBound(other Type) Type {
	if o, ok := other.(*StructType); ok && p.Name != "" && p.Name == o.Name {
		return p
	}

	return nil
}

// SubtypeOf implements Type.
func (p *StructType) SubtypeOf(other Type) bool {
	o, ok := other.(*StructType)
	return ok && p.Name != "" && p.Name == o.Name
}

func (p *StructType) String() string {
	if p.Name != "" {
		return p.Name
	}

	s := "struct{"

	for i, f := range p.Fields {
		if i != 0 {
			s += ","
		}

		s += f.Name + ":" + f.Type.String()
	}

	return s + "}"
}

// UnionType is a nominal tagged union; exactly one of its Fields is active
// at a time.
type UnionType struct {
	Name   string
	Fields []Field
}

// NewUnionType constructs a union type.
func NewUnionType(name string, fields ...Field) *UnionType {
	return &UnionType{name, fields}
}

// HasUnderlying implements Type.
func (p *UnionType) HasUnderlying() bool { return true }

// Width implements Type.
func (p *UnionType) Width() uint {
	var w uint
	for _, f := range p.Fields {
		if f.Type.Width() > w {
			w = f.Type.Width()
		}
	}

	return w
}

// LeastUpperBound implements Type.
func (p *UnionType) LeastUpperBound(other Type) Type {
	if o, ok := other.(*UnionType); ok && p.Name == o.Name {
		return p
	}

	return nil
}

// SubtypeOf implements Type.
func (p *UnionType) SubtypeOf(other Type) bool {
	o, ok := other.(*UnionType)
	return ok && p.Name == o.Name
}

func (p *UnionType) String() string { return p.Name }

// ============================================================================
// EnumType
// ============================================================================

// EnumType is a nominal enumeration: a closed set of labels backed by an
// integer type.
type EnumType struct {
	Name       string
	Labels     []string
	Underlying *IntType
}

// NewEnumType constructs an enum type.
func NewEnumType(name string, underlying *IntType, labels ...string) *EnumType {
	return &EnumType{name, labels, underlying}
}

// HasLabel reports whether label is one of this enum's declared members.
func (p *EnumType) HasLabel(label string) bool {
	for _, l := range p.Labels {
		if l == label {
			return true
		}
	}

	return false
}

// HasUnderlying implements Type.
func (p *EnumType) HasUnderlying() bool { return true }

// Width implements Type.
func (p *EnumType) Width() uint { return 1 }

// LeastUpperBound implements Type.
func (p *EnumType) LeastUpperBound(other Type) Type {
	if o, ok := other.(*EnumType); ok && p.Name == o.Name {
		return p
	}

	return nil
}

// SubtypeOf implements Type.
func (p *EnumType) SubtypeOf(other Type) bool {
	o, ok := other.(*EnumType)
	return ok && p.Name == o.Name
}

func (p *EnumType) String() string { return p.Name }

// ============================================================================
// ExceptionType
// ============================================================================

// ExceptionType is a nominal exception class, optionally deriving from a
// base exception type.
type ExceptionType struct {
	Name string
	Base *ExceptionType
}

// NewExceptionType constructs an exception type, optionally with a base.
func NewExceptionType(name string, base *ExceptionType) *ExceptionType {
	return &ExceptionType{name, base}
}

// HasUnderlying implements Type.
func (p *ExceptionType) HasUnderlying() bool { return true }

// Width implements Type.
func (p *ExceptionType) Width() uint { return 1 }

// LeastUpperBound implements Type.
func (p *ExceptionType) LeastUpperBound(other Type) Type {
	if p.SubtypeOf(other) {
		return other
	}

	if o, ok := other.(*ExceptionType); ok && o.SubtypeOf(p) {
		return p
	}

	return nil
}

// SubtypeOf implements Type.
func (p *ExceptionType) SubtypeOf(other Type) bool {
	o, ok := other.(*ExceptionType)
	if !ok {
		return false
	}

	for e := p; e != nil; e = e.Base {
		if e.Name == o.Name {
			return true
		}
	}

	return false
}

func (p *ExceptionType) String() string { return p.Name }

// ============================================================================
// BitfieldType
// ============================================================================

// BitfieldField is one named sub-range of a bitfield.
type BitfieldField struct {
	Name   string
	Offset uint
	Width  uint
}

// BitfieldType is a nominal fixed-width integer decomposed into named
// sub-ranges.
type BitfieldType struct {
	Name   string
	Bits   uint
	Fields []BitfieldField
}

// NewBitfieldType constructs a bitfield type.
func NewBitfieldType(name string, width uint, fields ...BitfieldField) *BitfieldType {
	return &BitfieldType{name, width, fields}
}

// HasUnderlying implements Type.
func (p *BitfieldType) HasUnderlying() bool { return true }

// Width implements Type.
func (p *BitfieldType) Width() uint { return 1 }

// LeastUpperBound implements Type.
func (p *BitfieldType) LeastUpperBound(other Type) Type {
	if o, ok := other.(*BitfieldType); ok && p.Name == o.Name {
		return p
	}

	return nil
}

// SubtypeOf implements Type.
func (p *BitfieldType) SubtypeOf(other Type) bool {
	o, ok := other.(*BitfieldType)
	return ok && p.Name == o.Name
}

func (p *BitfieldType) String() string { return fmt.Sprintf("%s: bitfield(%d)", p.Name, p.Bits) }

// ============================================================================
// UnitType
// ============================================================================

// UnitType is a nominal reference to a declared unit.  Units may refer to
// themselves (directly or through a chain of fields), so this type is
// always accessed by name through the symbol table rather than owned by
// value; see grammar.Reference for the corresponding production-level
// cycle-breaking mechanism.
type UnitType struct {
	Name string
}

// NewUnitType constructs a reference to the named unit type.
func NewUnitType(name string) *UnitType { return &UnitType{name} }

// HasUnderlying implements Type.
func (p *UnitType) HasUnderlying() bool { return true }

// Width implements Type.
func (p *UnitType) Width() uint { return 1 }

// LeastUpperBound implements Type.
func (p *UnitType) LeastUpperBound(other Type) Type {
	if o, ok := other.(*UnitType); ok && p.Name == o.Name {
		return p
	}

	return nil
}

// SubtypeOf implements Type.
func (p *UnitType) SubtypeOf(other Type) bool {
	o, ok := other.(*UnitType)
	return ok && p.Name == o.Name
}

func (p *UnitType) String() string { return p.Name }
