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
// Package typesys implements the Spicy type system: the structural type
// lattice, its canonical unification string encoding, and the coercion
// lattice that the resolver consults when an expression's type does not
// match the type required by its context.
package typesys

// Type is the common interface implemented by every type variant.  The
// hierarchy is a tagged sum (primitives, parametric, nominal, meta) rather
// than a class hierarchy: each concrete type is a plain struct, and
// dispatch happens by type switch in the unifier and coercion lattice.
type Type interface {
	// SubtypeOf determines whether this type is a subtype of another,
	// ignoring qualifiers (const/side are carried separately by
	// Qualified).
	SubtypeOf(Type) bool
	// LeastUpperBound computes the smallest type containing the values
	// of both this type and other, or nil if none exists.
	LeastUpperBound(other Type) Type
	// Width returns the number of underlying columns/slots this type
	// occupies once lowered (primitives, integers, references and the
	// enum/bitfield/exception/unit/library types: 1; tuples and structs:
	// sum of element/field widths; unions: widest field; optional,
	// result and containers: element width; maps: key plus value;
	// meta/placeholder types: 0, or a bound NameType's target width).
	Width() uint
	// HasUnderlying reports whether this type has a concrete runtime
	// representation, as opposed to being a meta/placeholder type that
	// must be replaced before code generation.
	HasUnderlying() bool
	// String renders a human-readable (not necessarily canonical)
	// rendering of this type, for diagnostics and debug logging.
	String() string
}

// Side distinguishes an L-value (addressable storage) use site from an
// R-value (transient result) use site; const-relaxation and reference
// auto-deref are only legal along specific Side transitions.
type Side uint8

const (
	// LValue denotes an addressable storage location.
	LValue Side = iota
	// RValue denotes a transient, non-addressable result.
	RValue
)

func (s Side) String() string {
	if s == LValue {
		return "lvalue"
	}

	return "rvalue"
}

// Qualified wraps an unqualified Type with the constness and side
// information spec.md §3 requires every type carry.
type Qualified struct {
	Inner Type
	Const bool
	Side  Side
}

// NewQualified constructs a qualified type wrapping inner.
func NewQualified(inner Type, isConst bool, side Side) Qualified {
	return Qualified{inner, isConst, side}
}

func (q Qualified) String() string {
	prefix := ""
	if q.Const {
		prefix = "const "
	}

	return prefix + q.Inner.String()
}

// ============================================================================
// Primitive types
// ============================================================================

// PrimitiveKind enumerates the non-parametric, non-numeric primitive
// types of spec.md §3.
type PrimitiveKind uint8

const (
	// Bool is the boolean type.
	Bool PrimitiveKind = iota
	// Void carries no value.
	Void
	// Null is the type of the null literal.
	Null
	// String is a sequence of Unicode codepoints.
	String
	// Bytes is a sequence of raw octets.
	Bytes
	// Address is an IPv4/IPv6 address.
	Address
	// Network is a CIDR-style address/prefix pair.
	Network
	// Port is a transport-layer port plus protocol tag.
	Port
	// Interval is a signed duration.
	Interval
	// Time is an absolute point in time.
	Time
	// Real is an IEEE-754 double.
	Real
	// Regexp is a compiled pattern value.
	Regexp
	// Stream is an append-only byte container (see runtime ABI, spec.md
	// §6); modeled here only as the type of a `stream` field/variable.
	Stream
	// Sink is an abstract reassembly port.
	Sink
	// Error is the type of a recoverable run-time error value.
	Error
)

var primitiveNames = map[PrimitiveKind]string{
	Bool: "bool", Void: "void", Null: "null", String: "string", Bytes: "bytes",
	Address: "address", Network: "network", Port: "port", Interval: "interval",
	Time: "time", Real: "real", Regexp: "regexp", Stream: "stream", Sink: "sink",
	Error: "error",
}

// PrimitiveType is a type with no internal structure beyond its kind.
type PrimitiveType struct {
	Kind PrimitiveKind
}

// NewPrimitiveType constructs a primitive type of the given kind.
func NewPrimitiveType(kind PrimitiveKind) *PrimitiveType {
	return &PrimitiveType{kind}
}

// HasUnderlying implements Type.
func (p *PrimitiveType) HasUnderlying() bool { return true }

// Width implements Type.
func (p *PrimitiveType) Width() uint { return 1 }

// LeastUpperBound implements Type.
func (p *PrimitiveType) LeastUpperBound(other Type) Type {
	if o, ok := other.(*PrimitiveType); ok && o.Kind == p.Kind {
		return p
	}

	return nil
}

// SubtypeOf implements Type.
func (p *PrimitiveType) SubtypeOf(other Type) bool {
	o, ok := other.(*PrimitiveType)
	return ok && o.Kind == p.Kind
}

func (p *PrimitiveType) String() string { return primitiveNames[p.Kind] }

// ============================================================================
// AnyType
// ============================================================================

// AnyType is the top of the type lattice: every other type is a subtype of
// it, including itself.
type AnyType struct{}

// ANY is the sole instance of AnyType.
var ANY = &AnyType{}

// HasUnderlying implements Type.
func (p *AnyType) HasUnderlying() bool { return false }

// Width implements Type.
func (p *AnyType) Width() uint { return 0 }

// LeastUpperBound implements Type.
func (p *AnyType) LeastUpperBound(Type) Type { return p }

// SubtypeOf implements Type.
func (p *AnyType) SubtypeOf(other Type) bool {
	_, ok := other.(*AnyType)
	return other == nil || ok
}

func (p *AnyType) String() string { return "any" }
