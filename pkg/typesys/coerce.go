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

import "math/big"

// CoercionKind enumerates the categories of the coercion lattice (spec.md
// §4.B).
type CoercionKind uint8

const (
	// IdentityCoercion means the two types already unify to the same
	// string; no wrapper is needed.
	IdentityCoercion CoercionKind = iota
	// ConstRelaxCoercion drops mutability from an L-value use site to an
	// R-value one.
	ConstRelaxCoercion
	// RefUnwrapCoercion automatically dereferences reference<T> to T in
	// an R-value position.
	RefUnwrapCoercion
	// RefWrapCoercion wraps T as reference<T> (used when a function
	// parameter expects a reference and is given a plain value at an
	// addressable site).
	RefWrapCoercion
	// NumericWidenCoercion enlarges an integer's representable range.
	NumericWidenCoercion
	// NumericNarrowCoercion narrows an integer's representable range;
	// only legal for literal constants statically known to be in range.
	NumericNarrowCoercion
	// OptionalPromoteCoercion promotes T (or null) to optional<T>.
	OptionalPromoteCoercion
	// ResultPromoteCoercion promotes T (or error) to result<T>.
	ResultPromoteCoercion
	// ContainerWidenCoercion converts list<T> to vector<T> or vice
	// versa, or tuple<T...> to an anonymous struct of matching arity.
	ContainerWidenCoercion
	// BytesLiteralCoercion converts a byte-string literal to bytes.
	BytesLiteralCoercion
	// StringLiteralCoercion converts a UTF-8 literal to string.
	StringLiteralCoercion
	// EnumMatchCoercion converts an integer literal to an enum value
	// when the literal matches one of the enum's declared labels.
	EnumMatchCoercion
)

// CoercionStyle modulates which coercions a particular request site
// permits.
type CoercionStyle uint8

const (
	// Implicit allows only coercions safe to apply without any syntax
	// at the use site (identity, const-relax, ref-unwrap, numeric
	// widening, narrowing of an integer literal statically known to be
	// in range, optional/result promotion, bytes/string literals,
	// enum match).
	Implicit CoercionStyle = iota
	// ExplicitCast additionally allows container widening, requiring the
	// source to spell a `cast<T>()` operator. Numeric narrowing is the
	// same in-range-literal narrowing every style gets; a non-literal is
	// never narrowed.
	ExplicitCast
	// FunctionCall is the style used when matching call arguments
	// against a parameter type; behaves like Implicit but additionally
	// allows RefWrapCoercion, since parameters may request a reference.
	FunctionCall
	// TryCoercion allows the same categories as ExplicitCast (no
	// reference wrapping, and narrowing only for an in-range literal);
	// the caller must handle a run-time AttributeNotSet/InvalidValue
	// failure (`&try` attribute).
	TryCoercion
)

// Coercion describes one accepted coercion: the source/target types and
// which lattice category applied.  The caller (ast/resolver package) wraps
// the original expression in a Coerced/PendingCoerced node carrying this
// descriptor; typesys itself never constructs AST nodes.
type Coercion struct {
	Kind CoercionKind
	From Type
	To   Type
}

// literalValue is the minimal view the coercion lattice needs of a
// constant expression being coerced, e.g. for the narrowing-in-range and
// enum-match checks.  The ast package's integer/string/bytes literal
// constructors implement this so TryCoerce can consult it without
// depending on ast.
type literalValue interface {
	// IntValue returns the integer value of an integer-literal ctor, or
	// (nil, false) if this literal is not an integer.
	IntValue() (*big.Int, bool)
	// IsBytesLiteral reports whether this is a raw byte-string literal.
	IsBytesLiteral() bool
	// IsUTF8Literal reports whether this is a UTF-8 string literal.
	IsUTF8Literal() bool
	// EnumLabel returns the textual label of an identifier-shaped
	// literal, or ("", false) if inapplicable.
	EnumLabel() (string, bool)
}

// TryCoerce attempts to find a coercion from `from` to `to` permitted by
// style.  lit may be nil when the expression being coerced is not a
// literal constant (narrowing and enum-match then never apply).  Returns
// (nil, false) if no lattice path exists.
func TryCoerce(from, to Type, style CoercionStyle, lit literalValue) (*Coercion, bool) {
	if Equal(from, to) {
		return &Coercion{IdentityCoercion, from, to}, true
	}

	if c, ok := tryRefUnwrap(from, to); ok {
		return c, true
	}

	if c, ok := tryRefWrap(from, to, style); ok {
		return c, true
	}

	if c, ok := tryConstRelax(from, to); ok {
		return c, true
	}

	if c, ok := tryNumeric(from, to, style, lit); ok {
		return c, true
	}

	if c, ok := tryOptionalResult(from, to); ok {
		return c, true
	}

	if c, ok := tryContainerWiden(from, to, style); ok {
		return c, true
	}

	if c, ok := tryLiteralBytesString(from, to, lit); ok {
		return c, true
	}

	if c, ok := tryEnumMatch(from, to, lit); ok {
		return c, true
	}

	return nil, false
}

func tryRefUnwrap(from, to Type) (*Coercion, bool) {
	if r, ok := from.(*ReferenceType); ok && Equal(r.Elem, to) {
		return &Coercion{RefUnwrapCoercion, from, to}, true
	}

	return nil, false
}

func tryRefWrap(from, to Type, style CoercionStyle) (*Coercion, bool) {
	if style != FunctionCall {
		return nil, false
	}

	if r, ok := to.(*ReferenceType); ok && Equal(from, r.Elem) {
		return &Coercion{RefWrapCoercion, from, to}, true
	}

	return nil, false
}

// tryConstRelax is a placeholder: const-relaxation acts on the Qualified
// wrapper's Const flag, not on the unqualified Type itself, so callers
// apply it directly against Qualified rather than through TryCoerce.
func tryConstRelax(from, to Type) (*Coercion, bool) {
	return nil, false
}

// RelaxConst drops constness when moving a Qualified value from an
// L-value declaration site to an R-value use site. Returns false if q is
// already non-const or is itself an R-value (nothing to relax).
func RelaxConst(q Qualified) (Qualified, bool) {
	if !q.Const || q.Side != LValue {
		return q, false
	}

	return Qualified{q.Inner, false, RValue}, true
}

func tryNumeric(from, to Type, style CoercionStyle, lit literalValue) (*Coercion, bool) {
	fi, ok1 := from.(*IntType)
	ti, ok2 := to.(*IntType)

	if !ok1 || !ok2 {
		return nil, false
	}

	if fi.Within(ti) {
		return &Coercion{NumericWidenCoercion, from, to}, true
	}

	// Narrowing: only for a literal constant statically known in range,
	// whatever the style.
	if lit == nil {
		return nil, false
	}

	v, isInt := lit.IntValue()
	if !isInt || !ti.Contains(v) {
		return nil, false
	}

	return &Coercion{NumericNarrowCoercion, from, to}, true
}

func tryOptionalResult(from, to Type) (*Coercion, bool) {
	if o, ok := to.(*OptionalType); ok {
		if _, isNull := from.(*PrimitiveType); isNull {
			if from.(*PrimitiveType).Kind == Null {
				return &Coercion{OptionalPromoteCoercion, from, to}, true
			}
		}

		if Equal(from, o.Elem) {
			return &Coercion{OptionalPromoteCoercion, from, to}, true
		}
	}

	if r, ok := to.(*ResultType); ok {
		if fp, isPrim := from.(*PrimitiveType); isPrim && fp.Kind == Error {
			return &Coercion{ResultPromoteCoercion, from, to}, true
		}

		if Equal(from, r.Elem) {
			return &Coercion{ResultPromoteCoercion, from, to}, true
		}
	}

	return nil, false
}

func tryContainerWiden(from, to Type, style CoercionStyle) (*Coercion, bool) {
	if style != ExplicitCast && style != TryCoercion {
		// Container widening is explicit-cast only in strict mode;
		// FunctionCall/Implicit sites never widen a bare container
		// argument silently.
		return nil, false
	}

	fc, fok := from.(*ContainerType)
	tc, tok := to.(*ContainerType)

	if fok && tok && fc.Kind != tc.Kind && fc.Kind != SetContainer && tc.Kind != SetContainer {
		if Equal(fc.Elem, tc.Elem) {
			return &Coercion{ContainerWidenCoercion, from, to}, true
		}
	}

	ft, ftok := from.(*TupleType)
	tt, ttok := to.(*StructType)

	if ftok && ttok && tt.Name == "" && len(ft.Elems) == len(tt.Fields) {
		for i, e := range ft.Elems {
			if !Equal(e, tt.Fields[i].Type) {
				return nil, false
			}
		}

		return &Coercion{ContainerWidenCoercion, from, to}, true
	}

	return nil, false
}

func tryLiteralBytesString(from, to Type, lit literalValue) (*Coercion, bool) {
	if lit == nil {
		return nil, false
	}

	tp, ok := to.(*PrimitiveType)
	if !ok {
		return nil, false
	}

	if tp.Kind == Bytes && lit.IsBytesLiteral() {
		return &Coercion{BytesLiteralCoercion, from, to}, true
	}

	if tp.Kind == String && lit.IsUTF8Literal() {
		return &Coercion{StringLiteralCoercion, from, to}, true
	}

	return nil, false
}

func tryEnumMatch(from, to Type, lit literalValue) (*Coercion, bool) {
	if lit == nil {
		return nil, false
	}

	te, ok := to.(*EnumType)
	if !ok {
		return nil, false
	}

	if label, isLabel := lit.EnumLabel(); isLabel && te.HasLabel(label) {
		return &Coercion{EnumMatchCoercion, from, to}, true
	}

	if v, isInt := lit.IntValue(); isInt && te.Underlying.Contains(v) {
		return &Coercion{EnumMatchCoercion, from, to}, true
	}

	return nil, false
}
