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
package ast

import (
	"fmt"
	"math/big"

	"github.com/zeek/spicy/pkg/sexp"
	"github.com/zeek/spicy/pkg/source"
	"github.com/zeek/spicy/pkg/typesys"
)

// Ctor is a literal constructor: a value spelled directly in source
// (an integer, a byte string, a regular expression, ...).  Only ctors
// (never arbitrary expressions) contribute to a grammar's look-ahead sets
// (spec.md §3 invariants), since only their matched bytes are statically
// known.
type Ctor interface {
	Node
	// CtorType returns this literal's type.
	CtorType() typesys.Type
	// IntValue returns the integer value, if this is an integer literal.
	IntValue() (*big.Int, bool)
	// IsBytesLiteral reports whether this is a raw byte-string literal.
	IsBytesLiteral() bool
	// IsUTF8Literal reports whether this is a UTF-8 string literal.
	IsUTF8Literal() bool
	// EnumLabel returns the bareword label, if this literal is an
	// identifier-shaped enum member reference.
	EnumLabel() (string, bool)
}

type ctorBase struct {
	meta Meta
}

func (c *ctorBase) NodeID() uint64     { return c.meta.ID() }
func (c *ctorBase) Span() source.Span  { return c.meta.Span }
func (c *ctorBase) Children() []Node   { return nil }
func (c *ctorBase) IntValue() (*big.Int, bool) { return nil, false }
func (c *ctorBase) IsBytesLiteral() bool       { return false }
func (c *ctorBase) IsUTF8Literal() bool        { return false }
func (c *ctorBase) EnumLabel() (string, bool)  { return "", false }

// IntCtor is an integer literal.
type IntCtor struct {
	ctorBase
	Value *big.Int
	Type  *typesys.IntType
}

// NewIntCtor constructs an integer literal ctor typed as Type.
func NewIntCtor(span source.Span, value *big.Int, ty *typesys.IntType) *IntCtor {
	return &IntCtor{ctorBase{NewMeta(span)}, value, ty}
}

// CtorType implements Ctor.
func (p *IntCtor) CtorType() typesys.Type { return p.Type }

// IntValue implements Ctor.
func (p *IntCtor) IntValue() (*big.Int, bool) { return p.Value, true }

// ReplaceChild implements Node.
func (p *IntCtor) ReplaceChild(index int, child Node) { childIndexError("IntCtor", index, 0) }

// Lisp implements Node.
func (p *IntCtor) Lisp() sexp.SExp { return sexp.NewSymbol(p.Value.String()) }

// BytesCtor is a raw byte-string literal.
type BytesCtor struct {
	ctorBase
	Value []byte
}

// NewBytesCtor constructs a byte-string literal ctor.
func NewBytesCtor(span source.Span, value []byte) *BytesCtor {
	return &BytesCtor{ctorBase{NewMeta(span)}, value}
}

// CtorType implements Ctor.
func (p *BytesCtor) CtorType() typesys.Type { return typesys.NewPrimitiveType(typesys.Bytes) }

// IsBytesLiteral implements Ctor.
func (p *BytesCtor) IsBytesLiteral() bool { return true }

// ReplaceChild implements Node.
func (p *BytesCtor) ReplaceChild(index int, child Node) { childIndexError("BytesCtor", index, 0) }

// Lisp implements Node.
func (p *BytesCtor) Lisp() sexp.SExp { return sexp.NewSymbol(fmt.Sprintf("b%q", p.Value)) }

// StringCtor is a UTF-8 string literal.
type StringCtor struct {
	ctorBase
	Value string
}

// NewStringCtor constructs a UTF-8 string literal ctor.
func NewStringCtor(span source.Span, value string) *StringCtor {
	return &StringCtor{ctorBase{NewMeta(span)}, value}
}

// CtorType implements Ctor.
func (p *StringCtor) CtorType() typesys.Type { return typesys.NewPrimitiveType(typesys.String) }

// IsUTF8Literal implements Ctor.
func (p *StringCtor) IsUTF8Literal() bool { return true }

// ReplaceChild implements Node.
func (p *StringCtor) ReplaceChild(index int, child Node) { childIndexError("StringCtor", index, 0) }

// Lisp implements Node.
func (p *StringCtor) Lisp() sexp.SExp { return sexp.NewSymbol(fmt.Sprintf("%q", p.Value)) }

// BoolCtor is a boolean literal.
type BoolCtor struct {
	ctorBase
	Value bool
}

// NewBoolCtor constructs a boolean literal ctor.
func NewBoolCtor(span source.Span, value bool) *BoolCtor {
	return &BoolCtor{ctorBase{NewMeta(span)}, value}
}

// CtorType implements Ctor.
func (p *BoolCtor) CtorType() typesys.Type { return typesys.NewPrimitiveType(typesys.Bool) }

// ReplaceChild implements Node.
func (p *BoolCtor) ReplaceChild(index int, child Node) { childIndexError("BoolCtor", index, 0) }

// Lisp implements Node.
func (p *BoolCtor) Lisp() sexp.SExp { return sexp.NewSymbol(fmt.Sprintf("%t", p.Value)) }

// RegexpCtor is a compiled pattern literal.  Per spec.md §3 it
// contributes to look-ahead sets via the grammar builder's hashing of its
// unified representation (Pattern is the canonical textual form hashed).
type RegexpCtor struct {
	ctorBase
	Pattern string
}

// NewRegexpCtor constructs a regular-expression literal ctor.
func NewRegexpCtor(span source.Span, pattern string) *RegexpCtor {
	return &RegexpCtor{ctorBase{NewMeta(span)}, pattern}
}

// CtorType implements Ctor.
func (p *RegexpCtor) CtorType() typesys.Type { return typesys.NewPrimitiveType(typesys.Regexp) }

// ReplaceChild implements Node.
func (p *RegexpCtor) ReplaceChild(index int, child Node) { childIndexError("RegexpCtor", index, 0) }

// Lisp implements Node.
func (p *RegexpCtor) Lisp() sexp.SExp { return sexp.NewSymbol("/" + p.Pattern + "/") }

// EnumLabelCtor is a bareword literal used where an enum member is
// expected (`Color::RED` or bare `RED` depending on the surface syntax);
// the coercion lattice's enum-match category matches this against the
// target EnumType's declared labels.
type EnumLabelCtor struct {
	ctorBase
	Label string
}

// NewEnumLabelCtor constructs an enum-label literal ctor.
func NewEnumLabelCtor(span source.Span, label string) *EnumLabelCtor {
	return &EnumLabelCtor{ctorBase{NewMeta(span)}, label}
}

// CtorType implements Ctor; the concrete enum type is only known once the
// coercion lattice matches this label against a target, so prior to that
// this reports typesys.UNKNOWN.
func (p *EnumLabelCtor) CtorType() typesys.Type { return typesys.UNKNOWN }

// EnumLabel implements Ctor.
func (p *EnumLabelCtor) EnumLabel() (string, bool) { return p.Label, true }

// ReplaceChild implements Node.
func (p *EnumLabelCtor) ReplaceChild(index int, child Node) { childIndexError("EnumLabelCtor", index, 0) }

// Lisp implements Node.
func (p *EnumLabelCtor) Lisp() sexp.SExp { return sexp.NewSymbol(p.Label) }
