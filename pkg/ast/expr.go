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
	"math/big"

	"github.com/zeek/spicy/pkg/sexp"
	"github.com/zeek/spicy/pkg/source"
	"github.com/zeek/spicy/pkg/typesys"
)

// Expr is implemented by every expression node.  Every expression owns an
// (initially auto/unknown) type slot that the unifier and resolver fill
// in; ExprType returns whatever is currently there.
type Expr interface {
	Node
	// ExprType returns this expression's current type (typesys.AUTO
	// before inference runs).
	ExprType() typesys.Type
	// SetType replaces this expression's type, called by the type
	// checker once it has computed one.
	SetType(typesys.Type)
}

type exprBase struct {
	meta Meta
	ty   typesys.Type
}

func newExprBase(span source.Span) exprBase {
	return exprBase{NewMeta(span), typesys.AUTO}
}

// NodeID implements Node.
func (e *exprBase) NodeID() uint64 { return e.meta.ID() }

// Span implements Node.
func (e *exprBase) Span() source.Span { return e.meta.Span }

// ExprType implements Expr.
func (e *exprBase) ExprType() typesys.Type { return e.ty }

// SetType implements Expr.
func (e *exprBase) SetType(t typesys.Type) { e.ty = t }

// ============================================================================
// IdentName — the general (any-binding) symbol reference
// ============================================================================

// IdentName is the deferred-binding symbol used at general identifier
// reference sites (field/variable/constant/sink access); see
// FunctionName (symbol.go) for the specialised call-site variant.
type IdentName = Name[Binding]

// IdentExpr references a named symbol: a field, variable, constant or
// sink.  Before resolution its Ref carries only the source path; after
// resolution sweep 1 (spec.md §4.C) Ref.Binding() returns the concrete
// declaration.
type IdentExpr struct {
	exprBase
	Ref *IdentName
}

// NewIdentExpr constructs an unresolved identifier reference.
func NewIdentExpr(span source.Span, path ...string) *IdentExpr {
	return &IdentExpr{newExprBase(span), NewName[Binding](NewMeta(span), path...)}
}

// Children implements Node.
func (p *IdentExpr) Children() []Node { return nil }

// ReplaceChild implements Node.
func (p *IdentExpr) ReplaceChild(index int, child Node) { childIndexError("IdentExpr", index, 0) }

// Lisp implements Node.
func (p *IdentExpr) Lisp() sexp.SExp { return p.Ref.Lisp() }

// ============================================================================
// MemberExpr
// ============================================================================

// MemberExpr is a `base.field`-style access, used both for `self.field`
// and for accessing a sub-unit's fields once its type is known.
type MemberExpr struct {
	exprBase
	Base  Expr
	Field string
}

// NewMemberExpr constructs a member-access expression.
func NewMemberExpr(span source.Span, base Expr, field string) *MemberExpr {
	return &MemberExpr{newExprBase(span), base, field}
}

// Children implements Node.
func (p *MemberExpr) Children() []Node { return []Node{p.Base} }

// ReplaceChild implements Node.
func (p *MemberExpr) ReplaceChild(index int, child Node) {
	if index != 0 {
		childIndexError("MemberExpr", index, 1)
	}

	p.Base = child.(Expr)
}

// Lisp implements Node.
func (p *MemberExpr) Lisp() sexp.SExp {
	return sexp.NewList(sexp.NewSymbol("."), p.Base.Lisp(), sexp.NewSymbol(p.Field))
}

// ============================================================================
// BinaryExpr / UnaryExpr
// ============================================================================

// BinaryExpr is a two-operand operator application.  Op names the
// surface operator (e.g. "+", "=="); resolver sweep 2 picks the concrete
// FunctionBinding candidate and records it in Candidate.
type BinaryExpr struct {
	exprBase
	Op        string
	Left      Expr
	Right     Expr
	Candidate *FunctionName
}

// NewBinaryExpr constructs an unresolved binary operator application.
func NewBinaryExpr(span source.Span, op string, left, right Expr) *BinaryExpr {
	return &BinaryExpr{newExprBase(span), op, left, right, nil}
}

// Children implements Node.
func (p *BinaryExpr) Children() []Node { return []Node{p.Left, p.Right} }

// ReplaceChild implements Node.
func (p *BinaryExpr) ReplaceChild(index int, child Node) {
	switch index {
	case 0:
		p.Left = child.(Expr)
	case 1:
		p.Right = child.(Expr)
	default:
		childIndexError("BinaryExpr", index, 2)
	}
}

// Lisp implements Node.
func (p *BinaryExpr) Lisp() sexp.SExp {
	return sexp.NewList(sexp.NewSymbol(p.Op), p.Left.Lisp(), p.Right.Lisp())
}

// UnaryExpr is a single-operand operator application.
type UnaryExpr struct {
	exprBase
	Op        string
	Operand   Expr
	Candidate *FunctionName
}

// NewUnaryExpr constructs an unresolved unary operator application.
func NewUnaryExpr(span source.Span, op string, operand Expr) *UnaryExpr {
	return &UnaryExpr{newExprBase(span), op, operand, nil}
}

// Children implements Node.
func (p *UnaryExpr) Children() []Node { return []Node{p.Operand} }

// ReplaceChild implements Node.
func (p *UnaryExpr) ReplaceChild(index int, child Node) {
	if index != 0 {
		childIndexError("UnaryExpr", index, 1)
	}

	p.Operand = child.(Expr)
}

// Lisp implements Node.
func (p *UnaryExpr) Lisp() sexp.SExp {
	return sexp.NewList(sexp.NewSymbol(p.Op), p.Operand.Lisp())
}

// ============================================================================
// CallExpr
// ============================================================================

// CallExpr invokes a (possibly overloaded) function.
type CallExpr struct {
	exprBase
	Callee *FunctionName
	Args   []Expr
}

// NewCallExpr constructs an unresolved function call.
func NewCallExpr(span source.Span, callee *FunctionName, args ...Expr) *CallExpr {
	return &CallExpr{newExprBase(span), callee, args}
}

// Children implements Node.
func (p *CallExpr) Children() []Node {
	children := make([]Node, len(p.Args))
	for i, a := range p.Args {
		children[i] = a
	}

	return children
}

// ReplaceChild implements Node.
func (p *CallExpr) ReplaceChild(index int, child Node) {
	if index < 0 || index >= len(p.Args) {
		childIndexError("CallExpr", index, len(p.Args))
	}

	p.Args[index] = child.(Expr)
}

// Lisp implements Node.
func (p *CallExpr) Lisp() sexp.SExp {
	l := sexp.NewList(p.Callee.Lisp())
	for _, a := range p.Args {
		l.Append(a.Lisp())
	}

	return l
}

// ============================================================================
// Coerced / PendingCoerced
// ============================================================================

// Coerced wraps an expression whose value has been converted to a
// different type via a concrete, already-chosen lattice Coercion
// (spec.md §4.C sweep 3).
type Coerced struct {
	exprBase
	Inner    Expr
	Coercion typesys.Coercion
}

// NewCoerced wraps inner in an applied coercion and sets its own type to
// the coercion's target.
func NewCoerced(inner Expr, c typesys.Coercion) *Coerced {
	n := &Coerced{newExprBase(source.Unknown()), inner, c}
	n.SetType(c.To)

	return n
}

// Children implements Node.
func (p *Coerced) Children() []Node { return []Node{p.Inner} }

// ReplaceChild implements Node.
func (p *Coerced) ReplaceChild(index int, child Node) {
	if index != 0 {
		childIndexError("Coerced", index, 1)
	}

	p.Inner = child.(Expr)
}

// Lisp implements Node.
func (p *Coerced) Lisp() sexp.SExp {
	return sexp.NewList(sexp.NewSymbol("coerced"), p.Inner.Lisp())
}

// PendingCoerced wraps an expression at a site where a coercion to Target
// is required but has not been chosen yet (the lattice search runs once
// the source type stabilises, since it may itself still be auto/unknown
// mid-fixpoint).
type PendingCoerced struct {
	exprBase
	Inner  Expr
	Target typesys.Type
	Style  typesys.CoercionStyle
}

// NewPendingCoerced constructs a pending coercion request.
func NewPendingCoerced(inner Expr, target typesys.Type, style typesys.CoercionStyle) *PendingCoerced {
	return &PendingCoerced{newExprBase(source.Unknown()), inner, target, style}
}

// Children implements Node.
func (p *PendingCoerced) Children() []Node { return []Node{p.Inner} }

// ReplaceChild implements Node.
func (p *PendingCoerced) ReplaceChild(index int, child Node) {
	if index != 0 {
		childIndexError("PendingCoerced", index, 1)
	}

	p.Inner = child.(Expr)
}

// Lisp implements Node.
func (p *PendingCoerced) Lisp() sexp.SExp {
	return sexp.NewList(sexp.NewSymbol("pending-coerced"), p.Inner.Lisp())
}

// ============================================================================
// Literal
// ============================================================================

// Literal wraps a Ctor as an expression.
type Literal struct {
	exprBase
	Ctor Ctor
}

// NewLiteral constructs a literal expression over the given ctor.
func NewLiteral(span source.Span, ctor Ctor) *Literal {
	l := &Literal{newExprBase(span), ctor}
	l.SetType(ctor.CtorType())

	return l
}

// Children implements Node.
func (p *Literal) Children() []Node { return nil }

// ReplaceChild implements Node.
func (p *Literal) ReplaceChild(index int, child Node) { childIndexError("Literal", index, 0) }

// Lisp implements Node.
func (p *Literal) Lisp() sexp.SExp { return p.Ctor.Lisp() }

// IntValue implements typesys's literalValue contract via Ctor
// delegation, so coercion requests can inspect a wrapping Literal
// directly.
func (p *Literal) IntValue() (*big.Int, bool) { return p.Ctor.IntValue() }

// IsBytesLiteral delegates to the wrapped ctor.
func (p *Literal) IsBytesLiteral() bool { return p.Ctor.IsBytesLiteral() }

// IsUTF8Literal delegates to the wrapped ctor.
func (p *Literal) IsUTF8Literal() bool { return p.Ctor.IsUTF8Literal() }

// EnumLabel delegates to the wrapped ctor.
func (p *Literal) EnumLabel() (string, bool) { return p.Ctor.EnumLabel() }
