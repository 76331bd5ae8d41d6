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
package parserir

import (
	"github.com/zeek/spicy/pkg/ast"
	"github.com/zeek/spicy/pkg/grammar"
	"github.com/zeek/spicy/pkg/source"
	"github.com/zeek/spicy/pkg/typesys"
)

// Stmt is implemented by every IR node. The interface is sealed (the
// unexported stmt method) so the generator and the (out-of-scope) backend
// can exhaustively type-switch over it, the same closed-dispatch pattern
// as ast.Node and grammar.Production.
//
// Per the backend contract of spec.md §6, every Stmt carries its source
// location so the backend can preserve sequence points.
type Stmt interface {
	Span() source.Span
	stmt()
}

type stmtBase struct {
	span source.Span
}

func (s stmtBase) Span() source.Span { return s.span }
func (stmtBase) stmt()               {}

// MatchCtor attempts to match Literal at the cursor. On success it
// advances the cursor and binds Field to the matched value; on a partial
// match while the stream is not frozen it suspends with
// InsufficientData; on a final mismatch it raises ParseError naming Sym.
type MatchCtor struct {
	stmtBase
	Sym     grammar.Symbol
	Literal ast.Ctor
	Field   string
}

// ReadVariable invokes the runtime's built-in reader for Type and binds
// Field to the result, with the same suspend/error semantics as
// MatchCtor.
type ReadVariable struct {
	stmtBase
	Sym   grammar.Symbol
	Type  typesys.Type
	Field string
}

// Seq runs each of Stmts in order, threading the cursor and surfacing the
// first error (grammar.Sequence / grammar.Block).
type Seq struct {
	stmtBase
	Stmts []Stmt
	Hooks []*ast.UnitHook // non-nil only when lowered from a Block
}

// WithStmts returns a copy of s with its statement list replaced,
// preserving its span. Optimizer passes use this (rather than
// constructing a bare &Seq{...} literal) so a rewrite never silently
// drops the node's source location, which stmtBase being unexported
// would otherwise make easy to get wrong from outside this package.
func (s *Seq) WithStmts(stmts []Stmt) *Seq {
	return &Seq{stmtBase: s.stmtBase, Stmts: stmts, Hooks: s.Hooks}
}

// LookAheadDispatch peeks the minimum prefix needed to test it against
// LahsA/LahsB, then runs AltA or AltB; a peek that satisfies neither set
// raises ParseError, one that cannot yet be decided suspends with
// InsufficientData.
type LookAheadDispatch struct {
	stmtBase
	LahsA, LahsB *grammar.TokenSet
	AltA, AltB   Stmt
}

// WithAlts returns a copy of d with its alternatives replaced, preserving
// its span.
func (d *LookAheadDispatch) WithAlts(altA, altB Stmt) *LookAheadDispatch {
	return &LookAheadDispatch{stmtBase: d.stmtBase, LahsA: d.LahsA, LahsB: d.LahsB, AltA: altA, AltB: altB}
}

// SwitchCase is one labeled arm of a SwitchDispatch.
type SwitchCase struct {
	Labels []ast.Expr
	Body   Stmt
}

// SwitchDispatch evaluates Expr and dispatches to the matching case; an
// unmatched value raises ParseError unless Default is non-nil.
type SwitchDispatch struct {
	stmtBase
	Expr    ast.Expr
	Cases   []SwitchCase
	Default Stmt
}

// WithCases returns a copy of d with its cases/default replaced,
// preserving its span.
func (d *SwitchDispatch) WithCases(cases []SwitchCase, def Stmt) *SwitchDispatch {
	return &SwitchDispatch{stmtBase: d.stmtBase, Expr: d.Expr, Cases: cases, Default: def}
}

// CounterLoop evaluates Count once, then runs Body exactly that many
// times, propagating suspension across iterations.
type CounterLoop struct {
	stmtBase
	Count ast.Expr
	Body  Stmt
}

// WithBody returns a copy of l with its body replaced, preserving its span.
func (l *CounterLoop) WithBody(body Stmt) *CounterLoop {
	return &CounterLoop{stmtBase: l.stmtBase, Count: l.Count, Body: body}
}

// WhileLoop runs Body while Cond holds, re-evaluating Cond after each
// iteration; Cond encodes whichever of &size/&until/&eod the field
// carries.
type WhileLoop struct {
	stmtBase
	Cond ast.Expr
	Body Stmt
}

// WithBody returns a copy of l with its body replaced, preserving its span.
func (l *WhileLoop) WithBody(body Stmt) *WhileLoop {
	return &WhileLoop{stmtBase: l.stmtBase, Cond: l.Cond, Body: body}
}

// ForEachLoop runs Body repeatedly, invoking Hooks per iteration; a
// `stop` outcome terminates the loop, and reaching EOD is a normal
// termination iff EodOK.
type ForEachLoop struct {
	stmtBase
	Body  Stmt
	EodOK bool
	Hooks []*ast.UnitHook
}

// WithBody returns a copy of l with its body replaced, preserving its span.
func (l *ForEachLoop) WithBody(body Stmt) *ForEachLoop {
	return &ForEachLoop{stmtBase: l.stmtBase, Body: body, EodOK: l.EodOK, Hooks: l.Hooks}
}

// UnitCall wraps Body with the owning unit's lifecycle hooks: %init runs
// on entry, %done runs after a successful Body, %error runs (and the
// error is then re-raised) if Body fails.
type UnitCall struct {
	stmtBase
	UnitName    string
	Body        Stmt
	Init, Done  []*ast.UnitHook
	ErrorHooks  []*ast.UnitHook
	SinkConfigs []SinkConfig
}

// WithBody returns a copy of c with its body replaced, preserving its span.
func (c *UnitCall) WithBody(body Stmt) *UnitCall {
	return &UnitCall{
		stmtBase: c.stmtBase, UnitName: c.UnitName, Body: body,
		Init: c.Init, Done: c.Done, ErrorHooks: c.ErrorHooks, SinkConfigs: c.SinkConfigs,
	}
}

// SinkConfig configures one of a unit's declared reassembly sinks.
type SinkConfig struct {
	Name     string
	Policy   ast.SinkPolicy
	AutoTrim bool
}

// TailCall resolves Target in the grammar's table and tail-calls into
// that production's own emitter — the IR's representation of a
// grammar.Reference reached directly. A TypeLiteral's reference into
// another unit's grammar lowers to NestedUnitCall instead, which names
// the unit and holds no TailCall.
type TailCall struct {
	stmtBase
	Target grammar.Symbol
}

// Skip advances the cursor by Bytes without binding a value, suspending
// with InsufficientData if not enough remain.
type Skip struct {
	stmtBase
	Bytes ast.Expr
}

// NestedUnitCall calls into another unit's own parser; the returned
// instance becomes Field's value (grammar.TypeLiteral).
type NestedUnitCall struct {
	stmtBase
	UnitName string
	Field    string
}

// Synchronize forces a suspension-capable resynchronization point at a
// %synchronize-at property; At is the optional resync expression.
type Synchronize struct {
	stmtBase
	At ast.Expr
}

// RaiseError raises a run-time parse error of the given Kind naming Sym.
type RaiseError struct {
	stmtBase
	Kind ErrorKind
	Sym  grammar.Symbol
}

// NewEmptySeq constructs a no-op Seq at span, the IR form of a fully
// elided statement (used by optimizer passes that remove a subtree
// entirely but must still produce a valid Stmt in its place).
func NewEmptySeq(span source.Span) *Seq {
	return &Seq{stmtBase: stmtBase{span}}
}

// NewRaiseError constructs a RaiseError at span.
func NewRaiseError(span source.Span, kind ErrorKind, sym grammar.Symbol) *RaiseError {
	return &RaiseError{stmtBase{span}, kind, sym}
}
