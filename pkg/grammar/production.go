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
// Package grammar implements the LL(k)-style grammar builder of spec.md
// §4.E: it lowers a validated, resolved ast.Unit into a graph of
// Productions, computes nullable/FIRST/FOLLOW to a fixpoint, and lowers
// every point of alternation into a LookAhead production guarded by
// disjoint look-ahead sets (rejecting the grammar as ambiguous otherwise).
package grammar

import (
	"github.com/zeek/spicy/pkg/ast"
	"github.com/zeek/spicy/pkg/source"
	"github.com/zeek/spicy/pkg/typesys"
)

// Symbol uniquely identifies one Production within a Grammar's table.
// Reference productions alias a Symbol rather than embedding another
// Production directly, which is what lets a recursive unit's grammar
// describe a cycle without an owning cycle in the Go value graph.
type Symbol uint64

// Production is implemented by every grammar node variant of spec.md §3.
// The interface is sealed (via the unexported production method) so every
// variant lives in this package and the fixpoint/lowering code can
// exhaustively type-switch over it.
type Production interface {
	// Sym returns this production's unique symbol within its Grammar.
	Sym() Symbol
	// Span returns the source location this production was lowered from,
	// or source.Unknown() for productions synthesized by Phase 3.
	Span() source.Span
	production()
}

type prodBase struct {
	sym  Symbol
	span source.Span
}

func (p prodBase) Sym() Symbol       { return p.sym }
func (p prodBase) Span() source.Span { return p.span }
func (prodBase) production()         {}

// Epsilon matches the empty string.
type Epsilon struct{ prodBase }

// Ctor matches a literal (bytes, regexp, integer, or bitfield) at the
// cursor. Only Ctor productions contribute to look-ahead sets (spec.md §3
// invariants).
type Ctor struct {
	prodBase
	Literal ast.Ctor
	Token   uint32
	Field   string // the owning field's name, "" if synthesized (e.g. a switch arm)
}

// TypeLiteral matches a whole sub-unit recognizable by its type, wrapping
// a Reference to that unit's own grammar.
type TypeLiteral struct {
	prodBase
	UnitName string
	Ref      *Reference
	Field    string // the owning field's name, "" if synthesized
}

// Variable consumes bytes whose shape is determined by Type's built-in
// reader (e.g. a fixed-width integer); opaque to look-ahead per the same
// invariant.
type Variable struct {
	prodBase
	Type  typesys.Type
	Field string // the owning field's name, "" if synthesized
}

// Reference is an edge to another production by symbol, supporting
// recursion and sharing. Within is the grammar the target symbol is
// defined in: "" for a self-reference within the same grammar, or the
// target unit's name for a cross-unit reference (as wrapped by
// TypeLiteral).
type Reference struct {
	prodBase
	Within string
	Target Symbol
}

// Sequence is the concatenation of its children in order.
type Sequence struct {
	prodBase
	Items []Production
}

// LookAhead selects between two alternatives using a computed look-ahead
// set of tokens, the output of grammar-builder Phase 3.
type LookAhead struct {
	prodBase
	AltA, AltB   Production
	LahsA, LahsB *TokenSet
}

// SwitchArm is one labeled arm of a Switch production.
type SwitchArm struct {
	Labels []ast.Expr
	Body   Production
}

// Switch selects one of its arms by the value of Expr or, when Expr is
// nil, by look-ahead (Phase 3 pairs a two-armed Switch with a LookAhead).
type Switch struct {
	prodBase
	Expr    ast.Expr
	Cases   []SwitchArm
	Default Production // nil if no default arm
}

// Counter repeats Body exactly Count times.
type Counter struct {
	prodBase
	Count ast.Expr
	Body  Production
}

// While repeats Body while Cond holds, re-evaluated after each iteration.
type While struct {
	prodBase
	Cond ast.Expr
	Body Production
}

// ForEach repeats Body under hook-driven control; reaching EOD is a normal
// termination iff EodOK.
type ForEach struct {
	prodBase
	Body  Production
	EodOK bool
}

// Skip advances the cursor by a byte count without binding a value.
type Skip struct {
	prodBase
	Bytes ast.Expr
}

// Synchronize marks a %synchronize-at point. It is opaque to FIRST/FOLLOW
// (spec.md §9 Open Question ii, resolved in SPEC_FULL.md §12): it
// contributes nothing to look-ahead computation and simply forces a
// suspension-capable resynchronization point in the parser IR.
type Synchronize struct {
	prodBase
	At ast.Expr // nil if the property carries no explicit resync expression
}

// Unit is the root production of one unit's grammar: %init, then Body,
// then %done (or %error on failure).
type Unit struct {
	prodBase
	UnitName string
	Body     Production
	Hooks    map[string][]*ast.UnitHook // keyed by event id, sorted by descending priority
}

// Block groups a sequence of item productions together with the hooks
// attached at that nesting level (a foreach body, a switch arm).
type Block struct {
	prodBase
	Items []Production
	Hooks []*ast.UnitHook
}

// Deferred is a forward reference patched once its target production
// exists. An unpatched Deferred reaching the parser-IR generator is a
// compiler error (spec.md §4.F).
type Deferred struct {
	prodBase
	Resolved Production
}

// Patch fills in a previously unresolved forward reference.
func (d *Deferred) Patch(p Production) { d.Resolved = p }

// IsPatched reports whether Patch has been called.
func (d *Deferred) IsPatched() bool { return d.Resolved != nil }
