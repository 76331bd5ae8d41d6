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
// Package ast implements the Spicy intermediate AST: a typed tree of
// declarations, types, expressions, statements and literal constructors
// with stable node identity, visitor dispatch, child ownership, and scope
// pointers.  The surface scanner/parser that produces this tree from
// source text is out of scope for this module; fixtures in
// internal/spicytest build these trees directly.
package ast

import (
	"fmt"

	"github.com/zeek/spicy/pkg/sexp"
	"github.com/zeek/spicy/pkg/source"
)

var nextID uint64

func freshID() uint64 {
	nextID++
	return nextID
}

// Meta carries the information every node owns regardless of its variant:
// its stable identity, its source location, and an optional doc comment
// (preserved verbatim, never interpreted by this module).
type Meta struct {
	id   uint64
	Span source.Span
	Doc  string
}

// NewMeta constructs a fresh Meta with a newly assigned stable identity.
// Identity is referential for the duration of one compilation: two Metas
// never collide, since every call draws a fresh id from a process-wide
// counter.
func NewMeta(span source.Span) Meta {
	return Meta{freshID(), span, ""}
}

// ID returns this node's stable identity.
func (m Meta) ID() uint64 { return m.id }

// Node is the common interface implemented by every element of the AST:
// declarations, expressions, statements, ctors and types alike.
type Node interface {
	// NodeID returns this node's stable identity.
	NodeID() uint64
	// Children returns this node's direct children, in declaration
	// order.  The returned slice must not be mutated by the caller;
	// use ReplaceChild to mutate in place.
	Children() []Node
	// ReplaceChild replaces the child at index with a new node.
	// Panics (an internal error, per spec.md §4.A) if index is out of
	// range.
	ReplaceChild(index int, child Node)
	// Lisp renders this node's debug S-expression form.
	Lisp() sexp.SExp
	// Span returns this node's source location, used when reporting
	// diagnostics against it.
	Span() source.Span
}

// childIndexError reports an out-of-range child index.  Per spec.md
// §4.A, this is a programmer bug and aborts rather than returning an
// error.
func childIndexError(kind string, index, n int) {
	panic(fmt.Sprintf("%s: child index %d out of range [0,%d)", kind, index, n))
}
