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
	"github.com/zeek/spicy/pkg/sexp"
	"github.com/zeek/spicy/pkg/source"
)

// Symbol is anything which can appear as the target of a reference
// (field, variable, sink, function, constant, unit, hook).  Resolution
// binds a Symbol to its declaration without the symbol owning it, which
// is what lets cyclic unit definitions resolve without owning cycles.
type Symbol interface {
	Node
	// Name returns this symbol's unqualified name.
	Name() string
	// QualifiedPath returns the full (possibly multi-component) path this
	// symbol was written with, e.g. ["Module", "Unit", "field"] for a
	// `Module::Unit::field` reference.
	QualifiedPath() []string
	// IsResolved reports whether this symbol has been bound to a
	// concrete Binding yet.
	IsResolved() bool
}

// Reference is a use-site Symbol: a Name[T] wrapper appearing in
// reference position (an identifier expression, an operator or call
// callee), which the resolver binds to a concrete declaration by trying
// candidates until one of the expected type matches.  Declaration-side
// symbols (Field, Variable, ConstantDecl, ...) are Symbols but not
// References: they never need to be resolved against a candidate since
// they own their own Binding from construction.
type Reference interface {
	Symbol
	// Resolve attempts to bind this reference to candidate, returning
	// false (and binding nothing) if candidate is not the expected
	// concrete binding type for this reference's category.
	Resolve(candidate Binding) bool
}

// SymbolDefinition is a symbol in binding position (the left-hand side of
// a declaration): a module-level constant or function, or a unit item that
// carries its own binding.
type SymbolDefinition interface {
	Symbol
	// Binding returns the concrete binding this definition introduces,
	// or nil before it has been finalised.
	Binding() Binding
}

// Name is a generic symbol-name-with-deferred-binding: it carries the
// path under which it was written in source and, once the resolver runs,
// the concrete Binding (of type T) it refers to.  The same structure is
// reused for every symbol category (field, variable, sink, function,
// unit) by instantiating T with that category's binding type.
type Name[T Binding] struct {
	meta Meta
	// Path is the (possibly qualified) name as written in source.
	Path []string
	// binding is nil until Resolve succeeds.
	binding T
	resolved bool
}

// NewName constructs an unresolved name over the given dotted path.
func NewName[T Binding](span Meta, path ...string) *Name[T] {
	return &Name[T]{meta: span, Path: path}
}

// NodeID implements Node.
func (p *Name[T]) NodeID() uint64 { return p.meta.ID() }

// Span implements Node.
func (p *Name[T]) Span() source.Span { return p.meta.Span }

// Children implements Node; a Name has no children.
func (p *Name[T]) Children() []Node { return nil }

// ReplaceChild implements Node.
func (p *Name[T]) ReplaceChild(index int, child Node) {
	childIndexError("Name", index, 0)
}

// Name implements Symbol: the unqualified (last) path component.
func (p *Name[T]) Name() string {
	if len(p.Path) == 0 {
		return ""
	}

	return p.Path[len(p.Path)-1]
}

// QualifiedPath implements Symbol.
func (p *Name[T]) QualifiedPath() []string { return p.Path }

// IsResolved implements Symbol.
func (p *Name[T]) IsResolved() bool { return p.resolved }

// Binding implements SymbolDefinition, returning the bound value as the
// general Binding interface.  Panics if called before resolution, since
// callers (the compiler's scope/resolver) only ever reach for this once
// a symbol has been declared.
func (p *Name[T]) Binding() Binding {
	if !p.resolved {
		panic("name not yet resolved")
	}

	return p.binding
}

// InnerBinding returns the bound value as its concrete type T, for
// callers that already know the specific binding category (e.g.
// FieldName.InnerBinding() returns *FieldBinding directly).  Panics if
// called before resolution.
func (p *Name[T]) InnerBinding() T {
	if !p.resolved {
		panic("name not yet resolved")
	}

	return p.binding
}

// Resolve attempts to bind this name to a concrete binding of type T.
// The resolver calls this during scope-builder sweep 1 (spec.md §4.C);
// returns false (and records nothing) if the candidate binding is not an
// instance of T, letting the caller report UnresolvedID with the right
// diagnostic context.
func (p *Name[T]) Resolve(candidate Binding) bool {
	b, ok := candidate.(T)
	if ok {
		p.binding = b
		p.resolved = true
	}

	return ok
}

func (p *Name[T]) Lisp() sexp.SExp {
	s := "<unresolved>"
	if len(p.Path) > 0 {
		s = p.Path[0]
		for _, c := range p.Path[1:] {
			s += "::" + c
		}
	}

	return sexp.NewSymbol(s)
}

// FieldName identifies a field symbol.
type FieldName = Name[*FieldBinding]

// VariableName identifies a unit-local variable symbol.
type VariableName = Name[*VariableBinding]

// SinkName identifies a sink symbol.
type SinkName = Name[*SinkBinding]

// UnitName identifies a unit-type symbol.
type UnitName = Name[*UnitBinding]

// FunctionName identifies a function symbol (possibly overloaded).
type FunctionName = Name[FunctionBinding]

// ConstantName identifies a module-level constant symbol.
type ConstantName = Name[*ConstantBinding]
