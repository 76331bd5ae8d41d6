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

// Decl is implemented by every module-level declaration (constants and
// functions; units are declared separately via Module.Units since the
// grammar builder indexes them by name directly).
type Decl interface {
	Node
	DeclName() string
}

type declBase struct {
	meta Meta
	Id   string
}

func (p *declBase) NodeID() uint64   { return p.meta.ID() }
func (p *declBase) Span() source.Span { return p.meta.Span }
func (p *declBase) DeclName() string { return p.Id }
func (p *declBase) Name() string     { return p.Id }

// QualifiedPath implements ast.Symbol/ast.SymbolDefinition.
func (p *declBase) QualifiedPath() []string { return []string{p.Id} }

// ============================================================================
// ConstantDecl
// ============================================================================

// ConstantDecl is a module-level `const` declaration.
type ConstantDecl struct {
	declBase
	Bind *ConstantBinding
}

// NewConstantDecl constructs a constant declaration initialised from
// value; its type is filled in once the resolver evaluates value.
func NewConstantDecl(span source.Span, id string, value Expr) *ConstantDecl {
	return &ConstantDecl{declBase{NewMeta(span), id}, NewConstantBinding(value)}
}

// Children implements Node.
func (p *ConstantDecl) Children() []Node { return []Node{p.Bind.Value} }

// ReplaceChild implements Node.
func (p *ConstantDecl) ReplaceChild(index int, child Node) {
	if index != 0 {
		childIndexError("ConstantDecl", index, 1)
	}

	p.Bind.Value = child.(Expr)
}

// IsResolved implements ast.Symbol.
func (p *ConstantDecl) IsResolved() bool { return p.Bind.IsFinalised() }

// Binding implements ast.SymbolDefinition.
func (p *ConstantDecl) Binding() Binding { return p.Bind }

// Lisp implements Node.
func (p *ConstantDecl) Lisp() sexp.SExp {
	return sexp.NewList(sexp.NewSymbol("const"), sexp.NewSymbol(p.Id), p.Bind.Value.Lisp())
}

// ============================================================================
// FunctionDecl
// ============================================================================

// FunctionDecl is a module-level user-defined function declaration.
// Functions are not overloaded: the module scope holds one binding per
// name, so a second declaration with the same Id is reported as a
// duplicate.
type FunctionDecl struct {
	declBase
	Params  []string
	Bind    *DefunBinding
}

// NewFunctionDecl constructs a function declaration.
func NewFunctionDecl(span source.Span, id string, params []string, sig FunctionSignature) *FunctionDecl {
	return &FunctionDecl{declBase{NewMeta(span), id}, params, NewDefunBinding(sig)}
}

// Children implements Node.
func (p *FunctionDecl) Children() []Node {
	if p.Bind.Sig.Body == nil {
		return nil
	}

	return []Node{p.Bind.Sig.Body}
}

// ReplaceChild implements Node.
func (p *FunctionDecl) ReplaceChild(index int, child Node) {
	if index != 0 || p.Bind.Sig.Body == nil {
		childIndexError("FunctionDecl", index, len(p.Children()))
	}

	p.Bind.Sig.Body = child.(Expr)
}

// IsResolved implements ast.Symbol.
func (p *FunctionDecl) IsResolved() bool { return p.Bind.IsFinalised() }

// Binding implements ast.SymbolDefinition.
func (p *FunctionDecl) Binding() Binding { return p.Bind }

// Lisp implements Node.
func (p *FunctionDecl) Lisp() sexp.SExp {
	l := sexp.NewList(sexp.NewSymbol("function"), sexp.NewSymbol(p.Id))
	for _, param := range p.Params {
		l.Append(sexp.NewSymbol(param))
	}

	return l
}
