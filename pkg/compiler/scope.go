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
// Package compiler implements the scope-building, symbol-resolution and
// validation stages of the pipeline: it takes a parsed ast.Module and
// produces a fully typed, fully bound ast.Module ready for the grammar
// builder.
package compiler

import (
	"fmt"

	"github.com/zeek/spicy/pkg/ast"
)

// Scope represents a region of source in which a Symbol can be resolved.
// Implementations mirror the lexical nesting of modules, units and hook
// bodies: a failed lookup always climbs to the enclosing scope before
// giving up.
type Scope interface {
	// Bind attempts to resolve symbol against this scope (and, failing
	// that, its ancestors).  Returns whether resolution succeeded.
	Bind(symbol ast.Reference) bool
	// IsVisible reports whether symbol refers to something already fully
	// declared (as opposed to a definition currently "open", i.e. in the
	// process of being processed) in this scope or an ancestor.
	IsVisible(symbol ast.Symbol) bool
}

// boxedBinding pairs a Binding with an "open" flag used to detect
// references to a declaration that occur during that declaration's own
// processing (only ever legal for recursive unit-typed fields, per
// ast.Binding.IsRecursive).
type boxedBinding struct {
	open    bool
	binding ast.Binding
}

// ============================================================================
// ModuleScope
// ============================================================================

// ModuleScope holds every top-level declaration of a single ast.Module:
// its constants, functions, and units.  Units additionally nest a
// UnitScope for their own items.
type ModuleScope struct {
	name     string
	ids      map[string]int
	bindings []boxedBinding
	units    map[string]*UnitScope
	imports  map[string]*ModuleScope
}

// NewModuleScope constructs an empty scope for a module named name.
func NewModuleScope(name string) *ModuleScope {
	return &ModuleScope{
		name:    name,
		ids:     make(map[string]int),
		units:   make(map[string]*UnitScope),
		imports: make(map[string]*ModuleScope),
	}
}

// Name returns the module's declared name.
func (p *ModuleScope) Name() string { return p.name }

// Import attaches another module's scope under the given local alias, so
// that `alias::symbol` references resolve into it.
func (p *ModuleScope) Import(alias string, mod *ModuleScope) {
	p.imports[alias] = mod
}

// Define registers a new top-level symbol.  Returns false if a symbol of
// that name is already declared in this module.
func (p *ModuleScope) Define(symbol ast.SymbolDefinition) bool {
	name := symbol.Name()
	if _, ok := p.ids[name]; ok {
		return false
	}

	id := len(p.bindings)
	p.bindings = append(p.bindings, boxedBinding{false, symbol.Binding()})
	p.ids[name] = id

	return true
}

// DeclareUnit registers (and returns) a fresh UnitScope for a unit
// declared in this module.  Returns nil if a unit of that name is already
// declared.
func (p *ModuleScope) DeclareUnit(name string) *UnitScope {
	if _, ok := p.units[name]; ok {
		return nil
	}

	scope := newUnitScope(name, p)
	p.units[name] = scope

	return scope
}

// Unit returns the named unit's scope, or nil if no such unit was
// declared in this module.
func (p *ModuleScope) Unit(name string) *UnitScope { return p.units[name] }

// unitSymbol adapts an *ast.Unit to ast.SymbolDefinition so a unit
// declaration can be registered alongside constants and functions and
// participate in the same open/visible tracking (spec.md §4.C): a
// reference to a unit type while that unit is still being resolved is
// only legal because ast.UnitBinding.IsRecursive always reports true,
// the same rule that lets a unit contain a reference-wrapped field of
// its own type.
type unitSymbol struct {
	*ast.Unit
}

// Name implements ast.Symbol, shadowing the embedded Unit.Name field.
func (s unitSymbol) Name() string { return s.Unit.Name }

// QualifiedPath implements ast.Symbol; units are always declared with a
// single unqualified name.
func (s unitSymbol) QualifiedPath() []string { return []string{s.Unit.Name} }

// IsResolved implements ast.Symbol; a unit declaration is complete as
// soon as it exists, independent of whether its items have resolved.
func (s unitSymbol) IsResolved() bool { return true }

// Binding implements ast.SymbolDefinition.
func (s unitSymbol) Binding() ast.Binding { return ast.NewUnitBinding(s.Unit) }

// OpenDefinition marks symbol's binding as "currently being processed",
// so that a recursive reference to it during that processing can be told
// apart from a forward reference to something not yet even declared.
func (p *ModuleScope) OpenDefinition(symbol ast.SymbolDefinition) { p.setOpen(symbol, true) }

// CloseDefinition marks symbol's binding as fully processed.
func (p *ModuleScope) CloseDefinition(symbol ast.SymbolDefinition) { p.setOpen(symbol, false) }

func (p *ModuleScope) setOpen(symbol ast.SymbolDefinition, open bool) {
	id, ok := p.ids[symbol.Name()]
	if !ok {
		panic(fmt.Sprintf("unknown symbol definition %q", symbol.Name()))
	}

	p.bindings[id].open = open
}

// Bind implements Scope.
func (p *ModuleScope) Bind(symbol ast.Reference) bool {
	path := symbol.QualifiedPath()
	if len(path) == 2 {
		if imp, ok := p.imports[path[0]]; ok {
			return imp.bindLocal(path[1], symbol)
		}
	}

	return p.bindLocal(symbol.Name(), symbol)
}

func (p *ModuleScope) bindLocal(name string, symbol ast.Reference) bool {
	if id, ok := p.ids[name]; ok {
		return symbol.Resolve(p.bindings[id].binding)
	}

	return false
}

// IsVisible implements Scope.
func (p *ModuleScope) IsVisible(symbol ast.Symbol) bool {
	path := symbol.QualifiedPath()

	name := symbol.Name()
	if len(path) == 2 {
		if imp, ok := p.imports[path[0]]; ok {
			name = path[1]
			p = imp
		}
	}

	id, ok := p.ids[name]
	if !ok {
		return false
	}

	box := p.bindings[id]

	return !box.open || box.binding.IsRecursive()
}

// ============================================================================
// UnitScope
// ============================================================================

// UnitScope holds the fields, variables and sinks declared directly
// within one ast.Unit; it falls back to its enclosing ModuleScope for
// anything not declared locally, so a field can always call a module-level
// function or reference a module-level constant.
type UnitScope struct {
	name     string
	ids      map[string]int
	bindings []boxedBinding
	module   *ModuleScope
}

func newUnitScope(name string, module *ModuleScope) *UnitScope {
	return &UnitScope{name: name, ids: make(map[string]int), module: module}
}

// Name returns the unit's declared name.
func (p *UnitScope) Name() string { return p.name }

// Module returns the enclosing module scope.
func (p *UnitScope) Module() *ModuleScope { return p.module }

// Define registers a new item-level symbol (a field, variable or sink).
func (p *UnitScope) Define(symbol ast.SymbolDefinition) bool {
	name := symbol.Name()
	if _, ok := p.ids[name]; ok {
		return false
	}

	id := len(p.bindings)
	p.bindings = append(p.bindings, boxedBinding{false, symbol.Binding()})
	p.ids[name] = id

	return true
}

// OpenDefinition marks symbol's binding as currently being processed.
func (p *UnitScope) OpenDefinition(symbol ast.SymbolDefinition) { p.setOpen(symbol, true) }

// CloseDefinition marks symbol's binding as fully processed.
func (p *UnitScope) CloseDefinition(symbol ast.SymbolDefinition) { p.setOpen(symbol, false) }

func (p *UnitScope) setOpen(symbol ast.SymbolDefinition, open bool) {
	id, ok := p.ids[symbol.Name()]
	if !ok {
		panic(fmt.Sprintf("unknown symbol definition %q", symbol.Name()))
	}

	p.bindings[id].open = open
}

// Bind implements Scope: tries this unit's own items first, then its
// enclosing module.
func (p *UnitScope) Bind(symbol ast.Reference) bool {
	if id, ok := p.ids[symbol.Name()]; ok && len(symbol.QualifiedPath()) == 1 {
		return symbol.Resolve(p.bindings[id].binding)
	}

	return p.module.Bind(symbol)
}

// IsVisible implements Scope.
func (p *UnitScope) IsVisible(symbol ast.Symbol) bool {
	if id, ok := p.ids[symbol.Name()]; ok && len(symbol.QualifiedPath()) == 1 {
		box := p.bindings[id]
		return !box.open || box.binding.IsRecursive()
	}

	return p.module.IsVisible(symbol)
}

// ============================================================================
// LocalScope
// ============================================================================

// LocalScope nests local variable bindings (hook parameters, `foreach`
// loop variables) inside an enclosing Scope.  Unlike Module/UnitScope it
// is cheap to copy: NestedScope is used every time a block introduces its
// own sub-scope (an `if` arm, a loop body).
type LocalScope struct {
	enclosing Scope
	locals    map[string]*ast.VariableBinding
}

// NewLocalScope constructs a local scope nested directly inside enclosing.
func NewLocalScope(enclosing Scope) LocalScope {
	return LocalScope{enclosing, make(map[string]*ast.VariableBinding)}
}

// NestedScope returns a child scope that inherits a snapshot of this
// scope's locals; declarations made in the child are invisible to the
// parent.
func (p LocalScope) NestedScope() LocalScope {
	locals := make(map[string]*ast.VariableBinding, len(p.locals))
	for k, v := range p.locals {
		locals[k] = v
	}

	return LocalScope{p.enclosing, locals}
}

// DeclareLocal registers a local variable, shadowing any outer binding of
// the same name for the remainder of this scope and its descendants.
func (p LocalScope) DeclareLocal(name string, binding *ast.VariableBinding) {
	p.locals[name] = binding
}

// Bind implements Scope.
func (p LocalScope) Bind(symbol ast.Reference) bool {
	if len(symbol.QualifiedPath()) == 1 {
		if binding, ok := p.locals[symbol.Name()]; ok {
			return symbol.Resolve(binding)
		}
	}

	return p.enclosing.Bind(symbol)
}

// IsVisible implements Scope.  Locals are always visible: loop and hook
// parameters cannot be referred to recursively during their own
// declaration.
func (p LocalScope) IsVisible(symbol ast.Symbol) bool {
	if len(symbol.QualifiedPath()) == 1 {
		if _, ok := p.locals[symbol.Name()]; ok {
			return true
		}
	}

	return p.enclosing.IsVisible(symbol)
}
