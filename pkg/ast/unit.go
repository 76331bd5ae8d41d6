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
	"github.com/zeek/spicy/pkg/typesys"
)

// Item is implemented by every unit-body element (spec.md §3: Field,
// Variable, Sink, Switch, UnitHook, Property, UnresolvedField).
type Item interface {
	Node
	// ItemName returns this item's declared name, or "" for anonymous
	// items (unnamed fields, properties).
	ItemName() string
}

type itemBase struct {
	meta Meta
	Id   string
}

func (p *itemBase) NodeID() uint64   { return p.meta.ID() }
func (p *itemBase) Span() source.Span { return p.meta.Span }
func (p *itemBase) ItemName() string { return p.Id }

// Name implements ast.Symbol/ast.SymbolDefinition for declaring items.
func (p *itemBase) Name() string { return p.Id }

// QualifiedPath implements ast.Symbol/ast.SymbolDefinition; item
// definitions are always declared with a single unqualified name.
func (p *itemBase) QualifiedPath() []string { return []string{p.Id} }

// ============================================================================
// FieldAttributes
// ============================================================================

// FieldAttributes holds the (at most one terminator, validated by
// compiler.Validator) set of attributes a Field may carry.
type FieldAttributes struct {
	Size      Expr // &size=
	Eod       bool // &eod
	Until     Expr // &until=
	Chunked   bool // &chunked
	Convert   Expr // &convert=
	Count     Expr // &count=
	ParseFrom Expr // &parse-from=
	Requires  Expr // &requires=
	Default   Expr // &default=
}

// TerminatorCount returns how many of &size/&until/&eod are set, used by
// the validator to enforce "at most one per field" (spec.md §4.D).
func (a FieldAttributes) TerminatorCount() int {
	n := 0
	if a.Size != nil {
		n++
	}

	if a.Until != nil {
		n++
	}

	if a.Eod {
		n++
	}

	return n
}

// ============================================================================
// Field
// ============================================================================

// Field parses one value of DataType, subject to Attributes.  A field
// declared against a literal instead of a type name (`field: b"MAGIC"`,
// `field: /foo+/`) carries that literal in Match instead of DataType; the
// grammar builder's Phase 1 (spec.md §4.E) lowers a Match field to
// Ctor(Match) and an ordinary DataType field to Variable(DataType) or
// TypeLiteral(DataType).
type Field struct {
	itemBase
	DataType typesys.Type
	Match    Ctor
	Attrs    FieldAttributes
	SubItems []Item
	Bind     *FieldBinding
}

// NewField constructs a field item parsing a value of type dt.
func NewField(span source.Span, id string, dt typesys.Type, attrs FieldAttributes, sub ...Item) *Field {
	return &Field{itemBase{NewMeta(span), id}, dt, nil, attrs, sub, NewFieldBinding(attrs)}
}

// NewMatchField constructs a field item that matches a fixed literal
// (a byte string or a compiled pattern) rather than a declared type.
func NewMatchField(span source.Span, id string, match Ctor, attrs FieldAttributes) *Field {
	return &Field{itemBase{NewMeta(span), id}, match.CtorType(), match, attrs, nil, NewFieldBinding(attrs)}
}

// IsResolved implements ast.Symbol.
func (p *Field) IsResolved() bool { return p.Bind.IsFinalised() }

// Binding implements ast.SymbolDefinition.
func (p *Field) Binding() Binding { return p.Bind }

// Children implements Node.
func (p *Field) Children() []Node {
	children := make([]Node, 0, len(p.SubItems)+8)

	if p.Match != nil {
		children = append(children, p.Match)
	}

	for _, e := range []Expr{
		p.Attrs.Size, p.Attrs.Until, p.Attrs.Convert, p.Attrs.Count,
		p.Attrs.Default, p.Attrs.ParseFrom, p.Attrs.Requires,
	} {
		if e != nil {
			children = append(children, e)
		}
	}

	for _, s := range p.SubItems {
		children = append(children, s)
	}

	return children
}

// ReplaceChild implements Node.
func (p *Field) ReplaceChild(index int, child Node) {
	children := p.Children()
	if index < 0 || index >= len(children) {
		childIndexError("Field", index, len(children))
	}
	// Expressions are replaced by identity match since their count
	// varies per field; this is adequate for the resolver/optimizer
	// rewrite passes, which always replace the exact node they visited.
	switch e := child.(type) {
	case Expr:
		p.replaceExprChild(children[index], e)
	case Item:
		p.replaceSubItem(children[index], e)
	}
}

func (p *Field) replaceExprChild(old Node, repl Expr) {
	switch {
	case p.Attrs.Size == old:
		p.Attrs.Size = repl
	case p.Attrs.Until == old:
		p.Attrs.Until = repl
	case p.Attrs.Convert == old:
		p.Attrs.Convert = repl
	case p.Attrs.Count == old:
		p.Attrs.Count = repl
	case p.Attrs.Default == old:
		p.Attrs.Default = repl
	case p.Attrs.ParseFrom == old:
		p.Attrs.ParseFrom = repl
	case p.Attrs.Requires == old:
		p.Attrs.Requires = repl
	}
}

func (p *Field) replaceSubItem(old Node, repl Item) {
	for i, s := range p.SubItems {
		if Node(s) == old {
			p.SubItems[i] = repl
			return
		}
	}
}

// Lisp implements Node.
func (p *Field) Lisp() sexp.SExp {
	return sexp.NewList(sexp.NewSymbol("field"), sexp.NewSymbol(p.Id), sexp.NewSymbol(p.DataType.String()))
}

// ============================================================================
// Variable
// ============================================================================

// Variable is storage not bound to the byte stream.
type Variable struct {
	itemBase
	DataType typesys.Type
	Default  Expr
	Bind     *VariableBinding
}

// NewVariable constructs a variable item.
func NewVariable(span source.Span, id string, dt typesys.Type, def Expr) *Variable {
	return &Variable{itemBase{NewMeta(span), id}, dt, def, NewVariableBinding()}
}

// Children implements Node.
func (p *Variable) Children() []Node {
	if p.Default == nil {
		return nil
	}

	return []Node{p.Default}
}

// ReplaceChild implements Node.
func (p *Variable) ReplaceChild(index int, child Node) {
	if index != 0 || p.Default == nil {
		childIndexError("Variable", index, len(p.Children()))
	}

	p.Default = child.(Expr)
}

// Lisp implements Node.
func (p *Variable) Lisp() sexp.SExp {
	return sexp.NewList(sexp.NewSymbol("var"), sexp.NewSymbol(p.Id), sexp.NewSymbol(p.DataType.String()))
}

// IsResolved implements ast.Symbol.
func (p *Variable) IsResolved() bool { return p.Bind.IsFinalised() }

// Binding implements ast.SymbolDefinition.
func (p *Variable) Binding() Binding { return p.Bind }

// ============================================================================
// Sink
// ============================================================================

// Sink declares an abstract reassembly port.
type Sink struct {
	itemBase
	Bind *SinkBinding
}

// NewSink constructs a sink item with the given policy.
func NewSink(span source.Span, id string, policy SinkPolicy, autoTrim bool) *Sink {
	return &Sink{itemBase{NewMeta(span), id}, NewSinkBinding(policy, autoTrim)}
}

// Children implements Node.
func (p *Sink) Children() []Node { return nil }

// ReplaceChild implements Node.
func (p *Sink) ReplaceChild(index int, child Node) { childIndexError("Sink", index, 0) }

// Lisp implements Node.
func (p *Sink) Lisp() sexp.SExp { return sexp.NewList(sexp.NewSymbol("sink"), sexp.NewSymbol(p.Id)) }

// IsResolved implements ast.Symbol.  A Sink's binding is always
// finalised at construction (its policy is syntactic, not inferred).
func (p *Sink) IsResolved() bool { return p.Bind.IsFinalised() }

// Binding implements ast.SymbolDefinition.
func (p *Sink) Binding() Binding { return p.Bind }

// ============================================================================
// Switch
// ============================================================================

// SwitchCase is one labeled arm of a Switch item.
type SwitchCase struct {
	Labels []Expr
	Body   Item
}

// Switch discriminates parsing based on a value or look-ahead.
type Switch struct {
	itemBase
	Discriminant Expr
	Cases        []SwitchCase
	Default      Item // nil if no default arm
}

// NewSwitch constructs a switch item.
func NewSwitch(span source.Span, id string, discriminant Expr, cases []SwitchCase, def Item) *Switch {
	return &Switch{itemBase{NewMeta(span), id}, discriminant, cases, def}
}

// Children implements Node.
func (p *Switch) Children() []Node {
	children := []Node{p.Discriminant}

	for _, c := range p.Cases {
		for _, l := range c.Labels {
			children = append(children, l)
		}

		children = append(children, c.Body)
	}

	if p.Default != nil {
		children = append(children, p.Default)
	}

	return children
}

// ReplaceChild implements Node.
func (p *Switch) ReplaceChild(index int, child Node) {
	children := p.Children()
	if index < 0 || index >= len(children) {
		childIndexError("Switch", index, len(children))
	}

	if children[0] == Node(p.Discriminant) && index == 0 {
		p.Discriminant = child.(Expr)
		return
	}

	for ci, c := range p.Cases {
		for li, l := range c.Labels {
			if Node(l) == children[index] {
				p.Cases[ci].Labels[li] = child.(Expr)
				return
			}
		}

		if Node(c.Body) == children[index] {
			p.Cases[ci].Body = child.(Item)
			return
		}
	}

	if p.Default != nil && Node(p.Default) == children[index] {
		p.Default = child.(Item)
	}
}

// Lisp implements Node.
func (p *Switch) Lisp() sexp.SExp {
	l := sexp.NewList(sexp.NewSymbol("switch"), p.Discriminant.Lisp())
	for _, c := range p.Cases {
		arm := sexp.NewList()
		for _, lbl := range c.Labels {
			arm.Append(lbl.Lisp())
		}

		arm.Append(c.Body.Lisp())
		l.Append(arm)
	}

	return l
}

// ============================================================================
// UnitHook
// ============================================================================

// UnitHook attaches user code to a lifecycle event.
type UnitHook struct {
	itemBase
	Priority int
	Body     []Stmt
	Bind     *HookBinding
}

// NewUnitHook constructs a hook item bound to event id ("%init", "%done",
// "%error", "foreach", or a field name).
func NewUnitHook(span source.Span, id string, priority int, body ...Stmt) *UnitHook {
	return &UnitHook{itemBase{NewMeta(span), id}, priority, body, NewHookBinding(priority, body)}
}

// Children implements Node.
func (p *UnitHook) Children() []Node {
	children := make([]Node, len(p.Body))
	for i, s := range p.Body {
		children[i] = s
	}

	return children
}

// ReplaceChild implements Node.
func (p *UnitHook) ReplaceChild(index int, child Node) {
	if index < 0 || index >= len(p.Body) {
		childIndexError("UnitHook", index, len(p.Body))
	}

	p.Body[index] = child.(Stmt)
}

// IsResolved implements ast.Symbol.
func (p *UnitHook) IsResolved() bool { return p.Bind.IsFinalised() }

// Binding implements ast.SymbolDefinition.
func (p *UnitHook) Binding() Binding { return p.Bind }

// Lisp implements Node.
func (p *UnitHook) Lisp() sexp.SExp {
	l := sexp.NewList(sexp.NewSymbol("hook"), sexp.NewSymbol(p.Id))
	for _, s := range p.Body {
		l.Append(s.Lisp())
	}

	return l
}

// ============================================================================
// Property
// ============================================================================

// Property is a meta-directive (`%byte-order`, `%random-access`, ...).
type Property struct {
	itemBase
	Value Expr
}

// NewProperty constructs a property item.
func NewProperty(span source.Span, id string, value Expr) *Property {
	return &Property{itemBase{NewMeta(span), id}, value}
}

// Children implements Node.
func (p *Property) Children() []Node {
	if p.Value == nil {
		return nil
	}

	return []Node{p.Value}
}

// ReplaceChild implements Node.
func (p *Property) ReplaceChild(index int, child Node) {
	if index != 0 || p.Value == nil {
		childIndexError("Property", index, len(p.Children()))
	}

	p.Value = child.(Expr)
}

// Lisp implements Node.
func (p *Property) Lisp() sexp.SExp {
	return sexp.NewList(sexp.NewSymbol("%"+p.Id), p.Value.Lisp())
}

// ============================================================================
// UnresolvedField
// ============================================================================

// UnresolvedField is a placeholder the surface parser emits whenever a
// unit-body line's final form (Field vs Switch vs Variable) depends on
// information not available until resolution (spec.md §4.C sweep 4):
// for example, a bare identifier line that resolves to either a field of
// a named type or a reference to a previously declared variable.
type UnresolvedField struct {
	itemBase
	RawType  typesys.Type
	Attrs    FieldAttributes
	Replaced Item // set once the resolver replaces this placeholder
}

// NewUnresolvedField constructs a placeholder field item.
func NewUnresolvedField(span source.Span, id string, rawType typesys.Type, attrs FieldAttributes) *UnresolvedField {
	return &UnresolvedField{itemBase{NewMeta(span), id}, rawType, attrs, nil}
}

// Children implements Node.
func (p *UnresolvedField) Children() []Node { return nil }

// ReplaceChild implements Node.
func (p *UnresolvedField) ReplaceChild(index int, child Node) {
	childIndexError("UnresolvedField", index, 0)
}

// Lisp implements Node.
func (p *UnresolvedField) Lisp() sexp.SExp {
	return sexp.NewList(sexp.NewSymbol("unresolved-field"), sexp.NewSymbol(p.Id))
}

// ============================================================================
// Unit / Module
// ============================================================================

// Unit is a user-defined parseable structure: an ordered sequence of
// Items.
type Unit struct {
	meta  Meta
	Name  string
	Items []Item
}

// NewUnit constructs a unit declaration.
func NewUnit(span source.Span, name string, items ...Item) *Unit {
	return &Unit{NewMeta(span), name, items}
}

// NodeID implements Node.
func (p *Unit) NodeID() uint64 { return p.meta.ID() }

// Span implements Node.
func (p *Unit) Span() source.Span { return p.meta.Span }

// Children implements Node.
func (p *Unit) Children() []Node {
	children := make([]Node, len(p.Items))
	for i, it := range p.Items {
		children[i] = it
	}

	return children
}

// ReplaceChild implements Node.
func (p *Unit) ReplaceChild(index int, child Node) {
	if index < 0 || index >= len(p.Items) {
		childIndexError("Unit", index, len(p.Items))
	}

	p.Items[index] = child.(Item)
}

// Property looks up a named %-property declared directly on this unit,
// returning (nil, false) if absent.
func (p *Unit) Property(name string) (*Property, bool) {
	for _, it := range p.Items {
		if prop, ok := it.(*Property); ok && prop.Id == name {
			return prop, true
		}
	}

	return nil, false
}

// Lisp implements Node.
func (p *Unit) Lisp() sexp.SExp {
	l := sexp.NewList(sexp.NewSymbol("unit"), sexp.NewSymbol(p.Name))
	for _, it := range p.Items {
		l.Append(it.Lisp())
	}

	return l
}

// Import attaches another module's exported scope under a local alias.
type Import struct {
	Alias string
	Path  string
}

// Module is a top-level compilation unit grouping declared units,
// functions, constants, and imports of other modules.
type Module struct {
	meta      Meta
	Name      string
	Imports   []Import
	Constants []*ConstantDecl
	Functions []*FunctionDecl
	Units     []*Unit
}

// NewModule constructs a module declaration.
func NewModule(span source.Span, name string, imports []Import, units ...*Unit) *Module {
	return &Module{meta: NewMeta(span), Name: name, Imports: imports, Units: units}
}

// NodeID implements Node.
func (p *Module) NodeID() uint64 { return p.meta.ID() }

// Span implements Node.
func (p *Module) Span() source.Span { return p.meta.Span }

// Children implements Node.
func (p *Module) Children() []Node {
	children := make([]Node, 0, len(p.Constants)+len(p.Functions)+len(p.Units))
	for _, c := range p.Constants {
		children = append(children, c)
	}

	for _, f := range p.Functions {
		children = append(children, f)
	}

	for _, u := range p.Units {
		children = append(children, u)
	}

	return children
}

// ReplaceChild implements Node.
func (p *Module) ReplaceChild(index int, child Node) {
	n := len(p.Constants)
	if index < n {
		p.Constants[index] = child.(*ConstantDecl)
		return
	}

	index -= n
	n = len(p.Functions)

	if index < n {
		p.Functions[index] = child.(*FunctionDecl)
		return
	}

	index -= n
	n = len(p.Units)

	if index < 0 || index >= n {
		childIndexError("Module", index, n)
	}

	p.Units[index] = child.(*Unit)
}

// Lisp implements Node.
func (p *Module) Lisp() sexp.SExp {
	l := sexp.NewList(sexp.NewSymbol("module"), sexp.NewSymbol(p.Name))
	for _, u := range p.Units {
		l.Append(u.Lisp())
	}

	return l
}
