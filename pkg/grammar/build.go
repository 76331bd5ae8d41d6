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
package grammar

import (
	"github.com/zeek/spicy/pkg/ast"
	"github.com/zeek/spicy/pkg/diag"
	"github.com/zeek/spicy/pkg/source"
	"github.com/zeek/spicy/pkg/typesys"
)

// Builder lowers every unit of a resolved ast.Module into a Grammar
// (spec.md §4.E), running all three phases — lowering, FIRST/FOLLOW, and
// alternative lowering — per unit.
type Builder struct {
	sink      *diag.Sink
	tokens    *tokenTable
	symCount  uint64
	unitRoots map[string]Symbol
}

// NewBuilder constructs a grammar builder reporting into sink.
func NewBuilder(sink *diag.Sink) *Builder {
	return &Builder{sink: sink, tokens: newTokenTable()}
}

func (b *Builder) newSymbol() Symbol {
	b.symCount++
	return Symbol(b.symCount)
}

// BuildModule builds one Grammar per declared unit. Every unit's root
// symbol is reserved before any unit is lowered, so a field referring to a
// unit declared later in the same module resolves to a real Symbol
// without a Deferred patch.
func (b *Builder) BuildModule(mod *ast.Module) map[string]*Grammar {
	b.unitRoots = make(map[string]Symbol, len(mod.Units))

	for _, u := range mod.Units {
		b.unitRoots[u.Name] = b.newSymbol()
	}

	grammars := make(map[string]*Grammar, len(mod.Units))

	for _, u := range mod.Units {
		grammars[u.Name] = b.buildUnit(u)
	}

	return grammars
}

func (b *Builder) buildUnit(u *ast.Unit) *Grammar {
	g := &Grammar{UnitName: u.Name, Table: make(map[Symbol]Production)}

	root := b.unitRoots[u.Name]
	body := b.lowerSequence(u.Items, g)
	unitProd := &Unit{prodBase{root, u.Span()}, u.Name, body, collectHooks(u.Items)}
	g.Table[root] = unitProd
	g.Root = root

	b.runFixpoint(g)
	b.lowerAlternatives(g)

	return g
}

// collectHooks groups a unit's UnitHook items by event id, each bucket
// sorted by descending priority (spec.md §4.F: "Hooks are compiled to
// ordered dispatch blocks sorted by descending priority attribute").
func collectHooks(items []ast.Item) map[string][]*ast.UnitHook {
	hooks := make(map[string][]*ast.UnitHook)

	for _, it := range items {
		if h, ok := it.(*ast.UnitHook); ok {
			hooks[h.Id] = append(hooks[h.Id], h)
		}
	}

	for id := range hooks {
		bucket := hooks[id]
		for i := 1; i < len(bucket); i++ {
			for j := i; j > 0 && bucket[j-1].Priority < bucket[j].Priority; j-- {
				bucket[j-1], bucket[j] = bucket[j], bucket[j-1]
			}
		}
	}

	return hooks
}

// lowerSequence lowers an ordered list of items into a single Production:
// Epsilon if none of them produce one, the lone production if exactly one
// does, or a Sequence otherwise (spec.md §4.E Phase 1).
func (b *Builder) lowerSequence(items []ast.Item, g *Grammar) Production {
	var prods []Production

	for _, it := range items {
		if p := b.lowerItem(it, g); p != nil {
			prods = append(prods, p)
		}
	}

	switch len(prods) {
	case 0:
		sym := b.newSymbol()
		p := &Epsilon{prodBase{sym, source.Unknown()}}
		g.Table[sym] = p

		return p
	case 1:
		return prods[0]
	default:
		sym := b.newSymbol()
		p := &Sequence{prodBase{sym, source.Merge(prods[0].Span(), prods[len(prods)-1].Span())}, prods}
		g.Table[sym] = p

		return p
	}
}

// lowerItem maps one unit item to its production per the table in
// spec.md §4.E Phase 1. Variable, Sink and UnitHook items, and every
// Property other than synchronize-at, introduce no production and return
// nil.
func (b *Builder) lowerItem(it ast.Item, g *Grammar) Production {
	switch item := it.(type) {
	case *ast.Field:
		return b.lowerField(item, g)
	case *ast.Switch:
		return b.lowerSwitch(item, g)
	case *ast.Property:
		return b.lowerProperty(item, g)
	case *ast.Variable, *ast.Sink, *ast.UnitHook:
		return nil
	default:
		diag.InternalError("grammar builder: unhandled item kind %T", it)
		return nil
	}
}

func (b *Builder) lowerField(item *ast.Field, g *Grammar) Production {
	body := b.lowerFieldBody(item, g)

	return b.wrapRepetition(item, body, g)
}

// lowerFieldBody produces the base production for one field before any
// repetition wrapper (&count/&size/&until/&eod) is applied.
func (b *Builder) lowerFieldBody(item *ast.Field, g *Grammar) Production {
	if item.Match != nil {
		sym := b.newSymbol()
		token := b.tokens.idFor(item.Match.Lisp().String())
		p := &Ctor{prodBase{sym, item.Span()}, item.Match, token, item.ItemName()}
		g.Table[sym] = p

		return p
	}

	if ut, ok := item.DataType.(*typesys.UnitType); ok {
		return b.lowerUnitReference(item.Span(), ut.Name, item.ItemName(), g)
	}

	sym := b.newSymbol()
	p := &Variable{prodBase{sym, item.Span()}, item.DataType, item.ItemName()}
	g.Table[sym] = p

	return p
}

func (b *Builder) lowerUnitReference(span source.Span, unitName, field string, g *Grammar) Production {
	target, ok := b.unitRoots[unitName]
	if !ok {
		diag.InternalError("grammar builder: field references undeclared unit %q", unitName)
	}

	refSym := b.newSymbol()
	ref := &Reference{prodBase{refSym, span}, unitName, target}
	g.Table[refSym] = ref

	sym := b.newSymbol()
	tl := &TypeLiteral{prodBase{sym, span}, unitName, ref, field}
	g.Table[sym] = tl

	return tl
}

// wrapRepetition applies the Counter or While wrapper a field's
// attributes call for, or returns body unchanged for a field that parses
// exactly once. It never builds a ForEach production.
func (b *Builder) wrapRepetition(item *ast.Field, body Production, g *Grammar) Production {
	switch {
	case item.Attrs.Count != nil:
		sym := b.newSymbol()
		p := &Counter{prodBase{sym, item.Span()}, item.Attrs.Count, body}
		g.Table[sym] = p

		return p
	case item.Attrs.Size != nil || item.Attrs.Until != nil || item.Attrs.Eod:
		sym := b.newSymbol()
		p := &While{prodBase{sym, item.Span()}, item.Attrs.Until, body}
		g.Table[sym] = p

		return p
	default:
		return body
	}
}

// lowerProperty lowers a %synchronize-at property to a Synchronize
// production; every other property (%byte-order, %random-access, ...)
// carries no production of its own and is consulted directly off the AST
// by the parser IR generator instead.
func (b *Builder) lowerProperty(item *ast.Property, g *Grammar) Production {
	if item.ItemName() != "synchronize-at" {
		return nil
	}

	sym := b.newSymbol()
	p := &Synchronize{prodBase{sym, item.Span()}, item.Value}
	g.Table[sym] = p

	return p
}

func (b *Builder) lowerSwitch(item *ast.Switch, g *Grammar) Production {
	sym := b.newSymbol()
	cases := make([]SwitchArm, len(item.Cases))

	for i, c := range item.Cases {
		cases[i] = SwitchArm{Labels: c.Labels, Body: b.lowerArmBody(c.Body, g)}
	}

	var def Production
	if item.Default != nil {
		def = b.lowerArmBody(item.Default, g)
	}

	p := &Switch{prodBase{sym, item.Span()}, item.Discriminant, cases, def}
	g.Table[sym] = p

	return p
}

// lowerArmBody lowers one switch arm's item, substituting an Epsilon
// production for arms whose item (a Variable or Sink, say) introduces no
// production of its own — every arm needs a concrete Production so Phase
// 2's fixpoint can assign it a Symbol to compute over.
func (b *Builder) lowerArmBody(it ast.Item, g *Grammar) Production {
	if p := b.lowerItem(it, g); p != nil {
		return p
	}

	sym := b.newSymbol()
	p := &Epsilon{prodBase{sym, it.Span()}}
	g.Table[sym] = p

	return p
}
