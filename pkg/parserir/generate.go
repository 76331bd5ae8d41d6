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
	log "github.com/sirupsen/logrus"

	"github.com/zeek/spicy/pkg/ast"
	"github.com/zeek/spicy/pkg/diag"
	"github.com/zeek/spicy/pkg/grammar"
)

// Generator lowers one validated grammar.Grammar into an IR tree per the
// parse-one emission contract of spec.md §4.F.
type Generator struct {
	sink  *diag.Sink
	g     *grammar.Grammar
	sinks []SinkConfig
	hooks map[string][]*ast.UnitHook
}

// NewGenerator constructs a generator reporting into sink.
func NewGenerator(sink *diag.Sink) *Generator {
	return &Generator{sink: sink}
}

// Generate lowers g's root Unit production into its IR form. sinks
// supplies the owning unit's declared reassembly sinks (spec.md §4.F:
// "Sinks emit to a runtime-provided reassembly object ..."), since a Sink
// item introduces no grammar production of its own and so is not visible
// anywhere in g itself.
func (gen *Generator) Generate(g *grammar.Grammar, sinks []SinkConfig) Stmt {
	gen.g = g
	gen.sinks = sinks

	log.Debugf("parserir: generating unit %q", g.UnitName)

	return gen.lower(g.Root)
}

func (gen *Generator) lower(sym grammar.Symbol) Stmt {
	p := gen.g.Lookup(sym)
	if p == nil {
		diag.InternalError("parserir: symbol %d has no production in grammar %q", sym, gen.g.UnitName)
	}

	switch prod := p.(type) {
	case *grammar.Epsilon:
		return &Seq{stmtBase: stmtBase{prod.Span()}}
	case *grammar.Ctor:
		return &MatchCtor{stmtBase{prod.Span()}, sym, prod.Literal, prod.Field}
	case *grammar.Variable:
		return &ReadVariable{stmtBase{prod.Span()}, sym, prod.Type, prod.Field}
	case *grammar.TypeLiteral:
		return &NestedUnitCall{stmtBase{prod.Span()}, prod.UnitName, prod.Field}
	case *grammar.Reference:
		return &TailCall{stmtBase{prod.Span()}, prod.Target}
	case *grammar.Sequence:
		return gen.lowerSequence(prod)
	case *grammar.Block:
		return gen.lowerBlock(prod)
	case *grammar.LookAhead:
		return &LookAheadDispatch{stmtBase{prod.Span()}, prod.LahsA, prod.LahsB, gen.lower(prod.AltA.Sym()), gen.lower(prod.AltB.Sym())}
	case *grammar.Switch:
		return gen.lowerSwitch(sym, prod)
	case *grammar.Counter:
		return &CounterLoop{stmtBase{prod.Span()}, prod.Count, gen.lower(prod.Body.Sym())}
	case *grammar.While:
		return gen.lowerWhile(prod)
	case *grammar.ForEach:
		return &ForEachLoop{stmtBase{prod.Span()}, gen.lower(prod.Body.Sym()), prod.EodOK, gen.hooks["foreach"]}
	case *grammar.Skip:
		return &Skip{stmtBase{prod.Span()}, prod.Bytes}
	case *grammar.Synchronize:
		return &Synchronize{stmtBase{prod.Span()}, prod.At}
	case *grammar.Unit:
		return gen.lowerUnit(prod)
	case *grammar.Deferred:
		if !prod.IsPatched() {
			diag.InternalError("parserir: unpatched deferred production in grammar %q", gen.g.UnitName)
		}

		return gen.lower(prod.Resolved.Sym())
	default:
		diag.InternalError("parserir: unhandled production kind %T", p)
		return nil
	}
}

func (gen *Generator) lowerSequence(prod *grammar.Sequence) Stmt {
	stmts := make([]Stmt, len(prod.Items))
	for i, item := range prod.Items {
		stmts[i] = gen.lower(item.Sym())
	}

	return &Seq{stmtBase: stmtBase{prod.Span()}, Stmts: stmts}
}

func (gen *Generator) lowerBlock(prod *grammar.Block) Stmt {
	stmts := make([]Stmt, len(prod.Items))
	for i, item := range prod.Items {
		stmts[i] = gen.lower(item.Sym())
	}

	return &Seq{stmtBase: stmtBase{prod.Span()}, Stmts: stmts, Hooks: prod.Hooks}
}

func (gen *Generator) lowerSwitch(sym grammar.Symbol, prod *grammar.Switch) Stmt {
	if la, ok := gen.g.LookAheads[sym]; ok {
		log.Debugf("parserir: switch %d lowered via its two-armed look-ahead form", sym)

		return &LookAheadDispatch{stmtBase{prod.Span()}, la.LahsA, la.LahsB, gen.lower(la.AltA.Sym()), gen.lower(la.AltB.Sym())}
	}

	cases := make([]SwitchCase, len(prod.Cases))
	for i, c := range prod.Cases {
		cases[i] = SwitchCase{Labels: c.Labels, Body: gen.lower(c.Body.Sym())}
	}

	var def Stmt
	if prod.Default != nil {
		def = gen.lower(prod.Default.Sym())
	}

	return &SwitchDispatch{stmtBase{prod.Span()}, prod.Expr, cases, def}
}

// lowerWhile lowers a While production. If the owning unit declares a
// "foreach" hook, the loop is additionally hook-driven per iteration
// (spec.md §4.F's ForEach contract) rather than a bare condition loop;
// otherwise it lowers to a plain WhileLoop honoring &size/&until/&eod.
func (gen *Generator) lowerWhile(prod *grammar.While) Stmt {
	body := gen.lower(prod.Body.Sym())

	if hooks, ok := gen.hooks["foreach"]; ok {
		return &ForEachLoop{stmtBase{prod.Span()}, body, prod.Cond == nil, hooks}
	}

	return &WhileLoop{stmtBase{prod.Span()}, prod.Cond, body}
}

func (gen *Generator) lowerUnit(prod *grammar.Unit) Stmt {
	gen.hooks = prod.Hooks

	return &UnitCall{
		stmtBase:    stmtBase{prod.Span()},
		UnitName:    prod.UnitName,
		Body:        gen.lower(prod.Body.Sym()),
		Init:        prod.Hooks["%init"],
		Done:        prod.Hooks["%done"],
		ErrorHooks:  prod.Hooks["%error"],
		SinkConfigs: gen.sinks,
	}
}
