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
	"testing"

	"github.com/zeek/spicy/pkg/ast"
	"github.com/zeek/spicy/pkg/diag"
	"github.com/zeek/spicy/pkg/grammar"
	"github.com/zeek/spicy/pkg/source"
	"github.com/zeek/spicy/pkg/typesys"
)

func sp() source.Span { return source.NewSpan("test", 1, 0, 1, 0) }

func matchField(id, literal string) *ast.Field {
	return ast.NewMatchField(sp(), id, ast.NewBytesCtor(sp(), []byte(literal)), ast.FieldAttributes{})
}

func buildGrammar(t *testing.T, u *ast.Unit) *grammar.Grammar {
	t.Helper()

	mod := ast.NewModule(sp(), "m", nil, u)
	sink := diag.NewSink()
	gs := grammar.NewBuilder(sink).BuildModule(mod)

	if sink.HasErrors() {
		t.Fatalf("unexpected diagnostics building grammar: %s", sink.Error())
	}

	return gs[u.Name]
}

func TestGenerate_AlwaysWrapsInUnitCall(t *testing.T) {
	g := buildGrammar(t, ast.NewUnit(sp(), "U", ast.NewField(sp(), "n", typesys.NewUintType(8), ast.FieldAttributes{})))

	root := NewGenerator(diag.NewSink()).Generate(g, nil)

	uc, ok := root.(*UnitCall)
	if !ok {
		t.Fatalf("expected Generate to always return a *UnitCall, got %T", root)
	}

	if uc.UnitName != "U" {
		t.Fatalf("expected UnitName %q, got %q", "U", uc.UnitName)
	}
}

func TestGenerate_SingleFieldBodyIsBareReadVariable(t *testing.T) {
	g := buildGrammar(t, ast.NewUnit(sp(), "U", ast.NewField(sp(), "n", typesys.NewUintType(8), ast.FieldAttributes{})))

	root := NewGenerator(diag.NewSink()).Generate(g, nil)
	body := root.(*UnitCall).Body

	rv, ok := body.(*ReadVariable)
	if !ok || rv.Field != "n" {
		t.Fatalf("expected a bare ReadVariable for field n, got %T", body)
	}
}

func TestGenerate_MultiFieldBodyIsSeq(t *testing.T) {
	g := buildGrammar(t, ast.NewUnit(sp(), "U", matchField("a", "A"), matchField("b", "B")))

	root := NewGenerator(diag.NewSink()).Generate(g, nil)
	body := root.(*UnitCall).Body

	seq, ok := body.(*Seq)
	if !ok || len(seq.Stmts) != 2 {
		t.Fatalf("expected a 2-statement Seq, got %T", body)
	}

	for i, field := range []string{"a", "b"} {
		m, ok := seq.Stmts[i].(*MatchCtor)
		if !ok || m.Field != field {
			t.Fatalf("stmt %d: expected MatchCtor for field %q, got %+v", i, field, seq.Stmts[i])
		}
	}
}

func TestGenerate_CountedFieldLowersToCounterLoop(t *testing.T) {
	n := ast.NewField(sp(), "n", typesys.NewUintType(8), ast.FieldAttributes{})
	data := ast.NewField(sp(), "data", typesys.NewUintType(16), ast.FieldAttributes{
		Count: ast.NewIdentExpr(sp(), "n"),
	})
	g := buildGrammar(t, ast.NewUnit(sp(), "Vec", n, data))

	root := NewGenerator(diag.NewSink()).Generate(g, nil)
	seq := root.(*UnitCall).Body.(*Seq)

	loop, ok := seq.Stmts[1].(*CounterLoop)
	if !ok {
		t.Fatalf("expected the counted field to lower to a CounterLoop, got %T", seq.Stmts[1])
	}

	rv, ok := loop.Body.(*ReadVariable)
	if !ok || rv.Field != "data" {
		t.Fatalf("expected the CounterLoop body to be a ReadVariable for data, got %T", loop.Body)
	}
}

func TestGenerate_DisjointSwitchLowersToLookAheadDispatch(t *testing.T) {
	sw := ast.NewSwitch(sp(), "alt", nil, []ast.SwitchCase{
		{Body: matchField("", "a")},
		{Body: matchField("", "b")},
	}, nil)
	g := buildGrammar(t, ast.NewUnit(sp(), "U", sw))

	root := NewGenerator(diag.NewSink()).Generate(g, nil)
	body := root.(*UnitCall).Body

	lad, ok := body.(*LookAheadDispatch)
	if !ok {
		t.Fatalf("expected a LookAheadDispatch, got %T", body)
	}

	if lad.LahsA.Intersects(lad.LahsB) {
		t.Fatalf("expected disjoint look-ahead sets to reach the IR unchanged")
	}
}

func TestGenerate_SynchronizePropertyLowersToSynchronizeNode(t *testing.T) {
	n := ast.NewField(sp(), "n", typesys.NewUintType(8), ast.FieldAttributes{})
	prop := ast.NewProperty(sp(), "synchronize-at", ast.NewIdentExpr(sp(), "n"))
	g := buildGrammar(t, ast.NewUnit(sp(), "U", n, prop))

	root := NewGenerator(diag.NewSink()).Generate(g, nil)
	seq := root.(*UnitCall).Body.(*Seq)

	if _, ok := seq.Stmts[1].(*Synchronize); !ok {
		t.Fatalf("expected the second statement to be a Synchronize node, got %T", seq.Stmts[1])
	}
}
