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
	"testing"

	"github.com/zeek/spicy/pkg/ast"
	"github.com/zeek/spicy/pkg/diag"
)

func TestRunFixpoint_FollowPropagatesAcrossSequence(t *testing.T) {
	u := ast.NewUnit(sp(), "U", matchField("a", "A"), matchField("b", "B"))
	mod := ast.NewModule(sp(), "m", nil, u)

	sink := diag.NewSink()
	g := NewBuilder(sink).BuildModule(mod)["U"]

	seq := g.RootProduction().Body.(*Sequence)
	aSym := seq.Items[0].Sym()
	bSym := seq.Items[1].Sym()

	aTok := g.Table[aSym].(*Ctor).Token
	bTok := g.Table[bSym].(*Ctor).Token

	if !g.Follow[aSym].Contains(bTok) {
		t.Fatalf("expected a's FOLLOW to contain b's token")
	}

	if !g.Follow[bSym].Contains(EOD) {
		t.Fatalf("expected the last item's FOLLOW to contain EOD")
	}

	if g.Nullable[g.Root] {
		t.Fatalf("a two-literal sequence must not be nullable")
	}

	if g.First[g.Root].Contains(bTok) {
		t.Fatalf("the root's FIRST must only contain the first item's token, not %v", bTok)
	}

	if !g.First[g.Root].Contains(aTok) {
		t.Fatalf("expected the root's FIRST to contain a's token")
	}
}

func TestRunFixpoint_EmptyUnitIsNullable(t *testing.T) {
	u := ast.NewUnit(sp(), "U")
	mod := ast.NewModule(sp(), "m", nil, u)

	sink := diag.NewSink()
	g := NewBuilder(sink).BuildModule(mod)["U"]

	if !g.Nullable[g.Root] {
		t.Fatalf("expected a unit with no items to be nullable")
	}

	if !g.Follow[g.Root].Contains(EOD) {
		t.Fatalf("expected the root's FOLLOW to be seeded with EOD")
	}
}
