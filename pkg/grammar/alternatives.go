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
	"github.com/zeek/spicy/pkg/diag"
)

// lowerAlternatives runs grammar-builder Phase 3 (spec.md §4.E): every
// two-armed Switch is repackaged as a LookAhead guarded by the arms'
// computed look-ahead sets, and every Switch (regardless of arity) has its
// arms pairwise checked for look-ahead overlap, reporting an ambiguity
// diagnostic for any colliding pair instead of silently picking one.
func (b *Builder) lowerAlternatives(g *Grammar) {
	for sym, p := range g.Table {
		sw, ok := p.(*Switch)
		if !ok {
			continue
		}

		arms := switchArms(sw)
		lahs := make([]*TokenSet, len(arms))

		for i, arm := range arms {
			lahs[i] = lookahead(g, arm.Sym())
		}

		b.checkDisjoint(g, sw, arms, lahs)

		if len(arms) == 2 {
			la := &LookAhead{
				prodBase: prodBase{b.newSymbol(), sw.Span()},
				AltA:     arms[0],
				AltB:     arms[1],
				LahsA:    lahs[0],
				LahsB:    lahs[1],
			}
			g.Table[la.Sym()] = la

			if g.LookAheads == nil {
				g.LookAheads = make(map[Symbol]*LookAhead)
			}

			g.LookAheads[sym] = la
		}
	}
}

// switchArms flattens a Switch's cases (and its default, if present) into
// a single ordered list of alternative productions.
func switchArms(sw *Switch) []Production {
	arms := make([]Production, 0, len(sw.Cases)+1)

	for _, c := range sw.Cases {
		arms = append(arms, c.Body)
	}

	if sw.Default != nil {
		arms = append(arms, sw.Default)
	}

	return arms
}

// lookahead computes lahs(p) = first(p) ∪ (follow(p) if p is nullable),
// the look-ahead set a point of alternation uses to decide whether to take
// an alternative (spec.md §4.E Phase 3).
func lookahead(g *Grammar, sym Symbol) *TokenSet {
	lahs := g.First[sym].Clone()

	if g.Nullable[sym] {
		lahs.MergeFrom(g.Follow[sym])
	}

	return lahs
}

// checkDisjoint reports a diag.GrammarAmbiguity for every pair of arms
// whose look-ahead sets intersect. Arms are compared pairwise regardless
// of how many there are; only exactly-two-armed switches additionally get
// a synthesized LookAhead production, since that is the only shape the
// parser IR generator dispatches on directly.
func (b *Builder) checkDisjoint(g *Grammar, sw *Switch, arms []Production, lahs []*TokenSet) {
	for i := 0; i < len(arms); i++ {
		for j := i + 1; j < len(arms); j++ {
			if lahs[i].Intersects(lahs[j]) {
				b.sink.Reportf(diag.GrammarAmbiguity, sw.Span(),
					"ambiguous alternatives in grammar %q: arm %d and arm %d both accept token set %s",
					g.UnitName, i, j, lahs[i].intersectionString(lahs[j]))
			}
		}
	}
}
