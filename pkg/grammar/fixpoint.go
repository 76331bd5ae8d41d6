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
	log "github.com/sirupsen/logrus"

	"github.com/zeek/spicy/pkg/ast"
	"github.com/zeek/spicy/pkg/diag"
)

// fixpointRoundCap bounds the number of FIRST/FOLLOW propagation rounds
// (spec.md §4.E Phase 2), mirroring the resolver's own bounded-fixpoint
// policy (compiler.ResolverFixpointCap) rather than looping unconditionally.
const fixpointRoundCap = 64

// runFixpoint computes Nullable, First and Follow for every production in
// g to a fixpoint: each round recomputes every production's contribution
// from its children's current sets, continuing until a whole round adds
// nothing. The root's Follow set is seeded with EOD before the first
// round, per spec.md §4.E.
func (b *Builder) runFixpoint(g *Grammar) {
	g.Nullable = make(map[Symbol]bool, len(g.Table))
	g.First = make(map[Symbol]*TokenSet, len(g.Table))
	g.Follow = make(map[Symbol]*TokenSet, len(g.Table))

	for sym := range g.Table {
		g.First[sym] = NewTokenSet()
		g.Follow[sym] = NewTokenSet()
	}

	g.Follow[g.Root].Add(EOD)

	round := 0

	for ; round < fixpointRoundCap; round++ {
		changed := false

		for sym, prod := range g.Table {
			if updateProduction(g, sym, prod) {
				changed = true
			}
		}

		log.Debugf("grammar %q: fixpoint round %d changed=%v", g.UnitName, round, changed)

		if !changed {
			break
		}
	}

	if round == fixpointRoundCap {
		b.sink.Reportf(diag.FixpointDivergence, g.RootProduction().Span(),
			"grammar %q FIRST/FOLLOW did not converge within %d rounds", g.UnitName, fixpointRoundCap)
	}
}

func setNullable(g *Grammar, sym Symbol, v bool) bool {
	if v && !g.Nullable[sym] {
		g.Nullable[sym] = true
		return true
	}

	return false
}

func mergeSet(dst, src *TokenSet) bool {
	return dst.MergeFrom(src)
}

// staticZero reports whether e is an integer literal statically known to
// be zero, the only case in which a Counter/Skip can be proven nullable
// without evaluating a runtime expression.
func staticZero(e ast.Expr) bool {
	lit, ok := e.(*ast.Literal)
	if !ok {
		return false
	}

	v, ok := lit.IntValue()
	return ok && v.Sign() == 0
}

// updateProduction recomputes sym's contribution to Nullable/First/Follow
// from its children's current values, returning whether anything grew.
// While and ForEach are always treated as nullable (their repetition may
// run zero times at run time); Counter and Skip are nullable only when
// statically provably zero, a deliberately conservative simplification
// documented in DESIGN.md, since fully general constant folding of
// arbitrary count/length expressions is out of scope here.
func updateProduction(g *Grammar, sym Symbol, p Production) bool {
	switch prod := p.(type) {
	case *Epsilon:
		return setNullable(g, sym, true)
	case *Ctor:
		before := g.First[sym].Contains(prod.Token)
		if !before {
			g.First[sym].Add(prod.Token)
		}

		return !before
	case *Variable, *TypeLiteral:
		return false
	case *Skip:
		return setNullable(g, sym, staticZero(prod.Bytes))
	case *Synchronize:
		// Opaque to FIRST/FOLLOW by design (SPEC_FULL.md §12): contributes
		// no tokens and is never nullable.
		return false
	case *Reference:
		if prod.Within != "" {
			return false
		}

		changed := setNullable(g, sym, g.Nullable[prod.Target])
		changed = mergeSet(g.First[sym], g.First[prod.Target]) || changed
		changed = mergeSet(g.Follow[prod.Target], g.Follow[sym]) || changed

		return changed
	case *Sequence:
		return updateSequence(g, sym, prod.Items)
	case *Block:
		return updateSequence(g, sym, prod.Items)
	case *Switch:
		return updateSwitch(g, sym, prod)
	case *Counter:
		bsym := prod.Body.Sym()
		changed := setNullable(g, sym, staticZero(prod.Count))

		if !g.Nullable[sym] {
			changed = mergeSet(g.First[sym], g.First[bsym]) || changed
		}

		changed = mergeSet(g.Follow[bsym], g.First[bsym]) || changed
		changed = mergeSet(g.Follow[bsym], g.Follow[sym]) || changed

		return changed
	case *While:
		return updateLoop(g, sym, prod.Body)
	case *ForEach:
		return updateLoop(g, sym, prod.Body)
	case *Unit:
		bsym := prod.Body.Sym()
		changed := setNullable(g, sym, g.Nullable[bsym])
		changed = mergeSet(g.First[sym], g.First[bsym]) || changed
		changed = mergeSet(g.Follow[bsym], g.Follow[sym]) || changed

		return changed
	case *Deferred:
		if !prod.IsPatched() {
			return false
		}

		rsym := prod.Resolved.Sym()
		changed := setNullable(g, sym, g.Nullable[rsym])
		changed = mergeSet(g.First[sym], g.First[rsym]) || changed
		changed = mergeSet(g.Follow[rsym], g.Follow[sym]) || changed

		return changed
	case *LookAhead:
		// Not produced until Phase 3 runs, after the fixpoint has already
		// settled; nothing to update.
		return false
	default:
		diag.InternalError("grammar builder: unhandled production kind %T", p)
		return false
	}
}

// updateSequence implements the standard FIRST/FOLLOW propagation for a
// concatenation: FIRST flows forward through the nullable prefix, FOLLOW
// flows backward through the nullable suffix.
func updateSequence(g *Grammar, sym Symbol, items []Production) bool {
	changed := false
	allNullable := true

	for _, item := range items {
		isym := item.Sym()
		if allNullable {
			changed = mergeSet(g.First[sym], g.First[isym]) || changed
		}

		if !g.Nullable[isym] {
			allNullable = false
		}
	}

	changed = setNullable(g, sym, allNullable) || changed

	for i := range items {
		isym := items[i].Sym()
		suffixNullable := true

		for j := i + 1; j < len(items); j++ {
			jsym := items[j].Sym()
			changed = mergeSet(g.Follow[isym], g.First[jsym]) || changed

			if !g.Nullable[jsym] {
				suffixNullable = false
				break
			}
		}

		if suffixNullable {
			changed = mergeSet(g.Follow[isym], g.Follow[sym]) || changed
		}
	}

	return changed
}

func updateSwitch(g *Grammar, sym Symbol, prod *Switch) bool {
	changed := false
	anyNullable := false

	for _, c := range prod.Cases {
		csym := c.Body.Sym()
		changed = mergeSet(g.First[sym], g.First[csym]) || changed
		changed = mergeSet(g.Follow[csym], g.Follow[sym]) || changed

		if g.Nullable[csym] {
			anyNullable = true
		}
	}

	if prod.Default != nil {
		dsym := prod.Default.Sym()
		changed = mergeSet(g.First[sym], g.First[dsym]) || changed
		changed = mergeSet(g.Follow[dsym], g.Follow[sym]) || changed

		if g.Nullable[dsym] {
			anyNullable = true
		}
	}

	changed = setNullable(g, sym, anyNullable) || changed

	return changed
}

// updateLoop implements the shared FIRST/FOLLOW/Nullable propagation for
// While and ForEach: both may run zero iterations, so the loop itself is
// always nullable, and the body's FOLLOW includes both re-entry (its own
// FIRST) and loop exit (the loop's own FOLLOW).
func updateLoop(g *Grammar, sym Symbol, body Production) bool {
	bsym := body.Sym()

	changed := setNullable(g, sym, true)
	changed = mergeSet(g.First[sym], g.First[bsym]) || changed
	changed = mergeSet(g.Follow[bsym], g.First[bsym]) || changed
	changed = mergeSet(g.Follow[bsym], g.Follow[sym]) || changed

	return changed
}
