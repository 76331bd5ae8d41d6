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
package optimizer

import (
	"github.com/zeek/spicy/pkg/parserir"
)

// transform performs a post-order rewrite of root: every child is
// transformed first, the node is rebuilt (preserving its span via the
// parserir package's own With* helpers) with its possibly-new children,
// and visit is then given a chance to replace the rebuilt node itself. It
// returns the final tree and whether anything changed anywhere, which is
// how each pass reports its changed-bool per spec.md §4.G without every
// pass re-implementing tree traversal.
func transform(root parserir.Stmt, visit func(parserir.Stmt) (parserir.Stmt, bool)) (parserir.Stmt, bool) {
	if root == nil {
		return nil, false
	}

	changed := false

	switch s := root.(type) {
	case *parserir.Seq:
		stmts := make([]parserir.Stmt, len(s.Stmts))
		for i, child := range s.Stmts {
			var c bool
			stmts[i], c = transform(child, visit)
			changed = changed || c
		}

		if changed {
			root = s.WithStmts(stmts)
		}
	case *parserir.LookAheadDispatch:
		a, ca := transform(s.AltA, visit)
		b, cb := transform(s.AltB, visit)

		if ca || cb {
			root = s.WithAlts(a, b)
			changed = true
		}
	case *parserir.SwitchDispatch:
		cases := make([]parserir.SwitchCase, len(s.Cases))

		for i, c := range s.Cases {
			body, ch := transform(c.Body, visit)
			cases[i] = parserir.SwitchCase{Labels: c.Labels, Body: body}
			changed = changed || ch
		}

		var def parserir.Stmt

		if s.Default != nil {
			var cd bool
			def, cd = transform(s.Default, visit)
			changed = changed || cd
		}

		if changed {
			root = s.WithCases(cases, def)
		}
	case *parserir.CounterLoop:
		body, c := transform(s.Body, visit)
		if c {
			root = s.WithBody(body)
			changed = true
		}
	case *parserir.WhileLoop:
		body, c := transform(s.Body, visit)
		if c {
			root = s.WithBody(body)
			changed = true
		}
	case *parserir.ForEachLoop:
		body, c := transform(s.Body, visit)
		if c {
			root = s.WithBody(body)
			changed = true
		}
	case *parserir.UnitCall:
		body, c := transform(s.Body, visit)
		if c {
			root = s.WithBody(body)
			changed = true
		}
	default:
		// Leaf node (MatchCtor, ReadVariable, TailCall, Skip,
		// NestedUnitCall, Synchronize, RaiseError): no children to recurse
		// into.
	}

	newRoot, c := visit(root)
	changed = changed || c

	return newRoot, changed
}

// emptySeq reports whether s is a Seq with no statements, the IR's
// representation of a no-op (an Epsilon production or a fully-elided
// block).
func emptySeq(s parserir.Stmt) bool {
	seq, ok := s.(*parserir.Seq)
	return ok && len(seq.Stmts) == 0
}
