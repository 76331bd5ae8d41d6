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
	"github.com/zeek/spicy/pkg/ast"
	"github.com/zeek/spicy/pkg/diag"
	"github.com/zeek/spicy/pkg/parserir"
)

// runPeephole applies small local rewrites that don't require any
// broader dataflow reasoning: a single-statement Seq is indistinguishable
// from that statement alone (once hook dispatch is already attached
// elsewhere), and a Skip of a literal zero bytes reads nothing so it
// collapses to a no-op.
func runPeephole(root parserir.Stmt, sink *diag.Sink, opts Options) (parserir.Stmt, bool) {
	return transform(root, func(s parserir.Stmt) (parserir.Stmt, bool) {
		switch n := s.(type) {
		case *parserir.Seq:
			if len(n.Hooks) == 0 && len(n.Stmts) == 1 {
				return n.Stmts[0], true
			}

			return n, false
		case *parserir.Skip:
			if literalZero(n.Bytes) {
				return parserir.NewEmptySeq(n.Span()), true
			}

			return n, false
		default:
			return s, false
		}
	})
}

func literalZero(e ast.Expr) bool {
	lit, ok := e.(*ast.Literal)
	if !ok {
		return false
	}

	v, ok := lit.IntValue()
	return ok && v.Sign() == 0
}
