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
	"github.com/zeek/spicy/pkg/diag"
	"github.com/zeek/spicy/pkg/parserir"
)

// runDeadCodeCFG drops statements in a Seq that follow a terminal
// statement — one that never returns control to the rest of the
// sequence, such as an unconditional RaiseError. Unlike DeadCodeStatic
// (which removes already-empty subtrees) this reasons about control flow
// reachability within a block.
func runDeadCodeCFG(root parserir.Stmt, sink *diag.Sink, opts Options) (parserir.Stmt, bool) {
	return transform(root, func(s parserir.Stmt) (parserir.Stmt, bool) {
		seq, ok := s.(*parserir.Seq)
		if !ok {
			return s, false
		}

		for i, stmt := range seq.Stmts {
			if isTerminal(stmt) && i < len(seq.Stmts)-1 {
				return seq.WithStmts(seq.Stmts[:i+1]), true
			}
		}

		return seq, false
	})
}

// isTerminal reports whether stmt unconditionally raises rather than
// ever falling through to a following statement.
func isTerminal(stmt parserir.Stmt) bool {
	_, ok := stmt.(*parserir.RaiseError)
	return ok
}
