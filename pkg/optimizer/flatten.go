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

// runFlattenBlocks inlines a nested Seq directly into its parent's
// statement list when the nested Seq carries no hooks of its own (a
// hook-bearing Seq is a real block boundary — the hooks fire once per
// that block, not once per statement — so only a plain, hookless Seq is
// safe to splice away).
func runFlattenBlocks(root parserir.Stmt, sink *diag.Sink, opts Options) (parserir.Stmt, bool) {
	return transform(root, func(s parserir.Stmt) (parserir.Stmt, bool) {
		seq, ok := s.(*parserir.Seq)
		if !ok {
			return s, false
		}

		flat := make([]parserir.Stmt, 0, len(seq.Stmts))
		changed := false

		for _, stmt := range seq.Stmts {
			if inner, ok := stmt.(*parserir.Seq); ok && len(inner.Hooks) == 0 {
				flat = append(flat, inner.Stmts...)
				changed = true

				continue
			}

			flat = append(flat, stmt)
		}

		if !changed {
			return seq, false
		}

		return seq.WithStmts(flat), true
	})
}
