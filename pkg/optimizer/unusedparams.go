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
	log "github.com/sirupsen/logrus"

	"github.com/zeek/spicy/pkg/ast"
	"github.com/zeek/spicy/pkg/diag"
	"github.com/zeek/spicy/pkg/typesys"
)

// removeUnusedParameters implements the RemoveUnusedParameters pass
// (spec.md §4.G) for user-defined functions. A function's parameters are
// declared once on ast.FunctionDecl.Params and referenced from
// ast.IdentExpr nodes within its body, not from anywhere in the parserir
// tree, so this pass walks the resolved module directly rather than a
// Stmt tree. Dropping a parameter also means dropping the matching
// positional argument at every call site bound to that exact function,
// so the pass walks mod a second time looking for ast.CallExpr nodes
// whose Callee is already resolved to this function's own binding and
// trims their Args in lockstep.
func removeUnusedParameters(mod *ast.Module, sink *diag.Sink) bool {
	changed := false

	for _, fn := range mod.Functions {
		if rewriteUnusedParameters(mod, fn) {
			changed = true
		}
	}

	return changed
}

func rewriteUnusedParameters(mod *ast.Module, fn *ast.FunctionDecl) bool {
	if fn.Bind.Sig.Body == nil {
		return false
	}

	used := make(map[string]bool, len(fn.Params))

	ast.Walk(fn.Bind.Sig.Body, func(n ast.Node) bool {
		if id, ok := n.(*ast.IdentExpr); ok {
			used[id.Ref.Name()] = true
		}

		return true
	})

	keep := make([]bool, len(fn.Params))
	anyUnused := false

	for i, p := range fn.Params {
		keep[i] = used[p]
		if !used[p] {
			anyUnused = true

			log.Debugf("function %q: dropping unused parameter %q", fn.DeclName(), p)
		}
	}

	if !anyUnused {
		return false
	}

	fn.Params = keepStrings(fn.Params, keep)
	fn.Bind.Sig.Parameters = keepTypes(fn.Bind.Sig.Parameters, keep)

	ast.Walk(mod, func(n ast.Node) bool {
		call, ok := n.(*ast.CallExpr)
		if !ok || !call.Callee.IsResolved() || call.Callee.InnerBinding() != ast.FunctionBinding(fn.Bind) {
			return true
		}

		call.Args = keepExprs(call.Args, keep)

		return true
	})

	return true
}

func keepStrings(items []string, keep []bool) []string {
	out := make([]string, 0, len(items))
	for i, s := range items {
		if keep[i] {
			out = append(out, s)
		}
	}

	return out
}

func keepTypes(items []typesys.Type, keep []bool) []typesys.Type {
	out := make([]typesys.Type, 0, len(items))
	for i, t := range items {
		if keep[i] {
			out = append(out, t)
		}
	}

	return out
}

func keepExprs(items []ast.Expr, keep []bool) []ast.Expr {
	out := make([]ast.Expr, 0, len(items))
	for i, e := range items {
		if i >= len(keep) || keep[i] {
			out = append(out, e)
		}
	}

	return out
}
