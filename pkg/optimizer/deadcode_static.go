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
	"strings"

	"github.com/zeek/spicy/pkg/ast"
	"github.com/zeek/spicy/pkg/diag"
	"github.com/zeek/spicy/pkg/parserir"
)

// runDeadCodeStatic drops statically-empty children: a Seq's no-op
// sub-sequences (empty Seq nodes nested among its Stmts) never execute
// anything and can simply be removed from the list, and a SwitchDispatch
// case whose every label is shadowed by an earlier case's identical
// label set can never be selected, so its body is dropped too.
func runDeadCodeStatic(root parserir.Stmt, sink *diag.Sink, opts Options) (parserir.Stmt, bool) {
	return transform(root, func(s parserir.Stmt) (parserir.Stmt, bool) {
		switch n := s.(type) {
		case *parserir.Seq:
			return dropEmptyChildren(n)
		case *parserir.SwitchDispatch:
			return dropShadowedCases(n)
		default:
			return s, false
		}
	})
}

func dropEmptyChildren(seq *parserir.Seq) (parserir.Stmt, bool) {
	kept := make([]parserir.Stmt, 0, len(seq.Stmts))
	changed := false

	for _, stmt := range seq.Stmts {
		if emptySeq(stmt) {
			changed = true

			continue
		}

		kept = append(kept, stmt)
	}

	if !changed {
		return seq, false
	}

	return seq.WithStmts(kept), true
}

// dropShadowedCases removes a case whose label set is a literal-for-
// literal duplicate of an earlier case's: the earlier case already wins
// that dispatch value, so the later one is dead.
func dropShadowedCases(sw *parserir.SwitchDispatch) (parserir.Stmt, bool) {
	seen := make(map[string]bool)
	kept := make([]parserir.SwitchCase, 0, len(sw.Cases))
	changed := false

	for _, c := range sw.Cases {
		key := labelSetKey(c.Labels)
		if seen[key] {
			changed = true

			continue
		}

		seen[key] = true
		kept = append(kept, c)
	}

	if !changed {
		return sw, false
	}

	return sw.WithCases(kept, sw.Default), true
}

func labelSetKey(labels []ast.Expr) string {
	parts := make([]string, len(labels))
	for i, l := range labels {
		parts[i] = l.Lisp().String()
	}

	return strings.Join(parts, ",")
}
