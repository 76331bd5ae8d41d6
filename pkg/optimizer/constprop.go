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

// runConstantPropagation folds dispatch/looping constructs whose
// controlling expression is already a literal at compile time: a
// CounterLoop with a literal zero count never runs its body, and a
// SwitchDispatch whose discriminant is a literal that matches exactly one
// case can be replaced by that case's body outright, since every other
// arm is then statically unreachable.
func runConstantPropagation(root parserir.Stmt, sink *diag.Sink, opts Options) (parserir.Stmt, bool) {
	return transform(root, func(s parserir.Stmt) (parserir.Stmt, bool) {
		switch n := s.(type) {
		case *parserir.CounterLoop:
			if literalZero(n.Count) {
				return parserir.NewEmptySeq(n.Span()), true
			}

			return n, false
		case *parserir.SwitchDispatch:
			return foldConstantSwitch(n)
		default:
			return s, false
		}
	})
}

func foldConstantSwitch(sw *parserir.SwitchDispatch) (parserir.Stmt, bool) {
	disc, ok := sw.Expr.(*ast.Literal)
	if !ok {
		return sw, false
	}

	key := disc.Lisp().String()

	for _, c := range sw.Cases {
		for _, label := range c.Labels {
			if label.Lisp().String() == key {
				return c.Body, true
			}
		}
	}

	return sw, false
}
