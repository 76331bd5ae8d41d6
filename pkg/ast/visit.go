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
package ast

// Walk performs a pre-order traversal of n, calling visit on every node
// including n itself.  If visit returns false, Walk does not descend into
// that node's children.
func Walk(n Node, visit func(Node) bool) {
	if n == nil || !visit(n) {
		return
	}

	for _, child := range n.Children() {
		Walk(child, visit)
	}
}

// WalkPost performs a post-order traversal of n, calling visit on every
// node after all of its children have been visited.
func WalkPost(n Node, visit func(Node)) {
	if n == nil {
		return
	}

	for _, child := range n.Children() {
		WalkPost(child, visit)
	}

	visit(n)
}

// Equal reports whether a and b are structurally equivalent: same
// concrete node kind and same child structure, recursively, ignoring
// node identity (NodeID) and source metadata.  Leaf data (literal
// values, operator strings, field names) is compared via each node's
// Lisp() rendering, which is adequate since Lisp never includes NodeID
// or Span.
func Equal(a, b Node) bool {
	if a == nil || b == nil {
		return a == b
	}

	if len(a.Children()) != len(b.Children()) {
		return false
	}

	if a.Lisp().String() != b.Lisp().String() {
		// A mismatch in the rendering already decides inequality. A
		// match does not decide equality, since some nodes' Lisp()
		// (Field, Variable, OutcomeStmt) leaves out their children, so
		// the children are compared one by one below.
		return false
	}

	ac, bc := a.Children(), b.Children()
	for i := range ac {
		if !Equal(ac[i], bc[i]) {
			return false
		}
	}

	return true
}
