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
package spicytest

import (
	"github.com/zeek/spicy/pkg/ast"
	"github.com/zeek/spicy/pkg/source"
	"github.com/zeek/spicy/pkg/typesys"
)

// sp synthesizes a span for fixture nodes; the line number only keeps
// fixture diagnostics distinguishable from each other, since there is no
// physical file backing a hand-built module.
func sp(line int) source.Span {
	return source.NewSpan("fixture", line, 0, line, 0)
}

func module(name string, units ...*ast.Unit) *ast.Module {
	return ast.NewModule(sp(1), name, nil, units...)
}

func matchField(line int, id, literal string) *ast.Field {
	return ast.NewMatchField(sp(line), id, ast.NewBytesCtor(sp(line), []byte(literal)), ast.FieldAttributes{})
}

// requestLineModule stands in for scenario 1 (spec.md §8): an HTTP request
// line. The scanner/parser that would recognize `/[^ \t\r\n]+/`-style
// patterns from source text is out of scope, so each variable-width token
// is modeled as a fixed literal match instead — enough to exercise Ctor
// lowering, token assignment and sequencing end to end.
func requestLineModule() *ast.Module {
	u := ast.NewUnit(sp(1), "RequestLine",
		matchField(2, "method", "GET"),
		matchField(3, "", " "),
		matchField(4, "uri", "/index.html"),
		matchField(5, "", " "),
		matchField(6, "version", "HTTP/1.0"),
		matchField(7, "", "\n"),
	)

	return module("http", u)
}

// countedVectorModule stands in for scenario 2: a length-prefixed vector
// whose element count is read from an earlier sibling field.
func countedVectorModule() *ast.Module {
	n := ast.NewField(sp(2), "n", typesys.NewUintType(8), ast.FieldAttributes{})
	data := ast.NewField(sp(3), "data", typesys.NewUintType(16), ast.FieldAttributes{
		Count: ast.NewIdentExpr(sp(3), "n"),
	})

	u := ast.NewUnit(sp(1), "CountedVector", n, data)

	return module("vector", u)
}

// lookAheadAltModule stands in for scenario 3: a field that matches one of
// two disjoint single-byte alternatives.
func lookAheadAltModule() *ast.Module {
	sw := ast.NewSwitch(sp(2), "x", nil, []ast.SwitchCase{
		{Body: matchField(2, "", "a")},
		{Body: matchField(2, "", "b")},
	}, nil)

	u := ast.NewUnit(sp(1), "LookAheadAlt", sw)

	return module("alt", u)
}

// ambiguousAltModule stands in for scenario 5: two alternatives that match
// the identical literal, so their look-ahead sets collide.
func ambiguousAltModule() *ast.Module {
	sw := ast.NewSwitch(sp(2), "", nil, []ast.SwitchCase{
		{Body: matchField(2, "", "a")},
		{Body: matchField(2, "", "a")},
	}, nil)

	u := ast.NewUnit(sp(1), "AmbiguousAlt", sw)

	return module("ambiguous", u)
}

// suspensionModule stands in for scenario 4: a single multi-byte integer
// field, whose grammar lowers to a Variable production read by the
// (out-of-scope) runtime in a way that must tolerate arbitrary chunk
// splits — asserted here at the IR shape level (a bare ReadVariable, no
// internal state the runtime would need to special-case across
// suspension).
func suspensionModule() *ast.Module {
	u := ast.NewUnit(sp(1), "Counter32",
		ast.NewField(sp(2), "n", typesys.NewUintType(32), ast.FieldAttributes{}),
	)

	return module("suspend", u)
}

// synchronizeModule exercises the %synchronize-at property end to end
// through grammar.Synchronize, parserir.Synchronize and
// optimizer.FeatureRequirements.
func synchronizeModule() *ast.Module {
	u := ast.NewUnit(sp(1), "Resync",
		ast.NewField(sp(2), "n", typesys.NewUintType(8), ast.FieldAttributes{}),
		ast.NewProperty(sp(3), "synchronize-at", ast.NewIdentExpr(sp(3), "n")),
	)

	return module("resync", u)
}
