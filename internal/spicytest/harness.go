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
// Package spicytest drives hand-built ast.Module fixtures through the full
// compiler pipeline (scope building, resolution, validation, grammar
// construction, parser IR generation, optimization) and asserts the
// scenarios and quantified invariants of spec.md §8. There is no surface
// scanner/parser in scope to parse source text into these fixtures, so they
// are constructed directly as ast.Module literals — the fixture takes the
// place of the out-of-scope front end.
package spicytest

import (
	"testing"

	log "github.com/sirupsen/logrus"

	"github.com/zeek/spicy/pkg/ast"
	"github.com/zeek/spicy/pkg/compiler"
	"github.com/zeek/spicy/pkg/diag"
	"github.com/zeek/spicy/pkg/grammar"
	"github.com/zeek/spicy/pkg/optimizer"
	"github.com/zeek/spicy/pkg/parserir"
)

func init() {
	log.SetLevel(log.WarnLevel)
}

// Compiled bundles every artifact produced by running one module through
// the pipeline, for fixtures to assert against.
type Compiled struct {
	Sink     *diag.Sink
	Scope    *compiler.ModuleScope
	Grammars map[string]*grammar.Grammar
	IR       map[string]parserir.Stmt
}

// Compile runs mod through the resolver/validator pipeline and, if it
// reports no diagnostics, through optimizer.OptimizeModule's module-level
// rewrites, then the grammar builder and parser IR generator for every
// declared unit. Each stage shares one sink, mirroring how a real driver
// would accumulate diagnostics end to end even though no single type in
// this module owns all these stages (compiler.Pipeline stops at
// validation; optimizer.OptimizeModule, grammar.Builder, and
// parserir.Generator are driven separately here, the way a CLI entry
// point would wire them).
func Compile(t *testing.T, mod *ast.Module) *Compiled {
	t.Helper()

	pipeline := compiler.NewPipeline()
	scope := pipeline.Run(mod)
	sink := pipeline.Sink()

	out := &Compiled{Sink: sink, Scope: scope}
	if sink.HasErrors() {
		return out
	}

	optimizer.OptimizeModule(mod, sink)

	gb := grammar.NewBuilder(sink)
	out.Grammars = gb.BuildModule(mod)

	if sink.HasErrors() {
		return out
	}

	out.IR = make(map[string]parserir.Stmt, len(out.Grammars))

	for name, g := range out.Grammars {
		gen := parserir.NewGenerator(sink)
		out.IR[name] = gen.Generate(g, nil)
	}

	return out
}

// Optimize runs root through a fresh optimizer.Driver using opts, reporting
// into sink.
func Optimize(sink *diag.Sink, root parserir.Stmt, opts optimizer.Options) parserir.Stmt {
	return optimizer.NewDriver(sink, opts).Optimize(root)
}

// RequireNoErrors fails the test immediately if c's sink recorded anything.
func RequireNoErrors(t *testing.T, c *Compiled) {
	t.Helper()

	if c.Sink.HasErrors() {
		t.Fatalf("unexpected diagnostics: %s", c.Sink.Error())
	}
}

// RequireKind fails the test unless c's sink recorded at least one
// diagnostic of the given kind.
func RequireKind(t *testing.T, c *Compiled, kind diag.Kind) {
	t.Helper()

	for _, d := range c.Sink.Diagnostics() {
		if d.Kind == kind {
			return
		}
	}

	t.Fatalf("expected a %s diagnostic, got: %v", kind, c.Sink.Diagnostics())
}
