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
// Package optimizer implements the ordered IR rewrite passes of spec.md
// §4.G: each pass visits a parserir.Stmt tree, returns a rewritten tree
// (changed nodes are rebuilt as copies, not mutated), and reports whether
// it changed anything; the driver reruns the whole
// ordered pipeline until a round changes nothing.
package optimizer

import (
	log "github.com/sirupsen/logrus"

	"github.com/zeek/spicy/pkg/ast"
	"github.com/zeek/spicy/pkg/diag"
	"github.com/zeek/spicy/pkg/parserir"
)

// roundCap bounds the optimizer driver's round count, per spec.md §4.G
// ("cap >= 5").
const roundCap = 8

// Options configures a Driver run.
type Options struct {
	// SynchronizeEnabled gates whether a Synchronize IR node survives
	// FeatureRequirements or is rejected as using a disabled feature.
	SynchronizeEnabled bool
}

// Pass is one IR rewrite stage. Run returns the (possibly new) root and
// whether it changed anything relative to the input.
type Pass struct {
	Name string
	Run  func(root parserir.Stmt, sink *diag.Sink, opts Options) (parserir.Stmt, bool)
}

// Driver runs the ordered pass pipeline to a fixpoint.
type Driver struct {
	sink   *diag.Sink
	opts   Options
	passes []Pass
}

// NewDriver constructs a driver with the standard spec.md §4.G IR-tree
// pass order: FeatureRequirements, DeadCodeStatic, Peephole,
// FlattenBlocks, DeadCodeCFG, ConstantPropagation. RemoveUnusedParameters
// runs separately via OptimizeModule (see its doc comment).
func NewDriver(sink *diag.Sink, opts Options) *Driver {
	return &Driver{
		sink: sink,
		opts: opts,
		passes: []Pass{
			{"FeatureRequirements", runFeatureRequirements},
			{"DeadCodeStatic", runDeadCodeStatic},
			{"Peephole", runPeephole},
			{"FlattenBlocks", runFlattenBlocks},
			{"DeadCodeCFG", runDeadCodeCFG},
			{"ConstantPropagation", runConstantPropagation},
		},
	}
}

// Optimize runs every pass in order, repeating the whole pipeline until a
// round produces no change anywhere, capped at roundCap rounds.
func (d *Driver) Optimize(root parserir.Stmt) parserir.Stmt {
	for round := 0; round < roundCap; round++ {
		changedThisRound := false

		for _, p := range d.passes {
			var changed bool
			root, changed = p.Run(root, d.sink, d.opts)
			changedThisRound = changedThisRound || changed

			log.Debugf("optimizer: round %d pass %s changed=%v", round, p.Name, changed)
		}

		if !changedThisRound {
			log.Debugf("optimizer: converged after %d round(s)", round+1)

			break
		}
	}

	return root
}

// OptimizeModule runs RemoveUnusedParameters over mod's function
// declarations, reporting whether it changed anything. It is a
// module-level pass rather than a Stmt-tree rewrite: user function
// parameters are declared once on ast.FunctionDecl and referenced from
// ast.CallExpr/ast.IdentExpr nodes embedded in arbitrary grammar
// expressions, not from the parserir tree itself, so it runs once over
// the resolved module instead of being folded into Driver.Optimize's
// per-IR-tree loop.
func OptimizeModule(mod *ast.Module, sink *diag.Sink) bool {
	return removeUnusedParameters(mod, sink)
}
