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
package compiler

import (
	log "github.com/sirupsen/logrus"

	"github.com/zeek/spicy/pkg/ast"
	"github.com/zeek/spicy/pkg/diag"
)

// Pipeline drives a single ast.Module through scope building, resolution
// and validation (spec.md §4.C/4.D), stopping short of grammar
// construction whenever an earlier stage already reported a diagnostic —
// running the grammar builder over a module with unresolved symbols would
// only produce confusing secondary errors.
type Pipeline struct {
	sink *diag.Sink
}

// NewPipeline constructs a pipeline reporting into a fresh sink.
func NewPipeline() *Pipeline {
	return &Pipeline{sink: diag.NewSink()}
}

// Sink returns the diagnostic sink accumulating across every stage run so
// far.
func (p *Pipeline) Sink() *diag.Sink { return p.sink }

// Run executes every stage up to (and including) post-resolution
// validation, returning the module's resolved scope.  Callers inspect
// p.Sink().HasErrors() before handing the result to the grammar builder.
func (p *Pipeline) Run(mod *ast.Module) *ModuleScope {
	log.Debugf("pipeline: validating %q pre-resolution", mod.Name)

	NewValidator(p.sink).ValidatePre(mod)
	if p.sink.HasErrors() {
		return nil
	}

	log.Debugf("pipeline: resolving %q", mod.Name)

	scope := NewResolver(p.sink).ResolveModule(mod)
	if p.sink.HasErrors() {
		return scope
	}

	log.Debugf("pipeline: validating %q post-resolution", mod.Name)

	NewValidator(p.sink).ValidatePost(mod, scope)

	return scope
}
