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

// runFeatureRequirements is the first pass of the pipeline: it rejects
// any use of a feature the current Options disable before the remaining
// passes spend effort optimizing IR that cannot legally be emitted.
// Today the only gated feature is %synchronize (SPEC_FULL.md §12); an
// unpatched Synchronize node when the feature is disabled is rewritten to
// a RaiseError(ParseError) so downstream passes see a normal terminal
// node rather than a feature they don't understand.
func runFeatureRequirements(root parserir.Stmt, sink *diag.Sink, opts Options) (parserir.Stmt, bool) {
	if opts.SynchronizeEnabled {
		return root, false
	}

	return transform(root, func(s parserir.Stmt) (parserir.Stmt, bool) {
		sync, ok := s.(*parserir.Synchronize)
		if !ok {
			return s, false
		}

		sink.Reportf(diag.InvalidAttribute, sync.Span(), "%%synchronize used but the target configuration disables it")

		return parserir.NewRaiseError(sync.Span(), parserir.ParseError, 0), true
	})
}
