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
// Package diag implements the compile-time diagnostic taxonomy and
// accumulating sink described by the error-handling design: diagnostics are
// collected across a full pass rather than aborting after the first one,
// except for internal invariant violations which abort immediately.
package diag

import (
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/zeek/spicy/pkg/source"
)

// Kind enumerates the compile-time error taxonomy.
type Kind uint8

const (
	// SyntaxError signals malformed surface syntax (reported by the
	// out-of-scope scanner/parser; represented here only so downstream
	// fixtures can stand one up directly).
	SyntaxError Kind = iota
	// UnresolvedID signals an identifier with no binding.
	UnresolvedID
	// DuplicateDeclaration signals two declarations claiming the same
	// name in a scope where only one may (a module-level constant,
	// function, or unit; an item within one unit).
	DuplicateDeclaration
	// AmbiguousOverload signals two or more operator/function candidates
	// tied for best match.
	AmbiguousOverload
	// TypeMismatch signals an operand type that does not match the
	// chosen operator or declared type.
	TypeMismatch
	// InvalidCoercion signals a requested coercion with no lattice path.
	InvalidCoercion
	// InvalidAttribute signals a field attribute invalid for its context
	// (duplicate terminator attributes, arity mismatch, and so on).
	InvalidAttribute
	// GrammarAmbiguity signals two look-ahead alternatives with
	// intersecting look-ahead sets.
	GrammarAmbiguity
	// UnreachableAlternative signals a switch/look-ahead arm that can
	// never be selected.
	UnreachableAlternative
	// FixpointDivergence signals a bounded fixpoint (resolver sweeps,
	// optimizer rounds) that failed to stabilise within its cap.
	FixpointDivergence
	// InternalError signals a programmer bug in the compiler itself;
	// recorded here only for uniform formatting before the process
	// aborts.
	InternalError
)

func (k Kind) String() string {
	switch k {
	case SyntaxError:
		return "SyntaxError"
	case UnresolvedID:
		return "UnresolvedID"
	case DuplicateDeclaration:
		return "DuplicateDeclaration"
	case AmbiguousOverload:
		return "AmbiguousOverload"
	case TypeMismatch:
		return "TypeMismatch"
	case InvalidCoercion:
		return "InvalidCoercion"
	case InvalidAttribute:
		return "InvalidAttribute"
	case GrammarAmbiguity:
		return "GrammarAmbiguity"
	case UnreachableAlternative:
		return "UnreachableAlternative"
	case FixpointDivergence:
		return "FixpointDivergence"
	case InternalError:
		return "InternalError"
	default:
		return "Unknown"
	}
}

// Diagnostic is a single recorded compile-time error: a kind, a source
// location, a message, and optional free-form context lines (e.g. the
// names of the two colliding alternatives in a GrammarAmbiguity).
type Diagnostic struct {
	Kind    Kind
	Span    source.Span
	Message string
	Context []string
}

func (d Diagnostic) String() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s: %s: %s", d.Span.String(), d.Kind.String(), d.Message)

	for _, c := range d.Context {
		fmt.Fprintf(&sb, "\n  %s", c)
	}

	return sb.String()
}

// Sink accumulates diagnostics produced over the course of one compiler
// pass.  It never aborts the pass itself; callers consult HasErrors after
// the pass completes.
type Sink struct {
	diagnostics []Diagnostic
}

// NewSink constructs an empty diagnostic sink.
func NewSink() *Sink {
	return &Sink{}
}

// Report records a diagnostic and logs it at debug level.
func (s *Sink) Report(d Diagnostic) {
	s.diagnostics = append(s.diagnostics, d)
	log.Debug(fmt.Sprintf("diagnostic recorded: %s", d.String()))
}

// Reportf is a convenience wrapper constructing and recording a Diagnostic
// in one call.
func (s *Sink) Reportf(kind Kind, span source.Span, format string, args ...any) {
	s.Report(Diagnostic{Kind: kind, Span: span, Message: fmt.Sprintf(format, args...)})
}

// HasErrors reports whether any diagnostic has been recorded.
func (s *Sink) HasErrors() bool {
	return len(s.diagnostics) > 0
}

// Diagnostics returns all diagnostics recorded so far, in report order.
func (s *Sink) Diagnostics() []Diagnostic {
	return s.diagnostics
}

// Error renders every recorded diagnostic into a single error value (Sink
// itself does not implement the error interface).  Returns nil if nothing
// was recorded, so a caller can return sink.Error() as its trailing
// `error` result.
func (s *Sink) Error() error {
	if !s.HasErrors() {
		return nil
	}

	lines := make([]string, len(s.diagnostics))
	for i, d := range s.diagnostics {
		lines[i] = d.String()
	}

	return fmt.Errorf("%d diagnostic(s):\n%s", len(lines), strings.Join(lines, "\n"))
}

// InternalError panics immediately, matching the policy that internal
// invariant violations (e.g. an out-of-range child index, an unpatched
// Deferred production) are programmer bugs and not recoverable diagnostics.
func InternalError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	log.Error(msg)
	panic(msg)
}
