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
// Package parserir implements the resumable parser IR generator of
// spec.md §4.F: it lowers a validated grammar.Grammar into a tree of
// statements representing the parse-one contract for one unit, leaving
// the actual code emission to the (out-of-scope) backend.
package parserir

// ErrorKind names the run-time error taxonomy the generated IR's
// error-raising nodes reference, keeping the category visible to the
// backend instead of erasing it into a bare string (SPEC_FULL.md §10.2).
type ErrorKind uint8

const (
	// ParseError is the catch-all: a final, unrecoverable mismatch
	// against a grammar production (a Ctor literal, an exhausted Switch
	// with no default, a LookAhead whose look-ahead sets both miss).
	ParseError ErrorKind = iota
	// InsufficientData signals a suspension point: the stream does not
	// yet hold enough bytes to decide a Ctor/Variable/Skip/LookAhead, and
	// more may arrive later.
	InsufficientData
	// MissingAttribute signals a field whose required attribute
	// (&requires=) evaluated false.
	MissingAttribute
	// Overflow signals a Counter/Skip/&size expression that evaluated to
	// a value out of the runtime's representable range.
	Overflow
	// AmbiguousLookahead should be unreachable at run time: the grammar
	// builder's Phase 3 rejects any grammar containing it at compile
	// time, so its only legitimate occupant is an internal consistency
	// check in the backend.
	AmbiguousLookahead
)

func (k ErrorKind) String() string {
	switch k {
	case ParseError:
		return "ParseError"
	case InsufficientData:
		return "InsufficientData"
	case MissingAttribute:
		return "MissingAttribute"
	case Overflow:
		return "Overflow"
	case AmbiguousLookahead:
		return "AmbiguousLookahead"
	default:
		return "?"
	}
}
