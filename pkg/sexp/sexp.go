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
// Package sexp provides a minimal Lisp-style debug serialization used to
// render AST nodes, productions and IR statements into a human-readable
// form for debug logging.  It has no parser: the surface syntax of Spicy
// source is out of scope for this module, so this package only ever
// produces s-expressions, never consumes them.
package sexp

import "strings"

// SExp is either a List of zero or more SExps or a terminal Symbol.
type SExp interface {
	// IsList checks whether this S-expression is a list.
	IsList() bool
	// IsSymbol checks whether this S-expression is a symbol.
	IsSymbol() bool
	// String renders this S-expression in canonical Lisp notation.
	String() string
}

// List represents a parenthesised sequence of S-expressions.
type List struct {
	Elements []SExp
}

// NewList constructs a list from the given elements.
func NewList(elements ...SExp) *List {
	return &List{elements}
}

// IsList implements SExp.
func (*List) IsList() bool { return true }

// IsSymbol implements SExp.
func (*List) IsSymbol() bool { return false }

// Len returns the number of elements in this list.
func (l *List) Len() int { return len(l.Elements) }

// Append adds an element to the end of this list, returning the receiver
// for chaining.
func (l *List) Append(e SExp) *List {
	l.Elements = append(l.Elements, e)
	return l
}

func (l *List) String() string {
	var sb strings.Builder

	sb.WriteByte('(')

	for i, e := range l.Elements {
		if i != 0 {
			sb.WriteByte(' ')
		}

		sb.WriteString(e.String())
	}

	sb.WriteByte(')')

	return sb.String()
}

// Symbol is a terminal, non-divisible atom.
type Symbol struct {
	Value string
}

// NewSymbol constructs a new terminal symbol.
func NewSymbol(value string) *Symbol {
	return &Symbol{value}
}

// IsList implements SExp.
func (*Symbol) IsList() bool { return false }

// IsSymbol implements SExp.
func (*Symbol) IsSymbol() bool { return true }

func (s *Symbol) String() string { return s.Value }
