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

import (
	"github.com/zeek/spicy/pkg/sexp"
	"github.com/zeek/spicy/pkg/source"
)

// Stmt is implemented by every statement node (hook bodies are sequences
// of statements).
type Stmt interface {
	Node
}

type stmtBase struct {
	meta Meta
}

func (s *stmtBase) NodeID() uint64 { return s.meta.ID() }
func (s *stmtBase) Span() source.Span { return s.meta.Span }

// ExprStmt evaluates an expression for its side effects, discarding the
// result.
type ExprStmt struct {
	stmtBase
	Value Expr
}

// NewExprStmt constructs a statement that evaluates value for effect.
func NewExprStmt(span source.Span, value Expr) *ExprStmt {
	return &ExprStmt{stmtBase{NewMeta(span)}, value}
}

// Children implements Node.
func (p *ExprStmt) Children() []Node { return []Node{p.Value} }

// ReplaceChild implements Node.
func (p *ExprStmt) ReplaceChild(index int, child Node) {
	if index != 0 {
		childIndexError("ExprStmt", index, 1)
	}

	p.Value = child.(Expr)
}

// Lisp implements Node.
func (p *ExprStmt) Lisp() sexp.SExp { return p.Value.Lisp() }

// HookOutcome enumerates the three control-flow outcomes a hook body may
// produce (spec.md §4.F): `stop` terminates the enclosing loop normally,
// `reject` injects a parse error, `confirm` signals protocol confirmation
// to the runtime.
type HookOutcome uint8

const (
	// Stop terminates the enclosing ForEach/While loop normally.
	Stop HookOutcome = iota
	// Reject injects a parse error at the current cursor.
	Reject
	// Confirm signals protocol confirmation to the runtime.
	Confirm
)

func (o HookOutcome) String() string {
	switch o {
	case Stop:
		return "stop"
	case Reject:
		return "reject"
	case Confirm:
		return "confirm"
	default:
		return "?"
	}
}

// OutcomeStmt requests one of the three hook control-flow outcomes.
type OutcomeStmt struct {
	stmtBase
	Outcome HookOutcome
	Message Expr // optional; non-nil only for Reject
}

// NewOutcomeStmt constructs an outcome statement.
func NewOutcomeStmt(span source.Span, outcome HookOutcome, message Expr) *OutcomeStmt {
	return &OutcomeStmt{stmtBase{NewMeta(span)}, outcome, message}
}

// Children implements Node.
func (p *OutcomeStmt) Children() []Node {
	if p.Message == nil {
		return nil
	}

	return []Node{p.Message}
}

// ReplaceChild implements Node.
func (p *OutcomeStmt) ReplaceChild(index int, child Node) {
	if index != 0 || p.Message == nil {
		childIndexError("OutcomeStmt", index, len(p.Children()))
	}

	p.Message = child.(Expr)
}

// Lisp implements Node.
func (p *OutcomeStmt) Lisp() sexp.SExp {
	return sexp.NewList(sexp.NewSymbol(p.Outcome.String()))
}

// AssignStmt assigns value to the storage identified by target.
type AssignStmt struct {
	stmtBase
	Target Expr
	Value  Expr
}

// NewAssignStmt constructs an assignment statement.
func NewAssignStmt(span source.Span, target, value Expr) *AssignStmt {
	return &AssignStmt{stmtBase{NewMeta(span)}, target, value}
}

// Children implements Node.
func (p *AssignStmt) Children() []Node { return []Node{p.Target, p.Value} }

// ReplaceChild implements Node.
func (p *AssignStmt) ReplaceChild(index int, child Node) {
	switch index {
	case 0:
		p.Target = child.(Expr)
	case 1:
		p.Value = child.(Expr)
	default:
		childIndexError("AssignStmt", index, 2)
	}
}

// Lisp implements Node.
func (p *AssignStmt) Lisp() sexp.SExp {
	return sexp.NewList(sexp.NewSymbol("="), p.Target.Lisp(), p.Value.Lisp())
}
