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
	"github.com/zeek/spicy/pkg/ast"
	"github.com/zeek/spicy/pkg/diag"
	"github.com/zeek/spicy/pkg/typesys"
)

// Validator runs the well-formedness checks of spec.md §4.D: a
// pre-resolution pass over raw surface shape (run before the resolver,
// on whatever the parser produced) and a post-resolution pass over typed,
// bound declarations (run after Resolver.ResolveModule settles).
type Validator struct {
	sink *diag.Sink
}

// NewValidator constructs a validator reporting into sink.
func NewValidator(sink *diag.Sink) *Validator {
	return &Validator{sink: sink}
}

// ValidatePre runs the surface well-formedness checks: attribute
// applicability (at most one terminator per field), a non-empty event
// name on every hook, and unique sink names within a unit. Every other
// duplicate-declaration check happens during scope building
// (Resolver.buildScope), since it needs the same name table the resolver
// already constructs.
func (v *Validator) ValidatePre(mod *ast.Module) {
	for _, u := range mod.Units {
		for _, it := range u.Items {
			v.validateItemPre(it, u)
		}
	}
}

func (v *Validator) validateItemPre(it ast.Item, u *ast.Unit) {
	switch item := it.(type) {
	case *ast.Field:
		if item.Attrs.TerminatorCount() > 1 {
			v.sink.Reportf(diag.InvalidAttribute, item.Span(),
				"field %q may carry at most one of &size/&until/&eod", item.Id)
		}

		for _, sub := range item.SubItems {
			v.validateItemPre(sub, u)
		}
	case *ast.Switch:
		for _, c := range item.Cases {
			v.validateItemPre(c.Body, u)
		}

		if item.Default != nil {
			v.validateItemPre(item.Default, u)
		}
	case *ast.UnitHook:
		if item.Id == "" {
			v.sink.Reportf(diag.InvalidAttribute, item.Span(), "hook has no event name")
		}
	case *ast.Sink:
		for _, sibling := range u.Items {
			if nested, ok := sibling.(*ast.Sink); ok && nested != item && nested.Id == item.Id {
				v.sink.Reportf(diag.DuplicateDeclaration, item.Span(), "sink %q declared more than once in unit %q",
					item.Id, u.Name)
			}
		}
	}
}

// ValidatePost runs the post-resolution checks: chosen-operator/operand
// agreement, field-attribute/type interactions, recursive-unit
// reference-wrapping, and switch exhaustiveness.
func (v *Validator) ValidatePost(mod *ast.Module, scope *ModuleScope) {
	for _, u := range mod.Units {
		var sawUnbounded *ast.Field

		for _, it := range u.Items {
			v.validateItemPost(it, u, scope, &sawUnbounded)
		}
	}
}

func (v *Validator) validateItemPost(it ast.Item, u *ast.Unit, scope *ModuleScope, sawUnbounded **ast.Field) {
	switch item := it.(type) {
	case *ast.Field:
		if *sawUnbounded != nil {
			v.sink.Reportf(diag.InvalidAttribute, item.Span(),
				"field %q follows unbounded &eod field %q, which must be the last field in its unit",
				item.Id, (*sawUnbounded).Id)
		}

		if item.Attrs.Eod {
			*sawUnbounded = item
		}

		if ut, ok := item.DataType.(*typesys.UnitType); ok && ut.Name == u.Name {
			v.sink.Reportf(diag.InvalidAttribute, item.Span(),
				"recursive field %q of unit type %q must be reference-wrapped", item.Id, ut.Name)
		}

		for _, sub := range item.SubItems {
			v.validateItemPost(sub, u, scope, sawUnbounded)
		}
	case *ast.Switch:
		// A nil Discriminant is a pure look-ahead switch (spec.md §3):
		// its arms are disjoint by construction once the grammar builder's
		// Phase 3 accepts them, so exhaustiveness is that phase's concern,
		// not this value-based check's.
		if item.Discriminant != nil {
			pt, isBool := item.Discriminant.ExprType().(*typesys.PrimitiveType)
			exhaustiveBool := isBool && pt.Kind == typesys.Bool && len(item.Cases) == 2

			if item.Default == nil && !exhaustiveBool {
				v.sink.Reportf(diag.UnreachableAlternative, item.Span(),
					"switch %q has no default arm and its discriminant is not statically exhaustive", item.Id)
			}
		}

		for _, c := range item.Cases {
			v.validateItemPost(c.Body, u, scope, sawUnbounded)
		}

		if item.Default != nil {
			v.validateItemPost(item.Default, u, scope, sawUnbounded)
		}
	case *ast.UnitHook:
		for _, s := range item.Body {
			ast.Walk(s, func(n ast.Node) bool {
				v.validateExprPost(n)
				return true
			})
		}
	}
}

func (v *Validator) validateExprPost(n ast.Node) {
	switch expr := n.(type) {
	case *ast.BinaryExpr:
		if expr.Candidate == nil {
			v.sink.Reportf(diag.TypeMismatch, expr.Span(),
				"no overload of %q accepts operand types %s, %s",
				expr.Op, expr.Left.ExprType().String(), expr.Right.ExprType().String())
		}
	case *ast.UnaryExpr:
		if expr.Candidate == nil {
			v.sink.Reportf(diag.TypeMismatch, expr.Span(),
				"no overload of %q accepts operand type %s", expr.Op, expr.Operand.ExprType().String())
		}
	case *ast.PendingCoerced:
		v.sink.Reportf(diag.InvalidCoercion, expr.Span(),
			"no coercion from %s to %s", expr.Inner.ExprType().String(), expr.Target.String())
	}
}
