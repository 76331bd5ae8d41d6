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
	"math/big"

	log "github.com/sirupsen/logrus"

	"github.com/zeek/spicy/pkg/ast"
	"github.com/zeek/spicy/pkg/diag"
	"github.com/zeek/spicy/pkg/source"
	"github.com/zeek/spicy/pkg/typesys"
)

// ResolverFixpointCap bounds the number of resolution sweeps the resolver
// will run before giving up and reporting whatever remains unresolved as
// errors.  32 sweeps comfortably covers every realistic chain of
// forward/mutual references between fields, constants and functions
// without risking an infinite loop on a genuinely cyclic, unresolvable
// program.
const ResolverFixpointCap = 32

// Resolver binds every Symbol in a Module to its declaration and drives
// type inference to a fixpoint, reporting anything left unresolved as a
// diagnostic (spec.md §4.C).
type Resolver struct {
	sink *diag.Sink
}

// NewResolver constructs a resolver reporting into sink.
func NewResolver(sink *diag.Sink) *Resolver {
	return &Resolver{sink: sink}
}

// ResolveModule builds mod's scope tree and resolves every symbol
// reference and type within it, returning the constructed scope.  Once
// the fixpoint settles (or the cap is reached), whatever is still
// unresolved is reported to the sink as a diagnostic.
func (r *Resolver) ResolveModule(mod *ast.Module) *ModuleScope {
	scope := r.buildScope(mod)

	round := 0
	for ; round < ResolverFixpointCap; round++ {
		changed := r.sweep(mod, scope)
		log.Debugf("resolver: sweep %d changed=%v", round, changed)

		if !changed {
			break
		}
	}

	if round == ResolverFixpointCap {
		r.sink.Reportf(diag.FixpointDivergence, mod.Span(),
			"resolver did not converge within %d sweeps", ResolverFixpointCap)
	}

	r.reportUnresolved(mod, scope)

	return scope
}

// buildScope declares every module-level and unit-level symbol up front,
// before any reference is resolved, so that forward references (a field
// whose type names a unit declared later in the same module) work.
func (r *Resolver) buildScope(mod *ast.Module) *ModuleScope {
	scope := NewModuleScope(mod.Name)

	for _, c := range mod.Constants {
		if !scope.Define(c) {
			r.sink.Reportf(diag.DuplicateDeclaration, c.Span(), "constant %q already declared", c.Name())
		}
	}

	for _, f := range mod.Functions {
		if !scope.Define(f) {
			r.sink.Reportf(diag.DuplicateDeclaration, f.Span(), "function %q already declared", f.Name())
		}
	}

	for _, u := range mod.Units {
		us := scope.DeclareUnit(u.Name)
		if us == nil {
			r.sink.Reportf(diag.DuplicateDeclaration, u.Span(), "unit %q already declared", u.Name)
			continue
		}

		scope.Define(unitSymbol{u})

		for _, it := range u.Items {
			if it.ItemName() == "" {
				// Anonymous items (unnamed fields, properties) are never
				// referenced by identifier and so never compete for a name.
				continue
			}

			if _, isHook := it.(*ast.UnitHook); isHook {
				// Hooks are grouped by event id, several per id, and are
				// never referenced by identifier.
				continue
			}

			if def, ok := it.(ast.SymbolDefinition); ok {
				if !us.Define(def) {
					r.sink.Reportf(diag.DuplicateDeclaration, it.Span(), "item %q already declared in unit %q",
						def.Name(), u.Name)
				}
			}
		}
	}

	return scope
}

// sweep performs one resolution pass over the whole module, returning
// whether any progress was made: a newly resolved identifier/operator
// reference, a newly finalised field/variable/constant type, or a newly
// applied coercion.
func (r *Resolver) sweep(mod *ast.Module, scope *ModuleScope) bool {
	changed := false

	for _, c := range mod.Constants {
		c.Bind.Value = r.resolveExpr(c.Bind.Value, scope, &changed)

		if !c.Bind.IsFinalised() {
			if ty := c.Bind.Value.ExprType(); isStable(ty) {
				c.Bind.Finalise(ty)
				changed = true
			}
		}
	}

	for _, f := range mod.Functions {
		local := NewLocalScope(scope)

		for i, pname := range f.Params {
			if i < len(f.Bind.Sig.Parameters) {
				vb := ast.NewVariableBinding()
				vb.Finalise(f.Bind.Sig.Parameters[i])
				local.DeclareLocal(pname, vb)
			}
		}

		if f.Bind.Sig.Body != nil {
			f.Bind.Sig.Body = r.resolveExpr(f.Bind.Sig.Body, local, &changed)
		}

		if !f.Bind.IsFinalised() && (f.Bind.Sig.Body == nil || isStable(f.Bind.Sig.Body.ExprType())) {
			f.Bind.Finalise()
			changed = true
		}
	}

	for _, u := range mod.Units {
		us := scope.Unit(u.Name)
		if us == nil {
			continue
		}

		scope.OpenDefinition(unitSymbol{u})

		for _, it := range u.Items {
			if r.resolveItem(it, us) {
				changed = true
			}
		}

		scope.CloseDefinition(unitSymbol{u})
	}

	return changed
}

func (r *Resolver) resolveItem(it ast.Item, scope *UnitScope) bool {
	changed := false

	switch item := it.(type) {
	case *ast.Field:
		item.DataType, changed = r.resolveDataType(item.DataType, scope)

		item.Attrs.Size = r.resolveExpr(item.Attrs.Size, scope, &changed)
		item.Attrs.Until = r.resolveExpr(item.Attrs.Until, scope, &changed)
		item.Attrs.Convert = r.resolveExpr(item.Attrs.Convert, scope, &changed)
		item.Attrs.Count = r.resolveExpr(item.Attrs.Count, scope, &changed)
		item.Attrs.Default = r.resolveExpr(item.Attrs.Default, scope, &changed)
		item.Attrs.ParseFrom = r.resolveExpr(item.Attrs.ParseFrom, scope, &changed)
		item.Attrs.Requires = r.resolveExpr(item.Attrs.Requires, scope, &changed)

		for _, sub := range item.SubItems {
			if r.resolveItem(sub, scope) {
				changed = true
			}
		}

		if !item.Bind.IsFinalised() && isStable(item.DataType) {
			item.Bind.Finalise(item.DataType)
			changed = true
		}
	case *ast.Variable:
		var dtChanged bool

		item.DataType, dtChanged = r.resolveDataType(item.DataType, scope)
		changed = changed || dtChanged
		item.Default = r.resolveExpr(item.Default, scope, &changed)

		if !item.Bind.IsFinalised() && isStable(item.DataType) {
			item.Bind.Finalise(item.DataType)
			changed = true
		}
	case *ast.Switch:
		item.Discriminant = r.resolveExpr(item.Discriminant, scope, &changed)

		for ci := range item.Cases {
			for li, lbl := range item.Cases[ci].Labels {
				item.Cases[ci].Labels[li] = r.resolveExpr(lbl, scope, &changed)
			}

			if r.resolveItem(item.Cases[ci].Body, scope) {
				changed = true
			}
		}

		if item.Default != nil && r.resolveItem(item.Default, scope) {
			changed = true
		}
	case *ast.UnitHook:
		local := NewLocalScope(scope)
		for i, s := range item.Body {
			if ns, ok := r.resolveStmt(s, local); ok {
				item.Body[i] = ns
				changed = true
			}
		}

		if !item.Bind.IsFinalised() {
			item.Bind.Finalise()
			changed = true
		}
	case *ast.Property:
		item.Value = r.resolveExpr(item.Value, scope, &changed)
	}

	return changed
}

// resolveDataType replaces an UnresolvedIDType placeholder with a
// concrete UnitType once a matching unit declaration is found in scope
// and visible to the field referencing it; any other Type passes through
// untouched.
func (r *Resolver) resolveDataType(ty typesys.Type, scope *UnitScope) (typesys.Type, bool) {
	id, ok := ty.(*typesys.UnresolvedIDType)
	if !ok {
		return ty, false
	}

	module := scope.Module()
	if module.Unit(id.ID) == nil {
		return ty, false
	}

	ref := ast.NewName[*ast.UnitBinding](ast.NewMeta(source.Span{}), id.ID)
	if !module.IsVisible(ref) {
		return ty, false
	}

	return typesys.NewUnitType(id.ID), true
}

func (r *Resolver) resolveStmt(s ast.Stmt, scope Scope) (ast.Stmt, bool) {
	changed := false

	switch stmt := s.(type) {
	case *ast.ExprStmt:
		stmt.Value = r.resolveExpr(stmt.Value, scope, &changed)
	case *ast.AssignStmt:
		stmt.Target = r.resolveExpr(stmt.Target, scope, &changed)
		stmt.Value = r.resolveExpr(stmt.Value, scope, &changed)
	case *ast.OutcomeStmt:
		if stmt.Message != nil {
			stmt.Message = r.resolveExpr(stmt.Message, scope, &changed)
		}
	}

	return s, changed
}

// resolveExpr recursively resolves e's sub-expressions and symbol
// references, applying any coercion that has become available, and
// returns the (possibly replaced) expression to write back into the
// caller's field.  A nil e passes through unchanged.
func (r *Resolver) resolveExpr(e ast.Expr, scope Scope, changed *bool) ast.Expr {
	if e == nil {
		return nil
	}

	switch expr := e.(type) {
	case *ast.IdentExpr:
		if !expr.Ref.IsResolved() {
			if scope.Bind(expr.Ref) {
				*changed = true

				if dt := dataTypeOf(expr.Ref.Binding()); dt != nil {
					expr.SetType(dt)
				}
			}
		}

		return expr
	case *ast.MemberExpr:
		expr.Base = r.resolveExpr(expr.Base, scope, changed)

		if st, ok := underlyingStruct(expr.Base.ExprType()); ok {
			for _, f := range st.Fields {
				if f.Name == expr.Field && !typesys.Equal(expr.ExprType(), f.Type) {
					expr.SetType(f.Type)
					*changed = true

					break
				}
			}
		}

		return expr
	case *ast.BinaryExpr:
		expr.Left = r.resolveExpr(expr.Left, scope, changed)
		expr.Right = r.resolveExpr(expr.Right, scope, changed)

		if expr.Candidate == nil {
			if r.resolveOperator(expr.Op, []typesys.Type{expr.Left.ExprType(), expr.Right.ExprType()}, expr.Span(), func(fn *ast.FunctionName, ret typesys.Type) {
				expr.Candidate = fn
				expr.SetType(ret)
			}) {
				*changed = true
			}
		}

		return expr
	case *ast.UnaryExpr:
		expr.Operand = r.resolveExpr(expr.Operand, scope, changed)

		if expr.Candidate == nil {
			if r.resolveOperator(expr.Op, []typesys.Type{expr.Operand.ExprType()}, expr.Span(), func(fn *ast.FunctionName, ret typesys.Type) {
				expr.Candidate = fn
				expr.SetType(ret)
			}) {
				*changed = true
			}
		}

		return expr
	case *ast.CallExpr:
		for i, a := range expr.Args {
			expr.Args[i] = r.resolveExpr(a, scope, changed)
		}

		if !expr.Callee.IsResolved() {
			if scope.Bind(expr.Callee) {
				*changed = true
				expr.SetType(expr.Callee.InnerBinding().Signature().Return)
			}
		}

		return expr
	case *ast.Coerced:
		expr.Inner = r.resolveExpr(expr.Inner, scope, changed)
		return expr
	case *ast.PendingCoerced:
		expr.Inner = r.resolveExpr(expr.Inner, scope, changed)

		if !isStable(expr.Inner.ExprType()) {
			return expr
		}

		co, ok := typesys.TryCoerce(expr.Inner.ExprType(), expr.Target, expr.Style, literalOf(expr.Inner))
		if !ok {
			return expr
		}

		*changed = true

		return ast.NewCoerced(expr.Inner, *co)
	default:
		return e
	}
}

// literalOf extracts the literal-value view of e for the coercion
// lattice, if e is a literal; returns nil otherwise, which is a valid
// "not a literal" argument to typesys.TryCoerce.
func literalOf(e ast.Expr) interface {
	IntValue() (*big.Int, bool)
	IsBytesLiteral() bool
	IsUTF8Literal() bool
	EnumLabel() (string, bool)
} {
	if lit, ok := e.(*ast.Literal); ok {
		return lit
	}

	return nil
}

func isStable(t typesys.Type) bool {
	switch t.(type) {
	case *typesys.AutoType, *typesys.UnknownType, *typesys.UnresolvedIDType, nil:
		return false
	default:
		return true
	}
}

func underlyingStruct(t typesys.Type) (*typesys.StructType, bool) {
	st, ok := t.(*typesys.StructType)
	return st, ok
}

// dataTypeOf extracts the concrete type a resolved Binding carries, for
// populating the ExprType of a freshly resolved IdentExpr.
func dataTypeOf(b ast.Binding) typesys.Type {
	switch bind := b.(type) {
	case *ast.FieldBinding:
		return bind.DataType
	case *ast.VariableBinding:
		return bind.DataType
	case *ast.ConstantBinding:
		return bind.DataType
	default:
		return nil
	}
}

func (r *Resolver) reportUnresolved(mod *ast.Module, scope *ModuleScope) {
	for _, u := range mod.Units {
		for _, it := range u.Items {
			ast.Walk(it, func(n ast.Node) bool {
				if ident, ok := n.(*ast.IdentExpr); ok && !ident.Ref.IsResolved() {
					r.sink.Reportf(diag.UnresolvedID, ident.Span(), "unresolved identifier %q", ident.Ref.Name())
				}

				if pc, ok := n.(*ast.PendingCoerced); ok {
					r.sink.Reportf(diag.InvalidCoercion, pc.Span(), "no coercion from %s to %s",
						pc.Inner.ExprType().String(), pc.Target.String())
				}

				return true
			})
		}
	}
}
