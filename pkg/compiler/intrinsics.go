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
	"github.com/zeek/spicy/pkg/source"
	"github.com/zeek/spicy/pkg/typesys"
)

// intrinsic is one concrete overload of a built-in operator, keyed by
// surface operator symbol in the intrinsics table below.  Parameter types
// are WildcardTypes wherever the operator is generic over a numeric kind,
// mirroring the reference compiler's treatment of arithmetic/comparison
// operators as library-less built-ins rather than AST special forms.
type intrinsic struct {
	name    string
	binding *ast.IntrinsicBinding
}

var numericWildcard = typesys.NewWildcardType(typesys.INT)

var boolType = typesys.NewPrimitiveType(typesys.Bool)

func sig(pure bool, ret typesys.Type, params ...typesys.Type) ast.FunctionSignature {
	return ast.FunctionSignature{Pure: pure, Parameters: params, Return: ret}
}

// intrinsics enumerates every built-in operator candidate considered
// during resolver sweep 2 (arithmetic/comparison/logical operators).
// Candidates sharing an operator name are disambiguated by arity and,
// where that is not enough, by operand coercion cost (see
// (*Resolver).resolveOperator).
var intrinsics = map[string][]*ast.IntrinsicBinding{
	"+": {ast.NewIntrinsicBinding(sig(true, numericWildcard, numericWildcard, numericWildcard))},
	"-": {
		ast.NewIntrinsicBinding(sig(true, numericWildcard, numericWildcard, numericWildcard)),
		ast.NewIntrinsicBinding(sig(true, numericWildcard, numericWildcard)),
	},
	"*": {ast.NewIntrinsicBinding(sig(true, numericWildcard, numericWildcard, numericWildcard))},
	"/": {ast.NewIntrinsicBinding(sig(true, numericWildcard, numericWildcard, numericWildcard))},
	"%": {ast.NewIntrinsicBinding(sig(true, numericWildcard, numericWildcard, numericWildcard))},
	"&": {ast.NewIntrinsicBinding(sig(true, numericWildcard, numericWildcard, numericWildcard))},
	"|": {ast.NewIntrinsicBinding(sig(true, numericWildcard, numericWildcard, numericWildcard))},
	"^": {ast.NewIntrinsicBinding(sig(true, numericWildcard, numericWildcard, numericWildcard))},
	"<<": {ast.NewIntrinsicBinding(sig(true, numericWildcard, numericWildcard, numericWildcard))},
	">>": {ast.NewIntrinsicBinding(sig(true, numericWildcard, numericWildcard, numericWildcard))},
	"==": {ast.NewIntrinsicBinding(sig(true, boolType, typesys.NewWildcardType(nil), typesys.NewWildcardType(nil)))},
	"!=": {ast.NewIntrinsicBinding(sig(true, boolType, typesys.NewWildcardType(nil), typesys.NewWildcardType(nil)))},
	"<":  {ast.NewIntrinsicBinding(sig(true, boolType, numericWildcard, numericWildcard))},
	"<=": {ast.NewIntrinsicBinding(sig(true, boolType, numericWildcard, numericWildcard))},
	">":  {ast.NewIntrinsicBinding(sig(true, boolType, numericWildcard, numericWildcard))},
	">=": {ast.NewIntrinsicBinding(sig(true, boolType, numericWildcard, numericWildcard))},
	"&&": {ast.NewIntrinsicBinding(sig(true, boolType, boolType, boolType))},
	"||": {ast.NewIntrinsicBinding(sig(true, boolType, boolType, boolType))},
	"!":  {ast.NewIntrinsicBinding(sig(true, boolType, boolType))},
}

// coercionCost ranks a successful coercion so resolveOperator can pick the
// cheapest candidate when more than one accepts the operand types:
// identity beats widening, which beats everything TryCoercion alone
// reaches.  Mirrors the precedence the resolver's deferred-coercion design
// assigns: exact match, then implicit numeric widening, then reference
// auto-deref, then an explicit cast.
func coercionCost(k typesys.CoercionKind) int {
	switch k {
	case typesys.IdentityCoercion:
		return 0
	case typesys.NumericWidenCoercion, typesys.ConstRelaxCoercion:
		return 1
	case typesys.RefUnwrapCoercion, typesys.RefWrapCoercion:
		return 2
	default:
		return 3
	}
}

// resolveOperator searches the intrinsics table (user-defined functions
// are not consulted) for a candidate whose parameters accept operandTypes, calling onResolved with the winning
// candidate's Name wrapper and return type.  Reports AmbiguousOverload if
// two candidates tie for cheapest and leaves the call unresolved (so a
// later sweep, once operand types stabilise further, can retry) if none
// match yet.
func (r *Resolver) resolveOperator(op string, operandTypes []typesys.Type, at source.Span, onResolved func(*ast.FunctionName, typesys.Type)) bool {
	for _, t := range operandTypes {
		if !isStable(t) {
			return false
		}
	}

	candidates := intrinsics[op]

	var best *ast.IntrinsicBinding
	bestCost := -1
	tied := false

	for _, cand := range candidates {
		candSig := cand.Signature()
		if len(candSig.Parameters) != len(operandTypes) {
			continue
		}

		cost, ok := matchParams(candSig.Parameters, operandTypes)
		if !ok {
			continue
		}

		switch {
		case best == nil || cost < bestCost:
			best, bestCost, tied = cand, cost, false
		case cost == bestCost:
			tied = true
		}
	}

	if best == nil {
		return false
	}

	if tied {
		r.sink.Reportf(diag.AmbiguousOverload, at, "ambiguous overload for operator %q", op)
		return false
	}

	name := ast.NewName[ast.FunctionBinding](ast.NewMeta(at), op)
	name.Resolve(best)
	onResolved(name, instantiateReturn(best.Signature(), operandTypes))

	return true
}

// matchParams reports whether every operand type is accepted by its
// corresponding parameter (exactly, or via TryCoerce), returning the
// summed coercion cost used to rank competing candidates.
func matchParams(params, operands []typesys.Type) (int, bool) {
	total := 0

	for i, p := range params {
		if w, ok := p.(*typesys.WildcardType); ok {
			if !w.Matches(operands[i]) {
				return 0, false
			}

			continue
		}

		co, ok := typesys.TryCoerce(operands[i], p, typesys.Implicit, nil)
		if !ok {
			return 0, false
		}

		total += coercionCost(co.Kind)
	}

	return total, true
}

// instantiateReturn resolves a wildcard return type (used by generic
// arithmetic operators) to the least upper bound of the operand types that
// matched it; a concrete return type (the boolean comparison operators)
// passes through unchanged.
func instantiateReturn(sig *ast.FunctionSignature, operands []typesys.Type) typesys.Type {
	if _, ok := sig.Return.(*typesys.WildcardType); !ok {
		return sig.Return
	}

	result := operands[0]
	for _, t := range operands[1:] {
		if lub := result.LeastUpperBound(t); lub != nil {
			result = lub
		}
	}

	return result
}
