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
	"testing"

	"github.com/zeek/spicy/pkg/ast"
	"github.com/zeek/spicy/pkg/diag"
	"github.com/zeek/spicy/pkg/typesys"
)

func TestResolveOperator_NumericWidenPicksCheapestCandidate(t *testing.T) {
	sink := diag.NewSink()
	r := NewResolver(sink)

	u8 := typesys.NewUintType(8)
	u32 := typesys.NewUintType(32)

	var gotFn *ast.FunctionName

	var gotType typesys.Type

	ok := r.resolveOperator("+", []typesys.Type{u8, u32}, sp(), func(fn *ast.FunctionName, ret typesys.Type) {
		gotFn = fn
		gotType = ret
	})

	if !ok || gotFn == nil {
		t.Fatalf("expected + to resolve over (uint8, uint32), ok=%v", ok)
	}

	if !typesys.Equal(gotType, u32) {
		t.Fatalf("expected the widened result type to be uint32, got %s", gotType)
	}

	if sink.HasErrors() {
		t.Fatalf("unexpected diagnostics: %s", sink.Error())
	}
}

func TestResolveOperator_UnaryMinusIsDistinctArityCandidate(t *testing.T) {
	sink := diag.NewSink()
	r := NewResolver(sink)

	u8 := typesys.NewUintType(8)

	var gotType typesys.Type

	ok := r.resolveOperator("-", []typesys.Type{u8}, sp(), func(fn *ast.FunctionName, ret typesys.Type) {
		gotType = ret
	})

	if !ok {
		t.Fatalf("expected unary - to resolve over a single uint8 operand")
	}

	if !typesys.Equal(gotType, u8) {
		t.Fatalf("expected unary - to return the operand's own type, got %s", gotType)
	}
}

func TestResolveOperator_UnknownOperatorFails(t *testing.T) {
	sink := diag.NewSink()
	r := NewResolver(sink)

	ok := r.resolveOperator("@@", []typesys.Type{typesys.NewUintType(8), typesys.NewUintType(8)}, sp(), func(*ast.FunctionName, typesys.Type) {
		t.Fatalf("onResolved must not be called for an operator with no candidates")
	})

	if ok {
		t.Fatalf("expected an unknown operator to fail to resolve")
	}
}

func TestResolveOperator_UnstableOperandDefers(t *testing.T) {
	sink := diag.NewSink()
	r := NewResolver(sink)

	ok := r.resolveOperator("+", []typesys.Type{typesys.AUTO, typesys.NewUintType(8)}, sp(), func(*ast.FunctionName, typesys.Type) {
		t.Fatalf("onResolved must not be called while an operand type is still unstable")
	})

	if ok {
		t.Fatalf("expected resolution to defer while an operand's type is not yet stable")
	}
}
