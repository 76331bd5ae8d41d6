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

import "github.com/zeek/spicy/pkg/typesys"

// Binding associates a Name with the concrete declaration it refers to.
type Binding interface {
	// IsFinalised reports whether this binding has all the information
	// the resolver needs to have filled in (e.g. a concrete type).
	IsFinalised() bool
	// IsRecursive reports whether this binding may be referred to from
	// within its own definition (only units and unit-typed fields may be
	// recursive; function, variable, sink, constant and hook bindings
	// never are; see grammar.Reference for how the grammar builder turns
	// this into a shared, non-owning edge).
	IsRecursive() bool
}

// ============================================================================
// FieldBinding
// ============================================================================

// FieldBinding is what a Field item (spec.md §3) resolves to.
type FieldBinding struct {
	DataType   typesys.Type
	Attributes FieldAttributes
	finalised  bool
}

// NewFieldBinding constructs an unfinalised field binding.
func NewFieldBinding(attrs FieldAttributes) *FieldBinding {
	return &FieldBinding{Attributes: attrs}
}

// Finalise attaches the field's resolved type.
func (p *FieldBinding) Finalise(dt typesys.Type) {
	p.DataType = dt
	p.finalised = true
}

// IsFinalised implements Binding.
func (p *FieldBinding) IsFinalised() bool { return p.finalised }

// IsRecursive implements Binding.
func (p *FieldBinding) IsRecursive() bool {
	_, ok := p.DataType.(*typesys.UnitType)
	return ok
}

// ============================================================================
// VariableBinding
// ============================================================================

// VariableBinding is what a unit-local Variable item resolves to.
type VariableBinding struct {
	DataType  typesys.Type
	finalised bool
}

// NewVariableBinding constructs an unfinalised variable binding.
func NewVariableBinding() *VariableBinding { return &VariableBinding{} }

// Finalise attaches the variable's resolved type.
func (p *VariableBinding) Finalise(dt typesys.Type) {
	p.DataType = dt
	p.finalised = true
}

// IsFinalised implements Binding.
func (p *VariableBinding) IsFinalised() bool { return p.finalised }

// IsRecursive implements Binding.
func (p *VariableBinding) IsRecursive() bool { return false }

// ============================================================================
// SinkBinding
// ============================================================================

// SinkPolicy enumerates the reassembly policies a Sink may use.
type SinkPolicy uint8

const (
	// SinkFirst keeps the first write at a given sequence position.
	SinkFirst SinkPolicy = iota
	// SinkLast keeps the last write at a given sequence position.
	SinkLast
	// SinkSequential requires writes to arrive in order.
	SinkSequential
	// SinkRandom permits writes to arrive in any order.
	SinkRandom
)

// SinkBinding is what a Sink item resolves to.
type SinkBinding struct {
	Policy    SinkPolicy
	AutoTrim  bool
	finalised bool
}

// NewSinkBinding constructs a sink binding with the given policy.
func NewSinkBinding(policy SinkPolicy, autoTrim bool) *SinkBinding {
	return &SinkBinding{Policy: policy, AutoTrim: autoTrim, finalised: true}
}

// IsFinalised implements Binding.
func (p *SinkBinding) IsFinalised() bool { return p.finalised }

// IsRecursive implements Binding.
func (p *SinkBinding) IsRecursive() bool { return false }

// ============================================================================
// UnitBinding
// ============================================================================

// UnitBinding is what a unit-type reference resolves to: the declared
// Unit itself.  Recursive (self-referential) units are bound this way
// rather than by an owning pointer, per the design notes.
type UnitBinding struct {
	Unit      *Unit
	finalised bool
}

// NewUnitBinding constructs a unit binding over the given declared unit.
func NewUnitBinding(u *Unit) *UnitBinding {
	return &UnitBinding{Unit: u, finalised: true}
}

// IsFinalised implements Binding.
func (p *UnitBinding) IsFinalised() bool { return p.finalised }

// IsRecursive implements Binding.
func (p *UnitBinding) IsRecursive() bool { return true }

// ============================================================================
// ConstantBinding
// ============================================================================

// ConstantBinding is what a module-level constant declaration resolves to.
type ConstantBinding struct {
	DataType  typesys.Type
	Value     Expr
	finalised bool
}

// NewConstantBinding constructs an unfinalised constant binding.
func NewConstantBinding(value Expr) *ConstantBinding {
	return &ConstantBinding{Value: value}
}

// Finalise attaches the constant's resolved type.
func (p *ConstantBinding) Finalise(dt typesys.Type) {
	p.DataType = dt
	p.finalised = true
}

// IsFinalised implements Binding.
func (p *ConstantBinding) IsFinalised() bool { return p.finalised }

// IsRecursive implements Binding.
func (p *ConstantBinding) IsRecursive() bool { return false }

// ============================================================================
// FunctionBinding / FunctionSignature
// ============================================================================

// FunctionBinding is implemented by anything callable: a user-defined
// function or a built-in/intrinsic operator candidate considered during
// resolver sweep 2 (spec.md §4.C).
type FunctionBinding interface {
	Binding
	// IsPure reports whether this function has observable side effects.
	IsPure() bool
	// Signature returns this candidate's concrete signature.
	Signature() *FunctionSignature
}

// FunctionSignature embodies one concrete overload of a (possibly
// overloaded) function or operator.
type FunctionSignature struct {
	Pure       bool
	Parameters []typesys.Type
	Return     typesys.Type
	Body       Expr
}

// Arity returns the number of declared parameters.
func (s *FunctionSignature) Arity() uint { return uint(len(s.Parameters)) }

// DefunBinding is a user-defined function.
type DefunBinding struct {
	Sig       FunctionSignature
	finalised bool
}

// NewDefunBinding constructs an unfinalised user-defined function binding.
func NewDefunBinding(sig FunctionSignature) *DefunBinding {
	return &DefunBinding{Sig: sig}
}

// Finalise marks this function binding as resolved.
func (p *DefunBinding) Finalise() { p.finalised = true }

// IsFinalised implements Binding.
func (p *DefunBinding) IsFinalised() bool { return p.finalised }

// IsRecursive implements Binding.
func (p *DefunBinding) IsRecursive() bool { return false }

// IsPure implements FunctionBinding.
func (p *DefunBinding) IsPure() bool { return p.Sig.Pure }

// Signature implements FunctionBinding.
func (p *DefunBinding) Signature() *FunctionSignature { return &p.Sig }

// IntrinsicBinding is a built-in operator candidate (e.g. integer `+`),
// always finalised and never recursive.
type IntrinsicBinding struct {
	Sig FunctionSignature
}

// NewIntrinsicBinding constructs a finalised intrinsic operator binding.
func NewIntrinsicBinding(sig FunctionSignature) *IntrinsicBinding {
	return &IntrinsicBinding{sig}
}

// IsFinalised implements Binding.
func (p *IntrinsicBinding) IsFinalised() bool { return true }

// IsRecursive implements Binding.
func (p *IntrinsicBinding) IsRecursive() bool { return false }

// IsPure implements FunctionBinding.
func (p *IntrinsicBinding) IsPure() bool { return p.Sig.Pure }

// Signature implements FunctionBinding.
func (p *IntrinsicBinding) Signature() *FunctionSignature { return &p.Sig }

// ============================================================================
// HookBinding
// ============================================================================

// HookBinding is what a UnitHook item resolves to.
type HookBinding struct {
	Priority  int
	Body      []Stmt
	finalised bool
}

// NewHookBinding constructs an unfinalised hook binding.
func NewHookBinding(priority int, body []Stmt) *HookBinding {
	return &HookBinding{Priority: priority, Body: body}
}

// Finalise marks this hook binding as resolved.
func (p *HookBinding) Finalise() { p.finalised = true }

// IsFinalised implements Binding.
func (p *HookBinding) IsFinalised() bool { return p.finalised }

// IsRecursive implements Binding.
func (p *HookBinding) IsRecursive() bool { return false }
