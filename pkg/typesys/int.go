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
package typesys

import (
	"fmt"
	"math/big"
)

// IntType represents a set of integer values as a closed interval,
// following the reference compiler's own representation: a fixed-width
// integer is simply the interval [0, 2^n - 1] (unsigned) or
// [-2^(n-1), 2^(n-1)-1] (signed), and narrowing/widening is range
// containment on the interval rather than a special case on the width.
// The unqualified `int` meta-type (no declared width yet) is represented
// by a nil interval.
type IntType struct {
	lower *big.Int // nil means unbounded-below (the "int" placeholder)
	upper *big.Int
}

// INT is the unbounded integer placeholder used before a literal or
// expression's width has been inferred.
var INT = &IntType{nil, nil}

// NewUintType constructs the canonical unsigned type of the given bit
// width (8/16/32/64 per spec.md §3, though any width is accepted since
// intermediate expressions may need other widths before narrowing).
func NewUintType(width uint) *IntType {
	upper := new(big.Int).Lsh(big.NewInt(1), width)
	upper.Sub(upper, big.NewInt(1))

	return &IntType{big.NewInt(0), upper}
}

// NewSintType constructs the canonical signed type of the given bit width.
func NewSintType(width uint) *IntType {
	upper := new(big.Int).Lsh(big.NewInt(1), width-1)
	lower := new(big.Int).Neg(upper)
	upper.Sub(upper, big.NewInt(1))

	return &IntType{lower, upper}
}

// NewIntRange constructs an integer type spanning exactly [lower, upper].
func NewIntRange(lower, upper *big.Int) *IntType {
	return &IntType{lower, upper}
}

// IsSigned reports whether this type's interval dips below zero.
func (p *IntType) IsSigned() bool {
	return p.lower != nil && p.lower.Sign() < 0
}

// HasUnderlying implements Type.
func (p *IntType) HasUnderlying() bool {
	return p.lower != nil && p.upper != nil
}

// Width implements Type.
func (p *IntType) Width() uint { return 1 }

// BitWidth returns the minimum number of bits needed to represent every
// value in this type's interval, or 0 for the unbounded placeholder.
func (p *IntType) BitWidth() uint {
	if !p.HasUnderlying() {
		return 0
	}

	var width uint

	if p.IsSigned() {
		// smallest n such that -2^(n-1) <= lower and upper <= 2^(n-1)-1
		// -2^(n-1) <= lower exactly when -lower-1 fits in n-1 bits.
		negBound := new(big.Int).Neg(p.lower)
		negBound.Sub(negBound, big.NewInt(1))
		for negBound.BitLen() >= int(width) || p.upper.BitLen() >= int(width) {
			width++
		}
	} else {
		width = uint(p.upper.BitLen())
		if width == 0 {
			width = 1
		}
	}

	return width
}

// Contains reports whether v lies within this type's interval.
func (p *IntType) Contains(v *big.Int) bool {
	if !p.HasUnderlying() {
		return true
	}

	return v.Cmp(p.lower) >= 0 && v.Cmp(p.upper) <= 0
}

// Within reports whether this type's interval is contained in other's.
func (p *IntType) Within(other *IntType) bool {
	if !other.HasUnderlying() {
		return true
	}

	if !p.HasUnderlying() {
		return false
	}

	return p.lower.Cmp(other.lower) >= 0 && p.upper.Cmp(other.upper) <= 0
}

// LeastUpperBound implements Type.
func (p *IntType) LeastUpperBound(other Type) Type {
	o, ok := other.(*IntType)
	if !ok {
		return nil
	}

	switch {
	case !p.HasUnderlying() && !o.HasUnderlying():
		return INT
	case !o.HasUnderlying():
		return &IntType{p.lower, p.upper}
	case !p.HasUnderlying():
		return &IntType{o.lower, o.upper}
	}

	lower := p.lower
	if o.lower.Cmp(lower) < 0 {
		lower = o.lower
	}

	upper := p.upper
	if o.upper.Cmp(upper) > 0 {
		upper = o.upper
	}

	return &IntType{lower, upper}
}

// SubtypeOf implements Type.
func (p *IntType) SubtypeOf(other Type) bool {
	o, ok := other.(*IntType)
	return ok && p.Within(o)
}

func (p *IntType) String() string {
	if !p.HasUnderlying() {
		return "int"
	}

	width := p.BitWidth()
	if p.IsSigned() {
		return fmt.Sprintf("int%d", width)
	}

	return fmt.Sprintf("uint%d", width)
}
