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

import "fmt"

// ============================================================================
// OptionalType / ResultType
// ============================================================================

// OptionalType represents `optional<T>`: either a value of T or unset.
type OptionalType struct {
	Elem Type
}

// NewOptionalType constructs optional<elem>.
func NewOptionalType(elem Type) *OptionalType { return &OptionalType{elem} }

// HasUnderlying implements Type.
func (p *OptionalType) HasUnderlying() bool { return true }

// Width implements Type.
func (p *OptionalType) Width() uint { return p.Elem.Width() }

// LeastUpperBound implements Type.
func (p *OptionalType) LeastUpperBound(other Type) Type {
	if o, ok := other.(*OptionalType); ok {
		if lub := p.Elem.LeastUpperBound(o.Elem); lub != nil {
			return NewOptionalType(lub)
		}
	}

	return nil
}

// SubtypeOf implements Type.
func (p *OptionalType) SubtypeOf(other Type) bool {
	o, ok := other.(*OptionalType)
	return ok && p.Elem.SubtypeOf(o.Elem)
}

func (p *OptionalType) String() string { return fmt.Sprintf("optional<%s>", p.Elem.String()) }

// ResultType represents `result<T>`: either a value of T or an error.
type ResultType struct {
	Elem Type
}

// NewResultType constructs result<elem>.
func NewResultType(elem Type) *ResultType { return &ResultType{elem} }

// HasUnderlying implements Type.
func (p *ResultType) HasUnderlying() bool { return true }

// Width implements Type.
func (p *ResultType) Width() uint { return p.Elem.Width() }

// LeastUpperBound implements Type.
func (p *ResultType) LeastUpperBound(other Type) Type {
	if o, ok := other.(*ResultType); ok {
		if lub := p.Elem.LeastUpperBound(o.Elem); lub != nil {
			return NewResultType(lub)
		}
	}

	return nil
}

// SubtypeOf implements Type.
func (p *ResultType) SubtypeOf(other Type) bool {
	o, ok := other.(*ResultType)
	return ok && p.Elem.SubtypeOf(o.Elem)
}

func (p *ResultType) String() string { return fmt.Sprintf("result<%s>", p.Elem.String()) }

// ============================================================================
// Container types: set/list/vector/map
// ============================================================================

// ContainerKind distinguishes the unordered/ordered/random-access
// container shapes.
type ContainerKind uint8

const (
	// SetContainer is an unordered collection of unique elements.
	SetContainer ContainerKind = iota
	// ListContainer is a singly-linked, append-oriented sequence.
	ListContainer
	// VectorContainer is a random-access, index-addressable sequence.
	VectorContainer
)

var containerNames = map[ContainerKind]string{
	SetContainer: "set", ListContainer: "list", VectorContainer: "vector",
}

// ContainerType represents `set<T>`, `list<T>` or `vector<T>`.
type ContainerType struct {
	Kind ContainerKind
	Elem Type
}

// NewContainerType constructs a container of the given kind over elem.
func NewContainerType(kind ContainerKind, elem Type) *ContainerType {
	return &ContainerType{kind, elem}
}

// HasUnderlying implements Type.
func (p *ContainerType) HasUnderlying() bool { return true }

// Width implements Type.
func (p *ContainerType) Width() uint { return p.Elem.Width() }

// LeastUpperBound implements Type.
func (p *ContainerType) LeastUpperBound(other Type) Type {
	o, ok := other.(*ContainerType)
	if !ok {
		return nil
	}

	elem := p.Elem.LeastUpperBound(o.Elem)
	if elem == nil {
		return nil
	}

	if p.Kind == o.Kind {
		return NewContainerType(p.Kind, elem)
	}
	// list<T> and vector<T> widen to vector<T> (container widening, see
	// coerce.go); set does not widen to/from either.
	if (p.Kind == ListContainer && o.Kind == VectorContainer) ||
		(p.Kind == VectorContainer && o.Kind == ListContainer) {
		return NewContainerType(VectorContainer, elem)
	}

	return nil
}

// SubtypeOf implements Type.
func (p *ContainerType) SubtypeOf(other Type) bool {
	o, ok := other.(*ContainerType)
	return ok && p.Kind == o.Kind && p.Elem.SubtypeOf(o.Elem)
}

func (p *ContainerType) String() string {
	return fmt.Sprintf("%s<%s>", containerNames[p.Kind], p.Elem.String())
}

// MapType represents `map<K,V>`.
type MapType struct {
	Key Type
	Val Type
}

// NewMapType constructs map<key,val>.
func NewMapType(key, val Type) *MapType { return &MapType{key, val} }

// HasUnderlying implements Type.
func (p *MapType) HasUnderlying() bool { return true }

// Width implements Type.
func (p *MapType) Width() uint { return p.Key.Width() + p.Val.Width() }

// LeastUpperBound implements Type.
func (p *MapType) LeastUpperBound(other Type) Type {
	o, ok := other.(*MapType)
	if !ok {
		return nil
	}

	key := p.Key.LeastUpperBound(o.Key)
	val := p.Val.LeastUpperBound(o.Val)

	if key == nil || val == nil {
		return nil
	}

	return NewMapType(key, val)
}

// SubtypeOf implements Type.
func (p *MapType) SubtypeOf(other Type) bool {
	o, ok := other.(*MapType)
	return ok && p.Key.SubtypeOf(o.Key) && p.Val.SubtypeOf(o.Val)
}

func (p *MapType) String() string { return fmt.Sprintf("map<%s,%s>", p.Key.String(), p.Val.String()) }

// ============================================================================
// TupleType
// ============================================================================

// TupleType represents a fixed-arity heterogeneous tuple `tuple<T...>`.
type TupleType struct {
	Elems []Type
}

// NewTupleType constructs a tuple of the given element types.
func NewTupleType(elems ...Type) *TupleType { return &TupleType{elems} }

// HasUnderlying implements Type.
func (p *TupleType) HasUnderlying() bool { return true }

// Width implements Type.
func (p *TupleType) Width() uint {
	var w uint
	for _, e := range p.Elems {
		w += e.Width()
	}

	return w
}

// LeastUpperBound implements Type.
func (p *TupleType) LeastUpperBound(other Type) Type {
	o, ok := other.(*TupleType)
	if !ok || len(o.Elems) != len(p.Elems) {
		return nil
	}

	elems := make([]Type, len(p.Elems))

	for i := range p.Elems {
		lub := p.Elems[i].LeastUpperBound(o.Elems[i])
		if lub == nil {
			return nil
		}

		elems[i] = lub
	}

	return NewTupleType(elems...)
}

// SubtypeOf implements Type.
func (p *TupleType) SubtypeOf(other Type) bool {
	o, ok := other.(*TupleType)
	if !ok || len(o.Elems) != len(p.Elems) {
		return false
	}

	for i := range p.Elems {
		if !p.Elems[i].SubtypeOf(o.Elems[i]) {
			return false
		}
	}

	return true
}

func (p *TupleType) String() string {
	s := "tuple<"

	for i, e := range p.Elems {
		if i != 0 {
			s += ","
		}

		s += e.String()
	}

	return s + ">"
}

// ============================================================================
// ReferenceType
// ============================================================================

// ReferenceFlavor distinguishes the three reference ownership flavors.
type ReferenceFlavor uint8

const (
	// StrongReference keeps its referent alive.
	StrongReference ReferenceFlavor = iota
	// WeakReference does not keep its referent alive and may dangle.
	WeakReference
	// ValueReference is a by-value handle (copy-on-write semantics).
	ValueReference
)

var referenceFlavorNames = map[ReferenceFlavor]string{
	StrongReference: "strong", WeakReference: "weak", ValueReference: "value",
}

// ReferenceType represents `reference<T>` in one of its three flavors.
type ReferenceType struct {
	Elem   Type
	Flavor ReferenceFlavor
}

// NewReferenceType constructs reference<elem> with the given flavor.
func NewReferenceType(elem Type, flavor ReferenceFlavor) *ReferenceType {
	return &ReferenceType{elem, flavor}
}

// HasUnderlying implements Type.
func (p *ReferenceType) HasUnderlying() bool { return true }

// Width implements Type.
func (p *ReferenceType) Width() uint { return 1 }

// LeastUpperBound implements Type.
func (p *ReferenceType) LeastUpperBound(other Type) Type {
	o, ok := other.(*ReferenceType)
	if !ok || o.Flavor != p.Flavor {
		return nil
	}

	if lub := p.Elem.LeastUpperBound(o.Elem); lub != nil {
		return NewReferenceType(lub, p.Flavor)
	}

	return nil
}

// SubtypeOf implements Type.
func (p *ReferenceType) SubtypeOf(other Type) bool {
	o, ok := other.(*ReferenceType)
	return ok && o.Flavor == p.Flavor && p.Elem.SubtypeOf(o.Elem)
}

func (p *ReferenceType) String() string {
	return fmt.Sprintf("reference<%s,%s>", p.Elem.String(), referenceFlavorNames[p.Flavor])
}
