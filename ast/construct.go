// This file is part of turbopascal - https://github.com/lkesteloot/turbopascal
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ast

import "strings"

// NewSimpleType returns a simple_type node of the given primitive code.
func NewSimpleType(code TypeCode) *Node {
	return &Node{Kind: KindSimpleType, Code: code}
}

// NewPointerType returns a simple_type(Address) node denoting "^pointee".
// A nil pointee denotes the generic Pointer type.
func NewPointerType(pointee *Node) *Node {
	return &Node{Kind: KindSimpleType, Code: Address, Pointee: pointee}
}

// IsPointer reports whether t is a pointer type (typed or the generic
// Pointer type).
func IsPointer(t *Node) bool {
	return t != nil && t.Kind == KindSimpleType && t.Code == Address
}

// IsGenericPointer reports whether t is the untyped "Pointer"/nil type.
func IsGenericPointer(t *Node) bool {
	return IsPointer(t) && t.Pointee == nil
}

// SameSimpleType reports whether a and b are both simple_type nodes with
// identical primitive codes (pointee names are compared by the caller,
// via the implicit-cast rule, not here).
func SameSimpleType(a, b *Node) bool {
	return a != nil && b != nil && a.Kind == KindSimpleType && b.Kind == KindSimpleType && a.Code == b.Code
}

// SizeOf returns the word size of a value of type t: 1 for every simple
// type, the sum of field sizes for a record, the element size times the
// product of dimension counts for an array.
func SizeOf(t *Node) int {
	if t == nil {
		return 1
	}
	switch t.Kind {
	case KindSimpleType:
		return 1
	case KindRecordType:
		size := 0
		for _, f := range t.Fields {
			size += SizeOf(f.FieldType)
		}
		return size
	case KindArrayType:
		size := SizeOf(t.ElemType)
		for _, d := range t.Dims {
			size *= int(d.HighVal-d.LowVal) + 1
		}
		return size
	case KindEnumType:
		return 1
	default:
		return 1
	}
}

// FindField returns the field named name in record type recType, or nil
// if there is none; name comparison is case-insensitive.
func FindField(recType *Node, name string) *Node {
	for _, f := range recType.Fields {
		if len(f.Name) == len(name) && strings.EqualFold(f.Name, name) {
			return f
		}
	}
	return nil
}

// Stride returns the word size of one element along dimension index
// (0-based) of an array type: the product of the element size and the
// sizes of every inner (higher-indexed) dimension.
func Stride(t *Node, dimIndex int) int {
	size := SizeOf(t.ElemType)
	for i := dimIndex + 1; i < len(t.Dims); i++ {
		d := t.Dims[i]
		size *= int(d.HighVal-d.LowVal) + 1
	}
	return size
}
