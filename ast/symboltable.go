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

// MarkSize is the fixed number of words in every activation frame's
// header (return value, static link, dynamic link, saved extreme
// pointer, return address).
const MarkSize = 5

// NativeRegistry is the minimal surface SymbolTable needs from the host's
// table of registered native procedures. The concrete implementation
// lives in package native so that ast has no dependency on it; a child
// SymbolTable shares its root's NativeRegistry instance.
type NativeRegistry interface {
	Count() int
}

// SymbolTable is a lexically scoped table of value and type symbols. Two
// maps (values and types), keyed by lower-cased name, plus a parent
// link; running sums track the frame layout for the subprogram or
// program that owns this table.
type SymbolTable struct {
	parent *SymbolTable
	values map[string]*Symbol
	types  map[string]*Node

	totalParameterSize      int
	totalVariableSize       int
	totalTypedConstantsSize int

	Natives NativeRegistry
}

// NewRoot creates a top-level symbol table (the program scope), sharing
// the given native registry with every descendant scope.
func NewRoot(natives NativeRegistry) *SymbolTable {
	return &SymbolTable{
		values:  make(map[string]*Symbol),
		types:   make(map[string]*Node),
		Natives: natives,
	}
}

// NewChild creates a scope nested inside t, for a procedure or function
// body. It shares t's root NativeRegistry.
func (t *SymbolTable) NewChild() *SymbolTable {
	return &SymbolTable{
		parent:  t,
		values:  make(map[string]*Symbol),
		types:   make(map[string]*Node),
		Natives: t.Natives,
	}
}

// Parent returns the enclosing scope, or nil for the root.
func (t *SymbolTable) Parent() *SymbolTable { return t.parent }

// TotalParameterSize is the sum of the word sizes of every parameter
// declared directly in this scope.
func (t *SymbolTable) TotalParameterSize() int { return t.totalParameterSize }

// TotalVariableSize is the sum of the word sizes of every variable and
// typed constant declared directly in this scope (the space the
// compiler's ENT instruction must reserve beyond the parameter area).
func (t *SymbolTable) TotalVariableSize() int { return t.totalVariableSize }

// TotalTypedConstantsSize is the sum of the word sizes of typed
// constants declared directly in this scope (a subset already counted
// in TotalVariableSize; tracked separately for diagnostics and for
// sizing the typed-constant initializer copy loop).
func (t *SymbolTable) TotalTypedConstantsSize() int { return t.totalTypedConstantsSize }

// FrameSize is MarkSize + the parameter and variable space this scope's
// subprogram needs; it is exactly the operand the compiler emits with
// ENT.
func (t *SymbolTable) FrameSize() int {
	return MarkSize + t.totalParameterSize + t.totalVariableSize
}

func fold(name string) string { return strings.ToLower(name) }

// declareValue inserts sym under name, returning false if name is
// already bound in this scope (shadowing an outer scope is fine; a
// redeclaration in the same scope is a duplicate-identifier error the
// parser reports against the offending token).
func (t *SymbolTable) declareValue(name string, sym *Symbol) bool {
	key := fold(name)
	if _, exists := t.values[key]; exists {
		return false
	}
	t.values[key] = sym
	return true
}

// DeclareParameter binds a parameter symbol. By-reference parameters
// occupy one word (the address) regardless of the referent's size; a
// by-value parameter occupies its full type size. Parameters must all be
// declared before any variable or typed constant in the same scope so
// that parameter addresses stay stable once variables start being laid
// out after them.
func (t *SymbolTable) DeclareParameter(name string, typ *Node, byRef bool, size int) (*Symbol, bool) {
	words := 1
	if !byRef {
		words = size
	}
	sym := &Symbol{
		Name:        name,
		Type:        typ,
		Address:     MarkSize + t.totalParameterSize,
		ByReference: byRef,
	}
	if !t.declareValue(name, sym) {
		return nil, false
	}
	t.totalParameterSize += words
	return sym, true
}

// DeclareVariable binds a plain variable symbol of the given word size.
func (t *SymbolTable) DeclareVariable(name string, typ *Node, size int) (*Symbol, bool) {
	sym := &Symbol{
		Name:    name,
		Type:    typ,
		Address: MarkSize + t.totalParameterSize + t.totalVariableSize,
	}
	if !t.declareValue(name, sym) {
		return nil, false
	}
	t.totalVariableSize += size
	return sym, true
}

// DeclareTypedConstant binds a typed constant; it occupies frame space
// exactly like a variable (its initial value is copied in at subprogram
// entry) but is also tracked by TotalTypedConstantsSize.
func (t *SymbolTable) DeclareTypedConstant(name string, typ *Node, size int) (*Symbol, bool) {
	sym, ok := t.DeclareVariable(name, typ, size)
	if !ok {
		return nil, false
	}
	t.totalTypedConstantsSize += size
	return sym, true
}

// DeclareConstant binds an untyped constant, whose value is folded into
// the compiler's constant pool rather than occupying frame space.
func (t *SymbolTable) DeclareConstant(name string, typ *Node, value interface{}) (*Symbol, bool) {
	sym := &Symbol{Name: name, Type: typ, Value: value, IsConstant: true}
	if !t.declareValue(name, sym) {
		return nil, false
	}
	return sym, true
}

// DeclareSubprogram binds a user subprogram symbol; Address is filled in
// by the compiler once the subprogram's entry instruction address is
// known (see ast.Node.Sym).
func (t *SymbolTable) DeclareSubprogram(name string, typ *Node) (*Symbol, bool) {
	sym := &Symbol{Name: name, Type: typ}
	if !t.declareValue(name, sym) {
		return nil, false
	}
	return sym, true
}

// DeclareNative binds a native subprogram symbol at the given
// NativeRegistry index.
func (t *SymbolTable) DeclareNative(name string, typ *Node, index int) (*Symbol, bool) {
	sym := &Symbol{Name: name, Type: typ, Address: index, IsNative: true}
	if !t.declareValue(name, sym) {
		return nil, false
	}
	return sym, true
}

// Lookup searches this scope and its ancestors for name, returning how
// many parents had to be traversed to find it (0 = local).
func (t *SymbolTable) Lookup(name string) (*SymbolLookup, bool) {
	key := fold(name)
	level := 0
	for s := t; s != nil; s = s.parent {
		if sym, ok := s.values[key]; ok {
			return &SymbolLookup{Symbol: sym, Level: level}, true
		}
		level++
	}
	return nil, false
}

// DeclareType binds a named type alias.
func (t *SymbolTable) DeclareType(name string, typ *Node) bool {
	key := fold(name)
	if _, exists := t.types[key]; exists {
		return false
	}
	t.types[key] = typ
	return true
}

// LookupType searches this scope and its ancestors for a named type.
func (t *SymbolTable) LookupType(name string) (*Node, bool) {
	key := fold(name)
	for s := t; s != nil; s = s.parent {
		if typ, ok := s.types[key]; ok {
			return typ, true
		}
	}
	return nil, false
}
