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

package ast_test

import (
	"testing"

	"github.com/lkesteloot/turbopascal/ast"
)

func TestSymbolTableParameterThenVariableAddressing(t *testing.T) {
	root := ast.NewRoot(nil)
	scope := root.NewChild()

	intType := ast.NewSimpleType(ast.Integer)

	pA, ok := scope.DeclareParameter("a", intType, false, 1)
	if !ok {
		t.Fatal("expected declare to succeed")
	}
	pB, ok := scope.DeclareParameter("b", intType, true, 1) // by-ref, still 1 word
	if !ok {
		t.Fatal("expected declare to succeed")
	}
	vX, ok := scope.DeclareVariable("x", intType, 1)
	if !ok {
		t.Fatal("expected declare to succeed")
	}

	if pA.Address != ast.MarkSize {
		t.Errorf("pA.Address = %d, want %d", pA.Address, ast.MarkSize)
	}
	if pB.Address != ast.MarkSize+1 {
		t.Errorf("pB.Address = %d, want %d", pB.Address, ast.MarkSize+1)
	}
	// x's address must account for total parameter size, not just pB's.
	if vX.Address != ast.MarkSize+2 {
		t.Errorf("vX.Address = %d, want %d", vX.Address, ast.MarkSize+2)
	}
	if scope.FrameSize() != ast.MarkSize+2+1 {
		t.Errorf("FrameSize() = %d, want %d", scope.FrameSize(), ast.MarkSize+3)
	}
}

func TestSymbolTableLookupLevels(t *testing.T) {
	root := ast.NewRoot(nil)
	intType := ast.NewSimpleType(ast.Integer)
	root.DeclareVariable("g", intType, 1)

	child := root.NewChild()
	child.DeclareVariable("l", intType, 1)

	grandchild := child.NewChild()

	if l, ok := grandchild.Lookup("l"); !ok || l.Level != 1 {
		t.Errorf("lookup l: got level %v ok=%v, want level 1", l, ok)
	}
	if l, ok := grandchild.Lookup("g"); !ok || l.Level != 2 {
		t.Errorf("lookup g: got level %v ok=%v, want level 2", l, ok)
	}
	if _, ok := grandchild.Lookup("nope"); ok {
		t.Error("lookup of undeclared name should fail")
	}
}

func TestSymbolTableDuplicateDeclaration(t *testing.T) {
	root := ast.NewRoot(nil)
	intType := ast.NewSimpleType(ast.Integer)
	if _, ok := root.DeclareVariable("x", intType, 1); !ok {
		t.Fatal("first declaration should succeed")
	}
	if _, ok := root.DeclareVariable("x", intType, 1); ok {
		t.Error("duplicate declaration in the same scope should fail")
	}
}

func TestSizeOfRecordAndArray(t *testing.T) {
	intType := ast.NewSimpleType(ast.Integer)
	record := &ast.Node{
		Kind: ast.KindRecordType,
		Fields: []*ast.Node{
			{Kind: ast.KindField, Name: "x", FieldType: intType},
			{Kind: ast.KindField, Name: "y", FieldType: intType},
		},
	}
	if got := ast.SizeOf(record); got != 2 {
		t.Errorf("SizeOf(record{x,y int}) = %d, want 2", got)
	}

	arr := &ast.Node{
		Kind:     ast.KindArrayType,
		ElemType: intType,
		Dims: []*ast.Node{
			{Kind: ast.KindRange, LowVal: 1, HighVal: 3},
		},
	}
	if got := ast.SizeOf(arr); got != 3 {
		t.Errorf("SizeOf(array[1..3] of integer) = %d, want 3", got)
	}
}
