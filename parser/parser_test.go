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

package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lkesteloot/turbopascal/ast"
	"github.com/lkesteloot/turbopascal/builtin"
	"github.com/lkesteloot/turbopascal/native"
	"github.com/lkesteloot/turbopascal/parser"
	"github.com/lkesteloot/turbopascal/token"
)

// parse builds a fresh __builtin__ root scope and native registry (every
// test gets its own, mirroring tp3.Compile's per-call wiring) and parses
// source against it.
func parse(t *testing.T, source string) (*ast.Node, error) {
	t.Helper()
	reg := native.NewRegistry()
	root := ast.NewRoot(reg)
	_, err := builtin.Install(reg, root)
	require.NoError(t, err)

	lexer := token.NewLexer(source)
	toks := token.NewCommentStripper(lexer)
	return parser.Parse(root, reg, native.NewModules(), toks)
}

func TestParse_MinimalProgram(t *testing.T) {
	prog, err := parse(t, `program P; begin end.`)
	require.NoError(t, err)
	assert.Equal(t, ast.KindProgram, prog.Kind)
	assert.Equal(t, "P", prog.Name)
	require.NotNil(t, prog.Body)
	assert.Equal(t, ast.KindBlock, prog.Body.Kind)
}

func TestParse_VarSectionSharesType(t *testing.T) {
	prog, err := parse(t, `program P; var a, b: Integer; begin a := 1; b := 2 end.`)
	require.NoError(t, err)
	require.Len(t, prog.Vars, 1)
	assert.Equal(t, []string{"a", "b"}, prog.Vars[0].Names)
	assert.Equal(t, ast.Integer, prog.Vars[0].VarType.Code)
}

func TestParse_DuplicateIdentifierIsError(t *testing.T) {
	_, err := parse(t, `program P; var a: Integer; a: Integer; begin end.`)
	assert.Error(t, err)
}

func TestParse_AssignmentCastsIntegerToReal(t *testing.T) {
	prog, err := parse(t, `program P; var x: Real; begin x := 1 end.`)
	require.NoError(t, err)
	stmt := prog.Body.Statements[0]
	require.Equal(t, ast.KindAssignment, stmt.Kind)
	assert.Equal(t, ast.KindCast, stmt.RHS.Kind)
	assert.Equal(t, ast.Real, stmt.RHS.ExprType.Code)
}

func TestParse_StringAssignedToIntegerIsCastError(t *testing.T) {
	_, err := parse(t, `program P; var x: Integer; begin x := 'hi' end.`)
	assert.Error(t, err)
}

func TestParse_IfConditionMustBeBoolean(t *testing.T) {
	_, err := parse(t, `program P; var x: Integer; begin if x then x := 1 end.`)
	assert.Error(t, err)
}

func TestParse_ArrayIndexAndFieldDesignators(t *testing.T) {
	prog, err := parse(t, `program P;
type R = record x: Integer end;
var a: array[1..3] of Integer; r: R;
begin
  a[1] := 1;
  r.x := 2
end.`)
	require.NoError(t, err)
	stmts := prog.Body.Statements
	require.Len(t, stmts, 2)
	assert.Equal(t, ast.KindIndex, stmts[0].LHS.Kind)
	assert.Equal(t, ast.KindFieldDesignator, stmts[1].LHS.Kind)
}

func TestParse_PointerForwardReferenceResolves(t *testing.T) {
	prog, err := parse(t, `program P;
type PNode = ^Node;
     Node = record next: PNode; value: Integer end;
var p: PNode;
begin end.`)
	require.NoError(t, err)
	assert.NotNil(t, prog)
}

func TestParse_UnresolvedPointerForwardReferenceIsError(t *testing.T) {
	_, err := parse(t, `program P;
type PNode = ^Missing;
var p: PNode;
begin end.`)
	assert.Error(t, err)
}

func TestParse_RecursiveFunctionCallResolves(t *testing.T) {
	prog, err := parse(t, `program P;
function F(n: Integer): Integer;
begin
  if n < 2 then F := n else F := F(n - 1) + F(n - 2)
end;
begin
  WriteLn(F(10))
end.`)
	require.NoError(t, err)
	require.Len(t, prog.Functions, 1)
	assert.Equal(t, "F", prog.Functions[0].Name)
}
