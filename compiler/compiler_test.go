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

package compiler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lkesteloot/turbopascal/ast"
	"github.com/lkesteloot/turbopascal/builtin"
	"github.com/lkesteloot/turbopascal/compiler"
	"github.com/lkesteloot/turbopascal/native"
	"github.com/lkesteloot/turbopascal/parser"
	"github.com/lkesteloot/turbopascal/pcode"
	"github.com/lkesteloot/turbopascal/pmachine"
	"github.com/lkesteloot/turbopascal/token"
)

// compileSource runs the full parse+compile pipeline, the unit this
// package's tests exercise (rather than hand-building an AST, which
// would duplicate the parser's own tests for no benefit).
func compileSource(t *testing.T, source string) *pcode.Bytecode {
	t.Helper()
	reg := native.NewRegistry()
	root := ast.NewRoot(reg)
	support, err := builtin.Install(reg, root)
	require.NoError(t, err)

	lexer := token.NewLexer(source)
	toks := token.NewCommentStripper(lexer)
	prog, err := parser.Parse(root, reg, native.NewModules(), toks)
	require.NoError(t, err)

	bc, err := compiler.Compile(prog, reg, support)
	require.NoError(t, err)
	return bc
}

func runBytecode(t *testing.T, bc *pcode.Bytecode) []string {
	t.Helper()
	var lines []string
	m, err := pmachine.New(bc, pmachine.Output(func(s string, newline bool) {
		if newline {
			lines = append(lines, s)
		}
	}))
	require.NoError(t, err)
	require.NoError(t, m.Run())
	return lines
}

// TestCompile_TopLevelEpilogue checks the program's bootstrap is exactly
// MST 0, CUP 0 mainAddr, STP, with StartAddress pointing at the MST.
func TestCompile_TopLevelEpilogue(t *testing.T) {
	bc := compileSource(t, `program P; begin end.`)
	require.True(t, bc.StartAddress+3 <= len(bc.Istore))

	op, a1, _ := pcode.Decode(bc.Istore[bc.StartAddress])
	assert.Equal(t, pcode.OpMST, op)
	assert.Equal(t, 0, a1)

	op, _, _ = pcode.Decode(bc.Istore[bc.StartAddress+1])
	assert.Equal(t, pcode.OpCUP, op)

	op, _, _ = pcode.Decode(bc.Istore[bc.StartAddress+2])
	assert.Equal(t, pcode.OpSTP, op)
}

// TestCompile_ExitJumpsPatchedToReturn checks that every `exit` inside a
// function compiles to a UJP whose target, once patched, is the
// function's own RTN instruction.
func TestCompile_ExitJumpsPatchedToReturn(t *testing.T) {
	bc := compileSource(t, `program P;
function F(n: Integer): Integer;
begin
  F := 0;
  if n < 0 then exit;
  F := 1
end;
begin
  WriteLn(F(-1));
  WriteLn(F(1))
end.`)
	out := runBytecode(t, bc)
	assert.Equal(t, []string{"0", "1"}, out)
}

// TestCompile_ForLoopIterationCount checks that `for i := lo to hi`
// runs exactly max(0, hi-lo+1) times.
func TestCompile_ForLoopIterationCount(t *testing.T) {
	bc := compileSource(t, `program P;
var i, n: Integer;
begin
  n := 0;
  for i := 5 to 3 do n := n + 1;
  WriteLn(n);
  n := 0;
  for i := 1 to 4 do n := n + 1;
  WriteLn(n)
end.`)
	out := runBytecode(t, bc)
	assert.Equal(t, []string{"0", "4"}, out)
}

// TestCompile_TypedConstantArrayInitializer exercises the typed-constant
// copy-in sequence (LDA/LDC/LDI/STI per word) compileTypedConstInit
// emits.
func TestCompile_TypedConstantArrayInitializer(t *testing.T) {
	bc := compileSource(t, `program P;
const A: array[1..3] of Integer = (10, 20, 30);
var i: Integer;
begin
  for i := 1 to 3 do WriteLn(A[i])
end.`)
	assert.Equal(t, []int64{10, 20, 30}, bc.TypedConstants)
	out := runBytecode(t, bc)
	assert.Equal(t, []string{"10", "20", "30"}, out)
}

// TestCompile_RecordFieldOffsets checks the field layout rule: field
// i's offset is the sum of the sizes of fields 0..i-1.
func TestCompile_RecordFieldOffsets(t *testing.T) {
	bc := compileSource(t, `program P;
type R = record x, y: Integer end;
var r: R;
begin
  r.x := 3; r.y := 4;
  WriteLn(r.x + r.y)
end.`)
	out := runBytecode(t, bc)
	assert.Equal(t, []string{"7"}, out)
}
