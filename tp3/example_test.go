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

package tp3_test

import (
	"fmt"
	"strings"

	"github.com/lkesteloot/turbopascal/tp3"
)

// runToOutput compiles and runs source to completion, returning every
// line WriteLn flushed, one per element. It panics on any compile or
// run error, since an Example function has no *testing.T to fail on.
func runToOutput(source string) []string {
	bc, err := tp3.Compile(source)
	if err != nil {
		panic(err)
	}
	var lines []string
	m, err := tp3.NewMachine(bc, tp3.OutputOption(func(s string, newline bool) {
		if newline {
			lines = append(lines, s)
		}
	}))
	if err != nil {
		panic(err)
	}
	if err := m.Run(); err != nil {
		panic(err)
	}
	return lines
}

// A single WriteLn of a string literal.
func ExampleCompile_hello() {
	out := runToOutput(`program P; begin WriteLn('Hello') end.`)
	fmt.Println(strings.Join(out, "\n"))
	// Output:
	// Hello
}

// A `for ... to` loop summing 1..10.
func ExampleCompile_forSum() {
	out := runToOutput(`program P;
var i: Integer; s: Integer;
begin
  s := 0;
  for i := 1 to 10 do s := s + i;
  WriteLn(s)
end.`)
	fmt.Println(strings.Join(out, "\n"))
	// Output:
	// 55
}

// Naive recursive Fibonacci, exercising a
// function calling itself before its own RTN has been compiled (the
// compiler binds a subprogram's entry address before compiling its
// body for exactly this reason).
func ExampleCompile_recursiveFibonacci() {
	out := runToOutput(`program P;
function F(n: Integer): Integer;
begin
  if n < 2 then F := n else F := F(n - 1) + F(n - 2)
end;
begin
  WriteLn(F(10))
end.`)
	fmt.Println(strings.Join(out, "\n"))
	// Output:
	// 55
}

// New/Dispose round-tripping the heap low-water mark (the same
// property is checked directly in pmachine/machine_test.go).
func ExampleCompile_pointerNewDispose() {
	out := runToOutput(`program P;
var p: ^Integer;
begin
  New(p);
  p^ := 7;
  WriteLn(p^);
  Dispose(p)
end.`)
	fmt.Println(strings.Join(out, "\n"))
	// Output:
	// 7
}

// A record type with two fields.
func ExampleCompile_recordFields() {
	out := runToOutput(`program P;
type R = record x, y: Integer end;
var r: R;
begin
  r.x := 3;
  r.y := 4;
  WriteLn(r.x + r.y)
end.`)
	fmt.Println(strings.Join(out, "\n"))
	// Output:
	// 7
}

// A typed constant array, read back through a `for` loop.
func ExampleCompile_typedConstArray() {
	out := runToOutput(`program P;
const A: array[1..3] of Integer = (10, 20, 30);
var i: Integer;
begin
  for i := 1 to 3 do WriteLn(A[i])
end.`)
	fmt.Println(strings.Join(out, "\n"))
	// Output:
	// 10
	// 20
	// 30
}
