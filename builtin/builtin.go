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

// Package builtin installs the implicit __builtin__ module every
// program gets: the primitive type names, the Pi constant, and the
// standard functions and procedures, plus a handful of compiler-only
// helper procedures (registered into the native registry but never
// declared into any Pascal-visible scope) that back WriteLn/Write and
// the char-to-string cast.
package builtin

import (
	"math"

	"github.com/lkesteloot/turbopascal/ast"
	"github.com/lkesteloot/turbopascal/native"
)

// Support carries the registry indices of the internal helper
// procedures Install registers, so the compiler can CSP into them by
// number without the parser or the Pascal source ever naming them.
type Support struct {
	WriteInt     int
	WriteReal    int
	WriteBool    int
	WriteChar    int
	WriteStr     int
	WriteNewline int
	CharToStr    int
}

func simple(code ast.TypeCode) *ast.Node { return ast.NewSimpleType(code) }

func param(code ast.TypeCode, byRef bool) native.ParamSpec {
	return native.ParamSpec{Type: simple(code), ByReference: byRef}
}

func pointerParam(byRef bool) native.ParamSpec {
	return native.ParamSpec{Type: ast.NewPointerType(nil), ByReference: byRef}
}

// Install registers __builtin__'s native procedures into reg and
// declares its types, constants and procedures into scope (the
// program's root symbol table, before parsing begins), then registers
// the compiler-only write/cast helpers into reg alone.
func Install(reg *native.Registry, scope *ast.SymbolTable) (*Support, error) {
	m := &native.Module{
		Name: "__builtin__",
		Types: map[string]*ast.Node{
			"String":   simple(ast.String),
			"Integer":  simple(ast.Integer),
			"ShortInt": simple(ast.Integer),
			"LongInt":  simple(ast.Integer),
			"Char":     simple(ast.Char),
			"Boolean":  simple(ast.Boolean),
			"Real":     simple(ast.Real),
			"Double":   simple(ast.Real),
			"Pointer":  ast.NewPointerType(nil),
		},
		Consts: []native.ConstDecl{
			{Name: "Pi", Type: simple(ast.Real), Value: math.Pi},
		},
		Procs: builtinProcs(),
	}
	if err := m.Install(reg, scope); err != nil {
		return nil, err
	}

	support := &Support{}
	support.WriteInt = reg.Register(native.NativeProcedure{
		Name: "__write_int", Params: []native.ParamSpec{param(ast.Integer, false)}, Fn: writeIntFn,
	})
	support.WriteReal = reg.Register(native.NativeProcedure{
		Name: "__write_real", Params: []native.ParamSpec{param(ast.Real, false)}, Fn: writeRealFn,
	})
	support.WriteBool = reg.Register(native.NativeProcedure{
		Name: "__write_bool", Params: []native.ParamSpec{param(ast.Boolean, false)}, Fn: writeBoolFn,
	})
	support.WriteChar = reg.Register(native.NativeProcedure{
		Name: "__write_char", Params: []native.ParamSpec{param(ast.Char, false)}, Fn: writeCharFn,
	})
	support.WriteStr = reg.Register(native.NativeProcedure{
		Name: "__write_str", Params: []native.ParamSpec{param(ast.String, false)}, Fn: writeStrFn,
	})
	support.WriteNewline = reg.Register(native.NativeProcedure{
		Name: "__write_newline", Fn: writeNewlineFn,
	})
	support.CharToStr = reg.Register(native.NativeProcedure{
		Name: "__char_to_str", Params: []native.ParamSpec{param(ast.Char, false)},
		ReturnType: simple(ast.String), Fn: charToStrFn,
	})
	return support, nil
}

// builtinProcs is the set of names __builtin__ declares into scope.
// Round/Trunc/Chr/Ord and WriteLn/Write are never actually reached
// through CSP: the compiler recognizes these names and lowers them
// directly (see compiler/calls.go). Round/Trunc/Chr/Ord are still
// registered with working Fn bodies and real signatures, so the parser's
// ordinary arity/type checking (and any caller invoking the registry
// directly) sees a fully-formed native procedure. WriteLn/Write carry no
// parameters and a do-nothing stub body; the parser accepts any
// argument list for them without checking it against a signature.
func builtinProcs() []native.NativeProcedure {
	return []native.NativeProcedure{
		{Name: "Sin", Params: []native.ParamSpec{param(ast.Real, false)}, ReturnType: simple(ast.Real), Fn: sinFn},
		{Name: "Cos", Params: []native.ParamSpec{param(ast.Real, false)}, ReturnType: simple(ast.Real), Fn: cosFn},
		{Name: "Round", Params: []native.ParamSpec{param(ast.Real, false)}, ReturnType: simple(ast.Integer), Fn: roundFn},
		{Name: "Trunc", Params: []native.ParamSpec{param(ast.Real, false)}, ReturnType: simple(ast.Integer), Fn: truncFn},
		{Name: "Odd", Params: []native.ParamSpec{param(ast.Integer, false)}, ReturnType: simple(ast.Boolean), Fn: oddFn},
		{Name: "Abs", Params: []native.ParamSpec{param(ast.Real, false)}, ReturnType: simple(ast.Real), Fn: absFn},
		{Name: "Sqrt", Params: []native.ParamSpec{param(ast.Real, false)}, ReturnType: simple(ast.Real), Fn: sqrtFn},
		{Name: "Ln", Params: []native.ParamSpec{param(ast.Real, false)}, ReturnType: simple(ast.Real), Fn: lnFn},
		{Name: "Sqr", Params: []native.ParamSpec{param(ast.Real, false)}, ReturnType: simple(ast.Real), Fn: sqrFn},
		{Name: "Random", Params: []native.ParamSpec{param(ast.Integer, false)}, ReturnType: simple(ast.Real), Fn: randomFn},
		{Name: "Randomize", Fn: randomizeFn},
		// Chr/Ord: supplemental beyond the minimum builtin list, giving
		// the CHR/ORD opcodes a caller.
		{Name: "Chr", Params: []native.ParamSpec{param(ast.Integer, false)}, ReturnType: simple(ast.Char), Fn: chrFn},
		{Name: "Ord", Params: []native.ParamSpec{param(ast.Char, false)}, ReturnType: simple(ast.Integer), Fn: ordFn},

		{Name: "Inc", Params: []native.ParamSpec{param(ast.Integer, true), param(ast.Integer, false)}, Fn: incFn},
		{Name: "WriteLn", Fn: writeLnStubFn},
		// Write: supplemental beyond the minimum builtin list, giving a
		// line-without-newline counterpart to WriteLn.
		{Name: "Write", Fn: writeLnStubFn},
		{Name: "Halt", Fn: haltFn},
		{Name: "Delay", Params: []native.ParamSpec{param(ast.Integer, false)}, Fn: delayFn},
		{Name: "New", Params: []native.ParamSpec{pointerParam(true), param(ast.Integer, false)}, Fn: allocFn},
		{Name: "GetMem", Params: []native.ParamSpec{pointerParam(true), param(ast.Integer, false)}, Fn: allocFn},
		{Name: "Dispose", Params: []native.ParamSpec{pointerParam(true)}, Fn: disposeFn},
	}
}
