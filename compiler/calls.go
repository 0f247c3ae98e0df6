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

package compiler

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/lkesteloot/turbopascal/ast"
	"github.com/lkesteloot/turbopascal/pcode"
)

// compileCall emits one subprogram call, used for both KindFunctionCall
// expressions and KindProcedureCall statements. call is the original
// call node (nil when compiled from a procedure-call statement, where
// Abs's post-narrowing cast never applies since Abs always returns a
// value).
func (c *Compiler) compileCall(callee *ast.Node, args []*ast.Node, call *ast.Node) error {
	folded := strings.ToLower(callee.Name)
	switch folded {
	case "writeln":
		return c.compileWrite(args, true)
	case "write":
		return c.compileWrite(args, false)
	case "round":
		return c.compileUnaryOpcode(args, pcode.OpRND)
	case "trunc":
		return c.compileUnaryOpcode(args, pcode.OpTRC)
	case "chr":
		return c.compileUnaryOpcode(args, pcode.OpCHR)
	case "ord":
		return c.compileUnaryOpcode(args, pcode.OpORD)
	}

	sym := callee.Lookup.Symbol
	if sym.IsNative {
		return c.compileNativeCall(sym, args, call)
	}
	return c.compileUserCall(callee, sym, args)
}

// compileUnaryOpcode compiles Round/Trunc/Chr/Ord: each takes exactly
// one argument and lowers directly to a single p-machine opcode instead
// of a native call, since all four are value-domain conversions the
// p-machine itself performs.
func (c *Compiler) compileUnaryOpcode(args []*ast.Node, op pcode.Op) error {
	if len(args) != 1 {
		return errors.Errorf("internal error: %v expects exactly one argument", op)
	}
	if err := c.compileExpr(args[0]); err != nil {
		return err
	}
	_, err := c.bc.Emit(op, 0, 0)
	return err
}

// compileWrite lowers a WriteLn/Write statement into one CSP call per
// argument - dispatched by the argument's own static type to one of the
// internal WriteXxx helpers builtin.Install registered - followed, for
// WriteLn, by a final call that flushes the assembled line.
func (c *Compiler) compileWrite(args []*ast.Node, newline bool) error {
	for _, a := range args {
		idx, err := c.writeHelperFor(a.ExprType)
		if err != nil {
			return err
		}
		if err := c.compileValuePush(a); err != nil {
			return err
		}
		if _, err := c.bc.Emit(pcode.OpCSP, 1, idx); err != nil {
			return err
		}
	}
	if newline {
		if _, err := c.bc.Emit(pcode.OpCSP, 0, c.support.WriteNewline); err != nil {
			return err
		}
	}
	return nil
}

func (c *Compiler) writeHelperFor(t *ast.Node) (int, error) {
	if t == nil || t.Kind != ast.KindSimpleType {
		return 0, errors.Errorf("internal error: cannot write a value of type %v", t)
	}
	switch t.Code {
	case ast.Integer:
		return c.support.WriteInt, nil
	case ast.Real:
		return c.support.WriteReal, nil
	case ast.Boolean:
		return c.support.WriteBool, nil
	case ast.Char:
		return c.support.WriteChar, nil
	case ast.String:
		return c.support.WriteStr, nil
	}
	return 0, errors.Errorf("internal error: cannot write a value of type %v", t.Code)
}

// compileNativeCall pushes args per the registered NativeProcedure's
// parameter specs and emits CSP. Abs is always registered as a
// real-domain native; when call.WasCastOperand is set (the call site's
// single argument was itself widened from integer to real to satisfy
// that signature), an extra TRC narrows the always-real result back to
// an integer for the call site's actual expected type.
func (c *Compiler) compileNativeCall(sym *ast.Symbol, args []*ast.Node, call *ast.Node) error {
	proc, ok := c.bc.Natives.At(sym.Address)
	if !ok {
		return errors.Errorf("internal error: no native registered at index %d for %q", sym.Address, sym.Name)
	}
	argWords := 0
	for i, a := range args {
		param := proc.Params[i]
		if param.ByReference {
			if err := c.compileAddress(a, 0); err != nil {
				return err
			}
			argWords++
		} else {
			if err := c.compileValuePush(a); err != nil {
				return err
			}
			argWords += ast.SizeOf(param.Type)
		}
	}
	if _, err := c.bc.Emit(pcode.OpCSP, argWords, sym.Address); err != nil {
		return err
	}
	if call != nil && call.WasCastOperand != nil {
		if _, err := c.bc.Emit(pcode.OpTRC, 0, 0); err != nil {
			return err
		}
	}
	return nil
}

// compileUserCall emits the MST/push-args/CUP sequence for a call to a
// user-defined subprogram. level is the number of static links from
// this call site's own frame to the frame lexically enclosing the
// callee, which MST must walk to find the callee's static parent.
func (c *Compiler) compileUserCall(callee *ast.Node, sym *ast.Symbol, args []*ast.Node) error {
	level := callee.Lookup.Level
	if _, err := c.bc.Emit(pcode.OpMST, level, 0); err != nil {
		return err
	}
	params := sym.Type.Params
	argWords := 0
	for i, a := range args {
		p := params[i]
		if p.ByReference {
			if err := c.compileAddress(a, 0); err != nil {
				return err
			}
			argWords++
		} else {
			if err := c.compileValuePush(a); err != nil {
				return err
			}
			argWords += ast.SizeOf(p.ParamType)
		}
	}
	_, err := c.bc.Emit(pcode.OpCUP, argWords, sym.Address)
	return err
}
