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
	"github.com/pkg/errors"

	"github.com/lkesteloot/turbopascal/ast"
	"github.com/lkesteloot/turbopascal/pcode"
)

func isDesignator(n *ast.Node) bool {
	switch n.Kind {
	case ast.KindIdentifier, ast.KindIndex, ast.KindFieldDesignator, ast.KindDereference:
		return true
	}
	return false
}

// emitAddOffset adds a constant word offset to whatever address is on
// top of the stack.
func (c *Compiler) emitAddOffset(offset int) error {
	if offset == 0 {
		return nil
	}
	idx := c.bc.Intern(int64(offset))
	if _, err := c.bc.Emit(pcode.OpLDC, pcode.LDCPool, idx); err != nil {
		return err
	}
	_, err := c.bc.Emit(pcode.OpADI, 0, 0)
	return err
}

// compileAddress pushes the absolute dstore address of word #wordOffset
// within n's storage. n must be a designator (identifier, array index,
// record field, or pointer dereference); wordOffset addresses one word
// within a compound (array/record) value, 0 for a scalar.
func (c *Compiler) compileAddress(n *ast.Node, wordOffset int) error {
	switch n.Kind {
	case ast.KindIdentifier:
		if n.Lookup == nil {
			// The function's own name used as an assignment target:
			// the return-value slot at the foot of its own frame.
			_, err := c.bc.Emit(pcode.OpLDA, 0, wordOffset)
			return err
		}
		sym := n.Lookup.Symbol
		level := n.Lookup.Level
		if sym.ByReference {
			if _, err := c.bc.Emit(pcode.OpLVA, level, sym.Address); err != nil {
				return err
			}
			return c.emitAddOffset(wordOffset)
		}
		_, err := c.bc.Emit(pcode.OpLDA, level, sym.Address+wordOffset)
		return err

	case ast.KindFieldDesignator:
		field := ast.FindField(n.FieldBase.ExprType, n.FieldName)
		if field == nil {
			return errors.Errorf("internal error: unknown field %q", n.FieldName)
		}
		return c.compileAddress(n.FieldBase, wordOffset+field.Offset)

	case ast.KindIndex:
		if err := c.compileAddress(n.IndexBase, 0); err != nil {
			return err
		}
		arrType := n.IndexBase.ExprType
		for d, idxExpr := range n.Indices {
			if err := c.compileExpr(idxExpr); err != nil {
				return err
			}
			dim := arrType.Dims[d]
			lowIdx := c.bc.Intern(dim.LowVal)
			if _, err := c.bc.Emit(pcode.OpLDC, pcode.LDCPool, lowIdx); err != nil {
				return err
			}
			if _, err := c.bc.Emit(pcode.OpSBI, 0, 0); err != nil {
				return err
			}
			stride := ast.Stride(arrType, d)
			if _, err := c.bc.Emit(pcode.OpIXA, 0, stride); err != nil {
				return err
			}
		}
		return c.emitAddOffset(wordOffset)

	case ast.KindDereference:
		if err := c.compileExpr(n.Operand); err != nil {
			return err
		}
		return c.emitAddOffset(wordOffset)
	}
	return errors.Errorf("internal error: cannot address expression kind %v", n.Kind)
}

// compileCompoundLoad pushes, in order, the size words of a compound
// (array/record) designator's value.
func (c *Compiler) compileCompoundLoad(n *ast.Node, size int) error {
	for i := 0; i < size; i++ {
		if err := c.compileAddress(n, i); err != nil {
			return err
		}
		if _, err := c.bc.Emit(pcode.OpLDI, 0, 0); err != nil {
			return err
		}
	}
	return nil
}

// compileValuePush pushes n's value ready to serve as a by-value
// argument or assignment right-hand side: a single word for any scalar
// expression, or a word-by-word compound load for a compound
// designator.
func (c *Compiler) compileValuePush(n *ast.Node) error {
	size := ast.SizeOf(n.ExprType)
	if size > 1 && isDesignator(n) {
		return c.compileCompoundLoad(n, size)
	}
	return c.compileExpr(n)
}

// compileConstValue emits the code to push an already-folded untyped
// constant's value, using the same LDC encoding as a literal of that
// Go type would.
func (c *Compiler) compileConstValue(v interface{}, code ast.TypeCode) error {
	switch code {
	case ast.Boolean:
		_, err := c.bc.Emit(pcode.OpLDC, pcode.LDCBool, int(boolWord(v.(bool))))
		return err
	case ast.Char:
		_, err := c.bc.Emit(pcode.OpLDC, pcode.LDCChar, int(v.(int64)))
		return err
	case ast.Address:
		idx := c.bc.Intern(nil)
		_, err := c.bc.Emit(pcode.OpLDC, pcode.LDCPool, idx)
		return err
	default: // Integer, Real, String: pool-interned by Go value
		idx := c.bc.Intern(v)
		_, err := c.bc.Emit(pcode.OpLDC, pcode.LDCPool, idx)
		return err
	}
}

// compileExpr pushes n's value: one word if n is scalar-typed, or, when
// n is a variable or designator denoting a whole array/record, its
// flattened word sequence (SizeOf words, via compileCompoundLoad).
// Arithmetic and relational expressions are always scalar.
func (c *Compiler) compileExpr(n *ast.Node) error {
	switch n.Kind {
	case ast.KindNumber:
		if n.IsReal {
			idx := c.bc.Intern(n.RealValue)
			_, err := c.bc.Emit(pcode.OpLDC, pcode.LDCPool, idx)
			return err
		}
		idx := c.bc.Intern(n.IntValue)
		_, err := c.bc.Emit(pcode.OpLDC, pcode.LDCPool, idx)
		return err

	case ast.KindString:
		if n.ExprType.Code == ast.Char {
			_, err := c.bc.Emit(pcode.OpLDC, pcode.LDCChar, int(n.StrValue[0]))
			return err
		}
		idx := c.bc.Intern(n.StrValue)
		_, err := c.bc.Emit(pcode.OpLDC, pcode.LDCPool, idx)
		return err

	case ast.KindBoolean:
		_, err := c.bc.Emit(pcode.OpLDC, pcode.LDCBool, int(boolWord(n.BoolValue)))
		return err

	case ast.KindNilPointer:
		idx := c.bc.Intern(nil)
		_, err := c.bc.Emit(pcode.OpLDC, pcode.LDCPool, idx)
		return err

	case ast.KindIdentifier:
		sym := n.Lookup.Symbol
		if sym.IsConstant {
			return c.compileConstValue(sym.Value, n.ExprType.Code)
		}
		level := n.Lookup.Level
		if sym.ByReference {
			if _, err := c.bc.Emit(pcode.OpLVA, level, sym.Address); err != nil {
				return err
			}
			_, err := c.bc.Emit(pcode.OpLDI, 0, 0)
			return err
		}
		size := ast.SizeOf(sym.Type)
		if size != 1 {
			return c.compileCompoundLoad(n, size)
		}
		class := loadClass(sym.Type.Code)
		_, err := c.bc.Emit(pcode.LVFor(class), level, sym.Address)
		return err

	case ast.KindUnary:
		if err := c.compileExpr(n.Operand); err != nil {
			return err
		}
		if n.Op == "not" {
			_, err := c.bc.Emit(pcode.OpNOT, 0, 0)
			return err
		}
		if n.ExprType.Code == ast.Real {
			_, err := c.bc.Emit(pcode.OpNGR, 0, 0)
			return err
		}
		_, err := c.bc.Emit(pcode.OpNGI, 0, 0)
		return err

	case ast.KindBinary:
		return c.compileBinary(n)

	case ast.KindCast:
		return c.compileCast(n)

	case ast.KindAddressOf:
		return c.compileAddress(n.Operand, 0)

	case ast.KindIndex, ast.KindFieldDesignator, ast.KindDereference:
		size := ast.SizeOf(n.ExprType)
		if size != 1 {
			return c.compileCompoundLoad(n, size)
		}
		if err := c.compileAddress(n, 0); err != nil {
			return err
		}
		_, err := c.bc.Emit(pcode.OpLDI, 0, 0)
		return err

	case ast.KindFunctionCall:
		return c.compileCall(n.Callee, n.Args, n)
	}
	return errors.Errorf("internal error: cannot compile expression kind %v", n.Kind)
}

func (c *Compiler) compileCast(n *ast.Node) error {
	if err := c.compileExpr(n.Operand); err != nil {
		return err
	}
	switch n.Op {
	case "float":
		_, err := c.bc.Emit(pcode.OpFLT, 0, 0)
		return err
	case "chars":
		_, err := c.bc.Emit(pcode.OpCSP, 1, c.support.CharToStr)
		return err
	case "ptr":
		return nil // same representation, no code needed
	}
	return errors.Errorf("internal error: unknown cast kind %q", n.Op)
}

func (c *Compiler) compileBinary(n *ast.Node) error {
	if err := c.compileExpr(n.Left); err != nil {
		return err
	}
	if err := c.compileExpr(n.Right); err != nil {
		return err
	}
	real := n.Left.ExprType.Code == ast.Real
	switch n.Op {
	case "+":
		return c.emit1(pickOp(real, pcode.OpADR, pcode.OpADI))
	case "-":
		return c.emit1(pickOp(real, pcode.OpSBR, pcode.OpSBI))
	case "*":
		return c.emit1(pickOp(real, pcode.OpMPR, pcode.OpMPI))
	case "/":
		return c.emit1(pcode.OpDVR)
	case "div":
		return c.emit1(pcode.OpDVI)
	case "mod":
		return c.emit1(pcode.OpMOD)
	case "and":
		return c.emit1(pcode.OpAND)
	case "or":
		return c.emit1(pcode.OpIOR)
	case "=", "<>", "<", ">", "<=", ">=":
		return c.emitCompare(n.Op, int(n.Left.ExprType.Code))
	}
	return errors.Errorf("internal error: unknown binary operator %q", n.Op)
}

func pickOp(real bool, realOp, intOp pcode.Op) pcode.Op {
	if real {
		return realOp
	}
	return intOp
}

func (c *Compiler) emit1(op pcode.Op) error {
	_, err := c.bc.Emit(op, 0, 0)
	return err
}

func (c *Compiler) emitCompare(op string, typeCode int) error {
	var code pcode.Op
	switch op {
	case "=":
		code = pcode.OpEQU
	case "<>":
		code = pcode.OpNEQ
	case "<":
		code = pcode.OpLES
	case ">":
		code = pcode.OpGRT
	case "<=":
		code = pcode.OpLEQ
	case ">=":
		code = pcode.OpGEQ
	}
	_, err := c.bc.Emit(code, typeCode, 0)
	return err
}
