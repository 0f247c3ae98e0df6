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

func (c *Compiler) compileStatement(n *ast.Node) error {
	switch n.Kind {
	case ast.KindBlock:
		for _, s := range n.Statements {
			if err := c.compileStatement(s); err != nil {
				return err
			}
		}
		return nil

	case ast.KindAssignment:
		return c.compileAssignment(n)

	case ast.KindProcedureCall:
		return c.compileCall(n.Callee, n.Args, nil)

	case ast.KindIf:
		return c.compileIf(n)

	case ast.KindWhile:
		return c.compileWhile(n)

	case ast.KindRepeat:
		return c.compileRepeat(n)

	case ast.KindFor:
		return c.compileFor(n)

	case ast.KindExit:
		addr, err := c.bc.Emit(pcode.OpUJP, 0, 0)
		if err != nil {
			return err
		}
		top := len(c.exitStack) - 1
		c.exitStack[top] = append(c.exitStack[top], addr)
		return nil
	}
	return errors.Errorf("internal error: cannot compile statement kind %v", n.Kind)
}

// compileAssignment pushes the destination address, then the value,
// then stores: the stack convention STI expects (addr below value).
// A compound (array/record) assignment repeats this per word, assuming
// the right-hand side is itself a compound designator.
func (c *Compiler) compileAssignment(n *ast.Node) error {
	size := ast.SizeOf(n.LHS.ExprType)
	if size == 1 {
		if err := c.compileAddress(n.LHS, 0); err != nil {
			return err
		}
		if err := c.compileExpr(n.RHS); err != nil {
			return err
		}
		_, err := c.bc.Emit(pcode.OpSTI, 0, 0)
		return err
	}
	for i := 0; i < size; i++ {
		if err := c.compileAddress(n.LHS, i); err != nil {
			return err
		}
		if err := c.compileAddress(n.RHS, i); err != nil {
			return err
		}
		if _, err := c.bc.Emit(pcode.OpLDI, 0, 0); err != nil {
			return err
		}
		if _, err := c.bc.Emit(pcode.OpSTI, 0, 0); err != nil {
			return err
		}
	}
	return nil
}

func (c *Compiler) compileIf(n *ast.Node) error {
	if err := c.compileExpr(n.Cond); err != nil {
		return err
	}
	fjpAddr, err := c.bc.Emit(pcode.OpFJP, 0, 0)
	if err != nil {
		return err
	}
	if err := c.compileStatement(n.Then); err != nil {
		return err
	}
	if n.Else == nil {
		return c.bc.Patch(fjpAddr, 0, len(c.bc.Istore))
	}
	ujpAddr, err := c.bc.Emit(pcode.OpUJP, 0, 0)
	if err != nil {
		return err
	}
	if err := c.bc.Patch(fjpAddr, 0, len(c.bc.Istore)); err != nil {
		return err
	}
	if err := c.compileStatement(n.Else); err != nil {
		return err
	}
	return c.bc.Patch(ujpAddr, 0, len(c.bc.Istore))
}

func (c *Compiler) compileWhile(n *ast.Node) error {
	topAddr := len(c.bc.Istore)
	if err := c.compileExpr(n.Cond); err != nil {
		return err
	}
	fjpAddr, err := c.bc.Emit(pcode.OpFJP, 0, 0)
	if err != nil {
		return err
	}
	if err := c.compileStatement(n.Body); err != nil {
		return err
	}
	if _, err := c.bc.Emit(pcode.OpUJP, 0, topAddr); err != nil {
		return err
	}
	return c.bc.Patch(fjpAddr, 0, len(c.bc.Istore))
}

func (c *Compiler) compileRepeat(n *ast.Node) error {
	topAddr := len(c.bc.Istore)
	for _, s := range n.Statements {
		if err := c.compileStatement(s); err != nil {
			return err
		}
	}
	if err := c.compileExpr(n.Cond); err != nil {
		return err
	}
	_, err := c.bc.Emit(pcode.OpFJP, 0, topAddr)
	return err
}

// compileFor lowers a for-loop into an initializer, a top-of-loop bound
// check (GRT for an ascending loop, LES for a descending one, since
// either one means the loop variable has passed its end value), the
// body, and an in-place increment/decrement of the loop variable.
func (c *Compiler) compileFor(n *ast.Node) error {
	if err := c.compileAddress(n.Var, 0); err != nil {
		return err
	}
	if err := c.compileExpr(n.Start); err != nil {
		return err
	}
	if _, err := c.bc.Emit(pcode.OpSTI, 0, 0); err != nil {
		return err
	}

	topAddr := len(c.bc.Istore)
	if err := c.compileExpr(n.Var); err != nil {
		return err
	}
	if err := c.compileExpr(n.End); err != nil {
		return err
	}
	cmp := pcode.OpGRT
	if n.Down {
		cmp = pcode.OpLES
	}
	if _, err := c.bc.Emit(cmp, int(n.Var.ExprType.Code), 0); err != nil {
		return err
	}
	tjpAddr, err := c.bc.Emit(pcode.OpTJP, 0, 0)
	if err != nil {
		return err
	}

	if err := c.compileStatement(n.Body); err != nil {
		return err
	}

	if err := c.compileAddress(n.Var, 0); err != nil {
		return err
	}
	if err := c.compileAddress(n.Var, 0); err != nil {
		return err
	}
	if _, err := c.bc.Emit(pcode.OpLDI, 0, 0); err != nil {
		return err
	}
	step := pcode.OpINC
	if n.Down {
		step = pcode.OpDEC
	}
	if _, err := c.bc.Emit(step, 0, 0); err != nil {
		return err
	}
	if _, err := c.bc.Emit(pcode.OpSTI, 0, 0); err != nil {
		return err
	}
	if _, err := c.bc.Emit(pcode.OpUJP, 0, topAddr); err != nil {
		return err
	}
	return c.bc.Patch(tjpAddr, 0, len(c.bc.Istore))
}
