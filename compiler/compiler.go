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

// Package compiler walks the type-checked AST the parser produces and
// emits p-code into a pcode.Bytecode: one tree-walking pass per
// subprogram, bottom-up (nested subprograms first, so a subprogram's own
// entry address is known before its body — including any call to
// itself — is compiled), followed by the program's own body and a
// three-instruction bootstrap that calls it.
package compiler

import (
	"github.com/pkg/errors"

	"github.com/lkesteloot/turbopascal/ast"
	"github.com/lkesteloot/turbopascal/builtin"
	"github.com/lkesteloot/turbopascal/native"
	"github.com/lkesteloot/turbopascal/pcode"
)

// Compiler holds the mutable state of one compilation: the bytecode
// being built, the registry of "write this argument" helper procedures
// builtin.Install registered for WriteLn/Write and the char->string
// cast, and the stack of pending `exit` jump fix-up lists, one per
// subprogram currently being compiled (innermost last).
type Compiler struct {
	bc        *pcode.Bytecode
	support   *builtin.Support
	exitStack [][]int
}

// Compile lowers prog (the root program node returned by parser.Parse)
// into a complete Bytecode. support is the set of compiler-only native
// helper indices builtin.Install returned when the façade set up the
// program's root scope; it must come from the same call that produced
// the natives registry prog was type-checked against.
func Compile(prog *ast.Node, natives *native.Registry, support *builtin.Support) (*pcode.Bytecode, error) {
	c := &Compiler{bc: pcode.New(natives), support: support}

	for _, proc := range prog.Procedures {
		if err := c.compileSubprogram(proc, nil); err != nil {
			return nil, err
		}
	}
	for _, fn := range prog.Functions {
		if err := c.compileSubprogram(fn, fn.ReturnType); err != nil {
			return nil, err
		}
	}

	mainAddr := len(c.bc.Istore)
	if err := c.compileBodyAt(prog.Table, prog.Consts, prog.Body, nil, mainAddr, prog.Name); err != nil {
		return nil, err
	}

	c.bc.StartAddress = len(c.bc.Istore)
	if _, err := c.bc.Emit(pcode.OpMST, 0, 0); err != nil {
		return nil, err
	}
	if _, err := c.bc.Emit(pcode.OpCUP, 0, mainAddr); err != nil {
		return nil, err
	}
	if _, err := c.bc.Emit(pcode.OpSTP, 0, 0); err != nil {
		return nil, err
	}
	return c.bc, nil
}

// compileSubprogram recurses into sub's own nested subprograms first,
// then binds sub's symbol address to the next instruction - before
// compiling its body, so a recursive call to sub resolves correctly -
// and compiles its frame entry, typed-constant initializers, body and
// return.
func (c *Compiler) compileSubprogram(sub *ast.Node, retType *ast.Node) error {
	for _, proc := range sub.Procedures {
		if err := c.compileSubprogram(proc, nil); err != nil {
			return err
		}
	}
	for _, fn := range sub.Functions {
		if err := c.compileSubprogram(fn, fn.ReturnType); err != nil {
			return err
		}
	}
	entryAddr := len(c.bc.Istore)
	sub.Sym.Address = entryAddr
	return c.compileBodyAt(sub.Table, sub.Consts, sub.Body, retType, entryAddr, sub.Name)
}

// compileBodyAt emits one subprogram's (or the program's) own frame:
// ENT, typed-constant copy-in, body, RTN, with every `exit` inside the
// body patched to jump to the RTN just emitted.
func (c *Compiler) compileBodyAt(table *ast.SymbolTable, consts []*ast.Node, body *ast.Node, retType *ast.Node, entryAddr int, name string) error {
	frameSize := table.FrameSize()
	if addr, err := c.bc.Emit(pcode.OpENT, 0, frameSize); err != nil {
		return err
	} else if addr != entryAddr {
		return errors.Errorf("internal error: ENT address %d does not match reserved entry %d", addr, entryAddr)
	}

	for _, cn := range consts {
		if cn.Kind == ast.KindTypedConst {
			if err := c.compileTypedConstInit(table, cn); err != nil {
				return err
			}
		}
	}

	c.exitStack = append(c.exitStack, nil)
	if body != nil {
		if err := c.compileStatement(body); err != nil {
			return err
		}
	}
	rtnAddr := len(c.bc.Istore)
	isFunc := 0
	if retType != nil {
		isFunc = 1
	}
	if _, err := c.bc.Emit(pcode.OpRTN, isFunc, 0); err != nil {
		return err
	}

	fixups := c.exitStack[len(c.exitStack)-1]
	c.exitStack = c.exitStack[:len(c.exitStack)-1]
	for _, addr := range fixups {
		if err := c.bc.Patch(addr, 0, rtnAddr); err != nil {
			return err
		}
	}
	if name != "" {
		c.bc.Comment(entryAddr, name)
	}
	return nil
}

// compileTypedConstInit appends cn's initializer words to the
// bytecode's typed-constant blob (loaded verbatim into the bottom of
// the p-machine's data store at program load), then emits, per word,
// the LDA/LDC/LDI/STI sequence that copies from the blob into the
// variable's frame slot.
func (c *Compiler) compileTypedConstInit(table *ast.SymbolTable, cn *ast.Node) error {
	sym, ok := table.Lookup(cn.Name)
	if !ok {
		return errors.Errorf("internal error: typed constant %q not found in its own scope", cn.Name)
	}
	words, err := typedConstWords(cn.Data)
	if err != nil {
		return err
	}
	blobAddr := c.bc.AppendTypedConstants(words)
	for i := range words {
		if _, err := c.bc.Emit(pcode.OpLDA, 0, sym.Symbol.Address+i); err != nil {
			return err
		}
		idx := c.bc.Intern(int64(blobAddr + i))
		if _, err := c.bc.Emit(pcode.OpLDC, pcode.LDCPool, idx); err != nil {
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

// typedConstWords flattens a parsed typed constant's raw data into
// dstore words. Only scalar element types are supported: representing a
// String element would require the loader to materialize a heap buffer
// before the stack even exists.
func typedConstWords(data *ast.RawData) ([]int64, error) {
	words := make([]int64, 0, data.Len())
	for i, v := range data.Data {
		code := data.SimpleTypeCodes[i]
		w, err := scalarToWord(v, code)
		if err != nil {
			return nil, err
		}
		words = append(words, w)
	}
	return words, nil
}
