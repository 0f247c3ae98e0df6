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

package pcode

import (
	"fmt"
	"strings"

	"github.com/lkesteloot/turbopascal/native"
)

// Bytecode is the sole input to the p-machine, along with a set of host
// callbacks: the instruction store, the constant pool, the typed-constant
// initializer blob, the program's start address, a disassembly comment
// map, and the native registry the CSP instruction indexes into.
type Bytecode struct {
	Istore         []Instruction
	Constants      []interface{}
	TypedConstants []int64
	StartAddress   int
	Comments       map[int]string
	Natives        *native.Registry

	constIndex map[interface{}]int
}

// New returns an empty Bytecode backed by the given native registry.
func New(natives *native.Registry) *Bytecode {
	return &Bytecode{
		Comments:   make(map[int]string),
		Natives:    natives,
		constIndex: make(map[interface{}]int),
	}
}

// Emit appends an encoded instruction and returns its address.
func (b *Bytecode) Emit(op Op, operand1, operand2 int) (int, error) {
	ins, err := Encode(op, operand1, operand2)
	if err != nil {
		return 0, err
	}
	addr := len(b.Istore)
	b.Istore = append(b.Istore, ins)
	return addr, nil
}

// Patch rewrites the instruction at addr, keeping its opcode but
// replacing its operands; used to back-patch forward jumps (if/while/
// for) and exit statements once their target address is known.
func (b *Bytecode) Patch(addr int, operand1, operand2 int) error {
	op := b.Istore[addr].Opcode()
	ins, err := Encode(op, operand1, operand2)
	if err != nil {
		return err
	}
	b.Istore[addr] = ins
	return nil
}

// Intern de-duplicates constant pool entries by value and returns the
// pool index of v, adding it if not already present.
func (b *Bytecode) Intern(v interface{}) int {
	if idx, ok := b.constIndex[v]; ok {
		return idx
	}
	idx := len(b.Constants)
	b.Constants = append(b.Constants, v)
	b.constIndex[v] = idx
	return idx
}

// AppendTypedConstants copies words into the typed-constant blob and
// returns the address of the first copied word.
func (b *Bytecode) AppendTypedConstants(words []int64) int {
	addr := len(b.TypedConstants)
	b.TypedConstants = append(b.TypedConstants, words...)
	return addr
}

// Comment records a disassembly annotation at addr (e.g. the subprogram
// name a CUP target belongs to); purely a debugging aid, never consulted
// by the p-machine.
func (b *Bytecode) Comment(addr int, text string) {
	b.Comments[addr] = text
}

// Disassemble renders one instruction as "MNEMONIC operand1 operand2",
// trimming operands that an opcode doesn't use.
func (b *Bytecode) Disassemble(addr int) string {
	if addr < 0 || addr >= len(b.Istore) {
		return "???"
	}
	op, a1, a2 := Decode(b.Istore[addr])
	var sb strings.Builder
	sb.WriteString(op.String())
	switch op {
	case OpNop, OpMST, OpRTN, OpLDI, OpSTI, OpAND, OpIOR, OpNOT, OpNGI, OpNGR,
		OpADI, OpSBI, OpMPI, OpDVI, OpMOD, OpADR, OpSBR, OpMPR, OpDVR,
		OpINC, OpDEC, OpFLT, OpTRC, OpRND, OpCHR, OpORD, OpSTP, OpXJP:
		if op == OpMST || op == OpRTN {
			fmt.Fprintf(&sb, " %d", a1)
		}
	case OpCUP:
		fmt.Fprintf(&sb, " %d %d", a1, a2)
	case OpCSP:
		fmt.Fprintf(&sb, " %d %d", a1, a2)
	case OpENT:
		fmt.Fprintf(&sb, " %d %d", a1, a2)
	case OpLDC:
		fmt.Fprintf(&sb, " %d", a2)
	case OpLDA, OpLVA, OpLVB, OpLVC, OpLVI, OpLVR:
		fmt.Fprintf(&sb, " %d %d", a1, a2)
	case OpIXA:
		fmt.Fprintf(&sb, " %d", a2)
	case OpUJP, OpFJP, OpTJP:
		fmt.Fprintf(&sb, " %d", a2)
	case OpEQU, OpNEQ, OpGRT, OpGEQ, OpLES, OpLEQ:
		fmt.Fprintf(&sb, " %d", a1)
	}
	if c, ok := b.Comments[addr]; ok {
		sb.WriteString("  ; ")
		sb.WriteString(c)
	}
	return sb.String()
}
