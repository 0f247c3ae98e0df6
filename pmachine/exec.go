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

package pmachine

import (
	"math"

	"github.com/pkg/errors"

	"github.com/lkesteloot/turbopascal/ast"
	"github.com/lkesteloot/turbopascal/pcode"
)

func wordToFloat(w int64) float64 { return math.Float64frombits(uint64(w)) }
func floatToWord(f float64) int64 { return int64(math.Float64bits(f)) }

func boolWord(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// push appends v to the stack, failing if doing so would collide with
// the heap.
func (m *Machine) push(v int64) error {
	if m.sp >= m.np {
		return errors.New("pmachine: stack exhausted")
	}
	m.dstore[m.sp] = v
	m.sp++
	return nil
}

// pop removes and returns the top of the stack.
func (m *Machine) pop() int64 {
	m.sp--
	return m.dstore[m.sp]
}

// frameAt follows the static-link chain level times from the currently
// executing frame and returns the resulting frame base.
func (m *Machine) frameAt(level int) int {
	addr := m.mp
	for i := 0; i < level; i++ {
		addr = int(m.dstore[addr+1])
	}
	return addr
}

// loadAt reads the dstore word at addr, bounds-checked against the
// stack/heap gap.
func (m *Machine) loadAt(addr int) (int64, error) {
	if err := m.checkAddr(addr); err != nil {
		return 0, err
	}
	return m.dstore[addr], nil
}

func (m *Machine) storeAt(addr int, v int64) error {
	if err := m.checkAddr(addr); err != nil {
		return err
	}
	m.dstore[addr] = v
	return nil
}

// constWord turns one constant-pool entry into its dstore word form.
func (m *Machine) constWord(idx int) (int64, error) {
	if idx < 0 || idx >= len(m.bc.Constants) {
		return 0, errors.Errorf("pmachine: constant pool index %d out of range", idx)
	}
	switch v := m.bc.Constants[idx].(type) {
	case int64:
		return v, nil
	case float64:
		return floatToWord(v), nil
	case string:
		return m.constAddr[idx], nil
	case nil:
		return 0, nil
	default:
		return 0, errors.Errorf("pmachine: unsupported constant pool value %T", v)
	}
}

// compareWords compares a and b, whose static type is code, per op.
func compareWords(a, b int64, code ast.TypeCode, m *Machine, op string) (bool, error) {
	if code == ast.Real {
		x, y := wordToFloat(a), wordToFloat(b)
		switch op {
		case "=":
			return x == y, nil
		case "<>":
			return x != y, nil
		case "<":
			return x < y, nil
		case ">":
			return x > y, nil
		case "<=":
			return x <= y, nil
		case ">=":
			return x >= y, nil
		}
	}
	if code == ast.String {
		sa, err := m.readString(int(a))
		if err != nil {
			return false, err
		}
		sb, err := m.readString(int(b))
		if err != nil {
			return false, err
		}
		switch op {
		case "=":
			return sa == sb, nil
		case "<>":
			return sa != sb, nil
		case "<":
			return sa < sb, nil
		case ">":
			return sa > sb, nil
		case "<=":
			return sa <= sb, nil
		case ">=":
			return sa >= sb, nil
		}
	}
	switch op {
	case "=":
		return a == b, nil
	case "<>":
		return a != b, nil
	case "<":
		return a < b, nil
	case ">":
		return a > b, nil
	case "<=":
		return a <= b, nil
	case ">=":
		return a >= b, nil
	}
	return false, errors.Errorf("pmachine: unknown compare op %q", op)
}

// readString reconstructs a Go string from a string value's heap buffer,
// mirroring builtin.writeStrFn's layout assumption.
func (m *Machine) readString(addr int) (string, error) {
	length, err := m.loadAt(addr)
	if err != nil {
		return "", err
	}
	buf := make([]byte, length)
	for i := 0; i < int(length); i++ {
		w, err := m.loadAt(addr + 1 + i)
		if err != nil {
			return "", err
		}
		buf[i] = byte(w)
	}
	return string(buf), nil
}

// execOne executes the single instruction at m.pc, leaving m.pc pointing
// at the following instruction (jumps and calls overwrite it again).
// Every error it returns is fatal: the caller stops the machine.
func (m *Machine) execOne() error {
	if m.pc < 0 || m.pc >= len(m.bc.Istore) {
		return errors.Errorf("pmachine: program counter %d out of range", m.pc)
	}
	op, a1, a2 := pcode.Decode(m.bc.Istore[m.pc])
	m.pc++

	switch op {
	case pcode.OpNop:
		// no-op

	case pcode.OpLDC:
		var w int64
		var err error
		switch a1 {
		case pcode.LDCPool:
			w, err = m.constWord(a2)
		case pcode.LDCBool, pcode.LDCChar:
			w = int64(a2)
		default:
			err = errors.Errorf("pmachine: unknown LDC tag %d", a1)
		}
		if err != nil {
			return err
		}
		return m.push(w)

	case pcode.OpLDA:
		return m.push(int64(m.frameAt(a1) + a2))

	case pcode.OpLDI:
		addr := int(m.pop())
		v, err := m.loadAt(addr)
		if err != nil {
			return err
		}
		return m.push(v)

	case pcode.OpSTI:
		v := m.pop()
		addr := int(m.pop())
		return m.storeAt(addr, v)

	case pcode.OpLVA, pcode.OpLVB, pcode.OpLVC, pcode.OpLVI, pcode.OpLVR:
		v, err := m.loadAt(m.frameAt(a1) + a2)
		if err != nil {
			return err
		}
		return m.push(v)

	case pcode.OpIXA:
		i := m.pop()
		a := m.pop()
		return m.push(a + i*int64(a2))

	case pcode.OpUJP:
		m.pc = a2
	case pcode.OpFJP:
		if m.pop() == 0 {
			m.pc = a2
		}
	case pcode.OpTJP:
		if m.pop() != 0 {
			m.pc = a2
		}
	case pcode.OpXJP:
		m.pc = int(m.pop())

	case pcode.OpADI:
		b := m.pop()
		return m.push(m.pop() + b)
	case pcode.OpSBI:
		b := m.pop()
		return m.push(m.pop() - b)
	case pcode.OpMPI:
		b := m.pop()
		return m.push(m.pop() * b)
	case pcode.OpDVI:
		b := m.pop()
		a := m.pop()
		if b == 0 {
			return errors.New("pmachine: division by zero")
		}
		return m.push(a / b)
	case pcode.OpMOD:
		b := m.pop()
		a := m.pop()
		if b == 0 {
			return errors.New("pmachine: modulo by zero")
		}
		return m.push(a % b)

	case pcode.OpADR:
		b := wordToFloat(m.pop())
		return m.push(floatToWord(wordToFloat(m.pop()) + b))
	case pcode.OpSBR:
		b := wordToFloat(m.pop())
		return m.push(floatToWord(wordToFloat(m.pop()) - b))
	case pcode.OpMPR:
		b := wordToFloat(m.pop())
		return m.push(floatToWord(wordToFloat(m.pop()) * b))
	case pcode.OpDVR:
		b := wordToFloat(m.pop())
		if b == 0 {
			return errors.New("pmachine: division by zero")
		}
		return m.push(floatToWord(wordToFloat(m.pop()) / b))

	case pcode.OpNGI:
		return m.push(-m.pop())
	case pcode.OpNGR:
		return m.push(floatToWord(-wordToFloat(m.pop())))

	case pcode.OpAND:
		b := m.pop()
		return m.push(m.pop() & b)
	case pcode.OpIOR:
		b := m.pop()
		return m.push(m.pop() | b)
	case pcode.OpNOT:
		return m.push(boolWord(m.pop() == 0))

	case pcode.OpEQU, pcode.OpNEQ, pcode.OpGRT, pcode.OpGEQ, pcode.OpLES, pcode.OpLEQ:
		b := m.pop()
		a := m.pop()
		result, err := compareWords(a, b, ast.TypeCode(a1), m, compareMnemonic(op))
		if err != nil {
			return err
		}
		return m.push(boolWord(result))

	case pcode.OpINC:
		return m.push(m.pop() + 1)
	case pcode.OpDEC:
		return m.push(m.pop() - 1)

	case pcode.OpFLT:
		return m.push(floatToWord(float64(m.pop())))
	case pcode.OpTRC:
		return m.push(int64(math.Trunc(wordToFloat(m.pop()))))
	case pcode.OpRND:
		return m.push(int64(math.Round(wordToFloat(m.pop()))))
	case pcode.OpCHR, pcode.OpORD:
		// value-domain no-ops: a Char and its Integer code share a word.

	case pcode.OpMST:
		staticLink := m.frameAt(a1)
		for _, w := range []int64{0, int64(staticLink), int64(m.mp), int64(m.ep), 0} {
			if err := m.push(w); err != nil {
				return err
			}
		}

	case pcode.OpCUP:
		newMp := m.sp - a1 - 5
		if newMp < 0 {
			return errors.New("pmachine: corrupt call frame")
		}
		m.dstore[newMp+4] = int64(m.pc)
		m.mp = newMp
		m.pc = a2

	case pcode.OpENT:
		newTop := m.mp + a2
		if newTop > m.np {
			return errors.New("pmachine: stack exhausted")
		}
		if a1 == 0 {
			for i := m.sp; i < newTop; i++ {
				m.dstore[i] = 0
			}
			m.sp = newTop
		} else {
			m.ep = newTop
		}

	case pcode.OpRTN:
		oldMp := m.mp
		retAddr := int(m.dstore[oldMp+4])
		dynLink := int(m.dstore[oldMp+2])
		savedEp := int(m.dstore[oldMp+3])
		if a1 == 1 {
			m.sp = oldMp + 1
		} else {
			m.sp = oldMp
		}
		m.mp = dynLink
		m.ep = savedEp
		m.pc = retAddr

	case pcode.OpCSP:
		argc := a1
		if argc > m.sp {
			return errors.New("pmachine: corrupt native call arguments")
		}
		args := make([]int64, argc)
		for i := argc - 1; i >= 0; i-- {
			args[i] = m.pop()
		}
		proc, ok := m.bc.Natives.At(a2)
		if !ok {
			return errors.Errorf("pmachine: no native registered at index %d", a2)
		}
		result, err := m.bc.Natives.Call(m, a2, args)
		if err != nil {
			return err
		}
		if proc.ReturnType != nil {
			return m.push(result)
		}

	case pcode.OpSTP:
		m.stopped = true

	default:
		return errors.Errorf("pmachine: unknown opcode %v", op)
	}
	return nil
}

func compareMnemonic(op pcode.Op) string {
	switch op {
	case pcode.OpEQU:
		return "="
	case pcode.OpNEQ:
		return "<>"
	case pcode.OpGRT:
		return ">"
	case pcode.OpGEQ:
		return ">="
	case pcode.OpLES:
		return "<"
	case pcode.OpLEQ:
		return "<="
	}
	return ""
}
