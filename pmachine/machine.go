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

// Package pmachine implements the p-machine: the stack interpreter that
// runs a pcode.Bytecode. It owns the data store, the call stack and the
// heap that share it, and the program counter; host code only ever
// reaches in through the native.Control interface Machine implements.
package pmachine

import (
	"github.com/pkg/errors"

	"github.com/lkesteloot/turbopascal/native"
	"github.com/lkesteloot/turbopascal/pcode"
)

// defaultDataSize is the word count of the data store when no DataSize
// option is given.
const defaultDataSize = 65536

// OutputFunc receives one complete output line per WriteLn flush, with
// newline set: everything Write appended since the previous flush plus
// the WriteLn's own text. Write never calls it, so text written after
// the last WriteLn of a run is not delivered.
type OutputFunc func(s string, newline bool)

// DebugFunc receives one disassembled instruction per step, addr being
// the instruction's own address; used for a -trace style flag.
type DebugFunc func(addr int, line string)

// FinishFunc is called exactly once, when the machine stops running for
// any reason (STP, Halt, a runtime error, or a host-initiated stop).
type FinishFunc func(elapsedNanos int64, err error)

// Option configures a Machine at construction time.
type Option func(*Machine) error

// DataSize sets the word count of the data store backing the stack and
// heap. The typed-constant blob is copied into the bottom of it, so it
// must be at least len(bc.TypedConstants) words; New returns an error
// otherwise.
func DataSize(words int) Option {
	return func(m *Machine) error {
		if words <= 0 {
			return errors.Errorf("pmachine: data size must be positive, got %d", words)
		}
		m.dataSize = words
		return nil
	}
}

// Output sets the callback invoked on every WriteLn flush.
func Output(fn OutputFunc) Option {
	return func(m *Machine) error { m.output = fn; return nil }
}

// Finish sets the callback invoked once when the machine stops.
func Finish(fn FinishFunc) Option {
	return func(m *Machine) error { m.finish = fn; return nil }
}

// Debug sets the per-instruction trace callback.
func Debug(fn DebugFunc) Option {
	return func(m *Machine) error { m.debug = fn; return nil }
}

// BatchSize overrides the instruction count Run executes per step
// before checking for a pending stop or delay (default 100000).
func BatchSize(n int) Option {
	return func(m *Machine) error {
		if n <= 0 {
			return errors.Errorf("pmachine: batch size must be positive, got %d", n)
		}
		m.batchSize = n
		return nil
	}
}

// Machine is one p-machine instance bound to a single Bytecode.
type Machine struct {
	bc *pcode.Bytecode

	dstore []int64
	sp     int // next free stack slot; valid stack is dstore[0:sp]
	np     int // lowest allocated heap word; valid heap is dstore[np:len(dstore)]
	mp     int // current frame base
	ep     int // current extreme pointer (saved/restored, unused for bounds checks)
	pc     int

	constAddr []int64 // per-constant-pool-index cached address for interned strings

	dataSize  int
	batchSize int

	stopped      bool
	pendingDelay int
	insCount     int64

	keys []rune

	line strBuilder

	output OutputFunc
	debug  DebugFunc
	finish FinishFunc
}

// strBuilder is the tiny accumulator backing Write/WriteLine: Write
// appends without flushing, WriteLine appends then flushes and resets.
type strBuilder struct {
	buf []byte
}

func (s *strBuilder) append(text string) { s.buf = append(s.buf, text...) }

func (s *strBuilder) flush() string {
	out := string(s.buf)
	s.buf = s.buf[:0]
	return out
}

// New builds a Machine ready to run bc: the typed-constant blob is
// copied into the bottom of the data store, sp starts just past it, np
// starts at the top of the store, and every string constant in bc's
// pool is pre-allocated on the heap once so repeated LDCs of the same
// pool index return the same address.
func New(bc *pcode.Bytecode, opts ...Option) (*Machine, error) {
	m := &Machine{
		bc:        bc,
		dataSize:  defaultDataSize,
		batchSize: 100000,
	}
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}
	if m.dataSize < len(bc.TypedConstants) {
		return nil, errors.Errorf("pmachine: data size %d too small for %d words of typed constants", m.dataSize, len(bc.TypedConstants))
	}
	m.dstore = make([]int64, m.dataSize)
	copy(m.dstore, bc.TypedConstants)
	m.sp = len(bc.TypedConstants)
	m.np = len(m.dstore)
	m.mp = 0
	m.ep = 0
	m.pc = bc.StartAddress

	m.constAddr = make([]int64, len(bc.Constants))
	for idx, v := range bc.Constants {
		if s, ok := v.(string); ok {
			// length word plus one word per character
			addr, err := m.heapAlloc(len(s) + 1)
			if err != nil {
				return nil, errors.Wrap(err, "pmachine: preallocating string constant")
			}
			m.dstore[addr] = int64(len(s))
			for i := 0; i < len(s); i++ {
				m.dstore[addr+1+i] = int64(s[i])
			}
			m.constAddr[idx] = int64(addr)
		}
	}
	return m, nil
}

// PC returns the address of the next instruction to execute.
func (m *Machine) PC() int { return m.pc }

// SP returns the current stack pointer (next free slot).
func (m *Machine) SP() int { return m.sp }

// NP returns the current heap low-water mark.
func (m *Machine) NP() int { return m.np }

// InstructionCount returns the number of instructions executed so far.
func (m *Machine) InstructionCount() int64 { return m.insCount }

// Stopped reports whether the machine has halted (STP, Halt, a runtime
// error, or a host Stop call).
func (m *Machine) Stopped() bool { return m.stopped }

var _ native.Control = (*Machine)(nil)
