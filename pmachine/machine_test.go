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

package pmachine_test

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lkesteloot/turbopascal/native"
	"github.com/lkesteloot/turbopascal/pcode"
	"github.com/lkesteloot/turbopascal/pmachine"
)

// buildAndRun assembles bc's instructions directly (no parser/compiler
// involved) and runs it to completion, testing the interpreter in
// isolation from the rest of the toolchain.
func buildAndRun(t *testing.T, emit func(bc *pcode.Bytecode), opts ...pmachine.Option) *pmachine.Machine {
	t.Helper()
	bc := pcode.New(native.NewRegistry())
	emit(bc)
	m, err := pmachine.New(bc, opts...)
	require.NoError(t, err)
	require.NoError(t, m.Run())
	return m
}

// TestLoad_StackStartsAboveTypedConstants checks the load-time layout:
// sp == len(typedConstants) and np == len(dstore).
func TestLoad_StackStartsAboveTypedConstants(t *testing.T) {
	bc := pcode.New(native.NewRegistry())
	bc.TypedConstants = []int64{1, 2, 3}
	_, err := bc.Emit(pcode.OpSTP, 0, 0)
	require.NoError(t, err)

	m, err := pmachine.New(bc, pmachine.DataSize(1024))
	require.NoError(t, err)
	assert.Equal(t, 3, m.SP())
	assert.Equal(t, 1024, m.NP())
}

// TestArithmetic_IntegerAdd exercises ADI end to end: push two integer
// constants, add, store the result through an address, halt.
func TestArithmetic_IntegerAdd(t *testing.T) {
	m := buildAndRun(t, func(bc *pcode.Bytecode) {
		// dstore[0] is a scratch cell (no variables declared, so use
		// address past a tiny ENT-less frame at a fixed address safe from
		// sp/np collision: reserve one word via ENT first).
		bc.Emit(pcode.OpENT, 0, 1)
		bc.Emit(pcode.OpLDA, 0, 0)
		bc.Emit(pcode.OpLDC, pcode.LDCPool, bc.Intern(int64(3)))
		bc.Emit(pcode.OpLDC, pcode.LDCPool, bc.Intern(int64(4)))
		bc.Emit(pcode.OpADI, 0, 0)
		bc.Emit(pcode.OpSTI, 0, 0)
		bc.Emit(pcode.OpSTP, 0, 0)
	})
	assert.Equal(t, int64(7), m.ReadDstore(0))
}

// TestMalloc_FreeImmediatelyRestoresNP checks that malloc(n) followed
// immediately by free(p) returns np to its prior value (no general
// coalescing needed when the block sits at the current low-water mark).
func TestMalloc_FreeImmediatelyRestoresNP(t *testing.T) {
	bc := pcode.New(native.NewRegistry())
	bc.Emit(pcode.OpSTP, 0, 0)
	m, err := pmachine.New(bc, pmachine.DataSize(64))
	require.NoError(t, err)

	before := m.NP()
	addr, err := m.Malloc(5)
	require.NoError(t, err)
	assert.Less(t, m.NP(), before)

	m.Free(addr)
	assert.Equal(t, before, m.NP())
}

// TestMalloc_NonTopFreeIsNoOp documents that a block not sitting at the
// heap's current low-water mark is not released when freed.
func TestMalloc_NonTopFreeIsNoOp(t *testing.T) {
	bc := pcode.New(native.NewRegistry())
	bc.Emit(pcode.OpSTP, 0, 0)
	m, err := pmachine.New(bc, pmachine.DataSize(64))
	require.NoError(t, err)

	first, err := m.Malloc(2)
	require.NoError(t, err)
	_, err = m.Malloc(2)
	require.NoError(t, err)

	beforeFree := m.NP()
	m.Free(first) // first is no longer at the heap's low-water mark
	assert.Equal(t, beforeFree, m.NP())
}

// TestDump_WritesStackAndHeapWordCounts checks the -dump snapshot format:
// a stack word count, the stack words, a heap word count, then the heap
// words, all little-endian int64s.
func TestDump_WritesStackAndHeapWordCounts(t *testing.T) {
	bc := pcode.New(native.NewRegistry())
	bc.Emit(pcode.OpENT, 0, 0)
	bc.Emit(pcode.OpSTP, 0, 0)
	m, err := pmachine.New(bc, pmachine.DataSize(64))
	require.NoError(t, err)

	addr, err := m.Malloc(3)
	require.NoError(t, err)
	m.WriteDstore(addr, 42)

	var buf bytes.Buffer
	require.NoError(t, m.Dump(&buf))

	var stackWords int64
	require.NoError(t, binary.Read(&buf, binary.LittleEndian, &stackWords))
	assert.Equal(t, int64(m.SP()), stackWords)
	stack := make([]int64, stackWords)
	require.NoError(t, binary.Read(&buf, binary.LittleEndian, &stack))

	var heapWords int64
	require.NoError(t, binary.Read(&buf, binary.LittleEndian, &heapWords))
	assert.Equal(t, int64(64-m.NP()), heapWords)
	heap := make([]int64, heapWords)
	require.NoError(t, binary.Read(&buf, binary.LittleEndian, &heap))
	assert.Equal(t, int64(3), heap[0])  // malloc's size header
	assert.Equal(t, int64(42), heap[1]) // the word written through addr
}

// TestCallFrame_MSTThenRTNRestoresCaller checks the call-frame pairing
// property: after MST, CUP and the matching RTN, the caller's sp is its
// pre-MST value plus exactly the one word of function return value, and
// execution resumes at the instruction after the CUP.
func TestCallFrame_MSTThenRTNRestoresCaller(t *testing.T) {
	bc := pcode.New(native.NewRegistry())
	// f: a zero-argument function returning 42 through its rv slot.
	bc.Emit(pcode.OpENT, 0, 5)
	bc.Emit(pcode.OpLDA, 0, 0)
	bc.Emit(pcode.OpLDC, pcode.LDCPool, bc.Intern(int64(42)))
	bc.Emit(pcode.OpSTI, 0, 0)
	bc.Emit(pcode.OpRTN, 1, 0)
	// main: one local at offset 5, assigned f's result.
	start, _ := bc.Emit(pcode.OpENT, 0, 6)
	bc.Emit(pcode.OpLDA, 0, 5)
	bc.Emit(pcode.OpMST, 0, 0)
	bc.Emit(pcode.OpCUP, 0, 0)
	bc.Emit(pcode.OpSTI, 0, 0)
	bc.Emit(pcode.OpSTP, 0, 0)
	bc.StartAddress = start

	m, err := pmachine.New(bc, pmachine.DataSize(64))
	require.NoError(t, err)
	require.NoError(t, m.Run())

	// The caller's frame is intact: its local holds the returned value,
	// and once the STI has consumed the pushed address and the return
	// value, sp is back at the top of main's 6-word frame.
	assert.Equal(t, 6, m.SP())
	assert.Equal(t, int64(42), m.ReadDstore(5))
}

// TestRuntimeError_DivideByZero checks that integer division by zero is
// fatal and halts the machine.
func TestRuntimeError_DivideByZero(t *testing.T) {
	bc := pcode.New(native.NewRegistry())
	bc.Emit(pcode.OpENT, 0, 0)
	bc.Emit(pcode.OpLDC, pcode.LDCPool, bc.Intern(int64(10)))
	bc.Emit(pcode.OpLDC, pcode.LDCPool, bc.Intern(int64(0)))
	bc.Emit(pcode.OpDVI, 0, 0)
	bc.Emit(pcode.OpSTP, 0, 0)

	m, err := pmachine.New(bc)
	require.NoError(t, err)
	err = m.Run()
	assert.Error(t, err)
	assert.True(t, m.Stopped())
}

// TestStackNeverCollidesWithHeap checks the sp <= np invariant is
// enforced: an allocation sized to fill the entire remaining store must
// fail rather than silently overlap the stack.
func TestStackNeverCollidesWithHeap(t *testing.T) {
	bc := pcode.New(native.NewRegistry())
	bc.Emit(pcode.OpSTP, 0, 0)
	m, err := pmachine.New(bc, pmachine.DataSize(16))
	require.NoError(t, err)

	_, err = m.Malloc(32)
	assert.Error(t, err)
	assert.LessOrEqual(t, m.SP(), m.NP())
}
