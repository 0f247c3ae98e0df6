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

import "github.com/pkg/errors"

// checkAddr enforces the one bounds rule every dstore access obeys: an
// address must fall outside the gap [sp, np) between the live stack and
// the live heap, since that gap is neither pushed stack nor allocated
// heap.
func (m *Machine) checkAddr(addr int) error {
	if addr < 0 || addr >= len(m.dstore) {
		return errors.Errorf("pmachine: address %d out of range [0,%d)", addr, len(m.dstore))
	}
	if addr >= m.sp && addr < m.np {
		return errors.Errorf("pmachine: address %d falls in the unallocated gap [%d,%d)", addr, m.sp, m.np)
	}
	return nil
}

// Stop implements native.Control: it marks the machine stopped; the
// running batch finishes its current instruction but Run/RunContext
// will not start another.
func (m *Machine) Stop() { m.stopped = true }

// Delay implements native.Control: it records a pending delay the host
// run loop honors between batches (see run.go).
func (m *Machine) Delay(ms int) {
	if ms > m.pendingDelay {
		m.pendingDelay = ms
	}
}

// WriteLine implements native.Control: it appends line to the
// accumulating output buffer, then flushes and fires the output
// callback with the complete line.
func (m *Machine) WriteLine(line string) {
	m.line.append(line)
	if m.output != nil {
		m.output(m.line.flush(), true)
	} else {
		m.line.flush()
	}
}

// Write implements native.Control: it appends s to the accumulating
// output buffer without flushing, so a multi-argument WriteLn statement
// can assemble its line from several calls before the final flush.
func (m *Machine) Write(s string) {
	m.line.append(s)
}

// ReadDstore implements native.Control, used for by-reference native
// parameters (Inc, New, Dispose, ...).
func (m *Machine) ReadDstore(addr int) int64 {
	if err := m.checkAddr(addr); err != nil {
		panic(err)
	}
	return m.dstore[addr]
}

// WriteDstore implements native.Control.
func (m *Machine) WriteDstore(addr int, value int64) {
	if err := m.checkAddr(addr); err != nil {
		panic(err)
	}
	m.dstore[addr] = value
}

// Malloc implements native.Control, backing New/GetMem.
func (m *Machine) Malloc(words int) (int, error) {
	return m.heapAlloc(words)
}

// heapAlloc is Malloc's implementation, also used at load time to
// pre-allocate string constants before any Pascal code runs.
func (m *Machine) heapAlloc(words int) (int, error) {
	if words < 0 {
		return 0, errors.Errorf("pmachine: malloc of negative size %d", words)
	}
	newNP := m.np - (words + 1)
	if newNP < m.sp {
		return 0, errors.New("pmachine: heap exhausted")
	}
	m.dstore[newNP] = int64(words)
	addr := newNP + 1
	for i := 0; i < words; i++ {
		m.dstore[addr+i] = 0
	}
	m.np = newNP
	return addr, nil
}

// Free implements native.Control. A block that no longer sits at the
// heap's current low-water mark is not released: there is no general
// coalescing.
func (m *Machine) Free(addr int) {
	if addr <= 0 || addr-1 < 0 || addr-1 >= len(m.dstore) {
		return
	}
	size := int(m.dstore[addr-1])
	if addr == m.np+1 {
		m.np += size + 1
	}
}

// KeyPressed implements native.Control.
func (m *Machine) KeyPressed() bool { return len(m.keys) > 0 }

// ReadKey implements native.Control: it dequeues and returns the next
// pending key, or 0 if none is pending.
func (m *Machine) ReadKey() rune {
	if len(m.keys) == 0 {
		return 0
	}
	r := m.keys[0]
	m.keys = m.keys[1:]
	return r
}

// PushKey queues a key for a future ReadKey/KeyPressed call. Not used by
// the core language itself (no native procedure reads it yet), but
// implementing it here keeps Machine a complete native.Control for a
// future crt-style module.
func (m *Machine) PushKey(r rune) { m.keys = append(m.keys, r) }
