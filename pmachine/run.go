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
	"time"

	"github.com/pkg/errors"
	"golang.org/x/net/context"
)

// step executes up to n instructions, stopping early if the machine
// halts (STP, Halt, or a host Stop call). It returns the number of
// instructions actually executed and any runtime error encountered,
// recovering a panicking instruction the same way the machine would
// report any other runtime error.
func (m *Machine) step(n int) (executed int, err error) {
	defer func() {
		if e := recover(); e != nil {
			err = errors.Errorf("pmachine: recovered error @pc=%d insCount=%d: %v", m.pc, m.insCount, e)
		}
	}()
	for ; executed < n; executed++ {
		if m.stopped {
			return executed, nil
		}
		if m.debug != nil {
			m.debug(m.pc, m.bc.Disassemble(m.pc))
		}
		if err := m.execOne(); err != nil {
			return executed, err
		}
		m.insCount++
	}
	return executed, nil
}

// Run drives the machine to completion on the calling goroutine,
// executing in batches of m.batchSize instructions (default 100000) and
// honoring any pendingDelay a native call (Delay) set between batches
// via a real time.Sleep; with no host event loop to yield to, a sleep is
// the direct equivalent of handing control back between batches. The
// finish callback fires exactly once, with the elapsed wall time and any
// runtime error.
func (m *Machine) Run() error {
	return m.RunContext(context.Background())
}

// RunContext is Run's context-cancellable variant: ctx is checked once
// per batch, letting a host (the CLI's -timeout flag, or a test driving
// a runaway program through an errgroup) stop a machine that never
// calls Stop on its own.
func (m *Machine) RunContext(ctx context.Context) error {
	start := time.Now()
	var runErr error
	for !m.stopped {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}
		if _, err := m.step(m.batchSize); err != nil {
			runErr = err
			break
		}
		if m.stopped {
			break
		}
		if m.pendingDelay > 0 {
			time.Sleep(time.Duration(m.pendingDelay) * time.Millisecond)
			m.pendingDelay = 0
		}
	}
	m.stopped = true
	if m.finish != nil {
		m.finish(time.Since(start).Nanoseconds(), runErr)
	}
	return runErr
}
