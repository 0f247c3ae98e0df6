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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/net/context"
	"golang.org/x/sync/errgroup"

	"github.com/lkesteloot/turbopascal/native"
	"github.com/lkesteloot/turbopascal/pcode"
	"github.com/lkesteloot/turbopascal/pmachine"
)

// runawayBytecode builds a program that is a single unconditional jump to
// itself: it never reaches STP, modeling a buggy Pascal program's
// infinite `while true do ;` so the cooperative scheduler's only way out
// is a host-initiated Stop or a cancelled context.
func runawayBytecode(t *testing.T) *pcode.Bytecode {
	t.Helper()
	bc := pcode.New(native.NewRegistry())
	addr, err := bc.Emit(pcode.OpUJP, 0, 0)
	assert.NoError(t, err)
	assert.NoError(t, bc.Patch(addr, 0, addr))
	bc.StartAddress = addr
	return bc
}

// TestRunContext_CancelledByTimeout exercises host-initiated
// cancellation at a batch boundary: the batch is forced small
// (BatchSize) so a short context deadline is guaranteed to land between
// batches, with an errgroup.Group collecting the run's error.
func TestRunContext_CancelledByTimeout(t *testing.T) {
	bc := runawayBytecode(t)
	m, err := pmachine.New(bc, pmachine.BatchSize(10))
	assert.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return m.RunContext(egCtx)
	})

	err = eg.Wait()
	assert.Error(t, err)
	assert.True(t, m.Stopped())
}

// TestMachine_Stop confirms a host Stop() call (the native Halt
// procedure's own mechanism) ends Run without requiring a context at
// all, and that a second Stop on an already-stopped machine is
// idempotent and does not re-fire the finish callback.
func TestMachine_Stop(t *testing.T) {
	bc := runawayBytecode(t)
	finished := 0
	m, err := pmachine.New(bc, pmachine.BatchSize(5), pmachine.Finish(func(int64, error) {
		finished++
	}))
	assert.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- m.Run() }()

	time.Sleep(15 * time.Millisecond)
	m.Stop()
	m.Stop() // idempotent

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after Stop")
	}
	assert.Equal(t, 1, finished)
}
