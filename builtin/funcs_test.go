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

package builtin

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lkesteloot/turbopascal/native"
)

type fakeControl struct {
	dstore []int64
	halted bool
}

func (f *fakeControl) Stop()                             { f.halted = true }
func (f *fakeControl) Delay(int)                         {}
func (f *fakeControl) WriteLine(string)                  {}
func (f *fakeControl) Write(string)                      {}
func (f *fakeControl) ReadDstore(addr int) int64         { return f.dstore[addr] }
func (f *fakeControl) WriteDstore(addr int, value int64) { f.dstore[addr] = value }
func (f *fakeControl) Malloc(words int) (int, error)     { return 0, nil }
func (f *fakeControl) Free(int)                          {}
func (f *fakeControl) KeyPressed() bool                  { return false }
func (f *fakeControl) ReadKey() rune                     { return 0 }

var _ native.Control = (*fakeControl)(nil)

func TestAbsFn_AlwaysNonNegative(t *testing.T) {
	v, err := absFn(nil, []int64{floatToWord(-3.5)})
	require.NoError(t, err)
	assert.Equal(t, 3.5, wordToFloat(v))
}

func TestRoundFn_RoundsHalfAwayFromZero(t *testing.T) {
	v, err := roundFn(nil, []int64{floatToWord(2.5)})
	require.NoError(t, err)
	assert.Equal(t, int64(3), v)
}

func TestTruncFn_TowardZero(t *testing.T) {
	v, err := truncFn(nil, []int64{floatToWord(2.9)})
	require.NoError(t, err)
	assert.Equal(t, int64(2), v)
}

func TestOddFn(t *testing.T) {
	v, err := oddFn(nil, []int64{3})
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)

	v, err = oddFn(nil, []int64{4})
	require.NoError(t, err)
	assert.Equal(t, int64(0), v)
}

func TestRandomFn_WithArgument_RespectsUpperBound(t *testing.T) {
	for i := 0; i < 20; i++ {
		v, err := randomFn(nil, []int64{10})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, v, int64(0))
		assert.Less(t, v, int64(10))
	}
}

func TestRandomFn_NonPositiveArgumentIsError(t *testing.T) {
	_, err := randomFn(nil, []int64{0})
	assert.Error(t, err)
}

func TestIncFn_AddsDeltaThroughAddress(t *testing.T) {
	ctl := &fakeControl{dstore: make([]int64, 4)}
	ctl.WriteDstore(0, 41)
	_, err := incFn(ctl, []int64{0, 1})
	require.NoError(t, err)
	assert.Equal(t, int64(42), ctl.ReadDstore(0))
}

func TestHaltFn_StopsTheControl(t *testing.T) {
	ctl := &fakeControl{}
	_, err := haltFn(ctl, nil)
	require.NoError(t, err)
	assert.True(t, ctl.halted)
}

func TestSqrtFn_MatchesMathSqrt(t *testing.T) {
	v, err := sqrtFn(nil, []int64{floatToWord(9)})
	require.NoError(t, err)
	assert.Equal(t, math.Sqrt(9), wordToFloat(v))
}
