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
	"math/rand"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/lkesteloot/turbopascal/native"
)

func wordToFloat(w native.Word) float64 { return math.Float64frombits(uint64(w)) }
func floatToWord(f float64) native.Word { return native.Word(math.Float64bits(f)) }

func boolWord(b bool) native.Word {
	if b {
		return 1
	}
	return 0
}

func sinFn(_ native.Control, args []native.Word) (native.Word, error) {
	return floatToWord(math.Sin(wordToFloat(args[0]))), nil
}

func cosFn(_ native.Control, args []native.Word) (native.Word, error) {
	return floatToWord(math.Cos(wordToFloat(args[0]))), nil
}

func roundFn(_ native.Control, args []native.Word) (native.Word, error) {
	return native.Word(math.Round(wordToFloat(args[0]))), nil
}

func truncFn(_ native.Control, args []native.Word) (native.Word, error) {
	return native.Word(math.Trunc(wordToFloat(args[0]))), nil
}

func oddFn(_ native.Control, args []native.Word) (native.Word, error) {
	return boolWord(args[0]%2 != 0), nil
}

func absFn(_ native.Control, args []native.Word) (native.Word, error) {
	return floatToWord(math.Abs(wordToFloat(args[0]))), nil
}

func sqrtFn(_ native.Control, args []native.Word) (native.Word, error) {
	return floatToWord(math.Sqrt(wordToFloat(args[0]))), nil
}

func lnFn(_ native.Control, args []native.Word) (native.Word, error) {
	return floatToWord(math.Log(wordToFloat(args[0]))), nil
}

func sqrFn(_ native.Control, args []native.Word) (native.Word, error) {
	f := wordToFloat(args[0])
	return floatToWord(f * f), nil
}

// randomFn implements both Random() (returns a real in [0,1)) and
// Random(n) (returns an integer in [0,n)); the parser parses 0 or 1
// arguments for this call and retypes the result accordingly.
func randomFn(_ native.Control, args []native.Word) (native.Word, error) {
	if len(args) == 0 {
		return floatToWord(rand.Float64()), nil
	}
	n := args[0]
	if n <= 0 {
		return 0, errors.Errorf("Random: argument must be positive, got %d", n)
	}
	return rand.Int63n(int64(n)), nil
}

func randomizeFn(_ native.Control, _ []native.Word) (native.Word, error) {
	rand.Seed(time.Now().UnixNano())
	return 0, nil
}

// chrFn/ordFn are value-domain no-ops: a Char and the Integer holding
// its code share the same word representation.
func chrFn(_ native.Control, args []native.Word) (native.Word, error) { return args[0], nil }
func ordFn(_ native.Control, args []native.Word) (native.Word, error) { return args[0], nil }

func incFn(ctl native.Control, args []native.Word) (native.Word, error) {
	addr := int(args[0])
	delta := args[1]
	ctl.WriteDstore(addr, ctl.ReadDstore(addr)+delta)
	return 0, nil
}

// writeLnStubFn backs the WriteLn/Write symbols' registry entries.
// Neither is ever actually invoked through CSP: the compiler recognizes
// both names and lowers each argument to a per-type write helper
// instead (see compiler/calls.go), so this body only runs if something
// calls the registry directly by index, which no compiled program does.
func writeLnStubFn(_ native.Control, _ []native.Word) (native.Word, error) {
	return 0, nil
}

func haltFn(ctl native.Control, _ []native.Word) (native.Word, error) {
	ctl.Stop()
	return 0, nil
}

func delayFn(ctl native.Control, args []native.Word) (native.Word, error) {
	ctl.Delay(int(args[0]))
	return 0, nil
}

// allocFn backs both New and GetMem: the address of the pointer
// variable itself arrives as args[0] (a by-reference parameter), the
// requested size in words as args[1].
func allocFn(ctl native.Control, args []native.Word) (native.Word, error) {
	addr := int(args[0])
	size := int(args[1])
	block, err := ctl.Malloc(size)
	if err != nil {
		return 0, err
	}
	ctl.WriteDstore(addr, native.Word(block))
	return 0, nil
}

func disposeFn(ctl native.Control, args []native.Word) (native.Word, error) {
	addr := int(args[0])
	ptr := ctl.ReadDstore(addr)
	ctl.Free(int(ptr))
	ctl.WriteDstore(addr, 0)
	return 0, nil
}

func writeIntFn(ctl native.Control, args []native.Word) (native.Word, error) {
	ctl.Write(strconv.FormatInt(int64(args[0]), 10))
	return 0, nil
}

func writeRealFn(ctl native.Control, args []native.Word) (native.Word, error) {
	ctl.Write(strconv.FormatFloat(wordToFloat(args[0]), 'g', -1, 64))
	return 0, nil
}

func writeBoolFn(ctl native.Control, args []native.Word) (native.Word, error) {
	if args[0] != 0 {
		ctl.Write("TRUE")
	} else {
		ctl.Write("FALSE")
	}
	return 0, nil
}

func writeCharFn(ctl native.Control, args []native.Word) (native.Word, error) {
	ctl.Write(string(rune(args[0])))
	return 0, nil
}

// writeStrFn reconstructs a Go string from a string value's heap
// buffer: dstore[addr] holds the length, dstore[addr+1:addr+1+length]
// holds one character code per word.
func writeStrFn(ctl native.Control, args []native.Word) (native.Word, error) {
	addr := int(args[0])
	length := int(ctl.ReadDstore(addr))
	buf := make([]byte, length)
	for i := 0; i < length; i++ {
		buf[i] = byte(ctl.ReadDstore(addr + 1 + i))
	}
	ctl.Write(string(buf))
	return 0, nil
}

func writeNewlineFn(ctl native.Control, _ []native.Word) (native.Word, error) {
	ctl.WriteLine("")
	return 0, nil
}

// charToStrFn materializes a length-1 string buffer for the char->string
// implicit cast: a Char is a raw code, a String is a heap address, so
// the cast needs an actual allocation rather than a value-domain no-op.
func charToStrFn(ctl native.Control, args []native.Word) (native.Word, error) {
	addr, err := ctl.Malloc(2)
	if err != nil {
		return 0, err
	}
	ctl.WriteDstore(addr, 1)
	ctl.WriteDstore(addr+1, args[0])
	return native.Word(addr), nil
}
