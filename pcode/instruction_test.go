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

package pcode_test

import (
	"testing"

	"github.com/lkesteloot/turbopascal/pcode"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := []struct {
		op     pcode.Op
		a1, a2 int
	}{
		{pcode.OpCUP, 0, 0},
		{pcode.OpCUP, pcode.MaxOperand1, pcode.MaxOperand2},
		{pcode.OpENT, 1, 42},
		{pcode.OpLVA, 3, 17},
		{pcode.OpSTP, 0, 0},
		{pcode.OpIXA, 0, 1000},
	}
	for _, c := range cases {
		ins, err := pcode.Encode(c.op, c.a1, c.a2)
		if err != nil {
			t.Fatalf("Encode(%v,%d,%d): %v", c.op, c.a1, c.a2, err)
		}
		op, a1, a2 := pcode.Decode(ins)
		if op != c.op || a1 != c.a1 || a2 != c.a2 {
			t.Errorf("round trip: got (%v,%d,%d), want (%v,%d,%d)", op, a1, a2, c.op, c.a1, c.a2)
		}
	}
}

func TestEncodeOperandRangeExhaustiveSample(t *testing.T) {
	for a1 := 0; a1 <= pcode.MaxOperand1; a1 += 37 {
		ins, err := pcode.Encode(pcode.OpLVI, a1, 5)
		if err != nil {
			t.Fatalf("Encode with operand1=%d: %v", a1, err)
		}
		if got := ins.Operand1(); got != a1 {
			t.Errorf("Operand1() = %d, want %d", got, a1)
		}
	}
}

func TestEncodeRejectsOutOfRangeOperands(t *testing.T) {
	if _, err := pcode.Encode(pcode.OpCUP, -1, 0); err == nil {
		t.Error("expected error for negative operand1")
	}
	if _, err := pcode.Encode(pcode.OpCUP, 0, pcode.MaxOperand2+1); err == nil {
		t.Error("expected error for operand2 over range")
	}
	if _, err := pcode.Encode(pcode.OpCUP, pcode.MaxOperand1+1, 0); err == nil {
		t.Error("expected error for operand1 over range")
	}
}
