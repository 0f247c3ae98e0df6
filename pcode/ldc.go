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

// LDC's operand1 selects how operand2 is interpreted: as an index into
// the constant pool, or as a small literal value encoded directly in
// the instruction, for the two primitive types cheap enough not to
// need pool interning.
const (
	// LDCPool: operand2 is an index into Bytecode.Constants. The pool
	// entry's Go type (int64, float64, string, or nil) tells the
	// p-machine how to turn it into a word; see pmachine's OpLDC case.
	LDCPool = 0
	// LDCBool: operand2 is the boolean's word value (0 or 1) directly.
	LDCBool = 1
	// LDCChar: operand2 is the character's rune code directly.
	LDCChar = 2
)
