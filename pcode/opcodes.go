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

// Package pcode defines the p-code instruction set: opcode values, the
// single-word instruction encoding, and the Bytecode container the
// compiler produces and the p-machine consumes.
package pcode

// Op is a p-machine opcode.
type Op uint8

// P-machine opcodes. TRC, RND, CHR and ORD get distinct opcodes rather
// than sharing a byte the way some historical p-code tables did, so
// opcode selection stays a pure function of the conversion requested.
const (
	OpNop Op = iota
	OpCUP    // call user: push mark, pc <- addr
	OpCSP    // call native: argN, native index
	OpENT    // reserve frame (sp or ep) to mp+size
	OpMST    // push 5-word mark following `level` static links
	OpRTN    // return: restore mp/ep/pc/sp
	OpLDC    // load constant from the constant pool
	OpLDA    // push address
	OpLDI    // load through address on TOS
	OpSTI    // store through address (addr, value on stack)
	OpLVA    // load value of an address-typed simple var
	OpLVB    // load value of a boolean-typed simple var
	OpLVC    // load value of a char-typed simple var
	OpLVI    // load value of an integer-typed simple var
	OpLVR    // load value of a real-typed simple var
	OpIXA    // index address: a, i -> a + i*stride
	OpUJP    // unconditional jump
	OpFJP    // jump if false
	OpTJP    // jump if true
	OpXJP    // jump to address popped off the stack
	OpADI    // integer add
	OpSBI    // integer subtract
	OpMPI    // integer multiply
	OpDVI    // integer divide (div)
	OpMOD    // integer modulo
	OpADR    // real add
	OpSBR    // real subtract
	OpMPR    // real multiply
	OpDVR    // real divide (/)
	OpNGI    // integer negate
	OpNGR    // real negate
	OpAND    // boolean and
	OpIOR    // boolean or
	OpNOT    // boolean not
	OpEQU    // equality compare (operand: type code)
	OpNEQ    // inequality compare
	OpGRT    // greater-than compare
	OpGEQ    // greater-or-equal compare
	OpLES    // less-than compare
	OpLEQ    // less-or-equal compare
	OpINC    // increment top of stack
	OpDEC    // decrement top of stack
	OpFLT    // integer -> real cast (reinterprets as IEEE-754 bits)
	OpTRC    // real -> integer, truncate toward zero
	OpRND    // real -> integer, round to nearest
	OpCHR    // integer -> char (value domain no-op)
	OpORD    // char -> integer (value domain no-op)
	OpSTP    // halt

	numOpcodes
)

var mnemonics = [...]string{
	OpNop: "NOP",
	OpCUP: "CUP",
	OpCSP: "CSP",
	OpENT: "ENT",
	OpMST: "MST",
	OpRTN: "RTN",
	OpLDC: "LDC",
	OpLDA: "LDA",
	OpLDI: "LDI",
	OpSTI: "STI",
	OpLVA: "LVA",
	OpLVB: "LVB",
	OpLVC: "LVC",
	OpLVI: "LVI",
	OpLVR: "LVR",
	OpIXA: "IXA",
	OpUJP: "UJP",
	OpFJP: "FJP",
	OpTJP: "TJP",
	OpXJP: "XJP",
	OpADI: "ADI",
	OpSBI: "SBI",
	OpMPI: "MPI",
	OpDVI: "DVI",
	OpMOD: "MOD",
	OpADR: "ADR",
	OpSBR: "SBR",
	OpMPR: "MPR",
	OpDVR: "DVR",
	OpNGI: "NGI",
	OpNGR: "NGR",
	OpAND: "AND",
	OpIOR: "IOR",
	OpNOT: "NOT",
	OpEQU: "EQU",
	OpNEQ: "NEQ",
	OpGRT: "GRT",
	OpGEQ: "GEQ",
	OpLES: "LES",
	OpLEQ: "LEQ",
	OpINC: "INC",
	OpDEC: "DEC",
	OpFLT: "FLT",
	OpTRC: "TRC",
	OpRND: "RND",
	OpCHR: "CHR",
	OpORD: "ORD",
	OpSTP: "STP",
}

func (op Op) String() string {
	if int(op) < len(mnemonics) && mnemonics[op] != "" {
		return mnemonics[op]
	}
	return "???"
}

// LVFor returns the direct-load opcode for a simple value of the given
// primitive load class (address, boolean, char, integer, real), used by
// the compiler when loading by-value simple-typed identifiers.
func LVFor(class byte) Op {
	switch class {
	case 'a':
		return OpLVA
	case 'b':
		return OpLVB
	case 'c':
		return OpLVC
	case 'i':
		return OpLVI
	case 'r':
		return OpLVR
	default:
		return OpNop
	}
}
