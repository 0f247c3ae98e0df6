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

package ast

// Symbol is a named, typed entity bound in a SymbolTable: a variable, a
// typed constant, a parameter, a user subprogram or a native subprogram.
//
// Address is interpreted differently depending on what the symbol names:
//   - variable / typed-const / parameter: word offset relative to the
//     mark pointer of the owning frame.
//   - user subprogram: instruction address in the istore.
//   - native subprogram: index into the NativeRegistry.
type Symbol struct {
	Name        string
	Type        *Node
	Address     int
	IsNative    bool
	IsConstant  bool
	Value       interface{} // set for untyped constants (may itself be nil, for Nil)
	ByReference bool
}

// SymbolLookup is what the parser attaches to a resolved identifier,
// call, or variable reference node: the Symbol it named and how many
// lexical parents had to be traversed to find it (0 = local to the
// current subprogram/program scope).
type SymbolLookup struct {
	Symbol *Symbol
	Level  int
}
