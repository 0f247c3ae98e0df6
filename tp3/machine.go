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

package tp3

import (
	"github.com/lkesteloot/turbopascal/pcode"
	"github.com/lkesteloot/turbopascal/pmachine"
)

// Machine is the p-machine interpreter, re-exported from pmachine so an
// embedder that only imports tp3 never needs to know the package is
// split further than this façade.
type Machine = pmachine.Machine

// MachineOption configures a Machine at construction time. The host
// callbacks (output, finish, debug) are functional options rather than
// post-construction setters, since the p-machine has no mutable "host"
// field to reassign after New.
type MachineOption = pmachine.Option

// NewMachine builds a Machine bound to bc, ready for Run/RunContext.
func NewMachine(bc *pcode.Bytecode, opts ...MachineOption) (*Machine, error) {
	return pmachine.New(bc, opts...)
}

// OutputOption sets the callback invoked on every WriteLn flush.
var OutputOption = pmachine.Output

// FinishOption sets the callback invoked once when the machine stops.
var FinishOption = pmachine.Finish

// DebugOption sets the per-instruction trace callback.
var DebugOption = pmachine.Debug

// BatchSizeOption overrides the default 100000-instruction step budget.
var BatchSizeOption = pmachine.BatchSize

// DataSizeOption overrides the data store's word count (default 65536).
var DataSizeOption = pmachine.DataSize
