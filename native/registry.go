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

// Package native provides the ordered table of host-provided callables
// (NativeProcedure) that the p-machine invokes via the CSP instruction,
// and the pluggable Module mechanism a "uses" clause delegates to.
package native

import (
	"fmt"

	"github.com/lkesteloot/turbopascal/ast"
)

// Control is the host control handle passed as the implicit first
// argument of every native call. The p-machine's Machine type implements
// it; native procedures only ever see it through this interface so they
// cannot reach into p-machine internals beyond what it exposes.
type Control interface {
	Stop()
	Delay(ms int)
	WriteLine(line string)
	// Write appends s to the current output line without terminating it;
	// WriteLine both appends and flushes the accumulated line. This lets a
	// multi-field WriteLn statement assemble its line from several native
	// calls (one per argument) before a final call flushes it, without the
	// host ever seeing partial lines.
	Write(s string)
	ReadDstore(addr int) int64
	WriteDstore(addr int, value int64)
	Malloc(words int) (int, error)
	Free(addr int)
	KeyPressed() bool
	ReadKey() rune
}

// Word is the p-machine's raw data word; defined here (rather than
// imported from pmachine) so native has no dependency on pmachine and
// pmachine can depend on native instead, never the other way around.
type Word = int64

// Func is the Go function backing a NativeProcedure.
type Func func(ctl Control, args []Word) (Word, error)

// ParamSpec describes one formal parameter of a native procedure.
type ParamSpec struct {
	Type        *ast.Node
	ByReference bool
}

// NativeProcedure is the {name, returnType, parameterTypes[], fn} tuple
// a module registers. ReturnType is nil (void) for a procedure.
type NativeProcedure struct {
	Name       string
	ReturnType *ast.Node
	Params     []ParamSpec
	Fn         Func
}

// Registry is the ordered table of every native procedure registered
// across every "uses"d module for one compilation. Its index into the
// table is what gets stored on the corresponding Symbol's Address field
// and emitted as the CSP instruction's operand.
type Registry struct {
	procs []NativeProcedure
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends proc and returns its index.
func (r *Registry) Register(proc NativeProcedure) int {
	r.procs = append(r.procs, proc)
	return len(r.procs) - 1
}

// Count returns the number of registered native procedures; it is the
// method ast.NativeRegistry needs, so *Registry satisfies that interface
// structurally.
func (r *Registry) Count() int {
	return len(r.procs)
}

// At returns the procedure registered at index, and whether it exists.
func (r *Registry) At(index int) (NativeProcedure, bool) {
	if index < 0 || index >= len(r.procs) {
		return NativeProcedure{}, false
	}
	return r.procs[index], true
}

// Call invokes the procedure at index with args, through ctl.
func (r *Registry) Call(ctl Control, index int, args []Word) (Word, error) {
	proc, ok := r.At(index)
	if !ok {
		return 0, fmt.Errorf("native: no procedure registered at index %d", index)
	}
	return proc.Fn(ctl, args)
}
