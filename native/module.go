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

package native

import "github.com/lkesteloot/turbopascal/ast"

// ConstDecl is a named constant a Module exports.
type ConstDecl struct {
	Name  string
	Type  *ast.Node
	Value interface{}
}

// Module is everything a "uses" clause can import: native types,
// constants and procedures. A Module is installed into a Registry and a
// SymbolTable together, so that the registry index recorded on each
// installed Symbol always matches the registry the p-machine will run
// against.
type Module struct {
	Name   string
	Types  map[string]*ast.Node
	Consts []ConstDecl
	Procs  []NativeProcedure
}

// subprogramType builds the subprogram_type node recorded as a native
// Symbol's Type, so the parser's call-site type checking (arity,
// parameter casts, return type) works identically for native and user
// subprograms.
func subprogramType(p NativeProcedure) *ast.Node {
	params := make([]*ast.Node, len(p.Params))
	for i, ps := range p.Params {
		params[i] = &ast.Node{
			Kind:        ast.KindParameter,
			ParamType:   ps.Type,
			ByReference: ps.ByReference,
		}
	}
	ret := p.ReturnType
	if ret == nil {
		ret = ast.NewSimpleType(ast.Void)
	}
	return &ast.Node{
		Kind:       ast.KindSubprogramType,
		Params:     params,
		ReturnType: ret,
		IsNative:   true,
	}
}

// Install registers every procedure in m into reg and declares every
// type, constant and procedure of m into scope. It is the delegation
// target of a "uses" clause and of the implicit __builtin__ import
// every program gets.
func (m *Module) Install(reg *Registry, scope *ast.SymbolTable) error {
	for name, typ := range m.Types {
		if !scope.DeclareType(name, typ) {
			return duplicateErr("type", name)
		}
	}
	for _, c := range m.Consts {
		if _, ok := scope.DeclareConstant(c.Name, c.Type, c.Value); !ok {
			return duplicateErr("constant", c.Name)
		}
	}
	for _, p := range m.Procs {
		idx := reg.Register(p)
		if _, ok := scope.DeclareNative(p.Name, subprogramType(p), idx); !ok {
			return duplicateErr("native procedure", p.Name)
		}
	}
	return nil
}

func duplicateErr(kind, name string) error {
	return &dupError{kind: kind, name: name}
}

type dupError struct {
	kind, name string
}

func (e *dupError) Error() string {
	return "duplicate " + e.kind + " " + e.name + " while installing native module"
}

// Modules is the set of pluggable host modules a "uses" clause can name,
// keyed by module name. __builtin__ is always available and is not
// looked up here; it is installed unconditionally by the top-level
// façade before parsing starts.
type Modules map[string]*Module

// NewModules returns an empty module registry that callers populate with
// Register.
func NewModules() Modules {
	return Modules{}
}

// Register adds m under its own Name.
func (ms Modules) Register(m *Module) {
	ms[m.Name] = m
}
