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

// Package tp3 is the top-level façade wiring the lexer, parser, compiler
// and p-machine into two entry points: Compile and Machine. Everything
// below it (token, ast, native, parser, pcode, compiler, pmachine,
// builtin) can be used directly by an embedder that wants finer control;
// this package is the batteries-included path that never requires
// touching the lower packages' internals.
package tp3

import (
	"github.com/lkesteloot/turbopascal/ast"
	"github.com/lkesteloot/turbopascal/builtin"
	"github.com/lkesteloot/turbopascal/compiler"
	"github.com/lkesteloot/turbopascal/native"
	"github.com/lkesteloot/turbopascal/parser"
	"github.com/lkesteloot/turbopascal/pcode"
	"github.com/lkesteloot/turbopascal/token"
)

// CompileOption configures a Compile call.
type CompileOption func(*compileConfig)

type compileConfig struct {
	modules native.Modules
}

// WithModule registers an additional pluggable host module (crt, graph,
// mouse, ...) a "uses" clause in the source may name. __builtin__ is
// always available and need not (cannot) be registered this way.
func WithModule(m *native.Module) CompileOption {
	return func(c *compileConfig) {
		c.modules.Register(m)
	}
}

// WithModules registers every module in ms.
func WithModules(ms native.Modules) CompileOption {
	return func(c *compileConfig) {
		for _, m := range ms {
			c.modules.Register(m)
		}
	}
}

// Compile lexes, parses, type-checks and compiles sourceText into a
// ready-to-run Bytecode. A fresh native registry and root symbol table
// are built for each call (a Bytecode is never shared across compiles),
// __builtin__ is installed unconditionally before the program is parsed;
// a caller-supplied module is installed only when the program's uses
// clause names it, as the parser reaches that clause.
func Compile(sourceText string, opts ...CompileOption) (*pcode.Bytecode, error) {
	cfg := &compileConfig{modules: native.NewModules()}
	for _, opt := range opts {
		opt(cfg)
	}

	natives := native.NewRegistry()
	root := ast.NewRoot(natives)
	support, err := builtin.Install(natives, root)
	if err != nil {
		return nil, err
	}

	lexer := token.NewLexer(sourceText)
	toks := token.NewCommentStripper(lexer)

	prog, err := parser.Parse(root, natives, cfg.modules, toks)
	if err != nil {
		return nil, err
	}

	return compiler.Compile(prog, natives, support)
}
