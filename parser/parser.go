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

// Package parser is a recursive-descent parser with integrated scope
// entry/exit and type checking: it builds the program's AST and its
// symbol tables in a single pass, with no separate resolution or
// checking stage afterwards.
package parser

import (
	"github.com/lkesteloot/turbopascal/ast"
	"github.com/lkesteloot/turbopascal/native"
	"github.com/lkesteloot/turbopascal/token"
	"github.com/lkesteloot/turbopascal/tp3err"
)

// Parser holds the mutable state of one parse: the token source, the
// symbol table of the scope currently being populated, the shared
// native registry a "uses" clause installs into, the set of pluggable
// host modules available to "uses", and (while inside a function body)
// the symbol of the enclosing function, needed to recognize the
// `FuncName := expr` return-value assignment form.
type Parser struct {
	toks            token.TokenSource
	scope           *ast.SymbolTable
	natives         *native.Registry
	modules         native.Modules
	currentFunction *ast.Symbol
}

// Parse builds the program AST from toks. builtins is the already-
// populated root symbol table (the implicit __builtin__ module
// installed by the caller); natives is the registry that module was
// installed into, shared with every "uses" clause; modules is the set
// of additional pluggable host modules a "uses" clause may name.
func Parse(builtins *ast.SymbolTable, natives *native.Registry, modules native.Modules, toks token.TokenSource) (*ast.Node, error) {
	p := &Parser{toks: toks, scope: builtins, natives: natives, modules: modules}
	return p.parseProgram()
}

func (p *Parser) peek() (token.Token, error) { return p.toks.Peek() }
func (p *Parser) next() (token.Token, error) { return p.toks.Next() }

func (p *Parser) isSymbol(tok token.Token, s string) bool {
	return tok.Kind == token.Symbol && tok.Text == s
}

func (p *Parser) isReservedFold(tok token.Token, word string) bool {
	return tok.Kind == token.ReservedWord && tok.FoldedText() == word
}

func (p *Parser) errAt(tok token.Token, format string, args ...interface{}) error {
	return tp3err.At(tp3err.Parse, tp3err.Token{Text: tok.Text, Line: tok.Line}, format, args...)
}

func (p *Parser) expectSymbolTok(s string) (token.Token, error) {
	tok, err := p.next()
	if err != nil {
		return token.Token{}, err
	}
	if !p.isSymbol(tok, s) {
		return token.Token{}, p.errAt(tok, "expected %q", s)
	}
	return tok, nil
}

func (p *Parser) expectReserved(word string) (token.Token, error) {
	tok, err := p.next()
	if err != nil {
		return token.Token{}, err
	}
	if !p.isReservedFold(tok, word) {
		return token.Token{}, p.errAt(tok, "expected %q", word)
	}
	return tok, nil
}

func (p *Parser) expectIdentifier() (token.Token, error) {
	tok, err := p.next()
	if err != nil {
		return token.Token{}, err
	}
	if tok.Kind != token.Identifier {
		return token.Token{}, p.errAt(tok, "expected an identifier")
	}
	return tok, nil
}

func (p *Parser) requireBoolean(expr *ast.Node, tok token.Token) error {
	if expr.ExprType == nil || expr.ExprType.Kind != ast.KindSimpleType || expr.ExprType.Code != ast.Boolean {
		return p.errAt(tok, "condition must be boolean")
	}
	return nil
}

func isDesignator(n *ast.Node) bool {
	switch n.Kind {
	case ast.KindIdentifier, ast.KindIndex, ast.KindFieldDesignator, ast.KindDereference:
		return true
	}
	return false
}

// parseProgram parses `program Name; <block> .`.
func (p *Parser) parseProgram() (*ast.Node, error) {
	progTok, err := p.expectReserved("program")
	if err != nil {
		return nil, err
	}
	nameTok, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectSymbolTok(";"); err != nil {
		return nil, err
	}
	progTable := p.scope.NewChild()
	prog := &ast.Node{Kind: ast.KindProgram, Name: nameTok.Text, Table: progTable, Line: progTok.Line}
	p.scope = progTable
	if err := p.parseBlockBody(prog, true); err != nil {
		return nil, err
	}
	if _, err := p.expectSymbolTok("."); err != nil {
		return nil, err
	}
	return prog, nil
}

// parseBlockBody parses the declaration sections of a program or
// subprogram body, in any order, followed by the mandatory
// begin...end compound statement. allowUses is only true for the
// top-level program block; "uses" importing inside a subprogram is not
// part of this language.
func (p *Parser) parseBlockBody(node *ast.Node, allowUses bool) error {
	for {
		tok, err := p.peek()
		if err != nil {
			return err
		}
		switch {
		case allowUses && p.isReservedFold(tok, "uses"):
			if err := p.parseUses(node); err != nil {
				return err
			}
		case p.isReservedFold(tok, "var"):
			if err := p.parseVarSection(node); err != nil {
				return err
			}
		case p.isReservedFold(tok, "const"):
			if err := p.parseConstSection(node); err != nil {
				return err
			}
		case p.isReservedFold(tok, "type"):
			if err := p.parseTypeSection(node); err != nil {
				return err
			}
		case p.isReservedFold(tok, "procedure"):
			if err := p.parseProcedureDecl(node); err != nil {
				return err
			}
		case p.isReservedFold(tok, "function"):
			if err := p.parseFunctionDecl(node); err != nil {
				return err
			}
		default:
			body, err := p.parseCompound()
			if err != nil {
				return err
			}
			node.Body = body
			return nil
		}
	}
}

func (p *Parser) parseUses(node *ast.Node) error {
	if _, err := p.expectReserved("uses"); err != nil {
		return err
	}
	for {
		tok, err := p.expectIdentifier()
		if err != nil {
			return err
		}
		mod, ok := p.lookupModule(tok.Text)
		if !ok {
			return p.errAt(tok, "unknown module %q", tok.Text)
		}
		if err := mod.Install(p.natives, p.scope); err != nil {
			return p.errAt(tok, "%v", err)
		}
		node.Uses = append(node.Uses, &ast.Node{Kind: ast.KindUses, ModuleName: tok.Text, Line: tok.Line})
		more, err := p.peek()
		if err != nil {
			return err
		}
		if p.isSymbol(more, ",") {
			p.next()
			continue
		}
		break
	}
	_, err := p.expectSymbolTok(";")
	return err
}

func (p *Parser) lookupModule(name string) (*native.Module, bool) {
	for k, m := range p.modules {
		if foldEqual(k, name) {
			return m, true
		}
	}
	return nil, false
}

func foldEqual(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}

func (p *Parser) parseVarSection(node *ast.Node) error {
	if _, err := p.expectReserved("var"); err != nil {
		return err
	}
	for {
		tok, err := p.peek()
		if err != nil {
			return err
		}
		if tok.Kind != token.Identifier {
			break
		}
		names, err := p.parseNameList()
		if err != nil {
			return err
		}
		if _, err := p.expectSymbolTok(":"); err != nil {
			return err
		}
		typ, err := p.parseTypeExpr(nil)
		if err != nil {
			return err
		}
		if _, err := p.expectSymbolTok(";"); err != nil {
			return err
		}
		size := ast.SizeOf(typ)
		varNames := make([]string, len(names))
		syms := make([]*ast.Symbol, len(names))
		for i, n := range names {
			sym, ok := p.scope.DeclareVariable(n.Text, typ, size)
			if !ok {
				return p.errAt(n, "duplicate identifier %q", n.Text)
			}
			varNames[i] = n.Text
			syms[i] = sym
		}
		node.Vars = append(node.Vars, &ast.Node{Kind: ast.KindVar, Names: varNames, VarType: typ, Symbols: syms, Line: names[0].Line})
	}
	return nil
}

// parseNameList parses a comma-separated list of identifiers.
func (p *Parser) parseNameList() ([]token.Token, error) {
	first, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}
	names := []token.Token{first}
	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		if !p.isSymbol(tok, ",") {
			return names, nil
		}
		p.next()
		n, err := p.expectIdentifier()
		if err != nil {
			return nil, err
		}
		names = append(names, n)
	}
}

func (p *Parser) parseConstSection(node *ast.Node) error {
	if _, err := p.expectReserved("const"); err != nil {
		return err
	}
	for {
		tok, err := p.peek()
		if err != nil {
			return err
		}
		if tok.Kind != token.Identifier {
			break
		}
		nameTok, _ := p.next()
		sep, err := p.next()
		if err != nil {
			return err
		}
		switch {
		case p.isSymbol(sep, "="):
			expr, err := p.parseExpression()
			if err != nil {
				return err
			}
			value, err := constantValue(expr, sep, p)
			if err != nil {
				return err
			}
			if _, ok := p.scope.DeclareConstant(nameTok.Text, expr.ExprType, value); !ok {
				return p.errAt(nameTok, "duplicate identifier %q", nameTok.Text)
			}
			node.Consts = append(node.Consts, &ast.Node{Kind: ast.KindConst, Name: nameTok.Text, ConstExpr: expr, ConstType: expr.ExprType, Line: nameTok.Line})
		case p.isSymbol(sep, ":"):
			typ, err := p.parseTypeExpr(nil)
			if err != nil {
				return err
			}
			if _, err := p.expectSymbolTok("="); err != nil {
				return err
			}
			data, err := p.parseTypedConstInit(typ)
			if err != nil {
				return err
			}
			if _, ok := p.scope.DeclareTypedConstant(nameTok.Text, typ, ast.SizeOf(typ)); !ok {
				return p.errAt(nameTok, "duplicate identifier %q", nameTok.Text)
			}
			node.Consts = append(node.Consts, &ast.Node{Kind: ast.KindTypedConst, Name: nameTok.Text, ConstType: typ, Data: data, Line: nameTok.Line})
		default:
			return p.errAt(sep, "expected '=' or ':'")
		}
		if _, err := p.expectSymbolTok(";"); err != nil {
			return err
		}
	}
	return nil
}

func (p *Parser) parseProcedureDecl(node *ast.Node) error {
	tok, err := p.expectReserved("procedure")
	if err != nil {
		return err
	}
	nameTok, err := p.expectIdentifier()
	if err != nil {
		return err
	}
	params, err := p.parseFormalParams()
	if err != nil {
		return err
	}
	if _, err := p.expectSymbolTok(";"); err != nil {
		return err
	}
	subType := &ast.Node{Kind: ast.KindSubprogramType, Params: params, ReturnType: ast.NewSimpleType(ast.Void), Line: tok.Line}
	sym, ok := p.scope.DeclareSubprogram(nameTok.Text, subType)
	if !ok {
		return p.errAt(nameTok, "duplicate identifier %q", nameTok.Text)
	}
	sub := &ast.Node{Kind: ast.KindProcedure, Name: nameTok.Text, Params: params, ReturnType: subType.ReturnType, Sym: sym, Line: tok.Line}
	if err := p.parseSubprogramBody(sub, nil); err != nil {
		return err
	}
	node.Procedures = append(node.Procedures, sub)
	return nil
}

func (p *Parser) parseFunctionDecl(node *ast.Node) error {
	tok, err := p.expectReserved("function")
	if err != nil {
		return err
	}
	nameTok, err := p.expectIdentifier()
	if err != nil {
		return err
	}
	params, err := p.parseFormalParams()
	if err != nil {
		return err
	}
	if _, err := p.expectSymbolTok(":"); err != nil {
		return err
	}
	retTypeTok, err := p.expectIdentifier()
	if err != nil {
		return err
	}
	retType, ok := p.scope.LookupType(retTypeTok.Text)
	if !ok {
		return p.errAt(retTypeTok, "unknown type %q", retTypeTok.Text)
	}
	if _, err := p.expectSymbolTok(";"); err != nil {
		return err
	}
	subType := &ast.Node{Kind: ast.KindSubprogramType, Params: params, ReturnType: retType, Line: tok.Line}
	sym, ok2 := p.scope.DeclareSubprogram(nameTok.Text, subType)
	if !ok2 {
		return p.errAt(nameTok, "duplicate identifier %q", nameTok.Text)
	}
	sub := &ast.Node{Kind: ast.KindFunction, Name: nameTok.Text, Params: params, ReturnType: retType, Sym: sym, Line: tok.Line}
	if err := p.parseSubprogramBody(sub, sym); err != nil {
		return err
	}
	node.Functions = append(node.Functions, sub)
	return nil
}

// parseFormalParams parses an optional parenthesized parameter list.
// Parameter types are resolved against the enclosing scope (the one
// the procedure/function is declared in); the parameter names
// themselves are declared into the subprogram's own child table by
// parseSubprogramBody, once that table exists.
func (p *Parser) parseFormalParams() ([]*ast.Node, error) {
	tok, err := p.peek()
	if err != nil {
		return nil, err
	}
	if !p.isSymbol(tok, "(") {
		return nil, nil
	}
	p.next()
	var params []*ast.Node
	for {
		byRef := false
		t2, err := p.peek()
		if err != nil {
			return nil, err
		}
		if p.isReservedFold(t2, "var") {
			p.next()
			byRef = true
		}
		names, err := p.parseNameList()
		if err != nil {
			return nil, err
		}
		if _, err := p.expectSymbolTok(":"); err != nil {
			return nil, err
		}
		typTok, err := p.expectIdentifier()
		if err != nil {
			return nil, err
		}
		typ, ok := p.scope.LookupType(typTok.Text)
		if !ok {
			return nil, p.errAt(typTok, "unknown type %q", typTok.Text)
		}
		for _, nm := range names {
			params = append(params, &ast.Node{Kind: ast.KindParameter, Name: nm.Text, ParamType: typ, ByReference: byRef, Line: nm.Line})
		}
		t4, err := p.peek()
		if err != nil {
			return nil, err
		}
		if p.isSymbol(t4, ";") {
			p.next()
			continue
		}
		break
	}
	if _, err := p.expectSymbolTok(")"); err != nil {
		return nil, err
	}
	return params, nil
}

// parseSubprogramBody creates the subprogram's own child scope,
// declares its parameters into it, parses its declarations and body,
// and restores the parent scope and function context on every path.
func (p *Parser) parseSubprogramBody(sub *ast.Node, fnSym *ast.Symbol) error {
	childTable := p.scope.NewChild()
	sub.Table = childTable
	savedScope, savedFn := p.scope, p.currentFunction
	p.scope = childTable
	p.currentFunction = fnSym
	restore := func() {
		p.scope, p.currentFunction = savedScope, savedFn
	}

	for _, prm := range sub.Params {
		sz := ast.SizeOf(prm.ParamType)
		if _, ok := childTable.DeclareParameter(prm.Name, prm.ParamType, prm.ByReference, sz); !ok {
			restore()
			return p.errAt(token.Token{Text: prm.Name, Line: prm.Line}, "duplicate parameter %q", prm.Name)
		}
	}
	if err := p.parseBlockBody(sub, false); err != nil {
		restore()
		return err
	}
	restore()
	_, err := p.expectSymbolTok(";")
	return err
}
