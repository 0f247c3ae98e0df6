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

package parser

import (
	"strings"

	"github.com/lkesteloot/turbopascal/ast"
	"github.com/lkesteloot/turbopascal/token"
)

// parseCompound parses a `begin ... end` statement list.
func (p *Parser) parseCompound() (*ast.Node, error) {
	beginTok, err := p.expectReserved("begin")
	if err != nil {
		return nil, err
	}
	stmts, err := p.parseStatementSequence("end")
	if err != nil {
		return nil, err
	}
	if _, err := p.expectReserved("end"); err != nil {
		return nil, err
	}
	return &ast.Node{Kind: ast.KindBlock, Statements: stmts, Line: beginTok.Line}, nil
}

// parseStatementSequence parses semicolon-separated statements up to
// (but not consuming) a reserved word in endWords. A run of one or more
// semicolons with nothing between them is an empty statement, silently
// skipped, matching Turbo Pascal's "trailing ; optional before end"
// rule.
func (p *Parser) parseStatementSequence(endWords ...string) ([]*ast.Node, error) {
	var stmts []*ast.Node
	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		if p.isSymbol(tok, ";") {
			p.next()
			continue
		}
		if p.atEnd(tok, endWords) {
			return stmts, nil
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
		tok2, err := p.peek()
		if err != nil {
			return nil, err
		}
		if p.isSymbol(tok2, ";") {
			p.next()
			continue
		}
		if p.atEnd(tok2, endWords) {
			return stmts, nil
		}
		return nil, p.errAt(tok2, "expected ';' or %v", endWords)
	}
}

func (p *Parser) atEnd(tok token.Token, words []string) bool {
	for _, w := range words {
		if p.isReservedFold(tok, w) {
			return true
		}
	}
	return false
}

func (p *Parser) parseStatement() (*ast.Node, error) {
	tok, err := p.peek()
	if err != nil {
		return nil, err
	}
	switch {
	case p.isReservedFold(tok, "begin"):
		return p.parseCompound()
	case p.isReservedFold(tok, "if"):
		return p.parseIf()
	case p.isReservedFold(tok, "while"):
		return p.parseWhile()
	case p.isReservedFold(tok, "repeat"):
		return p.parseRepeat()
	case p.isReservedFold(tok, "for"):
		return p.parseFor()
	case p.isReservedFold(tok, "exit"):
		p.next()
		return &ast.Node{Kind: ast.KindExit, Line: tok.Line}, nil
	case tok.Kind == token.Identifier:
		return p.parseAssignmentOrCall(tok)
	}
	return nil, p.errAt(tok, "unexpected token %q in statement", tok.Text)
}

// parseAssignmentOrCall disambiguates, on a leading identifier, between
// a function-result assignment (`FuncName := expr` inside FuncName's
// own body), a procedure-call statement, and an ordinary designator
// assignment.
func (p *Parser) parseAssignmentOrCall(tok token.Token) (*ast.Node, error) {
	p.next()
	folded := strings.ToLower(tok.Text)
	if p.currentFunction != nil && strings.ToLower(p.currentFunction.Name) == folded {
		if _, err := p.expectSymbolTok(":="); err != nil {
			return nil, err
		}
		rhs, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		casted, _, err := p.castTo(rhs, p.currentFunction.Type.ReturnType, tok)
		if err != nil {
			return nil, err
		}
		lhsNode := &ast.Node{Kind: ast.KindIdentifier, Name: tok.Text, Line: tok.Line, ExprType: p.currentFunction.Type.ReturnType}
		return &ast.Node{Kind: ast.KindAssignment, LHS: lhsNode, RHS: casted, Line: tok.Line}, nil
	}

	lookup, ok := p.scope.Lookup(tok.Text)
	if !ok {
		return nil, p.errAt(tok, "unknown identifier %q", tok.Text)
	}
	sym := lookup.Symbol
	if sym.Type != nil && sym.Type.Kind == ast.KindSubprogramType {
		args, _, err := p.parseCallArguments(sym, tok)
		if err != nil {
			return nil, err
		}
		ret := sym.Type.ReturnType
		if ret != nil && !(ret.Kind == ast.KindSimpleType && ret.Code == ast.Void) {
			return nil, p.errAt(tok, "%s returns a value and cannot be used as a statement", sym.Name)
		}
		callee := &ast.Node{Kind: ast.KindIdentifier, Name: sym.Name, Lookup: lookup, Line: tok.Line}
		return &ast.Node{Kind: ast.KindProcedureCall, Callee: callee, Args: args, Line: tok.Line}, nil
	}

	node := &ast.Node{Kind: ast.KindIdentifier, Name: tok.Text, Lookup: lookup, ExprType: sym.Type, Line: tok.Line}
	lhs, err := p.parsePostfix(node)
	if err != nil {
		return nil, err
	}
	if _, err := p.expectSymbolTok(":="); err != nil {
		return nil, err
	}
	rhs, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	casted, _, err := p.castTo(rhs, lhs.ExprType, tok)
	if err != nil {
		return nil, err
	}
	return &ast.Node{Kind: ast.KindAssignment, LHS: lhs, RHS: casted, Line: tok.Line}, nil
}

func (p *Parser) parseIf() (*ast.Node, error) {
	ifTok, err := p.expectReserved("if")
	if err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.requireBoolean(cond, ifTok); err != nil {
		return nil, err
	}
	if _, err := p.expectReserved("then"); err != nil {
		return nil, err
	}
	thenStmt, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	node := &ast.Node{Kind: ast.KindIf, Cond: cond, Then: thenStmt, Line: ifTok.Line}
	tok, err := p.peek()
	if err != nil {
		return nil, err
	}
	if p.isReservedFold(tok, "else") {
		p.next()
		elseStmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		node.Else = elseStmt
	}
	return node, nil
}

func (p *Parser) parseWhile() (*ast.Node, error) {
	whileTok, err := p.expectReserved("while")
	if err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.requireBoolean(cond, whileTok); err != nil {
		return nil, err
	}
	if _, err := p.expectReserved("do"); err != nil {
		return nil, err
	}
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	return &ast.Node{Kind: ast.KindWhile, Cond: cond, Body: body, Line: whileTok.Line}, nil
}

func (p *Parser) parseRepeat() (*ast.Node, error) {
	repTok, err := p.expectReserved("repeat")
	if err != nil {
		return nil, err
	}
	stmts, err := p.parseStatementSequence("until")
	if err != nil {
		return nil, err
	}
	if _, err := p.expectReserved("until"); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.requireBoolean(cond, repTok); err != nil {
		return nil, err
	}
	return &ast.Node{Kind: ast.KindRepeat, Statements: stmts, Cond: cond, Line: repTok.Line}, nil
}

func (p *Parser) parseFor() (*ast.Node, error) {
	forTok, err := p.expectReserved("for")
	if err != nil {
		return nil, err
	}
	varTok, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}
	lookup, ok := p.scope.Lookup(varTok.Text)
	if !ok {
		return nil, p.errAt(varTok, "unknown identifier %q", varTok.Text)
	}
	if lookup.Symbol.Type == nil || lookup.Symbol.Type.Kind != ast.KindSimpleType {
		return nil, p.errAt(varTok, "for-loop variable must be simple-typed")
	}
	loopVar := &ast.Node{Kind: ast.KindIdentifier, Name: varTok.Text, Lookup: lookup, ExprType: lookup.Symbol.Type, Line: varTok.Line}
	if _, err := p.expectSymbolTok(":="); err != nil {
		return nil, err
	}
	startExpr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	startCast, _, err := p.castTo(startExpr, loopVar.ExprType, varTok)
	if err != nil {
		return nil, err
	}
	dirTok, err := p.next()
	if err != nil {
		return nil, err
	}
	down := false
	if p.isReservedFold(dirTok, "downto") {
		down = true
	} else if !p.isReservedFold(dirTok, "to") {
		return nil, p.errAt(dirTok, "expected 'to' or 'downto'")
	}
	endExpr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	endCast, _, err := p.castTo(endExpr, loopVar.ExprType, dirTok)
	if err != nil {
		return nil, err
	}
	if _, err := p.expectReserved("do"); err != nil {
		return nil, err
	}
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	return &ast.Node{Kind: ast.KindFor, Var: loopVar, Start: startCast, End: endCast, Down: down, Body: body, Line: forTok.Line}, nil
}
