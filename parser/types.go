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
	"github.com/lkesteloot/turbopascal/ast"
	"github.com/lkesteloot/turbopascal/token"
)

// pendingPointer records a `^Name` type expression seen inside a type
// section before Name has necessarily been declared yet; parseTypeSection
// back-patches every entry once the whole section has been parsed,
// giving forward-referencing pointer types (e.g. a linked-list node
// pointing at itself) a two-phase resolution instead of requiring
// textual order.
type pendingPointer struct {
	node *ast.Node
	name string
	tok  token.Token
}

func (p *Parser) parseTypeSection(node *ast.Node) error {
	if _, err := p.expectReserved("type"); err != nil {
		return err
	}
	var pending []pendingPointer
	for {
		tok, err := p.peek()
		if err != nil {
			return err
		}
		if tok.Kind != token.Identifier {
			break
		}
		nameTok, _ := p.next()
		if _, err := p.expectSymbolTok("="); err != nil {
			return err
		}
		typeExpr, err := p.parseTypeExpr(&pending)
		if err != nil {
			return err
		}
		if !p.scope.DeclareType(nameTok.Text, typeExpr) {
			return p.errAt(nameTok, "duplicate type %q", nameTok.Text)
		}
		node.Types = append(node.Types, &ast.Node{Kind: ast.KindType, Name: nameTok.Text, TypeExpr: typeExpr, Line: nameTok.Line})
		if _, err := p.expectSymbolTok(";"); err != nil {
			return err
		}
	}
	for _, pp := range pending {
		t, ok := p.scope.LookupType(pp.name)
		if !ok {
			return p.errAt(pp.tok, "unresolved pointer type %q", pp.name)
		}
		pp.node.Pointee = t
	}
	return nil
}

// parseTypeExpr parses one type expression: a named type, `^Name`, an
// array type or a record type. pending is non-nil only while parsing a
// type section, where a `^Name` naming a not-yet-declared type is
// allowed and back-patched afterwards; elsewhere (var/parameter/field
// types) an unresolved pointee is a hard error since there is no later
// point at which it could be patched.
func (p *Parser) parseTypeExpr(pending *[]pendingPointer) (*ast.Node, error) {
	tok, err := p.next()
	if err != nil {
		return nil, err
	}
	switch {
	case p.isSymbol(tok, "^"):
		nameTok, err := p.expectIdentifier()
		if err != nil {
			return nil, err
		}
		if t, ok := p.scope.LookupType(nameTok.Text); ok {
			return ast.NewPointerType(t), nil
		}
		if pending == nil {
			return nil, p.errAt(nameTok, "unknown type %q", nameTok.Text)
		}
		node := ast.NewPointerType(nil)
		*pending = append(*pending, pendingPointer{node: node, name: nameTok.Text, tok: nameTok})
		return node, nil
	case p.isReservedFold(tok, "array"):
		return p.parseArrayType(tok, pending)
	case p.isReservedFold(tok, "record"):
		return p.parseRecordType(tok, pending)
	case tok.Kind == token.Identifier:
		t, ok := p.scope.LookupType(tok.Text)
		if !ok {
			return nil, p.errAt(tok, "unknown type %q", tok.Text)
		}
		return t, nil
	}
	return nil, p.errAt(tok, "expected a type")
}

func (p *Parser) parseArrayType(tok token.Token, pending *[]pendingPointer) (*ast.Node, error) {
	if _, err := p.expectSymbolTok("["); err != nil {
		return nil, err
	}
	var dims []*ast.Node
	for {
		r, err := p.parseConstRange()
		if err != nil {
			return nil, err
		}
		dims = append(dims, r)
		t2, err := p.peek()
		if err != nil {
			return nil, err
		}
		if p.isSymbol(t2, ",") {
			p.next()
			continue
		}
		break
	}
	if _, err := p.expectSymbolTok("]"); err != nil {
		return nil, err
	}
	if _, err := p.expectReserved("of"); err != nil {
		return nil, err
	}
	elem, err := p.parseTypeExpr(pending)
	if err != nil {
		return nil, err
	}
	return &ast.Node{Kind: ast.KindArrayType, Dims: dims, ElemType: elem, Line: tok.Line}, nil
}

func (p *Parser) parseConstRange() (*ast.Node, error) {
	lowTok, err := p.peek()
	if err != nil {
		return nil, err
	}
	low, err := p.parseConstIntValue()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectSymbolTok(".."); err != nil {
		return nil, err
	}
	high, err := p.parseConstIntValue()
	if err != nil {
		return nil, err
	}
	if high < low {
		return nil, p.errAt(lowTok, "array range high bound must not be less than low bound")
	}
	return &ast.Node{Kind: ast.KindRange, LowVal: low, HighVal: high, Line: lowTok.Line}, nil
}

// parseConstIntValue parses an (optionally negated) integer literal or
// a reference to an already-declared untyped integer constant, the two
// forms a Turbo Pascal array bound may take.
func (p *Parser) parseConstIntValue() (int64, error) {
	tok, err := p.next()
	if err != nil {
		return 0, err
	}
	neg := false
	if p.isSymbol(tok, "-") {
		neg = true
		tok, err = p.next()
		if err != nil {
			return 0, err
		}
	}
	switch tok.Kind {
	case token.Number:
		iv, isReal, _, err := parseNumberText(tok)
		if err != nil {
			return 0, err
		}
		if isReal {
			return 0, p.errAt(tok, "expected an integer constant")
		}
		if neg {
			iv = -iv
		}
		return iv, nil
	case token.Identifier:
		lookup, ok := p.scope.Lookup(tok.Text)
		if !ok {
			return 0, p.errAt(tok, "unknown identifier %q", tok.Text)
		}
		iv, ok := lookup.Symbol.Value.(int64)
		if !ok {
			return 0, p.errAt(tok, "%q is not an integer constant", tok.Text)
		}
		if neg {
			iv = -iv
		}
		return iv, nil
	}
	return 0, p.errAt(tok, "expected an integer constant")
}

func (p *Parser) parseRecordType(tok token.Token, pending *[]pendingPointer) (*ast.Node, error) {
	var fields []*ast.Node
	offset := 0
	for {
		t2, err := p.peek()
		if err != nil {
			return nil, err
		}
		if p.isReservedFold(t2, "end") {
			break
		}
		names, err := p.parseNameList()
		if err != nil {
			return nil, err
		}
		if _, err := p.expectSymbolTok(":"); err != nil {
			return nil, err
		}
		fieldType, err := p.parseTypeExpr(pending)
		if err != nil {
			return nil, err
		}
		size := ast.SizeOf(fieldType)
		for _, n := range names {
			fields = append(fields, &ast.Node{Kind: ast.KindField, Name: n.Text, FieldType: fieldType, Offset: offset, Line: n.Line})
			offset += size
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
	if _, err := p.expectReserved("end"); err != nil {
		return nil, err
	}
	return &ast.Node{Kind: ast.KindRecordType, Fields: fields, Line: tok.Line}, nil
}

func findField(recType *ast.Node, name string) *ast.Node {
	for _, f := range recType.Fields {
		if foldEqual(f.Name, name) {
			return f
		}
	}
	return nil
}

// parseTypedConstInit parses a typed constant's initializer against typ:
// a single literal for a simple type, or nested parenthesized,
// comma-separated, row-major lists for an array type, one pair of
// parens per dimension. Record-typed constant initializers are not
// supported.
func (p *Parser) parseTypedConstInit(typ *ast.Node) (*ast.RawData, error) {
	data := &ast.RawData{}
	if err := p.fillTypedConstInit(typ, data); err != nil {
		return nil, err
	}
	return data, nil
}

func (p *Parser) fillTypedConstInit(typ *ast.Node, data *ast.RawData) error {
	switch typ.Kind {
	case ast.KindRecordType:
		tok, err := p.peek()
		if err != nil {
			return err
		}
		return p.errAt(tok, "record-typed constants are not supported")
	case ast.KindArrayType:
		return p.fillArrayInit(typ, 0, data)
	default:
		tok, err := p.peek()
		if err != nil {
			return err
		}
		lit, err := p.parseConstPrimary()
		if err != nil {
			return err
		}
		v, code, err := p.coerceConstLiteral(lit, typ, tok)
		if err != nil {
			return err
		}
		data.Append(v, code)
		return nil
	}
}

func (p *Parser) fillArrayInit(typ *ast.Node, dim int, data *ast.RawData) error {
	if _, err := p.expectSymbolTok("("); err != nil {
		return err
	}
	d := typ.Dims[dim]
	count := int(d.HighVal-d.LowVal) + 1
	for i := 0; i < count; i++ {
		if i > 0 {
			if _, err := p.expectSymbolTok(","); err != nil {
				return err
			}
		}
		if dim+1 < len(typ.Dims) {
			if err := p.fillArrayInit(typ, dim+1, data); err != nil {
				return err
			}
		} else {
			if err := p.fillTypedConstInit(typ.ElemType, data); err != nil {
				return err
			}
		}
	}
	_, err := p.expectSymbolTok(")")
	return err
}

// parseConstPrimary parses the single literal form a typed constant's
// simple-typed element may take: an optionally-signed number, a string,
// a boolean literal or nil.
func (p *Parser) parseConstPrimary() (*ast.Node, error) {
	tok, err := p.next()
	if err != nil {
		return nil, err
	}
	neg := false
	if p.isSymbol(tok, "-") || p.isSymbol(tok, "+") {
		neg = p.isSymbol(tok, "-")
		tok, err = p.next()
		if err != nil {
			return nil, err
		}
	}
	switch tok.Kind {
	case token.Number:
		lit, err := parseNumberLiteral(tok)
		if err != nil {
			return nil, err
		}
		if neg {
			if lit.IsReal {
				lit.RealValue = -lit.RealValue
			} else {
				lit.IntValue = -lit.IntValue
			}
		}
		return lit, nil
	case token.String:
		if neg {
			return nil, p.errAt(tok, "cannot negate a string literal")
		}
		return stringLiteralNode(tok), nil
	case token.ReservedWord:
		switch tok.FoldedText() {
		case "true", "false":
			if neg {
				return nil, p.errAt(tok, "cannot negate a boolean literal")
			}
			return &ast.Node{Kind: ast.KindBoolean, BoolValue: tok.FoldedText() == "true", Line: tok.Line, ExprType: ast.NewSimpleType(ast.Boolean)}, nil
		case "nil":
			if neg {
				return nil, p.errAt(tok, "cannot negate nil")
			}
			return &ast.Node{Kind: ast.KindNilPointer, Line: tok.Line, ExprType: ast.NewPointerType(nil)}, nil
		}
	}
	return nil, p.errAt(tok, "expected a constant")
}

func (p *Parser) coerceConstLiteral(lit *ast.Node, want *ast.Node, tok token.Token) (interface{}, ast.TypeCode, error) {
	if want.Kind != ast.KindSimpleType {
		return nil, 0, p.errAt(tok, "typed constant element must have a simple type")
	}
	switch want.Code {
	case ast.Integer:
		if lit.Kind == ast.KindNumber && !lit.IsReal {
			return lit.IntValue, ast.Integer, nil
		}
	case ast.Real:
		if lit.Kind == ast.KindNumber {
			if lit.IsReal {
				return lit.RealValue, ast.Real, nil
			}
			return float64(lit.IntValue), ast.Real, nil
		}
	case ast.Boolean:
		if lit.Kind == ast.KindBoolean {
			return lit.BoolValue, ast.Boolean, nil
		}
	case ast.String:
		if lit.Kind == ast.KindString {
			return lit.StrValue, ast.String, nil
		}
	case ast.Char:
		if lit.Kind == ast.KindString && len(lit.StrValue) == 1 {
			return int64(lit.StrValue[0]), ast.Char, nil
		}
	case ast.Address:
		if lit.Kind == ast.KindNilPointer {
			return nil, ast.Address, nil
		}
	}
	return nil, 0, p.errAt(tok, "constant initializer does not match the declared type")
}

// constantValue folds an untyped const's initializer expression into a
// plain Go value (int64, float64, string, bool, or nil for a pointer),
// the form stored on Symbol.Value and later interned into the
// compiler's constant pool. Only literal expressions (optionally
// wrapped in a single unary minus) are foldable; per this language's
// "no formal error recovery" stance, anything richer is a parse error
// rather than a partial evaluation.
func constantValue(expr *ast.Node, tok token.Token, p *Parser) (interface{}, error) {
	switch expr.Kind {
	case ast.KindNumber:
		if expr.IsReal {
			return expr.RealValue, nil
		}
		return expr.IntValue, nil
	case ast.KindString:
		if expr.ExprType.Code == ast.Char {
			return int64(expr.StrValue[0]), nil
		}
		return expr.StrValue, nil
	case ast.KindBoolean:
		return expr.BoolValue, nil
	case ast.KindNilPointer:
		return nil, nil
	case ast.KindUnary:
		if expr.Op == "-" {
			v, err := constantValue(expr.Operand, tok, p)
			if err != nil {
				return nil, err
			}
			switch n := v.(type) {
			case int64:
				return -n, nil
			case float64:
				return -n, nil
			}
		}
	}
	return nil, p.errAt(tok, "const initializer must be a constant expression")
}
