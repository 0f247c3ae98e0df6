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
	"strconv"
	"strings"

	"github.com/lkesteloot/turbopascal/ast"
	"github.com/lkesteloot/turbopascal/token"
	"github.com/lkesteloot/turbopascal/tp3err"
)

func tp3errInvalidNumber(tok token.Token) error {
	return tp3err.At(tp3err.Parse, tp3err.Token{Text: tok.Text, Line: tok.Line}, "invalid number literal %q", tok.Text)
}

// parseExpression climbs the grammar's precedence ladder: relational
// (weakest) over additive (+, -, or) over multiplicative (*, /, div,
// mod, and) over unary (-, +, not) over primary (strongest).
func (p *Parser) parseExpression() (*ast.Node, error) {
	return p.parseRelational()
}

func (p *Parser) parseRelational() (*ast.Node, error) {
	lhs, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		if !isRelationalOp(tok) {
			return lhs, nil
		}
		p.next()
		rhs, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		lhs, err = p.buildRelational(lhs, tok, rhs)
		if err != nil {
			return nil, err
		}
	}
}

func isRelationalOp(tok token.Token) bool {
	if tok.Kind != token.Symbol {
		return false
	}
	switch tok.Text {
	case "=", "<>", "<", ">", "<=", ">=":
		return true
	}
	return false
}

func (p *Parser) parseAdditive() (*ast.Node, error) {
	lhs, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		if !isAdditiveOp(tok) {
			return lhs, nil
		}
		p.next()
		rhs, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		lhs, err = p.buildAdditive(lhs, tok, rhs)
		if err != nil {
			return nil, err
		}
	}
}

func isAdditiveOp(tok token.Token) bool {
	if tok.Kind == token.Symbol && (tok.Text == "+" || tok.Text == "-") {
		return true
	}
	return tok.Kind == token.ReservedWord && tok.FoldedText() == "or"
}

func (p *Parser) parseMultiplicative() (*ast.Node, error) {
	lhs, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		if !isMultiplicativeOp(tok) {
			return lhs, nil
		}
		p.next()
		rhs, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		lhs, err = p.buildMultiplicative(lhs, tok, rhs)
		if err != nil {
			return nil, err
		}
	}
}

func isMultiplicativeOp(tok token.Token) bool {
	if tok.Kind == token.Symbol && (tok.Text == "*" || tok.Text == "/") {
		return true
	}
	if tok.Kind == token.ReservedWord {
		switch tok.FoldedText() {
		case "div", "mod", "and":
			return true
		}
	}
	return false
}

func (p *Parser) parseUnary() (*ast.Node, error) {
	tok, err := p.peek()
	if err != nil {
		return nil, err
	}
	if p.isSymbol(tok, "-") || p.isSymbol(tok, "+") {
		p.next()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		if !isNumeric(operand.ExprType) {
			return nil, p.errAt(tok, "unary %s requires a numeric operand", tok.Text)
		}
		if tok.Text == "+" {
			return operand, nil
		}
		return &ast.Node{Kind: ast.KindUnary, Op: "-", Operand: operand, ExprType: operand.ExprType, Line: tok.Line}, nil
	}
	if p.isReservedFold(tok, "not") {
		p.next()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		if !isBoolean(operand.ExprType) {
			return nil, p.errAt(tok, "not requires a boolean operand")
		}
		return &ast.Node{Kind: ast.KindUnary, Op: "not", Operand: operand, ExprType: operand.ExprType, Line: tok.Line}, nil
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() (*ast.Node, error) {
	tok, err := p.next()
	if err != nil {
		return nil, err
	}
	switch {
	case p.isSymbol(tok, "("):
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expectSymbolTok(")"); err != nil {
			return nil, err
		}
		return expr, nil
	case tok.Kind == token.Number:
		return parseNumberLiteral(tok)
	case tok.Kind == token.String:
		return stringLiteralNode(tok), nil
	case p.isReservedFold(tok, "true"):
		return &ast.Node{Kind: ast.KindBoolean, BoolValue: true, Line: tok.Line, ExprType: ast.NewSimpleType(ast.Boolean)}, nil
	case p.isReservedFold(tok, "false"):
		return &ast.Node{Kind: ast.KindBoolean, BoolValue: false, Line: tok.Line, ExprType: ast.NewSimpleType(ast.Boolean)}, nil
	case p.isReservedFold(tok, "nil"):
		return &ast.Node{Kind: ast.KindNilPointer, Line: tok.Line, ExprType: ast.NewPointerType(nil)}, nil
	case p.isSymbol(tok, "@"):
		operand, err := p.parseDesignatorChain()
		if err != nil {
			return nil, err
		}
		return &ast.Node{Kind: ast.KindAddressOf, Operand: operand, Line: tok.Line, ExprType: ast.NewPointerType(operand.ExprType)}, nil
	case tok.Kind == token.Identifier:
		return p.resolveIdentifier(tok, true)
	}
	return nil, p.errAt(tok, "unexpected token %q", tok.Text)
}

func (p *Parser) parseDesignatorChain() (*ast.Node, error) {
	tok, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}
	return p.resolveIdentifier(tok, false)
}

// resolveIdentifier looks tok up in the current scope. When allowCall is
// set and the symbol names a subprogram, it is parsed as a call;
// otherwise it becomes a variable/constant reference, followed by any
// [index], .field or ^ postfix chain.
func (p *Parser) resolveIdentifier(tok token.Token, allowCall bool) (*ast.Node, error) {
	lookup, ok := p.scope.Lookup(tok.Text)
	if !ok {
		return nil, p.errAt(tok, "unknown identifier %q", tok.Text)
	}
	sym := lookup.Symbol
	if allowCall && sym.Type != nil && sym.Type.Kind == ast.KindSubprogramType {
		return p.parseFunctionCall(tok, lookup)
	}
	node := &ast.Node{Kind: ast.KindIdentifier, Name: tok.Text, Lookup: lookup, ExprType: sym.Type, Line: tok.Line}
	return p.parsePostfix(node)
}

func (p *Parser) parsePostfix(node *ast.Node) (*ast.Node, error) {
	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		switch {
		case p.isSymbol(tok, "["):
			p.next()
			var indices []*ast.Node
			for {
				idx, err := p.parseExpression()
				if err != nil {
					return nil, err
				}
				if !isIntegerType(idx.ExprType) {
					return nil, p.errAt(tok, "array index must be an integer")
				}
				indices = append(indices, idx)
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
			if node.ExprType == nil || node.ExprType.Kind != ast.KindArrayType {
				return nil, p.errAt(tok, "cannot index a non-array value")
			}
			if len(indices) != len(node.ExprType.Dims) {
				return nil, p.errAt(tok, "wrong number of array indices")
			}
			node = &ast.Node{Kind: ast.KindIndex, IndexBase: node, Indices: indices, ExprType: node.ExprType.ElemType, Line: tok.Line}
		case p.isSymbol(tok, "."):
			p.next()
			fieldTok, err := p.expectIdentifier()
			if err != nil {
				return nil, err
			}
			if node.ExprType == nil || node.ExprType.Kind != ast.KindRecordType {
				return nil, p.errAt(fieldTok, "cannot select a field of a non-record value")
			}
			field := findField(node.ExprType, fieldTok.Text)
			if field == nil {
				return nil, p.errAt(fieldTok, "unknown field %q", fieldTok.Text)
			}
			node = &ast.Node{Kind: ast.KindFieldDesignator, FieldBase: node, FieldName: fieldTok.Text, ExprType: field.FieldType, Line: fieldTok.Line}
		case p.isSymbol(tok, "^"):
			p.next()
			if !ast.IsPointer(node.ExprType) || node.ExprType.Pointee == nil {
				return nil, p.errAt(tok, "^ requires a typed pointer value")
			}
			node = &ast.Node{Kind: ast.KindDereference, Operand: node, ExprType: node.ExprType.Pointee, Line: tok.Line}
		default:
			return node, nil
		}
	}
}

// parseFunctionCall parses a call to a subprogram known to return a
// value; it is an error for the referenced subprogram to be void.
func (p *Parser) parseFunctionCall(tok token.Token, lookup *ast.SymbolLookup) (*ast.Node, error) {
	sym := lookup.Symbol
	args, wasCast, err := p.parseCallArguments(sym, tok)
	if err != nil {
		return nil, err
	}
	retType := sym.Type.ReturnType
	if retType == nil || (retType.Kind == ast.KindSimpleType && retType.Code == ast.Void) {
		return nil, p.errAt(tok, "%s does not return a value", sym.Name)
	}
	switch strings.ToLower(sym.Name) {
	case "random":
		if len(args) == 1 {
			retType = ast.NewSimpleType(ast.Integer)
		}
	case "abs":
		if wasCast != nil {
			retType = wasCast.ExprType
		}
	}
	callee := &ast.Node{Kind: ast.KindIdentifier, Name: sym.Name, Lookup: lookup, Line: tok.Line}
	return &ast.Node{Kind: ast.KindFunctionCall, Callee: callee, Args: args, ExprType: retType, WasCastOperand: wasCast, Line: tok.Line}, nil
}

// parseRawArgList parses an optional parenthesized, comma-separated
// argument-expression list, without casting against any callee.
func (p *Parser) parseRawArgList() ([]*ast.Node, error) {
	tok, err := p.peek()
	if err != nil {
		return nil, err
	}
	if !p.isSymbol(tok, "(") {
		return nil, nil
	}
	p.next()
	var args []*ast.Node
	t2, err := p.peek()
	if err != nil {
		return nil, err
	}
	if !p.isSymbol(t2, ")") {
		for {
			a, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			args = append(args, a)
			t3, err := p.peek()
			if err != nil {
				return nil, err
			}
			if p.isSymbol(t3, ",") {
				p.next()
				continue
			}
			break
		}
	}
	if _, err := p.expectSymbolTok(")"); err != nil {
		return nil, err
	}
	return args, nil
}

// parseCallArguments parses and type-checks the argument list for a
// call to sym, applying the New/Random/Inc call-site idiosyncrasies
// before falling back to ordinary fixed-arity checking and casting.
// wasCast is non-nil only for a single-argument Abs call whose argument
// was implicitly widened, letting the caller restore Abs's original
// argument type as its own return type.
func (p *Parser) parseCallArguments(sym *ast.Symbol, calleeTok token.Token) ([]*ast.Node, *ast.Node, error) {
	params := sym.Type.Params
	folded := strings.ToLower(sym.Name)
	rawArgs, err := p.parseRawArgList()
	if err != nil {
		return nil, nil, err
	}

	switch folded {
	case "writeln", "write":
		// WriteLn/Write take any number of arguments of any printable
		// type; the compiler dispatches each one by its own ExprType
		// rather than casting it against a fixed parameter list.
		return rawArgs, nil, nil
	case "new":
		return p.finishNewCall(rawArgs, calleeTok)
	case "random":
		return p.finishBoundedArityCall(rawArgs, params, calleeTok, sym.Name, 0, 1)
	case "inc":
		if len(rawArgs) == 1 {
			rawArgs = append(rawArgs, &ast.Node{
				Kind: ast.KindNumber, IntValue: 1, Line: calleeTok.Line,
				ExprType: ast.NewSimpleType(ast.Integer),
			})
		}
	}

	if len(rawArgs) != len(params) {
		return nil, nil, p.errAt(calleeTok, "%s expects %d argument(s), got %d", sym.Name, len(params), len(rawArgs))
	}
	return p.castCallArgs(rawArgs, params, calleeTok, folded)
}

func (p *Parser) finishBoundedArityCall(rawArgs []*ast.Node, params []*ast.Node, tok token.Token, name string, minArgs, maxArgs int) ([]*ast.Node, *ast.Node, error) {
	if len(rawArgs) < minArgs || len(rawArgs) > maxArgs {
		return nil, nil, p.errAt(tok, "%s expects between %d and %d argument(s), got %d", name, minArgs, maxArgs, len(rawArgs))
	}
	return p.castCallArgs(rawArgs, params[:len(rawArgs)], tok, strings.ToLower(name))
}

// finishNewCall implements the New(p) hidden-argument idiosyncrasy: the
// caller supplies only the pointer; the parser appends a synthetic
// integer literal holding the word size of the pointee type, which is
// what the native New procedure actually allocates.
func (p *Parser) finishNewCall(rawArgs []*ast.Node, tok token.Token) ([]*ast.Node, *ast.Node, error) {
	if len(rawArgs) != 1 {
		return nil, nil, p.errAt(tok, "New expects exactly one argument")
	}
	ptr := rawArgs[0]
	if !ast.IsPointer(ptr.ExprType) || ptr.ExprType.Pointee == nil {
		return nil, nil, p.errAt(tok, "New requires a typed pointer variable")
	}
	if !isDesignator(ptr) {
		return nil, nil, p.errAt(tok, "New requires a variable argument")
	}
	size := ast.SizeOf(ptr.ExprType.Pointee)
	sizeNode := &ast.Node{Kind: ast.KindNumber, IntValue: int64(size), Line: tok.Line, ExprType: ast.NewSimpleType(ast.Integer)}
	return []*ast.Node{ptr, sizeNode}, nil, nil
}

func (p *Parser) castCallArgs(rawArgs []*ast.Node, params []*ast.Node, tok token.Token, folded string) ([]*ast.Node, *ast.Node, error) {
	args := make([]*ast.Node, len(rawArgs))
	var wasCast *ast.Node
	for i, a := range rawArgs {
		pt := params[i].ParamType
		if params[i].ByReference {
			if !isDesignator(a) {
				return nil, nil, p.errAt(tok, "argument %d must be a variable", i+1)
			}
			args[i] = a
			continue
		}
		casted, original, err := p.castTo(a, pt, tok)
		if err != nil {
			return nil, nil, err
		}
		args[i] = casted
		if folded == "abs" && i == 0 && original != nil {
			wasCast = original
		}
	}
	return args, wasCast, nil
}

// castTo applies the implicit-cast rule: identical types pass through
// unchanged; integer widens to real; char widens to string; a pointer
// of one named type may flow into a slot of another only if one side is
// the generic Pointer type or the two denote the same pointee. Anything
// else is a hard type error. When a cast is inserted, the second return
// value is the original pre-cast node (nil otherwise).
func (p *Parser) castTo(expr *ast.Node, target *ast.Node, tok token.Token) (*ast.Node, *ast.Node, error) {
	src := expr.ExprType
	if typesIdentical(src, target) {
		return expr, nil, nil
	}
	if src != nil && target != nil && src.Kind == ast.KindSimpleType && target.Kind == ast.KindSimpleType {
		switch {
		case src.Code == ast.Integer && target.Code == ast.Real:
			return p.wrapFloatCast(expr), expr, nil
		case src.Code == ast.Char && target.Code == ast.String:
			return &ast.Node{Kind: ast.KindCast, Operand: expr, ExprType: target, Line: expr.Line, Op: "chars"}, nil, nil
		case src.Code == ast.Address && target.Code == ast.Address:
			if src.Pointee == nil || target.Pointee == nil || src.Pointee == target.Pointee {
				return &ast.Node{Kind: ast.KindCast, Operand: expr, ExprType: target, Line: expr.Line, Op: "ptr"}, nil, nil
			}
		}
	}
	return nil, nil, p.errAt(tok, "cannot implicitly convert to the target type")
}

func typesIdentical(a, b *ast.Node) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if a.Kind != b.Kind {
		return false
	}
	if a.Kind == ast.KindSimpleType {
		if a.Code != b.Code {
			return false
		}
		if a.Code == ast.Address {
			return a.Pointee == b.Pointee
		}
		return true
	}
	return false
}

func (p *Parser) wrapFloatCast(n *ast.Node) *ast.Node {
	return &ast.Node{Kind: ast.KindCast, Operand: n, ExprType: ast.NewSimpleType(ast.Real), Line: n.Line, Op: "float"}
}

func isNumeric(t *ast.Node) bool {
	return t != nil && t.Kind == ast.KindSimpleType && (t.Code == ast.Integer || t.Code == ast.Real)
}

func isBoolean(t *ast.Node) bool {
	return t != nil && t.Kind == ast.KindSimpleType && t.Code == ast.Boolean
}

func isIntegerType(t *ast.Node) bool {
	return t != nil && t.Kind == ast.KindSimpleType && t.Code == ast.Integer
}

// buildAdditive applies the + / - / or common-type rule: or requires
// two booleans; + and - require numeric operands, widening an integer
// operand to real when the other side is real.
func (p *Parser) buildAdditive(lhs *ast.Node, opTok token.Token, rhs *ast.Node) (*ast.Node, error) {
	if opTok.Kind == token.ReservedWord && opTok.FoldedText() == "or" {
		if !isBoolean(lhs.ExprType) || !isBoolean(rhs.ExprType) {
			return nil, p.errAt(opTok, "or requires boolean operands")
		}
		return &ast.Node{Kind: ast.KindBinary, Op: "or", Left: lhs, Right: rhs, ExprType: ast.NewSimpleType(ast.Boolean), Line: opTok.Line}, nil
	}
	l, r, ct, err := p.numericCommonType(lhs, rhs, opTok)
	if err != nil {
		return nil, err
	}
	return &ast.Node{Kind: ast.KindBinary, Op: opTok.Text, Left: l, Right: r, ExprType: ct, Line: opTok.Line}, nil
}

func (p *Parser) numericCommonType(lhs, rhs *ast.Node, tok token.Token) (*ast.Node, *ast.Node, *ast.Node, error) {
	lt, rt := lhs.ExprType, rhs.ExprType
	if !isNumeric(lt) || !isNumeric(rt) {
		return nil, nil, nil, p.errAt(tok, "operator requires numeric operands")
	}
	if lt.Code == rt.Code {
		return lhs, rhs, lt, nil
	}
	if lt.Code == ast.Integer {
		return p.wrapFloatCast(lhs), rhs, rt, nil
	}
	return lhs, p.wrapFloatCast(rhs), lt, nil
}

// buildMultiplicative applies the *, /, div, mod, and rules: "and"
// requires two booleans; div/mod require two integers with no
// widening; / always yields real, casting either side up from integer;
// * follows the ordinary numeric common-type rule.
func (p *Parser) buildMultiplicative(lhs *ast.Node, opTok token.Token, rhs *ast.Node) (*ast.Node, error) {
	text := opTok.Text
	if opTok.Kind == token.ReservedWord {
		text = opTok.FoldedText()
	}
	switch text {
	case "and":
		if !isBoolean(lhs.ExprType) || !isBoolean(rhs.ExprType) {
			return nil, p.errAt(opTok, "and requires boolean operands")
		}
		return &ast.Node{Kind: ast.KindBinary, Op: "and", Left: lhs, Right: rhs, ExprType: ast.NewSimpleType(ast.Boolean), Line: opTok.Line}, nil
	case "div", "mod":
		if !isIntegerType(lhs.ExprType) || !isIntegerType(rhs.ExprType) {
			return nil, p.errAt(opTok, "%s requires integer operands", text)
		}
		return &ast.Node{Kind: ast.KindBinary, Op: text, Left: lhs, Right: rhs, ExprType: ast.NewSimpleType(ast.Integer), Line: opTok.Line}, nil
	case "/":
		if !isNumeric(lhs.ExprType) || !isNumeric(rhs.ExprType) {
			return nil, p.errAt(opTok, "/ requires numeric operands")
		}
		l, r := lhs, rhs
		if l.ExprType.Code == ast.Integer {
			l = p.wrapFloatCast(l)
		}
		if r.ExprType.Code == ast.Integer {
			r = p.wrapFloatCast(r)
		}
		return &ast.Node{Kind: ast.KindBinary, Op: "/", Left: l, Right: r, ExprType: ast.NewSimpleType(ast.Real), Line: opTok.Line}, nil
	default: // "*"
		l, r, ct, err := p.numericCommonType(lhs, rhs, opTok)
		if err != nil {
			return nil, err
		}
		return &ast.Node{Kind: ast.KindBinary, Op: "*", Left: l, Right: r, ExprType: ct, Line: opTok.Line}, nil
	}
}

// buildRelational compares two operands of the same (or numerically
// widenable) simple type, always yielding boolean. Ordering operators
// (everything but = and <>) are restricted to integer, real, char and
// string, matching the primitive types this language can meaningfully
// order.
func (p *Parser) buildRelational(lhs *ast.Node, opTok token.Token, rhs *ast.Node) (*ast.Node, error) {
	lt, rt := lhs.ExprType, rhs.ExprType
	if lt == nil || rt == nil || lt.Kind != ast.KindSimpleType || rt.Kind != ast.KindSimpleType {
		return nil, p.errAt(opTok, "relational operators require simple-typed operands")
	}
	l, r := lhs, rhs
	common := lt.Code
	if lt.Code != rt.Code {
		switch {
		case lt.Code == ast.Integer && rt.Code == ast.Real:
			l = p.wrapFloatCast(lhs)
			common = ast.Real
		case lt.Code == ast.Real && rt.Code == ast.Integer:
			r = p.wrapFloatCast(rhs)
			common = ast.Real
		default:
			return nil, p.errAt(opTok, "incomparable operand types")
		}
	}
	if opTok.Text != "=" && opTok.Text != "<>" {
		if common != ast.Integer && common != ast.Real && common != ast.Char && common != ast.String {
			return nil, p.errAt(opTok, "operator %s is not defined for this type", opTok.Text)
		}
	}
	return &ast.Node{Kind: ast.KindBinary, Op: opTok.Text, Left: l, Right: r, ExprType: ast.NewSimpleType(ast.Boolean), Line: opTok.Line}, nil
}

// parseNumberText parses a number token's text into either an int64 or
// a float64, classified by the presence of a decimal point (the lexer
// only ever emits a Number token containing one if it scanned a
// fractional part, per the `.`-vs-`..` disambiguation in the lexer).
func parseNumberText(tok token.Token) (int64, bool, float64, error) {
	if strings.Contains(tok.Text, ".") {
		v, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil {
			return 0, false, 0, tp3errInvalidNumber(tok)
		}
		return 0, true, v, nil
	}
	v, err := strconv.ParseInt(tok.Text, 10, 64)
	if err != nil {
		return 0, false, 0, tp3errInvalidNumber(tok)
	}
	return v, false, 0, nil
}

func parseNumberLiteral(tok token.Token) (*ast.Node, error) {
	iv, isReal, rv, err := parseNumberText(tok)
	if err != nil {
		return nil, err
	}
	code := ast.Integer
	if isReal {
		code = ast.Real
	}
	return &ast.Node{Kind: ast.KindNumber, IntValue: iv, RealValue: rv, IsReal: isReal, Line: tok.Line, ExprType: ast.NewSimpleType(code)}, nil
}

// stringLiteralNode classifies a quoted literal as Char when it is
// exactly one character long and String otherwise; Turbo Pascal has no
// separate character-literal syntax, so a single-quoted literal's type
// depends on its length.
func stringLiteralNode(tok token.Token) *ast.Node {
	code := ast.String
	if len(tok.Text) == 1 {
		code = ast.Char
	}
	return &ast.Node{Kind: ast.KindString, StrValue: tok.Text, Line: tok.Line, ExprType: ast.NewSimpleType(code)}
}
