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

package token

import (
	"strings"
	"unicode"

	"github.com/lkesteloot/turbopascal/tp3err"
)

// The fixed symbol set, two-rune symbols checked first so the lookup
// always prefers the longer match. '.' and '..' are required by record
// field designators and array ranges.
var twoRuneSymbols = map[string]bool{
	":=": true, "<>": true, "<<": true, "<=": true,
	">>": true, ">=": true, "..": true,
}

var oneRuneSymbols = map[rune]bool{
	'<': true, ':': true, '>': true, '-': true, '+': true, '*': true,
	'/': true, ';': true, ',': true, '[': true, ']': true, '(': true,
	')': true, '=': true, '^': true, '@': true, '.': true,
}

type runeAt struct {
	r    rune
	line int
}

// Lexer turns Pascal source text into a lazy sequence of Tokens via Peek
// and Next. It recognizes comments, identifiers, numbers, strings and
// symbols per the source language's lexical grammar.
type Lexer struct {
	s       *Stream
	unread  []runeAt
	peeked  *Token
	peekErr error
	atEOF   bool
}

// NewLexer creates a Lexer over src.
func NewLexer(src string) *Lexer {
	return &Lexer{s: NewStream(src)}
}

func (l *Lexer) readRune() runeAt {
	if n := len(l.unread); n > 0 {
		ra := l.unread[n-1]
		l.unread = l.unread[:n-1]
		return ra
	}
	r, line := l.s.next()
	return runeAt{r, line}
}

func (l *Lexer) unreadRune(ra runeAt) {
	l.unread = append(l.unread, ra)
}

// Peek returns the next token without consuming it.
func (l *Lexer) Peek() (Token, error) {
	if l.peeked == nil && l.peekErr == nil {
		tok, err := l.scan()
		l.peeked = &tok
		l.peekErr = err
	}
	if l.peekErr != nil {
		return Token{}, l.peekErr
	}
	return *l.peeked, nil
}

// Next consumes and returns the next token.
func (l *Lexer) Next() (Token, error) {
	if l.peeked != nil || l.peekErr != nil {
		tok, err := *l.peeked, l.peekErr
		l.peeked, l.peekErr = nil, nil
		return tok, err
	}
	return l.scan()
}

func isDigit(r rune) bool  { return r >= '0' && r <= '9' }
func isLetter(r rune) bool { return unicode.IsLetter(r) || r == '_' }

// scan reads and classifies exactly one token from the stream. EOF is
// sticky: once produced it is returned again on every subsequent call.
func (l *Lexer) scan() (Token, error) {
	if l.atEOF {
		return Token{Kind: EOF, Line: l.s.Line()}, nil
	}

	ra := l.skipSpace()
	switch {
	case ra.r == eof:
		l.atEOF = true
		return Token{Kind: EOF, Line: ra.line}, nil
	case ra.r == '{':
		return l.scanBraceComment(ra.line)
	case ra.r == '(' && l.peekIs('*'):
		l.readRune() // consume '*'
		return l.scanParenComment(ra.line)
	case isLetter(ra.r):
		return l.scanIdentifier(ra)
	case isDigit(ra.r):
		return l.scanNumber(ra)
	case ra.r == '\'':
		return l.scanString(ra.line)
	default:
		return l.scanSymbol(ra)
	}
}

func (l *Lexer) skipSpace() runeAt {
	for {
		ra := l.readRune()
		if ra.r == ' ' || ra.r == '\t' || ra.r == '\n' || ra.r == '\r' || ra.r == '\f' || ra.r == '\v' {
			continue
		}
		return ra
	}
}

// peekIs reports whether the next rune (without consuming it) equals r.
func (l *Lexer) peekIs(r rune) bool {
	ra := l.readRune()
	l.unreadRune(ra)
	return ra.r == r
}

func (l *Lexer) scanBraceComment(line int) (Token, error) {
	var sb strings.Builder
	sb.WriteRune('{')
	for {
		ra := l.readRune()
		if ra.r == eof {
			return Token{}, tp3err.At(tp3err.Lex, tp3err.Token{Text: sb.String(), Line: line}, "unterminated comment")
		}
		sb.WriteRune(ra.r)
		if ra.r == '}' {
			return Token{Kind: Comment, Text: sb.String(), Line: line}, nil
		}
	}
}

func (l *Lexer) scanParenComment(line int) (Token, error) {
	sb := strings.Builder{}
	sb.WriteString("(*")
	for {
		ra := l.readRune()
		if ra.r == eof {
			return Token{}, tp3err.At(tp3err.Lex, tp3err.Token{Text: sb.String(), Line: line}, "unterminated comment")
		}
		sb.WriteRune(ra.r)
		if ra.r == '*' && l.peekIs(')') {
			end := l.readRune()
			sb.WriteRune(end.r)
			return Token{Kind: Comment, Text: sb.String(), Line: line}, nil
		}
	}
}

func (l *Lexer) scanIdentifier(first runeAt) (Token, error) {
	var sb strings.Builder
	sb.WriteRune(first.r)
	for {
		ra := l.readRune()
		if isLetter(ra.r) || isDigit(ra.r) {
			sb.WriteRune(ra.r)
			continue
		}
		l.unreadRune(ra)
		break
	}
	text := sb.String()
	kind := Identifier
	if IsReservedWord(strings.ToLower(text)) {
		kind = ReservedWord
	}
	return Token{Kind: kind, Text: text, Line: first.line}, nil
}

func (l *Lexer) scanNumber(first runeAt) (Token, error) {
	var sb strings.Builder
	sb.WriteRune(first.r)
	for {
		ra := l.readRune()
		if isDigit(ra.r) {
			sb.WriteRune(ra.r)
			continue
		}
		l.unreadRune(ra)
		break
	}
	// at most one '.', unless it's the start of the '..' range symbol, in
	// which case it terminates the number instead of being consumed.
	dot := l.readRune()
	if dot.r == '.' {
		next := l.readRune()
		if next.r == '.' {
			// range symbol: push both dots back, number ends here.
			l.unreadRune(next)
			l.unreadRune(dot)
		} else {
			l.unreadRune(next)
			sb.WriteRune('.')
			for {
				ra := l.readRune()
				if isDigit(ra.r) {
					sb.WriteRune(ra.r)
					continue
				}
				l.unreadRune(ra)
				break
			}
		}
	} else {
		l.unreadRune(dot)
	}
	return Token{Kind: Number, Text: sb.String(), Line: first.line}, nil
}

func (l *Lexer) scanString(line int) (Token, error) {
	var sb strings.Builder
	for {
		ra := l.readRune()
		if ra.r == eof {
			return Token{}, tp3err.At(tp3err.Lex, tp3err.Token{Text: sb.String(), Line: line}, "unterminated string")
		}
		if ra.r == '\'' {
			if l.peekIs('\'') {
				l.readRune()
				sb.WriteRune('\'')
				continue
			}
			return Token{Kind: String, Text: sb.String(), Line: line}, nil
		}
		sb.WriteRune(ra.r)
	}
}

func (l *Lexer) scanSymbol(first runeAt) (Token, error) {
	second := l.readRune()
	if second.r != eof {
		two := string([]rune{first.r, second.r})
		if twoRuneSymbols[two] {
			return Token{Kind: Symbol, Text: two, Line: first.line}, nil
		}
	}
	l.unreadRune(second)
	if oneRuneSymbols[first.r] {
		return Token{Kind: Symbol, Text: string(first.r), Line: first.line}, nil
	}
	return Token{}, tp3err.At(tp3err.Lex, tp3err.Token{Text: string(first.r), Line: first.line}, "unknown character %q", first.r)
}
