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

import "strings"

// Kind discriminates the kinds of token the lexer produces.
type Kind int

// Token kinds.
const (
	Identifier Kind = iota
	Number
	Symbol
	Comment
	String
	EOF
	ReservedWord
)

func (k Kind) String() string {
	switch k {
	case Identifier:
		return "identifier"
	case Number:
		return "number"
	case Symbol:
		return "symbol"
	case Comment:
		return "comment"
	case String:
		return "string"
	case EOF:
		return "eof"
	case ReservedWord:
		return "reserved word"
	default:
		return "unknown"
	}
}

// Token is a single lexical token. Identifier and reserved-word
// comparisons are case-insensitive (fold Text with strings.ToLower at
// lookup time); symbol comparisons are always exact.
type Token struct {
	Kind Kind
	Text string
	Line int
}

// FoldedText returns Text lower-cased, the form used for reserved-word
// and identifier lookups.
func (t Token) FoldedText() string {
	return strings.ToLower(t.Text)
}

// reservedWords is the fixed Turbo Pascal 3 reserved-word set. Matching
// is case-insensitive. The predefined type names (Integer, Real, ...)
// are not in it: they lex as identifiers and resolve through the scope
// __builtin__ declares them into.
var reservedWords = map[string]bool{
	"and": true, "array": true, "begin": true,
	"case": true, "const": true, "div": true,
	"do": true, "downto": true, "else": true, "end": true,
	"exit": true, "false": true, "for": true, "function": true,
	"if": true, "in": true, "mod": true,
	"nil": true, "not": true, "of": true, "or": true,
	"procedure": true, "program": true, "record": true,
	"repeat": true, "set": true, "then": true,
	"to": true, "true": true, "type": true, "until": true,
	"uses": true, "var": true, "while": true,
}

// IsReservedWord reports whether s (already case-folded) is a reserved
// word.
func IsReservedWord(foldedText string) bool {
	return reservedWords[foldedText]
}
