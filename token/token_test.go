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

package token_test

import (
	"testing"

	"github.com/lkesteloot/turbopascal/token"
)

func scanAll(t *testing.T, src string) []token.Token {
	t.Helper()
	l := token.NewLexer(src)
	var toks []token.Token
	for {
		tok, err := l.Next()
		if err != nil {
			t.Fatalf("unexpected lex error: %v", err)
		}
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			return toks
		}
	}
}

func TestLexerIdentifiersAndReservedWords(t *testing.T) {
	toks := scanAll(t, "Program Foo begin i_1 end.")
	want := []struct {
		kind token.Kind
		text string
	}{
		{token.ReservedWord, "Program"},
		{token.Identifier, "Foo"},
		{token.ReservedWord, "begin"},
		{token.Identifier, "i_1"},
		{token.ReservedWord, "end"},
		{token.Symbol, "."},
		{token.EOF, ""},
	}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(toks), len(want), toks)
	}
	for i, w := range want {
		if toks[i].Kind != w.kind || toks[i].Text != w.text {
			t.Errorf("token %d: got {%v %q}, want {%v %q}", i, toks[i].Kind, toks[i].Text, w.kind, w.text)
		}
	}
}

func TestLexerNumberDotDotDisambiguation(t *testing.T) {
	toks := scanAll(t, "1..3")
	want := []struct {
		kind token.Kind
		text string
	}{
		{token.Number, "1"},
		{token.Symbol, ".."},
		{token.Number, "3"},
		{token.EOF, ""},
	}
	for i, w := range want {
		if toks[i].Kind != w.kind || toks[i].Text != w.text {
			t.Errorf("token %d: got {%v %q}, want {%v %q}", i, toks[i].Kind, toks[i].Text, w.kind, w.text)
		}
	}
}

func TestLexerRealNumber(t *testing.T) {
	toks := scanAll(t, "3.14 + 2")
	if toks[0].Kind != token.Number || toks[0].Text != "3.14" {
		t.Errorf("got %+v, want real 3.14", toks[0])
	}
}

func TestLexerStringWithEscapedQuote(t *testing.T) {
	toks := scanAll(t, "'it''s ok'")
	if toks[0].Kind != token.String || toks[0].Text != "it's ok" {
		t.Errorf("got %+v, want string `it's ok`", toks[0])
	}
}

func TestLexerComments(t *testing.T) {
	l := token.NewLexer("{ a comment } begin (* another *) end")
	stripped := token.NewCommentStripper(l)
	var kinds []token.Kind
	for {
		tok, err := stripped.Next()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		kinds = append(kinds, tok.Kind)
		if tok.Kind == token.EOF {
			break
		}
	}
	want := []token.Kind{token.ReservedWord, token.ReservedWord, token.EOF}
	if len(kinds) != len(want) {
		t.Fatalf("got %d tokens after stripping, want %d", len(kinds), len(want))
	}
	for i, k := range want {
		if kinds[i] != k {
			t.Errorf("token %d: got %v, want %v", i, kinds[i], k)
		}
	}
}

func TestLexerLongestMatchSymbols(t *testing.T) {
	toks := scanAll(t, ":= <> <= >= << >> : < >")
	want := []string{":=", "<>", "<=", ">=", "<<", ">>", ":", "<", ">", ""}
	for i, w := range want {
		if toks[i].Text != w {
			t.Errorf("token %d: got %q, want %q", i, toks[i].Text, w)
		}
	}
}

func TestLexerEOFIsSticky(t *testing.T) {
	l := token.NewLexer("")
	for i := 0; i < 3; i++ {
		tok, err := l.Next()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if tok.Kind != token.EOF {
			t.Fatalf("call %d: got %v, want EOF", i, tok.Kind)
		}
	}
}

func TestLexerUnknownCharacter(t *testing.T) {
	l := token.NewLexer("$")
	if _, err := l.Next(); err == nil {
		t.Fatal("expected a lex error for '$'")
	}
}

func TestLexerPeekDoesNotConsume(t *testing.T) {
	l := token.NewLexer("foo bar")
	p1, err := l.Peek()
	if err != nil {
		t.Fatal(err)
	}
	p2, err := l.Peek()
	if err != nil {
		t.Fatal(err)
	}
	if p1 != p2 {
		t.Fatalf("Peek is not idempotent: %+v != %+v", p1, p2)
	}
	n, err := l.Next()
	if err != nil {
		t.Fatal(err)
	}
	if n != p1 {
		t.Fatalf("Next after Peek returned %+v, want %+v", n, p1)
	}
}
