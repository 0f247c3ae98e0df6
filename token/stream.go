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

// eof is returned by Stream.next once the source is exhausted. It is not
// a valid source rune (Pascal 3 source is 7-bit clean ASCII).
const eof = rune(-1)

// Stream is a character cursor over Pascal source text with one-rune
// push-back and line tracking, the leaf component every other piece of
// the lexer builds on.
type Stream struct {
	src  []rune
	pos  int
	line int

	pushed     rune
	hasPushed  bool
	pushedLine int
}

// NewStream creates a Stream over the given source text. Line numbers
// start at 1.
func NewStream(src string) *Stream {
	return &Stream{src: []rune(src), line: 1}
}

// next consumes and returns the next rune in the stream, or eof. It
// returns the line number the rune was read on.
func (s *Stream) next() (rune, int) {
	if s.hasPushed {
		s.hasPushed = false
		return s.pushed, s.pushedLine
	}
	if s.pos >= len(s.src) {
		return eof, s.line
	}
	r := s.src[s.pos]
	s.pos++
	line := s.line
	if r == '\n' {
		s.line++
	}
	return r, line
}

// push puts r back so the next call to next returns it again. Only one
// level of push-back is supported. The Lexer does not call it: it keeps
// its own buffer of unread runes (see Lexer.unreadRune).
func (s *Stream) push(r rune, line int) {
	s.pushed = r
	s.pushedLine = line
	s.hasPushed = true
}

// Line returns the current line number (the line the next rune will be
// read from).
func (s *Stream) Line() int {
	if s.hasPushed {
		return s.pushedLine
	}
	return s.line
}
