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

// TokenSource is implemented by anything producing a lazy token sequence;
// Lexer and CommentStripper both satisfy it, so a CommentStripper can
// wrap another CommentStripper without special-casing.
type TokenSource interface {
	Peek() (Token, error)
	Next() (Token, error)
}

// CommentStripper wraps a TokenSource and silently drops Comment tokens
// from both Peek and Next, so the parser never has to think about them.
type CommentStripper struct {
	src TokenSource
}

// NewCommentStripper wraps src.
func NewCommentStripper(src TokenSource) *CommentStripper {
	return &CommentStripper{src: src}
}

func (c *CommentStripper) Peek() (Token, error) {
	for {
		tok, err := c.src.Peek()
		if err != nil || tok.Kind != Comment {
			return tok, err
		}
		if _, err := c.src.Next(); err != nil {
			return Token{}, err
		}
	}
}

func (c *CommentStripper) Next() (Token, error) {
	for {
		tok, err := c.src.Next()
		if err != nil || tok.Kind != Comment {
			return tok, err
		}
	}
}
