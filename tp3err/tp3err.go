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

// Package tp3err provides the single error category used across every
// stage of the toolchain (lex, parse, compile, run). Errors carry the
// offending token, when one is available, so the driver can report a line
// number without each stage re-deriving it.
package tp3err

import (
	"fmt"

	"github.com/pkg/errors"
)

// Stage identifies which pipeline stage raised an Error.
type Stage int

// Pipeline stages, in the order the toolchain runs them.
const (
	Lex Stage = iota
	Parse
	Compile
	Run
)

func (s Stage) String() string {
	switch s {
	case Lex:
		return "lex"
	case Parse:
		return "parse"
	case Compile:
		return "compile"
	case Run:
		return "run"
	default:
		return "unknown"
	}
}

// Token is the minimal offending-token information an Error may carry.
// It deliberately mirrors the fields token.Token exposes rather than
// importing the token package, to avoid a dependency cycle.
type Token struct {
	Text string
	Line int
}

// Error is the single error type raised by every stage of the toolchain.
// The first error at any stage aborts that stage; there is no recovery.
type Error struct {
	Stage Stage
	Msg   string
	Tok   *Token
}

func (e *Error) Error() string {
	if e.Tok != nil {
		return fmt.Sprintf("%s error: %s (near %q, line %d)", e.Stage, e.Msg, e.Tok.Text, e.Tok.Line)
	}
	return fmt.Sprintf("%s error: %s", e.Stage, e.Msg)
}

// New builds a stage error with no offending token.
func New(stage Stage, format string, args ...interface{}) error {
	return &Error{Stage: stage, Msg: fmt.Sprintf(format, args...)}
}

// At builds a stage error naming the offending token.
func At(stage Stage, tok Token, format string, args ...interface{}) error {
	t := tok
	return &Error{Stage: stage, Msg: fmt.Sprintf(format, args...), Tok: &t}
}

// Wrap attaches stage context to an underlying error the way
// github.com/pkg/errors.Wrap attaches a message, preserving err's cause
// for errors.Cause/errors.Unwrap.
func Wrap(stage Stage, err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return errors.Wrapf(err, "%s: %s", stage, fmt.Sprintf(format, args...))
}
