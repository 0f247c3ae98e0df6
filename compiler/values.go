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

package compiler

import (
	"math"

	"github.com/pkg/errors"

	"github.com/lkesteloot/turbopascal/ast"
)

// scalarToWord converts one parsed literal value into its dstore word
// representation: an integer or character code passes through as-is, a
// boolean becomes 0/1, and a real is stored as the bit pattern of its
// float64 value, reinterpreted by the p-machine's real-typed opcodes
// (ADR, SBR, ...) rather than its integer ones.
func scalarToWord(v interface{}, code ast.TypeCode) (int64, error) {
	switch code {
	case ast.Integer, ast.Char:
		iv, ok := v.(int64)
		if !ok {
			return 0, errors.Errorf("internal error: expected int64 for type code %v, got %T", code, v)
		}
		return iv, nil
	case ast.Real:
		fv, ok := v.(float64)
		if !ok {
			return 0, errors.Errorf("internal error: expected float64 for type code %v, got %T", code, v)
		}
		return int64(math.Float64bits(fv)), nil
	case ast.Boolean:
		bv, ok := v.(bool)
		if !ok {
			return 0, errors.Errorf("internal error: expected bool for type code %v, got %T", code, v)
		}
		if bv {
			return 1, nil
		}
		return 0, nil
	case ast.Address:
		if v != nil {
			return 0, errors.New("internal error: only nil is valid for an address-typed constant")
		}
		return 0, nil
	default:
		return 0, errors.Errorf("typed constants of type %v are not supported", code)
	}
}

// loadClass returns the by-value direct-load opcode class (see
// pcode.LVFor) for a simple type code.
func loadClass(code ast.TypeCode) byte {
	switch code {
	case ast.Address:
		return 'a'
	case ast.Boolean:
		return 'b'
	case ast.Char:
		return 'c'
	case ast.Real:
		return 'r'
	default: // Integer, and anything else treated as a plain word
		return 'i'
	}
}

func boolWord(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
