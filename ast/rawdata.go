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

package ast

// RawData holds the flattened initializer values of a typed constant, in
// declaration order. Multi-dimensional array initializers are flattened
// row-major, mirroring how the compiler later lays the same values out in
// the bytecode's typed-constant blob.
type RawData struct {
	Data            []interface{}
	SimpleTypeCodes []TypeCode
}

// Append adds one initializer value of the given primitive type.
func (r *RawData) Append(v interface{}, code TypeCode) {
	r.Data = append(r.Data, v)
	r.SimpleTypeCodes = append(r.SimpleTypeCodes, code)
}

// Len returns the number of flattened initializer values.
func (r *RawData) Len() int {
	return len(r.Data)
}
