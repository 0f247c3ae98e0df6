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

package pmachine

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

// Dump writes the live portion of the data store to w as a sequence of
// little-endian 64-bit words: the stack (dstore[0:sp]), then the heap
// (dstore[np:len(dstore)]), each preceded by its word count. This is a
// debugging aid for inspecting or asserting on the stack/heap contents
// at a breakpoint (e.g. after a New/Dispose round trip), not a
// resumable program image: the p-machine has no Load counterpart, since
// a Bytecode is always produced by Compile, never by deserializing a
// prior run.
func (m *Machine) Dump(w io.Writer) error {
	if err := binary.Write(w, binary.LittleEndian, int64(m.sp)); err != nil {
		return errors.Wrap(err, "pmachine: writing stack word count")
	}
	if err := binary.Write(w, binary.LittleEndian, m.dstore[:m.sp]); err != nil {
		return errors.Wrap(err, "pmachine: writing stack words")
	}
	heap := m.dstore[m.np:]
	if err := binary.Write(w, binary.LittleEndian, int64(len(heap))); err != nil {
		return errors.Wrap(err, "pmachine: writing heap word count")
	}
	if err := binary.Write(w, binary.LittleEndian, heap); err != nil {
		return errors.Wrap(err, "pmachine: writing heap words")
	}
	return nil
}
