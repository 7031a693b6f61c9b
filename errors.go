// Copyright 2020-2025 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package rawvec

import (
	"errors"
	"fmt"

	"github.com/bufbuild/rawvec/internal/rawbuf"
)

var (
	// ErrCapacityOverflow is the panic value used when a vector cannot grow
	// because its size in bytes would overflow an int.
	ErrCapacityOverflow = rawbuf.ErrCapacityOverflow

	// ErrBorrowed is the panic value used when a vector is modified while a
	// [Drain] borrows it.
	ErrBorrowed = errors.New("rawvec: vector modified while borrowed by a Drain")
)

// IndexError is the panic value used when an index passed to [Vec.Insert] or
// [Vec.Remove] is out of bounds.
type IndexError struct {
	Op         string // Either "insert" or "remove".
	Index, Len int
}

// Error implements [error].
func (e *IndexError) Error() string {
	bound := "<"
	if e.Op == "insert" {
		bound = "<="
	}
	return fmt.Sprintf("rawvec: %s index (is %d) should be %s len (is %d)", e.Op, e.Index, bound, e.Len)
}
