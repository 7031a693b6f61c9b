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

// Package alloc is the boundary between containers and the memory they
// store elements in.
//
// An [Allocator] hands out untyped blocks described by a [Layout]. Blocks
// are never zero-sized, and a nil pointer from any method means the request
// could not be satisfied; callers treat that as fatal, see [HandleError].
package alloc

import (
	"fmt"
	"math"
	"reflect"
	"unsafe"

	"github.com/bufbuild/rawvec/internal/ext/bitsx"
	"github.com/bufbuild/rawvec/internal/ext/unsafex"
)

// Layout describes a block of memory.
type Layout struct {
	// The size and alignment of the whole block, in bytes.
	Size, Align int

	// The type of the elements the block holds. Allocators that hand out
	// garbage-collected memory use this to tell the collector where pointers
	// are. May be nil for blocks of plain bytes.
	Type reflect.Type
}

// ArrayOf returns the layout of an array of n values of type T.
//
// Returns false if n is negative or the size in bytes does not fit in an int.
func ArrayOf[T any](n int) (Layout, bool) {
	elem := unsafex.LayoutOf[T]()
	if n < 0 || (elem.Size != 0 && n > math.MaxInt/elem.Size) {
		return Layout{}, false
	}
	return Layout{
		Size:  n * elem.Size,
		Align: elem.Align,
		Type:  reflect.TypeFor[T](),
	}, true
}

// Resize returns a copy of this layout with a different size.
func (l Layout) Resize(size int) Layout {
	l.Size = size
	return l
}

// String implements [fmt.Stringer].
func (l Layout) String() string {
	if l.Type == nil {
		return fmt.Sprintf("%d bytes, align %d", l.Size, l.Align)
	}
	return fmt.Sprintf("%d bytes, align %d (%v)", l.Size, l.Align, l.Type)
}

// validate panics if this layout is not one an [Allocator] may be asked for.
func (l Layout) validate() {
	switch {
	case l.Size <= 0:
		panic(fmt.Sprintf("alloc: invalid block size: %v", l))
	case !bitsx.IsPowerOfTwo(l.Align) || l.Align > int(unsafex.MaxAlign):
		panic(fmt.Sprintf("alloc: invalid block alignment: %v", l))
	case l.Type != nil && l.Type.Size() != 0 && l.Size%int(l.Type.Size()) != 0:
		panic(fmt.Sprintf("alloc: block size is not a multiple of its element: %v", l))
	}
}

// Allocator is a source of raw memory.
//
// All methods must be called with a valid, non-zero-sized layout. A nil
// return value reports failure; on failure, Realloc leaves the old block
// untouched.
type Allocator interface {
	// Alloc allocates a zeroed block with the given layout.
	Alloc(layout Layout) unsafe.Pointer

	// Realloc resizes the block at ptr, which was allocated with the layout
	// old, to newSize bytes. The contents of the block up to the smaller of
	// the two sizes are preserved, and any new bytes are zero.
	//
	// The returned block may live at a different address, in which case the
	// old block is released.
	Realloc(ptr unsafe.Pointer, old Layout, newSize int) unsafe.Pointer

	// Free releases the block at ptr, which must have been allocated with
	// exactly the given layout.
	Free(ptr unsafe.Pointer, layout Layout)
}
