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

// Package rawbuf provides [Buf], the untyped storage underneath a growable
// container.
package rawbuf

import (
	"errors"
	"math"
	"unsafe"

	"github.com/bufbuild/rawvec/internal/alloc"
	"github.com/bufbuild/rawvec/internal/ext/unsafex"
)

// ErrCapacityOverflow is the panic value used when a buffer cannot grow
// because its size in bytes would no longer fit in an int.
var ErrCapacityOverflow = errors.New("rawvec: capacity overflow")

// Buf is a heap allocation with room for some number of values of type T.
//
// A Buf knows its capacity, but not how many of its slots are initialized;
// that is up to its owner. It never reads, writes, or drops elements itself.
//
// If T is zero-sized, a Buf never allocates and its capacity is unbounded.
//
// A zero Buf is empty, uses [alloc.Heap], and is ready to use.
type Buf[T any] struct {
	_ [0]chan int // Make the type incomparable.

	// Nil is treated as unsafex.Dangling; see Buf.Ptr.
	ptr   *T
	cap   int
	alloc alloc.Allocator
}

// New returns an empty buffer that allocates from the Go heap.
func New[T any]() Buf[T] {
	return NewIn[T](nil)
}

// NewIn returns an empty buffer that allocates from a.
//
// If a is nil, [alloc.Heap] is used.
func NewIn[T any](a alloc.Allocator) Buf[T] {
	return Buf[T]{ptr: unsafex.Dangling[T](), alloc: a}
}

// Ptr returns a pointer to the first slot of the buffer.
//
// This is never nil. If nothing has been allocated, it is a dangling pointer
// that is suitably aligned for T but must not be dereferenced.
func (b *Buf[T]) Ptr() *T {
	if b.ptr == nil {
		return unsafex.Dangling[T]()
	}
	return b.ptr
}

// Cap returns the number of values this buffer has room for.
//
// If T is zero-sized, this is [math.MaxInt].
func (b *Buf[T]) Cap() int {
	if unsafex.IsZST[T]() {
		return math.MaxInt
	}
	return b.cap
}

// Slice returns a view of the first n slots of the buffer.
//
// The caller must ensure that n <= b.Cap(), and that the view is not used
// after the buffer grows or is freed.
func (b *Buf[T]) Slice(n int) []T {
	return unsafe.Slice(b.Ptr(), n)
}

// Grow doubles the capacity of this buffer, or sets it to one if nothing has
// been allocated yet. Values already in the buffer are preserved.
//
// Panics with [ErrCapacityOverflow] if the new size does not fit in an int,
// which is always the case when T is zero-sized. If the allocator fails, this
// calls [alloc.HandleError], which terminates the process.
func (b *Buf[T]) Grow() {
	elem := unsafex.LayoutOf[T]()
	if elem.Size == 0 {
		// The capacity of a zero-sized buffer is already MaxInt, so this can
		// only be reached when a container's length is about to overflow.
		panic(ErrCapacityOverflow)
	}

	var (
		ptr    unsafe.Pointer
		newCap int
		layout alloc.Layout
	)
	if b.cap == 0 {
		newCap = 1
		layout, _ = alloc.ArrayOf[T](newCap)
		ptr = b.allocator().Alloc(layout)
	} else {
		// Doubling must not produce a byte count that overflows int.
		if b.cap*elem.Size > math.MaxInt/2 {
			panic(ErrCapacityOverflow)
		}

		newCap = 2 * b.cap
		old, _ := alloc.ArrayOf[T](b.cap)
		layout = old.Resize(newCap * elem.Size)
		ptr = b.allocator().Realloc(unsafe.Pointer(b.ptr), old, layout.Size)
	}

	if ptr == nil {
		alloc.HandleError(layout)
	}

	b.ptr = (*T)(ptr)
	b.cap = newCap
}

// Free releases this buffer's allocation, if it has one, and leaves it empty.
//
// Any values still in the buffer are discarded without being dropped; the
// owner is responsible for dropping them first.
func (b *Buf[T]) Free() {
	if b.cap != 0 && !unsafex.IsZST[T]() {
		layout, _ := alloc.ArrayOf[T](b.cap)
		b.allocator().Free(unsafe.Pointer(b.ptr), layout)
	}

	b.ptr = unsafex.Dangling[T]()
	b.cap = 0
}

// Take moves the allocation out of b, leaving it empty.
func (b *Buf[T]) Take() Buf[T] {
	out := Buf[T]{ptr: b.Ptr(), cap: b.cap, alloc: b.alloc}
	b.ptr = unsafex.Dangling[T]()
	b.cap = 0
	return out
}

func (b *Buf[T]) allocator() alloc.Allocator {
	if b.alloc == nil {
		return alloc.Heap{}
	}
	return b.alloc
}
