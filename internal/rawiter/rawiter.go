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

// Package rawiter provides [Cursor], a double-ended cursor that moves values
// out of a contiguous run of memory.
package rawiter

import (
	"unsafe"

	"github.com/bufbuild/rawvec/internal/ext/unsafex"
)

// Cursor yields the values in a contiguous run of memory by moving them out,
// from either end.
//
// A Cursor does not own the memory it walks over and carries no guarantee
// that it is still valid; see [New].
//
// Internally, the unyielded values are the half-open range [start, end),
// measured from base. For sized T, the offsets are in bytes. For zero-sized
// T, offsetting a pointer by a value's size never moves it, so the offsets
// instead count abstract address units, one per value.
//
// Every slot in [start, end) is initialized and not yet yielded. Every slot
// outside of it has been yielded, and thus zeroed.
type Cursor[T any] struct {
	base       unsafe.Pointer
	start, end uintptr
}

// New returns a cursor over the values in run.
//
// The caller must ensure that the memory backing run remains valid, and is
// not accessed by anything else, for as long as the cursor is in use. Values
// are zeroed in place as they are yielded.
func New[T any](run []T) Cursor[T] {
	c := Cursor[T]{base: unsafe.Pointer(unsafe.SliceData(run))}
	switch {
	case len(run) == 0:
		// base may be a dangling pointer into a buffer that was never
		// allocated, so do not compute anything relative to it.
	case unsafex.IsZST[T]():
		c.end = uintptr(len(run))
	default:
		c.end = uintptr(len(run)) * unsafe.Sizeof(run[0])
	}
	return c
}

// Len returns the number of values that have not been yielded.
func (c *Cursor[T]) Len() int {
	size := uintptr(unsafex.LayoutOf[T]().Size)
	if size == 0 {
		return int(c.end - c.start)
	}
	return int((c.end - c.start) / size)
}

// Next moves the value at the front out of the run.
//
// Returns false if every value has been yielded.
func (c *Cursor[T]) Next() (T, bool) {
	if c.start == c.end {
		var z T
		return z, false
	}

	p := c.at(c.start)
	c.start += c.stride()
	return unsafex.Take(p), true
}

// NextBack moves the value at the back out of the run.
//
// Returns false if every value has been yielded.
func (c *Cursor[T]) NextBack() (T, bool) {
	if c.start == c.end {
		var z T
		return z, false
	}

	c.end -= c.stride()
	return unsafex.Take(c.at(c.end)), true
}

// Exhaust moves every remaining value out of the run, front to back, and
// passes it to yield.
//
// Each value is removed from the run before yield is called, so if yield
// panics, the cursor does not yield that value again.
func (c *Cursor[T]) Exhaust(yield func(T)) {
	for {
		v, ok := c.Next()
		if !ok {
			return
		}
		yield(v)
	}
}

// Forget discards every remaining value without yielding it, zeroing the
// slots it occupied.
func (c *Cursor[T]) Forget() {
	if n := c.Len(); n > 0 && !unsafex.IsZST[T]() {
		clear(unsafe.Slice(c.at(c.start), n))
	}
	c.start = c.end
}

// stride is how far the offsets move per value.
func (c *Cursor[T]) stride() uintptr {
	if size := uintptr(unsafex.LayoutOf[T]().Size); size != 0 {
		return size
	}
	return 1
}

// at returns a pointer to the slot at offset.
func (c *Cursor[T]) at(offset uintptr) *T {
	if unsafex.IsZST[T]() {
		// Every value of a zero-sized type lives at the same address.
		return (*T)(c.base)
	}
	return (*T)(unsafe.Add(c.base, offset))
}
