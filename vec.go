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
	"fmt"
	"iter"
	"slices"

	"github.com/bufbuild/rawvec/internal/alloc"
	"github.com/bufbuild/rawvec/internal/ext/unsafex"
	"github.com/bufbuild/rawvec/internal/rawbuf"
	"github.com/bufbuild/rawvec/internal/rawiter"
)

// Vec is a growable, contiguous array of values of type T.
//
// A zero Vec is empty and ready to use. A Vec must not be copied after first
// use.
type Vec[T any] struct {
	// Invariants:
	// 1. len <= buf.Cap().
	// 2. Slots [0, len) of buf are initialized; slots [len, buf.Cap()) are
	//    zero.
	buf rawbuf.Buf[T]
	len int

	// Set while a Drain borrows this vector.
	borrowed bool
}

// New returns a new, empty vector. It does not allocate.
func New[T any]() *Vec[T] {
	return newIn[T](nil)
}

// Collect collects the values of seq into a new vector.
func Collect[T any](seq iter.Seq[T]) *Vec[T] {
	v := New[T]()
	for x := range seq {
		v.Push(x)
	}
	return v
}

func newIn[T any](a alloc.Allocator) *Vec[T] {
	return &Vec[T]{buf: rawbuf.NewIn[T](a)}
}

// Len returns the number of elements in the vector.
func (v *Vec[T]) Len() int {
	return v.len
}

// Cap returns the number of elements the vector can hold before it needs to
// grow. For zero-sized T, this is [math.MaxInt].
func (v *Vec[T]) Cap() int {
	return v.buf.Cap()
}

// Push appends value to the end of the vector.
func (v *Vec[T]) Push(value T) {
	v.checkBorrow()
	if v.len == v.buf.Cap() {
		v.buf.Grow()
	}

	unsafex.Write(unsafex.Add(v.buf.Ptr(), v.len), value)
	v.len++
}

// Pop removes the last element of the vector and returns it.
//
// Returns false if the vector is empty.
func (v *Vec[T]) Pop() (T, bool) {
	v.checkBorrow()
	if v.len == 0 {
		var z T
		return z, false
	}

	v.len--
	return unsafex.Take(unsafex.Add(v.buf.Ptr(), v.len)), true
}

// Insert inserts value at index idx, shifting all elements after it to the
// right. Inserting at index v.Len() is equivalent to [Vec.Push].
//
// Panics with an [*IndexError] if idx > v.Len().
func (v *Vec[T]) Insert(idx int, value T) {
	v.checkBorrow()
	if idx < 0 || idx > v.len {
		panic(&IndexError{Op: "insert", Index: idx, Len: v.len})
	}
	if v.len == v.buf.Cap() {
		v.buf.Grow()
	}

	s := v.buf.Slice(v.len + 1)
	copy(s[idx+1:], s[idx:v.len])
	unsafex.Write(&s[idx], value)
	v.len++
}

// Remove removes the element at index idx and returns it, shifting all
// elements after it to the left.
//
// Panics with an [*IndexError] if idx >= v.Len().
func (v *Vec[T]) Remove(idx int) T {
	v.checkBorrow()
	if idx < 0 || idx >= v.len {
		panic(&IndexError{Op: "remove", Index: idx, Len: v.len})
	}

	v.len--
	s := v.buf.Slice(v.len + 1)
	value := unsafex.Take(&s[idx])
	copy(s[idx:], s[idx+1:])

	// The last slot now holds a stale copy of the former last element.
	var z T
	s[v.len] = z
	return value
}

// Slice returns a view of the vector's elements.
//
// Writes through the view modify the vector. The view must not be used after
// the vector is modified in any other way.
func (v *Vec[T]) Slice() []T {
	return v.buf.Slice(v.len)
}

// At returns the element at index idx.
//
// Panics if idx is out of bounds.
func (v *Vec[T]) At(idx int) T {
	return v.Slice()[idx]
}

// All returns an iterator over the indices and elements of the vector,
// without removing them.
func (v *Vec[T]) All() iter.Seq2[int, T] {
	return slices.All(v.Slice())
}

// Values returns an iterator over the elements of the vector, without
// removing them.
func (v *Vec[T]) Values() iter.Seq[T] {
	return slices.Values(v.Slice())
}

// IntoIter moves every element of the vector, along with its allocation,
// into a new [IntoIter]. The vector is left empty, and may be reused.
func (v *Vec[T]) IntoIter() *IntoIter[T] {
	v.checkBorrow()
	it := &IntoIter[T]{cursor: rawiter.New(v.Slice())}
	it.buf = v.buf.Take()
	v.len = 0
	return it
}

// Drain removes every element from the vector and returns an iterator that
// yields them.
//
// The vector is empty as soon as Drain returns, but it keeps its allocation.
// Until [Drain.Drop] is called, the vector is borrowed by the drain, and any
// attempt to modify it panics with [ErrBorrowed].
func (v *Vec[T]) Drain() *Drain[T] {
	v.checkBorrow()
	d := &Drain[T]{vec: v, cursor: rawiter.New(v.Slice())}
	v.len = 0
	v.borrowed = true
	return d
}

// Drop drops every element of the vector, in reverse order, and releases its
// allocation. The vector is left empty, and may be reused.
//
// If an element's Drop method panics, the remaining elements are discarded
// without being dropped, the allocation is still released, and the panic
// propagates.
//
// Calling Drop again is a no-op, except while a [Drain] borrows the vector:
// then Drop panics with [ErrBorrowed] and leaves the vector untouched.
func (v *Vec[T]) Drop() {
	v.checkBorrow()
	defer func() {
		clear(v.Slice())
		v.len = 0
		v.buf.Free()
	}()

	for {
		value, ok := v.Pop()
		if !ok {
			return
		}
		drop(value)
	}
}

// Format implements [fmt.Formatter].
func (v *Vec[T]) Format(state fmt.State, verb rune) {
	fmt.Fprintf(state, fmt.FormatString(state, verb), v.Slice())
}

func (v *Vec[T]) checkBorrow() {
	if v.borrowed {
		panic(ErrBorrowed)
	}
}
