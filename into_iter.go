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
	"iter"

	"github.com/bufbuild/rawvec/internal/rawbuf"
	"github.com/bufbuild/rawvec/internal/rawiter"
)

// IntoIter is an iterator that moves elements out of a vector it has taken
// ownership of. It is returned by [Vec.IntoIter].
//
// Elements can be taken from either end. Whatever is left when [IntoIter.Drop]
// is called is dropped.
type IntoIter[T any] struct {
	// buf is only kept so it can be freed; cursor walks over its contents.
	buf    rawbuf.Buf[T]
	cursor rawiter.Cursor[T]
}

// Len returns the number of elements left.
func (it *IntoIter[T]) Len() int {
	return it.cursor.Len()
}

// Next moves the next element out of the front of the iterator.
//
// Returns false if the iterator is exhausted.
func (it *IntoIter[T]) Next() (T, bool) {
	return it.cursor.Next()
}

// NextBack moves the next element out of the back of the iterator.
//
// Returns false if the iterator is exhausted.
func (it *IntoIter[T]) NextBack() (T, bool) {
	return it.cursor.NextBack()
}

// All returns a sequence that moves elements out of the front of the
// iterator. Breaking out of the sequence early leaves the rest in place.
func (it *IntoIter[T]) All() iter.Seq[T] {
	return drive(it.cursor.Next)
}

// Backward is like [IntoIter.All], but moves elements out of the back.
func (it *IntoIter[T]) Backward() iter.Seq[T] {
	return drive(it.cursor.NextBack)
}

// Drop drops every element that has not been moved out, and then releases
// the allocation taken from the vector.
func (it *IntoIter[T]) Drop() {
	defer func() {
		it.cursor.Forget()
		it.buf.Free()
	}()
	it.cursor.Exhaust(drop[T])
}

// drive adapts a Next-like function into an [iter.Seq].
func drive[T any](next func() (T, bool)) iter.Seq[T] {
	return func(yield func(T) bool) {
		for {
			v, ok := next()
			if !ok || !yield(v) {
				return
			}
		}
	}
}
