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

	"github.com/bufbuild/rawvec/internal/rawiter"
)

// Drain is an iterator that moves elements out of a vector it borrows. It is
// returned by [Vec.Drain].
//
// Elements can be taken from either end. Whatever is left when [Drain.Drop]
// is called is dropped. The vector keeps its allocation throughout.
type Drain[T any] struct {
	// The vector whose buffer cursor walks over. Nil once dropped.
	vec    *Vec[T]
	cursor rawiter.Cursor[T]
}

// Len returns the number of elements left.
func (d *Drain[T]) Len() int {
	return d.cursor.Len()
}

// Next moves the next element out of the front of the drain.
//
// Returns false if the drain is exhausted.
func (d *Drain[T]) Next() (T, bool) {
	return d.cursor.Next()
}

// NextBack moves the next element out of the back of the drain.
//
// Returns false if the drain is exhausted.
func (d *Drain[T]) NextBack() (T, bool) {
	return d.cursor.NextBack()
}

// All returns a sequence that moves elements out of the front of the drain.
// Breaking out of the sequence early leaves the rest in place.
func (d *Drain[T]) All() iter.Seq[T] {
	return drive(d.cursor.Next)
}

// Backward is like [Drain.All], but moves elements out of the back.
func (d *Drain[T]) Backward() iter.Seq[T] {
	return drive(d.cursor.NextBack)
}

// Drop drops every element that has not been moved out, and ends the drain's
// borrow of its vector.
func (d *Drain[T]) Drop() {
	if d.vec == nil {
		return
	}
	defer func() {
		d.cursor.Forget()
		d.vec.borrowed = false
		d.vec = nil
	}()
	d.cursor.Exhaust(drop[T])
}
