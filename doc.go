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

// Package rawvec provides [Vec], a growable array that manages its own
// memory.
//
// Unlike a Go slice, a [Vec] is built directly on raw allocations: it owns a
// single block of memory sized for some number of elements, grows it by
// doubling, and moves elements in and out of it by hand. This makes it
// possible to give a [Vec] deterministic cleanup semantics: every element the
// vector discards, whether because it was dropped, drained, or left behind by
// an abandoned iterator, has its [Dropper.Drop] method called exactly once.
//
// # Ownership
//
// A [Vec] owns its elements. Values returned by [Vec.Pop], [Vec.Remove],
// and the iterators are moved out, and become the caller's responsibility.
//
// [Vec.IntoIter] moves all of a vector's elements, and its allocation, into
// an [IntoIter], leaving the vector empty. [Vec.Drain] instead lends the
// vector's elements to a [Drain], which borrows the vector until
// [Drain.Drop] is called; the vector cannot be modified in the meantime.
//
// Vectors and iterators are released by calling their Drop methods, usually
// with defer. Drop is idempotent.
//
// # Zero-sized types
//
// Vectors of zero-sized elements, such as struct{}, never allocate and have
// unbounded capacity.
//
// # Concurrency
//
// None of the types in this package are safe for concurrent use. Distinct
// vectors share no state.
package rawvec
