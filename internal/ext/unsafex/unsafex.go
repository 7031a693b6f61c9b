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

// package unsafex contains extensions to Go's package unsafe.
//
// Importing this package should be treated as equivalent to importing unsafe.
package unsafex

import "unsafe"

// MaxAlign is the largest alignment of any Go type.
//
// Go does not let types request over-alignment, so every type's alignment
// divides this value.
const MaxAlign = unsafe.Alignof(maxAligned{})

type maxAligned struct {
	_ [0]complex128
	_ [0]uint64
	_ [0]unsafe.Pointer
}

// dangling is the sentinel returned by [Dangling]. It is zero-sized, so
// nothing is ever stored at its address.
var dangling maxAligned

// Layout is the layout of a type.
//
// This is a more convenient abstraction that manipulating the size and
// alignment separately.
type Layout struct {
	Size, Align int
}

// LayoutOf returns the layout of some type.
func LayoutOf[T any]() Layout {
	var v T
	return Layout{
		Size:  int(unsafe.Sizeof(v)),
		Align: int(unsafe.Alignof(v)),
	}
}

// IsZST returns whether T occupies no storage.
func IsZST[T any]() bool {
	return LayoutOf[T]().Size == 0
}

// Dangling returns a pointer that is non-nil and suitably aligned for T, but
// which does not point to any storage.
//
// It must never be dereferenced unless T is zero-sized.
func Dangling[T any]() *T {
	return (*T)(unsafe.Pointer(&dangling))
}

// IsDangling returns whether p is the pointer returned by [Dangling].
func IsDangling[T any](p *T) bool {
	return unsafe.Pointer(p) == unsafe.Pointer(&dangling)
}

// Add is like [unsafe.Add], but it operates on a typed pointer and scales the
// offset by that type's size, similar to pointer arithmetic in Rust or C.
//
// For zero-sized T, this is the identity.
//
// This function has the same safety caveats as [unsafe.Add].
//
//go:nosplit
func Add[T any](p *T, idx int) *T {
	raw := unsafe.Pointer(p)
	raw = unsafe.Add(raw, idx*LayoutOf[T]().Size)
	return (*T)(raw)
}

// Write stores v into *p, treating *p as uninitialized.
//
// Go never runs anything on overwrite, so this is an ordinary store; the
// name records that the previous contents are not live.
func Write[T any](p *T, v T) {
	*p = v
}

// Take reads the value at p and zeroes the slot, leaving it logically
// uninitialized.
//
// Zeroing the slot ensures the garbage collector does not keep anything
// reachable through a slot that no longer holds a live value.
func Take[T any](p *T) T {
	v := *p
	var z T
	*p = z
	return v
}
