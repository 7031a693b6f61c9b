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

package alloc

import (
	"fmt"
	"reflect"
	"unsafe"
)

var wordType = reflect.TypeFor[uint64]()

// Heap is an [Allocator] backed by the Go heap.
//
// Every block is a real, typed Go array, so values stored in it may contain
// pointers. Freed blocks are zeroed rather than returned to the runtime; the
// garbage collector reclaims them once nothing refers to them.
//
// Heap never fails: if the Go heap is exhausted, the runtime itself
// terminates the program.
type Heap struct{}

var _ Allocator = Heap{}

// Alloc implements [Allocator].
func (Heap) Alloc(layout Layout) unsafe.Pointer {
	layout.validate()
	return reflect.New(layout.arrayType()).UnsafePointer()
}

// Realloc implements [Allocator].
func (h Heap) Realloc(ptr unsafe.Pointer, old Layout, newSize int) unsafe.Pointer {
	layout := old.Resize(newSize)
	p := h.Alloc(layout)

	// Copy through reflection so that pointers inside the block are moved
	// with write barriers.
	reflect.Copy(layout.at(p), old.at(ptr))
	h.Free(ptr, old)
	return p
}

// Free implements [Allocator].
func (Heap) Free(ptr unsafe.Pointer, layout Layout) {
	layout.validate()
	layout.at(ptr).SetZero()
}

// arrayType returns the Go array type that backs a block with this layout.
func (l Layout) arrayType() reflect.Type {
	if l.Type == nil || l.Type.Size() == 0 {
		if l.Align > int(wordType.Align()) {
			panic(fmt.Sprintf("alloc: alignment too large for untyped block: %v", l))
		}
		words := (uintptr(l.Size) + wordType.Size() - 1) / wordType.Size()
		return reflect.ArrayOf(int(words), wordType)
	}

	if l.Align > l.Type.Align() {
		panic(fmt.Sprintf("alloc: alignment too large for %v: %v", l.Type, l))
	}
	return reflect.ArrayOf(l.Size/int(l.Type.Size()), l.Type)
}

// at returns an addressable view of the block at ptr.
func (l Layout) at(ptr unsafe.Pointer) reflect.Value {
	return reflect.NewAt(l.arrayType(), ptr).Elem()
}
