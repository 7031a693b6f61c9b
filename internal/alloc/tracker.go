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
	"os"
	"unsafe"

	"github.com/tidwall/btree"
)

// Set to true to print every request a [Tracker] sees.
const debugTracker = false

// Tracker is an [Allocator] that records every request it forwards to
// another allocator, and checks that its callers follow the [Allocator]
// contract.
//
// Contract violations (zero-sized requests, frees of blocks that are not
// live, frees with the wrong layout) panic.
//
// A zero Tracker forwards to [Heap] and is ready to use. A Tracker is not
// safe for concurrent use.
type Tracker struct {
	// The allocator to forward to. If nil, [Heap] is used.
	Inner Allocator

	// If not nil, called before each Alloc and Realloc. Returning true makes
	// the request fail without being forwarded.
	Fail func(Layout) bool

	allocs, reallocs, frees int

	// Keys are the addresses of the last byte of each live block, so that
	// seeking to an address finds the block that may contain it.
	live btree.Map[uintptr, *block]
}

// Stats is a snapshot of what a [Tracker] has seen.
type Stats struct {
	// Requests forwarded or refused, by kind.
	Allocs, Reallocs, Frees int

	// Blocks currently allocated, and their total size.
	LiveBlocks, LiveBytes int
}

type block struct {
	start  uintptr
	ptr    unsafe.Pointer // Keeps the block reachable while it is live.
	layout Layout
}

var _ Allocator = (*Tracker)(nil)

// Alloc implements [Allocator].
func (t *Tracker) Alloc(layout Layout) unsafe.Pointer {
	layout.validate()
	t.allocs++
	if t.Fail != nil && t.Fail(layout) {
		t.log("alloc %v: refused", layout)
		return nil
	}

	p := t.inner().Alloc(layout)
	if p == nil {
		return nil
	}
	t.insert(p, layout)
	t.log("alloc %v: %p", layout, p)
	return p
}

// Realloc implements [Allocator].
func (t *Tracker) Realloc(ptr unsafe.Pointer, old Layout, newSize int) unsafe.Pointer {
	layout := old.Resize(newSize)
	layout.validate()
	t.find(ptr, old, "realloc")
	t.reallocs++
	if t.Fail != nil && t.Fail(layout) {
		t.log("realloc %p to %v: refused", ptr, layout)
		return nil
	}

	p := t.inner().Realloc(ptr, old, newSize)
	if p == nil {
		return nil
	}
	t.remove(ptr, old)
	t.insert(p, layout)
	t.log("realloc %p to %v: %p", ptr, layout, p)
	return p
}

// Free implements [Allocator].
func (t *Tracker) Free(ptr unsafe.Pointer, layout Layout) {
	layout.validate()
	t.find(ptr, layout, "free")
	t.frees++
	t.remove(ptr, layout)
	t.inner().Free(ptr, layout)
	t.log("free %p (%v)", ptr, layout)
}

// Stats returns a snapshot of this tracker's counters.
func (t *Tracker) Stats() Stats {
	stats := Stats{
		Allocs:     t.allocs,
		Reallocs:   t.reallocs,
		Frees:      t.frees,
		LiveBlocks: t.live.Len(),
	}
	t.live.Scan(func(_ uintptr, b *block) bool {
		stats.LiveBytes += b.layout.Size
		return true
	})
	return stats
}

// Requests returns the total number of requests this tracker has seen.
func (t *Tracker) Requests() int {
	return t.allocs + t.reallocs + t.frees
}

// Format implements [fmt.Formatter].
//
// It prints the set of live blocks, in address order.
func (t *Tracker) Format(s fmt.State, _ rune) {
	fmt.Fprint(s, "{")
	first := true
	t.live.Scan(func(_ uintptr, b *block) bool {
		if !first {
			fmt.Fprint(s, ", ")
		}
		first = false
		fmt.Fprintf(s, "%#x: %v", b.start, b.layout)
		return true
	})
	fmt.Fprint(s, "}")
}

func (t *Tracker) inner() Allocator {
	if t.Inner == nil {
		return Heap{}
	}
	return t.Inner
}

// find returns the live block at ptr, and panics if there is none or if its
// layout does not match.
func (t *Tracker) find(ptr unsafe.Pointer, layout Layout, op string) *block {
	start := uintptr(ptr)
	iter := t.live.Iter()
	if !iter.Seek(start) || iter.Value().start != start {
		panic(fmt.Sprintf("alloc: %s of unknown block %p (%v)", op, ptr, layout))
	}

	b := iter.Value()
	if b.layout.Size != layout.Size || b.layout.Align != layout.Align {
		panic(fmt.Sprintf("alloc: %s of %p with layout %v, but it was allocated with %v", op, ptr, layout, b.layout))
	}
	return b
}

// insert records a new live block.
func (t *Tracker) insert(ptr unsafe.Pointer, layout Layout) {
	start := uintptr(ptr)
	if start%uintptr(layout.Align) != 0 {
		panic(fmt.Sprintf("alloc: %p is not aligned to %d", ptr, layout.Align))
	}
	end := start + uintptr(layout.Size) - 1

	// The least block whose end is at or after start overlaps the new block
	// exactly when it also starts at or before the new block's end.
	iter := t.live.Iter()
	if iter.Seek(start) && iter.Value().start <= end {
		panic(fmt.Sprintf("alloc: new block %p (%v) overlaps live block %#x (%v)", ptr, layout, iter.Value().start, iter.Value().layout))
	}

	t.live.Set(end, &block{start: start, ptr: ptr, layout: layout})
}

// remove forgets a block previously validated with find.
func (t *Tracker) remove(ptr unsafe.Pointer, layout Layout) {
	t.live.Delete(uintptr(ptr) + uintptr(layout.Size) - 1)
}

func (t *Tracker) log(format string, args ...any) {
	if debugTracker {
		fmt.Fprintf(os.Stderr, "alloc: "+format+"\n", args...)
	}
}
