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

package rawvec_test

import (
	"errors"
	"fmt"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bufbuild/rawvec"
	"github.com/bufbuild/rawvec/internal/alloc"
)

// tracked records its id in a shared log when dropped.
type tracked struct {
	id  int
	log *[]int
}

func (t tracked) Drop() {
	*t.log = append(*t.log, t.id)
}

type p[T any] struct {
	v  T
	ok bool
}

func pack[T any](v T, ok bool) p[T] { return p[T]{v, ok} }

func TestScenario(t *testing.T) {
	t.Parallel()

	tracker := new(alloc.Tracker)
	v := rawvec.NewIn[int](tracker)
	v.Push(1)
	v.Push(2)
	v.Push(3)
	assert.Equal(t, 3, v.Len())

	assert.Equal(t, 1, v.Remove(0))
	assert.Equal(t, 2, v.Len())
	assert.Equal(t, []int{2, 3}, v.Slice())

	v.Insert(0, 5)
	assert.Equal(t, []int{5, 2, 3}, v.Slice())

	assert.Equal(t, p[int]{3, true}, pack(v.Pop()))
	assert.Equal(t, p[int]{2, true}, pack(v.Pop()))
	assert.Equal(t, p[int]{5, true}, pack(v.Pop()))
	assert.Equal(t, p[int]{0, false}, pack(v.Pop()))

	v.Drop()
	assert.Zero(t, tracker.Stats().LiveBlocks)
}

func TestZeroValue(t *testing.T) {
	t.Parallel()

	var v rawvec.Vec[string]
	assert.Zero(t, v.Len())
	assert.Zero(t, v.Cap())
	assert.Empty(t, v.Slice())

	v.Push("a")
	v.Insert(0, "b")
	assert.Equal(t, []string{"b", "a"}, v.Slice())
	v.Drop()
	assert.Zero(t, v.Cap())
}

func TestGrowth(t *testing.T) {
	t.Parallel()

	tracker := new(alloc.Tracker)
	v := rawvec.NewIn[int64](tracker)
	defer v.Drop()

	caps := []int{v.Cap()}
	for i := range 8 {
		v.Push(int64(i))
		if c := v.Cap(); c != caps[len(caps)-1] {
			caps = append(caps, c)
		}
		assert.LessOrEqual(t, v.Len(), v.Cap())
	}
	v.Insert(0, -1)

	assert.Equal(t, []int{0, 1, 2, 4, 8, 16}, append(caps, v.Cap()))
	assert.Equal(t, 1, tracker.Stats().Allocs)
	assert.Equal(t, 4, tracker.Stats().Reallocs)
}

func TestStack(t *testing.T) {
	t.Parallel()

	v := rawvec.New[string]()
	defer v.Drop()

	in := []string{"a", "b", "c", "d", "e"}
	for _, s := range in {
		v.Push(s)
	}

	var out []string
	for {
		s, ok := v.Pop()
		if !ok {
			break
		}
		out = append(out, s)
	}
	slices.Reverse(out)
	assert.Equal(t, in, out)
	assert.Equal(t, p[string]{"", false}, pack(v.Pop()))
}

func TestInsertRemove(t *testing.T) {
	t.Parallel()

	v := rawvec.Collect(slices.Values([]int{1, 2, 3, 4}))
	defer v.Drop()

	for i := range v.Len() + 1 {
		v.Insert(i, 100+i)
		assert.Equal(t, 5, v.Len())
		assert.Equal(t, 100+i, v.At(i))
		assert.Equal(t, 100+i, v.Remove(i))
		assert.Equal(t, []int{1, 2, 3, 4}, v.Slice())
	}

	v.Insert(4, 5)
	v.Insert(2, 0)
	assert.Equal(t, []int{1, 2, 0, 3, 4, 5}, v.Slice())
	assert.Equal(t, 5, v.Remove(5))
	assert.Equal(t, 1, v.Remove(0))
	assert.Equal(t, []int{2, 0, 3, 4}, v.Slice())
}

func TestOutOfBounds(t *testing.T) {
	t.Parallel()

	v := rawvec.Collect(slices.Values([]int{1, 2, 3}))
	defer v.Drop()

	assert.PanicsWithError(t, "rawvec: insert index (is 4) should be <= len (is 3)", func() { v.Insert(4, 0) })
	assert.PanicsWithError(t, "rawvec: insert index (is -1) should be <= len (is 3)", func() { v.Insert(-1, 0) })
	assert.PanicsWithError(t, "rawvec: remove index (is 3) should be < len (is 3)", func() { v.Remove(3) })
	assert.PanicsWithError(t, "rawvec: remove index (is -1) should be < len (is 3)", func() { v.Remove(-1) })
	assert.Equal(t, &rawvec.IndexError{Op: "remove", Index: -1, Len: 3}, recoverIndexError(func() { v.Remove(-1) }))
	assert.Equal(t, &rawvec.IndexError{Op: "insert", Index: 7, Len: 3}, recoverIndexError(func() { v.Insert(7, 0) }))
	assert.Panics(t, func() { v.At(3) })

	// Nothing was changed by the failed calls.
	assert.Equal(t, []int{1, 2, 3}, v.Slice())
}

// recoverIndexError runs f and returns the *IndexError it panics with, or nil.
func recoverIndexError(f func()) (err *rawvec.IndexError) {
	defer func() {
		if e, ok := recover().(error); ok {
			errors.As(e, &err)
		}
	}()
	f()
	return nil
}

func TestSliceView(t *testing.T) {
	t.Parallel()

	v := rawvec.Collect(slices.Values([]int{3, 1, 2}))
	defer v.Drop()

	s := v.Slice()
	assert.Len(t, s, 3)
	assert.Equal(t, 3, cap(s))
	slices.Sort(s)
	assert.Equal(t, []int{1, 2, 3}, v.Slice())

	var got []int
	for i, x := range v.All() {
		got = append(got, i, x)
	}
	assert.Equal(t, []int{0, 1, 1, 2, 2, 3}, got)
	assert.Equal(t, []int{1, 2, 3}, slices.Collect(v.Values()))
}

func TestZeroSized(t *testing.T) {
	t.Parallel()

	tracker := new(alloc.Tracker)
	v := rawvec.NewIn[struct{}](tracker)
	for range 100 {
		v.Push(struct{}{})
	}
	v.Insert(50, struct{}{})
	v.Remove(0)
	assert.Equal(t, 100, v.Len())
	assert.Len(t, v.Slice(), 100)

	it := v.IntoIter()
	var n int
	for range it.All() {
		n++
	}
	it.Drop()
	assert.Equal(t, 100, n)
	assert.Zero(t, tracker.Requests())
}

func TestDrop(t *testing.T) {
	t.Parallel()

	var log []int
	tracker := new(alloc.Tracker)
	v := rawvec.NewIn[tracked](tracker)
	for i := range 5 {
		v.Push(tracked{i, &log})
	}

	x := v.Remove(1)
	assert.Empty(t, log, "removed values are not dropped")
	x.Drop()

	v.Drop()
	assert.Equal(t, []int{1, 4, 3, 2, 0}, log)
	assert.Equal(t, alloc.Stats{Allocs: 1, Reallocs: 3, Frees: 1}, tracker.Stats())

	v.Drop()
	assert.Equal(t, []int{1, 4, 3, 2, 0}, log)
	assert.Equal(t, 1, tracker.Stats().Frees)
}

type pointerDropper struct {
	dropped *int
}

func (p *pointerDropper) Drop() {
	*p.dropped++
}

func TestDropPointerReceiver(t *testing.T) {
	t.Parallel()

	var n int
	v := rawvec.New[pointerDropper]()
	v.Push(pointerDropper{&n})
	v.Push(pointerDropper{&n})
	v.Drop()
	assert.Equal(t, 2, n)
}

type panicky struct {
	id  int
	log *[]int
}

func (p panicky) Drop() {
	*p.log = append(*p.log, p.id)
	if p.id == 2 {
		panic("drop failed")
	}
}

func TestDropPanic(t *testing.T) {
	t.Parallel()

	var log []int
	tracker := new(alloc.Tracker)
	v := rawvec.NewIn[panicky](tracker)
	for i := range 4 {
		v.Push(panicky{i, &log})
	}

	assert.PanicsWithValue(t, "drop failed", v.Drop)
	assert.Equal(t, []int{3, 2}, log)

	// The remaining elements are discarded, and the vector is left empty and
	// usable.
	assert.Zero(t, v.Len())
	assert.Zero(t, v.Cap())
	assert.Zero(t, tracker.Stats().LiveBlocks)

	v.Push(panicky{5, &log})
	v.Drop()
	assert.Equal(t, []int{3, 2, 5}, log)
}

func TestFormat(t *testing.T) {
	t.Parallel()

	v := rawvec.Collect(slices.Values([]int{1, 2, 3}))
	defer v.Drop()
	assert.Equal(t, "[1 2 3]", fmt.Sprint(v))
	assert.Equal(t, "[01 02 03]", fmt.Sprintf("%02d", v))

	require.Equal(t, "[]", fmt.Sprint(rawvec.New[int]()))
}

func TestDropNested(t *testing.T) {
	t.Parallel()

	var log []int
	outer := rawvec.New[*rawvec.Vec[tracked]]()
	for i := range 2 {
		inner := rawvec.New[tracked]()
		inner.Push(tracked{2 * i, &log})
		inner.Push(tracked{2*i + 1, &log})
		outer.Push(inner)
	}

	outer.Drop()
	assert.Equal(t, []int{3, 2, 1, 0}, log)
}
