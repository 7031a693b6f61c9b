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

// Dropper is implemented by element types that must be cleaned up when a
// container discards them.
//
// Drop may be declared on either T or *T. It is called once for every
// element that a [Vec], [IntoIter], or [Drain] discards; it is never called
// on values that are handed back to the caller.
type Dropper interface {
	Drop()
}

// drop runs v's Drop method, if it has one.
func drop[T any](v T) {
	if d, ok := any(v).(Dropper); ok {
		d.Drop()
		return
	}
	if d, ok := any(&v).(Dropper); ok {
		d.Drop()
	}
}
