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
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Not parallel: this swaps out package state.
func TestHandleError(t *testing.T) {
	var out bytes.Buffer
	var code int
	oldStderr, oldExit := stderr, exit
	stderr, exit = &out, func(c int) { code = c }
	t.Cleanup(func() { stderr, exit = oldStderr, oldExit })

	layout, _ := ArrayOf[int32](16)
	assert.PanicsWithValue(t, "alloc: exit returned", func() { HandleError(layout) })
	assert.Equal(t, AbortExitCode, code)
	assert.Equal(t, "memory allocation of 64 bytes failed\n", out.String())
}
