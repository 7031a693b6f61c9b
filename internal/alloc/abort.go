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
	"io"
	"os"
)

// AbortExitCode is the status the process exits with when an allocation
// fails. It matches the status of a process killed by SIGABRT.
const AbortExitCode = 134

var (
	stderr io.Writer = os.Stderr
	exit             = os.Exit
)

// HandleError reports that a request for layout could not be satisfied and
// terminates the process. It never returns.
//
// Unlike a panic, this cannot be recovered from, and deferred functions do
// not run.
func HandleError(layout Layout) {
	fmt.Fprintf(stderr, "memory allocation of %d bytes failed\n", layout.Size)
	exit(AbortExitCode)
	panic("alloc: exit returned")
}
