// Copyright 2025-2026 Oliver Eikemeier. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package noreturn

import (
	"log"
	"os"
	"runtime"
	"syscall"
	"testing"
)

func fatal() {
	log.Fatal() // want "exits"
}

func builtin() {
	panic("") // want "panics"
}

func loggerPanic() {
	l := log.Default()

	l.Panicf("") // want "panics"
}

func exit() {
	os.Exit(1) // want "exits"
}

func syscallExit() {
	syscall.Exit(1) // want "exits"
}

func goexit() {
	runtime.Goexit() // want "exits"
}

func testFatal(t *testing.T) {
	t.Fatal() // want "exits"
}

func ordinary() {
	println("hello")
}

func shadowed() {
	panic := log.Print

	panic("hello")
}

func parenthesized() {
	(os.Exit)(2) // want "exits"
}
