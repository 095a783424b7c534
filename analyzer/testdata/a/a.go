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


package a

import "os"

func read() int {
	var x int
	return x // want "Use of unassigned variable 'x'"
}

func branches(b bool) int {
	var x int
	if b {
		x = 1
	} else {
		x = 2
	}

	return x
}

func exit(b bool) int {
	var x int
	if b {
		x = 1
	} else {
		os.Exit(1)
	}

	return x
}

func status(code int) string {
	var s string
	switch code {
	case 200:
		s = "ok"
	case 404:
		s = "not found"
	}

	return s // want "Use of unassigned variable 's'"
}

func dead() int {
	return 1
	println("dead") // want "Unreachable code detected"
	return 2
}

func suppressed() int {
	var x int
	return x //nolint:definite
}

//nolint:definite
func suppressedFunc() int {
	var x int
	return x
}

type pair struct{ a, b int }

func partial() pair {
	var p pair
	p.a = 1

	return p // want "Use of unassigned variable 'p'"
}

func complete() pair {
	var p pair
	p.a, p.b = 1, 2

	return p
}
