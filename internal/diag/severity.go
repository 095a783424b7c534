// Copyright 2026 Oliver Eikemeier. All Rights Reserved.
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

package diag

import (
	"fmt"
	"strings"
)

// Severity specifies how serious a diagnostic is.
type Severity uint8

const (
	// Error blocks compilation.
	Error Severity = iota

	// Warning is reported, but does not block compilation.
	Warning

	// Info is informational only.
	Info
)

func (s Severity) String() string {
	b, err := s.MarshalText()
	if err != nil {
		return fmt.Sprintf("Severity(%d)", s)
	}

	return string(b)
}

// MarshalText implements [encoding.TextMarshaler].
func (s Severity) MarshalText() ([]byte, error) {
	switch s {
	case Error:
		return []byte("error"), nil

	case Warning:
		return []byte("warning"), nil

	case Info:
		return []byte("info"), nil

	default:
		return nil, fmt.Errorf("unknown severity %d", s)
	}
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (s *Severity) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "error", "err":
		*s = Error

	case "", "warning", "warn":
		*s = Warning

	case "info":
		*s = Info

	default:
		return fmt.Errorf("unknown severity %q", string(text))
	}

	return nil
}

// AtLeast reports whether s is at least as serious as o.
func (s Severity) AtLeast(o Severity) bool {
	return s <= o
}
