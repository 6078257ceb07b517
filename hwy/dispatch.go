// Copyright 2025 go-highway Authors
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

package hwy

import (
	"strings"
	"sync"
)

// DispatchLevel identifies the backend that executes a kernel.
type DispatchLevel int

const (
	// DispatchScalar indicates no SIMD, pure Go implementation.
	DispatchScalar DispatchLevel = iota

	// DispatchAVX2 indicates AVX2 instructions (256-bit SIMD).
	DispatchAVX2

	// DispatchNEON indicates ARM NEON instructions (128-bit SIMD).
	DispatchNEON

	// DispatchAuto lets capability detection choose the backend. It is a
	// request, never the result of a resolution.
	DispatchAuto DispatchLevel = -1
)

// Levels lists the concrete backends in order of preference.
var Levels = []DispatchLevel{DispatchAVX2, DispatchNEON, DispatchScalar}

// String returns a human-readable name for the dispatch level.
func (d DispatchLevel) String() string {
	switch d {
	case DispatchScalar:
		return "scalar"
	case DispatchAVX2:
		return "avx2"
	case DispatchNEON:
		return "neon"
	case DispatchAuto:
		return "auto"
	default:
		return "unknown"
	}
}

// ParseDispatchLevel converts a backend name such as "avx2" into a
// DispatchLevel. Matching is case-insensitive; the empty string means auto.
func ParseDispatchLevel(name string) (DispatchLevel, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "auto":
		return DispatchAuto, nil
	case "scalar", "fallback", "generic":
		return DispatchScalar, nil
	case "avx2":
		return DispatchAVX2, nil
	case "neon", "asimd":
		return DispatchNEON, nil
	}
	return DispatchAuto, invalidf("unknown backend %q", name)
}

// Capabilities records which vector backends are available. It is used both
// for what the CPU reports (see Detect) and for what a binary was compiled
// with. The scalar backend is always available and has no flag.
type Capabilities struct {
	AVX2 bool
	NEON bool
}

// Has reports whether the level is present in c.
func (c Capabilities) Has(level DispatchLevel) bool {
	switch level {
	case DispatchScalar:
		return true
	case DispatchAVX2:
		return c.AVX2
	case DispatchNEON:
		return c.NEON
	default:
		return false
	}
}

// Intersect returns the backends present in both c and o.
func (c Capabilities) Intersect(o Capabilities) Capabilities {
	return Capabilities{AVX2: c.AVX2 && o.AVX2, NEON: c.NEON && o.NEON}
}

// String lists the present backends, always including scalar.
func (c Capabilities) String() string {
	names := make([]string, 0, len(Levels))
	for _, l := range Levels {
		if c.Has(l) {
			names = append(names, l.String())
		}
	}
	return strings.Join(names, ",")
}

// detected caches CPU feature detection for the life of the process. Capabilities
// cannot change while a process runs, so it is never invalidated.
var detected = sync.OnceValue(detectCapabilities)

// Detect returns the vector backends supported by the running CPU.
// Detection runs once, on first use.
func Detect() Capabilities {
	return detected()
}
