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
	"strconv"
)

// Environment variables read by OverrideFromEnv.
const (
	// EnvBackend names the backend to force: scalar, avx2, neon or auto.
	EnvBackend = "HWY_BACKEND"

	// EnvNoSimd forces the scalar backend when set to a true value.
	EnvNoSimd = "HWY_NO_SIMD"

	// EnvAVX2 forces the AVX2 backend when present, even if empty.
	EnvAVX2 = "AVX2"

	// EnvNEON forces the NEON backend when present, even if empty.
	EnvNEON = "NEON"
)

// Override is the forcing signal handed to a Dispatcher. The zero value
// requests automatic selection.
type Override struct {
	// Forced is true when Level must be used, or resolution must fail.
	Forced bool

	// Level is the requested backend. Ignored unless Forced.
	Level DispatchLevel
}

// Auto returns an Override that lets capability detection decide.
func Auto() Override {
	return Override{Level: DispatchAuto}
}

// Force returns an Override that demands the given backend. Forcing
// DispatchAuto is the same as Auto.
func Force(level DispatchLevel) Override {
	if level == DispatchAuto {
		return Auto()
	}
	return Override{Forced: true, Level: level}
}

// String returns "auto" or the forced backend name.
func (o Override) String() string {
	if !o.Forced {
		return "auto"
	}
	return o.Level.String()
}

// OverrideFromEnv builds an Override from environment variables, looked up
// with lookup (typically os.LookupEnv).
//
// HWY_BACKEND takes a backend name; empty means auto. AVX2 and NEON force
// their backend whenever they are present in the environment, whatever
// their value. HWY_NO_SIMD forces scalar when set to anything that does not
// parse as a false boolean. Directives naming different backends are
// rejected with an errors.Invalid error rather than resolved by precedence.
func OverrideFromEnv(lookup func(string) (string, bool)) (Override, error) {
	var (
		ov     = Auto()
		source string
	)
	request := func(name string, level DispatchLevel) error {
		if ov.Forced && ov.Level != level {
			return invalidf("conflicting backend overrides: %s requests %s, %s requests %s",
				source, ov.Level, name, level)
		}
		ov, source = Force(level), name
		return nil
	}

	if v, _ := lookup(EnvBackend); v != "" {
		level, err := ParseDispatchLevel(v)
		if err != nil {
			return Auto(), err
		}
		if level != DispatchAuto {
			if err := request(EnvBackend, level); err != nil {
				return Auto(), err
			}
		}
	}
	for _, f := range []struct {
		name  string
		level DispatchLevel
	}{
		{EnvAVX2, DispatchAVX2},
		{EnvNEON, DispatchNEON},
	} {
		if _, ok := lookup(f.name); !ok {
			continue
		}
		if err := request(f.name, f.level); err != nil {
			return Auto(), err
		}
	}
	if v, _ := lookup(EnvNoSimd); noSimd(v) {
		if err := request(EnvNoSimd, DispatchScalar); err != nil {
			return Auto(), err
		}
	}
	return ov, nil
}

// noSimd interprets HWY_NO_SIMD. Any non-empty value is considered true
// unless it parses as a false boolean.
func noSimd(val string) bool {
	if val == "" {
		return false
	}
	if b, err := strconv.ParseBool(val); err == nil {
		return b
	}
	return true
}
