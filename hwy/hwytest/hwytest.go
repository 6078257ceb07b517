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

// Package hwytest is the backend-forcing harness for kernel tests.
//
// By default a test exercises every backend that is both compiled into the
// test binary and supported by the CPU, comparing each against the scalar
// reference. Setting one of the forcing variables read by
// hwy.OverrideFromEnv restricts the run to exactly that backend:
//
//	NEON=1 go test ./...              # run only the NEON backend
//	HWY_BACKEND=avx2 go test ./...    # run only the AVX2 backend
//	HWY_NO_SIMD=1 go test ./...       # run only the scalar backend
//
// A forced backend that cannot run fails the whole test binary before any
// test starts; it is never replaced by another backend. Forcing is only
// meaningful on hardware (or an emulator such as qemu-user) that implements
// the named instruction set.
package hwytest

import (
	"os"
	"testing"

	"github.com/grailbio/base/log"
	"github.com/grailbio/base/must"

	"github.com/ajroetker/go-sparse-strips/hwy"
)

// Override returns the forcing signal of the environment, failing tb if it
// is malformed.
func Override(tb testing.TB) hwy.Override {
	tb.Helper()
	ov, err := hwy.OverrideFromEnv(os.LookupEnv)
	if err != nil {
		tb.Fatalf("hwytest: %v", err)
	}
	return ov
}

// Levels returns the backends a test should exercise among compiled: the
// forced one if the environment forces a backend, otherwise every backend
// the CPU supports. Scalar is always included when not forcing. A forced
// backend that cannot run fails tb.
func Levels(tb testing.TB, compiled hwy.Capabilities) []hwy.DispatchLevel {
	tb.Helper()
	levels, err := levels(Override(tb), compiled, hwy.Detect())
	if err != nil {
		tb.Fatalf("hwytest: %v", err)
	}
	return levels
}

func levels(ov hwy.Override, compiled, detected hwy.Capabilities) ([]hwy.DispatchLevel, error) {
	if ov.Forced {
		level, err := hwy.Resolve(ov, compiled, detected)
		if err != nil {
			return nil, err
		}
		return []hwy.DispatchLevel{level}, nil
	}
	usable := compiled.Intersect(detected)
	var out []hwy.DispatchLevel
	for _, l := range hwy.Levels {
		if usable.Has(l) {
			out = append(out, l)
		}
	}
	return out, nil
}

// Run calls fn in a subtest named after each backend returned by Levels.
func Run(t *testing.T, compiled hwy.Capabilities, fn func(t *testing.T, level hwy.DispatchLevel)) {
	t.Helper()
	for _, level := range Levels(t, compiled) {
		t.Run(level.String(), func(t *testing.T) {
			fn(t, level)
		})
	}
}

// Main is a TestMain helper. It checks the forcing signal against the
// compiled backends and the CPU, aborting the binary if a forced backend
// cannot run, then runs the tests.
//
//	func TestMain(m *testing.M) {
//	    hwytest.Main(m, fine.Compiled())
//	}
func Main(m *testing.M, compiled hwy.Capabilities) {
	ov, err := hwy.OverrideFromEnv(os.LookupEnv)
	must.Nil(err, "hwytest: reading backend override")
	detected := hwy.Detect()
	_, err = hwy.Resolve(ov, compiled, detected)
	must.Nil(err, "hwytest: forced backend")
	log.Debug.Printf("hwytest: override %s, compiled %s, detected %s", ov, compiled, detected)
	os.Exit(m.Run())
}
