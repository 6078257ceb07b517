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
	"sync"

	"github.com/grailbio/base/log"
)

// Resolve picks the backend for an override, given the backends compiled into
// the binary and those detected on the CPU. It is a pure function.
//
// A forced backend is returned only if it is both compiled and detected;
// otherwise the result is an errors.NotSupported error and no other backend
// is substituted. Scalar can always be forced. Without forcing, the most
// capable backend present in both sets is returned, falling back to scalar,
// and resolution never fails.
func Resolve(ov Override, compiled, detected Capabilities) (DispatchLevel, error) {
	if !ov.Forced || ov.Level == DispatchAuto {
		usable := compiled.Intersect(detected)
		for _, l := range Levels {
			if usable.Has(l) {
				return l, nil
			}
		}
		return DispatchScalar, nil
	}
	switch ov.Level {
	case DispatchScalar:
		return DispatchScalar, nil
	case DispatchAVX2, DispatchNEON:
	default:
		return DispatchAuto, invalidf("cannot force unknown backend %d", int(ov.Level))
	}
	if !compiled.Has(ov.Level) {
		return DispatchAuto, BackendUnavailable(ov.Level, "not compiled into this binary (built for another GOARCH or with -tags noasm/purego)")
	}
	if !detected.Has(ov.Level) {
		return DispatchAuto, BackendUnavailable(ov.Level, "not supported by this CPU")
	}
	return ov.Level, nil
}

// Dispatcher resolves and caches the backend used by a set of kernels. The
// first call to Level performs resolution; the outcome, success or failure,
// is then fixed for the lifetime of the Dispatcher. A Dispatcher is safe for
// concurrent use.
type Dispatcher struct {
	override Override
	compiled Capabilities
	detect   func() Capabilities

	once  sync.Once
	level DispatchLevel
	err   error
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithOverride sets the forcing signal. The default is Auto.
func WithOverride(ov Override) Option {
	return func(d *Dispatcher) { d.override = ov }
}

// WithDetector replaces CPU detection, which defaults to Detect. Tests use
// it to simulate hosts with different instruction sets.
func WithDetector(detect func() Capabilities) Option {
	return func(d *Dispatcher) { d.detect = detect }
}

// NewDispatcher returns a Dispatcher choosing among the compiled backends.
func NewDispatcher(compiled Capabilities, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		override: Auto(),
		compiled: compiled,
		detect:   Detect,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Level returns the resolved backend, resolving it on first use.
func (d *Dispatcher) Level() (DispatchLevel, error) {
	d.once.Do(func() {
		detected := d.detect()
		d.level, d.err = Resolve(d.override, d.compiled, detected)
		if d.err != nil {
			log.Error.Printf("hwy: override %s: %v", d.override, d.err)
			return
		}
		log.Debug.Printf("hwy: using %s backend (override %s, compiled %s, detected %s)",
			d.level, d.override, d.compiled, detected)
	})
	return d.level, d.err
}

// Override returns the forcing signal the Dispatcher was built with.
func (d *Dispatcher) Override() Override {
	return d.override
}

// Compiled returns the set of backends the Dispatcher may choose from.
func (d *Dispatcher) Compiled() Capabilities {
	return d.compiled
}
