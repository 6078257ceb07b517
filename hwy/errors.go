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
	"fmt"

	"github.com/grailbio/base/errors"
)

// Failures are reported with grailbio error kinds so that callers can classify
// them with IsInvalidInput and IsBackendUnavailable regardless of wrapping:
//
//   - errors.Invalid: an operand violates a kernel's shape or value
//     preconditions, or the forcing configuration is malformed.
//   - errors.NotSupported: a forced backend is not compiled into the binary
//     or not supported by the CPU.

// InvalidInputf returns an error of kind errors.Invalid.
func InvalidInputf(format string, args ...any) error {
	return errors.E(errors.Invalid, fmt.Sprintf(format, args...))
}

func invalidf(format string, args ...any) error {
	return errors.E(errors.Invalid, "hwy:", fmt.Sprintf(format, args...))
}

// BackendUnavailable returns an error of kind errors.NotSupported naming the
// backend that was requested and why it cannot run.
func BackendUnavailable(level DispatchLevel, reason string) error {
	return errors.E(errors.NotSupported, fmt.Sprintf("hwy: backend %s unavailable:", level), reason)
}

// IsInvalidInput reports whether err was caused by invalid operands or
// configuration.
func IsInvalidInput(err error) bool {
	return errors.Is(errors.Invalid, err)
}

// IsBackendUnavailable reports whether err was caused by forcing a backend
// that cannot run.
func IsBackendUnavailable(err error) bool {
	return errors.Is(errors.NotSupported, err)
}
