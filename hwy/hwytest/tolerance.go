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

package hwytest

import (
	"fmt"
	"math"
)

// ToleranceViolation reports a backend result that differs from the scalar
// reference by more than the operation allows. Exact operations have a
// Tolerance of zero.
type ToleranceViolation struct {
	Op        string
	Index     int // element index, or -1 for reductions
	Want, Got float64
	Tolerance float64
}

func (e *ToleranceViolation) Error() string {
	where := ""
	if e.Index >= 0 {
		where = fmt.Sprintf(" at %d", e.Index)
	}
	if e.Tolerance == 0 {
		return fmt.Sprintf("%s%s: got %v, want %v exactly", e.Op, where, e.Got, e.Want)
	}
	return fmt.Sprintf("%s%s: got %v, want %v within %g (off by %g)",
		e.Op, where, e.Got, e.Want, e.Tolerance, math.Abs(e.Got-e.Want))
}

// EqualBytes returns a *ToleranceViolation for the first byte where got
// differs from want, or for differing lengths.
func EqualBytes(op string, want, got []byte) error {
	if len(want) != len(got) {
		return &ToleranceViolation{Op: op + " length", Index: -1, Want: float64(len(want)), Got: float64(len(got))}
	}
	for i := range want {
		if want[i] != got[i] {
			return &ToleranceViolation{Op: op, Index: i, Want: float64(want[i]), Got: float64(got[i])}
		}
	}
	return nil
}

// EqualFloats requires got to match want bit for bit.
func EqualFloats(op string, want, got []float64) error {
	if len(want) != len(got) {
		return &ToleranceViolation{Op: op + " length", Index: -1, Want: float64(len(want)), Got: float64(len(got))}
	}
	for i := range want {
		if math.Float64bits(want[i]) != math.Float64bits(got[i]) {
			return &ToleranceViolation{Op: op, Index: i, Want: want[i], Got: got[i]}
		}
	}
	return nil
}

// unitRoundoff is 2^-53, the relative rounding error of one float64 operation.
const unitRoundoff = 0x1p-53

// SumTolerance bounds the difference between two summations of the same n
// values in different orders. Each ordering is within gamma(n-1)*sum|x| of
// the exact sum, where gamma(k) = k*u/(1-k*u), so two orderings are within
// twice that of each other. absSum is the sum of the absolute values.
func SumTolerance(n int, absSum float64) float64 {
	if n <= 1 {
		return 0
	}
	k := float64(n-1) * unitRoundoff
	return 2 * k / (1 - k) * absSum
}

// CloseSum checks a reordered summation of n values against the scalar
// reference want.
func CloseSum(op string, want, got float64, n int, absSum float64) error {
	tol := SumTolerance(n, absSum)
	if math.Abs(got-want) > tol || math.IsNaN(got) != math.IsNaN(want) {
		return &ToleranceViolation{Op: op, Index: -1, Want: want, Got: got, Tolerance: tol}
	}
	return nil
}
