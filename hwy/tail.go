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

// ProcessWithTail splits size elements into chunks of lanes elements.
//
// It calls:
//   - fullFn(offset) for each full chunk (offset is the starting index)
//   - tailFn(offset, count) once for the remaining count < lanes elements,
//     if size is not a multiple of lanes
//
// Every backend handles remainders this way, so a tail is always processed by
// the same code no matter which backend ran the full chunks.
//
// Example:
//
//	hwy.ProcessWithTail(len(px)/4, 8,
//	    func(offset int) {
//	        // Process pixels px[offset*4 : offset*4+32] with vectors.
//	    },
//	    func(offset, count int) {
//	        // Process the last count pixels one at a time.
//	    },
//	)
func ProcessWithTail(size, lanes int, fullFn func(offset int), tailFn func(offset, count int)) {
	if lanes <= 0 {
		panic("hwy: ProcessWithTail: lanes must be positive")
	}

	fullVectors := size / lanes
	for i := range fullVectors {
		fullFn(i * lanes)
	}

	remaining := size % lanes
	if remaining > 0 {
		tailFn(fullVectors*lanes, remaining)
	}
}
