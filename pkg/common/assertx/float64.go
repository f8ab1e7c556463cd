// Copyright 2024 ColexecDB Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package assertx

import "math"

// defaultEpsilon is the absolute tolerance used when comparing float64
// aggregation results across execution strategies.
const defaultEpsilon = 1e-10

// InEpsilonF64 reports whether got is within the absolute tolerance of
// want. NaN compares structurally: NaN equals NaN and nothing else.
// -0.0 and +0.0 compare equal.
func InEpsilonF64(want, got float64) bool {
	if math.IsNaN(want) || math.IsNaN(got) {
		return math.IsNaN(want) && math.IsNaN(got)
	}
	if math.IsInf(want, 0) || math.IsInf(got, 0) {
		return want == got
	}
	return math.Abs(want-got) < defaultEpsilon
}

// InEpsilonF64Slices reports whether the two slices are element-wise
// equal under InEpsilonF64.
func InEpsilonF64Slices(want, got []float64) bool {
	if len(want) != len(got) {
		return false
	}
	for i := range want {
		if !InEpsilonF64(want[i], got[i]) {
			return false
		}
	}
	return true
}
