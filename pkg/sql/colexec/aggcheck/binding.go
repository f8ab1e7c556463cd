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

package aggcheck

// MakeArgs returns the identity channel binding [0, 1, ..., n-1].
func MakeArgs(n int) []int32 {
	args := make([]int32, n)
	for i := range args {
		args[i] = int32(i)
	}
	return args
}

// ReverseArgs returns the identity binding reversed. Only meaningful
// for functions taking more than one argument.
func ReverseArgs(n int) []int32 {
	args := MakeArgs(n)
	for i, j := 0, len(args)-1; i < j; i, j = i+1, j-1 {
		args[i], args[j] = args[j], args[i]
	}
	return args
}

// OffsetArgs returns the identity binding shifted up by k, leaving the
// k low channels for decoy columns.
func OffsetArgs(n, k int) []int32 {
	args := MakeArgs(n)
	for i := range args {
		args[i] += int32(k)
	}
	return args
}
