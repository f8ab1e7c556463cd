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

// Package testutil builds vectors for tests. Construction failures
// panic: test fixtures are static.
package testutil

import (
	"github.com/colexecdb/aggcheck/pkg/container/types"
	"github.com/colexecdb/aggcheck/pkg/container/vector"
)

func NewBoolVector(vs []bool, nullRows ...uint64) *vector.Vector {
	vec := vector.NewVec(types.T_bool.ToType())
	for _, v := range vs {
		mustAppend(vector.AppendFixed(vec, v, false))
	}
	markNulls(vec, nullRows)
	return vec
}

func NewInt64Vector(vs []int64, nullRows ...uint64) *vector.Vector {
	vec := vector.NewVec(types.T_int64.ToType())
	for _, v := range vs {
		mustAppend(vector.AppendFixed(vec, v, false))
	}
	markNulls(vec, nullRows)
	return vec
}

func NewFloat64Vector(vs []float64, nullRows ...uint64) *vector.Vector {
	vec := vector.NewVec(types.T_float64.ToType())
	for _, v := range vs {
		mustAppend(vector.AppendFixed(vec, v, false))
	}
	markNulls(vec, nullRows)
	return vec
}

func NewVarcharVector(vs []string, nullRows ...uint64) *vector.Vector {
	vec := vector.NewVec(types.T_varchar.ToType())
	for _, v := range vs {
		mustAppend(vector.AppendBytes(vec, []byte(v), false))
	}
	markNulls(vec, nullRows)
	return vec
}

func markNulls(vec *vector.Vector, rows []uint64) {
	if len(rows) > 0 {
		vec.GetNulls().Add(rows...)
	}
}

func mustAppend(err error) {
	if err != nil {
		panic(err)
	}
}
