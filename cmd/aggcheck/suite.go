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

package main

import (
	"math"
	"math/rand"

	"github.com/colexecdb/aggcheck/pkg/container/types"
	"github.com/colexecdb/aggcheck/pkg/container/vector"
	"github.com/colexecdb/aggcheck/pkg/sql/colexec/agg"
	"github.com/colexecdb/aggcheck/pkg/sql/colexec/aggcheck"
	"github.com/colexecdb/aggcheck/pkg/testutil"
)

// suite is one self-contained equivalence check over a built-in
// aggregate and a fixed input.
type suite struct {
	name string
	run  func() error
}

func verifySuite(name string, aggName string, typ types.T, expected aggcheck.Result, cols ...*vector.Vector) suite {
	return suite{
		name: name,
		run: func() error {
			fn, err := agg.New(aggName, typ.ToType())
			if err != nil {
				return err
			}
			return aggcheck.Verify(fn, expected, cols...)
		},
	}
}

func builtinSuites() []suite {
	return []suite{
		verifySuite("sum_int64", "sum", types.T_int64,
			aggcheck.IntResult(15),
			testutil.NewInt64Vector([]int64{1, 2, 3, 4, 5})),
		verifySuite("sum_int64_nulls", "sum", types.T_int64,
			aggcheck.IntResult(4),
			testutil.NewInt64Vector([]int64{1, 99, 3}, 1)),
		verifySuite("sum_int64_empty", "sum", types.T_int64,
			aggcheck.NullResult()),
		verifySuite("sum_float64_nan", "sum", types.T_float64,
			aggcheck.FloatResult(math.NaN()),
			testutil.NewFloat64Vector([]float64{math.Inf(1), math.Inf(-1)})),
		verifySuite("count_int64", "count", types.T_int64,
			aggcheck.IntResult(3),
			testutil.NewInt64Vector([]int64{7, 7, 8})),
		verifySuite("count_int64_empty", "count", types.T_int64,
			aggcheck.IntResult(0)),
		verifySuite("avg_float64", "avg", types.T_float64,
			aggcheck.FloatResult(2.0),
			testutil.NewFloat64Vector([]float64{1.0, 2.0, 3.0})),
		verifySuite("covar_pop", "covar_pop", types.T_float64,
			aggcheck.FloatResult(2.5),
			testutil.NewFloat64Vector([]float64{1, 2, 3, 4}),
			testutil.NewFloat64Vector([]float64{2, 4, 6, 8})),
		verifySuite("approx_count_distinct", "approx_count_distinct", types.T_int64,
			aggcheck.IntResult(2),
			testutil.NewInt64Vector([]int64{7, 7, 8})),
		randomSumSuite(),
		randomCountSuite(),
	}
}

// The randomized suites draw fresh rows each run; the expected value is
// derived from the drawn rows, so the check is strategy agreement, not
// a fixed answer.
func randomSumSuite() suite {
	rng := rand.New(rand.NewSource(rand.Int63()))
	n := 1 + rng.Intn(200)
	vs := make([]int64, n)
	var want int64
	for i := range vs {
		vs[i] = rng.Int63n(1000) - 500
		want += vs[i]
	}
	return verifySuite("sum_int64_random", "sum", types.T_int64,
		aggcheck.IntResult(want), testutil.NewInt64Vector(vs))
}

func randomCountSuite() suite {
	rng := rand.New(rand.NewSource(rand.Int63()))
	n := 1 + rng.Intn(200)
	vs := make([]int64, n)
	nullRows := make([]uint64, 0, n)
	for i := range vs {
		vs[i] = rng.Int63()
		if rng.Intn(4) == 0 {
			nullRows = append(nullRows, uint64(i))
		}
	}
	return verifySuite("count_int64_random", "count", types.T_int64,
		aggcheck.IntResult(int64(n-len(nullRows))),
		testutil.NewInt64Vector(vs, nullRows...))
}
