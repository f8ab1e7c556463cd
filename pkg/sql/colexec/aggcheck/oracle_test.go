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

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/colexecdb/aggcheck/pkg/common/moerr"
	"github.com/colexecdb/aggcheck/pkg/container/batch"
	"github.com/colexecdb/aggcheck/pkg/container/types"
	"github.com/colexecdb/aggcheck/pkg/container/vector"
	"github.com/colexecdb/aggcheck/pkg/sql/colexec/agg"
	"github.com/colexecdb/aggcheck/pkg/testutil"
)

func mustAgg(t *testing.T, name string, typ types.Type) agg.AggFunction {
	t.Helper()
	fn, err := agg.New(name, typ)
	require.NoError(t, err)
	return fn
}

func TestVerifySum(t *testing.T) {
	fn := mustAgg(t, "sum", types.T_int64.ToType())
	err := Verify(fn, IntResult(15), testutil.NewInt64Vector([]int64{1, 2, 3, 4, 5}))
	require.NoError(t, err)
}

func TestVerifyBatchesPreSplit(t *testing.T) {
	fn := mustAgg(t, "sum", types.T_int64.ToType())
	head, err := batch.NewWithVectors([]*vector.Vector{testutil.NewInt64Vector([]int64{1, 2})})
	require.NoError(t, err)
	tail, err := batch.NewWithVectors([]*vector.Vector{testutil.NewInt64Vector([]int64{3, 4, 5})})
	require.NoError(t, err)
	require.NoError(t, VerifyBatches(fn, IntResult(15), head, tail))
}

func TestVerifyAvgWithinTolerance(t *testing.T) {
	fn := mustAgg(t, "avg", types.T_float64.ToType())
	err := Verify(fn, FloatResult(2.0), testutil.NewFloat64Vector([]float64{1.0, 2.0, 3.0}))
	require.NoError(t, err)
}

func TestVerifySumWithNulls(t *testing.T) {
	fn := mustAgg(t, "sum", types.T_int64.ToType())
	err := Verify(fn, IntResult(4), testutil.NewInt64Vector([]int64{1, 99, 3}, 1))
	require.NoError(t, err)
}

func TestVerifyCount(t *testing.T) {
	fn := mustAgg(t, "count", types.T_int64.ToType())
	require.NoError(t, Verify(fn, IntResult(3), testutil.NewInt64Vector([]int64{7, 7, 8})))
	require.NoError(t, Verify(fn, IntResult(2), testutil.NewInt64Vector([]int64{7, 7, 8}, 0)))
}

func TestVerifyApproxCountDistinct(t *testing.T) {
	fn := mustAgg(t, "approx_count_distinct", types.T_int64.ToType())
	err := Verify(fn, IntResult(2), testutil.NewInt64Vector([]int64{7, 7, 8}))
	require.NoError(t, err)
}

// covar_pop has two arguments, so this exercises the reversed binding
// on top of the identity and offset bindings.
func TestVerifyCovarPop(t *testing.T) {
	fn := mustAgg(t, "covar_pop", types.T_float64.ToType())
	err := Verify(fn, FloatResult(2.5),
		testutil.NewFloat64Vector([]float64{1, 2, 3, 4}),
		testutil.NewFloat64Vector([]float64{2, 4, 6, 8}))
	require.NoError(t, err)
}

func TestVerifyNoInput(t *testing.T) {
	require.NoError(t, Verify(mustAgg(t, "sum", types.T_int64.ToType()), NullResult()))
	require.NoError(t, Verify(mustAgg(t, "count", types.T_int64.ToType()), IntResult(0)))
}

func TestVerifyZeroRowVector(t *testing.T) {
	fn := mustAgg(t, "sum", types.T_int64.ToType())
	require.NoError(t, Verify(fn, NullResult(), testutil.NewInt64Vector(nil)))
}

func TestVerifySingleRow(t *testing.T) {
	fn := mustAgg(t, "sum", types.T_int64.ToType())
	require.NoError(t, Verify(fn, IntResult(42), testutil.NewInt64Vector([]int64{42})))
}

func TestVerifyNaN(t *testing.T) {
	fn := mustAgg(t, "sum", types.T_float64.ToType())
	err := Verify(fn, FloatResult(math.NaN()),
		testutil.NewFloat64Vector([]float64{math.Inf(1), math.Inf(-1)}))
	require.NoError(t, err)
}

func TestVerifyUnequalPositionCounts(t *testing.T) {
	fn := mustAgg(t, "covar_pop", types.T_float64.ToType())
	err := Verify(fn, NullResult(),
		testutil.NewFloat64Vector([]float64{1, 2, 3}),
		testutil.NewFloat64Vector([]float64{1, 2}))
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidInput))
}

func TestVerifyWrongExpected(t *testing.T) {
	fn := mustAgg(t, "sum", types.T_int64.ToType())
	err := Verify(fn, IntResult(99), testutil.NewInt64Vector([]int64{1, 2, 3}))
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrAggResultMismatch))
	require.Contains(t, err.Error(), "direct aggregation against expected value")
}

// dropMergeSum is sum with a deliberately broken Merge that discards
// the other side's state. The direct strategy never merges, so only
// the partial strategies can expose the bug.
type dropMergeSum struct {
	sum   int64
	empty bool
}

func newDropMergeSum() agg.State {
	return &dropMergeSum{empty: true}
}

func (s *dropMergeSum) Fill(vecs []*vector.Vector, row int) error {
	if vecs[0].IsNullAt(uint64(row)) {
		return nil
	}
	s.sum += vector.GetFixedAt[int64](vecs[0], row)
	s.empty = false
	return nil
}

func (s *dropMergeSum) Merge(other agg.State) error {
	return nil
}

func (s *dropMergeSum) Flush(out *vector.Vector) error {
	if s.empty {
		return vector.AppendFixed(out, int64(0), true)
	}
	return vector.AppendFixed(out, s.sum, false)
}

func (s *dropMergeSum) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, s.empty); err != nil {
		return nil, err
	}
	if err := binary.Write(&buf, binary.LittleEndian, s.sum); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *dropMergeSum) UnmarshalBinary(data []byte) error {
	r := bytes.NewReader(data)
	if err := binary.Read(r, binary.LittleEndian, &s.empty); err != nil {
		return err
	}
	return binary.Read(r, binary.LittleEndian, &s.sum)
}

func TestVerifyDetectsBrokenMerge(t *testing.T) {
	fn := agg.NewAggFunction("broken_sum",
		[]types.Type{types.T_int64.ToType()}, types.T_int64.ToType(), newDropMergeSum)

	err := Verify(fn, IntResult(15), testutil.NewInt64Vector([]int64{1, 2, 3, 4, 5}))
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrAggResultMismatch))
	require.Contains(t, err.Error(), "partial aggregation")
}

func TestDistinctAggregation(t *testing.T) {
	fn := mustAgg(t, "sum", types.T_int64.ToType())
	bat, err := batch.NewWithVectors([]*vector.Vector{testutil.NewInt64Vector([]int64{5, 6})})
	require.NoError(t, err)

	ref, err := DistinctAggregation(fn, []*batch.Batch{bat})
	require.NoError(t, err)
	require.True(t, ref.Equal(IntResult(11)))

	_, err = DistinctAggregation(fn, nil)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidInput))
}

func TestGroupedAggregationIndependence(t *testing.T) {
	fn := mustAgg(t, "sum", types.T_int64.ToType())
	bat, err := batch.NewWithVectors([]*vector.Vector{testutil.NewInt64Vector([]int64{2, 3})})
	require.NoError(t, err)

	got, err := GroupedAggregation(fn, []*batch.Batch{bat})
	require.NoError(t, err)
	require.True(t, got.Equal(IntResult(5)))
}

func TestGroupedPartialAggregation(t *testing.T) {
	fn := mustAgg(t, "avg", types.T_float64.ToType())
	b1, err := batch.NewWithVectors([]*vector.Vector{testutil.NewFloat64Vector([]float64{1, 2})})
	require.NoError(t, err)
	b2, err := batch.NewWithVectors([]*vector.Vector{testutil.NewFloat64Vector([]float64{3})})
	require.NoError(t, err)

	got, err := GroupedPartialAggregation(fn, []*batch.Batch{b1, b2})
	require.NoError(t, err)
	require.True(t, got.Equal(FloatResult(2.0)))
}

func TestResultEquality(t *testing.T) {
	require.True(t, NullResult().Equal(NullResult()))
	require.False(t, NullResult().Equal(IntResult(0)))
	require.True(t, FloatResult(1.0).Equal(FloatResult(1.0+1e-12)))
	require.False(t, FloatResult(1.0).Equal(FloatResult(1.1)))
	require.True(t, FloatResult(math.NaN()).Equal(FloatResult(math.NaN())))
	require.False(t, IntResult(1).Equal(FloatResult(1)))
	require.True(t, StringResult("a").Equal(StringResult("a")))
	require.True(t, BoolResult(true).Equal(BoolResult(true)))

	require.Equal(t, "NULL", NullResult().String())
	require.Equal(t, "15", IntResult(15).String())
}
