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

package agg

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/colexecdb/aggcheck/pkg/common/moerr"
	"github.com/colexecdb/aggcheck/pkg/container/batch"
	"github.com/colexecdb/aggcheck/pkg/container/types"
	"github.com/colexecdb/aggcheck/pkg/container/vector"
	"github.com/colexecdb/aggcheck/pkg/testutil"
)

func mustBatch(t *testing.T, vecs ...*vector.Vector) *batch.Batch {
	t.Helper()
	bat, err := batch.NewWithVectors(vecs)
	require.NoError(t, err)
	return bat
}

func mustBind(t *testing.T, fn AggFunction, maskChannel int32) AccumulatorFactory {
	t.Helper()
	args := make([]int32, len(fn.ArgTypes()))
	for i := range args {
		args[i] = int32(i)
	}
	factory, err := fn.Bind(args, maskChannel)
	require.NoError(t, err)
	return factory
}

func evalInt64(t *testing.T, acc Accumulator) (int64, bool) {
	t.Helper()
	vec, err := acc.EvalFinal()
	require.NoError(t, err)
	require.Equal(t, 1, vec.Length())
	if vec.IsNullAt(0) {
		return 0, true
	}
	return vector.GetFixedAt[int64](vec, 0), false
}

func TestSumInt64(t *testing.T) {
	fn, err := NewSum(types.T_int64.ToType())
	require.NoError(t, err)
	acc := mustBind(t, fn, NoMaskChannel).NewAccumulator()

	require.NoError(t, acc.AddInput(mustBatch(t, testutil.NewInt64Vector([]int64{1, 2, 3, 4, 5}))))
	got, isNull := evalInt64(t, acc)
	require.False(t, isNull)
	require.Equal(t, int64(15), got)
}

func TestSumSkipsNulls(t *testing.T) {
	fn, err := NewSum(types.T_int64.ToType())
	require.NoError(t, err)
	acc := mustBind(t, fn, NoMaskChannel).NewAccumulator()

	require.NoError(t, acc.AddInput(mustBatch(t, testutil.NewInt64Vector([]int64{1, 2, 3}, 1))))
	got, isNull := evalInt64(t, acc)
	require.False(t, isNull)
	require.Equal(t, int64(4), got)
}

func TestSumOfNothingIsNull(t *testing.T) {
	fn, err := NewSum(types.T_int64.ToType())
	require.NoError(t, err)
	_, isNull := evalInt64(t, mustBind(t, fn, NoMaskChannel).NewAccumulator())
	require.True(t, isNull)
}

func TestCountSkipsNullsButNeverNull(t *testing.T) {
	fn := NewCount(types.T_int64.ToType())
	acc := mustBind(t, fn, NoMaskChannel).NewAccumulator()
	require.NoError(t, acc.AddInput(mustBatch(t, testutil.NewInt64Vector([]int64{7, 8, 9}, 2))))
	got, isNull := evalInt64(t, acc)
	require.False(t, isNull)
	require.Equal(t, int64(2), got)

	empty := mustBind(t, fn, NoMaskChannel).NewAccumulator()
	got, isNull = evalInt64(t, empty)
	require.False(t, isNull)
	require.Equal(t, int64(0), got)
}

func TestAvg(t *testing.T) {
	acc := mustBind(t, NewAvg(), NoMaskChannel).NewAccumulator()
	require.NoError(t, acc.AddInput(mustBatch(t, testutil.NewFloat64Vector([]float64{1.0, 2.0, 3.0}))))
	vec, err := acc.EvalFinal()
	require.NoError(t, err)
	require.InDelta(t, 2.0, vector.GetFixedAt[float64](vec, 0), 1e-10)
}

func TestCovarPop(t *testing.T) {
	acc := mustBind(t, NewCovarPop(), NoMaskChannel).NewAccumulator()
	x := testutil.NewFloat64Vector([]float64{1, 2, 3, 4})
	y := testutil.NewFloat64Vector([]float64{2, 4, 6, 8})
	require.NoError(t, acc.AddInput(mustBatch(t, x, y)))
	vec, err := acc.EvalFinal()
	require.NoError(t, err)
	// covar_pop of perfectly correlated data: var_pop(x) * slope = 1.25 * 2
	require.InDelta(t, 2.5, vector.GetFixedAt[float64](vec, 0), 1e-10)
}

func TestApproxCountDistinct(t *testing.T) {
	fn := NewApproxCountDistinct(types.T_int64.ToType())
	acc := mustBind(t, fn, NoMaskChannel).NewAccumulator()
	require.NoError(t, acc.AddInput(mustBatch(t, testutil.NewInt64Vector([]int64{7, 7, 8}))))
	got, isNull := evalInt64(t, acc)
	require.False(t, isNull)
	require.Equal(t, int64(2), got)
}

func TestIntermediateRoundTrip(t *testing.T) {
	fn, err := NewSum(types.T_int64.ToType())
	require.NoError(t, err)
	factory := mustBind(t, fn, NoMaskChannel)

	part := factory.NewAccumulator()
	require.NoError(t, part.AddInput(mustBatch(t, testutil.NewInt64Vector([]int64{1, 2}))))
	iv, err := part.EvalIntermediate()
	require.NoError(t, err)
	require.Equal(t, 1, iv.Length())
	require.Equal(t, types.T_varchar, iv.GetType().Oid)

	emptyIv, err := factory.NewAccumulator().EvalIntermediate()
	require.NoError(t, err)

	final := factory.NewIntermediateAccumulator()
	require.NoError(t, final.AddIntermediate(emptyIv))
	require.NoError(t, final.AddIntermediate(iv))
	require.NoError(t, final.AddIntermediate(emptyIv))
	got, isNull := evalInt64(t, final)
	require.False(t, isNull)
	require.Equal(t, int64(3), got)
}

func TestCorruptIntermediateRejected(t *testing.T) {
	fn, err := NewSum(types.T_int64.ToType())
	require.NoError(t, err)
	acc := mustBind(t, fn, NoMaskChannel).NewAccumulator()

	bad := vector.NewVec(types.T_varchar.ToType())
	require.NoError(t, vector.AppendBytes(bad, []byte("not an lz4 frame"), false))
	err = acc.AddIntermediate(bad)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInternal))
}

func TestFinalizedAccumulatorRejectsMutation(t *testing.T) {
	fn, err := NewSum(types.T_int64.ToType())
	require.NoError(t, err)
	acc := mustBind(t, fn, NoMaskChannel).NewAccumulator()
	bat := mustBatch(t, testutil.NewInt64Vector([]int64{1}))
	require.NoError(t, acc.AddInput(bat))

	_, err = acc.EvalFinal()
	require.NoError(t, err)

	err = acc.AddInput(bat)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInternal))
	_, err = acc.EvalFinal()
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInternal))
}

func TestMaskFiltersRows(t *testing.T) {
	fn, err := NewSum(types.T_int64.ToType())
	require.NoError(t, err)
	factory, err := fn.Bind([]int32{0}, 1)
	require.NoError(t, err)
	acc := factory.NewAccumulator()

	bat := mustBatch(t,
		testutil.NewInt64Vector([]int64{10, 20, 30}),
		testutil.NewBoolVector([]bool{true, false, true}))
	require.NoError(t, acc.AddInput(bat))
	got, isNull := evalInt64(t, acc)
	require.False(t, isNull)
	require.Equal(t, int64(40), got)
}

func TestMaskMustBeBool(t *testing.T) {
	fn, err := NewSum(types.T_int64.ToType())
	require.NoError(t, err)
	factory, err := fn.Bind([]int32{0}, 1)
	require.NoError(t, err)

	bat := mustBatch(t,
		testutil.NewInt64Vector([]int64{1}),
		testutil.NewInt64Vector([]int64{1}))
	err = factory.NewAccumulator().AddInput(bat)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidInput))
}

func TestBindValidation(t *testing.T) {
	fn, err := NewSum(types.T_int64.ToType())
	require.NoError(t, err)

	_, err = fn.Bind([]int32{0, 1}, NoMaskChannel)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidInput))

	_, err = fn.Bind([]int32{-2}, NoMaskChannel)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidInput))
}

func TestGroupedAccumulator(t *testing.T) {
	fn, err := NewSum(types.T_int64.ToType())
	require.NoError(t, err)
	gacc := mustBind(t, fn, NoMaskChannel).NewGroupedAccumulator()

	bat := mustBatch(t, testutil.NewInt64Vector([]int64{1, 2, 3}))
	require.NoError(t, gacc.AddInput([]uint64{0, 1, 0}, bat))

	vec, err := gacc.EvalFinal(0)
	require.NoError(t, err)
	require.Equal(t, int64(4), vector.GetFixedAt[int64](vec, 0))

	vec, err = gacc.EvalFinal(1)
	require.NoError(t, err)
	require.Equal(t, int64(2), vector.GetFixedAt[int64](vec, 0))
}

func TestGroupedLargeIDDoesNotCorruptLowID(t *testing.T) {
	fn, err := NewSum(types.T_int64.ToType())
	require.NoError(t, err)
	gacc := mustBind(t, fn, NoMaskChannel).NewGroupedAccumulator()

	bat := mustBatch(t, testutil.NewInt64Vector([]int64{5, 6}))
	require.NoError(t, gacc.AddInput([]uint64{0, 0}, bat))
	// growth to a large id must leave group 0 intact
	require.NoError(t, gacc.AddInput([]uint64{4000, 4000}, bat))

	vec, err := gacc.EvalFinal(0)
	require.NoError(t, err)
	require.Equal(t, int64(11), vector.GetFixedAt[int64](vec, 0))

	vec, err = gacc.EvalFinal(4000)
	require.NoError(t, err)
	require.Equal(t, int64(11), vector.GetFixedAt[int64](vec, 0))
}

func TestGroupedFinalizedGroupRejectsMutation(t *testing.T) {
	fn, err := NewSum(types.T_int64.ToType())
	require.NoError(t, err)
	gacc := mustBind(t, fn, NoMaskChannel).NewGroupedAccumulator()

	bat := mustBatch(t, testutil.NewInt64Vector([]int64{1}))
	require.NoError(t, gacc.AddInput([]uint64{0}, bat))
	_, err = gacc.EvalFinal(0)
	require.NoError(t, err)

	err = gacc.AddInput([]uint64{0}, bat)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInternal))

	// other groups stay usable
	require.NoError(t, gacc.AddInput([]uint64{1}, bat))
}

func TestGroupIDColumnLengthChecked(t *testing.T) {
	fn, err := NewSum(types.T_int64.ToType())
	require.NoError(t, err)
	gacc := mustBind(t, fn, NoMaskChannel).NewGroupedAccumulator()

	bat := mustBatch(t, testutil.NewInt64Vector([]int64{1, 2}))
	err = gacc.AddInput([]uint64{0}, bat)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidInput))
}

func TestRegistry(t *testing.T) {
	for _, name := range []string{"sum", "count", "avg", "covar_pop", "approx_count_distinct"} {
		fn, err := New(name, types.T_int64.ToType())
		require.NoError(t, err, name)
		require.Equal(t, name, fn.Name())
	}
	_, err := New("median", types.T_int64.ToType())
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidInput))
}
