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
	"go.uber.org/zap"

	"github.com/colexecdb/aggcheck/pkg/common/moerr"
	"github.com/colexecdb/aggcheck/pkg/container/batch"
	"github.com/colexecdb/aggcheck/pkg/logutil"
	"github.com/colexecdb/aggcheck/pkg/sql/colexec/agg"
)

const (
	// decoyChannels is the fixed channel offset of the padded binding
	// variant.
	decoyChannels = 3

	// largeGroupID is compared against group 0 to prove results do not
	// depend on group id magnitude.
	largeGroupID uint64 = 4000
)

func mismatch(label string, want, got Result) error {
	logutil.Error("equivalence violation",
		zap.String("variant", label),
		zap.Stringer("want", want),
		zap.Stringer("got", got))
	return moerr.NewAggResultMismatchNoCtxf("inconsistent results with %s: %s != %s", label, got, want)
}

func groupIDs(id uint64, n int) []uint64 {
	groups := make([]uint64, n)
	for i := range groups {
		groups[i] = id
	}
	return groups
}

// Aggregation runs the direct strategy under the identity binding,
// then re-derives the result under the reversed binding (argc > 1) and
// the offset binding with decoy channels, asserting agreement.
func Aggregation(fn agg.AggFunction, bats []*batch.Batch) (Result, error) {
	argc := len(fn.ArgTypes())
	ref, err := aggregation(fn, MakeArgs(argc), agg.NoMaskChannel, bats)
	if err != nil {
		return Result{}, err
	}
	if argc > 1 {
		rev, err := aggregation(fn, ReverseArgs(argc), agg.NoMaskChannel, ReverseColumns(bats))
		if err != nil {
			return Result{}, err
		}
		if !rev.Equal(ref) {
			return Result{}, mismatch("reversed channels", ref, rev)
		}
	}
	off, err := aggregation(fn, OffsetArgs(argc, decoyChannels), agg.NoMaskChannel, OffsetColumns(bats, decoyChannels))
	if err != nil {
		return Result{}, err
	}
	if !off.Equal(ref) {
		return Result{}, mismatch("channel offset", ref, off)
	}
	return ref, nil
}

func aggregation(fn agg.AggFunction, args []int32, maskChannel int32, bats []*batch.Batch) (Result, error) {
	factory, err := fn.Bind(args, maskChannel)
	if err != nil {
		return Result{}, err
	}
	acc := factory.NewAccumulator()
	for _, bat := range bats {
		if bat.RowCount() == 0 {
			continue
		}
		if err := acc.AddInput(bat); err != nil {
			return Result{}, err
		}
	}
	vec, err := acc.EvalFinal()
	if err != nil {
		return Result{}, err
	}
	return resultOf(vec)
}

// PartialAggregation runs the intermediate-merge strategy under every
// binding variant, asserting agreement with the identity variant.
func PartialAggregation(fn agg.AggFunction, bats []*batch.Batch) (Result, error) {
	argc := len(fn.ArgTypes())
	ref, err := partialAggregation(fn, MakeArgs(argc), bats)
	if err != nil {
		return Result{}, err
	}
	if argc > 1 {
		rev, err := partialAggregation(fn, ReverseArgs(argc), ReverseColumns(bats))
		if err != nil {
			return Result{}, err
		}
		if !rev.Equal(ref) {
			return Result{}, mismatch("partial aggregation with reversed channels", ref, rev)
		}
	}
	off, err := partialAggregation(fn, OffsetArgs(argc, decoyChannels), OffsetColumns(bats, decoyChannels))
	if err != nil {
		return Result{}, err
	}
	if !off.Equal(ref) {
		return Result{}, mismatch("partial aggregation with channel offset", ref, off)
	}
	return ref, nil
}

// partialAggregation aggregates every batch into its own accumulator,
// merging the emitted intermediates into one final accumulator. An
// empty intermediate (from a never-fed accumulator) is merged before
// and after the real ones to prove the empty merge is a no-op.
func partialAggregation(fn agg.AggFunction, args []int32, bats []*batch.Batch) (Result, error) {
	factory, err := fn.Bind(args, agg.NoMaskChannel)
	if err != nil {
		return Result{}, err
	}
	final := factory.NewIntermediateAccumulator()

	emptyVec, err := factory.NewAccumulator().EvalIntermediate()
	if err != nil {
		return Result{}, err
	}
	if err = final.AddIntermediate(emptyVec); err != nil {
		return Result{}, err
	}

	for _, bat := range bats {
		part := factory.NewAccumulator()
		if bat.RowCount() > 0 {
			if err = part.AddInput(bat); err != nil {
				return Result{}, err
			}
		}
		iv, err := part.EvalIntermediate()
		if err != nil {
			return Result{}, err
		}
		if err = final.AddIntermediate(iv); err != nil {
			return Result{}, err
		}
	}

	if err = final.AddIntermediate(emptyVec); err != nil {
		return Result{}, err
	}
	vec, err := final.EvalFinal()
	if err != nil {
		return Result{}, err
	}
	return resultOf(vec)
}

// GroupedAggregation runs the grouped strategy under every binding
// variant, asserting agreement with the identity variant.
func GroupedAggregation(fn agg.AggFunction, bats []*batch.Batch) (Result, error) {
	argc := len(fn.ArgTypes())
	ref, err := groupedAggregation(fn, MakeArgs(argc), bats)
	if err != nil {
		return Result{}, err
	}
	if argc > 1 {
		rev, err := groupedAggregation(fn, ReverseArgs(argc), ReverseColumns(bats))
		if err != nil {
			return Result{}, err
		}
		if !rev.Equal(ref) {
			return Result{}, mismatch("grouped aggregation with reversed channels", ref, rev)
		}
	}
	off, err := groupedAggregation(fn, OffsetArgs(argc, decoyChannels), OffsetColumns(bats, decoyChannels))
	if err != nil {
		return Result{}, err
	}
	if !off.Equal(ref) {
		return Result{}, mismatch("grouped aggregation with channel offset", ref, off)
	}
	return ref, nil
}

// groupedAggregation feeds all batches at group 0, reads the group 0
// result, then feeds the identical rows at a large group id and
// asserts the two group results agree. This is the explicit
// group-id-independence check, not merely a second code path.
func groupedAggregation(fn agg.AggFunction, args []int32, bats []*batch.Batch) (Result, error) {
	factory, err := fn.Bind(args, agg.NoMaskChannel)
	if err != nil {
		return Result{}, err
	}
	gacc := factory.NewGroupedAccumulator()
	for _, bat := range bats {
		if err = gacc.AddInput(groupIDs(0, bat.RowCount()), bat); err != nil {
			return Result{}, err
		}
	}
	vec, err := gacc.EvalFinal(0)
	if err != nil {
		return Result{}, err
	}
	ref, err := resultOf(vec)
	if err != nil {
		return Result{}, err
	}

	for _, bat := range bats {
		if err = gacc.AddInput(groupIDs(largeGroupID, bat.RowCount()), bat); err != nil {
			return Result{}, err
		}
	}
	lvec, err := gacc.EvalFinal(largeGroupID)
	if err != nil {
		return Result{}, err
	}
	large, err := resultOf(lvec)
	if err != nil {
		return Result{}, err
	}
	if !large.Equal(ref) {
		return Result{}, mismatch("large group id", ref, large)
	}
	return ref, nil
}

// GroupedPartialAggregation runs the grouped intermediate-merge
// strategy under every binding variant.
func GroupedPartialAggregation(fn agg.AggFunction, bats []*batch.Batch) (Result, error) {
	argc := len(fn.ArgTypes())
	ref, err := groupedPartialAggregation(fn, MakeArgs(argc), bats)
	if err != nil {
		return Result{}, err
	}
	if argc > 1 {
		rev, err := groupedPartialAggregation(fn, ReverseArgs(argc), ReverseColumns(bats))
		if err != nil {
			return Result{}, err
		}
		if !rev.Equal(ref) {
			return Result{}, mismatch("grouped partial aggregation with reversed channels", ref, rev)
		}
	}
	off, err := groupedPartialAggregation(fn, OffsetArgs(argc, decoyChannels), OffsetColumns(bats, decoyChannels))
	if err != nil {
		return Result{}, err
	}
	if !off.Equal(ref) {
		return Result{}, mismatch("grouped partial aggregation with channel offset", ref, off)
	}
	return ref, nil
}

func groupedPartialAggregation(fn agg.AggFunction, args []int32, bats []*batch.Batch) (Result, error) {
	factory, err := fn.Bind(args, agg.NoMaskChannel)
	if err != nil {
		return Result{}, err
	}
	final := factory.NewGroupedIntermediateAccumulator()

	emptyVec, err := factory.NewGroupedAccumulator().EvalIntermediate(0)
	if err != nil {
		return Result{}, err
	}
	if err = final.AddIntermediate(groupIDs(0, emptyVec.Length()), emptyVec); err != nil {
		return Result{}, err
	}

	for _, bat := range bats {
		part := factory.NewGroupedAccumulator()
		if err = part.AddInput(groupIDs(0, bat.RowCount()), bat); err != nil {
			return Result{}, err
		}
		iv, err := part.EvalIntermediate(0)
		if err != nil {
			return Result{}, err
		}
		if err = final.AddIntermediate(groupIDs(0, iv.Length()), iv); err != nil {
			return Result{}, err
		}
	}

	if err = final.AddIntermediate(groupIDs(0, emptyVec.Length()), emptyVec); err != nil {
		return Result{}, err
	}
	vec, err := final.EvalFinal(0)
	if err != nil {
		return Result{}, err
	}
	return resultOf(vec)
}

// DistinctAggregation runs the masked strategy: the reference pass
// sees only mask-true rows; the second pass interleaves a mask-false
// duplicate of every batch and must produce the same result, proving
// masked-out rows are inert.
func DistinctAggregation(fn agg.AggFunction, bats []*batch.Batch) (Result, error) {
	if len(bats) == 0 {
		return Result{}, moerr.NewInvalidInputNoCtx("masked aggregation needs at least one batch")
	}
	argc := len(fn.ArgTypes())
	maskChannel := int32(bats[0].VectorCount())

	trueBats, err := MaskBatches(true, bats)
	if err != nil {
		return Result{}, err
	}
	ref, err := aggregation(fn, MakeArgs(argc), maskChannel, trueBats)
	if err != nil {
		return Result{}, err
	}

	falseBats, err := MaskBatches(false, bats)
	if err != nil {
		return Result{}, err
	}
	duped := make([]*batch.Batch, 0, 2*len(bats))
	for i := range bats {
		duped = append(duped, trueBats[i], falseBats[i])
	}
	withDupes, err := aggregation(fn, MakeArgs(argc), maskChannel, duped)
	if err != nil {
		return Result{}, err
	}
	if !withDupes.Equal(ref) {
		return Result{}, mismatch("mask", ref, withDupes)
	}
	return ref, nil
}
