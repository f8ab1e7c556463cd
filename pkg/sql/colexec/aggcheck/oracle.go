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

// Package aggcheck is an equivalence oracle for aggregation functions:
// it drives one function through five execution strategies (direct,
// partial-merge, grouped, grouped-partial-merge, masked-distinct) and
// three channel-binding variants, and asserts every run produces the
// same scalar. A disagreement is a detected correctness bug in the
// function under test.
package aggcheck

import (
	"github.com/colexecdb/aggcheck/pkg/common/moerr"
	"github.com/colexecdb/aggcheck/pkg/container/batch"
	"github.com/colexecdb/aggcheck/pkg/container/vector"
	"github.com/colexecdb/aggcheck/pkg/sql/colexec/agg"
)

// Verify checks fn over the given input columns. Multi-row inputs are
// split at the midpoint into two batches so the merge path is always
// exercised. The first disagreement is the verdict; there is no
// recovery or retry.
func Verify(fn agg.AggFunction, expected Result, cols ...*vector.Vector) error {
	positions := 0
	if len(cols) > 0 {
		positions = cols[0].Length()
	}
	for i := 1; i < len(cols); i++ {
		if cols[i].Length() != positions {
			return moerr.NewInvalidInputNoCtx(
				"input vectors provided are not equal in position count: %d != %d", cols[i].Length(), positions)
		}
	}

	switch {
	case positions == 0:
		return VerifyBatches(fn, expected)
	case positions == 1:
		bat, err := batch.NewWithVectors(cols)
		if err != nil {
			return err
		}
		return VerifyBatches(fn, expected, bat)
	default:
		bat, err := batch.NewWithVectors(cols)
		if err != nil {
			return err
		}
		split := positions / 2
		head, err := bat.Window(0, split)
		if err != nil {
			return err
		}
		tail, err := bat.Window(split, positions)
		if err != nil {
			return err
		}
		return VerifyBatches(fn, expected, head, tail)
	}
}

// VerifyBatches is Verify without the midpoint split: the caller
// controls the batch boundaries.
func VerifyBatches(fn agg.AggFunction, expected Result, bats ...*batch.Batch) error {
	direct, err := Aggregation(fn, bats)
	if err != nil {
		return err
	}
	if !direct.Equal(expected) {
		return mismatch("direct aggregation against expected value", expected, direct)
	}

	partial, err := PartialAggregation(fn, bats)
	if err != nil {
		return err
	}
	if !partial.Equal(direct) {
		return mismatch("partial aggregation", direct, partial)
	}

	if len(bats) == 0 {
		return nil
	}

	grouped, err := GroupedAggregation(fn, bats)
	if err != nil {
		return err
	}
	if !grouped.Equal(direct) {
		return mismatch("grouped aggregation", direct, grouped)
	}

	groupedPartial, err := GroupedPartialAggregation(fn, bats)
	if err != nil {
		return err
	}
	if !groupedPartial.Equal(direct) {
		return mismatch("grouped partial aggregation", direct, groupedPartial)
	}

	distinct, err := DistinctAggregation(fn, bats)
	if err != nil {
		return err
	}
	if !distinct.Equal(direct) {
		return mismatch("masked aggregation", direct, distinct)
	}
	return nil
}
