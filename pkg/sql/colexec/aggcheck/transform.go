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
	"github.com/colexecdb/aggcheck/pkg/container/batch"
	"github.com/colexecdb/aggcheck/pkg/container/types"
	"github.com/colexecdb/aggcheck/pkg/container/vector"
)

// ReverseColumns returns batches whose channel order is reversed.
// Zero-row batches pass through untouched.
func ReverseColumns(bats []*batch.Batch) []*batch.Batch {
	out := make([]*batch.Batch, len(bats))
	for i, bat := range bats {
		if bat.RowCount() == 0 {
			out[i] = bat
			continue
		}
		rev := batch.NewWithSize(bat.VectorCount())
		for j := 0; j < bat.VectorCount(); j++ {
			rev.SetVector(int32(bat.VectorCount()-1-j), bat.GetVector(int32(j)))
		}
		rev.SetRowCount(bat.RowCount())
		out[i] = rev
	}
	return out
}

// OffsetColumns returns batches with k all-null constant decoy
// channels prepended, pushing the real channels up by k.
func OffsetColumns(bats []*batch.Batch, k int) []*batch.Batch {
	out := make([]*batch.Batch, len(bats))
	for i, bat := range bats {
		off := batch.NewWithSize(bat.VectorCount() + k)
		for j := 0; j < k; j++ {
			off.SetVector(int32(j), vector.NewConstNull(types.T_bool.ToType(), bat.RowCount()))
		}
		for j := 0; j < bat.VectorCount(); j++ {
			off.SetVector(int32(j+k), bat.GetVector(int32(j)))
		}
		off.SetRowCount(bat.RowCount())
		out[i] = off
	}
	return out
}

// MaskBatches returns batches with one boolean channel of the constant
// value appended after the existing channels, sized positionally to
// each batch.
func MaskBatches(value bool, bats []*batch.Batch) ([]*batch.Batch, error) {
	out := make([]*batch.Batch, len(bats))
	for i, bat := range bats {
		mask := vector.NewVec(types.T_bool.ToType())
		for row := 0; row < bat.RowCount(); row++ {
			if err := vector.AppendFixed(mask, value, false); err != nil {
				return nil, err
			}
		}
		masked := batch.NewWithSize(bat.VectorCount() + 1)
		for j := 0; j < bat.VectorCount(); j++ {
			masked.SetVector(int32(j), bat.GetVector(int32(j)))
		}
		masked.SetVector(int32(bat.VectorCount()), mask)
		masked.SetRowCount(bat.RowCount())
		out[i] = masked
	}
	return out, nil
}
