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
	"github.com/colexecdb/aggcheck/pkg/common/moerr"
	"github.com/colexecdb/aggcheck/pkg/container/batch"
	"github.com/colexecdb/aggcheck/pkg/container/types"
	"github.com/colexecdb/aggcheck/pkg/container/vector"
)

// bindChannels resolves the bound argument channels of bat and the
// optional mask vector. Channel indices out of range are caller bugs.
func bindChannels(args []int32, maskChannel int32, bat *batch.Batch) ([]*vector.Vector, *vector.Vector, error) {
	vecs := make([]*vector.Vector, len(args))
	for i, arg := range args {
		if int(arg) >= bat.VectorCount() {
			return nil, nil, moerr.NewInvalidInputNoCtx(
				"argument %d bound to channel %d, batch has %d channels", i, arg, bat.VectorCount())
		}
		vecs[i] = bat.GetVector(arg)
	}
	var mask *vector.Vector
	if maskChannel != NoMaskChannel {
		if int(maskChannel) >= bat.VectorCount() {
			return nil, nil, moerr.NewInvalidInputNoCtx(
				"mask bound to channel %d, batch has %d channels", maskChannel, bat.VectorCount())
		}
		mask = bat.GetVector(maskChannel)
		if mask.GetType().Oid != types.T_bool {
			return nil, nil, moerr.NewInvalidInputNoCtx("mask channel %d is %s, want BOOL", maskChannel, mask.GetType())
		}
	}
	return vecs, mask, nil
}

// maskAllows reports whether the mask admits the row. Null counts as
// masked out.
func maskAllows(mask *vector.Vector, row int) bool {
	if mask == nil {
		return true
	}
	if mask.IsNullAt(uint64(row)) {
		return false
	}
	return vector.GetFixedAt[bool](mask, row)
}

type accumulator struct {
	def         *funcDesc
	args        []int32
	maskChannel int32
	state       State
	finalized   bool
}

func (acc *accumulator) AddInput(bat *batch.Batch) error {
	if acc.finalized {
		return moerr.NewInternalErrorNoCtx("add input to a finalized accumulator")
	}
	vecs, mask, err := bindChannels(acc.args, acc.maskChannel, bat)
	if err != nil {
		return err
	}
	for row := 0; row < bat.RowCount(); row++ {
		if !maskAllows(mask, row) {
			continue
		}
		if err := acc.state.Fill(vecs, row); err != nil {
			return err
		}
	}
	return nil
}

func (acc *accumulator) AddIntermediate(vec *vector.Vector) error {
	if acc.finalized {
		return moerr.NewInternalErrorNoCtx("add intermediate to a finalized accumulator")
	}
	for row := 0; row < vec.Length(); row++ {
		if vec.IsNullAt(uint64(row)) {
			continue
		}
		other, err := decodeState(acc.def, vec.GetBytesAt(row))
		if err != nil {
			return err
		}
		if err := acc.state.Merge(other); err != nil {
			return err
		}
	}
	return nil
}

func (acc *accumulator) EvalIntermediate() (*vector.Vector, error) {
	if acc.finalized {
		return nil, moerr.NewInternalErrorNoCtx("re-finalize an accumulator")
	}
	acc.finalized = true
	return encodeState(acc.state)
}

func (acc *accumulator) EvalFinal() (*vector.Vector, error) {
	if acc.finalized {
		return nil, moerr.NewInternalErrorNoCtx("re-finalize an accumulator")
	}
	acc.finalized = true
	out := vector.NewVec(acc.def.otyp)
	if err := acc.state.Flush(out); err != nil {
		return nil, err
	}
	return out, nil
}

// groupedAccumulator partitions state by group id. States are stored
// densely and grown to the largest id seen; a result read for one
// group must not be corrupted by growth triggered by a larger id.
type groupedAccumulator struct {
	def         *funcDesc
	args        []int32
	maskChannel int32
	states      []State
	evaluated   map[uint64]bool
}

func (g *groupedAccumulator) grows(n uint64) {
	for uint64(len(g.states)) < n {
		g.states = append(g.states, g.def.newState())
	}
}

func (g *groupedAccumulator) AddInput(groups []uint64, bat *batch.Batch) error {
	if len(groups) != bat.RowCount() {
		return moerr.NewInvalidInputNoCtx(
			"group id column has %d positions, batch has %d", len(groups), bat.RowCount())
	}
	vecs, mask, err := bindChannels(g.args, g.maskChannel, bat)
	if err != nil {
		return err
	}
	for row := 0; row < bat.RowCount(); row++ {
		gid := groups[row]
		if g.evaluated[gid] {
			return moerr.NewInternalErrorNoCtxf("add input to finalized group %d", gid)
		}
		if !maskAllows(mask, row) {
			continue
		}
		g.grows(gid + 1)
		if err := g.states[gid].Fill(vecs, row); err != nil {
			return err
		}
	}
	return nil
}

func (g *groupedAccumulator) AddIntermediate(groups []uint64, vec *vector.Vector) error {
	if len(groups) != vec.Length() {
		return moerr.NewInvalidInputNoCtx(
			"group id column has %d positions, intermediate has %d", len(groups), vec.Length())
	}
	for row := 0; row < vec.Length(); row++ {
		gid := groups[row]
		if g.evaluated[gid] {
			return moerr.NewInternalErrorNoCtxf("add intermediate to finalized group %d", gid)
		}
		if vec.IsNullAt(uint64(row)) {
			continue
		}
		other, err := decodeState(g.def, vec.GetBytesAt(row))
		if err != nil {
			return err
		}
		g.grows(gid + 1)
		if err := g.states[gid].Merge(other); err != nil {
			return err
		}
	}
	return nil
}

func (g *groupedAccumulator) EvalIntermediate(group uint64) (*vector.Vector, error) {
	if g.evaluated[group] {
		return nil, moerr.NewInternalErrorNoCtxf("re-finalize group %d", group)
	}
	g.evaluated[group] = true
	g.grows(group + 1)
	return encodeState(g.states[group])
}

func (g *groupedAccumulator) EvalFinal(group uint64) (*vector.Vector, error) {
	if g.evaluated[group] {
		return nil, moerr.NewInternalErrorNoCtxf("re-finalize group %d", group)
	}
	g.evaluated[group] = true
	g.grows(group + 1)
	out := vector.NewVec(g.def.otyp)
	if err := g.states[group].Flush(out); err != nil {
		return nil, err
	}
	return out, nil
}
