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

// Package agg implements bindable aggregation functions and their
// accumulator state machines.
//
// An AggFunction is bound to concrete batch channels (and optionally a
// boolean mask channel) to obtain an AccumulatorFactory. Accumulators
// move fresh -> accumulating -> finalized; a finalized accumulator
// rejects further mutation. Grouped accumulators partition state by a
// uint64 group id supplied as a slice parallel to each input batch.
package agg

import (
	"github.com/colexecdb/aggcheck/pkg/common/moerr"
	"github.com/colexecdb/aggcheck/pkg/container/batch"
	"github.com/colexecdb/aggcheck/pkg/container/types"
	"github.com/colexecdb/aggcheck/pkg/container/vector"
)

// NoMaskChannel binds a function without row filtering.
const NoMaskChannel int32 = -1

type AggFunction interface {
	Name() string
	ArgTypes() []types.Type
	OutputType() types.Type

	// Bind fixes which batch channels feed which argument slots.
	// len(args) must equal len(ArgTypes()).
	Bind(args []int32, maskChannel int32) (AccumulatorFactory, error)
}

type AccumulatorFactory interface {
	NewAccumulator() Accumulator
	NewIntermediateAccumulator() Accumulator
	NewGroupedAccumulator() GroupedAccumulator
	NewGroupedIntermediateAccumulator() GroupedAccumulator
}

type Accumulator interface {
	AddInput(bat *batch.Batch) error

	// AddIntermediate merges every serialized state held by vec.
	AddIntermediate(vec *vector.Vector) error

	// EvalIntermediate emits the serialized state as a one-row varchar
	// vector consumable by AddIntermediate. Finalizes the accumulator.
	EvalIntermediate() (*vector.Vector, error)

	// EvalFinal emits the aggregate value as a one-row vector of the
	// function's output type. Finalizes the accumulator.
	EvalFinal() (*vector.Vector, error)
}

type GroupedAccumulator interface {
	AddInput(groups []uint64, bat *batch.Batch) error
	AddIntermediate(groups []uint64, vec *vector.Vector) error
	EvalIntermediate(group uint64) (*vector.Vector, error)
	EvalFinal(group uint64) (*vector.Vector, error)
}

// State is the per-group mutable state of one aggregate. Implement it
// and wrap it with NewAggFunction to plug a custom aggregate into the
// framework.
type State interface {
	// Fill folds in the row at the given position of the bound
	// argument vectors.
	Fill(vecs []*vector.Vector, row int) error

	// Merge folds another state of the same aggregate into this one.
	// Merging a fresh state must be a no-op.
	Merge(other State) error

	// Flush appends the final value (or null) to out.
	Flush(out *vector.Vector) error

	MarshalBinary() ([]byte, error)
	UnmarshalBinary(data []byte) error
}

// NewAggFunction wraps a state constructor into a bindable
// aggregation function.
func NewAggFunction(name string, ityps []types.Type, otyp types.Type, newState func() State) AggFunction {
	return &funcDesc{name: name, ityps: ityps, otyp: otyp, newState: newState}
}

// funcDesc is the shared AggFunction implementation: a name, a
// signature and a state constructor.
type funcDesc struct {
	name     string
	ityps    []types.Type
	otyp     types.Type
	newState func() State
}

func (f *funcDesc) Name() string {
	return f.name
}

func (f *funcDesc) ArgTypes() []types.Type {
	return f.ityps
}

func (f *funcDesc) OutputType() types.Type {
	return f.otyp
}

func (f *funcDesc) Bind(args []int32, maskChannel int32) (AccumulatorFactory, error) {
	if len(args) != len(f.ityps) {
		return nil, moerr.NewInvalidInputNoCtx(
			"%s binding has %d channels, function takes %d arguments", f.name, len(args), len(f.ityps))
	}
	for i, arg := range args {
		if arg < 0 {
			return nil, moerr.NewInvalidInputNoCtx("%s argument %d bound to negative channel %d", f.name, i, arg)
		}
	}
	if maskChannel != NoMaskChannel && maskChannel < 0 {
		return nil, moerr.NewInvalidInputNoCtx("%s bound to negative mask channel %d", f.name, maskChannel)
	}
	return &accumulatorFactory{
		def:         f,
		args:        args,
		maskChannel: maskChannel,
	}, nil
}

type accumulatorFactory struct {
	def         *funcDesc
	args        []int32
	maskChannel int32
}

func (f *accumulatorFactory) NewAccumulator() Accumulator {
	return &accumulator{def: f.def, args: f.args, maskChannel: f.maskChannel, state: f.def.newState()}
}

func (f *accumulatorFactory) NewIntermediateAccumulator() Accumulator {
	return f.NewAccumulator()
}

func (f *accumulatorFactory) NewGroupedAccumulator() GroupedAccumulator {
	return &groupedAccumulator{
		def:         f.def,
		args:        f.args,
		maskChannel: f.maskChannel,
		evaluated:   make(map[uint64]bool),
	}
}

func (f *accumulatorFactory) NewGroupedIntermediateAccumulator() GroupedAccumulator {
	return f.NewGroupedAccumulator()
}
