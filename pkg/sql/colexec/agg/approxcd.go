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
	"encoding/binary"
	"math"

	hll "github.com/axiomhq/hyperloglog"

	"github.com/colexecdb/aggcheck/pkg/common/moerr"
	"github.com/colexecdb/aggcheck/pkg/container/types"
	"github.com/colexecdb/aggcheck/pkg/container/vector"
)

// NewApproxCountDistinct returns APPROX_COUNT_DISTINCT over one
// channel, backed by HyperLogLog sketches. Sketch union is the merge
// operation, so partial aggregation is exact with respect to the
// estimate: any merge order yields the same sketch.
func NewApproxCountDistinct(typ types.Type) AggFunction {
	return &funcDesc{
		name:     "approx_count_distinct",
		ityps:    []types.Type{typ},
		otyp:     types.T_int64.ToType(),
		newState: func() State { return &approxCDState{sk: hll.New()} },
	}
}

type approxCDState struct {
	sk *hll.Sketch
}

func (s *approxCDState) Fill(vecs []*vector.Vector, row int) error {
	v := vecs[0]
	if v.IsNullAt(uint64(row)) {
		return nil
	}
	switch v.GetType().Oid {
	case types.T_bool:
		if vector.GetFixedAt[bool](v, row) {
			s.sk.Insert([]byte{1})
		} else {
			s.sk.Insert([]byte{0})
		}
	case types.T_int64:
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], uint64(vector.GetFixedAt[int64](v, row)))
		s.sk.Insert(buf[:])
	case types.T_float64:
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(vector.GetFixedAt[float64](v, row)))
		s.sk.Insert(buf[:])
	case types.T_varchar:
		s.sk.Insert(v.GetBytesAt(row))
	default:
		return moerr.NewInvalidInputNoCtx("approx_count_distinct does not support %s", v.GetType())
	}
	return nil
}

func (s *approxCDState) Merge(other State) error {
	return s.sk.Merge(other.(*approxCDState).sk)
}

func (s *approxCDState) Flush(out *vector.Vector) error {
	return vector.AppendFixed(out, int64(s.sk.Estimate()), false)
}

func (s *approxCDState) MarshalBinary() ([]byte, error) {
	return s.sk.MarshalBinary()
}

func (s *approxCDState) UnmarshalBinary(data []byte) error {
	if err := s.sk.UnmarshalBinary(data); err != nil {
		return moerr.NewInternalErrorNoCtxf("corrupt approx_count_distinct sketch: %v", err)
	}
	return nil
}
