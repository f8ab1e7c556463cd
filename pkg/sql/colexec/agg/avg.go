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
	"bytes"
	"encoding/binary"

	"github.com/colexecdb/aggcheck/pkg/common/moerr"
	"github.com/colexecdb/aggcheck/pkg/container/types"
	"github.com/colexecdb/aggcheck/pkg/container/vector"
)

// NewAvg returns AVG over one float64 channel. The average of no rows
// is null.
func NewAvg() AggFunction {
	return &funcDesc{
		name:     "avg",
		ityps:    []types.Type{types.T_float64.ToType()},
		otyp:     types.T_float64.ToType(),
		newState: func() State { return &avgState{} },
	}
}

type avgState struct {
	sum float64
	cnt int64
}

func (s *avgState) Fill(vecs []*vector.Vector, row int) error {
	v := vecs[0]
	if v.IsNullAt(uint64(row)) {
		return nil
	}
	s.sum += vector.GetFixedAt[float64](v, row)
	s.cnt++
	return nil
}

func (s *avgState) Merge(other State) error {
	o := other.(*avgState)
	s.sum += o.sum
	s.cnt += o.cnt
	return nil
}

func (s *avgState) Flush(out *vector.Vector) error {
	if s.cnt == 0 {
		return vector.AppendFixed(out, float64(0), true)
	}
	return vector.AppendFixed(out, s.sum/float64(s.cnt), false)
}

func (s *avgState) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, s.sum); err != nil {
		return nil, err
	}
	if err := binary.Write(&buf, binary.LittleEndian, s.cnt); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *avgState) UnmarshalBinary(data []byte) error {
	r := bytes.NewReader(data)
	if err := binary.Read(r, binary.LittleEndian, &s.sum); err != nil {
		return moerr.NewInternalErrorNoCtxf("corrupt avg state: %v", err)
	}
	if err := binary.Read(r, binary.LittleEndian, &s.cnt); err != nil {
		return moerr.NewInternalErrorNoCtxf("corrupt avg state: %v", err)
	}
	return nil
}
