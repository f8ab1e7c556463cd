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

// NewCount returns COUNT over one channel of any type: the number of
// non-null rows. The count of no rows is 0, never null.
func NewCount(typ types.Type) AggFunction {
	return &funcDesc{
		name:     "count",
		ityps:    []types.Type{typ},
		otyp:     types.T_int64.ToType(),
		newState: func() State { return &countState{} },
	}
}

type countState struct {
	cnt int64
}

func (s *countState) Fill(vecs []*vector.Vector, row int) error {
	if vecs[0].IsNullAt(uint64(row)) {
		return nil
	}
	s.cnt++
	return nil
}

func (s *countState) Merge(other State) error {
	s.cnt += other.(*countState).cnt
	return nil
}

func (s *countState) Flush(out *vector.Vector) error {
	return vector.AppendFixed(out, s.cnt, false)
}

func (s *countState) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, s.cnt); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *countState) UnmarshalBinary(data []byte) error {
	if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, &s.cnt); err != nil {
		return moerr.NewInternalErrorNoCtxf("corrupt count state: %v", err)
	}
	return nil
}
