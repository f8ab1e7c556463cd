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

// NewSum returns SUM over one int64 or float64 channel. Null rows do
// not contribute; the sum of no rows is null.
func NewSum(typ types.Type) (AggFunction, error) {
	switch typ.Oid {
	case types.T_int64:
		return &funcDesc{
			name:     "sum",
			ityps:    []types.Type{typ},
			otyp:     typ,
			newState: func() State { return &sumState[int64]{empty: true} },
		}, nil
	case types.T_float64:
		return &funcDesc{
			name:     "sum",
			ityps:    []types.Type{typ},
			otyp:     typ,
			newState: func() State { return &sumState[float64]{empty: true} },
		}, nil
	}
	return nil, moerr.NewInvalidInputNoCtx("sum does not support %s", typ)
}

type sumState[T int64 | float64] struct {
	sum   T
	empty bool
}

func (s *sumState[T]) Fill(vecs []*vector.Vector, row int) error {
	v := vecs[0]
	if v.IsNullAt(uint64(row)) {
		return nil
	}
	s.sum += vector.GetFixedAt[T](v, row)
	s.empty = false
	return nil
}

func (s *sumState[T]) Merge(other State) error {
	o := other.(*sumState[T])
	if o.empty {
		return nil
	}
	s.sum += o.sum
	s.empty = false
	return nil
}

func (s *sumState[T]) Flush(out *vector.Vector) error {
	return vector.AppendFixed(out, s.sum, s.empty)
}

func (s *sumState[T]) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, s.empty); err != nil {
		return nil, err
	}
	if err := binary.Write(&buf, binary.LittleEndian, s.sum); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *sumState[T]) UnmarshalBinary(data []byte) error {
	r := bytes.NewReader(data)
	if err := binary.Read(r, binary.LittleEndian, &s.empty); err != nil {
		return moerr.NewInternalErrorNoCtxf("corrupt sum state: %v", err)
	}
	if err := binary.Read(r, binary.LittleEndian, &s.sum); err != nil {
		return moerr.NewInternalErrorNoCtxf("corrupt sum state: %v", err)
	}
	return nil
}
