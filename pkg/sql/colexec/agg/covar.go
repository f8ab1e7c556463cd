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

// NewCovarPop returns COVAR_POP over two float64 channels. Rows where
// either argument is null do not contribute; the covariance of no rows
// is null.
func NewCovarPop() AggFunction {
	f64 := types.T_float64.ToType()
	return &funcDesc{
		name:     "covar_pop",
		ityps:    []types.Type{f64, f64},
		otyp:     f64,
		newState: func() State { return &covarState{} },
	}
}

// covarState tracks running means and the co-moment, merged pairwise
// with the Chan et al. update so partial aggregation stays exact up to
// float rounding.
type covarState struct {
	n     int64
	meanX float64
	meanY float64
	c     float64
}

func (s *covarState) Fill(vecs []*vector.Vector, row int) error {
	if vecs[0].IsNullAt(uint64(row)) || vecs[1].IsNullAt(uint64(row)) {
		return nil
	}
	x := vector.GetFixedAt[float64](vecs[0], row)
	y := vector.GetFixedAt[float64](vecs[1], row)
	s.n++
	dx := x - s.meanX
	s.meanX += dx / float64(s.n)
	s.meanY += (y - s.meanY) / float64(s.n)
	s.c += dx * (y - s.meanY)
	return nil
}

func (s *covarState) Merge(other State) error {
	o := other.(*covarState)
	if o.n == 0 {
		return nil
	}
	if s.n == 0 {
		*s = *o
		return nil
	}
	n := s.n + o.n
	dx := o.meanX - s.meanX
	dy := o.meanY - s.meanY
	s.c += o.c + dx*dy*float64(s.n)*float64(o.n)/float64(n)
	s.meanX += dx * float64(o.n) / float64(n)
	s.meanY += dy * float64(o.n) / float64(n)
	s.n = n
	return nil
}

func (s *covarState) Flush(out *vector.Vector) error {
	if s.n == 0 {
		return vector.AppendFixed(out, float64(0), true)
	}
	return vector.AppendFixed(out, s.c/float64(s.n), false)
}

func (s *covarState) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	for _, v := range []any{s.n, s.meanX, s.meanY, s.c} {
		if err := binary.Write(&buf, binary.LittleEndian, v); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

func (s *covarState) UnmarshalBinary(data []byte) error {
	r := bytes.NewReader(data)
	for _, v := range []any{&s.n, &s.meanX, &s.meanY, &s.c} {
		if err := binary.Read(r, binary.LittleEndian, v); err != nil {
			return moerr.NewInternalErrorNoCtxf("corrupt covar_pop state: %v", err)
		}
	}
	return nil
}
