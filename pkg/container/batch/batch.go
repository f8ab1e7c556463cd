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

// Package batch implements the unit of columnar data flow: an ordered
// set of vectors sharing one row count.
package batch

import (
	"github.com/colexecdb/aggcheck/pkg/common/moerr"
	"github.com/colexecdb/aggcheck/pkg/container/vector"
)

type Batch struct {
	Vecs     []*vector.Vector
	rowCount int
}

// NewWithSize returns a batch with n empty vector slots.
func NewWithSize(n int) *Batch {
	return &Batch{Vecs: make([]*vector.Vector, n)}
}

// NewWithVectors wraps the given vectors into a batch. All vectors
// must share one length; a batch never holds misaligned channels.
func NewWithVectors(vecs []*vector.Vector) (*Batch, error) {
	bat := &Batch{Vecs: vecs}
	if len(vecs) > 0 {
		bat.rowCount = vecs[0].Length()
	}
	for i := 1; i < len(vecs); i++ {
		if vecs[i].Length() != bat.rowCount {
			return nil, moerr.NewInvalidInputNoCtx(
				"vector %d has %d rows, batch has %d", i, vecs[i].Length(), bat.rowCount)
		}
	}
	return bat, nil
}

func (bat *Batch) RowCount() int {
	return bat.rowCount
}

func (bat *Batch) SetRowCount(n int) {
	bat.rowCount = n
}

func (bat *Batch) VectorCount() int {
	return len(bat.Vecs)
}

func (bat *Batch) GetVector(pos int32) *vector.Vector {
	return bat.Vecs[pos]
}

func (bat *Batch) SetVector(pos int32, vec *vector.Vector) {
	bat.Vecs[pos] = vec
}

// Window slices every channel to rows [start, end), preserving
// per-channel alignment.
func (bat *Batch) Window(start, end int) (*Batch, error) {
	w := NewWithSize(len(bat.Vecs))
	for i, vec := range bat.Vecs {
		wv, err := vec.Window(start, end)
		if err != nil {
			return nil, err
		}
		w.Vecs[i] = wv
	}
	w.rowCount = end - start
	return w, nil
}
