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

// Package nulls records the null positions of a vector.
package nulls

import (
	"github.com/RoaringBitmap/roaring"
)

// Nulls is the set of null row positions of one vector. The zero-ish
// state (nil bitmap) means no nulls.
type Nulls struct {
	np *roaring.Bitmap
}

func NewWithSize(_ int) *Nulls {
	return &Nulls{}
}

func (n *Nulls) Add(rows ...uint64) {
	if n.np == nil {
		n.np = roaring.New()
	}
	for _, row := range rows {
		n.np.Add(uint32(row))
	}
}

func (n *Nulls) Contains(row uint64) bool {
	return n != nil && n.np != nil && n.np.Contains(uint32(row))
}

func (n *Nulls) Any() bool {
	return n != nil && n.np != nil && !n.np.IsEmpty()
}

func (n *Nulls) Count() int {
	if n == nil || n.np == nil {
		return 0
	}
	return int(n.np.GetCardinality())
}

// AddRange marks [start, end) null.
func (n *Nulls) AddRange(start, end uint64) {
	if n.np == nil {
		n.np = roaring.New()
	}
	n.np.AddRange(start, end)
}

// Window returns the nulls of [start, end) rebased to position zero.
func (n *Nulls) Window(start, end uint64) *Nulls {
	w := &Nulls{}
	if !n.Any() {
		return w
	}
	it := n.np.Iterator()
	it.AdvanceIfNeeded(uint32(start))
	for it.HasNext() {
		row := uint64(it.Next())
		if row >= end {
			break
		}
		w.Add(row - start)
	}
	return w
}

// Dup returns a copy that shares nothing with n.
func (n *Nulls) Dup() *Nulls {
	if n == nil || n.np == nil {
		return &Nulls{}
	}
	return &Nulls{np: n.np.Clone()}
}
