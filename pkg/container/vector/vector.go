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

// Package vector implements the column vectors batches are made of.
// A vector is either FLAT (one value slot per row) or CONSTANT (a
// single run-length-encoded value covering every row).
package vector

import (
	"fmt"

	"github.com/colexecdb/aggcheck/pkg/common/moerr"
	"github.com/colexecdb/aggcheck/pkg/container/nulls"
	"github.com/colexecdb/aggcheck/pkg/container/types"
)

const (
	FLAT = iota
	CONSTANT
)

type Vector struct {
	class  int
	typ    types.Type
	length int

	// col holds []bool, []int64 or []float64 for fixed-size types.
	// area holds the values of varlen types.
	col  any
	area [][]byte

	nsp *nulls.Nulls
}

// NewVec returns an empty flat vector of the given type. Values are
// appended with AppendFixed or AppendBytes; this is the builder surface
// of the column abstraction.
func NewVec(typ types.Type) *Vector {
	v := &Vector{class: FLAT, typ: typ, nsp: &nulls.Nulls{}}
	switch typ.Oid {
	case types.T_bool:
		v.col = []bool{}
	case types.T_int64:
		v.col = []int64{}
	case types.T_float64:
		v.col = []float64{}
	}
	return v
}

// NewConstNull returns an all-null constant vector: the single-value
// run-length column used for decoy channels.
func NewConstNull(typ types.Type, length int) *Vector {
	return &Vector{class: CONSTANT, typ: typ, length: length, nsp: &nulls.Nulls{}}
}

// NewConstFixed returns a constant vector repeating val length times.
func NewConstFixed[T bool | int64 | float64](typ types.Type, val T, length int) *Vector {
	return &Vector{
		class:  CONSTANT,
		typ:    typ,
		length: length,
		col:    []T{val},
		nsp:    &nulls.Nulls{},
	}
}

func (v *Vector) Length() int {
	return v.length
}

func (v *Vector) GetType() *types.Type {
	return &v.typ
}

func (v *Vector) GetNulls() *nulls.Nulls {
	return v.nsp
}

func (v *Vector) IsConst() bool {
	return v.class == CONSTANT
}

func (v *Vector) IsConstNull() bool {
	return v.class == CONSTANT && v.col == nil && v.area == nil
}

// IsNullAt reports whether the value at row is null, for any class.
func (v *Vector) IsNullAt(row uint64) bool {
	if v.IsConstNull() {
		return true
	}
	if v.IsConst() {
		return false
	}
	return v.nsp.Contains(row)
}

// AppendFixed appends one value (or a null slot) to a flat vector.
func AppendFixed[T bool | int64 | float64](v *Vector, val T, isNull bool) error {
	if v.class != FLAT {
		return moerr.NewInternalErrorNoCtx("append to a constant vector")
	}
	col, ok := v.col.([]T)
	if !ok {
		return moerr.NewInternalErrorNoCtxf("append of mismatched type to %s vector", v.typ)
	}
	if isNull {
		var zero T
		val = zero
		v.nsp.Add(uint64(v.length))
	}
	v.col = append(col, val)
	v.length++
	return nil
}

// AppendBytes appends one varlen value (or a null slot) to a flat vector.
func AppendBytes(v *Vector, val []byte, isNull bool) error {
	if v.class != FLAT {
		return moerr.NewInternalErrorNoCtx("append to a constant vector")
	}
	if !v.typ.IsVarlen() {
		return moerr.NewInternalErrorNoCtxf("append bytes to %s vector", v.typ)
	}
	if isNull {
		val = nil
		v.nsp.Add(uint64(v.length))
	}
	v.area = append(v.area, val)
	v.length++
	return nil
}

// MustFixedCol returns the value slots of a fixed-size vector. For a
// constant vector the slice has a single element.
func MustFixedCol[T bool | int64 | float64](v *Vector) []T {
	if v.col == nil {
		return nil
	}
	return v.col.([]T)
}

func (v *Vector) GetBytesAt(i int) []byte {
	if v.IsConst() {
		i = 0
	}
	return v.area[i]
}

// GetFixedAt reads one value honoring the constant class.
func GetFixedAt[T bool | int64 | float64](v *Vector, i int) T {
	if v.IsConst() {
		i = 0
	}
	return MustFixedCol[T](v)[i]
}

// Window returns the vector restricted to rows [start, end). The
// result shares value storage with v for flat vectors; constant
// vectors just change length.
func (v *Vector) Window(start, end int) (*Vector, error) {
	if start < 0 || end < start || end > v.length {
		return nil, moerr.NewInvalidInputNoCtx("vector window [%d, %d) out of range, length %d", start, end, v.length)
	}
	w := &Vector{class: v.class, typ: v.typ, length: end - start}
	if v.IsConst() {
		w.col = v.col
		w.area = v.area
		w.nsp = &nulls.Nulls{}
		return w, nil
	}
	w.nsp = v.nsp.Window(uint64(start), uint64(end))
	switch v.typ.Oid {
	case types.T_bool:
		w.col = v.col.([]bool)[start:end]
	case types.T_int64:
		w.col = v.col.([]int64)[start:end]
	case types.T_float64:
		w.col = v.col.([]float64)[start:end]
	case types.T_varchar:
		w.area = v.area[start:end]
	}
	return w, nil
}

func (v *Vector) String() string {
	return fmt.Sprintf("%s[%d]", v.typ, v.length)
}
