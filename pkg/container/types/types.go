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

package types

// T is the oid of a column type.
type T uint8

const (
	T_any T = iota
	T_bool
	T_int64
	T_float64
	T_varchar
)

// Type describes one column. Size is the fixed element size in bytes,
// or -1 for variable-length types.
type Type struct {
	Oid  T
	Size int32
}

func (t T) ToType() Type {
	switch t {
	case T_bool:
		return Type{Oid: t, Size: 1}
	case T_int64, T_float64:
		return Type{Oid: t, Size: 8}
	case T_varchar:
		return Type{Oid: t, Size: -1}
	default:
		return Type{Oid: T_any, Size: 0}
	}
}

func (t Type) IsVarlen() bool {
	return t.Oid == T_varchar
}

func (t T) String() string {
	switch t {
	case T_bool:
		return "BOOL"
	case T_int64:
		return "BIGINT"
	case T_float64:
		return "DOUBLE"
	case T_varchar:
		return "VARCHAR"
	}
	return "ANY"
}

func (t Type) String() string {
	return t.Oid.String()
}
