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

package aggcheck

import (
	"fmt"

	"github.com/colexecdb/aggcheck/pkg/common/assertx"
	"github.com/colexecdb/aggcheck/pkg/common/moerr"
	"github.com/colexecdb/aggcheck/pkg/container/types"
	"github.com/colexecdb/aggcheck/pkg/container/vector"
)

// Kind discriminates the value universe a strategy result can fall in.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
)

// Result is one scalar aggregation outcome, tagged by kind so that the
// comparison rule is selected by tag rather than runtime inspection.
type Result struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
}

func NullResult() Result            { return Result{kind: KindNull} }
func BoolResult(v bool) Result      { return Result{kind: KindBool, b: v} }
func IntResult(v int64) Result      { return Result{kind: KindInt, i: v} }
func FloatResult(v float64) Result  { return Result{kind: KindFloat, f: v} }
func StringResult(v string) Result  { return Result{kind: KindString, s: v} }

// equalFns is the comparison strategy table, keyed by kind. Floats use
// the absolute-tolerance rule with structural NaN equality; discrete
// kinds compare exactly.
var equalFns = map[Kind]func(a, b Result) bool{
	KindNull:   func(a, b Result) bool { return true },
	KindBool:   func(a, b Result) bool { return a.b == b.b },
	KindInt:    func(a, b Result) bool { return a.i == b.i },
	KindFloat:  func(a, b Result) bool { return assertx.InEpsilonF64(a.f, b.f) },
	KindString: func(a, b Result) bool { return a.s == b.s },
}

func (r Result) Equal(o Result) bool {
	if r.kind != o.kind {
		return false
	}
	return equalFns[r.kind](r, o)
}

func (r Result) String() string {
	switch r.kind {
	case KindNull:
		return "NULL"
	case KindBool:
		return fmt.Sprintf("%v", r.b)
	case KindInt:
		return fmt.Sprintf("%d", r.i)
	case KindFloat:
		return fmt.Sprintf("%g", r.f)
	case KindString:
		return r.s
	}
	return "?"
}

// resultOf reads the only value of a one-row output vector.
func resultOf(vec *vector.Vector) (Result, error) {
	if vec.Length() != 1 {
		return Result{}, moerr.NewInternalErrorNoCtxf("aggregation output has %d rows, want 1", vec.Length())
	}
	if vec.IsNullAt(0) {
		return NullResult(), nil
	}
	switch vec.GetType().Oid {
	case types.T_bool:
		return BoolResult(vector.GetFixedAt[bool](vec, 0)), nil
	case types.T_int64:
		return IntResult(vector.GetFixedAt[int64](vec, 0)), nil
	case types.T_float64:
		return FloatResult(vector.GetFixedAt[float64](vec, 0)), nil
	case types.T_varchar:
		return StringResult(string(vec.GetBytesAt(0))), nil
	}
	return Result{}, moerr.NewInternalErrorNoCtxf("aggregation output of unsupported type %s", vec.GetType())
}
