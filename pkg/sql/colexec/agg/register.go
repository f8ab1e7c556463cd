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
	"github.com/colexecdb/aggcheck/pkg/common/moerr"
	"github.com/colexecdb/aggcheck/pkg/container/types"
)

// New resolves an aggregation function by name and argument type.
func New(name string, typ types.Type) (AggFunction, error) {
	switch name {
	case "sum":
		return NewSum(typ)
	case "count":
		return NewCount(typ), nil
	case "avg":
		return NewAvg(), nil
	case "covar_pop":
		return NewCovarPop(), nil
	case "approx_count_distinct":
		return NewApproxCountDistinct(typ), nil
	}
	return nil, moerr.NewInvalidInputNoCtx("unknown aggregation function %s", name)
}
