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
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/colexecdb/aggcheck/pkg/container/batch"
	"github.com/colexecdb/aggcheck/pkg/container/types"
	"github.com/colexecdb/aggcheck/pkg/container/vector"
	"github.com/colexecdb/aggcheck/pkg/testutil"
)

func TestChannelBindings(t *testing.T) {
	convey.Convey("identity binding", t, func() {
		convey.So(MakeArgs(0), convey.ShouldResemble, []int32{})
		convey.So(MakeArgs(3), convey.ShouldResemble, []int32{0, 1, 2})
	})

	convey.Convey("reversed binding", t, func() {
		convey.So(ReverseArgs(1), convey.ShouldResemble, []int32{0})
		convey.So(ReverseArgs(3), convey.ShouldResemble, []int32{2, 1, 0})
	})

	convey.Convey("offset binding", t, func() {
		convey.So(OffsetArgs(2, 3), convey.ShouldResemble, []int32{3, 4})
		convey.So(OffsetArgs(0, 3), convey.ShouldResemble, []int32{})
	})
}

func TestColumnTransforms(t *testing.T) {
	newBatch := func() *batch.Batch {
		bat, err := batch.NewWithVectors([]*vector.Vector{
			testutil.NewInt64Vector([]int64{1, 2}),
			testutil.NewFloat64Vector([]float64{0.5, 1.5}),
		})
		convey.So(err, convey.ShouldBeNil)
		return bat
	}

	convey.Convey("reversing columns mirrors the channel order", t, func() {
		rev := ReverseColumns([]*batch.Batch{newBatch()})[0]
		convey.So(rev.VectorCount(), convey.ShouldEqual, 2)
		convey.So(rev.GetVector(0).GetType().Oid, convey.ShouldEqual, types.T_float64)
		convey.So(rev.GetVector(1).GetType().Oid, convey.ShouldEqual, types.T_int64)
		convey.So(rev.RowCount(), convey.ShouldEqual, 2)
	})

	convey.Convey("reversing a zero-row batch is a pass-through", t, func() {
		empty := batch.NewWithSize(0)
		out := ReverseColumns([]*batch.Batch{empty})
		convey.So(out[0], convey.ShouldEqual, empty)
	})

	convey.Convey("offsetting columns prepends null decoys", t, func() {
		off := OffsetColumns([]*batch.Batch{newBatch()}, 3)[0]
		convey.So(off.VectorCount(), convey.ShouldEqual, 5)
		for j := int32(0); j < 3; j++ {
			convey.So(off.GetVector(j).IsConstNull(), convey.ShouldBeTrue)
			convey.So(off.GetVector(j).Length(), convey.ShouldEqual, 2)
		}
		convey.So(off.GetVector(3).GetType().Oid, convey.ShouldEqual, types.T_int64)
		convey.So(off.GetVector(4).GetType().Oid, convey.ShouldEqual, types.T_float64)
	})

	convey.Convey("masking appends a boolean channel last", t, func() {
		masked, err := MaskBatches(true, []*batch.Batch{newBatch()})
		convey.So(err, convey.ShouldBeNil)

		bat := masked[0]
		convey.So(bat.VectorCount(), convey.ShouldEqual, 3)
		mask := bat.GetVector(2)
		convey.So(mask.GetType().Oid, convey.ShouldEqual, types.T_bool)
		convey.So(mask.Length(), convey.ShouldEqual, 2)
		for row := 0; row < mask.Length(); row++ {
			convey.So(vector.GetFixedAt[bool](mask, row), convey.ShouldBeTrue)
		}
	})
}
