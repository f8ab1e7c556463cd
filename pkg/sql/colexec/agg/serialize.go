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
	"io"

	"github.com/pierrec/lz4/v4"

	"github.com/colexecdb/aggcheck/pkg/common/moerr"
	"github.com/colexecdb/aggcheck/pkg/container/types"
	"github.com/colexecdb/aggcheck/pkg/container/vector"
)

// Intermediate states travel as lz4 frames inside one-row varchar
// vectors. The payload is self-contained: decoding needs only the
// function the state belongs to.

func encodeState(s State) (*vector.Vector, error) {
	raw, err := s.MarshalBinary()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	zw := lz4.NewWriter(&buf)
	if _, err = zw.Write(raw); err != nil {
		return nil, err
	}
	if err = zw.Close(); err != nil {
		return nil, err
	}
	vec := vector.NewVec(types.T_varchar.ToType())
	if err = vector.AppendBytes(vec, buf.Bytes(), false); err != nil {
		return nil, err
	}
	return vec, nil
}

func decodeState(def *funcDesc, data []byte) (State, error) {
	zr := lz4.NewReader(bytes.NewReader(data))
	raw, err := io.ReadAll(zr)
	if err != nil {
		return nil, moerr.NewInternalErrorNoCtxf("corrupt %s intermediate frame: %v", def.name, err)
	}
	s := def.newState()
	if err = s.UnmarshalBinary(raw); err != nil {
		return nil, err
	}
	return s, nil
}
