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

package moerr

import (
	"errors"
	"fmt"
)

// Error codes. The zero value is reserved so that an uninitialized
// code is never a valid error.
const (
	Ok uint16 = iota

	// ErrInvalidInput marks a caller bug: malformed batches, binding
	// length mismatch, bad mask channel and the like.
	ErrInvalidInput

	// ErrInternal marks a framework invariant breach, e.g. mutation of
	// a finalized accumulator or a corrupt intermediate payload.
	ErrInternal

	// ErrAggResultMismatch is the verdict of the equivalence oracle:
	// two execution strategies or binding variants disagreed.
	ErrAggResultMismatch
)

type Error struct {
	code    uint16
	message string
}

func (e *Error) Error() string {
	return e.message
}

func (e *Error) ErrorCode() uint16 {
	return e.code
}

func newError(code uint16, msg string) *Error {
	return &Error{code: code, message: msg}
}

func NewInvalidInputNoCtx(msg string, args ...any) *Error {
	return newError(ErrInvalidInput, "invalid input: "+fmt.Sprintf(msg, args...))
}

func NewInternalErrorNoCtx(msg string) *Error {
	return newError(ErrInternal, "internal error: "+msg)
}

func NewInternalErrorNoCtxf(msg string, args ...any) *Error {
	return newError(ErrInternal, "internal error: "+fmt.Sprintf(msg, args...))
}

func NewAggResultMismatchNoCtxf(msg string, args ...any) *Error {
	return newError(ErrAggResultMismatch, "aggregate result mismatch: "+fmt.Sprintf(msg, args...))
}

// IsMoErrCode reports whether err is a moerr carrying the given code.
func IsMoErrCode(err error, code uint16) bool {
	var me *Error
	if !errors.As(err, &me) {
		return false
	}
	return me.code == code
}
