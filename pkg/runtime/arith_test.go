// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package runtime

import (
	"math"
	"testing"

	"github.com/adastra-run/adastra/internal/assert"
	"github.com/adastra-run/adastra/internal/numtab"
	"github.com/adastra-run/adastra/pkg/origin"
)

func arg(c Cell) Arg { return NewArg(origin.Nil(), c) }

func Test_NumericArith_Add_Overflows_I8(t *testing.T) {
	lhs := GiveNumeric(origin.Nil(), numtab.I8, int8(120))
	rhs := GiveNumeric(origin.Nil(), numtab.I8, int8(100))
	_, err := (numericArith{}).ScriptAdd(origin.Nil(), arg(lhs), arg(rhs))
	rerr, ok := err.(*RuntimeError)
	assert.True(t, ok)
	assert.Equal(t, ErrNumericOperation, rerr.Kind)
	assert.Equal(t, NumAdd, rerr.OperationKind)
}

func Test_NumericArith_Add_I64_OverflowsAtNativeWidth(t *testing.T) {
	lhs := GiveNumeric(origin.Nil(), numtab.I64, int64(math.MaxInt64))
	rhs := GiveNumeric(origin.Nil(), numtab.I64, int64(1))
	_, err := (numericArith{}).ScriptAdd(origin.Nil(), arg(lhs), arg(rhs))
	rerr, ok := err.(*RuntimeError)
	assert.True(t, ok)
	assert.Equal(t, ErrNumericOperation, rerr.Kind)
}

func Test_NumericArith_Mul_U64_OverflowsAtNativeWidth(t *testing.T) {
	lhs := GiveNumeric(origin.Nil(), numtab.U64, uint64(math.MaxUint64))
	rhs := GiveNumeric(origin.Nil(), numtab.U64, uint64(2))
	_, err := (numericArith{}).ScriptMul(origin.Nil(), arg(lhs), arg(rhs))
	rerr, ok := err.(*RuntimeError)
	assert.True(t, ok)
	assert.Equal(t, ErrNumericOperation, rerr.Kind)
}

func Test_NumericArith_Div_ByZero(t *testing.T) {
	lhs := GiveNumeric(origin.Nil(), numtab.I32, int32(10))
	rhs := GiveNumeric(origin.Nil(), numtab.I32, int32(0))
	_, err := (numericArith{}).ScriptDiv(origin.Nil(), arg(lhs), arg(rhs))
	rerr, ok := err.(*RuntimeError)
	assert.True(t, ok)
	assert.Equal(t, ErrNumericOperation, rerr.Kind)
	assert.Equal(t, NumDiv, rerr.OperationKind)
}

func Test_NumericArith_Neg_MinInt_Overflows(t *testing.T) {
	recv := GiveNumeric(origin.Nil(), numtab.I64, int64(math.MinInt64))
	_, err := (numericArith{}).ScriptNeg(origin.Nil(), arg(recv))
	rerr, ok := err.(*RuntimeError)
	assert.True(t, ok)
	assert.Equal(t, ErrNumericOperation, rerr.Kind)
	assert.Equal(t, NumNeg, rerr.OperationKind)
}

func Test_NumericArith_Neg_MinInt8_Overflows(t *testing.T) {
	recv := GiveNumeric(origin.Nil(), numtab.I8, int8(math.MinInt8))
	_, err := (numericArith{}).ScriptNeg(origin.Nil(), arg(recv))
	rerr, ok := err.(*RuntimeError)
	assert.True(t, ok)
	assert.Equal(t, ErrNumericOperation, rerr.Kind)
}

func Test_NumericArith_Shift_CountTooLarge(t *testing.T) {
	lhs := GiveNumeric(origin.Nil(), numtab.U8, uint8(1))
	rhs := GiveNumeric(origin.Nil(), numtab.U8, uint8(8))
	_, err := (numericArith{}).ScriptShl(origin.Nil(), arg(lhs), arg(rhs))
	rerr, ok := err.(*RuntimeError)
	assert.True(t, ok)
	assert.Equal(t, ErrNumericOperation, rerr.Kind)
	assert.Equal(t, NumShl, rerr.OperationKind)
}

func Test_NumericArith_Shift_NegativeCountRejected(t *testing.T) {
	lhs := GiveNumeric(origin.Nil(), numtab.I32, int32(1))
	rhs := GiveNumeric(origin.Nil(), numtab.I32, int32(-1))
	_, err := (numericArith{}).ScriptShr(origin.Nil(), arg(lhs), arg(rhs))
	rerr, ok := err.(*RuntimeError)
	assert.True(t, ok)
	assert.Equal(t, ErrNumericOperation, rerr.Kind)
}

func Test_NumericArith_Shift_ValidCount(t *testing.T) {
	lhs := GiveNumeric(origin.Nil(), numtab.U8, uint8(1))
	rhs := GiveNumeric(origin.Nil(), numtab.U8, uint8(3))
	result, err := (numericArith{}).ScriptShl(origin.Nil(), arg(lhs), arg(rhs))
	assert.NoError(t, err)
	v, rerr, ok := unwrapNumeric[uint8](t, result)
	assert.True(t, ok)
	assert.NoError(t, errFromRuntime(rerr))
	assert.Equal(t, uint8(8), v)
}

func Test_NumericArith_PartialOrd_NaN_NotComparable(t *testing.T) {
	lhs := GiveNumeric(origin.Nil(), numtab.F64, math.NaN())
	rhs := GiveNumeric(origin.Nil(), numtab.F64, float64(1))
	_, comparable, err := (numericArith{}).ScriptPartialOrd(origin.Nil(), arg(lhs), arg(rhs))
	assert.NoError(t, err)
	assert.False(t, comparable)
}

func Test_NumericArith_Ord_Integer(t *testing.T) {
	lhs := GiveNumeric(origin.Nil(), numtab.I32, int32(3))
	rhs := GiveNumeric(origin.Nil(), numtab.I32, int32(5))
	ordering, err := (numericArith{}).ScriptOrd(origin.Nil(), arg(lhs), arg(rhs))
	assert.NoError(t, err)
	assert.Equal(t, Less, ordering)
}

func Test_NumericArith_BitAnd(t *testing.T) {
	lhs := GiveNumeric(origin.Nil(), numtab.U8, uint8(0b1100))
	rhs := GiveNumeric(origin.Nil(), numtab.U8, uint8(0b1010))
	result, err := (numericArith{}).ScriptBitAnd(origin.Nil(), arg(lhs), arg(rhs))
	assert.NoError(t, err)
	v, rerr, ok := unwrapNumeric[uint8](t, result)
	assert.True(t, ok)
	assert.NoError(t, errFromRuntime(rerr))
	assert.Equal(t, uint8(0b1000), v)
}

func Test_NumericArith_Assign_CrossCastsKind(t *testing.T) {
	receiver := GiveNumeric(origin.Nil(), numtab.I64, int64(0))
	rhs := GiveNumeric(origin.Nil(), numtab.I32, int32(42))
	err := (numericArith{}).ScriptAssign(origin.Nil(), arg(receiver), arg(rhs))
	assert.NoError(t, err)
	v, rerr, ok := unwrapNumeric[int64](t, receiver)
	assert.True(t, ok)
	assert.NoError(t, errFromRuntime(rerr))
	assert.Equal(t, int64(42), v)
}

func Test_NumericArith_DifferentKinds_IsTypeMismatch(t *testing.T) {
	lhs := GiveNumeric(origin.Nil(), numtab.I32, int32(1))
	rhs := GiveNumeric(origin.Nil(), numtab.I64, int64(1))
	_, err := (numericArith{}).ScriptAdd(origin.Nil(), arg(lhs), arg(rhs))
	rerr, ok := err.(*RuntimeError)
	assert.True(t, ok)
	assert.Equal(t, ErrTypeMismatch, rerr.Kind)
}

func unwrapNumeric[T any](t *testing.T, c Cell) (T, *RuntimeError, bool) {
	t.Helper()
	v, _, rerr, ok := c.NumericValue(origin.Nil())
	if rerr != nil || !ok {
		var zero T
		return zero, rerr, ok
	}
	return v.(T), nil, ok
}

func errFromRuntime(rerr *RuntimeError) error {
	if rerr == nil {
		return nil
	}
	return rerr
}
