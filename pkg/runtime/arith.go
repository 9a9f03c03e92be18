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

	"github.com/adastra-run/adastra/internal/numtab"
	"github.com/adastra-run/adastra/pkg/origin"
)

// numericArith installs the checked arithmetic, bitwise and comparison
// operators on every primitive numeric TypeMeta (§4.D, §8 "Registered
// numeric operators must use checked arithmetic; overflow yields
// NumericOperation"). A single receiverless value implements every
// Script* interface this file needs, the same way numericConcat does for
// Concat.
type numericArith struct{}

// anyInt is the set of underlying Go types NumericValue ever produces for
// an integer numtab.Kind.
type anyInt interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~int | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uint
}

// pairOf extracts both operands of a binary numeric operator, requiring
// them to share the same numtab.Kind: the engine's operators are
// per-type, not implicitly widening, so i32 + i64 is a TypeMismatch
// rather than a silent promotion (only Concat, §4.D, canonicalizes across
// kinds).
func pairOf(lhs, rhs Arg) (numtab.Kind, any, any, *RuntimeError) {
	lv, lk, lerr, lok := lhs.Cell.NumericValue(lhs.Origin)
	if lerr != nil {
		return 0, nil, nil, lerr
	}
	if !lok {
		return 0, nil, nil, &RuntimeError{Kind: ErrTypeMismatch, PrimaryOrigin: lhs.Origin, DataType: lhs.Cell.Type()}
	}
	rv, rk, rerr, rok := rhs.Cell.NumericValue(rhs.Origin)
	if rerr != nil {
		return 0, nil, nil, rerr
	}
	if !rok {
		return 0, nil, nil, &RuntimeError{Kind: ErrTypeMismatch, PrimaryOrigin: rhs.Origin, DataType: rhs.Cell.Type()}
	}
	if lk != rk {
		return 0, nil, nil, &RuntimeError{
			Kind: ErrTypeMismatch, PrimaryOrigin: rhs.Origin,
			DataType: rhs.Cell.Type(), ExpectedTypes: []*TypeMeta{NumericTypeOf(lk)},
		}
	}
	return lk, lv, rv, nil
}

// widenI64/widenU64/widenF64 promote a value of kind into the
// intermediate int64/uint64/float64 domain numtab.Convert accepts. The
// widening direction never fails.
func widenI64(kind numtab.Kind, v any) int64 {
	r, _ := numtab.Convert(kind, numtab.I64, v)
	return r.(int64)
}

func widenU64(kind numtab.Kind, v any) uint64 {
	r, _ := numtab.Convert(kind, numtab.U64, v)
	return r.(uint64)
}

func widenF64(kind numtab.Kind, v any) float64 {
	r, _ := numtab.Convert(kind, numtab.F64, v)
	return r.(float64)
}

// narrowI64/narrowU64 cast a computed int64/uint64 result back down to
// kind, range-checked by numtab.Convert; the bool reports success.
func narrowI64(v int64, kind numtab.Kind) (any, bool) {
	r, failure := numtab.Convert(numtab.I64, kind, v)
	return r, failure == numtab.FailNone
}

func narrowU64(v uint64, kind numtab.Kind) (any, bool) {
	r, failure := numtab.Convert(numtab.U64, kind, v)
	return r, failure == numtab.FailNone
}

// checkedAddI64/checkedSubI64/checkedMulI64 detect signed 64-bit overflow
// that a plain Go `+`/`-`/`*` silently wraps past, for the two kinds
// (I64, Isize) whose native width equals the int64 working width, so
// narrowI64's own bounds check cannot catch it.
func checkedAddI64(a, b int64) (int64, bool) {
	r := a + b
	if (b > 0 && r < a) || (b < 0 && r > a) {
		return 0, false
	}
	return r, true
}

func checkedSubI64(a, b int64) (int64, bool) {
	r := a - b
	if (b < 0 && r < a) || (b > 0 && r > a) {
		return 0, false
	}
	return r, true
}

func checkedMulI64(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	r := a * b
	if r/b != a || (a == math.MinInt64 && b == -1) {
		return 0, false
	}
	return r, true
}

func checkedAddU64(a, b uint64) (uint64, bool) {
	r := a + b
	return r, r >= a
}

func checkedSubU64(a, b uint64) (uint64, bool) {
	return a - b, a >= b
}

func checkedMulU64(a, b uint64) (uint64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	r := a * b
	return r, r/b == a
}

// checkedBinary dispatches one Add/Sub/Mul/Div/Rem over two same-kind
// numeric operands, returning the raw Go result value and false on
// overflow, division by zero, or a non-finite float result.
func checkedBinary(kind numtab.Kind, op NumericOperationKind, lv, rv any) (any, bool) {
	switch {
	case kind.IsFloat():
		return checkedFloatBinary(widenF64(kind, lv), widenF64(kind, rv), op, kind)
	case kind.IsSigned():
		return checkedSignedBinary(kind, widenI64(kind, lv), widenI64(kind, rv), op)
	default:
		return checkedUnsignedBinary(kind, widenU64(kind, lv), widenU64(kind, rv), op)
	}
}

func checkedFloatBinary(a, b float64, op NumericOperationKind, kind numtab.Kind) (any, bool) {
	var r float64
	switch op {
	case NumAdd:
		r = a + b
	case NumSub:
		r = a - b
	case NumMul:
		r = a * b
	case NumDiv:
		if b == 0 {
			return nil, false
		}
		r = a / b
	default: // NumRem
		if b == 0 {
			return nil, false
		}
		r = math.Mod(a, b)
	}
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return nil, false
	}
	converted, _ := numtab.Convert(numtab.F64, kind, r)
	return converted, true
}

func checkedSignedBinary(kind numtab.Kind, a, b int64, op NumericOperationKind) (any, bool) {
	if kind.BitDepth() == 64 {
		switch op {
		case NumAdd:
			r, ok := checkedAddI64(a, b)
			return boxI64(r, kind, ok)
		case NumSub:
			r, ok := checkedSubI64(a, b)
			return boxI64(r, kind, ok)
		case NumMul:
			r, ok := checkedMulI64(a, b)
			return boxI64(r, kind, ok)
		case NumDiv:
			if b == 0 || (a == math.MinInt64 && b == -1) {
				return nil, false
			}
			return boxI64(a/b, kind, true)
		default: // NumRem
			if b == 0 {
				return nil, false
			}
			if a == math.MinInt64 && b == -1 {
				return boxI64(0, kind, true)
			}
			return boxI64(a%b, kind, true)
		}
	}
	var r int64
	switch op {
	case NumAdd:
		r = a + b
	case NumSub:
		r = a - b
	case NumMul:
		r = a * b
	case NumDiv:
		if b == 0 {
			return nil, false
		}
		r = a / b
	default: // NumRem
		if b == 0 {
			return nil, false
		}
		r = a % b
	}
	converted, ok := narrowI64(r, kind)
	return converted, ok
}

func boxI64(v int64, kind numtab.Kind, ok bool) (any, bool) {
	if !ok {
		return nil, false
	}
	converted, narrowOK := narrowI64(v, kind)
	return converted, narrowOK
}

func checkedUnsignedBinary(kind numtab.Kind, a, b uint64, op NumericOperationKind) (any, bool) {
	if kind.BitDepth() == 64 {
		switch op {
		case NumAdd:
			r, ok := checkedAddU64(a, b)
			return boxU64(r, kind, ok)
		case NumSub:
			r, ok := checkedSubU64(a, b)
			return boxU64(r, kind, ok)
		case NumMul:
			r, ok := checkedMulU64(a, b)
			return boxU64(r, kind, ok)
		case NumDiv:
			if b == 0 {
				return nil, false
			}
			return boxU64(a/b, kind, true)
		default: // NumRem
			if b == 0 {
				return nil, false
			}
			return boxU64(a%b, kind, true)
		}
	}
	var r uint64
	switch op {
	case NumAdd:
		r = a + b
	case NumSub:
		if b > a {
			return nil, false
		}
		r = a - b
	case NumMul:
		r = a * b
	case NumDiv:
		if b == 0 {
			return nil, false
		}
		r = a / b
	default: // NumRem
		if b == 0 {
			return nil, false
		}
		r = a % b
	}
	converted, ok := narrowU64(r, kind)
	return converted, ok
}

func boxU64(v uint64, kind numtab.Kind, ok bool) (any, bool) {
	if !ok {
		return nil, false
	}
	converted, narrowOK := narrowU64(v, kind)
	return converted, narrowOK
}

func (numericArith) binaryChecked(o origin.Origin, lhs, rhs Arg, op NumericOperationKind) (Cell, error) {
	kind, lv, rv, err := pairOf(lhs, rhs)
	if err != nil {
		return Cell{}, err
	}
	result, ok := checkedBinary(kind, op, lv, rv)
	if !ok {
		return Cell{}, &RuntimeError{Kind: ErrNumericOperation, PrimaryOrigin: o, OperationKind: op}
	}
	return GiveNumeric(o, kind, result), nil
}

func (a numericArith) ScriptAdd(o origin.Origin, lhs, rhs Arg) (Cell, error) {
	return a.binaryChecked(o, lhs, rhs, NumAdd)
}

func (a numericArith) ScriptSub(o origin.Origin, lhs, rhs Arg) (Cell, error) {
	return a.binaryChecked(o, lhs, rhs, NumSub)
}

func (a numericArith) ScriptMul(o origin.Origin, lhs, rhs Arg) (Cell, error) {
	return a.binaryChecked(o, lhs, rhs, NumMul)
}

func (a numericArith) ScriptDiv(o origin.Origin, lhs, rhs Arg) (Cell, error) {
	return a.binaryChecked(o, lhs, rhs, NumDiv)
}

func (a numericArith) ScriptRem(o origin.Origin, lhs, rhs Arg) (Cell, error) {
	return a.binaryChecked(o, lhs, rhs, NumRem)
}

// ScriptNeg implements checked negation (§8: "Negating the minimum signed
// integer yields NumericOperation{kind: Neg}"). Unsigned kinds never
// install Neg at all (see the init loop in builtins.go): negating an
// unsigned value has no meaningful checked result.
func (numericArith) ScriptNeg(o origin.Origin, receiver Arg) (Cell, error) {
	v, kind, rerr, ok := receiver.Cell.NumericValue(receiver.Origin)
	if rerr != nil {
		return Cell{}, rerr
	}
	if !ok {
		return Cell{}, &RuntimeError{Kind: ErrTypeMismatch, PrimaryOrigin: receiver.Origin, DataType: receiver.Cell.Type()}
	}
	if kind.IsFloat() {
		negated, _ := numtab.Convert(numtab.F64, kind, -widenF64(kind, v))
		return GiveNumeric(o, kind, negated), nil
	}
	i := widenI64(kind, v)
	if kind.BitDepth() == 64 {
		if i == math.MinInt64 {
			return Cell{}, &RuntimeError{Kind: ErrNumericOperation, PrimaryOrigin: o, OperationKind: NumNeg}
		}
		converted, _ := narrowI64(-i, kind)
		return GiveNumeric(o, kind, converted), nil
	}
	converted, ok := narrowI64(-i, kind)
	if !ok {
		return Cell{}, &RuntimeError{Kind: ErrNumericOperation, PrimaryOrigin: o, OperationKind: NumNeg}
	}
	return GiveNumeric(o, kind, converted), nil
}

// bitwise implements BitAnd/BitOr/BitXor over the bit pattern of two
// same-kind integer operands (§4.H); only installed on integer kinds.
func (numericArith) bitwise(o origin.Origin, lhs, rhs Arg, op func(a, b uint64) uint64) (Cell, error) {
	kind, lv, rv, err := pairOf(lhs, rhs)
	if err != nil {
		return Cell{}, err
	}
	result := op(bitPattern(kind, lv), bitPattern(kind, rv))
	return GiveNumeric(o, kind, fromBitPattern(kind, result)), nil
}

func (a numericArith) ScriptBitAnd(o origin.Origin, lhs, rhs Arg) (Cell, error) {
	return a.bitwise(o, lhs, rhs, func(x, y uint64) uint64 { return x & y })
}

func (a numericArith) ScriptBitOr(o origin.Origin, lhs, rhs Arg) (Cell, error) {
	return a.bitwise(o, lhs, rhs, func(x, y uint64) uint64 { return x | y })
}

func (a numericArith) ScriptBitXor(o origin.Origin, lhs, rhs Arg) (Cell, error) {
	return a.bitwise(o, lhs, rhs, func(x, y uint64) uint64 { return x ^ y })
}

// bitPattern/fromBitPattern move an integer kind's value into/out of a
// zero-extended uint64, preserving its two's-complement bit pattern so
// bitwise ops never need to special-case signedness.
func bitPattern(kind numtab.Kind, v any) uint64 {
	switch kind {
	case numtab.I8:
		return uint64(uint8(v.(int8)))
	case numtab.I16:
		return uint64(uint16(v.(int16)))
	case numtab.I32:
		return uint64(uint32(v.(int32)))
	case numtab.I64:
		return uint64(v.(int64))
	case numtab.Isize:
		return uint64(v.(int))
	case numtab.U8:
		return uint64(v.(uint8))
	case numtab.U16:
		return uint64(v.(uint16))
	case numtab.U32:
		return uint64(v.(uint32))
	case numtab.U64:
		return v.(uint64)
	default: // Usize
		return uint64(v.(uint))
	}
}

func fromBitPattern(kind numtab.Kind, bits uint64) any {
	switch kind {
	case numtab.I8:
		return int8(uint8(bits))
	case numtab.I16:
		return int16(uint16(bits))
	case numtab.I32:
		return int32(uint32(bits))
	case numtab.I64:
		return int64(bits)
	case numtab.Isize:
		return int(int64(bits))
	case numtab.U8:
		return uint8(bits)
	case numtab.U16:
		return uint16(bits)
	case numtab.U32:
		return uint32(bits)
	case numtab.U64:
		return bits
	default: // Usize
		return uint(bits)
	}
}

// shiftCombine performs a native, width-correct shift: Go's `>>` is
// already arithmetic (sign-extending) for signed T and logical for
// unsigned T, so no manual sign handling is needed once n is known valid.
func shiftCombine[T anyInt](v T, n uint, left bool) T {
	if left {
		return v << n
	}
	return v >> n
}

func (numericArith) shift(o origin.Origin, lhs, rhs Arg, op NumericOperationKind, left bool) (Cell, error) {
	kind, lv, rv, err := pairOf(lhs, rhs)
	if err != nil {
		return Cell{}, err
	}
	n, valid := shiftCountOf(kind, rv)
	if !valid || n >= uint(kind.BitDepth()) {
		return Cell{}, &RuntimeError{Kind: ErrNumericOperation, PrimaryOrigin: o, OperationKind: op}
	}
	return GiveNumeric(o, kind, applyShift(kind, lv, n, left)), nil
}

// shiftCountOf interprets rhs as a non-negative shift count, rejecting a
// negative signed count rather than wrapping it into a huge uint.
func shiftCountOf(kind numtab.Kind, v any) (uint, bool) {
	if kind.IsSigned() {
		i := widenI64(kind, v)
		if i < 0 {
			return 0, false
		}
		return uint(i), true
	}
	return uint(widenU64(kind, v)), true
}

func applyShift(kind numtab.Kind, v any, n uint, left bool) any {
	switch kind {
	case numtab.I8:
		return shiftCombine(v.(int8), n, left)
	case numtab.I16:
		return shiftCombine(v.(int16), n, left)
	case numtab.I32:
		return shiftCombine(v.(int32), n, left)
	case numtab.I64:
		return shiftCombine(v.(int64), n, left)
	case numtab.Isize:
		return shiftCombine(v.(int), n, left)
	case numtab.U8:
		return shiftCombine(v.(uint8), n, left)
	case numtab.U16:
		return shiftCombine(v.(uint16), n, left)
	case numtab.U32:
		return shiftCombine(v.(uint32), n, left)
	case numtab.U64:
		return shiftCombine(v.(uint64), n, left)
	default: // Usize
		return shiftCombine(v.(uint), n, left)
	}
}

func (a numericArith) ScriptShl(o origin.Origin, lhs, rhs Arg) (Cell, error) {
	return a.shift(o, lhs, rhs, NumShl, true)
}

func (a numericArith) ScriptShr(o origin.Origin, lhs, rhs Arg) (Cell, error) {
	return a.shift(o, lhs, rhs, NumShr, false)
}

// ScriptPartialEq compares two same-kind numeric operands by value.
func (numericArith) ScriptPartialEq(o origin.Origin, lhs, rhs Arg) (bool, error) {
	kind, lv, rv, err := pairOf(lhs, rhs)
	if err != nil {
		return false, err
	}
	if kind.IsFloat() {
		return widenF64(kind, lv) == widenF64(kind, rv), nil
	}
	if kind.IsSigned() {
		return widenI64(kind, lv) == widenI64(kind, rv), nil
	}
	return widenU64(kind, lv) == widenU64(kind, rv), nil
}

// ScriptPartialOrd compares two same-kind numeric operands, reporting
// "not comparable" for any float pair where either side is NaN (§4.D:
// floats are only partially ordered).
func (numericArith) ScriptPartialOrd(o origin.Origin, lhs, rhs Arg) (Ordering, bool, error) {
	kind, lv, rv, err := pairOf(lhs, rhs)
	if err != nil {
		return Equal, false, err
	}
	if kind.IsFloat() {
		a, b := widenF64(kind, lv), widenF64(kind, rv)
		if math.IsNaN(a) || math.IsNaN(b) {
			return Equal, false, nil
		}
		return orderingOf(compareFloat(a, b)), true, nil
	}
	if kind.IsSigned() {
		a, b := widenI64(kind, lv), widenI64(kind, rv)
		return orderingOf(compareInt(a, b)), true, nil
	}
	a, b := widenU64(kind, lv), widenU64(kind, rv)
	return orderingOf(compareUint(a, b)), true, nil
}

// ScriptOrd is only installed on integer kinds (§4.D: floats lack a total
// order because of NaN, so they rely on PartialOrd's fallback instead).
func (numericArith) ScriptOrd(o origin.Origin, lhs, rhs Arg) (Ordering, error) {
	kind, lv, rv, err := pairOf(lhs, rhs)
	if err != nil {
		return Equal, err
	}
	if kind.IsSigned() {
		return orderingOf(compareInt(widenI64(kind, lv), widenI64(kind, rv))), nil
	}
	return orderingOf(compareUint(widenU64(kind, lv), widenU64(kind, rv))), nil
}

func compareInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareUint(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func orderingOf(c int) Ordering {
	switch {
	case c < 0:
		return Less
	case c > 0:
		return Greater
	default:
		return Equal
	}
}

// ScriptAssign overwrites the receiver's numeric value in place with rhs,
// cross-casting rhs through the same checked priority-lattice conversion
// Downcast uses when rhs is a different numeric kind than the receiver
// (§4.D).
func (numericArith) ScriptAssign(o origin.Origin, receiver, rhs Arg) error {
	_, destKind, rerr, ok := receiver.Cell.NumericValue(receiver.Origin)
	if rerr != nil {
		return rerr
	}
	if !ok {
		return &RuntimeError{Kind: ErrTypeMismatch, PrimaryOrigin: receiver.Origin, DataType: receiver.Cell.Type()}
	}
	srcValue, srcKind, rerr, ok := rhs.Cell.NumericValue(rhs.Origin)
	if rerr != nil {
		return rerr
	}
	if !ok {
		return &RuntimeError{Kind: ErrTypeMismatch, PrimaryOrigin: rhs.Origin, DataType: rhs.Cell.Type()}
	}
	converted := srcValue
	if srcKind != destKind {
		var failure numtab.Failure
		converted, failure = numtab.Convert(srcKind, destKind, srcValue)
		if failure != numtab.FailNone {
			return &RuntimeError{
				Kind: ErrNumberCast, PrimaryOrigin: rhs.Origin,
				From: NumericTypeOf(srcKind), To: NumericTypeOf(destKind), CastCause: castCauseOf(failure),
			}
		}
	}
	if rerr := assignNumericValue(receiver.Cell, receiver.Origin, destKind, converted); rerr != nil {
		return rerr
	}
	return nil
}

func assignNumericValue(c Cell, o origin.Origin, kind numtab.Kind, value any) *RuntimeError {
	switch kind {
	case numtab.I8:
		return MapMut(c, o, func(int8) int8 { return value.(int8) })
	case numtab.I16:
		return MapMut(c, o, func(int16) int16 { return value.(int16) })
	case numtab.I32:
		return MapMut(c, o, func(int32) int32 { return value.(int32) })
	case numtab.I64:
		return MapMut(c, o, func(int64) int64 { return value.(int64) })
	case numtab.Isize:
		return MapMut(c, o, func(int) int { return value.(int) })
	case numtab.U8:
		return MapMut(c, o, func(uint8) uint8 { return value.(uint8) })
	case numtab.U16:
		return MapMut(c, o, func(uint16) uint16 { return value.(uint16) })
	case numtab.U32:
		return MapMut(c, o, func(uint32) uint32 { return value.(uint32) })
	case numtab.U64:
		return MapMut(c, o, func(uint64) uint64 { return value.(uint64) })
	case numtab.Usize:
		return MapMut(c, o, func(uint) uint { return value.(uint) })
	case numtab.F32:
		return MapMut(c, o, func(float32) float32 { return value.(float32) })
	default: // F64
		return MapMut(c, o, func(float64) float64 { return value.(float64) })
	}
}
