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
	"github.com/adastra-run/adastra/internal/numtab"
	"github.com/adastra-run/adastra/pkg/origin"
)

// The built-in primitive TypeMeta singletons. These are what Give/Upcast
// attach to Cells holding raw Go numerics, strings and booleans, and what
// pkg/convert's numeric cross-cast consults to report NumberCast errors
// with named From/To types (§4.D).
var (
	Int8Type    = NewTypeMeta("i8", "", 1, Numeric)
	Int16Type   = NewTypeMeta("i16", "", 2, Numeric)
	Int32Type   = NewTypeMeta("i32", "", 4, Numeric)
	Int64Type   = NewTypeMeta("i64", "", 8, Numeric)
	IsizeType   = NewTypeMeta("isize", "", 8, Numeric)
	Uint8Type   = NewTypeMeta("u8", "", 1, Numeric)
	Uint16Type  = NewTypeMeta("u16", "", 2, Numeric)
	Uint32Type  = NewTypeMeta("u32", "", 4, Numeric)
	Uint64Type  = NewTypeMeta("u64", "", 8, Numeric)
	UsizeType   = NewTypeMeta("usize", "", 8, Numeric)
	Float32Type = NewTypeMeta("f32", "", 4, Numeric)
	Float64Type = NewTypeMeta("f64", "", 8, Numeric)

	BoolType   = NewTypeMeta("bool", "", 1, nil)
	StringType = NewTypeMeta("str", "", 16, Strings)

	// FuncType tags every ScriptFn value placed on the stack by PushFn /
	// PushClosure (§3 ScriptFn); the engine does not track per-function
	// signatures at runtime, so one family member suffices.
	FuncType = NewTypeMeta("fn", "", 8, Funcs)

	// RangeType tags the half-open usize range produced by the Range
	// instruction and consumed by Iterate/Index (§4.H).
	RangeType = NewTypeMeta("range", "", 24, nil)

	// StructType tags the named-field dynamic struct value produced by
	// PushStruct (§4.H "pushes an empty dynamic struct value").
	StructType = NewTypeMeta("struct", "", 24, nil)
)

func init() {
	for kind, ty := range numericTypesByKind {
		proto := ty.Prototype()
		proto.WithConcat(numericConcat{}).
			WithAdd(numericArith{}).WithSub(numericArith{}).WithMul(numericArith{}).
			WithDiv(numericArith{}).WithRem(numericArith{}).
			WithPartialEq(numericArith{}).WithPartialOrd(numericArith{}).
			WithAssign(numericArith{})

		if !kind.IsFloat() {
			proto.WithBitAnd(numericArith{}).WithBitOr(numericArith{}).WithBitXor(numericArith{}).
				WithShl(numericArith{}).WithShr(numericArith{}).
				WithOrd(numericArith{})
		}
		if kind.IsSigned() || kind.IsFloat() {
			proto.WithNeg(numericArith{})
		}
	}
}

// numericConcat is installed on every primitive numeric TypeMeta's
// Prototype so that the Concat instruction (§4.H, §4.D "Canonical
// concatenation for numerics") can combine heterogeneous numeric operands:
// each is cross-cast to the priority-lattice-chosen canonical kind, then
// collected into one owned vector Cell of that kind.
type numericConcat struct{}

func (numericConcat) ScriptConcat(o origin.Origin, args []Arg) (Cell, error) {
	kinds := make([]numtab.Kind, len(args))
	values := make([]any, len(args))
	for i, a := range args {
		v, kind, rerr, ok := a.Cell.NumericValue(a.Origin)
		if rerr != nil {
			return Cell{}, rerr
		}
		if !ok {
			return Cell{}, &RuntimeError{Kind: ErrTypeMismatch, PrimaryOrigin: a.Origin, DataType: a.Cell.Type()}
		}
		kinds[i] = kind
		values[i] = v
	}
	target := numtab.Canonical(kinds)
	converted := make([]any, len(values))
	for i, v := range values {
		cv, failure := numtab.Convert(kinds[i], target, v)
		if failure != numtab.FailNone {
			return Cell{}, &RuntimeError{
				Kind: ErrNumberCast, PrimaryOrigin: args[i].Origin,
				From: NumericTypeOf(kinds[i]), To: NumericTypeOf(target), CastCause: castCauseOf(failure),
			}
		}
		converted[i] = cv
	}
	return GiveNumericVec(o, target, converted), nil
}

func castCauseOf(f numtab.Failure) NumberCastCause {
	switch f {
	case numtab.FailInfinite:
		return CauseInfinite
	case numtab.FailNaN:
		return CauseNaN
	case numtab.FailOverflow:
		return CauseOverflow
	default:
		return CauseUnderflow
	}
}

// numericTypesByKind maps every numtab.Kind to its TypeMeta singleton, for
// pkg/convert's NumberCast error reporting and for choosing the TypeMeta of
// a cross-cast's result.
var numericTypesByKind = map[numtab.Kind]*TypeMeta{
	numtab.I8:    Int8Type,
	numtab.I16:   Int16Type,
	numtab.I32:   Int32Type,
	numtab.I64:   Int64Type,
	numtab.Isize: IsizeType,
	numtab.U8:    Uint8Type,
	numtab.U16:   Uint16Type,
	numtab.U32:   Uint32Type,
	numtab.U64:   Uint64Type,
	numtab.Usize: UsizeType,
	numtab.F32:   Float32Type,
	numtab.F64:   Float64Type,
}

// NumericTypeOf returns the TypeMeta singleton for a numtab.Kind.
func NumericTypeOf(k numtab.Kind) *TypeMeta {
	return numericTypesByKind[k]
}
