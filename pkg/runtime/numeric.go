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

// NumericValue consumes a Cell known (via TypeMatch) to hold one of the
// twelve primitive numeric kinds, returning its raw Go value. ok is false
// if this Cell's element type is not a recognized numeric kind or its type
// is not in the Numeric family (a byte-backed string Cell is not numeric),
// in which case no ownership is consumed.
func (c Cell) NumericValue(accessOrigin origin.Origin) (value any, kind numtab.Kind, rerr *RuntimeError, ok bool) {
	match := c.TypeMatch()
	if !match.Known || !Numeric.Contains(c.Type()) {
		return nil, 0, nil, false
	}
	switch match.Kind {
	case numtab.I8:
		v, err := Take[int8](c, accessOrigin)
		return v, match.Kind, err, true
	case numtab.I16:
		v, err := Take[int16](c, accessOrigin)
		return v, match.Kind, err, true
	case numtab.I32:
		v, err := Take[int32](c, accessOrigin)
		return v, match.Kind, err, true
	case numtab.I64:
		v, err := Take[int64](c, accessOrigin)
		return v, match.Kind, err, true
	case numtab.Isize:
		v, err := Take[int](c, accessOrigin)
		return v, match.Kind, err, true
	case numtab.U8:
		v, err := Take[uint8](c, accessOrigin)
		return v, match.Kind, err, true
	case numtab.U16:
		v, err := Take[uint16](c, accessOrigin)
		return v, match.Kind, err, true
	case numtab.U32:
		v, err := Take[uint32](c, accessOrigin)
		return v, match.Kind, err, true
	case numtab.U64:
		v, err := Take[uint64](c, accessOrigin)
		return v, match.Kind, err, true
	case numtab.Usize:
		v, err := Take[uint](c, accessOrigin)
		return v, match.Kind, err, true
	case numtab.F32:
		v, err := Take[float32](c, accessOrigin)
		return v, match.Kind, err, true
	default: // F64
		v, err := Take[float64](c, accessOrigin)
		return v, match.Kind, err, true
	}
}

// GiveNumericVec constructs an owned vector Cell from a numtab.Kind and a
// slice of raw Go numeric values of the matching type (e.g. as produced by
// repeated numtab.Convert calls during Concat dispatch, §4.D "Canonical
// concatenation for numerics").
func GiveNumericVec(o origin.Origin, k numtab.Kind, values []any) Cell {
	ty := NumericTypeOf(k)
	switch k {
	case numtab.I8:
		out := make([]int8, len(values))
		for i, v := range values {
			out[i] = v.(int8)
		}
		return GiveVec(o, ty, out)
	case numtab.I16:
		out := make([]int16, len(values))
		for i, v := range values {
			out[i] = v.(int16)
		}
		return GiveVec(o, ty, out)
	case numtab.I32:
		out := make([]int32, len(values))
		for i, v := range values {
			out[i] = v.(int32)
		}
		return GiveVec(o, ty, out)
	case numtab.I64:
		out := make([]int64, len(values))
		for i, v := range values {
			out[i] = v.(int64)
		}
		return GiveVec(o, ty, out)
	case numtab.Isize:
		out := make([]int, len(values))
		for i, v := range values {
			out[i] = v.(int)
		}
		return GiveVec(o, ty, out)
	case numtab.U8:
		out := make([]uint8, len(values))
		for i, v := range values {
			out[i] = v.(uint8)
		}
		return GiveVec(o, ty, out)
	case numtab.U16:
		out := make([]uint16, len(values))
		for i, v := range values {
			out[i] = v.(uint16)
		}
		return GiveVec(o, ty, out)
	case numtab.U32:
		out := make([]uint32, len(values))
		for i, v := range values {
			out[i] = v.(uint32)
		}
		return GiveVec(o, ty, out)
	case numtab.U64:
		out := make([]uint64, len(values))
		for i, v := range values {
			out[i] = v.(uint64)
		}
		return GiveVec(o, ty, out)
	case numtab.Usize:
		out := make([]uint, len(values))
		for i, v := range values {
			out[i] = v.(uint)
		}
		return GiveVec(o, ty, out)
	case numtab.F32:
		out := make([]float32, len(values))
		for i, v := range values {
			out[i] = v.(float32)
		}
		return GiveVec(o, ty, out)
	default: // F64
		out := make([]float64, len(values))
		for i, v := range values {
			out[i] = v.(float64)
		}
		return GiveVec(o, ty, out)
	}
}

// GiveNumeric constructs an owned Cell from a numtab.Kind and a raw Go
// numeric value of the matching type (e.g. as produced by numtab.Convert).
func GiveNumeric(o origin.Origin, k numtab.Kind, value any) Cell {
	ty := NumericTypeOf(k)
	switch k {
	case numtab.I8:
		return Give(o, ty, value.(int8))
	case numtab.I16:
		return Give(o, ty, value.(int16))
	case numtab.I32:
		return Give(o, ty, value.(int32))
	case numtab.I64:
		return Give(o, ty, value.(int64))
	case numtab.Isize:
		return Give(o, ty, value.(int))
	case numtab.U8:
		return Give(o, ty, value.(uint8))
	case numtab.U16:
		return Give(o, ty, value.(uint16))
	case numtab.U32:
		return Give(o, ty, value.(uint32))
	case numtab.U64:
		return Give(o, ty, value.(uint64))
	case numtab.Usize:
		return Give(o, ty, value.(uint))
	case numtab.F32:
		return Give(o, ty, value.(float32))
	default: // F64
		return Give(o, ty, value.(float64))
	}
}
