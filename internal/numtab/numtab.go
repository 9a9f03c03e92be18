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

// Package numtab is the explicit pairwise numeric cross-cast table used by
// pkg/convert's Downcast implementations for primitive numerics (§4.D
// "implement as an explicit pairwise lookup rather than generic
// templating"). Every source/destination pair routes through a shared
// int64/uint64/float64 intermediate rather than Nx N hand-written
// functions, but the set of (from, to) pairs the table accepts, and the
// failure behaviour of each, is closed and explicit — this is the pairwise
// lookup the design note asks for, factored to avoid 144 near-identical
// bodies.
package numtab

import "math"

// Kind enumerates the primitive numeric kinds the engine knows how to
// cross-cast between.
type Kind uint8

// The twelve primitive numeric kinds.
const (
	I8 Kind = iota
	I16
	I32
	I64
	Isize // platform-native signed (Go's int)
	U8
	U16
	U32
	U64
	Usize // platform-native unsigned (Go's uint, uintptr)
	F32
	F64
)

// IsFloat reports whether k is a floating-point kind.
func (k Kind) IsFloat() bool { return k == F32 || k == F64 }

// IsSigned reports whether k is a signed integer kind.
func (k Kind) IsSigned() bool {
	switch k {
	case I8, I16, I32, I64, Isize:
		return true
	default:
		return false
	}
}

// BitDepth returns the maximum exact bit-depth of k, used by the concat
// priority lattice (§4.D). Platform-native kinds report 64, since the
// engine targets 64-bit hosts.
func (k Kind) BitDepth() int {
	switch k {
	case I8, U8:
		return 8
	case I16, U16:
		return 16
	case I32, U32, F32:
		return 32
	case I64, U64, F64, Isize, Usize:
		return 64
	default:
		return 0
	}
}

func (k Kind) String() string {
	switch k {
	case I8:
		return "i8"
	case I16:
		return "i16"
	case I32:
		return "i32"
	case I64:
		return "i64"
	case Isize:
		return "isize"
	case U8:
		return "u8"
	case U16:
		return "u16"
	case U32:
		return "u32"
	case U64:
		return "u64"
	case Usize:
		return "usize"
	case F32:
		return "f32"
	case F64:
		return "f64"
	default:
		return "unknown"
	}
}

// KindOf identifies the Kind of a Go value holding one of the twelve
// supported primitive numeric types.
func KindOf(v any) (Kind, bool) {
	switch v.(type) {
	case int8:
		return I8, true
	case int16:
		return I16, true
	case int32:
		return I32, true
	case int64:
		return I64, true
	case int:
		return Isize, true
	case uint8:
		return U8, true
	case uint16:
		return U16, true
	case uint32:
		return U32, true
	case uint64:
		return U64, true
	case uint:
		return Usize, true
	case uintptr:
		return Usize, true
	case float32:
		return F32, true
	case float64:
		return F64, true
	default:
		return 0, false
	}
}

// Failure identifies why Convert could not produce a value (§7
// NumberCastCause).
type Failure uint8

// The four numeric cast failure causes.
const (
	FailNone Failure = iota
	FailInfinite
	FailNaN
	FailOverflow
	FailUnderflow
)

// Convert performs a checked cross-cast of value (known to be of kind
// from) into kind to, returning FailNone on success.
func Convert(from, to Kind, value any) (any, Failure) {
	switch {
	case from.IsFloat():
		f := toFloat64(from, value)
		return fromFloat64(f, to)
	case from.IsSigned():
		i := toInt64(from, value)
		return fromInt64(i, to)
	default:
		u := toUint64(from, value)
		return fromUint64(u, to)
	}
}

func toFloat64(from Kind, value any) float64 {
	switch from {
	case F32:
		return float64(value.(float32))
	default:
		return value.(float64)
	}
}

func toInt64(from Kind, value any) int64 {
	switch from {
	case I8:
		return int64(value.(int8))
	case I16:
		return int64(value.(int16))
	case I32:
		return int64(value.(int32))
	case I64:
		return value.(int64)
	default: // Isize
		return int64(value.(int))
	}
}

func toUint64(from Kind, value any) uint64 {
	switch from {
	case U8:
		return uint64(value.(uint8))
	case U16:
		return uint64(value.(uint16))
	case U32:
		return uint64(value.(uint32))
	case U64:
		return value.(uint64)
	default: // Usize
		if v, ok := value.(uintptr); ok {
			return uint64(v)
		}
		return uint64(value.(uint))
	}
}

func intBounds(to Kind) (int64, int64) {
	switch to {
	case I8:
		return math.MinInt8, math.MaxInt8
	case I16:
		return math.MinInt16, math.MaxInt16
	case I32:
		return math.MinInt32, math.MaxInt32
	default: // I64, Isize
		return math.MinInt64, math.MaxInt64
	}
}

func uintBounds(to Kind) uint64 {
	switch to {
	case U8:
		return math.MaxUint8
	case U16:
		return math.MaxUint16
	case U32:
		return math.MaxUint32
	default: // U64, Usize
		return math.MaxUint64
	}
}

func fromFloat64(f float64, to Kind) (any, Failure) {
	switch to {
	case F32:
		return float32(f), FailNone
	case F64:
		return f, FailNone
	}
	if math.IsNaN(f) {
		return nil, FailNaN
	}
	if math.IsInf(f, 0) {
		return nil, FailInfinite
	}
	t := math.Trunc(f)
	if to.IsSigned() {
		lo, hi := intBounds(to)
		if t < float64(lo) {
			return nil, FailUnderflow
		}
		if t > float64(hi) {
			return nil, FailOverflow
		}
		return castInt64(int64(t), to), FailNone
	}
	if t < 0 {
		return nil, FailUnderflow
	}
	hi := uintBounds(to)
	if t > float64(hi) {
		return nil, FailOverflow
	}
	return castUint64(uint64(t), to), FailNone
}

func fromInt64(i int64, to Kind) (any, Failure) {
	switch to {
	case F32:
		return float32(i), FailNone
	case F64:
		return float64(i), FailNone
	}
	if to.IsSigned() {
		lo, hi := intBounds(to)
		if i < lo {
			return nil, FailUnderflow
		}
		if i > hi {
			return nil, FailOverflow
		}
		return castInt64(i, to), FailNone
	}
	if i < 0 {
		return nil, FailUnderflow
	}
	hi := uintBounds(to)
	if uint64(i) > hi {
		return nil, FailOverflow
	}
	return castUint64(uint64(i), to), FailNone
}

func fromUint64(u uint64, to Kind) (any, Failure) {
	switch to {
	case F32:
		return float32(u), FailNone
	case F64:
		return float64(u), FailNone
	}
	if to.IsSigned() {
		_, hi := intBounds(to)
		if u > uint64(hi) {
			return nil, FailOverflow
		}
		return castInt64(int64(u), to), FailNone
	}
	hi := uintBounds(to)
	if u > hi {
		return nil, FailOverflow
	}
	return castUint64(u, to), FailNone
}

func castInt64(v int64, to Kind) any {
	switch to {
	case I8:
		return int8(v)
	case I16:
		return int16(v)
	case I32:
		return int32(v)
	case I64:
		return v
	default: // Isize
		return int(v)
	}
}

func castUint64(v uint64, to Kind) any {
	switch to {
	case U8:
		return uint8(v)
	case U16:
		return uint16(v)
	case U32:
		return uint32(v)
	case U64:
		return v
	default: // Usize
		return uint(v)
	}
}

// Canonical chooses the target type for concatenating heterogeneous numeric
// Cells, per the priority lattice of §4.D: float beats signed beats
// unsigned, and within a tier the maximum observed bit-depth wins.
// An empty kinds yields U8; callers are expected to have already filtered
// out nil elements (§4.H Concat).
func Canonical(kinds []Kind) Kind {
	var (
		anyFloat, anySigned bool
		maxFloatDepth       int
		maxDepth            int
	)
	for _, k := range kinds {
		if d := k.BitDepth(); d > maxDepth {
			maxDepth = d
		}
		if k.IsFloat() {
			anyFloat = true
			if d := k.BitDepth(); d > maxFloatDepth {
				maxFloatDepth = d
			}
		}
		if k.IsSigned() {
			anySigned = true
		}
	}
	switch {
	case anyFloat:
		if maxFloatDepth > 32 || maxDepth > 32 {
			return F64
		}
		return F32
	case anySigned:
		return signedOfDepth(maxDepth)
	default:
		return unsignedOfDepth(maxDepth)
	}
}

func signedOfDepth(depth int) Kind {
	switch {
	case depth <= 8:
		return I8
	case depth <= 16:
		return I16
	case depth <= 32:
		return I32
	default:
		return I64
	}
}

func unsignedOfDepth(depth int) Kind {
	switch {
	case depth <= 8:
		return U8
	case depth <= 16:
		return U16
	case depth <= 32:
		return U32
	default:
		return U64
	}
}
