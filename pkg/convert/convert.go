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

// Package convert implements Downcast/Upcast (§4.D): the boundary between
// native Go values and Cells. Downcast turns a Cell into a native value or
// reference; Upcast turns a native value into a Cell. Between primitive
// numeric types, Downcast additionally performs the checked cross-cast
// described by the priority lattice in internal/numtab, rather than
// requiring an exact type match.
package convert

import (
	"reflect"

	"github.com/adastra-run/adastra/internal/numtab"
	"github.com/adastra-run/adastra/pkg/origin"
	"github.com/adastra-run/adastra/pkg/runtime"
)

// Provider pairs a Cell with the Origin of the access attempting to
// downcast it — the value a Downcast implementation consumes or borrows
// from.
type Provider struct {
	Cell   runtime.Cell
	Origin origin.Origin
}

// NewProvider builds a Provider from a Cell and the Origin of the access.
func NewProvider(c runtime.Cell, o origin.Origin) Provider {
	return Provider{Cell: c, Origin: o}
}

// Downcast consumes p's Cell and returns a native T. For non-numeric T this
// requires an exact element-type match (delegating to runtime.Take); for
// numeric T, a Cell holding a different primitive numeric type is cross-cast
// through the priority lattice rather than rejected outright (§4.D).
func Downcast[T any](p Provider) (T, *runtime.RuntimeError) {
	v, err := runtime.Take[T](p.Cell, p.Origin)
	if err == nil {
		return v, nil
	}
	if err.Kind != runtime.ErrTypeMismatch {
		return v, err
	}
	if converted, castErr, ok := tryNumericDowncast[T](p); ok {
		return converted, castErr
	}
	return v, err
}

// DowncastRef borrows p's Cell as a shared *T. Numeric cross-casting does
// not apply to reference downcasts: a reference must name the Cell's actual
// backing type exactly, since producing a converted value would require an
// allocation the caller does not own.
func DowncastRef[T any](p Provider) (*runtime.ReadBorrow[T], *runtime.RuntimeError) {
	return runtime.BorrowRef[T](p.Cell, p.Origin)
}

// DowncastMut borrows p's Cell as an exclusive *T. See DowncastRef: no
// cross-casting.
func DowncastMut[T any](p Provider) (*runtime.WriteBorrow[T], *runtime.RuntimeError) {
	return runtime.BorrowMut[T](p.Cell, p.Origin)
}

// tryNumericDowncast attempts the numeric cross-cast path when T and the
// Cell's element type are both among the twelve primitive numeric kinds.
func tryNumericDowncast[T any](p Provider) (T, *runtime.RuntimeError, bool) {
	var zero T
	destKind, destOK := kindOfGoType(reflect.TypeOf(zero))
	if !destOK {
		return zero, nil, false
	}
	srcValue, srcKind, terr, ok := p.Cell.NumericValue(p.Origin)
	if !ok {
		return zero, nil, false
	}
	if terr != nil {
		return zero, terr, true
	}
	converted, failure := numtab.Convert(srcKind, destKind, srcValue)
	if failure != numtab.FailNone {
		return zero, &runtime.RuntimeError{
			Kind:          runtime.ErrNumberCast,
			PrimaryOrigin: p.Origin,
			From:          runtime.NumericTypeOf(srcKind),
			To:            runtime.NumericTypeOf(destKind),
			CastCause:     causeOf(failure),
		}, true
	}
	return converted.(T), nil, true
}

func kindOfGoType(t reflect.Type) (numtab.Kind, bool) {
	if t == nil {
		return 0, false
	}
	switch t.Kind() {
	case reflect.Int8:
		return numtab.I8, true
	case reflect.Int16:
		return numtab.I16, true
	case reflect.Int32:
		return numtab.I32, true
	case reflect.Int64:
		return numtab.I64, true
	case reflect.Int:
		return numtab.Isize, true
	case reflect.Uint8:
		return numtab.U8, true
	case reflect.Uint16:
		return numtab.U16, true
	case reflect.Uint32:
		return numtab.U32, true
	case reflect.Uint64:
		return numtab.U64, true
	case reflect.Uint, reflect.Uintptr:
		return numtab.Usize, true
	case reflect.Float32:
		return numtab.F32, true
	case reflect.Float64:
		return numtab.F64, true
	default:
		return 0, false
	}
}

func causeOf(f numtab.Failure) runtime.NumberCastCause {
	switch f {
	case numtab.FailInfinite:
		return runtime.CauseInfinite
	case numtab.FailNaN:
		return runtime.CauseNaN
	case numtab.FailOverflow:
		return runtime.CauseOverflow
	default:
		return runtime.CauseUnderflow
	}
}

// Upcast wraps a native value as a freshly owned Cell of the given type
// (§4.D Upcast). This is the mirror of Downcast: it never fails, since
// constructing a Cell from data the host already holds cannot violate any
// invariant.
func Upcast[T any](o origin.Origin, ty *runtime.TypeMeta, value T) runtime.Cell {
	return runtime.Give(o, ty, value)
}

// UpcastVec wraps a native slice as a freshly owned Cell.
func UpcastVec[T any](o origin.Origin, ty *runtime.TypeMeta, values []T) runtime.Cell {
	return runtime.GiveVec(o, ty, values)
}

// UpcastResult upcasts the successful value of a fallible native call, or
// translates a non-nil error into an UpcastResult RuntimeError (§4.D
// "Upcast for Result<T, E>").
func UpcastResult[T any](o origin.Origin, ty *runtime.TypeMeta, value T, err error) (runtime.Cell, *runtime.RuntimeError) {
	if err != nil {
		return runtime.Nil(), &runtime.RuntimeError{Kind: runtime.ErrUpcastResult, PrimaryOrigin: o, Cause: err}
	}
	return Upcast(o, ty, value), nil
}

// Either is the upcast analogue of a two-variant native union: exactly one
// of Left or Right is meaningful, selected by HasLeft.
type Either[L, R any] struct {
	Left    L
	HasLeft bool
	Right   R
}

// UpcastEither upcasts whichever side of e is populated.
func UpcastEither[L, R any](o origin.Origin, leftTy, rightTy *runtime.TypeMeta, e Either[L, R]) runtime.Cell {
	if e.HasLeft {
		return Upcast(o, leftTy, e.Left)
	}
	return Upcast(o, rightTy, e.Right)
}
