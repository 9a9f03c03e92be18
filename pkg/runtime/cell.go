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
	"reflect"
	"unicode/utf8"

	"github.com/adastra-run/adastra/internal/numtab"
	"github.com/adastra-run/adastra/pkg/origin"
)

type cellKind uint8

const (
	cellNil cellKind = iota
	cellData
)

// Cell is the universal value handle (§3 Cell). Internally every non-nil
// Cell — whether "owned" or "borrowed" — is a
// projection [start, end) of a MemorySlice; what distinguishes an owned
// Cell is that it is known to be the sole projection onto a freshly
// allocated slice, which is what makes Take legal (§4.B "Taking/moving data
// from a Cell consumes the handle").
type Cell struct {
	kind    cellKind
	owned   bool
	mutable bool
	slice   *MemorySlice
	start   int
	end     int
	org     origin.Origin
}

// Nil returns a Cell carrying no data.
func Nil() Cell {
	return Cell{kind: cellNil, org: origin.Nil()}
}

// IsNil reports whether this Cell carries no data.
func (c Cell) IsNil() bool {
	return c.kind == cellNil
}

// Type returns the TypeMeta of the element type this Cell projects, or
// NilType() for a nil Cell.
func (c Cell) Type() *TypeMeta {
	if c.kind == cellNil {
		return NilType()
	}
	return c.slice.Type()
}

// Length returns the number of elements this Cell projects (nil is length
// 0; singletons are length 1).
func (c Cell) Length() int {
	if c.kind == cellNil {
		return 0
	}
	return c.end - c.start
}

// Origin returns the source range recorded when this Cell was produced.
func (c Cell) Origin() origin.Origin {
	return c.org
}

// IsMutable reports whether this Cell's projection permits write borrows.
// Owned cells are always mutable through their sole owner.
func (c Cell) IsMutable() bool {
	return c.owned || c.mutable
}

// ElemType returns the reflect.Type of this Cell's backing element, used by
// Cell.TypeMatch to drive numeric cross-casting. Returns
// nil for a nil Cell.
func (c Cell) ElemType() reflect.Type {
	if c.kind == cellNil {
		return nil
	}
	return reflect.TypeOf(c.slice.data).Elem()
}

// TypeMatch identifies which of the twelve primitive numeric kinds (if any)
// this Cell's element type corresponds to. Downcast implementations for the
// primitive numeric types consult this to decide whether a cross-cast is
// even applicable before attempting one (§4.D Cell::type_match).
type TypeMatch struct {
	Kind  numtab.Kind
	Known bool
}

// TypeMatch classifies this Cell's element type against the twelve
// primitive numeric kinds.
func (c Cell) TypeMatch() TypeMatch {
	elem := c.ElemType()
	if elem == nil {
		return TypeMatch{}
	}
	switch elem.Kind() {
	case reflect.Int8:
		return TypeMatch{numtab.I8, true}
	case reflect.Int16:
		return TypeMatch{numtab.I16, true}
	case reflect.Int32:
		return TypeMatch{numtab.I32, true}
	case reflect.Int64:
		return TypeMatch{numtab.I64, true}
	case reflect.Int:
		return TypeMatch{numtab.Isize, true}
	case reflect.Uint8:
		return TypeMatch{numtab.U8, true}
	case reflect.Uint16:
		return TypeMatch{numtab.U16, true}
	case reflect.Uint32:
		return TypeMatch{numtab.U32, true}
	case reflect.Uint64:
		return TypeMatch{numtab.U64, true}
	case reflect.Uint, reflect.Uintptr:
		return TypeMatch{numtab.Usize, true}
	case reflect.Float32:
		return TypeMatch{numtab.F32, true}
	case reflect.Float64:
		return TypeMatch{numtab.F64, true}
	default:
		return TypeMatch{}
	}
}

// Give takes ownership of a single native value, returning a length-1 owned
// Cell (§4.B Cell::give).
func Give[T any](o origin.Origin, ty *TypeMeta, value T) Cell {
	slice := NewMemorySlice(o, ty, ReadWrite, []T{value})
	return Cell{kind: cellData, owned: true, mutable: true, slice: slice, start: 0, end: 1, org: o}
}

// GiveVec takes ownership of a contiguous vector; an empty vector becomes
// nil (§4.B Cell::give_vec).
func GiveVec[T any](o origin.Origin, ty *TypeMeta, values []T) Cell {
	if len(values) == 0 {
		return Nil()
	}
	slice := NewMemorySlice(o, ty, ReadWrite, values)
	return Cell{kind: cellData, owned: true, mutable: true, slice: slice, start: 0, end: len(values), org: o}
}

// GiveString takes ownership of a Go string as a byte-backed owned Cell,
// the representation BorrowStr expects (§4.B strings are UTF-8 byte
// slices under the hood).
func GiveString(o origin.Origin, ty *TypeMeta, s string) Cell {
	return GiveVec(o, ty, []byte(s))
}

// Borrowed wraps an existing MemorySlice as a borrowed Cell projecting
// [start, end), tagged mutable if the projection should permit write
// borrows (independent of the slice's own Capability, which still governs
// conflict detection).
func Borrowed(o origin.Origin, slice *MemorySlice, start, end int, mutable bool) Cell {
	return Cell{kind: cellData, owned: false, mutable: mutable, slice: slice, start: start, end: end, org: o}
}

// Take consumes the Cell and returns a single owned T (§4.B Cell::take).
func Take[T any](c Cell, accessOrigin origin.Origin) (T, *RuntimeError) {
	var zero T
	if c.kind == cellNil {
		return zero, &RuntimeError{Kind: ErrNil, PrimaryOrigin: accessOrigin}
	}
	if !c.owned {
		return zero, &RuntimeError{Kind: ErrDowncastStatic, PrimaryOrigin: accessOrigin}
	}
	vs, ok := c.slice.data.([]T)
	if !ok {
		return zero, typeMismatchErr(accessOrigin, c)
	}
	if c.end-c.start != 1 {
		return zero, &RuntimeError{Kind: ErrNonSingleton, PrimaryOrigin: accessOrigin, Actual: c.end - c.start}
	}
	return vs[c.start], nil
}

// TakeVec consumes the Cell and yields the underlying vector (§4.B
// Cell::take_vec). A nil Cell yields an empty, non-nil slice.
func TakeVec[T any](c Cell, accessOrigin origin.Origin) ([]T, *RuntimeError) {
	if c.kind == cellNil {
		return []T{}, nil
	}
	if !c.owned {
		return nil, &RuntimeError{Kind: ErrDowncastStatic, PrimaryOrigin: accessOrigin}
	}
	vs, ok := c.slice.data.([]T)
	if !ok {
		return nil, typeMismatchErr(accessOrigin, c)
	}
	return vs[c.start:c.end], nil
}

// ReadBorrow is a shared reference produced by BorrowRef. Release must be
// called exactly once when the reference is no longer needed.
type ReadBorrow[T any] struct {
	slice *MemorySlice
	ptr   *T
}

// Value returns the borrowed value.
func (b *ReadBorrow[T]) Value() T { return *b.ptr }

// Release ends this read borrow.
func (b *ReadBorrow[T]) Release() {
	if b.slice != nil {
		b.slice.releaseRead()
	}
}

// WriteBorrow is an exclusive reference produced by BorrowMut. Release must
// be called exactly once when the reference is no longer needed.
type WriteBorrow[T any] struct {
	slice *MemorySlice
	ptr   *T
}

// Get returns the current borrowed value.
func (b *WriteBorrow[T]) Get() T { return *b.ptr }

// Set overwrites the borrowed value.
func (b *WriteBorrow[T]) Set(v T) { *b.ptr = v }

// Release ends this write borrow.
func (b *WriteBorrow[T]) Release() {
	if b.slice != nil {
		b.slice.releaseWrite()
	}
}

// BorrowRef produces a shared reference, incrementing the slice's read
// count (§4.B Cell::borrow_ref).
func BorrowRef[T any](c Cell, accessOrigin origin.Origin) (*ReadBorrow[T], *RuntimeError) {
	if c.kind == cellNil {
		return nil, &RuntimeError{Kind: ErrNil, PrimaryOrigin: accessOrigin}
	}
	vs, ok := c.slice.data.([]T)
	if !ok {
		return nil, typeMismatchErr(accessOrigin, c)
	}
	if c.end-c.start != 1 {
		return nil, &RuntimeError{Kind: ErrNonSingleton, PrimaryOrigin: accessOrigin, Actual: c.end - c.start}
	}
	if rerr := c.slice.acquireRead(accessOrigin); rerr != nil {
		return nil, rerr
	}
	return &ReadBorrow[T]{slice: c.slice, ptr: &vs[c.start]}, nil
}

// BorrowMut produces an exclusive reference, setting the slice's write flag
// (§4.B Cell::borrow_mut).
func BorrowMut[T any](c Cell, accessOrigin origin.Origin) (*WriteBorrow[T], *RuntimeError) {
	if c.kind == cellNil {
		return nil, &RuntimeError{Kind: ErrNil, PrimaryOrigin: accessOrigin}
	}
	vs, ok := c.slice.data.([]T)
	if !ok {
		return nil, typeMismatchErr(accessOrigin, c)
	}
	if c.end-c.start != 1 {
		return nil, &RuntimeError{Kind: ErrNonSingleton, PrimaryOrigin: accessOrigin, Actual: c.end - c.start}
	}
	if !c.IsMutable() {
		return nil, &RuntimeError{Kind: ErrReadOnly, PrimaryOrigin: accessOrigin, SecondaryOrigin: c.org}
	}
	if rerr := c.slice.acquireWrite(accessOrigin); rerr != nil {
		return nil, rerr
	}
	return &WriteBorrow[T]{slice: c.slice, ptr: &vs[c.start]}, nil
}

// BorrowStr is a specialized read borrow of a string-backed ([]byte) Cell,
// validating UTF-8 on the way out (§4.B Cell::borrow_str).
func (c Cell) BorrowStr(accessOrigin origin.Origin) (string, *RuntimeError) {
	if c.kind == cellNil {
		return "", &RuntimeError{Kind: ErrNil, PrimaryOrigin: accessOrigin}
	}
	vs, ok := c.slice.data.([]byte)
	if !ok {
		return "", typeMismatchErr(accessOrigin, c)
	}
	if rerr := c.slice.acquireRead(accessOrigin); rerr != nil {
		return "", rerr
	}
	defer c.slice.releaseRead()
	b := vs[c.start:c.end]
	if !utf8.Valid(b) {
		_, size := utf8.DecodeRune(b)
		return "", &RuntimeError{Kind: ErrUtf8Decoding, PrimaryOrigin: accessOrigin, Index: size}
	}
	return string(b), nil
}

// MapSlice derives a sub-projection of this Cell (§4.B Cell::map_slice).
// Index arithmetic clamps end to length when start <= length.
func (c Cell) MapSlice(accessOrigin origin.Origin, start, end int) (Cell, *RuntimeError) {
	length := c.Length()
	if start > length {
		return Cell{}, &RuntimeError{Kind: ErrOutOfBounds, PrimaryOrigin: accessOrigin, Index: start, Length: length}
	}
	if end > length {
		end = length
	}
	if end < start {
		return Cell{}, &RuntimeError{Kind: ErrMalformedRange, PrimaryOrigin: accessOrigin, StartBound: start, EndBound: end}
	}
	if c.kind == cellNil {
		return Nil(), nil
	}
	return Cell{
		kind: cellData, owned: false, mutable: c.IsMutable(),
		slice: c.slice, start: c.start + start, end: c.start + end, org: accessOrigin,
	}, nil
}

func typeMismatchErr(accessOrigin origin.Origin, c Cell) *RuntimeError {
	return &RuntimeError{Kind: ErrTypeMismatch, PrimaryOrigin: accessOrigin, DataType: c.Type()}
}

// MapRef projects a new owned Cell holding the element-wise image of a
// borrowed Cell under fn, without consuming the source (§4.B "host
// functors"). The source's singleton-ness is not required: fn runs over
// every projected element.
func MapRef[S, T any](c Cell, accessOrigin origin.Origin, ty *TypeMeta, fn func(S) T) (Cell, *RuntimeError) {
	if c.kind == cellNil {
		return Nil(), nil
	}
	vs, ok := c.slice.data.([]S)
	if !ok {
		return Cell{}, typeMismatchErr(accessOrigin, c)
	}
	if rerr := c.slice.acquireRead(accessOrigin); rerr != nil {
		return Cell{}, rerr
	}
	defer c.slice.releaseRead()
	out := make([]T, c.end-c.start)
	for i, v := range vs[c.start:c.end] {
		out[i] = fn(v)
	}
	return GiveVec(accessOrigin, ty, out), nil
}

// MapMut applies fn in place to every element of c under a write borrow,
// leaving the Cell's identity and length unchanged (§4.B "host functors").
func MapMut[T any](c Cell, accessOrigin origin.Origin, fn func(T) T) *RuntimeError {
	if c.kind == cellNil {
		return nil
	}
	vs, ok := c.slice.data.([]T)
	if !ok {
		return typeMismatchErr(accessOrigin, c)
	}
	if !c.IsMutable() {
		return &RuntimeError{Kind: ErrReadOnly, PrimaryOrigin: accessOrigin, SecondaryOrigin: c.org}
	}
	if rerr := c.slice.acquireWrite(accessOrigin); rerr != nil {
		return rerr
	}
	defer c.slice.releaseWrite()
	for i := c.start; i < c.end; i++ {
		vs[i] = fn(vs[i])
	}
	return nil
}
