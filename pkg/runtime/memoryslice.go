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

	"github.com/adastra-run/adastra/pkg/origin"
)

// Capability fixes what kind of borrow a MemorySlice will ever grant, over
// host-owned data rather than machine words:
//   - ReadWrite: an ordinary mutable host slice (e.g. &mut [T]).
//   - ReadOnly: an immutable host slice (e.g. a static table); mutable
//     borrows always fail with ReadOnly.
//   - WriteOnly: a host sink that cannot be read back (e.g. an output
//     stream); read borrows always fail with WriteOnly.
type Capability uint8

// The three borrow capabilities a MemorySlice may have.
const (
	ReadWrite Capability = iota
	ReadOnly
	WriteOnly
)

// maxBorrows bounds the number of simultaneous active read borrows a single
// MemorySlice will grant before failing with BorrowLimit (§4.B).
const maxBorrows = 1 << 16

// MemorySlice is the reference-counted backing store referenced by borrowed
// Cells (§3 MemorySlice). It tracks the element type, the Origin that
// created it, and the current borrow state: a count of active read borrows
// and a flag for the single active write borrow.
type MemorySlice struct {
	ty         *TypeMeta
	origin     origin.Origin
	capability Capability
	data       any // holds a []T for the element type T

	readCount      int
	writeFlag      bool
	writeOrigin    origin.Origin // origin of the currently active write borrow
	lastReadOrigin origin.Origin // origin of the most recently acquired read borrow
}

// NewMemorySlice wraps data (which must be a Go slice) as a borrow-tracked
// MemorySlice of the given element TypeMeta and capability.
func NewMemorySlice(o origin.Origin, ty *TypeMeta, capability Capability, data any) *MemorySlice {
	if reflect.ValueOf(data).Kind() != reflect.Slice {
		panic("runtime: MemorySlice data must be a slice")
	}
	return &MemorySlice{ty: ty, origin: o, capability: capability, data: data}
}

// Type returns the element TypeMeta of this slice.
func (m *MemorySlice) Type() *TypeMeta { return m.ty }

// Origin returns the Origin that created this slice.
func (m *MemorySlice) Origin() origin.Origin { return m.origin }

// Len returns the number of elements currently backing this slice.
func (m *MemorySlice) Len() int {
	return reflect.ValueOf(m.data).Len()
}

// acquireRead attempts to record a new read borrow, failing with WriteOnly
// if the capability forbids reads, WriteToRead if a write borrow is active,
// or BorrowLimit if the read-borrow count is saturated.
func (m *MemorySlice) acquireRead(accessOrigin origin.Origin) *RuntimeError {
	if m.capability == WriteOnly {
		return &RuntimeError{Kind: ErrWriteOnly, PrimaryOrigin: accessOrigin, SecondaryOrigin: m.origin}
	}
	if m.writeFlag {
		return &RuntimeError{Kind: ErrWriteToRead, PrimaryOrigin: accessOrigin, SecondaryOrigin: m.writeOrigin}
	}
	if m.readCount >= maxBorrows {
		return &RuntimeError{Kind: ErrBorrowLimit, PrimaryOrigin: accessOrigin, Limit: maxBorrows}
	}
	m.readCount++
	m.lastReadOrigin = accessOrigin
	return nil
}

// releaseRead records the end of a previously acquired read borrow.
func (m *MemorySlice) releaseRead() {
	if m.readCount > 0 {
		m.readCount--
	}
}

// acquireWrite attempts to record the (single) active write borrow, failing
// with ReadOnly if the capability forbids writes, ReadToWrite if a read
// borrow is active, or WriteToWrite if a write borrow is already active.
func (m *MemorySlice) acquireWrite(accessOrigin origin.Origin) *RuntimeError {
	if m.capability == ReadOnly {
		return &RuntimeError{Kind: ErrReadOnly, PrimaryOrigin: accessOrigin, SecondaryOrigin: m.origin}
	}
	if m.writeFlag {
		return &RuntimeError{Kind: ErrWriteToWrite, PrimaryOrigin: accessOrigin, SecondaryOrigin: m.writeOrigin}
	}
	if m.readCount > 0 {
		return &RuntimeError{Kind: ErrReadToWrite, PrimaryOrigin: accessOrigin, SecondaryOrigin: m.lastReadOrigin}
	}
	m.writeFlag = true
	m.writeOrigin = accessOrigin
	return nil
}

// releaseWrite records the end of the active write borrow.
func (m *MemorySlice) releaseWrite() {
	m.writeFlag = false
}

// IsIdle reports whether this slice currently has no live borrows, i.e. it
// is safe to reclaim once no Cell references it (§3 Lifecycle).
func (m *MemorySlice) IsIdle() bool {
	return m.readCount == 0 && !m.writeFlag
}
