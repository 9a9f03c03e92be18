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
	"testing"

	"github.com/adastra-run/adastra/internal/assert"
	"github.com/adastra-run/adastra/pkg/origin"
)

func Test_MemorySlice_ReadOnly_RejectsWrite(t *testing.T) {
	createdAt := origin.Native("t.go", 1, 1, "data")
	m := NewMemorySlice(createdAt, Int32Type, ReadOnly, []int32{1, 2, 3})
	accessedAt := origin.Native("t.go", 2, 1, "write")
	rerr := m.acquireWrite(accessedAt)
	assert.True(t, rerr != nil)
	assert.Equal(t, ErrReadOnly, rerr.Kind)
	assert.Equal(t, createdAt, rerr.SecondaryOrigin)
}

func Test_MemorySlice_WriteOnly_RejectsRead(t *testing.T) {
	createdAt := origin.Native("t.go", 1, 1, "data")
	m := NewMemorySlice(createdAt, Int32Type, WriteOnly, []int32{1, 2, 3})
	accessedAt := origin.Native("t.go", 2, 1, "read")
	rerr := m.acquireRead(accessedAt)
	assert.True(t, rerr != nil)
	assert.Equal(t, ErrWriteOnly, rerr.Kind)
	assert.Equal(t, createdAt, rerr.SecondaryOrigin)
}

func Test_MemorySlice_ReadToWrite_ReportsBorrowSiteNotCreationSite(t *testing.T) {
	createdAt := origin.Native("t.go", 1, 1, "data")
	m := NewMemorySlice(createdAt, Int32Type, ReadWrite, []int32{1, 2, 3})
	readAt := origin.Native("t.go", 2, 1, "read")
	if rerr := m.acquireRead(readAt); rerr != nil {
		t.Fatalf("unexpected acquireRead failure: %v", rerr)
	}
	writeAt := origin.Native("t.go", 3, 1, "write")
	rerr := m.acquireWrite(writeAt)
	assert.True(t, rerr != nil)
	assert.Equal(t, ErrReadToWrite, rerr.Kind)
	assert.Equal(t, readAt, rerr.SecondaryOrigin)
}

func Test_MemorySlice_WriteToRead_ReportsBorrowSiteNotCreationSite(t *testing.T) {
	createdAt := origin.Native("t.go", 1, 1, "data")
	m := NewMemorySlice(createdAt, Int32Type, ReadWrite, []int32{1, 2, 3})
	writeAt := origin.Native("t.go", 2, 1, "write")
	if rerr := m.acquireWrite(writeAt); rerr != nil {
		t.Fatalf("unexpected acquireWrite failure: %v", rerr)
	}
	readAt := origin.Native("t.go", 3, 1, "read")
	rerr := m.acquireRead(readAt)
	assert.True(t, rerr != nil)
	assert.Equal(t, ErrWriteToRead, rerr.Kind)
	assert.Equal(t, writeAt, rerr.SecondaryOrigin)
}

func Test_MemorySlice_WriteToWrite_ReportsBorrowSiteNotCreationSite(t *testing.T) {
	createdAt := origin.Native("t.go", 1, 1, "data")
	m := NewMemorySlice(createdAt, Int32Type, ReadWrite, []int32{1, 2, 3})
	firstWriteAt := origin.Native("t.go", 2, 1, "write1")
	if rerr := m.acquireWrite(firstWriteAt); rerr != nil {
		t.Fatalf("unexpected acquireWrite failure: %v", rerr)
	}
	secondWriteAt := origin.Native("t.go", 3, 1, "write2")
	rerr := m.acquireWrite(secondWriteAt)
	assert.True(t, rerr != nil)
	assert.Equal(t, ErrWriteToWrite, rerr.Kind)
	assert.Equal(t, firstWriteAt, rerr.SecondaryOrigin)
}

func Test_MemorySlice_BorrowLimit(t *testing.T) {
	m := NewMemorySlice(origin.Nil(), Int32Type, ReadWrite, []int32{1})
	for i := 0; i < maxBorrows; i++ {
		if rerr := m.acquireRead(origin.Nil()); rerr != nil {
			t.Fatalf("unexpected acquireRead failure at %d: %v", i, rerr)
		}
	}
	rerr := m.acquireRead(origin.Nil())
	assert.True(t, rerr != nil)
	assert.Equal(t, ErrBorrowLimit, rerr.Kind)
}

func Test_MemorySlice_ReadThenRead_Succeeds(t *testing.T) {
	m := NewMemorySlice(origin.Nil(), Int32Type, ReadWrite, []int32{1})
	if rerr := m.acquireRead(origin.Nil()); rerr != nil {
		t.Fatalf("unexpected acquireRead failure: %v", rerr)
	}
	if rerr := m.acquireRead(origin.Nil()); rerr != nil {
		t.Fatalf("unexpected second acquireRead failure: %v", rerr)
	}
	assert.False(t, m.IsIdle())
	m.releaseRead()
	m.releaseRead()
	assert.True(t, m.IsIdle())
}

func Test_MemorySlice_WriteThenRelease_AllowsNextWrite(t *testing.T) {
	m := NewMemorySlice(origin.Nil(), Int32Type, ReadWrite, []int32{1})
	if rerr := m.acquireWrite(origin.Nil()); rerr != nil {
		t.Fatalf("unexpected acquireWrite failure: %v", rerr)
	}
	m.releaseWrite()
	assert.True(t, m.IsIdle())
	if rerr := m.acquireWrite(origin.Nil()); rerr != nil {
		t.Fatalf("unexpected second acquireWrite failure: %v", rerr)
	}
}

func Test_Cell_BorrowRef_ThenBorrowMut_IsReadToWrite(t *testing.T) {
	c := Give(origin.Nil(), Int32Type, int32(7))
	readAt := origin.Native("t.go", 10, 1, "read")
	b, rerr := BorrowRef[int32](c, readAt)
	if rerr != nil {
		t.Fatalf("unexpected BorrowRef failure: %v", rerr)
	}
	writeAt := origin.Native("t.go", 11, 1, "write")
	_, rerr = BorrowMut[int32](c, writeAt)
	assert.True(t, rerr != nil)
	assert.Equal(t, ErrReadToWrite, rerr.Kind)
	assert.Equal(t, readAt, rerr.SecondaryOrigin)
	b.Release()
}
