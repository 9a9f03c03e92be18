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
package assembly

import (
	"testing"

	"github.com/adastra-run/adastra/pkg/origin"
)

func Test_Builder_InternDeduplicates(t *testing.T) {
	b := NewBuilder(0)
	i1 := b.Intern("x")
	i2 := b.Intern("y")
	i3 := b.Intern("x")
	if i1 != i3 {
		t.Fatalf("expected repeated intern to reuse index, got %d vs %d", i1, i3)
	}
	if i1 == i2 {
		t.Fatalf("expected distinct strings to get distinct indices")
	}
}

func Test_Builder_EmitAndPatch(t *testing.T) {
	b := NewBuilder(0)
	jumpIdx := b.Emit(Command{Op: OpIfFalse, Origin: origin.Nil()})
	b.Emit(Command{Op: OpPushTrue, Origin: origin.Nil()})
	target := b.Here()
	b.Patch(jumpIdx, target)
	asm := b.Build(origin.Nil())
	if asm.CommandAt(jumpIdx).Target != target {
		t.Fatalf("expected patched target %d, got %d", target, asm.CommandAt(jumpIdx).Target)
	}
}

func Test_Builder_SubroutineAndClosureTables(t *testing.T) {
	inner := NewBuilder(1).Build(origin.Nil())
	b := NewBuilder(0)
	subIdx := b.AddSubroutine(inner)
	slotIdx := b.AddClosureSlot(3)
	asm := b.Build(origin.Nil())
	if asm.Subroutine(subIdx) != inner {
		t.Fatalf("expected subroutine table to return the registered Assembly")
	}
	if asm.ClosureSlot(slotIdx) != 3 {
		t.Fatalf("expected closure slot 3, got %d", asm.ClosureSlot(slotIdx))
	}
}

func Test_Assembly_ArityAndFrameDepth(t *testing.T) {
	b := NewBuilder(2)
	b.ReserveFrameDepth(5)
	b.ReserveFrameDepth(2)
	asm := b.Build(origin.Nil())
	if asm.Arity() != 2 {
		t.Fatalf("expected arity 2, got %d", asm.Arity())
	}
	if asm.FrameDepth() != 5 {
		t.Fatalf("expected frame depth 5 (max reservation), got %d", asm.FrameDepth())
	}
}
