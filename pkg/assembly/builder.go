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

import "github.com/adastra-run/adastra/pkg/origin"

// Builder incrementally assembles an Assembly's command vector and
// supporting tables. Command indices are stable once emitted, so a caller
// can record the index returned by Emit and patch its Target later (e.g.
// once the else-branch of an if has been emitted).
type Builder struct {
	arity       int
	frameDepth  int
	commands    []Command
	strings     []string
	internTable map[string]uint32
	subroutines []*Assembly
	closures    []int
}

// NewBuilder starts a Builder for a function taking arity parameters.
func NewBuilder(arity int) *Builder {
	return &Builder{arity: arity, internTable: make(map[string]uint32)}
}

// Intern deduplicates s into the string pool, returning its index.
func (b *Builder) Intern(s string) uint32 {
	if idx, ok := b.internTable[s]; ok {
		return idx
	}
	idx := uint32(len(b.strings))
	b.strings = append(b.strings, s)
	b.internTable[s] = idx
	return idx
}

// AddSubroutine registers a nested Assembly (for an inner fn literal),
// returning its subroutine-table index.
func (b *Builder) AddSubroutine(asm *Assembly) uint32 {
	idx := uint32(len(b.subroutines))
	b.subroutines = append(b.subroutines, asm)
	return idx
}

// AddClosureSlot records a frame-local slot for a new closure-cell slot,
// returning its index in the closure table.
func (b *Builder) AddClosureSlot(frameSlot int) uint32 {
	idx := uint32(len(b.closures))
	b.closures = append(b.closures, frameSlot)
	return idx
}

// ReserveFrameDepth raises the Assembly's recorded peak frame depth if
// depth is larger than what has been seen so far.
func (b *Builder) ReserveFrameDepth(depth int) {
	if depth > b.frameDepth {
		b.frameDepth = depth
	}
}

// Emit appends cmd and returns its command index.
func (b *Builder) Emit(cmd Command) int {
	idx := len(b.commands)
	b.commands = append(b.commands, cmd)
	return idx
}

// Patch overwrites the Target field of a previously emitted command, for
// backpatching forward jumps.
func (b *Builder) Patch(index, target int) {
	b.commands[index].Target = target
}

// Here returns the index the next Emit call will use, for backward jump
// targets (e.g. a loop condition).
func (b *Builder) Here() int {
	return len(b.commands)
}

// Build finalizes the Assembly.
func (b *Builder) Build(declOrigin origin.Origin) *Assembly {
	return New(declOrigin, b.arity, b.frameDepth, b.commands, b.strings, b.subroutines, b.closures)
}
