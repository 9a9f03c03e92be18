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
package engine

import "github.com/adastra-run/adastra/pkg/runtime"

// operandStack is a reusable LIFO stack of runtime Cells backing a single
// Frame's evaluation stack, with the depth-addressed shaping primitives the
// interpreter needs (§4.H "Lift/Swap/Dup/Shrink").
type operandStack struct {
	items []runtime.Cell
}

func newOperandStack(capacity int) *operandStack {
	return &operandStack{items: make([]runtime.Cell, 0, capacity)}
}

func (s *operandStack) len() int { return len(s.items) }

func (s *operandStack) isEmpty() bool { return len(s.items) == 0 }

// push places an item on top of the stack.
func (s *operandStack) push(item runtime.Cell) {
	s.items = append(s.items, item)
}

// pop removes and returns the top item.
func (s *operandStack) pop() runtime.Cell {
	n := len(s.items)
	item := s.items[n-1]
	s.items = s.items[:n-1]
	return item
}

// peek returns the item offset positions below the top, without removing
// it (offset 0 is the top).
func (s *operandStack) peek(offset int) runtime.Cell {
	return s.items[len(s.items)-offset-1]
}

// at returns the item at the given absolute slot from the bottom of the
// stack (slot 0 is the frame's first pushed value). PushClosure does not
// use it: a closure's captures start empty and are filled by Bind.
func (s *operandStack) at(slot int) runtime.Cell {
	return s.items[slot]
}

// lift removes the item at the given depth below the top and pushes it on
// top, shifting the intervening items down (§4.H Lift).
func (s *operandStack) lift(depth int) {
	n := len(s.items)
	idx := n - depth - 1
	item := s.items[idx]
	copy(s.items[idx:], s.items[idx+1:])
	s.items[n-1] = item
}

// swap exchanges the top item with the item at the given depth below it
// (§4.H Swap).
func (s *operandStack) swap(depth int) {
	n := len(s.items)
	idx := n - depth - 1
	s.items[idx], s.items[n-1] = s.items[n-1], s.items[idx]
}

// dup pushes a copy of the item at the given depth below the top (§4.H
// Dup); depth 0 duplicates the top item.
func (s *operandStack) dup(depth int) {
	item := s.peek(depth)
	s.push(item)
}

// shrink removes count items starting immediately below the top, keeping
// the top item in place (§4.H Shrink) — used to discard intermediate
// values left over from a multi-step expression while preserving its
// final result.
func (s *operandStack) shrink(count int) {
	n := len(s.items)
	top := s.items[n-1]
	s.items = s.items[:n-1-count]
	s.items = append(s.items, top)
}
