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

import "github.com/adastra-run/adastra/pkg/runtime"

// ScriptFn is a runtime function value: an Assembly plus the closure Cells
// captured at the point this particular closure was constructed (§3
// ScriptFn). Multiple ScriptFn values may share one Assembly with different
// captures — each PushClosure command in a running frame mints a new one.
type ScriptFn struct {
	asm      *Assembly
	captures []runtime.Cell
}

// NewScriptFn pairs an Assembly with its captured closure Cells.
func NewScriptFn(asm *Assembly, captures []runtime.Cell) *ScriptFn {
	return &ScriptFn{asm: asm, captures: captures}
}

// Assembly returns the compiled body this function runs.
func (f *ScriptFn) Assembly() *Assembly { return f.asm }

// Arity returns the number of parameters this function requires.
func (f *ScriptFn) Arity() int { return f.asm.Arity() }

// Capture returns the ith captured closure Cell.
func (f *ScriptFn) Capture(i int) runtime.Cell { return f.captures[i] }

// SetCapture writes the ith closure slot, mutating this ScriptFn in place.
// Used by the Bind instruction while the closure being constructed still
// sits on the operand stack (§4.F "Bind{idx} … writes it into the closure
// slot idx of the ScriptFn on top of stack").
func (f *ScriptFn) SetCapture(i int, c runtime.Cell) { f.captures[i] = c }

// NumCaptures returns the number of captured closure Cells.
func (f *ScriptFn) NumCaptures() int { return len(f.captures) }
