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

import (
	"github.com/adastra-run/adastra/pkg/assembly"
	"github.com/adastra-run/adastra/pkg/runtime"
)

// frame is one executing invocation on the callStack: a function id/program
// counter/registers triple reworked into an evaluation-stack discipline
// instead of fixed registers — a script's "registers" are simply positions
// in its own operand stack, addressed by the Lift/Swap/Dup/Shrink commands
// relative to the top of that stack.
type frame struct {
	fn    *assembly.ScriptFn
	pc    int
	stack *operandStack
}

func newFrame(fn *assembly.ScriptFn) *frame {
	return &frame{
		fn:    fn,
		stack: newOperandStack(fn.Assembly().FrameDepth()),
	}
}

func (f *frame) assembly() *assembly.Assembly { return f.fn.Assembly() }

func (f *frame) capture(i int) runtime.Cell { return f.fn.Capture(i) }

// callStack is the engine's stack of active frames.
type callStack struct {
	frames []*frame
}

func newCallStack() *callStack {
	return &callStack{}
}

func (c *callStack) push(f *frame) { c.frames = append(c.frames, f) }

func (c *callStack) pop() *frame {
	n := len(c.frames)
	f := c.frames[n-1]
	c.frames = c.frames[:n-1]
	return f
}

func (c *callStack) top() *frame { return c.frames[len(c.frames)-1] }

func (c *callStack) isEmpty() bool { return len(c.frames) == 0 }

func (c *callStack) depth() int { return len(c.frames) }
