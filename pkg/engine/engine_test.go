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
	"testing"

	"github.com/adastra-run/adastra/internal/assert"
	"github.com/adastra-run/adastra/pkg/assembly"
	"github.com/adastra-run/adastra/pkg/origin"
	"github.com/adastra-run/adastra/pkg/runtime"
)

// buildArithAssembly assembles `lhs OP rhs` with no parameters, pushing
// two usize literals and one Op(variant) command.
func buildArithAssembly(lhs, rhs uint64, variant assembly.OpVariant) *assembly.ScriptFn {
	b := assembly.NewBuilder(0)
	here := origin.Nil()
	b.Emit(assembly.Command{Op: assembly.OpPushUsize, Origin: here, UintArg: lhs})
	b.Emit(assembly.Command{Op: assembly.OpPushUsize, Origin: here, UintArg: rhs})
	b.Emit(assembly.Command{Op: assembly.OpOperator, Origin: here, Operator: variant})
	b.ReserveFrameDepth(2)
	return assembly.NewScriptFn(b.Build(here), nil)
}

func Test_Engine_ArithmeticPrecedence(t *testing.T) {
	// 2 + 3 * 4, with the Mul evaluated first onto the operand stack.
	b := assembly.NewBuilder(0)
	here := origin.Nil()
	b.Emit(assembly.Command{Op: assembly.OpPushUsize, Origin: here, UintArg: 2})
	b.Emit(assembly.Command{Op: assembly.OpPushUsize, Origin: here, UintArg: 3})
	b.Emit(assembly.Command{Op: assembly.OpPushUsize, Origin: here, UintArg: 4})
	b.Emit(assembly.Command{Op: assembly.OpOperator, Origin: here, Operator: assembly.VarMul})
	b.Emit(assembly.Command{Op: assembly.OpOperator, Origin: here, Operator: assembly.VarAdd})
	b.ReserveFrameDepth(3)
	fn := assembly.NewScriptFn(b.Build(here), nil)

	eng := New(true, 0, nil)
	result, rerr := eng.Call(fn, nil, origin.Nil())
	assert.NoError(t, errOf(rerr))
	value, derr := runtime.Take[uint](result, origin.Nil())
	assert.NoError(t, errOf(derr))
	assert.Equal(t, uint(14), value)
}

func Test_Engine_Division_ByZero_IsNumericOperation(t *testing.T) {
	fn := buildArithAssembly(7, 0, assembly.VarDiv)
	eng := New(true, 0, nil)
	_, rerr := eng.Call(fn, nil, origin.Nil())
	if rerr == nil {
		t.Fatalf("expected a RuntimeError from division by zero")
	}
	assert.Equal(t, runtime.ErrNumericOperation, rerr.Kind)
	assert.Equal(t, runtime.NumDiv, rerr.OperationKind)
}

func Test_Engine_AddAssign_FallsBackToAddPlusAssign(t *testing.T) {
	// usize has Add and Assign but no dedicated AddAssign: the engine must
	// synthesize AddAssign by computing Add then calling Assign.
	b := assembly.NewBuilder(0)
	here := origin.Nil()
	b.Emit(assembly.Command{Op: assembly.OpPushUsize, Origin: here, UintArg: 10})
	b.Emit(assembly.Command{Op: assembly.OpPushUsize, Origin: here, UintArg: 5})
	b.Emit(assembly.Command{Op: assembly.OpOperator, Origin: here, Operator: assembly.VarAddAssign})
	b.ReserveFrameDepth(2)
	fn := assembly.NewScriptFn(b.Build(here), nil)

	eng := New(true, 0, nil)
	_, rerr := eng.Call(fn, nil, origin.Nil())
	assert.NoError(t, errOf(rerr))
}

// onlyAdd is a minimal receiver type implementing ScriptAdd but
// deliberately no ScriptAssign/ScriptAddAssign, to exercise the
// fallback-chain asymmetry: a receiver with only the base op must get
// UndefinedOperator on AddAssign rather than silently discarding the
// computed sum.
type onlyAdd struct{}

func (onlyAdd) ScriptAdd(o origin.Origin, lhs, rhs runtime.Arg) (runtime.Cell, error) {
	return runtime.Give(o, onlyAddType, struct{}{}), nil
}

var onlyAddType = func() *runtime.TypeMeta {
	ty := runtime.NewTypeMeta("onlyAdd", "", 0, nil)
	ty.Prototype().WithAdd(onlyAdd{})
	return ty
}()

func Test_Engine_AddAssign_WithoutAssign_IsUndefinedOperator(t *testing.T) {
	b := assembly.NewBuilder(0)
	here := origin.Nil()
	b.Emit(assembly.Command{Op: assembly.OpPushNil, Origin: here})
	b.Emit(assembly.Command{Op: assembly.OpPushNil, Origin: here})
	b.ReserveFrameDepth(2)
	fn := assembly.NewScriptFn(b.Build(here), nil)

	eng := New(true, 0, nil)
	f := newFrame(fn)
	receiver := runtime.Give(here, onlyAddType, struct{}{})
	f.stack.push(receiver)
	f.stack.push(receiver)
	rerr := eng.doOperator(f, assembly.Command{Op: assembly.OpOperator, Origin: here, Operator: assembly.VarAddAssign})
	if rerr == nil {
		t.Fatalf("expected UndefinedOperator, got success")
	}
	assert.Equal(t, runtime.ErrUndefinedOperator, rerr.Kind)
	assert.Equal(t, runtime.AddAssign, rerr.Operator)
}

func Test_Engine_MulAssign_RoutesThroughMulNotAdd(t *testing.T) {
	b := assembly.NewBuilder(0)
	here := origin.Nil()
	b.Emit(assembly.Command{Op: assembly.OpPushUsize, Origin: here, UintArg: 6})
	b.Emit(assembly.Command{Op: assembly.OpPushUsize, Origin: here, UintArg: 7})
	b.Emit(assembly.Command{Op: assembly.OpOperator, Origin: here, Operator: assembly.VarMulAssign})
	b.ReserveFrameDepth(2)
	fn := assembly.NewScriptFn(b.Build(here), nil)

	eng := New(true, 0, nil)
	_, rerr := eng.Call(fn, nil, origin.Nil())
	assert.NoError(t, errOf(rerr))

	// 6 *= 7 must leave 42 in the receiver; the Add fallback would leave 13.
	f := newFrame(fn)
	receiver := runtime.Give(here, runtime.UsizeType, uint(6))
	f.stack.push(receiver)
	f.stack.push(runtime.Give(here, runtime.UsizeType, uint(7)))
	rerr = eng.doOperator(f, assembly.Command{Op: assembly.OpOperator, Origin: here, Operator: assembly.VarMulAssign})
	assert.NoError(t, errOf(rerr))
	value, derr := runtime.Take[uint](receiver, here)
	assert.NoError(t, errOf(derr))
	assert.Equal(t, uint(42), value)
}

func Test_Engine_Ordering_Integer(t *testing.T) {
	fn := buildArithAssembly(3, 5, assembly.VarLesser)
	eng := New(true, 0, nil)
	result, rerr := eng.Call(fn, nil, origin.Nil())
	assert.NoError(t, errOf(rerr))
	value, derr := runtime.Take[bool](result, origin.Nil())
	assert.NoError(t, errOf(derr))
	assert.True(t, value)
}

func errOf(rerr *runtime.RuntimeError) error {
	if rerr == nil {
		return nil
	}
	return rerr
}
