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
	"github.com/adastra-run/adastra/pkg/origin"
	"github.com/adastra-run/adastra/pkg/runtime"
)

// doOperator dispatches one Op(...) command (§4.H "Unary/binary ops") to
// the runtime.OperatorKind the variant names, or to PartialEq/Ord-based
// comparison logic for the six variants with no direct Prototype slot.
func (e *Engine) doOperator(f *frame, cmd assembly.Command) *runtime.RuntimeError {
	switch cmd.Operator {
	case assembly.VarClone:
		recv := f.stack.pop()
		impl, ok := recv.Type().Prototype().Clone()
		if !ok {
			return undefinedOp(cmd.Origin, runtime.Clone, recv.Type())
		}
		result, err := impl.ScriptClone(cmd.Origin, runtime.NewArg(cmd.Origin, recv))
		if err != nil {
			return asRuntimeErr(err)
		}
		f.stack.push(result)
		return nil
	case assembly.VarNeg:
		recv := f.stack.pop()
		impl, ok := recv.Type().Prototype().Neg()
		if !ok {
			return undefinedOp(cmd.Origin, runtime.Neg, recv.Type())
		}
		result, err := impl.ScriptNeg(cmd.Origin, runtime.NewArg(cmd.Origin, recv))
		if err != nil {
			return asRuntimeErr(err)
		}
		f.stack.push(result)
		return nil
	case assembly.VarNot:
		recv := f.stack.pop()
		impl, ok := recv.Type().Prototype().Not()
		if !ok {
			return undefinedOp(cmd.Origin, runtime.Not, recv.Type())
		}
		result, err := impl.ScriptNot(cmd.Origin, runtime.NewArg(cmd.Origin, recv))
		if err != nil {
			return asRuntimeErr(err)
		}
		f.stack.push(result)
		return nil
	case assembly.VarAssign:
		rhs := f.stack.pop()
		lhs := f.stack.pop()
		impl, ok := lhs.Type().Prototype().Assign()
		if !ok {
			return undefinedOp(cmd.Origin, runtime.Assign, lhs.Type())
		}
		if err := impl.ScriptAssign(cmd.Origin, runtime.NewArg(cmd.Origin, lhs), runtime.NewArg(cmd.Origin, rhs)); err != nil {
			return asRuntimeErr(err)
		}
		f.stack.push(runtime.Nil())
		return nil
	case assembly.VarAddAssign, assembly.VarSubAssign, assembly.VarMulAssign, assembly.VarDivAssign,
		assembly.VarBitAndAssign, assembly.VarBitOrAssign, assembly.VarBitXorAssign,
		assembly.VarShlAssign, assembly.VarShrAssign, assembly.VarRemAssign:
		return e.doCompoundAssign(f, cmd)
	case assembly.VarEqual, assembly.VarNotEqual:
		return e.doEquality(f, cmd)
	case assembly.VarGreater, assembly.VarGreaterOrEqual, assembly.VarLesser, assembly.VarLesserOrEqual:
		return e.doOrdering(f, cmd)
	case assembly.VarAnd, assembly.VarOr, assembly.VarAdd, assembly.VarSub, assembly.VarMul, assembly.VarDiv,
		assembly.VarBitAnd, assembly.VarBitOr, assembly.VarBitXor, assembly.VarShl, assembly.VarShr, assembly.VarRem:
		return e.doBinary(f, cmd)
	}
	return nil
}

// assignFn and binFn adapt the distinct single-method operator interfaces
// (runtime.ScriptAddAssign, runtime.ScriptAdd, …) to a common shape so the
// compound-assign fallback (§4.C "Fallback chain for assignment-form
// operators") can be written once instead of duplicated per operator.
type assignFn func(o origin.Origin, lhs, rhs runtime.Arg) error
type binFn func(o origin.Origin, lhs, rhs runtime.Arg) (runtime.Cell, error)

// doCompoundAssign implements every *Assign variant uniformly: try the
// dedicated compound operator first; otherwise require BOTH the
// non-assigning form and Assign to be present before falling back to
// "compute then assign" — a receiver implementing only the non-assigning
// form (no Assign) is UndefinedOperator, not silently accepted (the
// fallback's documented asymmetry, preserved verbatim rather than relaxed).
func (e *Engine) doCompoundAssign(f *frame, cmd assembly.Command) *runtime.RuntimeError {
	rhs := f.stack.pop()
	lhs := f.stack.pop()
	lhsArg := runtime.NewArg(cmd.Origin, lhs)
	rhsArg := runtime.NewArg(cmd.Origin, rhs)
	proto := lhs.Type().Prototype()

	var compound assignFn
	var base binFn
	var assign assignFn
	var assignKind runtime.OperatorKind

	switch cmd.Operator {
	case assembly.VarAddAssign:
		assignKind = runtime.AddAssign
		if impl, ok := proto.AddAssign(); ok {
			compound = impl.ScriptAddAssign
		}
		if impl, ok := proto.Add(); ok {
			base = impl.ScriptAdd
		}
	case assembly.VarSubAssign:
		assignKind = runtime.SubAssign
		if impl, ok := proto.SubAssign(); ok {
			compound = impl.ScriptSubAssign
		}
		if impl, ok := proto.Sub(); ok {
			base = impl.ScriptSub
		}
	case assembly.VarMulAssign:
		assignKind = runtime.MulAssign
		if impl, ok := proto.MulAssign(); ok {
			compound = impl.ScriptMulAssign
		}
		if impl, ok := proto.Mul(); ok {
			base = impl.ScriptMul
		}
	case assembly.VarDivAssign:
		assignKind = runtime.DivAssign
		if impl, ok := proto.DivAssign(); ok {
			compound = impl.ScriptDivAssign
		}
		if impl, ok := proto.Div(); ok {
			base = impl.ScriptDiv
		}
	case assembly.VarBitAndAssign:
		assignKind = runtime.BitAndAssign
		if impl, ok := proto.BitAndAssign(); ok {
			compound = impl.ScriptBitAndAssign
		}
		if impl, ok := proto.BitAnd(); ok {
			base = impl.ScriptBitAnd
		}
	case assembly.VarBitOrAssign:
		assignKind = runtime.BitOrAssign
		if impl, ok := proto.BitOrAssign(); ok {
			compound = impl.ScriptBitOrAssign
		}
		if impl, ok := proto.BitOr(); ok {
			base = impl.ScriptBitOr
		}
	case assembly.VarBitXorAssign:
		assignKind = runtime.BitXorAssign
		if impl, ok := proto.BitXorAssign(); ok {
			compound = impl.ScriptBitXorAssign
		}
		if impl, ok := proto.BitXor(); ok {
			base = impl.ScriptBitXor
		}
	case assembly.VarShlAssign:
		assignKind = runtime.ShlAssign
		if impl, ok := proto.ShlAssign(); ok {
			compound = impl.ScriptShlAssign
		}
		if impl, ok := proto.Shl(); ok {
			base = impl.ScriptShl
		}
	case assembly.VarShrAssign:
		assignKind = runtime.ShrAssign
		if impl, ok := proto.ShrAssign(); ok {
			compound = impl.ScriptShrAssign
		}
		if impl, ok := proto.Shr(); ok {
			base = impl.ScriptShr
		}
	case assembly.VarRemAssign:
		assignKind = runtime.RemAssign
		if impl, ok := proto.RemAssign(); ok {
			compound = impl.ScriptRemAssign
		}
		if impl, ok := proto.Rem(); ok {
			base = impl.ScriptRem
		}
	}
	if impl, ok := proto.Assign(); ok {
		assign = impl.ScriptAssign
	}

	if rerr := e.fallbackCompound(cmd, lhsArg, rhsArg, assignKind, compound, base, assign); rerr != nil {
		return rerr
	}
	f.stack.push(runtime.Nil())
	return nil
}

func (e *Engine) fallbackCompound(cmd assembly.Command, lhsArg, rhsArg runtime.Arg, assignKind runtime.OperatorKind,
	compound assignFn, base binFn, assign assignFn) *runtime.RuntimeError {
	if compound != nil {
		return asRuntimeErr(compound(cmd.Origin, lhsArg, rhsArg))
	}
	if base != nil && assign != nil {
		result, err := base(cmd.Origin, lhsArg, rhsArg)
		if err != nil {
			return asRuntimeErr(err)
		}
		return asRuntimeErr(assign(cmd.Origin, lhsArg, runtime.NewArg(cmd.Origin, result)))
	}
	return undefinedOp(cmd.Origin, assignKind, lhsArg.Cell.Type())
}

func (e *Engine) doEquality(f *frame, cmd assembly.Command) *runtime.RuntimeError {
	rhs := f.stack.pop()
	lhs := f.stack.pop()
	impl, ok := lhs.Type().Prototype().PartialEq()
	if !ok {
		return undefinedOp(cmd.Origin, runtime.PartialEq, lhs.Type())
	}
	eq, err := impl.ScriptPartialEq(cmd.Origin, runtime.NewArg(cmd.Origin, lhs), runtime.NewArg(cmd.Origin, rhs))
	if err != nil {
		return asRuntimeErr(err)
	}
	if cmd.Operator == assembly.VarNotEqual {
		eq = !eq
	}
	f.stack.push(runtime.Give(cmd.Origin, runtime.BoolType, eq))
	return nil
}

func (e *Engine) doOrdering(f *frame, cmd assembly.Command) *runtime.RuntimeError {
	rhs := f.stack.pop()
	lhs := f.stack.pop()
	lhsArg := runtime.NewArg(cmd.Origin, lhs)
	rhsArg := runtime.NewArg(cmd.Origin, rhs)
	proto := lhs.Type().Prototype()

	var ord runtime.Ordering
	if impl, ok := proto.Ord(); ok {
		o, err := impl.ScriptOrd(cmd.Origin, lhsArg, rhsArg)
		if err != nil {
			return asRuntimeErr(err)
		}
		ord = o
	} else if impl, ok := proto.PartialOrd(); ok {
		o, comparable, err := impl.ScriptPartialOrd(cmd.Origin, lhsArg, rhsArg)
		if err != nil {
			return asRuntimeErr(err)
		}
		if !comparable {
			return undefinedOp(cmd.Origin, runtime.PartialOrd, lhs.Type())
		}
		ord = o
	} else {
		return undefinedOp(cmd.Origin, runtime.Ord, lhs.Type())
	}

	var result bool
	switch cmd.Operator {
	case assembly.VarGreater:
		result = ord == runtime.Greater
	case assembly.VarGreaterOrEqual:
		result = ord != runtime.Less
	case assembly.VarLesser:
		result = ord == runtime.Less
	case assembly.VarLesserOrEqual:
		result = ord != runtime.Greater
	}
	f.stack.push(runtime.Give(cmd.Origin, runtime.BoolType, result))
	return nil
}

func (e *Engine) doBinary(f *frame, cmd assembly.Command) *runtime.RuntimeError {
	rhs := f.stack.pop()
	lhs := f.stack.pop()
	lhsArg := runtime.NewArg(cmd.Origin, lhs)
	rhsArg := runtime.NewArg(cmd.Origin, rhs)
	proto := lhs.Type().Prototype()

	var result runtime.Cell
	var err error
	var kind runtime.OperatorKind
	var ok bool

	switch cmd.Operator {
	case assembly.VarAnd:
		kind = runtime.And
		if impl, has := proto.And(); has {
			ok = true
			result, err = impl.ScriptAnd(cmd.Origin, lhsArg, rhsArg)
		}
	case assembly.VarOr:
		kind = runtime.Or
		if impl, has := proto.Or(); has {
			ok = true
			result, err = impl.ScriptOr(cmd.Origin, lhsArg, rhsArg)
		}
	case assembly.VarAdd:
		kind = runtime.Add
		if impl, has := proto.Add(); has {
			ok = true
			result, err = impl.ScriptAdd(cmd.Origin, lhsArg, rhsArg)
		}
	case assembly.VarSub:
		kind = runtime.Sub
		if impl, has := proto.Sub(); has {
			ok = true
			result, err = impl.ScriptSub(cmd.Origin, lhsArg, rhsArg)
		}
	case assembly.VarMul:
		kind = runtime.Mul
		if impl, has := proto.Mul(); has {
			ok = true
			result, err = impl.ScriptMul(cmd.Origin, lhsArg, rhsArg)
		}
	case assembly.VarDiv:
		kind = runtime.Div
		if impl, has := proto.Div(); has {
			ok = true
			result, err = impl.ScriptDiv(cmd.Origin, lhsArg, rhsArg)
		}
	case assembly.VarBitAnd:
		kind = runtime.BitAnd
		if impl, has := proto.BitAnd(); has {
			ok = true
			result, err = impl.ScriptBitAnd(cmd.Origin, lhsArg, rhsArg)
		}
	case assembly.VarBitOr:
		kind = runtime.BitOr
		if impl, has := proto.BitOr(); has {
			ok = true
			result, err = impl.ScriptBitOr(cmd.Origin, lhsArg, rhsArg)
		}
	case assembly.VarBitXor:
		kind = runtime.BitXor
		if impl, has := proto.BitXor(); has {
			ok = true
			result, err = impl.ScriptBitXor(cmd.Origin, lhsArg, rhsArg)
		}
	case assembly.VarShl:
		kind = runtime.Shl
		if impl, has := proto.Shl(); has {
			ok = true
			result, err = impl.ScriptShl(cmd.Origin, lhsArg, rhsArg)
		}
	case assembly.VarShr:
		kind = runtime.Shr
		if impl, has := proto.Shr(); has {
			ok = true
			result, err = impl.ScriptShr(cmd.Origin, lhsArg, rhsArg)
		}
	case assembly.VarRem:
		kind = runtime.Rem
		if impl, has := proto.Rem(); has {
			ok = true
			result, err = impl.ScriptRem(cmd.Origin, lhsArg, rhsArg)
		}
	}
	if !ok {
		return undefinedOp(cmd.Origin, kind, lhs.Type())
	}
	if err != nil {
		return asRuntimeErr(err)
	}
	f.stack.push(result)
	return nil
}
