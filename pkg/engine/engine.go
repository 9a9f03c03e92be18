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

// Package engine is the stack-based bytecode interpreter (§4.H): it drives
// an Assembly's command vector over per-frame operand stacks, delegating
// every type-dependent step to the operator table reached through
// Cell.Type().Prototype().
package engine

import (
	"unicode/utf8"

	"github.com/adastra-run/adastra/pkg/assembly"
	"github.com/adastra-run/adastra/pkg/convert"
	"github.com/adastra-run/adastra/pkg/origin"
	"github.com/adastra-run/adastra/pkg/runtime"
)

// DefaultMaxCallDepth bounds native Go recursion through nested Invoke
// commands, so a pathological script fails deterministically with
// StackOverflow instead of crashing the host process (§4.G).
const DefaultMaxCallDepth = 512

// PackageResolver is the host-facing contract OpPushPackage consults: a
// package name known to the host resolves to the Cell that names it (a
// namespace value exposing the package's exported components).
type PackageResolver interface {
	ResolvePackage(name string) (runtime.Cell, bool)
}

// Engine executes compiled Assemblies. One Engine corresponds to one
// thread-local execution context (§4.G): its InterruptionHook and call
// stack are not safe to share across goroutines.
type Engine struct {
	hook     InterruptionHook
	trusted  bool
	maxDepth int
	resolver PackageResolver
	calls    *callStack
}

// New constructs an Engine. trusted elides the per-instruction hook poll
// (§4.H "a performance optimization; correctness must not depend on it").
// resolver may be nil if the host registers no packages.
func New(trusted bool, maxDepth int, resolver PackageResolver) *Engine {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxCallDepth
	}
	return &Engine{trusted: trusted, maxDepth: maxDepth, resolver: resolver, calls: newCallStack()}
}

// Hook returns this Engine's interruption hook slot.
func (e *Engine) Hook() *InterruptionHook { return &e.hook }

// Call invokes fn with args, enforcing the arity check before any of fn's
// instructions run (§8 "Arity check") and the call-depth limit (§4.G
// StackOverflow).
func (e *Engine) Call(fn *assembly.ScriptFn, args []runtime.Cell, callOrigin origin.Origin) (runtime.Cell, *runtime.RuntimeError) {
	if len(args) != fn.Arity() {
		return runtime.Nil(), &runtime.RuntimeError{
			Kind: runtime.ErrArityMismatch, PrimaryOrigin: callOrigin,
			Parameters: fn.Arity(), Arguments: len(args),
		}
	}
	if e.calls.depth() >= e.maxDepth {
		return runtime.Nil(), &runtime.RuntimeError{Kind: runtime.ErrStackOverflow, PrimaryOrigin: callOrigin}
	}
	f := newFrame(fn)
	for _, a := range args {
		f.stack.push(a)
	}
	e.calls.push(f)
	result, rerr := e.run(f)
	e.calls.pop()
	if rerr != nil {
		return runtime.Nil(), rerr
	}
	return result, nil
}

// run executes f's Assembly to completion (§4.H "Execution loop").
func (e *Engine) run(f *frame) (runtime.Cell, *runtime.RuntimeError) {
	asm := f.assembly()
	for f.pc < asm.Len() {
		cmd := asm.CommandAt(f.pc)
		if !e.trusted {
			if !e.hook.Poll() {
				return runtime.Nil(), &runtime.RuntimeError{Kind: runtime.ErrInterrupted, PrimaryOrigin: cmd.Origin}
			}
		}
		next, rerr := e.step(f, asm, cmd)
		if rerr != nil {
			return runtime.Nil(), rerr
		}
		f.pc = next
	}
	if f.stack.isEmpty() {
		return runtime.Nil(), nil
	}
	return f.stack.peek(0), nil
}

// step executes a single command, returning the next command index.
func (e *Engine) step(f *frame, asm *assembly.Assembly, cmd assembly.Command) (int, *runtime.RuntimeError) {
	switch cmd.Op {
	case assembly.OpPushNil:
		f.stack.push(runtime.Nil())
	case assembly.OpPushTrue:
		f.stack.push(runtime.Give(cmd.Origin, runtime.BoolType, true))
	case assembly.OpPushFalse:
		f.stack.push(runtime.Give(cmd.Origin, runtime.BoolType, false))
	case assembly.OpPushUsize:
		f.stack.push(runtime.Give(cmd.Origin, runtime.UsizeType, uint(cmd.UintArg)))
	case assembly.OpPushIsize:
		f.stack.push(runtime.Give(cmd.Origin, runtime.IsizeType, int(cmd.IntArg)))
	case assembly.OpPushFloat:
		f.stack.push(runtime.Give(cmd.Origin, runtime.Float64Type, cmd.FloatArg))
	case assembly.OpPushString:
		f.stack.push(runtime.GiveString(cmd.Origin, runtime.StringType, asm.String(cmd.StringIdx)))
	case assembly.OpPushPackage:
		if e.resolver == nil {
			return 0, &runtime.RuntimeError{Kind: runtime.ErrUnknownPackage, PrimaryOrigin: cmd.Origin, PackageName: cmd.PackageName}
		}
		pkg, ok := e.resolver.ResolvePackage(cmd.PackageName)
		if !ok {
			return 0, &runtime.RuntimeError{Kind: runtime.ErrUnknownPackage, PrimaryOrigin: cmd.Origin, PackageName: cmd.PackageName}
		}
		f.stack.push(pkg)
	case assembly.OpPushClosure, assembly.OpPushFn:
		sub := asm.Subroutine(cmd.SubIdx)
		fn := assembly.NewScriptFn(sub, make([]runtime.Cell, sub.NumClosureSlots()))
		f.stack.push(runtime.Give(cmd.Origin, runtime.FuncType, fn))
	case assembly.OpPushStruct:
		f.stack.push(runtime.GiveStruct(cmd.Origin))
	case assembly.OpIfTrue, assembly.OpIfFalse:
		cond := f.stack.pop()
		v, rerr := convert.Downcast[bool](convert.NewProvider(cond, cmd.Origin))
		if rerr != nil {
			return 0, rerr
		}
		want := cmd.Op == assembly.OpIfTrue
		if v == want {
			return cmd.Target, nil
		}
		return f.pc + 1, nil
	case assembly.OpJump:
		return cmd.Target, nil
	case assembly.OpIterate:
		next, exhausted, rerr := runtime.AdvanceRange(f.stack.peek(0), cmd.Origin)
		if rerr != nil {
			return 0, rerr
		}
		if exhausted {
			return cmd.Target, nil
		}
		f.stack.push(runtime.Give(cmd.Origin, runtime.UsizeType, uint(next)))
	case assembly.OpLift:
		f.stack.lift(cmd.Depth)
	case assembly.OpSwap:
		f.stack.swap(cmd.Depth)
	case assembly.OpDup:
		f.stack.dup(cmd.Depth)
	case assembly.OpShrink:
		f.stack.shrink(cmd.Depth)
	case assembly.OpRange:
		if rerr := e.doRange(f, cmd); rerr != nil {
			return 0, rerr
		}
	case assembly.OpConcat:
		if rerr := e.doConcat(f, cmd); rerr != nil {
			return 0, rerr
		}
	case assembly.OpBind:
		value := f.stack.pop()
		fn, rerr := runtime.Take[*assembly.ScriptFn](f.stack.peek(0), cmd.Origin)
		if rerr != nil {
			return 0, rerr
		}
		fn.SetCapture(cmd.Depth, value)
	case assembly.OpField:
		if rerr := e.doField(f, asm, cmd); rerr != nil {
			return 0, rerr
		}
	case assembly.OpLen:
		if rerr := e.doLen(f, cmd); rerr != nil {
			return 0, rerr
		}
	case assembly.OpQuery:
		recv := f.stack.pop()
		f.stack.push(runtime.Give(cmd.Origin, runtime.BoolType, !recv.Type().Prototype().IsNone()))
	case assembly.OpOperator:
		if rerr := e.doOperator(f, cmd); rerr != nil {
			return 0, rerr
		}
	case assembly.OpInvoke:
		if rerr := e.doInvoke(f, cmd); rerr != nil {
			return 0, rerr
		}
	case assembly.OpIndex:
		if rerr := e.doIndex(f, cmd); rerr != nil {
			return 0, rerr
		}
	}
	return f.pc + 1, nil
}

func (e *Engine) doRange(f *frame, cmd assembly.Command) *runtime.RuntimeError {
	endCell := f.stack.pop()
	startCell := f.stack.pop()
	startV, _, rerr, ok := startCell.NumericValue(cmd.Origin)
	if rerr != nil {
		return rerr
	}
	if !ok {
		return &runtime.RuntimeError{Kind: runtime.ErrTypeMismatch, PrimaryOrigin: cmd.Origin, DataType: startCell.Type()}
	}
	endV, _, rerr, ok := endCell.NumericValue(cmd.Origin)
	if rerr != nil {
		return rerr
	}
	if !ok {
		return &runtime.RuntimeError{Kind: runtime.ErrTypeMismatch, PrimaryOrigin: cmd.Origin, DataType: endCell.Type()}
	}
	f.stack.push(runtime.GiveRange(cmd.Origin, numericToInt(startV), numericToInt(endV)))
	return nil
}

func (e *Engine) doConcat(f *frame, cmd assembly.Command) *runtime.RuntimeError {
	count := cmd.Depth
	cells := make([]runtime.Cell, count)
	for i := count - 1; i >= 0; i-- {
		cells[i] = f.stack.pop()
	}
	var args []runtime.Arg
	var receiver *runtime.TypeMeta
	for _, c := range cells {
		if c.IsNil() {
			continue
		}
		if receiver == nil {
			receiver = c.Type()
		}
		args = append(args, runtime.NewArg(cmd.Origin, c))
	}
	if receiver == nil {
		f.stack.push(runtime.Nil())
		return nil
	}
	impl, ok := receiver.Prototype().Concat()
	if !ok {
		return undefinedOp(cmd.Origin, runtime.Concat, receiver)
	}
	result, err := impl.ScriptConcat(cmd.Origin, args)
	if err != nil {
		return asRuntimeErr(err)
	}
	f.stack.push(result)
	return nil
}

func (e *Engine) doField(f *frame, asm *assembly.Assembly, cmd assembly.Command) *runtime.RuntimeError {
	name := asm.String(cmd.StringIdx)
	recv := f.stack.pop()
	proto := recv.Type().Prototype()
	if comp, ok := proto.ComponentByName(name); ok {
		result, err := comp.Construct(cmd.Origin, runtime.NewArg(cmd.Origin, recv))
		if err != nil {
			return asRuntimeErr(err)
		}
		f.stack.push(result)
		return nil
	}
	if impl, ok := proto.Field(); ok {
		result, err := impl.ScriptField(cmd.Origin, runtime.NewArg(cmd.Origin, recv), name)
		if err != nil {
			return asRuntimeErr(err)
		}
		f.stack.push(result)
		return nil
	}
	names := make([]string, len(proto.Components()))
	for i, c := range proto.Components() {
		names[i] = c.Name
	}
	return &runtime.RuntimeError{
		Kind: runtime.ErrUnknownField, PrimaryOrigin: cmd.Origin, Receiver: recv.Type(),
		FieldName: name, Suggestion: suggestName(name, names),
	}
}

func (e *Engine) doLen(f *frame, cmd assembly.Command) *runtime.RuntimeError {
	recv := f.stack.pop()
	var n int
	if recv.Type() == runtime.StringType {
		s, rerr := recv.BorrowStr(cmd.Origin)
		if rerr != nil {
			return rerr
		}
		n = utf8.RuneCountInString(s)
	} else {
		n = recv.Length()
	}
	f.stack.push(runtime.Give(cmd.Origin, runtime.UsizeType, uint(n)))
	return nil
}

func (e *Engine) doInvoke(f *frame, cmd assembly.Command) *runtime.RuntimeError {
	arity := cmd.Depth
	args := make([]runtime.Cell, arity)
	for i := arity - 1; i >= 0; i-- {
		args[i] = f.stack.pop()
	}
	target := f.stack.pop()
	if target.Type() == runtime.FuncType {
		fn, rerr := runtime.Take[*assembly.ScriptFn](target, cmd.Origin)
		if rerr != nil {
			return rerr
		}
		if fn.Arity() != arity {
			return &runtime.RuntimeError{Kind: runtime.ErrArityMismatch, PrimaryOrigin: cmd.Origin, Parameters: fn.Arity(), Arguments: arity}
		}
		result, rerr := e.Call(fn, args, cmd.Origin)
		if rerr != nil {
			return rerr
		}
		f.stack.push(result)
		return nil
	}
	impl, ok := target.Type().Prototype().Invocation()
	if !ok {
		return undefinedOp(cmd.Origin, runtime.Invocation, target.Type())
	}
	argArgs := make([]runtime.Arg, arity)
	for i, c := range args {
		argArgs[i] = runtime.NewArg(cmd.Origin, c)
	}
	result, err := impl.ScriptInvocation(cmd.Origin, runtime.NewArg(cmd.Origin, target), argArgs)
	if err != nil {
		return asRuntimeErr(err)
	}
	f.stack.push(result)
	return nil
}

func (e *Engine) doIndex(f *frame, cmd assembly.Command) *runtime.RuntimeError {
	idxCell := f.stack.pop()
	slice := f.stack.pop()

	var start, end int
	isIndex := false
	if idxCell.Type() == runtime.RangeType {
		b, rerr := runtime.BorrowRef[runtime.RangeValue](idxCell, cmd.Origin)
		if rerr != nil {
			return rerr
		}
		rv := b.Value()
		b.Release()
		start, end = rv.Start, rv.End
	} else {
		v, _, rerr, ok := idxCell.NumericValue(cmd.Origin)
		if rerr != nil {
			return rerr
		}
		if !ok {
			return &runtime.RuntimeError{Kind: runtime.ErrTypeMismatch, PrimaryOrigin: cmd.Origin, DataType: idxCell.Type()}
		}
		start = numericToInt(v)
		end = start + 1
		isIndex = true
	}

	if slice.Type() == runtime.StringType {
		s, rerr := slice.BorrowStr(cmd.Origin)
		if rerr != nil {
			return rerr
		}
		bStart, bEnd, rerr := stringIndexBounds(s, start, end, isIndex, cmd.Origin)
		if rerr != nil {
			return rerr
		}
		result, rerr := slice.MapSlice(cmd.Origin, bStart, bEnd)
		if rerr != nil {
			return rerr
		}
		f.stack.push(result)
		return nil
	}

	result, rerr := slice.MapSlice(cmd.Origin, start, end)
	if rerr != nil {
		return rerr
	}
	f.stack.push(result)
	return nil
}

// stringIndexBounds translates a character-index range into byte offsets
// within s (§4.H "String indexing").
func stringIndexBounds(s string, start, end int, isIndex bool, o origin.Origin) (int, int, *runtime.RuntimeError) {
	offsets := make([]int, 0, len(s)+1)
	i := 0
	for i < len(s) {
		offsets = append(offsets, i)
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
	}
	offsets = append(offsets, len(s))
	charsConsumed := len(offsets) - 1

	if start > charsConsumed {
		return 0, 0, &runtime.RuntimeError{Kind: runtime.ErrOutOfBounds, PrimaryOrigin: o, Index: start, Length: charsConsumed}
	}
	bStart := offsets[start]
	if start == end {
		return bStart, bStart, nil
	}
	if end <= charsConsumed {
		return bStart, offsets[end], nil
	}
	if start == charsConsumed && !isIndex {
		return bStart, len(s), nil
	}
	return 0, 0, &runtime.RuntimeError{Kind: runtime.ErrOutOfBounds, PrimaryOrigin: o, Index: end, Length: charsConsumed}
}

func numericToInt(v any) int {
	switch n := v.(type) {
	case int8:
		return int(n)
	case int16:
		return int(n)
	case int32:
		return int(n)
	case int64:
		return int(n)
	case int:
		return n
	case uint8:
		return int(n)
	case uint16:
		return int(n)
	case uint32:
		return int(n)
	case uint64:
		return int(n)
	case uint:
		return int(n)
	case float32:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}

func undefinedOp(o origin.Origin, kind runtime.OperatorKind, receiver *runtime.TypeMeta) *runtime.RuntimeError {
	return &runtime.RuntimeError{Kind: runtime.ErrUndefinedOperator, PrimaryOrigin: o, Operator: kind, Receiver: receiver}
}

func asRuntimeErr(err error) *runtime.RuntimeError {
	if err == nil {
		return nil
	}
	if re, ok := err.(*runtime.RuntimeError); ok {
		return re
	}
	return &runtime.RuntimeError{Kind: runtime.ErrUpcastResult, Cause: err}
}
