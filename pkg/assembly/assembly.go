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

// Package assembly is the compiled code object the engine executes (§3
// Assembly): a flat command vector plus the tables a running frame needs to
// interpret it — a string pool, a source map from command index back to
// Origin, a table of nested subroutines for inner fn literals, and the
// closure-cell slot table consulted when a PushClosure command runs.
package assembly

import (
	"github.com/adastra-run/adastra/pkg/origin"
	"github.com/adastra-run/adastra/pkg/runtime"
)

// OpCode identifies a Command's instruction shape (§4.H "instruction set").
type OpCode uint8

// The full instruction set.
const (
	OpPushNil OpCode = iota
	OpPushTrue
	OpPushFalse
	OpPushUsize
	OpPushIsize
	OpPushFloat
	OpPushString
	OpPushPackage
	OpPushClosure
	OpPushFn
	OpPushStruct
	OpIfTrue
	OpIfFalse
	OpJump
	OpIterate
	OpLift
	OpSwap
	OpDup
	OpShrink
	OpRange
	OpConcat
	OpBind
	OpField
	OpLen
	OpQuery
	OpOperator
	OpInvoke
	OpIndex
)

var opCodeNames = [...]string{
	"PushNil", "PushTrue", "PushFalse", "PushUsize", "PushIsize", "PushFloat",
	"PushString", "PushPackage", "PushClosure", "PushFn", "PushStruct",
	"IfTrue", "IfFalse", "Jump", "Iterate", "Lift", "Swap", "Dup", "Shrink",
	"Range", "Concat", "Bind", "Field", "Len", "Query", "Operator", "Invoke", "Index",
}

func (op OpCode) String() string {
	if int(op) < len(opCodeNames) {
		return opCodeNames[op]
	}
	return "Unknown"
}

// Command is a single bytecode instruction. Which of its payload fields are
// meaningful is determined entirely by Op; unused fields are simply zero.
type Command struct {
	Op     OpCode
	Origin origin.Origin

	// Jump/IfTrue/IfFalse/Iterate target, as a command index.
	Target int

	// Lift/Swap/Dup/Shrink stack-depth operand, Invoke/Concat arity/count
	// operand, and Bind's closure-slot index.
	Depth int

	// PushUsize/PushIsize payload.
	UintArg uint64
	IntArg  int64

	// PushFloat payload.
	FloatArg float64

	// PushString/Field payload: index into the owning Assembly's string pool.
	StringIdx uint32

	// PushPackage payload: host package name, resolved by the registry at
	// link time rather than interned (packages are process-wide singletons).
	PackageName string

	// PushClosure/PushFn payload: index into the owning Assembly's
	// subroutine table.
	SubIdx uint32

	// Operator payload.
	Operator OpVariant
}

// OpVariant enumerates the sub-operators an OpOperator command can name
// (§4.F "Op(Clone|Neg|Not|Assign|AddAssign|…|Equal|NotEqual|Greater|…)").
// Most variants correspond 1:1 to a runtime.OperatorKind Prototype slot;
// the six comparison variants do not (they map to PartialEq/PartialOrd/Ord
// with engine-side logic for negation and ordering direction).
type OpVariant uint8

const (
	VarClone OpVariant = iota
	VarNeg
	VarNot
	VarAssign
	VarAddAssign
	VarSubAssign
	VarMulAssign
	VarDivAssign
	VarBitAndAssign
	VarBitOrAssign
	VarBitXorAssign
	VarShlAssign
	VarShrAssign
	VarRemAssign
	VarEqual
	VarNotEqual
	VarGreater
	VarGreaterOrEqual
	VarLesser
	VarLesserOrEqual
	VarAnd
	VarOr
	VarAdd
	VarSub
	VarMul
	VarDiv
	VarBitAnd
	VarBitOr
	VarBitXor
	VarShl
	VarShr
	VarRem
)

var opVariantNames = [...]string{
	"Clone", "Neg", "Not", "Assign", "AddAssign", "SubAssign", "MulAssign",
	"DivAssign", "BitAndAssign", "BitOrAssign", "BitXorAssign", "ShlAssign",
	"ShrAssign", "RemAssign", "Equal", "NotEqual", "Greater", "GreaterOrEqual",
	"Lesser", "LesserOrEqual", "And", "Or", "Add", "Sub", "Mul", "Div",
	"BitAnd", "BitOr", "BitXor", "Shl", "Shr", "Rem",
}

func (v OpVariant) String() string {
	if int(v) < len(opVariantNames) {
		return opVariantNames[v]
	}
	return "Unknown"
}

// Kind returns the runtime.OperatorKind this variant dispatches through,
// for the variants with a direct 1:1 correspondence. The six comparison
// variants (VarEqual, VarNotEqual, VarGreater, VarGreaterOrEqual, VarLesser,
// VarLesserOrEqual) have no direct counterpart and return ok=false; the
// engine handles them via PartialEq/PartialOrd/Ord directly.
func (v OpVariant) Kind() (runtime.OperatorKind, bool) {
	switch v {
	case VarClone:
		return runtime.Clone, true
	case VarNeg:
		return runtime.Neg, true
	case VarNot:
		return runtime.Not, true
	case VarAssign:
		return runtime.Assign, true
	case VarAddAssign:
		return runtime.AddAssign, true
	case VarSubAssign:
		return runtime.SubAssign, true
	case VarMulAssign:
		return runtime.MulAssign, true
	case VarDivAssign:
		return runtime.DivAssign, true
	case VarBitAndAssign:
		return runtime.BitAndAssign, true
	case VarBitOrAssign:
		return runtime.BitOrAssign, true
	case VarBitXorAssign:
		return runtime.BitXorAssign, true
	case VarShlAssign:
		return runtime.ShlAssign, true
	case VarShrAssign:
		return runtime.ShrAssign, true
	case VarRemAssign:
		return runtime.RemAssign, true
	case VarAnd:
		return runtime.And, true
	case VarOr:
		return runtime.Or, true
	case VarAdd:
		return runtime.Add, true
	case VarSub:
		return runtime.Sub, true
	case VarMul:
		return runtime.Mul, true
	case VarDiv:
		return runtime.Div, true
	case VarBitAnd:
		return runtime.BitAnd, true
	case VarBitOr:
		return runtime.BitOr, true
	case VarBitXor:
		return runtime.BitXor, true
	case VarShl:
		return runtime.Shl, true
	case VarShr:
		return runtime.Shr, true
	case VarRem:
		return runtime.Rem, true
	default:
		return runtime.None, false
	}
}

// Assembly is the compiled body of one script function: its declaration
// Origin, required argument count, peak frame depth, and the command vector
// plus supporting tables (§3 Assembly).
type Assembly struct {
	declOrigin  origin.Origin
	arity       int
	frameDepth  int
	commands    []Command
	strings     []string
	subroutines []*Assembly
	closures    []int
}

// New constructs an Assembly from already-built tables; Builder is the
// normal way to produce these arguments incrementally.
func New(declOrigin origin.Origin, arity, frameDepth int, commands []Command, strings []string, subroutines []*Assembly, closures []int) *Assembly {
	return &Assembly{
		declOrigin:  declOrigin,
		arity:       arity,
		frameDepth:  frameDepth,
		commands:    commands,
		strings:     strings,
		subroutines: subroutines,
		closures:    closures,
	}
}

// DeclOrigin returns the Origin of this function's declaration.
func (a *Assembly) DeclOrigin() origin.Origin { return a.declOrigin }

// Arity returns the number of parameters this function requires.
func (a *Assembly) Arity() int { return a.arity }

// FrameDepth returns the maximum stack depth a single invocation of this
// Assembly requires, used to size a Frame's local storage up front.
func (a *Assembly) FrameDepth() int { return a.frameDepth }

// CommandAt returns the ith command of this Assembly's body.
func (a *Assembly) CommandAt(i int) Command { return a.commands[i] }

// Len returns the number of commands in this Assembly's body.
func (a *Assembly) Len() int { return len(a.commands) }

// String resolves a string-pool index.
func (a *Assembly) String(idx uint32) string { return a.strings[idx] }

// Subroutine resolves a subroutine-table index to a nested Assembly, for
// one of this function's inner fn literals.
func (a *Assembly) Subroutine(idx uint32) *Assembly { return a.subroutines[idx] }

// NumSubroutines returns the number of nested Assemblies in this Assembly's
// subroutine table.
func (a *Assembly) NumSubroutines() int { return len(a.subroutines) }

// ClosureSlot resolves a closure-cell slot index to the frame-local slot
// recorded for it by Builder.AddClosureSlot. The engine does not read it
// when a PushClosure command constructs a ScriptFn.
func (a *Assembly) ClosureSlot(idx uint32) int { return a.closures[idx] }

// NumClosureSlots returns the number of closure-cell slots this Assembly
// declares, i.e. the number of captures a PushClosure command allocates,
// empty, for a ScriptFn built from this Assembly; Bind commands fill them.
func (a *Assembly) NumClosureSlots() int { return len(a.closures) }
