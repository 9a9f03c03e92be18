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
	"io"

	"github.com/adastra-run/adastra/pkg/origin"
)

// OperatorKind identifies one slot of a Prototype's direct-dispatch table.
type OperatorKind uint8

// The full operator taxonomy, §3 Prototype.  None is a marker, not a
// dispatchable operator: a prototype with None set declares its receiver
// type a "None"-variant (absence/void), which the Query instruction consults.
const (
	None OperatorKind = iota
	Assign
	Concat
	Field
	Clone
	Debug
	Display
	PartialEq
	Default
	PartialOrd
	Ord
	Hash
	Invocation
	Binding
	Add
	AddAssign
	Sub
	SubAssign
	Mul
	MulAssign
	Div
	DivAssign
	And
	Or
	Not
	Neg
	BitAnd
	BitAndAssign
	BitOr
	BitOrAssign
	BitXor
	BitXorAssign
	Shl
	ShlAssign
	Shr
	ShrAssign
	Rem
	RemAssign

	numOperatorKinds
)

var operatorNames = [...]string{
	None: "None", Assign: "Assign", Concat: "Concat", Field: "Field", Clone: "Clone",
	Debug: "Debug", Display: "Display", PartialEq: "PartialEq", Default: "Default",
	PartialOrd: "PartialOrd", Ord: "Ord", Hash: "Hash", Invocation: "Invocation",
	Binding: "Binding", Add: "Add", AddAssign: "AddAssign", Sub: "Sub", SubAssign: "SubAssign",
	Mul: "Mul", MulAssign: "MulAssign", Div: "Div", DivAssign: "DivAssign", And: "And", Or: "Or",
	Not: "Not", Neg: "Neg", BitAnd: "BitAnd", BitAndAssign: "BitAndAssign", BitOr: "BitOr",
	BitOrAssign: "BitOrAssign", BitXor: "BitXor", BitXorAssign: "BitXorAssign", Shl: "Shl",
	ShlAssign: "ShlAssign", Shr: "Shr", ShrAssign: "ShrAssign", Rem: "Rem", RemAssign: "RemAssign",
}

func (k OperatorKind) String() string {
	if int(k) < len(operatorNames) {
		return operatorNames[k]
	}
	return "Unknown"
}

// Ordering is the result of a three-way comparison.
type Ordering int8

// The three possible outcomes of a comparison.
const (
	Less    Ordering = -1
	Equal   Ordering = 0
	Greater Ordering = 1
)

// The operator protocol: the fixed signature contract a registered type
// implements any subset of.  Each is a single-method interface so that a
// Prototype slot is, in effect, a function pointer (§9 DESIGN NOTES: "a
// plain record of function pointers"); an implementation is free to
// implement as many of these as are meaningful for its receiver type.
//
// Every method receives the invocation Origin, the receiver Arg, and (for
// binary/variadic operators) the remaining Args; it returns either a Cell,
// a bool, an Ordering, or nothing, plus an error.  Implementations are
// responsible for downcasting their own arguments (§4.D) and may return any
// RuntimeError variant.
type (
	// ScriptAssign implements the Assign operator: overwrite the receiver's
	// contents with rhs.
	ScriptAssign interface {
		ScriptAssign(o origin.Origin, receiver, rhs Arg) error
	}
	// ScriptConcat implements the Concat operator, invoked with every
	// non-nil operand of a `Concat{count}` instruction.
	ScriptConcat interface {
		ScriptConcat(o origin.Origin, args []Arg) (Cell, error)
	}
	// ScriptField implements the Field operator (dynamic field lookup not
	// already satisfied by a statically exported Component).
	ScriptField interface {
		ScriptField(o origin.Origin, receiver Arg, name string) (Cell, error)
	}
	// ScriptClone implements the Clone operator.
	ScriptClone interface {
		ScriptClone(o origin.Origin, receiver Arg) (Cell, error)
	}
	// ScriptDebug implements the Debug operator (diagnostic rendering).
	ScriptDebug interface {
		ScriptDebug(o origin.Origin, receiver Arg, w io.Writer) error
	}
	// ScriptDisplay implements the Display operator (user-facing rendering).
	ScriptDisplay interface {
		ScriptDisplay(o origin.Origin, receiver Arg, w io.Writer) error
	}
	// ScriptPartialEq implements the PartialEq operator.
	ScriptPartialEq interface {
		ScriptPartialEq(o origin.Origin, lhs, rhs Arg) (bool, error)
	}
	// ScriptDefault implements the Default operator, producing a value with
	// no receiver argument.
	ScriptDefault interface {
		ScriptDefault(o origin.Origin) (Cell, error)
	}
	// ScriptPartialOrd implements the PartialOrd operator.  The bool result
	// reports whether lhs and rhs are comparable at all; false means "no
	// ordering", which the engine treats as an error when used by a
	// comparison instruction (§4.H).
	ScriptPartialOrd interface {
		ScriptPartialOrd(o origin.Origin, lhs, rhs Arg) (Ordering, bool, error)
	}
	// ScriptOrd implements the Ord operator: a total order, always
	// comparable.
	ScriptOrd interface {
		ScriptOrd(o origin.Origin, lhs, rhs Arg) (Ordering, error)
	}
	// ScriptHash implements the Hash operator.
	ScriptHash interface {
		ScriptHash(o origin.Origin, receiver Arg, h io.Writer) error
	}
	// ScriptInvocation implements the Invocation operator: calling the
	// receiver as if it were a function.
	ScriptInvocation interface {
		ScriptInvocation(o origin.Origin, receiver Arg, args []Arg) (Cell, error)
	}
	// ScriptBinding implements the Binding operator, used to bind a method
	// component to its receiver, producing a callable Cell.
	ScriptBinding interface {
		ScriptBinding(o origin.Origin, receiver Arg) (Cell, error)
	}
	// ScriptAdd implements the Add operator.
	ScriptAdd interface {
		ScriptAdd(o origin.Origin, lhs, rhs Arg) (Cell, error)
	}
	// ScriptAddAssign implements the AddAssign operator.
	ScriptAddAssign interface {
		ScriptAddAssign(o origin.Origin, lhs, rhs Arg) error
	}
	// ScriptSub implements the Sub operator.
	ScriptSub interface {
		ScriptSub(o origin.Origin, lhs, rhs Arg) (Cell, error)
	}
	// ScriptSubAssign implements the SubAssign operator.
	ScriptSubAssign interface {
		ScriptSubAssign(o origin.Origin, lhs, rhs Arg) error
	}
	// ScriptMul implements the Mul operator.
	ScriptMul interface {
		ScriptMul(o origin.Origin, lhs, rhs Arg) (Cell, error)
	}
	// ScriptMulAssign implements the MulAssign operator.
	ScriptMulAssign interface {
		ScriptMulAssign(o origin.Origin, lhs, rhs Arg) error
	}
	// ScriptDiv implements the Div operator.
	ScriptDiv interface {
		ScriptDiv(o origin.Origin, lhs, rhs Arg) (Cell, error)
	}
	// ScriptDivAssign implements the DivAssign operator.
	ScriptDivAssign interface {
		ScriptDivAssign(o origin.Origin, lhs, rhs Arg) error
	}
	// ScriptAnd implements the And operator.
	ScriptAnd interface {
		ScriptAnd(o origin.Origin, lhs, rhs Arg) (Cell, error)
	}
	// ScriptOr implements the Or operator.
	ScriptOr interface {
		ScriptOr(o origin.Origin, lhs, rhs Arg) (Cell, error)
	}
	// ScriptNot implements the Not operator.
	ScriptNot interface {
		ScriptNot(o origin.Origin, receiver Arg) (Cell, error)
	}
	// ScriptNeg implements the Neg operator.
	ScriptNeg interface {
		ScriptNeg(o origin.Origin, receiver Arg) (Cell, error)
	}
	// ScriptBitAnd implements the BitAnd operator.
	ScriptBitAnd interface {
		ScriptBitAnd(o origin.Origin, lhs, rhs Arg) (Cell, error)
	}
	// ScriptBitAndAssign implements the BitAndAssign operator.
	ScriptBitAndAssign interface {
		ScriptBitAndAssign(o origin.Origin, lhs, rhs Arg) error
	}
	// ScriptBitOr implements the BitOr operator.
	ScriptBitOr interface {
		ScriptBitOr(o origin.Origin, lhs, rhs Arg) (Cell, error)
	}
	// ScriptBitOrAssign implements the BitOrAssign operator.
	ScriptBitOrAssign interface {
		ScriptBitOrAssign(o origin.Origin, lhs, rhs Arg) error
	}
	// ScriptBitXor implements the BitXor operator.
	ScriptBitXor interface {
		ScriptBitXor(o origin.Origin, lhs, rhs Arg) (Cell, error)
	}
	// ScriptBitXorAssign implements the BitXorAssign operator.
	ScriptBitXorAssign interface {
		ScriptBitXorAssign(o origin.Origin, lhs, rhs Arg) error
	}
	// ScriptShl implements the Shl operator.
	ScriptShl interface {
		ScriptShl(o origin.Origin, lhs, rhs Arg) (Cell, error)
	}
	// ScriptShlAssign implements the ShlAssign operator.
	ScriptShlAssign interface {
		ScriptShlAssign(o origin.Origin, lhs, rhs Arg) error
	}
	// ScriptShr implements the Shr operator.
	ScriptShr interface {
		ScriptShr(o origin.Origin, lhs, rhs Arg) (Cell, error)
	}
	// ScriptShrAssign implements the ShrAssign operator.
	ScriptShrAssign interface {
		ScriptShrAssign(o origin.Origin, lhs, rhs Arg) error
	}
	// ScriptRem implements the Rem operator.
	ScriptRem interface {
		ScriptRem(o origin.Origin, lhs, rhs Arg) (Cell, error)
	}
	// ScriptRemAssign implements the RemAssign operator.
	ScriptRemAssign interface {
		ScriptRemAssign(o origin.Origin, lhs, rhs Arg) error
	}
)

// NumericOperationKind identifies which checked-arithmetic operator failed
// in a RuntimeError.NumericOperation (§7).
type NumericOperationKind uint8

// The numeric operations which can fail with NumericOperation.
const (
	NumAdd NumericOperationKind = iota
	NumSub
	NumMul
	NumDiv
	NumNeg
	NumShl
	NumShr
	NumRem
)

func (k NumericOperationKind) String() string {
	switch k {
	case NumAdd:
		return "Add"
	case NumSub:
		return "Sub"
	case NumMul:
		return "Mul"
	case NumDiv:
		return "Div"
	case NumNeg:
		return "Neg"
	case NumShl:
		return "Shl"
	case NumShr:
		return "Shr"
	case NumRem:
		return "Rem"
	default:
		return "Unknown"
	}
}
