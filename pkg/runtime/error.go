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
	"fmt"

	"github.com/adastra-run/adastra/pkg/origin"
)

// ErrorKind identifies which RuntimeError variant occurred (§7 ERROR
// HANDLING DESIGN).
type ErrorKind uint8

// The full RuntimeError taxonomy.
const (
	ErrNil ErrorKind = iota
	ErrNonSingleton
	ErrShortSlice
	ErrOutOfBounds
	ErrReadOnly
	ErrWriteOnly
	ErrReadToWrite
	ErrWriteToRead
	ErrWriteToWrite
	ErrUtf8Decoding
	ErrBorrowLimit
	ErrTypeMismatch
	ErrDowncastStatic
	ErrUpcastResult
	ErrNumberCast
	ErrNumericOperation
	ErrRangeCast
	ErrMalformedRange
	ErrPrimitiveParse
	ErrArityMismatch
	ErrUndefinedOperator
	ErrUnknownField
	ErrFormatError
	ErrUnknownPackage
	ErrInterrupted
	ErrStackOverflow
)

var errorKindNames = map[ErrorKind]string{
	ErrNil:               "Nil",
	ErrNonSingleton:       "NonSingleton",
	ErrShortSlice:         "ShortSlice",
	ErrOutOfBounds:        "OutOfBounds",
	ErrReadOnly:           "ReadOnly",
	ErrWriteOnly:          "WriteOnly",
	ErrReadToWrite:        "ReadToWrite",
	ErrWriteToRead:        "WriteToRead",
	ErrWriteToWrite:       "WriteToWrite",
	ErrUtf8Decoding:       "Utf8Decoding",
	ErrBorrowLimit:        "BorrowLimit",
	ErrTypeMismatch:       "TypeMismatch",
	ErrDowncastStatic:     "DowncastStatic",
	ErrUpcastResult:       "UpcastResult",
	ErrNumberCast:         "NumberCast",
	ErrNumericOperation:   "NumericOperation",
	ErrRangeCast:          "RangeCast",
	ErrMalformedRange:     "MalformedRange",
	ErrPrimitiveParse:     "PrimitiveParse",
	ErrArityMismatch:      "ArityMismatch",
	ErrUndefinedOperator:  "UndefinedOperator",
	ErrUnknownField:       "UnknownField",
	ErrFormatError:        "FormatError",
	ErrUnknownPackage:     "UnknownPackage",
	ErrInterrupted:        "Interrupted",
	ErrStackOverflow:      "StackOverflow",
}

func (k ErrorKind) String() string {
	if s, ok := errorKindNames[k]; ok {
		return s
	}
	return "Unknown"
}

// NumberCastCause identifies why a numeric Downcast conversion failed.
type NumberCastCause uint8

// The numeric cast failure causes (§4.D).
const (
	CauseInfinite NumberCastCause = iota
	CauseNaN
	CauseOverflow
	CauseUnderflow
)

func (c NumberCastCause) String() string {
	switch c {
	case CauseInfinite:
		return "Infinite"
	case CauseNaN:
		return "NaN"
	case CauseOverflow:
		return "Overflow"
	case CauseUnderflow:
		return "Underflow"
	default:
		return "Unknown"
	}
}

// RuntimeError is the engine's single failure type: every operator and every
// Cell operation returns one of these rather than panicking (§7
// "Propagation policy"). Every variant carries at least a PrimaryOrigin,
// optionally a SecondaryOrigin (the related site: a previous borrow, a
// function's declaration, …), and kind-specific payload fields.
type RuntimeError struct {
	Kind ErrorKind

	PrimaryOrigin   origin.Origin
	SecondaryOrigin origin.Origin

	// Value-shape / borrow payloads.
	Actual  int
	Minimum int
	Index   int
	Length  int

	// Utf8Decoding payload.
	Utf8Cause error

	// BorrowLimit payload.
	Limit int

	// TypeMismatch payload.
	DataType      *TypeMeta
	ExpectedTypes []*TypeMeta

	// UpcastResult payload.
	Cause error

	// NumberCast payload.
	From          *TypeMeta
	To            *TypeMeta
	CastCause     NumberCastCause
	SourceValue   fmt.Stringer

	// NumericOperation payload.
	OperationKind NumericOperationKind

	// RangeCast / MalformedRange payload.
	RangeFromStart int
	RangeFromEnd   int
	RangeToName    string
	StartBound     int
	EndBound       int

	// PrimitiveParse payload.
	ParseFrom string
	ParseTo   *TypeMeta

	// ArityMismatch payload.
	Parameters int
	Arguments  int

	// UndefinedOperator / UnknownField payload.
	Operator   OperatorKind
	Receiver   *TypeMeta
	FieldName  string
	Suggestion string

	// Package lookup payload.
	PackageName string
}

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	return e.PrimaryDescription()
}

// PrimaryDescription is a short human-readable statement of what happened,
// anchored at PrimaryOrigin.
func (e *RuntimeError) PrimaryDescription() string {
	switch e.Kind {
	case ErrNil:
		return "operation requires data, but found nil"
	case ErrNonSingleton:
		return fmt.Sprintf("expected a single value, found an array of length %d", e.Actual)
	case ErrShortSlice:
		return fmt.Sprintf("expected at least %d elements, found %d", e.Minimum, e.Actual)
	case ErrOutOfBounds:
		return fmt.Sprintf("index %d is out of bounds for length %d", e.Index, e.Length)
	case ErrReadOnly:
		return "cannot mutate a read-only value"
	case ErrWriteOnly:
		return "cannot read a write-only value"
	case ErrReadToWrite:
		return "cannot mutate a value that is currently borrowed for reading"
	case ErrWriteToRead:
		return "cannot read a value that is currently borrowed for writing"
	case ErrWriteToWrite:
		return "cannot mutate a value that is already borrowed for writing"
	case ErrUtf8Decoding:
		return fmt.Sprintf("invalid UTF-8: %v", e.Utf8Cause)
	case ErrBorrowLimit:
		return fmt.Sprintf("too many simultaneous borrows (limit %d)", e.Limit)
	case ErrTypeMismatch:
		return fmt.Sprintf("expected one of %v, found %s", e.ExpectedTypes, typeName(e.DataType))
	case ErrDowncastStatic:
		return "cannot take ownership of borrowed data"
	case ErrUpcastResult:
		return fmt.Sprintf("native function failed: %v", e.Cause)
	case ErrNumberCast:
		return fmt.Sprintf("cannot convert %s (%v) to %s: %s", typeName(e.From), e.SourceValue, typeName(e.To), e.CastCause)
	case ErrNumericOperation:
		return fmt.Sprintf("numeric operation %s failed", e.OperationKind)
	case ErrRangeCast:
		return fmt.Sprintf("cannot cast range %d..%d to %s", e.RangeFromStart, e.RangeFromEnd, e.RangeToName)
	case ErrMalformedRange:
		return fmt.Sprintf("malformed range %d..%d", e.StartBound, e.EndBound)
	case ErrPrimitiveParse:
		return fmt.Sprintf("cannot parse %q as %s", e.ParseFrom, typeName(e.ParseTo))
	case ErrArityMismatch:
		return fmt.Sprintf("expected %d argument(s), found %d", e.Parameters, e.Arguments)
	case ErrUndefinedOperator:
		return fmt.Sprintf("%s does not implement %s", typeName(e.Receiver), e.Operator)
	case ErrUnknownField:
		if e.Suggestion != "" {
			return fmt.Sprintf("unknown field %q on %s (did you mean %q?)", e.FieldName, typeName(e.Receiver), e.Suggestion)
		}
		return fmt.Sprintf("unknown field %q on %s", e.FieldName, typeName(e.Receiver))
	case ErrFormatError:
		return "failed to format value"
	case ErrUnknownPackage:
		return fmt.Sprintf("unknown package %q", e.PackageName)
	case ErrInterrupted:
		return "script execution was interrupted"
	case ErrStackOverflow:
		return "stack overflow"
	default:
		return "runtime error"
	}
}

// SecondaryDescription is the label for the related site (e.g. "previously
// borrowed here"), empty when the error has no secondary origin.
func (e *RuntimeError) SecondaryDescription() string {
	switch e.Kind {
	case ErrReadOnly, ErrWriteOnly:
		return "created here"
	case ErrReadToWrite, ErrWriteToRead, ErrWriteToWrite:
		return "previously borrowed here"
	default:
		if e.SecondaryOrigin.IsNil() {
			return ""
		}
		return "related to"
	}
}

// Summary provides long-form remediation guidance.
func (e *RuntimeError) Summary() string {
	switch e.Kind {
	case ErrUndefinedOperator:
		return fmt.Sprintf(
			"the type %s has no implementation for the %s operator; supported operators: %v",
			typeName(e.Receiver), e.Operator, e.Receiver.Prototype().OperatorKinds())
	case ErrArityMismatch:
		return fmt.Sprintf("this function takes %d argument(s); %d were supplied", e.Parameters, e.Arguments)
	case ErrWriteToRead, ErrReadToWrite, ErrWriteToWrite:
		return "borrow discipline violation: at most one write borrow, or any number of read borrows, may be active at a time"
	default:
		return e.PrimaryDescription()
	}
}

func typeName(t *TypeMeta) string {
	if t == nil {
		return "<unknown>"
	}
	return t.Name()
}
