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

import "github.com/adastra-run/adastra/pkg/origin"

// stringOps installs Concat, PartialEq and Ord on StringType, the same
// receiverless-value pattern numericArith/numericConcat use for the
// primitive numeric TypeMetas.
type stringOps struct{}

func init() {
	StringType.Prototype().
		WithConcat(stringOps{}).
		WithPartialEq(stringOps{}).
		WithOrd(stringOps{})
}

// ScriptConcat joins every operand's UTF-8 bytes into one owned string Cell
// (§4.H Concat{count}: "pop count items, delegate to the receiver's Concat
// operator"). A nil operand contributes nothing, matching array Concat's
// "discarding nils" rule.
func (stringOps) ScriptConcat(o origin.Origin, args []Arg) (Cell, error) {
	var joined []byte
	for _, a := range args {
		if a.Cell.IsNil() {
			continue
		}
		s, rerr := a.Cell.BorrowStr(a.Origin)
		if rerr != nil {
			return Cell{}, rerr
		}
		joined = append(joined, s...)
	}
	if joined == nil {
		return Nil(), nil
	}
	return GiveVec(o, StringType, joined), nil
}

func (stringOps) ScriptPartialEq(o origin.Origin, lhs, rhs Arg) (bool, error) {
	a, rerr := lhs.Cell.BorrowStr(lhs.Origin)
	if rerr != nil {
		return false, rerr
	}
	b, rerr := rhs.Cell.BorrowStr(rhs.Origin)
	if rerr != nil {
		return false, rerr
	}
	return a == b, nil
}

func (stringOps) ScriptOrd(o origin.Origin, lhs, rhs Arg) (Ordering, error) {
	a, rerr := lhs.Cell.BorrowStr(lhs.Origin)
	if rerr != nil {
		return Equal, rerr
	}
	b, rerr := rhs.Cell.BorrowStr(rhs.Origin)
	if rerr != nil {
		return Equal, rerr
	}
	switch {
	case a < b:
		return Less, nil
	case a > b:
		return Greater, nil
	default:
		return Equal, nil
	}
}
