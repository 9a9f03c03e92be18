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

// boolOps installs And, Or, Not and PartialEq on BoolType.
type boolOps struct{}

func init() {
	BoolType.Prototype().
		WithAnd(boolOps{}).
		WithOr(boolOps{}).
		WithNot(boolOps{}).
		WithPartialEq(boolOps{})
}

func (boolOps) ScriptAnd(o origin.Origin, lhs, rhs Arg) (Cell, error) {
	a, rerr := Take[bool](lhs.Cell, lhs.Origin)
	if rerr != nil {
		return Cell{}, rerr
	}
	b, rerr := Take[bool](rhs.Cell, rhs.Origin)
	if rerr != nil {
		return Cell{}, rerr
	}
	return Give(o, BoolType, a && b), nil
}

func (boolOps) ScriptOr(o origin.Origin, lhs, rhs Arg) (Cell, error) {
	a, rerr := Take[bool](lhs.Cell, lhs.Origin)
	if rerr != nil {
		return Cell{}, rerr
	}
	b, rerr := Take[bool](rhs.Cell, rhs.Origin)
	if rerr != nil {
		return Cell{}, rerr
	}
	return Give(o, BoolType, a || b), nil
}

func (boolOps) ScriptNot(o origin.Origin, receiver Arg) (Cell, error) {
	v, rerr := Take[bool](receiver.Cell, receiver.Origin)
	if rerr != nil {
		return Cell{}, rerr
	}
	return Give(o, BoolType, !v), nil
}

func (boolOps) ScriptPartialEq(o origin.Origin, lhs, rhs Arg) (bool, error) {
	a, rerr := Take[bool](lhs.Cell, lhs.Origin)
	if rerr != nil {
		return false, rerr
	}
	b, rerr := Take[bool](rhs.Cell, rhs.Origin)
	if rerr != nil {
		return false, rerr
	}
	return a == b, nil
}
