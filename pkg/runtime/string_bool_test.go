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
	"testing"

	"github.com/adastra-run/adastra/internal/assert"
	"github.com/adastra-run/adastra/pkg/origin"
)

func Test_StringOps_Concat_JoinsBytes(t *testing.T) {
	lhs := GiveString(origin.Nil(), StringType, "foo")
	rhs := GiveString(origin.Nil(), StringType, "bar")
	result, err := (stringOps{}).ScriptConcat(origin.Nil(), []Arg{arg(lhs), arg(rhs)})
	assert.NoError(t, err)
	s, rerr := result.BorrowStr(origin.Nil())
	assert.NoError(t, errFromRuntime(rerr))
	assert.Equal(t, "foobar", s)
}

func Test_StringOps_Concat_AllNil_YieldsNil(t *testing.T) {
	result, err := (stringOps{}).ScriptConcat(origin.Nil(), []Arg{arg(Nil()), arg(Nil())})
	assert.NoError(t, err)
	assert.True(t, result.IsNil())
}

func Test_StringOps_PartialEq(t *testing.T) {
	a := GiveString(origin.Nil(), StringType, "same")
	b := GiveString(origin.Nil(), StringType, "same")
	eq, err := (stringOps{}).ScriptPartialEq(origin.Nil(), arg(a), arg(b))
	assert.NoError(t, err)
	assert.True(t, eq)
}

func Test_StringOps_Ord(t *testing.T) {
	a := GiveString(origin.Nil(), StringType, "apple")
	b := GiveString(origin.Nil(), StringType, "banana")
	ordering, err := (stringOps{}).ScriptOrd(origin.Nil(), arg(a), arg(b))
	assert.NoError(t, err)
	assert.Equal(t, Less, ordering)
}

func Test_BoolOps_And(t *testing.T) {
	result, err := (boolOps{}).ScriptAnd(origin.Nil(), arg(Give(origin.Nil(), BoolType, true)), arg(Give(origin.Nil(), BoolType, false)))
	assert.NoError(t, err)
	v, rerr := Take[bool](result, origin.Nil())
	assert.NoError(t, errFromRuntime(rerr))
	assert.False(t, v)
}

func Test_BoolOps_Not(t *testing.T) {
	result, err := (boolOps{}).ScriptNot(origin.Nil(), arg(Give(origin.Nil(), BoolType, false)))
	assert.NoError(t, err)
	v, rerr := Take[bool](result, origin.Nil())
	assert.NoError(t, errFromRuntime(rerr))
	assert.True(t, v)
}

func Test_BoolOps_PartialEq(t *testing.T) {
	eq, err := (boolOps{}).ScriptPartialEq(origin.Nil(), arg(Give(origin.Nil(), BoolType, true)), arg(Give(origin.Nil(), BoolType, true)))
	assert.NoError(t, err)
	assert.True(t, eq)
}
