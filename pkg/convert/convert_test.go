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
package convert

import (
	"errors"
	"testing"

	"github.com/adastra-run/adastra/pkg/origin"
	"github.com/adastra-run/adastra/pkg/runtime"
)

func Test_Downcast_ExactMatch(t *testing.T) {
	o := origin.Nil()
	c := Upcast(o, runtime.Int32Type, int32(42))
	v, err := Downcast[int32](NewProvider(c, o))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 42 {
		t.Fatalf("expected 42, got %d", v)
	}
}

func Test_Downcast_NumericCrossCast(t *testing.T) {
	o := origin.Nil()
	c := Upcast(o, runtime.Int8Type, int8(7))
	v, err := Downcast[int64](NewProvider(c, o))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 7 {
		t.Fatalf("expected 7, got %d", v)
	}
}

func Test_Downcast_NumericCrossCastOverflowReportsNumberCast(t *testing.T) {
	o := origin.Nil()
	c := Upcast(o, runtime.Int32Type, int32(1000))
	_, err := Downcast[int8](NewProvider(c, o))
	if err == nil || err.Kind != runtime.ErrNumberCast {
		t.Fatalf("expected NumberCast error, got %v", err)
	}
	if err.CastCause != runtime.CauseOverflow {
		t.Fatalf("expected Overflow cause, got %v", err.CastCause)
	}
}

func Test_Downcast_NonNumericMismatchStaysTypeMismatch(t *testing.T) {
	o := origin.Nil()
	c := runtime.GiveString(o, runtime.StringType, "hello")
	_, err := Downcast[int32](NewProvider(c, o))
	if err == nil || err.Kind != runtime.ErrTypeMismatch {
		t.Fatalf("expected TypeMismatch error, got %v", err)
	}
}

func Test_DowncastRef_RejectsCrossCast(t *testing.T) {
	o := origin.Nil()
	c := Upcast(o, runtime.Int8Type, int8(7))
	_, err := DowncastRef[int64](NewProvider(c, o))
	if err == nil || err.Kind != runtime.ErrTypeMismatch {
		t.Fatalf("expected TypeMismatch, got %v", err)
	}
}

func Test_UpcastResult_PropagatesError(t *testing.T) {
	o := origin.Nil()
	wantErr := errors.New("boom")
	_, err := UpcastResult(o, runtime.Int32Type, int32(0), wantErr)
	if err == nil || err.Kind != runtime.ErrUpcastResult {
		t.Fatalf("expected UpcastResult error, got %v", err)
	}
	if err.Cause != wantErr {
		t.Fatalf("expected cause to be preserved, got %v", err.Cause)
	}
}

func Test_UpcastResult_Success(t *testing.T) {
	o := origin.Nil()
	c, err := UpcastResult(o, runtime.Int32Type, int32(9), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, derr := Downcast[int32](NewProvider(c, o))
	if derr != nil || v != 9 {
		t.Fatalf("expected 9, got %d (err %v)", v, derr)
	}
}

func Test_UpcastEither_SelectsLeft(t *testing.T) {
	o := origin.Nil()
	e := Either[int32, string]{Left: 3, HasLeft: true}
	c := UpcastEither(o, runtime.Int32Type, runtime.StringType, e)
	v, err := Downcast[int32](NewProvider(c, o))
	if err != nil || v != 3 {
		t.Fatalf("expected 3, got %d (err %v)", v, err)
	}
}

func Test_UpcastEither_SelectsRight(t *testing.T) {
	o := origin.Nil()
	e := Either[int32, string]{Right: "hi"}
	c := UpcastEither(o, runtime.Int32Type, runtime.StringType, e)
	s, err := Downcast[string](NewProvider(c, o))
	if err != nil || s != "hi" {
		t.Fatalf("expected hi, got %q (err %v)", s, err)
	}
}
