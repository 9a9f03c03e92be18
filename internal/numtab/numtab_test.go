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
package numtab

import "testing"

func Test_Convert_WideningIntToInt(t *testing.T) {
	v, fail := Convert(I8, I64, int8(-5))
	if fail != FailNone {
		t.Fatalf("unexpected failure: %v", fail)
	}
	if v.(int64) != -5 {
		t.Fatalf("expected -5, got %v", v)
	}
}

func Test_Convert_NarrowingOverflow(t *testing.T) {
	_, fail := Convert(I32, I8, int32(200))
	if fail != FailOverflow {
		t.Fatalf("expected overflow, got %v", fail)
	}
}

func Test_Convert_NarrowingUnderflow(t *testing.T) {
	_, fail := Convert(I32, U8, int32(-1))
	if fail != FailUnderflow {
		t.Fatalf("expected underflow, got %v", fail)
	}
}

func Test_Convert_FloatToIntTruncates(t *testing.T) {
	v, fail := Convert(F64, I32, float64(3.9))
	if fail != FailNone {
		t.Fatalf("unexpected failure: %v", fail)
	}
	if v.(int32) != 3 {
		t.Fatalf("expected 3, got %v", v)
	}
}

func Test_Convert_FloatNaNRejected(t *testing.T) {
	nan := float64(0)
	nan = nan / nan
	_, fail := Convert(F64, I32, nan)
	if fail != FailNaN {
		t.Fatalf("expected NaN failure, got %v", fail)
	}
}

func Test_Convert_FloatInfRejected(t *testing.T) {
	inf := float64(1)
	zero := float64(0)
	_, fail := Convert(F64, I32, inf/zero)
	if fail != FailInfinite {
		t.Fatalf("expected infinite failure, got %v", fail)
	}
}

func Test_Convert_IntToFloatAlwaysSucceeds(t *testing.T) {
	v, fail := Convert(I64, F32, int64(1<<40))
	if fail != FailNone {
		t.Fatalf("unexpected failure: %v", fail)
	}
	if _, ok := v.(float32); !ok {
		t.Fatalf("expected float32, got %T", v)
	}
}

func Test_Convert_UnsignedToSignedOverflow(t *testing.T) {
	_, fail := Convert(U64, I64, uint64(1)<<63)
	if fail != FailOverflow {
		t.Fatalf("expected overflow, got %v", fail)
	}
}

func Test_KindOf_RoundTrip(t *testing.T) {
	k, ok := KindOf(int16(4))
	if !ok || k != I16 {
		t.Fatalf("expected I16, got %v ok=%v", k, ok)
	}
}

func Test_Canonical_FloatDominatesSigned(t *testing.T) {
	if got := Canonical([]Kind{I32, F32}); got != F32 {
		t.Fatalf("expected f32, got %v", got)
	}
}

func Test_Canonical_SignedDominatesUnsigned(t *testing.T) {
	if got := Canonical([]Kind{U8, I8}); got != I8 {
		t.Fatalf("expected i8, got %v", got)
	}
}

func Test_Canonical_WidestBitDepthWins(t *testing.T) {
	if got := Canonical([]Kind{U8, U64}); got != U64 {
		t.Fatalf("expected u64, got %v", got)
	}
}

func Test_Canonical_MixedFloatDepth(t *testing.T) {
	if got := Canonical([]Kind{F32, I64}); got != F64 {
		t.Fatalf("expected f64 since i64 exceeds f32's exact range, got %v", got)
	}
}
