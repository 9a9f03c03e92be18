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

// RangeValue is the backing data of a Cell typed RangeType: a half-open
// usize span [Start, End), plus Cur tracking how far an Iterate instruction
// has advanced through it (§4.F Range, §4.H Iterate).
type RangeValue struct {
	Start int
	End   int
	Cur   int
}

// GiveRange constructs an owned Cell holding a fresh Range over [start, end),
// positioned at its own start (§4.H "Range (pops two usize, pushes a
// Range)").
func GiveRange(o origin.Origin, start, end int) Cell {
	return Give(o, RangeType, RangeValue{Start: start, End: end, Cur: start})
}

// AdvanceRange borrows rangeCell mutably and advances its cursor, reporting
// the next index and whether the range is now exhausted (§4.H Iterate).
func AdvanceRange(rangeCell Cell, accessOrigin origin.Origin) (next int, exhausted bool, rerr *RuntimeError) {
	b, err := BorrowMut[RangeValue](rangeCell, accessOrigin)
	if err != nil {
		return 0, false, err
	}
	defer b.Release()
	rv := b.Get()
	if rv.Cur >= rv.End {
		return 0, true, nil
	}
	next = rv.Cur
	rv.Cur++
	b.Set(rv)
	return next, false, nil
}
