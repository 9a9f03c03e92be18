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

// Arg is the uniform operand representation passed to every operator
// implementation: the Cell being operated on, paired with the Origin of the
// expression that produced it (§3 Arg).
type Arg struct {
	Origin origin.Origin
	Cell   Cell
}

// NewArg pairs a Cell with the Origin of the expression that produced it.
func NewArg(o origin.Origin, c Cell) Arg {
	return Arg{Origin: o, Cell: c}
}
