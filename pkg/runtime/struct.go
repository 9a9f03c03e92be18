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

// StructValue is the backing data of a Cell typed StructType: the dynamic,
// named-field struct value the PushStruct instruction produces (§4.F
// "pushes an empty dynamic struct value"). Fields are addressed by name
// through the StructType Prototype's ScriptField implementation; a field is
// created the first time it is assigned and read back thereafter.
type StructValue struct {
	fields map[string]Cell
}

// GiveStruct constructs a fresh, empty owned struct Cell.
func GiveStruct(o origin.Origin) Cell {
	return Give(o, StructType, StructValue{fields: map[string]Cell{}})
}

type structField struct{}

func (structField) ScriptField(o origin.Origin, receiver Arg, name string) (Cell, error) {
	v, err := BorrowRef[StructValue](receiver.Cell, o)
	if err != nil {
		return Cell{}, err
	}
	defer v.Release()
	sv := v.Value()
	cell, ok := sv.fields[name]
	if !ok {
		return Cell{}, &RuntimeError{Kind: ErrUnknownField, PrimaryOrigin: o, Receiver: StructType, FieldName: name}
	}
	return cell, nil
}

// SetStructField writes a named field on a struct Cell, creating the field
// if this is its first assignment.
func SetStructField(structCell Cell, accessOrigin origin.Origin, name string, value Cell) *RuntimeError {
	v, err := BorrowMut[StructValue](structCell, accessOrigin)
	if err != nil {
		return err
	}
	defer v.Release()
	sv := v.Get()
	sv.fields[name] = value
	v.Set(sv)
	return nil
}

func init() {
	StructType.Prototype().WithField(structField{})
}
