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

// Package runtime is the core value model and dispatch layer of the Ad Astra
// engine: the Cell/MemorySlice value container, the TypeMeta/Prototype/
// TypeFamily type-identity and operator-dispatch tables, and the
// RuntimeError failure taxonomy.  Everything in this package is mutually
// referential by design (an Arg carries a Cell, a Cell reports a TypeMeta, a
// TypeMeta owns a Prototype, a Prototype's slots accept Args) and is kept in
// one package: splitting it into per-concern packages would only introduce
// import cycles for no engineering benefit.
package runtime

import (
	"github.com/google/uuid"
)

// TypeID is the globally unique identity of a registered native type: a
// random UUID minted once at registration.  It is not derived from the Go
// reflect.Type, so registering the same Go type twice yields two distinct
// identities, and identities are not stable across process runs.
type TypeID struct {
	uuid uuid.UUID
}

// NewTypeID mints a fresh, process-wide unique type identity.
func NewTypeID() TypeID {
	return TypeID{uuid: uuid.New()}
}

// Equal reports whether two type identities refer to the same type.
func (id TypeID) Equal(other TypeID) bool {
	return id.uuid == other.uuid
}

func (id TypeID) String() string {
	return id.uuid.String()
}

// TypeMeta is the per-registered-type singleton.  TypeMeta values are
// created once at host initialization (via registration) and never freed;
// hosts create them with NewTypeMeta, and the built-in types are the
// package-level variables of builtins.go plus NilType and DynamicType.
type TypeMeta struct {
	id    TypeID
	name  string
	doc   string
	size  uintptr
	fam   *TypeFamily
	proto *Prototype
}

// NewTypeMeta constructs a TypeMeta for a newly registered type.  If fam is
// nil, a default singleton family containing only this type is created.
func NewTypeMeta(name string, doc string, size uintptr, fam *TypeFamily) *TypeMeta {
	meta := &TypeMeta{
		id:   NewTypeID(),
		name: name,
		doc:  doc,
		size: size,
	}
	meta.proto = newPrototype(meta.id)
	if fam == nil {
		fam = NewSingletonFamily(name)
	}
	meta.fam = fam
	fam.add(meta)
	return meta
}

// ID returns this type's globally unique identity.
func (t *TypeMeta) ID() TypeID { return t.id }

// Name returns this type's display name.
func (t *TypeMeta) Name() string { return t.name }

// Doc returns this type's documentation string, which may be empty.
func (t *TypeMeta) Doc() string { return t.doc }

// Size returns this type's size in bytes, as reported at registration.
func (t *TypeMeta) Size() uintptr { return t.size }

// Family returns the TypeFamily this type belongs to.
func (t *TypeMeta) Family() *TypeFamily { return t.fam }

// Prototype returns this type's operator and component table.
func (t *TypeMeta) Prototype() *Prototype { return t.proto }

func (t *TypeMeta) String() string { return t.name }

// nilTypeMeta and dynamicTypeMeta are the two built-in pseudo-types.  Both
// have fully defined TypeMeta but carry no operators beyond what their
// nature implies: nil has none at all, and dynamic carries whatever the
// concrete runtime value beneath it supports (resolved at dispatch time by
// the engine, not through this Prototype).
var nilTypeMeta = &TypeMeta{
	id:    NewTypeID(),
	name:  "nil",
	proto: newPrototype(TypeID{}),
}

var dynamicTypeMeta = &TypeMeta{
	id:    NewTypeID(),
	name:  "dynamic",
	proto: newPrototype(TypeID{}),
}

func init() {
	nilTypeMeta.proto.none = true
	nilTypeMeta.proto.receiver = nilTypeMeta.id
	dynamicTypeMeta.proto.receiver = dynamicTypeMeta.id
	nilTypeMeta.fam = NewSingletonFamily("nil")
	nilTypeMeta.fam.add(nilTypeMeta)
	dynamicTypeMeta.fam = NewSingletonFamily("dynamic")
	dynamicTypeMeta.fam.add(dynamicTypeMeta)
}

// NilType returns the TypeMeta singleton for the nil pseudo-type.
func NilType() *TypeMeta { return nilTypeMeta }

// DynamicType returns the TypeMeta singleton for the dynamic pseudo-type,
// used where the concrete type of a value is unknown until script analysis
// or execution resolves it.
func DynamicType() *TypeMeta { return dynamicTypeMeta }
