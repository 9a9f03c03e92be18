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
	"sort"

	"github.com/adastra-run/adastra/pkg/origin"
	"github.com/bits-and-blooms/bitset"
)

// Component is a statically exported named member of a type: a field,
// method, or constant discovered through the type's Prototype (§3
// Prototype, §4.C).
type Component struct {
	// Name is the component's identifier, and origin is where it was
	// declared (native registration site, typically).
	Name   string
	Origin origin.Origin
	// Hint is the statically known result type of this component, used by
	// the (external) analyzer; nil means unknown/dynamic.
	Hint *TypeMeta
	Doc  string
	// Construct produces this component's Cell given the receiver Arg.
	Construct func(o origin.Origin, receiver Arg) (Cell, error)
}

// Prototype is a direct-dispatch table indexed by OperatorKind, plus the
// receiver type's statically exported Components.  Slots are written once,
// at host initialization, by the export machinery; they are never mutated
// afterwards (§4.C).
type Prototype struct {
	receiver   TypeID
	implements bitset.BitSet
	components []Component

	none bool

	assign     ScriptAssign
	concat     ScriptConcat
	field      ScriptField
	clone      ScriptClone
	debug      ScriptDebug
	display    ScriptDisplay
	partialEq  ScriptPartialEq
	defaultOp  ScriptDefault
	partialOrd ScriptPartialOrd
	ord        ScriptOrd
	hash       ScriptHash
	invocation ScriptInvocation
	binding    ScriptBinding

	add            ScriptAdd
	addAssignOp    ScriptAddAssign
	sub            ScriptSub
	subAssignOp    ScriptSubAssign
	mul            ScriptMul
	mulAssignOp    ScriptMulAssign
	div            ScriptDiv
	divAssignOp    ScriptDivAssign
	and            ScriptAnd
	or             ScriptOr
	not            ScriptNot
	neg            ScriptNeg

	bitAnd         ScriptBitAnd
	bitAndAssignOp ScriptBitAndAssign
	bitOr          ScriptBitOr
	bitOrAssignOp  ScriptBitOrAssign
	bitXor         ScriptBitXor
	bitXorAssignOp ScriptBitXorAssign
	shl            ScriptShl
	shlAssignOp    ScriptShlAssign
	shr            ScriptShr
	shrAssignOp    ScriptShrAssign
	rem            ScriptRem
	remAssignOp    ScriptRemAssign
}

func newPrototype(receiver TypeID) *Prototype {
	return &Prototype{receiver: receiver}
}

// Receiver returns the TypeID this prototype is attached to.
func (p *Prototype) Receiver() TypeID { return p.receiver }

// IsNone reports whether this prototype's receiver type represents
// absence/void (the None marker).
func (p *Prototype) IsNone() bool { return p.none }

// MarkNone sets the None marker on this prototype.
func (p *Prototype) MarkNone() { p.none = true }

// Implements reports whether this prototype has a slot filled for the given
// OperatorKind, via an O(1) bitset membership test rather than a type
// switch over every slot.
func (p *Prototype) Implements(kind OperatorKind) bool {
	return p.implements.Test(uint(kind))
}

// OperatorKinds returns every OperatorKind this prototype implements, in
// declaration order, for use in diagnostics (e.g. suggesting the closest
// valid operator) and documentation generation.
func (p *Prototype) OperatorKinds() []OperatorKind {
	var kinds []OperatorKind
	for i, e := p.implements.NextSet(0); e; i, e = p.implements.NextSet(i + 1) {
		kinds = append(kinds, OperatorKind(i))
	}
	return kinds
}

// Components returns the statically exported members of this prototype's
// receiver type.
func (p *Prototype) Components() []Component {
	return p.components
}

// ComponentByName looks up a Component by name.
func (p *Prototype) ComponentByName(name string) (Component, bool) {
	for _, c := range p.components {
		if c.Name == name {
			return c, true
		}
	}
	return Component{}, false
}

// AddComponent registers a named field/method/constant on this prototype.
func (p *Prototype) AddComponent(c Component) *Prototype {
	p.components = append(p.components, c)
	sort.SliceStable(p.components, func(i, j int) bool {
		return p.components[i].Name < p.components[j].Name
	})
	return p
}

func (p *Prototype) mark(kind OperatorKind) {
	p.implements.Set(uint(kind))
}

// The With* family of setters follow a functional-options registration
// style: each returns the same Prototype so registration code can chain
// calls, e.g. `meta.Prototype().WithAdd(impl).WithDisplay(impl)`.

// WithAssign installs the Assign operator.
func (p *Prototype) WithAssign(impl ScriptAssign) *Prototype {
	p.assign = impl
	p.mark(Assign)
	return p
}

// Assign returns the installed Assign implementation, if any.
func (p *Prototype) Assign() (ScriptAssign, bool) { return p.assign, p.Implements(Assign) }

// WithConcat installs the Concat operator.
func (p *Prototype) WithConcat(impl ScriptConcat) *Prototype {
	p.concat = impl
	p.mark(Concat)
	return p
}

// Concat returns the installed Concat implementation, if any.
func (p *Prototype) Concat() (ScriptConcat, bool) { return p.concat, p.Implements(Concat) }

// WithField installs the Field operator.
func (p *Prototype) WithField(impl ScriptField) *Prototype {
	p.field = impl
	p.mark(Field)
	return p
}

// Field returns the installed Field implementation, if any.
func (p *Prototype) Field() (ScriptField, bool) { return p.field, p.Implements(Field) }

// WithClone installs the Clone operator.
func (p *Prototype) WithClone(impl ScriptClone) *Prototype {
	p.clone = impl
	p.mark(Clone)
	return p
}

// Clone returns the installed Clone implementation, if any.
func (p *Prototype) Clone() (ScriptClone, bool) { return p.clone, p.Implements(Clone) }

// WithDebug installs the Debug operator.
func (p *Prototype) WithDebug(impl ScriptDebug) *Prototype {
	p.debug = impl
	p.mark(Debug)
	return p
}

// Debug returns the installed Debug implementation, if any.
func (p *Prototype) Debug() (ScriptDebug, bool) { return p.debug, p.Implements(Debug) }

// WithDisplay installs the Display operator.
func (p *Prototype) WithDisplay(impl ScriptDisplay) *Prototype {
	p.display = impl
	p.mark(Display)
	return p
}

// Display returns the installed Display implementation, if any.
func (p *Prototype) Display() (ScriptDisplay, bool) { return p.display, p.Implements(Display) }

// WithPartialEq installs the PartialEq operator.
func (p *Prototype) WithPartialEq(impl ScriptPartialEq) *Prototype {
	p.partialEq = impl
	p.mark(PartialEq)
	return p
}

// PartialEq returns the installed PartialEq implementation, if any.
func (p *Prototype) PartialEq() (ScriptPartialEq, bool) {
	return p.partialEq, p.Implements(PartialEq)
}

// WithDefault installs the Default operator.
func (p *Prototype) WithDefault(impl ScriptDefault) *Prototype {
	p.defaultOp = impl
	p.mark(Default)
	return p
}

// Default returns the installed Default implementation, if any.
func (p *Prototype) Default() (ScriptDefault, bool) { return p.defaultOp, p.Implements(Default) }

// WithPartialOrd installs the PartialOrd operator.
func (p *Prototype) WithPartialOrd(impl ScriptPartialOrd) *Prototype {
	p.partialOrd = impl
	p.mark(PartialOrd)
	return p
}

// PartialOrd returns the installed PartialOrd implementation, if any.
func (p *Prototype) PartialOrd() (ScriptPartialOrd, bool) {
	return p.partialOrd, p.Implements(PartialOrd)
}

// WithOrd installs the Ord operator.
func (p *Prototype) WithOrd(impl ScriptOrd) *Prototype {
	p.ord = impl
	p.mark(Ord)
	return p
}

// Ord returns the installed Ord implementation, if any.
func (p *Prototype) Ord() (ScriptOrd, bool) { return p.ord, p.Implements(Ord) }

// WithHash installs the Hash operator.
func (p *Prototype) WithHash(impl ScriptHash) *Prototype {
	p.hash = impl
	p.mark(Hash)
	return p
}

// Hash returns the installed Hash implementation, if any.
func (p *Prototype) Hash() (ScriptHash, bool) { return p.hash, p.Implements(Hash) }

// WithInvocation installs the Invocation operator.
func (p *Prototype) WithInvocation(impl ScriptInvocation) *Prototype {
	p.invocation = impl
	p.mark(Invocation)
	return p
}

// Invocation returns the installed Invocation implementation, if any.
func (p *Prototype) Invocation() (ScriptInvocation, bool) {
	return p.invocation, p.Implements(Invocation)
}

// WithBinding installs the Binding operator.
func (p *Prototype) WithBinding(impl ScriptBinding) *Prototype {
	p.binding = impl
	p.mark(Binding)
	return p
}

// Binding returns the installed Binding implementation, if any.
func (p *Prototype) Binding() (ScriptBinding, bool) { return p.binding, p.Implements(Binding) }

// WithAdd installs the Add operator.
func (p *Prototype) WithAdd(impl ScriptAdd) *Prototype {
	p.add = impl
	p.mark(Add)
	return p
}

// Add returns the installed Add implementation, if any.
func (p *Prototype) Add() (ScriptAdd, bool) { return p.add, p.Implements(Add) }

// WithAddAssign installs the AddAssign operator.
func (p *Prototype) WithAddAssign(impl ScriptAddAssign) *Prototype {
	p.addAssignOp = impl
	p.mark(AddAssign)
	return p
}

// AddAssign returns the installed AddAssign implementation, if any.
func (p *Prototype) AddAssign() (ScriptAddAssign, bool) {
	return p.addAssignOp, p.Implements(AddAssign)
}

// WithSub installs the Sub operator.
func (p *Prototype) WithSub(impl ScriptSub) *Prototype {
	p.sub = impl
	p.mark(Sub)
	return p
}

// Sub returns the installed Sub implementation, if any.
func (p *Prototype) Sub() (ScriptSub, bool) { return p.sub, p.Implements(Sub) }

// WithSubAssign installs the SubAssign operator.
func (p *Prototype) WithSubAssign(impl ScriptSubAssign) *Prototype {
	p.subAssignOp = impl
	p.mark(SubAssign)
	return p
}

// SubAssign returns the installed SubAssign implementation, if any.
func (p *Prototype) SubAssign() (ScriptSubAssign, bool) {
	return p.subAssignOp, p.Implements(SubAssign)
}

// WithMul installs the Mul operator.
func (p *Prototype) WithMul(impl ScriptMul) *Prototype {
	p.mul = impl
	p.mark(Mul)
	return p
}

// Mul returns the installed Mul implementation, if any.
func (p *Prototype) Mul() (ScriptMul, bool) { return p.mul, p.Implements(Mul) }

// WithMulAssign installs the MulAssign operator.  Note: the reference
// implementation this was ported from routes MulAssign dispatch to a
// SubAssign-shaped variant, which §9 DESIGN NOTES flags as a typo; here
// MulAssign is routed to MulAssign, correctly.
func (p *Prototype) WithMulAssign(impl ScriptMulAssign) *Prototype {
	p.mulAssignOp = impl
	p.mark(MulAssign)
	return p
}

// MulAssign returns the installed MulAssign implementation, if any.
func (p *Prototype) MulAssign() (ScriptMulAssign, bool) {
	return p.mulAssignOp, p.Implements(MulAssign)
}

// WithDiv installs the Div operator.
func (p *Prototype) WithDiv(impl ScriptDiv) *Prototype {
	p.div = impl
	p.mark(Div)
	return p
}

// Div returns the installed Div implementation, if any.
func (p *Prototype) Div() (ScriptDiv, bool) { return p.div, p.Implements(Div) }

// WithDivAssign installs the DivAssign operator.
func (p *Prototype) WithDivAssign(impl ScriptDivAssign) *Prototype {
	p.divAssignOp = impl
	p.mark(DivAssign)
	return p
}

// DivAssign returns the installed DivAssign implementation, if any.
func (p *Prototype) DivAssign() (ScriptDivAssign, bool) {
	return p.divAssignOp, p.Implements(DivAssign)
}

// WithAnd installs the And operator.
func (p *Prototype) WithAnd(impl ScriptAnd) *Prototype {
	p.and = impl
	p.mark(And)
	return p
}

// And returns the installed And implementation, if any.
func (p *Prototype) And() (ScriptAnd, bool) { return p.and, p.Implements(And) }

// WithOr installs the Or operator.
func (p *Prototype) WithOr(impl ScriptOr) *Prototype {
	p.or = impl
	p.mark(Or)
	return p
}

// Or returns the installed Or implementation, if any.
func (p *Prototype) Or() (ScriptOr, bool) { return p.or, p.Implements(Or) }

// WithNot installs the Not operator.
func (p *Prototype) WithNot(impl ScriptNot) *Prototype {
	p.not = impl
	p.mark(Not)
	return p
}

// Not returns the installed Not implementation, if any.
func (p *Prototype) Not() (ScriptNot, bool) { return p.not, p.Implements(Not) }

// WithNeg installs the Neg operator.
func (p *Prototype) WithNeg(impl ScriptNeg) *Prototype {
	p.neg = impl
	p.mark(Neg)
	return p
}

// Neg returns the installed Neg implementation, if any.
func (p *Prototype) Neg() (ScriptNeg, bool) { return p.neg, p.Implements(Neg) }

// WithBitAnd installs the BitAnd operator.
func (p *Prototype) WithBitAnd(impl ScriptBitAnd) *Prototype {
	p.bitAnd = impl
	p.mark(BitAnd)
	return p
}

// BitAnd returns the installed BitAnd implementation, if any.
func (p *Prototype) BitAnd() (ScriptBitAnd, bool) { return p.bitAnd, p.Implements(BitAnd) }

// WithBitAndAssign installs the BitAndAssign operator.
func (p *Prototype) WithBitAndAssign(impl ScriptBitAndAssign) *Prototype {
	p.bitAndAssignOp = impl
	p.mark(BitAndAssign)
	return p
}

// BitAndAssign returns the installed BitAndAssign implementation, if any.
func (p *Prototype) BitAndAssign() (ScriptBitAndAssign, bool) {
	return p.bitAndAssignOp, p.Implements(BitAndAssign)
}

// WithBitOr installs the BitOr operator.
func (p *Prototype) WithBitOr(impl ScriptBitOr) *Prototype {
	p.bitOr = impl
	p.mark(BitOr)
	return p
}

// BitOr returns the installed BitOr implementation, if any.
func (p *Prototype) BitOr() (ScriptBitOr, bool) { return p.bitOr, p.Implements(BitOr) }

// WithBitOrAssign installs the BitOrAssign operator.
func (p *Prototype) WithBitOrAssign(impl ScriptBitOrAssign) *Prototype {
	p.bitOrAssignOp = impl
	p.mark(BitOrAssign)
	return p
}

// BitOrAssign returns the installed BitOrAssign implementation, if any.
func (p *Prototype) BitOrAssign() (ScriptBitOrAssign, bool) {
	return p.bitOrAssignOp, p.Implements(BitOrAssign)
}

// WithBitXor installs the BitXor operator.
func (p *Prototype) WithBitXor(impl ScriptBitXor) *Prototype {
	p.bitXor = impl
	p.mark(BitXor)
	return p
}

// BitXor returns the installed BitXor implementation, if any.
func (p *Prototype) BitXor() (ScriptBitXor, bool) { return p.bitXor, p.Implements(BitXor) }

// WithBitXorAssign installs the BitXorAssign operator.
func (p *Prototype) WithBitXorAssign(impl ScriptBitXorAssign) *Prototype {
	p.bitXorAssignOp = impl
	p.mark(BitXorAssign)
	return p
}

// BitXorAssign returns the installed BitXorAssign implementation, if any.
func (p *Prototype) BitXorAssign() (ScriptBitXorAssign, bool) {
	return p.bitXorAssignOp, p.Implements(BitXorAssign)
}

// WithShl installs the Shl operator.
func (p *Prototype) WithShl(impl ScriptShl) *Prototype {
	p.shl = impl
	p.mark(Shl)
	return p
}

// Shl returns the installed Shl implementation, if any.
func (p *Prototype) Shl() (ScriptShl, bool) { return p.shl, p.Implements(Shl) }

// WithShlAssign installs the ShlAssign operator.
func (p *Prototype) WithShlAssign(impl ScriptShlAssign) *Prototype {
	p.shlAssignOp = impl
	p.mark(ShlAssign)
	return p
}

// ShlAssign returns the installed ShlAssign implementation, if any.
func (p *Prototype) ShlAssign() (ScriptShlAssign, bool) {
	return p.shlAssignOp, p.Implements(ShlAssign)
}

// WithShr installs the Shr operator.
func (p *Prototype) WithShr(impl ScriptShr) *Prototype {
	p.shr = impl
	p.mark(Shr)
	return p
}

// Shr returns the installed Shr implementation, if any.
func (p *Prototype) Shr() (ScriptShr, bool) { return p.shr, p.Implements(Shr) }

// WithShrAssign installs the ShrAssign operator.
func (p *Prototype) WithShrAssign(impl ScriptShrAssign) *Prototype {
	p.shrAssignOp = impl
	p.mark(ShrAssign)
	return p
}

// ShrAssign returns the installed ShrAssign implementation, if any.
func (p *Prototype) ShrAssign() (ScriptShrAssign, bool) {
	return p.shrAssignOp, p.Implements(ShrAssign)
}

// WithRem installs the Rem operator.
func (p *Prototype) WithRem(impl ScriptRem) *Prototype {
	p.rem = impl
	p.mark(Rem)
	return p
}

// Rem returns the installed Rem implementation, if any.
func (p *Prototype) Rem() (ScriptRem, bool) { return p.rem, p.Implements(Rem) }

// WithRemAssign installs the RemAssign operator.
func (p *Prototype) WithRemAssign(impl ScriptRemAssign) *Prototype {
	p.remAssignOp = impl
	p.mark(RemAssign)
	return p
}

// RemAssign returns the installed RemAssign implementation, if any.
func (p *Prototype) RemAssign() (ScriptRemAssign, bool) {
	return p.remAssignOp, p.Implements(RemAssign)
}
