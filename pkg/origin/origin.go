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

// Package origin provides an opaque, cheap-to-copy tag identifying a span of
// source for diagnostics.  Every value produced by the engine and every
// instruction executed carries an Origin so that a failure can be reported
// against the native or scripted location that caused it.
package origin

import "fmt"

// kind distinguishes the three shapes an Origin can take.
type kind uint8

const (
	kindNil kind = iota
	kindNative
	kindScript
)

// Origin is a diagnostic-only source location tag.  The nil Origin (the zero
// value) is always valid and carries no location.  Equality is structural;
// two origins compare equal iff their fields match, but equality carries no
// semantic meaning beyond "the same tag was attached twice".
type Origin struct {
	k kind
	// native fields
	file  string
	line  int
	col   int
	label string
	// script fields
	document uint64
	start    uint32
	end      uint32
}

// Nil returns the nil Origin, used whenever no meaningful location can be
// attached (e.g. a synthetic value produced by the engine itself).
func Nil() Origin {
	return Origin{}
}

// IsNil reports whether this Origin carries no location.
func (o Origin) IsNil() bool {
	return o.k == kindNil
}

// Native constructs an Origin pinned to a fixed Go source location, as
// recorded once at host registration time by the export machinery.  label is
// an optional short description (e.g. the exported symbol's name); pass "" if
// none applies.
func Native(file string, line, col int, label string) Origin {
	return Origin{k: kindNative, file: file, line: line, col: col, label: label}
}

// Script constructs an Origin referring to a byte range within a script
// document identified by docID.
func Script(docID uint64, start, end uint32) Origin {
	return Origin{k: kindScript, document: docID, start: start, end: end}
}

// IsNative reports whether this Origin refers to host (Go) source.
func (o Origin) IsNative() bool {
	return o.k == kindNative
}

// IsScript reports whether this Origin refers to a script document.
func (o Origin) IsScript() bool {
	return o.k == kindScript
}

// Document returns the script document identifier and true, or (0, false) if
// this is not a script Origin.
func (o Origin) Document() (uint64, bool) {
	if o.k != kindScript {
		return 0, false
	}
	return o.document, true
}

// Span returns the [start, end) byte range of a script Origin, or (0, 0,
// false) if this is not a script Origin.
func (o Origin) Span() (start, end uint32, ok bool) {
	if o.k != kindScript {
		return 0, 0, false
	}
	return o.start, o.end, true
}

// NativeParts returns the file/line/col/label of a native Origin, or
// ("", 0, 0, "", false) if this is not a native Origin. Exposed alongside
// Document/Span so a serializer outside this package can round-trip any
// Origin without reaching into its private fields.
func (o Origin) NativeParts() (file string, line, col int, label string, ok bool) {
	if o.k != kindNative {
		return "", 0, 0, "", false
	}
	return o.file, o.line, o.col, o.label, true
}

// String renders a short human-readable form suitable for embedding in a
// diagnostic, e.g. "engine.go:42:7" or "doc#3[10..17]".
func (o Origin) String() string {
	switch o.k {
	case kindNative:
		if o.label != "" {
			return fmt.Sprintf("%s:%d:%d (%s)", o.file, o.line, o.col, o.label)
		}
		return fmt.Sprintf("%s:%d:%d", o.file, o.line, o.col)
	case kindScript:
		return fmt.Sprintf("doc#%d[%d..%d]", o.document, o.start, o.end)
	default:
		return "<nil origin>"
	}
}
