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
package assembly

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"errors"
	"fmt"

	"github.com/adastra-run/adastra/pkg/origin"
)

// Assembly has no native serialization: its fields are private, and the
// Origin values threaded through every Command are themselves opaque. Encode
// and Decode give the `run`/`disasm` CLI commands a way to move an Assembly
// to and from a file, the way go-corset's pkg/binfile moves a compiled
// constraint schema to and from a file: a small hand-rolled magic/version
// header followed by a gob-encoded payload, with a mirror type (wireAssembly)
// standing in for the fields Assembly itself does not export.

// identifier is the 8-byte magic marking an encoded Assembly file.
var identifier = [8]byte{'a', 'd', 'a', 's', 't', 'r', 'a', '1'}

// wireMajorVersion must match exactly for a file to be considered
// compatible; wireMinorVersion may be less than or equal to the version
// this package writes.
const (
	wireMajorVersion uint16 = 1
	wireMinorVersion uint16 = 0
)

// header is the fixed-layout prefix of an encoded Assembly file, serialized
// with a hand-rolled big-endian encoding rather than gob so the magic and
// version can be checked without decoding the payload.
type header struct {
	identifier   [8]byte
	majorVersion uint16
	minorVersion uint16
}

func (h header) marshalBinary() []byte {
	buf := make([]byte, 12)
	copy(buf[0:8], h.identifier[:])
	binary.BigEndian.PutUint16(buf[8:10], h.majorVersion)
	binary.BigEndian.PutUint16(buf[10:12], h.minorVersion)
	return buf
}

func (h *header) unmarshalBinary(buf *bytes.Buffer) error {
	raw := make([]byte, 12)
	if n, err := buf.Read(raw); err != nil {
		return err
	} else if n != len(raw) {
		return errors.New("assembly: truncated header")
	}
	copy(h.identifier[:], raw[0:8])
	h.majorVersion = binary.BigEndian.Uint16(raw[8:10])
	h.minorVersion = binary.BigEndian.Uint16(raw[10:12])
	return nil
}

func (h header) isCompatible() bool {
	return h.identifier == identifier &&
		h.majorVersion == wireMajorVersion &&
		h.minorVersion <= wireMinorVersion
}

// IsEncodedAssembly reports whether data begins with the magic identifier
// Encode writes, distinguishing a genuine encoded Assembly from an arbitrary
// or corrupted file before attempting a full Decode.
func IsEncodedAssembly(data []byte) bool {
	if len(data) < 8 {
		return false
	}
	var want [8]byte
	copy(want[:], data[:8])
	return want == identifier
}

// wireOrigin mirrors origin.Origin's three shapes using only its exported
// accessors (Origin itself has no exported fields to hand to gob directly).
type wireOrigin struct {
	Kind     uint8 // 0 = nil, 1 = native, 2 = script
	File     string
	Line     int
	Col      int
	Label    string
	Document uint64
	Start    uint32
	End      uint32
}

func encodeOrigin(o origin.Origin) wireOrigin {
	if file, line, col, label, ok := o.NativeParts(); ok {
		return wireOrigin{Kind: 1, File: file, Line: line, Col: col, Label: label}
	}
	if doc, ok := o.Document(); ok {
		start, end, _ := o.Span()
		return wireOrigin{Kind: 2, Document: doc, Start: start, End: end}
	}
	return wireOrigin{Kind: 0}
}

func (w wireOrigin) decode() origin.Origin {
	switch w.Kind {
	case 1:
		return origin.Native(w.File, w.Line, w.Col, w.Label)
	case 2:
		return origin.Script(w.Document, w.Start, w.End)
	default:
		return origin.Nil()
	}
}

// wireCommand mirrors Command with its Origin field replaced by wireOrigin.
type wireCommand struct {
	Op          OpCode
	Origin      wireOrigin
	Target      int
	Depth       int
	UintArg     uint64
	IntArg      int64
	FloatArg    float64
	StringIdx   uint32
	PackageName string
	SubIdx      uint32
	Operator    OpVariant
}

func encodeCommand(c Command) wireCommand {
	return wireCommand{
		Op:          c.Op,
		Origin:      encodeOrigin(c.Origin),
		Target:      c.Target,
		Depth:       c.Depth,
		UintArg:     c.UintArg,
		IntArg:      c.IntArg,
		FloatArg:    c.FloatArg,
		StringIdx:   c.StringIdx,
		PackageName: c.PackageName,
		SubIdx:      c.SubIdx,
		Operator:    c.Operator,
	}
}

func (w wireCommand) decode() Command {
	return Command{
		Op:          w.Op,
		Origin:      w.Origin.decode(),
		Target:      w.Target,
		Depth:       w.Depth,
		UintArg:     w.UintArg,
		IntArg:      w.IntArg,
		FloatArg:    w.FloatArg,
		StringIdx:   w.StringIdx,
		PackageName: w.PackageName,
		SubIdx:      w.SubIdx,
		Operator:    w.Operator,
	}
}

// wireAssembly mirrors Assembly with its private fields exposed for gob and
// its Origin/Command values replaced by their wire equivalents. Subroutines
// nest directly, since an Assembly's subroutine table is itself a tree of
// Assemblies.
type wireAssembly struct {
	DeclOrigin  wireOrigin
	Arity       int
	FrameDepth  int
	Commands    []wireCommand
	Strings     []string
	Subroutines []wireAssembly
	Closures    []int
}

func encodeAssembly(a *Assembly) wireAssembly {
	commands := make([]wireCommand, a.Len())
	for i := range commands {
		commands[i] = encodeCommand(a.CommandAt(i))
	}
	subroutines := make([]wireAssembly, 0, len(a.subroutines))
	for _, sub := range a.subroutines {
		subroutines = append(subroutines, encodeAssembly(sub))
	}
	return wireAssembly{
		DeclOrigin:  encodeOrigin(a.declOrigin),
		Arity:       a.arity,
		FrameDepth:  a.frameDepth,
		Commands:    commands,
		Strings:     append([]string(nil), a.strings...),
		Subroutines: subroutines,
		Closures:    append([]int(nil), a.closures...),
	}
}

func (w wireAssembly) decode() *Assembly {
	commands := make([]Command, len(w.Commands))
	for i, wc := range w.Commands {
		commands[i] = wc.decode()
	}
	subroutines := make([]*Assembly, len(w.Subroutines))
	for i, ws := range w.Subroutines {
		subroutines[i] = ws.decode()
	}
	return New(w.DeclOrigin.decode(), w.Arity, w.FrameDepth, commands, w.Strings, subroutines, w.Closures)
}

// Encode serializes asm as a self-describing byte stream: a fixed magic and
// version header, followed by a gob-encoded command stream, string pool,
// subroutine tree, and closure-slot table.
func Encode(asm *Assembly) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(header{identifier: identifier, majorVersion: wireMajorVersion, minorVersion: wireMinorVersion}.marshalBinary())
	if err := gob.NewEncoder(&buf).Encode(encodeAssembly(asm)); err != nil {
		return nil, fmt.Errorf("assembly: encode: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode parses a byte stream previously produced by Encode back into an
// Assembly, failing if the magic or version is not one this package writes.
func Decode(data []byte) (*Assembly, error) {
	buf := bytes.NewBuffer(data)
	var h header
	if err := h.unmarshalBinary(buf); err != nil {
		return nil, fmt.Errorf("assembly: decode: %w", err)
	}
	if !h.isCompatible() {
		return nil, fmt.Errorf("assembly: incompatible file (v%d.%d, expected v%d.%d)",
			h.majorVersion, h.minorVersion, wireMajorVersion, wireMinorVersion)
	}
	var w wireAssembly
	if err := gob.NewDecoder(buf).Decode(&w); err != nil {
		return nil, fmt.Errorf("assembly: decode: %w", err)
	}
	return w.decode(), nil
}
