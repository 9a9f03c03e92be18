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

// Package rterror renders a runtime.RuntimeError as an annotated source
// snippet (§4.I "a display facade resolves the origins against a
// source-text resolver and formats a diagnostic snippet"). The engine
// itself never formats source text — a RuntimeError only carries Origins —
// so this lives in its own package, consumed by a host CLI or LSP-adjacent
// tool rather than by the interpreter.
package rterror

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/adastra-run/adastra/pkg/origin"
	"github.com/adastra-run/adastra/pkg/runtime"
	"golang.org/x/term"
)

// Resolver maps a script document identifier to its full source text, so a
// script Origin's byte range can be located within a line and rendered with
// a caret. A native Origin needs no resolution: its file/line/col are
// printed as-is.
type Resolver interface {
	DocumentText(docID uint64) (string, bool)
	DocumentName(docID uint64) string
}

// Display renders a full diagnostic for err: the primary description and
// snippet, the secondary description and snippet if present, and the
// long-form summary. width is the terminal column width to wrap the
// snippet's source line to; pass 0 to auto-detect via the controlling
// terminal (falling back to 100 columns when stdout isn't one).
func Display(w io.Writer, err *runtime.RuntimeError, resolver Resolver, width int) error {
	if width <= 0 {
		width = detectWidth()
	}
	if _, werr := fmt.Fprintf(w, "error: %s\n", err.PrimaryDescription()); werr != nil {
		return werr
	}
	if snippet := renderSnippet(err.PrimaryOrigin, resolver, width); snippet != "" {
		if _, werr := fmt.Fprint(w, snippet); werr != nil {
			return werr
		}
	}
	if label := err.SecondaryDescription(); label != "" && !err.SecondaryOrigin.IsNil() {
		if _, werr := fmt.Fprintf(w, "note: %s\n", label); werr != nil {
			return werr
		}
		if snippet := renderSnippet(err.SecondaryOrigin, resolver, width); snippet != "" {
			if _, werr := fmt.Fprint(w, snippet); werr != nil {
				return werr
			}
		}
	}
	_, werr := fmt.Fprintf(w, "%s\n", err.Summary())
	return werr
}

// detectWidth mirrors termio's use of golang.org/x/term to size output to
// the controlling terminal, falling back to a fixed width when stdout is
// redirected (a pipe, a file, a CI log).
func detectWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 100
}

// renderSnippet locates o within its document's text and returns a
// three-line "  --> <name>:<line>:<col>\n  <source>\n  <caret>\n" block,
// or "" for a nil Origin, a
// native Origin (no source text to show), or a script Origin whose
// document the resolver doesn't recognize.
func renderSnippet(o origin.Origin, resolver Resolver, width int) string {
	if o.IsNil() || o.IsNative() || resolver == nil {
		return ""
	}
	docID, _ := o.Document()
	start, end, _ := o.Span()
	text, ok := resolver.DocumentText(docID)
	if !ok {
		return ""
	}
	lineStart, lineEnd, lineNo, col := lineContaining(text, int(start))
	line := text[lineStart:lineEnd]
	if width > 0 && len(line) > width {
		line = line[:width]
	}
	caretLen := int(end) - int(start)
	if caretLen < 1 {
		caretLen = 1
	}
	if col+caretLen > len(line) {
		caretLen = len(line) - col
		if caretLen < 1 {
			caretLen = 1
		}
	}
	var b strings.Builder
	fmt.Fprintf(&b, "  --> %s:%d:%d\n", resolver.DocumentName(docID), lineNo, col+1)
	fmt.Fprintf(&b, "  %s\n", line)
	fmt.Fprintf(&b, "  %s%s\n", strings.Repeat(" ", col), strings.Repeat("^", caretLen))
	return b.String()
}

// lineContaining returns the [start, end) byte bounds of the line holding
// byte offset pos within text, its 1-based line number, and pos's 0-based
// column within that line.
func lineContaining(text string, pos int) (lineStart, lineEnd, lineNo, col int) {
	if pos > len(text) {
		pos = len(text)
	}
	lineNo = 1
	lineStart = 0
	for i := 0; i < pos; i++ {
		if text[i] == '\n' {
			lineStart = i + 1
			lineNo++
		}
	}
	lineEnd = len(text)
	if idx := strings.IndexByte(text[lineStart:], '\n'); idx >= 0 {
		lineEnd = lineStart + idx
	}
	col = pos - lineStart
	return
}
