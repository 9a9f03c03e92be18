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
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/adastra-run/adastra/pkg/assembly"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var disasmCmd = &cobra.Command{
	Use:   "disasm <path>",
	Short: "Pretty-print an Assembly's command stream and source map.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		configureLogging(cmd)

		data, err := os.ReadFile(args[0])
		if err != nil {
			log.WithError(err).Error("failed to read assembly file")
			return
		}
		if !assembly.IsEncodedAssembly(data) {
			log.WithField("path", args[0]).Error("not an encoded assembly file")
			return
		}
		asm, err := assembly.Decode(data)
		if err != nil {
			log.WithError(err).Error("failed to decode assembly file")
			return
		}
		disassemble(os.Stdout, asm, 0)
	},
}

// disassemble writes one indented line per command, showing its index,
// opcode, the payload fields meaningful for that opcode, and the source
// Origin it carries, then recurses into nested subroutines.
func disassemble(w *os.File, asm *assembly.Assembly, depth int) {
	indent := strings.Repeat("  ", depth)
	fmt.Fprintf(w, "%sassembly(arity=%d, frame-depth=%d, declared at %s)\n",
		indent, asm.Arity(), asm.FrameDepth(), asm.DeclOrigin())
	for i := 0; i < asm.Len(); i++ {
		cmd := asm.CommandAt(i)
		fmt.Fprintf(w, "%s  %4d  %-12s %s  ; %s\n", indent, i, cmd.Op, commandPayload(asm, cmd), cmd.Origin)
	}
	for i := 0; i < asm.NumSubroutines(); i++ {
		disassemble(w, asm.Subroutine(uint32(i)), depth+1)
	}
}

// commandPayload renders the payload fields meaningful for cmd.Op, resolving
// string-pool and subroutine-table indices through asm.
func commandPayload(asm *assembly.Assembly, cmd assembly.Command) string {
	switch cmd.Op {
	case assembly.OpPushUsize:
		return fmt.Sprintf("%d", cmd.UintArg)
	case assembly.OpPushIsize:
		return fmt.Sprintf("%d", cmd.IntArg)
	case assembly.OpPushFloat:
		return fmt.Sprintf("%g", cmd.FloatArg)
	case assembly.OpPushString, assembly.OpField:
		return fmt.Sprintf("%q", asm.String(cmd.StringIdx))
	case assembly.OpPushPackage:
		return cmd.PackageName
	case assembly.OpPushClosure, assembly.OpPushFn:
		return fmt.Sprintf("sub#%d", cmd.SubIdx)
	case assembly.OpIfTrue, assembly.OpIfFalse, assembly.OpJump, assembly.OpIterate:
		return fmt.Sprintf("-> %d", cmd.Target)
	case assembly.OpLift, assembly.OpSwap, assembly.OpDup, assembly.OpShrink, assembly.OpInvoke, assembly.OpConcat, assembly.OpBind:
		return fmt.Sprintf("depth=%d", cmd.Depth)
	case assembly.OpOperator:
		return cmd.Operator.String()
	default:
		return ""
	}
}
