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

	"github.com/adastra-run/adastra/pkg/assembly"
	"github.com/adastra-run/adastra/pkg/convert"
	"github.com/adastra-run/adastra/pkg/engine"
	"github.com/adastra-run/adastra/pkg/origin"
	"github.com/adastra-run/adastra/pkg/registry"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Hand-assemble and execute `2 + 3 * 4` to exercise the engine end to end.",
	Run: func(cmd *cobra.Command, args []string) {
		configureLogging(cmd)
		trusted, _ := cmd.Flags().GetBool("trusted")
		maxDepth, _ := cmd.Flags().GetInt("max-depth")

		fn := buildDemoAssembly()

		if path, _ := cmd.Flags().GetString("write"); path != "" {
			data, err := assembly.Encode(fn.Assembly())
			if err != nil {
				log.WithError(err).Error("failed to encode demo assembly")
				return
			}
			if err := os.WriteFile(path, data, 0o644); err != nil {
				log.WithError(err).Error("failed to write demo assembly")
				return
			}
			log.WithField("path", path).Info("wrote demo assembly")
			return
		}

		reg := registry.New(nil)
		eng := engine.New(trusted, maxDepth, reg)

		log.WithFields(log.Fields{"arity": fn.Arity(), "trusted": trusted}).Info("executing demo assembly")
		result, rerr := eng.Call(fn, nil, origin.Nil())
		if rerr != nil {
			displayErr(rerr)
			return
		}
		value, derr := convert.Downcast[uint](convert.NewProvider(result, origin.Nil()))
		if derr != nil {
			displayErr(derr)
			return
		}
		fmt.Printf("2 + 3 * 4 = %d\n", value)
	},
}

func init() {
	demoCmd.Flags().String("write", "", "encode the demo assembly to this path instead of executing it (consumable by `run`/`disasm`)")
}

// buildDemoAssembly hand-assembles `2 + 3 * 4` as PushUsize/Op commands,
// standing in for the compiler this engine consumes from but does not
// itself implement (§2 "external collaborators").
func buildDemoAssembly() *assembly.ScriptFn {
	b := assembly.NewBuilder(0)
	here := origin.Native("cmd/adastra/demo.go", 0, 0, "demo")

	b.Emit(assembly.Command{Op: assembly.OpPushUsize, Origin: here, UintArg: 2})
	b.Emit(assembly.Command{Op: assembly.OpPushUsize, Origin: here, UintArg: 3})
	b.Emit(assembly.Command{Op: assembly.OpPushUsize, Origin: here, UintArg: 4})
	b.Emit(assembly.Command{Op: assembly.OpOperator, Origin: here, Operator: assembly.VarMul})
	b.Emit(assembly.Command{Op: assembly.OpOperator, Origin: here, Operator: assembly.VarAdd})
	b.ReserveFrameDepth(3)

	asm := b.Build(here)
	return assembly.NewScriptFn(asm, nil)
}
