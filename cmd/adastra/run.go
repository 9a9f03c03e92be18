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
	"github.com/adastra-run/adastra/pkg/engine"
	"github.com/adastra-run/adastra/pkg/origin"
	"github.com/adastra-run/adastra/pkg/registry"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <path>",
	Short: "Execute an Assembly previously written by `demo --write` and print the result's type name.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		configureLogging(cmd)
		trusted, _ := cmd.Flags().GetBool("trusted")
		maxDepth, _ := cmd.Flags().GetInt("max-depth")

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
		fn := assembly.NewScriptFn(asm, nil)

		reg := registry.New(nil)
		eng := engine.New(trusted, maxDepth, reg)

		log.WithFields(log.Fields{"arity": fn.Arity(), "trusted": trusted}).Info("executing assembly")
		result, rerr := eng.Call(fn, nil, origin.Nil())
		if rerr != nil {
			displayErr(rerr)
			return
		}
		fmt.Printf("result: %s\n", result.Type().Name())
	},
}
