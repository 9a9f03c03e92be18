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
	"os"

	"github.com/adastra-run/adastra/pkg/engine"
	"github.com/adastra-run/adastra/pkg/rterror"
	"github.com/adastra-run/adastra/pkg/runtime"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "adastra",
	Short: "Embeddable scripting runtime engine (standalone demo host).",
	Long: `adastra hosts the engine package outside of any particular embedding
application: it is the package/type registry, the interruption-hook wiring,
and the diagnostic renderer an embedder would otherwise provide, exercised
against a hand-assembled Assembly rather than a parsed script (the
lexer/parser/analyzer are a separate concern this engine consumes from, not
produces).`,
}

func init() {
	rootCmd.PersistentFlags().Bool("trusted", false, "skip per-instruction interruption polling")
	rootCmd.PersistentFlags().Int("max-depth", engine.DefaultMaxCallDepth, "maximum native call-stack depth before StackOverflow")
	rootCmd.PersistentFlags().String("log-level", "info", "logrus level: trace, debug, info, warn, error")
	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(disasmCmd)
}

func configureLogging(cmd *cobra.Command) {
	level, _ := cmd.Flags().GetString("log-level")
	parsed, err := log.ParseLevel(level)
	if err != nil {
		log.WithField("log-level", level).Warn("unrecognized log level, defaulting to info")
		parsed = log.InfoLevel
	}
	log.SetLevel(parsed)
}

// displayErr renders a RuntimeError via the rterror facade. No Resolver is
// available from this standalone demo host (there is no loaded script
// document to resolve byte ranges against), so the snippet is omitted and
// only the structured description/summary prints.
func displayErr(rerr *runtime.RuntimeError) {
	if rerr == nil {
		return
	}
	if err := rterror.Display(os.Stderr, rerr, nil, 0); err != nil {
		log.WithError(err).Error("failed to render diagnostic")
	}
}
