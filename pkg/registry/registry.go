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

// Package registry is the host-facing surface a native application uses to
// publish packages and types to the engine (§2 "a registry of
// package/type metadata"). It does not itself populate a Prototype's
// operator slots — that is the "export macro" surface §2 treats as an
// external collaborator — but it is the process-wide table of named
// packages the engine's PackageResolver consults.
package registry

import (
	"fmt"
	"sort"

	"github.com/adastra-run/adastra/pkg/origin"
	"github.com/adastra-run/adastra/pkg/runtime"
	log "github.com/sirupsen/logrus"
)

// Registry collects the packages a host application exposes to scripts. It
// follows the same With*-chaining construction style as runtime.Prototype:
// each With* call returns the same *Registry so calls chain, and
// registration is expected to happen once at startup before any Engine is
// constructed against it.
type Registry struct {
	packages map[string]runtime.Cell
	logger   *log.Logger
}

// New constructs an empty Registry. A nil logger installs logrus's standard
// logger; pass a configured *log.Logger to route registration diagnostics
// through a host's existing logging setup.
func New(logger *log.Logger) *Registry {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Registry{packages: map[string]runtime.Cell{}, logger: logger}
}

// WithPackage registers name to resolve to pkg, a Cell exposing the
// package's exported Components through its Prototype. Re-registering an
// existing name overwrites it and logs a warning — surprising, but not an
// error: scripts loaded before the overwrite keep whatever Cell they
// already captured.
func (r *Registry) WithPackage(name string, pkg runtime.Cell) *Registry {
	if _, exists := r.packages[name]; exists {
		r.logger.WithField("package", name).Warn("overwriting previously registered package")
	}
	r.packages[name] = pkg
	r.logger.WithField("package", name).Debug("package registered")
	return r
}

// WithNamespace registers name as a package Cell built from the struct-like
// value exporting one Component per (name, Cell) pair in members — a
// convenience for hosts that want to expose a flat bag of functions or
// constants without hand-building a Cell first.
func (r *Registry) WithNamespace(name string, members map[string]runtime.Cell) *Registry {
	meta := runtime.NewTypeMeta(fmt.Sprintf("package:%s", name), "", 0, nil)
	proto := meta.Prototype()
	keys := make([]string, 0, len(members))
	for k := range members {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		cell := members[k]
		proto.AddComponent(runtime.Component{
			Name:   k,
			Origin: origin.Native("registry", 0, 0, name+"."+k),
			Construct: func(o origin.Origin, receiver runtime.Arg) (runtime.Cell, error) {
				return cell, nil
			},
		})
	}
	return r.WithPackage(name, runtime.Give(origin.Nil(), meta, struct{}{}))
}

// ResolvePackage implements engine.PackageResolver.
func (r *Registry) ResolvePackage(name string) (runtime.Cell, bool) {
	pkg, ok := r.packages[name]
	if !ok {
		r.logger.WithField("package", name).Debug("unknown package requested")
	}
	return pkg, ok
}

// PackageNames returns every registered package name in sorted order, for
// diagnostics. UnknownPackage errors carry no name suggestion.
func (r *Registry) PackageNames() []string {
	names := make([]string, 0, len(r.packages))
	for name := range r.packages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
