// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/NVIDIA/connaudit/pkg/defaults"
	"github.com/NVIDIA/connaudit/pkg/directory"
	"github.com/NVIDIA/connaudit/pkg/directory/manual"
	"github.com/NVIDIA/connaudit/pkg/logging"
	"github.com/NVIDIA/connaudit/pkg/reconcile"
	"github.com/NVIDIA/connaudit/pkg/report"
	"github.com/NVIDIA/connaudit/pkg/session"
)

// Collector takes the session snapshot.
type Collector interface {
	Collect(ctx context.Context) (session.Snapshot, error)
}

// Emitter persists the snapshot and the resolved report.
type Emitter interface {
	Emit(ctx context.Context, raw session.Snapshot, resolved []reconcile.ResolvedConnection) (report.Summary, error)
}

// Result describes one completed run.
type Result struct {
	Snapshot     session.Snapshot
	Resolved     []reconcile.ResolvedConnection
	Cloud        directory.Result
	Orchestrator directory.Result
	Summary      report.Summary
}

// Directories is the outcome of building both identity directories.
type Directories struct {
	Cloud        directory.Result
	Orchestrator directory.Result

	// Instances is the normalized cloud directory with manual overrides merged in.
	Instances directory.Directory
	// Pods is the normalized orchestrator directory.
	Pods directory.Directory
}

// Option configures a Runner.
type Option func(*Runner)

// WithCollector sets the session collector. Required for Run.
func WithCollector(c Collector) Option {
	return func(r *Runner) { r.collector = c }
}

// WithCloudBuilder sets the cloud directory builder. Nil skips the source.
func WithCloudBuilder(b directory.Builder) Option {
	return func(r *Runner) { r.cloud = b }
}

// WithOrchestratorBuilder sets the orchestrator directory builder. Nil skips the source.
func WithOrchestratorBuilder(b directory.Builder) Option {
	return func(r *Runner) { r.orchestrator = b }
}

// WithOverrides sets the manual override directory. Defaults to the built-in table.
func WithOverrides(d directory.Directory) Option {
	return func(r *Runner) { r.overrides = d }
}

// WithEmitter sets the report emitter. Required for Run.
func WithEmitter(e Emitter) Option {
	return func(r *Runner) { r.emitter = e }
}

// WithBuildTimeout bounds each directory build.
func WithBuildTimeout(d time.Duration) Option {
	return func(r *Runner) { r.buildTimeout = d }
}

// WithLogger sets the run-scoped logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

// Runner executes collect, build, normalize, reconcile and emit in order.
type Runner struct {
	collector    Collector
	cloud        directory.Builder
	orchestrator directory.Builder
	overrides    directory.Directory
	emitter      Emitter
	buildTimeout time.Duration
	logger       *slog.Logger
}

// NewRunner returns a Runner configured with opts.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		buildTimeout: defaults.DirectoryBuildTimeout,
	}
	for _, o := range opts {
		o(r)
	}
	if r.overrides == nil {
		r.overrides = manual.Directory(nil)
	}
	r.logger = logging.OrDefault(r.logger)
	return r
}
