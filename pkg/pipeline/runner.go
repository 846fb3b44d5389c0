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

	"golang.org/x/sync/errgroup"

	"github.com/NVIDIA/connaudit/pkg/directory"
	"github.com/NVIDIA/connaudit/pkg/errors"
	"github.com/NVIDIA/connaudit/pkg/reconcile"
)

// Run takes the snapshot, builds both directories concurrently, reconciles
// and emits. Only store failures and artifact write failures are returned;
// directory failures degrade the report instead.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	if r.collector == nil || r.emitter == nil {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "runner requires a collector and an emitter")
	}

	start := time.Now()
	defer func() {
		runDuration.Observe(time.Since(start).Seconds())
	}()

	res, err := r.run(ctx)
	if err != nil {
		runTotal.WithLabelValues("error").Inc()
		r.logger.Error("run failed",
			slog.String("code", string(errors.CodeOf(err))),
			slog.String("error", err.Error()))
		return nil, err
	}

	runTotal.WithLabelValues("success").Inc()
	return res, nil
}

func (r *Runner) run(ctx context.Context) (*Result, error) {
	snap, err := r.collector.Collect(ctx)
	if err != nil {
		return nil, err
	}
	idleConnections.Set(float64(len(snap)))
	r.logger.Info("collected sessions", slog.Int("count", len(snap)))

	res := &Result{
		Snapshot:     snap,
		Cloud:        directory.Skipped(directory.SourceCloud),
		Orchestrator: directory.Skipped(directory.SourceOrchestrator),
	}

	// nothing to resolve, so no API traffic
	if len(snap) == 0 {
		res.Summary, err = r.emitter.Emit(ctx, snap, nil)
		return res, err
	}

	dirs := r.BuildDirectories(ctx)
	res.Cloud, res.Orchestrator = dirs.Cloud, dirs.Orchestrator

	res.Resolved = reconcile.Reconcile(snap, dirs.Instances, dirs.Pods)
	matched, _ := reconcile.Count(res.Resolved)
	mappedConnections.Set(float64(matched))

	res.Summary, err = r.emitter.Emit(ctx, snap, res.Resolved)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// BuildDirectories runs both builders concurrently and returns their
// normalized directories, with manual overrides merged over the cloud one.
func (r *Runner) BuildDirectories(ctx context.Context) *Directories {
	d := &Directories{
		Cloud:        directory.Skipped(directory.SourceCloud),
		Orchestrator: directory.Skipped(directory.SourceOrchestrator),
	}

	// Builders never return errors, so the group never cancels a sibling.
	var g errgroup.Group
	g.Go(func() error {
		d.Cloud = r.build(ctx, directory.SourceCloud, r.cloud)
		return nil
	})
	g.Go(func() error {
		d.Orchestrator = r.build(ctx, directory.SourceOrchestrator, r.orchestrator)
		return nil
	})
	_ = g.Wait()

	d.Instances = directory.Merge(d.Cloud.Directory.Normalize(), r.overrides.Normalize())
	d.Pods = d.Orchestrator.Directory.Normalize()

	r.logger.Debug("identity directories ready",
		slog.Int("instances", len(d.Instances)),
		slog.Int("pods", len(d.Pods)),
		slog.String("cloud_status", string(d.Cloud.Status)),
		slog.String("orchestrator_status", string(d.Orchestrator.Status)))

	return d
}

func (r *Runner) build(ctx context.Context, src directory.Source, b directory.Builder) directory.Result {
	var res directory.Result
	if b == nil {
		res = directory.Skipped(src)
		r.logger.Info("identity source disabled", slog.String("source", src.String()))
	} else {
		bctx, cancel := context.WithTimeout(ctx, r.buildTimeout)
		res = b.Build(bctx)
		cancel()
		if res.Directory == nil {
			res.Directory = directory.New()
		}
		directoryBuildDuration.WithLabelValues(src.String()).Observe(res.Duration.Seconds())
	}

	directoryBuildTotal.WithLabelValues(src.String(), string(res.Status)).Inc()
	directoryEntries.WithLabelValues(src.String()).Set(float64(len(res.Directory)))

	if res.IsDegraded() {
		attrs := []any{slog.String("source", src.String()), slog.Int("entries", len(res.Directory))}
		if res.Cause != nil {
			attrs = append(attrs, slog.String("error", res.Cause.Error()))
		}
		r.logger.Warn("identity directory degraded", attrs...)
	}
	return res
}
