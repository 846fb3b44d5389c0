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

package cli

import (
	"context"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/connaudit/pkg/config"
	"github.com/NVIDIA/connaudit/pkg/directory/cloud"
	"github.com/NVIDIA/connaudit/pkg/directory/manual"
	"github.com/NVIDIA/connaudit/pkg/directory/orchestrator"
	"github.com/NVIDIA/connaudit/pkg/pipeline"
	"github.com/NVIDIA/connaudit/pkg/report"
	"github.com/NVIDIA/connaudit/pkg/serializer"
	"github.com/NVIDIA/connaudit/pkg/session"
)

func reportCmd() *cli.Command {
	return &cli.Command{
		Name:                  "report",
		EnableShellCompletion: true,
		Usage:                 "Snapshot live sessions and write the resolved report",
		Description: `Take one snapshot of pg_stat_activity, resolve every client address and
write two artifacts to the output directory:

  idle_connections_prod_db.<ext>          the raw snapshot
  idle_connections_with_hostname.<ext>    the snapshot with client_hostname resolved

Nothing is written when there are no sessions. Failing to reach the database
aborts the run; failing to reach AWS or the cluster only leaves the affected
addresses unresolved.

# Examples

  connaudit report --dsn postgres://monitor@db.internal/prod --region us-east-1
  connaudit report --config connaudit.yaml --format csv --output-dir /tmp/audit
  connaudit report --dsn "$DATABASE_URL" --skip-cloud --metrics-file /var/lib/node_exporter/connaudit.prom`,
		Flags: append([]cli.Flag{
			dsnFlag(),
			outputDirFlag(),
			formatFlag(),
			metricsFileFlag(),
			timeoutFlag(),
		}, sourceFlags()...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := cfg.ValidateStore(); err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(ctx, cmd.Duration(flagTimeout))
			defer cancel()

			log := runLogger()
			_, runErr := newRunner(cfg, log).Run(ctx)

			if path := cmd.String(flagMetricsFile); path != "" {
				if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
					log.Warn("failed to write metrics file",
						slog.String("path", path),
						slog.String("error", err.Error()))
				}
			}
			return runErr
		},
	}
}

// newRunner wires the report pipeline from cfg.
func newRunner(cfg *config.Config, log *slog.Logger) *pipeline.Runner {
	format, err := serializer.ParseFormat(cfg.Output.Format)
	if err != nil {
		format = serializer.FormatXLSX
	}

	opts := []pipeline.Option{
		pipeline.WithLogger(log),
		pipeline.WithCollector(&session.Collector{
			DSN:    cfg.Store.ConnString(),
			Logger: log,
		}),
		pipeline.WithEmitter(&report.Emitter{
			Dir:          cfg.Output.Dir,
			Format:       format,
			SnapshotName: cfg.Output.SnapshotName,
			ReportName:   cfg.Output.ReportName,
			Logger:       log,
		}),
	}
	return pipeline.NewRunner(append(opts, sourceOptions(cfg, log)...)...)
}

// sourceOptions configures the identity sources. Skipped sources get no builder.
func sourceOptions(cfg *config.Config, log *slog.Logger) []pipeline.Option {
	opts := []pipeline.Option{
		pipeline.WithOverrides(manual.Directory(cfg.Overrides)),
	}
	if !cfg.Cloud.Skip {
		opts = append(opts, pipeline.WithCloudBuilder(&cloud.Builder{
			Region: cfg.Cloud.Region,
			Logger: log,
		}))
	}
	if !cfg.Orchestrator.Skip {
		opts = append(opts, pipeline.WithOrchestratorBuilder(&orchestrator.Builder{
			Kubeconfig: cfg.Orchestrator.Kubeconfig,
			Logger:     log,
		}))
	}
	return opts
}
