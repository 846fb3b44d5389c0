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
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/connaudit/pkg/config"
	"github.com/NVIDIA/connaudit/pkg/errors"
	"github.com/NVIDIA/connaudit/pkg/logging"
)

const (
	name           = "connaudit"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// Execute runs the root command with the process arguments and exits with
// status 1 on a fatal error. SIGINT and SIGTERM cancel the run.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if code := exitCode(newRootCmd().Run(ctx, os.Args)); code != 0 {
		stop()
		os.Exit(code)
	}
}

// exitCode logs err and maps it to a process exit status. Advisory errors
// are logged as warnings and do not fail the process.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	attrs := []any{
		slog.String("code", string(errors.CodeOf(err))),
		slog.String("error", err.Error()),
	}
	if !errors.IsFatal(err) {
		slog.Warn("connaudit finished with warnings", attrs...)
		return 0
	}
	slog.Error("connaudit failed", attrs...)
	return 1
}

func newRootCmd() *cli.Command {
	return &cli.Command{
		Name:    name,
		Usage:   "Report idle PostgreSQL sessions with the workload behind each client address",
		Version: fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		Description: `connaudit snapshots pg_stat_activity and labels every session's client
address with a human-readable name, taken in order from the manual override
table, the EC2 instance Name tag and the Kubernetes pod name. Addresses no
source knows are reported as "Unmapped IP".`,
		Flags: []cli.Flag{
			configFlag(),
			envFileFlag(),
			logLevelFlag(),
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if err := config.LoadEnv(cmd.StringSlice(flagEnvFile)...); err != nil {
				return ctx, err
			}
			logging.SetDefaultStructuredLoggerWithLevel(name, version, cmd.String(flagLogLevel))
			return ctx, nil
		},
		Commands: []*cli.Command{
			reportCmd(),
			directoriesCmd(),
		},
	}
}

// runLogger returns the default logger tagged with a fresh run id.
func runLogger() *slog.Logger {
	return slog.Default().With(slog.String("run_id", uuid.NewString()))
}
