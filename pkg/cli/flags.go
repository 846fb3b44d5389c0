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
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/connaudit/pkg/config"
	"github.com/NVIDIA/connaudit/pkg/defaults"
	"github.com/NVIDIA/connaudit/pkg/logging"
	"github.com/NVIDIA/connaudit/pkg/serializer"
)

// Flag names.
const (
	flagConfig           = "config"
	flagEnvFile          = "env-file"
	flagLogLevel         = "log-level"
	flagDSN              = "dsn"
	flagRegion           = "region"
	flagKubeconfig       = "kubeconfig"
	flagSkipCloud        = "skip-cloud"
	flagSkipOrchestrator = "skip-orchestrator"
	flagOutputDir        = "output-dir"
	flagFormat           = "format"
	flagMetricsFile      = "metrics-file"
	flagTimeout          = "timeout"
)

// Flags are built fresh per command: urfave/cli keeps parse state on the flag value.

func configFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    flagConfig,
		Aliases: []string{"c"},
		Usage:   "Path to a YAML config file",
		Sources: cli.EnvVars("CONNAUDIT_CONFIG"),
	}
}

func envFileFlag() *cli.StringSliceFlag {
	return &cli.StringSliceFlag{
		Name:  flagEnvFile,
		Usage: fmt.Sprintf("Dotenv file to load before reading config (default: %s when present)", config.DefaultEnvFile),
	}
}

func logLevelFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    flagLogLevel,
		Usage:   "Log level (debug, info, warn, error)",
		Value:   "info",
		Sources: cli.EnvVars(logging.EnvLogLevel),
	}
}

func dsnFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    flagDSN,
		Usage:   "PostgreSQL connection string (overrides store settings in config)",
		Sources: cli.EnvVars("CONNAUDIT_DSN", "DATABASE_URL"),
	}
}

func regionFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    flagRegion,
		Usage:   "AWS region for the instance inventory",
		Sources: cli.EnvVars("AWS_REGION"),
	}
}

func kubeconfigFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    flagKubeconfig,
		Aliases: []string{"k"},
		Usage:   "Path to kubeconfig file (overrides KUBECONFIG env)",
	}
}

func skipCloudFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:  flagSkipCloud,
		Usage: "Do not query the instance inventory",
	}
}

func skipOrchestratorFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:  flagSkipOrchestrator,
		Usage: "Do not query the cluster for pods",
	}
}

func outputDirFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    flagOutputDir,
		Aliases: []string{"o"},
		Usage:   "Directory the report artifacts are written to",
		Sources: cli.EnvVars("CONNAUDIT_OUTPUT_DIR"),
	}
}

func formatFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    flagFormat,
		Aliases: []string{"t"},
		Usage:   fmt.Sprintf("Output format (supported: %s)", strings.Join(serializer.SupportedFormats(), ", ")),
	}
}

func metricsFileFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    flagMetricsFile,
		Usage:   "Write run metrics in Prometheus text format to this file",
		Sources: cli.EnvVars("CONNAUDIT_METRICS_FILE"),
	}
}

func timeoutFlag() *cli.DurationFlag {
	return &cli.DurationFlag{
		Name:  flagTimeout,
		Usage: "Upper bound for the whole run",
		Value: defaults.RunTimeout,
	}
}

// sourceFlags select and locate the identity sources.
func sourceFlags() []cli.Flag {
	return []cli.Flag{regionFlag(), kubeconfigFlag(), skipCloudFlag(), skipOrchestratorFlag()}
}

// loadConfig reads the config file and applies explicitly set flags on top.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	cfg, err := config.Load(cmd.String(flagConfig))
	if err != nil {
		return nil, err
	}

	if cmd.IsSet(flagDSN) {
		cfg.Store.DSN = cmd.String(flagDSN)
	}
	if cmd.IsSet(flagRegion) {
		cfg.Cloud.Region = cmd.String(flagRegion)
	}
	if cmd.IsSet(flagKubeconfig) {
		cfg.Orchestrator.Kubeconfig = cmd.String(flagKubeconfig)
	}
	if cmd.Bool(flagSkipCloud) {
		cfg.Cloud.Skip = true
	}
	if cmd.Bool(flagSkipOrchestrator) {
		cfg.Orchestrator.Skip = true
	}
	if cmd.IsSet(flagOutputDir) {
		cfg.Output.Dir = cmd.String(flagOutputDir)
	}
	if cmd.IsSet(flagFormat) {
		cfg.Output.Format = cmd.String(flagFormat)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
