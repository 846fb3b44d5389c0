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

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/connaudit/pkg/directory"
	"github.com/NVIDIA/connaudit/pkg/pipeline"
	"github.com/NVIDIA/connaudit/pkg/serializer"
)

func directoriesCmd() *cli.Command {
	return &cli.Command{
		Name:                  "directories",
		EnableShellCompletion: true,
		Usage:                 "Print the merged identity directories without touching the database",
		Description: `Build the manual, EC2 and Kubernetes identity directories exactly as a
report run would and print every address with its name and source. Use it to
check AWS and cluster access before scheduling reports.

Manual overrides replace EC2 entries for the same address; pod entries are
listed after them. The default output format is table.

# Examples

  connaudit directories --region us-east-1
  connaudit directories --skip-cloud --kubeconfig ~/.kube/prod --format json`,
		Flags: append([]cli.Flag{
			formatFlag(),
			timeoutFlag(),
		}, sourceFlags()...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			format := serializer.FormatTable
			if cmd.IsSet(flagFormat) {
				if format, err = serializer.ParseFormat(cmd.String(flagFormat)); err != nil {
					return err
				}
			}

			ctx, cancel := context.WithTimeout(ctx, cmd.Duration(flagTimeout))
			defer cancel()

			log := runLogger()
			dirs := pipeline.NewRunner(append(sourceOptions(cfg, log), pipeline.WithLogger(log))...).
				BuildDirectories(ctx)

			for _, r := range []directory.Result{dirs.Cloud, dirs.Orchestrator} {
				log.Info("identity source",
					slog.String("source", r.Source.String()),
					slog.String("status", string(r.Status)),
					slog.Int("entries", len(r.Directory)),
					slog.Duration("duration", r.Duration))
			}

			listing := directory.Listing(dirs.Instances.Entries())
			listing = append(listing, dirs.Pods.Entries()...)

			return serializer.NewWriter(format, cmd.Root().Writer).Serialize(ctx, listing)
		},
	}
}
