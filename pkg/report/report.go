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

package report

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/NVIDIA/connaudit/pkg/errors"
	"github.com/NVIDIA/connaudit/pkg/logging"
	"github.com/NVIDIA/connaudit/pkg/reconcile"
	"github.com/NVIDIA/connaudit/pkg/serializer"
	"github.com/NVIDIA/connaudit/pkg/session"
)

// Default artifact base names; the format supplies the extension.
const (
	DefaultSnapshotName = "idle_connections_prod_db"
	DefaultReportName   = "idle_connections_with_hostname"
)

// Summary describes one emitted report.
type Summary struct {
	Matched      int    `json:"matched" yaml:"matched"`
	Total        int    `json:"total" yaml:"total"`
	SnapshotPath string `json:"snapshotPath,omitempty" yaml:"snapshotPath,omitempty"`
	ReportPath   string `json:"reportPath,omitempty" yaml:"reportPath,omitempty"`
}

// Written reports whether artifacts were produced.
func (s Summary) Written() bool {
	return s.ReportPath != ""
}

// Ratio returns Matched/Total, or 0 for an empty report.
func (s Summary) Ratio() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Matched) / float64(s.Total)
}

// Emitter persists the raw snapshot and the resolved report.
type Emitter struct {
	// Dir is the output directory. Empty means the working directory.
	Dir string

	// Format applies to both artifacts. Defaults to serializer.FormatXLSX.
	Format serializer.Format

	// SnapshotName and ReportName are artifact base names without extension.
	SnapshotName string
	ReportName   string

	Logger *slog.Logger
}

// SnapshotPath returns the raw snapshot artifact path.
func (e *Emitter) SnapshotPath() string {
	return e.path(e.SnapshotName, DefaultSnapshotName)
}

// ReportPath returns the resolved report artifact path.
func (e *Emitter) ReportPath() string {
	return e.path(e.ReportName, DefaultReportName)
}

func (e *Emitter) format() serializer.Format {
	if e.Format == "" || e.Format.IsUnknown() {
		return serializer.FormatXLSX
	}
	return e.Format
}

func (e *Emitter) path(name, def string) string {
	if name == "" {
		name = def
	}
	ext := e.format().Extension()
	if !strings.HasSuffix(name, ext) {
		name += ext
	}
	return filepath.Join(e.Dir, name)
}

// Emit writes both artifacts when raw is non-empty and logs the match ratio.
// An empty snapshot writes nothing and logs a no-op notice instead.
func (e *Emitter) Emit(ctx context.Context, raw session.Snapshot, resolved []reconcile.ResolvedConnection) (Summary, error) {
	log := logging.OrDefault(e.Logger)

	if len(raw) == 0 {
		log.Info("no idle connections found, skipping report")
		return Summary{}, nil
	}

	format := e.format()
	snapPath, reportPath := e.SnapshotPath(), e.ReportPath()

	if err := serializer.NewFileWriter(format, snapPath).Serialize(ctx, raw); err != nil {
		return Summary{}, errors.WrapWithContext(errors.ErrCodeInternal, "failed to write snapshot", err,
			map[string]any{"path": snapPath})
	}
	log.Info("raw snapshot saved", slog.String("path", snapPath), slog.Int("rows", len(raw)))

	if err := serializer.NewFileWriter(format, reportPath).Serialize(ctx, reconcile.Report(resolved)); err != nil {
		return Summary{}, errors.WrapWithContext(errors.ErrCodeInternal, "failed to write report", err,
			map[string]any{"path": reportPath})
	}
	log.Info("resolved report saved", slog.String("path", reportPath))

	matched, total := reconcile.Count(resolved)
	s := Summary{
		Matched:      matched,
		Total:        total,
		SnapshotPath: snapPath,
		ReportPath:   reportPath,
	}

	log.Info("addresses mapped",
		slog.Int("matched", s.Matched),
		slog.Int("total", s.Total),
		slog.Float64("ratio", s.Ratio()))

	return s, nil
}
