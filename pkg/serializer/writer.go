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

package serializer

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"
)

// Format represents the output format type
type Format string

const (
	// FormatXLSX outputs a single-sheet spreadsheet.
	FormatXLSX Format = "xlsx"
	// FormatCSV outputs comma-separated values with a header row.
	FormatCSV Format = "csv"
	// FormatJSON outputs data in JSON format
	FormatJSON Format = "json"
	// FormatYAML outputs data in YAML format
	FormatYAML Format = "yaml"
	// FormatTable outputs aligned text columns for terminals.
	FormatTable Format = "table"
)

// IsUnknown reports whether f is not one of the supported formats.
func (f Format) IsUnknown() bool {
	switch f {
	case FormatXLSX, FormatCSV, FormatJSON, FormatYAML, FormatTable:
		return false
	default:
		return true
	}
}

// IsTabular reports whether f requires a Tabular value.
func (f Format) IsTabular() bool {
	return f == FormatXLSX || f == FormatCSV || f == FormatTable
}

// Extension returns the file extension for f, including the dot.
func (f Format) Extension() string {
	switch f {
	case FormatYAML:
		return ".yaml"
	case FormatTable:
		return ".txt"
	default:
		return "." + string(f)
	}
}

// SupportedFormats returns a list of all supported output formats
// for serialization.
func SupportedFormats() []string {
	return []string{
		string(FormatXLSX),
		string(FormatCSV),
		string(FormatJSON),
		string(FormatYAML),
		string(FormatTable),
	}
}

// ParseFormat returns the Format for s, case-insensitively.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if f.IsUnknown() {
		return "", fmt.Errorf("unknown output format %q (supported: %s)", s, strings.Join(SupportedFormats(), ", "))
	}
	return f, nil
}

// Writer encodes values to an io.Writer in one format.
type Writer struct {
	format Format
	output io.Writer
}

// NewWriter creates a new Writer with the specified format and output destination.
// If output is nil, os.Stdout will be used.
// If format is unknown, defaults to JSON format.
func NewWriter(format Format, output io.Writer) *Writer {
	if output == nil {
		output = os.Stdout
	}
	if format.IsUnknown() {
		slog.Warn("unknown format, defaulting to JSON", "format", format)
		format = FormatJSON
	}
	return &Writer{
		format: format,
		output: output,
	}
}


// Serialize writes v in the configured format. Tabular formats reject values
// that do not implement Tabular.
func (w *Writer) Serialize(_ context.Context, v any) error {
	if w.format.IsTabular() {
		t, ok := v.(Tabular)
		if !ok {
			return fmt.Errorf("format %s requires tabular data, got %T", w.format, v)
		}
		return w.serializeTabular(t)
	}

	switch w.format {
	case FormatJSON:
		return w.serializeJSON(v)
	case FormatYAML:
		return w.serializeYAML(v)
	default:
		return fmt.Errorf("unsupported format: %s", w.format)
	}
}

func (w *Writer) serializeTabular(t Tabular) error {
	switch w.format {
	case FormatXLSX:
		return writeXLSX(w.output, t)
	case FormatCSV:
		return w.serializeCSV(t)
	default:
		return w.serializeTable(t)
	}
}

func (w *Writer) serializeJSON(v any) error {
	encoder := json.NewEncoder(w.output)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to serialize to JSON: %w", err)
	}
	return nil
}

func (w *Writer) serializeYAML(v any) error {
	encoder := yaml.NewEncoder(w.output)
	encoder.SetIndent(2)
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to serialize to YAML: %w", err)
	}
	return encoder.Close()
}

func (w *Writer) serializeCSV(t Tabular) error {
	cw := csv.NewWriter(w.output)
	if err := cw.Write(t.Columns()); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	if err := cw.WriteAll(t.Rows()); err != nil {
		return fmt.Errorf("failed to serialize to CSV: %w", err)
	}
	return nil
}

func (w *Writer) serializeTable(t Tabular) error {
	rows := t.Rows()
	if len(rows) == 0 {
		fmt.Fprintln(w.output, "<empty>")
		return nil
	}

	tw := tabwriter.NewWriter(w.output, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.ToUpper(strings.Join(t.Columns(), "\t")))
	for _, r := range rows {
		fmt.Fprintln(tw, strings.Join(sanitizeCells(r), "\t"))
	}
	return tw.Flush()
}

// sanitizeCells flattens multi-line query text so table rows stay on one line.
func sanitizeCells(row []string) []string {
	out := make([]string, len(row))
	for i, c := range row {
		out[i] = strings.Join(strings.Fields(c), " ")
	}
	return out
}
