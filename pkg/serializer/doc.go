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

// Package serializer renders report data to files or stdout.
//
// Supported formats:
//   - xlsx: single-sheet spreadsheet (github.com/xuri/excelize/v2); every cell is a
//     string so addresses never round-trip through a numeric type
//   - csv: header row plus data rows
//   - json / yaml: the value's own encoding
//   - table: aligned text for terminals
//
// xlsx, csv and table need a Tabular value. json and yaml accept anything.
//
// Usage:
//
//	w := serializer.NewFileWriter(serializer.FormatXLSX, "out/report.xlsx")
//	if err := w.Serialize(ctx, rows); err != nil {
//		return err
//	}
//
// FileWriter encodes fully in memory and renames a temporary file into place,
// so a failed or interrupted write never leaves a partial artifact.
package serializer
