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
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// FileWriter serializes one value to a file atomically: the value is encoded
// in memory, written to a temporary file next to the target and renamed into
// place. Readers never observe a partially written file, and a failed
// Serialize leaves no file behind.
type FileWriter struct {
	format Format
	path   string
}

// NewFileWriter returns a FileWriter for path. Unknown formats default to JSON.
func NewFileWriter(format Format, path string) *FileWriter {
	if format.IsUnknown() {
		format = FormatJSON
	}
	return &FileWriter{format: format, path: path}
}

// Serialize implements Serializer.
func (w *FileWriter) Serialize(ctx context.Context, v any) error {
	var buf bytes.Buffer
	if err := NewWriter(w.format, &buf).Serialize(ctx, v); err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("write of %s canceled: %w", w.path, err)
	}

	return writeAtomic(w.path, buf.Bytes())
}

func writeAtomic(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file in %s: %w", dir, err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write %s: %w", tmp.Name(), err)
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to sync %s: %w", tmp.Name(), err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmp.Name(), err)
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("failed to set permissions on %s: %w", tmp.Name(), err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move %s into place: %w", path, err)
	}
	return nil
}
