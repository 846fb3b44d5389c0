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

package directory

import (
	"context"
	"maps"
	"slices"
	"time"

	"github.com/NVIDIA/connaudit/pkg/address"
)

// Source identifies the system an identity entry came from.
type Source string

const (
	// SourceManual marks entries from the curated override table.
	SourceManual Source = "manual"
	// SourceCloud marks entries from the compute-instance inventory.
	SourceCloud Source = "cloud"
	// SourceOrchestrator marks entries from the pod listing.
	SourceOrchestrator Source = "orchestrator"
)

// String implements fmt.Stringer.
func (s Source) String() string {
	return string(s)
}

// Entry maps one address to a display name.
type Entry struct {
	Address string `json:"address" yaml:"address"`
	Name    string `json:"name" yaml:"name"`
	Source  Source `json:"source" yaml:"source"`
}

// Directory is an address to identity mapping. Keys are unique; Set on an
// existing key overwrites it.
type Directory map[string]Entry

// New returns an empty directory.
func New() Directory {
	return make(Directory)
}

// FromMap builds a directory from a plain address to name map.
func FromMap(m map[string]string, src Source) Directory {
	d := make(Directory, len(m))
	for addr, name := range m {
		d.Set(addr, name, src)
	}
	return d
}

// Set records name for addr. Empty addresses are ignored.
func (d Directory) Set(addr, name string, src Source) {
	if addr == "" {
		return
	}
	d[addr] = Entry{Address: addr, Name: name, Source: src}
}

// Lookup returns the entry for addr.
func (d Directory) Lookup(addr string) (Entry, bool) {
	e, ok := d[addr]
	return e, ok
}

// Addresses returns the keys in sorted order.
func (d Directory) Addresses() []string {
	return slices.Sorted(maps.Keys(d))
}

// Entries returns all entries ordered by address.
func (d Directory) Entries() []Entry {
	out := make([]Entry, 0, len(d))
	for _, a := range d.Addresses() {
		out = append(out, d[a])
	}
	return out
}

// Normalize returns a copy keyed by normalized address. When two keys collapse
// to the same address, the one that sorts last wins, keeping the result
// independent of map iteration order.
func (d Directory) Normalize() Directory {
	out := make(Directory, len(d))
	for _, a := range d.Addresses() {
		e := d[a]
		out.Set(address.Normalize(a), e.Name, e.Source)
	}
	return out
}

// Listing is an ordered sequence of entries that renders as a table.
type Listing []Entry

// Columns implements serializer.Tabular.
func (l Listing) Columns() []string {
	return []string{"address", "name", "source"}
}

// Rows implements serializer.Tabular.
func (l Listing) Rows() [][]string {
	rows := make([][]string, 0, len(l))
	for _, e := range l {
		rows = append(rows, []string{e.Address, e.Name, e.Source.String()})
	}
	return rows
}

// Merge returns a new directory holding base overlaid with override.
// Entries in override win on key collision.
func Merge(base, override Directory) Directory {
	out := make(Directory, len(base)+len(override))
	maps.Copy(out, base)
	maps.Copy(out, override)
	return out
}

// Status describes how complete a directory build was.
type Status string

const (
	// StatusComplete means every page of the source was read.
	StatusComplete Status = "complete"
	// StatusDegraded means the build stopped early; the directory is partial or empty.
	StatusDegraded Status = "degraded"
	// StatusSkipped means the source was disabled for this run.
	StatusSkipped Status = "skipped"
)

// Result is the outcome of one directory build. Directory is never nil.
type Result struct {
	Source    Source
	Directory Directory
	Status    Status
	// Cause is set when Status is StatusDegraded.
	Cause    error
	Duration time.Duration
}

// Complete returns a successful result.
func Complete(src Source, d Directory, took time.Duration) Result {
	return Result{Source: src, Directory: orEmpty(d), Status: StatusComplete, Duration: took}
}

// Degraded returns a result carrying whatever was accumulated before cause.
func Degraded(src Source, partial Directory, cause error, took time.Duration) Result {
	return Result{Source: src, Directory: orEmpty(partial), Status: StatusDegraded, Cause: cause, Duration: took}
}

// Skipped returns an empty result for a disabled source.
func Skipped(src Source) Result {
	return Result{Source: src, Directory: New(), Status: StatusSkipped}
}

// IsDegraded reports whether the build ended early.
func (r Result) IsDegraded() bool {
	return r.Status == StatusDegraded
}

func orEmpty(d Directory) Directory {
	if d == nil {
		return New()
	}
	return d
}

// Builder produces one identity directory. Build never fails: problems are
// reported through a degraded Result.
type Builder interface {
	Build(ctx context.Context) Result
}

// BuilderFunc adapts a function to Builder.
type BuilderFunc func(ctx context.Context) Result

// Build implements Builder.
func (f BuilderFunc) Build(ctx context.Context) Result {
	return f(ctx)
}

// Static returns a Builder that always yields d from src.
func Static(src Source, d Directory) Builder {
	return BuilderFunc(func(context.Context) Result {
		return Complete(src, d, 0)
	})
}
