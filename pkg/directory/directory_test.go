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
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectory_SetOverwrites(t *testing.T) {
	d := New()
	d.Set("10.0.2.5", "web-prod-1", SourceCloud)
	d.Set("10.0.2.5", "web-prod-2", SourceCloud)
	d.Set("", "ignored", SourceCloud)

	require.Len(t, d, 1)
	e, ok := d.Lookup("10.0.2.5")
	require.True(t, ok)
	assert.Equal(t, "web-prod-2", e.Name)
	assert.Equal(t, SourceCloud, e.Source)
	assert.Equal(t, "10.0.2.5", e.Address)
}

func TestDirectory_Normalize(t *testing.T) {
	d := New()
	d.Set(" 10.0.2.5 ", "web-prod-2", SourceCloud)
	d.Set("10.0.3.9.0", "worker-pod-7", SourceOrchestrator)
	d.Set("10.0.0.0", "zero-host", SourceCloud)

	n := d.Normalize()
	assert.Equal(t, []string{"10.0.0.0", "10.0.2.5", "10.0.3.9"}, n.Addresses())
	e, ok := n.Lookup("10.0.3.9")
	require.True(t, ok)
	assert.Equal(t, "worker-pod-7", e.Name)
	assert.Equal(t, "10.0.3.9", e.Address)

	// the source directory is untouched
	_, ok = d.Lookup("10.0.3.9.0")
	assert.True(t, ok)
}

func TestDirectory_NormalizeCollisionDeterministic(t *testing.T) {
	for i := 0; i < 20; i++ {
		d := New()
		d.Set("10.0.1.7", "a", SourceCloud)
		d.Set("10.0.1.7.0", "b", SourceCloud)
		d.Set(" 10.0.1.7", "c", SourceCloud)

		n := d.Normalize()
		require.Len(t, n, 1)
		// "10.0.1.7.0" sorts last
		assert.Equal(t, "b", n["10.0.1.7"].Name)
	}
}

func TestMerge_OverrideWins(t *testing.T) {
	cloud := FromMap(map[string]string{
		"10.0.1.100": "i-abc",
		"10.0.2.5":   "web-prod-2",
	}, SourceCloud)
	manual := FromMap(map[string]string{
		"10.0.1.100": "Manual-App-Server",
	}, SourceManual)

	merged := Merge(cloud, manual)
	assert.Len(t, merged, 2)
	assert.Equal(t, Entry{Address: "10.0.1.100", Name: "Manual-App-Server", Source: SourceManual}, merged["10.0.1.100"])
	assert.Equal(t, SourceCloud, merged["10.0.2.5"].Source)

	// inputs untouched
	assert.Equal(t, "i-abc", cloud["10.0.1.100"].Name)
}

func TestMerge_Nil(t *testing.T) {
	merged := Merge(nil, nil)
	assert.NotNil(t, merged)
	assert.Empty(t, merged)
}

func TestEntries_Sorted(t *testing.T) {
	d := FromMap(map[string]string{"10.0.0.9": "b", "10.0.0.10": "a"}, SourceOrchestrator)
	entries := d.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "10.0.0.10", entries[0].Address)
	assert.Equal(t, "10.0.0.9", entries[1].Address)
}

func TestResults(t *testing.T) {
	cause := errors.New("throttled")

	c := Complete(SourceCloud, nil, time.Second)
	assert.NotNil(t, c.Directory)
	assert.False(t, c.IsDegraded())
	assert.NoError(t, c.Cause)

	d := Degraded(SourceCloud, FromMap(map[string]string{"10.0.0.1": "x"}, SourceCloud), cause, time.Second)
	assert.True(t, d.IsDegraded())
	assert.Len(t, d.Directory, 1)
	assert.ErrorIs(t, d.Cause, cause)

	s := Skipped(SourceOrchestrator)
	assert.Equal(t, StatusSkipped, s.Status)
	assert.Empty(t, s.Directory)
}

func TestStatic(t *testing.T) {
	d := FromMap(map[string]string{"10.0.3.9": "worker-pod-7"}, SourceOrchestrator)
	r := Static(SourceOrchestrator, d).Build(context.Background())
	assert.Equal(t, StatusComplete, r.Status)
	assert.Equal(t, d, r.Directory)
}

func TestListing(t *testing.T) {
	l := Listing(FromMap(map[string]string{
		"10.0.2.5": "web-prod-2",
		"10.0.1.9": "db-proxy",
	}, SourceCloud).Entries())

	assert.Equal(t, []string{"address", "name", "source"}, l.Columns())
	assert.Equal(t, [][]string{
		{"10.0.1.9", "db-proxy", "cloud"},
		{"10.0.2.5", "web-prod-2", "cloud"},
	}, l.Rows())
}
