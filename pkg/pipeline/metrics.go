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

package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Run metrics
	runDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "connaudit_run_duration_seconds",
			Help:    "Time taken by a complete report run",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300},
		},
	)

	runTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "connaudit_run_total",
			Help: "Total number of report runs",
		},
		[]string{"status"}, // success or error
	)

	// Directory build metrics
	directoryBuildDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "connaudit_directory_build_duration_seconds",
			Help:    "Time taken to build an identity directory",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60},
		},
		[]string{"source"}, // cloud, orchestrator
	)

	directoryBuildTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "connaudit_directory_build_total",
			Help: "Total number of identity directory builds by outcome",
		},
		[]string{"source", "status"}, // complete, degraded, skipped
	)

	directoryEntries = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "connaudit_directory_entries",
			Help: "Number of addresses in the last built identity directory",
		},
		[]string{"source"},
	)

	// Report metrics
	idleConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "connaudit_idle_connections",
			Help: "Number of sessions in the last snapshot",
		},
	)

	mappedConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "connaudit_mapped_connections",
			Help: "Number of sessions resolved to a name in the last report",
		},
	)
)
