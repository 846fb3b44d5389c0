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

package defaults

import "time"

// Store timeouts for the session snapshot.
const (
	// StoreConnectTimeout bounds opening and pinging the session store.
	StoreConnectTimeout = 10 * time.Second

	// StoreQueryTimeout bounds the snapshot query including row scanning.
	StoreQueryTimeout = 30 * time.Second
)

// Directory timeouts. Each bounds a single external call; a builder may make many.
const (
	// CloudAPICallTimeout is the timeout for one DescribeInstances page.
	CloudAPICallTimeout = 15 * time.Second

	// OrchestratorAPICallTimeout is the timeout for one pod list page.
	OrchestratorAPICallTimeout = 30 * time.Second

	// DirectoryBuildTimeout caps a whole directory build.
	// Builders return what they have when it fires.
	DirectoryBuildTimeout = 2 * time.Minute
)

// Directory paging.
const (
	// CloudPageSize is the MaxResults sent with each DescribeInstances call (5..1000).
	CloudPageSize int32 = 500

	// CloudPagesPerSecond paces DescribeInstances pages to stay under API throttling.
	CloudPagesPerSecond = 5

	// OrchestratorPageSize is the limit sent with each pod list call.
	OrchestratorPageSize int64 = 500
)

// CLI timeouts.
const (
	// RunTimeout is the default deadline for one report run.
	RunTimeout = 5 * time.Minute
)
