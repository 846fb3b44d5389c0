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

package reconcile

import (
	"github.com/NVIDIA/connaudit/pkg/session"
)

// Report is the resolved sequence in tabular form.
type Report []ResolvedConnection

// Columns implements serializer.Tabular. Record columns come first, followed
// by the join results and the resolved label.
func (r Report) Columns() []string {
	return append(session.Columns(), "address", "instance_name", "pod_name", "client_hostname", "resolution_source")
}

// Rows implements serializer.Tabular.
func (r Report) Rows() [][]string {
	rows := make([][]string, 0, len(r))
	for _, rc := range r {
		rows = append(rows, append(rc.Values(), rc.Address, rc.InstanceName, rc.PodName, rc.Label, string(rc.Provenance)))
	}
	return rows
}
