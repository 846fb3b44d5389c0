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
	"github.com/NVIDIA/connaudit/pkg/address"
	"github.com/NVIDIA/connaudit/pkg/directory"
	"github.com/NVIDIA/connaudit/pkg/directory/cloud"
	"github.com/NVIDIA/connaudit/pkg/session"
)

// UnmappedLabel is the label of a connection no directory could resolve.
const UnmappedLabel = "Unmapped IP"

// Provenance records which rule produced a label.
type Provenance string

const (
	ProvenanceManual       Provenance = Provenance(directory.SourceManual)
	ProvenanceCloud        Provenance = Provenance(directory.SourceCloud)
	ProvenanceOrchestrator Provenance = Provenance(directory.SourceOrchestrator)
	ProvenanceFallback     Provenance = "fallback"
)

// ResolvedConnection is a snapshot record with exactly one resolved label.
type ResolvedConnection struct {
	session.ConnectionRecord `yaml:",inline"`

	// Address is the normalized client address used for the joins.
	Address string `json:"address" yaml:"address"`
	// InstanceName is the cloud directory name joined on Address, manual
	// overrides included. Empty when the address was not found.
	InstanceName string `json:"instance_name,omitempty" yaml:"instance_name,omitempty"`
	// PodName is the orchestrator directory name joined on Address.
	PodName string `json:"pod_name,omitempty" yaml:"pod_name,omitempty"`

	Label      string     `json:"client_hostname" yaml:"client_hostname"`
	Provenance Provenance `json:"resolution_source" yaml:"resolution_source"`
}

// Matched reports whether a directory resolved the connection.
func (r ResolvedConnection) Matched() bool {
	return r.Provenance != ProvenanceFallback
}

// Reconcile joins every record against the instance directory (manual
// overrides already merged in) and then the pod directory, and labels it by
// precedence: manual name, cloud name unless "Unknown", pod name, UnmappedLabel.
// Both directories must already be normalized. The result has one element per
// record, in record order.
func Reconcile(records []session.ConnectionRecord, instances, pods directory.Directory) []ResolvedConnection {
	out := make([]ResolvedConnection, 0, len(records))
	for _, rec := range records {
		out = append(out, resolve(rec, instances, pods))
	}
	return out
}

func resolve(rec session.ConnectionRecord, instances, pods directory.Directory) ResolvedConnection {
	rc := ResolvedConnection{
		ConnectionRecord: rec,
		Address:          address.Normalize(rec.ClientAddr),
	}

	inst, instOK := instances.Lookup(rc.Address)
	pod, podOK := pods.Lookup(rc.Address)
	if instOK {
		rc.InstanceName = inst.Name
	}
	if podOK {
		rc.PodName = pod.Name
	}

	switch {
	case instOK && inst.Source == directory.SourceManual:
		rc.Label, rc.Provenance = inst.Name, ProvenanceManual
	case instOK && inst.Name != cloud.UnknownName:
		rc.Label, rc.Provenance = inst.Name, ProvenanceCloud
	case podOK:
		rc.Label, rc.Provenance = pod.Name, ProvenanceOrchestrator
	default:
		rc.Label, rc.Provenance = UnmappedLabel, ProvenanceFallback
	}
	return rc
}

// Count returns the number of matched connections and the total.
func Count(resolved []ResolvedConnection) (matched, total int) {
	for _, r := range resolved {
		if r.Matched() {
			matched++
		}
	}
	return matched, len(resolved)
}
