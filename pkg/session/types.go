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

package session

import (
	"time"
)

// ConnectionRecord is one row of the pg_stat_activity snapshot.
// Records are created once by Collect and passed by value afterwards.
type ConnectionRecord struct {
	PID             int64      `json:"pid" yaml:"pid"`
	Database        string     `json:"datname,omitempty" yaml:"datname,omitempty"`
	User            string     `json:"usename,omitempty" yaml:"usename,omitempty"`
	ApplicationName string     `json:"application_name,omitempty" yaml:"application_name,omitempty"`
	ClientAddr      string     `json:"client_addr" yaml:"client_addr"`
	State           string     `json:"state,omitempty" yaml:"state,omitempty"`
	WaitEventType   string     `json:"wait_event_type,omitempty" yaml:"wait_event_type,omitempty"`
	WaitEvent       string     `json:"wait_event,omitempty" yaml:"wait_event,omitempty"`
	BackendType     string     `json:"backend_type,omitempty" yaml:"backend_type,omitempty"`
	Query           string     `json:"query" yaml:"query"`
	BackendStart    *time.Time `json:"backend_start,omitempty" yaml:"backend_start,omitempty"`
	XactStart       *time.Time `json:"xact_start,omitempty" yaml:"xact_start,omitempty"`
	QueryStart      *time.Time `json:"query_start,omitempty" yaml:"query_start,omitempty"`
	StateChange     *time.Time `json:"state_change,omitempty" yaml:"state_change,omitempty"`
}

// Columns lists the tabular column names of a record, in Values order.
func Columns() []string {
	return []string{
		"pid", "datname", "usename", "application_name", "client_addr", "state",
		"wait_event_type", "wait_event", "backend_type", "query",
		"backend_start", "xact_start", "query_start", "state_change",
	}
}

// Values renders the record as strings in Columns order.
// Timestamps use RFC 3339 with fractional seconds; NULL renders empty.
func (r ConnectionRecord) Values() []string {
	return []string{
		formatInt(r.PID),
		r.Database,
		r.User,
		r.ApplicationName,
		r.ClientAddr,
		r.State,
		r.WaitEventType,
		r.WaitEvent,
		r.BackendType,
		r.Query,
		formatTime(r.BackendStart),
		formatTime(r.XactStart),
		formatTime(r.QueryStart),
		formatTime(r.StateChange),
	}
}

// Snapshot is an ordered set of records as returned by Collect.
type Snapshot []ConnectionRecord

// Columns implements serializer.Tabular.
func (s Snapshot) Columns() []string { return Columns() }

// Rows implements serializer.Tabular.
func (s Snapshot) Rows() [][]string {
	rows := make([][]string, 0, len(s))
	for _, r := range s {
		rows = append(rows, r.Values())
	}
	return rows
}
