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

// Package manual holds the curated address to name overrides. Manual entries
// are the most trusted identity source and win over every other directory.
package manual

import (
	"maps"

	"github.com/NVIDIA/connaudit/pkg/directory"
)

// builtin is compiled into the binary and always present.
var builtin = map[string]string{
	"10.0.1.100": "Manual-App-Server",
	"10.0.1.101": "Manual-ETL-Job",
}

// Builtin returns a copy of the compiled-in override table.
func Builtin() map[string]string {
	return maps.Clone(builtin)
}

// Directory returns the compiled-in overrides with extra layered on top.
// Entries in extra replace built-in entries for the same address.
func Directory(extra map[string]string) directory.Directory {
	d := directory.FromMap(builtin, directory.SourceManual)
	for addr, name := range extra {
		d.Set(addr, name, directory.SourceManual)
	}
	return d
}
