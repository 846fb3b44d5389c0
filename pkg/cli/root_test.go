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

package cli

import (
	"fmt"
	"testing"

	"github.com/NVIDIA/connaudit/pkg/errors"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"success", nil, 0},
		{"store connectivity", errors.New(errors.ErrCodeStoreConnectivity, "refused"), 1},
		{"store query", errors.New(errors.ErrCodeStoreQuery, "denied"), 1},
		{"invalid config", errors.New(errors.ErrCodeInvalidRequest, "bad format"), 1},
		{"artifact write", errors.New(errors.ErrCodeInternal, "disk full"), 1},
		{"unclassified", fmt.Errorf("flag provided but not defined: -x"), 1},
		{"cloud directory", errors.New(errors.ErrCodeCloudDirectory, "throttled"), 0},
		{"orchestrator directory", fmt.Errorf("wrapped: %w",
			errors.New(errors.ErrCodeOrchestratorDirectory, "forbidden")), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCode(tt.err); got != tt.want {
				t.Errorf("exitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}
