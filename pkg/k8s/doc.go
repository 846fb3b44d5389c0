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

// Package k8s groups the Kubernetes integration used by the orchestrator
// identity source.
//
// The client sub-package builds a clientset from an explicit kubeconfig path,
// the KUBECONFIG variable, ~/.kube/config or the in-cluster service account,
// in that order:
//
//	cs, _, err := client.BuildKubeClient("")
//	if err != nil {
//	    return err
//	}
//	pods, err := cs.CoreV1().Pods("").List(ctx, metav1.ListOptions{Limit: 500})
package k8s
