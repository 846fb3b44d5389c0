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

package client

import (
	"fmt"
	"os"
	"path/filepath"

	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/client-go/util/homedir"
)

// Interface is an alias for kubernetes.Interface so callers can hand in
// fake.NewClientset() in tests.
type Interface = kubernetes.Interface

// Client-side throttling for a one-shot paged listing. client-go defaults to 5/10.
const (
	defaultQPS   float32 = 20
	defaultBurst         = 40
	userAgent            = "connaudit"
)

// ResolveKubeconfig describes the kubeconfig source BuildKubeClient would use
// for the given argument, or "" when in-cluster configuration applies.
// Lookup order: explicit argument, KUBECONFIG (possibly a list of files),
// ~/.kube/config if it exists.
func ResolveKubeconfig(kubeconfig string) string {
	if kubeconfig != "" {
		return kubeconfig
	}
	if env := os.Getenv("KUBECONFIG"); env != "" {
		return env
	}
	home := filepath.Join(homedir.HomeDir(), ".kube", "config")
	if _, err := os.Stat(home); err == nil {
		return home
	}
	return ""
}

// BuildKubeClient creates a Kubernetes client from the resolved kubeconfig,
// falling back to the in-cluster service account when no file is found.
func BuildKubeClient(kubeconfig string) (Interface, *rest.Config, error) {
	config, err := restConfig(kubeconfig)
	if err != nil {
		return nil, nil, err
	}

	config.QPS = defaultQPS
	config.Burst = defaultBurst
	config.UserAgent = userAgent

	cs, err := kubernetes.NewForConfig(config)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create kubernetes client: %w", err)
	}
	return cs, config, nil
}

// restConfig merges kubeconfig files with clientcmd's default loading rules:
// an explicit path alone, else every file in KUBECONFIG, else ~/.kube/config.
// With no usable file it falls back to the in-cluster service account.
func restConfig(explicit string) (*rest.Config, error) {
	rules := clientcmd.NewDefaultClientConfigLoadingRules()
	rules.ExplicitPath = explicit

	c, err := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(rules, &clientcmd.ConfigOverrides{}).ClientConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to build kube config from %q: %w", ResolveKubeconfig(explicit), err)
	}
	return c, nil
}
