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

package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/NVIDIA/connaudit/pkg/defaults"
	"github.com/NVIDIA/connaudit/pkg/directory"
	"github.com/NVIDIA/connaudit/pkg/errors"
	"github.com/NVIDIA/connaudit/pkg/k8s/client"
	"github.com/NVIDIA/connaudit/pkg/logging"
)

// Builder builds the address to pod-name directory from the cluster.
type Builder struct {
	// Kubeconfig is the kubeconfig path; empty uses automatic discovery.
	Kubeconfig string

	// Clientset is used when set; otherwise one is built from Kubeconfig.
	Clientset client.Interface

	// PageSize is the list limit per call. Defaults to defaults.OrchestratorPageSize.
	PageSize int64

	// CallTimeout bounds each list call. Defaults to defaults.OrchestratorAPICallTimeout.
	CallTimeout time.Duration

	Logger *slog.Logger
}

// Build lists pods across all namespaces. Any failure yields an empty,
// degraded Result.
func (b *Builder) Build(ctx context.Context) directory.Result {
	log := logging.OrDefault(b.Logger).With(slog.String("source", directory.SourceOrchestrator.String()))
	start := time.Now()

	dir, pods, err := b.collect(ctx)
	if err != nil {
		cause := errors.WrapWithContext(errors.ErrCodeOrchestratorDirectory, "failed to list pods", err,
			map[string]any{"kubeconfig": client.ResolveKubeconfig(b.Kubeconfig)})

		log.Error("could not fetch pod address mappings, continuing without them",
			slog.String("error", err.Error()))

		return directory.Degraded(directory.SourceOrchestrator, directory.New(), cause, time.Since(start))
	}

	log.Info("built orchestrator identity directory",
		slog.Int("entries", len(dir)),
		slog.Int("pods", pods))

	return directory.Complete(directory.SourceOrchestrator, dir, time.Since(start))
}

func (b *Builder) collect(ctx context.Context) (directory.Directory, int, error) {
	cs, err := b.getClient()
	if err != nil {
		return nil, 0, err
	}

	limit := b.PageSize
	if limit <= 0 {
		limit = defaults.OrchestratorPageSize
	}

	dir := directory.New()
	pods := 0
	opts := metav1.ListOptions{Limit: limit}
	for {
		list, err := b.listPage(ctx, cs, opts)
		if err != nil {
			return nil, 0, err
		}

		for i := range list.Items {
			pods++
			addPod(dir, &list.Items[i])
		}

		if list.Continue == "" {
			return dir, pods, nil
		}
		opts.Continue = list.Continue
	}
}

func (b *Builder) listPage(ctx context.Context, cs client.Interface, opts metav1.ListOptions) (*corev1.PodList, error) {
	timeout := b.CallTimeout
	if timeout <= 0 {
		timeout = defaults.OrchestratorAPICallTimeout
	}
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	list, err := cs.CoreV1().Pods(metav1.NamespaceAll).List(cctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list pods: %w", err)
	}
	return list, nil
}

// addPod records every address assigned to a live pod. Pods in a terminal
// phase are skipped: their addresses may already belong to a running pod.
func addPod(dir directory.Directory, pod *corev1.Pod) {
	switch pod.Status.Phase {
	case corev1.PodSucceeded, corev1.PodFailed:
		return
	}

	name := pod.GetName()
	dir.Set(pod.Status.PodIP, name, directory.SourceOrchestrator)
	for _, ip := range pod.Status.PodIPs {
		dir.Set(ip.IP, name, directory.SourceOrchestrator)
	}
}

func (b *Builder) getClient() (client.Interface, error) {
	if b.Clientset != nil {
		return b.Clientset, nil
	}
	cs, _, err := client.BuildKubeClient(b.Kubeconfig)
	if err != nil {
		return nil, fmt.Errorf("failed to get kubernetes client: %w", err)
	}
	return cs, nil
}
