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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/kubernetes/fake"
	k8stesting "k8s.io/client-go/testing"

	"github.com/NVIDIA/connaudit/pkg/directory"
	cerrors "github.com/NVIDIA/connaudit/pkg/errors"
)

func pod(ns, name, ip string, phase corev1.PodPhase, extra ...string) *corev1.Pod {
	p := &corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: ns},
		Status:     corev1.PodStatus{Phase: phase, PodIP: ip},
	}
	if ip != "" {
		p.Status.PodIPs = append(p.Status.PodIPs, corev1.PodIP{IP: ip})
	}
	for _, e := range extra {
		p.Status.PodIPs = append(p.Status.PodIPs, corev1.PodIP{IP: e})
	}
	return p
}

func TestBuilder_Build(t *testing.T) {
	cs := fake.NewClientset(
		pod("jobs", "worker-pod-7", "10.0.3.9", corev1.PodRunning),
		pod("web", "api-5d9c", "10.0.3.10", corev1.PodRunning, "fd00::a"),
		pod("web", "pending-no-ip", "", corev1.PodPending),
		pod("jobs", "finished-job", "10.0.3.11", corev1.PodSucceeded),
	)

	r := (&Builder{Clientset: cs}).Build(context.Background())
	assert.Equal(t, directory.StatusComplete, r.Status)
	assert.NoError(t, r.Cause)

	d := r.Directory
	assert.Len(t, d, 3)
	assert.Equal(t, directory.Entry{Address: "10.0.3.9", Name: "worker-pod-7", Source: directory.SourceOrchestrator}, d["10.0.3.9"])
	assert.Equal(t, "api-5d9c", d["10.0.3.10"].Name)
	assert.Equal(t, "api-5d9c", d["fd00::a"].Name)
	_, ok := d["10.0.3.11"]
	assert.False(t, ok, "terminal pods are skipped")
}

func TestBuilder_Paging(t *testing.T) {
	cs := fake.NewClientset()

	var seen []metav1.ListOptions
	cs.PrependReactor("list", "pods", func(action k8stesting.Action) (bool, runtime.Object, error) {
		opts := action.(k8stesting.ListActionImpl).ListOptions
		seen = append(seen, opts)

		if opts.Continue == "" {
			return true, &corev1.PodList{
				ListMeta: metav1.ListMeta{Continue: "page-2"},
				Items:    []corev1.Pod{*pod("a", "pod-a", "10.0.4.1", corev1.PodRunning)},
			}, nil
		}
		return true, &corev1.PodList{
			Items: []corev1.Pod{*pod("b", "pod-b", "10.0.4.2", corev1.PodRunning)},
		}, nil
	})

	r := (&Builder{Clientset: cs, PageSize: 1}).Build(context.Background())
	require.Equal(t, directory.StatusComplete, r.Status)
	assert.Len(t, r.Directory, 2)

	require.Len(t, seen, 2)
	assert.Equal(t, int64(1), seen[0].Limit)
	assert.Equal(t, "page-2", seen[1].Continue)
}

func TestBuilder_FailureIsEmpty(t *testing.T) {
	cs := fake.NewClientset()

	calls := 0
	cs.PrependReactor("list", "pods", func(k8stesting.Action) (bool, runtime.Object, error) {
		calls++
		if calls == 1 {
			return true, &corev1.PodList{
				ListMeta: metav1.ListMeta{Continue: "next"},
				Items:    []corev1.Pod{*pod("a", "pod-a", "10.0.4.1", corev1.PodRunning)},
			}, nil
		}
		return true, nil, errors.New("the server has asked for the client to provide credentials")
	})

	r := (&Builder{Clientset: cs}).Build(context.Background())
	assert.True(t, r.IsDegraded())
	assert.NotNil(t, r.Directory)
	assert.Empty(t, r.Directory, "orchestrator failures drop partial pages")
	assert.Equal(t, cerrors.ErrCodeOrchestratorDirectory, cerrors.CodeOf(r.Cause))
	assert.False(t, cerrors.IsFatal(r.Cause))
}

func TestBuilder_ClientFailure(t *testing.T) {
	r := (&Builder{Kubeconfig: "/nonexistent/kubeconfig"}).Build(context.Background())
	assert.True(t, r.IsDegraded())
	assert.Empty(t, r.Directory)
	assert.Equal(t, cerrors.ErrCodeOrchestratorDirectory, cerrors.CodeOf(r.Cause))
}
