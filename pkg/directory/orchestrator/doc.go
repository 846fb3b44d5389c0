// Package orchestrator builds the pod identity directory from the Kubernetes API.
//
// Pods are listed across all namespaces in pages. Each pod with an assigned
// address contributes one entry per address (status.podIP and status.podIPs)
// named after the pod. Any failure, including client construction, yields an
// empty degraded directory.Result carrying errors.ErrCodeOrchestratorDirectory.
package orchestrator
