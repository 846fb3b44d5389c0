// Package client builds the Kubernetes client used by the orchestrator identity
// directory.
//
// Configuration is discovered in order from an explicit kubeconfig path, the
// KUBECONFIG environment variable, ~/.kube/config, and finally the in-cluster
// service account. There is no process-wide cache: a report run builds one
// client and drops it when the directory build ends.
//
//	cs, _, err := client.BuildKubeClient("")
//	if err != nil {
//	    return fmt.Errorf("failed to get kubernetes client: %w", err)
//	}
//	pods, err := cs.CoreV1().Pods("").List(ctx, metav1.ListOptions{Limit: 500})
package client
