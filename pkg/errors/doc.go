// Package errors provides structured error types for better observability
// and programmatic error handling across the application.
//
// Store-tier codes (ErrCodeStoreConnectivity, ErrCodeStoreQuery) abort a run.
// Directory-tier codes (ErrCodeCloudDirectory, ErrCodeOrchestratorDirectory) are
// recorded on a degraded directory result and never propagate further.
//
// Example usage:
//
//	err := errors.WrapWithContext(
//	    errors.ErrCodeCloudDirectory,
//	    "failed to describe instances",
//	    cause,
//	    map[string]any{
//	        "region": region,
//	        "reason": "throttled",
//	    },
//	)
package errors
