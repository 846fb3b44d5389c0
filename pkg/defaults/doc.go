// Package defaults provides centralized timeout and paging constants for connaudit.
//
// # Timeout Categories
//
//   - Store timeouts: opening the session store and running the snapshot query
//   - Directory timeouts: per-call bounds on cloud and orchestrator API requests
//   - CLI timeouts: overall deadline of one run
//
// # Usage
//
//	ctx, cancel := context.WithTimeout(ctx, defaults.CloudAPICallTimeout)
//	defer cancel()
//
// Per-call timeouts must stay shorter than DirectoryBuildTimeout, which in turn
// must stay shorter than RunTimeout, so a slow directory degrades instead of
// consuming the run deadline.
package defaults
