// Package reconcile merges a session snapshot with the identity directories.
//
// Each record is joined on its normalized client address, first against the
// instance directory (cloud entries with manual overrides merged on top) and
// then against the pod directory. The label is chosen by a total precedence:
//
//  1. manual override name
//  2. cloud instance name, unless it is "Unknown"
//  3. orchestrator pod name
//  4. "Unmapped IP"
//
// Every record yields exactly one ResolvedConnection.
package reconcile
