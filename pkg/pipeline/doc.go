// Package pipeline runs one idle-session report end to end.
//
// A Runner takes the session snapshot first; a store failure aborts the run.
// The cloud and orchestrator directories are then built concurrently, each
// under its own timeout. A failing builder never fails the run: its Result is
// marked degraded and reconciliation proceeds with whatever it produced.
// Manual overrides are merged over the cloud directory before every record is
// labelled and handed to the Emitter.
//
// When the snapshot is empty the directory builds are skipped entirely.
//
// Runs record Prometheus metrics on the default registry:
//
//	connaudit_run_duration_seconds
//	connaudit_run_total{status}
//	connaudit_directory_build_duration_seconds{source}
//	connaudit_directory_build_total{source,status}
//	connaudit_directory_entries{source}
//	connaudit_idle_connections
//	connaudit_mapped_connections
package pipeline
