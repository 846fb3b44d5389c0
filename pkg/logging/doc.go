// Package logging configures log/slog for connaudit.
//
// # Overview
//
// Logs are JSON lines on stderr. Every logger carries module and version
// attributes, and debug-level loggers also record the source location.
//
// # Log Levels
//
// Levels are parsed case-insensitively: debug, info (default), warn/warning, error.
// When no level is passed explicitly the LOG_LEVEL environment variable is used:
//
//	LOG_LEVEL=debug connaudit report
//
// # Usage
//
//	logging.SetDefaultStructuredLoggerWithLevel("connaudit", version, "info")
//	slog.Info("idle connections collected", "count", 12)
//
// Output:
//
//	{"time":"2025-01-15T10:30:00.123Z","level":"INFO","msg":"idle connections collected",
//	 "module":"connaudit","version":"v1.0.0","count":12}
//
// # Integration
//
// Components never reach for a package-level logger. Each receives a
// run-scoped *slog.Logger (see OrDefault), so every line of one run carries
// the same run_id attribute:
//   - pkg/session: snapshot collection
//   - pkg/directory/...: identity directory builds
//   - pkg/report: artifact writes and match statistics
//   - pkg/pipeline: run sequencing
package logging
