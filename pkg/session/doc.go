// Package session collects a point-in-time snapshot of live sessions from a
// PostgreSQL store.
//
// The snapshot is a single read of pg_stat_activity through the pgx database/sql
// driver. The store handle is opened and closed inside Collector.Collect; no
// connection outlives the call. Rows are scanned into the typed ConnectionRecord
// and the result column list is checked once, so a changed query or server
// version surfaces as a STORE_QUERY error instead of silently misaligned data.
//
// Usage:
//
//	c := &session.Collector{DSN: "postgres://monitor@db:5432/app", Logger: log}
//	snap, err := c.Collect(ctx)
package session
