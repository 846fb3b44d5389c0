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

package session

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver

	"github.com/NVIDIA/connaudit/pkg/defaults"
	"github.com/NVIDIA/connaudit/pkg/errors"
	"github.com/NVIDIA/connaudit/pkg/logging"
)

const driverName = "pgx"

// Query is the fixed snapshot query. The monitoring session's own row is
// excluded by its query text.
const Query = `SELECT pid, datname, usename, application_name, host(client_addr) AS client_addr,
       state, wait_event_type, wait_event, backend_type, query,
       backend_start, xact_start, query_start, state_change
  FROM pg_stat_activity
 WHERE query NOT ILIKE '%pg_stat_activity%'
 ORDER BY query_start DESC`

var (
	sqlOpen = sql.Open
	openMu  sync.Mutex
)

// OverrideSQLOpen swaps the function used to open the store and returns a restore function.
func OverrideSQLOpen(fn func(driverName, dataSourceName string) (*sql.DB, error)) func() {
	openMu.Lock()
	defer openMu.Unlock()
	prev := sqlOpen
	sqlOpen = fn
	return func() {
		openMu.Lock()
		defer openMu.Unlock()
		sqlOpen = prev
	}
}

// Collector takes one snapshot of live sessions from a PostgreSQL store.
type Collector struct {
	// DSN is a pgx connection string (URL or key=value form).
	DSN string

	// ConnectTimeout bounds open and ping. Defaults to defaults.StoreConnectTimeout.
	ConnectTimeout time.Duration

	// QueryTimeout bounds the query and scan. Defaults to defaults.StoreQueryTimeout.
	QueryTimeout time.Duration

	Logger *slog.Logger
}

// Collect opens the store, reads the snapshot and closes the store before returning.
// Failures to reach the store carry errors.ErrCodeStoreConnectivity; query or
// result-shape failures carry errors.ErrCodeStoreQuery.
func (c *Collector) Collect(ctx context.Context) (Snapshot, error) {
	log := logging.OrDefault(c.Logger)

	db, err := c.open(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			log.Warn("failed to close session store", slog.String("error", cerr.Error()))
		}
	}()

	qctx, cancel := context.WithTimeout(ctx, durationOr(c.QueryTimeout, defaults.StoreQueryTimeout))
	defer cancel()

	start := time.Now()
	rows, err := db.QueryContext(qctx, Query)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreQuery, "failed to query pg_stat_activity", err)
	}
	defer rows.Close()

	snap, err := scanRecords(rows)
	if err != nil {
		return nil, err
	}

	log.Info("collected session snapshot",
		slog.Int("count", len(snap)),
		slog.Duration("duration", time.Since(start)))

	return snap, nil
}

func (c *Collector) open(ctx context.Context) (*sql.DB, error) {
	if c.DSN == "" {
		return nil, errors.New(errors.ErrCodeStoreConnectivity, "session store DSN is empty")
	}

	openMu.Lock()
	db, err := sqlOpen(driverName, c.DSN)
	openMu.Unlock()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreConnectivity, "failed to open session store", err)
	}

	// A snapshot needs exactly one connection.
	db.SetMaxOpenConns(1)

	pctx, cancel := context.WithTimeout(ctx, durationOr(c.ConnectTimeout, defaults.StoreConnectTimeout))
	defer cancel()

	if err := db.PingContext(pctx); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(errors.ErrCodeStoreConnectivity, "failed to reach session store", err)
	}
	return db, nil
}

func scanRecords(rows *sql.Rows) (Snapshot, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreQuery, "failed to read result columns", err)
	}
	if want := Columns(); !slices.Equal(cols, want) {
		return nil, errors.NewWithContext(errors.ErrCodeStoreQuery, "unexpected result shape",
			map[string]any{"columns": cols, "expected": want})
	}

	snap := make(Snapshot, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, errors.WrapWithContext(errors.ErrCodeStoreQuery, "failed to scan session row", err,
				map[string]any{"row": len(snap)})
		}
		snap = append(snap, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreQuery, "failed to iterate session rows", err)
	}
	return snap, nil
}

func scanRecord(rows *sql.Rows) (ConnectionRecord, error) {
	var (
		pid                                       sql.NullInt64
		datname, usename, appName, clientAddr     sql.NullString
		state, waitType, waitEvent, backendType   sql.NullString
		query                                     sql.NullString
		backendStart, xactStart, queryStart, chng sql.NullTime
	)

	if err := rows.Scan(
		&pid, &datname, &usename, &appName, &clientAddr,
		&state, &waitType, &waitEvent, &backendType, &query,
		&backendStart, &xactStart, &queryStart, &chng,
	); err != nil {
		return ConnectionRecord{}, err
	}

	if !pid.Valid {
		return ConnectionRecord{}, fmt.Errorf("row has NULL pid")
	}

	return ConnectionRecord{
		PID:             pid.Int64,
		Database:        datname.String,
		User:            usename.String,
		ApplicationName: appName.String,
		ClientAddr:      clientAddr.String,
		State:           state.String,
		WaitEventType:   waitType.String,
		WaitEvent:       waitEvent.String,
		BackendType:     backendType.String,
		Query:           query.String,
		BackendStart:    timePtr(backendStart),
		XactStart:       timePtr(xactStart),
		QueryStart:      timePtr(queryStart),
		StateChange:     timePtr(chng),
	}, nil
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func durationOr(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}
