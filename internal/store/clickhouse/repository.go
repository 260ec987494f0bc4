// Package clickhouse keeps proof snapshots in ClickHouse as numbered revisions.
//
// Save writes every proof under a new revision and then records the revision in
// proof_snapshots; Load reads the proofs of the latest recorded revision. A save
// that fails before the marker row is written leaves the previous revision visible.
// Only the newest revisions are kept. Revision numbers are assigned by the process,
// so a database must have a single writing Repository.
package clickhouse

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ClickHouse/clickhouse-go/v2"
)

// Repository is a ClickHouse-backed proof store.
type Repository struct {
	mu      sync.Mutex
	conn    Conn
	metrics Metrics
}

// NewRepository opens a connection described by dsn.
func NewRepository(dsn string, metrics Metrics) (*Repository, error) {
	if dsn == "" {
		return nil, errors.New("clickhouse dsn is required")
	}

	options, err := clickhouse.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse clickhouse dsn: %w", err)
	}

	conn, err := clickhouse.Open(options)
	if err != nil {
		return nil, fmt.Errorf("open clickhouse connection: %w", err)
	}

	return &Repository{conn: driverConn{conn: conn}, metrics: metrics}, nil
}

// Close closes the connection.
func (r *Repository) Close() error {
	return r.conn.Close()
}
