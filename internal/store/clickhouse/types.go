package clickhouse

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

import (
	"context"
	"time"
)

type (
	// Metrics records store operations.
	Metrics interface {
		Observe(operation string, err error, started time.Time)
	}

	// Rows is the subset of driver.Rows the store reads.
	Rows interface {
		Next() bool
		Scan(dest ...any) error
		Err() error
		Close() error
	}

	// Batch is the subset of driver.Batch the store writes through.
	Batch interface {
		Append(v ...any) error
		Send() error
		Abort() error
	}

	// Conn is the ClickHouse connection used by the store.
	Conn interface {
		Query(ctx context.Context, query string, args ...any) (Rows, error)
		PrepareBatch(ctx context.Context, query string) (Batch, error)
		Exec(ctx context.Context, query string, args ...any) error
		Close() error
	}
)
