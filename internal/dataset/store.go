// Package dataset persists named tables as columnar parquet blobs.
// The physical medium — local disk or an S3-compatible object store —
// hides behind the Store interface so sync code never knows which one
// it is writing to.
package dataset

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Load and Stat when a dataset has never
// been written. First runs treat it as "empty dataset", not a failure.
var ErrNotFound = errors.New("dataset not found")

// Store reads and writes dataset blobs by logical name.
type Store interface {
	// Save persists a dataset blob, replacing any previous version.
	Save(ctx context.Context, name string, data []byte) error

	// Load returns a dataset blob, or ErrNotFound if absent.
	Load(ctx context.Context, name string) ([]byte, error)

	// Stat returns the stored blob size, or ErrNotFound if absent.
	Stat(ctx context.Context, name string) (int64, error)
}

// blobKey maps a logical dataset name to its stored object name.
func blobKey(name string) string {
	return name + ".parquet"
}
