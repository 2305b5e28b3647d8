package storage

import (
	"context"
	"errors"
)

// ErrSnapshotNotFound is returned when no tracker snapshot exists for the
// requested identifier (no tracker was active for that match).
var ErrSnapshotNotFound = errors.New("tracker snapshot not found")

// Source retrieves raw snapshot blobs for a tracker identifier. Blobs may or
// may not be gzip-compressed; the envelope decoder handles both, so sources
// return exactly the bytes they stored.
type Source interface {
	Get(ctx context.Context, trackerID string) ([]byte, error)
}
