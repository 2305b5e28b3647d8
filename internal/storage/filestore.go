package storage

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileStore keeps one blob per tracker id in a flat directory. Writes are
// gzipped (.json.gz); reads also accept plain .json files written by older
// tracker versions. Get returns the stored bytes verbatim — decompression is
// the envelope decoder's job.
type FileStore struct {
	dir string
}

// NewFileStore creates the blob directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create blob directory %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

// Get returns the raw blob for a tracker id, or ErrSnapshotNotFound when
// neither a compressed nor a plain file exists.
func (s *FileStore) Get(_ context.Context, trackerID string) ([]byte, error) {
	for _, name := range []string{trackerID + ".json.gz", trackerID + ".json"} {
		data, err := os.ReadFile(filepath.Join(s.dir, name))
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read snapshot %s: %w", trackerID, err)
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrSnapshotNotFound, trackerID)
}

// Put writes the blob gzipped under the tracker id, replacing any previous
// snapshot for the same id.
func (s *FileStore) Put(_ context.Context, trackerID string, payload []byte) error {
	path := filepath.Join(s.dir, trackerID+".json.gz")

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create snapshot file: %w", err)
	}

	zw := gzip.NewWriter(f)
	if _, err := zw.Write(payload); err != nil {
		f.Close()
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := zw.Close(); err != nil {
		f.Close()
		return fmt.Errorf("failed to flush snapshot: %w", err)
	}
	return f.Close()
}
