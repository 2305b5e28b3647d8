package storage

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

// TestFileStore_PutGetRoundtrip verifies Put writes gzipped bytes and Get
// returns them verbatim (decompression is the decoder's job).
func TestFileStore_PutGetRoundtrip(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}

	ctx := context.Background()
	payload := []byte(`{"matchId":"NA1_1","stageData":"[]"}`)

	if err := store.Put(ctx, "t-1", payload); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := store.Get(ctx, "t-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	// Stored bytes are compressed; gunzip recovers the payload.
	zr, err := gzip.NewReader(bytes.NewReader(got))
	if err != nil {
		t.Fatalf("Stored blob is not gzip: %v", err)
	}
	plain, err := io.ReadAll(zr)
	if err != nil {
		t.Fatalf("Failed to decompress stored blob: %v", err)
	}
	if !bytes.Equal(plain, payload) {
		t.Errorf("Roundtrip mismatch: got %s, want %s", plain, payload)
	}
}

// TestFileStore_PlainJSONAccepted verifies blobs written uncompressed by
// older tracker versions remain readable.
func TestFileStore_PlainJSONAccepted(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}

	payload := []byte(`{"matchId":"NA1_2"}`)
	if err := os.WriteFile(filepath.Join(dir, "t-2.json"), payload, 0644); err != nil {
		t.Fatalf("Failed to seed plain blob: %v", err)
	}

	got, err := store.Get(context.Background(), "t-2")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("Plain blob mismatch: got %s", got)
	}
}

func TestFileStore_NotFound(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}

	_, err = store.Get(context.Background(), "missing")
	if !errors.Is(err, ErrSnapshotNotFound) {
		t.Errorf("Expected ErrSnapshotNotFound, got %v", err)
	}
}

// TestFileStore_Overwrite verifies Put replaces a previous snapshot for the
// same tracker id.
func TestFileStore_Overwrite(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}

	ctx := context.Background()
	if err := store.Put(ctx, "t-3", []byte("old")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := store.Put(ctx, "t-3", []byte("new")); err != nil {
		t.Fatalf("Second Put failed: %v", err)
	}

	got, err := store.Get(ctx, "t-3")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	zr, _ := gzip.NewReader(bytes.NewReader(got))
	plain, _ := io.ReadAll(zr)
	if string(plain) != "new" {
		t.Errorf("Expected overwritten blob, got %s", plain)
	}
}
