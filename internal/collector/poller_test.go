package collector

import (
	"context"
	"fmt"
	"sync"
	"testing"
)

// fakeClient serves canned match id lists and payloads.
type fakeClient struct {
	mu      sync.Mutex
	ids     map[string][]string // puuid -> match ids
	fetched []string
}

func (f *fakeClient) MatchIDs(_ context.Context, _, puuid string, _ int) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ids[puuid], nil
}

func (f *fakeClient) MatchBytes(_ context.Context, _, matchID string) ([]byte, error) {
	f.mu.Lock()
	f.fetched = append(f.fetched, matchID)
	f.mu.Unlock()
	return []byte(fmt.Sprintf(`{"matchId":%q}`, matchID)), nil
}

// fakeSink records stored blobs.
type fakeSink struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

func newFakeSink() *fakeSink {
	return &fakeSink{blobs: make(map[string][]byte)}
}

func (f *fakeSink) Put(_ context.Context, trackerID string, payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.blobs[trackerID] = payload
	return nil
}

// TestPoller_StoresNewMatches verifies one pass fetches and stores every
// unseen match across tracked players.
func TestPoller_StoresNewMatches(t *testing.T) {
	client := &fakeClient{ids: map[string][]string{
		"p1": {"NA1_1", "NA1_2"},
		"p2": {"NA1_3"},
	}}
	sink := newFakeSink()

	p := NewPoller(client, sink, []Player{
		{PUUID: "p1", Server: "NA1"},
		{PUUID: "p2", Server: "NA1"},
	})

	if err := p.pollOnce(context.Background()); err != nil {
		t.Fatalf("pollOnce failed: %v", err)
	}

	if len(sink.blobs) != 3 {
		t.Fatalf("Expected 3 stored blobs, got %d", len(sink.blobs))
	}
	if p.Stored() != 3 {
		t.Errorf("Stored() = %d, want 3", p.Stored())
	}
}

// TestPoller_DeduplicatesAcrossPasses verifies the bloom filter keeps a
// second pass from re-fetching matches it already stored.
func TestPoller_DeduplicatesAcrossPasses(t *testing.T) {
	client := &fakeClient{ids: map[string][]string{
		"p1": {"NA1_1", "NA1_2"},
	}}
	sink := newFakeSink()

	p := NewPoller(client, sink, []Player{{PUUID: "p1", Server: "NA1"}})

	if err := p.pollOnce(context.Background()); err != nil {
		t.Fatalf("First pass failed: %v", err)
	}
	if err := p.pollOnce(context.Background()); err != nil {
		t.Fatalf("Second pass failed: %v", err)
	}

	client.mu.Lock()
	fetched := len(client.fetched)
	client.mu.Unlock()
	if fetched != 2 {
		t.Errorf("Expected 2 fetches across both passes, got %d", fetched)
	}
}

// TestPoller_SharedMatchFetchedOnce verifies a match two tracked players
// share is only stored once.
func TestPoller_SharedMatchFetchedOnce(t *testing.T) {
	client := &fakeClient{ids: map[string][]string{
		"p1": {"NA1_7"},
		"p2": {"NA1_7"},
	}}
	sink := newFakeSink()

	p := NewPoller(client, sink, []Player{
		{PUUID: "p1", Server: "NA1"},
		{PUUID: "p2", Server: "NA1"},
	})

	if err := p.pollOnce(context.Background()); err != nil {
		t.Fatalf("pollOnce failed: %v", err)
	}

	client.mu.Lock()
	fetched := len(client.fetched)
	client.mu.Unlock()
	if fetched != 1 {
		t.Errorf("Shared match must be fetched once, got %d fetches", fetched)
	}
}
