package livefeed

import (
	"context"
	"errors"
	"sync"
	"testing"

	"tft-analyzer/internal/tracker"
)

type memorySink struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

func newMemorySink() *memorySink {
	return &memorySink{blobs: make(map[string][]byte)}
}

func (m *memorySink) Put(_ context.Context, trackerID string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[trackerID] = payload
	return nil
}

// TestFeed_MatchLifecycle drives the event handler through a full match and
// verifies the flushed blob decodes as a valid envelope.
func TestFeed_MatchLifecycle(t *testing.T) {
	sink := newMemorySink()
	feed := NewFeed(sink)

	feed.handleMessage([]byte(`{"type":"match_start","matchId":"NA1_42","server":"NA1","summonerName":"Tester","trackerId":"t-42","setName":"Set 14"}`))
	feed.handleMessage([]byte(`{"type":"stage","data":{"round":"1-1","me":{"health":100}}}`))
	feed.handleMessage([]byte(`{"type":"stage","data":{"round":"2-1","me":{"health":88}}}`))
	feed.handleMessage([]byte(`{"type":"match_end"}`))

	sink.mu.Lock()
	blob, ok := sink.blobs["t-42"]
	sink.mu.Unlock()
	if !ok {
		t.Fatal("Expected a flushed blob for t-42")
	}

	env, err := tracker.Decode(blob)
	if err != nil {
		t.Fatalf("Flushed blob does not decode: %v", err)
	}
	if env.MatchID != "NA1_42" || env.SummonerName != "Tester" || env.SetName != "Set 14" {
		t.Errorf("Unexpected envelope metadata: %+v", env)
	}
	if len(env.Stages) != 2 {
		t.Errorf("Expected 2 stages, got %d", len(env.Stages))
	}
	if got := env.Stages[1].Get("round").String(); got != "2-1" {
		t.Errorf("Stage order lost: %q", got)
	}
}

// TestFeed_IgnoresOutOfOrderEvents verifies stage and end events without a
// running match are dropped, as is unparsable input.
func TestFeed_IgnoresOutOfOrderEvents(t *testing.T) {
	sink := newMemorySink()
	feed := NewFeed(sink)

	feed.handleMessage([]byte(`{"type":"stage","data":{"round":"1-1"}}`))
	feed.handleMessage([]byte(`{"type":"match_end"}`))
	feed.handleMessage([]byte(`garbage`))

	sink.mu.Lock()
	stored := len(sink.blobs)
	sink.mu.Unlock()
	if stored != 0 {
		t.Errorf("Nothing should flush without a match_start, got %d blobs", stored)
	}
}

// failSink always errors, covering the flush error path.
type failSink struct{}

func (failSink) Put(context.Context, string, []byte) error {
	return errors.New("disk full")
}

// TestFeed_FlushFailureDropsMatch verifies a failed flush does not leave a
// half-open match behind.
func TestFeed_FlushFailureDropsMatch(t *testing.T) {
	feed := NewFeed(failSink{})

	feed.handleMessage([]byte(`{"type":"match_start","trackerId":"t-1"}`))
	feed.handleMessage([]byte(`{"type":"match_end"}`))

	feed.mu.Lock()
	current := feed.current
	feed.mu.Unlock()
	if current != nil {
		t.Error("Match state must clear even when the sink fails")
	}
}
