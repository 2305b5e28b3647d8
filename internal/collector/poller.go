package collector

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bits-and-blooms/bloom/v3"
)

const (
	DefaultWorkerCount = 4
	JobChannelBuffer   = 64

	// Bloom filter sizing: comfortably above the number of matches one
	// poller sees in a session
	expectedMatches   = 100_000
	falsePositiveRate = 0.001
)

// MatchLister lists recent match ids for a tracked player.
type MatchLister interface {
	MatchIDs(ctx context.Context, server, puuid string, count int) ([]string, error)
	MatchBytes(ctx context.Context, server, matchID string) ([]byte, error)
}

// Sink persists one raw snapshot blob under a tracker id.
type Sink interface {
	Put(ctx context.Context, trackerID string, payload []byte) error
}

// Player is one tracked account.
type Player struct {
	PUUID  string
	Server string
}

// job is one match to fetch and store.
type job struct {
	server  string
	matchID string
}

// Poller polls tracked players' recent matches and stores blobs for any
// match it has not seen yet, deduplicating with a bloom filter so a long
// session stays memory-bounded.
type Poller struct {
	client  MatchLister
	sink    Sink
	players []Player

	matchesPerPlayer int
	workerCount      int
	interval         time.Duration

	seenMu sync.Mutex
	seen   *bloom.BloomFilter

	stored int64
	failed int64
}

// NewPoller creates a poller over the given tracked players.
func NewPoller(client MatchLister, sink Sink, players []Player) *Poller {
	return &Poller{
		client:           client,
		sink:             sink,
		players:          players,
		matchesPerPlayer: 10,
		workerCount:      DefaultWorkerCount,
		interval:         5 * time.Minute,
		seen:             bloom.NewWithEstimates(expectedMatches, falsePositiveRate),
	}
}

// SetInterval overrides the poll interval.
func (p *Poller) SetInterval(d time.Duration) { p.interval = d }

// SetWorkerCount overrides the fetch worker count.
func (p *Poller) SetWorkerCount(n int) {
	if n > 0 {
		p.workerCount = n
	}
}

// markSeen records a match id in the filter; returns false if it was
// (probably) already there.
func (p *Poller) markSeen(matchID string) bool {
	p.seenMu.Lock()
	defer p.seenMu.Unlock()
	if p.seen.TestString(matchID) {
		return false
	}
	p.seen.AddString(matchID)
	return true
}

// Run polls until the context is cancelled.
func (p *Poller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		if err := p.pollOnce(ctx); err != nil {
			log.Printf("poll pass failed: %v", err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// pollOnce runs one producer/consumer pass over all tracked players.
func (p *Poller) pollOnce(ctx context.Context) error {
	jobs := make(chan job, JobChannelBuffer)

	var wg sync.WaitGroup
	for i := 0; i < p.workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.worker(ctx, jobs)
		}()
	}

	var listErr error
	for _, player := range p.players {
		ids, err := p.client.MatchIDs(ctx, player.Server, player.PUUID, p.matchesPerPlayer)
		if err != nil {
			listErr = fmt.Errorf("failed to list matches for %s: %w", player.PUUID, err)
			continue
		}

		for _, id := range ids {
			if !p.markSeen(id) {
				continue
			}
			select {
			case <-ctx.Done():
				close(jobs)
				wg.Wait()
				return ctx.Err()
			case jobs <- job{server: player.Server, matchID: id}:
			}
		}
	}

	close(jobs)
	wg.Wait()

	fmt.Printf("[Poller] stored=%d failed=%d\n",
		atomic.LoadInt64(&p.stored), atomic.LoadInt64(&p.failed))
	return listErr
}

func (p *Poller) worker(ctx context.Context, jobs <-chan job) {
	for j := range jobs {
		payload, err := p.client.MatchBytes(ctx, j.server, j.matchID)
		if err != nil {
			atomic.AddInt64(&p.failed, 1)
			log.Printf("failed to fetch match %s: %v", j.matchID, err)
			continue
		}

		if err := p.sink.Put(ctx, j.matchID, payload); err != nil {
			atomic.AddInt64(&p.failed, 1)
			log.Printf("failed to store match %s: %v", j.matchID, err)
			continue
		}
		atomic.AddInt64(&p.stored, 1)
	}
}

// Stored returns the number of blobs stored so far.
func (p *Poller) Stored() int64 { return atomic.LoadInt64(&p.stored) }
