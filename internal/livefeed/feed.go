package livefeed

import (
	"context"
	"fmt"
	"log"
	"sync"

	json "github.com/goccy/go-json"
	"github.com/gorilla/websocket"
)

// event is one message from the in-game tracker socket.
type event struct {
	Type         string          `json:"type"`
	MatchID      string          `json:"matchId"`
	Server       string          `json:"server"`
	SummonerName string          `json:"summonerName"`
	TrackerID    string          `json:"trackerId"`
	SetName      string          `json:"setName"`
	RankLabel    string          `json:"rankLabel"`
	Data         json.RawMessage `json:"data"`
}

// envelope is the blob shape flushed at match end. stageData is written as a
// plain array here; the decoder accepts both the array and the
// string-encoded historical form.
type envelope struct {
	MatchID      string            `json:"matchId"`
	Server       string            `json:"server"`
	SummonerName string            `json:"summonerName"`
	TrackerID    string            `json:"trackerId"`
	SetName      string            `json:"setName,omitempty"`
	RankLabel    string            `json:"rankLabel,omitempty"`
	StageData    []json.RawMessage `json:"stageData"`
}

// Sink persists one finished snapshot blob.
type Sink interface {
	Put(ctx context.Context, trackerID string, payload []byte) error
}

// Feed subscribes to a local in-game tracker websocket, accumulates the
// per-round stage events of the running match, and flushes one envelope blob
// into the sink when the match ends.
type Feed struct {
	sink Sink

	mu          sync.Mutex
	conn        *websocket.Conn
	isConnected bool
	stopChan    chan struct{}

	current *envelope
}

// NewFeed creates a feed writing finished matches into the sink.
func NewFeed(sink Sink) *Feed {
	return &Feed{
		sink:     sink,
		stopChan: make(chan struct{}),
	}
}

// Connect dials the tracker socket and starts the event loop.
func (f *Feed) Connect(url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.isConnected {
		return nil
	}

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to tracker socket: %w", err)
	}

	f.conn = conn
	f.isConnected = true

	// Subscribe to match lifecycle and stage events
	if err := conn.WriteJSON(map[string]string{"subscribe": "match"}); err != nil {
		conn.Close()
		f.isConnected = false
		return fmt.Errorf("failed to subscribe: %w", err)
	}

	go f.listen()
	return nil
}

// Close stops the event loop and closes the connection.
func (f *Feed) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.isConnected {
		return
	}
	close(f.stopChan)
	f.conn.Close()
	f.isConnected = false
}

// listen reads messages until the socket closes.
func (f *Feed) listen() {
	defer func() {
		f.mu.Lock()
		f.isConnected = false
		if f.conn != nil {
			f.conn.Close()
		}
		f.mu.Unlock()
	}()

	for {
		select {
		case <-f.stopChan:
			return
		default:
			_, message, err := f.conn.ReadMessage()
			if err != nil {
				return
			}
			f.handleMessage(message)
		}
	}
}

// handleMessage applies one tracker event to the running match state.
// Unknown or out-of-order events are ignored; the feed is defensive for the
// same reason the pipeline is — the tracker side is externally controlled.
func (f *Feed) handleMessage(message []byte) {
	var ev event
	if err := json.Unmarshal(message, &ev); err != nil {
		log.Printf("livefeed: dropping unparsable event: %v", err)
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	switch ev.Type {
	case "match_start":
		f.current = &envelope{
			MatchID:      ev.MatchID,
			Server:       ev.Server,
			SummonerName: ev.SummonerName,
			TrackerID:    ev.TrackerID,
			SetName:      ev.SetName,
			RankLabel:    ev.RankLabel,
			StageData:    []json.RawMessage{},
		}
	case "stage":
		if f.current == nil || len(ev.Data) == 0 {
			return
		}
		f.current.StageData = append(f.current.StageData, ev.Data)
	case "match_end":
		if f.current == nil {
			return
		}
		f.flushLocked()
	}
}

// flushLocked marshals the finished match and hands it to the sink. Caller
// holds f.mu.
func (f *Feed) flushLocked() {
	env := f.current
	f.current = nil

	payload, err := json.Marshal(env)
	if err != nil {
		log.Printf("livefeed: failed to marshal envelope %s: %v", env.TrackerID, err)
		return
	}

	if err := f.sink.Put(context.Background(), env.TrackerID, payload); err != nil {
		log.Printf("livefeed: failed to store snapshot %s: %v", env.TrackerID, err)
		return
	}
	fmt.Printf("livefeed: stored snapshot %s (%d stages)\n", env.TrackerID, len(env.StageData))
}
