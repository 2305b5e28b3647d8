package riot

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	json "github.com/goccy/go-json"
)

const (
	// Rate limits for a dev key (conservative values to stay under the
	// actual 20/s and 100/2min limits)
	requestsPerSecond = 15
	requestsPer2Min   = 90
)

// Client is a rate-limited Riot TFT API client.
type Client struct {
	apiKey     string
	httpClient *http.Client

	// Rate limiting
	mu          sync.Mutex
	shortWindow []time.Time // Requests in last second
	longWindow  []time.Time // Requests in last 2 minutes
}

// NewClient creates a new Riot API client from the RIOT_API_KEY env var.
func NewClient() (*Client, error) {
	apiKey := os.Getenv("RIOT_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("RIOT_API_KEY environment variable not set")
	}

	return &Client{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		shortWindow: make([]time.Time, 0),
		longWindow:  make([]time.Time, 0),
	}, nil
}

// RegionalHost maps a platform server (the envelope's `server` field) to its
// regional routing host.
func RegionalHost(server string) string {
	switch server {
	case "EUW1", "EUN1", "TR1", "RU":
		return "https://europe.api.riotgames.com"
	case "KR", "JP1":
		return "https://asia.api.riotgames.com"
	case "OC1", "PH2", "SG2", "TH2", "TW2", "VN2":
		return "https://sea.api.riotgames.com"
	default:
		return "https://americas.api.riotgames.com"
	}
}

// waitForRateLimit blocks until another request fits both windows.
func (c *Client) waitForRateLimit() {
	for {
		c.mu.Lock()

		now := time.Now()
		oneSecondAgo := now.Add(-1 * time.Second)
		twoMinutesAgo := now.Add(-2 * time.Minute)

		newShort := make([]time.Time, 0, len(c.shortWindow))
		for _, t := range c.shortWindow {
			if t.After(oneSecondAgo) {
				newShort = append(newShort, t)
			}
		}
		c.shortWindow = newShort

		newLong := make([]time.Time, 0, len(c.longWindow))
		for _, t := range c.longWindow {
			if t.After(twoMinutesAgo) {
				newLong = append(newLong, t)
			}
		}
		c.longWindow = newLong

		if len(c.shortWindow) >= requestsPerSecond {
			waitTime := c.shortWindow[0].Add(time.Second).Sub(now) + 100*time.Millisecond
			c.mu.Unlock()
			time.Sleep(waitTime)
			continue
		}

		if len(c.longWindow) >= requestsPer2Min {
			waitTime := c.longWindow[0].Add(2*time.Minute).Sub(now) + 100*time.Millisecond
			c.mu.Unlock()
			fmt.Printf("[Rate limit] %d req/2min, waiting %.1fs...\n", len(c.longWindow), waitTime.Seconds())
			time.Sleep(waitTime)
			continue
		}

		c.shortWindow = append(c.shortWindow, time.Now())
		c.longWindow = append(c.longWindow, time.Now())
		c.mu.Unlock()
		return
	}
}

// doRaw makes a rate-limited request and returns the raw response body.
func (c *Client) doRaw(ctx context.Context, url string) ([]byte, error) {
	c.waitForRateLimit()

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Riot-Token", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, fmt.Errorf("not found: %s", url)
	case http.StatusForbidden, http.StatusUnauthorized:
		return nil, fmt.Errorf("API key rejected (status %d)", resp.StatusCode)
	default:
		return nil, fmt.Errorf("riot API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return body, nil
}

// MatchIDs returns the most recent TFT match ids for a player.
func (c *Client) MatchIDs(ctx context.Context, server, puuid string, count int) ([]string, error) {
	url := fmt.Sprintf("%s/tft/match/v1/matches/by-puuid/%s/ids?count=%d",
		RegionalHost(server), puuid, count)

	body, err := c.doRaw(ctx, url)
	if err != nil {
		return nil, err
	}

	var ids []string
	if err := json.Unmarshal(body, &ids); err != nil {
		return nil, fmt.Errorf("failed to parse match ids: %w", err)
	}
	return ids, nil
}

// MatchBytes returns the raw payload for one TFT match. The bytes are kept
// opaque; collectors store them as-is and the envelope decoder deals with
// the format.
func (c *Client) MatchBytes(ctx context.Context, server, matchID string) ([]byte, error) {
	url := fmt.Sprintf("%s/tft/match/v1/matches/%s", RegionalHost(server), matchID)
	return c.doRaw(ctx, url)
}
