package discord

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"tft-analyzer/internal/report"
)

const (
	// Colors for Discord embeds
	colorRed   = 15158332 // 0xE74C3C - eliminated
	colorGreen = 5763719  // 0x57F287 - survived to match end

	// Default timeout for webhook requests
	defaultWebhookTimeout = 10 * time.Second

	// Max retries for rate limiting
	maxRetries = 3
)

// WebhookPayload represents a Discord webhook message
type WebhookPayload struct {
	Content string  `json:"content,omitempty"`
	Embeds  []Embed `json:"embeds,omitempty"`
}

// Embed represents a Discord embed
type Embed struct {
	Title       string       `json:"title,omitempty"`
	Description string       `json:"description,omitempty"`
	Color       int          `json:"color,omitempty"`
	Fields      []EmbedField `json:"fields,omitempty"`
	Footer      *EmbedFooter `json:"footer,omitempty"`
	Timestamp   string       `json:"timestamp,omitempty"`
}

// EmbedField represents a field in a Discord embed
type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

// EmbedFooter represents the footer of a Discord embed
type EmbedFooter struct {
	Text string `json:"text"`
}

// NewMatchReportPayload renders an assembled match report as a Discord embed:
// final standing, top carries and economy totals.
func NewMatchReportPayload(rep *report.Report) WebhookPayload {
	color := colorGreen
	finalHealth := 0
	finalLabel := ""
	if rep.Final != nil {
		finalHealth = rep.Final.Health
		finalLabel = rep.Final.Label
	}
	if finalHealth <= 0 {
		color = colorRed
	}

	return WebhookPayload{
		Embeds: []Embed{
			{
				Title: fmt.Sprintf("Match Report: %s", rep.Summoner),
				Color: color,
				Fields: []EmbedField{
					{
						Name:   "Final Round",
						Value:  fmt.Sprintf("%s (%d HP)", finalLabel, finalHealth),
						Inline: true,
					},
					{
						Name:   "Economy",
						Value:  fmt.Sprintf("%d gold earned, %d rerolls", rep.Economy.TotalIncome, rep.Economy.TotalRerolls),
						Inline: true,
					},
					{
						Name:  "Top Carries",
						Value: formatCarries(rep.TopCarries),
					},
				},
				Footer: &EmbedFooter{
					Text: fmt.Sprintf("Match %s on %s", rep.MatchID, rep.Server),
				},
			},
		},
	}
}

// formatCarries renders up to three carries as one line each.
func formatCarries(carries []report.Carry) string {
	if len(carries) == 0 {
		return "no damage recorded"
	}
	if len(carries) > 3 {
		carries = carries[:3]
	}

	lines := make([]string, len(carries))
	for i, c := range carries {
		lines[i] = fmt.Sprintf("%d. %s — %s total (%s avg over %d rounds)",
			i+1, c.Unit, formatNumber(int(c.TotalDamage)), formatNumber(int(c.AvgDamage)), c.Rounds)
	}
	return strings.Join(lines, "\n")
}

// WebhookClient sends notifications to Discord webhooks
type WebhookClient struct {
	webhookURL string
	httpClient *http.Client
}

// NewWebhookClient creates a new WebhookClient
func NewWebhookClient(webhookURL string) *WebhookClient {
	return &WebhookClient{
		webhookURL: webhookURL,
		httpClient: &http.Client{
			Timeout: defaultWebhookTimeout,
		},
	}
}

// SendMatchReport posts a finished match report.
func (c *WebhookClient) SendMatchReport(ctx context.Context, rep *report.Report) error {
	return c.sendPayload(ctx, NewMatchReportPayload(rep))
}

// sendPayload sends a webhook payload with retry on rate limiting
func (c *WebhookClient) sendPayload(ctx context.Context, payload WebhookPayload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	for attempt := 0; attempt < maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, "POST", c.webhookURL, bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("request failed: %w", err)
		}
		resp.Body.Close()

		// Success - Discord returns 204 No Content
		if resp.StatusCode == http.StatusNoContent || resp.StatusCode == http.StatusOK {
			return nil
		}

		// Rate limited - wait and retry
		if resp.StatusCode == http.StatusTooManyRequests {
			retryAfter := resp.Header.Get("Retry-After")
			waitDuration := time.Second // Default wait
			if retryAfter != "" {
				if seconds, err := strconv.Atoi(retryAfter); err == nil {
					waitDuration = time.Duration(seconds) * time.Second
				}
			}

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(waitDuration):
				continue
			}
		}

		// Other error
		return fmt.Errorf("webhook request failed with status %d", resp.StatusCode)
	}

	return fmt.Errorf("webhook request failed after %d retries", maxRetries)
}

// formatNumber formats a number with commas (e.g., 47832 -> "47,832")
func formatNumber(n int) string {
	if n < 0 {
		return "-" + formatNumber(-n)
	}
	if n < 1000 {
		return strconv.Itoa(n)
	}

	s := strconv.Itoa(n)
	var result bytes.Buffer
	for i, digit := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			result.WriteRune(',')
		}
		result.WriteRune(digit)
	}
	return result.String()
}
