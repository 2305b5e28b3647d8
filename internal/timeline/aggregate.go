package timeline

import (
	"strings"

	"tft-analyzer/internal/stage"
)

// RoundSummary is the compact per-round view used by the summary report:
// enough to follow the player's health and economy curve without the full
// board detail. Income and rerolls are omitted from JSON when zero to keep
// summaries compact.
type RoundSummary struct {
	Round     int             `json:"round"`
	Label     string          `json:"label"`
	Type      stage.RoundType `json:"type"`
	Health    int             `json:"health"`
	Gold      int             `json:"gold"`
	Level     int             `json:"level"`
	BoardSize int             `json:"boardSize"`
	Income    int             `json:"income,omitempty"`
	Rerolls   int             `json:"rerolls,omitempty"`
	Outcome   string          `json:"outcome,omitempty"`
}

// EconomyTotals accumulates economy actions across the whole match.
type EconomyTotals struct {
	TotalRerolls int `json:"totalRerolls"`
	TotalIncome  int `json:"totalIncome"`
}

// Aggregate walks the normalized stage sequence in order and produces the
// compact per-round summaries plus running economy totals. playerName is the
// requesting player's game name, used to pick their entry out of each
// round's outcome mapping.
func Aggregate(stages []stage.Snapshot, playerName string) ([]RoundSummary, EconomyTotals) {
	rounds := make([]RoundSummary, 0, len(stages))
	var totals EconomyTotals

	for i, s := range stages {
		totals.TotalRerolls += s.Rerolls
		totals.TotalIncome += s.GoldEarned

		rounds = append(rounds, RoundSummary{
			Round:     i + 1,
			Label:     s.RoundLabel,
			Type:      s.RoundType,
			Health:    s.Health,
			Gold:      s.Gold,
			Level:     s.Level,
			BoardSize: len(s.Board),
			Income:    s.GoldEarned,
			Rerolls:   s.Rerolls,
			Outcome:   OutcomeFor(s.Outcomes, playerName),
		})
	}

	return rounds, totals
}

// OutcomeFor picks the outcome entry whose player key case-insensitively
// contains the requesting player's game name. First match in document order
// wins; the source format gives no guarantee when two names substring-match,
// so collisions resolve to whichever entry the tracker wrote first.
func OutcomeFor(outcomes []stage.RoundOutcome, playerName string) string {
	if playerName == "" {
		return ""
	}
	needle := strings.ToLower(playerName)
	for _, o := range outcomes {
		if strings.Contains(strings.ToLower(o.Player), needle) {
			return o.Result
		}
	}
	return ""
}
