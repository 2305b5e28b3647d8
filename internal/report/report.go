package report

import (
	"tft-analyzer/internal/stage"
	"tft-analyzer/internal/timeline"
)

// Mode selects how much per-stage detail the assembled report carries.
type Mode string

const (
	// ModeSummary emits the compact round list plus detail only at key
	// decision points.
	ModeSummary Mode = "summary"
	// ModeComplete emits detail for every stage and drops the compact list,
	// which would be redundant with the full detail.
	ModeComplete Mode = "complete"
)

// ParseMode maps a requested mode string onto a Mode. Anything that is not
// exactly "complete" — including an absent value — falls back to summary;
// an invalid mode is never an error.
func ParseMode(s string) Mode {
	if s == string(ModeComplete) {
		return ModeComplete
	}
	return ModeSummary
}

// Request carries the caller's parameters for one analysis.
type Request struct {
	MatchIdentifier string
	Mode            Mode
}

// Resolver maps opaque tracker identifiers to display names. Implementations
// are populated once at process start and read-only afterwards; the assembler
// never emits a raw opaque id in its output.
type Resolver interface {
	ChampionName(id string) string
	ItemName(id string) string
}

// Piece is a board/bench unit with resolved names.
type Piece struct {
	Unit  string   `json:"unit"`
	Star  int      `json:"star"`
	Items []string `json:"items,omitempty"`
}

// DamageEntry is one resolved per-unit damage record of a single round.
type DamageEntry struct {
	Unit   string  `json:"unit"`
	Damage float64 `json:"damage"`
	Star   int     `json:"star,omitempty"`
}

// StageDetail is the full per-round snapshot surfaced in reports.
type StageDetail struct {
	Round    int             `json:"round"`
	Label    string          `json:"label"`
	Type     stage.RoundType `json:"type"`
	Opponent string          `json:"opponent,omitempty"`
	Health   int             `json:"health"`
	Gold     int             `json:"gold"`
	Level    int             `json:"level"`
	Board    []Piece         `json:"board"`
	Bench    []Piece         `json:"bench,omitempty"`
	Shop     []string        `json:"shop,omitempty"`
	Damage   []DamageEntry   `json:"damage,omitempty"`
	Outcome  string          `json:"outcome,omitempty"`
}

// Carry is one entry of the ranked damage-contribution list.
type Carry struct {
	Unit        string  `json:"unit"`
	TotalDamage float64 `json:"totalDamage"`
	AvgDamage   float64 `json:"avgDamage"`
	Rounds      int     `json:"rounds"`
	MaxStar     int     `json:"maxStar"`
}

// Report is the single structured result of one match analysis.
type Report struct {
	MatchID   string `json:"matchId"`
	Server    string `json:"server,omitempty"`
	Summoner  string `json:"summoner,omitempty"`
	TrackerID string `json:"trackerId,omitempty"`
	SetName   string `json:"setName,omitempty"`
	RankLabel string `json:"rankLabel,omitempty"`
	Mode      Mode   `json:"mode"`

	// Rounds is the compact economy/HP timeline; summary mode only.
	Rounds []timeline.RoundSummary `json:"rounds,omitempty"`

	// Stages carries detailed snapshots: the key decision points in summary
	// mode, every stage in complete mode.
	Stages []StageDetail `json:"stages"`

	Opening    *StageDetail           `json:"opening,omitempty"`
	Final      *StageDetail           `json:"final,omitempty"`
	FinalBoard []Piece                `json:"finalBoard"`
	TopCarries []Carry                `json:"topCarries"`
	Economy    timeline.EconomyTotals `json:"economy"`
}
