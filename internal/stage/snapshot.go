package stage

// RoundType classifies a round as a PvE (minion/monster) or PvP round.
type RoundType string

const (
	RoundTypePVE     RoundType = "PVE"
	RoundTypePVP     RoundType = "PVP"
	RoundTypeUnknown RoundType = "unknown"
)

// BoardPiece is a unit placed on the board or bench, with its star level and
// up to three equipped items.
type BoardPiece struct {
	UnitID    string   `json:"unitId"`
	StarLevel int      `json:"starLevel"`
	ItemIDs   []string `json:"itemIds,omitempty"`
}

// UnitDamage records the damage one unit dealt during a round's combat.
type UnitDamage struct {
	UnitID    string  `json:"unitId"`
	Damage    float64 `json:"damage"`
	StarLevel int     `json:"starLevel"`
}

// PlayerStatus is one entry of the lobby-wide standings at a round boundary.
type PlayerStatus struct {
	Name   string `json:"name"`
	Health int    `json:"health"`
	Level  int    `json:"level"`
}

// RoundOutcome is one entry of the per-player combat outcome mapping. The
// source stores these keyed by player name; the pair order preserves the
// document order of that mapping.
type RoundOutcome struct {
	Player string `json:"player"`
	Result string `json:"result"`
}

// Snapshot is the normalized view of one raw stage record. Every field is
// best-effort: absent or unparsable source data yields zero values and empty
// collections, never an error.
type Snapshot struct {
	RoundLabel string    `json:"roundLabel"`
	RoundType  RoundType `json:"roundType"`
	Opponent   string    `json:"opponent,omitempty"`

	Health int `json:"health"`
	Gold   int `json:"gold"`
	Level  int `json:"level"`

	GoldEarned int `json:"goldEarned,omitempty"`
	Rerolls    int `json:"rerolls,omitempty"`

	Board []BoardPiece `json:"board"`
	Bench []BoardPiece `json:"bench"`

	UnitDamage []UnitDamage   `json:"unitDamage"`
	Players    []PlayerStatus `json:"players"`
	Shop       []string       `json:"shop"`
	Outcomes   []RoundOutcome `json:"outcomes"`
}
