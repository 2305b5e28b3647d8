package stage

import (
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// itemSlots are the fixed named item slots on a piece. The tracker never
// writes more than three.
var itemSlots = [3]string{"item1", "item2", "item3"}

// Normalize converts one raw stage record into a Snapshot. The record is an
// arbitrary nested object from an externally controlled format: any field
// may be absent, numbers may arrive as strings, and sub-objects may be
// missing entirely. Normalize never fails; the worst case is a Snapshot
// with zeroed scalars and empty collections.
func Normalize(rec gjson.Result) Snapshot {
	return Snapshot{
		RoundLabel: rec.Get("round").String(),
		RoundType:  roundTypeOf(rec.Get("type")),
		Opponent:   rec.Get("opponent").String(),
		Health:     intOf(rec.Get("me.health")),
		Gold:       intOf(rec.Get("me.gold")),
		Level:      intOf(rec.Get("me.level")),
		GoldEarned: intOf(rec.Get("me.goldEarned")),
		Rerolls:    intOf(rec.Get("me.rerolls")),
		Board:      piecesOf(rec.Get("board")),
		Bench:      piecesOf(rec.Get("bench")),
		UnitDamage: damageOf(rec.Get("unitDamage")),
		Players:    playersOf(rec.Get("players")),
		Shop:       shopOf(rec.Get("shop")),
		Outcomes:   outcomesOf(rec.Get("roundOutcome")),
	}
}

func roundTypeOf(v gjson.Result) RoundType {
	switch strings.ToUpper(v.String()) {
	case "PVE":
		return RoundTypePVE
	case "PVP":
		return RoundTypePVP
	default:
		return RoundTypeUnknown
	}
}

// intOf parses a numeric field that may arrive as a JSON number or as a
// numeric string, defaulting to 0 on anything else.
func intOf(v gjson.Result) int {
	switch v.Type {
	case gjson.Number:
		return int(v.Int())
	case gjson.String:
		n, err := strconv.Atoi(strings.TrimSpace(v.Str))
		if err != nil {
			f, ferr := strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
			if ferr != nil {
				return 0
			}
			return int(f)
		}
		return n
	default:
		return 0
	}
}

func floatOf(v gjson.Result) float64 {
	switch v.Type {
	case gjson.Number:
		return v.Num
	case gjson.String:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// piecesOf extracts board/bench pieces from a keyed mapping. The source
// stores pieces as an id→object map with no ordering guarantee beyond
// insertion order, so iteration follows document order and is never
// re-sorted.
func piecesOf(v gjson.Result) []BoardPiece {
	pieces := []BoardPiece{}
	v.ForEach(func(_, val gjson.Result) bool {
		unitID := val.Get("unitId").String()
		if unitID == "" {
			return true
		}

		star := intOf(val.Get("starLevel"))
		if star == 0 {
			star = 1 // absent star level means an unupgraded unit
		}

		var items []string
		for _, slot := range itemSlots {
			if item := val.Get(slot).String(); item != "" {
				items = append(items, item)
			}
		}

		pieces = append(pieces, BoardPiece{UnitID: unitID, StarLevel: star, ItemIDs: items})
		return true
	})
	return pieces
}

// damageOf accepts the damage list either keyed by unit id (the common form)
// or as a plain array of records.
func damageOf(v gjson.Result) []UnitDamage {
	records := []UnitDamage{}
	if v.IsArray() {
		v.ForEach(func(_, val gjson.Result) bool {
			if unitID := val.Get("unitId").String(); unitID != "" {
				records = append(records, UnitDamage{
					UnitID:    unitID,
					Damage:    floatOf(val.Get("damage")),
					StarLevel: intOf(val.Get("starLevel")),
				})
			}
			return true
		})
		return records
	}

	v.ForEach(func(key, val gjson.Result) bool {
		records = append(records, UnitDamage{
			UnitID:    key.String(),
			Damage:    floatOf(val.Get("damage")),
			StarLevel: intOf(val.Get("starLevel")),
		})
		return true
	})
	return records
}

// playersOf accepts the lobby standings either as a name→status map or as an
// array of status records.
func playersOf(v gjson.Result) []PlayerStatus {
	players := []PlayerStatus{}
	if v.IsArray() {
		v.ForEach(func(_, val gjson.Result) bool {
			players = append(players, PlayerStatus{
				Name:   val.Get("name").String(),
				Health: intOf(val.Get("health")),
				Level:  intOf(val.Get("level")),
			})
			return true
		})
		return players
	}

	v.ForEach(func(key, val gjson.Result) bool {
		players = append(players, PlayerStatus{
			Name:   key.String(),
			Health: intOf(val.Get("health")),
			Level:  intOf(val.Get("level")),
		})
		return true
	})
	return players
}

// shopOf accepts shop contents as a slot→unit map or a plain array.
func shopOf(v gjson.Result) []string {
	shop := []string{}
	v.ForEach(func(_, val gjson.Result) bool {
		if unit := val.String(); unit != "" {
			shop = append(shop, unit)
		}
		return true
	})
	return shop
}

func outcomesOf(v gjson.Result) []RoundOutcome {
	outcomes := []RoundOutcome{}
	v.ForEach(func(key, val gjson.Result) bool {
		outcomes = append(outcomes, RoundOutcome{Player: key.String(), Result: val.String()})
		return true
	})
	return outcomes
}
