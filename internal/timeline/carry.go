package timeline

import (
	"sort"

	"tft-analyzer/internal/stage"
)

// CarryStat is the accumulated combat contribution of one unit identity
// across the whole match.
type CarryStat struct {
	UnitID      string  `json:"unitId"`
	TotalDamage float64 `json:"totalDamage"`
	Rounds      int     `json:"rounds"`
	AvgDamage   float64 `json:"avgDamage"`
	MaxStar     int     `json:"maxStar"`
}

// RankCarries folds over all stages accumulating per-unit damage totals,
// occurrence counts and the maximum observed star level, then ranks units by
// total damage descending. Only positive-damage records contribute; zero or
// absent damage entries are skipped without error. Ties keep encounter
// order: the unit seen first ranks higher, since the source defines no
// secondary key.
func RankCarries(stages []stage.Snapshot) []CarryStat {
	index := make(map[string]int)
	carries := []CarryStat{}

	for _, s := range stages {
		for _, d := range s.UnitDamage {
			if d.Damage <= 0 {
				continue
			}

			i, ok := index[d.UnitID]
			if !ok {
				i = len(carries)
				index[d.UnitID] = i
				carries = append(carries, CarryStat{UnitID: d.UnitID})
			}

			carries[i].TotalDamage += d.Damage
			carries[i].Rounds++
			if d.StarLevel > carries[i].MaxStar {
				carries[i].MaxStar = d.StarLevel
			}
		}
	}

	for i := range carries {
		carries[i].AvgDamage = carries[i].TotalDamage / float64(carries[i].Rounds)
	}

	sort.SliceStable(carries, func(a, b int) bool {
		return carries[a].TotalDamage > carries[b].TotalDamage
	})

	return carries
}
