package report

import (
	"tft-analyzer/internal/stage"
	"tft-analyzer/internal/timeline"
	"tft-analyzer/internal/tracker"
)

// maxCarries caps the ranked carry list surfaced in reports.
const maxCarries = 5

// Analyze runs the full pipeline on one raw snapshot blob: envelope decode,
// per-stage normalization, timeline aggregation, key-stage selection, carry
// and economy analytics, and final assembly. It is a pure function of its
// inputs plus the injected resolver; the same bytes always yield the same
// report. The only error path is a blob whose envelope cannot be parsed at
// all (tracker.ErrMalformedEnvelope).
func Analyze(raw []byte, req Request, res Resolver) (*Report, error) {
	env, err := tracker.Decode(raw)
	if err != nil {
		return nil, err
	}

	stages := make([]stage.Snapshot, len(env.Stages))
	for i, rec := range env.Stages {
		stages[i] = stage.Normalize(rec)
	}

	mode := ParseMode(string(req.Mode))
	rounds, economy := timeline.Aggregate(stages, env.SummonerName)
	carries := timeline.RankCarries(stages)

	matchID := env.MatchID
	if matchID == "" {
		matchID = req.MatchIdentifier
	}

	rep := &Report{
		MatchID:    matchID,
		Server:     env.Server,
		Summoner:   env.SummonerName,
		TrackerID:  env.TrackerID,
		SetName:    env.SetName,
		RankLabel:  env.RankLabel,
		Mode:       mode,
		FinalBoard: []Piece{},
		TopCarries: resolveCarries(carries, res),
		Economy:    economy,
	}

	switch mode {
	case ModeComplete:
		rep.Stages = detailAll(stages, rounds, res)
	default:
		rep.Rounds = rounds
		rep.Stages = detailAt(stages, rounds, timeline.KeyStages(stages), res)
	}

	if len(stages) > 0 {
		opening := detailOf(stages[0], rounds[0], res)
		final := detailOf(stages[len(stages)-1], rounds[len(rounds)-1], res)
		rep.Opening = &opening
		rep.Final = &final
		rep.FinalBoard = final.Board
	}

	return rep, nil
}

func detailAll(stages []stage.Snapshot, rounds []timeline.RoundSummary, res Resolver) []StageDetail {
	details := make([]StageDetail, len(stages))
	for i := range stages {
		details[i] = detailOf(stages[i], rounds[i], res)
	}
	return details
}

func detailAt(stages []stage.Snapshot, rounds []timeline.RoundSummary, indices []int, res Resolver) []StageDetail {
	details := make([]StageDetail, 0, len(indices))
	for _, i := range indices {
		details = append(details, detailOf(stages[i], rounds[i], res))
	}
	return details
}

func detailOf(s stage.Snapshot, r timeline.RoundSummary, res Resolver) StageDetail {
	return StageDetail{
		Round:    r.Round,
		Label:    s.RoundLabel,
		Type:     s.RoundType,
		Opponent: s.Opponent,
		Health:   s.Health,
		Gold:     s.Gold,
		Level:    s.Level,
		Board:    resolvePieces(s.Board, res),
		Bench:    resolvePieces(s.Bench, res),
		Shop:     resolveShop(s.Shop, res),
		Damage:   resolveDamage(s.UnitDamage, res),
		Outcome:  r.Outcome,
	}
}

func resolvePieces(pieces []stage.BoardPiece, res Resolver) []Piece {
	resolved := make([]Piece, 0, len(pieces))
	for _, p := range pieces {
		var items []string
		for _, id := range p.ItemIDs {
			items = append(items, res.ItemName(id))
		}
		resolved = append(resolved, Piece{
			Unit:  res.ChampionName(p.UnitID),
			Star:  p.StarLevel,
			Items: items,
		})
	}
	return resolved
}

func resolveShop(shop []string, res Resolver) []string {
	if len(shop) == 0 {
		return nil
	}
	resolved := make([]string, len(shop))
	for i, id := range shop {
		resolved[i] = res.ChampionName(id)
	}
	return resolved
}

func resolveDamage(records []stage.UnitDamage, res Resolver) []DamageEntry {
	entries := make([]DamageEntry, 0, len(records))
	for _, d := range records {
		if d.Damage <= 0 {
			continue
		}
		entries = append(entries, DamageEntry{
			Unit:   res.ChampionName(d.UnitID),
			Damage: d.Damage,
			Star:   d.StarLevel,
		})
	}
	return entries
}

func resolveCarries(carries []timeline.CarryStat, res Resolver) []Carry {
	if len(carries) > maxCarries {
		carries = carries[:maxCarries]
	}
	top := make([]Carry, len(carries))
	for i, c := range carries {
		top[i] = Carry{
			Unit:        res.ChampionName(c.UnitID),
			TotalDamage: c.TotalDamage,
			AvgDamage:   c.AvgDamage,
			Rounds:      c.Rounds,
			MaxStar:     c.MaxStar,
		}
	}
	return top
}
