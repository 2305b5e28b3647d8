package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Entry is one row of a player's LP progression.
type Entry struct {
	Summoner   string    `json:"summoner"`
	Delta      int       `json:"delta"`
	Total      int       `json:"total"`
	Source     string    `json:"source"`
	RecordedAt time.Time `json:"recordedAt"`
}

// Entry sources.
const (
	SourceDelta    = "delta"    // inferred per-match LP change
	SourceObserved = "observed" // absolute LP read from the ranked API
)

// Ledger tracks LP progression per summoner as a self-correcting
// accumulation: per-match deltas are summed into a running total, and an
// absolute observation pins the total back to reality, recording the
// correction as its own entry instead of silently rewriting history.
type Ledger struct {
	db *sql.DB
}

// Open opens (creating if needed) the ledger database at path.
func Open(path string) (*Ledger, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger db: %w", err)
	}

	l := &Ledger{db: db}
	if err := l.init(); err != nil {
		db.Close()
		return nil, err
	}
	return l, nil
}

func (l *Ledger) init() error {
	_, err := l.db.Exec(`
		CREATE TABLE IF NOT EXISTS lp_entries (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			summoner    TEXT NOT NULL,
			delta       INTEGER NOT NULL,
			total       INTEGER NOT NULL,
			source      TEXT NOT NULL,
			recorded_at INTEGER NOT NULL DEFAULT (strftime('%s','now'))
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create ledger schema: %w", err)
	}

	_, err = l.db.Exec(`CREATE INDEX IF NOT EXISTS idx_lp_entries_summoner ON lp_entries (summoner, id)`)
	if err != nil {
		return fmt.Errorf("failed to create ledger index: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (l *Ledger) Close() error {
	return l.db.Close()
}

// currentTotal returns the latest running total for a summoner (0 when no
// entries exist yet).
func (l *Ledger) currentTotal(ctx context.Context, summoner string) (int, error) {
	var total int
	err := l.db.QueryRowContext(ctx,
		`SELECT total FROM lp_entries WHERE summoner = ? ORDER BY id DESC LIMIT 1`,
		summoner,
	).Scan(&total)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read ledger total: %w", err)
	}
	return total, nil
}

// RecordDelta appends an inferred LP change to the summoner's progression.
func (l *Ledger) RecordDelta(ctx context.Context, summoner string, delta int) error {
	total, err := l.currentTotal(ctx, summoner)
	if err != nil {
		return err
	}

	_, err = l.db.ExecContext(ctx,
		`INSERT INTO lp_entries (summoner, delta, total, source) VALUES (?, ?, ?, ?)`,
		summoner, delta, total+delta, SourceDelta,
	)
	if err != nil {
		return fmt.Errorf("failed to record delta: %w", err)
	}
	return nil
}

// RecordAbsolute pins the running total to an observed LP value. The drift
// between the accumulated total and the observation becomes the entry's
// delta, so progression queries show where the accumulation was corrected.
func (l *Ledger) RecordAbsolute(ctx context.Context, summoner string, lp int) error {
	total, err := l.currentTotal(ctx, summoner)
	if err != nil {
		return err
	}

	_, err = l.db.ExecContext(ctx,
		`INSERT INTO lp_entries (summoner, delta, total, source) VALUES (?, ?, ?, ?)`,
		summoner, lp-total, lp, SourceObserved,
	)
	if err != nil {
		return fmt.Errorf("failed to record observation: %w", err)
	}
	return nil
}

// Progression returns the summoner's full LP series in recording order.
func (l *Ledger) Progression(ctx context.Context, summoner string) ([]Entry, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT summoner, delta, total, source, recorded_at
		FROM lp_entries WHERE summoner = ? ORDER BY id
	`, summoner)
	if err != nil {
		return nil, fmt.Errorf("failed to query progression: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var e Entry
		var recordedAt int64
		if err := rows.Scan(&e.Summoner, &e.Delta, &e.Total, &e.Source, &recordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		e.RecordedAt = time.Unix(recordedAt, 0).UTC()
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
