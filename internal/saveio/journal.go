package saveio

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/iso-citysim/internal/cityworld"
)

// Journal is a SQLite-backed audit trail of save/replay-snapshot calls,
// adapted from tobyjaguar-mini-world's internal/persistence/db.go
// (sqlx.Open + migrate-on-open + Beginx/Preparex transactions). It is
// strictly supplementary: the binary save format in save.go remains the
// sole authoritative persisted state (SPEC_FULL.md §4.7 is unchanged). A
// Journal lets a host CLI or batch runner answer "what runs have I done
// for this seed" without re-reading every binary save.
type Journal struct {
	conn *sqlx.DB
}

// OpenJournal opens or creates a SQLite database at path, migrating its
// schema if needed.
func OpenJournal(path string) (*Journal, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, cityworld.NewIoError(path, fmt.Errorf("open journal: %w", err))
	}
	j := &Journal{conn: conn}
	if err := j.migrate(); err != nil {
		conn.Close()
		return nil, cityworld.NewIoError(path, fmt.Errorf("migrate journal: %w", err))
	}
	return j, nil
}

// Close closes the underlying database connection.
func (j *Journal) Close() error {
	return j.conn.Close()
}

func (j *Journal) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		seed INTEGER NOT NULL,
		day INTEGER NOT NULL,
		world_hash INTEGER NOT NULL,
		kind TEXT NOT NULL,
		path TEXT NOT NULL,
		saved_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_runs_seed ON runs(seed);
	CREATE INDEX IF NOT EXISTS idx_runs_hash ON runs(world_hash);
	`
	_, err := j.conn.Exec(schema)
	return err
}

// RunRecord is one row of the run journal: a save or replay-snapshot
// event, keyed by a fresh UUID, tagged by the seed/day/hash that
// identifies the world state at that moment.
type RunRecord struct {
	RunID     string    `db:"run_id" json:"runId"`
	Seed      uint64    `db:"seed" json:"seed"`
	Day       int       `db:"day" json:"day"`
	WorldHash uint64    `db:"world_hash" json:"worldHash"`
	Kind      string    `db:"kind" json:"kind"` // "save", "delta-save", "blueprint", "replay-snapshot"
	Path      string    `db:"path" json:"path"`
	SavedAt   time.Time `db:"saved_at" json:"savedAt"`
}

// RecordRun appends one run record to the journal, generating a fresh
// run ID. It never blocks a save from succeeding on the caller's behalf —
// callers that want journal failures to be fatal check the returned
// error themselves.
func (j *Journal) RecordRun(w *cityworld.World, kind, path string, savedAt time.Time) (RunRecord, error) {
	rec := RunRecord{
		RunID:     uuid.NewString(),
		Seed:      w.Seed(),
		Day:       w.Stats.Day,
		WorldHash: cityworld.HashWorld(w, true),
		Kind:      kind,
		Path:      path,
		SavedAt:   savedAt,
	}
	_, err := j.conn.Exec(
		`INSERT INTO runs (run_id, seed, day, world_hash, kind, path, saved_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID, int64(rec.Seed), rec.Day, int64(rec.WorldHash), rec.Kind, rec.Path, rec.SavedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return rec, fmt.Errorf("record run: %w", err)
	}
	slog.Debug("saveio: journal entry recorded", "run_id", rec.RunID, "kind", kind, "seed", rec.Seed, "day", rec.Day)
	return rec, nil
}

// RunsBySeed returns every recorded run for a given seed, most recent first.
func (j *Journal) RunsBySeed(seed uint64) ([]RunRecord, error) {
	var rows []runRow
	if err := j.conn.Select(&rows, `SELECT * FROM runs WHERE seed = ? ORDER BY saved_at DESC`, int64(seed)); err != nil {
		return nil, fmt.Errorf("query runs by seed: %w", err)
	}
	return toRunRecords(rows), nil
}

// RunsByHash returns every recorded run whose world hash matches, most
// recent first — useful to find whether a given HashWorld value has been
// produced by a prior run.
func (j *Journal) RunsByHash(hash uint64) ([]RunRecord, error) {
	var rows []runRow
	if err := j.conn.Select(&rows, `SELECT * FROM runs WHERE world_hash = ? ORDER BY saved_at DESC`, int64(hash)); err != nil {
		return nil, fmt.Errorf("query runs by hash: %w", err)
	}
	return toRunRecords(rows), nil
}

// runRow mirrors RunRecord with sqlite-friendly column types (seed and
// hash round-trip through SQLite's signed INTEGER as int64).
type runRow struct {
	RunID     string `db:"run_id"`
	Seed      int64  `db:"seed"`
	Day       int    `db:"day"`
	WorldHash int64  `db:"world_hash"`
	Kind      string `db:"kind"`
	Path      string `db:"path"`
	SavedAt   string `db:"saved_at"`
}

func toRunRecords(rows []runRow) []RunRecord {
	out := make([]RunRecord, 0, len(rows))
	for _, r := range rows {
		t, _ := time.Parse(time.RFC3339Nano, r.SavedAt)
		out = append(out, RunRecord{
			RunID:     r.RunID,
			Seed:      uint64(r.Seed),
			Day:       r.Day,
			WorldHash: uint64(r.WorldHash),
			Kind:      r.Kind,
			Path:      r.Path,
			SavedAt:   t,
		})
	}
	return out
}
