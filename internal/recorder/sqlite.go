package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists cycle and action history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so external readers don't block the bot's writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS cycles (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp    INTEGER NOT NULL,
			player_state TEXT,
			energy       INTEGER,
			energy_max   INTEGER,
			nerve        INTEGER,
			nerve_max    INTEGER,
			happy        INTEGER,
			happy_max    INTEGER,
			life         INTEGER,
			life_max     INTEGER,
			decisions    INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_cycles_ts ON cycles(timestamp)`,

		`CREATE TABLE IF NOT EXISTS actions (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp INTEGER NOT NULL,
			category  TEXT,
			target_id TEXT,
			rationale TEXT,
			success   INTEGER,
			error     TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_actions_ts ON actions(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordCycle(rec *CycleRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO cycles
		(timestamp, player_state, energy, energy_max, nerve, nerve_max,
		 happy, happy_max, life, life_max, decisions)
		VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), rec.PlayerState,
		rec.Energy, rec.EnergyMax, rec.Nerve, rec.NerveMax,
		rec.Happy, rec.HappyMax, rec.Life, rec.LifeMax,
		rec.Decisions,
	)
	return err
}

func (r *SQLiteRecorder) RecordAction(rec *ActionRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	success := 0
	if rec.Success {
		success = 1
	}
	_, err := r.db.Exec(`INSERT INTO actions
		(timestamp, category, target_id, rationale, success, error)
		VALUES (?,?,?,?,?,?)`,
		time.Now().Unix(), rec.Category, rec.TargetID, rec.Rationale, success, rec.Error,
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
