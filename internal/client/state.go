package client

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/meltforce/repbook/internal/workout"
	_ "modernc.org/sqlite"
)

// SessionDB persists the in-progress draft and timer locally so a closed CLI
// session can be resumed where it left off.
type SessionDB struct {
	db *sql.DB
}

// OpenSessionDB opens (or creates) the SQLite session database at
// dir/session.db.
func OpenSessionDB(dir string) (*SessionDB, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating session dir %s: %w", dir, err)
	}

	dbPath := filepath.Join(dir, "session.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening session db: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS session (
		id         INTEGER PRIMARY KEY CHECK (id = 1),
		draft      TEXT NOT NULL,
		timer_ms   INTEGER NOT NULL DEFAULT 0,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating session table: %w", err)
	}

	return &SessionDB{db: db}, nil
}

// SaveSession stores the current draft and timer elapsed, replacing any
// previous session.
func (s *SessionDB) SaveSession(draft workout.Draft, elapsed time.Duration) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("marshaling draft: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT OR REPLACE INTO session (id, draft, timer_ms, updated_at) VALUES (1, ?, ?, CURRENT_TIMESTAMP)`,
		string(data), elapsed.Milliseconds(),
	)
	return err
}

// LoadSession returns the stored draft and timer elapsed. The bool is false
// when no session is stored.
func (s *SessionDB) LoadSession() (workout.Draft, time.Duration, bool, error) {
	var (
		data    string
		timerMS int64
	)
	err := s.db.QueryRow(`SELECT draft, timer_ms FROM session WHERE id = 1`).Scan(&data, &timerMS)
	if errors.Is(err, sql.ErrNoRows) {
		return workout.Draft{}, 0, false, nil
	}
	if err != nil {
		return workout.Draft{}, 0, false, err
	}

	var draft workout.Draft
	if err := json.Unmarshal([]byte(data), &draft); err != nil {
		return workout.Draft{}, 0, false, fmt.Errorf("unmarshaling draft: %w", err)
	}
	return draft, time.Duration(timerMS) * time.Millisecond, true, nil
}

// ClearSession removes the stored session, if any.
func (s *SessionDB) ClearSession() error {
	_, err := s.db.Exec(`DELETE FROM session WHERE id = 1`)
	return err
}

// Close closes the session database.
func (s *SessionDB) Close() error {
	return s.db.Close()
}
