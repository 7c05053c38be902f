// Package leaderboard stores and ranks daily results. It is a collaborator
// of the puzzle engine, not part of it: the engine hands over an
// (attempts, seconds) tuple on a win and keeps working whether or not the
// submission succeeds.
package leaderboard

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"

	_ "github.com/mattn/go-sqlite3"
)

const (
	// TopN is how many entries a fetch returns.
	TopN = 20
	// Retention keeps yesterday's board readable for a while after rollover.
	Retention = 48 * time.Hour

	minNickname = 2
	maxNickname = 15
)

var (
	ErrInvalidNickname  = fmt.Errorf("leaderboard: nickname must be %d-%d characters", minNickname, maxNickname)
	ErrInvalidAttempts  = errors.New("leaderboard: attempts must be between 1 and 6")
	ErrAlreadySubmitted = errors.New("leaderboard: nickname already submitted today")
)

// Entry is one submitted score.
type Entry struct {
	Nickname   string `json:"nickname"`
	Attempts   int    `json:"attempts"`
	Time       int    `json:"time"` // seconds to complete
	WordLength int    `json:"wordLength"`
	Date       string `json:"date"` // YYYY-MM-DD UTC
	Timestamp  int64  `json:"timestamp"`
}

// Store is a SQLite-backed leaderboard.
type Store struct {
	db *sql.DB
}

// Open opens (creating if missing) the leaderboard database with WAL
// journaling and a busy timeout, and ensures the schema exists.
func Open(dsn string) (*Store, error) {
	if dir := filepath.Dir(dsn); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("leaderboard: mkdir %s: %w", dir, err)
		}
	}
	db, err := sql.Open("sqlite3", dsn+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, err
	}
	// SQLite allows one writer at a time; a single pooled connection also
	// keeps :memory: databases from splitting across connections.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS scores (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			nickname    TEXT    NOT NULL,
			attempts    INTEGER NOT NULL,
			time_secs   INTEGER NOT NULL,
			word_length INTEGER NOT NULL,
			date        TEXT    NOT NULL,
			created_at  INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_scores_board ON scores(date, word_length);
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("leaderboard: create schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Submit validates and records a score. A nickname may appear at most once
// per (date, word length) board, compared case-insensitively.
func (s *Store) Submit(ctx context.Context, e Entry) error {
	if n := utf8.RuneCountInString(e.Nickname); n < minNickname || n > maxNickname {
		return ErrInvalidNickname
	}
	if e.Attempts < 1 || e.Attempts > 6 {
		return ErrInvalidAttempts
	}

	var cnt int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM scores WHERE date=? AND word_length=? AND LOWER(nickname)=LOWER(?)`,
		e.Date, e.WordLength, e.Nickname,
	).Scan(&cnt)
	if err != nil {
		return err
	}
	if cnt > 0 {
		return ErrAlreadySubmitted
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO scores(nickname, attempts, time_secs, word_length, date, created_at)
		 VALUES(?,?,?,?,?,?)`,
		e.Nickname, e.Attempts, e.Time, e.WordLength, e.Date, e.Timestamp,
	)
	return err
}

// Top returns the best entries for a board, fewest attempts first and faster
// times breaking ties.
func (s *Store) Top(ctx context.Context, date string, wordLength int) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT nickname, attempts, time_secs, word_length, date, created_at
		 FROM scores
		 WHERE date=? AND word_length=?
		 ORDER BY attempts ASC, time_secs ASC, created_at ASC
		 LIMIT ?`, date, wordLength, TopN,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Entry, 0, TopN)
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Nickname, &e.Attempts, &e.Time, &e.WordLength, &e.Date, &e.Timestamp); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Purge drops boards older than the retention window.
func (s *Store) Purge(ctx context.Context, now time.Time) error {
	cutoff := now.UTC().Add(-Retention).Format("2006-01-02")
	_, err := s.db.ExecContext(ctx, `DELETE FROM scores WHERE date < ?`, cutoff)
	return err
}
