package db

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jwulff/coach/internal/call"
	"github.com/jwulff/coach/internal/coaching"

	_ "modernc.org/sqlite"
)

const schema = `
	CREATE TABLE IF NOT EXISTS calls (
		id TEXT PRIMARY KEY,
		operator TEXT NOT NULL DEFAULT '',
		product TEXT NOT NULL,
		focus TEXT NOT NULL,
		startedAt REAL NOT NULL,
		endedAt REAL NOT NULL,
		transcript TEXT NOT NULL DEFAULT '',
		durationSeconds INTEGER NOT NULL DEFAULT 0,
		wordsPerMinute INTEGER NOT NULL DEFAULT 0,
		talkRatioPercent INTEGER NOT NULL DEFAULT 0,
		fillerWordCount INTEGER NOT NULL DEFAULT 0,
		createdAt REAL NOT NULL
	);

	CREATE INDEX IF NOT EXISTS calls_startedAt ON calls(startedAt);

	CREATE TABLE IF NOT EXISTS recommendations (
		callId TEXT NOT NULL REFERENCES calls(id) ON DELETE CASCADE,
		seq INTEGER NOT NULL,
		id TEXT NOT NULL,
		kind TEXT NOT NULL,
		message TEXT NOT NULL,
		PRIMARY KEY (callId, seq)
	);
`

// Store provides access to the coach SQLite database.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// DefaultDBPath returns the default database path.
func DefaultDBPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "coach", "coach.sqlite")
}

// Open opens the database for reading and writing, creating the file and
// schema if needed.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create database dir: %w", err)
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", path)
	s, err := open(dsn)
	if err != nil {
		return nil, err
	}
	if _, err := s.db.Exec(schema); err != nil {
		s.db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return s, nil
}

// OpenReadOnly opens an existing database in read-only mode.
func OpenReadOnly(path string) (*Store, error) {
	return open(fmt.Sprintf("file:%s?mode=ro&_pragma=busy_timeout(5000)", path))
}

func open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Verify connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveCall stores a finished call and its recommendations.
func (s *Store) SaveCall(rec call.Record) error {
	if rec.ID == "" {
		return errors.New("save call: empty id")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	m := rec.Metrics
	if _, err := tx.Exec(`
		INSERT INTO calls (id, operator, product, focus, startedAt, endedAt, transcript,
			durationSeconds, wordsPerMinute, talkRatioPercent, fillerWordCount, createdAt)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.Operator, rec.Product, rec.Focus,
		unixFromTime(rec.StartedAt), unixFromTime(rec.EndedAt), rec.Transcript,
		m.DurationSeconds, m.WordsPerMinute, m.TalkRatioPercent, m.FillerWordCount,
		unixFromTime(s.now())); err != nil {
		return fmt.Errorf("insert call: %w", err)
	}

	for i, r := range rec.Recommendations {
		if _, err := tx.Exec(`
			INSERT INTO recommendations (callId, seq, id, kind, message)
			VALUES (?, ?, ?, ?, ?)
		`, rec.ID, i, r.ID, string(r.Kind), r.Message); err != nil {
			return fmt.Errorf("insert recommendation: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// RecentCalls returns up to limit calls, most recent first.
func (s *Store) RecentCalls(limit int) ([]Call, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(`
		SELECT id, operator, product, focus, startedAt, endedAt, transcript,
			durationSeconds, wordsPerMinute, talkRatioPercent, fillerWordCount, createdAt
		FROM calls
		ORDER BY startedAt DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query calls: %w", err)
	}
	defer rows.Close()

	var calls []Call
	for rows.Next() {
		c, err := scanCall(rows)
		if err != nil {
			return nil, err
		}
		calls = append(calls, c)
	}
	return calls, rows.Err()
}

// Call returns one call by ID, or nil if it does not exist.
func (s *Store) Call(id string) (*Call, error) {
	row := s.db.QueryRow(`
		SELECT id, operator, product, focus, startedAt, endedAt, transcript,
			durationSeconds, wordsPerMinute, talkRatioPercent, fillerWordCount, createdAt
		FROM calls
		WHERE id = ?
	`, id)

	c, err := scanCall(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

// RecommendationsForCall returns a call's recommendations in display order.
func (s *Store) RecommendationsForCall(callID string) ([]coaching.Recommendation, error) {
	rows, err := s.db.Query(`
		SELECT id, kind, message
		FROM recommendations
		WHERE callId = ?
		ORDER BY seq ASC
	`, callID)
	if err != nil {
		return nil, fmt.Errorf("query recommendations: %w", err)
	}
	defer rows.Close()

	var recs []coaching.Recommendation
	for rows.Next() {
		var r coaching.Recommendation
		var kind string
		if err := rows.Scan(&r.ID, &kind, &r.Message); err != nil {
			return nil, fmt.Errorf("scan recommendation: %w", err)
		}
		r.Kind = coaching.Kind(kind)
		recs = append(recs, r)
	}
	return recs, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCall(row scanner) (Call, error) {
	var c Call
	var startedAt, endedAt, createdAt float64
	if err := row.Scan(&c.ID, &c.Operator, &c.Product, &c.Focus, &startedAt, &endedAt, &c.Transcript,
		&c.Metrics.DurationSeconds, &c.Metrics.WordsPerMinute, &c.Metrics.TalkRatioPercent,
		&c.Metrics.FillerWordCount, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Call{}, err
		}
		return Call{}, fmt.Errorf("scan call: %w", err)
	}
	c.StartedAt = timeFromUnix(startedAt)
	c.EndedAt = timeFromUnix(endedAt)
	c.CreatedAt = timeFromUnix(createdAt)
	return c, nil
}

func timeFromUnix(ts float64) time.Time {
	sec := int64(ts)
	nsec := int64((ts - float64(sec)) * 1e9)
	return time.Unix(sec, nsec)
}

func unixFromTime(t time.Time) float64 {
	return float64(t.UnixNano()) / 1e9
}
