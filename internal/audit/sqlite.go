package audit

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps entries in a notification_logs table and can answer
// when each subscriber was last messaged.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}
	// A single connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("error while pinging database: %w", err)
	}

	s := &SQLiteStore{
		db: db,
	}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("error while migrating database: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS notification_logs (
			object_key TEXT PRIMARY KEY,
			sid TEXT NOT NULL,
			to_hash TEXT NOT NULL,
			topic TEXT NOT NULL,
			level REAL NOT NULL,
			status TEXT,
			payload BLOB NOT NULL,
			date_created INTEGER NOT NULL,
			created_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_notification_logs_to_hash ON notification_logs(to_hash);
	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) Name() string { return "sqlite" }

func (s *SQLiteStore) Put(ctx context.Context, e Entry) error {
	created := e.Record.DateCreated
	if created.IsZero() {
		created = time.Now()
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO notification_logs (object_key, sid, to_hash, topic, level, status, payload, date_created, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(object_key) DO NOTHING`,
		e.Key, e.Record.SID, e.Record.To, e.Record.Topic, e.Record.Level, e.Record.Status,
		e.Body, created.UTC().UnixNano(), time.Now().UTC().UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("error inserting %s: %w", e.Key, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking insert of %s: %w", e.Key, err)
	}
	if n == 0 {
		return ErrDuplicate
	}
	return nil
}

// LastMessages returns the most recent message time per phone hash.
func (s *SQLiteStore) LastMessages(ctx context.Context) (map[string]time.Time, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT to_hash, MAX(date_created) FROM notification_logs GROUP BY to_hash`)
	if err != nil {
		return nil, fmt.Errorf("error querying last messages: %w", err)
	}
	defer rows.Close()

	last := make(map[string]time.Time)
	for rows.Next() {
		var (
			hash string
			ns   int64
		)
		if err := rows.Scan(&hash, &ns); err != nil {
			return nil, fmt.Errorf("error scanning last message: %w", err)
		}
		last[hash] = time.Unix(0, ns).UTC()
	}
	return last, rows.Err()
}

// Count returns the number of stored entries.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM notification_logs`).Scan(&n)
	return n, err
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
