package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// KeyLastUsed holds the UDID of the most recently operated-on target.
const KeyLastUsed = "last_used"

// DefaultHistoryLimit bounds how many past targets History returns.
const DefaultHistoryLimit = 20

// ErrNoDefault is returned when a key has never been written.
var ErrNoDefault = errors.New("no default recorded")

// Defaults is the persistent key/value store behind implicit target
// selection. Both backends satisfy it.
type Defaults interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	UpdateLastUsed(ctx context.Context, udid string) error
	LastUsed(ctx context.Context) (string, error)
	History(ctx context.Context, limit int) ([]string, error)
	Close() error
}

// Store is the SQLite defaults backend.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// Get returns the stored value for key, or ErrNoDefault.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", fmt.Errorf("default key is empty")
	}

	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM defaults WHERE key = ?;", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: %s", ErrNoDefault, key)
	}
	if err != nil {
		return "", fmt.Errorf("read default %q: %w", key, err)
	}
	return value, nil
}

// Set upserts key.
func (s *Store) Set(ctx context.Context, key, value string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("default key is empty")
	}
	return s.upsert(ctx, s.db, key, value)
}

// UpdateLastUsed records udid as the last-used target and appends it to the
// target history in one transaction.
func (s *Store) UpdateLastUsed(ctx context.Context, udid string) error {
	if strings.TrimSpace(udid) == "" {
		return fmt.Errorf("udid is empty")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.upsert(ctx, tx, KeyLastUsed, udid); err != nil {
		return err
	}
	now := s.now().UTC().Format(time.RFC3339Nano)
	if _, err := tx.ExecContext(ctx, "INSERT INTO target_history(udid, used_at) VALUES(?, ?);", udid, now); err != nil {
		return fmt.Errorf("append target history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (s *Store) LastUsed(ctx context.Context) (string, error) {
	return s.Get(ctx, KeyLastUsed)
}

// History returns recently used UDIDs, newest first, without duplicates.
func (s *Store) History(ctx context.Context, limit int) ([]string, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT udid, MAX(id) AS last_id
FROM target_history
GROUP BY udid
ORDER BY last_id DESC
LIMIT ?;
`, limit)
	if err != nil {
		return nil, fmt.Errorf("query target history: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var (
			udid   string
			lastID int64
		)
		if err := rows.Scan(&udid, &lastID); err != nil {
			return nil, fmt.Errorf("scan target history: %w", err)
		}
		out = append(out, udid)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate target history: %w", err)
	}
	return out, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *Store) upsert(ctx context.Context, db execer, key, value string) error {
	now := s.now().UTC().Format(time.RFC3339Nano)
	_, err := db.ExecContext(ctx, `
INSERT INTO defaults(key, value, updated_at)
VALUES(?, ?, ?)
ON CONFLICT(key) DO UPDATE SET
  value = excluded.value,
  updated_at = excluded.updated_at;
`, key, value, now)
	if err != nil {
		return fmt.Errorf("upsert default %q: %w", key, err)
	}
	return nil
}
