package session

import (
	"context"
	"database/sql"
	"errors"
)

// playerNameKey is the settings key holding the persisted display name,
// read at startup and written after successful validation.
const playerNameKey = "player_name"

var ErrNotFound = errors.New("not found")

// Store persists the player's display name across sessions.
type Store interface {
	PlayerName(ctx context.Context) (string, error)
	SavePlayerName(ctx context.Context, name string) error
}

// SQLiteStore keeps settings in the client's local database.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) PlayerName(ctx context.Context) (string, error) {
	var name string
	err := s.db.QueryRowContext(ctx, `
		SELECT value FROM settings WHERE key = ?
	`, playerNameKey).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	return name, err
}

func (s *SQLiteStore) SavePlayerName(ctx context.Context, name string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settings (key, value, updated_at)
		VALUES (?, ?, strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))
		ON CONFLICT (key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`, playerNameKey, name)
	return err
}
