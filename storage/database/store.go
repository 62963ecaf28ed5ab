package database

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/smartgrade/smartgrade/core"
)

// Store is a core.Store backed by the client_state table.
type Store struct {
	db *sqlx.DB
}

var _ core.Store = (*Store)(nil)

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var val []byte
	err := s.db.GetContext(ctx, &val, "SELECT value FROM client_state WHERE key = $1", key)
	if err == sql.ErrNoRows {
		return nil, core.ErrKeyNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "selecting state")
	}
	return val, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	q := `
		INSERT INTO client_state (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`
	if _, err := s.db.ExecContext(ctx, q, key, value); err != nil {
		return errors.Wrap(err, "upserting state")
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM client_state WHERE key = $1", key); err != nil {
		return errors.Wrap(err, "deleting state")
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
