package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/smartbhoomi/smartbhoomi-api/internal/utils"
)

// PostgresStore implements Store on a single kv_entries table. Values are
// stored as JSONB; the version column backs SetVersioned.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore creates a new PostgresStore.
func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Get(ctx context.Context, key string, dest interface{}) error {
	_, err := s.GetVersioned(ctx, key, dest)
	return err
}

func (s *PostgresStore) GetVersioned(ctx context.Context, key string, dest interface{}) (int64, error) {
	var raw []byte
	var version int64
	err := s.db.QueryRowContext(ctx,
		`SELECT value, version FROM kv_entries WHERE key = $1`, key,
	).Scan(&raw, &version)
	if err == sql.ErrNoRows {
		return 0, utils.ErrKeyNotFound
	}
	if err != nil {
		return 0, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return 0, fmt.Errorf("decode value for key %s: %w", key, err)
	}
	return version, nil
}

func (s *PostgresStore) Set(ctx context.Context, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode value for key %s: %w", key, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO kv_entries (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, version = kv_entries.version + 1, updated_at = now()`,
		key, raw)
	return err
}

// SetVersioned writes the value only if the stored version still equals
// expectedVersion. Returns ErrVersionConflict when another writer got there
// first.
func (s *PostgresStore) SetVersioned(ctx context.Context, key string, value interface{}, expectedVersion int64) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode value for key %s: %w", key, err)
	}

	var res sql.Result
	if expectedVersion == 0 {
		res, err = s.db.ExecContext(ctx, `
			INSERT INTO kv_entries (key, value) VALUES ($1, $2)
			ON CONFLICT (key) DO NOTHING`,
			key, raw)
	} else {
		res, err = s.db.ExecContext(ctx, `
			UPDATE kv_entries
			SET value = $2, version = version + 1, updated_at = now()
			WHERE key = $1 AND version = $3`,
			key, raw, expectedVersion)
	}
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return utils.ErrVersionConflict
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM kv_entries WHERE key = $1`, key)
	return err
}

// GetByPrefix returns the raw values of every key starting with prefix,
// ordered by key for deterministic scans.
func (s *PostgresStore) GetByPrefix(ctx context.Context, prefix string) ([]json.RawMessage, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT value FROM kv_entries WHERE key LIKE $1 || '%' ORDER BY key`, prefix)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var values []json.RawMessage
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		values = append(values, json.RawMessage(raw))
	}
	return values, rows.Err()
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
