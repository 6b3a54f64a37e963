package profile

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/diogo/careerpilot/internal/models"
)

// SQLiteStore keeps the profile as JSON text in a local SQLite file
type SQLiteStore struct {
	db *sql.DB
	id uuid.UUID
}

// NewSQLite opens (creating if needed) the database at path
func NewSQLite(ctx context.Context, path string, id uuid.UUID) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	dsn := path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One writer keeps SQLITE_BUSY out of concurrent saves.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &SQLiteStore{db: db, id: id}
	if err := s.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) initSchema(ctx context.Context) error {
	const query = `
	CREATE TABLE IF NOT EXISTS user_profile (
		id TEXT PRIMARY KEY,
		profile_data TEXT NOT NULL,
		updated_at INTEGER NOT NULL DEFAULT (strftime('%s','now'))
	);`
	_, err := s.db.ExecContext(ctx, query)
	return err
}

// Load implements Store
func (s *SQLiteStore) Load(ctx context.Context) (models.Profile, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT profile_data FROM user_profile WHERE id = ?`, s.id.String()).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Profile{}, nil
	}
	if err != nil {
		return models.Profile{}, fmt.Errorf("query profile: %w", err)
	}

	var p models.Profile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return models.Profile{}, fmt.Errorf("decode profile: %w", err)
	}
	return p, nil
}

// Save implements Store
func (s *SQLiteStore) Save(ctx context.Context, p models.Profile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO user_profile (id, profile_data, updated_at)
		VALUES (?, ?, strftime('%s','now'))
		ON CONFLICT(id) DO UPDATE SET
			profile_data = excluded.profile_data,
			updated_at = excluded.updated_at`,
		s.id.String(), string(data))
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}

// Enabled implements Store
func (s *SQLiteStore) Enabled() bool { return true }

// Close implements Store
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
