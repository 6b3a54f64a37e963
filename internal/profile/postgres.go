package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/diogo/careerpilot/internal/models"
)

// PostgresStore keeps the profile in a jsonb column, as the hosted
// deployment does on Supabase
type PostgresStore struct {
	pool *pgxpool.Pool
	id   uuid.UUID
}

// NewPostgres connects to databaseURL and ensures the profile table exists
func NewPostgres(ctx context.Context, databaseURL string, id uuid.UUID) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS user_profile (
			id uuid PRIMARY KEY,
			profile_data jsonb NOT NULL DEFAULT '{}'::jsonb
		)`)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create user_profile table: %w", err)
	}

	return &PostgresStore{pool: pool, id: id}, nil
}

// Load implements Store
func (s *PostgresStore) Load(ctx context.Context) (models.Profile, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx,
		`SELECT profile_data FROM user_profile WHERE id = $1`, s.id).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Profile{}, nil
	}
	if err != nil {
		return models.Profile{}, fmt.Errorf("failed to load profile: %w", err)
	}

	var p models.Profile
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &p); err != nil {
			return models.Profile{}, fmt.Errorf("failed to decode profile: %w", err)
		}
	}
	return p, nil
}

// Save implements Store
func (s *PostgresStore) Save(ctx context.Context, p models.Profile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO user_profile (id, profile_data)
		VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET profile_data = EXCLUDED.profile_data`,
		s.id, data)
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

// Enabled implements Store
func (s *PostgresStore) Enabled() bool { return true }

// Close implements Store
func (s *PostgresStore) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}
