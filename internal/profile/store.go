// Package profile persists the single user profile the advisor builds up.
package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/diogo/careerpilot/internal/config"
	"github.com/diogo/careerpilot/internal/models"
)

// ErrDisabled is returned by Save on a store opened without persistence
var ErrDisabled = errors.New("profile storage is disabled")

// Store loads and saves the profile row
type Store interface {
	// Load returns the stored profile, or an empty one when nothing is stored
	Load(ctx context.Context) (models.Profile, error)
	Save(ctx context.Context, p models.Profile) error
	// Enabled reports whether Save persists anything
	Enabled() bool
	Close() error
}

// Kind returns a short name for the store implementation, used in logs
func Kind(s Store) string {
	switch s.(type) {
	case *PostgresStore:
		return config.StorePostgres
	case *SQLiteStore:
		return config.StoreSQLite
	case *MemoryStore:
		return config.StoreMemory
	default:
		return config.StoreDisabled
	}
}

// Open builds the store described by cfg. A DATABASE_URL always selects
// Postgres; otherwise the configured profile_store kind is used.
func Open(ctx context.Context, cfg config.Config) (Store, error) {
	id, err := parseID(cfg.Server.ProfileID)
	if err != nil {
		return nil, err
	}

	kind := cfg.Server.ProfileStore
	if strings.TrimSpace(cfg.Server.DatabaseURL) != "" {
		kind = config.StorePostgres
	}

	switch kind {
	case config.StorePostgres:
		if cfg.Server.DatabaseURL == "" {
			return nil, fmt.Errorf("profile_store is postgres but DATABASE_URL is not set")
		}
		return NewPostgres(ctx, cfg.Server.DatabaseURL, id)
	case config.StoreSQLite, "":
		path, err := config.GetSQLitePath(cfg)
		if err != nil {
			return nil, err
		}
		return NewSQLite(ctx, path, id)
	case config.StoreMemory:
		return NewMemory(), nil
	case config.StoreDisabled:
		return Disabled{}, nil
	default:
		return nil, fmt.Errorf("unknown profile store %q", kind)
	}
}

func parseID(raw string) (uuid.UUID, error) {
	if raw == "" {
		raw = config.DefaultProfileID
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid profile id %q: %w", raw, err)
	}
	return id, nil
}
