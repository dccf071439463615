// Package factory builds storage adapters from configuration.
package factory

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/permissionhub/server/internal/config"
	"github.com/permissionhub/server/internal/kv"
	"github.com/permissionhub/server/internal/store"
	"github.com/permissionhub/server/internal/store/memory"
	"github.com/permissionhub/server/internal/store/postgres"
	"github.com/permissionhub/server/internal/store/sqlite"
)

// NewStorage resolves the configured driver into a record store and a
// key-value state store. The two share a database where that makes sense:
// the sqlite driver keeps derived state in the same file, postgres keeps it
// in a sqlite side file (or memory) because the state is client-local by
// nature, and the memory driver follows StatePath when one is configured.
func NewStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (store.Store, kv.Store, error) {
	switch cfg.DBDriver {
	case "memory":
		st := memory.New()
		if cfg.SeedDemoData {
			st.Seed(cfg.DemoUserID)
			log.Info().Int("user_id", cfg.DemoUserID).Msg("seeded demo data")
		}
		state, err := stateStore(cfg)
		if err != nil {
			return nil, nil, err
		}
		return st, state, nil

	case "sqlite":
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite: %w", err)
		}
		if err := sqlite.EnsureSchema(db); err != nil {
			return nil, nil, fmt.Errorf("sqlite schema: %w", err)
		}
		state, err := kv.NewSQLite(db)
		if err != nil {
			return nil, nil, fmt.Errorf("sqlite state: %w", err)
		}
		log.Info().Str("path", cfg.SQLitePath).Msg("sqlite storage ready")
		return sqlite.New(db), state, nil

	case "postgres":
		db, err := postgres.Open(cfg.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres: %w", err)
		}
		if err := postgres.EnsureSchema(ctx, db); err != nil {
			return nil, nil, fmt.Errorf("postgres schema: %w", err)
		}
		state, err := stateStore(cfg)
		if err != nil {
			return nil, nil, err
		}
		log.Info().Msg("postgres storage ready")
		return postgres.NewWithDB(db), state, nil
	}
	return nil, nil, fmt.Errorf("unsupported DB_DRIVER: %s", cfg.DBDriver)
}

// stateStore opens the standalone key-value store: a sqlite file when
// StatePath is set, otherwise process memory.
func stateStore(cfg *config.Config) (kv.Store, error) {
	if cfg.StatePath == "" {
		return kv.NewMemory(), nil
	}
	db, err := sqlite.Open(cfg.StatePath)
	if err != nil {
		return nil, fmt.Errorf("open state db: %w", err)
	}
	return kv.NewSQLite(db)
}
