package db

import (
	"context"
	"fmt"

	"cosmeticpos-backend/internal/config"
	"cosmeticpos-backend/internal/ports"
)

// Store is a record store that owns a closable resource.
type Store interface {
	ports.RecordStore
	Close()
}

// Open connects the backend named by cfg.StorageDriver and applies its schema.
func Open(ctx context.Context, cfg config.Config) (Store, error) {
	switch cfg.StorageDriver {
	case config.DriverPostgres:
		pg, err := NewPostgres(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if err := pg.Migrate(ctx); err != nil {
			pg.Close()
			return nil, err
		}
		return pg, nil
	case config.DriverSQLite:
		lite, err := NewSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		if err := lite.Migrate(ctx); err != nil {
			lite.Close()
			return nil, err
		}
		return lite, nil
	case config.DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}
