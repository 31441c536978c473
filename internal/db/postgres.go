package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cosmeticpos-backend/internal/config"
	"cosmeticpos-backend/internal/ports"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS records (
		collection TEXT NOT NULL,
		id TEXT NOT NULL,
		seq BIGSERIAL,
		data JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (collection, id)
	)`,
	`CREATE INDEX IF NOT EXISTS records_collection_seq_idx ON records (collection, seq)`,
}

// Postgres wraps a pgx connection pool and stores records as JSONB rows.
type Postgres struct {
	Pool *pgxpool.Pool
}

type pgQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type pgTxKey struct{}

// NewPostgres creates and verifies a pgx pool connection.
func NewPostgres(ctx context.Context, cfg config.Config) (*Postgres, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	poolCfg.MaxConnIdleTime = 5 * time.Minute
	poolCfg.HealthCheckPeriod = 30 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	return &Postgres{Pool: pool}, nil
}

// Migrate creates the records table when missing.
func (p *Postgres) Migrate(ctx context.Context) error {
	for _, stmt := range postgresSchema {
		if _, err := p.Pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

func (p *Postgres) Close() {
	if p.Pool != nil {
		p.Pool.Close()
	}
}

// Health checks the database connectivity.
func (p *Postgres) Health(ctx context.Context) error {
	return p.Pool.Ping(ctx)
}

func (p *Postgres) q(ctx context.Context) pgQuerier {
	if tx, ok := ctx.Value(pgTxKey{}).(pgx.Tx); ok {
		return tx
	}
	return p.Pool
}

func (p *Postgres) Get(ctx context.Context, collection, id string) (*ports.Record, error) {
	rec := ports.Record{Collection: collection, ID: id}
	var data []byte
	err := p.q(ctx).QueryRow(ctx, `
		SELECT data, created_at, updated_at
		FROM records
		WHERE collection=$1 AND id=$2
	`, collection, id).Scan(&data, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	rec.Data = data
	return &rec, nil
}

func (p *Postgres) List(ctx context.Context, collection string) ([]ports.Record, error) {
	rows, err := p.q(ctx).Query(ctx, `
		SELECT id, data, created_at, updated_at
		FROM records
		WHERE collection=$1
		ORDER BY seq ASC
	`, collection)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ports.Record
	for rows.Next() {
		rec := ports.Record{Collection: collection}
		var data []byte
		if err := rows.Scan(&rec.ID, &data, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, err
		}
		rec.Data = data
		items = append(items, rec)
	}
	return items, rows.Err()
}

func (p *Postgres) Put(ctx context.Context, collection, id string, data json.RawMessage) error {
	_, err := p.q(ctx).Exec(ctx, `
		INSERT INTO records (collection, id, data, created_at, updated_at)
		VALUES ($1, $2, $3::jsonb, now(), now())
		ON CONFLICT (collection, id) DO UPDATE SET data = EXCLUDED.data, updated_at = now()
	`, collection, id, string(data))
	return err
}

func (p *Postgres) Count(ctx context.Context, collection string) (int, error) {
	var n int
	err := p.q(ctx).QueryRow(ctx, `SELECT count(*) FROM records WHERE collection=$1`, collection).Scan(&n)
	return n, err
}

// writerLockKey is the advisory lock every Atomic unit holds, so writers run
// one at a time like they do on the memory and SQLite stores.
const writerLockKey int64 = 0x636f736d706f73

// Atomic runs fn in a transaction. Nested calls join the outer transaction.
func (p *Postgres) Atomic(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(pgTxKey{}).(pgx.Tx); ok {
		return fn(ctx)
	}
	return pgx.BeginFunc(ctx, p.Pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, writerLockKey); err != nil {
			return fmt.Errorf("acquire writer lock: %w", err)
		}
		return fn(context.WithValue(ctx, pgTxKey{}, tx))
	})
}
