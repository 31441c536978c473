package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cosmeticpos-backend/internal/ports"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS records (
	collection TEXT NOT NULL,
	id TEXT NOT NULL,
	data TEXT NOT NULL,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	PRIMARY KEY (collection, id)
)`

// SQLite keeps records in a single local database file.
type SQLite struct {
	DB *sqlx.DB
}

type sqliteRecord struct {
	ID        string `db:"id"`
	Data      string `db:"data"`
	CreatedAt string `db:"created_at"`
	UpdatedAt string `db:"updated_at"`
}

type sqliteTxKey struct{}

// NewSQLite opens (creating if needed) the database file at path.
func NewSQLite(ctx context.Context, path string) (*SQLite, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path)
	conn, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// one writer; transactions hold the only connection
	conn.SetMaxOpenConns(1)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite ping failed: %w", err)
	}
	return &SQLite{DB: conn}, nil
}

// Migrate creates the records table when missing.
func (s *SQLite) Migrate(ctx context.Context) error {
	if _, err := s.DB.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func (s *SQLite) Close() {
	if s.DB != nil {
		_ = s.DB.Close()
	}
}

func (s *SQLite) Health(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}

func (s *SQLite) q(ctx context.Context) sqlx.ExtContext {
	if tx, ok := ctx.Value(sqliteTxKey{}).(*sqlx.Tx); ok {
		return tx
	}
	return s.DB
}

func (s *SQLite) Get(ctx context.Context, collection, id string) (*ports.Record, error) {
	var row sqliteRecord
	err := sqlx.GetContext(ctx, s.q(ctx), &row, `
		SELECT id, data, created_at, updated_at
		FROM records
		WHERE collection=? AND id=?
	`, collection, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	rec := row.toRecord(collection)
	return &rec, nil
}

func (s *SQLite) List(ctx context.Context, collection string) ([]ports.Record, error) {
	var rows []sqliteRecord
	err := sqlx.SelectContext(ctx, s.q(ctx), &rows, `
		SELECT id, data, created_at, updated_at
		FROM records
		WHERE collection=?
		ORDER BY rowid ASC
	`, collection)
	if err != nil {
		return nil, err
	}
	items := make([]ports.Record, 0, len(rows))
	for _, r := range rows {
		items = append(items, r.toRecord(collection))
	}
	return items, nil
}

func (s *SQLite) Put(ctx context.Context, collection, id string, data json.RawMessage) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.q(ctx).ExecContext(ctx, `
		INSERT INTO records (collection, id, data, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (collection, id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at
	`, collection, id, string(data), now, now)
	return err
}

func (s *SQLite) Count(ctx context.Context, collection string) (int, error) {
	var n int
	err := sqlx.GetContext(ctx, s.q(ctx), &n, `SELECT count(*) FROM records WHERE collection=?`, collection)
	return n, err
}

// Atomic runs fn in a transaction. Nested calls join the outer transaction.
func (s *SQLite) Atomic(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(sqliteTxKey{}).(*sqlx.Tx); ok {
		return fn(ctx)
	}
	tx, err := s.DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	if err := fn(context.WithValue(ctx, sqliteTxKey{}, tx)); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (r sqliteRecord) toRecord(collection string) ports.Record {
	created, _ := time.Parse(time.RFC3339Nano, r.CreatedAt)
	updated, _ := time.Parse(time.RFC3339Nano, r.UpdatedAt)
	return ports.Record{
		Collection: collection,
		ID:         r.ID,
		Data:       json.RawMessage(r.Data),
		CreatedAt:  created,
		UpdatedAt:  updated,
	}
}
