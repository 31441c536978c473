package ports

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// HealthChecker is used to probe dependencies.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// ErrNotFound is returned by record stores when a document does not exist.
var ErrNotFound = errors.New("not found")

// Record is one stored JSON document inside a named collection.
type Record struct {
	Collection string
	ID         string
	Data       json.RawMessage
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// RecordStore persists JSON documents in named collections. List returns
// documents in insertion order. Put inserts or replaces by (collection, id).
// Atomic runs fn so that every store call made with the context it receives
// commits or rolls back together.
type RecordStore interface {
	HealthChecker
	Get(ctx context.Context, collection, id string) (*Record, error)
	List(ctx context.Context, collection string) ([]Record, error)
	Put(ctx context.Context, collection, id string, data json.RawMessage) error
	Count(ctx context.Context, collection string) (int, error)
	Atomic(ctx context.Context, fn func(ctx context.Context) error) error
}
