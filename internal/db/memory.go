package db

import (
	"context"
	"encoding/json"
	"slices"
	"sync"
	"time"

	"cosmeticpos-backend/internal/ports"
)

// Memory is an in-process record store. Atomic snapshots every collection
// and restores the snapshot when fn fails.
type Memory struct {
	mu          sync.Mutex
	collections map[string]*memCollection
}

type memCollection struct {
	order []string
	docs  map[string]ports.Record
}

type memTxKey struct{}

func NewMemory() *Memory {
	return &Memory{collections: make(map[string]*memCollection)}
}

func (m *Memory) Health(context.Context) error { return nil }

func (m *Memory) Close() {}

func (m *Memory) lock(ctx context.Context) func() {
	if owner, ok := ctx.Value(memTxKey{}).(*Memory); ok && owner == m {
		return func() {}
	}
	m.mu.Lock()
	return m.mu.Unlock
}

func (m *Memory) Get(ctx context.Context, collection, id string) (*ports.Record, error) {
	defer m.lock(ctx)()
	c, ok := m.collections[collection]
	if !ok {
		return nil, ports.ErrNotFound
	}
	rec, ok := c.docs[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	rec.Data = slices.Clone(rec.Data)
	return &rec, nil
}

func (m *Memory) List(ctx context.Context, collection string) ([]ports.Record, error) {
	defer m.lock(ctx)()
	c, ok := m.collections[collection]
	if !ok {
		return nil, nil
	}
	items := make([]ports.Record, 0, len(c.order))
	for _, id := range c.order {
		rec := c.docs[id]
		rec.Data = slices.Clone(rec.Data)
		items = append(items, rec)
	}
	return items, nil
}

func (m *Memory) Put(ctx context.Context, collection, id string, data json.RawMessage) error {
	defer m.lock(ctx)()
	c, ok := m.collections[collection]
	if !ok {
		c = &memCollection{docs: make(map[string]ports.Record)}
		m.collections[collection] = c
	}
	now := time.Now().UTC()
	rec, exists := c.docs[id]
	if !exists {
		rec = ports.Record{Collection: collection, ID: id, CreatedAt: now}
		c.order = append(c.order, id)
	}
	rec.Data = slices.Clone(data)
	rec.UpdatedAt = now
	c.docs[id] = rec
	return nil
}

func (m *Memory) Count(ctx context.Context, collection string) (int, error) {
	defer m.lock(ctx)()
	c, ok := m.collections[collection]
	if !ok {
		return 0, nil
	}
	return len(c.order), nil
}

// Atomic serializes fn against every other store call.
func (m *Memory) Atomic(ctx context.Context, fn func(ctx context.Context) error) error {
	if owner, ok := ctx.Value(memTxKey{}).(*Memory); ok && owner == m {
		return fn(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := m.snapshot()
	if err := fn(context.WithValue(ctx, memTxKey{}, m)); err != nil {
		m.collections = snapshot
		return err
	}
	return nil
}

func (m *Memory) snapshot() map[string]*memCollection {
	out := make(map[string]*memCollection, len(m.collections))
	for name, c := range m.collections {
		docs := make(map[string]ports.Record, len(c.docs))
		for id, rec := range c.docs {
			docs[id] = rec
		}
		out[name] = &memCollection{order: slices.Clone(c.order), docs: docs}
	}
	return out
}
