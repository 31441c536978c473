package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"cosmeticpos-backend/internal/domain"
	"cosmeticpos-backend/internal/ports"
	"github.com/google/uuid"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = ports.ErrNotFound

// Record is satisfied by pointers to domain entities that embed domain.Base.
type Record[T any] interface {
	*T
	Meta() *domain.Base
}

type activeFlag interface {
	IsActive() bool
}

// ListOptions controls the default tombstone/inactive filter.
type ListOptions struct {
	IncludeInactive bool
	IncludeDeleted  bool
}

// Collection is typed CRUD over one named collection of a RecordStore.
type Collection[T any, PT Record[T]] struct {
	Store ports.RecordStore
	Name  string
	// SearchFields returns the values matched by Search.
	SearchFields func(PT) []string
	Now          func() time.Time
}

func (c Collection[T, PT]) now() time.Time {
	if c.Now != nil {
		return c.Now().UTC()
	}
	return time.Now().UTC()
}

func (c Collection[T, PT]) decode(rec ports.Record) (PT, error) {
	var v T
	if err := json.Unmarshal(rec.Data, &v); err != nil {
		return nil, fmt.Errorf("decode %s/%s: %w", c.Name, rec.ID, err)
	}
	return PT(&v), nil
}

func (c Collection[T, PT]) put(ctx context.Context, item PT) error {
	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.Name, err)
	}
	return c.Store.Put(ctx, c.Name, item.Meta().ID, data)
}

// Create assigns an id (unless preset) and timestamps, then stores item.
func (c Collection[T, PT]) Create(ctx context.Context, item PT) (PT, error) {
	meta := item.Meta()
	if meta.ID == "" {
		meta.ID = uuid.NewString()
	}
	now := c.now()
	meta.CreatedAt = now
	meta.UpdatedAt = now
	if err := c.put(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Get returns the record, tombstoned or not, or ErrNotFound.
func (c Collection[T, PT]) Get(ctx context.Context, id string) (PT, error) {
	rec, err := c.Store.Get(ctx, c.Name, id)
	if err != nil {
		return nil, err
	}
	return c.decode(*rec)
}

// Save overwrites item and bumps its updatedAt.
func (c Collection[T, PT]) Save(ctx context.Context, item PT) error {
	item.Meta().UpdatedAt = c.now()
	return c.put(ctx, item)
}

// Update applies fn to the stored record and saves it. A missing or
// tombstoned id is a no-op that returns (nil, nil), so a restore brings the
// record back as it was deleted.
func (c Collection[T, PT]) Update(ctx context.Context, id string, fn func(PT) error) (PT, error) {
	item, err := c.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if item.Meta().Deleted() {
		return nil, nil
	}
	if err := fn(item); err != nil {
		return nil, err
	}
	if err := c.Save(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// SoftDelete stamps the tombstone. fn may record extra deletion metadata.
func (c Collection[T, PT]) SoftDelete(ctx context.Context, id string, fn func(PT)) (bool, error) {
	item, err := c.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	now := c.now()
	item.Meta().DeletedAt = &now
	if fn != nil {
		fn(item)
	}
	return true, c.Save(ctx, item)
}

// Restore clears the tombstone. fn may clear extra deletion metadata.
func (c Collection[T, PT]) Restore(ctx context.Context, id string, fn func(PT)) (bool, error) {
	item, err := c.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	item.Meta().DeletedAt = nil
	if fn != nil {
		fn(item)
	}
	return true, c.Save(ctx, item)
}

// All returns every record in insertion order, tombstones included.
func (c Collection[T, PT]) All(ctx context.Context) ([]PT, error) {
	recs, err := c.Store.List(ctx, c.Name)
	if err != nil {
		return nil, err
	}
	out := make([]PT, 0, len(recs))
	for _, rec := range recs {
		item, err := c.decode(rec)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

// List returns records in insertion order, hiding tombstoned and inactive
// records unless opts asks for them.
func (c Collection[T, PT]) List(ctx context.Context, opts ListOptions) ([]PT, error) {
	return c.Find(ctx, opts, nil)
}

// Find is List narrowed by match. A nil match keeps everything.
func (c Collection[T, PT]) Find(ctx context.Context, opts ListOptions, match func(PT) bool) ([]PT, error) {
	all, err := c.All(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]PT, 0, len(all))
	for _, item := range all {
		if !visible(item, opts) {
			continue
		}
		if match != nil && !match(item) {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

// FindOne returns the first record of All that satisfies match, or nil.
func (c Collection[T, PT]) FindOne(ctx context.Context, match func(PT) bool) (PT, error) {
	all, err := c.All(ctx)
	if err != nil {
		return nil, err
	}
	for _, item := range all {
		if match(item) {
			return item, nil
		}
	}
	return nil, nil
}

// Search matches query case-insensitively as a substring of SearchFields.
func (c Collection[T, PT]) Search(ctx context.Context, query string, opts ListOptions) ([]PT, error) {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" || c.SearchFields == nil {
		return c.List(ctx, opts)
	}
	return c.Find(ctx, opts, func(item PT) bool {
		for _, field := range c.SearchFields(item) {
			if strings.Contains(strings.ToLower(field), needle) {
				return true
			}
		}
		return false
	})
}

// Count includes tombstoned records.
func (c Collection[T, PT]) Count(ctx context.Context) (int, error) {
	return c.Store.Count(ctx, c.Name)
}

func visible[T any, PT Record[T]](item PT, opts ListOptions) bool {
	if item.Meta().DeletedAt != nil && !opts.IncludeDeleted && !opts.IncludeInactive {
		return false
	}
	if a, ok := any(item).(activeFlag); ok && !a.IsActive() && !opts.IncludeInactive {
		return false
	}
	return true
}
