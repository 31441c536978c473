package repository

import (
	"context"
	"slices"
	"time"

	"cosmeticpos-backend/internal/domain"
	"cosmeticpos-backend/internal/ports"
)

// MovementRepository is append-only: callers only Create and read.
type MovementRepository struct {
	Collection[domain.InventoryMovement, *domain.InventoryMovement]
}

func NewMovementRepository(store ports.RecordStore) MovementRepository {
	return MovementRepository{Collection[domain.InventoryMovement, *domain.InventoryMovement]{
		Store: store,
		Name:  "inventory_movements",
	}}
}

type MovementFilter struct {
	ProductID string
	Kind      domain.MovementKind
	Reference string
	From      *time.Time
	To        *time.Time
}

// ListFiltered returns matching movements newest first.
func (r MovementRepository) ListFiltered(ctx context.Context, f MovementFilter) ([]*domain.InventoryMovement, error) {
	items, err := r.Find(ctx, ListOptions{}, func(m *domain.InventoryMovement) bool {
		if f.ProductID != "" && m.ProductID != f.ProductID {
			return false
		}
		if f.Kind != "" && m.Kind != f.Kind {
			return false
		}
		if f.Reference != "" && m.Reference != f.Reference {
			return false
		}
		if f.From != nil && m.CreatedAt.Before(*f.From) {
			return false
		}
		if f.To != nil && !m.CreatedAt.Before(*f.To) {
			return false
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	slices.Reverse(items)
	return items, nil
}
