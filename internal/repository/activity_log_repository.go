package repository

import (
	"context"
	"slices"

	"cosmeticpos-backend/internal/domain"
	"cosmeticpos-backend/internal/ports"
)

type ActivityLogRepository struct {
	Collection[domain.ActivityLog, *domain.ActivityLog]
}

func NewActivityLogRepository(store ports.RecordStore) ActivityLogRepository {
	return ActivityLogRepository{Collection[domain.ActivityLog, *domain.ActivityLog]{
		Store: store,
		Name:  "activity_logs",
		SearchFields: func(l *domain.ActivityLog) []string {
			return []string{l.Title, l.Message, l.Actor}
		},
	}}
}

// Recent returns up to limit entries, newest first.
func (r ActivityLogRepository) Recent(ctx context.Context, limit int) ([]*domain.ActivityLog, error) {
	if limit <= 0 {
		limit = 100
	}
	items, err := r.List(ctx, ListOptions{})
	if err != nil {
		return nil, err
	}
	slices.Reverse(items)
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}
