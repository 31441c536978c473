package service

import (
	"context"
	"strings"
	"time"

	"cosmeticpos-backend/internal/authz"
	"cosmeticpos-backend/internal/domain"
)

type ActivityLogService struct {
	Deps
}

type ActivityLogInput struct {
	Title    string
	Message  string
	Type     domain.ActivityLogType
	LoggedAt *time.Time
}

// Record appends an entry on behalf of actor, for events raised by the
// front office.
func (s ActivityLogService) Record(ctx context.Context, actor *domain.User, in ActivityLogInput) (*domain.ActivityLog, error) {
	if actor == nil {
		return nil, ErrPermissionDenied
	}
	in.Title = strings.TrimSpace(in.Title)
	in.Message = strings.TrimSpace(in.Message)
	if in.Title == "" || in.Message == "" {
		return nil, invalid("title", "title and message are required")
	}
	switch in.Type {
	case domain.LogInfo, domain.LogWarning, domain.LogError:
	case "":
		in.Type = domain.LogInfo
	default:
		return nil, invalid("type", "unsupported log type %q", in.Type)
	}
	at := s.now()
	if in.LoggedAt != nil {
		at = in.LoggedAt.UTC()
	}
	return s.Repos.Logs.Create(ctx, &domain.ActivityLog{
		Title:    in.Title,
		Message:  in.Message,
		Actor:    actor.Username,
		Type:     in.Type,
		LoggedAt: at,
	})
}

// List returns up to limit entries, newest first.
func (s ActivityLogService) List(ctx context.Context, actor *domain.User, limit int) ([]*domain.ActivityLog, error) {
	if err := authorize(actor, authz.SettingsRead); err != nil {
		return nil, err
	}
	return s.Repos.Logs.Recent(ctx, limit)
}
