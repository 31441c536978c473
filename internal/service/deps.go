package service

import (
	"context"
	"log/slog"
	"time"

	"cosmeticpos-backend/internal/domain"
	"cosmeticpos-backend/internal/repository"
)

// Deps is embedded by every service.
type Deps struct {
	Repos    repository.Repositories
	Logger   *slog.Logger
	Clock    func() time.Time
	Location *time.Location
}

func (d Deps) now() time.Time {
	if d.Clock != nil {
		return d.Clock().UTC()
	}
	return time.Now().UTC()
}

func (d Deps) loc() *time.Location {
	if d.Location != nil {
		return d.Location
	}
	return time.Local
}

// Zone is the business time zone used for day boundaries.
func (d Deps) Zone() *time.Location { return d.loc() }

func (d Deps) log() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return slog.Default()
}

// audit appends an activity log entry. Failures are logged, not returned.
func (d Deps) audit(ctx context.Context, actor *domain.User, typ domain.ActivityLogType, title, message string) {
	name := "system"
	if actor != nil {
		name = actor.Username
	}
	_, err := d.Repos.Logs.Create(ctx, &domain.ActivityLog{
		Title:    title,
		Message:  message,
		Actor:    name,
		Type:     typ,
		LoggedAt: d.now(),
	})
	if err != nil {
		d.log().Warn("activity log write failed", "title", title, "err", err)
	}
}

func actorID(actor *domain.User) string {
	if actor == nil {
		return ""
	}
	return actor.ID
}
