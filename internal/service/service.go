package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/eduplatform/teacher-store/internal/domain"
	"github.com/eduplatform/teacher-store/internal/events"
	apperrors "github.com/eduplatform/teacher-store/pkg/util"
)

// Actor is the verified caller an operation runs on behalf of.
type Actor struct {
	UserID string
	Role   domain.Role
}

// IsAdmin reports whether the actor holds the ADMIN role.
func (a Actor) IsAdmin() bool {
	return a.Role == domain.RoleAdmin
}

func requireAdmin(actor Actor) error {
	if actor.UserID == "" {
		return apperrors.NewUnauthorized("authentication required")
	}
	if !actor.IsAdmin() {
		return apperrors.NewForbidden("admin role required")
	}
	return nil
}

// eventPublisher stamps and publishes events; a nil dispatcher is a no-op.
type eventPublisher struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

func (p eventPublisher) publish(ctx context.Context, event events.Event) {
	if p.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	if err := p.dispatcher.Publish(ctx, event); err != nil && p.logger != nil {
		p.logger.Warn("publish event failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}

func stringPreview(body string, max int) string {
	body = strings.TrimSpace(body)
	if utf8.RuneCountInString(body) <= max {
		return body
	}
	runes := []rune(body)
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
