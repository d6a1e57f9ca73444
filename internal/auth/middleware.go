package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/eduplatform/teacher-store/internal/repository"
)

// Middleware resolves the request identity from the session token.
type Middleware struct {
	tokens     *TokenManager
	users      repository.UserRepository
	sessions   SessionStore
	cookieName string
	logger     *zap.Logger
}

// NewMiddleware constructs middleware.
func NewMiddleware(tokens *TokenManager, users repository.UserRepository, sessions SessionStore, cookieName string, logger *zap.Logger) *Middleware {
	return &Middleware{tokens: tokens, users: users, sessions: sessions, cookieName: cookieName, logger: logger}
}

// Identify attaches Anonymous or Authenticated to every request. It never
// rejects; route guards decide what an anonymous caller may reach.
func (m *Middleware) Identify(c *fiber.Ctx) error {
	setIdentity(c, m.resolve(c))
	return c.Next()
}

func (m *Middleware) resolve(c *fiber.Ctx) Identity {
	raw := m.tokenFrom(c)
	if raw == "" {
		return Anonymous{}
	}

	session, err := m.tokens.ParseToken(raw)
	if err != nil {
		return Anonymous{}
	}

	ctx := c.UserContext()
	revoked, err := m.sessions.IsRevoked(ctx, *session)
	if err != nil {
		m.logger.Warn("session revocation check failed", zap.String("session_id", session.ID), zap.Error(err))
		return Anonymous{}
	}
	if revoked {
		return Anonymous{}
	}

	user, err := m.users.GetByID(ctx, session.UserID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			m.logger.Warn("load session user failed", zap.String("user_id", session.UserID), zap.Error(err))
		}
		return Anonymous{}
	}
	if !user.IsActive {
		return Anonymous{}
	}
	return Authenticated{User: user, Session: *session}
}

// tokenFrom prefers the Authorization header and falls back to the session cookie.
func (m *Middleware) tokenFrom(c *fiber.Ctx) string {
	if header := c.Get(fiber.HeaderAuthorization); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if m.cookieName != "" {
		return c.Cookies(m.cookieName)
	}
	return ""
}
