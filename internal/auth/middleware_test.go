package auth

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/eduplatform/teacher-store/internal/domain"
	"github.com/eduplatform/teacher-store/internal/repository"
	"github.com/eduplatform/teacher-store/internal/repository/memory"
	apperrors "github.com/eduplatform/teacher-store/pkg/util"
)

type fixture struct {
	app      *fiber.App
	tokens   *TokenManager
	sessions SessionStore
	users    repository.UserRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	tokens := NewTokenManager("secret", time.Hour, "test")
	sessions := NewMemorySessionStore()
	mw := NewMiddleware(tokens, store.Users, sessions, "session_token", zap.NewNop())

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			derr := apperrors.ToDomainError(err)
			return c.Status(derr.HTTPStatus).JSON(fiber.Map{"error": derr.Message})
		},
	})
	app.Use(mw.Identify)
	app.Get("/whoami", func(c *fiber.Ctx) error {
		switch id := IdentityFrom(c).(type) {
		case Authenticated:
			return c.SendString(id.UserID())
		default:
			return c.SendString("anonymous")
		}
	})
	app.Get("/private", RequireAuthenticated(), func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) })
	app.Get("/admin", RequireAdmin(), func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) })

	return &fixture{app: app, tokens: tokens, sessions: sessions, users: store.Users}
}

func (f *fixture) createUser(t *testing.T, email string, role domain.Role) (*domain.User, string, domain.Session) {
	t.Helper()
	user := &domain.User{Email: email, Name: "Test", Role: role, IsActive: true}
	require.NoError(t, f.users.Create(context.Background(), user))
	token, session, err := f.tokens.GenerateToken(user.ID, role)
	require.NoError(t, err)
	return user, token, session
}

func (f *fixture) do(t *testing.T, path, token string) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestGuards(t *testing.T) {
	f := newFixture(t)
	_, teacherToken, _ := f.createUser(t, "teacher@example.com", domain.RoleUser)
	_, adminToken, _ := f.createUser(t, "admin@example.com", domain.RoleAdmin)

	tests := []struct {
		name           string
		path           string
		token          string
		expectedStatus int
	}{
		{name: "private without token", path: "/private", expectedStatus: http.StatusUnauthorized},
		{name: "private with invalid token", path: "/private", token: "bogus", expectedStatus: http.StatusUnauthorized},
		{name: "private as teacher", path: "/private", token: teacherToken, expectedStatus: http.StatusOK},
		{name: "admin without token", path: "/admin", expectedStatus: http.StatusUnauthorized},
		{name: "admin as teacher", path: "/admin", token: teacherToken, expectedStatus: http.StatusForbidden},
		{name: "admin as admin", path: "/admin", token: adminToken, expectedStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expectedStatus, f.do(t, tt.path, tt.token))
		})
	}
}

func TestIdentifyUsesStoredRole(t *testing.T) {
	f := newFixture(t)
	user := &domain.User{Email: "teacher@example.com", Role: domain.RoleUser, IsActive: true}
	require.NoError(t, f.users.Create(context.Background(), user))

	// a token claiming ADMIN for a USER account must not pass the admin guard
	forged, _, err := f.tokens.GenerateToken(user.ID, domain.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, f.do(t, "/admin", forged))
}

func TestIdentifyRejectsSuspendedAndRevoked(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	suspended, suspendedToken, _ := f.createUser(t, "suspended@example.com", domain.RoleUser)
	_, err := f.users.SetActive(ctx, suspended.ID, false)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, f.do(t, "/private", suspendedToken))

	_, loggedOutToken, session := f.createUser(t, "out@example.com", domain.RoleUser)
	require.NoError(t, f.sessions.Revoke(ctx, session))
	assert.Equal(t, http.StatusUnauthorized, f.do(t, "/private", loggedOutToken))
}

func TestIdentifyReadsCookie(t *testing.T) {
	f := newFixture(t)
	user, token, _ := f.createUser(t, "cookie@example.com", domain.RoleUser)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: "session_token", Value: token})
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, user.ID, string(body))
}
