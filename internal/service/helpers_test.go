package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/eduplatform/teacher-store/internal/auth"
	"github.com/eduplatform/teacher-store/internal/domain"
	"github.com/eduplatform/teacher-store/internal/events"
	"github.com/eduplatform/teacher-store/internal/notify"
	"github.com/eduplatform/teacher-store/internal/repository"
	"github.com/eduplatform/teacher-store/internal/repository/memory"
	apperrors "github.com/eduplatform/teacher-store/pkg/util"
)

type recordingMailer struct {
	mu   sync.Mutex
	sent []notify.Message
}

func (m *recordingMailer) Send(_ context.Context, msg notify.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

func (m *recordingMailer) subjectsTo(email string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, msg := range m.sent {
		if msg.ToEmail == email {
			out = append(out, msg.Subject)
		}
	}
	return out
}

type testEnv struct {
	store    *repository.Store
	sessions auth.SessionStore
	tokens   *auth.TokenManager
	mailer   *recordingMailer
	auth     *AuthService
	orders   *OrderService
	admin    *AdminService
	tickets  *TicketService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := memory.NewStore()
	logger := zap.NewNop()
	dispatcher := events.NewInMemoryDispatcher(logger)
	sessions := auth.NewMemorySessionStore()
	tokens := auth.NewTokenManager("test-secret", time.Hour, "test")
	mailer := &recordingMailer{}

	NewNotificationService(dispatcher, store.Users, mailer, logger).RegisterHandlers()

	return &testEnv{
		store:    store,
		sessions: sessions,
		tokens:   tokens,
		mailer:   mailer,
		auth: NewAuthService(AuthDependencies{
			UserRepo: store.Users, Transactor: store.Tx, TokenManager: tokens,
			Sessions: sessions, BcryptCost: bcrypt.MinCost, Logger: logger,
		}),
		orders: NewOrderService(OrderDependencies{
			OrderRepo: store.Orders, AdminLogRepo: store.AdminLogs, Transactor: store.Tx,
			Dispatcher: dispatcher, Logger: logger,
		}),
		admin: NewAdminService(AdminDependencies{
			UserRepo: store.Users, OrderRepo: store.Orders, AdminLogRepo: store.AdminLogs,
			Transactor: store.Tx, Sessions: sessions, Dispatcher: dispatcher, Logger: logger,
		}),
		tickets: NewTicketService(TicketDependencies{
			TicketRepo: store.Tickets, MessageRepo: store.Messages, AdminLogRepo: store.AdminLogs,
			Transactor: store.Tx, Dispatcher: dispatcher, Logger: logger,
		}),
	}
}

func (e *testEnv) registerTeacher(t *testing.T, email string) (*domain.User, Actor) {
	t.Helper()
	user, err := e.auth.Register(context.Background(), RegisterInput{
		Name:           "Fatima",
		Email:          email,
		Password:       "password1",
		EducationLevel: domain.EducationPrimary,
		Subject:        "Math",
		Phone:          "0600000000",
		City:           "Rabat",
		Institution:    "Ecole Al Amal",
	})
	require.NoError(t, err)
	return user, Actor{UserID: user.ID, Role: user.Role}
}

func (e *testEnv) provisionAdmin(t *testing.T) (*domain.User, Actor) {
	t.Helper()
	admin, _, err := e.auth.ProvisionAdmin(context.Background(), AdminInput{
		Email: "admin@eduplatform.ma", Name: "Platform Admin", Password: "admin-password",
	}, true)
	require.NoError(t, err)
	return admin, Actor{UserID: admin.ID, Role: admin.Role}
}

func (e *testEnv) adminLogs(t *testing.T) []domain.AdminLog {
	t.Helper()
	logs, err := e.store.AdminLogs.List(context.Background(), repository.AdminLogFilter{})
	require.NoError(t, err)
	return logs
}

func assertStatus(t *testing.T, err error, status int) {
	t.Helper()
	var derr *apperrors.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, status, derr.HTTPStatus, derr.Message)
}
