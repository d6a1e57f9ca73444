package repository_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/eduplatform/teacher-store/internal/config"
	"github.com/eduplatform/teacher-store/internal/domain"
	"github.com/eduplatform/teacher-store/internal/persistence"
	"github.com/eduplatform/teacher-store/internal/repository"
)

// openPostgresStore connects to TEST_POSTGRES_DSN and skips when it is unset.
func openPostgresStore(t *testing.T) *repository.Store {
	t.Helper()
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set")
	}

	store, pg, err := persistence.OpenStore(context.Background(), config.PostgresConfig{DSN: dsn, RunMigrations: true}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(pg.Close)
	return store
}

func TestPostgresConfirmPendingInsideTx(t *testing.T) {
	ctx := context.Background()
	store := openPostgresStore(t)

	teacher := &domain.User{
		Name:              "Fatima Zahra",
		Email:             uuid.NewString() + "@example.com",
		PasswordHash:      "hash",
		Role:              domain.RoleUser,
		EducationLevel:    domain.EducationPrimary,
		Subject:           "Arabic",
		PreferredLanguage: domain.LanguageArabic,
		IsActive:          true,
	}
	require.NoError(t, store.Users.Create(ctx, teacher))

	order := &domain.Order{
		UserID: teacher.ID, BundleTier: domain.BundleStarter, Status: domain.OrderStatusPending,
		Total: decimal.NewFromInt(149), PaymentMethod: domain.PaymentBankTransfer,
	}
	require.NoError(t, store.Orders.Create(ctx, order))

	confirm := func(id string) (*domain.Order, error) {
		var paid *domain.Order
		err := store.Tx.WithinTx(ctx, func(ctx context.Context) error {
			var err error
			paid, err = store.Orders.ConfirmPending(ctx, id, teacher.ID, time.Now().UTC())
			return err
		})
		return paid, err
	}

	_, err := confirm("not-a-uuid")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = confirm(uuid.NewString())
	assert.ErrorIs(t, err, repository.ErrNotFound)

	paid, err := confirm(order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPaid, paid.Status)

	_, err = confirm(order.ID)
	assert.ErrorIs(t, err, repository.ErrConflict)
}
