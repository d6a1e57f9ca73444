package main

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/eduplatform/teacher-store/internal/auth"
	"github.com/eduplatform/teacher-store/internal/config"
	"github.com/eduplatform/teacher-store/internal/domain"
	"github.com/eduplatform/teacher-store/internal/repository"
	"github.com/eduplatform/teacher-store/internal/repository/memory"
	"github.com/eduplatform/teacher-store/internal/service"
)

func setup(t *testing.T, seed config.SeedConfig) (*commandLine, *repository.Store, *bytes.Buffer) {
	t.Helper()
	store := memory.NewStore()
	out := &bytes.Buffer{}
	cli := &commandLine{
		auth: service.NewAuthService(service.AuthDependencies{
			UserRepo:     store.Users,
			Transactor:   store.Tx,
			TokenManager: auth.NewTokenManager("secret", time.Hour, "test"),
			Sessions:     auth.NewMemorySessionStore(),
			BcryptCost:   bcrypt.MinCost,
			Logger:       zap.NewNop(),
		}),
		seed: seed,
		out:  out,
	}
	return cli, store, out
}

func mockPassword(t *testing.T, pwd string, err error) {
	t.Helper()
	original := readPasswordFunc
	readPasswordFunc = func(int) ([]byte, error) { return []byte(pwd), err }
	t.Cleanup(func() { readPasswordFunc = original })
}

func TestRunUsage(t *testing.T) {
	cli, _, _ := setup(t, config.SeedConfig{})

	tests := []struct {
		name string
		args []string
	}{
		{name: "no command", args: nil},
		{name: "unknown command", args: []string{"lol"}},
		{name: "create-admin without email", args: []string{"create-admin"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(context.Background(), append([]string{"admin"}, tt.args...))
			assert.ErrorIs(t, err, errHelp)
		})
	}
}

func TestSeedIsIdempotent(t *testing.T) {
	cli, store, out := setup(t, config.SeedConfig{
		AdminEmail:    "admin@eduplatform.ma",
		AdminName:     "Platform Admin",
		AdminPassword: "admin-password",
	})
	ctx := context.Background()

	require.NoError(t, cli.run(ctx, []string{"admin", "seed"}))
	require.NoError(t, cli.run(ctx, []string{"admin", "seed"}))
	assert.Contains(t, out.String(), "admin admin@eduplatform.ma created")
	assert.Contains(t, out.String(), "admin admin@eduplatform.ma updated")

	count, err := store.Users.CountByRole(ctx, domain.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSeedRequiresPassword(t *testing.T) {
	cli, _, _ := setup(t, config.SeedConfig{AdminEmail: "admin@eduplatform.ma"})
	err := cli.run(context.Background(), []string{"admin", "seed"})
	assert.EqualError(t, err, "SEED_ADMIN_PASSWORD is required")
}

func TestCreateAdmin(t *testing.T) {
	cli, store, _ := setup(t, config.SeedConfig{})
	ctx := context.Background()

	mockPassword(t, "", nil)
	err := cli.run(ctx, []string{"admin", "create-admin", "-email", "ops@eduplatform.ma"})
	assert.ErrorIs(t, err, errHelp)

	boom := errors.New("no tty")
	mockPassword(t, "", boom)
	err = cli.run(ctx, []string{"admin", "create-admin", "-email", "ops@eduplatform.ma"})
	assert.ErrorIs(t, err, boom)

	mockPassword(t, "ops-password", nil)
	require.NoError(t, cli.run(ctx, []string{"admin", "create-admin", "-email", "ops@eduplatform.ma", "-name", "Ops"}))

	user, err := store.Users.GetByEmail(ctx, "ops@eduplatform.ma")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, user.Role)
	assert.Equal(t, "Ops", user.Name)
	assert.True(t, user.IsActive)

	err = cli.run(ctx, []string{"admin", "create-admin", "-email", "ops@eduplatform.ma"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "email already registered")
}
