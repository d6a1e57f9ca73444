package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduplatform/teacher-store/internal/domain"
)

func TestRegisterDefaults(t *testing.T) {
	env := newTestEnv(t)
	user, _ := env.registerTeacher(t, "  Fatima@X.ma ")

	assert.Equal(t, domain.RoleUser, user.Role)
	assert.True(t, user.IsActive)
	assert.Equal(t, "fatima@x.ma", user.Email)
	assert.Equal(t, domain.LanguageArabic, user.PreferredLanguage)
	assert.NotEqual(t, "password1", user.PasswordHash)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	env.registerTeacher(t, "fatima@x.ma")

	_, err := env.auth.Register(context.Background(), RegisterInput{
		Name: "Other", Email: "FATIMA@x.ma", Password: "password2",
		EducationLevel: domain.EducationSecondary, Subject: "Physics",
	})
	assertStatus(t, err, http.StatusConflict)

	count, err := env.store.Users.CountByRole(context.Background(), domain.RoleUser)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRegisterShortPassword(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.auth.Register(context.Background(), RegisterInput{Email: "a@b.ma", Password: "short"})
	assertStatus(t, err, http.StatusBadRequest)
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user, _ := env.registerTeacher(t, "fatima@x.ma")

	res, err := env.auth.Login(ctx, "Fatima@x.ma", "password1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, res.User.ID)
	session, err := env.tokens.ParseToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, session.UserID)

	_, err = env.auth.Login(ctx, "fatima@x.ma", "wrong-password")
	assertStatus(t, err, http.StatusUnauthorized)

	_, err = env.auth.Login(ctx, "nobody@x.ma", "password1")
	assertStatus(t, err, http.StatusUnauthorized)

	_, err = env.store.Users.SetActive(ctx, user.ID, false)
	require.NoError(t, err)
	_, err = env.auth.Login(ctx, "fatima@x.ma", "password1")
	assertStatus(t, err, http.StatusForbidden)
}

func TestLogoutRevokesSession(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.registerTeacher(t, "fatima@x.ma")

	res, err := env.auth.Login(ctx, "fatima@x.ma", "password1")
	require.NoError(t, err)
	require.NoError(t, env.auth.Logout(ctx, res.Session))

	revoked, err := env.sessions.IsRevoked(ctx, res.Session)
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestUpdateProfileAndPassword(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user, _ := env.registerTeacher(t, "fatima@x.ma")

	name := "Fatima Zahra"
	lang := domain.LanguageFrench
	updated, err := env.auth.UpdateProfile(ctx, user.ID, ProfileUpdate{Name: &name, PreferredLanguage: &lang})
	require.NoError(t, err)
	assert.Equal(t, "Fatima Zahra", updated.Name)
	assert.Equal(t, domain.LanguageFrench, updated.PreferredLanguage)
	assert.Equal(t, "Math", updated.Subject)

	err = env.auth.ChangePassword(ctx, user.ID, "wrong-current", "new-password")
	assertStatus(t, err, http.StatusBadRequest)

	err = env.auth.ChangePassword(ctx, user.ID, "password1", "short")
	assertStatus(t, err, http.StatusBadRequest)

	require.NoError(t, env.auth.ChangePassword(ctx, user.ID, "password1", "new-password"))
	_, err = env.auth.Login(ctx, "fatima@x.ma", "new-password")
	assert.NoError(t, err)
}

func TestProvisionAdmin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	admin, created, err := env.auth.ProvisionAdmin(ctx, AdminInput{Email: "admin@eduplatform.ma", Name: "Platform Admin", Password: "admin-password"}, true)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, domain.RoleAdmin, admin.Role)

	again, created, err := env.auth.ProvisionAdmin(ctx, AdminInput{Email: "admin@eduplatform.ma", Password: "rotated-password"}, true)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, admin.ID, again.ID)
	assert.Equal(t, "Platform Admin", again.Name)
	_, err = env.auth.Login(ctx, "admin@eduplatform.ma", "rotated-password")
	assert.NoError(t, err)

	_, _, err = env.auth.ProvisionAdmin(ctx, AdminInput{Email: "admin@eduplatform.ma", Password: "whatever-pass"}, false)
	assertStatus(t, err, http.StatusConflict)

	count, err := env.store.Users.CountByRole(ctx, domain.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
