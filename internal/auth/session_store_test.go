package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduplatform/teacher-store/internal/domain"
)

func TestMemorySessionStoreRevokeToken(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySessionStore()
	now := time.Now()

	session := domain.Session{ID: "jti-1", UserID: "u1", IssuedAt: now, ExpiresAt: now.Add(time.Hour)}
	other := domain.Session{ID: "jti-2", UserID: "u1", IssuedAt: now, ExpiresAt: now.Add(time.Hour)}

	require.NoError(t, store.Revoke(ctx, session))

	revoked, err := store.IsRevoked(ctx, session)
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = store.IsRevoked(ctx, other)
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestMemorySessionStoreRevokeUser(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySessionStore()
	suspendedAt := time.Date(2024, 5, 1, 10, 0, 30, 500, time.UTC)

	before := domain.Session{ID: "a", UserID: "u1", IssuedAt: suspendedAt.Add(-time.Minute)}
	sameSecond := domain.Session{ID: "b", UserID: "u1", IssuedAt: suspendedAt.Truncate(time.Second)}
	after := domain.Session{ID: "c", UserID: "u1", IssuedAt: suspendedAt.Add(2 * time.Second)}
	otherUser := domain.Session{ID: "d", UserID: "u2", IssuedAt: suspendedAt.Add(-time.Minute)}

	require.NoError(t, store.RevokeUser(ctx, "u1", suspendedAt))

	tests := []struct {
		name    string
		session domain.Session
		want    bool
	}{
		{name: "issued before", session: before, want: true},
		{name: "issued within the same second", session: sameSecond, want: true},
		{name: "issued after", session: after, want: false},
		{name: "other user", session: otherUser, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.IsRevoked(ctx, tt.session)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRevocationCutoff(t *testing.T) {
	assert.Equal(t, int64(100), revocationCutoff(time.Unix(100, 0)))
	assert.Equal(t, int64(101), revocationCutoff(time.Unix(100, 1)))
}
