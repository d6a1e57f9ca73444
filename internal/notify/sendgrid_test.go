package notify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/eduplatform/teacher-store/internal/config"
)

func TestSendgridMailerPostsV3Payload(t *testing.T) {
	var (
		gotPath string
		gotAuth string
		payload map[string]any
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &payload)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	m := NewSendgridMailer("key-123", "noreply@example.com", "Store", "teacher-store").(*sendgridMailer)
	m.host = srv.URL

	err := m.Send(context.Background(), Message{
		ToName:    "Fatima",
		ToEmail:   "fatima@example.com",
		Subject:   "Payment confirmed",
		PlainText: "Your bundle is ready.",
	})
	require.NoError(t, err)

	assert.Equal(t, "/v3/mail/send", gotPath)
	assert.Equal(t, "Bearer key-123", gotAuth)
	personalizations, ok := payload["personalizations"].([]any)
	require.True(t, ok)
	require.Len(t, personalizations, 1)
	first := personalizations[0].(map[string]any)
	assert.Equal(t, "[teacher-store] Payment confirmed", first["subject"])
}

func TestSendgridMailerReportsRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"errors":[{"message":"bad key"}]}`))
	}))
	defer srv.Close()

	m := NewSendgridMailer("bad", "noreply@example.com", "Store", "").(*sendgridMailer)
	m.host = srv.URL

	err := m.Send(context.Background(), Message{ToEmail: "x@example.com", Subject: "s", PlainText: "b"})
	assert.ErrorContains(t, err, "status 401")
}

func TestNewPicksLogMailerWithoutKey(t *testing.T) {
	m := New(config.NotificationConfig{}, "app", zap.NewNop())
	_, ok := m.(*logMailer)
	assert.True(t, ok)
	assert.NoError(t, m.Send(context.Background(), Message{ToEmail: "x@example.com"}))

	m = New(config.NotificationConfig{SendgridAPIKey: "k"}, "app", zap.NewNop())
	_, ok = m.(*sendgridMailer)
	assert.True(t, ok)
}
