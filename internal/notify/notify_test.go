package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendDelivers(t *testing.T) {
	var got sendRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/notifications/send", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL})
	client.Send(context.Background(), "u1", "u1@example.com", TemplateUserBanned, map[string]string{
		"reason": "spam",
	})

	assert.Equal(t, "u1", got.UserID)
	assert.Equal(t, "u1@example.com", got.Email)
	assert.Equal(t, TemplateUserBanned, got.Template)
	assert.Equal(t, "spam", got.Context["reason"])
}

func TestSendFailureIsSwallowed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL})
	// Must not panic or propagate anything.
	client.Send(context.Background(), "u1", "", TemplateContentRemoved, nil)
}

func TestDisabledClientDoesNothing(t *testing.T) {
	client := NewClient(Config{})
	assert.False(t, client.Enabled())
	client.Send(context.Background(), "u1", "", TemplatePhotoRejected, nil)
}

func TestFallbackSubjects(t *testing.T) {
	assert.Equal(t, "Your account has been suspended", subjectFor(TemplateUserBanned))
	assert.Equal(t, "Account notice", subjectFor("something_new"))

	body := bodyFor(TemplateUserBanned, map[string]string{
		"reason":     "spam",
		"expires_at": "2026-01-02 15:04:05 UTC",
	})
	assert.Contains(t, body, "Reason: spam")
	assert.Contains(t, body, "lifts at 2026-01-02 15:04:05 UTC")
}
