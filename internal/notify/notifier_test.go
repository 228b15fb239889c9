package notify

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubNotifier struct {
	calls int
	err   error
}

func (s *stubNotifier) Notify(ctx context.Context, message Message) error {
	s.calls++
	return s.err
}

func TestEmailSimulatorAlwaysSucceeds(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	simulator := NewEmailSimulator(logger, nil)

	err := simulator.Notify(context.Background(), Message{
		UserID:  "user-1",
		Subject: "Meeting invitation",
	})
	assert.NoError(t, err)
}

func TestMultiDeliversToAllAndReturnsFirstError(t *testing.T) {
	failure := errors.New("channel down")
	first := &stubNotifier{err: failure}
	second := &stubNotifier{}

	err := Multi{first, nil, second}.Notify(context.Background(), Message{UserID: "user-1"})

	assert.ErrorIs(t, err, failure)
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 1, second.calls)
}

func TestWebhookPostsJSONPayload(t *testing.T) {
	var received Message
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	webhook := NewWebhook(server.URL, server.Client())
	err := webhook.Notify(context.Background(), Message{
		UserID:  "user-2",
		EventID: "event-9",
		Subject: "Shoot rescheduled",
		Body:    "The Friday shoot moved to 14:00.",
	})

	require.NoError(t, err)
	assert.Equal(t, "user-2", received.UserID)
	assert.Equal(t, "event-9", received.EventID)
	assert.Equal(t, "Shoot rescheduled", received.Subject)
}

func TestWebhookRejectsNonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	webhook := NewWebhook(server.URL, server.Client())
	err := webhook.Notify(context.Background(), Message{UserID: "user-3"})

	assert.ErrorContains(t, err, "status 502")
}
