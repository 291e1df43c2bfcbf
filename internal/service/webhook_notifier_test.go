package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWebhookNotifierDeliversPayload(t *testing.T) {
	received := make(chan ReviewNotification, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var payload ReviewNotification
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		received <- payload
	}))
	defer server.Close()

	notifier := NewWebhookNotifier(server.URL, time.Second, testLogger())
	notifier.Notify(context.Background(), ReviewNotification{StudentID: 7, QuizScore: 3, FocusMinutes: 10})

	select {
	case payload := <-received:
		require.Equal(t, uint(7), payload.StudentID)
		require.Equal(t, 3, payload.QuizScore)
		require.Equal(t, 10, payload.FocusMinutes)
	case <-time.After(time.Second):
		t.Fatal("webhook was never called")
	}
}

func TestWebhookNotifierSkipsWhenUnconfigured(t *testing.T) {
	notifier := NewWebhookNotifier("", time.Second, testLogger())
	notifier.Notify(context.Background(), ReviewNotification{StudentID: 1})
}

func TestWebhookNotifierSwallowsFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	notifier := NewWebhookNotifier(server.URL, time.Second, testLogger())
	notifier.Notify(context.Background(), ReviewNotification{StudentID: 1})

	// transport-level failure after the server goes away
	server.Close()
	notifier.Notify(context.Background(), ReviewNotification{StudentID: 1})
}
