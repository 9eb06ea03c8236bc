package notify

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestNotifier(endpoint string) *LineNotifier {
	n := NewLineNotifier(discardLogger())
	n.endpoint = endpoint
	return n
}

func TestSendPostsFormWithBearerToken(t *testing.T) {
	var gotAuth, gotMessage, gotContentType string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		require.NoError(t, r.ParseForm())
		gotMessage = r.PostFormValue("message")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := newTestNotifier(srv.URL)
	err := n.Send(context.Background(), "token-abc", "練習が追加されました")
	require.NoError(t, err)

	assert.Equal(t, "Bearer token-abc", gotAuth)
	assert.Equal(t, "application/x-www-form-urlencoded", gotContentType)
	assert.Equal(t, "練習が追加されました", gotMessage)
}

func TestSendNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	n := newTestNotifier(srv.URL)
	err := n.Send(context.Background(), "bad-token", "hello")
	assert.Error(t, err)
}

func TestSendToAllContinuesPastFailures(t *testing.T) {
	var mu sync.Mutex
	received := make([]string, 0)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get("Authorization")
		if token == "Bearer bad" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		mu.Lock()
		received = append(received, token)
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := newTestNotifier(srv.URL)
	n.SendToAll(context.Background(), []string{"good1", "bad", "good2"}, "hello")

	assert.ElementsMatch(t, []string{"Bearer good1", "Bearer good2"}, received)
}
