package admin

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/andy6609/username-relay/internal/chat"
)

func newRegistry(t *testing.T, names ...string) *chat.Registry {
	t.Helper()
	reg := chat.NewRegistry(nil)
	for _, name := range names {
		require.NoError(t, reg.Register(name, chat.NewConnSink(nil, 0)))
	}
	return reg
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestRouter_Health(t *testing.T) {
	h := NewRouter(newRegistry(t, "alice", "bob"))

	rec := get(t, h, "/health")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]int
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Equal(t, 2, body["sessions"])
	require.Positive(t, body["goroutines"])
}

func TestRouter_Sessions(t *testing.T) {
	h := NewRouter(newRegistry(t, "bob", "alice"))

	rec := get(t, h, "/sessions")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string][]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Equal(t, []string{"alice", "bob"}, body["usernames"])
}

func TestRouter_Metrics(t *testing.T) {
	h := NewRouter(newRegistry(t, "alice"))

	rec := get(t, h, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, strings.Contains(rec.Body.String(), "relay_connected_sessions"))
}

func TestRouter_UnknownPath(t *testing.T) {
	h := NewRouter(newRegistry(t))

	rec := get(t, h, "/nope")
	require.Equal(t, http.StatusNotFound, rec.Code)
}
