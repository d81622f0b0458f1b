package http

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clubhub-backend/internal/metrics"
	"clubhub-backend/internal/security"
	"clubhub-backend/internal/storage"
)

const testSecret = "router-test-secret-0123456789abcdefghij"

type fakeStream struct {
	userID string
}

func (f *fakeStream) ServeWS(w http.ResponseWriter, r *http.Request, userID string) error {
	f.userID = userID
	w.WriteHeader(http.StatusSwitchingProtocols)
	return nil
}

func do(t *testing.T, h http.Handler, method, target, contentType string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouter_MockStorage(t *testing.T) {
	blobs, err := storage.NewMockStorageService("http://localhost:50052", t.TempDir())
	require.NoError(t, err)
	router := NewRouter(RouterConfig{Blobs: blobs})

	png := []byte("\x89PNG fake image")
	key := "clubs/c1/logo.png"

	rec := do(t, router, http.MethodPut, "/api/v1/upload/tok?key="+key, "image/png", png)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `"mock-etag-success"`, rec.Header().Get("ETag"))

	rec = do(t, router, http.MethodGet, "/api/v1/download/abc?key="+key, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, png, rec.Body.Bytes())

	t.Run("rejects non-image uploads", func(t *testing.T) {
		rec := do(t, router, http.MethodPut, "/api/v1/upload/tok?key=clubs/c1/x.pdf", "application/pdf", []byte("%PDF"))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("requires key", func(t *testing.T) {
		rec := do(t, router, http.MethodPut, "/api/v1/upload/tok", "image/png", png)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown object", func(t *testing.T) {
		rec := do(t, router, http.MethodGet, "/api/v1/download/abc?key=clubs/c9/logo.png", "", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("wrong method", func(t *testing.T) {
		rec := do(t, router, http.MethodPost, "/api/v1/upload/tok?key="+key, "image/png", png)
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestRouter_Stream(t *testing.T) {
	tokens := security.NewTokenManager(testSecret, time.Hour, 24*time.Hour)
	stream := &fakeStream{}
	router := NewRouter(RouterConfig{Stream: stream, Tokens: tokens})

	access, err := tokens.GenerateAccessToken("u1", "u1@example.com", "student")
	require.NoError(t, err)
	refresh, err := tokens.GenerateRefreshToken("u1", "u1@example.com")
	require.NoError(t, err)

	rec := do(t, router, http.MethodGet, "/api/v1/notifications/stream", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, router, http.MethodGet, "/api/v1/notifications/stream?token="+refresh, "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, stream.userID)

	rec = do(t, router, http.MethodGet, "/api/v1/notifications/stream?token="+access, "", nil)
	assert.Equal(t, http.StatusSwitchingProtocols, rec.Code)
	assert.Equal(t, "u1", stream.userID)

	stream.userID = ""
	req := httptest.NewRequest(http.MethodGet, "/api/v1/notifications/stream", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, "u1", stream.userID)
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := metrics.New()
	m.Register(registry)
	m.NotificationsCreated(3)

	router := NewRouter(RouterConfig{Gatherer: registry})

	rec := do(t, router, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	rec = do(t, router, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "clubhub_notifications_created_total 3"))

	rec = do(t, router, http.MethodGet, "/api/v1/notifications/stream", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code, "stream route is absent without a hub")
}
