package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"clubhub-backend/internal/security"
)

// RouterConfig selects the routes to mount. Nil fields leave their routes out.
type RouterConfig struct {
	Blobs    BlobStore
	Stream   StreamServer
	Tokens   security.TokenManager
	Gatherer prometheus.Gatherer
}

// NewRouter builds the HTTP side-surface that runs next to the gRPC server.
func NewRouter(cfg RouterConfig) *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	if cfg.Gatherer != nil {
		router.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}

	if cfg.Blobs != nil {
		RegisterMockStorageRoutes(router, cfg.Blobs)
	}

	if cfg.Stream != nil && cfg.Tokens != nil {
		stream := NewStreamHandler(cfg.Stream, cfg.Tokens)
		router.HandleFunc("/api/v1/notifications/stream", stream.HandleStream).Methods(http.MethodGet)
	}

	return router
}

// RegisterMockStorageRoutes registers the mock storage HTTP endpoints
func RegisterMockStorageRoutes(router *mux.Router, blobs BlobStore) {
	handler := NewStorageHandler(blobs)
	router.HandleFunc("/api/v1/upload/{token}", handler.HandleUpload).Methods(http.MethodPut)
	router.HandleFunc("/api/v1/download/{key}", handler.HandleDownload).Methods(http.MethodGet)
}
