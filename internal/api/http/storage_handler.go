package http

import (
	"context"
	"io"
	"net/http"
	"path/filepath"

	"clubhub-backend/internal/logger"
)

const maxLogoBytes = 5 << 20

// BlobStore is the part of the mock object store the upload routes need.
type BlobStore interface {
	SaveFile(ctx context.Context, key string, reader io.Reader) error
	ReadFile(ctx context.Context, key string) (io.ReadCloser, error)
}

// StorageHandler serves the presigned URLs handed out by mock storage.
type StorageHandler struct {
	blobs BlobStore
}

func NewStorageHandler(blobs BlobStore) *StorageHandler {
	return &StorageHandler{blobs: blobs}
}

// HandleUpload handles HTTP PUT requests to mock presigned URLs
func (h *StorageHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		http.Error(w, "Missing key parameter", http.StatusBadRequest)
		return
	}

	switch r.Header.Get("Content-Type") {
	case "image/jpeg", "image/png", "image/gif":
	default:
		http.Error(w, "Invalid content type", http.StatusBadRequest)
		return
	}

	body := http.MaxBytesReader(w, r.Body, maxLogoBytes)
	if err := h.blobs.SaveFile(r.Context(), key, body); err != nil {
		logger.WarnContext(r.Context(), "Logo upload failed", "key", key, "error", err)
		http.Error(w, "Failed to save file", http.StatusInternalServerError)
		return
	}

	// Mimic the S3 response
	w.Header().Set("ETag", `"mock-etag-success"`)
	w.WriteHeader(http.StatusOK)
}

// HandleDownload handles HTTP GET requests to download logos
func (h *StorageHandler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		http.Error(w, "Missing key parameter", http.StatusBadRequest)
		return
	}

	file, err := h.blobs.ReadFile(r.Context(), key)
	if err != nil {
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}
	defer file.Close()

	contentType := "application/octet-stream"
	switch filepath.Ext(key) {
	case ".jpg", ".jpeg":
		contentType = "image/jpeg"
	case ".png":
		contentType = "image/png"
	case ".gif":
		contentType = "image/gif"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=3600")

	if _, err := io.Copy(w, file); err != nil {
		logger.WarnContext(r.Context(), "Logo download interrupted", "key", key, "error", err)
	}
}
