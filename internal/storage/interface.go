package storage

import (
	"context"
	"io"
	"time"
)

// StorageInterface is the object store behind club logos. The mock backend
// serves files from local disk through the HTTP side-surface; the S3 backend
// hands out presigned URLs.
type StorageInterface interface {
	// GeneratePresignedUploadURL returns a URL the client PUTs the object to.
	GeneratePresignedUploadURL(ctx context.Context, key string, contentType string, expiresIn time.Duration) (string, error)

	// GeneratePresignedDownloadURL returns a URL the object can be fetched from.
	GeneratePresignedDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, error)

	// FileExists reports whether the object exists and its size.
	FileExists(ctx context.Context, key string) (exists bool, size int64, err error)

	DeleteFile(ctx context.Context, key string) error

	// SaveFile and ReadFile back the mock upload and download routes.
	SaveFile(ctx context.Context, key string, reader io.Reader) error
	ReadFile(ctx context.Context, key string) (io.ReadCloser, error)
}
