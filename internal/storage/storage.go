package storage

import (
	"context"
	"time"
)

// Default expiry duration for presigned URLs
const DefaultPresignedURLExpiry = 15 * time.Minute

// FileStorage defines the interface for object storage operations. It backs
// two concerns: per-coach backup blobs and presigned logo uploads.
type FileStorage interface {
	// UploadObject writes an object, overwriting any existing content at
	// the key.
	UploadObject(ctx context.Context, objectKey string, contentType string, body []byte) error

	// DownloadObject reads an object's full content.
	DownloadObject(ctx context.Context, objectKey string) ([]byte, error)

	// DeleteObject removes an object from the storage provider.
	DeleteObject(ctx context.Context, objectKey string) error

	// GeneratePresignedUploadURL creates a temporary URL that allows PUT
	// requests for uploading an object directly to the storage provider.
	GeneratePresignedUploadURL(ctx context.Context, objectKey string, contentType string, expires time.Duration) (string, error)

	// GeneratePresignedDownloadURL creates a temporary URL that allows GET
	// requests for downloading an object directly from the storage provider.
	GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error)
}

// StorageError distinguishes storage layer errors.
type StorageError string

func (e StorageError) Error() string {
	return string(e)
}

// ErrObjectNotFound is returned when the requested key does not exist.
var ErrObjectNotFound = StorageError("object not found in storage")
