package storage

import (
	"context"
	"time"
)

// Default expiry duration for presigned URLs
const DefaultPresignedURLExpiry = 15 * time.Minute

// BlobStore is the external blob collaborator: it accepts uploads and
// serves downloads through presigned URLs. It is never called from
// inside a structural transaction; the request layer talks to it only
// after a successful commit.
type BlobStore interface {
	// GeneratePresignedUploadURL creates a temporary URL allowing a PUT
	// of one object directly to the storage provider.
	GeneratePresignedUploadURL(ctx context.Context, objectKey string, contentType string, expires time.Duration) (string, error)

	// GeneratePresignedDownloadURL creates a temporary URL allowing a
	// GET of one object directly from the storage provider.
	GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error)

	// DeleteObject removes an object from the storage provider.
	DeleteObject(ctx context.Context, objectKey string) error
}
