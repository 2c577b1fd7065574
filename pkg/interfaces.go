package shared

import (
	"context"

	"github.com/redcap-42/runboard/pkg/domain/activity"
)

// --- Persistence Interfaces ---

type Database interface {
	GetActivity(ctx context.Context, userID, activityID string) (*activity.Activity, error)
	ListActivities(ctx context.Context, userID string) ([]*activity.Activity, error)
	UpdateActivity(ctx context.Context, userID, activityID string, data map[string]interface{}) error
}

// --- Storage Interfaces ---

type BlobStore interface {
	Write(ctx context.Context, bucket, object string, data []byte) error
	Read(ctx context.Context, bucket, object string) ([]byte, error)
	Remove(ctx context.Context, bucket string, objects []string) error
	List(ctx context.Context, bucket, prefix string) ([]string, error)
}

// --- Upstream Interfaces ---

// VendorClient is the paginated activity listing / original-file download
// surface of the device vendor's API. Implementations live outside this
// repository; the sync flow only needs these two calls.
type VendorClient interface {
	ListActivities(ctx context.Context, start, limit int) ([]activity.Activity, error)
	DownloadOriginal(ctx context.Context, vendorID int64) ([]byte, error)
}
