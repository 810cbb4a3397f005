package interfaces

import (
	"context"
	"time"
)

// ResourceKind identifies how the remote store should treat an uploaded payload.
type ResourceKind string

const (
	ResourceKindImage ResourceKind = "image"
	ResourceKindVideo ResourceKind = "video"
)

// MediaStorage is the remote object-storage collaborator. Uploads and deletes
// are assumed atomic: they either fully succeed or fail with no partial state.
type MediaStorage interface {
	// Upload stores the payload under the destination path and returns a
	// stable identifier plus a retrievable URL.
	Upload(ctx context.Context, req UploadRequest) (*StoredObject, error)
	// Delete removes a previously stored object by its public identifier.
	Delete(ctx context.Context, publicID string) error
	// DeletePrefix removes every object stored under the given path prefix
	// and reports how many objects were deleted.
	DeletePrefix(ctx context.Context, prefix string) (int, error)
	// Exists reports whether the object is still present in the store.
	Exists(ctx context.Context, publicID string) (bool, error)
}

// UploadRequest carries a byte buffer plus destination metadata for the store.
type UploadRequest struct {
	Data     []byte
	Path     string
	FileName string
	Kind     ResourceKind
}

// StoredObject describes a successfully stored payload.
type StoredObject struct {
	PublicID string
	URL      string
	Format   string
	Size     int64
}

// UsageReporter exposes the provider's account-level usage endpoint. The
// limits cache is its only consumer; the call is expensive and rate-limited
// upstream, which is why results are memoized.
type UsageReporter interface {
	Usage(ctx context.Context) (*AccountUsage, error)
}

// AccountUsage is the subset of the provider usage report the gallery reads.
type AccountUsage struct {
	Plan               string
	StorageUsedBytes   int64
	ImageMaxSizeBytes  int64
	VideoMaxSizeBytes  int64
	RawMaxSizeBytes    int64
	ImageMaxPx         int64
	AssetMaxTotalPx    int64
	RateLimitAllowed   int
	RateLimitRemaining int
	RateLimitResetAt   time.Time
}
