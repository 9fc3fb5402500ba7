package ports

import "context"

// BucketStore is an opaque keyed store organized into named buckets.
// The agent uses three buckets: listings, transactions and inventory.
type BucketStore interface {
	// Put stores a record under bucket/key, overwriting any previous value.
	Put(ctx context.Context, bucket, key string, record any) error

	// Get decodes the record at bucket/key into out. Returns false with a
	// nil error when the key is absent.
	Get(ctx context.Context, bucket, key string, out any) (bool, error)

	// ListKeys returns all keys in the bucket, sorted.
	ListKeys(ctx context.Context, bucket string) ([]string, error)

	// Delete removes bucket/key. Deleting an absent key is not an error.
	Delete(ctx context.Context, bucket, key string) error

	// Close releases the underlying resources.
	Close() error
}
