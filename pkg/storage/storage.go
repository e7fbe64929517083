// File: pkg/storage/storage.go
package storage

import (
	"context"
	"errors"

	"bucketwarden/pkg/common"
	"bucketwarden/pkg/lifecycle"
)

// ErrNoLifecycle is returned by GetLifecycle when the remote explicitly
// reports that the bucket has no lifecycle configuration. This is a distinct,
// valid state, not a transport failure, and callers must not conflate the two.
var ErrNoLifecycle = errors.New("bucket has no lifecycle configuration")

// LifecycleStore is the control-plane surface a provider must expose for the
// reconcile pipeline. Only S3-compatible providers implement it.
type LifecycleStore interface {
	ProviderName() common.Provider

	// Probe performs a lightweight reachability check (list buckets) before
	// any configuration read is attempted.
	Probe(ctx context.Context) error

	// GetLifecycle returns the bucket's current policy, or ErrNoLifecycle
	// when the remote reports none exists.
	GetLifecycle(ctx context.Context, bucket string) (*lifecycle.Policy, error)

	// PutLifecycle replaces the bucket's lifecycle configuration wholesale.
	PutLifecycle(ctx context.Context, bucket string, policy lifecycle.Policy) error

	// CountObjects counts object keys up to limit. truncated reports whether
	// the bucket holds more keys than the limit.
	CountObjects(ctx context.Context, bucket string, limit int32) (count int, truncated bool, err error)

	Close() error
}

// Inspector is the read-only reporting surface used by the buckets command.
type Inspector interface {
	ProviderName() common.Provider
	ListBuckets(ctx context.Context) ([]Bucket, error)
	DescribeBucket(ctx context.Context, bucketName string) (Bucket, error)
	ListObjects(ctx context.Context, bucketName string, prefix string) (ObjectList, error)
	DescribeObject(ctx context.Context, bucketName string, objectKey string) (Object, error)
	Close() error
}
