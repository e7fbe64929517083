// File: pkg/storage/gcs/buckets.go
package gcs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"bucketwarden/pkg/common"
	"bucketwarden/pkg/storage"

	"google.golang.org/api/iterator"
)

func (g *GCSStorage) ListBuckets(ctx context.Context) ([]storage.Bucket, error) {
	g.logger.Debug("Starting GCS ListBuckets operation")
	var buckets []storage.Bucket

	// 1. Fetch usage metrics for all buckets first (O(1) API calls)
	usageMap, err := g.getAllBucketUsages(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve GCS bucket usage metrics: %w", err)
	}

	// 2. Fetch bucket metadata (O(N) API calls, paginated by SDK)
	it := g.client.Buckets(ctx, g.projectID)
	for {
		bucketAttrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error listing buckets metadata: %w", err)
		}

		// Default to -1 if a specific bucket wasn't found in the metrics response
		usage := int64(-1)
		if u, ok := usageMap[bucketAttrs.Name]; ok {
			usage = u
		}

		buckets = append(buckets, storage.Bucket{
			Name:         bucketAttrs.Name,
			Provider:     common.GCS,
			Location:     bucketAttrs.Location,
			StorageClass: bucketAttrs.StorageClass,
			CreatedAt:    bucketAttrs.Created,
			UpdatedAt:    bucketAttrs.Updated,
			UsageBytes:   usage,
			Labels:       bucketAttrs.Labels,
		})
	}

	return buckets, nil
}

func (g *GCSStorage) DescribeBucket(ctx context.Context, bucketName string) (storage.Bucket, error) {
	g.logger.Debug("Starting GCS DescribeBucket operation", "bucket", bucketName)

	bucketHandle := g.client.Bucket(bucketName)
	attrs, err := bucketHandle.Attrs(ctx)
	if err != nil {
		return storage.Bucket{}, fmt.Errorf("error getting bucket attributes: %w", err)
	}

	usage, err := g.getSingleBucketUsage(ctx, bucketName)
	if err != nil {
		logLevel := slog.LevelWarn
		logMsg := "Failed to retrieve usage metrics due to API error, usage will be reported as N/A"

		if errors.Is(err, ErrMetricsNotFound) {
			logLevel = slog.LevelInfo
			logMsg = "Usage metrics not yet available (bucket may be new), usage will be reported as N/A"
		}

		g.logger.Log(ctx, logLevel, logMsg, "bucket", bucketName, "error", err)
		usage = -1 // Set usage to unknown on failure
	}

	details := storage.Bucket{
		Name:           attrs.Name,
		Provider:       common.GCS,
		Location:       attrs.Location,
		StorageClass:   attrs.StorageClass,
		CreatedAt:      attrs.Created,
		UpdatedAt:      attrs.Updated,
		UsageBytes:     usage,
		Labels:         attrs.Labels,
		LifecycleRules: mapLifecycleRules(attrs.Lifecycle.Rules),
		Versioning:     &storage.Versioning{Enabled: attrs.VersioningEnabled},
	}

	return details, nil
}
