// File: pkg/storage/gcs/objects.go
package gcs

import (
	"context"
	"fmt"

	"bucketwarden/pkg/common"
	"bucketwarden/pkg/storage"

	gcsstorage "cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
)

func (g *GCSStorage) DescribeObject(ctx context.Context, bucketName string, objectKey string) (storage.Object, error) {
	g.logger.Debug("Starting GCS DescribeObject operation", "bucket", bucketName, "object", objectKey)

	attrs, err := g.client.Bucket(bucketName).Object(objectKey).Attrs(ctx)
	if err != nil {
		return storage.Object{}, fmt.Errorf("error getting object attributes: %w", err)
	}

	return storage.Object{
		Key:          attrs.Name,
		Bucket:       attrs.Bucket,
		Provider:     common.GCS,
		Size:         attrs.Size,
		StorageClass: attrs.StorageClass,
		LastModified: attrs.Updated,
		ETag:         attrs.Etag,
	}, nil
}

func (g *GCSStorage) ListObjects(ctx context.Context, bucketName string, prefix string) (storage.ObjectList, error) {
	g.logger.Debug("Starting GCS ListObjects operation (delimited)", "bucket", bucketName, "prefix", prefix)

	bucketHandle := g.client.Bucket(bucketName)

	query := &gcsstorage.Query{
		Prefix:    prefix,
		Delimiter: "/",
	}

	it := bucketHandle.Objects(ctx, query)

	result := storage.ObjectList{
		BucketName:     bucketName,
		Prefix:         prefix,
		Objects:        []storage.Object{},
		CommonPrefixes: []string{},
	}

	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return storage.ObjectList{}, fmt.Errorf("error iterating objects: %w", err)
		}

		// If attrs.Prefix is set, it's a common prefix (directory)
		if attrs.Prefix != "" {
			result.CommonPrefixes = append(result.CommonPrefixes, attrs.Prefix)
			continue
		}

		result.Objects = append(result.Objects, storage.Object{
			Key:          attrs.Name,
			Bucket:       attrs.Bucket,
			Provider:     common.GCS,
			Size:         attrs.Size,
			StorageClass: attrs.StorageClass,
			LastModified: attrs.Updated,
			ETag:         attrs.Etag,
		})
	}

	return result, nil
}
