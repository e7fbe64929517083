// File: pkg/storage/s3/buckets.go
package s3

import (
	"context"
	"errors"
	"fmt"

	"bucketwarden/pkg/storage"

	"github.com/aws/aws-sdk-go-v2/aws"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
)

func (s *S3Storage) ListBuckets(ctx context.Context) ([]storage.Bucket, error) {
	s.logger.Debug("Starting S3 ListBuckets operation")

	out, err := s.client.ListBuckets(ctx, &awss3.ListBucketsInput{})
	if err != nil {
		return nil, fmt.Errorf("error listing buckets: %w", err)
	}

	buckets := make([]storage.Bucket, 0, len(out.Buckets))
	for _, b := range out.Buckets {
		bucket := storage.Bucket{
			Name:     aws.ToString(b.Name),
			Provider: s.ProviderName(),
			// Object usage is not exposed by the list call
			UsageBytes: -1,
		}
		if b.CreationDate != nil {
			bucket.CreatedAt = *b.CreationDate
		}
		if b.BucketRegion != nil {
			bucket.Location = aws.ToString(b.BucketRegion)
		}
		buckets = append(buckets, bucket)
	}

	return buckets, nil
}

func (s *S3Storage) DescribeBucket(ctx context.Context, bucketName string) (storage.Bucket, error) {
	s.logger.Debug("Starting S3 DescribeBucket operation", "bucket", bucketName)

	if _, err := s.client.HeadBucket(ctx, &awss3.HeadBucketInput{Bucket: aws.String(bucketName)}); err != nil {
		return storage.Bucket{}, fmt.Errorf("error getting bucket %s: %w", bucketName, err)
	}

	bucket := storage.Bucket{
		Name:       bucketName,
		Provider:   s.ProviderName(),
		UsageBytes: -1,
	}

	if loc, err := s.client.GetBucketLocation(ctx, &awss3.GetBucketLocationInput{Bucket: aws.String(bucketName)}); err == nil {
		bucket.Location = string(loc.LocationConstraint)
		if bucket.Location == "" {
			bucket.Location = defaultRegion
		}
	} else {
		// Many S3-compatible backends do not implement GetBucketLocation
		s.logger.Debug("Could not retrieve bucket location", "bucket", bucketName, "error", err)
	}

	policy, err := s.GetLifecycle(ctx, bucketName)
	switch {
	case err == nil:
		bucket.LifecycleRules = displayRules(*policy)
	case errors.Is(err, storage.ErrNoLifecycle):
		// Valid state, nothing to report
	default:
		s.logger.Warn("Could not retrieve lifecycle configuration for bucket", "bucket", bucketName, "error", err)
	}

	if v, err := s.client.GetBucketVersioning(ctx, &awss3.GetBucketVersioningInput{Bucket: aws.String(bucketName)}); err == nil {
		bucket.Versioning = &storage.Versioning{Enabled: v.Status == "Enabled"}
	}

	return bucket, nil
}

func (s *S3Storage) DescribeObject(ctx context.Context, bucketName string, objectKey string) (storage.Object, error) {
	s.logger.Debug("Starting S3 DescribeObject operation", "bucket", bucketName, "object", objectKey)

	out, err := s.client.HeadObject(ctx, &awss3.HeadObjectInput{
		Bucket: aws.String(bucketName),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		return storage.Object{}, fmt.Errorf("error getting object %s/%s: %w", bucketName, objectKey, err)
	}

	obj := storage.Object{
		Key:          objectKey,
		Bucket:       bucketName,
		Provider:     s.ProviderName(),
		Size:         aws.ToInt64(out.ContentLength),
		StorageClass: string(out.StorageClass),
		ETag:         aws.ToString(out.ETag),
	}
	if out.LastModified != nil {
		obj.LastModified = *out.LastModified
	}
	return obj, nil
}

func (s *S3Storage) ListObjects(ctx context.Context, bucketName string, prefix string) (storage.ObjectList, error) {
	s.logger.Debug("Starting S3 ListObjects operation (delimited)", "bucket", bucketName, "prefix", prefix)

	out, err := s.client.ListObjectsV2(ctx, &awss3.ListObjectsV2Input{
		Bucket:    aws.String(bucketName),
		Prefix:    aws.String(prefix),
		Delimiter: aws.String("/"),
	})
	if err != nil {
		return storage.ObjectList{}, fmt.Errorf("error listing objects: %w", err)
	}

	result := storage.ObjectList{
		BucketName:     bucketName,
		Prefix:         prefix,
		Objects:        []storage.Object{},
		CommonPrefixes: []string{},
		Truncated:      aws.ToBool(out.IsTruncated),
	}

	for _, cp := range out.CommonPrefixes {
		result.CommonPrefixes = append(result.CommonPrefixes, aws.ToString(cp.Prefix))
	}

	for _, obj := range out.Contents {
		o := storage.Object{
			Key:          aws.ToString(obj.Key),
			Bucket:       bucketName,
			Provider:     s.ProviderName(),
			Size:         aws.ToInt64(obj.Size),
			StorageClass: string(obj.StorageClass),
			ETag:         aws.ToString(obj.ETag),
		}
		if obj.LastModified != nil {
			o.LastModified = *obj.LastModified
		}
		result.Objects = append(result.Objects, o)
	}

	return result, nil
}
