// File: pkg/storage/s3/lifecycle.go
package s3

import (
	"context"
	"errors"
	"fmt"

	"bucketwarden/pkg/lifecycle"
	"bucketwarden/pkg/storage"

	"github.com/aws/aws-sdk-go-v2/aws"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// Error code the control plane returns when a bucket has no lifecycle
// configuration at all. Distinct from an auth or transport failure.
const errCodeNoSuchLifecycle = "NoSuchLifecycleConfiguration"

// Probe verifies the endpoint is reachable and the credentials are accepted
// before any configuration read is attempted.
func (s *S3Storage) Probe(ctx context.Context) error {
	s.logger.Debug("Probing S3 endpoint", "endpoint", s.endpoint)

	if _, err := s.client.ListBuckets(ctx, &awss3.ListBucketsInput{}); err != nil {
		return fmt.Errorf("endpoint %s is not reachable: %w", s.endpoint, err)
	}
	return nil
}

func (s *S3Storage) GetLifecycle(ctx context.Context, bucket string) (*lifecycle.Policy, error) {
	s.logger.Debug("Getting lifecycle configuration", "bucket", bucket)

	out, err := s.client.GetBucketLifecycleConfiguration(ctx, &awss3.GetBucketLifecycleConfigurationInput{
		Bucket: aws.String(bucket),
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == errCodeNoSuchLifecycle {
			return nil, storage.ErrNoLifecycle
		}
		return nil, fmt.Errorf("failed to get lifecycle configuration for bucket %s: %w", bucket, err)
	}

	policy := policyFromSDK(out.Rules)
	return &policy, nil
}

func (s *S3Storage) PutLifecycle(ctx context.Context, bucket string, policy lifecycle.Policy) error {
	s.logger.Debug("Putting lifecycle configuration", "bucket", bucket, "rules", len(policy.Rules))

	_, err := s.client.PutBucketLifecycleConfiguration(ctx, &awss3.PutBucketLifecycleConfigurationInput{
		Bucket: aws.String(bucket),
		LifecycleConfiguration: &types.BucketLifecycleConfiguration{
			Rules: rulesToSDK(policy),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to put lifecycle configuration for bucket %s: %w", bucket, err)
	}
	return nil
}

func (s *S3Storage) CountObjects(ctx context.Context, bucket string, limit int32) (int, bool, error) {
	s.logger.Debug("Counting objects", "bucket", bucket, "limit", limit)

	out, err := s.client.ListObjectsV2(ctx, &awss3.ListObjectsV2Input{
		Bucket:  aws.String(bucket),
		MaxKeys: aws.Int32(limit),
	})
	if err != nil {
		return 0, false, fmt.Errorf("failed to list objects in bucket %s: %w", bucket, err)
	}

	return len(out.Contents), aws.ToBool(out.IsTruncated), nil
}
