// File: pkg/formatter/storage_formatter_test.go
package formatter

import (
	"testing"
	"time"

	"bucketwarden/pkg/common"
	"bucketwarden/pkg/storage"

	"github.com/stretchr/testify/require"
)

func TestFormatBucketList(t *testing.T) {
	t.Parallel()

	f := NewStorageFormatter()
	out := f.FormatBucketList([]storage.Bucket{
		{
			Name:         "logs-bucket",
			Provider:     common.S3,
			Location:     "us-east-1",
			StorageClass: "STANDARD",
			CreatedAt:    time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			UsageBytes:   2048,
		},
	})

	require.Contains(t, out, "logs-bucket")
	require.Contains(t, out, "S3")
	require.Contains(t, out, "2.0 KB")
	require.Contains(t, out, "2024-03-01")
}

func TestFormatBucketDetails_LifecycleSection(t *testing.T) {
	t.Parallel()

	f := NewStorageFormatter()

	t.Run("with rules", func(t *testing.T) {
		out := f.FormatBucketDetails(storage.Bucket{
			Name:     "logs-bucket",
			Provider: common.S3,
			LifecycleRules: []storage.LifecycleRule{
				{ID: "expire-logs", Enabled: true, Action: "Expiration", Prefix: "logs/", AgeDays: 30},
				{ID: "old-rule", Enabled: false, Action: "Expiration", Prefix: "tmp/", AgeDays: 7},
			},
			Versioning: &storage.Versioning{Enabled: true},
		})

		require.Contains(t, out, "Lifecycle Rules")
		require.Contains(t, out, "expire-logs")
		require.Contains(t, out, "Enabled")
		require.Contains(t, out, "Disabled")
		require.Contains(t, out, "30")
	})

	t.Run("without rules", func(t *testing.T) {
		out := f.FormatBucketDetails(storage.Bucket{Name: "empty-bucket", Provider: common.GCS})
		require.Contains(t, out, "No lifecycle configuration on this bucket")
	})
}

func TestFormatReconcileReport(t *testing.T) {
	t.Parallel()

	f := NewReportFormatter()
	out := f.FormatReconcileReport(ReconcileReport{
		Bucket:       "logs-bucket",
		Provider:     "s3",
		Outcome:      "updated",
		Before:       "absent",
		After:        "2 rules",
		ObjectCount:  "1000+",
		Sampled:      true,
		SnapshotPath: "/tmp/lifecycle-backup-logs-bucket-20240301-120000.json",
	})

	require.Contains(t, out, "logs-bucket")
	require.Contains(t, out, "UPDATED")
	require.Contains(t, out, "absent")
	require.Contains(t, out, "2 rules")
	require.Contains(t, out, "1000+ objects")
	require.Contains(t, out, "lifecycle-backup-logs-bucket")
}
