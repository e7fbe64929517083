// File: pkg/storage/model.go
package storage

import (
	"fmt"
	"time"

	"bucketwarden/pkg/common"
)

type Bucket struct {
	Name         string
	Provider     common.Provider
	Location     string
	StorageClass string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	// A value of -1 indicates that the usage is unknown or could not be retrieved
	UsageBytes int64
	Labels     map[string]string

	LifecycleRules []LifecycleRule
	Versioning     *Versioning
}

// LifecycleRule is a display-oriented view of one lifecycle rule, shared by
// all providers regardless of their native rule shape.
type LifecycleRule struct {
	ID      string
	Enabled bool
	Action  string
	Prefix  string
	AgeDays int64
}

type Versioning struct {
	Enabled bool
}

type Object struct {
	Key          string
	Bucket       string
	Provider     common.Provider
	Size         int64
	StorageClass string
	LastModified time.Time
	ETag         string
}

type ObjectList struct {
	BucketName     string
	Prefix         string
	Objects        []Object
	CommonPrefixes []string
	Truncated      bool
}

func FormatBytes(bytes int64) string {
	if bytes < 0 {
		return "N/A"
	}
	if bytes == 0 {
		return "0 B"
	}

	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}

	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}

	sizes := []string{"KB", "MB", "GB", "TB", "PB", "EB"}
	if exp >= len(sizes) {
		return fmt.Sprintf("%d B", bytes) // Fallback if extremely large
	}
	return fmt.Sprintf("%.1f %s", float64(bytes)/float64(div), sizes[exp])
}
