// File: internal/service/snapshot.go
package service

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"bucketwarden/pkg/lifecycle"
)

// writeSnapshot persists the pre-apply remote configuration as indented JSON,
// named lifecycle-backup-<bucket>-<timestamp>.json. An empty dir falls back to
// the system temp directory so callers never litter their working directory.
func writeSnapshot(dir, bucket string, policy *lifecycle.Policy) (string, error) {
	data, err := json.MarshalIndent(policy, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode snapshot: %w", err)
	}

	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create snapshot directory %s: %w", dir, err)
	}

	name := fmt.Sprintf("lifecycle-backup-%s-%s.json", bucket, time.Now().Format("20060102-150405"))
	path := filepath.Join(dir, name)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write snapshot %s: %w", path, err)
	}
	return path, nil
}
