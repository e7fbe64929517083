// File: pkg/storage/gcs/mappers.go
package gcs

import (
	"fmt"
	"strings"

	"bucketwarden/pkg/storage"

	gcsstorage "cloud.google.com/go/storage"
)

// Maps native GCS lifecycle rules onto the shared display model. GCS rules
// carry no identifiers and no per-rule enabled flag, so ID is left empty and
// Enabled is always true.
func mapLifecycleRules(rules []gcsstorage.LifecycleRule) []storage.LifecycleRule {
	if len(rules) == 0 {
		return nil
	}
	var result []storage.LifecycleRule
	for _, r := range rules {
		var actionStr string
		// Refine action string for better readability
		if r.Action.StorageClass != "" {
			actionStr = fmt.Sprintf("%s to %s", r.Action.Type, r.Action.StorageClass)
		} else {
			actionStr = r.Action.Type
		}

		result = append(result, storage.LifecycleRule{
			Enabled: true,
			Action:  actionStr,
			Prefix:  strings.Join(r.Condition.MatchesPrefix, ","),
			AgeDays: r.Condition.AgeInDays,
		})
	}
	return result
}
