// File: pkg/formatter/storage_formatter.go
package formatter

import (
	"fmt"
	"sort"
	"time"

	"bucketwarden/pkg/storage"
)

type StorageFormatter struct{}

func NewStorageFormatter() *StorageFormatter {
	return &StorageFormatter{}
}

func (f *StorageFormatter) FormatBucketList(buckets []storage.Bucket) string {
	table := NewTable([]string{"BUCKET NAME", "PROVIDER", "LOCATION", "USAGE", "STORAGE CLASS", "CREATED"})

	for _, bucket := range buckets {
		table.AddRow([]string{
			bucket.Name,
			string(bucket.Provider),
			bucket.Location,
			storage.FormatBytes(bucket.UsageBytes),
			bucket.StorageClass,
			bucket.CreatedAt.Format("2006-01-02"),
		})
	}

	return table.String()
}

func (f *StorageFormatter) FormatBucketDetails(bucket storage.Bucket) string {
	var result string

	result += FormatHeaderSection("Bucket: " + bucket.Name)
	result += "\n\n"

	result += FormatSectionTitle("Overview")
	result += "\n"

	overviewTable := NewTable([]string{"Parameter", "Value"})

	versioning := "Unknown"
	if bucket.Versioning != nil {
		versioning = "Disabled"
		if bucket.Versioning.Enabled {
			versioning = "Enabled"
		}
	}

	details := []struct {
		Key   string
		Value string
	}{
		{"Provider", string(bucket.Provider)},
		{"Location / Region", bucket.Location},
		{"Storage Class", bucket.StorageClass},
		{"Usage", storage.FormatBytes(bucket.UsageBytes)},
		{"Versioning", versioning},
		// Format time in a standard, detailed format (RFC1123)
		{"Created On", formatTimestamp(bucket.CreatedAt)},
		{"Updated On", formatTimestamp(bucket.UpdatedAt)},
	}

	for _, detail := range details {
		overviewTable.AddRow([]string{detail.Key, detail.Value})
	}

	result += overviewTable.String()
	result += "\n\n"

	result += FormatSectionTitle("Lifecycle Rules")
	result += "\n"
	if len(bucket.LifecycleRules) == 0 {
		result += "No lifecycle configuration on this bucket\n\n"
	} else {
		rulesTable := NewTable([]string{"ID", "STATUS", "ACTION", "PREFIX", "AGE (DAYS)"})
		for _, rule := range bucket.LifecycleRules {
			status := "Disabled"
			if rule.Enabled {
				status = "Enabled"
			}
			rulesTable.AddRow([]string{
				rule.ID,
				status,
				rule.Action,
				rule.Prefix,
				fmt.Sprintf("%d", rule.AgeDays),
			})
		}
		result += rulesTable.String()
		result += "\n\n"
	}

	if len(bucket.Labels) > 0 {
		result += FormatSectionTitle("Labels")
		result += "\n"
		labelsTable := NewTable([]string{"Key", "Value"})

		// Sort keys for deterministic output
		keys := make([]string, 0, len(bucket.Labels))
		for k := range bucket.Labels {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			labelsTable.AddRow([]string{k, bucket.Labels[k]})
		}
		result += labelsTable.String()
		result += "\n\n"
	}

	return result
}

func (f *StorageFormatter) FormatObjectList(list storage.ObjectList) string {
	var result string

	title := "Objects in " + list.BucketName
	if list.Prefix != "" {
		title += " (prefix: " + list.Prefix + ")"
	}
	result += FormatSectionTitle(title)
	result += "\n"

	if len(list.Objects) == 0 && len(list.CommonPrefixes) == 0 {
		result += "No objects found\n"
		return result
	}

	table := NewTable([]string{"KEY", "SIZE", "STORAGE CLASS", "LAST MODIFIED"})
	for _, prefix := range list.CommonPrefixes {
		table.AddRow([]string{prefix, "-", "-", "-"})
	}
	for _, obj := range list.Objects {
		table.AddRow([]string{
			obj.Key,
			storage.FormatBytes(obj.Size),
			obj.StorageClass,
			formatTimestamp(obj.LastModified),
		})
	}
	result += table.String()

	if list.Truncated {
		result += "\n(listing truncated, more objects exist)"
	}
	result += "\n"
	return result
}

func (f *StorageFormatter) FormatObjectDetails(obj storage.Object) string {
	var result string

	result += FormatHeaderSection("Object: " + obj.Key)
	result += "\n\n"

	table := NewTable([]string{"Parameter", "Value"})
	details := []struct {
		Key   string
		Value string
	}{
		{"Bucket", obj.Bucket},
		{"Provider", string(obj.Provider)},
		{"Size", storage.FormatBytes(obj.Size)},
		{"Storage Class", obj.StorageClass},
		{"Last Modified", formatTimestamp(obj.LastModified)},
		{"ETag", obj.ETag},
	}
	for _, detail := range details {
		table.AddRow([]string{detail.Key, detail.Value})
	}
	result += table.String()
	result += "\n"

	return result
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return "N/A"
	}
	return t.Format(time.RFC1123)
}
