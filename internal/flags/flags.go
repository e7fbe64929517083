// File: internal/flags/flags.go
package flags

// Centralized definitions for CLI flags used across the application

const (
	// Provider flags are used when an operation targets a single, specific provider (e.g., reconcile, describe)
	Provider      = "provider"
	ProviderShort = "p"

	// Providers (plural) flags are used when an operation can target multiple providers (e.g., buckets list)
	// Note: 'p' is reused for both singular and plural provider flags depending on the subcommand context
	Providers      = "providers"
	ProvidersShort = "p"

	// PolicyFile points at the desired lifecycle policy document (JSON or YAML)
	PolicyFile      = "policy-file"
	PolicyFileShort = "f"

	// Merge preserves remote-only rules instead of replacing the whole configuration
	Merge = "merge"

	// SkipObjectCount disables the object sampling pass in the summary
	SkipObjectCount = "skip-object-count"

	// SnapshotDir is where the pre-update backup of the remote configuration is written
	SnapshotDir = "snapshot-dir"

	// Prefix flags are used to filter object listings
	Prefix = "prefix"

	// Force flags are used to bypass interactive confirmation prompts for mutating operations
	Force = "force"

	// Debug flags are used to enable verbose logging
	Debug      = "debug"
	DebugShort = "d"
)
