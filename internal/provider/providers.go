// File: internal/provider/providers.go
package provider

// This file explicitly imports all provider implementation packages.
// The blank identifier (_) ensures that the init() function of each package runs,
// allowing them to register themselves with the central provider registry.
//
// To add a new provider, implement it under pkg/storage/<name> ensuring it
// self-registers in its init() function, and then add the import here.

import (
	_ "bucketwarden/pkg/storage/gcs"
	_ "bucketwarden/pkg/storage/s3"
)
