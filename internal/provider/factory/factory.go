// File: internal/provider/factory/factory.go
package factory

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"bucketwarden/internal/config"
	"bucketwarden/internal/provider/registry"
	"bucketwarden/pkg/storage"
)

type Factory struct {
	cfg    *config.Config
	logger *slog.Logger
}

func NewFactory(cfg *config.Config, logger *slog.Logger) *Factory {
	return &Factory{
		cfg:    cfg,
		logger: logger,
	}
}

// Returns a list of providers that are registered and configured
func (f *Factory) GetConfiguredProviders() []string {
	var configuredProviders []string
	allRegistrations := registry.GetAllRegistrations()

	for name, registration := range allRegistrations {
		if registration.ConfigCheck(f.cfg) {
			configuredProviders = append(configuredProviders, name)
		}
	}
	sort.Strings(configuredProviders)
	return configuredProviders
}

// Checks if a specific provider is registered and configured
func (f *Factory) IsConfigured(providerName string) bool {
	registration, exists := registry.GetRegistration(providerName)
	if !exists {
		return false
	}
	return registration.ConfigCheck(f.cfg)
}

// MissingSettings names the required settings a provider still needs, by the
// environment variable that supplies each one. Checked before any network call.
func (f *Factory) MissingSettings(providerName string) ([]string, error) {
	registration, exists := registry.GetRegistration(strings.ToLower(providerName))
	if !exists {
		return nil, fmt.Errorf("unsupported provider: %s. Supported providers are: %v", providerName, registry.GetSupportedProviders())
	}
	if registration.MissingSettings == nil {
		return nil, nil
	}
	return registration.MissingSettings(f.cfg), nil
}

// Initializes and returns the read-only inspector client for the specified provider
func (f *Factory) GetInspector(ctx context.Context, providerName string) (storage.Inspector, error) {
	registration, providerLogger, err := f.resolve(providerName)
	if err != nil {
		return nil, err
	}

	client, err := registration.Inspector(ctx, f.cfg, providerLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize provider %s: %w", strings.ToLower(providerName), err)
	}
	return client, nil
}

// Initializes and returns the lifecycle store client for the specified provider
func (f *Factory) GetLifecycleStore(ctx context.Context, providerName string) (storage.LifecycleStore, error) {
	registration, providerLogger, err := f.resolve(providerName)
	if err != nil {
		return nil, err
	}

	if registration.Store == nil {
		return nil, fmt.Errorf("provider '%s' does not support lifecycle reconciliation. Providers that do: %v",
			strings.ToLower(providerName), registry.GetLifecycleProviders())
	}

	client, err := registration.Store(ctx, f.cfg, providerLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize provider %s: %w", strings.ToLower(providerName), err)
	}
	return client, nil
}

func (f *Factory) resolve(providerName string) (registry.ProviderRegistration, *slog.Logger, error) {
	normalizedName := strings.ToLower(providerName)
	providerLogger := f.logger.With("provider", normalizedName)

	registration, exists := registry.GetRegistration(normalizedName)
	if !exists {
		return registry.ProviderRegistration{}, nil, fmt.Errorf("unsupported provider: %s. Supported providers are: %v", providerName, registry.GetSupportedProviders())
	}

	if !registration.ConfigCheck(f.cfg) {
		return registry.ProviderRegistration{}, nil, fmt.Errorf("provider '%s' is not configured. Use 'bucketwarden config set %s.<key> <value>' or the provider environment variables", normalizedName, normalizedName)
	}

	return registration, providerLogger, nil
}
