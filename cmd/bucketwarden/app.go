// File: cmd/bucketwarden/app.go
package main

import (
	"log/slog"

	"bucketwarden/internal/config"
	"bucketwarden/internal/provider/factory"
	"bucketwarden/internal/service"
	"bucketwarden/pkg/formatter"
)

// appContainer holds all the shared dependencies for the application
// This includes configuration, service clients, formatters, and the logger
type appContainer struct {
	Config           *config.Config
	ConfigManager    *config.ConfigManager
	ProviderFactory  *factory.Factory
	Reconciler       *service.Reconciler
	InspectService   *service.InspectService
	StorageFormatter *formatter.StorageFormatter
	ReportFormatter  *formatter.ReportFormatter
	Logger           *slog.Logger
}

// Creates and initializes a new application container
func newApp(logger *slog.Logger) (*appContainer, error) {
	cfgManager, err := config.NewConfigManager()
	if err != nil {
		return nil, err
	}

	cfg, err := cfgManager.LoadConfig()
	if err != nil {
		return nil, err
	}

	providerFactory := factory.NewFactory(cfg, logger)

	return &appContainer{
		Config:           cfg,
		ConfigManager:    cfgManager,
		ProviderFactory:  providerFactory,
		Reconciler:       service.NewReconciler(providerFactory, logger),
		InspectService:   service.NewInspectService(providerFactory, logger),
		StorageFormatter: formatter.NewStorageFormatter(),
		ReportFormatter:  formatter.NewReportFormatter(),
		Logger:           logger,
	}, nil
}
