// Package container provides dependency injection and lifecycle management
// for quotebook following Clean Architecture principles.
package container

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/garyjia/quotebook/internal/application/port"
	"github.com/garyjia/quotebook/internal/application/service"
	"github.com/garyjia/quotebook/internal/config"
	"github.com/garyjia/quotebook/internal/domain/lifecycle"
	"github.com/garyjia/quotebook/internal/i18n"
	"github.com/garyjia/quotebook/internal/infrastructure/export"
	"github.com/garyjia/quotebook/internal/infrastructure/external/openai"
	"github.com/garyjia/quotebook/internal/infrastructure/persistence/kv"
	"github.com/garyjia/quotebook/internal/infrastructure/persistence/repository"
	"github.com/garyjia/quotebook/internal/storage"
	"github.com/garyjia/quotebook/pkg/database"
	"github.com/garyjia/quotebook/pkg/utils"
)

// RepositoryBundle groups all repositories for convenient access.
type RepositoryBundle struct {
	Quotes   port.QuoteRepository
	Settings port.SettingsRepository
}

// RendererBundle holds everything the export service renders with.
type RendererBundle struct {
	Renderers []port.Renderer
	Library   port.LibraryRenderer
	Links     port.LinkBuilder
}

// StorageBundle holds the export output directory helpers.
type StorageBundle struct {
	FileStorage   storage.FileStorage
	FolderManager *storage.FolderManager
}

// ServiceBundle groups all application services.
type ServiceBundle struct {
	Settings  service.SettingsService
	Quotes    service.QuoteService
	Tutorial  service.TutorialService
	Export    service.ExportService
	Draft     service.DraftService
	Workspace *service.Workspace
}

// ServiceDeps lists what ProvideServices needs.
type ServiceDeps struct {
	Repos      *RepositoryBundle
	Renderers  *RendererBundle
	Translator port.Translator
	Drafter    port.Drafter
	Editor     *config.EditorConfig
	Quotes     *config.QuotesConfig
	Logger     *zap.Logger
}

// ProvideStore opens the key-value store selected by storage.driver.
func ProvideStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (port.KeyValueStore, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	switch cfg.Storage.Driver {
	case config.DriverSQLite:
		store, err := kv.OpenSQLiteStore(database.Config{
			Path:            cfg.Database.Path,
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		}, logger)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.DriverFile:
		return kv.NewFileStore(storage.NewLocalFileStorage(cfg.Storage.Dir, logger), logger), nil
	case config.DriverPostgres:
		store, err := kv.OpenPostgresStore(ctx, cfg.Database.DSN, logger)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.DriverMemory:
		return kv.NewMemoryStore(), nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}

// ProvideRepositories creates the repositories on top of a store.
func ProvideRepositories(store port.KeyValueStore, logger *zap.Logger) (*RepositoryBundle, error) {
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}
	return &RepositoryBundle{
		Quotes:   repository.NewQuoteRepository(store, logger.Named("quote_repo")),
		Settings: repository.NewSettingsRepository(store, logger.Named("settings_repo")),
	}, nil
}

// ProvideDrafter creates the OpenAI drafter. It returns nil, and drafting
// stays disabled, when openai.enabled is false or no key is configured.
func ProvideDrafter(cfg *config.OpenAIConfig, logger *zap.Logger) (port.Drafter, error) {
	if cfg == nil || !cfg.Enabled || cfg.APIKey == "" {
		logger.Info("AI drafting disabled")
		return nil, nil
	}

	prompts, err := openai.LoadPrompts(cfg.PromptsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load prompts: %w", err)
	}

	logger.Info("AI drafting enabled", zap.String("model", cfg.Model))
	return openai.NewDrafter(openai.Config{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Model:   cfg.Model,
		Timeout: cfg.Timeout,
	}, prompts, logger.Named("drafter")), nil
}

// ProvideRenderers creates the document renderers, library workbook and mailto builder.
func ProvideRenderers(cfg *config.ExportConfig, translator port.Translator, logger *zap.Logger) *RendererBundle {
	pdf := export.NewPDFRenderer(translator, export.PDFOptions{
		FontPath:     cfg.FontPath,
		BoldFontPath: cfg.BoldFontPath,
	}, logger.Named("pdf"))

	return &RendererBundle{
		Renderers: []port.Renderer{
			pdf,
			export.NewPNGRenderer(pdf, cfg.DPI, logger.Named("png")),
			export.NewTextRenderer(translator),
		},
		Library: export.NewExcelRenderer(translator, logger.Named("xlsx")),
		Links:   export.NewMailtoBuilder(translator, logger.Named("mailto")),
	}
}

// ProvideStorage creates the export output directory helpers.
func ProvideStorage(cfg *config.ExportConfig, logger *zap.Logger) *StorageBundle {
	return &StorageBundle{
		FileStorage:   storage.NewLocalFileStorage(cfg.OutputDir, logger.Named("storage")),
		FolderManager: storage.NewFolderManager(cfg.OutputDir, logger.Named("storage")),
	}
}

// ProvideTranslator creates the message catalog.
func ProvideTranslator() (*i18n.Catalog, error) {
	cat, err := i18n.New()
	if err != nil {
		return nil, fmt.Errorf("failed to build message catalog: %w", err)
	}
	return cat, nil
}

// ProvideServices creates all application services in dependency order.
func ProvideServices(ctx context.Context, deps *ServiceDeps) (*ServiceBundle, error) {
	if deps == nil || deps.Repos == nil || deps.Renderers == nil {
		return nil, fmt.Errorf("repositories and renderers are required")
	}
	logger := func(name string) service.Logger {
		return utils.NewKeyValueLogger(deps.Logger.Named(name))
	}

	settings := service.NewSettingsService(ctx, deps.Repos.Settings, logger("settings"))
	workspace := service.NewWorkspace(deps.Editor.AutosaveDelay, logger("workspace"))
	quotes := service.NewQuoteService(
		ctx,
		deps.Repos.Quotes,
		settings,
		workspace,
		lifecycle.New(deps.Quotes.StrictLifecycle),
		deps.Translator,
		logger("quotes"),
	)

	exports := service.NewExportService(
		quotes,
		settings,
		workspace,
		deps.Renderers.Renderers,
		deps.Renderers.Library,
		deps.Renderers.Links,
		logger("export"),
	)

	return &ServiceBundle{
		Settings:  settings,
		Quotes:    quotes,
		Tutorial:  service.NewTutorialService(ctx, quotes, settings, workspace, logger("tutorial")),
		Export:    exports,
		Draft:     service.NewDraftService(deps.Drafter, settings, workspace, logger("draft")),
		Workspace: workspace,
	}, nil
}
