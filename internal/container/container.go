package container

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/garyjia/quotebook/internal/application/port"
	"github.com/garyjia/quotebook/internal/config"
	"github.com/garyjia/quotebook/internal/i18n"
)

// Container manages all application dependencies and lifecycle.
// Components are initialized in dependency order and torn down in reverse.
type Container struct {
	config *config.Config
	logger *zap.Logger

	// Infrastructure - Data
	store        port.KeyValueStore
	repositories *RepositoryBundle

	// Infrastructure - External
	translator *i18n.Catalog
	drafter    port.Drafter
	renderers  *RendererBundle
	storage    *StorageBundle

	// Application
	services *ServiceBundle

	// Lifecycle
	mu     sync.RWMutex
	ready  atomic.Bool
	closed atomic.Bool
}

// HealthStatus represents the health of all components.
type HealthStatus struct {
	Overall    bool                       `json:"overall"`
	Components map[string]ComponentHealth `json:"components"`
}

// ComponentHealth represents health of a single component.
type ComponentHealth struct {
	Healthy bool   `json:"healthy"`
	Message string `json:"message,omitempty"`
}

// NewContainer creates a new container from configuration.
// It does not initialize components - call Start() to initialize.
func NewContainer(cfg *config.Config, logger *zap.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Container{
		config: cfg,
		logger: logger,
	}, nil
}

// Start initializes all components:
// 1. Key-value store and repositories
// 2. Translator, drafter and renderers
// 3. Export output storage
// 4. Application services
func (c *Container) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return fmt.Errorf("container has been closed")
	}
	if c.ready.Load() {
		return fmt.Errorf("container already started")
	}

	c.logger.Info("Starting container initialization",
		zap.String("storage_driver", c.config.Storage.Driver))

	// Step 1: Initialize store and repositories
	if err := c.initStore(ctx); err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}
	c.logger.Info("Store initialized")

	// Step 2: Initialize external collaborators
	if err := c.initExternal(); err != nil {
		c.closeStore()
		return fmt.Errorf("failed to initialize external clients: %w", err)
	}
	c.logger.Info("External clients initialized")

	// Step 3: Initialize export storage
	c.storage = ProvideStorage(&c.config.Export, c.logger)
	c.logger.Info("Storage initialized", zap.String("output_dir", c.config.Export.OutputDir))

	// Step 4: Initialize application services
	services, err := ProvideServices(ctx, &ServiceDeps{
		Repos:      c.repositories,
		Renderers:  c.renderers,
		Translator: c.translator,
		Drafter:    c.drafter,
		Editor:     &c.config.Editor,
		Quotes:     &c.config.Quotes,
		Logger:     c.logger,
	})
	if err != nil {
		c.closeStore()
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	c.services = services
	c.logger.Info("Application services initialized")

	c.ready.Store(true)
	c.logger.Info("Container started successfully")
	return nil
}

// Close flushes the open editor draft and closes the store.
func (c *Container) Close(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return fmt.Errorf("container already closed")
	}

	c.logger.Info("Closing container")

	var errs []error

	// Step 1: Persist pending editor changes and stop the autosave timer
	if c.services != nil && c.services.Workspace != nil {
		if err := c.services.Workspace.Flush(ctx); err != nil {
			c.logger.Error("Failed to flush workspace", zap.Error(err))
			errs = append(errs, fmt.Errorf("flush workspace: %w", err))
		}
		c.services.Workspace.Close()
		c.logger.Info("Workspace closed")
	}

	// Step 2: Close store
	if err := c.closeStore(); err != nil {
		errs = append(errs, err)
	}

	c.closed.Store(true)
	c.ready.Store(false)

	if len(errs) > 0 {
		c.logger.Error("Container closed with errors", zap.Int("error_count", len(errs)))
		return fmt.Errorf("container closed with %d errors: %w", len(errs), errors.Join(errs...))
	}

	c.logger.Info("Container closed successfully")
	return nil
}

func (c *Container) closeStore() error {
	if c.store == nil {
		return nil
	}
	err := c.store.Close()
	c.store = nil
	if err != nil {
		c.logger.Error("Failed to close store", zap.Error(err))
		return fmt.Errorf("close store: %w", err)
	}
	c.logger.Info("Store closed")
	return nil
}

// Ready returns true when all components are initialized.
func (c *Container) Ready() bool {
	return c.ready.Load()
}

// Health returns health status of all components.
func (c *Container) Health(ctx context.Context) *HealthStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()

	status := &HealthStatus{
		Overall:    true,
		Components: make(map[string]ComponentHealth),
	}

	// Check store
	if c.store != nil {
		_, err := c.store.Get(ctx, port.KeySettings)
		if err != nil && !errors.Is(err, port.ErrKeyNotFound) {
			status.Components["store"] = ComponentHealth{
				Healthy: false,
				Message: fmt.Sprintf("read failed: %v", err),
			}
			status.Overall = false
		} else {
			status.Components["store"] = ComponentHealth{Healthy: true, Message: c.config.Storage.Driver}
		}
	} else {
		status.Components["store"] = ComponentHealth{
			Healthy: false,
			Message: "not initialized",
		}
		status.Overall = false
	}

	// Check services
	if c.services != nil {
		status.Components["services"] = ComponentHealth{Healthy: true}
	} else {
		status.Components["services"] = ComponentHealth{
			Healthy: false,
			Message: "not initialized",
		}
		status.Overall = false
	}

	// Drafting is optional and never affects the overall status
	drafting := ComponentHealth{Healthy: true, Message: "disabled"}
	if c.drafter != nil {
		drafting.Message = "enabled"
	}
	status.Components["drafting"] = drafting

	return status
}

// initStore opens the store and builds the repositories using providers.
func (c *Container) initStore(ctx context.Context) error {
	store, err := ProvideStore(ctx, c.config, c.logger)
	if err != nil {
		return err
	}
	c.store = store

	repos, err := ProvideRepositories(store, c.logger)
	if err != nil {
		c.closeStore()
		return err
	}
	c.repositories = repos
	return nil
}

// initExternal creates the translator, optional drafter and renderers.
func (c *Container) initExternal() error {
	translator, err := ProvideTranslator()
	if err != nil {
		return err
	}
	c.translator = translator

	drafter, err := ProvideDrafter(&c.config.OpenAI, c.logger)
	if err != nil {
		return err
	}
	c.drafter = drafter

	c.renderers = ProvideRenderers(&c.config.Export, c.translator, c.logger)
	return nil
}

// Getters for accessing container components

// Services returns all application services.
func (c *Container) Services() *ServiceBundle {
	return c.services
}

// Storage returns the export output helpers.
func (c *Container) Storage() *StorageBundle {
	return c.storage
}

// Translator returns the message catalog.
func (c *Container) Translator() *i18n.Catalog {
	return c.translator
}

// Logger returns the container's logger.
func (c *Container) Logger() *zap.Logger {
	return c.logger
}

// Config returns the container's configuration.
func (c *Container) Config() *config.Config {
	return c.config
}
