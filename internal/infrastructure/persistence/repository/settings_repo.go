package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/garyjia/quotebook/internal/application/port"
	"github.com/garyjia/quotebook/internal/domain/entity"
)

// SettingsRepository implements port.SettingsRepository as one JSON object under the "settings" key
type SettingsRepository struct {
	store  port.KeyValueStore
	logger *zap.Logger
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(store port.KeyValueStore, logger *zap.Logger) port.SettingsRepository {
	return &SettingsRepository{
		store:  store,
		logger: logger,
	}
}

// Load returns the stored settings laid over the defaults, so fields missing
// from older blobs keep their default values. Unreadable data yields the defaults.
func (r *SettingsRepository) Load(ctx context.Context) *entity.AppSettings {
	data, err := r.store.Get(ctx, port.KeySettings)
	if errors.Is(err, port.ErrKeyNotFound) {
		return entity.DefaultSettings()
	}
	if err != nil {
		r.logger.Warn("Failed to read settings, using defaults", zap.Error(err))
		return entity.DefaultSettings()
	}

	settings := entity.DefaultSettings()
	if err := json.Unmarshal(data, settings); err != nil {
		r.logger.Warn("Stored settings are malformed, using defaults", zap.Error(err))
		return entity.DefaultSettings()
	}
	settings.Normalize()
	return settings
}

// Store replaces the stored settings
func (r *SettingsRepository) Store(ctx context.Context, settings *entity.AppSettings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		r.logger.Error("Failed to encode settings", zap.Error(err))
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	if err := r.store.Put(ctx, port.KeySettings, data); err != nil {
		r.logger.Error("Failed to store settings", zap.Error(err))
		return fmt.Errorf("failed to store settings: %w", err)
	}
	return nil
}
