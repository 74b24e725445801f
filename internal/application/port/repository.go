package port

import (
	"context"

	"github.com/garyjia/quotebook/internal/domain/entity"
)

// QuoteRepository loads and stores the whole quote collection.
// Load never fails: unreadable data is reported as an empty collection.
type QuoteRepository interface {
	Load(ctx context.Context) []*entity.Quote
	Store(ctx context.Context, quotes []*entity.Quote) error
}

// SettingsRepository loads and stores the settings record.
// Load never fails: unreadable data is reported as the defaults.
type SettingsRepository interface {
	Load(ctx context.Context) *entity.AppSettings
	Store(ctx context.Context, settings *entity.AppSettings) error
}
