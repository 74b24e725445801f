package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/garyjia/quotebook/internal/application/port"
	"github.com/garyjia/quotebook/internal/domain/entity"
)

// QuoteRepository implements port.QuoteRepository as one JSON array under the "quotes" key
type QuoteRepository struct {
	store  port.KeyValueStore
	logger *zap.Logger
}

// NewQuoteRepository creates a new quote repository
func NewQuoteRepository(store port.KeyValueStore, logger *zap.Logger) port.QuoteRepository {
	return &QuoteRepository{
		store:  store,
		logger: logger,
	}
}

// Load returns the stored quotes. Missing or unreadable data yields an empty list.
func (r *QuoteRepository) Load(ctx context.Context) []*entity.Quote {
	data, err := r.store.Get(ctx, port.KeyQuotes)
	if errors.Is(err, port.ErrKeyNotFound) {
		return []*entity.Quote{}
	}
	if err != nil {
		r.logger.Warn("Failed to read quotes, starting empty", zap.Error(err))
		return []*entity.Quote{}
	}

	var quotes []*entity.Quote
	if err := json.Unmarshal(data, &quotes); err != nil {
		r.logger.Warn("Stored quotes are malformed, starting empty",
			zap.Int("bytes", len(data)),
			zap.Error(err))
		return []*entity.Quote{}
	}

	out := quotes[:0]
	for _, q := range quotes {
		if q != nil {
			out = append(out, q)
		}
	}
	r.logger.Debug("Quotes loaded", zap.Int("count", len(out)))
	return out
}

// Store replaces the stored array. JSON has no encoding for NaN or infinity,
// so such item numbers are written as 0; the caller's quotes are not modified.
func (r *QuoteRepository) Store(ctx context.Context, quotes []*entity.Quote) error {
	if quotes == nil {
		quotes = []*entity.Quote{}
	}
	quotes, replaced := finiteQuotes(quotes)
	if len(replaced) > 0 {
		r.logger.Warn("Storing non-finite item numbers as 0", zap.Strings("quote_ids", replaced))
	}
	data, err := json.Marshal(quotes)
	if err != nil {
		r.logger.Error("Failed to encode quotes", zap.Error(err))
		return fmt.Errorf("failed to encode quotes: %w", err)
	}
	if err := r.store.Put(ctx, port.KeyQuotes, data); err != nil {
		r.logger.Error("Failed to store quotes", zap.Int("count", len(quotes)), zap.Error(err))
		return fmt.Errorf("failed to store quotes: %w", err)
	}
	return nil
}

// finiteQuotes copies the quotes whose items carry NaN or infinite numbers and
// zeroes those numbers. The ids of the copied quotes are returned.
func finiteQuotes(quotes []*entity.Quote) ([]*entity.Quote, []string) {
	out := quotes
	var replaced []string
	for i, q := range quotes {
		if q == nil || itemsFinite(q.Items) {
			continue
		}
		if replaced == nil {
			out = append([]*entity.Quote(nil), quotes...)
		}
		cp := *q
		cp.Items = make([]entity.LineItem, len(q.Items))
		for j, item := range q.Items {
			item.Quantity = finite(item.Quantity)
			item.UnitPrice = finite(item.UnitPrice)
			item.TaxRate = finite(item.TaxRate)
			item.Discount = finite(item.Discount)
			cp.Items[j] = item
		}
		out[i] = &cp
		replaced = append(replaced, q.ID)
	}
	return out, replaced
}

func itemsFinite(items []entity.LineItem) bool {
	for _, item := range items {
		if finite(item.Quantity) != item.Quantity ||
			finite(item.UnitPrice) != item.UnitPrice ||
			finite(item.TaxRate) != item.TaxRate ||
			finite(item.Discount) != item.Discount {
			return false
		}
	}
	return true
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
