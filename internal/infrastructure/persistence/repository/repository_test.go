package repository

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/garyjia/quotebook/internal/application/port"
	"github.com/garyjia/quotebook/internal/domain/entity"
	"github.com/garyjia/quotebook/internal/infrastructure/persistence/kv"
)

type failingStore struct {
	getErr error
	putErr error
}

func (f *failingStore) Get(ctx context.Context, key string) ([]byte, error) { return nil, f.getErr }
func (f *failingStore) Put(ctx context.Context, key string, value []byte) error {
	return f.putErr
}
func (f *failingStore) Delete(ctx context.Context, key string) error { return nil }
func (f *failingStore) Close() error                                 { return nil }

func TestQuoteRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewQuoteRepository(kv.NewMemoryStore(), zap.NewNop())

	assert.Empty(t, repo.Load(ctx))

	quotes := []*entity.Quote{
		{ID: "2", Number: "QT-001002", Status: entity.StatusWon, Items: []entity.LineItem{
			{ID: "a", Description: "Design", Quantity: 2, UnitPrice: 100, Discount: 10, DiscountType: entity.DiscountPercentage},
		}},
		{ID: "1", Number: "QT-001001", Status: entity.StatusDraft},
	}
	require.NoError(t, repo.Store(ctx, quotes))

	loaded := repo.Load(ctx)
	require.Len(t, loaded, 2)
	assert.Equal(t, "2", loaded[0].ID, "order is preserved")
	assert.Equal(t, quotes[0].Items, loaded[0].Items)
}

func TestQuoteRepository_KeepsOriginalFieldNames(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	repo := NewQuoteRepository(store, zap.NewNop())

	require.NoError(t, repo.Store(ctx, []*entity.Quote{{ID: "1", ClientName: "Acme", TemplateID: entity.TemplateEco}}))
	raw, err := store.Get(ctx, port.KeyQuotes)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"clientName":"Acme"`)
	assert.Contains(t, string(raw), `"templateId":"eco"`)
}

func TestQuoteRepository_FallsBackToEmpty(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		store port.KeyValueStore
	}{
		{name: "read error", store: &failingStore{getErr: errors.New("io")}},
		{name: "malformed json", store: func() port.KeyValueStore {
			s := kv.NewMemoryStore()
			_ = s.Put(ctx, port.KeyQuotes, []byte("{not json"))
			return s
		}()},
		{name: "null entries dropped", store: func() port.KeyValueStore {
			s := kv.NewMemoryStore()
			_ = s.Put(ctx, port.KeyQuotes, []byte("[null]"))
			return s
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewQuoteRepository(tt.store, zap.NewNop())
			quotes := repo.Load(ctx)
			assert.NotNil(t, quotes)
			assert.Empty(t, quotes)
		})
	}
}

func TestQuoteRepository_StoreErrors(t *testing.T) {
	ctx := context.Background()

	repo := NewQuoteRepository(&failingStore{putErr: errors.New("disk full")}, zap.NewNop())
	assert.Error(t, repo.Store(ctx, nil))
}

func TestSettingsRepository(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	repo := NewSettingsRepository(store, zap.NewNop())

	assert.Equal(t, entity.DefaultSettings(), repo.Load(ctx))

	s := entity.DefaultSettings()
	s.CompanyName = "Initech"
	s.NextDocNumber = 1500
	require.NoError(t, repo.Store(ctx, s))
	assert.Equal(t, s, repo.Load(ctx))
}

func TestSettingsRepository_PartialBlobKeepsDefaults(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	require.NoError(t, store.Put(ctx, port.KeySettings, []byte(`{"companyName":"Legacy","language":"xx"}`)))

	got := NewSettingsRepository(store, zap.NewNop()).Load(ctx)
	assert.Equal(t, "Legacy", got.CompanyName)
	assert.Equal(t, "USD", got.DefaultCurrency)
	assert.Equal(t, entity.LanguageEnglish, got.Language)
	assert.Equal(t, 1001, got.NextDocNumber)
}

func TestSettingsRepository_MalformedUsesDefaults(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	require.NoError(t, store.Put(ctx, port.KeySettings, []byte(`[]`)))

	assert.Equal(t, entity.DefaultSettings(), NewSettingsRepository(store, zap.NewNop()).Load(ctx))
}

func TestQuoteRepository_StoresNonFiniteNumbersAsZero(t *testing.T) {
	ctx := context.Background()
	repo := NewQuoteRepository(kv.NewMemoryStore(), zap.NewNop())

	quotes := []*entity.Quote{
		{ID: "bad", Items: []entity.LineItem{
			{ID: "a", Quantity: math.NaN(), UnitPrice: 50, TaxRate: math.Inf(1), Discount: math.Inf(-1)},
			{ID: "b", Quantity: 2, UnitPrice: 10},
		}},
		{ID: "good", Items: []entity.LineItem{{ID: "c", Quantity: 3, UnitPrice: 50, TaxRate: 10}}},
	}
	require.NoError(t, repo.Store(ctx, quotes))

	loaded := repo.Load(ctx)
	require.Len(t, loaded, 2)
	assert.Equal(t, "bad", loaded[0].ID)
	assert.Equal(t, 0.0, loaded[0].Items[0].Quantity)
	assert.Equal(t, 50.0, loaded[0].Items[0].UnitPrice)
	assert.Equal(t, 0.0, loaded[0].Items[0].TaxRate)
	assert.Equal(t, 0.0, loaded[0].Items[0].Discount)
	assert.Equal(t, 2.0, loaded[0].Items[1].Quantity)
	assert.Equal(t, quotes[1].Items, loaded[1].Items)

	assert.True(t, math.IsNaN(quotes[0].Items[0].Quantity), "caller's quotes are untouched")
}
