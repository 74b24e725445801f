package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/garyjia/quotebook/internal/application/port"
	"github.com/garyjia/quotebook/internal/domain/entity"
	"github.com/garyjia/quotebook/internal/domain/lifecycle"
	"github.com/garyjia/quotebook/internal/i18n"
)

type mockLogger struct{}

func (m *mockLogger) Info(msg string, keysAndValues ...interface{})  {}
func (m *mockLogger) Error(msg string, keysAndValues ...interface{}) {}

// mockQuoteRepo stores a JSON snapshot so tests observe what was persisted
type mockQuoteRepo struct {
	mu        sync.Mutex
	data      []byte
	stores    int
	storeFunc func(ctx context.Context, quotes []*entity.Quote) error
}

func (m *mockQuoteRepo) Load(ctx context.Context) []*entity.Quote {
	m.mu.Lock()
	defer m.mu.Unlock()
	var quotes []*entity.Quote
	if len(m.data) > 0 {
		_ = json.Unmarshal(m.data, &quotes)
	}
	return quotes
}

func (m *mockQuoteRepo) Store(ctx context.Context, quotes []*entity.Quote) error {
	if m.storeFunc != nil {
		return m.storeFunc(ctx, quotes)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	data, err := json.Marshal(quotes)
	if err != nil {
		return err
	}
	m.data = data
	m.stores++
	return nil
}

func (m *mockQuoteRepo) persisted() []*entity.Quote {
	return m.Load(context.Background())
}

type mockSettingsRepo struct {
	mu       sync.Mutex
	settings *entity.AppSettings
	stores   int
}

func (m *mockSettingsRepo) Load(ctx context.Context) *entity.AppSettings {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.settings == nil {
		return entity.DefaultSettings()
	}
	cp := *m.settings
	return &cp
}

func (m *mockSettingsRepo) Store(ctx context.Context, settings *entity.AppSettings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *settings
	m.settings = &cp
	m.stores++
	return nil
}

type mockRenderer struct {
	ext        string
	renderFunc func(ctx context.Context, doc port.Document) ([]byte, error)
}

func (m *mockRenderer) Render(ctx context.Context, doc port.Document) ([]byte, error) {
	if m.renderFunc != nil {
		return m.renderFunc(ctx, doc)
	}
	return []byte(doc.Quote.Number), nil
}

func (m *mockRenderer) ContentType() string { return "application/x-" + m.ext }
func (m *mockRenderer) Extension() string   { return m.ext }

type mockDrafter struct {
	draftFunc  func(ctx context.Context, req port.DraftRequest) ([]entity.LineItem, error)
	polishFunc func(ctx context.Context, description string, lang entity.Language) (string, error)
	termsFunc  func(ctx context.Context, businessType string, lang entity.Language) (string, error)
}

func (m *mockDrafter) DraftItems(ctx context.Context, req port.DraftRequest) ([]entity.LineItem, error) {
	return m.draftFunc(ctx, req)
}

func (m *mockDrafter) PolishDescription(ctx context.Context, description string, lang entity.Language) (string, error) {
	return m.polishFunc(ctx, description, lang)
}

func (m *mockDrafter) GenerateTerms(ctx context.Context, businessType string, lang entity.Language) (string, error) {
	return m.termsFunc(ctx, businessType, lang)
}

var fixedNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func sequentialIDs() entity.IDGenerator {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func always(answer bool) port.Confirmer {
	return port.ConfirmFunc(func(ctx context.Context, message string) bool { return answer })
}

type fixture struct {
	quoteRepo    *mockQuoteRepo
	settingsRepo *mockSettingsRepo
	settings     SettingsService
	workspace    *Workspace
	quotes       QuoteService
	tutorial     TutorialService
}

func newFixture(t *testing.T, strict bool) *fixture {
	t.Helper()
	return newFixtureWithDelay(t, strict, time.Hour)
}

func newFixtureWithDelay(t *testing.T, strict bool, autosaveDelay time.Duration) *fixture {
	t.Helper()
	ctx := context.Background()
	logger := &mockLogger{}

	f := &fixture{
		quoteRepo:    &mockQuoteRepo{},
		settingsRepo: &mockSettingsRepo{},
	}
	f.settings = NewSettingsService(ctx, f.settingsRepo, logger)
	f.workspace = NewWorkspace(autosaveDelay, logger)
	t.Cleanup(f.workspace.Close)
	translator, err := i18n.New()
	require.NoError(t, err)
	f.quotes = NewQuoteService(ctx, f.quoteRepo, f.settings, f.workspace, lifecycle.New(strict), translator, logger,
		WithClock(func() time.Time { return fixedNow }),
		WithIDGenerator(sequentialIDs()),
	)
	f.tutorial = NewTutorialService(ctx, f.quotes, f.settings, f.workspace, logger)
	return f
}
