package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/garyjia/quotebook/internal/config"
	"github.com/garyjia/quotebook/internal/container"
	"github.com/garyjia/quotebook/internal/domain/entity"
)

type harness struct {
	c      *container.Container
	out    *bytes.Buffer
	outDir string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	outDir := filepath.Join(t.TempDir(), "exports")
	cfg := &config.Config{
		Server:  config.ServerConfig{Port: 8080},
		Storage: config.StorageConfig{Driver: config.DriverMemory},
		Editor:  config.EditorConfig{AutosaveDelay: time.Hour},
		Export:  config.ExportConfig{OutputDir: outDir, DPI: 72},
	}
	c, err := container.NewContainer(cfg, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, c.Start(context.Background()))
	t.Cleanup(func() { _ = c.Close(context.Background()) })

	return &harness{c: c, out: &bytes.Buffer{}, outDir: outDir}
}

func (h *harness) run(t *testing.T, input string, args ...string) error {
	t.Helper()
	h.out.Reset()
	a := newApp(h.c.Services(), h.c.Storage(), strings.NewReader(input), h.out, &bytes.Buffer{})
	return a.run(context.Background(), args[0], args[1:])
}

func (h *harness) seed(t *testing.T, client, issued string, status entity.QuoteStatus) *entity.Quote {
	t.Helper()
	ctx := context.Background()
	q, err := h.c.Services().Quotes.CreateQuote(ctx, entity.TemplateStandard)
	require.NoError(t, err)
	q.ClientName = client
	q.IssueDate = issued
	q.Status = status
	q.Items = []entity.LineItem{{
		ID: "i1", Description: "Design", Quantity: 3, UnitPrice: 50, TaxRate: 10,
		DiscountType: entity.DiscountAmount,
	}}
	saved, err := h.c.Services().Quotes.SaveQuote(ctx, q, true)
	require.NoError(t, err)
	return saved
}

func TestList(t *testing.T) {
	h := newHarness(t)
	h.seed(t, "Globex", "2026-03-10", entity.StatusWon)
	h.seed(t, "Initech", "2026-04-02", entity.StatusDraft)

	require.NoError(t, h.run(t, "", "list", "-no-color"))
	out := h.out.String()
	assert.Contains(t, out, "QT-001001")
	assert.Contains(t, out, "Globex")
	assert.Contains(t, out, "USD 165.00")
	assert.Contains(t, out, "2 quotes: 1 draft, 0 finalized, 1 won, 0 lost")
	assert.NotContains(t, out, "\x1b[")

	require.NoError(t, h.run(t, "", "list", "-status", "Won"))
	assert.Contains(t, h.out.String(), "\x1b[", "statuses are colored by default")
	assert.NotContains(t, h.out.String(), "Initech")

	require.NoError(t, h.run(t, "", "list", "-search", "nobody"))
	assert.Contains(t, h.out.String(), "No quotes found.")

	assert.Error(t, h.run(t, "", "list", "-status", "Archived"))
}

func TestTotals(t *testing.T) {
	h := newHarness(t)
	q := h.seed(t, "Globex", "2026-03-10", entity.StatusDraft)

	for _, ref := range []string{q.ID, "qt-001001"} {
		require.NoError(t, h.run(t, "", "totals", ref))
		out := h.out.String()
		assert.Contains(t, out, "150.00")
		assert.Contains(t, out, "15.00")
		assert.Contains(t, out, "165.00")
	}

	assert.Error(t, h.run(t, "", "totals", "QT-999999"))
	assert.Error(t, h.run(t, "", "totals"))
}

func TestExport(t *testing.T) {
	h := newHarness(t)
	h.seed(t, "Globex", "2026-03-10", entity.StatusWon)
	h.seed(t, "Initech", "not a date", entity.StatusDraft)

	require.NoError(t, h.run(t, "", "export", "-format", "txt", "-library"))
	assert.Contains(t, h.out.String(), "Exported 2 of 2 quotes")

	data, err := os.ReadFile(filepath.Join(h.outDir, "2026-03", "QT-001001.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Globex")

	_, err = os.Stat(filepath.Join(h.outDir, undatedFolder, "QT-001002.txt"))
	assert.NoError(t, err)

	_, err = os.Stat(filepath.Join(h.outDir, "quotes.xlsx"))
	assert.NoError(t, err)

	assert.Error(t, h.run(t, "", "export", "-format", "docx"))
}

func TestDelete(t *testing.T) {
	h := newHarness(t)
	q := h.seed(t, "Globex", "2026-03-10", entity.StatusDraft)
	ctx := context.Background()

	require.NoError(t, h.run(t, "n\n", "delete", q.Number))
	assert.Contains(t, h.out.String(), "Cancelled.")
	_, err := h.c.Services().Quotes.GetQuote(ctx, q.ID)
	assert.NoError(t, err, "declined delete keeps the quote")

	require.NoError(t, h.run(t, "y\n", "delete", q.Number))
	_, err = h.c.Services().Quotes.GetQuote(ctx, q.ID)
	assert.ErrorIs(t, err, entity.ErrQuoteNotFound)

	q = h.seed(t, "Initech", "2026-03-10", entity.StatusDraft)
	require.NoError(t, h.run(t, "", "delete", "-yes", q.ID))
	assert.Contains(t, h.out.String(), "Deleted "+q.Number)
}

func TestDraft_Disabled(t *testing.T) {
	h := newHarness(t)
	err := h.run(t, "", "draft", "logo", "design")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")
}

func TestUnknownCommand(t *testing.T) {
	h := newHarness(t)
	assert.Error(t, h.run(t, "", "frobnicate"))
}

func TestMonthFolder(t *testing.T) {
	assert.Equal(t, "2026-03", monthFolder(&entity.Quote{IssueDate: "2026-03-10"}))
	assert.Equal(t, undatedFolder, monthFolder(&entity.Quote{IssueDate: ""}))
}
