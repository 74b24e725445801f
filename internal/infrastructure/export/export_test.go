package export

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"math"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/garyjia/quotebook/internal/application/port"
	"github.com/garyjia/quotebook/internal/domain/entity"
	"github.com/garyjia/quotebook/internal/i18n"
)

func newCatalog(t *testing.T) *i18n.Catalog {
	t.Helper()
	c, err := i18n.New()
	require.NoError(t, err)
	return c
}

func sampleDoc() port.Document {
	settings := entity.DefaultSettings()
	q := &entity.Quote{
		ID:          "q1",
		Number:      "QT-001001",
		ClientName:  "Globex",
		ClientEmail: "buyer@globex.test",
		IssueDate:   "2026-03-10",
		ExpiryDate:  "2026-03-24",
		Currency:    "USD",
		Status:      entity.StatusFinalized,
		TemplateID:  entity.TemplateStandard,
		Language:    entity.LanguageEnglish,
		Terms:       "Net 30",
		Items: []entity.LineItem{
			{ID: "i1", Description: "Design", Quantity: 3, UnitPrice: 50, TaxRate: 10, DiscountType: entity.DiscountAmount},
		},
	}
	theme, _ := entity.ThemePreset(entity.TemplateStandard)
	return port.Document{Quote: q, Settings: settings, Theme: theme}
}

func pngDataURL(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestMoney(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{165, "165.00"},
		{0.005, "0.01"},
		{-20, "-20.00"},
		{1234.5, "1234.50"},
		{math.NaN(), "NaN"},
		{math.Inf(1), "+Inf"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Money(tt.in))
	}
}

func TestSummary(t *testing.T) {
	doc := sampleDoc()
	got := Summary(newCatalog(t), doc)

	want := "[Quotation] QT-001001\n" +
		"Client: Globex\n" +
		"Date: 2026-03-10\n\n" +
		"- Design (3 x $50.00)\n\n" +
		"Total: $165.00\n\n" +
		"Acme Corp\n" +
		"John Doe"
	assert.Equal(t, want, got)
}

func TestTextRenderer(t *testing.T) {
	r := NewTextRenderer(newCatalog(t))
	assert.Equal(t, "txt", r.Extension())

	data, err := r.Render(context.Background(), sampleDoc())
	require.NoError(t, err)
	assert.Contains(t, string(data), "Total: $165.00")

	_, err = r.Render(context.Background(), port.Document{})
	assert.ErrorIs(t, err, ErrExportFailed)
}

func TestMailtoLink(t *testing.T) {
	b := NewMailtoBuilder(newCatalog(t), zap.NewNop())

	t.Run("encodes subject and body", func(t *testing.T) {
		link := b.MailtoLink(sampleDoc())
		require.True(t, strings.HasPrefix(link, "mailto:buyer@globex.test?subject="))
		assert.NotContains(t, link, "+")
		assert.Contains(t, link, "%20")

		parsed, err := url.Parse(link)
		require.NoError(t, err)
		query := parsed.Query()
		assert.Equal(t, "[Quotation] QT-001001 - Acme Corp", query.Get("subject"))
		body := query.Get("body")
		assert.True(t, strings.HasPrefix(body, "Dear Globex,"))
		assert.Contains(t, body, "- Total Amount: USD 165.00")
		assert.True(t, strings.HasSuffix(body, "John Doe\nAcme Corp"))
	})

	t.Run("korean invoice", func(t *testing.T) {
		doc := sampleDoc()
		doc.Quote.Language = entity.LanguageKorean
		doc.Quote.DocType = entity.DocTypeInvoice
		parsed, err := url.Parse(b.MailtoLink(doc))
		require.NoError(t, err)
		assert.Equal(t, "[청구서] QT-001001 - Acme Corp", parsed.Query().Get("subject"))
	})

	t.Run("invalid email leaves recipient empty", func(t *testing.T) {
		doc := sampleDoc()
		doc.Quote.ClientEmail = "not-an-email"
		assert.True(t, strings.HasPrefix(b.MailtoLink(doc), "mailto:?subject="))
	})
}

func TestPDFRenderer(t *testing.T) {
	r := NewPDFRenderer(newCatalog(t), PDFOptions{}, zap.NewNop())
	assert.Equal(t, "pdf", r.Extension())
	assert.Equal(t, "application/pdf", r.ContentType())

	t.Run("prints the grand total", func(t *testing.T) {
		data, err := r.Render(context.Background(), sampleDoc())
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
		assert.NoError(t, VerifyPDF(data, 165))
		assert.Error(t, VerifyPDF(data, 999))
	})

	t.Run("every template renders", func(t *testing.T) {
		for _, id := range entity.TemplateIDs() {
			doc := sampleDoc()
			doc.Theme, _ = entity.ThemePreset(id)
			doc.Theme.ShowWatermark = true
			doc.Quote.Items = append(doc.Quote.Items, entity.LineItem{
				Description: "Support", Quantity: 2, UnitPrice: 100, Discount: 10,
				DiscountType: entity.DiscountPercentage, TaxRate: 10,
			})
			_, err := r.Render(context.Background(), doc)
			assert.NoError(t, err, id)
		}
	})

	t.Run("images and custom fields", func(t *testing.T) {
		doc := sampleDoc()
		doc.Settings.CompanyLogo = pngDataURL(t)
		doc.Settings.CompanySeal = "data:image/webp;base64,AAAA"
		doc.Settings.CustomFields = []entity.CustomField{{ID: "1", Label: "PO", Value: "42"}}
		data, err := r.Render(context.Background(), doc)
		require.NoError(t, err)
		assert.NoError(t, VerifyPDF(data, 165))
	})

	t.Run("korean without a font falls back", func(t *testing.T) {
		doc := sampleDoc()
		doc.Quote.Language = entity.LanguageKorean
		_, err := r.Render(context.Background(), doc)
		assert.NoError(t, err)
	})

	t.Run("missing quote", func(t *testing.T) {
		_, err := r.Render(context.Background(), port.Document{})
		assert.ErrorIs(t, err, ErrExportFailed)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := r.Render(ctx, sampleDoc())
		assert.ErrorIs(t, err, ErrExportFailed)
	})
}

func TestPNGRenderer(t *testing.T) {
	pdf := NewPDFRenderer(newCatalog(t), PDFOptions{}, zap.NewNop())
	r := NewPNGRenderer(pdf, 50, zap.NewNop())
	assert.Equal(t, "png", r.Extension())

	data, err := r.Render(context.Background(), sampleDoc())
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Greater(t, img.Bounds().Dy(), img.Bounds().Dx(), "A4 portrait")
}

func TestExcelRenderer(t *testing.T) {
	r := NewExcelRenderer(newCatalog(t), zap.NewNop())
	assert.Equal(t, "xlsx", r.Extension())

	second := sampleDoc().Quote
	second.Number = "QT-001002"
	second.Status = entity.StatusWon
	second.Items = append(second.Items, entity.LineItem{Description: "Hosting", Quantity: 12, UnitPrice: 20})

	data, err := r.RenderLibrary(context.Background(), []*entity.Quote{sampleDoc().Quote, second}, entity.DefaultSettings())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(QuotesSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Document No", rows[0][0])
	assert.Equal(t, "QT-001001", rows[1][0])
	assert.Equal(t, "Finalized", rows[1][5])
	assert.Equal(t, "165", rows[1][10])
	assert.Equal(t, "Won", rows[2][5])

	items, err := f.GetRows(ItemsSheet)
	require.NoError(t, err)
	assert.Len(t, items, 4)
	assert.Equal(t, "Hosting", items[3][1])
}

func TestDecodeDataURL(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		kind    string
		wantErr bool
	}{
		{name: "png", in: "data:image/png;base64,AAAA", kind: "PNG"},
		{name: "jpeg", in: "data:image/jpeg;base64,AAAA", kind: "JPG"},
		{name: "svg", in: "data:image/svg+xml;base64,AAAA", wantErr: true},
		{name: "not base64", in: "data:image/png,AAAA", wantErr: true},
		{name: "plain url", in: "https://example.com/logo.png", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, _, err := decodeDataURL(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.kind, kind)
		})
	}
}

func TestParseHex(t *testing.T) {
	fallback := rgb{1, 2, 3}
	assert.Equal(t, rgb{79, 70, 229}, parseHex("#4f46e5", fallback))
	assert.Equal(t, rgb{255, 255, 255}, parseHex("#fff", fallback))
	assert.Equal(t, fallback, parseHex("indigo", fallback))
	assert.Equal(t, fallback, parseHex("", fallback))
}
