package export

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"strings"

	"github.com/gen2brain/go-fitz"
	"go.uber.org/zap"

	"github.com/garyjia/quotebook/internal/application/port"
	"github.com/garyjia/quotebook/internal/domain/pricing"
)

// DefaultDPI is the rasterization resolution used when none is configured
const DefaultDPI = 150

// PNGRenderer implements port.Renderer by rasterizing the PDF rendering.
// Multi-page documents are stacked into one tall image.
type PNGRenderer struct {
	pdf    port.Renderer
	dpi    float64
	logger *zap.Logger
}

// NewPNGRenderer creates a PNG renderer on top of a PDF renderer
func NewPNGRenderer(pdf port.Renderer, dpi float64, logger *zap.Logger) *PNGRenderer {
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	return &PNGRenderer{pdf: pdf, dpi: dpi, logger: logger}
}

// ContentType implements port.Renderer
func (r *PNGRenderer) ContentType() string { return "image/png" }

// Extension implements port.Renderer
func (r *PNGRenderer) Extension() string { return "png" }

// Render implements port.Renderer
func (r *PNGRenderer) Render(ctx context.Context, doc port.Document) ([]byte, error) {
	data, err := r.pdf.Render(ctx, doc)
	if err != nil {
		return nil, err
	}

	pdfDoc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("%w: png: open pdf: %v", ErrExportFailed, err)
	}
	defer pdfDoc.Close()

	if err := verifyGrandTotal(pdfDoc, Money(pricing.GrandTotal(doc.Quote.Items))); err != nil {
		r.logger.Error("Rendered document does not match editor totals",
			zap.String("quote_id", doc.Quote.ID), zap.Error(err))
		return nil, fmt.Errorf("%w: png: %v", ErrExportFailed, err)
	}

	pages := make([]image.Image, 0, pdfDoc.NumPage())
	width, height := 0, 0
	for n := 0; n < pdfDoc.NumPage(); n++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: png: %v", ErrExportFailed, err)
		}
		img, err := pdfDoc.ImageDPI(n, r.dpi)
		if err != nil {
			return nil, fmt.Errorf("%w: png: rasterize page %d: %v", ErrExportFailed, n+1, err)
		}
		pages = append(pages, img)
		if w := img.Bounds().Dx(); w > width {
			width = w
		}
		height += img.Bounds().Dy()
	}

	sheet := image.NewRGBA(image.Rect(0, 0, width, height))
	y := 0
	for _, img := range pages {
		b := img.Bounds()
		draw.Draw(sheet, image.Rect(0, y, b.Dx(), y+b.Dy()), img, b.Min, draw.Src)
		y += b.Dy()
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, sheet); err != nil {
		return nil, fmt.Errorf("%w: png: encode: %v", ErrExportFailed, err)
	}

	r.logger.Info("Rendered PNG",
		zap.String("quote_id", doc.Quote.ID),
		zap.Int("pages", len(pages)),
		zap.Float64("dpi", r.dpi))
	return buf.Bytes(), nil
}

// VerifyPDF checks that a rendered PDF prints the given grand total
func VerifyPDF(data []byte, grandTotal float64) error {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return fmt.Errorf("open pdf: %w", err)
	}
	defer doc.Close()
	return verifyGrandTotal(doc, Money(grandTotal))
}

func verifyGrandTotal(doc *fitz.Document, want string) error {
	for n := 0; n < doc.NumPage(); n++ {
		text, err := doc.Text(n)
		if err != nil {
			return fmt.Errorf("extract text of page %d: %w", n+1, err)
		}
		if strings.Contains(text, want) {
			return nil
		}
	}
	return fmt.Errorf("grand total %s not found in document text", want)
}
