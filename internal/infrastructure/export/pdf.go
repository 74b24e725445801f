package export

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"

	"github.com/garyjia/quotebook/internal/application/port"
	"github.com/garyjia/quotebook/internal/domain/entity"
	"github.com/garyjia/quotebook/internal/domain/pricing"
	"github.com/garyjia/quotebook/internal/i18n"
)

const utf8Family = "Document"

// PDFOptions configures fonts. Without a TrueType font the renderer falls
// back to the PDF core fonts, which only cover Latin-1, and prints English
// labels.
type PDFOptions struct {
	FontPath     string
	BoldFontPath string
}

// PDFRenderer implements port.Renderer with gofpdf
type PDFRenderer struct {
	translator port.Translator
	opts       PDFOptions
	logger     *zap.Logger
}

// NewPDFRenderer creates a PDF renderer
func NewPDFRenderer(translator port.Translator, opts PDFOptions, logger *zap.Logger) *PDFRenderer {
	return &PDFRenderer{translator: translator, opts: opts, logger: logger}
}

// ContentType implements port.Renderer
func (r *PDFRenderer) ContentType() string { return "application/pdf" }

// Extension implements port.Renderer
func (r *PDFRenderer) Extension() string { return "pdf" }

type rgb struct{ r, g, b int }

// page carries the state shared by the layout helpers of one render
type page struct {
	pdf      *gofpdf.Fpdf
	family   string
	text     func(string) string
	lang     entity.Language
	tr       port.Translator
	theme    entity.ThemeConfig
	primary  rgb
	ink      rgb
	paper    rgb
	currency string
	width    float64
	height   float64
	left     float64
	right    float64
	logger   *zap.Logger
}

// Render implements port.Renderer
func (r *PDFRenderer) Render(ctx context.Context, doc port.Document) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: pdf: %v", ErrExportFailed, err)
	}
	if doc.Quote == nil {
		return nil, fmt.Errorf("%w: pdf: no quote", ErrExportFailed)
	}
	settings := doc.Settings
	if settings == nil {
		settings = entity.DefaultSettings()
	}

	p := r.newPage(doc)
	q := doc.Quote
	totals := pricing.Summarize(q.Items)

	p.pdf.SetTitle(q.Number, true)
	p.pdf.SetAuthor(settings.CompanyName, true)
	p.pdf.SetCreator("quotebook", false)
	p.pdf.AddPage()

	p.header(q, settings)
	p.parties(q, settings)
	p.itemTable(q.Items)
	p.totals(q.Items, totals, settings)
	p.footer(q, settings)

	if err := p.pdf.Error(); err != nil {
		r.logger.Error("Failed to lay out PDF", zap.String("quote_id", q.ID), zap.Error(err))
		return nil, fmt.Errorf("%w: pdf: %v", ErrExportFailed, err)
	}

	var buf bytes.Buffer
	if err := p.pdf.Output(&buf); err != nil {
		r.logger.Error("Failed to write PDF", zap.String("quote_id", q.ID), zap.Error(err))
		return nil, fmt.Errorf("%w: pdf: %v", ErrExportFailed, err)
	}

	r.logger.Info("Rendered PDF",
		zap.String("quote_id", q.ID),
		zap.String("number", q.Number),
		zap.Int("bytes", buf.Len()))
	return buf.Bytes(), nil
}

func (r *PDFRenderer) newPage(doc port.Document) *page {
	pdf := gofpdf.New("P", "mm", "A4", "")
	theme := doc.Theme

	p := &page{
		pdf:      pdf,
		lang:     docLanguage(doc),
		tr:       r.translator,
		theme:    theme,
		primary:  parseHex(theme.PrimaryColor, rgb{79, 70, 229}),
		ink:      parseHex(theme.SecondaryColor, rgb{30, 41, 59}),
		paper:    parseHex(theme.PaperColor, rgb{255, 255, 255}),
		currency: doc.Quote.Currency,
		logger:   r.logger,
	}

	if r.opts.FontPath != "" {
		bold := r.opts.BoldFontPath
		if bold == "" {
			bold = r.opts.FontPath
		}
		pdf.AddUTF8Font(utf8Family, "", r.opts.FontPath)
		pdf.AddUTF8Font(utf8Family, "B", bold)
		p.family = utf8Family
		p.text = func(s string) string { return s }
		p.currency = i18n.CurrencySymbol(doc.Quote.Currency)
	} else {
		p.family = coreFamily(theme.FontFamily)
		p.text = pdf.UnicodeTranslatorFromDescriptor("")
		// core fonts have no Hangul glyphs
		p.lang = entity.LanguageEnglish
		p.currency = doc.Quote.Currency + " "
	}

	margin := paddingMargin(theme.PaperPadding)
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin+5)
	p.width, p.height = pdf.GetPageSize()
	p.left, p.right = margin, margin

	title := documentTitle(r.translator, p.lang, doc.Quote)
	pdf.SetHeaderFunc(func() {
		pdf.SetFillColor(p.paper.r, p.paper.g, p.paper.b)
		pdf.Rect(0, 0, p.width, p.height, "F")
		if theme.ShowWatermark {
			p.watermark(title)
		}
		pdf.SetXY(p.left, margin)
	})
	return p
}

func (p *page) contentWidth() float64 {
	return p.width - p.left - p.right
}

func (p *page) font(style string, size float64) {
	p.pdf.SetFont(p.family, style, size)
}

func (p *page) color(c rgb) {
	p.pdf.SetTextColor(c.r, c.g, c.b)
}

func (p *page) label(key string) string {
	return p.text(p.tr.Lookup(p.lang, key))
}

func (p *page) amount(v float64) string {
	return p.text(p.currency + Money(v))
}

func (p *page) watermark(title string) {
	cx, cy := p.width/2, p.height/2
	p.pdf.SetAlpha(0.06, "Normal")
	p.font("B", 72)
	p.color(p.primary)
	p.pdf.TransformBegin()
	p.pdf.TransformRotate(45, cx, cy)
	text := p.text(strings.ToUpper(title))
	p.pdf.Text(cx-p.pdf.GetStringWidth(text)/2, cy, text)
	p.pdf.TransformEnd()
	p.pdf.SetAlpha(1, "Normal")
}

func (p *page) header(q *entity.Quote, s *entity.AppSettings) {
	pdf := p.pdf
	w := p.contentWidth()
	title := p.text(documentTitle(p.tr, p.lang, q))

	if logo, ok := p.image("logo", s.CompanyLogo); ok {
		size := p.theme.LogoSize / 4
		if size <= 0 {
			size = 20
		}
		x := p.left
		switch p.theme.LogoAlignment {
		case "center":
			x = (p.width - size) / 2
		case "right":
			x = p.width - p.right - size
		}
		opacity := p.theme.LogoOpacity
		if opacity <= 0 || opacity > 1 {
			opacity = 1
		}
		pdf.SetAlpha(opacity, blendMode(p.theme.LogoBlendMode))
		pdf.ImageOptions(logo, x, pdf.GetY(), size, 0, true, gofpdf.ImageOptions{}, 0, "")
		pdf.SetAlpha(1, "Normal")
		pdf.Ln(3)
	}

	switch p.theme.HeaderLayout {
	case "banner":
		pdf.SetFillColor(p.primary.r, p.primary.g, p.primary.b)
		pdf.SetTextColor(255, 255, 255)
		p.font("B", 20)
		pdf.CellFormat(w*0.6, 14, " "+title, "", 0, "L", true, 0, "")
		p.font("", 11)
		pdf.CellFormat(w*0.4, 14, p.text(q.Number)+" ", "", 1, "R", true, 0, "")
	case "centered":
		p.color(p.primary)
		p.font("B", 22)
		pdf.CellFormat(w, 12, title, "", 1, "C", false, 0, "")
		p.color(p.ink)
		p.font("", 11)
		pdf.CellFormat(w, 6, p.text(q.Number), "", 1, "C", false, 0, "")
	default:
		p.color(p.primary)
		p.font("B", 22)
		pdf.CellFormat(w*0.6, 12, title, "", 0, "L", false, 0, "")
		p.color(p.ink)
		p.font("", 11)
		pdf.CellFormat(w*0.4, 12, p.text(q.Number), "", 1, "R", false, 0, "")
	}
	p.color(p.ink)
	if s.CompanySlogan != "" {
		p.font("", 9)
		pdf.CellFormat(w, 5, p.text(s.CompanySlogan), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)
}

func (p *page) parties(q *entity.Quote, s *entity.AppSettings) {
	pdf := p.pdf
	half := p.contentWidth() / 2
	top := pdf.GetY()

	// company on the left
	p.font("B", 11)
	pdf.CellFormat(half, 6, p.text(s.CompanyName), "", 2, "L", false, 0, "")
	p.font("", 9)
	for _, line := range []string{s.RepresentativeName, s.CompanyAddress, s.CompanyRegNo, s.CompanyEmail, s.CompanyPhone, s.CompanyWebsite} {
		if line != "" {
			pdf.CellFormat(half, 4.5, p.text(line), "", 2, "L", false, 0, "")
		}
	}
	leftBottom := pdf.GetY()

	// client and dates on the right
	pdf.SetXY(p.left+half, top)
	expiryKey := i18n.KeyExpiryDate
	if q.IsInvoice() {
		expiryKey = i18n.KeyDueDate
	}
	p.font("B", 11)
	pdf.CellFormat(half, 6, p.label(i18n.KeyClient)+": "+p.text(q.ClientName), "", 2, "R", false, 0, "")
	p.font("", 9)
	if q.ClientEmail != "" {
		pdf.CellFormat(half, 4.5, p.text(q.ClientEmail), "", 2, "R", false, 0, "")
	}
	rows := [][2]string{
		{i18n.KeyIssueDate, q.IssueDate},
		{expiryKey, q.ExpiryDate},
		{i18n.KeyStatus, p.tr.Lookup(p.lang, "status_"+string(q.Status))},
	}
	for _, row := range rows {
		pdf.CellFormat(half, 4.5, p.label(row[0])+": "+p.text(row[1]), "", 2, "R", false, 0, "")
	}

	if pdf.GetY() < leftBottom {
		pdf.SetY(leftBottom)
	}
	pdf.SetX(p.left)
	pdf.Ln(6)
}

type column struct {
	key   string
	width float64
	align string
}

func (p *page) columns(items []entity.LineItem) []column {
	w := p.contentWidth()
	cols := []column{
		{key: i18n.KeyDescription, align: "L"},
		{key: i18n.KeyQuantity, width: w * 0.10, align: "R"},
		{key: i18n.KeyUnitPrice, width: w * 0.17, align: "R"},
	}
	if pricing.HasDiscount(items) {
		cols = append(cols, column{key: i18n.KeyDiscount, width: w * 0.13, align: "R"})
	}
	cols = append(cols,
		column{key: i18n.KeyTax, width: w * 0.09, align: "R"},
		column{key: i18n.KeyTotalHeader, width: w * 0.18, align: "R"},
	)
	used := 0.0
	for _, c := range cols[1:] {
		used += c.width
	}
	cols[0].width = w - used
	return cols
}

func (p *page) itemTable(items []entity.LineItem) {
	pdf := p.pdf
	cols := p.columns(items)
	style := p.theme.TableStyle

	headBorder, rowBorder := "B", "B"
	switch style {
	case "bordered", "grid":
		headBorder, rowBorder = "1", "1"
	case "striped":
		headBorder, rowBorder = "", ""
	}

	pdf.SetFillColor(p.primary.r, p.primary.g, p.primary.b)
	pdf.SetDrawColor(p.primary.r, p.primary.g, p.primary.b)
	pdf.SetTextColor(255, 255, 255)
	p.font("B", 9)
	for _, c := range cols {
		pdf.CellFormat(c.width, 8, p.label(c.key), headBorder, 0, c.align, true, 0, "")
	}
	pdf.Ln(-1)

	p.color(p.ink)
	pdf.SetDrawColor(200, 200, 200)
	p.font("", 9)
	stripe := tint(p.primary, p.theme.AccentAlpha)
	for i, item := range items {
		fill := style == "striped" && i%2 == 1
		if fill {
			pdf.SetFillColor(stripe.r, stripe.g, stripe.b)
		}
		values := []string{
			p.text(item.Description),
			p.text(i18n.FormatNumber(p.lang, item.Quantity) + unitSuffix(item.Unit)),
			p.amount(item.UnitPrice),
		}
		if len(cols) == 6 {
			values = append(values, p.discount(item))
		}
		values = append(values,
			p.text(i18n.FormatNumber(p.lang, item.TaxRate)+"%"),
			p.amount(pricing.ItemRowTotal(item)),
		)
		for j, c := range cols {
			pdf.CellFormat(c.width, 7, values[j], rowBorder, 0, c.align, fill, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(4)
}

func (p *page) discount(item entity.LineItem) string {
	if item.Discount == 0 {
		return "-"
	}
	if item.DiscountType == entity.DiscountPercentage {
		return p.text(i18n.FormatNumber(p.lang, item.Discount) + "%")
	}
	return p.amount(item.Discount)
}

func (p *page) totals(items []entity.LineItem, t pricing.Totals, s *entity.AppSettings) {
	pdf := p.pdf
	w := p.contentWidth()
	labelW, valueW := w*0.22, w*0.2
	offset := w - labelW - valueW
	top := pdf.GetY()

	row := func(key, value string) {
		pdf.SetX(p.left + offset)
		pdf.CellFormat(labelW, 6, p.label(key), "", 0, "L", false, 0, "")
		pdf.CellFormat(valueW, 6, value, "", 1, "R", false, 0, "")
	}

	p.font("", 10)
	p.color(p.ink)
	row(i18n.KeySubtotal, p.amount(t.Subtotal))
	if pricing.HasDiscount(items) {
		row(i18n.KeyDiscount, p.text("-")+p.amount(t.TotalDiscount))
	}
	row(i18n.KeyTax, p.amount(t.TotalTax))

	pdf.SetDrawColor(p.primary.r, p.primary.g, p.primary.b)
	pdf.Line(p.left+offset, pdf.GetY()+1, p.width-p.right, pdf.GetY()+1)
	pdf.Ln(2)
	p.font("B", 13)
	p.color(p.primary)
	row(i18n.KeyGrandTotal, p.amount(t.GrandTotal))
	p.color(p.ink)

	if seal, ok := p.image("seal", s.CompanySeal); ok {
		pdf.ImageOptions(seal, p.left, top, 25, 0, false, gofpdf.ImageOptions{}, 0, "")
	}
	pdf.Ln(6)
}

func (p *page) footer(q *entity.Quote, s *entity.AppSettings) {
	pdf := p.pdf
	w := p.contentWidth()

	block := func(key, body string) {
		if strings.TrimSpace(body) == "" {
			return
		}
		p.font("B", 10)
		pdf.CellFormat(w, 6, p.label(key), "", 1, "L", false, 0, "")
		p.font("", 9)
		pdf.MultiCell(w, 4.5, p.text(body), "", "L", false)
		pdf.Ln(3)
	}
	block(i18n.KeyTerms, q.Terms)
	block(i18n.KeyNotes, q.Notes)
	block(i18n.KeyBankInfo, s.BankInfo)

	if len(s.CustomFields) == 0 {
		return
	}
	p.font("", 8)
	for _, f := range s.CustomFields {
		if f.Label == "" && f.Value == "" {
			continue
		}
		pdf.CellFormat(w, 4.5, p.text(f.Label+": "+f.Value), "", 1, "L", false, 0, "")
	}
}

// image registers a PNG, JPEG or GIF data URL and returns its name.
// Anything else is skipped.
func (p *page) image(name, dataURL string) (string, bool) {
	if dataURL == "" {
		return "", false
	}
	kind, data, err := decodeDataURL(dataURL)
	if err != nil {
		p.logger.Warn("Skipping unreadable image", zap.String("image", name), zap.Error(err))
		return "", false
	}
	info := p.pdf.RegisterImageOptionsReader(name, gofpdf.ImageOptions{ImageType: kind, ReadDpi: true}, bytes.NewReader(data))
	if info == nil || !p.pdf.Ok() {
		p.logger.Warn("Skipping unsupported image", zap.String("image", name), zap.Error(p.pdf.Error()))
		p.pdf.ClearError()
		return "", false
	}
	return name, true
}

func decodeDataURL(s string) (string, []byte, error) {
	meta, payload, ok := strings.Cut(s, ",")
	if !ok || !strings.HasPrefix(meta, "data:image/") {
		return "", nil, fmt.Errorf("not an image data url")
	}
	mime := strings.TrimPrefix(meta, "data:image/")
	mime, encoding, _ := strings.Cut(mime, ";")
	var kind string
	switch mime {
	case "png":
		kind = "PNG"
	case "jpeg", "jpg":
		kind = "JPG"
	case "gif":
		kind = "GIF"
	default:
		return "", nil, fmt.Errorf("unsupported image type %q", mime)
	}
	if encoding != "base64" {
		return "", nil, fmt.Errorf("unsupported encoding %q", encoding)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("decode image: %w", err)
	}
	return kind, data, nil
}

func coreFamily(f entity.FontFamily) string {
	switch f {
	case entity.FontSerif, entity.FontPlayfair, entity.FontRobotoSlab:
		return "Times"
	case entity.FontMono:
		return "Courier"
	}
	return "Helvetica"
}

func paddingMargin(padding string) float64 {
	switch padding {
	case "compact":
		return 10
	case "wide":
		return 22
	}
	return 15
}

func blendMode(mode string) string {
	switch mode {
	case "multiply":
		return "Multiply"
	case "screen":
		return "Screen"
	}
	return "Normal"
}

func unitSuffix(unit string) string {
	if unit == "" {
		return ""
	}
	return " " + unit
}

// parseHex reads #rgb or #rrggbb
func parseHex(s string, fallback rgb) rgb {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return fallback
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return fallback
	}
	return rgb{int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)}
}

// tint mixes c with white; alpha 1 keeps c
func tint(c rgb, alpha float64) rgb {
	if alpha <= 0 || alpha > 1 {
		alpha = 0.1
	}
	mix := func(v int) int { return int(float64(v)*alpha + 255*(1-alpha)) }
	return rgb{mix(c.r), mix(c.g), mix(c.b)}
}
