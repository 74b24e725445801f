package export

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/garyjia/quotebook/internal/application/port"
	"github.com/garyjia/quotebook/internal/domain/entity"
	"github.com/garyjia/quotebook/internal/domain/pricing"
	"github.com/garyjia/quotebook/internal/i18n"
)

// Sheet names of the library workbook
const (
	QuotesSheet = "Quotes"
	ItemsSheet  = "Items"
)

// ExcelRenderer implements port.LibraryRenderer with excelize.
// The workbook has one row per quote and one row per line item.
type ExcelRenderer struct {
	translator port.Translator
	logger     *zap.Logger
}

// NewExcelRenderer creates a library workbook renderer
func NewExcelRenderer(translator port.Translator, logger *zap.Logger) *ExcelRenderer {
	return &ExcelRenderer{translator: translator, logger: logger}
}

// ContentType implements port.LibraryRenderer
func (r *ExcelRenderer) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Extension implements port.LibraryRenderer
func (r *ExcelRenderer) Extension() string { return "xlsx" }

// RenderLibrary implements port.LibraryRenderer
func (r *ExcelRenderer) RenderLibrary(ctx context.Context, quotes []*entity.Quote, settings *entity.AppSettings) ([]byte, error) {
	lang := entity.LanguageEnglish
	if settings != nil && settings.Language.IsValid() {
		lang = settings.Language
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			r.logger.Warn("Failed to close workbook", zap.Error(err))
		}
	}()

	if err := f.SetSheetName("Sheet1", QuotesSheet); err != nil {
		return nil, fmt.Errorf("%w: xlsx: %v", ErrExportFailed, err)
	}
	if _, err := f.NewSheet(ItemsSheet); err != nil {
		return nil, fmt.Errorf("%w: xlsx: %v", ErrExportFailed, err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("%w: xlsx: %v", ErrExportFailed, err)
	}

	quoteHeader := []interface{}{
		r.label(lang, i18n.KeyDocNumber),
		r.label(lang, i18n.KeyClient),
		"Email",
		r.label(lang, i18n.KeyIssueDate),
		r.label(lang, i18n.KeyExpiryDate),
		r.label(lang, i18n.KeyStatus),
		"Currency",
		r.label(lang, i18n.KeySubtotal),
		r.label(lang, i18n.KeyDiscount),
		r.label(lang, i18n.KeyTax),
		r.label(lang, i18n.KeyGrandTotal),
	}
	itemHeader := []interface{}{
		r.label(lang, i18n.KeyDocNumber),
		r.label(lang, i18n.KeyDescription),
		r.label(lang, i18n.KeyQuantity),
		"Unit",
		r.label(lang, i18n.KeyUnitPrice),
		r.label(lang, i18n.KeyDiscount),
		"Discount Type",
		r.label(lang, i18n.KeyTax) + " %",
		r.label(lang, i18n.KeyTotalHeader),
	}
	if err := writeHeader(f, QuotesSheet, quoteHeader, bold); err != nil {
		return nil, fmt.Errorf("%w: xlsx: %v", ErrExportFailed, err)
	}
	if err := writeHeader(f, ItemsSheet, itemHeader, bold); err != nil {
		return nil, fmt.Errorf("%w: xlsx: %v", ErrExportFailed, err)
	}

	quoteRow, itemRow := 2, 2
	for _, q := range quotes {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: xlsx: %v", ErrExportFailed, err)
		}
		t := pricing.Summarize(q.Items)
		row := []interface{}{
			q.Number,
			q.ClientName,
			q.ClientEmail,
			q.IssueDate,
			q.ExpiryDate,
			r.translator.Lookup(lang, "status_"+string(q.Status)),
			q.Currency,
			round2(t.Subtotal),
			round2(t.TotalDiscount),
			round2(t.TotalTax),
			round2(t.GrandTotal),
		}
		if err := writeRow(f, QuotesSheet, quoteRow, row); err != nil {
			return nil, fmt.Errorf("%w: xlsx: %v", ErrExportFailed, err)
		}
		quoteRow++

		for _, item := range q.Items {
			row := []interface{}{
				q.Number,
				item.Description,
				item.Quantity,
				item.Unit,
				round2(item.UnitPrice),
				round2(item.Discount),
				string(item.DiscountType),
				item.TaxRate,
				round2(pricing.ItemRowTotal(item)),
			}
			if err := writeRow(f, ItemsSheet, itemRow, row); err != nil {
				return nil, fmt.Errorf("%w: xlsx: %v", ErrExportFailed, err)
			}
			itemRow++
		}
	}

	if err := f.SetColWidth(QuotesSheet, "A", "K", 16); err != nil {
		return nil, fmt.Errorf("%w: xlsx: %v", ErrExportFailed, err)
	}
	if err := f.SetColWidth(ItemsSheet, "B", "B", 40); err != nil {
		return nil, fmt.Errorf("%w: xlsx: %v", ErrExportFailed, err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		r.logger.Error("Failed to write workbook", zap.Error(err))
		return nil, fmt.Errorf("%w: xlsx: %v", ErrExportFailed, err)
	}

	r.logger.Info("Rendered quote library",
		zap.Int("quotes", quoteRow-2),
		zap.Int("items", itemRow-2))
	return buf.Bytes(), nil
}

func (r *ExcelRenderer) label(lang entity.Language, key string) string {
	return r.translator.Lookup(lang, key)
}

func writeHeader(f *excelize.File, sheet string, header []interface{}, style int) error {
	if err := writeRow(f, sheet, 1, header); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
		return err
	}
	return f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}
