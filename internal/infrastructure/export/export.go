// Package export renders quotes into downloadable artifacts: PDF, PNG,
// plain text, a mailto link and an XLSX workbook of the whole library.
//
// Every renderer takes its figures from pricing.Summarize so printed totals
// match what the editor shows.
package export

import (
	"errors"
	"math"

	"github.com/shopspring/decimal"

	"github.com/garyjia/quotebook/internal/application/port"
	"github.com/garyjia/quotebook/internal/domain/entity"
	"github.com/garyjia/quotebook/internal/i18n"
)

// ErrExportFailed wraps every renderer failure
var ErrExportFailed = errors.New("export failed")

// Money formats an amount with exactly two decimals. NaN and infinities are
// printed as their Go names since decimal cannot represent them.
func Money(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	if math.IsInf(v, 1) {
		return "+Inf"
	}
	if math.IsInf(v, -1) {
		return "-Inf"
	}
	return decimal.NewFromFloat(v).StringFixed(2)
}

// round2 rounds for spreadsheet cells. Non-finite values are passed through.
func round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

func docLanguage(doc port.Document) entity.Language {
	if doc.Quote != nil && doc.Quote.Language.IsValid() {
		return doc.Quote.Language
	}
	if doc.Settings != nil && doc.Settings.Language.IsValid() {
		return doc.Settings.Language
	}
	return entity.LanguageEnglish
}

func documentTitle(tr port.Translator, lang entity.Language, q *entity.Quote) string {
	if q.IsInvoice() {
		return tr.Lookup(lang, i18n.KeyInvoiceTitle)
	}
	return tr.Lookup(lang, i18n.KeyQuotationTitle)
}

func companyName(s *entity.AppSettings) string {
	if s == nil {
		return ""
	}
	return s.CompanyName
}

func representativeName(s *entity.AppSettings) string {
	if s == nil {
		return ""
	}
	return s.RepresentativeName
}
