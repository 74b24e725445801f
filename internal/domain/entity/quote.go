package entity

import (
	"fmt"
	"time"
)

// DateLayout is the ISO date format used for issue and expiry dates
const DateLayout = "2006-01-02"

// DefaultValidityDays is the number of days between issue and expiry of a new quote
const DefaultValidityDays = 14

// DocType distinguishes estimates from invoices
type DocType string

const (
	DocTypeQuote   DocType = "quote"
	DocTypeInvoice DocType = "invoice"
)

// DiscountType selects how LineItem.Discount is interpreted
type DiscountType string

const (
	DiscountAmount     DiscountType = "amount"
	DiscountPercentage DiscountType = "percentage"
)

// LineItem is one billable row of a quote.
//
// Quantity, UnitPrice, TaxRate and Discount are expected to be >= 0 but are
// not validated. TaxRate is a percent. Discount is a percent of the gross
// when DiscountType is percentage, an absolute amount otherwise.
type LineItem struct {
	ID           string       `json:"id"`
	Description  string       `json:"description"`
	Quantity     float64      `json:"quantity"`
	UnitPrice    float64      `json:"unitPrice"`
	TaxRate      float64      `json:"taxRate"`
	Discount     float64      `json:"discount"`
	DiscountType DiscountType `json:"discountType"`
	Unit         string       `json:"unit,omitempty"`
}

// Quote is a quotation or invoice document
type Quote struct {
	ID          string       `json:"id"`
	Number      string       `json:"number"`
	DocType     DocType      `json:"docType,omitempty"`
	ClientName  string       `json:"clientName"`
	ClientEmail string       `json:"clientEmail"`
	IssueDate   string       `json:"issueDate"`
	ExpiryDate  string       `json:"expiryDate"`
	Currency    string       `json:"currency"`
	Items       []LineItem   `json:"items"`
	Status      QuoteStatus  `json:"status"`
	TemplateID  TemplateID   `json:"templateId"`
	Theme       *ThemeConfig `json:"theme,omitempty"`
	Terms       string       `json:"terms"`
	Notes       string       `json:"notes"`
	Language    Language     `json:"language"`
}

// IsInvoice reports whether the document prints as an invoice
func (q *Quote) IsInvoice() bool {
	return q.DocType == DocTypeInvoice
}

// IssuedAt parses IssueDate. Unparseable dates sort as the zero time.
func (q *Quote) IssuedAt() time.Time {
	t, err := time.Parse(DateLayout, q.IssueDate)
	if err != nil {
		return time.Time{}
	}
	return t
}

// ResolvedTheme returns the quote's own theme, falling back to the template preset
// and finally to the given settings theme.
func (q *Quote) ResolvedTheme(fallback ThemeConfig) ThemeConfig {
	if q.Theme != nil {
		return *q.Theme
	}
	if preset, ok := ThemePreset(q.TemplateID); ok {
		return preset
	}
	return fallback
}

// ApplyTemplate switches the quote to a template and its preset theme.
// Unknown template ids keep the current theme.
func (q *Quote) ApplyTemplate(id TemplateID) {
	q.TemplateID = id
	if preset, ok := ThemePreset(id); ok {
		q.Theme = &preset
	}
}

// FormatDocNumber renders a document number: prefix plus a 6-digit zero padded sequence
func FormatDocNumber(prefix string, n int) string {
	return fmt.Sprintf("%s%06d", prefix, n)
}

// IDGenerator produces opaque identifiers for quotes and line items
type IDGenerator func() string

// NewLineItem returns the empty row seeded into new quotes and added by the editor
func NewLineItem(id string, taxRate float64) LineItem {
	return LineItem{
		ID:           id,
		Quantity:     1,
		UnitPrice:    0,
		TaxRate:      taxRate,
		Discount:     0,
		DiscountType: DiscountAmount,
	}
}

// NewQuote builds a draft quote from the settings. It reads, but never
// advances, settings.NextDocNumber; consuming the number is the caller's job.
func NewQuote(settings *AppSettings, templateID TemplateID, now time.Time, newID IDGenerator) *Quote {
	selected := templateID
	if selected == "" {
		selected = settings.DefaultTemplateID
	}
	if selected == "" {
		selected = TemplateStandard
	}

	prefix := settings.DocNumberPrefix
	if prefix == "" {
		prefix = DefaultDocNumberPrefix
	}
	next := settings.NextDocNumber
	if next == 0 {
		next = DefaultNextDocNumber
	}

	theme, ok := ThemePreset(selected)
	if !ok {
		theme = settings.Theme
	}

	return &Quote{
		ID:          newID(),
		Number:      FormatDocNumber(prefix, next),
		ClientName:  "",
		ClientEmail: "",
		IssueDate:   now.Format(DateLayout),
		ExpiryDate:  now.AddDate(0, 0, DefaultValidityDays).Format(DateLayout),
		Currency:    settings.DefaultCurrency,
		Items:       []LineItem{NewLineItem(newID(), settings.DefaultTaxRate)},
		Status:      StatusDraft,
		TemplateID:  selected,
		Theme:       &theme,
		Terms:       settings.DefaultTerms,
		Notes:       settings.DefaultFooterNotes,
		Language:    settings.Language,
	}
}
