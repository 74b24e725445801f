// Package i18n holds the user-facing string table and locale aware number formatting.
package i18n

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"golang.org/x/text/number"

	"github.com/garyjia/quotebook/internal/domain/entity"
)

// Message keys used outside of renderers
const (
	KeyDeleteConfirm  = "deleteConfirm"
	KeyCopySuffix     = "copySuffix"
	KeyQuotationTitle = "quotationTitle"
	KeyInvoiceTitle   = "invoiceTitle"
	KeyClient         = "client"
	KeyDate           = "date"
	KeyIssueDate      = "issueDate"
	KeyExpiryDate     = "expiryDate"
	KeyDueDate        = "dueDate"
	KeyDescription    = "description"
	KeyQuantity       = "quantity"
	KeyUnitPrice      = "unitPrice"
	KeyDiscount       = "discount"
	KeyTax            = "tax"
	KeyTotalHeader    = "totalHeader"
	KeySubtotal       = "subtotal"
	KeyGrandTotal     = "grandTotal"
	KeyTerms          = "terms"
	KeyNotes          = "notes"
	KeyBankInfo       = "bankInfo"
	KeyDocNumber      = "docNumber"
	KeyStatus         = "status"
	KeyEmailGreeting  = "emailGreeting"
	KeyEmailBody      = "emailBody"
	KeyEmailQuestions = "emailQuestions"
	KeyEmailClosing   = "emailClosing"
	KeyTotalAmount    = "totalAmount"
	KeyPDFError       = "pdfError"
)

var table = map[string][2]string{
	KeyDeleteConfirm:  {"Are you sure you want to delete this document?", "이 문서를 삭제하시겠습니까?"},
	KeyCopySuffix:     {"(copy)", "(사본)"},
	KeyQuotationTitle: {"Quotation", "견적서"},
	KeyInvoiceTitle:   {"Invoice", "청구서"},
	KeyClient:         {"Client", "고객"},
	KeyDate:           {"Date", "날짜"},
	KeyIssueDate:      {"Issue Date", "발행일"},
	KeyExpiryDate:     {"Valid Until", "유효기간"},
	KeyDueDate:        {"Due Date", "지불기한"},
	KeyDescription:    {"Description", "품목"},
	KeyQuantity:       {"Qty", "수량"},
	KeyUnitPrice:      {"Unit Price", "단가"},
	KeyDiscount:       {"Discount", "할인"},
	KeyTax:            {"Tax", "세금"},
	KeyTotalHeader:    {"Total", "합계"},
	KeySubtotal:       {"Subtotal", "소계"},
	KeyGrandTotal:     {"Total", "총액"},
	KeyTerms:          {"Terms", "조건"},
	KeyNotes:          {"Notes", "비고"},
	KeyBankInfo:       {"Bank", "계좌"},
	KeyDocNumber:      {"Document No", "문서 번호"},
	KeyStatus:         {"Status", "상태"},
	KeyEmailGreeting:  {"Dear", "안녕하세요,"},
	KeyEmailBody:      {"Please check the attached document details below.", "첨부된 문서의 상세 내용을 확인해 주세요."},
	KeyEmailQuestions: {"If you have any questions, please reply to this email.", "문의 사항이 있으시면 이 메일로 회신해 주세요."},
	KeyEmailClosing:   {"Best regards,", "감사합니다."},
	KeyTotalAmount:    {"Total Amount", "총 금액"},
	KeyPDFError:       {"PDF export failed. Please try again.", "PDF 내보내기에 실패했습니다. 다시 시도해 주세요."},
	"status_Draft":     {"Draft", "작성 중"},
	"status_Finalized": {"Finalized", "발행 완료"},
	"status_Won":       {"Won", "수주"},
	"status_Lost":      {"Lost", "실주"},
}

// Catalog implements port.Translator on top of an x/text message catalog
type Catalog struct {
	cat catalog.Catalog
}

// New builds the catalog for English and Korean
func New() (*Catalog, error) {
	return Build(table)
}

// Build compiles an English/Korean message table into a catalog. A message
// that does not compile fails the build with its key in the error.
func Build(messages map[string][2]string) (*Catalog, error) {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for key, msgs := range messages {
		if err := b.SetString(language.English, key, msgs[0]); err != nil {
			return nil, fmt.Errorf("message %q (en): %w", key, err)
		}
		if err := b.SetString(language.Korean, key, msgs[1]); err != nil {
			return nil, fmt.Errorf("message %q (ko): %w", key, err)
		}
	}
	return &Catalog{cat: b}, nil
}

// Tag maps an application language to a BCP 47 tag
func Tag(lang entity.Language) language.Tag {
	if lang == entity.LanguageKorean {
		return language.Korean
	}
	return language.English
}

// Lookup returns the string for key, the English string when the language
// lacks it, and the key itself when nothing matches.
func (c *Catalog) Lookup(lang entity.Language, key string) string {
	p := message.NewPrinter(Tag(lang), message.Catalog(c.cat))
	return p.Sprintf(key)
}

// StatusLabel returns the localized label of a status
func (c *Catalog) StatusLabel(lang entity.Language, s entity.QuoteStatus) string {
	return c.Lookup(lang, "status_"+string(s))
}

// CurrencySymbol mirrors the symbols the editor shows
func CurrencySymbol(currency string) string {
	switch currency {
	case "KRW":
		return "₩"
	case "EUR":
		return "€"
	case "JPY":
		return "¥"
	case "GBP":
		return "£"
	}
	return "$"
}

// FormatNumber formats v with locale grouping and at most two fraction digits
func FormatNumber(lang entity.Language, v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	p := message.NewPrinter(Tag(lang))
	return p.Sprint(number.Decimal(v, number.MaxFractionDigits(2)))
}
