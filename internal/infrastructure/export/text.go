package export

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/garyjia/quotebook/internal/application/port"
	"github.com/garyjia/quotebook/internal/domain/pricing"
	"github.com/garyjia/quotebook/internal/i18n"
	"github.com/garyjia/quotebook/pkg/utils"
)

// TextRenderer prints the short summary users paste into chats
type TextRenderer struct {
	translator port.Translator
}

// NewTextRenderer creates a plain text renderer
func NewTextRenderer(translator port.Translator) *TextRenderer {
	return &TextRenderer{translator: translator}
}

// ContentType implements port.Renderer
func (r *TextRenderer) ContentType() string { return "text/plain; charset=utf-8" }

// Extension implements port.Renderer
func (r *TextRenderer) Extension() string { return "txt" }

// Render implements port.Renderer
func (r *TextRenderer) Render(ctx context.Context, doc port.Document) ([]byte, error) {
	if doc.Quote == nil {
		return nil, fmt.Errorf("%w: txt: no quote", ErrExportFailed)
	}
	return []byte(Summary(r.translator, doc)), nil
}

// Summary renders the clipboard text of a document:
//
//	[Quotation] QT-001001
//	Client: Globex
//	Date: 2026-03-10
//
//	- Design (2 x $100.00)
//
//	Total: $220.00
//
//	Acme Corp
//	John Doe
func Summary(tr port.Translator, doc port.Document) string {
	q := doc.Quote
	lang := docLanguage(doc)
	symbol := i18n.CurrencySymbol(q.Currency)
	totals := pricing.Summarize(q.Items)

	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s\n", documentTitle(tr, lang, q), q.Number)
	fmt.Fprintf(&b, "%s: %s\n", tr.Lookup(lang, i18n.KeyClient), q.ClientName)
	fmt.Fprintf(&b, "%s: %s\n\n", tr.Lookup(lang, i18n.KeyDate), q.IssueDate)
	for _, item := range q.Items {
		fmt.Fprintf(&b, "- %s (%s x %s%s)\n", item.Description,
			i18n.FormatNumber(lang, item.Quantity), symbol, Money(item.UnitPrice))
	}
	fmt.Fprintf(&b, "\n%s: %s%s\n\n", tr.Lookup(lang, i18n.KeyTotalHeader), symbol, Money(totals.GrandTotal))
	b.WriteString(companyName(doc.Settings))
	b.WriteString("\n")
	b.WriteString(representativeName(doc.Settings))
	return b.String()
}

// MailtoBuilder implements port.LinkBuilder
type MailtoBuilder struct {
	translator port.Translator
	logger     *zap.Logger
}

// NewMailtoBuilder creates a mailto link builder
func NewMailtoBuilder(translator port.Translator, logger *zap.Logger) *MailtoBuilder {
	return &MailtoBuilder{translator: translator, logger: logger}
}

// MailtoLink composes mailto:{client}?subject=...&body=... with spaces encoded
// as %20 so mail clients do not show plus signs. An invalid client address
// leaves the recipient empty.
func (m *MailtoBuilder) MailtoLink(doc port.Document) string {
	q := doc.Quote
	lang := docLanguage(doc)
	tr := m.translator
	title := documentTitle(tr, lang, q)
	company := companyName(doc.Settings)
	totals := pricing.Summarize(q.Items)

	var recipient string
	if raw := strings.TrimSpace(q.ClientEmail); raw != "" {
		addr, err := utils.NormalizeEmail(raw)
		if err != nil {
			m.logger.Warn("Ignoring invalid client email in mailto link",
				zap.String("quote_id", q.ID),
				zap.Error(err))
		}
		recipient = addr
	}

	subject := fmt.Sprintf("[%s] %s - %s", title, q.Number, company)

	var body strings.Builder
	fmt.Fprintf(&body, "%s %s,\n\n", tr.Lookup(lang, i18n.KeyEmailGreeting), q.ClientName)
	fmt.Fprintf(&body, "%s\n\n", tr.Lookup(lang, i18n.KeyEmailBody))
	fmt.Fprintf(&body, "- %s: %s\n", tr.Lookup(lang, i18n.KeyDocNumber), q.Number)
	fmt.Fprintf(&body, "- %s: %s\n", tr.Lookup(lang, i18n.KeyIssueDate), q.IssueDate)
	fmt.Fprintf(&body, "- %s: %s %s\n\n", tr.Lookup(lang, i18n.KeyTotalAmount), q.Currency, Money(totals.GrandTotal))
	fmt.Fprintf(&body, "%s\n\n", tr.Lookup(lang, i18n.KeyEmailQuestions))
	fmt.Fprintf(&body, "%s\n%s\n%s", tr.Lookup(lang, i18n.KeyEmailClosing), representativeName(doc.Settings), company)

	return "mailto:" + url.PathEscape(recipient) +
		"?subject=" + queryEscape(subject) +
		"&body=" + queryEscape(body.String())
}

func queryEscape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
