package port

import (
	"context"

	"github.com/garyjia/quotebook/internal/domain/entity"
)

// Confirmer gates destructive actions behind a yes/no answer
type Confirmer interface {
	Confirm(ctx context.Context, message string) bool
}

// ConfirmFunc adapts a function to Confirmer
type ConfirmFunc func(ctx context.Context, message string) bool

// Confirm implements Confirmer
func (f ConfirmFunc) Confirm(ctx context.Context, message string) bool {
	return f(ctx, message)
}

// Translator looks up user-facing strings
type Translator interface {
	Lookup(lang entity.Language, key string) string
}

// DraftRequest asks for line items generated from a free text description
type DraftRequest struct {
	Prompt   string
	Currency string
}

// Drafter turns a natural language request into line items, rewrites
// item descriptions in a business register and writes standard terms
type Drafter interface {
	DraftItems(ctx context.Context, req DraftRequest) ([]entity.LineItem, error)
	PolishDescription(ctx context.Context, description string, lang entity.Language) (string, error)
	GenerateTerms(ctx context.Context, businessType string, lang entity.Language) (string, error)
}

// Document is everything a renderer needs to print a quote
type Document struct {
	Quote    *entity.Quote
	Settings *entity.AppSettings
	Theme    entity.ThemeConfig
}

// Renderer turns a document into a downloadable artifact
type Renderer interface {
	Render(ctx context.Context, doc Document) ([]byte, error)
	ContentType() string
	Extension() string
}

// LibraryRenderer turns the whole quote collection into one spreadsheet-like artifact
type LibraryRenderer interface {
	RenderLibrary(ctx context.Context, quotes []*entity.Quote, settings *entity.AppSettings) ([]byte, error)
	ContentType() string
	Extension() string
}

// LinkBuilder composes a mailto link that sends the document summary to the client
type LinkBuilder interface {
	MailtoLink(doc Document) string
}
