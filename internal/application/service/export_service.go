package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/garyjia/quotebook/internal/application/port"
	"github.com/garyjia/quotebook/internal/domain/entity"
)

// Artifact is a rendered download
type Artifact struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportService renders quotes into downloadable formats
type ExportService interface {
	// Export renders a stored quote
	Export(ctx context.Context, id string, format string) (*Artifact, error)
	// ExportCurrent renders the quote open in the editor, including unsaved edits
	ExportCurrent(ctx context.Context, format string) (*Artifact, error)
	// ExportLibrary renders every stored quote into one workbook
	ExportLibrary(ctx context.Context) (*Artifact, error)
	// Mailto returns a mailto link carrying the document summary
	Mailto(ctx context.Context, id string) (string, error)
	Formats() []string
}

type exportServiceImpl struct {
	quotes    QuoteService
	settings  SettingsService
	workspace *Workspace
	renderers map[string]port.Renderer
	library   port.LibraryRenderer
	links     port.LinkBuilder
	logger    Logger
}

// NewExportService creates an ExportService. Renderers are keyed by their extension.
func NewExportService(
	quotes QuoteService,
	settings SettingsService,
	workspace *Workspace,
	renderers []port.Renderer,
	library port.LibraryRenderer,
	links port.LinkBuilder,
	logger Logger,
) ExportService {
	byExt := make(map[string]port.Renderer, len(renderers))
	for _, r := range renderers {
		byExt[r.Extension()] = r
	}
	return &exportServiceImpl{
		quotes:    quotes,
		settings:  settings,
		workspace: workspace,
		renderers: byExt,
		library:   library,
		links:     links,
		logger:    logger,
	}
}

func (s *exportServiceImpl) Export(ctx context.Context, id string, format string) (*Artifact, error) {
	q, err := s.quotes.GetQuote(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.render(ctx, q, format)
}

func (s *exportServiceImpl) ExportCurrent(ctx context.Context, format string) (*Artifact, error) {
	q := s.workspace.Current()
	if q == nil {
		return nil, ErrNoCurrentQuote
	}
	return s.render(ctx, q, format)
}

func (s *exportServiceImpl) render(ctx context.Context, q *entity.Quote, format string) (*Artifact, error) {
	r, ok := s.renderers[format]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	data, err := r.Render(ctx, s.document(ctx, q))
	if err != nil {
		s.logger.Error("Export failed", "quote_id", q.ID, "format", format, "error", err)
		return nil, err
	}

	s.logger.Info("Quote exported", "quote_id", q.ID, "format", format, "bytes", len(data))
	return &Artifact{
		Filename:    q.Number + "." + r.Extension(),
		ContentType: r.ContentType(),
		Data:        data,
	}, nil
}

func (s *exportServiceImpl) ExportLibrary(ctx context.Context) (*Artifact, error) {
	if s.library == nil {
		return nil, fmt.Errorf("%w: library", ErrUnknownFormat)
	}
	quotes := s.quotes.ListQuotes(ctx, QuoteFilter{})
	data, err := s.library.RenderLibrary(ctx, quotes, s.settings.Get(ctx))
	if err != nil {
		s.logger.Error("Library export failed", "count", len(quotes), "error", err)
		return nil, err
	}
	return &Artifact{
		Filename:    "quotes." + s.library.Extension(),
		ContentType: s.library.ContentType(),
		Data:        data,
	}, nil
}

func (s *exportServiceImpl) Mailto(ctx context.Context, id string) (string, error) {
	q, err := s.quotes.GetQuote(ctx, id)
	if err != nil {
		return "", err
	}
	return s.links.MailtoLink(s.document(ctx, q)), nil
}

// Formats lists the single-quote formats in alphabetical order
func (s *exportServiceImpl) Formats() []string {
	out := make([]string, 0, len(s.renderers))
	for ext := range s.renderers {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

func (s *exportServiceImpl) document(ctx context.Context, q *entity.Quote) port.Document {
	settings := s.settings.Get(ctx)
	return port.Document{
		Quote:    q,
		Settings: settings,
		Theme:    q.ResolvedTheme(settings.Theme),
	}
}
