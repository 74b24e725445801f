package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/garyjia/quotebook/internal/application/port"
	"github.com/garyjia/quotebook/internal/domain/entity"
	"github.com/garyjia/quotebook/internal/domain/lifecycle"
	"github.com/garyjia/quotebook/internal/domain/pricing"
	"github.com/garyjia/quotebook/internal/domain/tutorial"
	"github.com/garyjia/quotebook/internal/i18n"
)

// RecentQuotesLimit is how many quotes the dashboard lists
const RecentQuotesLimit = 5

// QuoteFilter narrows the library listing. Zero values match everything.
type QuoteFilter struct {
	Search string
	Status entity.QuoteStatus
}

// StatusCounts holds the library tallies
type StatusCounts struct {
	All       int `json:"all"`
	Draft     int `json:"draft"`
	Finalized int `json:"finalized"`
	Won       int `json:"won"`
	Lost      int `json:"lost"`
}

// Dashboard summarizes the library for the landing view
type Dashboard struct {
	LatestDraft  *entity.Quote   `json:"latestDraft"`
	Recent       []*entity.Quote `json:"recent"`
	WonTotal     float64         `json:"wonTotal"`
	MonthlyGoal  float64         `json:"monthlyGoal"`
	GoalProgress float64         `json:"goalProgress"`
	Counts       StatusCounts    `json:"counts"`
}

// QuoteService owns the quote collection
type QuoteService interface {
	CreateQuote(ctx context.Context, templateID entity.TemplateID) (*entity.Quote, error)
	SaveQuote(ctx context.Context, quote *entity.Quote, closeEditor bool) (*entity.Quote, error)
	EditQuote(ctx context.Context, id string) (*entity.Quote, error)
	DuplicateQuote(ctx context.Context, id string) (*entity.Quote, error)
	DeleteQuote(ctx context.Context, id string, confirmer port.Confirmer) error
	UpdateQuoteStatus(ctx context.Context, id string, status entity.QuoteStatus) (*entity.Quote, error)
	ApplyTemplate(ctx context.Context, id string, templateID entity.TemplateID) (*entity.Quote, error)
	GetQuote(ctx context.Context, id string) (*entity.Quote, error)
	ListQuotes(ctx context.Context, filter QuoteFilter) []*entity.Quote
	StatusCounts(ctx context.Context) StatusCounts
	Dashboard(ctx context.Context) Dashboard
	Totals(ctx context.Context, id string) (pricing.Totals, error)
}

// QuoteServiceOption customizes a QuoteService
type QuoteServiceOption func(*quoteServiceImpl)

// WithClock overrides the time source used for issue dates
func WithClock(now func() time.Time) QuoteServiceOption {
	return func(s *quoteServiceImpl) { s.now = now }
}

// WithIDGenerator overrides quote and line item ids
func WithIDGenerator(gen entity.IDGenerator) QuoteServiceOption {
	return func(s *quoteServiceImpl) { s.newID = gen }
}

type quoteServiceImpl struct {
	mu         sync.Mutex
	quotes     []*entity.Quote
	repo       port.QuoteRepository
	settings   SettingsService
	workspace  *Workspace
	lifecycle  *lifecycle.Lifecycle
	translator port.Translator
	now        func() time.Time
	newID      entity.IDGenerator
	logger     Logger
}

// NewQuoteService creates a QuoteService seeded from the repository and
// registers itself as the workspace's autosave target
func NewQuoteService(
	ctx context.Context,
	repo port.QuoteRepository,
	settings SettingsService,
	workspace *Workspace,
	lc *lifecycle.Lifecycle,
	translator port.Translator,
	logger Logger,
	opts ...QuoteServiceOption,
) QuoteService {
	s := &quoteServiceImpl{
		quotes:     repo.Load(ctx),
		repo:       repo,
		settings:   settings,
		workspace:  workspace,
		lifecycle:  lc,
		translator: translator,
		now:        time.Now,
		newID:      uuid.NewString,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.quotes == nil {
		s.quotes = []*entity.Quote{}
	}

	workspace.setReconciler(func(ctx context.Context, q *entity.Quote) error {
		_, err := s.SaveQuote(ctx, q, false)
		return err
	})
	return s
}

// CreateQuote builds a draft from the settings, consumes its number and opens
// it in the editor. The quote is not stored until it is saved.
func (s *quoteServiceImpl) CreateQuote(ctx context.Context, templateID entity.TemplateID) (*entity.Quote, error) {
	settings := s.settings.Get(ctx)
	q := entity.NewQuote(settings, templateID, s.now(), s.newID)
	q.Number = s.settings.ConsumeDocNumber(ctx)

	s.workspace.Open(ctx, q)
	s.logger.Info("Quote created", "quote_id", q.ID, "number", q.Number, "template", q.TemplateID)
	return cloneQuote(q), nil
}

// SaveQuote replaces the stored quote with the same id or prepends a new one
func (s *quoteServiceImpl) SaveQuote(ctx context.Context, quote *entity.Quote, closeEditor bool) (*entity.Quote, error) {
	if quote == nil {
		return nil, fmt.Errorf("save quote: %w", ErrNoCurrentQuote)
	}
	if quote.ID == "" {
		quote.ID = s.newID()
	}
	saved := cloneQuote(quote)

	s.mu.Lock()
	if i := s.indexOf(saved.ID); i >= 0 {
		s.quotes[i] = saved
	} else {
		s.quotes = append([]*entity.Quote{saved}, s.quotes...)
	}
	s.persist(ctx)
	s.mu.Unlock()

	if closeEditor {
		s.workspace.CloseEditor()
		s.workspace.SetTab(tutorial.TabQuotes)
	}
	s.logger.Info("Quote saved", "quote_id", saved.ID, "status", saved.Status, "close_editor", closeEditor)
	return cloneQuote(saved), nil
}

// EditQuote opens a stored quote in the editor
func (s *quoteServiceImpl) EditQuote(ctx context.Context, id string) (*entity.Quote, error) {
	s.flushIfOpen(ctx, id)
	q, err := s.GetQuote(ctx, id)
	if err != nil {
		return nil, err
	}
	s.workspace.Open(ctx, q)
	return q, nil
}

// DuplicateQuote deep copies a stored quote into a new draft with a fresh
// number. The number is consumed even if the copy is never edited.
func (s *quoteServiceImpl) DuplicateQuote(ctx context.Context, id string) (*entity.Quote, error) {
	s.flushIfOpen(ctx, id)

	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return nil, fmt.Errorf("duplicate %s: %w", id, entity.ErrQuoteNotFound)
	}
	dup := cloneQuote(s.quotes[i])
	s.mu.Unlock()

	settings := s.settings.Get(ctx)
	suffix := s.translator.Lookup(settings.Language, i18n.KeyCopySuffix)

	dup.ID = s.newID()
	dup.Number = s.settings.ConsumeDocNumber(ctx)
	dup.Status = entity.StatusDraft
	dup.IssueDate = s.now().Format(entity.DateLayout)
	dup.ClientName = dup.ClientName + " " + suffix

	s.mu.Lock()
	s.quotes = append([]*entity.Quote{cloneQuote(dup)}, s.quotes...)
	s.persist(ctx)
	s.mu.Unlock()

	s.workspace.Open(ctx, dup)
	s.logger.Info("Quote duplicated", "source_id", id, "quote_id", dup.ID, "number", dup.Number)
	return dup, nil
}

// DeleteQuote removes a quote once the confirmer agrees
func (s *quoteServiceImpl) DeleteQuote(ctx context.Context, id string, confirmer port.Confirmer) error {
	settings := s.settings.Get(ctx)
	prompt := s.translator.Lookup(settings.Language, i18n.KeyDeleteConfirm)
	if confirmer == nil || !confirmer.Confirm(ctx, prompt) {
		return ErrDeleteNotConfirmed
	}

	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return fmt.Errorf("delete %s: %w", id, entity.ErrQuoteNotFound)
	}
	s.quotes = append(s.quotes[:i:i], s.quotes[i+1:]...)
	s.persist(ctx)
	s.mu.Unlock()

	if s.workspace.isCurrent(id) {
		s.workspace.CloseEditor()
	}
	s.logger.Info("Quote deleted", "quote_id", id)
	return nil
}

// UpdateQuoteStatus moves a stored quote through the lifecycle
func (s *quoteServiceImpl) UpdateQuoteStatus(ctx context.Context, id string, status entity.QuoteStatus) (*entity.Quote, error) {
	s.flushIfOpen(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, fmt.Errorf("update status %s: %w", id, entity.ErrQuoteNotFound)
	}

	from := s.quotes[i].Status
	to, err := s.lifecycle.Transition(ctx, from, status)
	if err != nil {
		return nil, fmt.Errorf("update status %s: %w", id, err)
	}

	updated := cloneQuote(s.quotes[i])
	updated.Status = to
	s.quotes[i] = updated
	s.persist(ctx)
	s.workspace.mirror(id, func(q *entity.Quote) { q.Status = to })

	s.logger.Info("Quote status updated", "quote_id", id, "from", from, "to", to)
	return cloneQuote(updated), nil
}

// ApplyTemplate switches a stored quote to a template preset
func (s *quoteServiceImpl) ApplyTemplate(ctx context.Context, id string, templateID entity.TemplateID) (*entity.Quote, error) {
	s.flushIfOpen(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, fmt.Errorf("apply template %s: %w", id, entity.ErrQuoteNotFound)
	}
	updated := cloneQuote(s.quotes[i])
	updated.ApplyTemplate(templateID)
	s.quotes[i] = updated
	s.persist(ctx)
	s.workspace.mirror(id, func(q *entity.Quote) { q.ApplyTemplate(templateID) })
	return cloneQuote(updated), nil
}

func (s *quoteServiceImpl) GetQuote(ctx context.Context, id string) (*entity.Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, fmt.Errorf("get %s: %w", id, entity.ErrQuoteNotFound)
	}
	return cloneQuote(s.quotes[i]), nil
}

// ListQuotes returns matching quotes, newest issue date first. Search is a
// case-insensitive substring match on client name or number.
func (s *quoteServiceImpl) ListQuotes(ctx context.Context, filter QuoteFilter) []*entity.Quote {
	needle := strings.ToLower(strings.TrimSpace(filter.Search))

	s.mu.Lock()
	out := make([]*entity.Quote, 0, len(s.quotes))
	for _, q := range s.quotes {
		if filter.Status != "" && q.Status != filter.Status {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(q.ClientName), needle) &&
			!strings.Contains(strings.ToLower(q.Number), needle) {
			continue
		}
		out = append(out, cloneQuote(q))
	}
	s.mu.Unlock()

	sortByIssueDateDesc(out)
	return out
}

func (s *quoteServiceImpl) StatusCounts(ctx context.Context) StatusCounts {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.countLocked()
}

// Dashboard returns the latest draft, the most recent quotes and progress
// of won business against the monthly goal
func (s *quoteServiceImpl) Dashboard(ctx context.Context) Dashboard {
	all := s.ListQuotes(ctx, QuoteFilter{})
	goal := s.settings.Get(ctx).MonthlyGoal

	d := Dashboard{
		Recent:      all[:min(RecentQuotesLimit, len(all))],
		MonthlyGoal: goal,
	}
	for _, q := range all {
		if q.Status == entity.StatusDraft && d.LatestDraft == nil {
			d.LatestDraft = q
		}
		if q.Status == entity.StatusWon {
			d.WonTotal += pricing.GrandTotal(q.Items)
		}
	}
	if goal > 0 {
		d.GoalProgress = math.Min(d.WonTotal/goal*100, 100)
	}

	s.mu.Lock()
	d.Counts = s.countLocked()
	s.mu.Unlock()
	return d
}

// Totals computes the aggregates of a stored quote
func (s *quoteServiceImpl) Totals(ctx context.Context, id string) (pricing.Totals, error) {
	q, err := s.GetQuote(ctx, id)
	if err != nil {
		return pricing.Totals{}, err
	}
	return pricing.Summarize(q.Items), nil
}

func (s *quoteServiceImpl) countLocked() StatusCounts {
	c := StatusCounts{All: len(s.quotes)}
	for _, q := range s.quotes {
		switch q.Status {
		case entity.StatusDraft:
			c.Draft++
		case entity.StatusFinalized:
			c.Finalized++
		case entity.StatusWon:
			c.Won++
		case entity.StatusLost:
			c.Lost++
		}
	}
	return c
}

// flushIfOpen reconciles pending edits of the open quote before a store-side
// change to it. Must be called without mu held.
func (s *quoteServiceImpl) flushIfOpen(ctx context.Context, id string) {
	if !s.workspace.isCurrent(id) {
		return
	}
	if err := s.workspace.Flush(ctx); err != nil {
		s.logger.Error("Failed to save pending draft", "quote_id", id, "error", err)
	}
}

// indexOf must be called with mu held
func (s *quoteServiceImpl) indexOf(id string) int {
	for i, q := range s.quotes {
		if q.ID == id {
			return i
		}
	}
	return -1
}

// persist must be called with mu held; failures are logged only
func (s *quoteServiceImpl) persist(ctx context.Context) {
	if err := s.repo.Store(ctx, s.quotes); err != nil {
		s.logger.Error("Failed to persist quotes", "count", len(s.quotes), "error", err)
	}
}

func sortByIssueDateDesc(quotes []*entity.Quote) {
	sort.SliceStable(quotes, func(i, j int) bool {
		return quotes[i].IssuedAt().After(quotes[j].IssuedAt())
	})
}
