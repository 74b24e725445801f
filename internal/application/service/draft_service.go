package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/garyjia/quotebook/internal/application/port"
	"github.com/garyjia/quotebook/internal/domain/entity"
)

const defaultBusinessType = "general services"

// DraftService turns a free text request into line items
type DraftService interface {
	Enabled() bool
	DraftItems(ctx context.Context, prompt string) ([]entity.LineItem, error)
	// PolishDescription rewrites an item description; on failure the input is returned
	PolishDescription(ctx context.Context, description string) (string, error)
	// GenerateTerms writes terms for the configured business type in the settings language
	GenerateTerms(ctx context.Context) (string, error)
	// AppendToCurrent drafts items and appends them to the quote open in the editor
	AppendToCurrent(ctx context.Context, prompt string) (*entity.Quote, error)
}

type draftServiceImpl struct {
	drafter   port.Drafter
	settings  SettingsService
	workspace *Workspace
	logger    Logger
}

// NewDraftService creates a DraftService. A nil drafter disables drafting.
func NewDraftService(drafter port.Drafter, settings SettingsService, workspace *Workspace, logger Logger) DraftService {
	return &draftServiceImpl{
		drafter:   drafter,
		settings:  settings,
		workspace: workspace,
		logger:    logger,
	}
}

func (s *draftServiceImpl) Enabled() bool {
	return s.drafter != nil
}

// DraftItems asks the drafter for items. Returned items get fresh ids.
func (s *draftServiceImpl) DraftItems(ctx context.Context, prompt string) ([]entity.LineItem, error) {
	if s.drafter == nil {
		return nil, ErrDraftingDisabled
	}
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, ErrEmptyPrompt
	}

	settings := s.settings.Get(ctx)
	items, err := s.drafter.DraftItems(ctx, port.DraftRequest{Prompt: prompt, Currency: settings.DefaultCurrency})
	if err != nil {
		s.logger.Error("Drafting failed", "error", err)
		return nil, fmt.Errorf("draft items: %w", err)
	}

	for i := range items {
		items[i].ID = uuid.NewString()
		if items[i].DiscountType == "" {
			items[i].DiscountType = entity.DiscountAmount
		}
	}
	s.logger.Info("Items drafted", "count", len(items))
	return items, nil
}

func (s *draftServiceImpl) PolishDescription(ctx context.Context, description string) (string, error) {
	if s.drafter == nil {
		return description, ErrDraftingDisabled
	}
	if strings.TrimSpace(description) == "" {
		return description, ErrEmptyPrompt
	}

	lang := s.settings.Get(ctx).Language
	polished, err := s.drafter.PolishDescription(ctx, description, lang)
	if err != nil || strings.TrimSpace(polished) == "" {
		s.logger.Error("Polishing failed", "error", err)
		return description, nil
	}
	return strings.TrimSpace(polished), nil
}

func (s *draftServiceImpl) GenerateTerms(ctx context.Context) (string, error) {
	if s.drafter == nil {
		return "", ErrDraftingDisabled
	}
	settings := s.settings.Get(ctx)
	business := strings.TrimSpace(settings.BusinessType)
	if business == "" {
		business = defaultBusinessType
	}

	terms, err := s.drafter.GenerateTerms(ctx, business, settings.Language)
	if err != nil {
		s.logger.Error("Terms generation failed", "business_type", business, "error", err)
		return "", fmt.Errorf("generate terms: %w", err)
	}
	return strings.TrimSpace(terms), nil
}

func (s *draftServiceImpl) AppendToCurrent(ctx context.Context, prompt string) (*entity.Quote, error) {
	current := s.workspace.Current()
	if current == nil {
		return nil, ErrNoCurrentQuote
	}
	items, err := s.DraftItems(ctx, prompt)
	if err != nil {
		return nil, err
	}
	current.Items = append(current.Items, items...)
	if err := s.workspace.UpdateDraft(current); err != nil {
		return nil, err
	}
	return current, nil
}
