package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/tiendc/go-deepcopy"

	"github.com/garyjia/quotebook/internal/application/port"
	"github.com/garyjia/quotebook/internal/domain/entity"
)

// CompanyProfile is the issuer identity printed on documents
type CompanyProfile struct {
	Name           string `json:"companyName"`
	Representative string `json:"representativeName"`
	Address        string `json:"companyAddress"`
	RegNo          string `json:"companyRegNo"`
	Email          string `json:"companyEmail"`
	Phone          string `json:"companyPhone"`
	BankInfo       string `json:"bankInfo"`
	Website        string `json:"companyWebsite"`
	Slogan         string `json:"companySlogan"`
	BusinessType   string `json:"businessType"`
	BusinessItem   string `json:"businessItem"`
}

// DocumentDefaults seed every new quote
type DocumentDefaults struct {
	Currency    string            `json:"defaultCurrency"`
	TaxRate     float64           `json:"defaultTaxRate"`
	TemplateID  entity.TemplateID `json:"defaultTemplateId"`
	Terms       string            `json:"defaultTerms"`
	FooterNotes string            `json:"defaultFooterNotes"`
}

// Branding holds the logo and seal images as data URLs. Empty clears an image.
type Branding struct {
	Logo string `json:"companyLogo"`
	Seal string `json:"companySeal"`
}

// SettingsService owns the settings record and the document counter
type SettingsService interface {
	Get(ctx context.Context) *entity.AppSettings
	UpdateCompany(ctx context.Context, profile CompanyProfile) *entity.AppSettings
	UpdateDefaults(ctx context.Context, defaults DocumentDefaults) *entity.AppSettings
	UpdateTheme(ctx context.Context, theme entity.ThemeConfig) *entity.AppSettings
	SetLanguage(ctx context.Context, lang entity.Language) (*entity.AppSettings, error)
	SetNumbering(ctx context.Context, prefix string, next int) (*entity.AppSettings, error)
	SetBranding(ctx context.Context, branding Branding) *entity.AppSettings
	SetCustomFields(ctx context.Context, fields []entity.CustomField) *entity.AppSettings
	SetMonthlyGoal(ctx context.Context, goal float64) *entity.AppSettings
	SetTutorialLevel(ctx context.Context, level entity.TutorialLevel) *entity.AppSettings
	SetTutorialStep(ctx context.Context, step int)
	MarkTutorialSeen(ctx context.Context)

	// ConsumeDocNumber returns the next document number and advances the
	// counter by exactly one
	ConsumeDocNumber(ctx context.Context) string
}

type settingsServiceImpl struct {
	mu       sync.Mutex
	repo     port.SettingsRepository
	settings *entity.AppSettings
	logger   Logger
}

// NewSettingsService creates a SettingsService seeded from the repository
func NewSettingsService(ctx context.Context, repo port.SettingsRepository, logger Logger) SettingsService {
	settings := repo.Load(ctx)
	if settings == nil {
		settings = entity.DefaultSettings()
	}
	settings.Normalize()

	return &settingsServiceImpl{
		repo:     repo,
		settings: settings,
		logger:   logger,
	}
}

// Get returns a copy of the current settings
func (s *settingsServiceImpl) Get(ctx context.Context) *entity.AppSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (s *settingsServiceImpl) UpdateCompany(ctx context.Context, p CompanyProfile) *entity.AppSettings {
	return s.mutate(ctx, func(st *entity.AppSettings) {
		st.CompanyName = p.Name
		st.RepresentativeName = p.Representative
		st.CompanyAddress = p.Address
		st.CompanyRegNo = p.RegNo
		st.CompanyEmail = p.Email
		st.CompanyPhone = p.Phone
		st.BankInfo = p.BankInfo
		st.CompanyWebsite = p.Website
		st.CompanySlogan = p.Slogan
		st.BusinessType = p.BusinessType
		st.BusinessItem = p.BusinessItem
	})
}

func (s *settingsServiceImpl) UpdateDefaults(ctx context.Context, d DocumentDefaults) *entity.AppSettings {
	return s.mutate(ctx, func(st *entity.AppSettings) {
		st.DefaultCurrency = d.Currency
		st.DefaultTaxRate = d.TaxRate
		if d.TemplateID != "" {
			st.DefaultTemplateID = d.TemplateID
		}
		st.DefaultTerms = d.Terms
		st.DefaultFooterNotes = d.FooterNotes
	})
}

func (s *settingsServiceImpl) UpdateTheme(ctx context.Context, theme entity.ThemeConfig) *entity.AppSettings {
	return s.mutate(ctx, func(st *entity.AppSettings) {
		st.Theme = theme
	})
}

// SetLanguage switches the UI and document language
func (s *settingsServiceImpl) SetLanguage(ctx context.Context, lang entity.Language) (*entity.AppSettings, error) {
	if !lang.IsValid() {
		return nil, fmt.Errorf("%w: %q", entity.ErrInvalidLanguage, lang)
	}
	return s.mutate(ctx, func(st *entity.AppSettings) {
		st.Language = lang
	}), nil
}

// SetNumbering changes the prefix and the next number. The counter may jump
// forward but never back, so issued numbers are never handed out twice.
func (s *settingsServiceImpl) SetNumbering(ctx context.Context, prefix string, next int) (*entity.AppSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if next < s.settings.NextDocNumber {
		return nil, fmt.Errorf("%w: %d < %d", entity.ErrDocNumberRegression, next, s.settings.NextDocNumber)
	}
	if prefix == "" {
		prefix = entity.DefaultDocNumberPrefix
	}
	s.settings.DocNumberPrefix = prefix
	s.settings.NextDocNumber = next
	s.persist(ctx)

	s.logger.Info("Document numbering updated", "prefix", prefix, "next", next)
	return s.snapshot(), nil
}

func (s *settingsServiceImpl) SetBranding(ctx context.Context, b Branding) *entity.AppSettings {
	return s.mutate(ctx, func(st *entity.AppSettings) {
		st.CompanyLogo = b.Logo
		st.CompanySeal = b.Seal
	})
}

func (s *settingsServiceImpl) SetCustomFields(ctx context.Context, fields []entity.CustomField) *entity.AppSettings {
	if fields == nil {
		fields = []entity.CustomField{}
	}
	return s.mutate(ctx, func(st *entity.AppSettings) {
		st.CustomFields = append([]entity.CustomField(nil), fields...)
	})
}

func (s *settingsServiceImpl) SetMonthlyGoal(ctx context.Context, goal float64) *entity.AppSettings {
	return s.mutate(ctx, func(st *entity.AppSettings) {
		st.MonthlyGoal = goal
	})
}

func (s *settingsServiceImpl) SetTutorialLevel(ctx context.Context, level entity.TutorialLevel) *entity.AppSettings {
	return s.mutate(ctx, func(st *entity.AppSettings) {
		st.TutorialLevel = level
	})
}

func (s *settingsServiceImpl) SetTutorialStep(ctx context.Context, step int) {
	s.mutate(ctx, func(st *entity.AppSettings) {
		st.TutorialStep = step
	})
}

func (s *settingsServiceImpl) MarkTutorialSeen(ctx context.Context) {
	s.mutate(ctx, func(st *entity.AppSettings) {
		st.HasSeenTutorial = true
	})
}

// ConsumeDocNumber formats the current counter and advances it
func (s *settingsServiceImpl) ConsumeDocNumber(ctx context.Context) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	prefix := s.settings.DocNumberPrefix
	if prefix == "" {
		prefix = entity.DefaultDocNumberPrefix
	}
	next := s.settings.NextDocNumber
	if next == 0 {
		next = entity.DefaultNextDocNumber
	}

	number := entity.FormatDocNumber(prefix, next)
	s.settings.NextDocNumber = next + 1
	s.persist(ctx)
	return number
}

func (s *settingsServiceImpl) mutate(ctx context.Context, fn func(*entity.AppSettings)) *entity.AppSettings {
	s.mu.Lock()
	defer s.mu.Unlock()

	fn(s.settings)
	s.persist(ctx)
	return s.snapshot()
}

// persist writes the record; failures are logged and the in-memory copy stays authoritative
func (s *settingsServiceImpl) persist(ctx context.Context) {
	if err := s.repo.Store(ctx, s.settings); err != nil {
		s.logger.Error("Failed to persist settings", "error", err)
	}
}

func (s *settingsServiceImpl) snapshot() *entity.AppSettings {
	cp := &entity.AppSettings{}
	if err := deepcopy.Copy(cp, s.settings); err != nil {
		s.logger.Error("Failed to copy settings", "error", err)
		*cp = *s.settings
		cp.CustomFields = append([]entity.CustomField(nil), s.settings.CustomFields...)
	}
	return cp
}
