package entity

// Language is a supported UI/document language
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageKorean  Language = "ko"
)

// IsValid returns true for supported languages
func (l Language) IsValid() bool {
	return l == LanguageEnglish || l == LanguageKorean
}

// TutorialLevel selects how much the guide explains
type TutorialLevel string

const (
	TutorialBasic TutorialLevel = "basic"
	TutorialPro   TutorialLevel = "pro"
)

// Defaults applied when settings are missing or unreadable
const (
	DefaultDocNumberPrefix = "QT-"
	DefaultNextDocNumber   = 1001
)

// CustomField is a free label/value pair printed on documents
type CustomField struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// AppSettings is the user's company profile, defaults and numbering state
type AppSettings struct {
	DefaultCurrency    string        `json:"defaultCurrency"`
	DefaultTaxRate     float64       `json:"defaultTaxRate"`
	DefaultTemplateID  TemplateID    `json:"defaultTemplateId"`
	Theme              ThemeConfig   `json:"theme"`
	CompanyName        string        `json:"companyName"`
	RepresentativeName string        `json:"representativeName"`
	CompanyAddress     string        `json:"companyAddress"`
	CompanyRegNo       string        `json:"companyRegNo"`
	CompanyEmail       string        `json:"companyEmail"`
	CompanyPhone       string        `json:"companyPhone"`
	BankInfo           string        `json:"bankInfo"`
	CompanyLogo        string        `json:"companyLogo,omitempty"`
	CompanySeal        string        `json:"companySeal,omitempty"`
	CompanyWebsite     string        `json:"companyWebsite,omitempty"`
	CompanySlogan      string        `json:"companySlogan,omitempty"`
	BusinessType       string        `json:"businessType,omitempty"`
	BusinessItem       string        `json:"businessItem,omitempty"`
	CustomFields       []CustomField `json:"customFields"`
	Language           Language      `json:"language"`
	HasSeenTutorial    bool          `json:"hasSeenTutorial,omitempty"`
	TutorialLevel      TutorialLevel `json:"tutorialLevel"`
	TutorialStep       int           `json:"tutorialStep"`
	MonthlyGoal        float64       `json:"monthlyGoal"`
	DefaultTerms       string        `json:"defaultTerms,omitempty"`
	DefaultFooterNotes string        `json:"defaultFooterNotes,omitempty"`
	DocNumberPrefix    string        `json:"docNumberPrefix"`
	NextDocNumber      int           `json:"nextDocNumber"`
}

// DefaultSettings returns the settings used on first run
func DefaultSettings() *AppSettings {
	theme, _ := ThemePreset(TemplateStandard)
	return &AppSettings{
		DefaultCurrency:    "USD",
		DefaultTaxRate:     8.875,
		DefaultTemplateID:  TemplateStandard,
		Theme:              theme,
		CompanyName:        "Acme Corp",
		RepresentativeName: "John Doe",
		CompanyAddress:     "New York, NY, USA",
		CompanyRegNo:       "12-3456789",
		CompanyEmail:       "contact@acmecorp.com",
		CompanyPhone:       "+1 (555) 123-4567",
		BankInfo:           "Chase Bank: 000-0000-0000",
		BusinessType:       "Service",
		BusinessItem:       "IT Consulting",
		CustomFields:       []CustomField{},
		Language:           LanguageEnglish,
		TutorialLevel:      TutorialBasic,
		MonthlyGoal:        50000,
		DocNumberPrefix:    DefaultDocNumberPrefix,
		NextDocNumber:      DefaultNextDocNumber,
	}
}

// Normalize repairs fields that older or hand-edited blobs may lack
func (s *AppSettings) Normalize() {
	if !s.Language.IsValid() {
		s.Language = LanguageEnglish
	}
	if s.DocNumberPrefix == "" {
		s.DocNumberPrefix = DefaultDocNumberPrefix
	}
	if s.NextDocNumber == 0 {
		s.NextDocNumber = DefaultNextDocNumber
	}
	if s.CustomFields == nil {
		s.CustomFields = []CustomField{}
	}
	if s.TutorialLevel == "" {
		s.TutorialLevel = TutorialBasic
	}
}
