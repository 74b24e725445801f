package openai

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"text/template"

	"gopkg.in/yaml.v3"

	"github.com/garyjia/quotebook/internal/domain/entity"
)

//go:embed prompts.yaml
var defaultPrompts []byte

// Prompt is one chat completion recipe
type Prompt struct {
	Temperature  float32 `yaml:"temperature"`
	MaxTokens    int     `yaml:"max_tokens"`
	System       string  `yaml:"system"`
	UserTemplate string  `yaml:"user_template"`
	// Templates holds per-language user templates, keyed by language code
	Templates map[string]string `yaml:"templates"`
}

// PromptConfig holds all prompts and model parameters used by the drafter
type PromptConfig struct {
	DraftItems        Prompt `yaml:"draft_items"`
	PolishDescription Prompt `yaml:"polish_description"`
	GenerateTerms     Prompt `yaml:"generate_terms"`
}

// DefaultPrompts returns the prompts compiled into the binary
func DefaultPrompts() *PromptConfig {
	prompts, err := parsePrompts(defaultPrompts)
	if err != nil {
		panic(fmt.Sprintf("embedded prompts are invalid: %v", err))
	}
	return prompts
}

// LoadPrompts loads prompt configuration from a YAML file. An empty path
// returns the built-in prompts. Sections missing from the file keep their
// built-in values.
func LoadPrompts(promptsPath string) (*PromptConfig, error) {
	if promptsPath == "" {
		return DefaultPrompts(), nil
	}

	data, err := os.ReadFile(promptsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompts file: %w", err)
	}

	prompts := DefaultPrompts()
	if err := yaml.Unmarshal(data, prompts); err != nil {
		return nil, fmt.Errorf("failed to unmarshal prompts: %w", err)
	}
	return prompts, nil
}

func parsePrompts(data []byte) (*PromptConfig, error) {
	var prompts PromptConfig
	if err := yaml.Unmarshal(data, &prompts); err != nil {
		return nil, fmt.Errorf("failed to unmarshal prompts: %w", err)
	}
	return &prompts, nil
}

// forLanguage picks the template of a language, falling back to English
// and then to UserTemplate
func (p Prompt) forLanguage(lang entity.Language) string {
	if t, ok := p.Templates[string(lang)]; ok && t != "" {
		return t
	}
	if t, ok := p.Templates[string(entity.LanguageEnglish)]; ok && t != "" {
		return t
	}
	return p.UserTemplate
}

// renderTemplate renders a template with provided data
func renderTemplate(templateStr string, data interface{}) (string, error) {
	tmpl, err := template.New("prompt").Parse(templateStr)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}
