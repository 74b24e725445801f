// Package openai implements port.Drafter on the OpenAI chat completion API
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/garyjia/quotebook/internal/application/port"
	"github.com/garyjia/quotebook/internal/domain/entity"
)

// Defaults applied to drafted items when the model leaves a field at zero
const (
	DefaultDraftQuantity = 1
	DefaultDraftTaxRate  = 10
)

// ErrEmptyResponse is returned when the API answers without choices
var ErrEmptyResponse = errors.New("no response from OpenAI")

// Config selects the model and endpoint
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Drafter implements port.Drafter using OpenAI
type Drafter struct {
	client  *openai.Client
	model   string
	prompts *PromptConfig
	logger  *zap.Logger
}

// NewDrafter creates a drafter. A nil prompt config uses the built-in prompts.
func NewDrafter(cfg Config, prompts *PromptConfig, logger *zap.Logger) *Drafter {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	if cfg.Timeout > 0 {
		clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	if prompts == nil {
		prompts = DefaultPrompts()
	}
	model := cfg.Model
	if model == "" {
		model = openai.GPT4oMini
	}
	return &Drafter{
		client:  openai.NewClientWithConfig(clientCfg),
		model:   model,
		prompts: prompts,
		logger:  logger,
	}
}

type draftedItem struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	TaxRate     float64 `json:"taxRate"`
	Discount    float64 `json:"discount"`
}

type draftResponse struct {
	Items []draftedItem `json:"items"`
}

// DraftItems asks the model for line items in JSON mode. Zero quantities
// and tax rates are replaced by the defaults; ids are left to the caller.
func (d *Drafter) DraftItems(ctx context.Context, req port.DraftRequest) ([]entity.LineItem, error) {
	d.logger.Debug("Drafting line items",
		zap.String("currency", req.Currency),
		zap.Int("prompt_length", len(req.Prompt)))

	p := d.prompts.DraftItems
	userPrompt, err := renderTemplate(p.UserTemplate, req)
	if err != nil {
		return nil, err
	}

	content, err := d.complete(ctx, p, userPrompt, true)
	if err != nil {
		return nil, err
	}

	var parsed draftResponse
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		// Fallback: try to extract JSON from markdown code blocks
		jsonStr := extractJSON(content)
		if jsonStr == "" || json.Unmarshal([]byte(jsonStr), &parsed) != nil {
			d.logger.Error("Failed to parse OpenAI response",
				zap.Error(err),
				zap.String("content", content))
			return nil, fmt.Errorf("failed to parse response: %w", err)
		}
	}

	items := make([]entity.LineItem, 0, len(parsed.Items))
	for _, it := range parsed.Items {
		if strings.TrimSpace(it.Description) == "" {
			continue
		}
		item := entity.LineItem{
			Description:  strings.TrimSpace(it.Description),
			Quantity:     it.Quantity,
			UnitPrice:    it.UnitPrice,
			TaxRate:      it.TaxRate,
			Discount:     it.Discount,
			DiscountType: entity.DiscountAmount,
		}
		if item.Quantity == 0 {
			item.Quantity = DefaultDraftQuantity
		}
		if item.TaxRate == 0 {
			item.TaxRate = DefaultDraftTaxRate
		}
		items = append(items, item)
	}

	d.logger.Info("Line items drafted", zap.Int("count", len(items)))
	return items, nil
}

type textPrompt struct {
	Text string
}

// PolishDescription rewrites one description in a business register
func (d *Drafter) PolishDescription(ctx context.Context, description string, lang entity.Language) (string, error) {
	return d.rewrite(ctx, d.prompts.PolishDescription, description, lang)
}

// GenerateTerms writes about five bullet points of standard terms
func (d *Drafter) GenerateTerms(ctx context.Context, businessType string, lang entity.Language) (string, error) {
	return d.rewrite(ctx, d.prompts.GenerateTerms, businessType, lang)
}

func (d *Drafter) rewrite(ctx context.Context, p Prompt, text string, lang entity.Language) (string, error) {
	userPrompt, err := renderTemplate(p.forLanguage(lang), textPrompt{Text: text})
	if err != nil {
		return "", err
	}
	content, err := d.complete(ctx, p, userPrompt, false)
	if err != nil {
		return "", err
	}
	return strings.Trim(strings.TrimSpace(content), `"`), nil
}

func (d *Drafter) complete(ctx context.Context, p Prompt, userPrompt string, jsonMode bool) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       d.model,
		Temperature: p.Temperature,
		MaxTokens:   p.MaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: p.System,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: userPrompt,
			},
		},
	}
	if jsonMode {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := d.client.CreateChatCompletion(ctx, req)
	if err != nil {
		d.logger.Error("OpenAI API call failed", zap.Error(err))
		return "", fmt.Errorf("OpenAI API call failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}

// extractJSON extracts the first balanced JSON object from a reply that
// wraps it in prose or markdown fences
func extractJSON(content string) string {
	start := strings.IndexByte(content, '{')
	if start < 0 {
		return ""
	}
	end := findJSONEnd(content, start)
	if end <= start {
		return ""
	}
	return content[start:end]
}

// findJSONEnd finds the end of JSON content starting at a given position
func findJSONEnd(content string, start int) int {
	braceCount := 0
	inString := false
	escapeNext := false

	for i := start; i < len(content); i++ {
		char := content[i]

		if escapeNext {
			escapeNext = false
			continue
		}
		if char == '\\' {
			escapeNext = true
			continue
		}
		if char == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}

		switch char {
		case '{':
			braceCount++
		case '}':
			braceCount--
			if braceCount == 0 {
				return i + 1
			}
		}
	}

	return -1
}
