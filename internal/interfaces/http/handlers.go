package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/quotebook/internal/application/port"
	"github.com/garyjia/quotebook/internal/application/service"
	"github.com/garyjia/quotebook/internal/domain/entity"
	"github.com/garyjia/quotebook/internal/domain/workflow"
)

// Version is reported by the health check
const Version = "1.0.0"

// Handlers contains all HTTP request handlers
type Handlers struct {
	settings  service.SettingsService
	quotes    service.QuoteService
	tutorial  service.TutorialService
	export    service.ExportService
	draft     service.DraftService
	workspace *service.Workspace
	health    HealthReporter
	logger    Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(services Services, logger Logger) *Handlers {
	return &Handlers{
		settings:  services.Settings,
		quotes:    services.Quotes,
		tutorial:  services.Tutorial,
		export:    services.Export,
		draft:     services.Draft,
		workspace: services.Workspace,
		health:    services.Health,
		logger:    logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status     string      `json:"status"`
	Timestamp  string      `json:"timestamp"`
	Version    string      `json:"version"`
	Components interface{} `json:"components,omitempty"`
}

// CreateQuoteRequest selects the template of a new quote
type CreateQuoteRequest struct {
	TemplateID entity.TemplateID `json:"templateId"`
}

// StatusRequest selects a lifecycle status
type StatusRequest struct {
	Status entity.QuoteStatus `json:"status" binding:"required"`
}

// TemplateRequest selects a template preset
type TemplateRequest struct {
	TemplateID entity.TemplateID `json:"templateId" binding:"required"`
}

// ListQuotesRequest represents query parameters for listing quotes
type ListQuotesRequest struct {
	Search string `form:"search"`
	Status string `form:"status"`
}

// ok writes a success envelope
func (h *Handlers) ok(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

// badRequest writes a 400 envelope for input the handler rejects itself
func (h *Handlers) badRequest(c *gin.Context, message string, err error) {
	h.logger.Error("Invalid request", "path", c.FullPath(), "error", err)
	c.JSON(http.StatusBadRequest, Response{Success: false, Error: message})
}

// fail maps a service error to a status code and writes the error envelope
func (h *Handlers) fail(c *gin.Context, action string, err error) {
	status := statusFor(err)
	h.logger.Error("Request failed", "action", action, "status", status, "error", err)
	c.JSON(status, Response{Success: false, Error: action + ": " + err.Error()})
}

// statusFor maps sentinel errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, entity.ErrQuoteNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrDeleteNotConfirmed),
		errors.Is(err, service.ErrNoCurrentQuote):
		return http.StatusConflict
	case errors.Is(err, entity.ErrInvalidStatus),
		errors.Is(err, entity.ErrInvalidLanguage),
		errors.Is(err, entity.ErrDocNumberRegression),
		errors.Is(err, workflow.ErrInvalidTransition),
		errors.Is(err, workflow.ErrGuardFailed),
		errors.Is(err, service.ErrEmptyPrompt),
		errors.Is(err, service.ErrUnknownFormat):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrDraftingDisabled):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   Version,
	}

	if h.health != nil {
		healthy, detail := h.health(c.Request.Context())
		response.Components = detail
		if !healthy {
			response.Status = "unhealthy"
			c.JSON(http.StatusServiceUnavailable, Response{
				Success: false,
				Data:    response,
				Error:   "one or more components are unhealthy",
			})
			return
		}
	}

	h.ok(c, response)
}

// ListQuotes handles GET /api/v1/quotes
func (h *Handlers) ListQuotes(c *gin.Context) {
	var req ListQuotesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.badRequest(c, "invalid query parameters", err)
		return
	}

	filter := service.QuoteFilter{Search: req.Search}
	if req.Status != "" {
		status := entity.QuoteStatus(req.Status)
		if !status.IsValid() {
			h.badRequest(c, "invalid status filter", entity.ErrInvalidStatus)
			return
		}
		filter.Status = status
	}

	h.ok(c, h.quotes.ListQuotes(c.Request.Context(), filter))
}

// CreateQuote handles POST /api/v1/quotes
func (h *Handlers) CreateQuote(c *gin.Context) {
	var req CreateQuoteRequest
	// An empty body selects the default template
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.badRequest(c, "invalid request body", err)
			return
		}
	}
	if req.TemplateID == "" {
		req.TemplateID = h.settings.Get(c.Request.Context()).DefaultTemplateID
	}

	q, err := h.quotes.CreateQuote(c.Request.Context(), req.TemplateID)
	if err != nil {
		h.fail(c, "create quote", err)
		return
	}
	c.JSON(http.StatusCreated, Response{Success: true, Data: q})
}

// GetQuote handles GET /api/v1/quotes/:id
func (h *Handlers) GetQuote(c *gin.Context) {
	q, err := h.quotes.GetQuote(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, "get quote", err)
		return
	}
	h.ok(c, q)
}

// SaveQuote handles PUT /api/v1/quotes/:id. ?close=true also closes the editor.
func (h *Handlers) SaveQuote(c *gin.Context) {
	var q entity.Quote
	if err := c.ShouldBindJSON(&q); err != nil {
		h.badRequest(c, "invalid quote body", err)
		return
	}
	q.ID = c.Param("id")

	saved, err := h.quotes.SaveQuote(c.Request.Context(), &q, c.Query("close") == "true")
	if err != nil {
		h.fail(c, "save quote", err)
		return
	}
	h.ok(c, saved)
}

// DeleteQuote handles DELETE /api/v1/quotes/:id. Only ?confirm=true deletes.
func (h *Handlers) DeleteQuote(c *gin.Context) {
	confirmed := c.Query("confirm") == "true"
	confirmer := port.ConfirmFunc(func(context.Context, string) bool {
		return confirmed
	})

	id := c.Param("id")
	if err := h.quotes.DeleteQuote(c.Request.Context(), id, confirmer); err != nil {
		h.fail(c, "delete quote", err)
		return
	}
	h.ok(c, gin.H{"id": id})
}

// EditQuote handles POST /api/v1/quotes/:id/edit
func (h *Handlers) EditQuote(c *gin.Context) {
	q, err := h.quotes.EditQuote(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, "edit quote", err)
		return
	}
	h.ok(c, q)
}

// DuplicateQuote handles POST /api/v1/quotes/:id/duplicate
func (h *Handlers) DuplicateQuote(c *gin.Context) {
	q, err := h.quotes.DuplicateQuote(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, "duplicate quote", err)
		return
	}
	c.JSON(http.StatusCreated, Response{Success: true, Data: q})
}

// UpdateQuoteStatus handles PUT /api/v1/quotes/:id/status
func (h *Handlers) UpdateQuoteStatus(c *gin.Context) {
	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body", err)
		return
	}

	q, err := h.quotes.UpdateQuoteStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		h.fail(c, "update status", err)
		return
	}
	h.ok(c, q)
}

// ApplyTemplate handles PUT /api/v1/quotes/:id/template
func (h *Handlers) ApplyTemplate(c *gin.Context) {
	req, ok := h.bindTemplate(c)
	if !ok {
		return
	}

	q, err := h.quotes.ApplyTemplate(c.Request.Context(), c.Param("id"), req.TemplateID)
	if err != nil {
		h.fail(c, "apply template", err)
		return
	}
	h.ok(c, q)
}

// bindTemplate reads a TemplateRequest and rejects ids without a preset
func (h *Handlers) bindTemplate(c *gin.Context) (TemplateRequest, bool) {
	var req TemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body", err)
		return req, false
	}
	if _, ok := entity.ThemePreset(req.TemplateID); !ok {
		h.badRequest(c, "unknown template", errors.New(string(req.TemplateID)))
		return req, false
	}
	return req, true
}

// QuoteTotals handles GET /api/v1/quotes/:id/totals
func (h *Handlers) QuoteTotals(c *gin.Context) {
	totals, err := h.quotes.Totals(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, "totals", err)
		return
	}
	h.ok(c, totals)
}

// StatusCounts handles GET /api/v1/quotes/counts
func (h *Handlers) StatusCounts(c *gin.Context) {
	h.ok(c, h.quotes.StatusCounts(c.Request.Context()))
}

// Dashboard handles GET /api/v1/dashboard
func (h *Handlers) Dashboard(c *gin.Context) {
	h.ok(c, h.quotes.Dashboard(c.Request.Context()))
}

// ListTemplates handles GET /api/v1/templates
func (h *Handlers) ListTemplates(c *gin.Context) {
	type template struct {
		ID    entity.TemplateID  `json:"id"`
		Theme entity.ThemeConfig `json:"theme"`
	}
	ids := entity.TemplateIDs()
	out := make([]template, 0, len(ids))
	for _, id := range ids {
		theme, _ := entity.ThemePreset(id)
		out = append(out, template{ID: id, Theme: theme})
	}
	h.ok(c, out)
}
