package http

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/quotebook/internal/application/service"
	"github.com/garyjia/quotebook/internal/domain/entity"
)

// LanguageRequest selects the UI and document language
type LanguageRequest struct {
	Language entity.Language `json:"language" binding:"required"`
}

// NumberingRequest sets the document number prefix and counter
type NumberingRequest struct {
	Prefix        string `json:"docNumberPrefix"`
	NextDocNumber int    `json:"nextDocNumber" binding:"required"`
}

// MonthlyGoalRequest sets the revenue goal shown on the dashboard
type MonthlyGoalRequest struct {
	Goal float64 `json:"monthlyGoal"`
}

// TutorialLevelRequest selects how much the guide explains
type TutorialLevelRequest struct {
	Level entity.TutorialLevel `json:"tutorialLevel" binding:"required"`
}

// GetSettings handles GET /api/v1/settings
func (h *Handlers) GetSettings(c *gin.Context) {
	h.ok(c, h.settings.Get(c.Request.Context()))
}

// UpdateCompany handles PUT /api/v1/settings/company
func (h *Handlers) UpdateCompany(c *gin.Context) {
	var req service.CompanyProfile
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body", err)
		return
	}
	h.ok(c, h.settings.UpdateCompany(c.Request.Context(), req))
}

// UpdateDefaults handles PUT /api/v1/settings/defaults
func (h *Handlers) UpdateDefaults(c *gin.Context) {
	var req service.DocumentDefaults
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body", err)
		return
	}
	h.ok(c, h.settings.UpdateDefaults(c.Request.Context(), req))
}

// UpdateTheme handles PUT /api/v1/settings/theme
func (h *Handlers) UpdateTheme(c *gin.Context) {
	var req entity.ThemeConfig
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body", err)
		return
	}
	h.ok(c, h.settings.UpdateTheme(c.Request.Context(), req))
}

// SetLanguage handles PUT /api/v1/settings/language
func (h *Handlers) SetLanguage(c *gin.Context) {
	var req LanguageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body", err)
		return
	}
	settings, err := h.settings.SetLanguage(c.Request.Context(), req.Language)
	if err != nil {
		h.fail(c, "set language", err)
		return
	}
	h.ok(c, settings)
}

// SetNumbering handles PUT /api/v1/settings/numbering
func (h *Handlers) SetNumbering(c *gin.Context) {
	var req NumberingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body", err)
		return
	}
	settings, err := h.settings.SetNumbering(c.Request.Context(), req.Prefix, req.NextDocNumber)
	if err != nil {
		h.fail(c, "set numbering", err)
		return
	}
	h.ok(c, settings)
}

// SetBranding handles PUT /api/v1/settings/branding
func (h *Handlers) SetBranding(c *gin.Context) {
	var req service.Branding
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body", err)
		return
	}
	h.ok(c, h.settings.SetBranding(c.Request.Context(), req))
}

// SetCustomFields handles PUT /api/v1/settings/custom-fields
func (h *Handlers) SetCustomFields(c *gin.Context) {
	var req []entity.CustomField
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body", err)
		return
	}
	h.ok(c, h.settings.SetCustomFields(c.Request.Context(), req))
}

// SetMonthlyGoal handles PUT /api/v1/settings/monthly-goal
func (h *Handlers) SetMonthlyGoal(c *gin.Context) {
	var req MonthlyGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body", err)
		return
	}
	h.ok(c, h.settings.SetMonthlyGoal(c.Request.Context(), req.Goal))
}

// SetTutorialLevel handles PUT /api/v1/settings/tutorial-level
func (h *Handlers) SetTutorialLevel(c *gin.Context) {
	var req TutorialLevelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body", err)
		return
	}
	if req.Level != entity.TutorialBasic && req.Level != entity.TutorialPro {
		h.badRequest(c, "unknown tutorial level", errors.New(string(req.Level)))
		return
	}
	h.ok(c, h.settings.SetTutorialLevel(c.Request.Context(), req.Level))
}
