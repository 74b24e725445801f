package http

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/quotebook/internal/domain/entity"
	"github.com/garyjia/quotebook/internal/domain/tutorial"
)

// PreviewRequest opens or closes the print preview
type PreviewRequest struct {
	Open bool `json:"open"`
}

// EditingRequest toggles editor mode
type EditingRequest struct {
	Editing bool `json:"editing"`
}

// TabRequest switches the active view
type TabRequest struct {
	Tab tutorial.Tab `json:"tab" binding:"required"`
}

// DraftRequest is a free text description of the work to quote
type DraftRequest struct {
	Prompt string `json:"prompt"`
}

// PolishRequest carries an item description to rewrite
type PolishRequest struct {
	Description string `json:"description"`
}

// EventRequest names a tutorial event
type EventRequest struct {
	Event string `json:"event" binding:"required"`
}

var tabs = map[tutorial.Tab]bool{
	tutorial.TabDashboard: true,
	tutorial.TabQuotes:    true,
	tutorial.TabTemplates: true,
	tutorial.TabSettings:  true,
}

// GetWorkspace handles GET /api/v1/workspace
func (h *Handlers) GetWorkspace(c *gin.Context) {
	h.ok(c, h.workspace.State())
}

// UpdateDraft handles PUT /api/v1/workspace/draft. The draft is autosaved after a quiet period.
func (h *Handlers) UpdateDraft(c *gin.Context) {
	var q entity.Quote
	if err := c.ShouldBindJSON(&q); err != nil {
		h.badRequest(c, "invalid quote body", err)
		return
	}
	if err := h.workspace.UpdateDraft(&q); err != nil {
		h.fail(c, "update draft", err)
		return
	}
	h.ok(c, h.workspace.State())
}

// ApplyWorkspaceTemplate handles PUT /api/v1/workspace/template
func (h *Handlers) ApplyWorkspaceTemplate(c *gin.Context) {
	req, ok := h.bindTemplate(c)
	if !ok {
		return
	}
	if err := h.workspace.ApplyTemplate(req.TemplateID); err != nil {
		h.fail(c, "apply template", err)
		return
	}
	h.ok(c, h.workspace.State())
}

// SetPreview handles PUT /api/v1/workspace/preview
func (h *Handlers) SetPreview(c *gin.Context) {
	var req PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body", err)
		return
	}
	h.workspace.SetPreview(req.Open)
	h.ok(c, h.workspace.State())
}

// SetEditing handles PUT /api/v1/workspace/editing
func (h *Handlers) SetEditing(c *gin.Context) {
	var req EditingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body", err)
		return
	}
	h.workspace.SetEditing(req.Editing)
	h.ok(c, h.workspace.State())
}

// SetTab handles PUT /api/v1/workspace/tab
func (h *Handlers) SetTab(c *gin.Context) {
	var req TabRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body", err)
		return
	}
	if !tabs[req.Tab] {
		h.badRequest(c, "unknown tab", errors.New(string(req.Tab)))
		return
	}
	h.workspace.SetTab(req.Tab)
	h.ok(c, h.workspace.State())
}

// SaveCurrent handles POST /api/v1/workspace/save. ?close=true also closes the editor.
func (h *Handlers) SaveCurrent(c *gin.Context) {
	saved, err := h.quotes.SaveQuote(c.Request.Context(), h.workspace.Current(), c.Query("close") == "true")
	if err != nil {
		h.fail(c, "save current", err)
		return
	}
	h.ok(c, saved)
}

// CloseEditor handles POST /api/v1/workspace/close. Pending edits are flushed first.
func (h *Handlers) CloseEditor(c *gin.Context) {
	if err := h.workspace.Flush(c.Request.Context()); err != nil {
		h.fail(c, "flush", err)
		return
	}
	h.workspace.CloseEditor()
	h.ok(c, h.workspace.State())
}

// FlushWorkspace handles POST /api/v1/workspace/flush
func (h *Handlers) FlushWorkspace(c *gin.Context) {
	if err := h.workspace.Flush(c.Request.Context()); err != nil {
		h.fail(c, "flush", err)
		return
	}
	h.ok(c, h.workspace.State())
}

// DraftItems handles POST /api/v1/ai/items
func (h *Handlers) DraftItems(c *gin.Context) {
	var req DraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body", err)
		return
	}
	items, err := h.draft.DraftItems(c.Request.Context(), req.Prompt)
	if err != nil {
		h.fail(c, "draft items", err)
		return
	}
	h.ok(c, items)
}

// AppendDraftItems handles POST /api/v1/ai/items/append
func (h *Handlers) AppendDraftItems(c *gin.Context) {
	var req DraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body", err)
		return
	}
	q, err := h.draft.AppendToCurrent(c.Request.Context(), req.Prompt)
	if err != nil {
		h.fail(c, "append items", err)
		return
	}
	h.ok(c, q)
}

// PolishDescription handles POST /api/v1/ai/polish
func (h *Handlers) PolishDescription(c *gin.Context) {
	var req PolishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body", err)
		return
	}
	text, err := h.draft.PolishDescription(c.Request.Context(), req.Description)
	if err != nil {
		h.fail(c, "polish description", err)
		return
	}
	h.ok(c, gin.H{"description": text})
}

// GenerateTerms handles POST /api/v1/ai/terms
func (h *Handlers) GenerateTerms(c *gin.Context) {
	terms, err := h.draft.GenerateTerms(c.Request.Context())
	if err != nil {
		h.fail(c, "generate terms", err)
		return
	}
	h.ok(c, gin.H{"terms": terms})
}

// TutorialState handles GET /api/v1/tutorial
func (h *Handlers) TutorialState(c *gin.Context) {
	h.ok(c, h.tutorial.State(c.Request.Context()))
}

// StartTutorial handles POST /api/v1/tutorial/start
func (h *Handlers) StartTutorial(c *gin.Context) {
	h.ok(c, h.tutorial.Start(c.Request.Context()))
}

// StopTutorial handles POST /api/v1/tutorial/stop
func (h *Handlers) StopTutorial(c *gin.Context) {
	h.ok(c, h.tutorial.Stop(c.Request.Context()))
}

// ToggleTutorial handles POST /api/v1/tutorial/toggle
func (h *Handlers) ToggleTutorial(c *gin.Context) {
	h.ok(c, h.tutorial.Toggle(c.Request.Context()))
}

// DispatchTutorialEvent handles POST /api/v1/tutorial/events
func (h *Handlers) DispatchTutorialEvent(c *gin.Context) {
	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body", err)
		return
	}
	event, ok := tutorial.ParseEvent(req.Event)
	if !ok {
		h.badRequest(c, "unknown tutorial event", errors.New(req.Event))
		return
	}

	result, err := h.tutorial.Dispatch(c.Request.Context(), event)
	if err != nil {
		h.fail(c, "tutorial event", err)
		return
	}
	h.ok(c, result)
}
