package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/quotebook/internal/application/service"
)

// formatMailto is served as a JSON link instead of a download
const formatMailto = "mailto"

// MailtoResponse carries a mailto link
type MailtoResponse struct {
	Link string `json:"link"`
}

// sendArtifact writes a rendered document as an attachment
func sendArtifact(c *gin.Context, a *service.Artifact) {
	c.Header("Content-Disposition", `attachment; filename="`+a.Filename+`"`)
	c.Data(http.StatusOK, a.ContentType, a.Data)
}

// ExportQuote handles GET /api/v1/quotes/:id/export/:format
func (h *Handlers) ExportQuote(c *gin.Context) {
	if c.Param("format") == formatMailto {
		h.Mailto(c)
		return
	}

	artifact, err := h.export.Export(c.Request.Context(), c.Param("id"), c.Param("format"))
	if err != nil {
		h.fail(c, "export", err)
		return
	}
	sendArtifact(c, artifact)
}

// ExportCurrent handles GET /api/v1/workspace/export/:format and renders unsaved edits
func (h *Handlers) ExportCurrent(c *gin.Context) {
	artifact, err := h.export.ExportCurrent(c.Request.Context(), c.Param("format"))
	if err != nil {
		h.fail(c, "export current", err)
		return
	}
	sendArtifact(c, artifact)
}

// ExportLibrary handles GET /api/v1/export/library
func (h *Handlers) ExportLibrary(c *gin.Context) {
	artifact, err := h.export.ExportLibrary(c.Request.Context())
	if err != nil {
		h.fail(c, "export library", err)
		return
	}
	sendArtifact(c, artifact)
}

// ExportFormats handles GET /api/v1/export/formats
func (h *Handlers) ExportFormats(c *gin.Context) {
	h.ok(c, append(h.export.Formats(), formatMailto))
}

// Mailto handles GET /api/v1/quotes/:id/mailto
func (h *Handlers) Mailto(c *gin.Context) {
	link, err := h.export.Mailto(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, "mailto", err)
		return
	}
	h.ok(c, MailtoResponse{Link: link})
}
