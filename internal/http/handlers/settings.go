package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/mathtutor-backend/internal/domain"
	"github.com/yungbote/mathtutor-backend/internal/http/response"
)

type SettingsHandler struct {
	workspaces WorkspaceSource
}

func NewSettingsHandler(workspaces WorkspaceSource) *SettingsHandler {
	return &SettingsHandler{workspaces: workspaces}
}

// GET /api/settings
func (h *SettingsHandler) Get(c *gin.Context) {
	w := workspaceFor(c, h.workspaces)
	if w == nil {
		return
	}
	response.RespondOK(c, gin.H{"settings": w.Settings.Get(), "fonts": domain.FontOptions})
}

// PUT /api/settings
// body: { "language": "en" | "ar", "font": "inter" | "lora" | "inconsolata" }
func (h *SettingsHandler) Update(c *gin.Context) {
	var req struct {
		Language *string `json:"language"`
		Font     *string `json:"font"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	w := workspaceFor(c, h.workspaces)
	if w == nil {
		return
	}
	ctx := c.Request.Context()
	if req.Language != nil {
		if _, err := w.SetLanguage(ctx, *req.Language); err != nil {
			response.RespondAPIError(c, err, "settings_update_failed")
			return
		}
	}
	if req.Font != nil {
		if _, err := w.SetFont(ctx, *req.Font); err != nil {
			response.RespondAPIError(c, err, "settings_update_failed")
			return
		}
	}
	response.RespondOK(c, gin.H{"settings": w.Settings.Get()})
}
