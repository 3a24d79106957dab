package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/mathtutor-backend/internal/http/response"
)

type HistoryHandler struct {
	workspaces WorkspaceSource
}

func NewHistoryHandler(workspaces WorkspaceSource) *HistoryHandler {
	return &HistoryHandler{workspaces: workspaces}
}

// GET /api/history
func (h *HistoryHandler) List(c *gin.Context) {
	w := workspaceFor(c, h.workspaces)
	if w == nil {
		return
	}
	response.RespondOK(c, gin.H{"items": w.History.List()})
}

// POST /api/history/:id/load
func (h *HistoryHandler) Load(c *gin.Context) {
	w := workspaceFor(c, h.workspaces)
	if w == nil {
		return
	}
	snap, err := w.LoadHistory(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.RespondAPIError(c, err, "history_load_failed")
		return
	}
	response.RespondOK(c, gin.H{"solve": snap})
}

// DELETE /api/history
func (h *HistoryHandler) Clear(c *gin.Context) {
	w := workspaceFor(c, h.workspaces)
	if w == nil {
		return
	}
	snap := w.ClearHistory(c.Request.Context())
	response.RespondOK(c, gin.H{"items": w.History.List(), "solve": snap})
}
