package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/mathtutor-backend/internal/http/response"
)

type StateHandler struct {
	workspaces WorkspaceSource
}

func NewStateHandler(workspaces WorkspaceSource) *StateHandler {
	return &StateHandler{workspaces: workspaces}
}

// GET /api/state
func (h *StateHandler) Get(c *gin.Context) {
	w := workspaceFor(c, h.workspaces)
	if w == nil {
		return
	}
	response.RespondOK(c, w.State())
}

// POST /api/bootstrap
// body: { "location": "https://host/path#data=..." }
func (h *StateHandler) Bootstrap(c *gin.Context) {
	var req struct {
		Location string `json:"location"`
	}
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
			return
		}
	}
	w := workspaceFor(c, h.workspaces)
	if w == nil {
		return
	}
	response.RespondOK(c, w.Bootstrap(c.Request.Context(), req.Location))
}

// GET /api/initial-data?refresh=true
func (h *StateHandler) InitialData(c *gin.Context) {
	w := workspaceFor(c, h.workspaces)
	if w == nil {
		return
	}
	response.RespondOK(c, w.InitialData(c.Request.Context(), c.Query("refresh") == "true"))
}
