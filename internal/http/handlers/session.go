package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/mathtutor-backend/internal/http/response"
	"github.com/yungbote/mathtutor-backend/internal/services/session"
)

type SessionHandler struct {
	sessions session.Service
}

func NewSessionHandler(sessions session.Service) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// POST /api/session
func (h *SessionHandler) Create(c *gin.Context) {
	issued, err := h.sessions.Issue(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, err, "session_issue_failed")
		return
	}
	response.RespondOK(c, issued)
}
