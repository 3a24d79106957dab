package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/mathtutor-backend/internal/domain"
	"github.com/yungbote/mathtutor-backend/internal/http/response"
	"github.com/yungbote/mathtutor-backend/internal/services/share"
)

type ShareHandler struct {
	workspaces WorkspaceSource
}

func NewShareHandler(workspaces WorkspaceSource) *ShareHandler {
	return &ShareHandler{workspaces: workspaces}
}

// POST /api/share/link
func (h *ShareHandler) Link(c *gin.Context) {
	w := workspaceFor(c, h.workspaces)
	if w == nil {
		return
	}
	link, err := w.ShareLink()
	if err != nil {
		response.RespondAPIError(c, err, "share_failed")
		return
	}
	response.RespondOK(c, link)
}

// POST /api/share/decode
// body: { "token": "..." } or { "url": "https://host/#data=..." }
//
// Decoding is stateless; the workspace is not touched.
func (h *ShareHandler) Decode(c *gin.Context) {
	var req struct {
		Token    string `json:"token"`
		URL      string `json:"url"`
		Language string `json:"language"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	token := req.Token
	if token == "" && req.URL != "" {
		t, _, found := share.ConsumeLocation(req.URL)
		if !found {
			response.RespondError(c, http.StatusBadRequest, "invalid_share_token", fmt.Errorf("url has no %s fragment", share.FragmentPrefix))
			return
		}
		token = t
	}
	current, ok := domain.ParseLanguage(req.Language)
	if !ok {
		current = domain.DefaultLanguage
	}
	payload, err := share.Decode(token, current)
	if err != nil {
		response.RespondAPIError(c, err, "invalid_share_token")
		return
	}
	response.RespondOK(c, payload)
}

// GET /api/share/image
func (h *ShareHandler) Image(c *gin.Context) {
	w := workspaceFor(c, h.workspaces)
	if w == nil {
		return
	}
	png, name, err := w.ShareCard()
	if err != nil {
		response.RespondAPIError(c, err, "share_image_failed")
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, "image/png", png)
}
