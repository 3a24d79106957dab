package handlers

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/mathtutor-backend/internal/domain"
	"github.com/yungbote/mathtutor-backend/internal/http/response"
	"github.com/yungbote/mathtutor-backend/internal/services/solver"
)

// MaxImageBytes bounds uploaded problem images.
const MaxImageBytes = 10 << 20

type SolveHandler struct {
	workspaces WorkspaceSource
}

func NewSolveHandler(workspaces WorkspaceSource) *SolveHandler {
	return &SolveHandler{workspaces: workspaces}
}

// POST /api/solve
// body: { "problem": "2x+3=7" } or { "problem": { "image": {"mimeType","data"}, "prompt": "..." } }
func (h *SolveHandler) Solve(c *gin.Context) {
	var req struct {
		Problem domain.Problem `json:"problem"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	h.submit(c, req.Problem)
}

// POST /api/solve/image
// multipart: image=<file>, prompt=<optional text>
func (h *SolveHandler) SolveImage(c *gin.Context) {
	fh, err := c.FormFile("image")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", fmt.Errorf("image file required: %w", err))
		return
	}
	if fh.Size > MaxImageBytes {
		response.RespondError(c, http.StatusRequestEntityTooLarge, "image_too_large", fmt.Errorf("image exceeds %d bytes", MaxImageBytes))
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, MaxImageBytes+1))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if len(data) > MaxImageBytes {
		response.RespondError(c, http.StatusRequestEntityTooLarge, "image_too_large", fmt.Errorf("image exceeds %d bytes", MaxImageBytes))
		return
	}

	mimeType := sniffImageMIME(data, fh.Header.Get("Content-Type"))
	if !domain.IsSupportedImageMIME(mimeType) {
		response.RespondError(c, http.StatusUnsupportedMediaType, "unsupported_image_type", fmt.Errorf("image type %q not accepted", mimeType))
		return
	}
	h.submit(c, domain.NewImageProblem(mimeType, base64.StdEncoding.EncodeToString(data), c.PostForm("prompt")))
}

// sniffImageMIME trusts the content over the declared type. HEIC/HEIF are
// not sniffable, so a declared HEIC/HEIF type is kept when sniffing finds
// nothing better.
func sniffImageMIME(data []byte, declared string) string {
	sniffed := strings.ToLower(strings.TrimSpace(strings.SplitN(http.DetectContentType(data), ";", 2)[0]))
	if domain.IsSupportedImageMIME(sniffed) {
		return sniffed
	}
	declared = strings.ToLower(strings.TrimSpace(declared))
	if sniffed == "application/octet-stream" && (declared == "image/heic" || declared == "image/heif") {
		return declared
	}
	return sniffed
}

func (h *SolveHandler) submit(c *gin.Context, p domain.Problem) {
	w := workspaceFor(c, h.workspaces)
	if w == nil {
		return
	}
	snap, err := w.Solve(c.Request.Context(), p)
	switch {
	case errors.Is(err, solver.ErrSolveInFlight):
		c.JSON(http.StatusConflict, gin.H{"error": gin.H{"message": err.Error(), "code": "solve_in_flight"}, "solve": snap})
		return
	case errors.Is(err, solver.ErrSuperseded):
		c.JSON(http.StatusConflict, gin.H{"error": gin.H{"message": err.Error(), "code": "solve_superseded"}, "solve": snap})
		return
	case err != nil:
		response.RespondAPIError(c, err, "solve_failed")
		return
	}
	response.RespondOK(c, gin.H{"solve": snap})
}

// POST /api/clear
func (h *SolveHandler) Clear(c *gin.Context) {
	w := workspaceFor(c, h.workspaces)
	if w == nil {
		return
	}
	response.RespondOK(c, gin.H{"solve": w.Clear(c.Request.Context())})
}
