package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/mathtutor-backend/internal/http/response"
	"github.com/yungbote/mathtutor-backend/internal/pkg/ctxutil"
	"github.com/yungbote/mathtutor-backend/internal/services/workspace"
)

// WorkspaceSource resolves the workspace of an authenticated session.
type WorkspaceSource interface {
	Get(ctx context.Context, sessionID string) *workspace.Workspace
}

// workspaceFor writes a 401 and returns nil when the request carries no
// session.
func workspaceFor(c *gin.Context, src WorkspaceSource) *workspace.Workspace {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.SessionID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("missing session"))
		return nil
	}
	return src.Get(c.Request.Context(), rd.SessionID.String())
}
