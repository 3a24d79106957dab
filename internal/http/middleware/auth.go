package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/mathtutor-backend/internal/http/response"
	"github.com/yungbote/mathtutor-backend/internal/pkg/ctxutil"
	"github.com/yungbote/mathtutor-backend/internal/pkg/logger"
	"github.com/yungbote/mathtutor-backend/internal/services/session"
)

type SessionMiddleware struct {
	log      *logger.Logger
	sessions session.Service
}

func NewSessionMiddleware(log *logger.Logger, sessions session.Service) *SessionMiddleware {
	return &SessionMiddleware{log: log.With("Middleware", "SessionMiddleware"), sessions: sessions}
}

// RequireSession rejects requests without a valid session token and
// attaches the session id to the request context.
func (sm *SessionMiddleware) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractTokenFromAll(c)
		if tokenString == "" {
			response.AbortError(c, http.StatusUnauthorized, "unauthorized", errors.New("missing or invalid token"))
			return
		}
		ctx, err := sm.sessions.SetContextFromToken(c.Request.Context(), tokenString)
		if err != nil {
			sm.log.Debug("session token rejected", "error", err)
			response.AbortError(c, http.StatusUnauthorized, "unauthorized", err)
			return
		}
		rd := ctxutil.GetRequestData(ctx)
		if rd == nil || rd.SessionID == uuid.Nil {
			response.AbortError(c, http.StatusForbidden, "forbidden", errors.New("forbidden"))
			return
		}
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func extractTokenFromAll(c *gin.Context) string {
	if qToken := c.Query("token"); qToken != "" {
		return qToken
	}
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}
