package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/mathtutor-backend/internal/pkg/ctxutil"
	"github.com/yungbote/mathtutor-backend/internal/pkg/logger"
	"github.com/yungbote/mathtutor-backend/internal/services/session"
)

func newSessions(t *testing.T) session.Service {
	t.Helper()
	svc, err := session.NewService(logger.NewNop(), "test-secret", time.Hour)
	if err != nil {
		t.Fatalf("session.NewService: %v", err)
	}
	return svc
}

func TestRequireSession(t *testing.T) {
	gin.SetMode(gin.TestMode)
	sessions := newSessions(t)
	issued, err := sessions.Issue(context.Background())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	r := gin.New()
	r.Use(NewSessionMiddleware(logger.NewNop(), sessions).RequireSession())
	r.GET("/who", func(c *gin.Context) {
		rd := ctxutil.GetRequestData(c.Request.Context())
		c.String(http.StatusOK, rd.SessionID.String())
	})

	cases := []struct {
		name   string
		setup  func(*http.Request)
		status int
	}{
		{"bearer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+issued.Token) }, http.StatusOK},
		{"query", func(r *http.Request) { r.URL.RawQuery = "token=" + issued.Token }, http.StatusOK},
		{"missing", func(*http.Request) {}, http.StatusUnauthorized},
		{"garbage", func(r *http.Request) { r.Header.Set("Authorization", "Bearer nope") }, http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/who", nil)
			tc.setup(req)
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			if rec.Code != tc.status {
				t.Fatalf("status: got=%d want=%d body=%s", rec.Code, tc.status, rec.Body.String())
			}
			if tc.status == http.StatusOK && rec.Body.String() != issued.SessionID.String() {
				t.Fatalf("session id: got=%s want=%s", rec.Body.String(), issued.SessionID)
			}
		})
	}
}

func TestAttachTraceContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AttachTraceContext())
	var seen *ctxutil.TraceData
	r.GET("/", func(c *gin.Context) {
		seen = ctxutil.GetTraceData(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(headerRequestID, "req-1")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if seen == nil || seen.RequestID != "req-1" {
		t.Fatalf("request id not propagated: %+v", seen)
	}
	if _, err := uuid.Parse(seen.TraceID); err != nil {
		t.Fatalf("expected generated uuid trace id, got %q", seen.TraceID)
	}
	if rec.Header().Get(headerTraceID) != seen.TraceID {
		t.Fatalf("trace header mismatch")
	}
}
