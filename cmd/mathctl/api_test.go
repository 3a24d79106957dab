package main

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/mathtutor-backend/internal/clients/gemini"
	"github.com/yungbote/mathtutor-backend/internal/clients/gemini/geminitest"
	"github.com/yungbote/mathtutor-backend/internal/data/repos/kv"
	httpx "github.com/yungbote/mathtutor-backend/internal/http"
	httpH "github.com/yungbote/mathtutor-backend/internal/http/handlers"
	httpMW "github.com/yungbote/mathtutor-backend/internal/http/middleware"
	"github.com/yungbote/mathtutor-backend/internal/pkg/logger"
	"github.com/yungbote/mathtutor-backend/internal/services/gateway"
	"github.com/yungbote/mathtutor-backend/internal/services/session"
	"github.com/yungbote/mathtutor-backend/internal/services/workspace"
)

const solvedJSON = `{"status":"solved","title":"Linear equation","classification":"Algebra",
"difficulty":"Easy","difficultyRating":2,"difficultyJustification":"two steps",
"keyConcepts":["inverse operations"],"reasoning":"isolate x","solution":["x=5"]}`

func startServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := logger.NewNop()
	fc := &geminitest.Client{
		JSONFunc: func(context.Context, string, []gemini.Part) (string, error) { return solvedJSON, nil },
		NewSession: func(string) (gemini.ChatSession, error) {
			return &geminitest.Session{Chunks: []string{"Sub", "tract 3."}}, nil
		},
	}
	reg := workspace.NewRegistry(workspace.Deps{
		Store:   kv.NewMemoryStore(),
		Gateway: gateway.NewGateway(fc, log),
		Log:     log,
	})
	sessions, err := session.NewService(log, "secret", time.Hour)
	require.NoError(t, err)
	srv := httptest.NewServer(httpx.NewRouter(httpx.RouterConfig{
		Log:               log,
		SessionMiddleware: httpMW.NewSessionMiddleware(log, sessions),
		SessionHandler:    httpH.NewSessionHandler(sessions),
		SolveHandler:      httpH.NewSolveHandler(reg),
		ChatHandler:       httpH.NewChatHandler(log, reg),
		HistoryHandler:    httpH.NewHistoryHandler(reg),
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestAPIClientSolveAndChat(t *testing.T) {
	srv := startServer(t)
	sessionPath := filepath.Join(t.TempDir(), "session")
	api := newAPIClient(srv.URL, sessionPath)
	ctx := context.Background()

	snap, err := api.solveText(ctx, "2x+3=13")
	require.NoError(t, err)
	require.Equal(t, "solved", snap.State)
	require.Equal(t, "Linear equation", snap.Solution.Title)

	raw, err := os.ReadFile(sessionPath)
	require.NoError(t, err)
	require.Equal(t, api.token, strings.TrimSpace(string(raw)))

	var chunks []string
	full, err := api.chat(ctx, "why subtract?", func(c string) { chunks = append(chunks, c) })
	require.NoError(t, err)
	require.Equal(t, []string{"Sub", "tract 3."}, chunks)
	require.Equal(t, "Subtract 3.", full)

	items, err := api.history(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
}

func TestAPIClientRenewsRejectedToken(t *testing.T) {
	srv := startServer(t)
	sessionPath := filepath.Join(t.TempDir(), "session")
	require.NoError(t, os.WriteFile(sessionPath, []byte("stale-token\n"), 0o600))

	api := newAPIClient(srv.URL, sessionPath)
	items, err := api.history(context.Background())
	require.NoError(t, err)
	require.Empty(t, items)
	require.NotEqual(t, "stale-token", api.token)
}

func TestAPIClientChatRejectsBlank(t *testing.T) {
	srv := startServer(t)
	api := newAPIClient(srv.URL, filepath.Join(t.TempDir(), "session"))
	_, err := api.chat(context.Background(), "  ", func(string) {})
	var ae *apiError
	require.ErrorAs(t, err, &ae)
	require.Equal(t, "empty_message", ae.Code)
}
