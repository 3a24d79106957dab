package http

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/mathtutor-backend/internal/clients/gemini"
	"github.com/yungbote/mathtutor-backend/internal/clients/gemini/geminitest"
	"github.com/yungbote/mathtutor-backend/internal/data/repos/kv"
	httpH "github.com/yungbote/mathtutor-backend/internal/http/handlers"
	httpMW "github.com/yungbote/mathtutor-backend/internal/http/middleware"
	"github.com/yungbote/mathtutor-backend/internal/observability"
	"github.com/yungbote/mathtutor-backend/internal/pkg/logger"
	"github.com/yungbote/mathtutor-backend/internal/services/gateway"
	"github.com/yungbote/mathtutor-backend/internal/services/session"
	"github.com/yungbote/mathtutor-backend/internal/services/share"
	"github.com/yungbote/mathtutor-backend/internal/services/workspace"
)

const solvedJSON = `{"status":"solved","title":"Linear equation","classification":"Algebra",
"difficulty":"Easy","difficultyRating":2,"difficultyJustification":"two steps",
"keyConcepts":["inverse operations"],"reasoning":"isolate x","solution":["x=5"]}`

type testServer struct {
	engine *gin.Engine
	token  string
}

func newTestServer(t *testing.T, chunks []string) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := logger.NewNop()

	fc := &geminitest.Client{
		JSONFunc: func(_ context.Context, _ string, parts []gemini.Part) (string, error) {
			text := geminitest.PromptText(parts)
			switch {
			case strings.Contains(text, "math fact"):
				return `{"fact":"Zero is even."}`, nil
			case strings.Contains(text, "Generate 4"):
				return `{"problems":[{"id":"1","problem":"2+2"}]}`, nil
			default:
				return solvedJSON, nil
			}
		},
		NewSession: func(string) (gemini.ChatSession, error) {
			return &geminitest.Session{Chunks: chunks}, nil
		},
	}
	cards, err := share.NewCardRenderer("")
	require.NoError(t, err)
	reg := workspace.NewRegistry(workspace.Deps{
		Store:        kv.NewMemoryStore(),
		Gateway:      gateway.NewGateway(fc, log),
		Cards:        cards,
		ShareBaseURL: "https://math.example.com/",
		Log:          log,
	})
	sessions, err := session.NewService(log, "test-secret", time.Hour)
	require.NoError(t, err)

	engine := NewRouter(RouterConfig{
		Log:               log,
		Metrics:           observability.NewMetrics(),
		SessionMiddleware: httpMW.NewSessionMiddleware(log, sessions),
		HealthHandler:     httpH.NewHealthHandler(),
		SessionHandler:    httpH.NewSessionHandler(sessions),
		I18nHandler:       httpH.NewI18nHandler(),
		StateHandler:      httpH.NewStateHandler(reg),
		SolveHandler:      httpH.NewSolveHandler(reg),
		HistoryHandler:    httpH.NewHistoryHandler(reg),
		ChatHandler:       httpH.NewChatHandler(log, reg),
		SettingsHandler:   httpH.NewSettingsHandler(reg),
		ShareHandler:      httpH.NewShareHandler(reg),
	})
	ts := &testServer{engine: engine}

	rec := ts.do(t, nethttp.MethodPost, "/api/session", nil)
	require.Equal(t, nethttp.StatusOK, rec.Code)
	var issued session.Issued
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &issued))
	require.NotEmpty(t, issued.Token)
	ts.token = issued.Token
	return ts
}

func (ts *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if ts.token != "" {
		req.Header.Set("Authorization", "Bearer "+ts.token)
	}
	rec := httptest.NewRecorder()
	ts.engine.ServeHTTP(rec, req)
	return rec
}

type sseEvent struct {
	name string
	data string
}

func readEvents(t *testing.T, body string) []sseEvent {
	t.Helper()
	var out []sseEvent
	var cur sseEvent
	sc := bufio.NewScanner(strings.NewReader(body))
	for sc.Scan() {
		line := sc.Text()
		switch {
		case strings.HasPrefix(line, "event:"):
			cur.name = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			cur.data += strings.TrimPrefix(line, "data:")
		case line == "" && cur.name != "":
			out = append(out, cur)
			cur = sseEvent{}
		}
	}
	if cur.name != "" {
		out = append(out, cur)
	}
	return out
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	ts := newTestServer(t, nil)
	ts.token = ""
	rec := ts.do(t, nethttp.MethodGet, "/api/state", nil)
	require.Equal(t, nethttp.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), `"code":"unauthorized"`)

	rec = ts.do(t, nethttp.MethodGet, "/healthcheck", nil)
	require.Equal(t, nethttp.StatusOK, rec.Code)
}

func TestSolveThenChatStreamsEvents(t *testing.T) {
	ts := newTestServer(t, []string{"Because ", "x=5."})

	rec := ts.do(t, nethttp.MethodPost, "/api/solve", map[string]any{"problem": "2x+3=13"})
	require.Equal(t, nethttp.StatusOK, rec.Code, rec.Body.String())
	require.Contains(t, rec.Body.String(), `"state":"solved"`)

	rec = ts.do(t, nethttp.MethodPost, "/api/chat/messages", map[string]any{"text": "why?"})
	require.Equal(t, nethttp.StatusOK, rec.Code)
	require.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))

	events := readEvents(t, rec.Body.String())
	require.Len(t, events, 3)
	require.Equal(t, httpH.SSEEventChunk, events[0].name)
	require.JSONEq(t, `{"text":"Because "}`, events[0].data)
	require.Equal(t, httpH.SSEEventChunk, events[1].name)
	require.Equal(t, httpH.SSEEventDone, events[2].name)
	require.JSONEq(t, `{"text":"Because x=5."}`, events[2].data)

	rec = ts.do(t, nethttp.MethodGet, "/api/chat/messages", nil)
	require.Equal(t, nethttp.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Because x=5.")
}

func TestChatRejectsBlankMessage(t *testing.T) {
	ts := newTestServer(t, nil)
	rec := ts.do(t, nethttp.MethodPost, "/api/chat/messages", map[string]any{"text": "   "})
	require.Equal(t, nethttp.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "empty_message")
}

func TestShareLinkDecodeAndImage(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(t, nethttp.MethodPost, "/api/share/link", nil)
	require.Equal(t, nethttp.StatusBadRequest, rec.Code)

	rec = ts.do(t, nethttp.MethodPost, "/api/solve", map[string]any{"problem": "2x+3=13"})
	require.Equal(t, nethttp.StatusOK, rec.Code)

	rec = ts.do(t, nethttp.MethodPost, "/api/share/link", nil)
	require.Equal(t, nethttp.StatusOK, rec.Code, rec.Body.String())
	var link workspace.ShareLink
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &link))
	require.True(t, strings.HasPrefix(link.URL, "https://math.example.com/#data="))

	rec = ts.do(t, nethttp.MethodPost, "/api/share/decode", map[string]any{"url": link.URL})
	require.Equal(t, nethttp.StatusOK, rec.Code, rec.Body.String())
	var payload share.Payload
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Equal(t, "2x+3=13", payload.Problem.Text)
	require.Equal(t, "Linear equation", payload.Solution.Title)

	rec = ts.do(t, nethttp.MethodPost, "/api/share/decode", map[string]any{"token": "%%%"})
	require.Equal(t, nethttp.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "invalid_share_token")

	rec = ts.do(t, nethttp.MethodGet, "/api/share/image", nil)
	require.Equal(t, nethttp.StatusOK, rec.Code)
	require.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	require.Contains(t, rec.Header().Get("Content-Disposition"), "Linear_equation.png")
}

func TestSolveImageRejectsNonImage(t *testing.T) {
	ts := newTestServer(t, nil)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("image", "notes.txt")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("plain text, not an image"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(nethttp.MethodPost, "/api/solve/image", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+ts.token)
	rec := httptest.NewRecorder()
	ts.engine.ServeHTTP(rec, req)
	require.Equal(t, nethttp.StatusUnsupportedMediaType, rec.Code)
}

func TestSettingsAndHistory(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(t, nethttp.MethodPut, "/api/settings", map[string]any{"language": "ar", "font": "lora"})
	require.Equal(t, nethttp.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"language":"ar"`)

	rec = ts.do(t, nethttp.MethodPut, "/api/settings", map[string]any{"language": "fr"})
	require.Equal(t, nethttp.StatusBadRequest, rec.Code)

	rec = ts.do(t, nethttp.MethodPost, "/api/solve", map[string]any{"problem": "1+1"})
	require.Equal(t, nethttp.StatusOK, rec.Code)

	rec = ts.do(t, nethttp.MethodGet, "/api/history", nil)
	require.Equal(t, nethttp.StatusOK, rec.Code)
	var list struct {
		Items []struct {
			ID string `json:"id"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Items, 1)

	rec = ts.do(t, nethttp.MethodPost, "/api/history/"+list.Items[0].ID+"/load", nil)
	require.Equal(t, nethttp.StatusOK, rec.Code)
	rec = ts.do(t, nethttp.MethodPost, "/api/history/missing/load", nil)
	require.Equal(t, nethttp.StatusNotFound, rec.Code)

	rec = ts.do(t, nethttp.MethodDelete, "/api/history", nil)
	require.Equal(t, nethttp.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"items":[]`)

	rec = ts.do(t, nethttp.MethodGet, "/metrics", nil)
	require.Equal(t, nethttp.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "mt_api_requests_total")
}

func TestBootstrapConsumesShareFragment(t *testing.T) {
	ts := newTestServer(t, nil)
	rec := ts.do(t, nethttp.MethodPost, "/api/solve", map[string]any{"problem": "2x+3=13"})
	require.Equal(t, nethttp.StatusOK, rec.Code)
	rec = ts.do(t, nethttp.MethodPost, "/api/share/link", nil)
	var link workspace.ShareLink
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &link))

	other := newTestServer(t, nil)
	rec = other.do(t, nethttp.MethodPost, "/api/bootstrap", map[string]any{"location": link.URL})
	require.Equal(t, nethttp.StatusOK, rec.Code, rec.Body.String())
	var res workspace.BootstrapResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.True(t, res.SharedLoaded)
	require.Equal(t, "https://math.example.com/", res.Location)
	require.Nil(t, res.InitialData)
}
