package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/yungbote/mathtutor-backend/internal/domain"
	"github.com/yungbote/mathtutor-backend/internal/pkg/ssex"
)

// apiClient calls the tutor API with a cached session token, issuing a new
// one when the cache is empty or the server rejects it.
type apiClient struct {
	base        string
	http        *http.Client
	sessionPath string
	token       string
}

func newAPIClient(base, sessionPath string) *apiClient {
	return &apiClient{
		base:        strings.TrimRight(base, "/"),
		http:        &http.Client{Timeout: 0},
		sessionPath: sessionPath,
	}
}

func defaultSessionPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate home directory: %w", err)
	}
	return filepath.Join(home, ".mathctl", "session"), nil
}

type apiError struct {
	Status  int
	Code    string
	Message string
}

func (e *apiError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s (%s)", e.Message, e.Code)
	}
	return fmt.Sprintf("%s (HTTP %d)", e.Message, e.Status)
}

func (c *apiClient) ensureToken(ctx context.Context) error {
	if c.token != "" {
		return nil
	}
	if raw, err := os.ReadFile(c.sessionPath); err == nil {
		if t := strings.TrimSpace(string(raw)); t != "" {
			c.token = t
			return nil
		}
	}
	return c.newSession(ctx)
}

func (c *apiClient) newSession(ctx context.Context) error {
	var issued struct {
		Token string `json:"token"`
	}
	if err := c.send(ctx, http.MethodPost, "/api/session", nil, "", &issued, false); err != nil {
		return fmt.Errorf("open session: %w", err)
	}
	c.token = issued.Token
	if err := os.MkdirAll(filepath.Dir(c.sessionPath), 0o700); err != nil {
		return err
	}
	return os.WriteFile(c.sessionPath, []byte(c.token+"\n"), 0o600)
}

// do sends a JSON request on the session, retrying once with a fresh
// session on 401.
func (c *apiClient) do(ctx context.Context, method, path string, in, out any) error {
	var body []byte
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = b
	}
	return c.withSession(ctx, func() error {
		return c.send(ctx, method, path, body, "application/json", out, true)
	})
}

func (c *apiClient) withSession(ctx context.Context, fn func() error) error {
	if err := c.ensureToken(ctx); err != nil {
		return err
	}
	err := fn()
	var ae *apiError
	if errors.As(err, &ae) && ae.Status == http.StatusUnauthorized {
		c.token = ""
		if err := c.newSession(ctx); err != nil {
			return err
		}
		return fn()
	}
	return err
}

func (c *apiClient) send(ctx context.Context, method, path string, body []byte, contentType string, out any, auth bool) error {
	resp, err := c.raw(ctx, method, path, body, contentType, auth)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// raw returns the response for 2xx statuses and an *apiError otherwise.
func (c *apiClient) raw(ctx context.Context, method, path string, body []byte, contentType string, auth bool) (*http.Response, error) {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rd)
	if err != nil {
		return nil, err
	}
	if contentType != "" && body != nil {
		req.Header.Set("Content-Type", contentType)
	}
	if auth && c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}
	defer resp.Body.Close()
	var env struct {
		Error struct {
			Message string `json:"message"`
			Code    string `json:"code"`
		} `json:"error"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&env)
	msg := env.Error.Message
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return nil, &apiError{Status: resp.StatusCode, Code: env.Error.Code, Message: msg}
}

type solveSnapshot struct {
	State    string           `json:"state"`
	Problem  *domain.Problem  `json:"problem"`
	Solution *domain.Solution `json:"solution"`
	Error    string           `json:"error"`
}

type solveResponse struct {
	Solve solveSnapshot `json:"solve"`
}

func (c *apiClient) solveText(ctx context.Context, text string) (solveSnapshot, error) {
	var out solveResponse
	err := c.do(ctx, http.MethodPost, "/api/solve", map[string]any{"problem": text}, &out)
	return out.Solve, err
}

func (c *apiClient) solveImage(ctx context.Context, path, prompt string) (solveSnapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return solveSnapshot{}, err
	}
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("image", filepath.Base(path))
	if err != nil {
		return solveSnapshot{}, err
	}
	if _, err := fw.Write(data); err != nil {
		return solveSnapshot{}, err
	}
	if prompt != "" {
		if err := mw.WriteField("prompt", prompt); err != nil {
			return solveSnapshot{}, err
		}
	}
	if err := mw.Close(); err != nil {
		return solveSnapshot{}, err
	}
	var out solveResponse
	err = c.withSession(ctx, func() error {
		return c.send(ctx, http.MethodPost, "/api/solve/image", buf.Bytes(), mw.FormDataContentType(), &out, true)
	})
	return out.Solve, err
}

// chat streams the reply, calling onChunk per fragment. It returns the full
// reply from the done event.
func (c *apiClient) chat(ctx context.Context, text string, onChunk func(string)) (string, error) {
	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return "", err
	}
	var full string
	err = c.withSession(ctx, func() error {
		resp, err := c.raw(ctx, http.MethodPost, "/api/chat/messages", body, "application/json", true)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		return ssex.Read(resp.Body, func(ev ssex.Event) error {
			var payload struct {
				Text    string `json:"text"`
				Message string `json:"message"`
				Code    string `json:"code"`
			}
			if err := json.Unmarshal([]byte(ev.Data), &payload); err != nil {
				return fmt.Errorf("bad %s event: %w", ev.Name, err)
			}
			switch ev.Name {
			case "chunk":
				onChunk(payload.Text)
			case "done":
				full = payload.Text
				return ssex.ErrStop
			case "error":
				return &apiError{Status: http.StatusOK, Code: payload.Code, Message: payload.Message}
			}
			return nil
		})
	})
	return full, err
}

type historyItem struct {
	ID        string          `json:"id"`
	Problem   domain.Problem  `json:"problem"`
	Solution  domain.Solution `json:"solution"`
	Timestamp time.Time       `json:"timestamp"`
}

func (c *apiClient) history(ctx context.Context) ([]historyItem, error) {
	var out struct {
		Items []historyItem `json:"items"`
	}
	err := c.do(ctx, http.MethodGet, "/api/history", nil, &out)
	return out.Items, err
}
