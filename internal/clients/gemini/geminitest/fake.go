// Package geminitest provides scriptable in-memory gemini clients for tests.
package geminitest

import (
	"context"
	"iter"
	"strings"
	"sync"

	"google.golang.org/genai"

	"github.com/yungbote/mathtutor-backend/internal/clients/gemini"
)

// Call records one GenerateJSON invocation.
type Call struct {
	System string
	Parts  []gemini.Part
	Schema *genai.Schema
}

// Client answers GenerateJSON through JSONFunc and hands out Sessions from
// NewSession. Both default to returning nothing useful.
type Client struct {
	JSONFunc   func(ctx context.Context, system string, parts []gemini.Part) (string, error)
	NewSession func(system string) (gemini.ChatSession, error)

	mu       sync.Mutex
	calls    []Call
	systems  []string
	sessions int
}

var _ gemini.Client = (*Client)(nil)

func (c *Client) Model() string { return "fake-model" }

func (c *Client) GenerateJSON(ctx context.Context, system string, parts []gemini.Part, schema *genai.Schema) (string, error) {
	c.mu.Lock()
	c.calls = append(c.calls, Call{System: system, Parts: parts, Schema: schema})
	fn := c.JSONFunc
	c.mu.Unlock()
	if fn == nil {
		return "{}", nil
	}
	return fn(ctx, system, parts)
}

// StartChat fails once ctx is done, like a real network call.
func (c *Client) StartChat(ctx context.Context, system string) (gemini.ChatSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.sessions++
	c.systems = append(c.systems, system)
	fn := c.NewSession
	c.mu.Unlock()
	if fn == nil {
		return &Session{}, nil
	}
	return fn(system)
}

func (c *Client) Calls() []Call {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Call(nil), c.calls...)
}

func (c *Client) SessionCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessions
}

func (c *Client) ChatSystems() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.systems...)
}

// Session streams Chunks, then Err if set. When Gate is non-nil each chunk
// waits for a receive on it first.
type Session struct {
	Chunks []string
	Err    error
	Gate   chan struct{}

	mu   sync.Mutex
	sent []string
}

func (s *Session) SendStream(ctx context.Context, text string) iter.Seq2[string, error] {
	s.mu.Lock()
	s.sent = append(s.sent, text)
	s.mu.Unlock()
	return func(yield func(string, error) bool) {
		for _, chunk := range s.Chunks {
			if s.Gate != nil {
				select {
				case <-s.Gate:
				case <-ctx.Done():
					yield("", ctx.Err())
					return
				}
			}
			if !yield(chunk, nil) {
				return
			}
		}
		if s.Err != nil {
			yield("", s.Err)
		}
	}
}

func (s *Session) Sent() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.sent...)
}

// PromptText joins the text parts of a call.
func PromptText(parts []gemini.Part) string {
	var b strings.Builder
	for _, p := range parts {
		b.WriteString(p.Text)
	}
	return b.String()
}
