// Package chat holds the follow-up conversation for the current problem: an
// ordered message list fed by one streaming turn at a time.
package chat

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/yungbote/mathtutor-backend/internal/clients/gemini"
	"github.com/yungbote/mathtutor-backend/internal/domain"
	"github.com/yungbote/mathtutor-backend/internal/i18n"
	apperr "github.com/yungbote/mathtutor-backend/internal/pkg/errors"
	"github.com/yungbote/mathtutor-backend/internal/pkg/logger"
)

type State string

const (
	StateIdle      State = "idle"
	StateSending   State = "sending"
	StateStreaming State = "streaming"
)

var (
	ErrEmptyMessage = errors.New("chat message is empty")
	ErrNoSession    = errors.New("no active chat session")
	ErrBusy         = errors.New("a chat turn is already in flight")
	// ErrDetached is returned by a Send whose session was replaced mid-stream.
	ErrDetached = errors.New("chat session was reset")
)

// LanguageSource reports the language for localized error text.
type LanguageSource interface {
	Language() domain.Language
}

type Conversation struct {
	lang LanguageSource
	log  *logger.Logger

	mu       sync.Mutex
	session  gemini.ChatSession
	gen      uint64
	state    State
	messages []domain.ChatMessage
}

func NewConversation(lang LanguageSource, log *logger.Logger) *Conversation {
	return &Conversation{
		lang:     lang,
		log:      log.With("service", "ChatConversation"),
		state:    StateIdle,
		messages: []domain.ChatMessage{},
	}
}

// Reset installs session and clears the messages. Chunks still arriving for
// the previous session are dropped.
func (c *Conversation) Reset(session gemini.ChatSession) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = session
	c.gen++
	c.state = StateIdle
	c.messages = []domain.ChatMessage{}
}

func (c *Conversation) Messages() []domain.ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.ChatMessage, len(c.messages))
	copy(out, c.messages)
	return out
}

func (c *Conversation) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Conversation) HasSession() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session != nil
}

// Send runs one turn. onChunk, when set, sees every fragment in arrival
// order after it has been appended to the trailing model message. The turn
// runs to completion even if ctx is cancelled by the caller.
func (c *Conversation) Send(ctx context.Context, text string, onChunk func(string)) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyMessage
	}

	c.mu.Lock()
	if c.session == nil {
		c.mu.Unlock()
		return ErrNoSession
	}
	if c.state != StateIdle {
		c.mu.Unlock()
		return ErrBusy
	}
	c.messages = append(c.messages,
		domain.ChatMessage{Role: domain.ChatRoleUser, Text: text},
		domain.ChatMessage{Role: domain.ChatRoleModel, Text: ""},
	)
	idx := len(c.messages) - 1
	gen := c.gen
	session := c.session
	c.state = StateSending
	c.mu.Unlock()

	for chunk, err := range session.SendStream(context.WithoutCancel(ctx), text) {
		c.mu.Lock()
		if c.gen != gen {
			c.mu.Unlock()
			c.log.Debug("dropping chunk from detached session")
			return ErrDetached
		}
		if err != nil {
			c.messages[idx].Text = i18n.New(c.lang.Language()).T(i18n.KeyChatError)
			c.state = StateIdle
			c.mu.Unlock()
			c.log.Warn("chat stream failed", "error", err)
			return &apperr.GatewayError{Op: "chat", Err: err}
		}
		c.state = StateStreaming
		c.messages[idx].Text += chunk
		c.mu.Unlock()

		if onChunk != nil {
			onChunk(chunk)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		return ErrDetached
	}
	c.state = StateIdle
	return nil
}

// LastModelText returns the text of the trailing model message, if any.
func (c *Conversation) LastModelText() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := len(c.messages) - 1; i >= 0; i-- {
		if c.messages[i].Role == domain.ChatRoleModel {
			return c.messages[i].Text
		}
	}
	return ""
}
