package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/mathtutor-backend/internal/http/response"
	"github.com/yungbote/mathtutor-backend/internal/pkg/logger"
	"github.com/yungbote/mathtutor-backend/internal/services/chat"
)

const (
	SSEEventChunk = "chunk"
	SSEEventDone  = "done"
	SSEEventError = "error"
)

type ChatHandler struct {
	log        *logger.Logger
	workspaces WorkspaceSource
}

func NewChatHandler(log *logger.Logger, workspaces WorkspaceSource) *ChatHandler {
	return &ChatHandler{log: log.With("handler", "ChatHandler"), workspaces: workspaces}
}

// GET /api/chat/messages
func (h *ChatHandler) Messages(c *gin.Context) {
	w := workspaceFor(c, h.workspaces)
	if w == nil {
		return
	}
	response.RespondOK(c, gin.H{
		"state":    w.Chat.State(),
		"enabled":  w.Chat.HasSession(),
		"messages": w.Chat.Messages(),
	})
}

// POST /api/chat/messages
// body: { "text": "..." }
//
// Rejected sends answer with a JSON error. Accepted sends stream SSE
// "chunk" events with {"text"} and end with "done" carrying the full reply,
// or "error" carrying the localized failure.
func (h *ChatHandler) Send(c *gin.Context) {
	var req struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	w := workspaceFor(c, h.workspaces)
	if w == nil {
		return
	}
	if err := precheckChat(w.Chat, req.Text); err != nil {
		respondChatRejected(c, err)
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	streaming := true
	err := w.SendChat(c.Request.Context(), req.Text, func(chunk string) {
		if !streaming {
			return
		}
		c.SSEvent(SSEEventChunk, gin.H{"text": chunk})
		c.Writer.Flush()
		if c.Request.Context().Err() != nil {
			// Client went away; the turn still completes server side.
			streaming = false
		}
	})
	if !streaming {
		return
	}
	switch {
	case err == nil:
		c.SSEvent(SSEEventDone, gin.H{"text": w.Chat.LastModelText()})
	case errors.Is(err, chat.ErrBusy), errors.Is(err, chat.ErrNoSession), errors.Is(err, chat.ErrEmptyMessage):
		c.SSEvent(SSEEventError, gin.H{"message": err.Error(), "code": chatErrorCode(err)})
	case errors.Is(err, chat.ErrDetached):
		c.SSEvent(SSEEventError, gin.H{"message": err.Error(), "code": "chat_detached"})
	default:
		h.log.Warn("chat turn failed", "error", err)
		c.SSEvent(SSEEventError, gin.H{"message": w.Chat.LastModelText(), "code": "chat_failed"})
	}
	c.Writer.Flush()
}

// POST /api/chat/new
func (h *ChatHandler) New(c *gin.Context) {
	w := workspaceFor(c, h.workspaces)
	if w == nil {
		return
	}
	w.NewChat(c.Request.Context())
	response.RespondOK(c, gin.H{
		"state":    w.Chat.State(),
		"enabled":  w.Chat.HasSession(),
		"messages": w.Chat.Messages(),
	})
}

// precheckChat rejects sends that Conversation.Send would refuse before
// any stream opens, so those get a plain JSON error.
func precheckChat(conv *chat.Conversation, text string) error {
	switch {
	case isBlank(text):
		return chat.ErrEmptyMessage
	case !conv.HasSession():
		return chat.ErrNoSession
	case conv.State() != chat.StateIdle:
		return chat.ErrBusy
	}
	return nil
}

func respondChatRejected(c *gin.Context, err error) {
	status := http.StatusBadRequest
	if errors.Is(err, chat.ErrBusy) {
		status = http.StatusConflict
	}
	response.RespondError(c, status, chatErrorCode(err), err)
}

func chatErrorCode(err error) string {
	switch {
	case errors.Is(err, chat.ErrEmptyMessage):
		return "empty_message"
	case errors.Is(err, chat.ErrNoSession):
		return "chat_unavailable"
	case errors.Is(err, chat.ErrBusy):
		return "chat_busy"
	}
	return "chat_failed"
}
