package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/a38062an/uk-econ-insight-agent/internal/agent"
)

// ChatAgent answers one conversational turn.
type ChatAgent interface {
	Ask(ctx context.Context, sessionID, query string) (agent.Answer, error)
}

type ChatHandler struct {
	agent ChatAgent
}

func NewChatHandler(agent ChatAgent) *ChatHandler {
	return &ChatHandler{agent: agent}
}

func (h *ChatHandler) PostChat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("invalid chat request", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message is required"})
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	answer, err := h.agent.Ask(c.Request.Context(), sessionID, req.Message)
	if err != nil {
		slog.Error("error answering chat", "session_id", sessionID, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Agent error"})
		return
	}

	sources := make([]SourceResponse, 0, len(answer.Chunks))
	seen := make(map[string]bool)
	for _, chunk := range answer.Chunks {
		if chunk.URL == "" || seen[chunk.URL] {
			continue
		}
		seen[chunk.URL] = true
		sources = append(sources, SourceResponse{
			Title:       chunk.Title,
			URL:         chunk.URL,
			Source:      chunk.Source,
			PublishedAt: chunk.PublishedAt.Format(time.RFC3339),
		})
	}

	c.JSON(http.StatusOK, ChatResponse{
		SessionID: sessionID,
		Answer:    answer.Text,
		Route:     string(answer.Route),
		Sources:   sources,
	})
}
