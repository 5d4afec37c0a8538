package controllers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nimbuslab/nimbus/internal/pkg/agents"
	"github.com/nimbuslab/nimbus/internal/pkg/agents/providers"
)

type ChatRequest struct {
	Message        string `json:"message" binding:"required"`
	ConversationID string `json:"conversation_id"`
}

type ChatResponse struct {
	Response       string          `json:"response"`
	ConversationID string          `json:"conversation_id"`
	Usage          providers.Usage `json:"usage"`
}

type ChatController struct {
	agent *agents.WeatherAgent
}

func NewChatController(agent *agents.WeatherAgent) *ChatController {
	return &ChatController{agent: agent}
}

// Chat godoc
//	@Summary		Ask a weather question
//	@Description	Answers a natural-language weather question, calling weather tools as needed
//	@Tags			chat
//	@Accept			json
//	@Produce		json
//	@Param			request	body		ChatRequest		true	"User message"
//	@Success		200		{object}	ChatResponse	"Final answer with token usage"
//	@Failure		400		{object}	map[string]string	"Bad request"
//	@Failure		500		{object}	map[string]string	"Model query failed"
//	@Router			/api/v1/chat [post]
func (cc *ChatController) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	conversationID := req.ConversationID
	if conversationID == "" {
		conversationID = uuid.NewString()
	}
	slog.Info("Chat request", "conversation_id", conversationID, "message", req.Message)

	reply, err := cc.agent.Invoke(c.Request.Context(), req.Message)
	if err != nil {
		slog.Error("Chat invocation failed", "conversation_id", conversationID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to answer the request"})
		return
	}

	c.JSON(http.StatusOK, ChatResponse{
		Response:       reply.Content,
		ConversationID: conversationID,
		Usage:          reply.Usage,
	})
}
