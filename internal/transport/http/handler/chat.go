package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"awarerag/internal/app"
	"awarerag/internal/transport/http/response"
)

type ChatHandler struct {
	chatService *app.ChatService
}

type ChatRequest struct {
	Question  string `json:"question" binding:"required"`
	SessionID string `json:"session_id"`
	Model     string `json:"model" binding:"omitempty,oneof=gpt-4o gpt-4o-mini"`
}

type SessionHistoryResponse struct {
	SessionID string           `json:"session_id"`
	History   []app.TurnDetail `json:"history"`
}

func NewChatHandler(chatService *app.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// Chat answers one question. The response body is the fixed public shape
// {answer, session_id, model, sources}.
func (h *ChatHandler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	result, err := h.chatService.HandleQuery(c.Request.Context(), app.HandleQueryInput{
		Question:  req.Question,
		SessionID: req.SessionID,
		Model:     req.Model,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput), errors.Is(err, app.ErrInvalidModel):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		case errors.Is(err, app.ErrRetrievalFailure), errors.Is(err, app.ErrGenerationFailure):
			response.Error(c, http.StatusBadGateway, response.CodeUpstreamFailed, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "chat failed")
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetHistory returns the full logged history of a session, sources included.
func (h *ChatHandler) GetHistory(c *gin.Context) {
	sessionID := c.Param("session_id")
	if sessionID == "" {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "session_id is required")
		return
	}

	history, err := h.chatService.FullHistory(c.Request.Context(), sessionID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "get history failed")
		return
	}

	c.JSON(http.StatusOK, SessionHistoryResponse{
		SessionID: sessionID,
		History:   history,
	})
}
