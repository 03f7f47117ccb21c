package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"seoulholic-bot/internal/app"
	"seoulholic-bot/internal/transport/http/response"
)

// ChatHandler serves the demo UI: the same pipeline as the LINE webhook but
// addressable by plain HTTP clients.
type ChatHandler struct {
	chatService *app.ChatService
}

type SendMessageRequest struct {
	UserID  string `json:"user_id" binding:"required,max=64"`
	Message string `json:"message" binding:"required"`
}

type ResetRequest struct {
	UserID string `json:"user_id" binding:"required,max=64"`
}

func NewChatHandler(chatService *app.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	result := h.chatService.HandleMessage(c.Request.Context(), req.UserID, req.Message)
	response.OK(c, result)
}

func (h *ChatHandler) StreamMessage(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "stream not supported")
		return
	}

	result := h.chatService.StreamMessage(c.Request.Context(), req.UserID, req.Message, func(chunk string) error {
		if _, writeErr := c.Writer.Write([]byte("data: " + sanitizeSSE(chunk) + "\n\n")); writeErr != nil {
			return writeErr
		}
		flusher.Flush()
		return nil
	})

	if _, writeErr := c.Writer.Write([]byte("event: done\ndata: " + sanitizeSSE(result.Text) + "\n\n")); writeErr == nil {
		flusher.Flush()
	}
}

func (h *ChatHandler) Reset(c *gin.Context) {
	var req ResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	result := h.chatService.HandleMessage(c.Request.Context(), req.UserID, "/reset")
	response.OK(c, result)
}

func sanitizeSSE(input string) string {
	replaced := strings.ReplaceAll(input, "\r\n", "\\n")
	replaced = strings.ReplaceAll(replaced, "\n", "\\n")
	return replaced
}
