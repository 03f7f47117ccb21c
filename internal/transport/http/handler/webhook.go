package handler

import (
	"context"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"seoulholic-bot/internal/app"
	"seoulholic-bot/internal/platform/line"
	"seoulholic-bot/internal/transport/http/response"
)

const webhookReplyTimeout = 100 * time.Second

// WebhookHandler receives LINE platform events. LINE expects a fast 200, so
// events are acknowledged immediately and answered in the background.
type WebhookHandler struct {
	chatService *app.ChatService
	lineClient  *line.Client
}

func NewWebhookHandler(chatService *app.ChatService, lineClient *line.Client) *WebhookHandler {
	return &WebhookHandler{
		chatService: chatService,
		lineClient:  lineClient,
	}
}

func (h *WebhookHandler) Handle(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "read body failed")
		return
	}

	signature := c.GetHeader("X-Line-Signature")
	if !h.lineClient.ValidateSignature(body, signature) {
		response.Error(c, http.StatusUnauthorized, response.CodeInvalidSignature, "invalid signature")
		return
	}

	events, err := line.ParseEvents(body)
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid webhook payload")
		return
	}

	for _, event := range events {
		if !event.IsTextMessage() {
			continue
		}
		go h.answer(event)
	}

	response.OK(c, gin.H{"events": len(events)})
}

func (h *WebhookHandler) answer(event line.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), webhookReplyTimeout)
	defer cancel()

	userID := event.Source.UserID
	result := h.chatService.HandleMessage(ctx, userID, event.Message.Text)

	var err error
	if result.ImageURL != "" {
		err = h.lineClient.ReplyWithImage(ctx, event.ReplyToken, result.Text, result.ImageURL)
	} else {
		err = h.lineClient.ReplyText(ctx, event.ReplyToken, result.Text)
	}
	if err != nil {
		log.Printf("line reply failed for user %s: %v", userID, err)
	}
}
