package line

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const messagingAPIBase = "https://api.line.me/v2/bot"

var ErrNotConfigured = errors.New("line client is not configured")

// Event is a single webhook event, reduced to the fields the bot consumes.
type Event struct {
	Type       string `json:"type"`
	ReplyToken string `json:"replyToken"`
	Source     struct {
		Type   string `json:"type"`
		UserID string `json:"userId"`
	} `json:"source"`
	Message struct {
		Type string `json:"type"`
		ID   string `json:"id"`
		Text string `json:"text"`
	} `json:"message"`
}

// IsTextMessage reports whether the event carries user text the bot should answer.
func (e Event) IsTextMessage() bool {
	return e.Type == "message" && e.Message.Type == "text"
}

type webhookBody struct {
	Destination string  `json:"destination"`
	Events      []Event `json:"events"`
}

// Client talks to the LINE Messaging API.
type Client struct {
	httpClient    *http.Client
	channelSecret string
	accessToken   string
	baseURL       string
}

func NewClient(channelSecret, accessToken string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		channelSecret: channelSecret,
		accessToken:   accessToken,
		baseURL:       messagingAPIBase,
	}
}

func (c *Client) Configured() bool {
	return c.channelSecret != "" && c.accessToken != ""
}

// ValidateSignature checks the X-Line-Signature header against the raw
// request body using HMAC-SHA256 with the channel secret.
func (c *Client) ValidateSignature(body []byte, signature string) bool {
	if c.channelSecret == "" || signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(c.channelSecret))
	mac.Write(body)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// ParseEvents decodes a webhook payload body into events.
func ParseEvents(body []byte) ([]Event, error) {
	var payload webhookBody
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode webhook payload failed: %w", err)
	}
	return payload.Events, nil
}

type textMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type imageMessage struct {
	Type               string `json:"type"`
	OriginalContentURL string `json:"originalContentUrl"`
	PreviewImageURL    string `json:"previewImageUrl"`
}

// ReplyText sends a single text message in response to a reply token.
func (c *Client) ReplyText(ctx context.Context, replyToken, text string) error {
	return c.reply(ctx, replyToken, []any{
		textMessage{Type: "text", Text: text},
	})
}

// ReplyWithImage sends a text message followed by an image. imageURL must
// be an HTTPS URL reachable by LINE's servers.
func (c *Client) ReplyWithImage(ctx context.Context, replyToken, text, imageURL string) error {
	return c.reply(ctx, replyToken, []any{
		textMessage{Type: "text", Text: text},
		imageMessage{Type: "image", OriginalContentURL: imageURL, PreviewImageURL: imageURL},
	})
}

func (c *Client) reply(ctx context.Context, replyToken string, messages []any) error {
	if !c.Configured() {
		return ErrNotConfigured
	}

	payload := map[string]any{
		"replyToken": replyToken,
		"messages":   messages,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal reply payload failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/message/reply", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build reply request failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send reply request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("line reply returned status %d: %s", resp.StatusCode, string(raw))
	}
	return nil
}
