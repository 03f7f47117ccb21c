package ai

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"seoulholic-bot/internal/config"
)

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Provider names reported by the client.
const (
	ProviderTyphoon = "typhoon"
	ProviderOpenAI  = "openai"
)

// Client talks to an OpenAI-compatible chat/embedding API. Provider
// selection happens once at construction: if the Typhoon key is configured
// the Thai-specialized provider is used exclusively; Typhoon has no
// embedding endpoint, so Embed short-circuits to an empty vector there.
type Client struct {
	httpClient      *http.Client
	embedHTTPClient *http.Client

	provider       string
	baseURL        string
	apiKey         string
	model          string
	embeddingModel string
}

type CompleteOptions struct {
	Temperature float64
	MaxTokens   int
}

func NewClient(cfg config.LLMConfig) *Client {
	c := &Client{
		httpClient:      &http.Client{Timeout: 90 * time.Second},
		embedHTTPClient: &http.Client{Timeout: 60 * time.Second},
		embeddingModel:  cfg.EmbeddingModel,
	}

	if strings.TrimSpace(cfg.TyphoonAPIKey) != "" {
		c.provider = ProviderTyphoon
		c.apiKey = cfg.TyphoonAPIKey
		c.baseURL = cfg.TyphoonBaseURL
		c.model = cfg.TyphoonModel
		log.Printf("llm client using typhoon provider, model=%s", c.model)
	} else {
		c.provider = ProviderOpenAI
		c.apiKey = cfg.APIKey
		c.baseURL = cfg.BaseURL
		c.model = cfg.Model
		log.Printf("llm client using openai-compatible provider, model=%s", c.model)
	}
	return c
}

func (c *Client) Provider() string { return c.provider }

// Configured reports whether a credential is present. Without one the chat
// pipeline degrades to a fixed "not configured" reply instead of failing.
func (c *Client) Configured() bool {
	return strings.TrimSpace(c.apiKey) != ""
}

func (c *Client) Complete(ctx context.Context, messages []ChatMessage, opts CompleteOptions) (string, error) {
	if !c.Configured() {
		return "", fmt.Errorf("llm client is not configured")
	}

	reqBody := map[string]interface{}{
		"model":       c.model,
		"messages":    messages,
		"stream":      false,
		"temperature": opts.Temperature,
	}
	if opts.MaxTokens > 0 {
		reqBody["max_tokens"] = opts.MaxTokens
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal llm request failed: %w", err)
	}

	url := strings.TrimRight(c.baseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("build llm request failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("llm request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read llm response failed: %w", err)
	}
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("llm response status %d: %s", resp.StatusCode, string(raw))
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("parse llm json failed: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("empty llm choices")
	}
	return parsed.Choices[0].Message.Content, nil
}

// StreamComplete pulls SSE chunks and hands each text fragment to onChunk in
// order. The caller cancels by returning an error from onChunk or cancelling
// ctx; the in-flight request is discarded with the response body.
func (c *Client) StreamComplete(
	ctx context.Context,
	messages []ChatMessage,
	opts CompleteOptions,
	onChunk func(chunk string) error,
) (string, error) {
	if !c.Configured() {
		return "", fmt.Errorf("llm client is not configured")
	}

	reqBody := map[string]interface{}{
		"model":       c.model,
		"messages":    messages,
		"stream":      true,
		"temperature": opts.Temperature,
	}
	if opts.MaxTokens > 0 {
		reqBody["max_tokens"] = opts.MaxTokens
	}
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal llm stream request failed: %w", err)
	}

	url := strings.TrimRight(c.baseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("build llm stream request failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("llm stream request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("llm stream status %d: %s", resp.StatusCode, string(raw))
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 2*1024*1024)

	var full strings.Builder
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if payload == "[DONE]" {
			break
		}

		var chunk struct {
			Choices []struct {
				Delta struct {
					Content string `json:"content"`
				} `json:"delta"`
			} `json:"choices"`
		}
		if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
			continue
		}
		if len(chunk.Choices) == 0 {
			continue
		}
		text := chunk.Choices[0].Delta.Content
		if text == "" {
			continue
		}

		full.WriteString(text)
		if err := onChunk(text); err != nil {
			return "", err
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("scan llm stream failed: %w", err)
	}
	return full.String(), nil
}
