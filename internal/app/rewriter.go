package app

import (
	"context"
	"fmt"
	"log"
	"strings"

	"seoulholic-bot/internal/ai"
)

const (
	rewriteHistoryWindow = 8
	rewriteContentMaxLen = 300
	rewriteTemperature   = 0.3
	rewriteMaxTokens     = 150

	defaultRewriteMinLen = 4
)

// completer is the slice of the LLM client the rewriter needs.
type completer interface {
	Complete(ctx context.Context, messages []ai.ChatMessage, opts ai.CompleteOptions) (string, error)
}

// QueryRewriter turns a follow-up question into a standalone search query
// using the conversation history. Every failure mode degrades to the
// original text so retrieval always has something to work with.
type QueryRewriter struct {
	client completer
	minLen int
}

func NewQueryRewriter(client completer) *QueryRewriter {
	return &QueryRewriter{client: client, minLen: defaultRewriteMinLen}
}

// WithMinLength overrides the rune count below which the text is passed
// through untouched.
func (r *QueryRewriter) WithMinLength(minLen int) *QueryRewriter {
	if minLen > 0 {
		r.minLen = minLen
	}
	return r
}

func (r *QueryRewriter) Rewrite(ctx context.Context, userText string, history []ai.ChatMessage) string {
	if r.client == nil || len(history) == 0 {
		return userText
	}

	// Very short texts ("โปร", "ok") carry too little signal to rephrase
	// and are not worth a completion call.
	if len([]rune(strings.TrimSpace(userText))) < r.minLen {
		return userText
	}

	conversation := formatHistory(history)
	if conversation == "" {
		return userText
	}

	prompt := fmt.Sprintf(`Conversation History:
%s
User's Follow-up Question: %s

Task: Rephrase the user's follow-up question to be a standalone question that includes necessary context from the history. If the user's question is already standalone or changes the topic completely, return it exactly as is. Do not answer the question.

Standalone Question:`, conversation, userText)

	rewritten, err := r.client.Complete(ctx, []ai.ChatMessage{
		{Role: ai.RoleUser, Content: prompt},
	}, ai.CompleteOptions{
		Temperature: rewriteTemperature,
		MaxTokens:   rewriteMaxTokens,
	})
	if err != nil {
		log.Printf("query rewrite failed, using original text: %v", err)
		return userText
	}

	rewritten = strings.Trim(strings.TrimSpace(rewritten), `"`)
	if rewritten == "" {
		return userText
	}
	return rewritten
}

// formatHistory renders the last turns as "User:"/"Assistant:" lines,
// skipping system messages and capping each turn so the rewrite prompt
// stays small.
func formatHistory(history []ai.ChatMessage) string {
	start := 0
	if len(history) > rewriteHistoryWindow {
		start = len(history) - rewriteHistoryWindow
	}

	var b strings.Builder
	for _, msg := range history[start:] {
		if msg.Role == ai.RoleSystem || msg.Content == "" {
			continue
		}
		role := "Assistant"
		if msg.Role == ai.RoleUser {
			role = "User"
		}
		content := msg.Content
		if runes := []rune(content); len(runes) > rewriteContentMaxLen {
			content = string(runes[:rewriteContentMaxLen])
		}
		fmt.Fprintf(&b, "%s: %s\n", role, content)
	}
	return b.String()
}
