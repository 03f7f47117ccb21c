package app

import (
	"context"
	"errors"
	"strings"
	"testing"

	"seoulholic-bot/internal/ai"
)

type mockRewriteLLM struct {
	response  string
	err       error
	calls     int
	gotPrompt string
}

func (m *mockRewriteLLM) Complete(_ context.Context, messages []ai.ChatMessage, _ ai.CompleteOptions) (string, error) {
	m.calls++
	if len(messages) > 0 {
		m.gotPrompt = messages[0].Content
	}
	return m.response, m.err
}

func TestRewriteMakesQuestionStandalone(t *testing.T) {
	llm := &mockRewriteLLM{response: "Sculptra ราคาเท่าไหร่"}
	r := NewQueryRewriter(llm)

	history := []ai.ChatMessage{
		{Role: ai.RoleSystem, Content: "system persona"},
		{Role: ai.RoleUser, Content: "สนใจ Sculptra ค่ะ"},
		{Role: ai.RoleAssistant, Content: "Sculptra ช่วยกระตุ้นคอลลาเจนค่ะ"},
	}

	got := r.Rewrite(context.Background(), "ราคาเท่าไหร่คะ", history)

	if got != "Sculptra ราคาเท่าไหร่" {
		t.Errorf("Rewrite = %q, want standalone question", got)
	}
	if strings.Contains(llm.gotPrompt, "system persona") {
		t.Error("system messages must be excluded from rewrite prompt")
	}
	if !strings.Contains(llm.gotPrompt, "User: สนใจ Sculptra ค่ะ") {
		t.Errorf("expected user turn in prompt, got %q", llm.gotPrompt)
	}
	if !strings.Contains(llm.gotPrompt, "Standalone Question:") {
		t.Errorf("expected rewrite instruction in prompt, got %q", llm.gotPrompt)
	}
}

func TestRewriteSkipsWithoutHistory(t *testing.T) {
	llm := &mockRewriteLLM{response: "should not be used"}
	r := NewQueryRewriter(llm)

	if got := r.Rewrite(context.Background(), "ราคาเท่าไหร่คะ", nil); got != "ราคาเท่าไหร่คะ" {
		t.Errorf("Rewrite = %q, want original text", got)
	}
	if llm.calls != 0 {
		t.Errorf("expected no llm call, got %d", llm.calls)
	}
}

func TestRewriteSkipsVeryShortText(t *testing.T) {
	llm := &mockRewriteLLM{response: "rewritten long question"}
	r := NewQueryRewriter(llm)

	history := []ai.ChatMessage{{Role: ai.RoleUser, Content: "สนใจ Sculptra ค่ะ"}}
	for _, text := range []string{"โปร", "ok", " ลด "} {
		if got := r.Rewrite(context.Background(), text, history); got != text {
			t.Errorf("Rewrite(%q) = %q, want short text passed through", text, got)
		}
	}
	if llm.calls != 0 {
		t.Errorf("expected no llm call for very short texts, got %d", llm.calls)
	}
}

func TestRewriteMinLengthOverride(t *testing.T) {
	llm := &mockRewriteLLM{response: "rewritten"}
	r := NewQueryRewriter(llm).WithMinLength(10)

	history := []ai.ChatMessage{{Role: ai.RoleUser, Content: "สนใจ Sculptra ค่ะ"}}
	if got := r.Rewrite(context.Background(), "ราคาล่ะคะ", history); got != "ราคาล่ะคะ" {
		t.Errorf("Rewrite = %q, want pass-through below raised threshold", got)
	}
	if llm.calls != 0 {
		t.Errorf("expected no llm call below raised threshold, got %d", llm.calls)
	}

	if got := r.Rewrite(context.Background(), "ราคาเท่าไหร่คะ", history); got != "rewritten" {
		t.Errorf("Rewrite = %q, want rewrite above threshold", got)
	}
	if llm.calls != 1 {
		t.Errorf("expected one llm call above threshold, got %d", llm.calls)
	}
}

func TestRewriteSkipsSystemOnlyHistory(t *testing.T) {
	llm := &mockRewriteLLM{response: "should not be used"}
	r := NewQueryRewriter(llm)

	history := []ai.ChatMessage{{Role: ai.RoleSystem, Content: "persona"}}
	if got := r.Rewrite(context.Background(), "คำถามค่ะ", history); got != "คำถามค่ะ" {
		t.Errorf("Rewrite = %q, want original text", got)
	}
	if llm.calls != 0 {
		t.Errorf("expected no llm call, got %d", llm.calls)
	}
}

func TestRewriteFallsBackOnError(t *testing.T) {
	llm := &mockRewriteLLM{err: errors.New("provider down")}
	r := NewQueryRewriter(llm)

	history := []ai.ChatMessage{{Role: ai.RoleUser, Content: "สนใจฟิลเลอร์ค่ะ"}}
	if got := r.Rewrite(context.Background(), "ราคาเท่าไหร่คะ", history); got != "ราคาเท่าไหร่คะ" {
		t.Errorf("Rewrite = %q, want original text on failure", got)
	}
}

func TestRewriteFallsBackOnEmptyResult(t *testing.T) {
	llm := &mockRewriteLLM{response: `""`}
	r := NewQueryRewriter(llm)

	history := []ai.ChatMessage{{Role: ai.RoleUser, Content: "สนใจฟิลเลอร์ค่ะ"}}
	if got := r.Rewrite(context.Background(), "ราคาเท่าไหร่คะ", history); got != "ราคาเท่าไหร่คะ" {
		t.Errorf("Rewrite = %q, want original text for empty result", got)
	}
}

func TestRewriteCapsHistoryWindow(t *testing.T) {
	llm := &mockRewriteLLM{response: "rewritten"}
	r := NewQueryRewriter(llm)

	var history []ai.ChatMessage
	for i := 0; i < 20; i++ {
		history = append(history, ai.ChatMessage{Role: ai.RoleUser, Content: "turn"})
	}
	long := strings.Repeat("ย", 500)
	history = append(history, ai.ChatMessage{Role: ai.RoleAssistant, Content: long})

	r.Rewrite(context.Background(), "ต่อจากเดิมค่ะ", history)

	if n := strings.Count(llm.gotPrompt, "User: turn"); n != rewriteHistoryWindow-1 {
		t.Errorf("expected %d retained user turns, got %d", rewriteHistoryWindow-1, n)
	}
	if strings.Contains(llm.gotPrompt, strings.Repeat("ย", rewriteContentMaxLen+1)) {
		t.Error("expected long turns capped in rewrite prompt")
	}
}
