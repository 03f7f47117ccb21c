package session

import (
	"fmt"
	"testing"

	"seoulholic-bot/internal/ai"
)

func TestGetOrCreate_SeedsSystemPromptAndGreeting(t *testing.T) {
	s := NewStore(20, "system prompt", "สวัสดีค่ะ")

	messages := s.GetOrCreate("user-1")
	if len(messages) != 2 {
		t.Fatalf("expected 2 seeded messages, got %d", len(messages))
	}
	if messages[0].Role != ai.RoleSystem || messages[0].Content != "system prompt" {
		t.Errorf("unexpected system message: %+v", messages[0])
	}
	if messages[1].Role != ai.RoleAssistant || messages[1].Content != "สวัสดีค่ะ" {
		t.Errorf("unexpected greeting message: %+v", messages[1])
	}
}

func TestAppend_TrimsToWindowKeepingSystemPrompt(t *testing.T) {
	s := NewStore(20, "system prompt", "greeting")

	for i := 0; i < 40; i++ {
		s.Append("user-1", ai.ChatMessage{Role: ai.RoleUser, Content: fmt.Sprintf("turn-%d", i)})
	}

	messages := s.GetOrCreate("user-1")
	if len(messages) != 21 {
		t.Fatalf("expected window+1 messages, got %d", len(messages))
	}
	if messages[0].Role != ai.RoleSystem {
		t.Fatalf("system prompt not at index 0: %+v", messages[0])
	}
	if messages[len(messages)-1].Content != "turn-39" {
		t.Errorf("most recent turn missing: %+v", messages[len(messages)-1])
	}
	if messages[1].Content != "turn-20" {
		t.Errorf("expected oldest retained turn-20, got %q", messages[1].Content)
	}
}

func TestClear_RemovesSession(t *testing.T) {
	s := NewStore(20, "sp", "hi")
	s.GetOrCreate("user-1")
	s.GetOrCreate("user-2")
	if s.Count() != 2 {
		t.Fatalf("expected 2 sessions, got %d", s.Count())
	}

	s.Clear("user-1")
	if s.Count() != 1 {
		t.Fatalf("expected 1 session after clear, got %d", s.Count())
	}

	// A cleared user starts over with a fresh seeded session.
	messages := s.GetOrCreate("user-1")
	if len(messages) != 2 {
		t.Fatalf("expected reseeded session, got %d messages", len(messages))
	}
}

func TestGetOrCreate_ReturnsCopy(t *testing.T) {
	s := NewStore(20, "sp", "hi")
	messages := s.GetOrCreate("user-1")
	messages[0].Content = "mutated"

	again := s.GetOrCreate("user-1")
	if again[0].Content != "sp" {
		t.Fatalf("store leaked internal slice: %+v", again[0])
	}
}
