package session

import (
	"sync"

	"seoulholic-bot/internal/ai"
)

const defaultWindow = 20

// Store keeps one in-memory conversation per user id. Sessions do not
// survive a restart; that is accepted behavior, not a defect.
type Store struct {
	mu       sync.Mutex
	sessions map[string][]ai.ChatMessage

	window       int
	systemPrompt string
	greeting     string
}

func NewStore(window int, systemPrompt, greeting string) *Store {
	if window <= 0 {
		window = defaultWindow
	}
	return &Store{
		sessions:     make(map[string][]ai.ChatMessage),
		window:       window,
		systemPrompt: systemPrompt,
		greeting:     greeting,
	}
}

// GetOrCreate returns a copy of the user's history, seeding a new session
// with the system prompt and a canned greeting.
func (s *Store) GetOrCreate(userID string) []ai.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyMessages(s.getOrCreateLocked(userID))
}

// Append adds a turn and trims the session to the system prompt plus the
// most recent window messages. Older turns are discarded irreversibly.
func (s *Store) Append(userID string, msg ai.ChatMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()

	messages := append(s.getOrCreateLocked(userID), msg)
	if len(messages) > s.window+1 {
		trimmed := make([]ai.ChatMessage, 0, s.window+1)
		trimmed = append(trimmed, messages[0])
		trimmed = append(trimmed, messages[len(messages)-s.window:]...)
		messages = trimmed
	}
	s.sessions[userID] = messages
}

// Clear deletes the user's session entirely.
func (s *Store) Clear(userID string) {
	s.mu.Lock()
	delete(s.sessions, userID)
	s.mu.Unlock()
}

// Count returns the number of active sessions.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Store) getOrCreateLocked(userID string) []ai.ChatMessage {
	if messages, ok := s.sessions[userID]; ok {
		return messages
	}
	messages := []ai.ChatMessage{
		{Role: ai.RoleSystem, Content: s.systemPrompt},
		{Role: ai.RoleAssistant, Content: s.greeting},
	}
	s.sessions[userID] = messages
	return messages
}

func copyMessages(messages []ai.ChatMessage) []ai.ChatMessage {
	out := make([]ai.ChatMessage, len(messages))
	copy(out, messages)
	return out
}
