package app

import (
	"context"
	"log"
	"strings"
	"time"

	"seoulholic-bot/internal/ai"
	"seoulholic-bot/internal/cache"
	"seoulholic-bot/internal/guard"
	"seoulholic-bot/internal/model"
	"seoulholic-bot/internal/notify"
	"seoulholic-bot/internal/pkg/lineformat"
	"seoulholic-bot/internal/session"
)

const (
	lineMessageLimit = 4500
	chatTemperature  = 0.3

	resetResponse       = "รีเซ็ตการสนทนาเรียบร้อยแล้วค่ะ ✨ เริ่มคุยใหม่ได้เลยนะคะ"
	notConfiguredReply  = "ขออภัยค่ะ ระบบตอบอัตโนมัติยังไม่พร้อมใช้งานในขณะนี้ รบกวนติดต่อแอดมินโดยตรงนะคะ 🙏"
	completionFailReply = "ขออภัยค่ะ ระบบขัดข้องชั่วคราว รบกวนลองใหม่อีกครั้งนะคะ 🙏"
)

var resetCommands = []string{"reset", "/reset", "รีเซ็ต", "เริ่มใหม่"}

// Answer sources reported in ChatResult and transcripts.
const (
	SourceCache  = "cache"
	SourceLLM    = "llm"
	SourceGuard  = "guard"
	SourceSystem = "system"
)

// llmClient is the slice of the AI client the chat pipeline uses.
type llmClient interface {
	Configured() bool
	Complete(ctx context.Context, messages []ai.ChatMessage, opts ai.CompleteOptions) (string, error)
	StreamComplete(ctx context.Context, messages []ai.ChatMessage, opts ai.CompleteOptions, onChunk func(chunk string) error) (string, error)
}

type contextRetriever interface {
	Relevant(ctx context.Context, rawQuery, searchQuery string) string
}

type staffNotifier interface {
	Configured() bool
	NotifyCustomerInterest(ctx context.Context, customerMessage, botResponse string, intent notify.Intent) error
}

type transcriptPublisher interface {
	Publish(ctx context.Context, msg model.TranscriptMessage) error
}

// ChatResult is one answered customer turn.
type ChatResult struct {
	Text        string `json:"text"`
	ImageURL    string `json:"image_url,omitempty"`
	Source      string `json:"source"`
	FromCache   bool   `json:"from_cache"`
	Blocked     bool   `json:"blocked"`
	BlockReason string `json:"block_reason,omitempty"`
	LatencyMS   int64  `json:"latency_ms"`
}

// ChatService runs the full answer pipeline: reset handling, input guard,
// response cache, query rewriting, knowledge retrieval, completion,
// LINE-safe post-processing, and the side channels (transcript audit log
// and staff notification).
type ChatService struct {
	guard        *guard.Guard
	guardEnabled bool
	cache        cache.ResponseCache
	cacheTTL     time.Duration
	sessions     *session.Store
	rewriter     *QueryRewriter
	retriever    contextRetriever
	llm          llmClient
	images       *ImageResolver
	notifier     staffNotifier
	publisher    transcriptPublisher
}

type ChatServiceConfig struct {
	Guard        *guard.Guard
	GuardEnabled bool
	Cache        cache.ResponseCache
	CacheTTL     time.Duration
	Sessions     *session.Store
	Rewriter     *QueryRewriter
	Retriever    contextRetriever
	LLM          llmClient
	Images       *ImageResolver
	Notifier     staffNotifier
	Publisher    transcriptPublisher
}

func NewChatService(cfg ChatServiceConfig) *ChatService {
	return &ChatService{
		guard:        cfg.Guard,
		guardEnabled: cfg.GuardEnabled,
		cache:        cfg.Cache,
		cacheTTL:     cfg.CacheTTL,
		sessions:     cfg.Sessions,
		rewriter:     cfg.Rewriter,
		retriever:    cfg.Retriever,
		llm:          cfg.LLM,
		images:       cfg.Images,
		notifier:     cfg.Notifier,
		publisher:    cfg.Publisher,
	}
}

// HandleMessage answers one customer message.
func (s *ChatService) HandleMessage(ctx context.Context, userID, message string) ChatResult {
	return s.handle(ctx, userID, message, nil)
}

// StreamMessage answers one customer message, pushing completion fragments
// to onChunk as they arrive. Guard blocks, cache hits, and reset
// acknowledgements are delivered as a single chunk.
func (s *ChatService) StreamMessage(ctx context.Context, userID, message string, onChunk func(chunk string) error) ChatResult {
	if onChunk == nil {
		onChunk = func(string) error { return nil }
	}
	return s.handle(ctx, userID, message, onChunk)
}

func (s *ChatService) handle(ctx context.Context, userID, message string, onChunk func(chunk string) error) ChatResult {
	start := time.Now()

	if isResetCommand(message) {
		s.sessions.Clear(userID)
		s.emit(onChunk, resetResponse)
		return ChatResult{
			Text:      resetResponse,
			Source:    SourceSystem,
			LatencyMS: time.Since(start).Milliseconds(),
		}
	}

	if s.guardEnabled && s.guard != nil {
		verdict := s.guard.Check(message)
		if !verdict.Allowed {
			text := s.guard.Response(verdict)
			s.emit(onChunk, text)
			s.publishTranscripts(userID, message, text, SourceGuard, true)
			return ChatResult{
				Text:        text,
				Source:      SourceGuard,
				Blocked:     true,
				BlockReason: string(verdict.Result),
				LatencyMS:   time.Since(start).Milliseconds(),
			}
		}
		message = verdict.SanitizedInput
	}

	if entry, ok := s.cache.Get(ctx, message, ""); ok {
		s.sessions.Append(userID, ai.ChatMessage{Role: ai.RoleUser, Content: message})
		s.sessions.Append(userID, ai.ChatMessage{Role: ai.RoleAssistant, Content: entry.Response})
		s.emit(onChunk, entry.Response)
		s.notifyIfInterested(userID, message, entry.Response)
		s.publishTranscripts(userID, message, entry.Response, SourceCache, false)
		return ChatResult{
			Text:      entry.Response,
			ImageURL:  s.images.PublicURL(entry.ImageName),
			Source:    SourceCache,
			FromCache: true,
			LatencyMS: time.Since(start).Milliseconds(),
		}
	}

	history := s.sessions.GetOrCreate(userID)

	searchQuery := message
	if s.rewriter != nil {
		searchQuery = s.rewriter.Rewrite(ctx, message, history)
	}

	var relevantInfo string
	if s.retriever != nil {
		relevantInfo = s.retriever.Relevant(ctx, message, searchQuery)
	}

	imageName := ImageForTopic(message)

	userContent := message
	if relevantInfo != "" {
		userContent = "CONTEXT (ข้อมูลเพิ่มเติมสำหรับคำถามนี้):\n" + relevantInfo + "\n\nคำถามของลูกค้า: " + message
	}
	messages := append(history, ai.ChatMessage{Role: ai.RoleUser, Content: userContent})

	if s.llm == nil || !s.llm.Configured() {
		s.emit(onChunk, notConfiguredReply)
		return ChatResult{
			Text:      notConfiguredReply,
			Source:    SourceSystem,
			LatencyMS: time.Since(start).Milliseconds(),
		}
	}

	var raw string
	var err error
	opts := ai.CompleteOptions{Temperature: chatTemperature}
	if onChunk != nil {
		raw, err = s.llm.StreamComplete(ctx, messages, opts, onChunk)
	} else {
		raw, err = s.llm.Complete(ctx, messages, opts)
	}
	if err != nil {
		log.Printf("chat completion failed for user %s: %v", userID, err)
		s.emit(onChunk, completionFailReply)
		return ChatResult{
			Text:      completionFailReply,
			Source:    SourceSystem,
			LatencyMS: time.Since(start).Milliseconds(),
		}
	}

	cleaned := lineformat.RemoveImageRequests(raw)
	cleaned = lineformat.StripMarkdown(cleaned)
	cleaned = lineformat.Truncate(cleaned, lineMessageLimit)

	// Sessions keep the raw model output so follow-up turns see what the
	// model actually said.
	s.sessions.Append(userID, ai.ChatMessage{Role: ai.RoleUser, Content: message})
	s.sessions.Append(userID, ai.ChatMessage{Role: ai.RoleAssistant, Content: raw})

	if err := s.cache.Set(ctx, message, "", cache.Entry{
		Response:  cleaned,
		ImageName: imageName,
		Source:    SourceLLM,
	}, s.cacheTTL); err != nil {
		log.Printf("cache set failed: %v", err)
	}

	s.notifyIfInterested(userID, message, cleaned)
	s.publishTranscripts(userID, message, cleaned, SourceLLM, false)

	return ChatResult{
		Text:      cleaned,
		ImageURL:  s.images.PublicURL(imageName),
		Source:    SourceLLM,
		LatencyMS: time.Since(start).Milliseconds(),
	}
}

func (s *ChatService) emit(onChunk func(chunk string) error, text string) {
	if onChunk == nil {
		return
	}
	if err := onChunk(text); err != nil {
		log.Printf("emit chunk failed: %v", err)
	}
}

func (s *ChatService) notifyIfInterested(userID, message, response string) {
	if s.notifier == nil || !s.notifier.Configured() {
		return
	}
	intent := notify.DetectIntent(message)
	if intent == notify.IntentNone {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := s.notifier.NotifyCustomerInterest(ctx, message, response, intent); err != nil {
			log.Printf("staff notification failed for user %s: %v", userID, err)
		}
	}()
}

func (s *ChatService) publishTranscripts(userID, userMessage, botResponse, source string, blocked bool) {
	if s.publisher == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		entries := []model.TranscriptMessage{
			{UserID: userID, Role: ai.RoleUser, Content: userMessage, Source: source, Blocked: blocked},
			{UserID: userID, Role: ai.RoleAssistant, Content: botResponse, Source: source, Blocked: blocked},
		}
		for _, entry := range entries {
			if err := s.publisher.Publish(ctx, entry); err != nil {
				log.Printf("publish transcript failed for user %s: %v", userID, err)
				return
			}
		}
	}()
}

func isResetCommand(message string) bool {
	normalized := strings.ToLower(strings.TrimSpace(message))
	for _, cmd := range resetCommands {
		if normalized == cmd {
			return true
		}
	}
	return false
}
