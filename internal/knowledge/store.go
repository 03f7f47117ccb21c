package knowledge

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"seoulholic-bot/internal/pkg/pdfextract"
)

// PromotionSource is the document holding the latest Facebook promotions;
// the ranker pins it for promotion-related questions.
const PromotionSource = "FacebookPromotions"

// embeddingBatchSize keeps batch calls under common provider limits.
const embeddingBatchSize = 10

// Document is one knowledge-base file. Immutable after load; a reload
// replaces the whole set.
type Document struct {
	Source    string
	Content   string
	Embedding []float32
}

type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// Store holds the in-memory document set. Readers always observe either the
// previous complete set or the new complete set, never a mix.
type Store struct {
	mu   sync.RWMutex
	docs []Document

	dir      string
	embedder Embedder
}

func NewStore(dir string, embedder Embedder) *Store {
	return &Store{dir: dir, embedder: embedder}
}

// Load reads every .txt and .pdf file under the knowledge directory, embeds
// the contents when an embedding backend is available, and atomically swaps
// the document set. A missing directory yields an empty set, not an error.
func (s *Store) Load(ctx context.Context) error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("knowledge dir %s missing, loading empty set", s.dir)
			s.swap(nil)
			return nil
		}
		return err
	}

	var docs []Document
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		path := filepath.Join(s.dir, name)
		ext := strings.ToLower(filepath.Ext(name))

		var content string
		switch ext {
		case ".txt":
			raw, readErr := os.ReadFile(path)
			if readErr != nil {
				log.Printf("read knowledge file %s failed: %v", path, readErr)
				continue
			}
			content = string(raw)
		case ".pdf":
			text, pdfErr := pdfextract.ExtractFile(path)
			if pdfErr != nil {
				log.Printf("extract knowledge pdf %s failed: %v", path, pdfErr)
				continue
			}
			content = text
		default:
			continue
		}

		if strings.TrimSpace(content) == "" {
			continue
		}
		docs = append(docs, Document{
			Source:  strings.TrimSuffix(name, filepath.Ext(name)),
			Content: content,
		})
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].Source < docs[j].Source })

	if s.embedder != nil {
		s.embedAll(ctx, docs)
	}

	s.swap(docs)
	log.Printf("knowledge base loaded: %d documents", len(docs))
	return nil
}

// Documents returns the current complete set. The slice and its documents
// are read-only by convention; a reload swaps in a new slice.
func (s *Store) Documents() []Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.docs
}

func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

func (s *Store) swap(docs []Document) {
	s.mu.Lock()
	s.docs = docs
	s.mu.Unlock()
}

// embedAll fills in document embeddings in provider-sized batches. Failures
// leave the affected documents without embeddings; retrieval then degrades
// to keyword matching rather than failing the load.
func (s *Store) embedAll(ctx context.Context, docs []Document) {
	for start := 0; start < len(docs); start += embeddingBatchSize {
		end := start + embeddingBatchSize
		if end > len(docs) {
			end = len(docs)
		}

		texts := make([]string, 0, end-start)
		for _, doc := range docs[start:end] {
			texts = append(texts, doc.Content)
		}

		embeddings, err := s.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			log.Printf("embed knowledge batch failed: %v", err)
			continue
		}
		if len(embeddings) != end-start {
			// Typhoon short-circuits to nil; keyword mode applies.
			continue
		}
		for i := range embeddings {
			docs[start+i].Embedding = embeddings[i]
		}
	}

	// Embeddings must share one dimensionality; drop any stragglers.
	dim := 0
	for i := range docs {
		if len(docs[i].Embedding) == 0 {
			continue
		}
		if dim == 0 {
			dim = len(docs[i].Embedding)
			continue
		}
		if len(docs[i].Embedding) != dim {
			log.Printf("dropping mismatched embedding for %s (%d dims, expected %d)",
				docs[i].Source, len(docs[i].Embedding), dim)
			docs[i].Embedding = nil
		}
	}
}
