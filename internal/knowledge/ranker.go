package knowledge

import (
	"context"
	"fmt"
	"log"
	"math"
	"sort"
	"strings"
)

const (
	defaultTopK      = 3
	defaultThreshold = 0.25
	keywordFallbackN = 2
)

var promotionKeywords = []string{
	"โปร", "promotion", "ลด", "discount", "ราคา", "price", "โปรโมชั่น",
}

// Retriever ranks knowledge documents against a query by cosine similarity.
type Retriever struct {
	store     *Store
	embedder  Embedder
	topK      int
	threshold float32
}

func NewRetriever(store *Store, embedder Embedder, topK int, threshold float32) *Retriever {
	if topK <= 0 {
		topK = defaultTopK
	}
	if threshold <= 0 {
		threshold = defaultThreshold
	}
	return &Retriever{
		store:     store,
		embedder:  embedder,
		topK:      topK,
		threshold: threshold,
	}
}

// Relevant returns a formatted context block for the query, or empty string
// when nothing qualifies. searchQuery is the (possibly rewritten) text used
// for similarity; rawQuery is the customer's literal text and drives the
// promotion override, since rewriting can paraphrase away the promo words.
// Retrieval never fails the turn: every error path degrades to "".
func (r *Retriever) Relevant(ctx context.Context, rawQuery, searchQuery string) string {
	docs := r.store.Documents()
	if len(docs) == 0 {
		return ""
	}

	hasEmbeddings := false
	for _, doc := range docs {
		if len(doc.Embedding) > 0 {
			hasEmbeddings = true
			break
		}
	}
	if r.embedder == nil || !hasEmbeddings {
		return r.keywordFallback(docs, searchQuery)
	}

	queryEmbedding, err := r.embedder.Embed(ctx, searchQuery)
	if err != nil || len(queryEmbedding) == 0 {
		if err != nil {
			log.Printf("query embedding failed, skipping retrieval: %v", err)
		}
		return ""
	}

	type scored struct {
		doc   Document
		score float32
	}
	ranked := make([]scored, 0, len(docs))
	for _, doc := range docs {
		if len(doc.Embedding) == 0 {
			continue
		}
		ranked = append(ranked, scored{doc: doc, score: cosineSimilarity(queryEmbedding, doc.Embedding)})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	var blocks []string

	askingPromo := containsPromotionKeyword(rawQuery)
	if askingPromo {
		for _, doc := range docs {
			if doc.Source == PromotionSource {
				blocks = append(blocks, fmt.Sprintf("--- โปรโมชั่นล่าสุดจาก Facebook ---\n%s", doc.Content))
				break
			}
		}
	}

	count := 0
	for _, item := range ranked {
		if count >= r.topK {
			break
		}
		if item.score < r.threshold {
			break
		}
		if askingPromo && item.doc.Source == PromotionSource {
			continue
		}
		blocks = append(blocks, fmt.Sprintf("--- ข้อมูลเกี่ยวกับ %s (Score: %.2f) ---\n%s",
			item.doc.Source, item.score, item.doc.Content))
		count++
	}

	return strings.Join(blocks, "\n\n")
}

// keywordFallback matches document source names as substrings of the query,
// used when no embeddings are available (e.g. the Typhoon provider).
func (r *Retriever) keywordFallback(docs []Document, query string) string {
	queryLower := strings.ToLower(query)
	var blocks []string
	for _, doc := range docs {
		if len(blocks) >= keywordFallbackN {
			break
		}
		if strings.Contains(queryLower, strings.ToLower(doc.Source)) {
			blocks = append(blocks, fmt.Sprintf("--- %s ---\n%s", doc.Source, doc.Content))
		}
	}
	return strings.Join(blocks, "\n\n")
}

func containsPromotionKeyword(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range promotionKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// cosineSimilarity is zero when either vector has zero norm or the
// dimensions disagree.
func cosineSimilarity(a, b []float32) float32 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA <= 0 || normB <= 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
