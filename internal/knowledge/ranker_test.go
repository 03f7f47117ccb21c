package knowledge

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func storeWithDocs(docs []Document) *Store {
	s := NewStore("", nil)
	s.swap(docs)
	return s
}

func TestRelevant_RanksBySimilarityDescending(t *testing.T) {
	docs := []Document{
		{Source: "Botox", Content: "botox info", Embedding: []float32{0, 1}},
		{Source: "Filler", Content: "filler info", Embedding: []float32{1, 0}},
		{Source: "Laser", Content: "laser info", Embedding: []float32{0.7, 0.7}},
	}
	embedder := &mockEmbedder{vectors: map[string][]float32{"q": {1, 0}}}
	r := NewRetriever(storeWithDocs(docs), embedder, 3, 0.25)

	out := r.Relevant(context.Background(), "q", "q")
	fillerIdx := strings.Index(out, "Filler")
	laserIdx := strings.Index(out, "Laser")
	if fillerIdx == -1 || laserIdx == -1 {
		t.Fatalf("expected Filler and Laser in output: %q", out)
	}
	if fillerIdx > laserIdx {
		t.Errorf("higher-scored document listed later: %q", out)
	}
	if strings.Contains(out, "Botox") {
		t.Errorf("below-threshold document included: %q", out)
	}
}

func TestRelevant_AnnotatesScores(t *testing.T) {
	docs := []Document{{Source: "Filler", Content: "filler info", Embedding: []float32{1, 0}}}
	embedder := &mockEmbedder{vectors: map[string][]float32{"q": {1, 0}}}
	r := NewRetriever(storeWithDocs(docs), embedder, 3, 0.25)

	out := r.Relevant(context.Background(), "q", "q")
	if !strings.Contains(out, "Score: 1.00") {
		t.Fatalf("expected score annotation: %q", out)
	}
}

func TestRelevant_TopKLimit(t *testing.T) {
	docs := []Document{
		{Source: "A", Content: "a", Embedding: []float32{1, 0}},
		{Source: "B", Content: "b", Embedding: []float32{0.9, 0.1}},
		{Source: "C", Content: "c", Embedding: []float32{0.8, 0.2}},
		{Source: "D", Content: "d", Embedding: []float32{0.7, 0.3}},
	}
	embedder := &mockEmbedder{vectors: map[string][]float32{"q": {1, 0}}}
	r := NewRetriever(storeWithDocs(docs), embedder, 2, 0.25)

	out := r.Relevant(context.Background(), "q", "q")
	if got := strings.Count(out, "ข้อมูลเกี่ยวกับ"); got != 2 {
		t.Fatalf("expected 2 ranked blocks, got %d: %q", got, out)
	}
}

func TestRelevant_PromotionOverridePinsFacebookPromotionsFirstOnce(t *testing.T) {
	docs := []Document{
		{Source: "Filler", Content: "filler info", Embedding: []float32{1, 0}},
		{Source: PromotionSource, Content: "โปรเดือนนี้", Embedding: []float32{0.99, 0.1}},
	}
	embedder := &mockEmbedder{vectors: map[string][]float32{"โปรโมชั่นอะไรดี": {1, 0}}}
	r := NewRetriever(storeWithDocs(docs), embedder, 3, 0.25)

	out := r.Relevant(context.Background(), "โปรโมชั่นอะไรดี", "โปรโมชั่นอะไรดี")
	if !strings.HasPrefix(out, "--- โปรโมชั่นล่าสุดจาก Facebook ---") {
		t.Fatalf("promotion document not pinned first: %q", out)
	}
	if got := strings.Count(out, "โปรเดือนนี้"); got != 1 {
		t.Errorf("promotion content should appear exactly once, got %d", got)
	}
}

func TestRelevant_PromotionOverrideUsesRawQuery(t *testing.T) {
	docs := []Document{
		{Source: PromotionSource, Content: "โปรเดือนนี้", Embedding: []float32{0, 1}},
		{Source: "Filler", Content: "filler info", Embedding: []float32{1, 0}},
	}
	embedder := &mockEmbedder{vectors: map[string][]float32{"rewritten filler question": {1, 0}}}
	r := NewRetriever(storeWithDocs(docs), embedder, 3, 0.25)

	// The raw text asks about promotions even though the rewrite does not.
	out := r.Relevant(context.Background(), "แล้วโปรล่ะ", "rewritten filler question")
	if !strings.Contains(out, "โปรโมชั่นล่าสุดจาก Facebook") {
		t.Fatalf("raw-query promotion keyword ignored: %q", out)
	}
}

func TestRelevant_KeywordFallbackWithoutEmbeddings(t *testing.T) {
	docs := []Document{
		{Source: "Filler", Content: "filler info"},
		{Source: "Botox", Content: "botox info"},
	}
	r := NewRetriever(storeWithDocs(docs), &mockEmbedder{}, 3, 0.25)

	out := r.Relevant(context.Background(), "อยากรู้เรื่อง filler ค่ะ", "อยากรู้เรื่อง filler ค่ะ")
	if !strings.Contains(out, "filler info") {
		t.Fatalf("keyword fallback missed: %q", out)
	}
	if strings.Contains(out, "botox info") {
		t.Errorf("unmatched document included: %q", out)
	}
}

func TestRelevant_EmbedErrorDegradesToEmpty(t *testing.T) {
	docs := []Document{{Source: "Filler", Content: "filler info", Embedding: []float32{1, 0}}}
	embedder := &mockEmbedder{err: errors.New("provider down")}
	r := NewRetriever(storeWithDocs(docs), embedder, 3, 0.25)

	if out := r.Relevant(context.Background(), "q", "q"); out != "" {
		t.Fatalf("expected empty context on embed failure, got %q", out)
	}
}

func TestRelevant_EmptyStore(t *testing.T) {
	r := NewRetriever(storeWithDocs(nil), &mockEmbedder{}, 3, 0.25)
	if out := r.Relevant(context.Background(), "q", "q"); out != "" {
		t.Fatalf("expected empty context for empty store, got %q", out)
	}
}

func TestCosineSimilarity(t *testing.T) {
	if got := cosineSimilarity([]float32{1, 0}, []float32{1, 0}); got < 0.999 {
		t.Errorf("identical vectors should score ~1, got %v", got)
	}
	if got := cosineSimilarity([]float32{1, 0}, []float32{0, 1}); got != 0 {
		t.Errorf("orthogonal vectors should score 0, got %v", got)
	}
	if got := cosineSimilarity([]float32{0, 0}, []float32{1, 0}); got != 0 {
		t.Errorf("zero-norm vector should score 0, got %v", got)
	}
	if got := cosineSimilarity([]float32{1}, []float32{1, 0}); got != 0 {
		t.Errorf("dimension mismatch should score 0, got %v", got)
	}
}
