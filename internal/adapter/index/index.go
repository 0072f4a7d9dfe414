package index

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"faqbot/internal/domain"
)

var ErrEmpty = errors.New("knowledge base is empty")

// Index is an immutable in-memory knowledge base searched by brute-force
// cosine similarity. Fine for FAQ-sized catalogues; swap for an ANN
// structure if the catalogue grows to many thousands of entries.
type Index struct {
	entries   []domain.KnowledgeEntry
	norms     []float64
	dimension int
}

// New builds an index over entries, which must all have the given dimension.
// The slice is copied; entry order is preserved.
func New(entries []domain.KnowledgeEntry, dimension int) (*Index, error) {
	if len(entries) == 0 {
		return nil, ErrEmpty
	}
	if dimension <= 0 {
		return nil, fmt.Errorf("invalid dimension: %d", dimension)
	}

	idx := &Index{
		entries:   make([]domain.KnowledgeEntry, len(entries)),
		norms:     make([]float64, len(entries)),
		dimension: dimension,
	}
	for i, e := range entries {
		if len(e.Embedding) != dimension {
			return nil, fmt.Errorf("entry %d (%q): dimension mismatch: expected %d, got %d", i, e.Question, dimension, len(e.Embedding))
		}
		idx.entries[i] = e
		idx.norms[i] = norm(e.Embedding)
	}
	return idx, nil
}

// TopK returns the k entries most similar to query, best first.
// Equal scores keep insertion order.
func (x *Index) TopK(query []float32, k int) ([]domain.Suggestion, error) {
	if len(query) != x.dimension {
		return nil, fmt.Errorf("query dimension mismatch: expected %d, got %d", x.dimension, len(query))
	}
	if k <= 0 {
		return nil, nil
	}

	qNorm := norm(query)

	type scored struct {
		pos   int
		score float64
	}
	scores := make([]scored, len(x.entries))
	for i, e := range x.entries {
		scores[i] = scored{pos: i, score: cosine(query, qNorm, e.Embedding, x.norms[i])}
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].score > scores[j].score
	})

	if k > len(scores) {
		k = len(scores)
	}

	results := make([]domain.Suggestion, k)
	for i := 0; i < k; i++ {
		e := x.entries[scores[i].pos]
		results[i] = domain.Suggestion{
			Question: e.Question,
			Answer:   e.Answer,
			Score:    scores[i].score,
		}
	}
	return results, nil
}

// Len returns the number of entries.
func (x *Index) Len() int {
	return len(x.entries)
}

// Dimension returns the embedding dimension.
func (x *Index) Dimension() int {
	return x.dimension
}

// Entries returns the indexed entries in insertion order. Callers must not
// modify them.
func (x *Index) Entries() []domain.KnowledgeEntry {
	return x.entries
}

func norm(v []float32) float64 {
	var sum float64
	for _, f := range v {
		sum += float64(f) * float64(f)
	}
	return math.Sqrt(sum)
}

func cosine(a []float32, normA float64, b []float32, normB float64) float64 {
	if normA == 0 || normB == 0 {
		return 0
	}
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	sim := dot / (normA * normB)
	// Clamp rounding drift so scores stay within [-1, 1].
	if sim > 1 {
		return 1
	}
	if sim < -1 {
		return -1
	}
	return sim
}
