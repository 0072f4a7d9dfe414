package port

import "faqbot/internal/domain"

// Index answers nearest-neighbour queries over the knowledge base.
type Index interface {
	// TopK returns at most k entries ordered by descending cosine similarity.
	TopK(query []float32, k int) ([]domain.Suggestion, error)

	// Len returns the number of indexed entries.
	Len() int
}
