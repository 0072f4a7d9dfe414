package classifier

import (
	"math"

	"faqbot/internal/domain"
)

// Centroid is a nearest-centroid label classifier built from labelled
// knowledge entries. Each label is represented by the mean of its entries'
// embeddings.
type Centroid struct {
	labels    []string
	centroids [][]float64
	norms     []float64
}

// NewCentroid builds a classifier from entries that carry a label.
// It returns nil when no entry is labelled.
func NewCentroid(entries []domain.KnowledgeEntry) *Centroid {
	pos := make(map[string]int)
	c := &Centroid{}
	var counts []int

	for _, e := range entries {
		if e.Label == "" || len(e.Embedding) == 0 {
			continue
		}
		i, ok := pos[e.Label]
		if !ok {
			i = len(c.labels)
			pos[e.Label] = i
			c.labels = append(c.labels, e.Label)
			c.centroids = append(c.centroids, make([]float64, len(e.Embedding)))
			counts = append(counts, 0)
		}
		if len(e.Embedding) != len(c.centroids[i]) {
			continue
		}
		for j, v := range e.Embedding {
			c.centroids[i][j] += float64(v)
		}
		counts[i]++
	}

	if len(c.labels) == 0 {
		return nil
	}

	c.norms = make([]float64, len(c.labels))
	for i, centroid := range c.centroids {
		var sum float64
		for j := range centroid {
			centroid[j] /= float64(counts[i])
			sum += centroid[j] * centroid[j]
		}
		c.norms[i] = math.Sqrt(sum)
	}
	return c
}

// Classify returns the label whose centroid is most similar to vector and
// that cosine similarity. Ties go to the label seen first.
func (c *Centroid) Classify(vector []float32) (string, float64) {
	var qNorm float64
	for _, v := range vector {
		qNorm += float64(v) * float64(v)
	}
	qNorm = math.Sqrt(qNorm)

	best, bestScore := "", math.Inf(-1)
	for i, centroid := range c.centroids {
		score := 0.0
		if qNorm > 0 && c.norms[i] > 0 && len(centroid) == len(vector) {
			var dot float64
			for j, v := range vector {
				dot += float64(v) * centroid[j]
			}
			score = dot / (qNorm * c.norms[i])
		}
		if score > bestScore {
			best, bestScore = c.labels[i], score
		}
	}
	return best, bestScore
}

// Labels returns the known labels in first-seen order.
func (c *Centroid) Labels() []string {
	return c.labels
}
