package embedding

import (
	"context"
	"fmt"

	"faqbot/internal/port"
	lru "github.com/hashicorp/golang-lru/v2"
)

// CachedEncoder memoises vectors by exact input text. Returned vectors are
// shared between callers and must not be modified.
type CachedEncoder struct {
	next  port.Encoder
	cache *lru.Cache[string, []float32]
}

// NewCachedEncoder wraps next with an LRU cache holding up to size vectors.
func NewCachedEncoder(next port.Encoder, size int) (*CachedEncoder, error) {
	if size <= 0 {
		size = 1024
	}
	cache, err := lru.New[string, []float32](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create encoder cache: %w", err)
	}
	return &CachedEncoder{next: next, cache: cache}, nil
}

func (e *CachedEncoder) Encode(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	var missing []string
	var missingIdx []int

	for i, text := range texts {
		if v, ok := e.cache.Get(text); ok {
			out[i] = v
			continue
		}
		missing = append(missing, text)
		missingIdx = append(missingIdx, i)
	}

	if len(missing) == 0 {
		return out, nil
	}

	vectors, err := e.next.Encode(ctx, missing)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(missing) {
		return nil, fmt.Errorf("encoder returned %d vectors for %d texts", len(vectors), len(missing))
	}

	for j, v := range vectors {
		out[missingIdx[j]] = v
		e.cache.Add(missing[j], v)
	}
	return out, nil
}

// Len returns the number of cached vectors.
func (e *CachedEncoder) Len() int {
	return e.cache.Len()
}

func (e *CachedEncoder) Dimension() int {
	return e.next.Dimension()
}

func (e *CachedEncoder) ModelName() string {
	return e.next.ModelName()
}
