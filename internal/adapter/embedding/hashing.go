package embedding

import (
	"context"
	"math"

	"faqbot/internal/adapter/analyzer"
	"github.com/cespare/xxhash/v2"
)

// HashingModel is the model name recorded for HashingEncoder artifacts.
// Bump it whenever feature extraction or weights change.
const HashingModel = "hashing-v1"

const (
	wordWeight    = 1.0
	bigramWeight  = 0.7
	trigramWeight = 0.4
)

// HashingEncoder is a local, deterministic sentence encoder. It hashes word
// unigrams, word bigrams and character trigrams into signed buckets and
// L2-normalises the result, so typo'd or reworded questions still land near
// their canonical form.
type HashingEncoder struct {
	dimension int
	tokenizer *analyzer.Tokenizer
}

// NewHashingEncoder creates a hashing encoder with the given dimension.
func NewHashingEncoder(dimension int) *HashingEncoder {
	if dimension <= 0 {
		dimension = 384
	}
	return &HashingEncoder{
		dimension: dimension,
		tokenizer: analyzer.NewTokenizer(true),
	}
}

func (e *HashingEncoder) Encode(ctx context.Context, texts []string) ([][]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = e.vector(text)
	}
	return vectors, nil
}

func (e *HashingEncoder) vector(text string) []float32 {
	acc := make([]float64, e.dimension)
	tokens := e.tokenizer.Tokenize(text)

	for i, tok := range tokens {
		e.add(acc, "w:"+tok, wordWeight)
		if i+1 < len(tokens) {
			e.add(acc, "b:"+tok+" "+tokens[i+1], bigramWeight)
		}
		padded := []rune(" " + tok + " ")
		for j := 0; j+3 <= len(padded); j++ {
			e.add(acc, "c:"+string(padded[j:j+3]), trigramWeight)
		}
	}

	var norm float64
	for _, v := range acc {
		norm += v * v
	}
	out := make([]float32, e.dimension)
	if norm == 0 {
		return out
	}
	norm = math.Sqrt(norm)
	for i, v := range acc {
		out[i] = float32(v / norm)
	}
	return out
}

func (e *HashingEncoder) add(acc []float64, feature string, weight float64) {
	h := xxhash.Sum64String(feature)
	idx := h % uint64(e.dimension)
	if h>>63 == 1 {
		weight = -weight
	}
	acc[idx] += weight
}

func (e *HashingEncoder) Dimension() int {
	return e.dimension
}

func (e *HashingEncoder) ModelName() string {
	return HashingModel
}
