package port

import "context"

// Encoder turns text into fixed-length vectors for similarity comparison.
type Encoder interface {
	// Encode returns one vector per input text, in input order.
	// Empty strings still yield a vector.
	Encode(ctx context.Context, texts []string) ([][]float32, error)

	// Dimension returns the vector dimension.
	Dimension() int

	// ModelName returns the name of the encoding model.
	ModelName() string
}
