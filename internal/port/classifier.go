package port

// Classifier assigns a label to an encoded query.
type Classifier interface {
	// Classify returns the best label and its confidence.
	Classify(vector []float32) (label string, confidence float64)
}
