package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"faqbot/internal/domain"
	"faqbot/internal/port"
)

// CurrentSchemaVersion is the current artifact schema version.
// Increment this when making breaking changes to the storage format.
const CurrentSchemaVersion = 1

// ErrIncompatible means the artifact was built by a different encoder or
// schema and must be rebuilt before it can be served.
var ErrIncompatible = errors.New("knowledge base incompatible")

// EncoderFingerprint hashes everything that makes two encoders' vectors
// comparable. Any change means every stored embedding must be recomputed.
func EncoderFingerprint(model string, dimension int) string {
	relevant := struct {
		Schema    int    `json:"schema"`
		Model     string `json:"model"`
		Dimension int    `json:"dimension"`
	}{
		Schema:    CurrentSchemaVersion,
		Model:     model,
		Dimension: dimension,
	}

	data, _ := json.Marshal(relevant)
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:8])
}

// NewManifest describes an artifact of n entries built with enc.
func NewManifest(enc port.Encoder, n int, builtAt time.Time) domain.Manifest {
	return domain.Manifest{
		SchemaVersion: CurrentSchemaVersion,
		EncoderModel:  enc.ModelName(),
		EncoderHash:   EncoderFingerprint(enc.ModelName(), enc.Dimension()),
		Dimension:     enc.Dimension(),
		Entries:       n,
		BuiltAt:       builtAt.UTC(),
	}
}

// CheckCompatibility verifies that m was produced by the same schema and
// encoder as enc.
func CheckCompatibility(m domain.Manifest, enc port.Encoder) error {
	switch {
	case m.SchemaVersion > CurrentSchemaVersion:
		return fmt.Errorf("%w: built by newer version (schema v%d > v%d)", ErrIncompatible, m.SchemaVersion, CurrentSchemaVersion)
	case m.SchemaVersion < CurrentSchemaVersion:
		return fmt.Errorf("%w: schema v%d is outdated (current v%d), rebuild required", ErrIncompatible, m.SchemaVersion, CurrentSchemaVersion)
	case m.EncoderModel != enc.ModelName():
		return fmt.Errorf("%w: built with encoder %q but %q is configured, rebuild required", ErrIncompatible, m.EncoderModel, enc.ModelName())
	case m.Dimension != enc.Dimension():
		return fmt.Errorf("%w: built with dimension %d but encoder produces %d, rebuild required", ErrIncompatible, m.Dimension, enc.Dimension())
	case m.EncoderHash != EncoderFingerprint(enc.ModelName(), enc.Dimension()):
		return fmt.Errorf("%w: encoder fingerprint changed, rebuild required", ErrIncompatible)
	}
	return nil
}
