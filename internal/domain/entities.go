package domain

import "time"

// KnowledgeEntry is one precomputed FAQ item. Its position in the knowledge
// base is its stable identifier.
type KnowledgeEntry struct {
	Question  string
	Answer    string
	Label     string
	Embedding []float32
}

// Suggestion is a scored candidate produced by one similarity query.
type Suggestion struct {
	Question string  `json:"question"`
	Answer   string  `json:"answer"`
	Score    float64 `json:"score"`
}

// ConversationState is the per-session follow-up memory.
// Pending is either empty or the complete suggestion set last offered.
type ConversationState struct {
	Pending []Suggestion
}

// Awaiting reports whether a suggestion set is waiting for a follow-up.
func (s *ConversationState) Awaiting() bool {
	return s != nil && len(s.Pending) > 0
}

// Clear drops any pending suggestions. It is a no-op on a nil state.
func (s *ConversationState) Clear() {
	if s == nil {
		return
	}
	s.Pending = nil
}

type ReplyKind string

const (
	ReplyAnswer      ReplyKind = "answer"
	ReplySuggestions ReplyKind = "suggestions"
	ReplyNoMatch     ReplyKind = "no_match"
	ReplyGreeting    ReplyKind = "greeting"
	ReplyGoodbye     ReplyKind = "goodbye"
)

// Reply is the outcome of one chat turn.
type Reply struct {
	Text  string
	Kind  ReplyKind
	Score float64
	Label string
}

// Manifest describes how a knowledge-base artifact was built.
type Manifest struct {
	SchemaVersion int       `json:"schema_version"`
	EncoderModel  string    `json:"encoder_model"`
	EncoderHash   string    `json:"encoder_hash"`
	Dimension     int       `json:"dimension"`
	Entries       int       `json:"entries"`
	BuiltAt       time.Time `json:"built_at"`
}
