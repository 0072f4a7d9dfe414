package port

import "faqbot/internal/domain"

// SessionStore holds conversation state keyed by session id.
type SessionStore interface {
	// Acquire returns the state for id, creating it if needed. The caller has
	// exclusive access to the state until release is called.
	Acquire(id string) (state *domain.ConversationState, release func())

	// Delete discards the state for id.
	Delete(id string)
}
