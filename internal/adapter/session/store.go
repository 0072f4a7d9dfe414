package session

import (
	"sync"
	"time"

	"faqbot/internal/domain"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

type entry struct {
	mu    sync.Mutex
	state domain.ConversationState

	// Guarded by Store.mu.
	refs  int
	reset bool
}

// Store keeps one ConversationState per session id. Requests for the same
// session are serialised by a per-session lock; different sessions never
// contend beyond the short map lookup. Least recently used sessions are
// evicted once MaxSessions is reached and idle sessions expire after TTL.
// Sessions held by a request are pinned, so eviction, expiry or Delete never
// let a second request for the same id run alongside the first.
type Store struct {
	mu       sync.Mutex
	sessions *expirable.LRU[string, *entry]
	held     map[string]*entry
}

// NewStore creates a session store. maxSessions <= 0 means unbounded and
// ttl <= 0 means sessions never expire.
func NewStore(maxSessions int, ttl time.Duration) *Store {
	if maxSessions < 0 {
		maxSessions = 0
	}
	if ttl < 0 {
		ttl = 0
	}
	return &Store{
		sessions: expirable.NewLRU[string, *entry](maxSessions, nil, ttl),
		held:     make(map[string]*entry),
	}
}

// Acquire returns the state for id, creating an empty one on first use, with
// the session's lock held. The caller must call release; extra calls are no-ops.
func (s *Store) Acquire(id string) (*domain.ConversationState, func()) {
	s.mu.Lock()
	e, ok := s.held[id]
	if !ok {
		e, ok = s.sessions.Get(id)
		if !ok {
			e = &entry{}
		}
		s.held[id] = e
	}
	e.refs++
	// Re-adding refreshes both recency and expiry.
	s.sessions.Add(id, e)
	s.mu.Unlock()

	e.mu.Lock()

	s.mu.Lock()
	if e.reset {
		e.state = domain.ConversationState{}
		e.reset = false
		s.sessions.Add(id, e)
	}
	s.mu.Unlock()

	var once sync.Once
	return &e.state, func() {
		once.Do(func() {
			s.mu.Lock()
			e.refs--
			if e.refs == 0 && s.held[id] == e {
				delete(s.held, id)
			}
			s.mu.Unlock()
			e.mu.Unlock()
		})
	}
}

// Delete discards the state for id. A request currently holding the session
// finishes first; the next Acquire starts fresh.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions.Remove(id)
	if e, ok := s.held[id]; ok {
		e.reset = true
	}
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions.Len()
}
