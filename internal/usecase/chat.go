package usecase

import (
	"context"
	"log/slog"
	"strings"

	"faqbot/internal/domain"
	"faqbot/internal/port"
	"github.com/google/uuid"
)

// ChatRequest is one inbound chat message.
type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}

// ChatResponse is the reply to a ChatRequest. Reset tells the client to
// discard anything it holds for the conversation.
type ChatResponse struct {
	Response  string           `json:"response"`
	Reset     bool             `json:"reset"`
	SessionID string           `json:"session_id,omitempty"`
	Kind      domain.ReplyKind `json:"kind,omitempty"`
}

// ChatOptions holds the canned replies handled before the responder.
type ChatOptions struct {
	Greeting string
	Goodbye  string
}

// ChatService is the boundary in front of the responder: it validates input,
// handles greeting and reset commands and scopes conversation state to the
// caller's session.
type ChatService struct {
	responder *Responder
	sessions  port.SessionStore
	opts      ChatOptions
	logger    *slog.Logger
	newID     func() string
}

// NewChatService creates a chat service.
func NewChatService(responder *Responder, sessions port.SessionStore, opts ChatOptions, logger *slog.Logger) *ChatService {
	if opts.Greeting == "" {
		opts.Greeting = "Hi! Ask me about OHS."
	}
	if opts.Goodbye == "" {
		opts.Goodbye = "Goodbye!"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ChatService{
		responder: responder,
		sessions:  sessions,
		opts:      opts,
		logger:    logger,
		newID:     uuid.NewString,
	}
}

// Handle answers one message. It returns domain.ErrEmptyInput for blank
// messages and a *domain.ServiceError when the knowledge base cannot be
// queried. A missing session id is replaced by a new one, which is echoed
// back in the response.
func (s *ChatService) Handle(ctx context.Context, req ChatRequest) (ChatResponse, error) {
	msg := strings.TrimSpace(req.Message)
	if msg == "" {
		return ChatResponse{}, domain.ErrEmptyInput
	}
	lower := strings.ToLower(msg)

	if lower == "bye" || lower == "clear" {
		if req.SessionID != "" {
			s.sessions.Delete(req.SessionID)
		}
		return ChatResponse{Response: s.opts.Goodbye, Reset: true, Kind: domain.ReplyGoodbye}, nil
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = s.newID()
	}

	if strings.Contains(lower, "hello") {
		return ChatResponse{Response: s.opts.Greeting, SessionID: sessionID, Kind: domain.ReplyGreeting}, nil
	}

	state, release := s.sessions.Acquire(sessionID)
	defer release()

	reply, err := s.responder.Predict(ctx, msg, state)
	if err != nil {
		return ChatResponse{}, err
	}

	s.logger.Debug("chat reply", "session", sessionID, "kind", reply.Kind, "score", reply.Score, "label", reply.Label)
	return ChatResponse{Response: reply.Text, SessionID: sessionID, Kind: reply.Kind}, nil
}
