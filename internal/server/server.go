// Package server exposes the chat service over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"faqbot/internal/domain"
	"faqbot/internal/usecase"
)

const maxBodyBytes = 64 << 10

// Chatter handles one chat turn.
type Chatter interface {
	Handle(ctx context.Context, req usecase.ChatRequest) (usecase.ChatResponse, error)
}

// Health is reported by GET /health.
type Health struct {
	Status       string `json:"status"`
	Entries      int    `json:"entries"`
	EncoderModel string `json:"encoder_model"`
}

// Options configures the HTTP server.
type Options struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	RateLimit    float64
	RateBurst    int
	CORSOrigin   string
	ServiceName  string
}

// Server is the HTTP front of the chatbot.
type Server struct {
	chat   Chatter
	health Health
	opts   Options
	logger *slog.Logger
}

// New creates a server.
func New(chat Chatter, health Health, opts Options, logger *slog.Logger) *Server {
	if opts.ServiceName == "" {
		opts.ServiceName = "faqbot"
	}
	if logger == nil {
		logger = slog.Default()
	}
	if health.Status == "" {
		health.Status = "ok"
	}
	return &Server{chat: chat, health: health, opts: opts, logger: logger}
}

// Handler returns the routed handler wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /chat", s.handleChat)

	return Chain(mux,
		Recover(s.logger),
		Logger(s.logger),
		OTel(s.opts.ServiceName),
		CORS(s.opts.CORSOrigin),
		RateLimit(s.opts.RateLimit, s.opts.RateBurst),
	)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.opts.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "addr", s.opts.Addr, "entries", s.health.Entries)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")
	}

	shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutCtx)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.health)
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req usecase.ChatRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := s.chat.Handle(r.Context(), req)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, resp)
	case errors.Is(err, domain.ErrEmptyInput):
		writeError(w, http.StatusBadRequest, "message is required")
	case errors.Is(err, domain.ErrServiceUnavailable):
		s.logger.Error("chat unavailable", "err", err)
		writeError(w, http.StatusServiceUnavailable, "service unavailable")
	default:
		s.logger.Error("chat failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
