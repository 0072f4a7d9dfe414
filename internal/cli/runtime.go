package cli

import (
	"fmt"
	"log/slog"
	"os"

	"faqbot/config"
	"faqbot/internal/adapter/embedding"
	"faqbot/internal/adapter/session"
	"faqbot/internal/port"
	"faqbot/internal/usecase"
	"github.com/sony/gobreaker"
)

const (
	defaultOllamaModel = "all-minilm"
	defaultOpenAIModel = "text-embedding-3-small"
)

// remoteModel returns model unless it is unset or names the local hashing
// encoder, in which case the provider default is used.
func remoteModel(model, fallback string) string {
	if model == "" || model == embedding.HashingModel {
		return fallback
	}
	return model
}

// newEncoder creates the sentence encoder selected by c. Remote encoders are
// guarded by a circuit breaker; every encoder gets the query vector cache
// when one is configured.
func newEncoder(c config.EncoderConfig, logger *slog.Logger) (port.Encoder, error) {
	var enc port.Encoder
	var err error

	opts := embedding.Options{
		Timeout:    c.Timeout,
		MaxRetries: c.MaxRetries,
		Dimension:  c.Dimension,
	}

	switch c.Provider {
	case "", "hashing":
		enc = embedding.NewHashingEncoder(c.Dimension)
	case "ollama":
		enc, err = embedding.NewOllamaEmbedder(remoteModel(c.Model, defaultOllamaModel), c.BaseURL, opts)
	case "openai":
		model := remoteModel(c.Model, defaultOpenAIModel)
		if c.BaseURL != "" {
			enc, err = embedding.NewOpenAICompatibleEmbedder(c.APIKeyEnv, model, c.BaseURL, opts)
		} else {
			enc, err = embedding.NewOpenAIEmbedder(c.APIKeyEnv, model, opts)
		}
	default:
		return nil, fmt.Errorf("unsupported encoder provider: %s", c.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create encoder: %w", err)
	}

	if c.Provider != "" && c.Provider != "hashing" && c.Breaker.Enabled {
		enc = embedding.NewBreakerEncoder(enc, embedding.BreakerSettings{
			Name:        c.Provider,
			MaxRequests: c.Breaker.MaxRequests,
			Interval:    c.Breaker.Interval,
			Timeout:     c.Breaker.Timeout,
			MinRequests: c.Breaker.MinRequests,
			FailureRate: c.Breaker.FailureRate,
			OnStateChange: func(name string, from, to gobreaker.State) {
				logger.Warn("encoder circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
			},
		})
	}

	if c.CacheSize > 0 {
		cached, err := embedding.NewCachedEncoder(enc, c.CacheSize)
		if err != nil {
			return nil, err
		}
		enc = cached
	}

	return enc, nil
}

// runtime is the loaded serving stack shared by ask, serve and query.
type runtime struct {
	encoder   port.Encoder
	kb        *usecase.KnowledgeBase
	responder *usecase.Responder
	chat      *usecase.ChatService
}

func loadRuntime(c *config.Config, dir string, logger *slog.Logger) (*runtime, error) {
	dbPath := c.ResolveKnowledgeDBPath(dir)
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("no knowledge base found at %s. Run 'faqbot build' first", dbPath)
	}

	enc, err := newEncoder(c.Encoder, logger)
	if err != nil {
		return nil, err
	}

	kb, err := usecase.LoadKnowledgeBase(dbPath, enc)
	if err != nil {
		return nil, err
	}

	var classifier port.Classifier
	if c.Responder.Classifier {
		classifier = kb.ClassifierPort()
	}

	responder := usecase.NewResponder(enc, kb.Index, classifier, usecase.ResponderOptions{
		Threshold:       c.Responder.Threshold,
		TopN:            c.Responder.TopN,
		SuggestionFloor: c.Responder.SuggestionFloor,
		Topic:           c.Responder.Topic,
	}, logger)

	sessions := session.NewStore(c.Session.MaxSessions, c.Session.TTL)
	chat := usecase.NewChatService(responder, sessions, usecase.ChatOptions{
		Greeting: c.Responder.Greeting,
		Goodbye:  c.Responder.Goodbye,
	}, logger)

	logger.Debug("knowledge base loaded",
		"path", dbPath,
		"entries", kb.Index.Len(),
		"model", kb.Manifest.EncoderModel,
		"built_at", kb.Manifest.BuiltAt,
		"classifier", classifier != nil,
	)

	return &runtime{encoder: enc, kb: kb, responder: responder, chat: chat}, nil
}
