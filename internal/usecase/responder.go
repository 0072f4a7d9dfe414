package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"faqbot/internal/domain"
	"faqbot/internal/port"
)

// ResponderOptions tunes the hybrid responder.
type ResponderOptions struct {
	Threshold       float64 // Best score at or above this answers directly
	TopN            int     // Candidates offered when no score reaches Threshold
	SuggestionFloor float64 // Candidates scoring below this are never offered (0 = disabled)
	Topic           string  // Used in the apology, e.g. "OHS"
}

// Responder answers a message from the knowledge base, falling back to a
// numbered list of close questions when no match is confident enough.
type Responder struct {
	encoder    port.Encoder
	index      port.Index
	classifier port.Classifier
	opts       ResponderOptions
	logger     *slog.Logger
}

// NewResponder creates a responder. classifier may be nil.
func NewResponder(
	encoder port.Encoder,
	index port.Index,
	classifier port.Classifier,
	opts ResponderOptions,
	logger *slog.Logger,
) *Responder {
	if opts.TopN <= 0 {
		opts.TopN = 3
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Responder{
		encoder:    encoder,
		index:      index,
		classifier: classifier,
		opts:       opts,
		logger:     logger,
	}
}

// Predict produces the reply to input and updates state. Backend failures
// are returned as *domain.ServiceError and leave state unchanged. A nil state
// answers the turn without follow-up memory.
func (r *Responder) Predict(ctx context.Context, input string, state *domain.ConversationState) (domain.Reply, error) {
	if state == nil {
		state = &domain.ConversationState{}
	}
	if answer, ok := ResolveFollowUp(input, state); ok {
		r.logger.Debug("follow-up resolved", "input", input)
		return domain.Reply{Text: answer, Kind: domain.ReplyAnswer}, nil
	}

	hits, label, err := r.search(ctx, input)
	if err != nil {
		return domain.Reply{}, err
	}

	best := hits[0]
	if best.Score >= r.opts.Threshold {
		state.Clear()
		r.logger.Debug("confident match", "score", best.Score, "question", best.Question, "label", label)
		return domain.Reply{Text: best.Answer, Kind: domain.ReplyAnswer, Score: best.Score, Label: label}, nil
	}

	candidates := r.offerable(hits)
	if len(candidates) == 0 {
		state.Clear()
		r.logger.Debug("no match", "score", best.Score, "label", label)
		return domain.Reply{Text: r.apology(input) + " Please rephrase your question.", Kind: domain.ReplyNoMatch, Score: best.Score, Label: label}, nil
	}

	state.Pending = candidates
	r.logger.Debug("offering suggestions", "score", best.Score, "count", len(candidates), "label", label)
	return domain.Reply{
		Text:  r.apology(input) + "\nDid you mean one of these?\n\n" + FormatSuggestions(candidates),
		Kind:  domain.ReplySuggestions,
		Score: best.Score,
		Label: label,
	}, nil
}

// Search returns the raw top-k candidates for input without touching any
// conversation state.
func (r *Responder) Search(ctx context.Context, input string, k int) ([]domain.Suggestion, error) {
	vector, err := r.encode(ctx, input)
	if err != nil {
		return nil, err
	}
	hits, err := r.index.TopK(vector, k)
	if err != nil {
		return nil, domain.Unavailable("index", err)
	}
	return hits, nil
}

func (r *Responder) search(ctx context.Context, input string) ([]domain.Suggestion, string, error) {
	vector, err := r.encode(ctx, input)
	if err != nil {
		return nil, "", err
	}

	hits, err := r.index.TopK(vector, r.opts.TopN)
	if err != nil {
		return nil, "", domain.Unavailable("index", err)
	}
	if len(hits) == 0 {
		return nil, "", domain.Unavailable("index", errors.New("no candidates returned"))
	}

	var label string
	if r.classifier != nil {
		var confidence float64
		label, confidence = r.classifier.Classify(vector)
		r.logger.Debug("classified", "label", label, "confidence", confidence)
	}
	return hits, label, nil
}

func (r *Responder) encode(ctx context.Context, input string) ([]float32, error) {
	vectors, err := r.encoder.Encode(ctx, []string{input})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, domain.Unavailable("encoder", err)
	}
	if len(vectors) != 1 {
		return nil, domain.Unavailable("encoder", fmt.Errorf("expected 1 vector, got %d", len(vectors)))
	}
	return vectors[0], nil
}

func (r *Responder) offerable(hits []domain.Suggestion) []domain.Suggestion {
	if r.opts.SuggestionFloor <= 0 {
		return hits
	}
	out := make([]domain.Suggestion, 0, len(hits))
	for _, h := range hits {
		if h.Score >= r.opts.SuggestionFloor {
			out = append(out, h)
		}
	}
	return out
}

func (r *Responder) apology(input string) string {
	if r.opts.Topic == "" {
		return fmt.Sprintf("Apologies, I could not understand \"%s\".", input)
	}
	return fmt.Sprintf("Apologies, I could not understand \"%s\" since it is not related to %s.", input, r.opts.Topic)
}

// FormatSuggestions renders a 1-based numbered list of the candidate
// questions. Answers are never included.
func FormatSuggestions(suggestions []domain.Suggestion) string {
	var sb strings.Builder
	for i, s := range suggestions {
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "%d. %s", i+1, s.Question)
	}
	return sb.String()
}
