package embedding

import (
	"context"
	"errors"
	"time"

	"faqbot/internal/domain"
	"faqbot/internal/port"
	"github.com/sony/gobreaker"
)

// BreakerSettings configures BreakerEncoder.
type BreakerSettings struct {
	Name          string
	MaxRequests   uint32
	Interval      time.Duration
	Timeout       time.Duration
	MinRequests   uint32
	FailureRate   float64
	OnStateChange func(name string, from, to gobreaker.State)
}

// BreakerEncoder stops calling a failing encoder for a while. Calls rejected
// by an open breaker are reported as domain.ServiceError.
type BreakerEncoder struct {
	next    port.Encoder
	breaker *gobreaker.CircuitBreaker
}

// NewBreakerEncoder wraps next with a circuit breaker.
func NewBreakerEncoder(next port.Encoder, s BreakerSettings) *BreakerEncoder {
	if s.Name == "" {
		s.Name = "encoder"
	}
	if s.Interval == 0 {
		s.Interval = 30 * time.Second
	}
	if s.Timeout == 0 {
		s.Timeout = 60 * time.Second
	}
	if s.MaxRequests == 0 {
		s.MaxRequests = 1
	}
	if s.MinRequests == 0 {
		s.MinRequests = 5
	}
	if s.FailureRate <= 0 || s.FailureRate > 1 {
		s.FailureRate = 0.5
	}

	minRequests, failureRate := s.MinRequests, s.FailureRate
	settings := gobreaker.Settings{
		Name:        s.Name,
		MaxRequests: s.MaxRequests,
		Interval:    s.Interval,
		Timeout:     s.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= minRequests && ratio >= failureRate
		},
		OnStateChange: s.OnStateChange,
		IsSuccessful: func(err error) bool {
			// A caller giving up is not the encoder's fault.
			return err == nil || errors.Is(err, context.Canceled)
		},
	}

	return &BreakerEncoder{
		next:    next,
		breaker: gobreaker.NewCircuitBreaker(settings),
	}
}

func (e *BreakerEncoder) Encode(ctx context.Context, texts []string) ([][]float32, error) {
	res, err := e.breaker.Execute(func() (interface{}, error) {
		return e.next.Encode(ctx, texts)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, domain.Unavailable("encoder", err)
		}
		return nil, err
	}
	return res.([][]float32), nil
}

// State returns the current breaker state.
func (e *BreakerEncoder) State() gobreaker.State {
	return e.breaker.State()
}

func (e *BreakerEncoder) Dimension() int {
	return e.next.Dimension()
}

func (e *BreakerEncoder) ModelName() string {
	return e.next.ModelName()
}
