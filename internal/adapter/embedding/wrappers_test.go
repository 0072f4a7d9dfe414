package embedding

import (
	"context"
	"errors"
	"testing"
	"time"

	"faqbot/internal/domain"
	"github.com/sony/gobreaker"
)

type countingEncoder struct {
	calls int
	texts int
	err   error
}

func (e *countingEncoder) Encode(ctx context.Context, texts []string) ([][]float32, error) {
	e.calls++
	e.texts += len(texts)
	if e.err != nil {
		return nil, e.err
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = []float32{float32(len(text)), 1}
	}
	return out, nil
}

func (e *countingEncoder) Dimension() int    { return 2 }
func (e *countingEncoder) ModelName() string { return "counting" }

func TestCachedEncoder_HitsSkipEncoder(t *testing.T) {
	inner := &countingEncoder{}
	enc, err := NewCachedEncoder(inner, 8)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	if _, err := enc.Encode(ctx, []string{"what is posh"}); err != nil {
		t.Fatal(err)
	}
	vecs, err := enc.Encode(ctx, []string{"what is posh", "new question"})
	if err != nil {
		t.Fatal(err)
	}

	if inner.texts != 2 {
		t.Errorf("expected only uncached texts to reach the encoder, got %d", inner.texts)
	}
	if vecs[0][0] != float32(len("what is posh")) || vecs[1][0] != float32(len("new question")) {
		t.Errorf("vectors out of order: %v", vecs)
	}
	if enc.Len() != 2 {
		t.Errorf("expected 2 cached vectors, got %d", enc.Len())
	}
	if enc.ModelName() != "counting" || enc.Dimension() != 2 {
		t.Error("expected model name and dimension of the wrapped encoder")
	}
}

func TestCachedEncoder_ErrorsNotCached(t *testing.T) {
	inner := &countingEncoder{err: errors.New("down")}
	enc, _ := NewCachedEncoder(inner, 8)

	if _, err := enc.Encode(context.Background(), []string{"q"}); err == nil {
		t.Fatal("expected error")
	}
	if enc.Len() != 0 {
		t.Errorf("expected nothing cached after error, got %d", enc.Len())
	}
}

func TestBreakerEncoder_OpensAfterFailures(t *testing.T) {
	cause := errors.New("connection refused")
	inner := &countingEncoder{err: cause}
	enc := NewBreakerEncoder(inner, BreakerSettings{
		MinRequests: 2,
		FailureRate: 0.5,
		Timeout:     time.Minute,
	})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := enc.Encode(ctx, []string{"q"})
		if !errors.Is(err, cause) {
			t.Fatalf("call %d: expected underlying error, got %v", i, err)
		}
	}

	if enc.State() != gobreaker.StateOpen {
		t.Fatalf("expected breaker to be open, got %s", enc.State())
	}

	_, err := enc.Encode(ctx, []string{"q"})
	if !errors.Is(err, domain.ErrServiceUnavailable) {
		t.Errorf("expected service unavailable, got %v", err)
	}
	if inner.calls != 2 {
		t.Errorf("expected open breaker to skip the encoder, got %d calls", inner.calls)
	}
}

func TestBreakerEncoder_PassesThrough(t *testing.T) {
	enc := NewBreakerEncoder(&countingEncoder{}, BreakerSettings{})

	vecs, err := enc.Encode(context.Background(), []string{"abc"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vecs) != 1 || vecs[0][0] != 3 {
		t.Errorf("unexpected vectors: %v", vecs)
	}
}
