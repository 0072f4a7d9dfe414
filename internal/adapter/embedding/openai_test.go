package embedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func embeddingHandler(t *testing.T, dim int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/embeddings" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		var req embeddingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		resp := embeddingResponse{}
		// Reverse order to check that Index is honoured.
		for i := len(req.Input) - 1; i >= 0; i-- {
			vec := make([]float32, dim)
			vec[0] = float32(i + 1)
			resp.Data = append(resp.Data, embeddingData{Embedding: vec, Index: i})
		}
		json.NewEncoder(w).Encode(resp)
	}
}

func TestOllamaEmbedder_Encode(t *testing.T) {
	server := httptest.NewServer(embeddingHandler(t, 3))
	defer server.Close()

	enc, err := NewOllamaEmbedder("test-model", server.URL, Options{Dimension: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	vecs, err := enc.Encode(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if len(vecs) != 2 {
		t.Fatalf("expected 2 vectors, got %d", len(vecs))
	}
	if vecs[0][0] != 1 || vecs[1][0] != 2 {
		t.Errorf("expected vectors in input order, got %v", vecs)
	}
	if enc.ModelName() != "test-model" {
		t.Errorf("expected model test-model, got %s", enc.ModelName())
	}
}

func TestOllamaEmbedder_DefaultDimension(t *testing.T) {
	enc, err := NewOllamaEmbedder("all-minilm", "", Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if enc.Dimension() != 384 {
		t.Errorf("expected 384 for all-minilm, got %d", enc.Dimension())
	}
}

func TestOpenAIEmbedder_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	ok := embeddingHandler(t, 2)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		ok(w, r)
	}))
	defer server.Close()

	enc, err := NewOllamaEmbedder("m", server.URL, Options{Dimension: 2, MaxRetries: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := enc.Encode(context.Background(), []string{"a"}); err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if calls.Load() != 2 {
		t.Errorf("expected 2 calls, got %d", calls.Load())
	}
}

func TestOpenAIEmbedder_ClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	enc, _ := NewOllamaEmbedder("m", server.URL, Options{Dimension: 2, MaxRetries: 3})

	if _, err := enc.Encode(context.Background(), []string{"a"}); err == nil {
		t.Fatal("expected error for 400 response")
	}
	if calls.Load() != 1 {
		t.Errorf("expected a single call, got %d", calls.Load())
	}
}

func TestOpenAIEmbedder_DimensionMismatch(t *testing.T) {
	server := httptest.NewServer(embeddingHandler(t, 5))
	defer server.Close()

	enc, _ := NewOllamaEmbedder("m", server.URL, Options{Dimension: 3})

	if _, err := enc.Encode(context.Background(), []string{"a"}); err == nil {
		t.Error("expected dimension mismatch error")
	}
}

func TestOpenAIEmbedder_MissingAPIKey(t *testing.T) {
	t.Setenv("FAQBOT_TEST_EMPTY_KEY", "")

	if _, err := NewOpenAIEmbedder("FAQBOT_TEST_EMPTY_KEY", "text-embedding-3-small", Options{}); err == nil {
		t.Error("expected error when API key is missing")
	}
}
