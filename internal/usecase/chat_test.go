package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"faqbot/internal/adapter/session"
	"faqbot/internal/domain"
)

func newTestChat(best float64) (*ChatService, *session.Store) {
	sessions := session.NewStore(100, time.Minute)
	r := newTestResponder(&fakeEncoder{}, &fakeIndex{hits: complaintHits(best)}, ResponderOptions{Topic: "OHS"})
	return NewChatService(r, sessions, ChatOptions{}, nil), sessions
}

func TestChat_EmptyInput(t *testing.T) {
	chat, _ := newTestChat(0.9)

	for _, msg := range []string{"", "   ", "\n"} {
		if _, err := chat.Handle(context.Background(), ChatRequest{Message: msg, SessionID: "s"}); !errors.Is(err, domain.ErrEmptyInput) {
			t.Errorf("expected ErrEmptyInput for %q, got %v", msg, err)
		}
	}
}

func TestChat_Goodbye(t *testing.T) {
	chat, sessions := newTestChat(0.3)
	ctx := context.Background()

	if _, err := chat.Handle(ctx, ChatRequest{Message: "complaint?", SessionID: "s1"}); err != nil {
		t.Fatal(err)
	}
	if sessions.Len() != 1 {
		t.Fatalf("expected 1 session, got %d", sessions.Len())
	}

	for _, msg := range []string{"bye", "  CLEAR "} {
		resp, err := chat.Handle(ctx, ChatRequest{Message: msg, SessionID: "s1"})
		if err != nil {
			t.Fatal(err)
		}
		if resp.Response != "Goodbye!" || !resp.Reset {
			t.Errorf("unexpected response for %q: %+v", msg, resp)
		}
	}
	if sessions.Len() != 0 {
		t.Errorf("expected session to be deleted, got %d", sessions.Len())
	}

	// Follow-up after reset starts from FRESH and triggers a search.
	resp, err := chat.Handle(ctx, ChatRequest{Message: "1", SessionID: "s1"})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Kind != domain.ReplySuggestions {
		t.Errorf("expected fresh search after reset, got %s", resp.Kind)
	}
}

func TestChat_Greeting(t *testing.T) {
	chat, sessions := newTestChat(0.9)

	resp, err := chat.Handle(context.Background(), ChatRequest{Message: "Hello there"})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Response != "Hi! Ask me about OHS." {
		t.Errorf("unexpected greeting: %s", resp.Response)
	}
	if resp.SessionID == "" {
		t.Error("expected a session id to be assigned")
	}
	if sessions.Len() != 0 {
		t.Error("greeting must not create conversation state")
	}
}

func TestChat_AssignsSessionID(t *testing.T) {
	chat, _ := newTestChat(0.3)
	ctx := context.Background()

	resp, err := chat.Handle(ctx, ChatRequest{Message: "complaint"})
	if err != nil {
		t.Fatal(err)
	}
	if resp.SessionID == "" {
		t.Fatal("expected a generated session id")
	}

	resp, err = chat.Handle(ctx, ChatRequest{Message: "2", SessionID: resp.SessionID})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Response != "Within three months of the incident." {
		t.Errorf("expected follow-up within generated session, got %s", resp.Response)
	}
}

func TestChat_SessionIsolation(t *testing.T) {
	chat, _ := newTestChat(0.42)
	ctx := context.Background()

	const sessions = 20
	var wg sync.WaitGroup
	errs := make(chan error, sessions)

	for i := 0; i < sessions; i++ {
		wg.Add(1)
		go func(id string, pick int) {
			defer wg.Done()
			if _, err := chat.Handle(ctx, ChatRequest{Message: "hw to file complaint", SessionID: id}); err != nil {
				errs <- err
				return
			}
			resp, err := chat.Handle(ctx, ChatRequest{Message: fmt.Sprint(pick), SessionID: id})
			if err != nil {
				errs <- err
				return
			}
			want := complaintHits(0.42)[pick-1].Answer
			if resp.Response != want {
				errs <- fmt.Errorf("session %s: expected %q, got %q", id, want, resp.Response)
			}
		}(fmt.Sprintf("session-%d", i), i%3+1)
	}

	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestChat_ServiceUnavailable(t *testing.T) {
	sessions := session.NewStore(10, time.Minute)
	r := newTestResponder(&fakeEncoder{err: errors.New("down")}, &fakeIndex{hits: complaintHits(0.9)}, ResponderOptions{})
	chat := NewChatService(r, sessions, ChatOptions{}, nil)

	_, err := chat.Handle(context.Background(), ChatRequest{Message: "complaint", SessionID: "s"})
	if !errors.Is(err, domain.ErrServiceUnavailable) {
		t.Errorf("expected ErrServiceUnavailable, got %v", err)
	}
}
