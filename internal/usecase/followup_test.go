package usecase

import (
	"testing"

	"faqbot/internal/domain"
)

func pending() *domain.ConversationState {
	return &domain.ConversationState{Pending: []domain.Suggestion{
		{Question: "How to file a complaint?", Answer: "Submit a written complaint to the IC."},
		{Question: "What is the complaint deadline?", Answer: "Within three months of the incident."},
		{Question: "Who sits on the Internal Committee?", Answer: "A presiding officer and members."},
	}}
}

func TestResolveFollowUp_Numeric(t *testing.T) {
	state := pending()

	answer, ok := ResolveFollowUp(" 2 ", state)
	if !ok {
		t.Fatal("expected numeric follow-up to resolve")
	}
	if answer != "Within three months of the incident." {
		t.Errorf("unexpected answer: %s", answer)
	}
	if state.Awaiting() {
		t.Error("expected state to be cleared")
	}
}

func TestResolveFollowUp_NumericTakesPrecedence(t *testing.T) {
	state := &domain.ConversationState{Pending: []domain.Suggestion{
		{Question: "Is step 2 mandatory?", Answer: "text match"},
		{Question: "What happens next?", Answer: "numeric match"},
	}}

	answer, ok := ResolveFollowUp("2", state)
	if !ok || answer != "numeric match" {
		t.Errorf("expected numeric selection, got %q (ok=%v)", answer, ok)
	}
}

func TestResolveFollowUp_OutOfRangeFallsThrough(t *testing.T) {
	state := &domain.ConversationState{Pending: []domain.Suggestion{
		{Question: "Is the 2013 Act applicable?", Answer: "Yes."},
		{Question: "Who is covered?", Answer: "All employees."},
	}}

	answer, ok := ResolveFollowUp("2013", state)
	if !ok || answer != "Yes." {
		t.Errorf("expected text fallback for out-of-range number, got %q (ok=%v)", answer, ok)
	}

	state = pending()
	if _, ok := ResolveFollowUp("0", state); ok {
		t.Error("expected 0 to be unresolved")
	}
	if !state.Awaiting() {
		t.Error("expected state to be unchanged")
	}

	if _, ok := ResolveFollowUp("99999999999999999999999", state); ok {
		t.Error("expected overflowing number to be unresolved")
	}
}

func TestResolveFollowUp_TextMatch(t *testing.T) {
	state := pending()

	answer, ok := ResolveFollowUp("DEADLINE", state)
	if !ok || answer != "Within three months of the incident." {
		t.Errorf("expected case-insensitive substring match, got %q (ok=%v)", answer, ok)
	}
	if state.Awaiting() {
		t.Error("expected state to be cleared")
	}

	// First suggestion in order wins.
	state = pending()
	answer, _ = ResolveFollowUp("complaint", state)
	if answer != "Submit a written complaint to the IC." {
		t.Errorf("expected first matching suggestion, got %q", answer)
	}
}

func TestResolveFollowUp_NoMatch(t *testing.T) {
	state := pending()

	if _, ok := ResolveFollowUp("weather today", state); ok {
		t.Error("expected no match")
	}
	if len(state.Pending) != 3 {
		t.Errorf("expected state to be unchanged, got %d pending", len(state.Pending))
	}
}

func TestResolveFollowUp_EmptyInput(t *testing.T) {
	state := pending()

	for _, in := range []string{"", "   ", "\t\n"} {
		if _, ok := ResolveFollowUp(in, state); ok {
			t.Errorf("expected %q to be unresolved", in)
		}
	}
	if !state.Awaiting() {
		t.Error("expected state to be unchanged")
	}
}

func TestResolveFollowUp_NothingPending(t *testing.T) {
	if _, ok := ResolveFollowUp("1", &domain.ConversationState{}); ok {
		t.Error("expected no resolution without pending suggestions")
	}
	if _, ok := ResolveFollowUp("1", nil); ok {
		t.Error("expected no resolution for nil state")
	}
}

func TestResolveFollowUp_UnicodeDigits(t *testing.T) {
	state := pending()

	answer, ok := ResolveFollowUp("２", state)
	if !ok || answer != "Within three months of the incident." {
		t.Errorf("expected full-width 2 to select the second suggestion, got %q (ok=%v)", answer, ok)
	}

	state = pending()
	answer, ok = ResolveFollowUp("٣", state)
	if !ok || answer != "A presiding officer and members." {
		t.Errorf("expected Arabic-Indic 3 to select the third suggestion, got %q (ok=%v)", answer, ok)
	}

	// Superscripts are not decimal digits.
	state = pending()
	if _, ok := ResolveFollowUp("²", state); ok {
		t.Error("expected superscript two to be unresolved")
	}
}

func TestAsciiDigits(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"12", "12", true},
		{"１２", "12", true},
		{"१०", "10", true},
		{"𝟕", "7", true},
		{"1a", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := asciiDigits(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("asciiDigits(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
