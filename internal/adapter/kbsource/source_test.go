package kbsource

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParse_Mapping(t *testing.T) {
	data := `
label: posh
entries:
  - question: "  What is POSH?  "
    answer: Prevention of Sexual Harassment at the workplace.
  - question: Who can file a complaint?
    answer: Any aggrieved woman employee.
    label: complaints
`
	entries, err := Parse([]byte(data), "posh.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Question != "What is POSH?" {
		t.Errorf("expected trimmed question, got %q", entries[0].Question)
	}
	if entries[0].Label != "posh" {
		t.Errorf("expected file label, got %q", entries[0].Label)
	}
	if entries[1].Label != "complaints" {
		t.Errorf("expected entry label override, got %q", entries[1].Label)
	}
}

func TestParse_ListAndJSON(t *testing.T) {
	data := `[{"question": "What is POCSO?", "answer": "Protection of Children from Sexual Offences Act."}]`

	entries, err := Parse([]byte(data), "pocso.json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 || entries[0].Answer != "Protection of Children from Sexual Offences Act." {
		t.Errorf("unexpected entries: %+v", entries)
	}
	if entries[0].Label != "" {
		t.Errorf("expected no label, got %q", entries[0].Label)
	}
}

func TestParse_Empty(t *testing.T) {
	entries, err := Parse([]byte(""), "empty.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no entries, got %d", len(entries))
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"missing answer", "entries:\n  - question: q\n", "missing answer"},
		{"missing question", "entries:\n  - answer: a\n", "missing question"},
		{"scalar document", "just text", "expected a mapping"},
		{"bad yaml", "entries: [", "bad.yaml"},
	}

	for _, tt := range tests {
		_, err := Parse([]byte(tt.data), "bad.yaml")
		if err == nil {
			t.Errorf("%s: expected error", tt.name)
			continue
		}
		if !strings.Contains(err.Error(), tt.want) {
			t.Errorf("%s: expected error containing %q, got %v", tt.name, tt.want, err)
		}
	}
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "faq.yaml")
	if err := os.WriteFile(path, []byte("- question: q\n  answer: a\n"), 0644); err != nil {
		t.Fatal(err)
	}

	entries, err := ReadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected 1 entry, got %d", len(entries))
	}
}
