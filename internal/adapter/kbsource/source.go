// Package kbsource parses FAQ source files. Files are YAML (JSON is accepted
// as a YAML subset) in either of two shapes:
//
//	label: posh
//	entries:
//	  - question: What is POSH?
//	    answer: The Prevention of Sexual Harassment Act, 2013.
//
// or a bare list of {question, answer, label} items.
package kbsource

import (
	"fmt"
	"os"
	"strings"

	"faqbot/internal/domain"
	"gopkg.in/yaml.v3"
)

type file struct {
	Label   string `yaml:"label"`
	Entries []item `yaml:"entries"`
}

type item struct {
	Question string `yaml:"question"`
	Answer   string `yaml:"answer"`
	Label    string `yaml:"label"`
}

// Parse decodes one source document. name is used in error messages.
// The returned entries have no embeddings yet.
func Parse(data []byte, name string) ([]domain.KnowledgeEntry, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if len(root.Content) == 0 {
		return nil, nil
	}

	var f file
	doc := root.Content[0]
	switch doc.Kind {
	case yaml.SequenceNode:
		if err := doc.Decode(&f.Entries); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
	case yaml.MappingNode:
		if err := doc.Decode(&f); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
	default:
		return nil, fmt.Errorf("%s: expected a mapping or a list of entries", name)
	}

	entries := make([]domain.KnowledgeEntry, 0, len(f.Entries))
	for i, it := range f.Entries {
		q := strings.TrimSpace(it.Question)
		a := strings.TrimSpace(it.Answer)
		if q == "" {
			return nil, fmt.Errorf("%s: entry %d: missing question", name, i+1)
		}
		if a == "" {
			return nil, fmt.Errorf("%s: entry %d (%q): missing answer", name, i+1, q)
		}
		label := strings.TrimSpace(it.Label)
		if label == "" {
			label = strings.TrimSpace(f.Label)
		}
		entries = append(entries, domain.KnowledgeEntry{
			Question: q,
			Answer:   a,
			Label:    label,
		})
	}
	return entries, nil
}

// ReadFile reads and parses the source file at path.
func ReadFile(path string) ([]domain.KnowledgeEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data, path)
}
