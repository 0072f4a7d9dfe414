package usecase

import (
	"fmt"

	"faqbot/internal/adapter/classifier"
	"faqbot/internal/adapter/index"
	"faqbot/internal/adapter/store"
	"faqbot/internal/domain"
	"faqbot/internal/port"
)

// KnowledgeBase is the loaded, immutable serving state.
type KnowledgeBase struct {
	Index      *index.Index
	Classifier *classifier.Centroid // nil when no entry is labelled
	Manifest   domain.Manifest
}

// ClassifierPort returns the classifier as a port.Classifier, or nil.
func (kb *KnowledgeBase) ClassifierPort() port.Classifier {
	if kb.Classifier == nil {
		return nil
	}
	return kb.Classifier
}

// LoadKnowledgeBase opens the artifact at path, verifies it was built with
// enc and builds the in-memory index. Every failure is a ServiceError.
func LoadKnowledgeBase(path string, enc port.Encoder) (*KnowledgeBase, error) {
	st, err := store.OpenReadOnly(path)
	if err != nil {
		return nil, domain.Unavailable("knowledge base", fmt.Errorf("%s: %w", path, err))
	}
	defer st.Close()

	manifest, err := st.Manifest()
	if err != nil {
		return nil, domain.Unavailable("knowledge base", err)
	}
	if err := store.CheckCompatibility(manifest, enc); err != nil {
		return nil, domain.Unavailable("knowledge base", err)
	}

	entries, err := st.LoadEntries()
	if err != nil {
		return nil, domain.Unavailable("knowledge base", err)
	}
	if len(entries) != manifest.Entries {
		return nil, domain.Unavailable("knowledge base", fmt.Errorf("manifest lists %d entries but %d are stored", manifest.Entries, len(entries)))
	}

	idx, err := index.New(entries, manifest.Dimension)
	if err != nil {
		return nil, domain.Unavailable("knowledge base", err)
	}

	return &KnowledgeBase{
		Index:      idx,
		Classifier: classifier.NewCentroid(entries),
		Manifest:   manifest,
	}, nil
}
