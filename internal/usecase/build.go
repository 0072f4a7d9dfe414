package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"faqbot/internal/adapter/fs"
	"faqbot/internal/adapter/kbsource"
	"faqbot/internal/adapter/store"
	"faqbot/internal/domain"
	"faqbot/internal/port"
)

// ErrNoEntries is returned when the sources yield no questions.
var ErrNoEntries = errors.New("no knowledge-base entries found")

// BuildUseCase turns FAQ source files into a knowledge-base artifact.
type BuildUseCase struct {
	walker    *fs.Walker
	encoder   port.Encoder
	batchSize int
	logger    *slog.Logger
}

// NewBuildUseCase creates a new build use case.
func NewBuildUseCase(
	walker *fs.Walker,
	encoder port.Encoder,
	batchSize int,
	logger *slog.Logger,
) *BuildUseCase {
	if batchSize <= 0 {
		batchSize = 64
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &BuildUseCase{
		walker:    walker,
		encoder:   encoder,
		batchSize: batchSize,
		logger:    logger,
	}
}

// BuildResult contains the results of a build.
type BuildResult struct {
	FilesRead  int
	Entries    int
	Duplicates int
	Labels     int
	Manifest   domain.Manifest
	Errors     []string
}

// Progress is called after each embedded batch with the running totals.
type Progress func(done, total int)

// Collect reads every source file under root. Files that fail to parse are
// reported in the result and skipped. Questions repeated case-insensitively
// keep their first occurrence.
func (u *BuildUseCase) Collect(root string) ([]domain.KnowledgeEntry, *BuildResult, error) {
	files, err := u.walker.Walk(root)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	result := &BuildResult{}
	seen := make(map[string]string)
	labels := make(map[string]struct{})
	var entries []domain.KnowledgeEntry

	for _, file := range files {
		parsed, err := kbsource.ReadFile(file.Path)
		if err != nil {
			result.Errors = append(result.Errors, err.Error())
			continue
		}
		result.FilesRead++

		for _, e := range parsed {
			key := strings.ToLower(e.Question)
			if first, dup := seen[key]; dup {
				result.Duplicates++
				u.logger.Warn("duplicate question skipped", "question", e.Question, "file", file.RelPath, "first", first)
				continue
			}
			seen[key] = file.RelPath
			if e.Label != "" {
				labels[e.Label] = struct{}{}
			}
			entries = append(entries, e)
		}
	}

	result.Entries = len(entries)
	result.Labels = len(labels)
	return entries, result, nil
}

// Build collects the sources under root, embeds every question and writes
// the artifact to dbPath, replacing any previous contents.
func (u *BuildUseCase) Build(ctx context.Context, root, dbPath string, progress Progress) (*BuildResult, error) {
	entries, result, err := u.Collect(root)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return result, ErrNoEntries
	}

	if err := u.embed(ctx, entries, progress); err != nil {
		return result, err
	}

	st, err := store.NewBoltStore(dbPath)
	if err != nil {
		return result, fmt.Errorf("failed to open knowledge base: %w", err)
	}
	defer st.Close()

	manifest := store.NewManifest(u.encoder, len(entries), time.Now().UTC())
	if err := st.WriteKnowledgeBase(manifest, entries); err != nil {
		return result, fmt.Errorf("failed to write knowledge base: %w", err)
	}
	result.Manifest = manifest

	u.logger.Info("knowledge base built",
		"entries", result.Entries,
		"files", result.FilesRead,
		"duplicates", result.Duplicates,
		"model", manifest.EncoderModel,
		"path", dbPath,
	)
	return result, nil
}

func (u *BuildUseCase) embed(ctx context.Context, entries []domain.KnowledgeEntry, progress Progress) error {
	dim := u.encoder.Dimension()
	for start := 0; start < len(entries); start += u.batchSize {
		end := min(start+u.batchSize, len(entries))

		questions := make([]string, end-start)
		for i := range questions {
			questions[i] = entries[start+i].Question
		}

		vectors, err := u.encoder.Encode(ctx, questions)
		if err != nil {
			return fmt.Errorf("failed to embed entries %d-%d: %w", start+1, end, err)
		}
		if len(vectors) != len(questions) {
			return fmt.Errorf("encoder returned %d vectors for %d questions", len(vectors), len(questions))
		}
		for i, v := range vectors {
			if len(v) != dim {
				return fmt.Errorf("entry %q: dimension mismatch: expected %d, got %d", questions[i], dim, len(v))
			}
			entries[start+i].Embedding = v
		}

		if progress != nil {
			progress(end, len(entries))
		}
	}
	return nil
}
