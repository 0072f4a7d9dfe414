package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"faqbot/config"
	"faqbot/internal/adapter/fs"
	"faqbot/internal/usecase"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var buildCmd = &cobra.Command{
	Use:   "build [path]",
	Short: "Build the knowledge base from FAQ source files",
	Long: `Read FAQ source files (YAML or JSON) in the specified directory, embed every
question and write the knowledge base. The artifact is stored in
.faqbot/knowledge.db within the target directory unless knowledge_base.path is set.

Examples:
  faqbot build .              # Build from the current directory
  faqbot build ./faq          # Build from a specific directory`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	path := GetRootDir()
	if len(args) > 0 {
		var err error
		path, err = filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("invalid path: %w", err)
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("path does not exist: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", path)
	}

	cfg := GetConfig()
	logger := GetLogger()

	dbPath := cfg.ResolveKnowledgeDBPath(path)
	if err := config.EnsureDataDir(dbPath); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	enc, err := newEncoder(cfg.Encoder, logger)
	if err != nil {
		return err
	}

	walker := fs.NewWalker(cfg.KnowledgeBase.Includes, cfg.KnowledgeBase.Excludes)
	buildUC := usecase.NewBuildUseCase(walker, enc, cfg.Encoder.BatchSize, logger)

	fmt.Printf("Scanning %s...\n", path)
	fmt.Printf("Encoder: provider=%s, model=%s, dimension=%d\n", cfg.Encoder.Provider, enc.ModelName(), enc.Dimension())

	var bar *progressbar.ProgressBar
	var startTime time.Time

	progress := func(done, total int) {
		if bar == nil {
			startTime = time.Now()
			bar = progressbar.NewOptions(total,
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionShowBytes(false),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionSetDescription("[cyan]Embedding[reset]"),
				progressbar.OptionSetTheme(progressbar.Theme{
					Saucer:        "[green]=[reset]",
					SaucerHead:    "[green]>[reset]",
					SaucerPadding: " ",
					BarStart:      "[",
					BarEnd:        "]",
				}),
				progressbar.OptionOnCompletion(func() {
					fmt.Println()
				}),
			)
		}

		bar.Set(done)

		if done > 0 && done < total {
			elapsed := time.Since(startTime)
			rate := float64(done) / elapsed.Seconds()
			if rate > 0 {
				eta := time.Duration(float64(total-done)/rate) * time.Second
				bar.Describe(fmt.Sprintf("[cyan]Embedding[reset] ETA: %s", formatDuration(eta)))
			}
		}
	}

	result, err := buildUC.Build(cmd.Context(), path, dbPath, progress)
	if result != nil && len(result.Errors) > 0 {
		fmt.Printf("\nWarnings:\n")
		for _, e := range result.Errors {
			fmt.Printf("  - %s\n", e)
		}
	}
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	fmt.Printf("\nBuild complete:\n")
	fmt.Printf("  Files read:  %d\n", result.FilesRead)
	fmt.Printf("  Entries:     %d\n", result.Entries)
	fmt.Printf("  Duplicates:  %d (skipped)\n", result.Duplicates)
	fmt.Printf("  Labels:      %d\n", result.Labels)
	fmt.Printf("\nKnowledge base stored at: %s\n", dbPath)
	return nil
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return "<1s"
	}
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm%ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh%dm", h, m)
}
