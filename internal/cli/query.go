package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	queryText string
	queryTopK int
	queryJSON bool
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Show the raw nearest questions for a text",
	Long: `Encode the text and list the closest knowledge-base questions with their
similarity scores. No conversation state is involved.

Examples:
  faqbot query -q "complaint deadline"
  faqbot query -q "who is on the committee" -k 5 --json`,
	RunE: runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().StringVarP(&queryText, "query", "q", "", "text to match (required)")
	queryCmd.Flags().IntVarP(&queryTopK, "top-k", "k", 0, "number of results (default responder top_n)")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output as JSON")
	queryCmd.MarkFlagRequired("query")
}

func runQuery(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	rt, err := loadRuntime(cfg, GetRootDir(), GetLogger())
	if err != nil {
		return err
	}

	topK := cfg.Responder.TopN
	if queryTopK > 0 {
		topK = queryTopK
	}

	results, err := rt.responder.Search(cmd.Context(), queryText, topK)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if queryJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	threshold := cfg.Responder.Threshold
	for i, r := range results {
		marker := " "
		if i == 0 && r.Score >= threshold {
			marker = "*"
		}
		fmt.Printf("%s %d. [%.4f] %s\n", marker, i+1, r.Score, r.Question)
	}
	fmt.Printf("\nThreshold: %.2f (* = answered directly)\n", threshold)
	return nil
}
