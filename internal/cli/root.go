package cli

import (
	"fmt"
	"log/slog"
	"os"

	"faqbot/config"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	cfg     *config.Config
	rootDir string
	logger  *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "faqbot",
	Short: "FAQ chatbot for POSH/POCSO compliance training",
	Long: `faqbot answers workplace-safety questions from a curated FAQ knowledge base.
Questions are matched by embedding similarity; when no match is confident
enough the closest questions are offered as a numbered list.

Example usage:
  faqbot build .                       # Build the knowledge base from FAQ files
  faqbot ask                           # Chat interactively
  faqbot serve                         # Serve POST /chat over HTTP
  faqbot query -q "complaint deadline" # Inspect raw matches`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		if rootDir == "" {
			rootDir, err = os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}
		}

		if cfgFile != "" {
			cfg, err = config.Load(cfgFile)
		} else {
			cfg, err = config.LoadFromDir(rootDir)
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		logger = newLogger(cfg.Logging, os.Stderr)
		slog.SetDefault(logger)

		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./faqbot.yaml)")
	rootCmd.PersistentFlags().StringVarP(&rootDir, "dir", "d", "", "project directory (default is current directory)")
}

func GetConfig() *config.Config {
	return cfg
}

func GetRootDir() string {
	return rootDir
}

func GetLogger() *slog.Logger {
	return logger
}
