package cli

import (
	"context"
	"os/signal"
	"syscall"

	"faqbot/internal/server"
	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the chat endpoint over HTTP",
	Long: `Load the knowledge base and serve POST /chat and GET /health.

Request:  {"message": "...", "session_id": "..."}
Response: {"response": "...", "reset": false, "session_id": "..."}

Examples:
  faqbot serve
  faqbot serve --addr :9000`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	logger := GetLogger()

	rt, err := loadRuntime(cfg, GetRootDir(), logger)
	if err != nil {
		return err
	}

	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	srv := server.New(rt.chat, server.Health{
		Entries:      rt.kb.Index.Len(),
		EncoderModel: rt.kb.Manifest.EncoderModel,
	}, server.Options{
		Addr:         addr,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		RateLimit:    cfg.Server.RateLimit,
		RateBurst:    cfg.Server.RateBurst,
		CORSOrigin:   cfg.Server.CORSOrigin,
		ServiceName:  cfg.Server.ServiceName,
	}, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return srv.Run(ctx)
}
