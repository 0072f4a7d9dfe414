package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"faqbot/internal/usecase"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var askMessage string

var askCmd = &cobra.Command{
	Use:   "ask",
	Short: "Chat with the bot from the terminal",
	Long: `Ask a single question with -m, or start an interactive conversation.
Reply with a number or part of a suggested question to pick a suggestion.
Type "bye" or "clear" to reset the conversation, or press Ctrl-D to quit.

Examples:
  faqbot ask -m "how do I file a complaint"
  faqbot ask`,
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
	askCmd.Flags().StringVarP(&askMessage, "message", "m", "", "single message to send")
}

func runAsk(cmd *cobra.Command, args []string) error {
	rt, err := loadRuntime(GetConfig(), GetRootDir(), GetLogger())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if askMessage != "" {
		resp, err := rt.chat.Handle(ctx, usecase.ChatRequest{Message: askMessage, SessionID: uuid.NewString()})
		if err != nil {
			return err
		}
		fmt.Println(resp.Response)
		return nil
	}

	return converse(ctx, rt.chat, os.Stdin, os.Stdout)
}

// converse runs an interactive conversation on one session until in is
// exhausted or ctx is cancelled.
func converse(ctx context.Context, chat *usecase.ChatService, in io.Reader, out io.Writer) error {
	sessionID := uuid.NewString()
	scanner := bufio.NewScanner(in)

	fmt.Fprintln(out, "Ask a question (Ctrl-D to quit).")
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		if ctx.Err() != nil {
			return nil
		}

		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		resp, err := chat.Handle(ctx, usecase.ChatRequest{Message: line, SessionID: sessionID})
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			continue
		}
		fmt.Fprintln(out, resp.Response)
		if resp.Reset {
			sessionID = uuid.NewString()
		}
	}
}
