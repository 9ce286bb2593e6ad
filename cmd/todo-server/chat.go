package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"todo-chat-backend/internal/chat"
	"todo-chat-backend/internal/store"
)

var chatCmd = &cobra.Command{
	Use:   "chat [message...]",
	Short: "Send chat commands to the configured store without the HTTP server",
	Long: `With arguments, the words are joined into one message and answered once.
Without arguments, each line read from stdin is answered in turn.`,
	RunE: runChat,
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx, cfg, flush, err := setup(cmd.Context())
	if err != nil {
		return err
	}
	defer flush()

	st, err := store.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	replies, err := chat.LoadReplies(cfg.RepliesFile)
	if err != nil {
		return err
	}
	assistant := chat.NewAssistant(st, replies)
	out := cmd.OutOrStdout()

	if len(args) > 0 {
		resp, err := assistant.ProcessMessage(ctx, strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "[%s] %s\n", resp.Action, resp.Response)
		return nil
	}

	sc := bufio.NewScanner(cmd.InOrStdin())
	sc.Buffer(make([]byte, 0, 64*1024), int(cfg.MaxBodyBytes))
	for sc.Scan() {
		resp, err := assistant.ProcessMessage(ctx, sc.Text())
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "[%s] %s\n", resp.Action, resp.Response)
	}
	if err := sc.Err(); err != nil {
		return err
	}
	return nil
}
