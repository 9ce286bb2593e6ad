package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"todo-chat-backend/internal/config"
	"todo-chat-backend/internal/logging"
)

var debug bool

// Running without a subcommand starts the server.
var rootCmd = &cobra.Command{
	Use:          "todo-server",
	Short:        "Todo API with a chat command interpreter",
	RunE:         runServe,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")
	rootCmd.AddCommand(serveCmd, chatCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads configuration and installs the logger on ctx.
func setup(ctx context.Context) (context.Context, config.Config, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return ctx, config.Config{}, func() {}, err
	}
	ctx, flush := logging.NewContextWithLogger(ctx, debug || cfg.Debug)
	return ctx, cfg, flush, nil
}
