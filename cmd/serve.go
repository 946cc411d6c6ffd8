package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/copydesk/enhance-cli/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the article CRUD and enhancement API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		srv := server.New(st, initPipeline())
		return srv.ListenAndServe(ctx, fmt.Sprintf(":%d", cfg.Server.Port))
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
