package cli

import (
	"os/signal"
	"syscall"

	"github.com/shopai/shopchat/internal/chat"
	"github.com/shopai/shopchat/internal/server"
	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the chat over a websocket",
	Long: `Starts the websocket server for web clients. Each connection gets its
own conversation and chat session; the showcase cache is shared.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		// The shared client serves showcase requests; connections branch off
		// isolated sessions from it.
		shared, err := getClient(ctx)
		if err != nil {
			return err
		}
		rewriter, err := getRewriter()
		if err != nil {
			return err
		}

		addr := cfg.ListenAddr
		if serveAddr != "" {
			addr = serveAddr
		}

		newSession := func() chat.Completer { return shared.NewSession() }
		srv := server.New(addr, newSession, shared, rewriter, logger)
		return srv.Run(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides SHOPCHAT_LISTEN_ADDR)")
}
