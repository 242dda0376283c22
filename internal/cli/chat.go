package cli

import (
	"context"
	"time"

	"github.com/shopai/shopchat/internal/assistant"
	"github.com/shopai/shopchat/internal/catalog"
	"github.com/shopai/shopchat/internal/chat"
	"github.com/shopai/shopchat/internal/tui"
	"github.com/shopai/shopchat/internal/wishlist"
	"github.com/spf13/cobra"
)

var chatNoShowcase bool

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive shopping chat",
	Long: `Opens the terminal chat with Vivi. The storefront showcase is fetched
first (cached for a day), then the conversation starts.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		client, err := getClient(ctx)
		if err != nil {
			return err
		}
		rewriter, err := getRewriter()
		if err != nil {
			return err
		}

		var showcase []catalog.Product
		if !chatNoShowcase {
			// Bounded so a slow model cannot hold up the chat; the fetch falls
			// back to the curated list on any failure.
			fetchCtx, cancel := context.WithTimeout(ctx, 60*time.Second)
			showcase = client.FetchShowcase(fetchCtx)
			cancel()
		}

		list := wishlist.New(ctx, backend, logger)

		conv := chat.NewConversation()
		engine := chat.NewEngine(conv, client,
			chat.WithFollowUpPhrases(assistant.FollowUpPhrases),
			chat.WithLogger(logger),
		)

		return tui.Run(engine, list, rewriter, showcase)
	},
}

func init() {
	chatCmd.Flags().BoolVar(&chatNoShowcase, "no-showcase", false, "skip the storefront showcase fetch")
}
