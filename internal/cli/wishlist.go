package cli

import (
	"fmt"

	"github.com/shopai/shopchat/internal/wishlist"
	"github.com/spf13/cobra"
)

var wishlistCmd = &cobra.Command{
	Use:   "wishlist",
	Short: "Show the saved wishlist",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		rewriter, err := getRewriter()
		if err != nil {
			return err
		}

		list := wishlist.New(ctx, backend, logger)
		items := list.Items()
		if len(items) == 0 {
			fmt.Println("Wishlist is empty. Save products from the chat with keys 1-9.")
			return nil
		}

		for i, p := range items {
			fmt.Printf("%d. %s\n", i+1, p.Name)
			fmt.Printf("   %s\n", p.PriceEstimate)
			fmt.Printf("   %s\n\n", rewriter.Link(p.ProductURL))
		}
		return nil
	},
}

var wishlistShareCmd = &cobra.Command{
	Use:   "share [phone]",
	Short: "Print a WhatsApp link sharing the wishlist",
	Long: `Builds a WhatsApp link carrying the wishlist as a formatted message.
With a Brazilian phone number the link targets that number directly;
without one it opens the WhatsApp contact picker.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		rewriter, err := getRewriter()
		if err != nil {
			return err
		}

		phone := ""
		if len(args) == 1 {
			phone = args[0]
		}

		list := wishlist.New(ctx, backend, logger)
		link := wishlist.ShareLink(list.Items(), phone, rewriter.Link)
		if link == "" {
			fmt.Println("Wishlist is empty, nothing to share.")
			return nil
		}

		fmt.Println(link)
		return nil
	},
}

func init() {
	wishlistCmd.AddCommand(wishlistShareCmd)
}
