package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var showcaseJSON bool

var showcaseCmd = &cobra.Command{
	Use:   "showcase",
	Short: "Print today's storefront products",
	Long: `Fetches the daily product showcase and prints it. Results come from
the store cache when fresh; otherwise a new batch is generated and cached.`,
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

		products := client.FetchShowcase(ctx)

		if showcaseJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(products)
		}

		for i, p := range products {
			fmt.Printf("%d. %s\n", i+1, p.Name)
			fmt.Printf("   %s", p.PriceEstimate)
			if p.Rating > 0 {
				fmt.Printf("  ★ %.1f (%d avaliações)", p.Rating, p.ReviewCount)
			}
			fmt.Println()
			if p.Pitch != "" {
				fmt.Printf("   %s\n", p.Pitch)
			}
			fmt.Printf("   %s\n\n", rewriter.Link(p.ProductURL))
		}
		return nil
	},
}

func init() {
	showcaseCmd.Flags().BoolVar(&showcaseJSON, "json", false, "output as JSON")
}
