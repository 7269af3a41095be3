package cmd

import (
	"github.com/spf13/cobra"

	apiclient "github.com/donaldgifford/bargain-finder/internal/api/client"
)

func searchCommand() *cobra.Command {
	var (
		req                apiclient.SearchRequest
		minPrice, maxPrice float64
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search Amazon and eBay listings",
		Example: `  bargain-finder search "sony wh-1000xm5"
  bargain-finder search "seiko skx007" --marketplace ebay --condition used --max-price 300
  bargain-finder search "lego 10497" --marketplace all --sort price`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Query = args[0]
			if cmd.Flags().Changed("min-price") {
				req.MinPrice = &minPrice
			}
			if cmd.Flags().Changed("max-price") {
				req.MaxPrice = &maxPrice
			}

			res, err := newClient().Search(cmd.Context(), &req)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(cmd.OutOrStdout(), res)
			}
			return printListingsTable(cmd.OutOrStdout(), res)
		},
	}

	f := cmd.Flags()
	f.StringVar(&req.Marketplace, "marketplace", "", "amazon, ebay or all (default amazon)")
	f.StringVar(&req.Category, "category", "", "provider category")
	f.Float64Var(&minPrice, "min-price", 0, "minimum price")
	f.Float64Var(&maxPrice, "max-price", 0, "maximum price")
	f.StringVar(&req.Condition, "condition", "", "new, used, refurbished, vintage or collectible")
	f.StringVar(&req.SortBy, "sort", "", "relevance, price or newest")
	f.IntVar(&req.Limit, "limit", 10, "maximum number of results")
	f.IntVar(&req.Offset, "offset", 0, "result offset")

	return cmd
}
