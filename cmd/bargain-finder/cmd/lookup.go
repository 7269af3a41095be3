package cmd

import (
	"github.com/spf13/cobra"
)

func lookupCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <url>",
		Short: "Look up an Amazon or eBay listing by URL",
		Example: `  bargain-finder lookup https://www.amazon.com/dp/B08XYZ1234
  bargain-finder lookup https://www.ebay.com/itm/123456789012 --output json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := newClient().Lookup(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(cmd.OutOrStdout(), l)
			}
			return printListingDetail(cmd.OutOrStdout(), l)
		},
	}
}
