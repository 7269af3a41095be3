package cmd

import (
	"github.com/spf13/cobra"
)

func evaluateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "evaluate <url>",
		Short: "Estimate the fair market value of a listing",
		Long: "Fetches the listing and asks the configured model for a fair-value\n" +
			"assessment, grounded in web search when the server enables it.",
		Example: `  bargain-finder evaluate https://www.ebay.com/itm/123456789012`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := newClient().Evaluate(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(cmd.OutOrStdout(), resp)
			}
			return printEvaluation(cmd.OutOrStdout(), resp)
		},
	}
}
