package cmd

import (
	"github.com/spf13/cobra"
)

func rateLimitsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ratelimits",
		Short: "Show provider rate-limit buckets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			buckets, err := newClient().RateLimits(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(cmd.OutOrStdout(), buckets)
			}
			return printRateLimits(cmd.OutOrStdout(), buckets)
		},
	}
}
