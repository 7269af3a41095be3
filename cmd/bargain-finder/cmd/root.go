// Package cmd implements the bargain-finder CLI commands.
package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	apiclient "github.com/donaldgifford/bargain-finder/internal/api/client"
)

var rootCmd = &cobra.Command{
	Use:   "bargain-finder",
	Short: "Find undervalued marketplace listings",
	Long: "bargain-finder looks up Amazon and eBay listings, searches both\n" +
		"marketplaces under their rate limits, and asks an LLM for a fair-value\n" +
		"assessment with web-search citations.\n\n" +
		"Flags can also be set with BARGAIN_* environment variables\n" +
		"(BARGAIN_SERVER, BARGAIN_OUTPUT, BARGAIN_CONFIG).",
	SilenceUsage: true,
}

// Root returns the root cobra command for documentation generation.
func Root() *cobra.Command {
	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().
		String("config", "config.yaml", "service config file (serve only)")
	rootCmd.PersistentFlags().
		String("server", "http://localhost:8080", "API server URL")
	rootCmd.PersistentFlags().
		String("output", "table", "output format (table, json)")

	for _, name := range []string{"config", "server", "output"} {
		cobra.CheckErr(viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name)))
	}

	rootCmd.AddCommand(serveCommand())
	rootCmd.AddCommand(lookupCommand())
	rootCmd.AddCommand(searchCommand())
	rootCmd.AddCommand(evaluateCommand())
	rootCmd.AddCommand(rateLimitsCommand())
	rootCmd.AddCommand(versionCommand())
}

func initConfig() {
	viper.SetEnvPrefix("BARGAIN")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func newClient() *apiclient.Client {
	return apiclient.New(viper.GetString("server"))
}

func jsonOutput() bool {
	return viper.GetString("output") == "json"
}
