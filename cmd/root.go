package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/davidngn/walletcard/config"
	"github.com/davidngn/walletcard/logging"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "walletcard",
	Short: "Connect a wallet and keep a card of its account, chain and balance",
	Long: `Walletcard maintains a wallet connection session against a provider and
renders it as a card: account, network and native balance.

It supports you on different ends:

	1. It connects to a wallet provider, remembers that you were
	connected and silently restores the session on the next run.

	2. It follows the provider's notifications: when the wallet switches
	account the card refreshes, when the wallet drops all accounts the
	session disconnects.

	3. It switches networks by name or chain id with an intuitive
	command line interface, and can serve the same card as a JSON API
	for other tools.

By default, walletcard knows mainnet, sepolia, bsc, polygon, arbitrum,
optimism, base, avalanche and fantom. Custom networks can be added with
"walletcard networks add" and are stored in ~/.walletcard/networks/.

Each network's node can be overridden by its env var (see "walletcard
networks list") or the --node flag.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.InitLogger(config.LogLevel, config.LogFormat)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.PersistentFlags().StringVarP(&config.Network, "network", "k", "mainnet", "network to connect through. Use \"walletcard networks list\" for valid values.")
	rootCmd.PersistentFlags().StringVar(&config.NodeURL, "node", "", "node url override for the selected network")
	rootCmd.PersistentFlags().StringVar(&config.LogLevel, "log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&config.LogFormat, "log-format", "text", "log format: text or json")
	rootCmd.PersistentFlags().BoolVar(&config.NoPersist, "no-persist", false, "don't persist the session flag across runs")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
