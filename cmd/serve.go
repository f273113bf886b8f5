package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/davidngn/walletcard/api"
	"github.com/davidngn/walletcard/config"
	"github.com/davidngn/walletcard/ui"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the wallet card as a JSON API",
	Long: `Starts an HTTP server with the session endpoints under /v1:

	GET  /v1/session         current card (account, chain, balance)
	GET  /v1/installed       whether a provider is available
	POST /v1/connect         request account access
	POST /v1/disconnect      drop and forget the session
	POST /v1/switch-network  {"network": "bsc"} or {"chain_id": "0x38"}`,
	Run: func(cmd *cobra.Command, args []string) {
		u := ui.NewTerminalUI()
		ctl, cleanup, err := buildController(u)
		if err != nil {
			u.Error("%s", err)
			return
		}
		defer cleanup()

		ctl.Start(context.Background())

		u.Info("Serving the wallet card API on %s", config.APIAddr)
		if err := api.NewAPIService(config.APIAddr, ctl).Serve(); err != nil {
			u.Error("API server stopped: %s", err)
		}
	},
}

func init() {
	serveCmd.PersistentFlags().StringVar(&config.APIAddr, "addr", "127.0.0.1:9696", "address for the JSON API to listen on")
	rootCmd.AddCommand(serveCmd)
}
