package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/davidngn/walletcard/card"
	"github.com/davidngn/walletcard/ui"
)

var connectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Connect the wallet and show the card",
	Long: `Requests account access from the wallet provider. If a previous run was
connected, the session is restored silently first and no prompt is shown.`,
	Run: func(cmd *cobra.Command, args []string) {
		u := ui.NewTerminalUI()
		ctl, cleanup, err := buildController(u)
		if err != nil {
			u.Error("%s", err)
			return
		}
		defer cleanup()

		ctx := context.Background()
		ctl.Start(ctx)

		if s := ctl.Snapshot(); !s.IsConnected {
			ctl.Connect(ctx)
		}

		if s := ctl.Snapshot(); !s.IsConnected && s.Error == "" {
			u.Warn("No accounts are configured. Add one with: walletcard accounts add <address>")
		}

		card.New(u).Render(ctl.Snapshot(), ctl.Installed())
	},
}

var disconnectCmd = &cobra.Command{
	Use:   "disconnect",
	Short: "Drop the wallet session and forget it",
	Long:  ``,
	Run: func(cmd *cobra.Command, args []string) {
		u := ui.NewTerminalUI()
		ctl, cleanup, err := buildController(u)
		if err != nil {
			u.Error("%s", err)
			return
		}
		defer cleanup()

		ctl.Disconnect()
		card.New(u).Render(ctl.Snapshot(), ctl.Installed())
	},
}

func init() {
	rootCmd.AddCommand(connectCmd)
	rootCmd.AddCommand(disconnectCmd)
}
