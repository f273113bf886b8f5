package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/davidngn/walletcard/card"
	"github.com/davidngn/walletcard/ui"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the wallet card",
	Long: `Restores the previous session silently (no wallet prompt) when one was
left connected, then renders the card.`,
	Run: func(cmd *cobra.Command, args []string) {
		u := ui.NewTerminalUI()
		ctl, cleanup, err := buildController(u)
		if err != nil {
			u.Error("%s", err)
			return
		}
		defer cleanup()

		stop := u.Spinner("Refreshing wallet state...")
		ctl.Start(context.Background())
		stop()

		card.New(u).Render(ctl.Snapshot(), ctl.Installed())
	},
}

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Show the connected account's native balance",
	Long:  ``,
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

		s := ctl.Snapshot()
		if s.Address == "" {
			u.Warn("No wallet is connected. Run: walletcard connect")
			return
		}

		stop := u.Spinner("Fetching balance...")
		balance, ok := ctl.Balance(ctx, s.Address)
		stop()
		if !ok {
			u.Error("Couldn't fetch the balance right now.")
			return
		}
		u.Success("%s", balance)
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(balanceCmd)
}
