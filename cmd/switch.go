package cmd

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/davidngn/walletcard/card"
	"github.com/davidngn/walletcard/networks"
	"github.com/davidngn/walletcard/ui"
)

var switchCmd = &cobra.Command{
	Use:   "switch <network>",
	Short: "Switch the wallet to another network",
	Long: `Accepts a network name ("bsc", "polygon", ...) or a 0x-prefixed hex chain
id. When an account is connected, the card's chain and balance are refreshed
after the switch.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		u := ui.NewTerminalUI()

		target := args[0]
		chainID := target
		if !strings.HasPrefix(target, "0x") {
			n, err := networks.GetNetwork(target)
			if err != nil {
				suggestions := networks.SuggestNetworks(target)
				if len(suggestions) > 0 {
					u.Error("Unknown network '%s', did you mean: %s", target, strings.Join(suggestions, ", "))
				} else {
					u.Error("Unknown network '%s'", target)
				}
				return
			}
			chainID = n.ChainIDHex()
		}

		ctl, cleanup, err := buildController(u)
		if err != nil {
			u.Error("%s", err)
			return
		}
		defer cleanup()

		ctx := context.Background()
		ctl.Start(ctx)

		stop := u.Spinner("Switching network...")
		ctl.SwitchNetwork(ctx, chainID)
		stop()

		card.New(u).Render(ctl.Snapshot(), ctl.Installed())
	},
}

func init() {
	rootCmd.AddCommand(switchCmd)
}
