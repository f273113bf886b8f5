package cmd

import (
	"fmt"
	"strings"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/davidngn/walletcard/common"
	"github.com/davidngn/walletcard/config"
	"github.com/davidngn/walletcard/ui"
)

// askAddress prompts until a well-formed account address is entered.
func askAddress(u ui.UI) string {
	u.Info("Enter the account address:")
	input := u.Ask(func(s string) error {
		if !ethcommon.IsHexAddress(strings.TrimSpace(s)) {
			return fmt.Errorf("'%s' is not a valid address", strings.TrimSpace(s))
		}
		return nil
	})
	return strings.TrimSpace(input)
}

var listAccountCmd = &cobra.Command{
	Use:   "list",
	Short: "Show all accounts the local provider can expose",
	Long:  ``,
	Run: func(cmd *cobra.Command, args []string) {
		accounts, err := config.LoadAccounts()
		if err != nil {
			fmt.Printf("Couldn't load accounts: %s\n", err)
			return
		}
		if len(accounts) == 0 {
			fmt.Printf("No accounts are configured. Add one with:\n> walletcard accounts add <address>\n")
			return
		}
		for i, acc := range accounts {
			fmt.Printf("%d. %s (%s)\n", i+1, acc, common.ShortenAddress(acc))
		}
	},
}

var addAccountCmd = &cobra.Command{
	Use:   "add [address]",
	Short: "Add an account address to the local provider",
	Long: `The first configured account becomes the connected account after the
provider request is approved. When no address is given, it is asked for
interactively.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var address string
		if len(args) > 0 {
			address = strings.TrimSpace(args[0])
			if !ethcommon.IsHexAddress(address) {
				fmt.Printf("%s is not a valid address. Abort.\n", address)
				return
			}
		} else {
			address = askAddress(ui.NewTerminalUI())
		}
		address = ethcommon.HexToAddress(address).Hex()

		accounts, err := config.LoadAccounts()
		if err != nil {
			fmt.Printf("Couldn't load accounts: %s\n", err)
			return
		}
		for _, acc := range accounts {
			if strings.EqualFold(acc, address) {
				fmt.Printf("Account %s is already configured. Abort.\n", address)
				return
			}
		}

		accounts = append(accounts, address)
		if err = config.SaveAccounts(accounts); err != nil {
			fmt.Printf("Couldn't save accounts: %s\n", err)
			return
		}
		fmt.Printf("Account %s added. %d account(s) configured.\n", address, len(accounts))
	},
}

var removeAccountCmd = &cobra.Command{
	Use:   "remove <address>",
	Short: "Remove an account address from the local provider",
	Long:  ``,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		address := strings.TrimSpace(args[0])

		accounts, err := config.LoadAccounts()
		if err != nil {
			fmt.Printf("Couldn't load accounts: %s\n", err)
			return
		}

		remaining := []string{}
		for _, acc := range accounts {
			if !strings.EqualFold(acc, address) {
				remaining = append(remaining, acc)
			}
		}
		if len(remaining) == len(accounts) {
			fmt.Printf("Account %s is not configured. Abort.\n", address)
			return
		}

		if err = config.SaveAccounts(remaining); err != nil {
			fmt.Printf("Couldn't save accounts: %s\n", err)
			return
		}
		fmt.Printf("Account %s removed. %d account(s) remain.\n", address, len(remaining))
	},
}

var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "Manage the accounts the local provider exposes",
	Long:  ``,
}

func init() {
	accountsCmd.AddCommand(listAccountCmd)
	accountsCmd.AddCommand(addAccountCmd)
	accountsCmd.AddCommand(removeAccountCmd)
	rootCmd.AddCommand(accountsCmd)
}
