package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/davidngn/walletcard/networks"
	"github.com/davidngn/walletcard/ui"
)

var (
	NetworkConfig string
	NetworkForce  bool
)

var addNetworkCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new network to the supported networks list locally",
	Long: `--config flag is supported to pass a new network config json filepath OR pass a json string. The json should be in the following format:
	{
		"name": "network_name",
		"alternative_names": ["alternative_name_1", "alternative_name_2"],
		"chain_id": 1,
		"native_token_symbol": "ETH",
		"native_token_decimal": 18,
		"node_variable_name": "WALLETCARD_NODE_1",
		"default_nodes": {
			"node_name_1": "node_url_1",
			"node_name_2": "node_url_2"
		}
	}`,
	Run: func(cmd *cobra.Command, args []string) {
		config := strings.TrimSpace(NetworkConfig)
		if config == "" {
			fmt.Printf("No network config provided. Pass one with --config.\n")
			return
		}

		var newNetwork networks.Network
		var err error
		if strings.HasPrefix(config, "{") && strings.HasSuffix(config, "}") {
			newNetwork, err = networks.NewNetworkFromJSON([]byte(config))
			if err != nil {
				fmt.Printf("The provided json is not valid: %s\n", err)
				return
			}
		} else {
			// in this case, config is supposed to be a path to a json file
			jsonFile, err := os.Open(config)
			if err != nil {
				fmt.Printf("Couldn't open the provided json file: %s\n", err)
				return
			}
			defer jsonFile.Close()

			jsonBytes, err := io.ReadAll(jsonFile)
			if err != nil {
				fmt.Printf("Couldn't read the provided json file: %s\n", err)
				return
			}
			newNetwork, err = networks.NewNetworkFromJSON(jsonBytes)
			if err != nil {
				fmt.Printf("The provided json is not a valid network config: %s\n", err)
				return
			}
		}

		if _, err = networks.GetNetwork(newNetwork.Name); err == nil && !NetworkForce {
			fmt.Printf("Network with name %s already exists. Abort. If you want to update the network, use flag --force.\n", newNetwork.Name)
			return
		}

		if err = networks.AddNetwork(newNetwork); err != nil {
			fmt.Printf("Failed to add the new network: %s\n", err)
			return
		}
		fmt.Printf("Network %s with chain ID %d added and saved to ~/.walletcard/networks/.\n", newNetwork.Name, newNetwork.ChainID)
	},
}

// displayNetworks renders one section per network: identifiers as an aligned
// key-value block, default nodes as an indented list underneath.
func displayNetworks(u ui.UI, list []networks.Network) {
	for _, n := range list {
		u.Section(n.Name)

		rows := [][2]string{
			{"Chain ID", fmt.Sprintf("%d (%s)", n.ChainID, n.ChainIDHex())},
			{"Token", n.NativeTokenSymbol},
		}
		if n.NodeVariableName != "" {
			rows = append(rows, [2]string{"Node env var", n.NodeVariableName})
		}
		u.KeyValue(rows)

		nodes := u.Indent()
		for key, node := range n.DefaultNodes {
			fmt.Fprintf(nodes.Writer(), "- %s: %s\n", key, node)
		}
	}
}

var listNetworkCmd = &cobra.Command{
	Use:   "list",
	Short: "Show all of supported networks",
	Long:  ``,
	Run: func(cmd *cobra.Command, args []string) {
		u := ui.NewTerminalUI()
		displayNetworks(u, networks.GetSupportedNetworks())

		u.Info("\nIf you want to add more networks to the list, use following command:\n> walletcard networks add")
		u.Info("\nIf you want to delete a network, just delete the corresponding json file in ~/.walletcard/networks/.")
	},
}

var networksCmd = &cobra.Command{
	Use:   "networks",
	Short: "Manage all networks that walletcard supports",
	Long:  ``,
}

func init() {
	addNetworkCmd.PersistentFlags().StringVarP(&NetworkConfig, "config", "c", "", "Path to the network config json file")
	addNetworkCmd.PersistentFlags().BoolVarP(&NetworkForce, "force", "f", false, "Force adding the network even if it already exists")

	networksCmd.AddCommand(listNetworkCmd)
	networksCmd.AddCommand(addNetworkCmd)
	rootCmd.AddCommand(networksCmd)
}
