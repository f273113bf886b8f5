package networks

import (
	"encoding/json"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/sahilm/fuzzy"
)

var globalSupportedNetworks = newSupportedNetworks()

var ErrNetworkNotFound = fmt.Errorf("network not found")

type networkRegistry struct {
	networks     map[string]Network
	networksByID map[uint64]Network
}

func (n *networkRegistry) getSupportedNetworkNames() []string {
	res := []string{}
	for _, nw := range n.networks {
		res = append(res, nw.Name)
	}
	return res
}

func (n *networkRegistry) getNetworkByID(id uint64) (Network, error) {
	res, found := n.networksByID[id]
	if !found {
		return Network{}, fmt.Errorf("network id %d is not supported: %w", id, ErrNetworkNotFound)
	}
	return res, nil
}

func (n *networkRegistry) getNetwork(name string) (Network, error) {
	res, found := n.networks[strings.ToLower(name)]
	if !found {
		return Network{}, fmt.Errorf("network name '%s': %w", name, ErrNetworkNotFound)
	}
	return res, nil
}

func newSupportedNetworks() *networkRegistry {
	result := networkRegistry{
		map[string]Network{},
		map[uint64]Network{},
	}
	for _, n := range builtinNetworks {
		if _, found := result.networks[n.Name]; found {
			panic(fmt.Errorf("network with name or alternative name of '%s' already exists", n.Name))
		}
		result.networks[n.Name] = n
		result.networksByID[n.ChainID] = n
		for _, an := range n.AlternativeNames {
			if _, found := result.networks[an]; found {
				panic(fmt.Errorf("network with name or alternative name of '%s' already exists", an))
			}
			result.networks[an] = n
		}
	}

	// load custom networks from ~/.walletcard/networks/
	customNetworks, err := loadCustomNetworks()
	if err != nil {
		fmt.Printf("WARNING: Failed to load custom networks: %s. Ignore and continue with built-in networks.\n", err)
		return &result
	}

	for _, n := range customNetworks {
		result.networks[n.Name] = n
		result.networksByID[n.ChainID] = n
		for _, an := range n.AlternativeNames {
			result.networks[an] = n
		}
	}
	return &result
}

func customNetworksDir() (string, error) {
	usr, err := user.Current()
	if err != nil {
		return "", fmt.Errorf("failed to get current user: %w", err)
	}
	return filepath.Join(usr.HomeDir, ".walletcard", "networks"), nil
}

func loadCustomNetworks() ([]Network, error) {
	dir, err := customNetworksDir()
	if err != nil {
		return nil, err
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to glob json files in %s: %w", dir, err)
	}

	result := []Network{}
	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read file %s: %w", file, err)
		}

		network, err := NewNetworkFromJSON(content)
		if err != nil {
			fmt.Printf("failed to parse network from file %s: %s. Ignore and continue with other custom networks.\n", file, err)
			continue
		}
		result = append(result, network)
	}
	return result, nil
}

func GetSupportedNetworks() []Network {
	res := []Network{}
	seen := map[uint64]bool{}
	for _, n := range globalSupportedNetworks.networks {
		if seen[n.ChainID] {
			continue
		}
		seen[n.ChainID] = true
		res = append(res, n)
	}
	return res
}

func GetNetwork(name string) (Network, error) {
	return globalSupportedNetworks.getNetwork(name)
}

func GetNetworkByID(id uint64) (Network, error) {
	return globalSupportedNetworks.getNetworkByID(id)
}

// GetNetworkByHexID resolves a 0x-prefixed hex chain id, the form providers
// report through eth_chainId and chainChanged.
func GetNetworkByHexID(hexID string) (Network, error) {
	id, err := hexutil.DecodeUint64(hexID)
	if err != nil {
		return Network{}, fmt.Errorf("chain id '%s' is not a hex quantity: %w", hexID, err)
	}
	return globalSupportedNetworks.getNetworkByID(id)
}

func GetSupportedNetworkNames() []string {
	return globalSupportedNetworks.getSupportedNetworkNames()
}

// SuggestNetworks returns up to three supported network names closest to the
// given (presumably misspelled) name.
func SuggestNetworks(name string) []string {
	names := GetSupportedNetworkNames()
	matches := fuzzy.Find(strings.ToLower(name), names)
	res := []string{}
	for i, m := range matches {
		if i >= 3 {
			break
		}
		res = append(res, m.Str)
	}
	return res
}

// DisplayName renders a chain id hex string as a human readable network name,
// falling back to the raw id for chains outside the registry.
func DisplayName(hexID string) string {
	if hexID == "" {
		return ""
	}
	n, err := GetNetworkByHexID(hexID)
	if err != nil {
		return fmt.Sprintf("unknown network (%s)", hexID)
	}
	return n.Name
}

// AddNetwork registers a network for this process and persists it to
// ~/.walletcard/networks/ so future runs pick it up.
func AddNetwork(network Network) error {
	globalSupportedNetworks.networks[network.Name] = network
	globalSupportedNetworks.networksByID[network.ChainID] = network
	for _, an := range network.AlternativeNames {
		globalSupportedNetworks.networks[an] = network
	}

	dir, err := customNetworksDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	content, err := json.MarshalIndent(network, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal network: %w", err)
	}

	err = os.WriteFile(filepath.Join(dir, fmt.Sprintf("%s.json", network.Name)), content, 0644)
	if err != nil {
		return fmt.Errorf("failed to write the new network to file: %w", err)
	}
	return nil
}
