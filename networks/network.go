package networks

import (
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Network describes one chain walletcard knows how to talk about: its
// identifiers for lookup, its native token for balance display and the
// default nodes a node-backed provider can dial.
type Network struct {
	Name               string            `json:"name"`
	AlternativeNames   []string          `json:"alternative_names"`
	ChainID            uint64            `json:"chain_id"`
	NativeTokenSymbol  string            `json:"native_token_symbol"`
	NativeTokenDecimal int64             `json:"native_token_decimal"`
	NodeVariableName   string            `json:"node_variable_name"`
	DefaultNodes       map[string]string `json:"default_nodes"`
}

// ChainIDHex returns the chain id as a 0x-prefixed hex quantity, the form
// wallet providers use on the wire.
func (n Network) ChainIDHex() string {
	return hexutil.EncodeUint64(n.ChainID)
}

// FirstNode returns one of the default node URLs, or an empty string when the
// network has none configured.
func (n Network) FirstNode() string {
	for _, url := range n.DefaultNodes {
		return url
	}
	return ""
}

func NewNetworkFromJSON(content []byte) (Network, error) {
	network := Network{}
	err := json.Unmarshal(content, &network)
	if err != nil {
		return Network{}, fmt.Errorf("failed to unmarshal network config: %w", err)
	}
	if network.Name == "" {
		return Network{}, fmt.Errorf("network config must have a name")
	}
	if network.ChainID == 0 {
		return Network{}, fmt.Errorf("network config must have a non-zero chain_id")
	}
	if network.NativeTokenDecimal == 0 {
		network.NativeTokenDecimal = 18
	}
	return network, nil
}
