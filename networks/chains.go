package networks

// Insert more Network values here to support more chains out of the box.
var builtinNetworks = []Network{
	{
		Name:               "mainnet",
		AlternativeNames:   []string{"ethereum", "eth"},
		ChainID:            1,
		NativeTokenSymbol:  "ETH",
		NativeTokenDecimal: 18,
		NodeVariableName:   "WALLETCARD_MAINNET_NODE",
		DefaultNodes: map[string]string{
			"cloudflare": "https://cloudflare-eth.com",
			"ankr":       "https://rpc.ankr.com/eth",
		},
	},
	{
		Name:               "sepolia",
		AlternativeNames:   []string{},
		ChainID:            11155111,
		NativeTokenSymbol:  "ETH",
		NativeTokenDecimal: 18,
		NodeVariableName:   "WALLETCARD_SEPOLIA_NODE",
		DefaultNodes: map[string]string{
			"sepolia-org": "https://rpc.sepolia.org",
		},
	},
	{
		Name:               "bsc",
		AlternativeNames:   []string{"binance", "bnb"},
		ChainID:            56,
		NativeTokenSymbol:  "BNB",
		NativeTokenDecimal: 18,
		NodeVariableName:   "WALLETCARD_BSC_NODE",
		DefaultNodes: map[string]string{
			"binance": "https://bsc-dataseed.binance.org",
		},
	},
	{
		Name:               "polygon",
		AlternativeNames:   []string{"matic"},
		ChainID:            137,
		NativeTokenSymbol:  "POL",
		NativeTokenDecimal: 18,
		NodeVariableName:   "WALLETCARD_POLYGON_NODE",
		DefaultNodes: map[string]string{
			"polygon-rpc": "https://polygon-rpc.com",
		},
	},
	{
		Name:               "arbitrum",
		AlternativeNames:   []string{"arb"},
		ChainID:            42161,
		NativeTokenSymbol:  "ETH",
		NativeTokenDecimal: 18,
		NodeVariableName:   "WALLETCARD_ARBITRUM_NODE",
		DefaultNodes: map[string]string{
			"arbitrum-official": "https://arb1.arbitrum.io/rpc",
		},
	},
	{
		Name:               "optimism",
		AlternativeNames:   []string{"op"},
		ChainID:            10,
		NativeTokenSymbol:  "ETH",
		NativeTokenDecimal: 18,
		NodeVariableName:   "WALLETCARD_OPTIMISM_NODE",
		DefaultNodes: map[string]string{
			"optimism-official": "https://mainnet.optimism.io",
		},
	},
	{
		Name:               "base",
		AlternativeNames:   []string{},
		ChainID:            8453,
		NativeTokenSymbol:  "ETH",
		NativeTokenDecimal: 18,
		NodeVariableName:   "WALLETCARD_BASE_NODE",
		DefaultNodes: map[string]string{
			"base-official": "https://mainnet.base.org",
		},
	},
	{
		Name:               "avalanche",
		AlternativeNames:   []string{"avax"},
		ChainID:            43114,
		NativeTokenSymbol:  "AVAX",
		NativeTokenDecimal: 18,
		NodeVariableName:   "WALLETCARD_AVALANCHE_NODE",
		DefaultNodes: map[string]string{
			"avax-official": "https://api.avax.network/ext/bc/C/rpc",
		},
	},
	{
		Name:               "fantom",
		AlternativeNames:   []string{"ftm"},
		ChainID:            250,
		NativeTokenSymbol:  "FTM",
		NativeTokenDecimal: 18,
		NodeVariableName:   "WALLETCARD_FANTOM_NODE",
		DefaultNodes: map[string]string{
			"fantom-official": "https://rpc.ftm.tools",
		},
	},
}
