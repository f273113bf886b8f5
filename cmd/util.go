package cmd

import (
	"fmt"
	"strings"

	"github.com/davidngn/walletcard/config"
	"github.com/davidngn/walletcard/networks"
	"github.com/davidngn/walletcard/provider"
	"github.com/davidngn/walletcard/provider/node"
	"github.com/davidngn/walletcard/session"
	"github.com/davidngn/walletcard/store"
	"github.com/davidngn/walletcard/ui"
)

// buildController wires the session controller for CLI commands: resolves
// the selected network, constructs the node-backed provider (nil when no
// node endpoint can be found — that is the "wallet not installed" case) and
// opens the persisted-flag store. The returned cleanup must be deferred.
func buildController(u ui.UI) (*session.Controller, func(), error) {
	network, err := networks.GetNetwork(config.Network)
	if err != nil {
		suggestions := networks.SuggestNetworks(config.Network)
		if len(suggestions) > 0 {
			return nil, nil, fmt.Errorf(
				"unknown network '%s', did you mean: %s",
				config.Network, strings.Join(suggestions, ", "),
			)
		}
		return nil, nil, fmt.Errorf("unknown network '%s'", config.Network)
	}

	if config.NodeURL != "" {
		network.NodeVariableName = ""
		network.DefaultNodes = map[string]string{"custom": config.NodeURL}
	}

	accounts, err := config.LoadAccounts()
	if err != nil {
		return nil, nil, fmt.Errorf("couldn't load accounts: %w", err)
	}

	var p provider.Provider
	var nodeProvider *node.Provider
	if network.FirstNode() != "" {
		nodeProvider = node.New(network, accounts, func(accounts []string) bool {
			u.Info("The wallet provider wants to expose %d account(s) to walletcard.", len(accounts))
			return u.Confirm("Allow access?", true)
		})
		p = nodeProvider
	}

	var flags store.FlagStore
	if config.NoPersist {
		flags = store.NewMemory()
	} else {
		flags, err = store.NewBadgerStore(config.FlagDBDir())
		if err != nil {
			return nil, nil, fmt.Errorf("couldn't open the session store: %w", err)
		}
	}

	ctl := session.NewController(p, flags)
	cleanup := func() {
		ctl.Stop()
		if nodeProvider != nil {
			nodeProvider.Close()
		}
		if err := flags.Close(); err != nil {
			u.Warn("couldn't close the session store: %s", err)
		}
	}
	return ctl, cleanup, nil
}
