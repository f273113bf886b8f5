// Package node implements the Provider capability on top of a JSON-RPC
// node. Chain reads go straight to the node; the wallet-only methods
// (account authorization, network switch) are served locally from a
// configured account list and the networks registry, with an injected
// approval hook standing in for the wallet's user prompt.
package node

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/rpc"

	"github.com/davidngn/walletcard/networks"
	"github.com/davidngn/walletcard/provider"
)

const requestTimeout = 4 * time.Second

// Approver decides an authorization prompt. It receives the accounts that
// would be exposed and returns whether the user allowed it.
type Approver func(accounts []string) bool

// Provider is a Provider backed by one JSON-RPC node at a time. The node
// connection is dialed lazily on first use and re-dialed on network switch.
type Provider struct {
	mu      sync.Mutex
	name    string
	url     string
	client  *rpc.Client
	network networks.Network

	accounts   []string
	authorized bool
	approve    Approver

	handlerMu sync.Mutex
	handlers  map[string]map[uint64]provider.Handler
	nextSub   uint64
}

// New creates a node-backed Provider for the given network, exposing the
// given accounts once the approver allows it.
func New(network networks.Network, accounts []string, approve Approver) *Provider {
	return &Provider{
		name:     network.Name,
		url:      nodeURL(network),
		network:  network,
		accounts: accounts,
		approve:  approve,
		handlers: map[string]map[uint64]provider.Handler{},
	}
}

// nodeURL picks the node endpoint for a network: the env var override when
// set, else the first default node.
func nodeURL(network networks.Network) string {
	if url := os.Getenv(network.NodeVariableName); url != "" {
		return url
	}
	return network.FirstNode()
}

func (p *Provider) connection() (*rpc.Client, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.client != nil {
		return p.client, nil
	}
	if p.url == "" {
		return nil, fmt.Errorf("no node url configured for network %s", p.name)
	}
	client, err := rpc.Dial(p.url)
	if err != nil {
		return nil, fmt.Errorf("couldn't connect to %s: %w", p.name, err)
	}
	p.client = client
	return p.client, nil
}

// Request dispatches wallet-only methods locally and forwards everything
// else to the node with a fixed per-call timeout.
func (p *Provider) Request(ctx context.Context, result interface{}, method string, params ...interface{}) error {
	switch method {
	case provider.MethodRequestAccounts:
		return p.requestAccounts(result)
	case provider.MethodAccounts:
		return p.listAccounts(result)
	case provider.MethodSwitchChain:
		return p.switchChain(params)
	default:
		client, err := p.connection()
		if err != nil {
			return err
		}
		timeout, cancel := context.WithTimeout(ctx, requestTimeout)
		defer cancel()
		return client.CallContext(timeout, result, method, params...)
	}
}

func (p *Provider) requestAccounts(result interface{}) error {
	p.mu.Lock()
	accounts := p.accounts
	authorized := p.authorized
	approve := p.approve
	p.mu.Unlock()

	if !authorized {
		if approve == nil || !approve(accounts) {
			return &provider.RequestError{
				Code:    provider.CodeUserRejected,
				Message: "user rejected the request",
			}
		}
		p.mu.Lock()
		p.authorized = true
		p.mu.Unlock()
	}
	return assign(result, accounts)
}

func (p *Provider) listAccounts(result interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.authorized {
		return assign(result, []string{})
	}
	return assign(result, p.accounts)
}

func (p *Provider) switchChain(params []interface{}) error {
	if len(params) != 1 {
		return fmt.Errorf("%s expects exactly one parameter", provider.MethodSwitchChain)
	}
	var param provider.SwitchChainParam
	if err := assign(&param, params[0]); err != nil {
		return fmt.Errorf("invalid %s parameter: %w", provider.MethodSwitchChain, err)
	}

	target, err := networks.GetNetworkByHexID(param.ChainID)
	if err != nil {
		return &provider.RequestError{
			Code:    provider.CodeChainNotAdded,
			Message: fmt.Sprintf("unrecognized chain id %s", param.ChainID),
		}
	}

	url := nodeURL(target)
	if url == "" {
		return fmt.Errorf("no node url configured for network %s", target.Name)
	}
	client, err := rpc.Dial(url)
	if err != nil {
		return fmt.Errorf("couldn't connect to %s: %w", target.Name, err)
	}

	p.mu.Lock()
	if p.client != nil {
		p.client.Close()
	}
	p.client = client
	p.name = target.Name
	p.url = url
	p.network = target
	p.mu.Unlock()

	p.emit(provider.EventChainChanged, target.ChainIDHex())
	return nil
}

// On registers a handler for event and returns its remove function.
func (p *Provider) On(event string, h provider.Handler) (remove func()) {
	p.handlerMu.Lock()
	defer p.handlerMu.Unlock()
	if p.handlers[event] == nil {
		p.handlers[event] = map[uint64]provider.Handler{}
	}
	id := p.nextSub
	p.nextSub++
	p.handlers[event][id] = h
	return func() {
		p.handlerMu.Lock()
		defer p.handlerMu.Unlock()
		delete(p.handlers[event], id)
	}
}

func (p *Provider) emit(event string, payload interface{}) {
	p.handlerMu.Lock()
	hs := make([]provider.Handler, 0, len(p.handlers[event]))
	for _, h := range p.handlers[event] {
		hs = append(hs, h)
	}
	p.handlerMu.Unlock()
	for _, h := range hs {
		h(payload)
	}
}

// UpdateAccounts replaces the exposed account list and, when the host is
// already authorized, notifies subscribers the way a wallet would.
func (p *Provider) UpdateAccounts(accounts []string) {
	p.mu.Lock()
	p.accounts = accounts
	authorized := p.authorized
	p.mu.Unlock()
	if authorized {
		p.emit(provider.EventAccountsChanged, accounts)
	}
}

// Network returns the network the provider currently points at.
func (p *Provider) Network() networks.Network {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.network
}

// Close tears down the node connection, if any was established.
func (p *Provider) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.client != nil {
		p.client.Close()
		p.client = nil
	}
}

// assign decodes value into the result pointer through a JSON round trip,
// mirroring how responses decode on the wire path.
func assign(result interface{}, value interface{}) error {
	if result == nil {
		return nil
	}
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, result)
}
