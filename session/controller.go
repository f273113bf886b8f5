package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/davidngn/walletcard/common"
	"github.com/davidngn/walletcard/logging"
	"github.com/davidngn/walletcard/provider"
	"github.com/davidngn/walletcard/store"
)

// Controller drives the wallet session against an external Provider.
//
// All operations terminate in a session-record update or a log line; none of
// them return errors to the caller and none retry on their own — the user or
// a provider notification has to re-trigger the operation.
//
// Overlapping Connect calls are deliberately not serialized: a second call
// while one is in flight re-issues the provider request, which wallets
// deduplicate themselves. The record mutex below only guards field access
// and is never held across a provider call, so that behavior is preserved.
type Controller struct {
	provider provider.Provider
	flags    store.FlagStore
	log      *slog.Logger
	reload   func()

	mu     sync.Mutex
	record Session

	obsMu     sync.Mutex
	observers map[uint64]func(Session)
	nextObs   uint64

	subMu    sync.Mutex
	removers []func()
}

// Option configures a Controller at construction time.
type Option func(*Controller)

// WithLogger overrides the controller's logger.
func WithLogger(log *slog.Logger) Option {
	return func(c *Controller) {
		c.log = log
	}
}

// WithReloadFunc sets the hook invoked on a chainChanged notification. The
// wallet's documented guidance is a full reload of the host rather than
// in-place chain reconciliation, so the controller only asks — the host
// decides how to restart itself.
func WithReloadFunc(reload func()) Option {
	return func(c *Controller) {
		c.reload = reload
	}
}

// NewController creates a controller over the given Provider capability and
// persisted-flag store. A nil Provider means no wallet is installed: every
// operation then fails fast with MsgProviderNotInstalled and Installed
// reports false. A nil flags store falls back to an in-memory one.
func NewController(p provider.Provider, flags store.FlagStore, opts ...Option) *Controller {
	c := &Controller{
		provider:  p,
		flags:     flags,
		log:       logging.WithComponent("session"),
		observers: map[uint64]func(Session){},
	}
	if c.flags == nil {
		c.flags = store.NewMemory()
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.reload == nil {
		c.reload = func() {
			c.log.Warn("chain changed: host reload requested but no reload hook is installed")
		}
	}
	return c
}

// Installed reports whether a Provider capability is present at all.
func (c *Controller) Installed() bool {
	return c.provider != nil
}

// Snapshot returns a copy of the current session record.
func (c *Controller) Snapshot() Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.record
}

// OnChange registers an observer invoked with a fresh snapshot after every
// record update. The returned function removes the observer.
func (c *Controller) OnChange(fn func(Session)) (remove func()) {
	c.obsMu.Lock()
	id := c.nextObs
	c.nextObs++
	c.observers[id] = fn
	c.obsMu.Unlock()
	return func() {
		c.obsMu.Lock()
		delete(c.observers, id)
		c.obsMu.Unlock()
	}
}

// update applies mutate under the record lock, then notifies observers with
// the resulting snapshot outside of it.
func (c *Controller) update(mutate func(*Session)) {
	c.mu.Lock()
	mutate(&c.record)
	snapshot := c.record
	c.mu.Unlock()

	c.obsMu.Lock()
	fns := make([]func(Session), 0, len(c.observers))
	for _, fn := range c.observers {
		fns = append(fns, fn)
	}
	c.obsMu.Unlock()
	for _, fn := range fns {
		fn(snapshot)
	}
}

// Start installs the provider event subscriptions and runs the silent
// reconnect check. It is a no-op when no Provider is installed. Every Start
// must be paired with a Stop so teardown stays symmetric.
func (c *Controller) Start(ctx context.Context) {
	if c.provider == nil {
		return
	}

	c.subMu.Lock()
	c.removers = append(c.removers,
		c.provider.On(provider.EventAccountsChanged, c.onAccountsChanged),
		c.provider.On(provider.EventChainChanged, c.onChainChanged),
	)
	c.subMu.Unlock()

	c.reconnect(ctx)
}

// Stop removes the event subscriptions installed by Start. Safe to call
// multiple times and without a prior Start.
func (c *Controller) Stop() {
	c.subMu.Lock()
	removers := c.removers
	c.removers = nil
	c.subMu.Unlock()
	for _, remove := range removers {
		remove()
	}
}

// Connect requests account access from the Provider (which may prompt the
// user) and, on success, refreshes the session for the first authorized
// account. All failure paths end with IsConnecting cleared and a fixed
// user-facing message in Error.
func (c *Controller) Connect(ctx context.Context) {
	if c.provider == nil {
		c.update(func(s *Session) {
			s.Error = MsgProviderNotInstalled
		})
		return
	}

	log := logging.WithAttempt(c.log, uuid.New().String())

	c.update(func(s *Session) {
		s.IsConnecting = true
		s.Error = ""
	})

	var accounts []string
	err := c.provider.Request(ctx, &accounts, provider.MethodRequestAccounts)
	if err != nil {
		msg := MsgConnectFailed
		if provider.CodeOf(err) == provider.CodeUserRejected {
			msg = MsgConnectionRejected
		}
		log.Warn("account authorization failed", "err", err)
		c.update(func(s *Session) {
			s.IsConnecting = false
			s.Error = msg
		})
		return
	}

	if len(accounts) == 0 {
		// Authorization succeeded but the wallet exposed no accounts.
		log.Warn("account authorization returned an empty account list")
		c.update(func(s *Session) {
			s.IsConnecting = false
			s.Error = MsgConnectFailed
		})
		return
	}

	log.Info("account authorized", "address", accounts[0])
	c.sync(ctx, accounts[0])
}

// sync is the shared refresh routine behind Connect, auto-reconnect and
// accountsChanged handling: it queries the chain id and balance for address
// and commits all session fields in one update.
//
// On a chain-id query failure the record keeps Address as attempted, gets
// MsgSyncFailed and drops IsConnecting — but IsConnected is left untouched.
// That partial-failure behavior (a dangling address relative to
// chain/balance) is long-standing observed behavior and is preserved
// on purpose; controller_test.go pins it.
func (c *Controller) sync(ctx context.Context, address string) {
	var chainID string
	if err := c.provider.Request(ctx, &chainID, provider.MethodChainID); err != nil {
		c.log.Warn("wallet state refresh failed", "address", address, "err", err)
		c.update(func(s *Session) {
			s.Address = address
			s.IsConnecting = false
			s.Error = MsgSyncFailed
		})
		return
	}

	// A missing balance is tolerated independently of connection success.
	balance, _ := c.Balance(ctx, address)

	c.update(func(s *Session) {
		s.Address = address
		s.ChainID = chainID
		s.Balance = balance
		s.IsConnected = true
		s.IsConnecting = false
		s.Error = ""
	})

	if err := c.flags.Set(); err != nil {
		c.log.Warn("failed to persist the connected flag", "err", err)
	}
}

// Balance queries the Provider for the account's native balance at the
// latest block and formats it to exactly 4 fractional digits. Failures are
// logged and reported as absent (ok=false), never as a session error.
func (c *Controller) Balance(ctx context.Context, address string) (balance string, ok bool) {
	if c.provider == nil {
		return "", false
	}

	var raw string
	err := c.provider.Request(ctx, &raw, provider.MethodGetBalance, address, provider.BlockLatest)
	if err != nil {
		c.log.Warn("balance query failed", "address", address, "err", err)
		return "", false
	}

	wei, err := common.HexToBig(raw)
	if err != nil {
		c.log.Warn("balance response is not a hex quantity", "address", address, "raw", raw, "err", err)
		return "", false
	}
	c.log.Debug("balance fetched", "address", address, "eth", common.BigToFloat(wei, 18))
	return common.WeiToEthString(wei), true
}

// Disconnect resets the session record and clears the persisted flag. There
// is no wallet-side disconnect primitive, so no Provider call is made.
// Calling it on an already-disconnected session yields the same state.
func (c *Controller) Disconnect() {
	c.update(func(s *Session) {
		*s = Session{}
	})
	if err := c.flags.Clear(); err != nil {
		c.log.Warn("failed to clear the connected flag", "err", err)
	}
}

// SwitchNetwork asks the Provider to select the chain identified by the
// 0x-hex chainID and, on success, refreshes chain and balance when an
// account is connected. Failures set Error but never alter IsConnecting or
// IsConnected.
func (c *Controller) SwitchNetwork(ctx context.Context, chainID string) {
	if c.provider == nil {
		c.update(func(s *Session) {
			s.Error = MsgProviderNotInstalled
		})
		return
	}

	c.update(func(s *Session) {
		s.Error = ""
	})

	err := c.provider.Request(ctx, nil, provider.MethodSwitchChain, provider.SwitchChainParam{ChainID: chainID})
	if err != nil {
		var msg string
		switch provider.CodeOf(err) {
		case provider.CodeChainNotAdded:
			msg = MsgChainNotAdded
		case provider.CodeUserRejected:
			msg = MsgSwitchRejected
		default:
			msg = MsgSwitchFailed
		}
		c.log.Warn("network switch failed", "chain_id", chainID, "err", err)
		c.update(func(s *Session) {
			s.Error = msg
		})
		return
	}

	if address := c.Snapshot().Address; address != "" {
		c.sync(ctx, address)
	}
}

// reconnect silently restores the previous session: when the persisted flag
// is set it lists already-authorized accounts without prompting and syncs to
// the first one. It never toggles IsConnecting — this is a passive check,
// not a user-initiated attempt.
//
// The flag is cleared only when the passive account query itself fails; a
// successful-but-empty account list leaves it in place. That asymmetry is
// observed behavior and is kept as is (see DESIGN.md).
func (c *Controller) reconnect(ctx context.Context) {
	wasConnected, err := c.flags.Get()
	if err != nil {
		c.log.Warn("failed to read the connected flag", "err", err)
		return
	}
	if !wasConnected {
		return
	}

	var accounts []string
	if err := c.provider.Request(ctx, &accounts, provider.MethodAccounts); err != nil {
		c.log.Warn("silent reconnect failed", "err", err)
		if err := c.flags.Clear(); err != nil {
			c.log.Warn("failed to clear the connected flag", "err", err)
		}
		return
	}

	if len(accounts) == 0 {
		c.log.Debug("silent reconnect: no authorized accounts")
		return
	}

	c.log.Info("silent reconnect", "address", accounts[0])
	c.sync(ctx, accounts[0])
}

// onAccountsChanged reacts to the wallet's account-list notification: an
// empty list is a wallet-side disconnect; a new head account triggers a
// refresh; an unchanged head is a no-op.
func (c *Controller) onAccountsChanged(payload interface{}) {
	accounts := accountList(payload)
	if len(accounts) == 0 {
		c.log.Info("wallet reported no accounts, disconnecting")
		c.Disconnect()
		return
	}
	if accounts[0] == c.Snapshot().Address {
		return
	}
	c.log.Info("wallet switched account", "address", accounts[0])
	c.sync(context.Background(), accounts[0])
}

// onChainChanged follows the wallet's documented recommendation: request a
// full host reload instead of reconciling chain state in place.
func (c *Controller) onChainChanged(payload interface{}) {
	c.log.Info("wallet switched chain, requesting host reload")
	c.reload()
}

// accountList normalizes an accountsChanged payload. Payloads arrive as
// []string from in-process providers or []interface{} when decoded from
// JSON; anything else counts as an empty list.
func accountList(payload interface{}) []string {
	switch v := payload.(type) {
	case []string:
		return v
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
