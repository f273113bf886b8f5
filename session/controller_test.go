package session_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/davidngn/walletcard/provider"
	"github.com/davidngn/walletcard/session"
	"github.com/davidngn/walletcard/store"
)

// fakeProvider is an in-memory Provider for controller tests. Each request
// method can be scripted to fail, and every call is logged so tests can
// assert which wallet interactions happened.
type fakeProvider struct {
	mu sync.Mutex

	accounts []string
	chainID  string
	balances map[string]string

	errs  map[string]error
	calls []string

	handlers map[string]map[int]provider.Handler
	nextID   int
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		chainID:  "0x1",
		balances: map[string]string{},
		errs:     map[string]error{},
		handlers: map[string]map[int]provider.Handler{},
	}
}

func (f *fakeProvider) failWith(method string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[method] = err
}

func (f *fakeProvider) callCount(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, call := range f.calls {
		if call == method {
			count++
		}
	}
	return count
}

func (f *fakeProvider) Request(ctx context.Context, result interface{}, method string, params ...interface{}) error {
	f.mu.Lock()
	f.calls = append(f.calls, method)
	err := f.errs[method]
	accounts := append([]string{}, f.accounts...)
	chainID := f.chainID
	f.mu.Unlock()

	if err != nil {
		return err
	}

	switch method {
	case provider.MethodRequestAccounts, provider.MethodAccounts:
		*(result.(*[]string)) = accounts
	case provider.MethodChainID:
		*(result.(*string)) = chainID
	case provider.MethodGetBalance:
		address := params[0].(string)
		f.mu.Lock()
		balance, ok := f.balances[address]
		f.mu.Unlock()
		if !ok {
			return errors.New("no balance recorded for account")
		}
		*(result.(*string)) = balance
	case provider.MethodSwitchChain:
		param := params[0].(provider.SwitchChainParam)
		f.mu.Lock()
		f.chainID = param.ChainID
		f.mu.Unlock()
	default:
		return errors.New("unexpected method: " + method)
	}
	return nil
}

func (f *fakeProvider) On(event string, h provider.Handler) (remove func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.handlers[event] == nil {
		f.handlers[event] = map[int]provider.Handler{}
	}
	id := f.nextID
	f.nextID++
	f.handlers[event][id] = h
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.handlers[event], id)
	}
}

func (f *fakeProvider) emit(event string, payload interface{}) {
	f.mu.Lock()
	hs := make([]provider.Handler, 0, len(f.handlers[event]))
	for _, h := range f.handlers[event] {
		hs = append(hs, h)
	}
	f.mu.Unlock()
	for _, h := range hs {
		h(payload)
	}
}

const (
	addr1 = "0x4838B106FCe9647Bdf1E7877BF73cE8B0BAD5f97"
	addr2 = "0x9642b23Ed1E01Df1092B92641051881a322F5D4E"

	oneEthHex = "0xde0b6b3a7640000"
)

func connectedController(t *testing.T) (*session.Controller, *fakeProvider, *store.Memory) {
	t.Helper()

	p := newFakeProvider()
	p.accounts = []string{addr1}
	p.balances[addr1] = oneEthHex

	flags := store.NewMemory()
	ctl := session.NewController(p, flags)
	ctl.Connect(context.Background())

	if s := ctl.Snapshot(); !s.IsConnected {
		t.Fatalf("fixture: expected a connected session, got %+v", s)
	}
	return ctl, p, flags
}

func assertFlag(t *testing.T, flags *store.Memory, want bool) {
	t.Helper()
	got, err := flags.Get()
	if err != nil {
		t.Fatalf("read connected flag: %s", err)
	}
	if got != want {
		t.Errorf("connected flag: want %v, got %v", want, got)
	}
}

// ---------------------------------------------------------------------------
// Connect
// ---------------------------------------------------------------------------

func TestConnectSuccess(t *testing.T) {
	ctl, _, flags := connectedController(t)

	s := ctl.Snapshot()
	if s.Address != addr1 {
		t.Errorf("Address: want %q, got %q", addr1, s.Address)
	}
	if !s.IsConnected || s.IsConnecting {
		t.Errorf("expected connected and not connecting, got %+v", s)
	}
	if s.ChainID != "0x1" {
		t.Errorf("ChainID: want %q, got %q", "0x1", s.ChainID)
	}
	if s.Balance != "1.0000" {
		t.Errorf("Balance: want %q, got %q", "1.0000", s.Balance)
	}
	if s.Error != "" {
		t.Errorf("Error: want empty, got %q", s.Error)
	}
	assertFlag(t, flags, true)
}

func TestConnectRejectedByUser(t *testing.T) {
	p := newFakeProvider()
	p.failWith(provider.MethodRequestAccounts, &provider.RequestError{
		Code:    provider.CodeUserRejected,
		Message: "user rejected the request",
	})
	ctl := session.NewController(p, nil)

	ctl.Connect(context.Background())

	s := ctl.Snapshot()
	if s.Error != session.MsgConnectionRejected {
		t.Errorf("Error: want %q, got %q", session.MsgConnectionRejected, s.Error)
	}
	if s.IsConnecting || s.IsConnected {
		t.Errorf("expected neither connecting nor connected, got %+v", s)
	}
}

func TestConnectGenericFailure(t *testing.T) {
	p := newFakeProvider()
	p.failWith(provider.MethodRequestAccounts, errors.New("wallet unreachable"))
	ctl := session.NewController(p, nil)

	ctl.Connect(context.Background())

	s := ctl.Snapshot()
	if s.Error != session.MsgConnectFailed {
		t.Errorf("Error: want %q, got %q", session.MsgConnectFailed, s.Error)
	}
	if s.IsConnecting {
		t.Error("expected IsConnecting cleared after failure")
	}
}

func TestConnectEmptyAccountList(t *testing.T) {
	p := newFakeProvider() // authorization succeeds but exposes no accounts
	ctl := session.NewController(p, nil)

	ctl.Connect(context.Background())

	s := ctl.Snapshot()
	if s.Error != session.MsgConnectFailed {
		t.Errorf("Error: want %q, got %q", session.MsgConnectFailed, s.Error)
	}
	if s.IsConnected || s.IsConnecting {
		t.Errorf("expected neither connecting nor connected, got %+v", s)
	}
}

func TestConnectWithoutProvider(t *testing.T) {
	ctl := session.NewController(nil, nil)

	if ctl.Installed() {
		t.Error("Installed: want false for a nil provider")
	}

	ctl.Connect(context.Background())

	s := ctl.Snapshot()
	if s.Error != session.MsgProviderNotInstalled {
		t.Errorf("Error: want %q, got %q", session.MsgProviderNotInstalled, s.Error)
	}
	if s.IsConnecting || s.IsConnected {
		t.Errorf("expected neither connecting nor connected, got %+v", s)
	}
}

func TestConnectClearsPreviousError(t *testing.T) {
	p := newFakeProvider()
	p.failWith(provider.MethodRequestAccounts, errors.New("wallet unreachable"))
	ctl := session.NewController(p, nil)

	ctl.Connect(context.Background())
	if s := ctl.Snapshot(); s.Error != session.MsgConnectFailed {
		t.Fatalf("fixture: want a failed first attempt, got %+v", s)
	}

	p.failWith(provider.MethodRequestAccounts, nil)
	p.mu.Lock()
	p.accounts = []string{addr1}
	p.balances[addr1] = oneEthHex
	p.mu.Unlock()

	ctl.Connect(context.Background())

	s := ctl.Snapshot()
	if s.Error != "" {
		t.Errorf("Error: want empty after successful retry, got %q", s.Error)
	}
	if !s.IsConnected {
		t.Error("expected connected after successful retry")
	}
}

// ---------------------------------------------------------------------------
// Refresh (chain id + balance)
// ---------------------------------------------------------------------------

func TestConnectSyncFailureLeavesConnectionUntouched(t *testing.T) {
	p := newFakeProvider()
	p.accounts = []string{addr1}
	p.failWith(provider.MethodChainID, errors.New("node timeout"))
	ctl := session.NewController(p, nil)

	ctl.Connect(context.Background())

	s := ctl.Snapshot()
	if s.Error != session.MsgSyncFailed {
		t.Errorf("Error: want %q, got %q", session.MsgSyncFailed, s.Error)
	}
	// The attempted address is recorded even though the refresh failed, and
	// the connected bit keeps its previous value (false here).
	if s.Address != addr1 {
		t.Errorf("Address: want %q, got %q", addr1, s.Address)
	}
	if s.IsConnected {
		t.Error("expected IsConnected to keep its previous value (false)")
	}
	if s.IsConnecting {
		t.Error("expected IsConnecting cleared")
	}
	if s.ChainID != "" || s.Balance != "" {
		t.Errorf("expected no chain/balance after a failed refresh, got %+v", s)
	}
}

func TestRefreshFailureKeepsConnectedSession(t *testing.T) {
	ctl, p, _ := connectedController(t)
	ctl.Start(context.Background())
	defer ctl.Stop()

	p.failWith(provider.MethodChainID, errors.New("node timeout"))
	p.emit(provider.EventAccountsChanged, []string{addr2})

	s := ctl.Snapshot()
	if !s.IsConnected {
		t.Error("expected IsConnected to keep its previous value (true)")
	}
	if s.Address != addr2 {
		t.Errorf("Address: want %q, got %q", addr2, s.Address)
	}
	if s.Error != session.MsgSyncFailed {
		t.Errorf("Error: want %q, got %q", session.MsgSyncFailed, s.Error)
	}
}

func TestBalanceFailureIsNotASessionError(t *testing.T) {
	p := newFakeProvider()
	p.accounts = []string{addr1} // no balance recorded for addr1
	ctl := session.NewController(p, nil)

	ctl.Connect(context.Background())

	s := ctl.Snapshot()
	if !s.IsConnected {
		t.Fatalf("expected connected despite the balance failure, got %+v", s)
	}
	if s.Error != "" {
		t.Errorf("Error: want empty, got %q", s.Error)
	}
	if s.Balance != "" {
		t.Errorf("Balance: want absent, got %q", s.Balance)
	}
	if s.ChainID != "0x1" {
		t.Errorf("ChainID: want %q, got %q", "0x1", s.ChainID)
	}
}

// ---------------------------------------------------------------------------
// Disconnect
// ---------------------------------------------------------------------------

func TestDisconnect(t *testing.T) {
	ctl, _, flags := connectedController(t)

	ctl.Disconnect()

	if s := ctl.Snapshot(); s != (session.Session{}) {
		t.Errorf("expected a zero session after disconnect, got %+v", s)
	}
	assertFlag(t, flags, false)

	// Disconnecting again yields the same state.
	ctl.Disconnect()
	if s := ctl.Snapshot(); s != (session.Session{}) {
		t.Errorf("expected a zero session after repeated disconnect, got %+v", s)
	}
}

// ---------------------------------------------------------------------------
// Silent reconnect on Start
// ---------------------------------------------------------------------------

func TestSilentReconnect(t *testing.T) {
	p := newFakeProvider()
	p.accounts = []string{addr1}
	p.balances[addr1] = oneEthHex
	flags := store.NewMemory()
	if err := flags.Set(); err != nil {
		t.Fatal(err)
	}

	ctl := session.NewController(p, flags)
	ctl.Start(context.Background())
	defer ctl.Stop()

	s := ctl.Snapshot()
	if !s.IsConnected || s.Address != addr1 {
		t.Errorf("expected a silently restored session for %s, got %+v", addr1, s)
	}
	if got := p.callCount(provider.MethodRequestAccounts); got != 0 {
		t.Errorf("silent reconnect must not prompt, got %d authorization request(s)", got)
	}
}

func TestSilentReconnectSkippedWithoutFlag(t *testing.T) {
	p := newFakeProvider()
	p.accounts = []string{addr1}

	ctl := session.NewController(p, store.NewMemory())
	ctl.Start(context.Background())
	defer ctl.Stop()

	if s := ctl.Snapshot(); s.IsConnected {
		t.Errorf("expected no reconnect without the persisted flag, got %+v", s)
	}
	if got := p.callCount(provider.MethodAccounts); got != 0 {
		t.Errorf("expected no account query without the persisted flag, got %d", got)
	}
}

func TestSilentReconnectNoAuthorizedAccounts(t *testing.T) {
	p := newFakeProvider() // flag set, but the wallet exposes no accounts
	flags := store.NewMemory()
	if err := flags.Set(); err != nil {
		t.Fatal(err)
	}

	ctl := session.NewController(p, flags)
	ctl.Start(context.Background())
	defer ctl.Stop()

	if s := ctl.Snapshot(); s.IsConnected || s.Error != "" {
		t.Errorf("expected an untouched session, got %+v", s)
	}
	// An empty-but-successful account query leaves the flag in place.
	assertFlag(t, flags, true)
}

func TestSilentReconnectQueryFailureClearsFlag(t *testing.T) {
	p := newFakeProvider()
	p.failWith(provider.MethodAccounts, errors.New("wallet unreachable"))
	flags := store.NewMemory()
	if err := flags.Set(); err != nil {
		t.Fatal(err)
	}

	ctl := session.NewController(p, flags)
	ctl.Start(context.Background())
	defer ctl.Stop()

	if s := ctl.Snapshot(); s.IsConnected || s.Error != "" {
		t.Errorf("expected an untouched session, got %+v", s)
	}
	assertFlag(t, flags, false)
}

// ---------------------------------------------------------------------------
// Provider notifications
// ---------------------------------------------------------------------------

func TestAccountsChangedEmptyListDisconnects(t *testing.T) {
	ctl, p, flags := connectedController(t)
	ctl.Start(context.Background())
	defer ctl.Stop()

	p.emit(provider.EventAccountsChanged, []string{})

	if s := ctl.Snapshot(); s != (session.Session{}) {
		t.Errorf("expected a zero session after the wallet dropped all accounts, got %+v", s)
	}
	assertFlag(t, flags, false)
}

func TestAccountsChangedSameHeadIsNoop(t *testing.T) {
	ctl, p, _ := connectedController(t)
	ctl.Start(context.Background())
	defer ctl.Stop()

	before := p.callCount(provider.MethodChainID)
	p.emit(provider.EventAccountsChanged, []string{addr1})

	if after := p.callCount(provider.MethodChainID); after != before {
		t.Errorf("expected no refresh for an unchanged head account, got %d extra request(s)", after-before)
	}
	if s := ctl.Snapshot(); s.Address != addr1 || !s.IsConnected {
		t.Errorf("expected an unchanged session, got %+v", s)
	}
}

func TestAccountsChangedNewHeadRefreshes(t *testing.T) {
	ctl, p, _ := connectedController(t)
	ctl.Start(context.Background())
	defer ctl.Stop()

	p.mu.Lock()
	p.balances[addr2] = "0x0"
	p.mu.Unlock()
	p.emit(provider.EventAccountsChanged, []string{addr2, addr1})

	s := ctl.Snapshot()
	if s.Address != addr2 {
		t.Errorf("Address: want %q, got %q", addr2, s.Address)
	}
	if s.Balance != "0.0000" {
		t.Errorf("Balance: want %q, got %q", "0.0000", s.Balance)
	}
	if !s.IsConnected {
		t.Error("expected connected after the account switch")
	}
}

func TestAccountsChangedJSONPayload(t *testing.T) {
	ctl, p, _ := connectedController(t)
	ctl.Start(context.Background())
	defer ctl.Stop()

	// Payloads decoded from JSON arrive as []interface{}.
	p.emit(provider.EventAccountsChanged, []interface{}{})

	if s := ctl.Snapshot(); s != (session.Session{}) {
		t.Errorf("expected a zero session, got %+v", s)
	}
}

func TestChainChangedRequestsReload(t *testing.T) {
	p := newFakeProvider()
	p.accounts = []string{addr1}
	p.balances[addr1] = oneEthHex

	reloads := 0
	ctl := session.NewController(p, nil, session.WithReloadFunc(func() {
		reloads++
	}))
	ctl.Start(context.Background())
	defer ctl.Stop()
	ctl.Connect(context.Background())

	before := ctl.Snapshot()
	p.emit(provider.EventChainChanged, "0x38")

	if reloads != 1 {
		t.Errorf("expected 1 reload request, got %d", reloads)
	}
	// The payload is not reconciled into the record; the host reload is the
	// refresh mechanism.
	if s := ctl.Snapshot(); s != before {
		t.Errorf("expected an unchanged session, got %+v", s)
	}
}

func TestStopRemovesSubscriptions(t *testing.T) {
	ctl, p, _ := connectedController(t)
	ctl.Start(context.Background())
	ctl.Stop()

	p.emit(provider.EventAccountsChanged, []string{})

	if s := ctl.Snapshot(); !s.IsConnected {
		t.Errorf("expected the session to survive events after Stop, got %+v", s)
	}
}

// ---------------------------------------------------------------------------
// SwitchNetwork
// ---------------------------------------------------------------------------

func TestSwitchNetworkSuccessRefreshes(t *testing.T) {
	ctl, _, _ := connectedController(t)

	ctl.SwitchNetwork(context.Background(), "0x38")

	s := ctl.Snapshot()
	if s.ChainID != "0x38" {
		t.Errorf("ChainID: want %q, got %q", "0x38", s.ChainID)
	}
	if s.Error != "" {
		t.Errorf("Error: want empty, got %q", s.Error)
	}
	if !s.IsConnected || s.Address != addr1 {
		t.Errorf("expected the connected account to survive the switch, got %+v", s)
	}
}

func TestSwitchNetworkChainNotAdded(t *testing.T) {
	ctl, p, _ := connectedController(t)
	before := ctl.Snapshot()

	p.failWith(provider.MethodSwitchChain, &provider.RequestError{
		Code:    provider.CodeChainNotAdded,
		Message: "unrecognized chain id",
	})
	ctl.SwitchNetwork(context.Background(), "0x2105")

	s := ctl.Snapshot()
	if s.Error != "This network is not added to MetaMask" {
		t.Errorf("Error: want %q, got %q", "This network is not added to MetaMask", s.Error)
	}
	s.Error = before.Error
	if s != before {
		t.Errorf("expected every other field unchanged, got %+v", ctl.Snapshot())
	}
}

func TestSwitchNetworkRejectedByUser(t *testing.T) {
	ctl, p, _ := connectedController(t)

	p.failWith(provider.MethodSwitchChain, &provider.RequestError{
		Code:    provider.CodeUserRejected,
		Message: "user rejected the request",
	})
	ctl.SwitchNetwork(context.Background(), "0x38")

	s := ctl.Snapshot()
	if s.Error != session.MsgSwitchRejected {
		t.Errorf("Error: want %q, got %q", session.MsgSwitchRejected, s.Error)
	}
	if !s.IsConnected {
		t.Error("expected the session to stay connected")
	}
}

func TestSwitchNetworkGenericFailure(t *testing.T) {
	ctl, p, _ := connectedController(t)

	p.failWith(provider.MethodSwitchChain, errors.New("wallet unreachable"))
	ctl.SwitchNetwork(context.Background(), "0x38")

	if s := ctl.Snapshot(); s.Error != session.MsgSwitchFailed {
		t.Errorf("Error: want %q, got %q", session.MsgSwitchFailed, s.Error)
	}
}

func TestSwitchNetworkWithoutProvider(t *testing.T) {
	ctl := session.NewController(nil, nil)

	ctl.SwitchNetwork(context.Background(), "0x38")

	if s := ctl.Snapshot(); s.Error != session.MsgProviderNotInstalled {
		t.Errorf("Error: want %q, got %q", session.MsgProviderNotInstalled, s.Error)
	}
}

func TestSwitchNetworkClearsErrorAtStart(t *testing.T) {
	ctl, p, _ := connectedController(t)

	p.failWith(provider.MethodSwitchChain, errors.New("wallet unreachable"))
	ctl.SwitchNetwork(context.Background(), "0x38")
	if s := ctl.Snapshot(); s.Error != session.MsgSwitchFailed {
		t.Fatalf("fixture: want a failed first switch, got %+v", s)
	}

	var seenErrors []string
	remove := ctl.OnChange(func(s session.Session) {
		seenErrors = append(seenErrors, s.Error)
	})
	defer remove()

	ctl.SwitchNetwork(context.Background(), "0x89")

	// The stale error clears the moment the new switch starts, then the new
	// failure replaces it.
	if len(seenErrors) != 2 {
		t.Fatalf("expected 2 notifications (cleared, failed), got %v", seenErrors)
	}
	if seenErrors[0] != "" {
		t.Errorf("first notification: want the stale error cleared, got %q", seenErrors[0])
	}
	if seenErrors[1] != session.MsgSwitchFailed {
		t.Errorf("second notification: want %q, got %q", session.MsgSwitchFailed, seenErrors[1])
	}
}

func TestSwitchNetworkWhileDisconnected(t *testing.T) {
	p := newFakeProvider()
	ctl := session.NewController(p, nil)

	ctl.SwitchNetwork(context.Background(), "0x38")

	s := ctl.Snapshot()
	if s.Error != "" {
		t.Errorf("Error: want empty, got %q", s.Error)
	}
	// No account is connected, so nothing to refresh.
	if got := p.callCount(provider.MethodChainID); got != 0 {
		t.Errorf("expected no refresh without a connected account, got %d", got)
	}
}

// ---------------------------------------------------------------------------
// Observers
// ---------------------------------------------------------------------------

func TestOnChange(t *testing.T) {
	p := newFakeProvider()
	p.accounts = []string{addr1}
	p.balances[addr1] = oneEthHex
	ctl := session.NewController(p, nil)

	var seen []session.Session
	remove := ctl.OnChange(func(s session.Session) {
		seen = append(seen, s)
	})

	ctl.Connect(context.Background())
	if len(seen) < 2 {
		t.Fatalf("expected at least 2 notifications (connecting, connected), got %d", len(seen))
	}
	if first := seen[0]; !first.IsConnecting {
		t.Errorf("first notification: want IsConnecting, got %+v", first)
	}
	if last := seen[len(seen)-1]; !last.IsConnected || last.Address != addr1 {
		t.Errorf("last notification: want a connected session, got %+v", last)
	}

	remove()
	count := len(seen)
	ctl.Disconnect()
	if len(seen) != count {
		t.Errorf("expected no notifications after remove, got %d extra", len(seen)-count)
	}
}
