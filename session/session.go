// Package session owns the wallet connection state machine: one mutable
// session record, the operations that drive it (connect, disconnect, switch
// network) and the synchronization discipline with the external Provider.
package session

// Session is the single mutable record describing the current wallet
// connection. The controller is its only writer; presentation adapters read
// copies via Controller.Snapshot and must treat every field as possibly
// stale between reads.
//
// Field relationships the controller maintains:
//   - IsConnecting and IsConnected are never both true.
//   - Address is present iff IsConnected is true, except after a partial
//     refresh failure where Address reflects the attempted account (see
//     Controller sync).
//   - ChainID and Balance are only ever written together, right after
//     Address; they are absent whenever Address is absent.
//   - Error is cleared when a new attempt starts or a disconnect completes.
type Session struct {
	Address      string `json:"address"`
	IsConnected  bool   `json:"is_connected"`
	IsConnecting bool   `json:"is_connecting"`
	Error        string `json:"error,omitempty"`
	ChainID      string `json:"chain_id,omitempty"`
	Balance      string `json:"balance,omitempty"`
}

// User-facing failure messages. These are fixed strings so adapters and
// tests can match on them; the underlying causes go to the log instead.
const (
	MsgProviderNotInstalled = "provider not installed"
	MsgConnectionRejected   = "connection rejected by user"
	MsgConnectFailed        = "failed to connect"
	MsgSyncFailed           = "failed to update wallet information"
	MsgChainNotAdded        = "This network is not added to MetaMask"
	MsgSwitchRejected       = "network switch rejected by user"
	MsgSwitchFailed         = "failed to switch network"
)
