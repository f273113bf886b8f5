// Package provider defines the wallet capability contract the session
// controller is built against. A Provider is the external party that owns
// accounts and keys; walletcard only asks it questions and listens to its
// notifications. Absence of a Provider is modeled as a nil Provider handed to
// the controller, never as an ambient global lookup.
package provider

import (
	"context"
	"errors"

	"github.com/ethereum/go-ethereum/rpc"
)

// Request methods every Provider implementation must support.
const (
	// MethodRequestAccounts asks the wallet to authorize account access.
	// May prompt the user; rejections carry CodeUserRejected.
	MethodRequestAccounts = "eth_requestAccounts"

	// MethodAccounts lists already-authorized accounts without prompting.
	MethodAccounts = "eth_accounts"

	// MethodChainID returns the currently selected chain id as a hex string.
	MethodChainID = "eth_chainId"

	// MethodGetBalance returns an account's native balance in wei as a hex
	// string. Params: account address, block tag.
	MethodGetBalance = "eth_getBalance"

	// MethodSwitchChain asks the wallet to switch to another chain.
	// Params: a single SwitchChainParam.
	MethodSwitchChain = "wallet_switchEthereumChain"
)

// BlockLatest is the block tag walletcard queries balances at.
const BlockLatest = "latest"

// Events a Provider pushes to its subscribers.
const (
	// EventAccountsChanged carries the new ordered account list ([]string).
	EventAccountsChanged = "accountsChanged"

	// EventChainChanged carries the new chain id hex string. The session
	// controller does not inspect the payload; per the wallet's own
	// recommendation it asks the host to reload instead of reconciling
	// chain state in place.
	EventChainChanged = "chainChanged"
)

// Wallet rejection codes, matching the codes browser wallets emit.
const (
	// CodeUserRejected signals the user declined the wallet prompt.
	CodeUserRejected = 4001

	// CodeChainNotAdded signals the requested chain is not configured in
	// the wallet.
	CodeChainNotAdded = 4902
)

// Handler receives an event payload. Payload types per event are documented
// on the Event* constants.
type Handler func(payload interface{})

// Provider is the request/event capability of an external wallet.
//
// Request follows the go-ethereum CallContext shape: result must be a pointer
// the response is decoded into, or nil when the caller ignores the response.
//
// On registers a handler for one of the Event* notifications and returns a
// remove function. Teardown must be symmetric: every On during startup is
// paired with its remove on shutdown.
type Provider interface {
	Request(ctx context.Context, result interface{}, method string, params ...interface{}) error
	On(event string, h Handler) (remove func())
}

// SwitchChainParam is the single parameter of MethodSwitchChain.
type SwitchChainParam struct {
	ChainID string `json:"chainId"`
}

// RequestError is a wallet rejection with a numeric code. It satisfies the
// go-ethereum rpc.Error contract so callers classify rejections the same way
// regardless of whether they came from a real node or a wallet shim.
type RequestError struct {
	Code    int
	Message string
}

func (e *RequestError) Error() string {
	return e.Message
}

func (e *RequestError) ErrorCode() int {
	return e.Code
}

// CodeOf extracts the rejection code from err, or 0 when err carries none.
func CodeOf(err error) int {
	var re rpc.Error
	if errors.As(err, &re) {
		return re.ErrorCode()
	}
	return 0
}
