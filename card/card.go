// Package card renders the wallet display card: a read-only projection of
// the session record into human-readable form. It never mutates the session;
// user intents (connect, disconnect, switch) are dispatched to the
// controller by the commands that own the card.
package card

import (
	"github.com/davidngn/walletcard/common"
	"github.com/davidngn/walletcard/networks"
	"github.com/davidngn/walletcard/session"
	"github.com/davidngn/walletcard/ui"
)

const absent = "—"

// Card draws the wallet card onto a UI.
type Card struct {
	u ui.UI
}

func New(u ui.UI) *Card {
	return &Card{u: u}
}

// Render draws the card for one session snapshot. installed reports whether
// a wallet Provider is present at all; without one the card is reduced to a
// hint to install a wallet.
func (c *Card) Render(s session.Session, installed bool) {
	if !installed {
		c.u.Warn("No wallet provider is installed.")
		return
	}

	c.u.Section("Wallet")
	rows := [][]string{
		{"Status", c.u.Style(statusText(s))},
		{"Account", accountText(s)},
		{"Network", networkText(s)},
		{"Balance", balanceText(s)},
	}
	c.u.Table(nil, rows)

	if s.Error != "" {
		c.u.Error("%s", s.Error)
	}
}

func statusText(s session.Session) ui.StyledText {
	switch {
	case s.IsConnecting:
		return ui.StyledText{Text: "Connecting", Severity: ui.SeverityWarn}
	case s.IsConnected:
		return ui.StyledText{Text: "Connected", Severity: ui.SeveritySuccess}
	default:
		return ui.StyledText{Text: "Disconnected", Severity: ui.SeverityInfo}
	}
}

func accountText(s session.Session) string {
	if s.Address == "" {
		return absent
	}
	return common.ShortenAddress(s.Address)
}

func networkText(s session.Session) string {
	if s.ChainID == "" {
		return absent
	}
	return networks.DisplayName(s.ChainID)
}

func balanceText(s session.Session) string {
	if s.Balance == "" {
		return absent
	}
	symbol := "ETH"
	if n, err := networks.GetNetworkByHexID(s.ChainID); err == nil {
		symbol = n.NativeTokenSymbol
	}
	return s.Balance + " " + symbol
}
