package cmd

import (
	"testing"

	"github.com/davidngn/walletcard/ui"
)

func TestAskAddress(t *testing.T) {
	rec := ui.NewRecordingUI("  0x4838B106FCe9647Bdf1E7877BF73cE8B0BAD5f97  ")

	got := askAddress(rec)
	if got != "0x4838B106FCe9647Bdf1E7877BF73cE8B0BAD5f97" {
		t.Errorf("want the trimmed address, got %q", got)
	}
	if !rec.HasMessage("Enter the account address") {
		t.Error("expected the prompt label before asking")
	}
}
