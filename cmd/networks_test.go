package cmd

import (
	"strings"
	"testing"

	"github.com/davidngn/walletcard/networks"
	"github.com/davidngn/walletcard/ui"
)

func TestDisplayNetworks(t *testing.T) {
	rec := ui.NewRecordingUI()
	displayNetworks(rec, []networks.Network{
		{
			Name:              "testnet",
			ChainID:           1337,
			NativeTokenSymbol: "TST",
			NodeVariableName:  "WALLETCARD_TESTNET_NODE",
			DefaultNodes:      map[string]string{"local": "http://localhost:8545"},
		},
	})

	entries := rec.Entries()
	if len(entries) == 0 || entries[0].Method != "Section" || entries[0].Value != "testnet" {
		t.Fatalf("expected a section per network, got %v", entries)
	}

	var kv []string
	for _, e := range entries {
		if e.Method == "KeyValue" {
			kv = append(kv, e.Value)
		}
	}
	expected := []string{
		"Chain ID | 1337 (0x539)",
		"Token | TST",
		"Node env var | WALLETCARD_TESTNET_NODE",
	}
	if len(kv) != len(expected) {
		t.Fatalf("expected %d key-value rows, got %v", len(expected), kv)
	}
	for i, want := range expected {
		if kv[i] != want {
			t.Errorf("row %d: want %q, got %q", i, want, kv[i])
		}
	}

	if !strings.Contains(rec.Output(), "- local: http://localhost:8545") {
		t.Errorf("expected the node list in the indented output, got %q", rec.Output())
	}
}

func TestDisplayNetworksOmitsEmptyEnvVar(t *testing.T) {
	rec := ui.NewRecordingUI()
	displayNetworks(rec, []networks.Network{
		{Name: "bare", ChainID: 2, NativeTokenSymbol: "X"},
	})

	for _, e := range rec.Entries() {
		if e.Method == "KeyValue" && strings.HasPrefix(e.Value, "Node env var") {
			t.Errorf("expected no env var row for a network without one, got %q", e.Value)
		}
	}
}
