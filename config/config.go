package config

import (
	"encoding/json"
	"log"
	"os"
	"os/user"
	"path/filepath"
)

// Flag-bound settings, populated by cmd before any command runs.
var (
	Network   string
	NodeURL   string
	LogLevel  string
	LogFormat string
	APIAddr   string
	NoPersist bool
)

func getHomeDir() string {
	usr, err := user.Current()
	if err != nil {
		log.Fatal(err)
	}
	return usr.HomeDir
}

// DataDir is where walletcard keeps everything it persists.
func DataDir() string {
	return filepath.Join(getHomeDir(), ".walletcard")
}

// FlagDBDir holds the Badger database backing the persisted session flag.
func FlagDBDir() string {
	return filepath.Join(DataDir(), "db")
}

// AccountsPath is the JSON file listing the account addresses the local
// provider exposes after authorization.
func AccountsPath() string {
	return filepath.Join(DataDir(), "accounts.json")
}

// LoadAccounts reads the configured account list. A missing file is an empty
// list, not an error.
func LoadAccounts() ([]string, error) {
	content, err := os.ReadFile(AccountsPath())
	if os.IsNotExist(err) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}
	accounts := []string{}
	if err := json.Unmarshal(content, &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

// SaveAccounts writes the account list, creating the data dir when needed.
func SaveAccounts(accounts []string) error {
	if err := os.MkdirAll(DataDir(), 0755); err != nil {
		return err
	}
	content, err := json.MarshalIndent(accounts, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(AccountsPath(), content, 0644)
}
