// Package config handles application configuration.
//
// Configuration is split into two categories:
//   - Protocol constants: program identity, fees, field bounds — fixed at
//     build time, identical for every deployment (protocol.go)
//   - Node settings: runtime configuration, can vary per node
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// StorageBackend selects the account store implementation.
type StorageBackend string

const (
	StorageBadger StorageBackend = "badger"
	StorageMemory StorageBackend = "memory"
)

// Config holds node-specific runtime configuration.
type Config struct {
	// Core
	DataDir string         `conf:"datadir"`
	Storage StorageBackend `conf:"storage"`

	// RPC server
	RPC RPCConfig

	// Dev faucet
	Faucet FaucetConfig

	// Logging
	Log LogConfig
}

// RPCConfig holds the JSON-RPC server settings.
type RPCConfig struct {
	Enabled     bool     `conf:"rpc.enabled"`
	Addr        string   `conf:"rpc.addr"`
	Port        int      `conf:"rpc.port"`
	AllowedIPs  []string `conf:"rpc.allowed_ips"`
	CORSOrigins []string `conf:"rpc.cors_origins"`
}

// FaucetConfig controls the ledger_requestAirdrop method. Intended for
// local development; disable on anything shared.
type FaucetConfig struct {
	Enabled    bool   `conf:"faucet.enabled"`
	MaxAirdrop uint64 `conf:"faucet.max_airdrop"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `conf:"log.level"`
	JSON  bool   `conf:"log.json"`
	File  string `conf:"log.file"`
}

// DefaultDataDir returns the platform-appropriate data directory.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".mintfact"
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "MintFact")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "MintFact")
	default:
		return filepath.Join(home, ".mintfact")
	}
}

// KeyringDir returns the keyring path under the data directory.
func KeyringDir(dataDir string) string {
	return filepath.Join(dataDir, "keyring")
}

// DatabaseDir returns the account database path under the data directory.
func DatabaseDir(dataDir string) string {
	return filepath.Join(dataDir, "db")
}
