package config

import "fmt"

// Validate checks runtime node config for obvious operator mistakes.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if cfg.Storage == "" {
		cfg.Storage = StorageBadger
	}
	if cfg.Storage != StorageBadger && cfg.Storage != StorageMemory {
		return fmt.Errorf("storage must be %q or %q", StorageBadger, StorageMemory)
	}
	if cfg.Storage == StorageBadger && cfg.DataDir == "" {
		return fmt.Errorf("datadir is required with badger storage")
	}
	if cfg.RPC.Port < 0 || cfg.RPC.Port > 65535 {
		return fmt.Errorf("rpc.port must be in range [0, 65535]")
	}
	if cfg.Faucet.Enabled && cfg.Faucet.MaxAirdrop == 0 {
		return fmt.Errorf("faucet.max_airdrop must be positive when the faucet is enabled")
	}
	switch cfg.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn, or error")
	}
	return nil
}
