package config

// Default returns the default node configuration.
func Default() *Config {
	return &Config{
		DataDir: DefaultDataDir(),
		Storage: StorageBadger,
		RPC: RPCConfig{
			Enabled:    true,
			Addr:       "127.0.0.1",
			Port:       8899,
			AllowedIPs: []string{"127.0.0.1"},
		},
		Faucet: FaucetConfig{
			Enabled:    true,
			MaxAirdrop: 10_000_000_000, // 10 SOL per request.
		},
		Log: LogConfig{
			Level: "info",
			JSON:  false,
		},
	}
}
