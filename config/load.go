package config

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Load builds the node configuration from defaults, an optional config
// file, and command-line flags, in that precedence order (flags win).
func Load() (*Config, error) {
	fs := flag.NewFlagSet("mintfactd", flag.ContinueOnError)

	var (
		configPath = fs.String("config", "", "Path to config file")
		dataDir    = fs.String("datadir", "", "Data directory path")
		storage    = fs.String("storage", "", "Storage backend (badger or memory)")
		rpcAddr    = fs.String("rpc-addr", "", "RPC listen address")
		rpcPort    = fs.Int("rpc-port", -1, "RPC listen port")
		rpcAllowed = fs.String("rpc-allowed", "", "Comma-separated allowed RPC client IPs/CIDRs")
		rpcCORS    = fs.String("rpc-cors", "", "Comma-separated allowed CORS origins")
		noRPC      = fs.Bool("no-rpc", false, "Disable the RPC server")
		noFaucet   = fs.Bool("no-faucet", false, "Disable the dev faucet")
		logLevel   = fs.String("log-level", "", "Log level (debug, info, warn, error)")
		logJSON    = fs.Bool("log-json", false, "Log JSON to stdout")
		logFile    = fs.String("log-file", "", "Also write JSON logs to this file")
	)

	if err := fs.Parse(os.Args[1:]); err != nil {
		return nil, err
	}

	cfg := Default()

	if *configPath != "" {
		values, err := loadFile(*configPath)
		if err != nil {
			return nil, fmt.Errorf("config file %s: %w", *configPath, err)
		}
		if err := applyFileValues(cfg, values); err != nil {
			return nil, fmt.Errorf("config file %s: %w", *configPath, err)
		}
	}

	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}
	if *storage != "" {
		cfg.Storage = StorageBackend(*storage)
	}
	if *rpcAddr != "" {
		cfg.RPC.Addr = *rpcAddr
	}
	if *rpcPort >= 0 {
		cfg.RPC.Port = *rpcPort
	}
	if *rpcAllowed != "" {
		cfg.RPC.AllowedIPs = splitList(*rpcAllowed)
	}
	if *rpcCORS != "" {
		cfg.RPC.CORSOrigins = splitList(*rpcCORS)
	}
	if *noRPC {
		cfg.RPC.Enabled = false
	}
	if *noFaucet {
		cfg.Faucet.Enabled = false
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	if *logJSON {
		cfg.Log.JSON = true
	}
	if *logFile != "" {
		cfg.Log.File = *logFile
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFile loads node configuration from a .conf file.
// Format: key = value (one per line, # for comments)
func loadFile(path string) (map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]string), nil
		}
		return nil, err
	}
	defer file.Close()

	values := make(map[string]string)
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse key = value
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("line %d: invalid format (expected key = value)", lineNum)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// Remove quotes if present
		if len(value) >= 2 {
			if (value[0] == '"' && value[len(value)-1] == '"') ||
				(value[0] == '\'' && value[len(value)-1] == '\'') {
				value = value[1 : len(value)-1]
			}
		}

		values[key] = value
	}

	return values, scanner.Err()
}

// applyFileValues applies file configuration to a Config struct.
func applyFileValues(cfg *Config, values map[string]string) error {
	for key, value := range values {
		switch key {
		case "datadir":
			cfg.DataDir = value
		case "storage":
			cfg.Storage = StorageBackend(value)
		case "rpc.enabled":
			b, err := strconv.ParseBool(value)
			if err != nil {
				return fmt.Errorf("rpc.enabled: %w", err)
			}
			cfg.RPC.Enabled = b
		case "rpc.addr":
			cfg.RPC.Addr = value
		case "rpc.port":
			p, err := strconv.Atoi(value)
			if err != nil {
				return fmt.Errorf("rpc.port: %w", err)
			}
			cfg.RPC.Port = p
		case "rpc.allowed_ips":
			cfg.RPC.AllowedIPs = splitList(value)
		case "rpc.cors_origins":
			cfg.RPC.CORSOrigins = splitList(value)
		case "faucet.enabled":
			b, err := strconv.ParseBool(value)
			if err != nil {
				return fmt.Errorf("faucet.enabled: %w", err)
			}
			cfg.Faucet.Enabled = b
		case "faucet.max_airdrop":
			n, err := strconv.ParseUint(value, 10, 64)
			if err != nil {
				return fmt.Errorf("faucet.max_airdrop: %w", err)
			}
			cfg.Faucet.MaxAirdrop = n
		case "log.level":
			cfg.Log.Level = value
		case "log.json":
			b, err := strconv.ParseBool(value)
			if err != nil {
				return fmt.Errorf("log.json: %w", err)
			}
			cfg.Log.JSON = b
		case "log.file":
			cfg.Log.File = value
		default:
			return fmt.Errorf("unknown config key %q", key)
		}
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
