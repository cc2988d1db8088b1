// Package node assembles a full mintfact node: storage, the ledger
// runtime with the metadata program registered, and the RPC server. It
// can be embedded in any binary.
package node

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/mintfact/mintfact/config"
	"github.com/mintfact/mintfact/internal/ledger"
	klog "github.com/mintfact/mintfact/internal/log"
	"github.com/mintfact/mintfact/internal/program"
	"github.com/mintfact/mintfact/internal/rpc"
	"github.com/mintfact/mintfact/internal/storage"
)

// Version is reported by node_getInfo.
const Version = "0.1.0"

// ledgerPrefix namespaces ledger keys so other subsystems can share
// the same database.
var ledgerPrefix = []byte("ledger/")

// Node is a fully-initialized mintfact node.
type Node struct {
	cfg    *config.Config
	logger zerolog.Logger

	db        storage.DB
	runtime   *ledger.Runtime
	rpcServer *rpc.Server
}

// New creates and initializes a Node. It opens storage and wires the
// runtime and RPC server but does not start listening. Call Start()
// for that.
func New(cfg *config.Config) (*Node, error) {
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	logFile := cfg.Log.File
	if logFile == "" && cfg.DataDir != "" {
		logsDir := filepath.Join(cfg.DataDir, "logs")
		if err := os.MkdirAll(logsDir, 0755); err != nil {
			return nil, fmt.Errorf("creating logs dir: %w", err)
		}
		logFile = filepath.Join(logsDir, "mintfact.log")
	}
	if err := klog.Init(cfg.Log.Level, cfg.Log.JSON, logFile); err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}
	logger := klog.WithComponent("node")

	logger.Info().
		Str("program_id", config.ProgramID.String()).
		Str("storage", string(cfg.Storage)).
		Msg("Starting mintfact node")

	var db storage.DB
	var err error
	switch cfg.Storage {
	case config.StorageMemory:
		db = storage.NewMemory()
	default:
		db, err = storage.NewBadger(config.DatabaseDir(cfg.DataDir))
		if err != nil {
			return nil, fmt.Errorf("open database at %s: %w", config.DatabaseDir(cfg.DataDir), err)
		}
		logger.Info().Str("path", config.DatabaseDir(cfg.DataDir)).Msg("Database opened")
	}

	rt := ledger.NewRuntime(storage.NewPrefixDB(db, ledgerPrefix))
	rt.RegisterProgram(config.ProgramID, program.New(
		config.ProgramID, config.FeeReceiver, config.TokenProgramID, config.CreationFee))

	n := &Node{
		cfg:     cfg,
		logger:  logger,
		db:      db,
		runtime: rt,
	}

	if cfg.RPC.Enabled {
		addr := fmt.Sprintf("%s:%d", cfg.RPC.Addr, cfg.RPC.Port)
		n.rpcServer = rpc.New(addr, rt, Version, cfg.RPC)
		if cfg.Faucet.Enabled {
			n.rpcServer.SetFaucet(cfg.Faucet)
			logger.Warn().Uint64("max_airdrop", cfg.Faucet.MaxAirdrop).Msg("Dev faucet enabled")
		}
	}

	return n, nil
}

// Start begins serving RPC. Safe to call when RPC is disabled.
func (n *Node) Start() error {
	if n.rpcServer == nil {
		n.logger.Info().Msg("RPC disabled, node running headless")
		return nil
	}
	if err := n.rpcServer.Start(); err != nil {
		return err
	}
	n.logger.Info().Str("addr", n.rpcServer.Addr()).Msg("RPC server listening")
	return nil
}

// Stop shuts down the RPC server and closes storage.
func (n *Node) Stop() {
	if n.rpcServer != nil {
		n.rpcServer.Stop()
	}
	if n.db != nil {
		n.db.Close()
	}
	n.logger.Info().Msg("Goodbye!")
}

// Runtime exposes the ledger runtime for embedding binaries.
func (n *Node) Runtime() *ledger.Runtime {
	return n.runtime
}

// RPCAddr returns the bound RPC address, empty when RPC is disabled.
func (n *Node) RPCAddr() string {
	if n.rpcServer == nil {
		return ""
	}
	return n.rpcServer.Addr()
}
