package rpc

import (
	"github.com/mintfact/mintfact/internal/ledger"
	"github.com/mintfact/mintfact/pkg/metadata"
)

// JSON-RPC 2.0 error codes.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
	CodeNotFound       = -32000
	CodeRejected       = -32001
)

// Request is a JSON-RPC 2.0 request.
type Request struct {
	JSONRPC string      `json:"jsonrpc"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params"`
	ID      interface{} `json:"id"`
}

// Response is a JSON-RPC 2.0 response.
type Response struct {
	JSONRPC string      `json:"jsonrpc"`
	Result  interface{} `json:"result,omitempty"`
	Error   *Error      `json:"error,omitempty"`
	ID      interface{} `json:"id"`
}

// Error is a JSON-RPC 2.0 error object.
type Error struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ── Param types ─────────────────────────────────────────────────────────

// AddressParam is used by endpoints that take a single base58 address.
type AddressParam struct {
	Address string `json:"address"`
}

// MintParam is used by meta_getRecord and meta_deriveAddress.
type MintParam struct {
	Mint string `json:"mint"`
}

// SubmitParam is used by ledger_submitTransaction.
type SubmitParam struct {
	Transaction *ledger.Transaction `json:"transaction"`
}

// AirdropParam is used by ledger_requestAirdrop.
type AirdropParam struct {
	Address  string `json:"address"`
	Lamports uint64 `json:"lamports"`
}

// ListParam is used by meta_listRecords.
type ListParam struct {
	Limit int `json:"limit,omitempty"`
}

// ── Result types ────────────────────────────────────────────────────────

// NodeInfoResult is returned by node_getInfo.
type NodeInfoResult struct {
	Version     string `json:"version"`
	ProgramID   string `json:"program_id"`
	FeeReceiver string `json:"fee_receiver"`
	CreationFee uint64 `json:"creation_fee"`
	Accounts    int    `json:"accounts"`
}

// AccountResult is returned by ledger_getAccount.
type AccountResult struct {
	Address  string `json:"address"`
	Lamports uint64 `json:"lamports"`
	Owner    string `json:"owner"`
	Data     []byte `json:"data"`
}

// BalanceResult is returned by ledger_getBalance and
// ledger_requestAirdrop.
type BalanceResult struct {
	Address  string `json:"address"`
	Lamports uint64 `json:"lamports"`
}

// CommitmentResult is returned by ledger_getCommitment.
type CommitmentResult struct {
	Commitment string `json:"commitment"`
}

// DeriveResult is returned by meta_deriveAddress.
type DeriveResult struct {
	Mint    string `json:"mint"`
	Address string `json:"address"`
	Bump    uint8  `json:"bump"`
}

// RecordResult is returned by meta_getRecord and meta_listRecords.
type RecordResult struct {
	Address string           `json:"address"`
	Record  *metadata.Record `json:"record"`
}

// SubmitResult is returned by ledger_submitTransaction.
type SubmitResult struct {
	Committed bool `json:"committed"`
}
