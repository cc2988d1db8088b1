// Package rpcclient provides a JSON-RPC 2.0 client for mintfact nodes.
package rpcclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/mintfact/mintfact/internal/ledger"
	"github.com/mintfact/mintfact/internal/rpc"
)

// Client is a JSON-RPC 2.0 HTTP client.
type Client struct {
	endpoint string
	http     *http.Client
}

// New creates a new RPC client targeting the given endpoint URL.
func New(endpoint string) *Client {
	return NewWithTimeout(endpoint, 10*time.Second)
}

// NewWithTimeout creates a new RPC client with a custom HTTP timeout.
func NewWithTimeout(endpoint string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		endpoint: endpoint,
		http: &http.Client{
			Timeout: timeout,
		},
	}
}

// request is a JSON-RPC 2.0 request.
type request struct {
	JSONRPC string      `json:"jsonrpc"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params,omitempty"`
	ID      int         `json:"id"`
}

// response is a JSON-RPC 2.0 response.
type response struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
	ID      int             `json:"id"`
}

// rpcError is a JSON-RPC 2.0 error.
type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// RPCError is returned when the server responds with an error.
type RPCError struct {
	Code    int
	Message string
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// Call invokes a JSON-RPC method and unmarshals the result into the
// provided pointer. If result is nil, the response result is discarded.
func (c *Client) Call(method string, params, result interface{}) error {
	req := request{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      1,
	}

	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	resp, err := c.http.Post(c.endpoint, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var rpcResp response
	if err := json.Unmarshal(data, &rpcResp); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	if rpcResp.Error != nil {
		return &RPCError{
			Code:    rpcResp.Error.Code,
			Message: rpcResp.Error.Message,
		}
	}

	if result != nil && rpcResp.Result != nil {
		if err := json.Unmarshal(rpcResp.Result, result); err != nil {
			return fmt.Errorf("decode result: %w", err)
		}
	}

	return nil
}

// ── Typed wrappers ──────────────────────────────────────────────────────

// NodeInfo returns node identity and protocol parameters.
func (c *Client) NodeInfo() (*rpc.NodeInfoResult, error) {
	var result rpc.NodeInfoResult
	if err := c.Call("node_getInfo", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SubmitTransaction sends a signed transaction for execution.
func (c *Client) SubmitTransaction(tx *ledger.Transaction) error {
	return c.Call("ledger_submitTransaction", rpc.SubmitParam{Transaction: tx}, nil)
}

// GetAccount fetches a raw ledger account.
func (c *Client) GetAccount(addr solana.PublicKey) (*rpc.AccountResult, error) {
	var result rpc.AccountResult
	if err := c.Call("ledger_getAccount", rpc.AddressParam{Address: addr.String()}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetBalance returns the lamport balance at addr, zero if absent.
func (c *Client) GetBalance(addr solana.PublicKey) (uint64, error) {
	var result rpc.BalanceResult
	if err := c.Call("ledger_getBalance", rpc.AddressParam{Address: addr.String()}, &result); err != nil {
		return 0, err
	}
	return result.Lamports, nil
}

// RequestAirdrop asks the node faucet to credit lamports to addr and
// returns the new balance.
func (c *Client) RequestAirdrop(addr solana.PublicKey, lamports uint64) (uint64, error) {
	var result rpc.BalanceResult
	err := c.Call("ledger_requestAirdrop", rpc.AirdropParam{Address: addr.String(), Lamports: lamports}, &result)
	if err != nil {
		return 0, err
	}
	return result.Lamports, nil
}

// GetCommitment returns the node's current state commitment.
func (c *Client) GetCommitment() (string, error) {
	var result rpc.CommitmentResult
	if err := c.Call("ledger_getCommitment", nil, &result); err != nil {
		return "", err
	}
	return result.Commitment, nil
}

// GetRecord fetches the validated metadata record for a mint.
func (c *Client) GetRecord(mint solana.PublicKey) (*rpc.RecordResult, error) {
	var result rpc.RecordResult
	if err := c.Call("meta_getRecord", rpc.MintParam{Mint: mint.String()}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DeriveAddress asks the node to derive the record address for a mint.
func (c *Client) DeriveAddress(mint solana.PublicKey) (*rpc.DeriveResult, error) {
	var result rpc.DeriveResult
	if err := c.Call("meta_deriveAddress", rpc.MintParam{Mint: mint.String()}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListRecords returns all metadata records, optionally capped at limit.
func (c *Client) ListRecords(limit int) ([]*rpc.RecordResult, error) {
	var results []*rpc.RecordResult
	params := rpc.ListParam{Limit: limit}
	if err := c.Call("meta_listRecords", params, &results); err != nil {
		return nil, err
	}
	return results, nil
}
